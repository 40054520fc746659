package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"team-synapse/backend/internal/graph"
	"team-synapse/backend/internal/ingest"
	"team-synapse/backend/pkg/config"
	"team-synapse/backend/pkg/logger"
)

// Seeds a tenant with demo meetings so the query endpoints and MCP tools
// have something to show. Run with: go run scripts/seed.go -tenant demo

func main() {
	tenant := flag.String("tenant", "demo", "Tenant to seed")
	reset := flag.Bool("reset", false, "Delete the tenant's existing data first")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...", zap.String("tenant", *tenant))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	if *reset {
		if err := resetTenant(ctx, cfg, *tenant); err != nil {
			log.Fatal("Failed to reset tenant", zap.Error(err))
		}
		log.Info("Tenant data cleared", zap.String("tenant", *tenant))
	}

	repo, err := graph.NewRepository(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer repo.Close(context.Background())

	pipeline := ingest.NewPipeline(repo)

	results := pipeline.ProcessBatch(ctx, demoMeetings(*tenant), cfg.BatchParallelism)
	stored := 0
	for _, result := range results {
		if result.GraphStored {
			stored++
		} else {
			log.Warn("Seed meeting was not stored",
				zap.String("meeting_id", result.MeetingID),
				zap.String("warning", result.Warning),
			)
		}
	}

	summary := repo.KnowledgeGraphSummary(ctx, *tenant)
	log.Info("Seeding complete",
		zap.Int("meetings_stored", stored),
		zap.Int64("meetings", summary.Meetings),
		zap.Int64("people", summary.People),
		zap.Int64("action_items", summary.ActionItems),
		zap.Int64("decisions", summary.Decisions),
	)
}

func resetTenant(ctx context.Context, cfg *config.Config, tenant string) error {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	session := driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: cfg.Neo4jDatabase,
	})
	defer session.Close(ctx)

	_, err = session.Run(ctx,
		`MATCH (n {tenantId: $tenantId}) DETACH DELETE n`,
		map[string]interface{}{"tenantId": tenant},
	)
	if err != nil {
		return fmt.Errorf("failed to delete tenant data: %w", err)
	}
	return nil
}

func demoMeetings(tenant string) []graph.AnalysisRecord {
	duration := 45
	return []graph.AnalysisRecord{
		{
			MeetingID:    tenant + "_mtg_demo_sprint_planning",
			TenantID:     tenant,
			MeetingTitle: "Sprint 14 Planning",
			Summary:      "Planned the payment gateway migration sprint. Capacity is tight with two engineers on support rotation.",
			MeetingDate:  "2026-08-24",
			Sentiment:    "positive",
			MeetingType:  "planning",
			Duration:     &duration,
			Topics:       []string{"payment gateway", "sprint planning"},
			Transcript:   "We agreed to prioritize the payment gateway migration this sprint. Sarah will own the API cutover and Marcus handles the rollback plan.",
			ActionItems: []graph.ActionItemInput{
				{Task: "Draft payment gateway cutover plan", Assignee: "Sarah", Priority: "high", DueDate: "2026-08-28", Status: "in_progress"},
				{Task: "Write rollback runbook", Assignee: "Marcus", Priority: "medium", DueDate: "2026-09-01"},
				{Task: "Update status page templates", Priority: "low"},
			},
			KeyDecisions: []string{
				"Migrate to the new payment gateway before end of Q3",
				"Keep the legacy gateway in read-only mode for 30 days",
			},
			MentionedClients:  []string{"Acme Corp"},
			MentionedProjects: []string{"Gateway Migration"},
			InviteMetadata: &graph.InviteMetadata{
				MeetingTitle: "Sprint 14 Planning",
				MeetingDate:  "2026-08-24",
				Attendees: []graph.Attendee{
					{Name: "Sarah Connor", Email: "sarah@example.com"},
					{Name: "Marcus Webb", Email: "marcus@example.com"},
				},
			},
		},
		{
			MeetingID:    tenant + "_mtg_demo_client_sync",
			TenantID:     tenant,
			MeetingTitle: "Acme Corp Quarterly Review",
			Summary:      "Reviewed Q3 deliverables with Acme Corp. They are blocked on our sandbox credentials.",
			MeetingDate:  "2026-08-26",
			Sentiment:    "neutral",
			MeetingType:  "client",
			Topics:       []string{"quarterly review", "sandbox access"},
			Transcript:   "Acme Corp flagged that their integration team is still waiting on sandbox credentials for the payment gateway.",
			ActionItems: []graph.ActionItemInput{
				{Task: "Provision Acme sandbox credentials", Assignee: "Marcus", Priority: "high", Status: "blocked", Blockers: []string{"Waiting on security review"}},
			},
			KeyDecisions:      []string{"Move Acme onto the new gateway sandbox by mid-September"},
			MentionedClients:  []string{"Acme Corp"},
			MentionedProjects: []string{"Gateway Migration"},
			InviteMetadata: &graph.InviteMetadata{
				Attendees: []graph.Attendee{
					{Name: "Marcus Webb", Email: "marcus@example.com"},
					{Name: "Priya Patel", Email: "priya@example.com"},
				},
			},
		},
		{
			MeetingID:    tenant + "_mtg_demo_retro",
			TenantID:     tenant,
			MeetingTitle: "Sprint 13 Retro",
			Summary:      "Retro on sprint 13. Deployment friction came up repeatedly.",
			MeetingDate:  "2026-08-21",
			Sentiment:    "negative",
			MeetingType:  "retro",
			Topics:       []string{"deployments", "retro"},
			Transcript:   "The team spent too long on manual deployment steps again. Priya suggested automating the smoke tests.",
			ActionItems: []graph.ActionItemInput{
				{Task: "Automate post-deploy smoke tests", Assignee: "Priya", Priority: "medium", DueDate: "2026-09-05"},
			},
			KeyDecisions: []string{"Adopt automated smoke tests as a deploy gate"},
			InviteMetadata: &graph.InviteMetadata{
				Attendees: []graph.Attendee{
					{Name: "Sarah Connor", Email: "sarah@example.com"},
					{Name: "Priya Patel", Email: "priya@example.com"},
				},
			},
		},
	}
}
