package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"team-synapse/backend/internal/graph"
	"team-synapse/backend/pkg/logger"
)

// Store is the slice of the graph repository the pipeline needs
type Store interface {
	StoreMeetingData(ctx context.Context, analysis graph.AnalysisRecord) bool
}

// Result reports the outcome of one ingestion. GraphStored can be false
// while Success is true: graph storage failure is downgraded to a warning
// because the analysis itself is still valid.
type Result struct {
	Success     bool   `json:"success"`
	MeetingID   string `json:"meetingId"`
	GraphStored bool   `json:"graphStored"`
	Warning     string `json:"warning,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Pipeline prepares analysis payloads and hands them to the graph store
type Pipeline struct {
	store  Store
	logger *zap.Logger
}

// NewPipeline creates an ingestion pipeline backed by the given store
func NewPipeline(store Store) *Pipeline {
	return &Pipeline{
		store:  store,
		logger: logger.Named("ingest"),
	}
}

// Process enriches an analysis record with identity and timing metadata,
// merges invite context, and stores it in the knowledge graph. Graph
// storage failure never fails the ingestion itself.
func (p *Pipeline) Process(ctx context.Context, analysis graph.AnalysisRecord) Result {
	if analysis.MeetingID == "" {
		analysis.MeetingID = GenerateMeetingID(analysis.TenantID, analysis.OriginalFilename)
	}
	if analysis.ProcessingTimestamp == "" {
		analysis.ProcessingTimestamp = time.Now().UTC().Format(time.RFC3339)
	}
	mergeInviteContext(&analysis)

	p.logger.Info("Processing meeting analysis",
		zap.String("meeting_id", analysis.MeetingID),
		zap.String("tenant_id", analysis.TenantID),
	)

	result := Result{
		Success:   true,
		MeetingID: analysis.MeetingID,
		Timestamp: analysis.ProcessingTimestamp,
	}

	if p.store.StoreMeetingData(ctx, analysis) {
		result.GraphStored = true
	} else {
		result.Warning = "graph storage failed (non-critical)"
		p.logger.Warn("Graph storage failed for meeting",
			zap.String("meeting_id", analysis.MeetingID),
		)
	}

	return result
}

// ProcessBatch ingests several analyses with bounded parallelism. Meetings
// touch disjoint subgraphs, so concurrent ingestion is safe; shared
// Client/Project/Person merges rely on the store's transaction isolation.
// Results are returned in input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, analyses []graph.AnalysisRecord, parallelism int) []Result {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]Result, len(analyses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, analysis := range analyses {
		g.Go(func() error {
			results[i] = p.Process(ctx, analysis)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes
	_ = g.Wait()

	return results
}

// mergeInviteContext prefers explicit invite metadata over inferred values
// for the meeting title and date, matching how upstream extraction treats
// calendar context as more trustworthy than the transcript.
func mergeInviteContext(analysis *graph.AnalysisRecord) {
	invite := analysis.InviteMetadata
	if invite == nil {
		return
	}
	if invite.MeetingTitle != "" {
		analysis.MeetingTitle = invite.MeetingTitle
	}
	if invite.MeetingDate != "" && invite.MeetingDate != graph.UnknownDateValue {
		analysis.MeetingDate = invite.MeetingDate
	}
}

// GenerateMeetingID builds a time-unique, tenant-prefixed meeting id from
// the source filename: {tenant}_mtg_{timestamp}_{slug}. Uniqueness comes
// from the timestamp; a random suffix backs it up when no filename is
// available.
func GenerateMeetingID(tenantID, filename string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")

	slug := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	slug = sanitizeIDPart(slug)
	if slug == "" || slug == "." {
		slug = uuid.New().String()[:8]
	}

	tenant := sanitizeIDPart(tenantID)
	if tenant == "" {
		tenant = "demo"
	}

	return fmt.Sprintf("%s_mtg_%s_%s", tenant, timestamp, slug)
}

func sanitizeIDPart(s string) string {
	replacer := strings.NewReplacer("@", "_", " ", "_", "/", "_", "\\", "_")
	s = replacer.Replace(strings.TrimSpace(s))
	if len(s) > 30 {
		s = s[:30]
	}
	return s
}
