package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"team-synapse/backend/internal/graph"
	"team-synapse/backend/internal/tools"
	"team-synapse/backend/pkg/config"
	"team-synapse/backend/pkg/logger"
)

// mcpServer exposes the knowledge graph tools over stdio. Tool output is
// markdown meant for the calling agent; failures surface as "no results"
// messages inside the text, never as protocol errors.
type mcpServer struct {
	toolset *tools.Toolset
	cfg     *config.Config
}

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo, err := graph.NewRepository(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Neo4j: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close(context.Background())

	app := &mcpServer{
		toolset: tools.NewToolset(repo),
		cfg:     cfg,
	}

	s := server.NewMCPServer(
		"team-synapse",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register tools
	s.AddTool(graphStatsTool(), app.handleGraphStats)
	s.AddTool(actionItemsTool(), app.handleActionItems)
	s.AddTool(searchMeetingsTool(), app.handleSearchMeetings)
	s.AddTool(findBlockersTool(), app.handleFindBlockers)
	s.AddTool(historicalContextTool(), app.handleHistoricalContext)
	s.AddTool(teamHealthTool(), app.handleTeamHealth)

	// Run server
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// tenant resolves the tenant argument, falling back to the configured default
func (a *mcpServer) tenant(args map[string]any) string {
	if tenant, _ := args["tenant_id"].(string); tenant != "" {
		return tenant
	}
	return a.cfg.DefaultTenantID
}

func arguments(req mcp.CallToolRequest) map[string]any {
	args, _ := req.Params.Arguments.(map[string]any)
	return args
}

func tenantOption() mcp.ToolOption {
	return mcp.WithString("tenant_id",
		mcp.Description("Workspace tenant to query. Defaults to the configured tenant."),
	)
}

func graphStatsTool() mcp.Tool {
	return mcp.NewTool("get_graph_stats",
		mcp.WithDescription("Get statistics about the meeting knowledge graph: counts of meetings, people, clients, projects, action items, and decisions."),
		tenantOption(),
	)
}

func (a *mcpServer) handleGraphStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	return mcp.NewToolResultText(a.toolset.GraphStats(ctx, a.tenant(args))), nil
}

func actionItemsTool() mcp.Tool {
	return mcp.NewTool("get_action_items",
		mcp.WithDescription("Get all action items assigned to a person, ordered by priority and due date."),
		mcp.WithString("person_name",
			mcp.Required(),
			mcp.Description("Name of the person to look up"),
		),
		tenantOption(),
	)
}

func (a *mcpServer) handleActionItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	personName, _ := args["person_name"].(string)
	if personName == "" {
		return mcp.NewToolResultError("person_name is required"), nil
	}

	return mcp.NewToolResultText(a.toolset.ActionItems(ctx, a.tenant(args), personName)), nil
}

func searchMeetingsTool() mcp.Tool {
	return mcp.NewTool("search_meetings",
		mcp.WithDescription("Search meetings by keyword across titles, summaries, and transcripts."),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Keyword to search for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default 10)"),
		),
		tenantOption(),
	)
}

func (a *mcpServer) handleSearchMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	keyword, _ := args["keyword"].(string)
	if keyword == "" {
		return mcp.NewToolResultError("keyword is required"), nil
	}

	limit := 10
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	return mcp.NewToolResultText(a.toolset.SearchMeetings(ctx, a.tenant(args), keyword, limit)), nil
}

func findBlockersTool() mcp.Tool {
	return mcp.NewTool("find_blockers",
		mcp.WithDescription("Find all blocked action items across the team, highest priority first."),
		tenantOption(),
	)
}

func (a *mcpServer) handleFindBlockers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	return mcp.NewToolResultText(a.toolset.FindBlockers(ctx, a.tenant(args))), nil
}

func historicalContextTool() mcp.Tool {
	return mcp.NewTool("get_historical_context",
		mcp.WithDescription("Find past meetings that discussed a topic, with the decisions and action items they produced."),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Topic to search for in past transcripts"),
		),
		mcp.WithNumber("days",
			mcp.Description("How many days back to look (default 30)"),
		),
		tenantOption(),
	)
}

func (a *mcpServer) handleHistoricalContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	topic, _ := args["topic"].(string)
	if topic == "" {
		return mcp.NewToolResultError("topic is required"), nil
	}

	days := 30
	if d, ok := args["days"].(float64); ok && d > 0 {
		days = int(d)
	}

	return mcp.NewToolResultText(a.toolset.HistoricalContext(ctx, a.tenant(args), topic, days)), nil
}

func teamHealthTool() mcp.Tool {
	return mcp.NewTool("analyze_team_health",
		mcp.WithDescription("Analyze team health: completion rate, blocker rate, per-person workload, and overload warnings."),
		tenantOption(),
	)
}

func (a *mcpServer) handleTeamHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	return mcp.NewToolResultText(a.toolset.TeamHealth(ctx, a.tenant(args))), nil
}
