package tools

import (
	"context"
	"fmt"
	"strings"

	"team-synapse/backend/internal/graph"
)

// GraphQuerier is the read-only slice of the graph repository the tools use
type GraphQuerier interface {
	KnowledgeGraphSummary(ctx context.Context, tenantID string) graph.GraphSummary
	ActionItemsByPerson(ctx context.Context, tenantID, personName string) []graph.ActionItemSummary
	SearchMeetings(ctx context.Context, tenantID, term string, limit int) []graph.MeetingSummary
	FindBlockers(ctx context.Context, tenantID string) []graph.BlockedItem
	HistoricalContext(ctx context.Context, tenantID, topic string, days int) []graph.HistoricalMeeting
	TeamHealth(ctx context.Context, tenantID string) graph.TeamHealthReport
}

// Toolset formats knowledge graph query results as markdown for agent and
// MCP consumers. Empty results become "no results" messages, never errors:
// these strings go straight to a chat surface.
type Toolset struct {
	graph GraphQuerier
}

// NewToolset creates a toolset over the given querier
func NewToolset(querier GraphQuerier) *Toolset {
	return &Toolset{graph: querier}
}

var statusMarkers = map[string]string{
	"pending":     "[ ]",
	"in_progress": "[~]",
	"blocked":     "[!]",
	"completed":   "[x]",
}

var priorityMarkers = map[string]string{
	"high":   "HIGH",
	"medium": "MED",
	"low":    "LOW",
}

// GraphStats formats the tenant's knowledge graph summary
func (t *Toolset) GraphStats(ctx context.Context, tenantID string) string {
	stats := t.graph.KnowledgeGraphSummary(ctx, tenantID)

	return fmt.Sprintf(
		"## Knowledge Graph Statistics\n\n"+
			"- **Meetings:** %d\n"+
			"- **People:** %d\n"+
			"- **Clients:** %d\n"+
			"- **Projects:** %d\n"+
			"- **Action Items:** %d\n"+
			"- **Decisions:** %d",
		stats.Meetings, stats.People, stats.Clients,
		stats.Projects, stats.ActionItems, stats.Decisions,
	)
}

// ActionItems formats the action items assigned to a person
func (t *Toolset) ActionItems(ctx context.Context, tenantID, personName string) string {
	results := t.graph.ActionItemsByPerson(ctx, tenantID, personName)

	if len(results) == 0 {
		return fmt.Sprintf("No action items found for '%s'.", personName)
	}

	lines := []string{fmt.Sprintf("## Action Items for %s\n", personName)}

	blockedCount := 0
	pendingCount := 0
	for _, item := range results {
		marker, ok := statusMarkers[item.Status]
		if !ok {
			marker = "[ ]"
		}
		switch item.Status {
		case "blocked":
			blockedCount++
		case "pending":
			pendingCount++
		}

		lines = append(lines, fmt.Sprintf("%s **%s** %s", marker, item.Task, priorityMarkers[item.Priority]))
		lines = append(lines, fmt.Sprintf("   Due: %s | From: %s", item.DueDate, item.MeetingTitle))
		lines = append(lines, "")
	}

	lines = append(lines, fmt.Sprintf("\n**Summary:** %d total items", len(results)))
	if blockedCount > 0 {
		lines = append(lines, fmt.Sprintf("**%d BLOCKED items need attention**", blockedCount))
	}
	if pendingCount > 0 {
		lines = append(lines, fmt.Sprintf("%d pending items", pendingCount))
	}

	return strings.Join(lines, "\n")
}

// SearchMeetings formats meetings matching a keyword
func (t *Toolset) SearchMeetings(ctx context.Context, tenantID, keyword string, limit int) string {
	results := t.graph.SearchMeetings(ctx, tenantID, keyword, limit)

	if len(results) == 0 {
		return fmt.Sprintf("No meetings found containing '%s'.", keyword)
	}

	lines := []string{fmt.Sprintf("## Meetings about '%s'\n", keyword)}
	for _, m := range results {
		lines = append(lines, fmt.Sprintf("**%s** (%s)", m.Title, m.MeetingDate))
		if m.Summary != "" {
			lines = append(lines, fmt.Sprintf("   %s", truncate(m.Summary, 200)))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// FindBlockers formats blocked action items for triage
func (t *Toolset) FindBlockers(ctx context.Context, tenantID string) string {
	items := t.graph.FindBlockers(ctx, tenantID)

	if len(items) == 0 {
		return "No blocked items found. All action items are progressing."
	}

	lines := []string{
		"## BLOCKED Items Requiring Attention\n",
		fmt.Sprintf("**Found %d blocked items**\n", len(items)),
	}

	highPriority := 0
	for _, item := range items {
		if item.Priority == "high" {
			highPriority++
		}
	}
	if highPriority > 0 {
		lines = append(lines, fmt.Sprintf("**%d HIGH PRIORITY items are blocked!**\n", highPriority))
	}

	for _, item := range items {
		if marker, ok := priorityMarkers[item.Priority]; ok {
			lines = append(lines, fmt.Sprintf("[%s] **%s**", marker, item.Task))
		} else {
			lines = append(lines, fmt.Sprintf("**%s**", item.Task))
		}
		assignee := item.Assignee
		if assignee == "" {
			assignee = "Unassigned"
		}
		lines = append(lines, fmt.Sprintf("   Assignee: %s", assignee))
		if len(item.Blockers) > 0 {
			lines = append(lines, fmt.Sprintf("   Blockers: %s", strings.Join(item.Blockers, ", ")))
		}
		if item.MeetingTitle != "" {
			lines = append(lines, fmt.Sprintf("   From: %s", item.MeetingTitle))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// HistoricalContext formats past discussions about a topic
func (t *Toolset) HistoricalContext(ctx context.Context, tenantID, topic string, days int) string {
	meetings := t.graph.HistoricalContext(ctx, tenantID, topic, days)

	if len(meetings) == 0 {
		return fmt.Sprintf("No historical context found for '%s' in the last %d days", topic, days)
	}

	lines := []string{fmt.Sprintf("## Historical Context: '%s'\n", topic)}

	for _, meeting := range meetings {
		lines = append(lines, fmt.Sprintf("**%s** (%s)", meeting.MeetingTitle, meeting.Date))

		if meeting.Summary != "" {
			lines = append(lines, fmt.Sprintf("   Summary: %s", truncate(meeting.Summary, 150)))
		}

		if len(meeting.Decisions) > 0 {
			lines = append(lines, "   Key Decisions:")
			for i, decision := range meeting.Decisions {
				if i >= 3 {
					break
				}
				lines = append(lines, fmt.Sprintf("   - %s", decision))
			}
		}

		if len(meeting.ActionItems) > 0 {
			lines = append(lines, fmt.Sprintf("   Related Actions: %d items", len(meeting.ActionItems)))
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// TeamHealth formats the team health analysis
func (t *Toolset) TeamHealth(ctx context.Context, tenantID string) string {
	report := t.graph.TeamHealth(ctx, tenantID)

	if report.TotalTasks == 0 {
		return "No team metrics available yet. Analyze some meetings first."
	}

	statusLabels := map[string]string{
		graph.HealthStatusCritical: "CRITICAL - High blocker rate",
		graph.HealthStatusWarning:  "WARNING - Moderate blockers",
		graph.HealthStatusHealthy:  "HEALTHY - Low blocker rate",
	}

	lines := []string{
		"## Team Health Analysis\n",
		fmt.Sprintf("**Status:** %s", statusLabels[report.Status]),
		fmt.Sprintf("**Completion Rate:** %.1f%%", report.CompletionRate),
		fmt.Sprintf("**Blocked Items:** %d/%d (%.1f%%)\n", report.BlockedTasks, report.TotalTasks, report.BlockedRate),
		"### Individual Workload",
	}

	for i, member := range report.Members {
		if i >= 5 {
			break
		}
		workload := "LOW"
		if member.TotalTasks > 10 {
			workload = "HIGH"
		} else if member.TotalTasks > 5 {
			workload = "MED"
		}
		lines = append(lines, fmt.Sprintf(
			"[%s] **%s**: %d tasks (%d blocked, %d high priority)",
			workload, member.Person, member.TotalTasks,
			member.BlockedTasks, member.HighPriorityTasks,
		))
	}

	if len(report.Overloaded) > 0 {
		lines = append(lines, fmt.Sprintf("\n**Overloaded:** %s may need support", strings.Join(report.Overloaded, ", ")))
	}

	return strings.Join(lines, "\n")
}

// truncate caps a string at max characters, cutting on a rune boundary so
// multi-byte text never ends in a partial rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
