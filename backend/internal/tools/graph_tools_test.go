package tools

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"team-synapse/backend/internal/graph"
)

type stubQuerier struct {
	summary    graph.GraphSummary
	actions    []graph.ActionItemSummary
	meetings   []graph.MeetingSummary
	blockers   []graph.BlockedItem
	historical []graph.HistoricalMeeting
	health     graph.TeamHealthReport

	lastTenant string
}

func (s *stubQuerier) KnowledgeGraphSummary(_ context.Context, tenantID string) graph.GraphSummary {
	s.lastTenant = tenantID
	return s.summary
}

func (s *stubQuerier) ActionItemsByPerson(_ context.Context, tenantID, _ string) []graph.ActionItemSummary {
	s.lastTenant = tenantID
	return s.actions
}

func (s *stubQuerier) SearchMeetings(_ context.Context, tenantID, _ string, _ int) []graph.MeetingSummary {
	s.lastTenant = tenantID
	return s.meetings
}

func (s *stubQuerier) FindBlockers(_ context.Context, tenantID string) []graph.BlockedItem {
	s.lastTenant = tenantID
	return s.blockers
}

func (s *stubQuerier) HistoricalContext(_ context.Context, tenantID, _ string, _ int) []graph.HistoricalMeeting {
	s.lastTenant = tenantID
	return s.historical
}

func (s *stubQuerier) TeamHealth(_ context.Context, tenantID string) graph.TeamHealthReport {
	s.lastTenant = tenantID
	return s.health
}

func TestGraphStats_FormatsCounts(t *testing.T) {
	stub := &stubQuerier{summary: graph.GraphSummary{
		Meetings: 3, People: 5, Clients: 1, Projects: 2, ActionItems: 7, Decisions: 4,
	}}
	ts := NewToolset(stub)

	out := ts.GraphStats(context.Background(), "acme")

	assert.Equal(t, "acme", stub.lastTenant)
	assert.Contains(t, out, "**Meetings:** 3")
	assert.Contains(t, out, "**Action Items:** 7")
	assert.Contains(t, out, "**Decisions:** 4")
}

func TestGraphStats_ZeroState(t *testing.T) {
	ts := NewToolset(&stubQuerier{})

	out := ts.GraphStats(context.Background(), "acme")

	assert.Contains(t, out, "**Meetings:** 0")
}

func TestActionItems_Empty(t *testing.T) {
	ts := NewToolset(&stubQuerier{})

	out := ts.ActionItems(context.Background(), "acme", "Sarah")

	assert.Equal(t, "No action items found for 'Sarah'.", out)
}

func TestActionItems_MarkersAndSummary(t *testing.T) {
	stub := &stubQuerier{actions: []graph.ActionItemSummary{
		{Task: "Fix API", Priority: "high", Status: "blocked", DueDate: "2026-09-01", MeetingTitle: "Sprint Planning"},
		{Task: "Write docs", Priority: "low", Status: "pending", DueDate: "none", MeetingTitle: "Standup"},
		{Task: "Ship release", Priority: "medium", Status: "completed", DueDate: "none", MeetingTitle: "Standup"},
	}}
	ts := NewToolset(stub)

	out := ts.ActionItems(context.Background(), "acme", "Sarah")

	assert.Contains(t, out, "[!] **Fix API** HIGH")
	assert.Contains(t, out, "[ ] **Write docs** LOW")
	assert.Contains(t, out, "[x] **Ship release** MED")
	assert.Contains(t, out, "Due: 2026-09-01 | From: Sprint Planning")
	assert.Contains(t, out, "3 total items")
	assert.Contains(t, out, "1 BLOCKED items need attention")
	assert.Contains(t, out, "1 pending items")
}

func TestSearchMeetings_Empty(t *testing.T) {
	ts := NewToolset(&stubQuerier{})

	out := ts.SearchMeetings(context.Background(), "acme", "budget", 10)

	assert.Equal(t, "No meetings found containing 'budget'.", out)
}

func TestSearchMeetings_TruncatesLongSummary(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	stub := &stubQuerier{meetings: []graph.MeetingSummary{
		{Title: "Q3 Budget Review", MeetingDate: "2026-08-01", Summary: string(long)},
	}}
	ts := NewToolset(stub)

	out := ts.SearchMeetings(context.Background(), "acme", "budget", 10)

	assert.Contains(t, out, "**Q3 Budget Review** (2026-08-01)")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, string(long))
}

func TestSearchMeetings_TruncationKeepsRunesIntact(t *testing.T) {
	stub := &stubQuerier{meetings: []graph.MeetingSummary{
		{Title: "All Hands", MeetingDate: "2026-08-01", Summary: strings.Repeat("é", 250)},
	}}
	ts := NewToolset(stub)

	out := ts.SearchMeetings(context.Background(), "acme", "hands", 10)

	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 200)+"...")
}

func TestFindBlockers_Empty(t *testing.T) {
	ts := NewToolset(&stubQuerier{})

	out := ts.FindBlockers(context.Background(), "acme")

	assert.Equal(t, "No blocked items found. All action items are progressing.", out)
}

func TestFindBlockers_HighPriorityCallout(t *testing.T) {
	stub := &stubQuerier{blockers: []graph.BlockedItem{
		{Task: "Deploy fix", Assignee: "Bob", Priority: "high", Blockers: []string{"waiting on infra"}, MeetingTitle: "Incident Review"},
		{Task: "Update runbook", Assignee: "", Priority: "low"},
	}}
	ts := NewToolset(stub)

	out := ts.FindBlockers(context.Background(), "acme")

	assert.Contains(t, out, "Found 2 blocked items")
	assert.Contains(t, out, "1 HIGH PRIORITY items are blocked!")
	assert.Contains(t, out, "[HIGH] **Deploy fix**")
	assert.Contains(t, out, "Assignee: Bob")
	assert.Contains(t, out, "Blockers: waiting on infra")
	assert.Contains(t, out, "Assignee: Unassigned")
}

func TestHistoricalContext_Empty(t *testing.T) {
	ts := NewToolset(&stubQuerier{})

	out := ts.HistoricalContext(context.Background(), "acme", "migration", 30)

	assert.Equal(t, "No historical context found for 'migration' in the last 30 days", out)
}

func TestHistoricalContext_CapsDecisionsAtThree(t *testing.T) {
	stub := &stubQuerier{historical: []graph.HistoricalMeeting{
		{
			MeetingTitle: "Arch Review",
			Date:         "2026-08-10",
			Summary:      "Discussed the database migration plan",
			Decisions:    []string{"d1", "d2", "d3", "d4"},
			ActionItems:  []string{"a1", "a2"},
		},
	}}
	ts := NewToolset(stub)

	out := ts.HistoricalContext(context.Background(), "acme", "migration", 30)

	assert.Contains(t, out, "**Arch Review** (2026-08-10)")
	assert.Contains(t, out, "- d3")
	assert.NotContains(t, out, "- d4")
	assert.Contains(t, out, "Related Actions: 2 items")
}

func TestTeamHealth_NoData(t *testing.T) {
	ts := NewToolset(&stubQuerier{})

	out := ts.TeamHealth(context.Background(), "acme")

	assert.Equal(t, "No team metrics available yet. Analyze some meetings first.", out)
}

func TestTeamHealth_WorkloadTiers(t *testing.T) {
	stub := &stubQuerier{health: graph.TeamHealthReport{
		Status:         graph.HealthStatusCritical,
		TotalTasks:     20,
		BlockedTasks:   7,
		CompletedTasks: 4,
		CompletionRate: 20.0,
		BlockedRate:    35.0,
		Members: []graph.PersonWorkload{
			{Person: "Alice", TotalTasks: 12, BlockedTasks: 4, HighPriorityTasks: 3},
			{Person: "Bob", TotalTasks: 6, BlockedTasks: 2, HighPriorityTasks: 1},
			{Person: "Carla", TotalTasks: 2, BlockedTasks: 1},
		},
		Overloaded: []string{"Alice"},
	}}
	ts := NewToolset(stub)

	out := ts.TeamHealth(context.Background(), "acme")

	assert.Contains(t, out, "CRITICAL - High blocker rate")
	assert.Contains(t, out, "**Completion Rate:** 20.0%")
	assert.Contains(t, out, "**Blocked Items:** 7/20 (35.0%)")
	assert.Contains(t, out, "[HIGH] **Alice**: 12 tasks (4 blocked, 3 high priority)")
	assert.Contains(t, out, "[MED] **Bob**")
	assert.Contains(t, out, "[LOW] **Carla**")
	assert.Contains(t, out, "**Overloaded:** Alice may need support")
}
