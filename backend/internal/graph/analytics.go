package graph

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	apperrors "team-synapse/backend/pkg/errors"
)

// Thresholds for the derived team health classification
const (
	blockedRateCritical   = 30.0
	blockedRateWarning    = 15.0
	overloadedTaskCount   = 10
	blockerResultCap      = 10
	historicalResultCap   = 5
	defaultHistoricalDays = 30
)

// FindBlockers returns action items that are blocked or carry blockers,
// ordered by priority rank and capped at 10. This is an operational triage
// query, not an exhaustive listing.
func (r *Repository) FindBlockers(ctx context.Context, tenantID string) []BlockedItem {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:ActionItem {tenantId: $tenantId})
		WHERE a.status = 'blocked' OR size(a.blockers) > 0
		OPTIONAL MATCH (m:Meeting {tenantId: $tenantId})-[:HAS_ACTION_ITEM]->(a)
		RETURN a.task AS task,
		       a.assignee AS assignee,
		       a.blockers AS blockers,
		       a.priority AS priority,
		       m.title AS meetingTitle
		ORDER BY
			CASE a.priority
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				ELSE 3
			END
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantId": tenantID,
		"limit":    blockerResultCap,
	})
	if err != nil {
		r.logger.Error("Error finding blockers",
			zap.Error(apperrors.NewQueryFailed("FindBlockers", err)),
		)
		return []BlockedItem{}
	}

	items := []BlockedItem{}
	for result.Next(ctx) {
		record := result.Record()
		items = append(items, BlockedItem{
			Task:         getStringFromRecord(record, "task"),
			Assignee:     getStringFromRecord(record, "assignee"),
			Blockers:     getStringSliceFromRecord(record, "blockers"),
			Priority:     getStringFromRecord(record, "priority"),
			MeetingTitle: getStringFromRecord(record, "meetingTitle"),
		})
	}
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading blocker records", zap.Error(err))
		return []BlockedItem{}
	}

	r.logger.Info("Found blocked items", zap.Int("count", len(items)))
	return items
}

// HistoricalContext returns past meetings whose transcript mentions the
// topic within the lookback window, with the distinct decisions and action
// tasks each produced. Ordered by meeting date descending, capped at 5 so
// "did we already discuss this" answers never flood the caller.
func (r *Repository) HistoricalContext(ctx context.Context, tenantID, topic string, days int) []HistoricalMeeting {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	if days < 1 {
		days = defaultHistoricalDays
	}
	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (m:Meeting {tenantId: $tenantId})
		WHERE m.transcript CONTAINS $topic AND m.meetingDate >= $cutoff
		OPTIONAL MATCH (m)-[:HAS_DECISION]->(d:Decision {tenantId: $tenantId})
		OPTIONAL MATCH (m)-[:HAS_ACTION_ITEM]->(a:ActionItem {tenantId: $tenantId})
		RETURN m.title AS meetingTitle,
		       m.meetingDate AS date,
		       m.summary AS summary,
		       collect(DISTINCT d.description) AS decisions,
		       collect(DISTINCT a.task) AS actionItems
		ORDER BY m.meetingDate DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"topic":    topic,
		"cutoff":   cutoff,
		"tenantId": tenantID,
		"limit":    historicalResultCap,
	})
	if err != nil {
		r.logger.Error("Error retrieving historical context",
			zap.String("topic", topic),
			zap.Error(apperrors.NewQueryFailed("HistoricalContext", err)),
		)
		return []HistoricalMeeting{}
	}

	meetings := []HistoricalMeeting{}
	for result.Next(ctx) {
		record := result.Record()
		meetings = append(meetings, HistoricalMeeting{
			MeetingTitle: getStringFromRecord(record, "meetingTitle"),
			Date:         getStringFromRecord(record, "date"),
			Summary:      getStringFromRecord(record, "summary"),
			Decisions:    getStringSliceFromRecord(record, "decisions"),
			ActionItems:  getStringSliceFromRecord(record, "actionItems"),
		})
	}
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading historical context records", zap.Error(err))
		return []HistoricalMeeting{}
	}

	r.logger.Info("Found historical context",
		zap.String("topic", topic),
		zap.Int("days", days),
		zap.Int("count", len(meetings)),
	)
	return meetings
}

// TeamHealth aggregates per-person action item counts and derives a
// tenant-wide classification. The aggregation runs in Cypher; the
// classification runs in Go so the tiers stay testable without a database.
func (r *Repository) TeamHealth(ctx context.Context, tenantID string) TeamHealthReport {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (p:Person {tenantId: $tenantId})-[:ASSIGNED_TO]->(a:ActionItem {tenantId: $tenantId})
		WITH p.name AS person,
		     count(a) AS totalTasks,
		     sum(CASE WHEN a.status = 'blocked' THEN 1 ELSE 0 END) AS blockedTasks,
		     sum(CASE WHEN a.status = 'completed' THEN 1 ELSE 0 END) AS completedTasks,
		     sum(CASE WHEN a.priority = 'high' THEN 1 ELSE 0 END) AS highPriorityTasks
		RETURN person, totalTasks, blockedTasks, completedTasks, highPriorityTasks
		ORDER BY totalTasks DESC
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"tenantId": tenantID})
	if err != nil {
		r.logger.Error("Error analyzing team health",
			zap.Error(apperrors.NewQueryFailed("TeamHealth", err)),
		)
		return classifyHealth(nil)
	}

	var members []PersonWorkload
	for result.Next(ctx) {
		record := result.Record()
		members = append(members, PersonWorkload{
			Person:            getStringFromRecord(record, "person"),
			TotalTasks:        getInt64FromRecord(record, "totalTasks"),
			BlockedTasks:      getInt64FromRecord(record, "blockedTasks"),
			CompletedTasks:    getInt64FromRecord(record, "completedTasks"),
			HighPriorityTasks: getInt64FromRecord(record, "highPriorityTasks"),
		})
	}
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading team health records", zap.Error(err))
		return classifyHealth(nil)
	}

	report := classifyHealth(members)
	r.logger.Info("Team health analyzed",
		zap.String("status", report.Status),
		zap.Int64("total_tasks", report.TotalTasks),
		zap.Float64("blocked_rate", report.BlockedRate),
	)
	return report
}

// classifyHealth derives the tenant-wide health report from per-person
// workloads. Tiers: blocked rate above 30% is critical, above 15% is a
// warning, anything else is healthy. Anyone carrying more than 10 tasks is
// flagged as potentially overloaded.
func classifyHealth(members []PersonWorkload) TeamHealthReport {
	report := TeamHealthReport{
		Status:     HealthStatusHealthy,
		Members:    []PersonWorkload{},
		Overloaded: []string{},
	}
	if len(members) == 0 {
		return report
	}

	report.Members = members
	for _, m := range members {
		report.TotalTasks += m.TotalTasks
		report.BlockedTasks += m.BlockedTasks
		report.CompletedTasks += m.CompletedTasks
		if m.TotalTasks > overloadedTaskCount {
			report.Overloaded = append(report.Overloaded, m.Person)
		}
	}

	if report.TotalTasks > 0 {
		report.CompletionRate = float64(report.CompletedTasks) / float64(report.TotalTasks) * 100
		report.BlockedRate = float64(report.BlockedTasks) / float64(report.TotalTasks) * 100
	}

	switch {
	case report.BlockedRate > blockedRateCritical:
		report.Status = HealthStatusCritical
	case report.BlockedRate > blockedRateWarning:
		report.Status = HealthStatusWarning
	}

	// Stable name order keeps the overloaded list deterministic when task
	// counts tie
	sort.Strings(report.Overloaded)

	return report
}
