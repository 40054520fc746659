package graph

import (
	"context"

	"go.uber.org/zap"

	apperrors "team-synapse/backend/pkg/errors"
)

// ============================================================================
// Query Layer
//
// Every read is scoped to one tenant and never raises: backend failures are
// logged and mapped to an empty (or zero-filled) result. Callers therefore
// cannot distinguish "no data" from "query failed" by the return value
// alone; the logs are the diagnostic channel. That trade-off is deliberate
// and documented, not an accident.
// ============================================================================

// ActionItemsByPerson returns all action items assigned to a person,
// ordered by priority rank (high, medium, low, unspecified) then due date.
// An unknown person yields an empty list, not an error.
func (r *Repository) ActionItemsByPerson(ctx context.Context, tenantID, personName string) []ActionItemSummary {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (p:Person {name: $name, tenantId: $tenantId})-[:ASSIGNED_TO]->(a:ActionItem {tenantId: $tenantId})
		MATCH (m:Meeting {tenantId: $tenantId})-[:HAS_ACTION_ITEM]->(a)
		RETURN
			a.task AS task,
			a.dueDate AS dueDate,
			a.priority AS priority,
			a.status AS status,
			m.meetingId AS meetingId,
			m.title AS meetingTitle,
			m.meetingDate AS meetingDate
		ORDER BY
			CASE a.priority
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				WHEN 'low' THEN 3
				ELSE 4
			END,
			a.dueDate
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"name":     personName,
		"tenantId": tenantID,
	})
	if err != nil {
		r.logger.Error("Error querying action items",
			zap.String("person", personName),
			zap.Error(apperrors.NewQueryFailed("ActionItemsByPerson", err)),
		)
		return []ActionItemSummary{}
	}

	items := []ActionItemSummary{}
	for result.Next(ctx) {
		record := result.Record()
		items = append(items, ActionItemSummary{
			Task:         getStringFromRecord(record, "task"),
			DueDate:      getStringFromRecord(record, "dueDate"),
			Priority:     getStringFromRecord(record, "priority"),
			Status:       getStringFromRecord(record, "status"),
			MeetingID:    getStringFromRecord(record, "meetingId"),
			MeetingTitle: getStringFromRecord(record, "meetingTitle"),
			MeetingDate:  getStringFromRecord(record, "meetingDate"),
		})
	}
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading action item records", zap.Error(err))
		return []ActionItemSummary{}
	}

	r.logger.Info("Found action items",
		zap.String("person", personName),
		zap.Int("count", len(items)),
	)
	return items
}

// MeetingsByProject returns all meetings related to a project, most
// recently processed first.
func (r *Repository) MeetingsByProject(ctx context.Context, tenantID, projectName string) []MeetingSummary {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (m:Meeting {tenantId: $tenantId})-[:RELATES_TO_PROJECT]->(p:Project {name: $name, tenantId: $tenantId})
		RETURN
			m.meetingId AS meetingId,
			m.title AS title,
			m.summary AS summary,
			m.meetingDate AS meetingDate,
			m.sentiment AS sentiment
		ORDER BY m.processingTimestamp DESC
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"name":     projectName,
		"tenantId": tenantID,
	})
	if err != nil {
		r.logger.Error("Error querying meetings by project",
			zap.String("project", projectName),
			zap.Error(apperrors.NewQueryFailed("MeetingsByProject", err)),
		)
		return []MeetingSummary{}
	}

	meetings := collectMeetingSummaries(ctx, result)
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading meeting records", zap.Error(err))
		return []MeetingSummary{}
	}
	r.logger.Info("Found meetings for project",
		zap.String("project", projectName),
		zap.Int("count", len(meetings)),
	)
	return meetings
}

// ClientRelationships returns per-client meeting aggregates. With a client
// name it is a point lookup; with an empty name it fans out to every client
// for the tenant, ordered by meeting count descending. Recent meeting titles
// are capped at 5 per client.
func (r *Repository) ClientRelationships(ctx context.Context, tenantID, clientName string) []ClientRelationship {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	session := r.readSession(ctx)
	defer session.Close(ctx)

	var query string
	params := map[string]interface{}{"tenantId": tenantID}

	if clientName != "" {
		query = `
			MATCH (c:Client {name: $name, tenantId: $tenantId})<-[:DISCUSSED_CLIENT]-(m:Meeting {tenantId: $tenantId})
			RETURN
				c.name AS clientName,
				count(m) AS meetingCount,
				collect(m.title)[0..5] AS recentMeetings
		`
		params["name"] = clientName
	} else {
		query = `
			MATCH (c:Client {tenantId: $tenantId})<-[:DISCUSSED_CLIENT]-(m:Meeting {tenantId: $tenantId})
			RETURN
				c.name AS clientName,
				count(m) AS meetingCount,
				collect(m.title)[0..5] AS recentMeetings
			ORDER BY meetingCount DESC
		`
	}

	result, err := session.Run(ctx, query, params)
	if err != nil {
		r.logger.Error("Error querying client relationships",
			zap.Error(apperrors.NewQueryFailed("ClientRelationships", err)),
		)
		return []ClientRelationship{}
	}

	relationships := []ClientRelationship{}
	for result.Next(ctx) {
		record := result.Record()
		relationships = append(relationships, ClientRelationship{
			ClientName:     getStringFromRecord(record, "clientName"),
			MeetingCount:   getInt64FromRecord(record, "meetingCount"),
			RecentMeetings: getStringSliceFromRecord(record, "recentMeetings"),
		})
	}
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading client relationship records", zap.Error(err))
		return []ClientRelationship{}
	}

	r.logger.Info("Found client relationships", zap.Int("count", len(relationships)))
	return relationships
}

// KnowledgeGraphSummary returns per-label node counts for the tenant. Each
// label is counted independently, so a tenant with meetings but no people
// still reports every other count. An empty graph (or a failed query)
// yields the zero-filled structure, never null.
func (r *Repository) KnowledgeGraphSummary(ctx context.Context, tenantID string) GraphSummary {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		RETURN
			COUNT { MATCH (m:Meeting {tenantId: $tenantId}) } AS meetings,
			COUNT { MATCH (p:Person {tenantId: $tenantId}) } AS people,
			COUNT { MATCH (c:Client {tenantId: $tenantId}) } AS clients,
			COUNT { MATCH (pr:Project {tenantId: $tenantId}) } AS projects,
			COUNT { MATCH (a:ActionItem {tenantId: $tenantId}) } AS actionItems,
			COUNT { MATCH (d:Decision {tenantId: $tenantId}) } AS decisions
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"tenantId": tenantID})
	if err != nil {
		r.logger.Error("Error getting knowledge graph summary",
			zap.Error(apperrors.NewQueryFailed("KnowledgeGraphSummary", err)),
		)
		return GraphSummary{}
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			r.logger.Error("Error reading graph summary record", zap.Error(err))
		}
		return GraphSummary{}
	}

	record := result.Record()
	summary := GraphSummary{
		Meetings:    getInt64FromRecord(record, "meetings"),
		People:      getInt64FromRecord(record, "people"),
		Clients:     getInt64FromRecord(record, "clients"),
		Projects:    getInt64FromRecord(record, "projects"),
		ActionItems: getInt64FromRecord(record, "actionItems"),
		Decisions:   getInt64FromRecord(record, "decisions"),
	}

	r.logger.Info("Knowledge graph summary",
		zap.Int64("meetings", summary.Meetings),
		zap.Int64("action_items", summary.ActionItems),
	)
	return summary
}

// SearchMeetings searches meeting title, summary and transcript for a term
// (case-sensitive substring match), ordered by recency of processing.
// A limit below 1 falls back to the default of 10.
func (r *Repository) SearchMeetings(ctx context.Context, tenantID, term string, limit int) []MeetingSummary {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	if limit < 1 {
		limit = 10
	}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (m:Meeting {tenantId: $tenantId})
		WHERE m.title CONTAINS $term
		   OR m.summary CONTAINS $term
		   OR m.transcript CONTAINS $term
		RETURN
			m.meetingId AS meetingId,
			m.title AS title,
			m.summary AS summary,
			m.meetingDate AS meetingDate,
			m.sentiment AS sentiment
		ORDER BY m.processingTimestamp DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"term":     term,
		"limit":    limit,
		"tenantId": tenantID,
	})
	if err != nil {
		r.logger.Error("Error searching meetings",
			zap.String("term", term),
			zap.Error(apperrors.NewQueryFailed("SearchMeetings", err)),
		)
		return []MeetingSummary{}
	}

	meetings := collectMeetingSummaries(ctx, result)
	if err := result.Err(); err != nil {
		r.logger.Error("Error reading meeting records", zap.Error(err))
		return []MeetingSummary{}
	}
	r.logger.Info("Found meetings matching term",
		zap.String("term", term),
		zap.Int("count", len(meetings)),
	)
	return meetings
}
