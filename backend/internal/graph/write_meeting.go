package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// storeMeetingTx performs the full ordered write for one meeting inside a
// managed transaction. Any step returning an error aborts the whole
// transaction: a meeting with a failed decision write leaves nothing behind,
// not a partial subgraph.
//
// Write order is Meeting, ActionItems, Decisions, Clients, Projects. No step
// depends on a previous one having committed (everything happens in the same
// open transaction), but the order is fixed so the index-derived action and
// decision ids stay reproducible.
func (r *Repository) storeMeetingTx(ctx context.Context, tx neo4j.ManagedTransaction, a AnalysisRecord) error {
	if err := r.createMeetingNode(ctx, tx, a); err != nil {
		return err
	}

	var attendees []Attendee
	if a.InviteMetadata != nil {
		attendees = a.InviteMetadata.Attendees
	}
	if err := r.createActionItems(ctx, tx, a.MeetingID, a.TenantID, a.ActionItems, attendees); err != nil {
		return err
	}

	if err := r.createDecisions(ctx, tx, a.MeetingID, a.TenantID, a.KeyDecisions); err != nil {
		return err
	}

	// Person nodes are intentionally NOT created for every mention or
	// invitee; only owners of action items materialize as People. This
	// keeps graph density proportional to actionable entities.

	if err := r.mergeNamedEntities(ctx, tx, a.MeetingID, a.TenantID, "Client", "DISCUSSED_CLIENT", a.MentionedClients); err != nil {
		return err
	}

	if err := r.mergeNamedEntities(ctx, tx, a.MeetingID, a.TenantID, "Project", "RELATES_TO_PROJECT", a.MentionedProjects); err != nil {
		return err
	}

	r.logger.Debug("Write transaction complete", zap.String("meeting_id", a.MeetingID))
	return nil
}

func (r *Repository) createMeetingNode(ctx context.Context, tx neo4j.ManagedTransaction, a AnalysisRecord) error {
	query := `
		CREATE (m:Meeting {
			meetingId: $meetingId,
			tenantId: $tenantId,
			title: $title,
			summary: $summary,
			meetingDate: $meetingDate,
			sentiment: $sentiment,
			processingTimestamp: $processingTimestamp,
			originalFilename: $originalFilename,
			transcript: $transcript,
			topics: $topics,
			meetingType: $meetingType,
			duration: $duration,
			urgencyLevel: $urgencyLevel,
			requiresFollowUp: $requiresFollowUp
		})
		RETURN m.meetingId AS meetingId
	`

	var duration any
	if a.Duration != nil {
		duration = *a.Duration
	}

	result, err := tx.Run(ctx, query, map[string]interface{}{
		"meetingId":           a.MeetingID,
		"tenantId":            a.TenantID,
		"title":               a.MeetingTitle,
		"summary":             a.Summary,
		"meetingDate":         a.MeetingDate,
		"sentiment":           a.Sentiment,
		"processingTimestamp": a.ProcessingTimestamp,
		"originalFilename":    a.OriginalFilename,
		"transcript":          a.Transcript,
		"topics":              a.Topics,
		"meetingType":         a.MeetingType,
		"duration":            duration,
		"urgencyLevel":        a.Metadata.UrgencyLevel,
		"requiresFollowUp":    a.Metadata.RequiresFollowUp,
	})
	if err != nil {
		return fmt.Errorf("failed to create meeting node: %w", err)
	}
	if _, err := result.Single(ctx); err != nil {
		return fmt.Errorf("failed to verify meeting creation: %w", err)
	}
	return nil
}

func (r *Repository) createActionItems(ctx context.Context, tx neo4j.ManagedTransaction, meetingID, tenantID string, items []ActionItemInput, attendees []Attendee) error {
	for idx, item := range items {
		actionID := fmt.Sprintf("%s_action_%d", meetingID, idx)

		query := `
			MATCH (m:Meeting {meetingId: $meetingId})
			CREATE (a:ActionItem {
				actionId: $actionId,
				tenantId: $tenantId,
				task: $task,
				assignee: $assignee,
				dueDate: $dueDate,
				priority: $priority,
				status: $status,
				blockers: $blockers,
				estimatedEffort: $estimatedEffort,
				assigneeRole: $assigneeRole
			})
			CREATE (m)-[:HAS_ACTION_ITEM]->(a)
			RETURN a.actionId AS actionId
		`

		_, err := tx.Run(ctx, query, map[string]interface{}{
			"meetingId":       meetingID,
			"actionId":        actionID,
			"tenantId":        tenantID,
			"task":            item.Task,
			"assignee":        item.Assignee,
			"dueDate":         item.DueDate,
			"priority":        item.Priority,
			"status":          item.Status,
			"blockers":        item.Blockers,
			"estimatedEffort": item.EstimatedEffort,
			"assigneeRole":    item.AssigneeRole,
		})
		if err != nil {
			return fmt.Errorf("failed to create action item %s: %w", actionID, err)
		}

		person, ok := resolveAssignee(item.Assignee, attendees)
		if !ok {
			continue
		}
		if err := r.linkAssignee(ctx, tx, actionID, tenantID, person, item.AssigneeRole); err != nil {
			return err
		}
	}

	return nil
}

// linkAssignee merges the Person node for a resolved assignee and links it
// to the action item. The merge key prefers (email, tenantId) when the
// resolver produced an email, since that stays stable across name
// variations of the same person. Display fields are only filled when
// previously null so a later noisy guess never clobbers an earlier
// canonical name.
func (r *Repository) linkAssignee(ctx context.Context, tx neo4j.ManagedTransaction, actionID, tenantID string, person resolvedPerson, role string) error {
	var query string
	params := map[string]interface{}{
		"name":     person.Name,
		"role":     role,
		"actionId": actionID,
		"tenantId": tenantID,
	}

	if person.Email != "" {
		query = `
			MERGE (p:Person {email: $email, tenantId: $tenantId})
			ON CREATE SET p.name = $name, p.role = $role, p.createdAt = datetime()
			ON MATCH SET p.name = coalesce(p.name, $name),
			             p.role = coalesce(p.role, $role),
			             p.lastSeenAt = datetime()
			WITH p
			MATCH (a:ActionItem {actionId: $actionId})
			MERGE (p)-[:ASSIGNED_TO]->(a)
		`
		params["email"] = person.Email
	} else {
		query = `
			MERGE (p:Person {name: $name, tenantId: $tenantId})
			ON CREATE SET p.role = $role, p.createdAt = datetime()
			ON MATCH SET p.role = coalesce(p.role, $role),
			             p.lastSeenAt = datetime()
			WITH p
			MATCH (a:ActionItem {actionId: $actionId})
			MERGE (p)-[:ASSIGNED_TO]->(a)
		`
	}

	if _, err := tx.Run(ctx, query, params); err != nil {
		return fmt.Errorf("failed to link assignee for %s: %w", actionID, err)
	}
	return nil
}

func (r *Repository) createDecisions(ctx context.Context, tx neo4j.ManagedTransaction, meetingID, tenantID string, decisions []string) error {
	for idx, description := range decisions {
		query := `
			MATCH (m:Meeting {meetingId: $meetingId})
			CREATE (d:Decision {
				decisionId: $decisionId,
				tenantId: $tenantId,
				description: $description
			})
			CREATE (m)-[:HAS_DECISION]->(d)
		`

		_, err := tx.Run(ctx, query, map[string]interface{}{
			"meetingId":   meetingID,
			"decisionId":  fmt.Sprintf("%s_decision_%d", meetingID, idx),
			"tenantId":    tenantID,
			"description": description,
		})
		if err != nil {
			return fmt.Errorf("failed to create decision %d: %w", idx, err)
		}
	}

	return nil
}

// mergeNamedEntities merges Client or Project nodes keyed by
// (name, tenantId) and links them from the meeting. Both the node and the
// relationship use MERGE, so linking the same entity twice is a no-op and
// concurrent first-time creation cannot duplicate nodes. The match is exact
// and case-sensitive: "Acme Corp" and "Acme" are two entities.
func (r *Repository) mergeNamedEntities(ctx context.Context, tx neo4j.ManagedTransaction, meetingID, tenantID, label, relType string, names []string) error {
	query := fmt.Sprintf(`
		MATCH (m:Meeting {meetingId: $meetingId})
		MERGE (e:%s {name: $name, tenantId: $tenantId})
		MERGE (m)-[:%s]->(e)
	`, label, relType)

	for _, name := range names {
		if name == "" {
			continue
		}
		_, err := tx.Run(ctx, query, map[string]interface{}{
			"meetingId": meetingID,
			"name":      name,
			"tenantId":  tenantID,
		})
		if err != nil {
			return fmt.Errorf("failed to merge %s %q: %w", label, name, err)
		}
	}

	return nil
}
