package graph

import (
	"context"

	"go.uber.org/zap"
)

// Indexes on the high-cardinality lookup properties. Each statement is
// idempotent; bootstrap failures are logged as warnings and never fatal.
var indexStatements = []string{
	"CREATE INDEX meeting_id IF NOT EXISTS FOR (m:Meeting) ON (m.meetingId)",
	"CREATE INDEX meeting_tenant IF NOT EXISTS FOR (m:Meeting) ON (m.tenantId)",
	"CREATE INDEX person_name IF NOT EXISTS FOR (p:Person) ON (p.name)",
	"CREATE INDEX person_email IF NOT EXISTS FOR (p:Person) ON (p.email)",
	"CREATE INDEX person_tenant IF NOT EXISTS FOR (p:Person) ON (p.tenantId)",
	"CREATE INDEX client_name IF NOT EXISTS FOR (c:Client) ON (c.name)",
	"CREATE INDEX client_tenant IF NOT EXISTS FOR (c:Client) ON (c.tenantId)",
	"CREATE INDEX project_name IF NOT EXISTS FOR (p:Project) ON (p.name)",
	"CREATE INDEX project_tenant IF NOT EXISTS FOR (p:Project) ON (p.tenantId)",
	"CREATE INDEX actionitem_tenant IF NOT EXISTS FOR (a:ActionItem) ON (a.tenantId)",
	"CREATE INDEX decision_tenant IF NOT EXISTS FOR (d:Decision) ON (d.tenantId)",
}

// createIndexes declares lookup indexes at service construction
func (r *Repository) createIndexes(ctx context.Context) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	for _, stmt := range indexStatements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			r.logger.Warn("Could not create index (non-critical)",
				zap.String("statement", stmt),
				zap.Error(err),
			)
		}
	}

	r.logger.Info("Graph indexes created/verified")
}
