package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"team-synapse/backend/pkg/config"
	apperrors "team-synapse/backend/pkg/errors"
	"team-synapse/backend/pkg/logger"
)

// Repository handles all Neo4j knowledge graph operations. The driver it
// owns is safe for concurrent use; each operation opens its own short-lived
// session.
type Repository struct {
	driver             neo4j.DriverWithContext
	database           string
	logger             *zap.Logger
	maxTranscriptChars int
	writeTimeout       time.Duration
	queryTimeout       time.Duration
}

// NewRepository creates the Neo4j driver, verifies connectivity and
// bootstraps indexes. Connectivity failure is fatal: every other component
// depends on the graph being reachable, so the caller should refuse to
// start.
func NewRepository(ctx context.Context, cfg *config.Config) (*Repository, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	r := &Repository{
		driver:             driver,
		database:           cfg.Neo4jDatabase,
		logger:             logger.Named("graph"),
		maxTranscriptChars: cfg.MaxTranscriptChars,
		writeTimeout:       time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		queryTimeout:       time.Duration(cfg.QueryTimeoutSeconds) * time.Second,
	}

	r.logger.Info("Graph repository initialized", zap.String("uri", cfg.Neo4jURI))

	// Missing indexes degrade performance, not correctness
	r.createIndexes(ctx)

	return r, nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
}

// StoreMeetingData persists a complete meeting analysis in a single write
// transaction: either every node and relationship of the meeting exists
// afterwards, or none do. Returns false instead of an error on any backend
// failure so graph storage problems never abort the broader ingestion
// pipeline.
func (r *Repository) StoreMeetingData(ctx context.Context, analysis AnalysisRecord) bool {
	if analysis.MeetingID == "" {
		r.logger.Error("Cannot store analysis", zap.Error(apperrors.ErrMissingMeetingID))
		return false
	}
	if analysis.TenantID == "" {
		r.logger.Error("Cannot store analysis",
			zap.String("meeting_id", analysis.MeetingID),
			zap.Error(apperrors.ErrMissingTenantID),
		)
		return false
	}

	a := applyDefaults(analysis, r.maxTranscriptChars)

	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, r.storeMeetingTx(ctx, tx, a)
	})
	if err != nil {
		if apperrors.IsTimeout(err) {
			r.logger.Error("Meeting storage timed out",
				zap.String("meeting_id", a.MeetingID),
				zap.Error(apperrors.NewStorageTimeout(a.MeetingID, r.writeTimeout, err)),
			)
		} else {
			r.logger.Error("Failed to store meeting",
				zap.String("meeting_id", a.MeetingID),
				zap.Error(apperrors.NewWriteFailed(a.MeetingID, err)),
			)
		}
		return false
	}

	r.logger.Info("Stored meeting in knowledge graph",
		zap.String("meeting_id", a.MeetingID),
		zap.String("tenant_id", a.TenantID),
		zap.Int("action_items", len(a.ActionItems)),
		zap.Int("decisions", len(a.KeyDecisions)),
	)
	return true
}
