package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"team-synapse/backend/internal/graph"
	"team-synapse/backend/internal/ingest"
	"team-synapse/backend/pkg/config"
)

type stubPipeline struct {
	lastAnalysis graph.AnalysisRecord
	batchSize    int
}

func (s *stubPipeline) Process(_ context.Context, analysis graph.AnalysisRecord) ingest.Result {
	s.lastAnalysis = analysis
	return ingest.Result{Success: true, MeetingID: analysis.MeetingID, GraphStored: true}
}

func (s *stubPipeline) ProcessBatch(_ context.Context, analyses []graph.AnalysisRecord, _ int) []ingest.Result {
	s.batchSize = len(analyses)
	results := make([]ingest.Result, len(analyses))
	for i, a := range analyses {
		results[i] = ingest.Result{Success: true, MeetingID: a.MeetingID, GraphStored: true}
	}
	return results
}

type stubGraph struct {
	lastTenant string
	lastPerson string
	lastTerm   string
	lastLimit  int
	lastTopic  string
	lastDays   int
}

func (s *stubGraph) ActionItemsByPerson(_ context.Context, tenantID, personName string) []graph.ActionItemSummary {
	s.lastTenant = tenantID
	s.lastPerson = personName
	return []graph.ActionItemSummary{{Task: "Review PR", Priority: "high"}}
}

func (s *stubGraph) MeetingsByProject(_ context.Context, tenantID, _ string) []graph.MeetingSummary {
	s.lastTenant = tenantID
	return nil
}

func (s *stubGraph) ClientRelationships(_ context.Context, tenantID, _ string) []graph.ClientRelationship {
	s.lastTenant = tenantID
	return nil
}

func (s *stubGraph) KnowledgeGraphSummary(_ context.Context, tenantID string) graph.GraphSummary {
	s.lastTenant = tenantID
	return graph.GraphSummary{Meetings: 2, People: 3}
}

func (s *stubGraph) SearchMeetings(_ context.Context, tenantID, term string, limit int) []graph.MeetingSummary {
	s.lastTenant = tenantID
	s.lastTerm = term
	s.lastLimit = limit
	return []graph.MeetingSummary{{Title: "Budget Sync"}}
}

func (s *stubGraph) FindBlockers(_ context.Context, tenantID string) []graph.BlockedItem {
	s.lastTenant = tenantID
	return nil
}

func (s *stubGraph) HistoricalContext(_ context.Context, tenantID, topic string, days int) []graph.HistoricalMeeting {
	s.lastTenant = tenantID
	s.lastTopic = topic
	s.lastDays = days
	return nil
}

func (s *stubGraph) TeamHealth(_ context.Context, tenantID string) graph.TeamHealthReport {
	s.lastTenant = tenantID
	return graph.TeamHealthReport{Status: graph.HealthStatusHealthy, TotalTasks: 5}
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubPipeline, *stubGraph) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DefaultTenantID:  "default-tenant",
		BatchParallelism: 2,
	}
	pipeline := &stubPipeline{}
	querier := &stubGraph{}
	router := setupRouter(cfg, pipeline, querier, zap.NewNop())
	return router, pipeline, querier
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIngestMeeting_UsesTenantHeader(t *testing.T) {
	router, pipeline, _ := newTestRouter(t)

	body := `{"meetingId": "m1", "meetingTitle": "Sprint Planning"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", "acme")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", pipeline.lastAnalysis.TenantID)
	assert.Equal(t, "m1", pipeline.lastAnalysis.MeetingID)

	var result ingest.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.True(t, result.GraphStored)
}

func TestIngestMeeting_DefaultTenant(t *testing.T) {
	router, pipeline, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(`{"meetingId": "m2"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default-tenant", pipeline.lastAnalysis.TenantID)
}

func TestIngestMeeting_MalformedJSON(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestBatch(t *testing.T) {
	router, pipeline, _ := newTestRouter(t)

	body := `[{"meetingId": "m1"}, {"meetingId": "m2"}]`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/meetings/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, pipeline.batchSize)
}

func TestGraphSummary(t *testing.T) {
	router, _, querier := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/graph/summary", nil)
	req.Header.Set("X-Tenant-ID", "acme")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", querier.lastTenant)

	var summary graph.GraphSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(2), summary.Meetings)
	assert.Equal(t, int64(3), summary.People)
}

func TestActionItemsByPerson(t *testing.T) {
	router, _, querier := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/actions/Sarah%20Connor", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sarah Connor", querier.lastPerson)
	assert.Equal(t, "default-tenant", querier.lastTenant)
	assert.Contains(t, w.Body.String(), "Review PR")
}

func TestSearchMeetings_RequiresQuery(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchMeetings_LimitParsing(t *testing.T) {
	router, _, querier := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings/search?q=budget&limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "budget", querier.lastTerm)
	assert.Equal(t, 5, querier.lastLimit)
}

func TestSearchMeetings_InvalidLimitFallsBack(t *testing.T) {
	router, _, querier := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings/search?q=budget&limit=abc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, querier.lastLimit)
}

func TestHistoricalContext_RequiresTopic(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/context", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoricalContext_DefaultWindow(t *testing.T) {
	router, _, querier := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/context?topic=migration", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "migration", querier.lastTopic)
	assert.Equal(t, 30, querier.lastDays)
}

func TestTeamHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/team/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDHeaderIsPreserved(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	router.ServeHTTP(w, req)

	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}
