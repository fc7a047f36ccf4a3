package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencestack/cadence-engine/internal/cache"
	"github.com/cadencestack/cadence-engine/internal/engine"
	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/retrieval"
	"github.com/cadencestack/cadence-engine/internal/services"
)

type fixedCorpus []models.Snippet

func (c fixedCorpus) Snippets(_ context.Context) ([]models.Snippet, error) {
	return c, nil
}

func newTestHandler(t *testing.T, corpus fixedCorpus) *Handler {
	t.Helper()
	pipeline := engine.NewPipeline(nil, corpus, retrieval.NewEngine(), 4, 8)
	svc, err := services.NewAnalysisService(nil, pipeline, cache.NewMemoryProvider(), time.Minute, 16)
	require.NoError(t, err)
	return NewHandler(nil, svc)
}

func defaultCorpus() fixedCorpus {
	return fixedCorpus{
		{ID: "a", Category: "avoidance", Title: "Shrink the task", Text: "Break the avoided task into one small first step.", Tags: []string{"start"}},
		{ID: "b", Category: "planning", Title: "Plan tomorrow", Text: "Write tomorrow's first task before closing the day.", Tags: []string{}},
	}
}

func postJSON(t *testing.T, h http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := postJSON(t, h, "/api/v1/analyze", models.AnalysisRequest{
		Timestamps: []string{
			"2025-03-03T10:00:00Z",
			"2025-03-04T10:30:00Z",
			"2025-03-05T11:00:00Z",
		},
		Meta: map[string]string{"source": "api-test"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.AnalysisID)
	assert.NotEmpty(t, result.Scores.Pattern)
	assert.Equal(t, 3, result.Explainability.TotalEvents)
	assert.NotEmpty(t, result.Snippets)
	assert.Equal(t, "api-test", result.Meta["source"])

	// The wire contract keys.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"analysis_id", "advanced", "explainability", "snippets"} {
		assert.Contains(t, raw, key)
	}
}

func TestAnalyzeEndpointBadJSON(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointEmptyLog(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := postJSON(t, h, "/api/v1/analyze", models.AnalysisRequest{Timestamps: []string{"garbage"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyzeEndpointMissingColumn(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := postJSON(t, h, "/api/v1/analyze", map[string]any{"k": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointEmptyCorpus(t *testing.T) {
	h := newTestHandler(t, fixedCorpus{})
	rec := postJSON(t, h, "/api/v1/analyze", models.AnalysisRequest{
		Timestamps: []string{"2025-03-03T10:00:00Z"},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalyzeCSVEndpoint(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	csv := "user,timestamp\nalice,2025-03-03T10:00:00Z\nalice,2025-03-04T10:30:00Z\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/csv?k=1&category=planning", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Explainability.TotalEvents)
	require.Len(t, result.Snippets, 1)
	assert.Equal(t, "planning", result.Snippets[0].Category)
}

func TestSnippetsEndpoint(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/snippets?query=first+step&k=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Snippets []models.RetrievalResult `json:"snippets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Snippets, 2)
}

func TestSnippetsEndpointRequiresQuery(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/snippets", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := postJSON(t, h, "/api/v1/report", models.AnalysisRequest{
		Timestamps: []string{
			"2025-03-03T10:00:00Z",
			"2025-03-04T10:30:00Z",
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Procrastination Pattern Analysis Report")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, defaultCorpus())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
