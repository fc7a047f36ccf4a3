package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cadencestack/cadence-engine/internal/ingest"
	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/retrieval"
	"github.com/cadencestack/cadence-engine/internal/services"
	"github.com/cadencestack/cadence-engine/internal/timeseries"
)

// Handler exposes the analysis service over JSON HTTP.
type Handler struct {
	logger  *slog.Logger
	service *services.AnalysisService
	router  *mux.Router
}

// NewHandler constructs the HTTP handler and wires its routes.
func NewHandler(logger *slog.Logger, service *services.AnalysisService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:  logger,
		service: service,
		router:  mux.NewRouter(),
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	h.router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	h.router.HandleFunc("/api/v1/analyze", h.handleAnalyze).Methods(http.MethodPost)
	h.router.HandleFunc("/api/v1/analyze/csv", h.handleAnalyzeCSV).Methods(http.MethodPost)
	h.router.HandleFunc("/api/v1/snippets", h.handleSnippets).Methods(http.MethodGet)
	h.router.HandleFunc("/api/v1/report", h.handleReport).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleAnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	table, err := ingest.ParseCSV(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	k, _ := strconv.Atoi(query.Get("k"))
	result, err := h.service.AnalyzeTable(r.Context(), table, k, query.Get("category"), nil)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSnippets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	text := query.Get("query")
	if text == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}
	k, _ := strconv.Atoi(query.Get("k"))

	results, err := h.service.RetrieveSnippets(r.Context(), text, k, query.Get("category"))
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"snippets": results})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	rendered, err := h.service.Report(r.Context(), req)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

// writeAnalysisError maps domain errors to HTTP statuses: input problems are
// the caller's to fix, an empty corpus is a server misconfiguration.
func (h *Handler) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timeseries.ErrMissingTimestampColumn):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, timeseries.ErrEmptyLog):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, retrieval.ErrEmptyCorpus):
		h.logger.Error("snippet corpus is empty")
		h.writeError(w, http.StatusInternalServerError, "snippet corpus is not configured")
	default:
		h.logger.Error("analysis failed", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("write response failed", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
