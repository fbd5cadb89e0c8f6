// Package chi exposes retrieval and ingestion over HTTP with the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain/ranking"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
	"github.com/kailas-cloud/prodex/internal/format"
	"github.com/kailas-cloud/prodex/internal/metrics"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	"github.com/kailas-cloud/prodex/internal/usecase/ingestion"
	"github.com/kailas-cloud/prodex/internal/usecase/retrieval"
)

// Response formats selected by the "format" query parameter.
const (
	formatJSON = "json"
	formatChat = "chat"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// RetrieveRequest is the POST /retrieve body.
type RetrieveRequest struct {
	Survey  survey.Survey   `json:"survey"`
	Options ranking.Options `json:"options"`
}

// ChatResponse wraps conversational output.
type ChatResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// IngestItem is one catalog item outcome in IngestResponse.
type IngestItem struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// IngestResponse is the POST /ingest body.
type IngestResponse struct {
	RunID      string       `json:"runId"`
	Trigger    string       `json:"trigger"`
	Success    bool         `json:"success"`
	Count      int          `json:"count"`
	Skipped    int          `json:"skipped"`
	DurationMs int64        `json:"durationMs"`
	Items      []IngestItem `json:"items,omitempty"`
}

// Server serves the retrieval API.
type Server struct {
	retrieval *retrieval.Service
	ingestion *ingestion.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval *retrieval.Service,
	ingestion *ingestion.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		retrieval: retrieval,
		ingestion: ingestion,
		health:    health,
		logger:    logger,
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := gochi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/retrieve", s.Retrieve)
	r.Get("/search", s.Search)
	r.Post("/routine", s.Routine)
	r.Post("/categories/{category}/retrieve", s.RetrieveByCategory)
	r.Post("/ingest", s.Ingest)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// Retrieve handles POST /retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	format, ok := s.bindFormat(w, r)
	if !ok {
		return
	}
	var req RetrieveRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, err := s.retrieval.Retrieve(r.Context(), req.Survey, req.Options)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeRanking(w, format, &resp)
}

// Search handles GET /search?q=&limit=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	format, ok := s.bindFormat(w, r)
	if !ok {
		return
	}
	var (
		query string
		limit int
	)
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter q: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter limit: "+err.Error())
		return
	}
	if limit < 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must not be negative")
		return
	}

	resp, err := s.retrieval.Search(r.Context(), query, nil, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeRanking(w, format, &resp)
}

// Routine handles POST /routine.
func (s *Server) Routine(w http.ResponseWriter, r *http.Request) {
	var sv survey.Survey
	if !s.decodeBody(w, r, &sv) {
		return
	}

	steps, err := s.retrieval.RetrieveRoutine(r.Context(), sv)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, format.Routine(steps))
}

// RetrieveByCategory handles POST /categories/{category}/retrieve.
func (s *Server) RetrieveByCategory(w http.ResponseWriter, r *http.Request) {
	format, ok := s.bindFormat(w, r)
	if !ok {
		return
	}
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter limit: "+err.Error())
		return
	}
	var sv survey.Survey
	if !s.decodeBody(w, r, &sv) {
		return
	}

	resp, err := s.retrieval.RetrieveByCategory(r.Context(), sv, gochi.URLParam(r, "category"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeRanking(w, format, &resp)
}

// Ingest handles POST /ingest by forcing a full re-ingestion.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	res := s.ingestion.ReIngestAll(r.Context())

	items := make([]IngestItem, len(res.Items))
	for i, it := range res.Items {
		items[i] = IngestItem{ID: it.ID(), Status: string(it.Status())}
		if it.Err() != nil {
			items[i].Error = it.Err().Error()
		}
	}
	body := IngestResponse{
		RunID:      res.RunID,
		Trigger:    string(res.Trigger),
		Success:    res.Success,
		Count:      res.Count,
		Skipped:    res.Skipped,
		DurationMs: res.Duration.Milliseconds(),
		Items:      items,
	}
	if !res.Success {
		s.logger.Warn("Manual ingestion failed", zap.String("run_id", res.RunID), zap.Error(res.Err))
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) bindFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	f := formatJSON
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &f); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter format: "+err.Error())
		return "", false
	}
	switch f {
	case formatJSON, formatChat:
		return f, true
	default:
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("format must be %q or %q, got %q", formatJSON, formatChat, f))
		return "", false
	}
}

// decodeBody decodes a JSON body. An empty body leaves v untouched.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeRanking(w http.ResponseWriter, f string, resp *ranking.Response) {
	if f == formatChat {
		writeJSON(w, http.StatusOK, ChatResponse{Message: format.Chat(resp)})
		return
	}
	writeJSON(w, http.StatusOK, format.JSON(resp))
}
