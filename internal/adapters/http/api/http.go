// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/drawdown/internal/adapters/repository"
	service "github.com/okian/drawdown/internal/app"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/pkg/logger"
)

// maxBodyBytes caps request bodies; a pumping test rarely has more than a
// few hundred readings.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Analyze fits one request synchronously.
	Analyze(ctx context.Context, req model.Request) (*model.FitResult, error)

	// Submit queues a request. duplicate is set when the request ID was
	// seen before and jobID is the earlier job.
	Submit(ctx context.Context, req model.Request) (jobID string, duplicate bool, err error)

	// Job returns a stored job.
	Job(ctx context.Context, id string) (repository.Job, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysesHandler *AnalysesHandler
	jobsHandler     *JobsHandler
	methodsHandler  *MethodsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	log := logger.Get().Named("api")
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		analysesHandler: NewAnalysesHandler(deps, log),
		jobsHandler:     NewJobsHandler(deps, log),
		methodsHandler:  NewMethodsHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/analyses", MetricsMiddleware(s.analysesHandler.HandlePostAnalysis, "analyses"))
	mux.HandleFunc("/v1/jobs", MetricsMiddleware(s.jobsHandler.HandlePostJob, "jobs"))
	mux.HandleFunc("/v1/jobs/", MetricsMiddleware(s.jobsHandler.HandleGetJob, "job"))
	mux.HandleFunc("/v1/methods", MetricsMiddleware(s.methodsHandler.HandleGetMethods, "methods"))
}

// decodeRequest reads an analysis request body. Unknown fields are rejected
// so misspelled parameters do not silently default to zero.
func decodeRequest(w http.ResponseWriter, r *http.Request) (model.Request, error) {
	var req model.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.Request{}, err
	}
	return req, nil
}

type jobResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Index   *int     `json:"index,omitempty"`
	Value   *float64 `json:"value,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	body := errorResponse{Code: code, Message: msg}
	if e, ok := model.AsError(err); ok {
		body.Field = e.Field
		if e.Index >= 0 {
			idx, val := e.Index, e.Value
			body.Index = &idx
			body.Value = &val
		}
	}
	writeJSON(w, status, body)
}
