package api

import (
	"net/http"
	"strings"

	"github.com/okian/drawdown/pkg/logger"
)

// JobsHandler submits and looks up asynchronous analyses.
type JobsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps Dependencies, log logger.Logger) *JobsHandler {
	return &JobsHandler{deps: deps, logger: log}
}

// HandlePostJob handles POST /v1/jobs requests. A new job answers 202, a
// repeated request_id answers 200 with the earlier job and a full queue
// answers 429. Method-specific input checks run at fit time and end the job
// as fit_failed.
func (h *JobsHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id, duplicate, err := h.deps.Submit(r.Context(), req)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusTooManyRequests {
			err = WrapKind(op, ErrBackpressure, err)
		}
		h.logger.Warn(r.Context(), "job not accepted",
			logger.String("request_id", req.RequestID),
			logger.Int("status", status),
			logger.Error(err),
		)
		writeError(w, status, code, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, jobResponse{JobID: id, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, jobResponse{JobID: id, Status: "accepted"})
}

// HandleGetJob handles GET /v1/jobs/{id} requests.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	job, err := h.deps.Job(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, job)
}
