package api

import (
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/okian/drawdown/pkg/logger"
)

// AnalysesHandler runs synchronous analyses.
type AnalysesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps Dependencies, log logger.Logger) *AnalysesHandler {
	return &AnalysesHandler{deps: deps, logger: log}
}

// HandlePostAnalysis handles POST /v1/analyses requests. A fitted result is
// returned with 200; input problems map to 400 and fit failures to 422.
func (h *AnalysesHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "analysis failed",
				logger.String("method", req.Method.String()),
				logger.Any("error", eris.ToJSON(Wrap(op, err), true)),
			)
		}
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
