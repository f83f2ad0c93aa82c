package api

import (
	"net/http"
	"time"

	service "github.com/okian/drawdown/internal/app"
)

// StatsHandler serves a snapshot of queue, worker and job store state.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

type statsResponse struct {
	service.Stats
	QueueUtilization float64   `json:"queue_utilization"`
	Time             time.Time `json:"time"`
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	st := h.statsProvider.GetStats(r.Context())
	resp := statsResponse{Stats: st, Time: time.Now().UTC()}
	if st.QueueSize > 0 {
		resp.QueueUtilization = float64(st.QueueLength) / float64(st.QueueSize)
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}
