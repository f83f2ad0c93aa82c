package api

import (
	"net/http"

	"github.com/okian/drawdown/internal/domain/model"
)

// MethodInfo describes what a method expects from the caller.
type MethodInfo struct {
	Name        string   `json:"name"`
	X           string   `json:"x"`
	Y           string   `json:"y"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional,omitempty"`
	Description string   `json:"description"`
}

var methodCatalog = map[model.Method]MethodInfo{
	model.MethodTheis: {
		X:           "time since pumping started",
		Y:           "drawdown (m)",
		Required:    []string{"discharge", "radius"},
		Optional:    []string{"time_unit"},
		Description: "Nonlinear least-squares fit of S and T to the Theis solution.",
	},
	model.MethodCooperJacobTime: {
		X:           "time since pumping started",
		Y:           "drawdown (m)",
		Required:    []string{"discharge", "radius"},
		Optional:    []string{"time_unit", "refit_excluded"},
		Description: "Semi-log straight line of drawdown against time; points with u > 0.05 are flagged.",
	},
	model.MethodCooperJacobDistance: {
		X:           "distance from the pumping well (m)",
		Y:           "drawdown (m)",
		Required:    []string{"discharge", "elapsed_time"},
		Optional:    []string{"time_unit", "refit_excluded"},
		Description: "Semi-log straight line of drawdown against distance at one instant.",
	},
	model.MethodDupuitForchheimer: {
		X:           "distance from the pumping well (m)",
		Y:           "drawdown (m)",
		Required:    []string{"discharge", "recharge", "conductivity", "initial_head"},
		Optional:    []string{"target_radius", "curve_start", "curve_end", "curve_points"},
		Description: "Steady unconfined head profile with areal recharge; observations are optional.",
	},
	model.MethodTheisRecovery: {
		X:           "time since pumping stopped",
		Y:           "residual drawdown (m)",
		Required:    []string{"discharge", "pumping_duration"},
		Optional:    []string{"time_unit"},
		Description: "Semi-log straight line of residual drawdown against t/t'.",
	},
}

// Catalog lists every supported method in display order.
func Catalog() []MethodInfo {
	out := make([]MethodInfo, 0, len(methodCatalog))
	for _, m := range model.Methods() {
		info := methodCatalog[m]
		info.Name = m.String()
		out = append(out, info)
	}
	return out
}

// MethodsHandler lists the supported methods.
type MethodsHandler struct{}

// NewMethodsHandler creates a new methods handler.
func NewMethodsHandler() *MethodsHandler {
	return &MethodsHandler{}
}

// HandleGetMethods handles GET /v1/methods requests.
func (h *MethodsHandler) HandleGetMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, Catalog())
}
