package model

import "fmt"

// Status is the lifecycle of one analysis:
// AwaitingData -> Fitting -> {Fitted | FitFailed}.
type Status int

const (
	// StatusAwaitingData means the analysis has inputs queued but not started.
	StatusAwaitingData Status = iota
	// StatusFitting means an estimator is running.
	StatusFitting
	// StatusFitted is terminal: parameters and diagnostics are available.
	StatusFitted
	// StatusFitFailed is terminal: Reason explains the failure.
	StatusFitFailed
)

var statusNames = map[Status]string{
	StatusAwaitingData: "awaiting_data",
	StatusFitting:      "fitting",
	StatusFitted:       "fitted",
	StatusFitFailed:    "fit_failed",
}

// String returns the status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusFitted || s == StatusFitFailed
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for st, name := range statusNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return &Error{Kind: ErrInvalidInput, Field: "status", Index: -1, Msg: fmt.Sprintf("unknown status %q", string(text))}
}

// BoundaryHint interprets the recovery storativity ratio S/S'.
type BoundaryHint string

const (
	// BoundaryNone means S/S' is close to unity.
	BoundaryNone BoundaryHint = "none"
	// BoundaryRecharge means S/S' > 1, suggesting recharge during the test.
	BoundaryRecharge BoundaryHint = "recharge"
	// BoundaryNoFlow means S/S' < 1, suggesting a no-flow boundary.
	BoundaryNoFlow BoundaryHint = "no_flow"
)

// PointDiagnostic describes one observation after fitting.
type PointDiagnostic struct {
	Index     int     `json:"index"`
	X         float64 `json:"x"`
	Observed  float64 `json:"observed"`
	Predicted float64 `json:"predicted"`
	Residual  float64 `json:"residual"`
	// RelativeError is (observed - predicted) / observed, zero when observed is zero.
	RelativeError float64 `json:"relative_error"`
	// U is the dimensionless time parameter; zero for methods without one.
	U float64 `json:"u,omitempty"`
	// Included is false when U exceeds the validity threshold.
	Included bool `json:"included"`
	// Elapsed and SinceStop are t and t' for recovery points.
	Elapsed   float64 `json:"elapsed,omitempty"`
	SinceStop float64 `json:"since_stop,omitempty"`
}

// CurvePoint is one sample of a predicted curve.
type CurvePoint struct {
	X        float64 `json:"x"`
	Drawdown float64 `json:"drawdown"`
	Head     float64 `json:"head,omitempty"`
}

// Line is the fitted semi-log straight line y = Intercept + Slope*ln(x).
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// FitResult is the outcome of one analysis. It is built fresh per run and
// owned by the caller.
type FitResult struct {
	Method Method `json:"method"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`

	// Storativity S (dimensionless) and Transmissivity T (m²/day).
	Storativity    float64 `json:"storativity,omitempty"`
	Transmissivity float64 `json:"transmissivity,omitempty"`

	// StorativityRatio is S/S' from a recovery analysis.
	StorativityRatio float64      `json:"storativity_ratio,omitempty"`
	BoundaryHint     BoundaryHint `json:"boundary_hint,omitempty"`

	// Line-fit outputs for the semi-log methods.
	Line             *Line   `json:"line,omitempty"`
	DeltaPerLogCycle float64 `json:"delta_per_log_cycle,omitempty"`
	// Root is the x-intercept of the fitted line: t0, r0 or S/S'.
	Root float64 `json:"root,omitempty"`

	// Dupuit-Forchheimer outputs.
	RadiusOfInfluence float64 `json:"radius_of_influence,omitempty"`
	TargetRadius      float64 `json:"target_radius,omitempty"`
	HeadAtTarget      float64 `json:"head_at_target,omitempty"`
	DrawdownAtTarget  float64 `json:"drawdown_at_target,omitempty"`

	// Diagnostics.
	Points                   []PointDiagnostic `json:"points,omitempty"`
	RMS                      float64           `json:"rms"`
	MeanSquaredError         float64           `json:"mean_squared_error"`
	MeanSquaredRelativeError float64           `json:"mean_squared_relative_error"`
	RSquared                 float64           `json:"r_squared"`
	Excluded                 int               `json:"excluded"`
	// TimeAtValidity is the time at which u reaches the threshold, in the
	// request's time unit.
	TimeAtValidity float64 `json:"time_at_validity,omitempty"`
	Iterations     int     `json:"iterations,omitempty"`

	Curve    []CurvePoint `json:"curve,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Failed builds a FitFailed result for method carrying err as the reason.
func Failed(method Method, err error) *FitResult {
	r := &FitResult{Method: method, Status: StatusFitFailed}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// Warn appends a warning message.
func (r *FitResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
