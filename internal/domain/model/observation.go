package model

// Observation is one field reading. X is time or distance depending on the
// method; Y is drawdown or residual drawdown in meters.
type Observation struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Split copies the observations into parallel x and y slices.
// The caller's slice is never modified.
func Split(obs []Observation) (xs, ys []float64) {
	xs = make([]float64, len(obs))
	ys = make([]float64, len(obs))
	for i, o := range obs {
		xs[i] = o.X
		ys[i] = o.Y
	}
	return xs, ys
}

// Zip builds observations from parallel slices. It returns an
// ErrInvalidInput error when the lengths differ.
func Zip(xs, ys []float64) ([]Observation, error) {
	if len(xs) != len(ys) {
		return nil, &Error{Kind: ErrInvalidInput, Field: "observations", Index: -1, Msg: "x and y sequences differ in length"}
	}
	obs := make([]Observation, len(xs))
	for i := range xs {
		obs[i] = Observation{X: xs[i], Y: ys[i]}
	}
	return obs, nil
}

// TestParameters holds the fixed inputs of one pumping test. Which fields
// are required depends on the method.
type TestParameters struct {
	// Discharge is the pumping rate Q in m³/day.
	Discharge float64 `json:"discharge" yaml:"discharge"`
	// Radius is the distance r from the pumping well to the observation well in m.
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	// ElapsedTime is the time since pumping began, for distance-drawdown.
	ElapsedTime float64 `json:"elapsed_time,omitempty" yaml:"elapsed_time,omitempty"`
	// PumpingDuration is t_p, the time pumping ran before it stopped (recovery).
	PumpingDuration float64 `json:"pumping_duration,omitempty" yaml:"pumping_duration,omitempty"`
	// TimeUnit applies to observation times, ElapsedTime and PumpingDuration.
	TimeUnit TimeUnit `json:"time_unit" yaml:"time_unit"`

	// Recharge is the areal recharge rate R in m/day (Dupuit-Forchheimer).
	Recharge float64 `json:"recharge,omitempty" yaml:"recharge,omitempty"`
	// Conductivity is the hydraulic conductivity K in m/day.
	Conductivity float64 `json:"conductivity,omitempty" yaml:"conductivity,omitempty"`
	// InitialHead is h0, the head at the radius of influence in m.
	InitialHead float64 `json:"initial_head,omitempty" yaml:"initial_head,omitempty"`
	// TargetRadius is the radius at which head and drawdown are reported.
	TargetRadius float64 `json:"target_radius,omitempty" yaml:"target_radius,omitempty"`
	// CurveStart, CurveEnd and CurvePoints describe the interpolation window.
	// A nil CurveStart and zero CurveEnd or CurvePoints select defaults; an
	// explicit CurveStart of 0 starts the curve at the well.
	CurveStart  *float64 `json:"curve_start,omitempty" yaml:"curve_start,omitempty"`
	CurveEnd    float64  `json:"curve_end,omitempty" yaml:"curve_end,omitempty"`
	CurvePoints int      `json:"curve_points,omitempty" yaml:"curve_points,omitempty"`
}

// Request is one analysis invocation as received from an adapter.
type Request struct {
	// RequestID is an optional client key used for idempotent job submission.
	RequestID    string         `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Method       Method         `json:"method" yaml:"method"`
	Params       TestParameters `json:"params" yaml:"params"`
	Observations []Observation  `json:"observations" yaml:"observations"`
	// RefitExcluded asks for one explicit re-run of a Cooper-Jacob fit using
	// only the observations inside the u validity range.
	RefitExcluded bool `json:"refit_excluded,omitempty" yaml:"refit_excluded,omitempty"`
}
