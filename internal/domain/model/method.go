// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Method selects the analytical pumping-test method.
type Method int

const (
	// MethodUnknown is the zero value and never a valid selection.
	MethodUnknown Method = iota
	// MethodTheis fits S and T with the full Theis solution.
	MethodTheis
	// MethodCooperJacobTime fits a semi-log line to time-drawdown data.
	MethodCooperJacobTime
	// MethodCooperJacobDistance fits a semi-log line to distance-drawdown data.
	MethodCooperJacobDistance
	// MethodDupuitForchheimer evaluates the steady unconfined head profile.
	MethodDupuitForchheimer
	// MethodTheisRecovery fits residual drawdown against t/t'.
	MethodTheisRecovery
)

var methodNames = map[Method]string{
	MethodTheis:               "theis",
	MethodCooperJacobTime:     "cooper_jacob_time",
	MethodCooperJacobDistance: "cooper_jacob_distance",
	MethodDupuitForchheimer:   "dupuit_forchheimer",
	MethodTheisRecovery:       "theis_recovery",
}

var methodAliases = map[string]Method{
	"theis":                 MethodTheis,
	"cooper_jacob_time":     MethodCooperJacobTime,
	"cooper_jacob":          MethodCooperJacobTime,
	"cooper_jacob_distance": MethodCooperJacobDistance,
	"dupuit_forchheimer":    MethodDupuitForchheimer,
	"thiem":                 MethodDupuitForchheimer,
	"theis_recovery":        MethodTheisRecovery,
	"recovery":              MethodTheisRecovery,
}

// Methods lists every supported method in display order.
func Methods() []Method {
	return []Method{
		MethodTheis,
		MethodCooperJacobTime,
		MethodCooperJacobDistance,
		MethodDupuitForchheimer,
		MethodTheisRecovery,
	}
}

// String returns the canonical method name.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMethod maps a method name (canonical or alias, case-insensitive,
// dashes allowed) to a Method.
func ParseMethod(name string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}
	return MethodUnknown, &Error{Kind: ErrUnknownMethod, Field: "method", Index: -1, Msg: fmt.Sprintf("unknown method %q", name)}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UsesTime reports whether observation X values are times.
func (m Method) UsesTime() bool {
	return m == MethodTheis || m == MethodCooperJacobTime || m == MethodTheisRecovery
}

// HasValidityFilter reports whether the method is a small-u approximation
// whose observations are annotated against the u threshold.
func (m Method) HasValidityFilter() bool {
	return m == MethodCooperJacobTime || m == MethodCooperJacobDistance
}

// TimeUnit is the unit of observation times and elapsed/pumping durations.
type TimeUnit int

const (
	// Days is the default unit; transmissivity is reported in m²/day.
	Days TimeUnit = iota
	// Minutes is the unit field crews usually record.
	Minutes
)

// MinutesPerDay converts minutes to days.
const MinutesPerDay = 1440.0

// String returns the unit name.
func (u TimeUnit) String() string {
	if u == Minutes {
		return "minutes"
	}
	return "days"
}

// ToDays converts a value in this unit to days.
func (u TimeUnit) ToDays(v float64) float64 {
	if u == Minutes {
		return v / MinutesPerDay
	}
	return v
}

// FromDays converts a value in days to this unit.
func (u TimeUnit) FromDays(v float64) float64 {
	if u == Minutes {
		return v * MinutesPerDay
	}
	return v
}

// MarshalText implements encoding.TextMarshaler.
func (u TimeUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *TimeUnit) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "day", "days", "d":
		*u = Days
	case "minute", "minutes", "min", "mins":
		*u = Minutes
	default:
		return &Error{Kind: ErrInvalidInput, Field: "time_unit", Index: -1, Msg: fmt.Sprintf("unknown time unit %q", string(text))}
	}
	return nil
}
