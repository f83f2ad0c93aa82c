package model

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel error kinds for analyses. These allow errors.Is from callers.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInsufficientData       = errors.New("insufficient data")
	ErrNonPositiveLogArgument = errors.New("non-positive log argument")
	ErrFitDivergence          = errors.New("fit divergence")
	ErrSingularRegression     = errors.New("singular regression")
	ErrUnknownMethod          = errors.New("unknown method")
)

// Error carries an error kind plus the offending field, observation index
// and value so callers can render a precise message.
type Error struct {
	Kind  error
	Field string
	// Index is the observation index, or -1 when the error is not per-point.
	Index int
	Value float64
	Msg   string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Index >= 0 {
		msg += "[" + strconv.Itoa(e.Index) + "]"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

// Unwrap exposes the kind for errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

// InvalidParam reports a scalar parameter outside its domain.
func InvalidParam(field string, value float64, msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Field: field, Index: -1, Value: value, Msg: fmt.Sprintf("%s (got %g)", msg, value)}
}

// InvalidPoint reports a malformed observation.
func InvalidPoint(index int, value float64, msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Field: "observations", Index: index, Value: value, Msg: msg}
}

// NonPositiveLog reports an observation whose x cannot enter a logarithm.
func NonPositiveLog(field string, index int, value float64) *Error {
	return &Error{Kind: ErrNonPositiveLogArgument, Field: field, Index: index, Value: value, Msg: fmt.Sprintf("must be > 0 (got %g)", value)}
}

// Insufficient reports too few observations.
func Insufficient(have, need int) *Error {
	return &Error{Kind: ErrInsufficientData, Field: "observations", Index: -1, Value: float64(have), Msg: fmt.Sprintf("need at least %d points, got %d", need, have)}
}

// Divergence reports a nonlinear fit that did not converge.
func Divergence(msg string) *Error {
	return &Error{Kind: ErrFitDivergence, Index: -1, Msg: msg}
}

// Singular reports a regression without a usable slope.
func Singular(msg string) *Error {
	return &Error{Kind: ErrSingularRegression, Index: -1, Msg: msg}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
