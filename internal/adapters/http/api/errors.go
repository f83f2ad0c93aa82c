package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/okian/drawdown/internal/adapters/repository"
	service "github.com/okian/drawdown/internal/app"
	"github.com/okian/drawdown/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrNotFound     = errors.New("not found")
)

// kindError tags a cause with an operation and an error kind. Both the kind
// and the cause stay reachable through errors.Is.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// Wrap annotates err with op, keeping its chain and a stack trace.
func Wrap(op string, err error) error {
	return eris.Wrap(err, op)
}

type errorMapping struct {
	kind   error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{model.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{model.ErrInsufficientData, http.StatusBadRequest, "insufficient_data"},
	{model.ErrNonPositiveLogArgument, http.StatusBadRequest, "non_positive_log_argument"},
	{model.ErrUnknownMethod, http.StatusBadRequest, "unknown_method"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{model.ErrFitDivergence, http.StatusUnprocessableEntity, "fit_divergence"},
	{model.ErrSingularRegression, http.StatusUnprocessableEntity, "singular_regression"},
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrBackpressure, http.StatusTooManyRequests, "backpressure"},
	{ErrBackpressure, http.StatusTooManyRequests, "backpressure"},
	{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
	{context.Canceled, http.StatusServiceUnavailable, "canceled"},
}

// statusFor translates an error kind into an HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
