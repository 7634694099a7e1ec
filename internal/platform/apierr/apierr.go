package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Unavailable marks a request that cannot be served because the
// planner failed to initialize (missing credentials or API key).
func Unavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, "planner_unavailable", err)
}

// PlanGeneration marks a turn where the model did not return a usable
// plan; the caller surfaces the message verbatim.
func PlanGeneration(err error) *Error {
	return New(http.StatusBadRequest, "plan_generation_failed", err)
}

// Integration marks a calendar batch where nothing was inserted.
func Integration(err error) *Error {
	return New(http.StatusInternalServerError, "calendar_integration_failed", err)
}

func NotFound(code string) *Error {
	return New(http.StatusNotFound, code, nil)
}

// StatusOf extracts the HTTP status from an error chain, defaulting
// to 500 for untyped errors.
func StatusOf(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, ae.Code
	}
	return http.StatusInternalServerError, "internal"
}
