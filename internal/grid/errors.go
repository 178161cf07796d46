package grid

import (
	"errors"
	"fmt"
)

// ValidationError reports an invalid definition or an invalid change request.
// Both are programmer errors: a correct screen never produces one at runtime.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// FetchError wraps a data source failure with the state that was requested.
type FetchError struct {
	State State
	Err   error
}

func (e FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch page %d failed", e.State.Page)
	}
	return fmt.Sprintf("fetch page %d: %v", e.State.Page, e.Err)
}

func (e FetchError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsFetch reports whether err is or wraps a FetchError.
func IsFetch(err error) bool {
	var target FetchError
	return errors.As(err, &target)
}
