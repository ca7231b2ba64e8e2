package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain specific errors shared across the review subsystem.
var (
	ErrNotFound          = errors.New("requested item not found")
	ErrConflict          = errors.New("item already exists or conflict")
	ErrUnauthenticated   = errors.New("authentication required or invalid credentials")
	ErrForbidden         = errors.New("action forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation failed")
	ErrPersistence       = errors.New("storage unavailable")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationErrors carries one message per invalid field so callers can render
// a full form. It never short-circuits on the first failure.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrValidation.Error()
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) work on a ValidationErrors value.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
