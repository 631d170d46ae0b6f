package services

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a missing or malformed required input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SchemaError reports tabular input lacking required columns.
type SchemaError struct {
	Missing []string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// UpstreamError wraps a failure of an augmentation step or the inference call.
// Its message is the wrapped error's message, unchanged.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsClientError reports whether err should be answered with HTTP 400.
func IsClientError(err error) bool {
	var ve *ValidationError
	var se *SchemaError
	return errors.As(err, &ve) || errors.As(err, &se)
}
