package core

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when the provider rejects the credential
	ErrAuth = errors.New("authentication failed")
	// ErrToolMismatch is returned when the response lacks the forced tool call
	ErrToolMismatch = errors.New("missing expected tool call")
	// ErrMalformedArguments is returned when the tool call arguments are not valid JSON
	ErrMalformedArguments = errors.New("malformed tool call arguments")
	// ErrTransport is returned for any other failure talking to the provider
	ErrTransport = errors.New("transport failure")
	// ErrSchemaViolation is returned when a parsed summary breaks the declared schema
	ErrSchemaViolation = errors.New("summary violates schema")
)

// SummaryError carries the kind of a summarization failure and its cause
type SummaryError struct {
	Op   string
	Kind error
	// Raw is the offending argument string, when there is one
	Raw string
	Err error
}

// NewError creates a SummaryError of the given kind
func NewError(op string, kind error, err error) *SummaryError {
	return &SummaryError{Op: op, Kind: kind, Err: err}
}

func (e *SummaryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *SummaryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// RawArguments returns the offending argument string carried by err, if any
func RawArguments(err error) (string, bool) {
	var se *SummaryError
	if errors.As(err, &se) && se.Raw != "" {
		return se.Raw, true
	}
	return "", false
}
