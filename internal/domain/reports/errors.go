package reports

import "errors"

// Code is a stable machine-readable error code surfaced on the wire.
type Code string

const (
	CodeMissingPatientInfo  Code = "MISSING_PATIENT_INFO"
	CodeMissingAgentResults Code = "MISSING_AGENT_RESULTS"
	CodeMissingSummary      Code = "MISSING_SUMMARY"
	CodeInvalidID           Code = "INVALID_ID"
	CodeInvalidCursor       Code = "INVALID_CURSOR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeDatabase            Code = "DATABASE_ERROR"
)

// ValidationError is a client-caused failure; never retried automatically.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrNotFound indicates a well-formed identifier with no matching row.
var ErrNotFound = errors.New("report not found")
