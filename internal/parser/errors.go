package parser

import (
	"fmt"

	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/pkg/failure"
)

type ParseErrorCause string

const (
	ErrCauseNotANumber ParseErrorCause = "not a number"
)

// ParseError reports a value that could not be converted to its declared type.
type ParseError struct {
	Message     string
	Cause       ParseErrorCause
	Sensor      string
	Measurement string
	Value       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser error: %s: sensor %s, measurement %s, value %q", e.Cause, e.Sensor, e.Measurement, e.Value)
}

// Severity is always fatal: the same text parses the same way every time.
func (e *ParseError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// mapParseErrorToMetadataCause maps parser-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapParseErrorToMetadataCause(err *ParseError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNotANumber:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
