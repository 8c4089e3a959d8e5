package fetcher

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseInvalidRequest        FetchErrorCause = "invalid request"
	ErrCauseNetworkFailure        FetchErrorCause = "network issues"
	ErrCauseUnexpectedStatus      FetchErrorCause = "unexpected status"
	ErrCauseReadResponseBodyError FetchErrorCause = "failed to read response body"
	ErrCauseEmptyBody             FetchErrorCause = "empty response body"
)

var (
	ErrEmptyBody        = errors.New("response body is empty")
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// FetchError is returned for every failed network attempt. Err carries the
// underlying transport error, or one of the sentinels above when the
// transport succeeded but the response was unusable.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
	URL       string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable reports whether a later attempt could succeed. The fetcher
// itself never retries.
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure, ErrCauseUnexpectedStatus, ErrCauseReadResponseBodyError:
		return metadata.CauseNetworkFailure
	case ErrCauseEmptyBody:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
