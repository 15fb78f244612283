package kanbanflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is wrapped by the ConfigurationError returned when the
// client is built without an API key.
var ErrMissingAPIKey = errors.New("KANBANFLOW_API_KEY is required")

// Error kinds reported by KindOf.
const (
	KindConfiguration = "configuration"
	KindTransport     = "transport"
	KindRemote        = "remote"
	KindValidation    = "validation"
	KindUnknown       = "unknown"
)

// ConfigurationError means the client cannot be used at all. It is raised
// before any network I/O and retrying will not help.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("kanbanflow configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// TransportError means the API could not be reached: DNS, connection,
// timeout, cancelled context, or an open circuit breaker.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("KanbanFlow API unreachable (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError means the API answered with a non-2xx status.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("KanbanFlow API error %d: %s", e.StatusCode, e.Body)
}

// ValidationError means the API answered 2xx with a payload that does not
// match the expected shape.
type ValidationError struct {
	Op     string
	Issues []Issue
	Err    error
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "Invalid response format: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// KindOf classifies err into one of the Kind* constants.
func KindOf(err error) string {
	var (
		cfgErr       *ConfigurationError
		transportErr *TransportError
		remoteErr    *RemoteError
		validErr     *ValidationError
	)
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &remoteErr):
		return KindRemote
	case errors.As(err, &validErr):
		return KindValidation
	default:
		return KindUnknown
	}
}

// ErrorFields returns structured context about err for loggers. The keys
// are stable: error, error_kind, op, status, issues.
func ErrorFields(err error) map[string]any {
	fields := map[string]any{
		"error":      err.Error(),
		"error_kind": KindOf(err),
	}

	var (
		transportErr *TransportError
		remoteErr    *RemoteError
		validErr     *ValidationError
	)
	switch {
	case errors.As(err, &transportErr):
		fields["op"] = transportErr.Op
	case errors.As(err, &remoteErr):
		fields["op"] = remoteErr.Op
		fields["status"] = remoteErr.StatusCode
	case errors.As(err, &validErr):
		fields["op"] = validErr.Op
		fields["issues"] = len(validErr.Issues)
	}
	return fields
}
