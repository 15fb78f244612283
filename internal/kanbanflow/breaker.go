package kanbanflow

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// NewBreaker builds a circuit breaker for the client. It opens after
// failures consecutive unhealthy calls and probes again with a single
// request once timeout has passed.
//
// Only transport failures and 5xx answers count against the remote. A 404
// or a payload that fails validation means the API is up.
func NewBreaker(name string, failures uint32, timeout time.Duration, onStateChange func(name string, from, to gobreaker.State)) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful:  remoteHealthy,
		OnStateChange: onStateChange,
	})
}

func remoteHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode < 500
	}
	return false
}
