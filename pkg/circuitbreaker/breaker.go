package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds circuit breaker configuration
type Config struct {
	Name          string
	MaxRequests   uint32        // Max requests allowed in half-open state
	Interval      time.Duration // Interval for resetting failure counts
	Timeout       time.Duration // Duration of open state before trying again
	ReadyToTrip   func(counts gobreaker.Counts) bool
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: IgnoreClientErrors,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
}

// IgnoreClientErrors treats upstream 4xx answers as healthy: the remote
// service responded, the request itself was wrong. Calls abandoned by their
// caller are not counted either.
func IgnoreClientErrors(err error) bool {
	if err == nil {
		return true
	}
	var gone *callerGoneError
	if errors.As(err, &gone) || errors.Is(err, context.Canceled) {
		return true
	}
	if re, ok := apperrors.AsRemote(err); ok {
		return re.StatusCode < http.StatusInternalServerError && re.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// NewCircuitBreaker creates a new circuit breaker with the given config
func NewCircuitBreaker(cfg Config) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.ReadyToTrip,
		IsSuccessful:  cfg.IsSuccessful,
		OnStateChange: cfg.OnStateChange,
	}

	return gobreaker.NewCircuitBreaker(settings)
}

// Execute wraps a function call with circuit breaker logic
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		var zero T
		return zero, FormatError(cb.Name(), err)
	}

	typedResult, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("type assertion failed in circuit breaker")
	}

	return typedResult, nil
}

// callerGoneError marks a failure that happened after the caller's context ended
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }
func (e *callerGoneError) Unwrap() error { return e.err }

// ExecuteContext is Execute for a call bound to ctx. A failure observed after
// ctx is done (client disconnect, request deadline) leaves the breaker
// counts untouched; upstream timeouts under a live ctx still count.
func ExecuteContext[T any](ctx context.Context, cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := Execute(cb, func() (T, error) {
		res, err := fn()
		if err != nil && ctx.Err() != nil {
			return res, &callerGoneError{err: err}
		}
		return res, err
	})

	var gone *callerGoneError
	if errors.As(err, &gone) {
		return result, gone.err
	}
	return result, err
}

// IsOpenError reports whether err was produced by a breaker refusing the call
func IsOpenError(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// GetState returns the current state of the circuit breaker
func GetState(cb *gobreaker.CircuitBreaker) string {
	return cb.State().String()
}

// FormatError wraps the error with circuit breaker information
func FormatError(breakerName string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) {
		return fmt.Errorf("circuit breaker '%s' is open: %w", breakerName, err)
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker '%s' has too many requests: %w", breakerName, err)
	}
	return err
}
