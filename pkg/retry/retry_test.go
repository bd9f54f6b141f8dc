package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func fastConfig(maxRetries int) Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = maxRetries
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.Jitter = false
	return cfg
}

func TestDoWithResult_SucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	result, err := DoWithResult(context.Background(), fastConfig(2), "test", func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("connection reset")
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestDoWithResult_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	_, err := DoWithResult(context.Background(), fastConfig(3), "test", func() (int, error) {
		calls++
		return 0, apperrors.NewRemoteError("directus", http.StatusForbidden, "forbidden")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	_, ok := apperrors.AsRemote(err)
	assert.True(t, ok)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(2), "test", func() error {
		calls++
		return apperrors.NewRemoteError("directus", http.StatusBadGateway, "")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "operation failed after 2 retries")
	assert.True(t, apperrors.Is(err, apperrors.ErrRemote))
}

func TestDo_ZeroRetriesReturnsOriginalError(t *testing.T) {
	boom := errors.New("boom")
	err := Do(context.Background(), fastConfig(0), "test", func() error { return boom })
	assert.Equal(t, boom, err)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(3), "test", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryable(apperrors.NewRemoteError("directus", http.StatusServiceUnavailable, "")))
	assert.True(t, IsRetryable(apperrors.NewRemoteError("directus", http.StatusTooManyRequests, "")))
	assert.False(t, IsRetryable(apperrors.NewRemoteError("directus", http.StatusNotFound, "")))
}

func TestCalculateDelay_CapsAtMaxDelay(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, calculateDelay(0, cfg))
	assert.Equal(t, 2*time.Second, calculateDelay(1, cfg))
	assert.Equal(t, 3*time.Second, calculateDelay(5, cfg))
}
