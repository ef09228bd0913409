package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "admissions-platform/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"broken pipe", true},
		{"NOT_FOUND: process definition not found", false},
		{"invalid argument", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableZeebeError(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	stdErr, ok := apperrors.As(mapZeebeError(fmt.Errorf("deadline exceeded"), "topology", 2))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTimeout, stdErr.Code)

	stdErr, ok = apperrors.As(mapZeebeError(fmt.Errorf("process not found"), "create-instance", 0))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeResourceNotFound, stdErr.Code)

	stdErr, ok = apperrors.As(mapZeebeError(fmt.Errorf("boom"), "topology", 0))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeExternalService, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecuteWithRetry(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	}}}

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		result, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
			calls++
			if calls < 3 {
				return nil, fmt.Errorf("connection refused")
			}
			return "ok", nil
		}, "topology")

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
			calls++
			return nil, fmt.Errorf("invalid argument")
		}, "topology")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
