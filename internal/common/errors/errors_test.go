package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *StandardError
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewInvalidInputError("eof"), http.StatusBadRequest},
		{NewResourceNotFoundError("College", "c1"), http.StatusNotFound},
		{NewProfileNotFoundError("s1"), http.StatusNotFound},
		{NewConflictError("User", "email"), http.StatusConflict},
		{NewRateLimitedError(), http.StatusTooManyRequests},
		{NewInvalidBookingStatusError("cancelled", "confirmed"), http.StatusBadRequest},
		{NewQueryExecutionFailedError("list_colleges", fmt.Errorf("boom")), http.StatusInternalServerError},
		{NewInternalError(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAs_UnwrapsWrappedErrors(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := fmt.Errorf("load profile: %w", NewDatabaseConnectionFailedError(cause))

	stdErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeDatabaseConnectionFailed, stdErr.Code)
	assert.True(t, stderrors.Is(wrapped, cause))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable technical error keeps retry budget", func(t *testing.T) {
		bpmnErr := ConvertToBPMNError(NewQueryExecutionFailedError("get_profile", fmt.Errorf("timeout")))
		assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.Code)
		assert.Equal(t, 3, bpmnErr.Retries)
		assert.True(t, bpmnErr.Retryable)
	})

	t.Run("business error maps to boundary code", func(t *testing.T) {
		bpmnErr := ConvertToBPMNError(NewSchemaValidationError("candidate is required"))
		assert.Equal(t, "INPUT_VALIDATION_FAILED", bpmnErr.Code)
		assert.Equal(t, 0, bpmnErr.Retries)

		vars := bpmnErr.ToErrorVariables()
		assert.Equal(t, "SCHEMA_VALIDATION_FAILED", vars["originalErrorCode"])
		assert.Equal(t, "candidate is required", vars["errorDetails"])
	})

	t.Run("unknown code falls back to itself", func(t *testing.T) {
		bpmnErr := ConvertToBPMNError(NewRateLimitedError())
		assert.Equal(t, "RATE_LIMITED", bpmnErr.Code)
	})
}

func TestNormalize(t *testing.T) {
	stdErr := Normalize(fmt.Errorf("unexpected"))
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "unexpected", stdErr.Details)

	original := NewBookingNotFoundError("b1")
	assert.Same(t, original, Normalize(original))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchTimeout))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeProfileNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeConflict))
}
