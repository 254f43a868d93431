package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/trend-finder/internal/api/shared"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/generation"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/service"
	"github.com/phrazzld/trend-finder/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	extraction := &generation.ExtractionError{
		Kind:    generation.KindSchemaMismatch,
		Variant: domain.VariantPersonalized,
		Field:   "insights",
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "missing token", err: auth.ErrMissingToken, want: http.StatusUnauthorized},
		{name: "quota", err: &service.QuotaExceededError{RetryAfter: time.Now()}, want: http.StatusTooManyRequests},
		{name: "network", err: fmt.Errorf("wrapped: %w", service.ErrNetwork), want: http.StatusBadGateway},
		{name: "model unavailable", err: generation.ErrModelUnavailable, want: http.StatusBadGateway},
		{name: "extraction", err: extraction, want: http.StatusBadGateway},
		{name: "empty response", err: generation.ErrEmptyResponse, want: http.StatusBadGateway},
		{name: "invalid request", err: ErrInvalidRequest, want: http.StatusBadRequest},
		{name: "unknown", err: service.ErrUnknown, want: http.StatusInternalServerError},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageHidesInternalKinds(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		service.ErrNetwork,
		generation.ErrModelUnavailable,
		generation.ErrEmptyResponse,
		generation.ErrNoJSONFound,
		generation.ErrMalformedJSON,
		&generation.ExtractionError{Kind: generation.KindSchemaMismatch, Field: "products[0].rank"},
	} {
		assert.Equal(t, TrendFailureMessage, GetSafeErrorMessage(err))
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: password authentication failed for user admin")))
}

func TestGetSafeErrorMessageQuota(t *testing.T) {
	t.Parallel()

	reset := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	msg := GetSafeErrorMessage(&service.QuotaExceededError{RetryAfter: reset, Limit: 5})
	assert.Equal(t, "Daily limit of 5 searches reached. Try again after Mon, 02 Jun 2025 09:00:00 UTC.", msg)
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "0", retryAfterSeconds(now.Add(-time.Second), now))
	assert.Equal(t, "60", retryAfterSeconds(now.Add(time.Minute), now))
	assert.Equal(t, "2", retryAfterSeconds(now.Add(1500*time.Millisecond), now))
}

func TestHandleAPIErrorLogsRedactedDetail(t *testing.T) {
	log, buf := logger.NewTestLogger()
	req := httptest.NewRequest(http.MethodGet, "/api/trends", nil)
	ctx := shared.SetTraceID(req.Context())
	req = req.WithContext(logger.WithLogger(ctx, log))
	rr := httptest.NewRecorder()

	err := fmt.Errorf("%w: postgres://admin:hunter2@db:5432/trends refused", service.ErrUnknown)
	HandleAPIError(rr, req, err, "Failed to fetch trends")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to fetch trends")
	assert.NotContains(t, rr.Body.String(), "hunter2")

	require.True(t, buf.HasMessage("API error response"))
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&TrendsRequest{Country: "SINGAPORE"})
	require.Error(t, err)
	assert.Equal(t, "Invalid Country: too long", SanitizeValidationError(err))

	assert.NoError(t, shared.ValidateRequest(&TrendsRequest{Country: "S1", ListSize: 150}))
	assert.NoError(t, shared.ValidateRequest(&TrendsRequest{ListSize: -1}))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
