package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/trend-finder/internal/api/shared"
	"github.com/phrazzld/trend-finder/internal/generation"
	"github.com/phrazzld/trend-finder/internal/service"
	"github.com/phrazzld/trend-finder/internal/service/auth"
)

// TrendFailureMessage is the only message shown for model and extraction
// failures. The failure kind is logged, never returned.
const TrendFailureMessage = "We couldn't retrieve trend data. Please try different filters or check your connection."

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Quota errors
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	// Upstream failures: the model could not be reached or its answer was unusable
	case errors.Is(err, service.ErrNetwork),
		errors.Is(err, generation.ErrModelUnavailable),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrNoJSONFound),
		errors.Is(err, generation.ErrMalformedJSON),
		errors.Is(err, generation.ErrSchemaMismatch):
		return http.StatusBadGateway

	// Bad request errors
	case errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Session expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrQuotaExceeded):
		var quotaErr *service.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return fmt.Sprintf("Daily limit of %d searches reached. Try again after %s.",
				quotaErr.Limit, quotaErr.RetryAfter.UTC().Format(time.RFC1123))
		}
		return "Daily search limit reached"

	case MapErrorToStatusCode(err) == http.StatusBadGateway:
		return TrendFailureMessage

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request format"

	default:
		return "An unexpected error occurred"
	}
}

// ErrInvalidRequest marks a request that could not be decoded.
var ErrInvalidRequest = errors.New("invalid request")

// HandleAPIError writes the status and safe message for err, logging the
// redacted detail. A 429 also carries a Retry-After header.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}

	var quotaErr *service.QuotaExceededError
	if errors.As(err, &quotaErr) {
		w.Header().Set("Retry-After", retryAfterSeconds(quotaErr.RetryAfter, time.Now()))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// retryAfterSeconds formats the delay until t as whole seconds, rounding up.
func retryAfterSeconds(t, now time.Time) string {
	d := t.Sub(now)
	if d <= 0 {
		return "0"
	}
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return strconv.FormatInt(secs, 10)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'TrendsRequest.Country' Error:Field validation for 'Country' failed on the 'max' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too long"
	case "alpha", "alphanum", "uppercase":
		return "invalid characters"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
