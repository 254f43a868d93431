package generation

import (
	"errors"
	"fmt"

	"github.com/phrazzld/trend-finder/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrModelUnavailable is returned when the model provider could not be
	// reached or rejected the call.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidConfig is returned when a model client configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// Extraction failure kinds. An *ExtractionError matches exactly one of these
// with errors.Is.
var (
	ErrEmptyResponse  = errors.New("empty response")
	ErrNoJSONFound    = errors.New("no JSON object found")
	ErrMalformedJSON  = errors.New("malformed JSON")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ErrorKind classifies an extraction failure by pipeline stage.
type ErrorKind int

// Extraction stages, in pipeline order.
const (
	KindEmptyResponse ErrorKind = iota + 1
	KindNoJSONFound
	KindMalformedJSON
	KindSchemaMismatch
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindEmptyResponse:
		return ErrEmptyResponse
	case KindNoJSONFound:
		return ErrNoJSONFound
	case KindMalformedJSON:
		return ErrMalformedJSON
	case KindSchemaMismatch:
		return ErrSchemaMismatch
	default:
		return nil
	}
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ExtractionError reports why a model response could not be turned into a
// Result. Field is set for schema mismatches and names the first offending
// path, for example "insights" or "products[3].trendScore".
type ExtractionError struct {
	Kind    ErrorKind
	Variant domain.SchemaVariant
	Field   string
	Err     error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s (%s)", e.Kind, e.Variant)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *ExtractionError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func schemaMismatch(variant domain.SchemaVariant, field string, cause error) *ExtractionError {
	return &ExtractionError{Kind: KindSchemaMismatch, Variant: variant, Field: field, Err: cause}
}
