package generation

import (
	"context"

	"github.com/phrazzld/trend-finder/internal/domain"
)

// Model is the boundary to the external generative service. One call is one
// request/response exchange with web-search grounding enabled.
type Model interface {
	// Generate sends the prompt and returns the raw answer.
	//
	// Parameters:
	//   - ctx: Context for the operation; cancelling it abandons the call
	//   - prompt: The prompt produced by Builder.Build
	//
	// Returns:
	//   - The raw response text plus grounding sources
	//   - An error wrapping ErrModelUnavailable if the call failed
	Generate(ctx context.Context, prompt Prompt) (RawResponse, error)
}

// RawResponse is the unparsed model output. Sources come from the grounding
// metadata channel, never from the text.
type RawResponse struct {
	Text         string
	Sources      []domain.WebSource
	FinishReason string
}

// CountRange is the number of products the prompt asks for. Min == Max
// means an exact count.
type CountRange struct {
	Min int
	Max int
}

// Exact reports whether the range is a single value.
func (c CountRange) Exact() bool {
	return c.Min == c.Max
}

// Prompt is a fully rendered model request.
type Prompt struct {
	Text          string
	Variant       domain.SchemaVariant
	ExpectedCount CountRange
}
