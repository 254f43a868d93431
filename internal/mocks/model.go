package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/generation"
)

// MockModel implements generation.Model for testing
type MockModel struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt generation.Prompt) (generation.RawResponse, error)

	// Default response values
	Response generation.RawResponse
	Err      error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Prompts contains all prompts passed to Generate calls
		Prompts []generation.Prompt
	}
}

var _ generation.Model = (*MockModel)(nil)

// Generate implements the generation.Model interface
func (m *MockModel) Generate(ctx context.Context, prompt generation.Prompt) (generation.RawResponse, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Prompts = append(m.GenerateCalls.Prompts, prompt)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return m.Response, m.Err
}

// CallCount returns the number of Generate calls so far.
func (m *MockModel) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// LastPrompt returns the most recent prompt, or the zero Prompt if none.
func (m *MockModel) LastPrompt() generation.Prompt {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	if len(m.GenerateCalls.Prompts) == 0 {
		return generation.Prompt{}
	}
	return m.GenerateCalls.Prompts[len(m.GenerateCalls.Prompts)-1]
}

// NewMockModelWithText creates a MockModel that answers with text
func NewMockModelWithText(text string, sources ...domain.WebSource) *MockModel {
	return &MockModel{
		Response: generation.RawResponse{Text: text, Sources: sources, FinishReason: "STOP"},
	}
}

// NewMockModelWithError creates a MockModel that returns the specified error
func NewMockModelWithError(err error) *MockModel {
	return &MockModel{Err: err}
}

// MockModelThatFails creates a MockModel that simulates a provider outage
func MockModelThatFails() *MockModel {
	return &MockModel{Err: generation.ErrModelUnavailable}
}

// MockModelWithSafetyBlock creates a MockModel that simulates a blocked answer
func MockModelWithSafetyBlock() *MockModel {
	return &MockModel{
		Response: generation.RawResponse{FinishReason: "SAFETY"},
	}
}

// GenericTrendsJSON is a small well-formed generic answer for tests.
const GenericTrendsJSON = "```json\n" + `{
  "products": [
    {"rank": 1, "productName": "Portable Projector", "trendScore": 92,
     "breakoutKeywords": [{"keyword": "samsung freestyle", "growth": 250}],
     "suppliers": ["Shopee"], "relatedProducts": ["projector screen"]},
    {"rank": 2, "productName": "Air Fryer", "trendScore": 85}
  ]
}` + "\n```"

// PersonalizedTrendsJSON is a small well-formed personalized answer for tests.
const PersonalizedTrendsJSON = `Here you go: {
  "products": [
    {"rank": 1, "productName": "Cork Yoga Mat", "trendScore": 88}
  ],
  "insights": {
    "executiveSummary": "Eco mats are rising.",
    "marketInsight": "Gyms are reopening.",
    "opportunityGaps": ["travel mats"],
    "actionableNextSteps": ["list on Lazada"]
  }
}`
