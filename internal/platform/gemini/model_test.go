package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/trend-finder/internal/config"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records the request and returns a canned response.
type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

func textCandidate(parts ...string) *genai.Candidate {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.Candidate{Content: content, FinishReason: genai.FinishReasonStop}
}

func TestGenerateSendsGroundedPrompt(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{textCandidate(`{"products":`, `[]}`)},
	}}
	m := newModel(nil, fake, "gemini-2.5-pro")

	raw, err := m.Generate(context.Background(), generation.Prompt{Text: "find trends", Variant: domain.VariantGeneric})
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "gemini-2.5-pro", fake.model)
	require.Len(t, fake.contents, 1)
	require.Len(t, fake.contents[0].Parts, 1)
	assert.Equal(t, "find trends", fake.contents[0].Parts[0].Text)

	require.NotNil(t, fake.config)
	require.Len(t, fake.config.Tools, 1)
	assert.NotNil(t, fake.config.Tools[0].GoogleSearch)

	assert.Equal(t, `{"products":[]}`, raw.Text)
	assert.Equal(t, string(genai.FinishReasonStop), raw.FinishReason)
	assert.Equal(t, []domain.WebSource{}, raw.Sources)
}

func TestGenerateReadsGroundingSources(t *testing.T) {
	candidate := textCandidate("{}")
	candidate.GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A"}},
			{},
			nil,
			{Web: &genai.GroundingChunkWeb{URI: ""}},
			{Web: &genai.GroundingChunkWeb{URI: "https://b.example"}},
		},
	}
	fake := &fakeModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}}

	raw, err := newModel(nil, fake, "m").Generate(context.Background(), generation.Prompt{Text: "p"})
	require.NoError(t, err)
	assert.Equal(t, []domain.WebSource{
		{URI: "https://a.example", Title: "A"},
		{URI: "https://b.example"},
	}, raw.Sources)
}

func TestGenerateSafetyBlockYieldsEmptyText(t *testing.T) {
	candidate := textCandidate("partial")
	candidate.FinishReason = genai.FinishReasonSafety
	fake := &fakeModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}}

	raw, err := newModel(nil, fake, "m").Generate(context.Background(), generation.Prompt{Text: "p"})
	require.NoError(t, err)
	assert.Empty(t, raw.Text)
	assert.Equal(t, string(genai.FinishReasonSafety), raw.FinishReason)

	_, err = generation.Extract(raw, domain.VariantGeneric)
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)
}

func TestGenerateNoCandidates(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}}

	raw, err := newModel(nil, fake, "m").Generate(context.Background(), generation.Prompt{Text: "p"})
	require.NoError(t, err)
	assert.Empty(t, raw.Text)
	assert.Equal(t, string(genai.BlockedReasonSafety), raw.FinishReason)
}

func TestGenerateWrapsProviderErrors(t *testing.T) {
	fake := &fakeModels{err: errors.New("Error 503, Message: overloaded")}

	_, err := newModel(nil, fake, "m").Generate(context.Background(), generation.Prompt{Text: "p"})
	assert.ErrorIs(t, err, generation.ErrModelUnavailable)
	assert.Contains(t, err.Error(), "overloaded")
	assert.Equal(t, 1, fake.calls, "no automatic retry")
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &fakeModels{err: errors.New("request aborted")}

	_, err := newModel(nil, fake, "m").Generate(ctx, generation.Prompt{Text: "p"})
	assert.ErrorIs(t, err, generation.ErrModelUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateNilResponse(t *testing.T) {
	_, err := newModel(nil, &fakeModels{}, "m").Generate(context.Background(), generation.Prompt{Text: "p"})
	assert.ErrorIs(t, err, generation.ErrModelUnavailable)
}

func TestNewModelValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{name: "missing key", cfg: config.LLMConfig{ModelName: "gemini-2.5-pro"}},
		{name: "blank model", cfg: config.LLMConfig{GeminiAPIKey: "k", ModelName: "  "}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewModel(context.Background(), nil, tc.cfg)
			assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		})
	}
}
