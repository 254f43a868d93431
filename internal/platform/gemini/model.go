package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/trend-finder/internal/config"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/generation"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models this package uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Model implements generation.Model using the Gemini API.
type Model struct {
	// logger is used for structured logging
	logger *slog.Logger

	// models performs the GenerateContent call
	models contentGenerator

	// model is the name of the Gemini model to use
	model string
}

var _ generation.Model = (*Model)(nil)

// NewModel creates a Gemini-backed generation.Model.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the API key and model name
//
// Returns:
//   - A ready Model or an error wrapping generation.ErrInvalidConfig
func NewModel(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Model, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newModel(logger, client.Models, cfg.ModelName), nil
}

func newModel(log *slog.Logger, models contentGenerator, modelName string) *Model {
	if log == nil {
		log = slog.Default()
	}
	return &Model{
		logger: log.With(slog.String("component", "gemini")),
		models: models,
		model:  modelName,
	}
}

func validateConfig(cfg config.LLMConfig) error {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// Generate sends the prompt with Google Search grounding enabled.
//
// Parameters:
//   - ctx: Context for the call; cancellation aborts the HTTP request
//   - prompt: The rendered prompt
//
// Returns:
//   - The concatenated response text and grounding sources. A response
//     blocked by safety filters comes back with empty text and the finish
//     reason set, so the extractor reports it as an empty response.
//   - An error wrapping generation.ErrModelUnavailable if the call failed
func (m *Model) Generate(ctx context.Context, prompt generation.Prompt) (generation.RawResponse, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)
	start := time.Now()

	resp, err := m.models.GenerateContent(ctx, m.model, genai.Text(prompt.Text), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		log.ErrorContext(ctx, "Gemini API call failed",
			slog.String("model", m.model),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()))
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return generation.RawResponse{}, fmt.Errorf("%w: %w (%v)", generation.ErrModelUnavailable, ctxErr, err)
		}
		return generation.RawResponse{}, fmt.Errorf("%w: %w", generation.ErrModelUnavailable, err)
	}
	if resp == nil {
		return generation.RawResponse{}, fmt.Errorf("%w: nil response", generation.ErrModelUnavailable)
	}

	raw := toRawResponse(resp)
	log.InfoContext(ctx, "Gemini API call completed",
		slog.String("model", m.model),
		slog.String("variant", prompt.Variant.String()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Int("text_length", len(raw.Text)),
		slog.Int("sources", len(raw.Sources)),
		slog.String("finish_reason", raw.FinishReason))

	return raw, nil
}

// toRawResponse reads the first candidate. A missing candidate, or one
// stopped by the safety filter, yields empty text.
func toRawResponse(resp *genai.GenerateContentResponse) generation.RawResponse {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		raw := generation.RawResponse{Sources: []domain.WebSource{}}
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			raw.FinishReason = string(resp.PromptFeedback.BlockReason)
		}
		return raw
	}

	candidate := resp.Candidates[0]
	raw := generation.RawResponse{
		FinishReason: string(candidate.FinishReason),
		Sources:      groundingSources(candidate.GroundingMetadata),
	}

	if candidate.FinishReason == genai.FinishReasonSafety || candidate.Content == nil {
		return raw
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	raw.Text = text.String()
	return raw
}

// groundingSources lists the web citations. Chunks without a web source
// (for example retrieved-context chunks) are skipped.
func groundingSources(md *genai.GroundingMetadata) []domain.WebSource {
	sources := []domain.WebSource{}
	if md == nil {
		return sources
	}
	for _, chunk := range md.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, domain.WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
