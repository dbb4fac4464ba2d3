package providers

import (
	"context"
	"errors"
)

// ErrLanguageModelUnavailable marks a failed model call so callers can
// distinguish it from a degraded-but-usable extraction. A failed call is
// never silently converted into an empty result.
var ErrLanguageModelUnavailable = errors.New("language model unavailable")

// GenerationParams are the sampling parameters for a single model call.
type GenerationParams struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// DefaultGenerationParams returns low-temperature defaults favoring
// deterministic, contract-following output.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:     0.1,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 2048,
	}
}

// LanguageModelProvider is the hosted generative-language-model collaborator.
// It accepts a fully rendered prompt and returns the model's raw text; it
// performs no parsing or validation of its own.
type LanguageModelProvider interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
