package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/observability"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
	apperrors "github.com/carelinkhq/prescription-ai/pkg/errors"
)

const extractionCacheTTL = time.Hour

// ExtractionService runs the full prescription extraction pipeline:
// prompt rendering, the model call, parsing, normalization, knowledge base
// enhancement, the two scoring passes, and the two safety checks. Every
// stage after the model call is synchronous and side-effect free on
// request-scoped data; the knowledge base is the only shared resource and
// it is read-only.
type ExtractionService struct {
	model    providers.LanguageModelProvider
	params   providers.GenerationParams
	prompts  *PromptBuilder
	parser   *ResponseParser
	norm     *Normalizer
	enhancer *Enhancer
	scorer   *ConfidenceScorer
	quality  *QualityAssessor
	checker  *InteractionChecker
	dosage   *DosageValidator
	cache    providers.CacheProvider
	metrics  *observability.Metrics
}

// NewExtractionService wires the pipeline. The knowledge base and model
// client are injected so tests can substitute fakes.
func NewExtractionService(
	model providers.LanguageModelProvider,
	kb *knowledge.Base,
	interactions *knowledge.InteractionTable,
) *ExtractionService {
	return &ExtractionService{
		model:    model,
		params:   providers.DefaultGenerationParams(),
		prompts:  NewPromptBuilder(),
		parser:   NewResponseParser(),
		norm:     NewNormalizer(),
		enhancer: NewEnhancer(kb),
		scorer:   NewConfidenceScorer(kb),
		quality:  NewQualityAssessor(kb),
		checker:  NewInteractionChecker(interactions),
		dosage:   NewDosageValidator(kb),
	}
}

// SetCache enables caching of extraction outcomes keyed by input text and
// context. The service works without a cache.
func (s *ExtractionService) SetCache(cache providers.CacheProvider) {
	s.cache = cache
}

// SetGenerationParams overrides the deterministic sampling defaults.
func (s *ExtractionService) SetGenerationParams(params providers.GenerationParams) {
	s.params = params
}

// SetMetrics enables per-extraction otel metrics.
func (s *ExtractionService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Extract turns free-form clinical text plus patient context into a
// structured, safety-checked prescription outcome. A failed model call
// propagates as an external error; it is never converted into an empty
// extraction. Malformed model output, by contrast, is never an error.
func (s *ExtractionService) Extract(ctx context.Context, text string, pctx entities.PatientContext) (*entities.ExtractionOutcome, error) {
	if text == "" {
		return nil, apperrors.NewValidationError("clinical text is required")
	}

	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	cacheKey := extractionCacheKey(text, pctx)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached entities.ExtractionOutcome
			if json.Unmarshal(data, &cached) == nil {
				logger.Debug().Str("cache_key", cacheKey).Msg("extraction cache hit")
				return &cached, nil
			}
		}
	}

	prompt := s.prompts.Build(text, pctx)

	raw, err := s.model.Generate(ctx, prompt, s.params)
	if err != nil {
		return nil, apperrors.NewExternalError("language model call failed", err)
	}

	parsed := s.parser.Parse(raw)
	result := s.norm.Normalize(parsed)
	if parsed.UsedFallback {
		logger.Warn().Int("medications", len(result.Medications)).
			Msg("model output was not valid JSON; used regex pattern extraction")
	}

	s.enhancer.Enhance(&result)
	overall := s.scorer.Score(&result)
	metrics := s.quality.Assess(&result)

	outcome := &entities.ExtractionOutcome{
		Result:            result,
		OverallConfidence: overall,
		QualityMetrics:    metrics,
		DrugInteractions:  s.checker.Check(result.Medications),
		DosageAlerts:      s.dosage.Validate(result.Medications, pctx.PatientInfo),
		TokenUsage:        estimateTokenUsage(prompt, raw),
	}

	if s.cache != nil {
		if data, err := json.Marshal(outcome); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, extractionCacheTTL)
		}
	}

	if s.metrics != nil {
		observability.RecordExtractionMetric(ctx, s.metrics, parsed.UsedFallback, time.Since(start))
	}

	logger.Info().
		Int("medications", len(result.Medications)).
		Int("interactions", len(outcome.DrugInteractions)).
		Int("dosage_alerts", len(outcome.DosageAlerts)).
		Float64("confidence", outcome.OverallConfidence).
		Msg("prescription extraction complete")

	return outcome, nil
}

// estimateTokenUsage applies the character-count/4 heuristic to prompt and
// raw model output.
func estimateTokenUsage(prompt, output string) entities.TokenUsage {
	usage := entities.TokenUsage{
		PromptTokens:     (len(prompt) + 3) / 4,
		CompletionTokens: (len(output) + 3) / 4,
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return usage
}

func extractionCacheKey(text string, pctx entities.PatientContext) string {
	hash := sha256.New()
	hash.Write([]byte(text))
	if data, err := json.Marshal(pctx); err == nil {
		hash.Write(data)
	}
	return "rx_extract:" + hex.EncodeToString(hash.Sum(nil))
}
