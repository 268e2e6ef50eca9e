package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/ArtVaultCo/archive-service/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("ai-service")

// Fixed per-1000-token rates for the vision model. Actual per-request cost
// accounting uses these; EstimateBatchCost uses the flat average below for
// pre-flight UI estimates and is not reconciled against actuals.
const (
	visionInputCostPer1K  = 0.0025
	visionOutputCostPer1K = 0.01
	averageImageCostUSD   = 0.02
)

// Service orchestrates the description-generation pipeline: prompt
// construction, the vision call, response parsing, cost accounting and the
// parallel translation fan-out.
type Service struct {
	cfg        config.OpenAIConfig
	logger     *slog.Logger
	translator ArtworkTranslator

	clientOnce sync.Once
	client     VisionClient
	clientErr  error
}

func NewService(cfg config.OpenAIConfig, translator ArtworkTranslator, logger *slog.Logger) *Service {
	return &Service{
		cfg:        cfg,
		translator: translator,
		logger:     logger.With("service", "ai"),
	}
}

// visionClient builds the vision client on first use. A missing API key
// surfaces here, on the first generation attempt, not at startup.
func (s *Service) visionClient() (VisionClient, error) {
	s.clientOnce.Do(func() {
		if s.client != nil {
			return
		}
		s.client, s.clientErr = NewOpenAIClient(s.cfg, s.logger)
	})
	if s.clientErr != nil {
		return nil, s.clientErr
	}
	return s.client, nil
}

// GenerateArtworkDescription runs the full pipeline for one image.
//
// A transport or API error from the vision call propagates to the caller.
// A malformed vision payload does not: it degrades to empty content with a
// zero confidence score and the pipeline continues. Translation failures
// degrade to empty translations for both languages and never fail the
// generation.
func (s *Service) GenerateArtworkDescription(ctx context.Context, opts GenerationOptions) (*GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "ai.GenerateArtworkDescription")
	defer span.End()

	client, err := s.visionClient()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	systemPrompt := BuildSystemPrompt()
	userPrompt := BuildUserPrompt(opts.Metadata)

	visionResp, err := client.DescribeImage(ctx, systemPrompt, userPrompt, opts.ImageURL)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Vision request failed", "error", err, "image_url", opts.ImageURL)
		return nil, fmt.Errorf("failed to generate description: %w", err)
	}

	parsed := ParseGeneratedContent(visionResp.Content)
	if parsed.Degraded {
		s.logger.Error("Vision response could not be parsed, continuing with empty content",
			"reason", parsed.Reason,
			"raw_content", visionResp.Content)
	}

	tokensUsed := visionResp.PromptTokens + visionResp.CompletionTokens
	costUSD := requestCost(visionResp.PromptTokens, visionResp.CompletionTokens)

	translations := EmptyTranslations()
	translated := false
	if opts.includeTranslations() && parsed.Content.Description != "" {
		outcome := s.translateAll(ctx, parsed.Content)
		if outcome.Degraded {
			s.logger.Error("Translation fan-out degraded, returning empty translations for both languages",
				"reason", outcome.Reason)
		} else {
			translated = true
		}
		translations = outcome.Translations
	}

	if telemetry.GenerationsTotal != nil {
		telemetry.GenerationsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.Bool("degraded", parsed.Degraded),
			attribute.Bool("translated", translated),
		))
	}
	if telemetry.GenerationTokensTotal != nil {
		telemetry.GenerationTokensTotal.Add(ctx, int64(tokensUsed))
	}
	if telemetry.GenerationCostUSD != nil {
		telemetry.GenerationCostUSD.Add(ctx, costUSD)
	}

	s.logger.Info("Generated artwork description",
		"title", opts.Metadata.Title,
		"confidence", parsed.Content.ConfidenceScore,
		"tokens_used", tokensUsed,
		"cost_usd", costUSD,
		"translated", translated)

	return &GenerationResult{
		GeneratedContent: parsed.Content,
		Translations:     translations,
		TokensUsed:       tokensUsed,
		CostUSD:          costUSD,
	}, nil
}

// ParseGeneratedContent extracts the structured content from the model's
// reply. An unparseable payload degrades to the all-empty content; a valid
// JSON object with missing fields is not degraded, absent fields simply
// stay at their empty defaults.
func ParseGeneratedContent(content string) ParseResult {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return ParseResult{
			Content:  EmptyContent(),
			Degraded: true,
			Reason:   "no JSON object found in vision response",
		}
	}

	var parsed GeneratedContent
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return ParseResult{
			Content:  EmptyContent(),
			Degraded: true,
			Reason:   fmt.Sprintf("failed to unmarshal vision response: %v", err),
		}
	}

	if parsed.SuggestedTags == nil {
		parsed.SuggestedTags = []string{}
	}

	return ParseResult{Content: parsed}
}

// translateAll runs the French and Japanese translation pipelines in
// parallel and joins the results. A failure on either branch degrades BOTH
// languages to empty content; decoupling that later is a change to this
// function only.
func (s *Service) translateAll(ctx context.Context, content GeneratedContent) TranslationOutcome {
	if s.translator == nil {
		return TranslationOutcome{
			Translations: EmptyTranslations(),
			Degraded:     true,
			Reason:       "no translator configured",
		}
	}

	var fr, ja TranslatedContent
	var frErr, jaErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fr, frErr = s.translator.TranslateArtworkContent(ctx, content, "fr")
	}()
	go func() {
		defer wg.Done()
		ja, jaErr = s.translator.TranslateArtworkContent(ctx, content, "ja")
	}()
	wg.Wait()

	if frErr != nil || jaErr != nil {
		var reasons []string
		if frErr != nil {
			reasons = append(reasons, fmt.Sprintf("fr: %v", frErr))
		}
		if jaErr != nil {
			reasons = append(reasons, fmt.Sprintf("ja: %v", jaErr))
		}
		return TranslationOutcome{
			Translations: EmptyTranslations(),
			Degraded:     true,
			Reason:       strings.Join(reasons, "; "),
		}
	}

	return TranslationOutcome{Translations: Translations{FR: fr, JA: ja}}
}

// requestCost converts reported token usage to USD at the fixed rates,
// rounded to 4 decimals. Missing usage figures cost zero.
func requestCost(promptTokens, completionTokens int) float64 {
	cost := float64(promptTokens)/1000.0*visionInputCostPer1K +
		float64(completionTokens)/1000.0*visionOutputCostPer1K
	return roundTo(cost, 4)
}

// EstimateBatchCost returns the pre-flight estimate for describing count
// images, rounded to 2 decimals. Pure arithmetic, no I/O.
func EstimateBatchCost(count int) float64 {
	if count <= 0 {
		return 0
	}
	return roundTo(float64(count)*averageImageCostUSD, 2)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
