package telemetry

import (
	"log/slog"

	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Business metrics for the generation and translation pipeline.
var (
	// Description generation
	GenerationsTotal      api.Int64Counter
	GenerationTokensTotal api.Int64Counter
	GenerationCostUSD     api.Float64Counter

	// Translation cache gateway
	TranslationRequestsTotal api.Int64Counter
	TranslationCacheHits     api.Int64Counter
	TranslationCacheMisses   api.Int64Counter
	TranslationErrorsTotal   api.Int64Counter

	// Archive records
	ArtworkOperationsTotal api.Int64Counter

	// Error tracking
	ApplicationErrorsTotal api.Int64Counter
	DatabaseErrorsTotal    api.Int64Counter
)

// InitTelemetry initializes all business-level metrics.
func InitTelemetry(provider *metric.MeterProvider) error {
	meter := provider.Meter("business")

	var err error

	GenerationsTotal, err = meter.Int64Counter("generation.requests.total",
		api.WithDescription("Total artwork description generations by outcome"))
	if err != nil {
		return err
	}

	GenerationTokensTotal, err = meter.Int64Counter("generation.tokens.total",
		api.WithDescription("Total vision model tokens consumed"))
	if err != nil {
		return err
	}

	GenerationCostUSD, err = meter.Float64Counter("generation.cost.usd",
		api.WithDescription("Accumulated vision model cost in USD"))
	if err != nil {
		return err
	}

	TranslationRequestsTotal, err = meter.Int64Counter("translation.requests.total",
		api.WithDescription("Total field-level translation requests by target language"))
	if err != nil {
		return err
	}

	TranslationCacheHits, err = meter.Int64Counter("translation.cache.hits.total",
		api.WithDescription("Translation cache hits"))
	if err != nil {
		return err
	}

	TranslationCacheMisses, err = meter.Int64Counter("translation.cache.misses.total",
		api.WithDescription("Translation cache misses"))
	if err != nil {
		return err
	}

	TranslationErrorsTotal, err = meter.Int64Counter("translation.errors.total",
		api.WithDescription("Translation failures by stage (cache, provider)"))
	if err != nil {
		return err
	}

	ArtworkOperationsTotal, err = meter.Int64Counter("artwork.operations.total",
		api.WithDescription("Total artwork record operations by type"))
	if err != nil {
		return err
	}

	ApplicationErrorsTotal, err = meter.Int64Counter("application.errors.total",
		api.WithDescription("Total application errors by component and type"))
	if err != nil {
		return err
	}

	DatabaseErrorsTotal, err = meter.Int64Counter("database.errors.total",
		api.WithDescription("Total database errors by operation and type"))
	if err != nil {
		return err
	}

	slog.Info("Business metrics initialized successfully")
	return nil
}
