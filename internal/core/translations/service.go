package translations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ArtVaultCo/archive-service/internal/core/ai"
	"github.com/ArtVaultCo/archive-service/internal/infra/postgres"
	"github.com/ArtVaultCo/archive-service/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("translations-service")

const serviceDeepL = "deepl"

// Service is the translation cache gateway: cache lookup first, the
// provider on a miss, best-effort cache population after. The cache is an
// optimization only; if the cache layer fails the gateway falls back to
// calling the provider directly.
type Service struct {
	store    cacheStore
	provider Provider
	logger   *slog.Logger
}

func NewService(db postgres.DB, provider Provider, logger *slog.Logger) *Service {
	return &Service{
		store:    newCacheRepository(db),
		provider: provider,
		logger:   logger.With("service", "translations"),
	}
}

// TranslateWithCache translates one field's text into targetLanguage.
// Empty input short-circuits to empty output with no I/O. Any failure on
// the cached path (lookup, provider, but not the best-effort write) is
// retried once as a direct provider call without caching.
func (s *Service) TranslateWithCache(ctx context.Context, text, targetLanguage, fieldName string) (string, error) {
	if text == "" {
		return "", nil
	}

	if telemetry.TranslationRequestsTotal != nil {
		telemetry.TranslationRequestsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.String("target_language", targetLanguage),
			attribute.String("field", fieldName),
		))
	}

	translated, err := s.translateThroughCache(ctx, text, targetLanguage, fieldName)
	if err == nil {
		return translated, nil
	}

	s.logger.Warn("Cached translation path failed, retrying provider directly",
		"field", fieldName,
		"target_language", targetLanguage,
		"error", err)
	if telemetry.TranslationErrorsTotal != nil {
		telemetry.TranslationErrorsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.String("stage", "cache_path"),
			attribute.String("target_language", targetLanguage),
		))
	}

	return s.provider.TranslateText(ctx, text, targetLanguage)
}

func (s *Service) translateThroughCache(ctx context.Context, text, targetLanguage, fieldName string) (string, error) {
	hash := HashContent(text)
	ref := ProvisionalSource()

	cached, found, err := s.store.Lookup(ctx, sourceTableArtworks, ref.ID(), fieldName, hash, targetLanguage)
	if err != nil {
		return "", err
	}
	if found {
		s.logger.Debug("Translation cache hit",
			"field", fieldName,
			"target_language", targetLanguage)
		if telemetry.TranslationCacheHits != nil {
			telemetry.TranslationCacheHits.Add(ctx, 1, api.WithAttributes(
				attribute.String("target_language", targetLanguage)))
		}
		return cached, nil
	}

	if telemetry.TranslationCacheMisses != nil {
		telemetry.TranslationCacheMisses.Add(ctx, 1, api.WithAttributes(
			attribute.String("target_language", targetLanguage)))
	}

	translated, err := s.provider.TranslateText(ctx, text, targetLanguage)
	if err != nil {
		return "", err
	}

	entry := CacheEntry{
		SourceTable:        sourceTableArtworks,
		SourceID:           ref.ID(),
		SourceField:        fieldName,
		SourceHash:         hash,
		TargetLanguage:     targetLanguage,
		TranslatedContent:  translated,
		TranslationService: serviceDeepL,
	}
	if err := s.store.Upsert(ctx, entry); err != nil {
		// Best effort: a failed cache write never fails the translation.
		s.logger.Warn("Failed to store translation in cache",
			"field", fieldName,
			"target_language", targetLanguage,
			"error", err)
	}

	return translated, nil
}

// TranslateArtworkContent translates the four textual fields of generated
// content into one target language, running the field-level cache lookups
// concurrently.
func (s *Service) TranslateArtworkContent(ctx context.Context, content ai.GeneratedContent, targetLanguage string) (ai.TranslatedContent, error) {
	ctx, span := tracer.Start(ctx, "translations.TranslateArtworkContent")
	defer span.End()

	var out ai.TranslatedContent
	fields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"description", content.Description, &out.Description},
		{"short_description", content.ShortDescription, &out.ShortDescription},
		{"seo_title", content.SEOTitle, &out.SEOTitle},
		{"alt_text", content.AltText, &out.AltText},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fields))
	for i := range fields {
		f := fields[i]
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			translated, err := s.TranslateWithCache(ctx, f.src, targetLanguage, f.name)
			if err != nil {
				errs[i] = fmt.Errorf("field %s: %w", f.name, err)
				return
			}
			*f.dst = translated
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			span.RecordError(err)
			return ai.TranslatedContent{}, fmt.Errorf("failed to translate artwork content to %s: %w", targetLanguage, err)
		}
	}

	return out, nil
}

// CacheArtworkTranslations re-keys finalized translations under the real
// artwork id once a curator applies generated content. Only pairs where
// both the source and the translated text are non-empty are written. The
// provisional rows written during generation are left untouched.
func (s *Service) CacheArtworkTranslations(ctx context.Context, artworkID uuid.UUID, content ai.GeneratedContent, translations ai.Translations) error {
	ctx, span := tracer.Start(ctx, "translations.CacheArtworkTranslations")
	defer span.End()

	ref := CommittedSource(artworkID)

	var entries []CacheEntry
	for lang, translated := range map[string]ai.TranslatedContent{
		"fr": translations.FR,
		"ja": translations.JA,
	} {
		pairs := []struct {
			field      string
			source     string
			translated string
		}{
			{"description", content.Description, translated.Description},
			{"short_description", content.ShortDescription, translated.ShortDescription},
			{"seo_title", content.SEOTitle, translated.SEOTitle},
			{"alt_text", content.AltText, translated.AltText},
		}
		for _, p := range pairs {
			if p.source == "" || p.translated == "" {
				continue
			}
			entries = append(entries, CacheEntry{
				SourceTable:        sourceTableArtworks,
				SourceID:           ref.ID(),
				SourceField:        p.field,
				SourceHash:         HashContent(p.source),
				TargetLanguage:     lang,
				TranslatedContent:  p.translated,
				TranslationService: serviceDeepL,
			})
		}
	}

	if len(entries) == 0 {
		return nil
	}

	if err := s.store.UpsertBatch(ctx, entries); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to cache artwork translations: %w", err)
	}

	s.logger.Info("Cached artwork translations",
		"artwork_id", artworkID,
		"entries", len(entries))

	return nil
}
