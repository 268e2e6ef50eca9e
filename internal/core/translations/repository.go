package translations

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArtVaultCo/archive-service/internal/infra/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// cacheStore is the persistence surface of the gateway, kept narrow so
// tests can substitute a fake.
type cacheStore interface {
	Lookup(ctx context.Context, table string, sourceID uuid.UUID, field, hash, targetLanguage string) (string, bool, error)
	Upsert(ctx context.Context, entry CacheEntry) error
	UpsertBatch(ctx context.Context, entries []CacheEntry) error
}

type cacheRepository struct {
	db postgres.DB
}

func newCacheRepository(db postgres.DB) *cacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Lookup(ctx context.Context, table string, sourceID uuid.UUID, field, hash, targetLanguage string) (string, bool, error) {
	query := `
		SELECT translated_content
		FROM translation_cache
		WHERE source_table = $1 AND source_id = $2 AND source_field = $3
		  AND source_hash = $4 AND target_language = $5
		LIMIT 1`

	var translated string
	err := r.db.QueryRow(ctx, query, table, sourceID, field, hash, targetLanguage).Scan(&translated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("translation cache lookup failed: %w", err)
	}

	return translated, true, nil
}

const upsertQuery = `
	INSERT INTO translation_cache (
		source_table, source_id, source_field, source_hash,
		target_language, translated_content, translation_service, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	ON CONFLICT (source_table, source_id, source_field, target_language)
	DO UPDATE SET
		source_hash = EXCLUDED.source_hash,
		translated_content = EXCLUDED.translated_content,
		translation_service = EXCLUDED.translation_service,
		updated_at = NOW()`

func (r *cacheRepository) Upsert(ctx context.Context, entry CacheEntry) error {
	_, err := r.db.Exec(ctx, upsertQuery,
		entry.SourceTable, entry.SourceID, entry.SourceField, entry.SourceHash,
		entry.TargetLanguage, entry.TranslatedContent, entry.TranslationService,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert translation cache entry: %w", err)
	}
	return nil
}

func (r *cacheRepository) UpsertBatch(ctx context.Context, entries []CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(upsertQuery,
			entry.SourceTable, entry.SourceID, entry.SourceField, entry.SourceHash,
			entry.TargetLanguage, entry.TranslatedContent, entry.TranslationService,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch upsert translation cache entries: %w", err)
		}
	}

	return nil
}
