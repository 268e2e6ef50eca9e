package artworks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ArtVaultCo/archive-service/internal/core/ai"
	"github.com/ArtVaultCo/archive-service/internal/infra/postgres"
	"github.com/ArtVaultCo/archive-service/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("artworks-service")

var ErrNotFound = errors.New("artwork not found")

type Artwork struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Title            *string   `json:"title" db:"title"`
	Year             *int      `json:"year" db:"year"`
	Medium           *string   `json:"medium" db:"medium"`
	Series           *string   `json:"series" db:"series"`
	ImageURL         *string   `json:"image_url" db:"image_url"`
	Description      *string   `json:"description" db:"description"`
	ShortDescription *string   `json:"short_description" db:"short_description"`
	SEOTitle         *string   `json:"seo_title" db:"seo_title"`
	AltText          *string   `json:"alt_text" db:"alt_text"`
	SuggestedTags    []string  `json:"suggested_tags" db:"suggested_tags"`
	ConfidenceScore  *float64  `json:"confidence_score" db:"confidence_score"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

type CreateArtworkParams struct {
	Title  *string `json:"title"`
	Year   *int    `json:"year"`
	Medium *string `json:"medium"`
	Series *string `json:"series"`
}

// TranslationCacher persists finalized translations under the real artwork
// id. Implemented by the translations service.
type TranslationCacher interface {
	CacheArtworkTranslations(ctx context.Context, artworkID uuid.UUID, content ai.GeneratedContent, translations ai.Translations) error
}

// Service manages artwork records and the apply step that commits
// AI-generated content to a real artwork.
type Service struct {
	db     postgres.DB
	cacher TranslationCacher
	logger *slog.Logger
}

func NewService(db postgres.DB, cacher TranslationCacher, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		cacher: cacher,
		logger: logger.With("service", "artworks"),
	}
}

const artworkColumns = `id, title, year, medium, series, image_url,
	       description, short_description, seo_title, alt_text,
	       suggested_tags, confidence_score, created_at, updated_at`

func (s *Service) Create(ctx context.Context, params CreateArtworkParams) (*Artwork, error) {
	ctx, span := tracer.Start(ctx, "artworks.Create")
	defer span.End()

	query := `
		INSERT INTO artworks (id, title, year, medium, series, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + artworkColumns

	artwork, err := s.scanArtwork(s.db.QueryRow(ctx, query,
		uuid.New(), params.Title, params.Year, params.Medium, params.Series))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create artwork: %w", err)
	}

	if telemetry.ArtworkOperationsTotal != nil {
		telemetry.ArtworkOperationsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.String("operation", "create")))
	}

	return artwork, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Artwork, error) {
	query := `SELECT ` + artworkColumns + ` FROM artworks WHERE id = $1`

	artwork, err := s.scanArtwork(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}

	return artwork, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Artwork, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT ` + artworkColumns + `
		FROM artworks
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	defer rows.Close()

	var artworks []*Artwork
	for rows.Next() {
		artwork, err := s.scanArtwork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		artworks = append(artworks, artwork)
	}

	return artworks, rows.Err()
}

func (s *Service) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE artworks SET image_url = $1, updated_at = NOW() WHERE id = $2`,
		imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to set artwork image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyGeneratedContent saves curator-approved generated content to the
// artwork and re-keys the translations under its real id. This is the
// second phase of the cache lifecycle: entries written during generation
// live under the provisional sentinel until this call.
func (s *Service) ApplyGeneratedContent(ctx context.Context, id uuid.UUID, content ai.GeneratedContent, translations ai.Translations) (*Artwork, error) {
	ctx, span := tracer.Start(ctx, "artworks.ApplyGeneratedContent")
	defer span.End()

	query := `
		UPDATE artworks SET
			description = $1,
			short_description = $2,
			seo_title = $3,
			alt_text = $4,
			suggested_tags = $5,
			confidence_score = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + artworkColumns

	artwork, err := s.scanArtwork(s.db.QueryRow(ctx, query,
		content.Description, content.ShortDescription, content.SEOTitle,
		content.AltText, content.SuggestedTags, content.ConfidenceScore, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to apply generated content: %w", err)
	}

	if err := s.cacher.CacheArtworkTranslations(ctx, id, content, translations); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit artwork translations: %w", err)
	}

	if telemetry.ArtworkOperationsTotal != nil {
		telemetry.ArtworkOperationsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.String("operation", "apply_generated_content")))
	}

	s.logger.Info("Applied generated content to artwork",
		"artwork_id", id,
		"confidence", content.ConfidenceScore)

	return artwork, nil
}

func (s *Service) scanArtwork(row pgx.Row) (*Artwork, error) {
	var a Artwork
	err := row.Scan(
		&a.ID, &a.Title, &a.Year, &a.Medium, &a.Series, &a.ImageURL,
		&a.Description, &a.ShortDescription, &a.SEOTitle, &a.AltText,
		&a.SuggestedTags, &a.ConfidenceScore, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
