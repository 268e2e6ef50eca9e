package artworks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ArtVaultCo/archive-service/internal/core/ai"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	artwork *Artwork
	err     error
}

func (r *fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}

	a := r.artwork
	*dest[0].(*uuid.UUID) = a.ID
	*dest[1].(**string) = a.Title
	*dest[2].(**int) = a.Year
	*dest[3].(**string) = a.Medium
	*dest[4].(**string) = a.Series
	*dest[5].(**string) = a.ImageURL
	*dest[6].(**string) = a.Description
	*dest[7].(**string) = a.ShortDescription
	*dest[8].(**string) = a.SEOTitle
	*dest[9].(**string) = a.AltText
	*dest[10].(*[]string) = a.SuggestedTags
	*dest[11].(**float64) = a.ConfidenceScore
	*dest[12].(*time.Time) = a.CreatedAt
	*dest[13].(*time.Time) = a.UpdatedAt
	return nil
}

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...interface{}) error               { return nil }
func (emptyRows) Values() ([]interface{}, error)               { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

type fakeDB struct {
	row       pgx.Row
	execTag   pgconn.CommandTag
	execErr   error
	lastQuery string
	lastArgs  []interface{}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastQuery = sql
	f.lastArgs = args
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.lastQuery = sql
	f.lastArgs = args
	return emptyRows{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	f.lastQuery = sql
	f.lastArgs = args
	return f.row
}

func (f *fakeDB) SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults { return nil }
func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error)                        { return nil, nil }
func (f *fakeDB) Close()                                                           {}

type fakeCacher struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeCacher) CacheArtworkTranslations(ctx context.Context, artworkID uuid.UUID, content ai.GeneratedContent, translations ai.Translations) error {
	f.calls = append(f.calls, artworkID)
	return f.err
}

func strPtr(s string) *string { return &s }

func testArtwork(id uuid.UUID) *Artwork {
	now := time.Now().UTC()
	return &Artwork{
		ID:            id,
		Title:         strPtr("Jazz Musicians"),
		SuggestedTags: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newArtworksService(db *fakeDB, cacher TranslationCacher) *Service {
	return NewService(db, cacher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate(t *testing.T) {
	id := uuid.New()
	db := &fakeDB{row: &fakeRow{artwork: testArtwork(id)}}
	svc := newArtworksService(db, &fakeCacher{})

	artwork, err := svc.Create(context.Background(), CreateArtworkParams{Title: strPtr("Jazz Musicians")})

	require.NoError(t, err)
	assert.Equal(t, id, artwork.ID)
	assert.Equal(t, "Jazz Musicians", *artwork.Title)
	assert.Contains(t, db.lastQuery, "INSERT INTO artworks")
	require.NotEmpty(t, db.lastArgs)
	assert.NotEqual(t, uuid.Nil, db.lastArgs[0])
}

func TestGetByIDNotFound(t *testing.T) {
	db := &fakeDB{row: &fakeRow{err: pgx.ErrNoRows}}
	svc := newArtworksService(db, &fakeCacher{})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListClampsLimit(t *testing.T) {
	db := &fakeDB{}
	svc := newArtworksService(db, &fakeCacher{})

	for _, limit := range []int{0, -1, 500} {
		_, err := svc.List(context.Background(), limit, 0)
		require.NoError(t, err)
		assert.Equal(t, 50, db.lastArgs[0], "limit %d should clamp to the default", limit)
	}

	_, err := svc.List(context.Background(), 25, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, db.lastArgs[0])
	assert.Equal(t, 10, db.lastArgs[1])
}

func TestSetImageURL(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 1")}
	svc := newArtworksService(db, &fakeCacher{})

	err := svc.SetImageURL(context.Background(), uuid.New(), "https://cdn.example.com/scan.jpg")

	require.NoError(t, err)
	assert.Contains(t, db.lastQuery, "UPDATE artworks SET image_url")
}

func TestSetImageURLNotFound(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 0")}
	svc := newArtworksService(db, &fakeCacher{})

	err := svc.SetImageURL(context.Background(), uuid.New(), "https://cdn.example.com/scan.jpg")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyGeneratedContent(t *testing.T) {
	id := uuid.New()
	db := &fakeDB{row: &fakeRow{artwork: testArtwork(id)}}
	cacher := &fakeCacher{}
	svc := newArtworksService(db, cacher)

	content := ai.GeneratedContent{
		Description:     "Three musicians occupied a narrow stage.",
		SuggestedTags:   []string{"jazz"},
		ConfidenceScore: 0.9,
	}

	artwork, err := svc.ApplyGeneratedContent(context.Background(), id, content, ai.Translations{})

	require.NoError(t, err)
	assert.Equal(t, id, artwork.ID)
	// Translations are re-keyed under the real artwork id.
	require.Len(t, cacher.calls, 1)
	assert.Equal(t, id, cacher.calls[0])
}

func TestApplyGeneratedContentNotFound(t *testing.T) {
	db := &fakeDB{row: &fakeRow{err: pgx.ErrNoRows}}
	cacher := &fakeCacher{}
	svc := newArtworksService(db, cacher)

	_, err := svc.ApplyGeneratedContent(context.Background(), uuid.New(), ai.GeneratedContent{}, ai.Translations{})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, cacher.calls)
}

func TestApplyGeneratedContentCacheFailurePropagates(t *testing.T) {
	id := uuid.New()
	db := &fakeDB{row: &fakeRow{artwork: testArtwork(id)}}
	cacher := &fakeCacher{err: errors.New("deadlock detected")}
	svc := newArtworksService(db, cacher)

	_, err := svc.ApplyGeneratedContent(context.Background(), id, ai.GeneratedContent{}, ai.Translations{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit artwork translations")
}
