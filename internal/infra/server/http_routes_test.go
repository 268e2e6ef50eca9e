package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/ArtVaultCo/archive-service/internal/core/ai"
	"github.com/ArtVaultCo/archive-service/internal/core/artworks"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...interface{}) error { return r.err }

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...interface{}) error               { return pgx.ErrNoRows }
func (emptyRows) Values() ([]interface{}, error)               { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

// fakeDB answers every point lookup with no rows and every list with an
// empty result set, enough to exercise each handler's routing path.
type fakeDB struct{}

func (fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return emptyRows{}, nil
}

func (fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return fakeRow{err: pgx.ErrNoRows}
}

func (fakeDB) SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults { return nil }

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }

func (fakeDB) Close() {}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	aiService := ai.NewService(config.OpenAIConfig{}, nil, logger)
	artworksService := artworks.NewService(fakeDB{}, nil, logger)

	app := fiber.New()
	registerHttpRoutes(app, aiService, artworksService, nil)

	return app
}

func TestEstimateCostRouteMatchesBeforeArtworkLookup(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/artworks/estimate-cost?count=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// estimate-cost is a static sibling of /artworks/:id and must not be
	// swallowed by the id matcher.
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count            int     `json:"count"`
		EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 10, body.Count)
	assert.InDelta(t, 0.20, body.EstimatedCostUSD, 0.0001)
}

func TestRoutesAnswerOnTheirOwnPaths(t *testing.T) {
	app := newTestApp(t)

	const artworkID = "0b0a8a0e-9f1e-4f6b-a2c3-5d8e7f6a1b2c"

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"list artworks", http.MethodGet, "/v1/artworks", "", http.StatusOK},
		{"get unknown artwork", http.MethodGet, "/v1/artworks/" + artworkID, "", http.StatusNotFound},
		{"get artwork malformed id", http.MethodGet, "/v1/artworks/not-a-uuid", "", http.StatusBadRequest},
		{"create artwork malformed body", http.MethodPost, "/v1/artworks", "not json", http.StatusBadRequest},
		{"generate description missing image url", http.MethodPost, "/v1/artworks/generate-description", "{}", http.StatusBadRequest},
		{"apply content malformed id", http.MethodPost, "/v1/artworks/abc/apply-content", "{}", http.StatusBadRequest},
		{"upload image without storage", http.MethodPost, "/v1/artworks/" + artworkID + "/image", "", http.StatusServiceUnavailable},
		{"image info without storage", http.MethodGet, "/v1/artworks/images/f.jpg", "", http.StatusServiceUnavailable},
		{"image url without storage", http.MethodGet, "/v1/artworks/images/f.jpg/url", "", http.StatusServiceUnavailable},
		{"image presign without storage", http.MethodGet, "/v1/artworks/images/f.jpg/presign", "", http.StatusServiceUnavailable},
		{"image delete without storage", http.MethodDelete, "/v1/artworks/images/f.jpg", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reqBody io.Reader
			if tt.body != "" {
				reqBody = strings.NewReader(tt.body)
			}

			req := httptest.NewRequest(tt.method, tt.path, reqBody)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestListArtworksEmptyArchive(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/artworks?limit=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body.Count)
}
