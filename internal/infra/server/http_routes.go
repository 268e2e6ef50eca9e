package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/ArtVaultCo/archive-service/internal/core/ai"
	"github.com/ArtVaultCo/archive-service/internal/core/artworks"
	"github.com/ArtVaultCo/archive-service/internal/core/cloud"
	"github.com/ArtVaultCo/archive-service/pkg/telemetry"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogfiber "github.com/samber/slog-fiber"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

var (
	httpRequestsCounter  api.Int64Counter
	httpRequestHistogram api.Float64Histogram
)

func initHTTPMetrics(provider *metric.MeterProvider) error {
	meter := provider.Meter("http")

	var err error
	httpRequestsCounter, err = meter.Int64Counter("http_requests_total",
		api.WithDescription("Total number of HTTP requests"))
	if err != nil {
		return err
	}

	httpRequestHistogram, err = meter.Float64Histogram("http_request_duration_ms",
		api.WithDescription("HTTP request duration in milliseconds"))
	if err != nil {
		return err
	}

	return nil
}

func initGlobalMiddlewares(app *fiber.App, cfg *config.Config) {
	app.Use(
		compress.New(compress.Config{
			Level: compress.LevelDefault,
		}),

		slogfiber.NewWithFilters(slog.Default(), slogfiber.IgnorePath("/health")),

		cors.New(cors.Config{
			AllowOrigins: "*", // TODO - add allowed origins
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
			AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		}),

		favicon.New(),
		limiter.New(limiter.Config{
			Max:               cfg.RateLimitMax,
			Expiration:        time.Duration(cfg.RateLimitWindow) * time.Second,
			LimiterMiddleware: limiter.SlidingWindow{},
		}),
	)

	app.Use(otelfiber.Middleware())
}

type createArtworkRequest struct {
	Title  *string `json:"title"`
	Year   *int    `json:"year"`
	Medium *string `json:"medium"`
	Series *string `json:"series"`
}

type generateDescriptionRequest struct {
	ImageURL            string             `json:"image_url"`
	Metadata            ai.ArtworkMetadata `json:"metadata"`
	IncludeTranslations *bool              `json:"include_translations"`
}

type applyContentRequest struct {
	Content      ai.GeneratedContent `json:"content"`
	Translations ai.Translations     `json:"translations"`
}

func registerHttpRoutes(app *fiber.App, aiService *ai.Service, artworksService *artworks.Service, cloudService *cloud.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().Unix()})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiRoutes := app.Group("/v1")

	apiRoutes.Post("/artworks", withMetrics(func(c *fiber.Ctx) error {
		var req createArtworkRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		artwork, err := artworksService.Create(c.UserContext(), artworks.CreateArtworkParams{
			Title:  req.Title,
			Year:   req.Year,
			Medium: req.Medium,
			Series: req.Series,
		})
		if err != nil {
			slog.Error("Failed to create artwork", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create artwork"})
		}

		return c.Status(fiber.StatusCreated).JSON(artwork)
	}))

	apiRoutes.Get("/artworks", withMetrics(func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		offset := c.QueryInt("offset", 0)

		list, err := artworksService.List(c.UserContext(), limit, offset)
		if err != nil {
			slog.Error("Failed to list artworks", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list artworks"})
		}

		return c.JSON(fiber.Map{"artworks": list, "count": len(list)})
	}))

	// Static siblings of /artworks/:id must be registered first: Fiber
	// matches in registration order and :id would capture them otherwise.
	apiRoutes.Get("/artworks/estimate-cost", withMetrics(func(c *fiber.Ctx) error {
		count := c.QueryInt("count", 1)

		return c.JSON(fiber.Map{
			"count":              count,
			"estimated_cost_usd": ai.EstimateBatchCost(count),
		})
	}))

	apiRoutes.Get("/artworks/images/:fileId", withMetrics(func(c *fiber.Ctx) error {
		if cloudService == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage not configured"})
		}

		info, err := cloudService.GetImageInfo(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
		}

		return c.JSON(info)
	}))

	apiRoutes.Get("/artworks/images/:fileId/url", withMetrics(func(c *fiber.Ctx) error {
		if cloudService == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage not configured"})
		}

		url, err := cloudService.GetPublicImageURL(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get image URL"})
		}

		return c.JSON(fiber.Map{"public_url": url})
	}))

	apiRoutes.Get("/artworks/images/:fileId/presign", withMetrics(func(c *fiber.Ctx) error {
		if cloudService == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage not configured"})
		}

		expiration := time.Duration(c.QueryInt("expires_minutes", 15)) * time.Minute
		url, err := cloudService.GetTemporaryImageURL(c.UserContext(), c.Params("fileId"), expiration)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
		}

		return c.JSON(fiber.Map{"presigned_url": url, "expires_minutes": int(expiration.Minutes())})
	}))

	apiRoutes.Delete("/artworks/images/:fileId", withMetrics(func(c *fiber.Ctx) error {
		if cloudService == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage not configured"})
		}

		if err := cloudService.DeleteImage(c.UserContext(), c.Params("fileId")); err != nil {
			slog.Error("Failed to delete artwork image", "file_id", c.Params("fileId"), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete image"})
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}))

	apiRoutes.Get("/artworks/:id", withMetrics(func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artwork id"})
		}

		artwork, err := artworksService.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, artworks.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artwork not found"})
			}
			slog.Error("Failed to get artwork", "artwork_id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get artwork"})
		}

		return c.JSON(artwork)
	}))

	apiRoutes.Post("/artworks/:id/image", withMetrics(func(c *fiber.Ctx) error {
		if cloudService == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage not configured"})
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artwork id"})
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read image file"})
		}
		defer file.Close()

		result, err := cloudService.UploadArtworkImage(c.UserContext(), id,
			fileHeader.Filename, file, fileHeader.Header.Get("Content-Type"), fileHeader.Size)
		if err != nil {
			var cloudErr *cloud.CloudError
			if errors.As(err, &cloudErr) && cloudErr.Code == "UNSUPPORTED_CONTENT_TYPE" {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": cloudErr.Message})
			}
			slog.Error("Failed to upload artwork image", "artwork_id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
		}

		if err := artworksService.SetImageURL(c.UserContext(), id, result.PublicURL); err != nil {
			if errors.Is(err, artworks.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artwork not found"})
			}
			slog.Error("Failed to attach image to artwork", "artwork_id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to attach image"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"file_id":    result.FileID,
			"public_url": result.PublicURL,
			"size":       result.Size,
		})
	}))

	apiRoutes.Post("/artworks/generate-description", withMetrics(func(c *fiber.Ctx) error {
		var req generateDescriptionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.ImageURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image_url is required"})
		}

		result, err := aiService.GenerateArtworkDescription(c.UserContext(), ai.GenerationOptions{
			ImageURL:            req.ImageURL,
			Metadata:            req.Metadata,
			IncludeTranslations: req.IncludeTranslations,
		})
		if err != nil {
			slog.Error("Failed to generate artwork description", "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "description generation failed"})
		}

		return c.JSON(result)
	}))

	apiRoutes.Post("/artworks/:id/apply-content", withMetrics(func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artwork id"})
		}

		var req applyContentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		artwork, err := artworksService.ApplyGeneratedContent(c.UserContext(), id, req.Content, req.Translations)
		if err != nil {
			if errors.Is(err, artworks.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artwork not found"})
			}
			slog.Error("Failed to apply generated content", "artwork_id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to apply content"})
		}

		return c.JSON(artwork)
	}))
}

func withMetrics(handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := handler(c)

		durationMs := float64(time.Since(start).Milliseconds())

		if httpRequestsCounter != nil {
			httpRequestsCounter.Add(c.UserContext(), 1,
				api.WithAttributes(
					attribute.String("method", c.Method()),
					attribute.String("path", c.Route().Path),
					attribute.Int("status_code", c.Response().StatusCode()),
				),
			)
		}

		if httpRequestHistogram != nil {
			httpRequestHistogram.Record(c.UserContext(), durationMs,
				api.WithAttributes(
					attribute.String("method", c.Method()),
					attribute.String("path", c.Route().Path),
					attribute.Int("status_code", c.Response().StatusCode()),
				),
			)
		}

		if telemetry.ApplicationErrorsTotal != nil && (err != nil || c.Response().StatusCode() >= 500) {
			telemetry.ApplicationErrorsTotal.Add(c.UserContext(), 1,
				api.WithAttributes(attribute.String("path", c.Route().Path)))
		}

		return err
	}
}
