package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/ArtVaultCo/archive-service/internal/core/ai"
	"github.com/ArtVaultCo/archive-service/internal/core/artworks"
	"github.com/ArtVaultCo/archive-service/internal/core/cloud"
	"github.com/ArtVaultCo/archive-service/internal/core/translations"
	"github.com/ArtVaultCo/archive-service/internal/infra/postgres"
	"github.com/ArtVaultCo/archive-service/pkg/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
	"google.golang.org/grpc"
)

type Server struct {
	cfg                 *config.Config
	app                 *fiber.App
	db                  postgres.DB
	traceProvider       *sdktrace.TracerProvider
	metricProvider      *metric.MeterProvider
	loggerProvider      interface{ Shutdown(context.Context) error }
	aiService           *ai.Service
	artworksService     *artworks.Service
	translationsService *translations.Service
	cloudService        *cloud.Service
	ctx                 context.Context
	cancel              context.CancelFunc
	wg                  sync.WaitGroup
}

func New(ctx context.Context, cfg *config.Config, dbConn *pgxpool.Pool) *Server {
	traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
	if err != nil {
		slog.Error("failed to initialize jaeger exporter", slog.String("error", err.Error()))
		return nil
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OtlpEndpoint),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithDialOption(grpc.WithUserAgent("archive-service")),
	)
	if err != nil {
		slog.Error("failed to initialize otlp exporter", slog.String("error", err.Error()))
		return nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceNameKey.String("archive-service"),
			)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	provider := metric.NewMeterProvider(metric.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("archive-service"),
	)), metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second))))

	otel.SetMeterProvider(provider)

	if err := telemetry.InitTelemetry(provider); err != nil {
		slog.Error("failed to initialize telemetry", slog.String("error", err.Error()))
		return nil
	}

	if err := initHTTPMetrics(provider); err != nil {
		slog.Error("failed to initialize http metrics", slog.String("error", err.Error()))
		return nil
	}

	instrumentedConn, err := telemetry.NewInstrumentedPool(provider, dbConn)
	if err != nil {
		slog.Error("failed to create instrumented pool", slog.String("error", err.Error()))
		return nil
	}

	app := fiber.New(cfg.Fiber())

	serverCtx, cancel := context.WithCancel(ctx)

	logger := slog.Default()

	deepLClient := translations.NewDeepLClient(cfg.GetDeepLConfig(), logger)
	translationsService := translations.NewService(instrumentedConn, deepLClient, logger)
	aiService := ai.NewService(cfg.GetOpenAIConfig(), translationsService, logger)
	artworksService := artworks.NewService(instrumentedConn, translationsService, logger)

	// Image storage is optional: without credentials the archive still
	// serves generation requests for externally hosted images.
	var cloudService *cloud.Service
	if cfg.AzureStorageConnectionString != "" || cfg.AzureStorageAccountName != "" {
		cloudService, err = cloud.NewService(cfg.GetCloudConfig(), logger)
		if err != nil {
			slog.Error("failed to initialize cloud storage", slog.String("error", err.Error()))
			cancel()
			return nil
		}
	} else {
		slog.Warn("Cloud storage not configured, image uploads disabled")
	}

	return &Server{
		cfg:                 cfg,
		app:                 app,
		db:                  instrumentedConn,
		traceProvider:       tp,
		metricProvider:      provider,
		aiService:           aiService,
		artworksService:     artworksService,
		translationsService: translationsService,
		cloudService:        cloudService,
		ctx:                 serverCtx,
		cancel:              cancel,
	}
}

// SetLoggerProvider attaches the OTLP log provider so Shutdown can flush it.
func (s *Server) SetLoggerProvider(provider interface{ Shutdown(context.Context) error }) {
	s.loggerProvider = provider
}

func (s *Server) Start() {
	initGlobalMiddlewares(s.app, s.cfg)
	registerHttpRoutes(s.app, s.aiService, s.artworksService, s.cloudService)

	slog.Info("Starting HTTP server", slog.String("address", s.cfg.ServerAddress))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listen(s.cfg.ServerAddress); err != nil {
			slog.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()
}

func (s *Server) Shutdown() {
	slog.Info("Shutting down server")

	s.cancel()

	if err := s.app.Shutdown(); err != nil {
		slog.Error("Error shutting down HTTP server", slog.String("error", err.Error()))
	}

	s.wg.Wait()

	if err := s.traceProvider.Shutdown(context.Background()); err != nil {
		slog.Error("Error shutting down trace provider", slog.String("error", err.Error()))
	}

	if err := s.metricProvider.Shutdown(context.Background()); err != nil {
		slog.Error("Error shutting down metric provider", slog.String("error", err.Error()))
	}

	if s.loggerProvider != nil {
		if err := s.loggerProvider.Shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down log provider", slog.String("error", err.Error()))
		}
	}

	s.db.Close()

	slog.Info("Server shut down successfully")
}
