package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"paperapi/docs"
	"paperapi/internal/cache"
	"paperapi/internal/config"
	"paperapi/internal/database"
	"paperapi/internal/database/migration"
	handlers "paperapi/internal/http/handler"
	"paperapi/internal/http/middleware"
	"paperapi/internal/logging"
	"paperapi/internal/otel"
	"paperapi/internal/repository"
	"paperapi/internal/repository/memory"
	"paperapi/internal/repository/mongodb"
	"paperapi/internal/repository/postgres"
	"paperapi/internal/service"
	"paperapi/internal/storage"
)

// @title Exam Paper API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, time.Local)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// backends are the stores the service runs on, plus their cleanup.
type backends struct {
	papers  repository.PaperStore
	blobs   storage.BlobStore
	uploads storage.Storage
	close   func()
}

func run(cfg *config.AppConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	be, err := openBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	paperCache, closeCache := openCache(ctx, cfg.Redis, logger)
	defer closeCache()

	paperSvc := service.NewPaperService(be.papers, be.blobs, paperCache, logger, cfg.SignedURLExpiry)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	handlers.RegisterRoutes(app, paperSvc, handlers.Options{
		Uploads: be.uploads,
		Limit:   limiter.Handler(),
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.Port),
			zap.Bool("development_mode", cfg.DevelopmentMode),
			zap.String("docstore", cfg.DocStoreDriver),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

func openBackends(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*backends, error) {
	if cfg.DevelopmentMode {
		baseURL := "http://" + cfg.AppHost + "/uploads"
		blobs := storage.NewMemory(baseURL)
		logger.Warn("development mode: papers and files are kept in memory")
		return &backends{
			papers:  memory.NewPaperMemory(),
			blobs:   storage.NewBlobStore(blobs, baseURL),
			uploads: blobs,
			close:   func() {},
		}, nil
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	blobs := storage.NewBlobStore(objStore, storage.BaseURL(cfg.MinIO))

	switch cfg.DocStoreDriver {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			db.Close()
			return nil, err
		}
		return &backends{
			papers: postgres.NewPaperPostgres(db),
			blobs:  blobs,
			close:  func() { db.Close() },
		}, nil

	case "mongo":
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		store := mongodb.NewPaperMongo(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &backends{
			papers: store,
			blobs:  blobs,
			close: func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(dctx)
			},
		}, nil

	default:
		return nil, errors.New("unknown DOCSTORE_DRIVER " + cfg.DocStoreDriver + ": want postgres or mongo")
	}
}

// openCache connects to Redis when configured. A failed connection disables
// caching rather than stopping the server.
func openCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (cache.PaperCache, func()) {
	if cfg.Addr == "" {
		return cache.Noop{}, func() {}
	}
	client, err := cache.Dial(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("paper cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		return cache.Noop{}, func() {}
	}
	return cache.NewRedisCache(client, cfg.TTL), func() { client.Close() }
}
