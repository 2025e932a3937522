package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"memorybook/docs"
	"memorybook/internal/config"
	"memorybook/internal/database"
	"memorybook/internal/database/migration"
	handlers "memorybook/internal/http/handler"
	"memorybook/internal/http/middleware"
	"memorybook/internal/logging"
	"memorybook/internal/media"
	"memorybook/internal/metrics"
	"memorybook/internal/music"
	"memorybook/internal/otel"
	"memorybook/internal/repository"
	"memorybook/internal/repository/postgres"
	redisrepo "memorybook/internal/repository/redis"
	"memorybook/internal/service"
	"memorybook/internal/storage"
)

// @title Memorybook Media API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	log := logging.Default(loc)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		fatal(log, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(log, "db_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		fatal(log, "db_migration_failed", err)
	}

	placer, err := newPlacer(ctx, cfg, log)
	if err != nil {
		fatal(log, "storage_init_failed", err)
	}

	uploadMetrics, err := metrics.NewUpload(prometheus.DefaultRegisterer)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}

	mediaSvc := service.NewMediaService(service.MediaConfig{
		TempDir:         cfg.Media.TempDir,
		MaxVideoSeconds: cfg.Media.MaxVideoSeconds,
		ProbeTimeout:    cfg.Media.ProbeTimeout,
	}, service.MediaDeps{
		Placer:   placer,
		Probe:    media.NewFFProbe(cfg.Media.FFProbePath),
		Repo:     postgres.NewMediaPostgres(db),
		Memories: postgres.NewMemoryPostgres(db),
		Metrics:  uploadMetrics,
		Logger:   log,
	})
	musicSvc := service.NewMusicService(newSearcher(cfg, log), newTrackCache(ctx, cfg, log), cfg.Music.CacheTTL, log)

	app := fiber.New(fiber.Config{
		AppName:      "memorybook",
		BodyLimit:    cfg.Media.MaxUploadSizeMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	handlers.RegisterRoutes(app, db, mediaSvc, musicSvc)

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

	go func() {
		<-ctx.Done()
		log.Info("server_shutdown")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server_shutdown_failed", "error", err.Error())
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", "addr", addr, "media_backend", cfg.Media.Backend)
	if err := app.Listen(addr); err != nil {
		fatal(log, "server_start_failed", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err.Error())
	os.Exit(1)
}

// newPlacer picks the storage backend for placed files.
func newPlacer(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (media.Placer, error) {
	if cfg.Media.Backend == config.BackendMinIO {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return media.NewObjectPlacer(objStore, log), nil
	}
	paths := media.PathBuilder{StaticRoot: cfg.Media.StaticRoot, DataDir: cfg.Media.DataDir}
	return media.NewFilePlacer(paths, log), nil
}

// newSearcher uses Spotify when credentials are configured and the bundled
// catalog otherwise.
func newSearcher(cfg *config.AppConfig, log *slog.Logger) music.Searcher {
	if cfg.Music.ClientID == "" || cfg.Music.ClientSecret == "" {
		log.Info("music_search_configured", "provider", "catalog")
		return music.NewCatalog()
	}
	log.Info("music_search_configured", "provider", "spotify", "market", cfg.Music.Market)
	return music.NewSpotifyClient(cfg.Music.ClientID, cfg.Music.ClientSecret, music.WithMarket(cfg.Music.Market))
}

// newTrackCache returns nil (no caching) when Redis is not configured or unreachable.
func newTrackCache(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) repository.TrackCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		log.Warn("redis_unavailable", "addr", cfg.Redis.Addr, "error", err.Error())
		_ = client.Close()
		return nil
	}
	return redisrepo.NewTrackCache(client)
}
