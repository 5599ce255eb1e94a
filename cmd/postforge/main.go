// Package main is the entry point for the PostForge rendering server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"postforge/internal/ai"
	"postforge/internal/assets"
	"postforge/internal/cache"
	"postforge/internal/config"
	"postforge/internal/database"
	"postforge/internal/handlers"
	"postforge/internal/jobs"
	"postforge/internal/middleware"
	"postforge/internal/render"
	"postforge/internal/router"
	"postforge/internal/selection"
	"postforge/internal/storage"
	"postforge/internal/store"
	"postforge/internal/video"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load a local .env file if one exists. Deployed environments set
	// their variables directly.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if cfg.MigrateOnStart {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Seed the builtin template catalog (no-op if entries already exist).
	if cfg.SeedOnStart {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey. The server runs without it: render caching and
	// tenant rotation degrade, they do not fail.
	var (
		renderCache   *cache.RenderCache
		rotationStore selection.StateStore
	)
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, render cache and rotation state disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		renderCache = cache.NewRenderCache(valkeyClient, cfg.RenderCacheTTL)
		rotationStore = cache.NewRotationStore(valkeyClient)
	}

	// Connect to S3-compatible object storage (optional; jobs complete
	// without an output URL when it is absent).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, rendered output stays local")
	}

	// Load fonts and build the render pipeline.
	fonts, err := render.NewFontManager(cfg.FontDir)
	if err != nil {
		slog.Error("failed to load fonts", "error", err)
		os.Exit(1)
	}
	compositor := render.NewCompositor(fonts)
	assetCache := assets.NewCache(cfg.AssetCacheSize, nil)
	assembler := video.NewAssembler(compositor, cfg.EncodeTimeout)

	// Initialize data stores.
	jobStore := store.NewJobStore(db)
	catalogStore := store.NewCatalogStore(db)

	// Build the template catalog snapshot and keep it fresh.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := selection.NewCatalog(catalogStore)
	if err := catalog.Refresh(ctx); err != nil {
		slog.Error("initial catalog refresh failed", "error", err)
		os.Exit(1)
	}
	go catalog.RunRefresh(ctx, cfg.CatalogRefresh)

	engine := selection.NewEngine(catalog, rotationStore)

	// The job service ties the pipeline together. The uploader interface
	// stays nil when storage is absent.
	var uploader jobs.Uploader
	if storageClient != nil {
		uploader = storageClient
	}
	runner := jobs.NewService(jobStore, engine, assetCache, compositor, assembler, uploader, renderCache)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Create the handler group and wire the router.
	api := handlers.NewAPI(jobStore, runner, catalogStore, catalog, renderCache, aiRegistry)

	limiter := middleware.NewRateLimiter(120, time.Minute)
	defer limiter.Stop()

	r := router.New(api, cfg.APITokenHash, limiter)

	// WriteTimeout must accommodate synchronous renders: a slideshow
	// encode can take the whole encode budget.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.EncodeTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
