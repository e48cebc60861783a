package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-digitizer/internal/config"
	"menu-digitizer/internal/export"
	"menu-digitizer/internal/handler"
	"menu-digitizer/internal/imagegen"
	"menu-digitizer/internal/router"
	"menu-digitizer/internal/service"
	"menu-digitizer/internal/vision"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting menu-digitizer API server")
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("failed to read .env file")
	}

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize vision model
	visionModel, err := newVisionModel(cfg.Vision, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vision model: %w", err)
	}
	logger.Info().Str("provider", visionModel.Name()).Msg("vision model ready")

	// Initialize image generation client
	if cfg.Image.APIKey == "" {
		logger.Warn().Msg("IMAGE_API_KEY is not set, image generation requests will fail")
	}
	imageClient := imagegen.NewClient(imagegen.Config{
		BaseURL: cfg.Image.BaseURL,
		APIKey:  cfg.Image.APIKey,
		Model:   cfg.Image.Model,
		Size:    cfg.Image.Size,
		Timeout: cfg.Image.Timeout,
	}, logger)

	// Initialize exporter with S3 and local fallback
	exporter := newExporter(ctx, cfg, logger)

	// Initialize services
	extractionService := service.NewExtractionService(
		vision.WithTimeout(visionModel, cfg.Vision.Timeout),
		cfg.Server.UploadMaxBytes,
		logger,
	)
	imageService := service.NewImageService(imageClient, logger)
	sessionService := service.NewSessionService(
		extractionService,
		imageService,
		exporter,
		cfg.Session.TTL,
		logger,
	)
	defer sessionService.Close()

	// Initialize HTTP handlers
	extractHandler := handler.NewExtractHandler(extractionService, imageService, cfg.Server.UploadMaxBytes, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, cfg.Server.UploadMaxBytes, logger)

	// Initialize router
	mux := router.New(extractHandler, sessionHandler, router.Options{
		AllowedOrigin:  cfg.CORS.AllowedOrigin,
		UploadMaxBytes: cfg.Server.UploadMaxBytes,
	}, logger)

	// Model calls can take minutes, so the write timeout follows the
	// model timeout rather than the usual 15s.
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Vision.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

func newVisionModel(cfg config.VisionConfig, logger zerolog.Logger) (vision.Model, error) {
	switch cfg.Provider {
	case "tesseract":
		t, err := vision.NewTesseract(cfg.Language, logger)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return vision.NewGemini(cfg.APIKey, cfg.Model, logger), nil
	}
}

func newExporter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) export.Exporter {
	fileExporter := export.NewFileExporter(cfg.Export.Dir, logger)

	if !cfg.S3.Enabled {
		// S3 disabled, use local file system only
		logger.Info().Str("dir", cfg.Export.Dir).Msg("using local file system for exports (S3 disabled)")
		return fileExporter
	}

	s3Exporter, err := export.NewS3Exporter(ctx, export.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 exporter, falling back to local file system only")
		return fileExporter
	}

	return export.NewFallbackExporter(s3Exporter, fileExporter, cfg.S3.Prefix, true, logger)
}
