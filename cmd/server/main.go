package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quickblog-api/internal/api"
	"github.com/quickblog-api/internal/blobstore"
	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/repository"
	"github.com/quickblog-api/internal/service"
	"github.com/quickblog-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()

	// Initialize logger
	log := logger.New("quickblog-api")
	log.Info().Msg("Starting QuickBlog API server...")

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize blob store
	store, closeStore, err := blobstore.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open store")
	}
	defer closeStore()

	log.Info().
		Str("driver", cfg.Store.Driver).
		Str("store", cfg.Store.Name).
		Msg("Blob store ready")

	// Initialize repositories
	repos := repository.New(store, log)

	// Initialize services
	services := service.NewServices(repos, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("prefix", cfg.Server.PathPrefix).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
