package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aarogyalekha/hospital-portal/internal/config"
	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/handlers"
	"github.com/aarogyalekha/hospital-portal/internal/middleware"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/aarogyalekha/hospital-portal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("api_url", cfg.API.BaseURL).Msg("Starting hospital portal")

	// Initialize the session store
	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}

	// Gateway to the coordination API
	client := gateway.NewClient(cfg.API.BaseURL, store)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS for the browser shell
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Mount("/", handlers.Router(client, store))

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Portal listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Portal failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down portal...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Portal forced to shutdown")
	}

	log.Info().Msg("Portal stopped")
}

// newSessionStore picks the configured session backend. The file
// backend is the browser-local-storage equivalent; redis serves shared
// kiosk deployments; memory is for throwaway runs.
func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		store, err := session.NewRedisStore(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Redis session store initialized")
		return store, nil
	case "memory":
		log.Info().Msg("Memory session store initialized (sessions will not survive a restart)")
		return session.NewMemoryStore(), nil
	default:
		store, err := session.NewFileStore(cfg.Session.File)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Session.File).Msg("File session store initialized")
		return store, nil
	}
}
