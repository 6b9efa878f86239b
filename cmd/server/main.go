package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/goureshmadye/tripbuddy/internal/api"
	"github.com/goureshmadye/tripbuddy/internal/auth"
	"github.com/goureshmadye/tripbuddy/internal/cache"
	"github.com/goureshmadye/tripbuddy/internal/config"
	"github.com/goureshmadye/tripbuddy/internal/middleware"
	"github.com/goureshmadye/tripbuddy/internal/service"
	"github.com/goureshmadye/tripbuddy/internal/storage/sqlite"
	"github.com/goureshmadye/tripbuddy/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	blobs, err := cache.NewDiskBlobStore(cfg.BlobDir)
	if err != nil {
		slog.Error("Failed to open blob store", "error", err, "dir", cfg.BlobDir)
		os.Exit(1)
	}

	cacheMgr := cache.NewManager(
		store,
		blobs,
		cache.NewHTTPFetcher(cfg.DownloadTimeout),
		cache.NewHTTPTileFetcher(cfg.TileURLTemplate, cfg.DownloadTimeout),
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	trips := service.NewTripService(store)
	expenses := service.NewExpenseService(store)

	rl := middleware.NewRateLimiter(10, 30)
	router := api.New(authenticator, jwtManager, trips, expenses, cacheMgr).Router(rl)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(middleware.Logging(router))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
