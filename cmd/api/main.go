// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the AutoLuxe showroom HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Load the vehicle inventory and video library.
//  4. Open the visitor state store (memory, redis or postgres).
//  5. Wire services, the websocket hub and the session manager.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/api"
	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/platform/config"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/internal/platform/logger"
	"github.com/taibuivan/autoluxe/internal/platform/middleware"
	"github.com/taibuivan/autoluxe/internal/session"
	"github.com/taibuivan/autoluxe/internal/storage"
	"github.com/taibuivan/autoluxe/internal/video"
	"github.com/taibuivan/autoluxe/pkg/ws"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log, err := logger.New(false)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log.Info("service_initializing", zap.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog, err := logger.New(true)
		must(log, err, "build debug logger")
		log = debugLog
		log.Debug("debug_logging_enabled")
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration_loaded",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.ServerPort),
		zap.String("store_driver", cfg.StoreDriver),
	)

	// Root context for background workers; cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 3. Inventory ──────────────────────────────────────────────────────
	inventory, err := catalog.LoadFile(cfg.CatalogPath)
	must(log, err, "load inventory")

	library, err := video.LoadFile(cfg.VideosPath)
	must(log, err, "load video library")

	log.Info("inventory_loaded",
		zap.Int("vehicles", inventory.Len()),
		zap.Int("videos", library.Len()),
	)

	// ── 4. Visitor State Store ────────────────────────────────────────────
	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	store, closeStore, err := storage.Open(startupCtx, cfg, log)
	startupCancel()
	must(log, err, "open visitor store")
	defer func() {
		log.Info("closing visitor store")
		closeStore()
	}()

	go store.RunJanitor(ctx, constants.StorageJanitorInterval)

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	catalogService := catalog.NewService(inventory, catalog.Options{
		DealerPhone:   cfg.DealerPhone,
		DealerEmail:   cfg.DealerEmail,
		FeaturedLimit: constants.FeaturedLimit,
		SimilarLimit:  constants.SimilarLimit,
	}, log)
	videoService := video.NewService(library, inventory, log)
	dispatcher := contact.NewDispatcher(inventory, log,
		contact.WithDelay(cfg.SubmissionDelay),
		contact.WithFailureRate(cfg.SubmissionFailureRate),
	)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	manager := session.NewManager(session.Dependencies{
		Catalog:    catalogService,
		Videos:     videoService,
		Dispatcher: dispatcher,
		Store:      store,
		Notifier:   hub,
		Logger:     log,
	},
		session.WithPageSize(cfg.PageSize),
		session.WithIdleTimeout(cfg.SessionIdleTimeout),
		session.WithCarouselInterval(cfg.CarouselInterval),
	)
	go manager.Run(ctx, constants.SessionSweepInterval)

	liveness, readiness := api.NewHealthHandlers(log, api.Checker{
		Name:  "visitor_store",
		Check: store.Ping,
	})

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalog.NewHandler(catalogService),
		Videos:    video.NewHandler(videoService),
		Sessions: session.NewHandler(manager, hub, session.HandlerOptions{
			DealerPhone: cfg.DealerPhone,
			CheckOrigin: checkOrigin(cfg),
		}, log),
	}

	server := api.NewServer(ctx, cfg, log, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", zap.Error(err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", zap.Duration("timeout", shutdownTimeout))

	// Hijacked websocket connections are closed by the hub, not by Shutdown.
	cancel()
	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// checkOrigin applies the CORS origin policy to websocket upgrades.
func checkOrigin(cfg *config.Config) func(*http.Request) bool {
	return func(request *http.Request) bool {
		origin := request.Header.Get(constants.HeaderOrigin)
		return origin == "" || middleware.OriginAllowed(cfg, cfg.AllowedOriginSuffix, origin)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *zap.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			zap.String("context", context),
			zap.Error(err),
		)
		os.Exit(1)
	}
}
