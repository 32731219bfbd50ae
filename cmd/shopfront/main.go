package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shopfront/internal/cart"
	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/handlers"
	"shopfront/internal/logging"
	loggingmw "shopfront/internal/middleware/logging"
	"shopfront/internal/preferences"
	"shopfront/internal/prompt"
	"shopfront/internal/session"
	"shopfront/internal/shopapi"
	"shopfront/internal/storage"
	httpserver "shopfront/internal/transport/http"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.APIBaseURL, "SHOP_API_URL")

	logger := logging.New(cfg.LogLevel)

	var store storage.Store
	var closeStore func() error
	if cfg.StoragePath != "" {
		s, err := storage.NewSQLiteStore(cfg.StoragePath)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		store = s
		closeStore = s.Close
	} else {
		logger.Warn("no STORAGE_PATH configured, state will not survive restarts")
		store = storage.NewMemoryStore()
		closeStore = func() error { return nil }
	}

	prod := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)

	api := shopapi.NewClient(cfg.APIBaseURL)
	prompts := prompt.NewRecorder(logger)
	sessions := session.NewManager(store, api, prompts, logger)
	cartStore := cart.NewStore(store, sessions, logger)
	prefs := preferences.NewStore(store, sessions, logger)

	// Resume lifecycle timers for a session that survived a restart.
	if sessions.IsUserSignedIn() {
		sessions.ScheduleExpiredPrompt()
		sessions.ScheduleExtendPrompt()
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		SessionHandler: &handlers.SessionHandler{Sessions: sessions, API: api, Prompts: prompts, Producer: prod},
		CartHandler:    &handlers.CartHandler{Cart: cartStore, Sessions: sessions, Preferences: prefs, Producer: prod},
		AccountHandler: &handlers.AccountHandler{API: api, Sessions: sessions, Store: store},
		CatalogHandler: &handlers.CatalogHandler{API: api, Sessions: sessions, Preferences: prefs},
		OrderHandler:   &handlers.OrderHandler{API: api, Sessions: sessions},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	sessions.Close()

	if err := prod.Close(); err != nil {
		logger.Error("producer close error", "error", err)
	}
	if err := closeStore(); err != nil {
		logger.Error("storage close error", "error", err)
	}

	logger.Info("shutdown complete")
}
