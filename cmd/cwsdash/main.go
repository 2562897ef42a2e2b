package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/cache"
	"cwsdash/infrastructure/config"
	httpserver "cwsdash/infrastructure/http"
	"cwsdash/infrastructure/livefeed"
	"cwsdash/infrastructure/session"
	"cwsdash/infrastructure/sqlite"
	"cwsdash/infrastructure/tokenseal"
	"cwsdash/infrastructure/viewmodel"
)

const sweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.App.LogLevel)
	viewmodel.DisplayLocation = cfg.Location

	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	sealer, err := tokenseal.NewSealer(cfg.Session.Secret, nil)
	if err != nil {
		logger.Fatalf("token sealer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout, logger)
	hub := livefeed.NewHub(logger)
	stores := cache.NewStoreRegistry()
	manager := session.NewManager(db, sealer, cache.NewUserSessionCache(), stores, hub, client, logger, cfg.SessionTTL)
	client.OnUnauthorized(manager.Unauthorized)

	go hub.Run(ctx)
	go manager.RunSweeper(ctx, sweepInterval)

	server := httpserver.NewServer(cfg.App.Addr, httpserver.Deps{
		Client:      client,
		Sessions:    manager,
		Audit:       audit.NewService(db, logger),
		Hub:         hub,
		Logger:      logger,
		PhoneRegion: cfg.Farmers.PhoneRegion,
	})
	if err := server.Start(); err != nil {
		logger.Fatalf("start server: %v", err)
	}
	logger.WithFields(logrus.Fields{"addr": cfg.App.Addr, "backend": cfg.Backend.BaseURL}).Info("cwsdash listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.WithError(err).Error("graceful shutdown error")
	}
	cancel()
	stores.CloseAll()
}
