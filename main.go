package main

import (
	"context"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questlog/auth"
	"questlog/campaign"
	"questlog/config"
	httpserver "questlog/http"
	"questlog/logging"
	"questlog/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg)
	log.Info("starting questlog server", "addr", cfg.ServerAddr, "db_path", cfg.DBPath)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sessionManager := auth.NewSessionManager()
	authService := auth.NewService(db, sessionManager)
	campaigns := campaign.NewService(db, log)

	server := httpserver.NewServer(authService, campaigns, cfg.AllowedOrigin, log)
	srv := server.GetHTTPServer(cfg.ServerAddr)

	go func() {
		log.Info("server listening", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
