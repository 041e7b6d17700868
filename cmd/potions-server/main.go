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

	"github.com/daniacca/potions/internal/logging"
	"github.com/daniacca/potions/internal/potions"
)

func main() {
	cfg, err := loadServerConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logger := logging.New(cfg.LogLevel)

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	catalogue, err := loadCatalogue(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build catalogue: %v", err)
	}

	srv, err := NewServer(catalogue, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}
	defer srv.Close()

	if cfg.DefaultAlchemist != "" {
		if _, err := srv.workshop.CreateAlchemist(potions.AlchemistID(cfg.DefaultAlchemist)); err != nil {
			logger.Fatalf("Failed to create default alchemist: %v", err)
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("potions-server listening on %s (seed=%d)", cfg.Addr, cfg.Seed)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Server failed: %v", err)
	}
	logger.Info("potions-server stopped")
}
