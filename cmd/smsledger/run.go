package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adikhanna/smsledger/pkg/config"
	"github.com/adikhanna/smsledger/pkg/engine"
	"github.com/adikhanna/smsledger/pkg/orchestrator"
	"github.com/adikhanna/smsledger/pkg/store/postgres"
	"github.com/adikhanna/smsledger/pkg/store/sqlite"
)

// runOnce executes a single sync pass.
func runOnce(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	orch, cleanup, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orch.Run(context.Background())
	if err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}

	fmt.Printf("fetched %d, accepted %d, persisted %d (duplicates: %d in-pass, %d in store; failed: %d)\n",
		result.Fetched, result.Accepted, result.Persisted,
		result.Duplicates, result.Suppressed, result.Failed)

	return nil
}

// runDaemon runs sync passes on an interval until SIGINT/SIGTERM.
func runDaemon(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	interval, err := cfg.SyncIntervalDuration()
	if err != nil {
		return err
	}

	orch, cleanup, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("daemon started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// A failed pass (source unavailable, store down) leaves the
		// watermark alone; the next tick retries the same range.
		if _, err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("sync pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("daemon stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// buildOrchestrator wires the engine, stores, and orchestrator together.
func buildOrchestrator(cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, func(), error) {
	eng, err := engine.New()
	if err != nil {
		return nil, nil, fmt.Errorf("building engine: %w", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
	}

	expenses, err := postgres.New(postgres.Config{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		Database: cfg.PostgresDatabase,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		SSLMode:  cfg.PostgresSSLMode,
	}, logger.With("component", "expense_store"))
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("opening expense store: %w", err)
	}

	orch := orchestrator.New(
		eng,
		db,
		db,
		expenses,
		logger.With("component", "orchestrator"),
		orchestrator.WithSyncLog(db),
	)

	cleanup := func() {
		expenses.Close()
		db.Close()
	}

	return orch, cleanup, nil
}
