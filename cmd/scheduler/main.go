package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/scoring"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/scheduler"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/db"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	repo := repository.New(pool)
	scoringSvc := scoring.New(repo, eventBus, cfg, log)

	sweep, err := scheduler.NewFollowupSweep(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize follow-up sweep", "error", err)
		panic("failed to initialize follow-up sweep: " + err.Error())
	}
	defer func() { _ = sweep.Close() }()
	go sweep.Run(ctx)

	nightly, err := scheduler.NewNightlyRescore(cfg, log)
	if err != nil {
		log.Error("failed to initialize nightly rescore", "error", err)
		panic("failed to initialize nightly rescore: " + err.Error())
	}
	defer func() { _ = nightly.Close() }()
	go nightly.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, scoringSvc, repo, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
