package main

import (
	"context"
	"os"
	"strconv"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/scoring"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/db"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"
)

// score-backfill runs one full scoring pass over the book and exits. Useful
// after threshold changes, scoring formula deployments, or bulk imports.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting score backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)
	eventBus := events.NewInMemoryBus(log)
	scorer := scoring.New(repo, eventBus, cfg, log)

	summary, err := scorer.ScoreAll(ctx, getOptionalIntEnv("BACKFILL_MIN_SCORE"))
	if err != nil {
		log.Error("score backfill failed", "error", err)
		panic("score backfill failed: " + err.Error())
	}

	log.Info("score backfill complete",
		"processed", summary.TotalProcessed,
		"disqualified", summary.Disqualified,
		"qualified", summary.Qualified,
		"hot", summary.HotLeads,
		"contactReady", summary.ContactReady,
		"averageScore", summary.AverageScore,
		"duration", summary.Duration.String(),
	)
}

func getOptionalIntEnv(key string) *int {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
