package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sweepInterval is how often the sweep checks for persisted follow-up times
// that never made it into the task queue (scheduling failed, or the
// transition ran without a queue client).
const sweepInterval = 30 * time.Second

const sweepBatchSize = 50

// FollowupSweep is the safety net behind direct follow-up scheduling: it
// claims due follow-ups from the database and enqueues their reminder tasks.
type FollowupSweep struct {
	client *asynq.Client
	queue  string
	repo   *repository.Repository
	log    *logger.Logger
}

func NewFollowupSweep(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*FollowupSweep, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &FollowupSweep{
		client: asynq.NewClient(opt),
		queue:  queue,
		repo:   repository.New(pool),
		log:    log,
	}, nil
}

func (s *FollowupSweep) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *FollowupSweep) Run(ctx context.Context) {
	if s == nil || s.client == nil || s.repo == nil {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		claimed, err := s.repo.ClaimDueFollowups(ctx, time.Now(), sweepBatchSize)
		if err != nil {
			s.log.DatabaseError("claim_due_followups", err)
			continue
		}

		for _, lead := range claimed {
			task, err := NewLeadFollowupDueTask(LeadFollowupDuePayload{LeadID: lead.ID.String()})
			if err != nil {
				s.log.Warn("followup task build failed", "leadId", lead.ID, "error", err)
				continue
			}

			if _, err := s.client.EnqueueContext(ctx, task, asynq.Queue(s.queue)); err != nil {
				s.log.Warn("followup enqueue failed", "leadId", lead.ID, "error", err)
			}
		}
	}
}
