package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/scoring"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	scoring *scoring.Service
	repo    repository.FollowupStore
	bus     events.Bus
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, scoringSvc *scoring.Service, repo repository.FollowupStore, bus events.Bus, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		scoring: scoringSvc,
		repo:    repo,
		bus:     bus,
		log:     log,
	}

	mux.HandleFunc(TaskLeadsRescore, w.handleLeadsRescore)
	mux.HandleFunc(TaskLeadFollowupDue, w.handleLeadFollowupDue)

	return w, nil
}

func (w *Worker) handleLeadsRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadsRescorePayload(task)
	if err != nil {
		return err
	}

	summary, err := w.scoring.ScoreAll(ctx, payload.MinScore)
	if err != nil {
		return err
	}

	w.log.Info("queued scoring run finished",
		"processed", summary.TotalProcessed,
		"disqualified", summary.Disqualified,
		"hot", summary.HotLeads,
	)
	return nil
}

func (w *Worker) handleLeadFollowupDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadFollowupDuePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.repo.GetLeadByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted since scheduling; nothing to remind about.
			return nil
		}
		return err
	}

	// The reminder only matters while the lead is still being worked.
	if lead.Status == domain.StatusOptedOut || lead.PipelineStage == domain.StageRejected {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	return w.bus.PublishSync(ctx, events.FollowupDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
