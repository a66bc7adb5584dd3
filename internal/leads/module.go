// Package leads provides the lead engine bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	apphttp "github.com/ptanner66-prog/la-land-wholesale-sub001/internal/http"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/handler"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/pipeline"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/queue"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/scoring"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/httpkit"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	scoring  *scoring.Service
	pipeline *pipeline.Service
	queue    *queue.Service
	repo     *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
// scheduler may be nil when no task queue is wired (the backfill CLI).
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg *config.Config, log *logger.Logger, scheduler pipeline.FollowupScheduler) *Module {
	repo := repository.New(pool)

	scoringSvc := scoring.New(repo, eventBus, cfg, log)
	pipelineSvc := pipeline.New(repo, scheduler, eventBus, log)
	queueSvc := queue.New(repo, eventBus, cfg, log)

	h := handler.New(repo, scoringSvc, pipelineSvc, queueSvc, val)

	return &Module{
		handler:  h,
		scoring:  scoringSvc,
		pipeline: pipelineSvc,
		queue:    queueSvc,
		repo:     repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ScoringService returns the scoring service for external use (the scheduler worker).
func (m *Module) ScoringService() *scoring.Service {
	return m.scoring
}

// PipelineService returns the pipeline service for external use.
func (m *Module) PipelineService() *pipeline.Service {
	return m.pipeline
}

// QueueService returns the caller-queue service for external use.
func (m *Module) QueueService() *queue.Service {
	return m.queue
}

// Repository returns the shared lead repository.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterLeadRoutes(leadsGroup)

	// Batch scoring is an expensive full-table pass; admin-only and rate
	// limited hard.
	scoringGroup := ctx.Protected.Group("/scoring")
	scoringGroup.POST("/run", httpkit.RequireRole("admin"), ctx.BatchRateLimiter.RateLimit(), m.handler.RunScoring)

	ctx.Protected.GET("/caller-sheet", m.handler.CallerSheet)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
