// Package pipeline implements the lead pipeline state machine: call outcome
// and reply transitions, follow-up scheduling, and the atomic persistence of
// stage moves under optimistic versioning.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/apperr"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/phone"

	"github.com/google/uuid"
)

// staleRetries bounds retries when a transition write loses a version race.
const staleRetries = 3

// tagWrongNumber is appended to a lead whose recorded phone turned out wrong,
// so list callers can filter them into re-skiptrace batches.
const tagWrongNumber = "wrong_number"

// FollowupScheduler enqueues a follow-up reminder to fire at the given time.
// The scheduler implementation lives in internal/scheduler.
type FollowupScheduler interface {
	ScheduleFollowup(ctx context.Context, leadID uuid.UUID, at time.Time) error
}

// TransitionResult reports what a transition did to the lead.
type TransitionResult struct {
	LeadID   uuid.UUID `json:"leadId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
	Status   string    `json:"status,omitempty"`
	Message  string    `json:"message"`
}

// Service applies pipeline transitions to leads.
type Service struct {
	repo      repository.PipelineStore
	scheduler FollowupScheduler
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new pipeline service. scheduler may be nil in contexts that
// cannot enqueue reminders (the backfill CLI); follow-up times are still
// persisted so the periodic sweep picks them up.
func New(repo repository.PipelineStore, scheduler FollowupScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, scheduler: scheduler, bus: bus, log: log}
}

// ApplyCallOutcome records a caller disposition against a lead and applies
// its transition effect. followupAt is honored for outcomes that leave the
// lead awaiting another attempt.
func (s *Service) ApplyCallOutcome(ctx context.Context, leadID uuid.UUID, outcome domain.CallOutcome, followupAt *time.Time) (TransitionResult, error) {
	effect, err := domain.EffectForCallOutcome(outcome)
	if err != nil {
		return TransitionResult{}, apperr.Validation(err.Error())
	}

	result, err := s.apply(ctx, leadID, effect, followupAt, "call_outcome")
	if err != nil {
		return TransitionResult{}, err
	}

	if outcome == domain.OutcomeWrongNumber {
		if err := s.repo.AppendLeadTag(ctx, leadID, tagWrongNumber); err != nil {
			return TransitionResult{}, err
		}
	}

	result.Message = fmt.Sprintf("recorded %s", outcome)
	return result, nil
}

// ApplyReply applies a classified inbound reply. A dead reply is an opt-out
// and is honored from any stage; a yes pulls the lead straight to Hot.
func (s *Service) ApplyReply(ctx context.Context, leadID uuid.UUID, class domain.ReplyClassification) (TransitionResult, error) {
	effect, err := domain.EffectForReply(class)
	if err != nil {
		return TransitionResult{}, apperr.Validation(err.Error())
	}

	classStr := string(class)
	result, err := s.applyWithReply(ctx, leadID, effect, &classStr)
	if err != nil {
		return TransitionResult{}, err
	}

	result.Message = fmt.Sprintf("reply classified %s", class)
	return result, nil
}

// UpdatePhone replaces the owner's phone with a normalized E.164 number,
// typically after a wrong_number disposition and a fresh skiptrace. Replacing
// a number resets TCPA safety until the next scrub run.
func (s *Service) UpdatePhone(ctx context.Context, leadID uuid.UUID, raw string) (string, error) {
	normalized := phone.NormalizeE164(raw)
	if !phone.IsValid(normalized) {
		return "", apperr.Validation("phone number is not valid")
	}

	if err := s.repo.UpdateOwnerPhone(ctx, leadID, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.NotFound("lead not found")
		}
		return "", err
	}
	return normalized, nil
}

func (s *Service) apply(ctx context.Context, leadID uuid.UUID, effect domain.Effect, followupAt *time.Time, trigger string) (TransitionResult, error) {
	return s.transition(ctx, leadID, effect, followupAt, nil, trigger)
}

func (s *Service) applyWithReply(ctx context.Context, leadID uuid.UUID, effect domain.Effect, class *string) (TransitionResult, error) {
	return s.transition(ctx, leadID, effect, nil, class, "reply")
}

// transition resolves the effect against the lead's current stage and
// persists it atomically, retrying version races against a fresh read.
func (s *Service) transition(ctx context.Context, leadID uuid.UUID, effect domain.Effect, followupAt *time.Time, replyClass *string, trigger string) (TransitionResult, error) {
	var (
		lead repository.Lead
		err  error
	)

	for attempt := 0; attempt < staleRetries; attempt++ {
		lead, err = s.repo.GetLeadByID(ctx, leadID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return TransitionResult{}, apperr.NotFound("lead not found")
			}
			return TransitionResult{}, err
		}

		newStage := effect.Resolve(lead.PipelineStage)

		params := repository.UpdatePipelineParams{
			IncrementFollowup:       effect.IncrementFollowup,
			NextFollowupAt:          followupAt,
			LastReplyClassification: replyClass,
			ExpectedVersion:         lead.Version,
		}
		if newStage != lead.PipelineStage {
			params.Stage = &newStage
		}
		if effect.Status != "" {
			status := effect.Status
			params.Status = &status
		}

		updated, uerr := s.repo.UpdateLeadPipeline(ctx, leadID, params)
		if errors.Is(uerr, repository.ErrStaleVersion) {
			continue
		}
		if uerr != nil {
			return TransitionResult{}, uerr
		}

		return s.finish(ctx, lead, updated, effect, followupAt, trigger)
	}

	return TransitionResult{}, apperr.Wrap(apperr.KindConflict, "lead was modified concurrently", repository.ErrStaleVersion)
}

// finish applies the effect's side effects after the stage write landed.
func (s *Service) finish(ctx context.Context, before, after repository.Lead, effect domain.Effect, followupAt *time.Time, trigger string) (TransitionResult, error) {
	if effect.ClearPhone {
		if err := s.repo.ClearOwnerPhone(ctx, before.ID); err != nil {
			return TransitionResult{}, err
		}
	}

	if effect.SetOptOut {
		if err := s.repo.SetOwnerOptOut(ctx, before.ID); err != nil {
			return TransitionResult{}, err
		}
		if s.bus != nil {
			s.bus.Publish(ctx, events.OwnerOptedOut{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    before.ID,
				Source:    trigger,
			})
		}
	}

	if followupAt != nil && s.scheduler != nil {
		if err := s.scheduler.ScheduleFollowup(ctx, before.ID, *followupAt); err != nil {
			// The follow-up time is already persisted; the sweep will catch
			// it, so a scheduling failure is not fatal to the transition.
			if s.log != nil {
				s.log.Warn("followup scheduling failed", "leadId", before.ID, "error", err)
			}
		}
	}

	if s.bus != nil && after.PipelineStage != before.PipelineStage {
		s.bus.Publish(ctx, events.PipelineStageChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    before.ID,
			OldStage:  before.PipelineStage,
			NewStage:  after.PipelineStage,
			Trigger:   trigger,
		})
	}

	return TransitionResult{
		LeadID:   before.ID,
		OldStage: before.PipelineStage,
		NewStage: after.PipelineStage,
		Status:   after.Status,
	}, nil
}
