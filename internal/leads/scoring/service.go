package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// staleRetries bounds how often a scoring write races a concurrent pipeline
// event before giving up.
const staleRetries = 3

// Summary reports the outcome of a batch scoring pass.
type Summary struct {
	TotalProcessed int           `json:"total_processed"`
	Disqualified   int           `json:"disqualified"`
	Qualified      int           `json:"qualified"`
	HotLeads       int           `json:"hot_leads"`
	ContactReady   int           `json:"contact_ready"`
	AverageScore   float64       `json:"average_score"`
	Duration       time.Duration `json:"duration"`
}

// Service computes and persists lead scores.
type Service struct {
	repo       repository.ScoringStore
	bus        events.Bus
	thresholds config.ThresholdConfig
	log        *logger.Logger
}

// New creates a new scoring service.
func New(repo repository.ScoringStore, bus events.Bus, thresholds config.ThresholdConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, thresholds: thresholds, log: log}
}

// RescoreLead recomputes one lead's score on demand and persists the fully
// replaced breakdown. It builds its own median snapshot so an in-flight
// batch run never shares mutable state with it.
func (s *Service) RescoreLead(ctx context.Context, leadID uuid.UUID) (domain.Score, error) {
	rec, err := s.repo.GetRecordForLead(ctx, leadID)
	if err != nil {
		return domain.Score{}, err
	}

	medians, err := s.snapshotMedians(ctx)
	if err != nil {
		return domain.Score{}, err
	}

	score := Compute(rec, medians, time.Now().UTC())
	if err := s.persistScore(ctx, leadID, score); err != nil {
		return domain.Score{}, err
	}
	return score, nil
}

// ScoreAll re-scores the whole book in one sequential pass against a single
// median snapshot. When minScore is set, Qualified counts leads at or above
// it; otherwise the reject threshold is used.
func (s *Service) ScoreAll(ctx context.Context, minScore *int) (Summary, error) {
	start := time.Now()

	// The median snapshot and the lead list are independent reads; fetch
	// them concurrently. Both are pinned before the sequential pass starts.
	var (
		medians *ParishMedianCache
		items   []repository.LeadWithRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		medians, err = s.snapshotMedians(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.ListLeadsForScoring(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	qualifyAt := s.thresholds.GetRejectThreshold()
	if minScore != nil {
		qualifyAt = *minScore
	}

	var summary Summary
	scoreSum := 0
	now := time.Now().UTC()

	for _, item := range items {
		score := Compute(item.Record, medians, now)

		err := s.applyScore(ctx, item.Lead, score)
		if errors.Is(err, repository.ErrStaleVersion) {
			// A pipeline event landed between the list read and this write;
			// re-read the lead for a fresh version and retry.
			err = s.persistScore(ctx, item.Lead.ID, score)
		}
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				// Soft-deleted mid-pass; skip rather than abort the batch.
				continue
			case errors.Is(err, repository.ErrStaleVersion):
				// Lost every retry to concurrent writes. Leave the lead for
				// the next run rather than abort the rest of the book.
				if s.log != nil {
					s.log.Warn("scoring write kept losing version races", "leadId", item.Lead.ID)
				}
				continue
			default:
				return Summary{}, err
			}
		}

		summary.TotalProcessed++
		scoreSum += score.MotivationScore

		switch {
		case score.Disqualified:
			summary.Disqualified++
		case score.MotivationScore >= s.thresholds.GetHotThreshold():
			summary.HotLeads++
		case score.MotivationScore >= s.thresholds.GetContactThreshold():
			summary.ContactReady++
		}
		if !score.Disqualified && score.MotivationScore >= qualifyAt {
			summary.Qualified++
		}
	}

	if summary.TotalProcessed > 0 {
		summary.AverageScore = float64(scoreSum) / float64(summary.TotalProcessed)
	}
	summary.Duration = time.Since(start)

	if s.log != nil {
		s.log.ScoringRun(summary.TotalProcessed, summary.Disqualified, summary.HotLeads,
			float64(summary.Duration.Milliseconds()))
	}

	return summary, nil
}

func (s *Service) snapshotMedians(ctx context.Context) (*ParishMedianCache, error) {
	medians, err := s.repo.MedianValuePerAcreByParish(ctx)
	if err != nil {
		return nil, err
	}
	return NewParishMedianCache(medians), nil
}

// persistScore writes a freshly-read lead's score, retrying version races.
func (s *Service) persistScore(ctx context.Context, leadID uuid.UUID, score domain.Score) error {
	for attempt := 0; attempt < staleRetries; attempt++ {
		lead, err := s.repo.GetLeadByID(ctx, leadID)
		if err != nil {
			return err
		}
		err = s.applyScore(ctx, lead, score)
		if !errors.Is(err, repository.ErrStaleVersion) {
			return err
		}
	}
	return repository.ErrStaleVersion
}

// applyScore persists the score against the version the lead was read at.
// The stage derivation honors manual-stage precedence: human progress is
// never regressed by automation.
func (s *Service) applyScore(ctx context.Context, lead repository.Lead, score domain.Score) error {
	details, err := json.Marshal(score)
	if err != nil {
		return err
	}

	newStage := domain.NextStageAfterScoring(
		lead.PipelineStage, score,
		s.thresholds.GetContactThreshold(), s.thresholds.GetHotThreshold(),
	)

	if err := s.repo.UpdateLeadScore(ctx, lead.ID, score.MotivationScore, details, newStage, lead.Version); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadScored{
			BaseEvent:       events.NewBaseEvent(),
			LeadID:          lead.ID,
			MotivationScore: score.MotivationScore,
			Disqualified:    score.Disqualified,
		})
		if newStage != lead.PipelineStage {
			s.bus.Publish(ctx, events.PipelineStageChanged{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    lead.ID,
				OldStage:  lead.PipelineStage,
				NewStage:  newStage,
				Trigger:   "scoring",
			})
		}
	}

	if s.log != nil && score.Disqualified {
		s.log.Debug("lead disqualified", "leadId", lead.ID, "reason", *score.DisqualifiedReason)
	}

	return nil
}
