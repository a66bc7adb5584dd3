// Package queue builds deterministic caller sheets: the prioritized list of
// fully-eligible leads a caller works top to bottom, with a diagnostic
// fallback naming exactly why a sheet came back empty.
package queue

import (
	"context"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/apperr"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"
)

// Empty-queue diagnostic reasons, in funnel order. Each reason means every
// earlier condition held and this one is the first that failed.
const (
	ReasonNoLeadsInMarket       = "no_leads_in_market"
	ReasonNoScoredLeads         = "no_scored_leads"
	ReasonNoneMeetThreshold     = "none_meet_score_threshold"
	ReasonNoQualifyingWithPhone = "no_qualifying_leads_with_phone"
	ReasonNoTCPASafeLeads       = "no_tcpa_safe_leads"
	ReasonAllOptedOut           = "all_qualifying_leads_opted_out"
	ReasonUnknown               = "unknown"
)

// DefaultSheetSize is the batch a single caller works in one session.
const DefaultSheetSize = 25

// CallerSheet is the generated calling queue for one market. HotCount and
// ContactCount describe the sheet handed to the caller, so with a limit they
// tally the returned page; TotalEligible always counts the whole market.
type CallerSheet struct {
	Market            string                 `json:"market"`
	Leads             []repository.QueueLead `json:"leads"`
	TotalEligible     int                    `json:"total_eligible"`
	HotCount          int                    `json:"hot_count"`
	ContactCount      int                    `json:"contact_count"`
	UnavailableReason string                 `json:"unavailable_reason,omitempty"`
}

// Service generates caller sheets.
type Service struct {
	repo       repository.QueueStore
	bus        events.Bus
	thresholds config.ThresholdConfig
	log        *logger.Logger
}

// New creates a new queue service.
func New(repo repository.QueueStore, bus events.Bus, thresholds config.ThresholdConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, thresholds: thresholds, log: log}
}

// Generate builds the caller sheet for an active market. An empty result is
// not an error: the sheet comes back with zero leads and an UnavailableReason
// naming the first funnel condition that filtered everything out.
func (s *Service) Generate(ctx context.Context, activeMarket string, limit int) (CallerSheet, error) {
	if activeMarket == "" {
		return CallerSheet{}, apperr.Validation("active market is required")
	}
	if limit <= 0 {
		limit = DefaultSheetSize
	}

	contact := s.thresholds.GetContactThreshold()
	hot := s.thresholds.GetHotThreshold()

	leads, total, err := s.repo.ListCallerQueue(ctx, activeMarket, contact, hot, limit)
	if err != nil {
		return CallerSheet{}, err
	}

	sheet := CallerSheet{
		Market:        activeMarket,
		Leads:         leads,
		TotalEligible: total,
	}
	for _, lead := range leads {
		if lead.MotivationScore >= hot {
			sheet.HotCount++
		} else {
			sheet.ContactCount++
		}
	}

	if len(leads) == 0 {
		reason, derr := s.diagnose(ctx, activeMarket, contact)
		if derr != nil {
			return CallerSheet{}, derr
		}
		sheet.UnavailableReason = reason
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.CallerSheetGenerated{
			BaseEvent:         events.NewBaseEvent(),
			Market:            activeMarket,
			LeadCount:         len(sheet.Leads),
			UnavailableReason: sheet.UnavailableReason,
		})
	}
	if s.log != nil {
		s.log.Info("caller sheet generated",
			"market", activeMarket, "leads", len(sheet.Leads),
			"totalEligible", total, "unavailableReason", sheet.UnavailableReason)
	}

	return sheet, nil
}

// diagnose walks the eligibility funnel and names the first stage that
// dropped to zero.
func (s *Service) diagnose(ctx context.Context, market string, contactThreshold int) (string, error) {
	counts, err := s.repo.QueueDiagnostics(ctx, market, contactThreshold)
	if err != nil {
		return "", err
	}

	switch {
	case counts.TotalLeads == 0:
		return ReasonNoLeadsInMarket, nil
	case counts.ScoredLeads == 0:
		return ReasonNoScoredLeads, nil
	case counts.AboveThreshold == 0:
		return ReasonNoneMeetThreshold, nil
	case counts.WithPhone == 0:
		return ReasonNoQualifyingWithPhone, nil
	case counts.TCPASafe == 0:
		return ReasonNoTCPASafeLeads, nil
	case counts.NotOptedOut == 0:
		return ReasonAllOptedOut, nil
	default:
		// The funnel says eligible leads exist but the queue read saw none.
		// A write landed between the two queries; report it honestly.
		return ReasonUnknown, nil
	}
}
