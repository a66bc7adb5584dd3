package scheduler

import (
	"context"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/config"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/logger"
)

// rescoreHourUTC is when the nightly full re-score fires. 02:00 UTC is
// evening Central time, after calling hours in the active markets.
const rescoreHourUTC = 2

// NightlyRescore enqueues the full-book re-score task once a day, so scores
// track tax-roll changes and pipeline activity without operator action.
type NightlyRescore struct {
	client *Client
	log    *logger.Logger
}

func NewNightlyRescore(cfg config.SchedulerConfig, log *logger.Logger) (*NightlyRescore, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &NightlyRescore{client: client, log: log}, nil
}

func (n *NightlyRescore) Close() error {
	if n == nil {
		return nil
	}
	return n.client.Close()
}

func (n *NightlyRescore) Run(ctx context.Context) {
	if n == nil || n.client == nil {
		return
	}

	for {
		next := nextRescoreAfter(time.Now().UTC())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		err := n.client.EnqueueRescore(ctx, nil)
		if n.log != nil {
			if err != nil {
				n.log.Warn("nightly rescore enqueue failed", "error", err)
			} else {
				n.log.Info("nightly rescore enqueued", "firedAt", next)
			}
		}
	}
}

// nextRescoreAfter returns the next daily firing time strictly after now, so
// a run fired exactly on the hour waits a full day for the next one.
func nextRescoreAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), rescoreHourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
