package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QueueLead is one caller-sheet row: everything a caller needs on screen.
type QueueLead struct {
	LeadID          uuid.UUID       `json:"lead_id"`
	ParcelNumber    string          `json:"parcel_number"`
	Parish          string          `json:"parish"`
	MotivationScore int             `json:"motivation_score"`
	PipelineStage   string          `json:"pipeline_stage"`
	Status          string          `json:"status"`
	PhonePrimary    string          `json:"phone_primary"`
	LotSizeAcres    *float64        `json:"lot_size_acres,omitempty"`
	ScoreDetails    json.RawMessage `json:"score_details,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ListCallerQueue returns the fully-eligible leads for an active market,
// HOT tier before CONTACT tier, descending score within each tier, insertion
// order as the stable tie-break. Also returns the total eligible count
// ignoring the limit.
func (r *Repository) ListCallerQueue(ctx context.Context, market string, contactThreshold, hotThreshold, limit int) ([]QueueLead, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, p.parcel_number, p.parish, l.motivation_score, l.pipeline_stage, l.status,
			o.phone_primary, p.lot_size_acres, l.score_details, l.created_at,
			count(*) OVER () AS total_eligible
		FROM leads l
		JOIN parcels p ON p.id = l.parcel_id
		JOIN owners o ON o.parcel_id = p.id
		WHERE l.deleted_at IS NULL
			AND lower(p.parish) = lower($1)
			AND l.motivation_score >= $2
			AND o.phone_primary IS NOT NULL
			AND o.is_tcpa_safe = true
			AND o.opt_out = false
		ORDER BY (l.motivation_score >= $3) DESC, l.motivation_score DESC, l.created_at ASC, l.id ASC
		LIMIT $4
	`, market, contactThreshold, hotThreshold, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]QueueLead, 0)
	total := 0
	for rows.Next() {
		var lead QueueLead
		if err := rows.Scan(
			&lead.LeadID, &lead.ParcelNumber, &lead.Parish, &lead.MotivationScore, &lead.PipelineStage,
			&lead.Status, &lead.PhonePrimary, &lead.LotSizeAcres, &lead.ScoreDetails, &lead.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// DiagnosticCounts holds lead counts at each step of the eligibility funnel,
// all under the same market scope. Each count adds exactly one filter on top
// of the previous one, so the first zero names the blocking condition.
type DiagnosticCounts struct {
	TotalLeads     int // any live lead in the market
	ScoredLeads    int // + scored at all (score > 0 or a score on record)
	AboveThreshold int // + motivation_score >= contact threshold
	WithPhone      int // + owner has a phone number
	TCPASafe       int // + owner is TCPA-safe
	NotOptedOut    int // + owner has not opted out
}

// QueueDiagnostics computes the eligibility funnel for an empty caller queue.
func (r *Repository) QueueDiagnostics(ctx context.Context, market string, contactThreshold int) (DiagnosticCounts, error) {
	var counts DiagnosticCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE l.score_details IS NOT NULL),
			count(*) FILTER (WHERE l.score_details IS NOT NULL
				AND l.motivation_score >= $2),
			count(*) FILTER (WHERE l.score_details IS NOT NULL
				AND l.motivation_score >= $2
				AND o.phone_primary IS NOT NULL),
			count(*) FILTER (WHERE l.score_details IS NOT NULL
				AND l.motivation_score >= $2
				AND o.phone_primary IS NOT NULL
				AND o.is_tcpa_safe = true),
			count(*) FILTER (WHERE l.score_details IS NOT NULL
				AND l.motivation_score >= $2
				AND o.phone_primary IS NOT NULL
				AND o.is_tcpa_safe = true
				AND o.opt_out = false)
		FROM leads l
		JOIN parcels p ON p.id = l.parcel_id
		JOIN owners o ON o.parcel_id = p.id
		WHERE l.deleted_at IS NULL AND lower(p.parish) = lower($1)
	`, market, contactThreshold).Scan(
		&counts.TotalLeads, &counts.ScoredLeads, &counts.AboveThreshold,
		&counts.WithPhone, &counts.TCPASafe, &counts.NotOptedOut,
	)
	if err != nil {
		return DiagnosticCounts{}, err
	}
	return counts, nil
}
