package repository

import (
	"context"
	"time"
)

// ClaimDueFollowups atomically takes due follow-ups off the schedule and
// returns them, oldest first. SKIP LOCKED lets concurrent sweepers split the
// batch instead of double-firing reminders.
func (r *Repository) ClaimDueFollowups(ctx context.Context, due time.Time, limit int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE leads SET next_followup_at = NULL, updated_at = now()
		WHERE id IN (
			SELECT l.id
			FROM leads l
			WHERE l.deleted_at IS NULL
				AND l.next_followup_at IS NOT NULL
				AND l.next_followup_at <= $1
			ORDER BY l.next_followup_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`, due, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claimed := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(&lead.ID); err != nil {
			return nil, err
		}
		claimed = append(claimed, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return claimed, nil
}
