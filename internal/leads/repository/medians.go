package repository

import (
	"context"
	"strings"
)

// MedianValuePerAcreByParish computes, per parish, the median assessed land
// value per acre across all enriched parcels. One call per batch run; the
// result is snapshotted by the caller and never refreshed mid-pass.
func (r *Repository) MedianValuePerAcreByParish(ctx context.Context) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lower(parish),
			percentile_cont(0.5) WITHIN GROUP (ORDER BY land_assessed_value / lot_size_acres)
		FROM parcels
		WHERE land_assessed_value IS NOT NULL
			AND lot_size_acres IS NOT NULL
			AND lot_size_acres > 0
		GROUP BY lower(parish)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	medians := make(map[string]float64)
	for rows.Next() {
		var parish string
		var median *float64
		if err := rows.Scan(&parish, &median); err != nil {
			return nil, err
		}
		if median == nil {
			continue
		}
		medians[strings.ToLower(parish)] = *median
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return medians, nil
}
