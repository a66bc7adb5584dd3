package scoring

import (
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
)

// Compute evaluates one record against the disqualifier gate and all six
// component scorers, producing the full auditable breakdown. It is a pure
// function: same record, same median snapshot, same clock reading, same
// Score.
//
// Disqualified records report score 0 with the factor list still present and
// zeroed, so consumers always see the same breakdown shape.
func Compute(rec domain.ParcelOwnerRecord, medians *ParishMedianCache, now time.Time) domain.Score {
	if disqualified, reason := Disqualify(rec); disqualified {
		return domain.DisqualifiedScore(reason)
	}

	points := map[string]int{
		domain.FactorOwnershipDuration: scoreOwnershipDuration(rec.Parcel, now),
		domain.FactorAbsentee:          scoreAbsentee(rec),
		domain.FactorTaxDistress:       scoreTaxDistress(rec.Parcel),
		domain.FactorLiquidity:         scoreLiquidity(rec.Parcel),
		domain.FactorUndervaluation:    scoreUndervaluation(rec.Parcel, medians),
		domain.FactorCleanExit:         scoreCleanExit(rec.Parcel, now),
	}

	factors := make([]domain.Factor, 0, len(domain.FactorOrder))
	total := 0
	for _, name := range domain.FactorOrder {
		factors = append(factors, domain.Factor{
			Name:      name,
			Label:     domain.FactorLabels[name],
			Points:    points[name],
			MaxPoints: domain.FactorMaxPoints[name],
		})
		total += points[name]
	}

	return domain.Score{
		MotivationScore: clampScore(total),
		Factors:         factors,
	}
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
