package scoring

import (
	"math"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
)

// Component point constants. Each scorer is a pure function of the record
// (plus, for undervaluation, the parish median snapshot) and is individually
// capped; the aggregate clamps to 0-100 after summation.
const (
	maxOwnershipDurationPoints = 20
	maxAbsenteePoints          = 15
	maxTaxDistressPoints       = 20
	maxLiquidityPoints         = 15
	maxUndervaluationPoints    = 15
	maxCleanExitPoints         = 15

	// Liquidity sweet spot: parcels in this acreage band move fastest with
	// retail land buyers.
	liquidityBandLow  = 0.25
	liquidityBandHigh = 5.0

	// Tax distress sub-bonuses.
	adjudicationBonus   = 10
	delinquencyPerYear  = 3
	delinquencyYearsCap = 5

	// Absentee partial credit for in-state, out-of-parish owners.
	absenteeInStatePoints = 8
)

// scoreOwnershipDuration rewards long unchanged ownership. Owners who bought
// decades ago hold at a low basis and accept deeper discounts.
// A missing last sale date is unknown tenure, scored conservatively as 0.
func scoreOwnershipDuration(p domain.Parcel, now time.Time) int {
	years, ok := p.YearsSinceLastSale(now)
	if !ok {
		return 0
	}
	switch {
	case years >= 15:
		return 20
	case years >= 10:
		return 15
	case years >= 5:
		return 10
	case years >= 2:
		return 5
	default:
		return 0
	}
}

// scoreAbsentee rewards distance between the owner's mailbox and the parcel.
// Out-of-state owners rarely visit, rarely maintain, and sell readily.
func scoreAbsentee(rec domain.ParcelOwnerRecord) int {
	switch rec.Absentee() {
	case domain.AbsenteeOutOfState:
		return maxAbsenteePoints
	case domain.AbsenteeInState:
		return absenteeInStatePoints
	default:
		return 0
	}
}

// scoreTaxDistress combines the adjudication flag with per-year delinquency.
// The two sub-bonuses are additive up to the component ceiling.
func scoreTaxDistress(p domain.Parcel) int {
	points := 0
	if p.IsAdjudicated {
		points += adjudicationBonus
	}

	years := p.YearsTaxDelinquent
	if years > delinquencyYearsCap {
		years = delinquencyYearsCap
	}
	if years > 0 {
		points += years * delinquencyPerYear
	}

	if points > maxTaxDistressPoints {
		return maxTaxDistressPoints
	}
	return points
}

// scoreLiquidity gives full points inside the sweet-spot band and a smooth
// falloff outside it: undersized lots scale by size/bandLow, oversized by
// bandHigh/size. No cliff at the band edges.
func scoreLiquidity(p domain.Parcel) int {
	if p.LotSizeAcres == nil || *p.LotSizeAcres <= 0 {
		return 0
	}
	size := *p.LotSizeAcres

	ratio := 1.0
	switch {
	case size < liquidityBandLow:
		ratio = size / liquidityBandLow
	case size > liquidityBandHigh:
		ratio = liquidityBandHigh / size
	}

	return int(math.Round(float64(maxLiquidityPoints) * ratio))
}

// scoreUndervaluation compares the parcel's assessed value per acre against
// the parish median snapshot. Points scale with the discount below median;
// a missing median (no enriched comps in the parish) scores 0, not an error.
func scoreUndervaluation(p domain.Parcel, medians *ParishMedianCache) int {
	vpa, ok := p.ValuePerAcre()
	if !ok {
		return 0
	}

	median, ok := medians.Get(p.Parish)
	if !ok || median <= 0 || vpa >= median {
		return 0
	}

	discount := (median - vpa) / median
	points := int(math.Round(discount * 2 * float64(maxUndervaluationPoints)))
	if points > maxUndervaluationPoints {
		return maxUndervaluationPoints
	}
	return points
}

// scoreCleanExit aggregates forced-sale urgency signals already present on
// the record: deep adjudicated delinquency, confirmed vacancy, and stale
// vacant holdings. Sub-signals sum to exactly the component ceiling.
func scoreCleanExit(p domain.Parcel, now time.Time) int {
	points := 0

	if p.IsAdjudicated && p.YearsTaxDelinquent >= 3 {
		points += 8
	}

	vacant := p.IsVacantLand() && p.LandAssessedValue != nil
	if vacant {
		points += 4
		if years, ok := p.YearsSinceLastSale(now); ok && years >= 10 {
			points += 3
		}
	}

	if points > maxCleanExitPoints {
		return maxCleanExitPoints
	}
	return points
}
