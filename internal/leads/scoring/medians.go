// Package scoring implements the deterministic motivation scoring engine:
// hard disqualifiers, six additive component scorers, and the batch pass
// that re-scores the whole book against a per-run parish median snapshot.
package scoring

import "strings"

// ParishMedianCache is an immutable per-run snapshot of median assessed land
// value per acre by parish. Concurrent batch runs each build their own
// snapshot; a snapshot is never mutated after construction, so reads need no
// locking.
type ParishMedianCache struct {
	medians map[string]float64
}

// NewParishMedianCache builds a snapshot from a parish → median map.
// Keys are lowercased; lookups are case-insensitive.
func NewParishMedianCache(medians map[string]float64) *ParishMedianCache {
	normalized := make(map[string]float64, len(medians))
	for parish, median := range medians {
		normalized[strings.ToLower(strings.TrimSpace(parish))] = median
	}
	return &ParishMedianCache{medians: normalized}
}

// EmptyParishMedianCache returns a snapshot with no comps. Every lookup
// misses; undervaluation scores 0 rather than erroring.
func EmptyParishMedianCache() *ParishMedianCache {
	return &ParishMedianCache{medians: map[string]float64{}}
}

// Get returns the median value per acre for a parish, if any enriched comps
// exist there.
func (c *ParishMedianCache) Get(parish string) (float64, bool) {
	median, ok := c.medians[strings.ToLower(strings.TrimSpace(parish))]
	return median, ok
}

// Len reports how many parishes have comps in this snapshot.
func (c *ParishMedianCache) Len() int {
	return len(c.medians)
}
