package domain

// Disqualification reasons, checked in priority order by the scoring engine.
// The first matching reason wins.
const (
	ReasonTCPAUnsafe      = "tcpa_unsafe"
	ReasonOptedOut        = "opted_out"
	ReasonDNR             = "dnr"
	ReasonNoPhone         = "no_phone"
	ReasonNotVacantLand   = "not_vacant_land"
	ReasonGovernmentOwner = "government_owner"
)

// Factor names. Fixed set: consumers can switch exhaustively over these
// instead of probing a loosely-typed map.
const (
	FactorOwnershipDuration = "ownership_duration"
	FactorAbsentee          = "absentee"
	FactorTaxDistress       = "tax_distress"
	FactorLiquidity         = "liquidity"
	FactorUndervaluation    = "undervaluation"
	FactorCleanExit         = "clean_exit"
)

// FactorOrder is the canonical breakdown order. Score.Factors always contains
// exactly these entries in this order, even when every entry is zero.
var FactorOrder = []string{
	FactorOwnershipDuration,
	FactorAbsentee,
	FactorTaxDistress,
	FactorLiquidity,
	FactorUndervaluation,
	FactorCleanExit,
}

// FactorMaxPoints caps each component's contribution.
var FactorMaxPoints = map[string]int{
	FactorOwnershipDuration: 20,
	FactorAbsentee:          15,
	FactorTaxDistress:       20,
	FactorLiquidity:         15,
	FactorUndervaluation:    15,
	FactorCleanExit:         15,
}

// FactorLabels are the display labels surfaced on caller sheets and lead detail.
var FactorLabels = map[string]string{
	FactorOwnershipDuration: "Ownership Duration",
	FactorAbsentee:          "Absentee Owner",
	FactorTaxDistress:       "Tax Distress",
	FactorLiquidity:         "Parcel Liquidity",
	FactorUndervaluation:    "Undervaluation",
	FactorCleanExit:         "Clean Exit Signals",
}

// Factor is one scored component of the motivation breakdown.
type Factor struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"max_points"`
}

// Score is the immutable output of one scoring computation. It is always
// fully replaced, never incrementally adjusted.
type Score struct {
	MotivationScore    int      `json:"motivation_score"`
	Disqualified       bool     `json:"disqualified"`
	DisqualifiedReason *string  `json:"disqualified_reason,omitempty"`
	Factors            []Factor `json:"factors"`
}

// ZeroFactors returns the exhaustive factor list with all points at zero,
// used for disqualified leads so the breakdown shape stays uniform.
func ZeroFactors() []Factor {
	factors := make([]Factor, 0, len(FactorOrder))
	for _, name := range FactorOrder {
		factors = append(factors, Factor{
			Name:      name,
			Label:     FactorLabels[name],
			MaxPoints: FactorMaxPoints[name],
		})
	}
	return factors
}

// DisqualifiedScore builds the Score for a hard-disqualified record.
func DisqualifiedScore(reason string) Score {
	r := reason
	return Score{
		MotivationScore:    0,
		Disqualified:       true,
		DisqualifiedReason: &r,
		Factors:            ZeroFactors(),
	}
}
