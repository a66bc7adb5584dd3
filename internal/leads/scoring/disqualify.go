package scoring

import (
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
)

// Disqualify runs the hard gate ahead of the component scorers. The checks
// run in priority order; the first match wins and names the reason.
//
// A missing land or improvement value must NOT read as "improved": parcels
// awaiting enrichment fall through and simply score low, instead of being
// branded not_vacant_land.
func Disqualify(rec domain.ParcelOwnerRecord) (bool, string) {
	// Contactability first: a phone we may not legally dial, an opt-out, or
	// a do-not-contact flag ends the evaluation regardless of the parcel.
	if rec.Owner.HasPhone() && !rec.Owner.IsTCPASafe {
		return true, domain.ReasonTCPAUnsafe
	}
	if rec.Owner.OptOut {
		return true, domain.ReasonOptedOut
	}
	if rec.Owner.IsDNR {
		return true, domain.ReasonDNR
	}
	if !rec.Owner.HasPhone() {
		return true, domain.ReasonNoPhone
	}

	// Land-only system: improved property is out of scope. Only disqualify
	// when both values are present and the improvement dominates.
	if rec.Parcel.ImprovementAssessedValue != nil && rec.Parcel.LandAssessedValue != nil &&
		*rec.Parcel.ImprovementAssessedValue > *rec.Parcel.LandAssessedValue {
		return true, domain.ReasonNotVacantLand
	}

	if domain.IsInstitutionalParty(rec.Party.PartyType) {
		return true, domain.ReasonGovernmentOwner
	}

	return false, ""
}
