// Package domain holds the lead-engine domain model: the parcel/owner record
// view consumed by scoring, the score breakdown, and the pipeline state
// machine. Everything here is pure data and pure functions.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Parcel is the property side of a scoring record.
type Parcel struct {
	ID                       uuid.UUID
	ParcelNumber             string
	Parish                   string
	State                    string
	LotSizeAcres             *float64
	LandAssessedValue        *float64
	ImprovementAssessedValue *float64
	IsAdjudicated            bool
	YearsTaxDelinquent       int
	LastSaleDate             *time.Time
}

// Owner holds contactability flags for the current owner of record.
type Owner struct {
	PhonePrimary *string
	IsTCPASafe   bool
	IsDNR        bool
	OptOut       bool
}

// Party describes the owning party and its mailing address, normalized
// upstream by the address-enrichment pipeline.
type Party struct {
	PartyType         string
	RawMailingAddress *string
	MailingState      *string
	MailingParish     *string
}

// ParcelOwnerRecord is the immutable-per-evaluation view a scoring pass
// operates on. It is assembled by the repository and never mutated by scoring.
type ParcelOwnerRecord struct {
	Parcel Parcel
	Owner  Owner
	Party  Party
}

// IsTaxDistressed reports whether the parcel is tax-distressed by definition:
// adjudicated to the parish, or carrying any delinquency.
func (p Parcel) IsTaxDistressed() bool {
	return p.IsAdjudicated || p.YearsTaxDelinquent > 0
}

// IsVacantLand reports whether the parcel carries no improvement value.
// A NULL improvement value counts as vacant: absence of enrichment data must
// not look like an improved property.
func (p Parcel) IsVacantLand() bool {
	return p.ImprovementAssessedValue == nil || *p.ImprovementAssessedValue == 0
}

// ValuePerAcre returns the assessed land value per acre, when both inputs
// are present and the acreage is positive.
func (p Parcel) ValuePerAcre() (float64, bool) {
	if p.LandAssessedValue == nil || p.LotSizeAcres == nil || *p.LotSizeAcres <= 0 {
		return 0, false
	}
	return *p.LandAssessedValue / *p.LotSizeAcres, true
}

// YearsSinceLastSale returns full years elapsed since the last recorded sale,
// relative to now. Returns false when no sale date is on record.
func (p Parcel) YearsSinceLastSale(now time.Time) (int, bool) {
	if p.LastSaleDate == nil || p.LastSaleDate.After(now) {
		return 0, false
	}
	years := int(now.Sub(*p.LastSaleDate).Hours() / (24 * 365.25))
	return years, true
}

// HasPhone reports whether the owner has any phone number on record.
func (o Owner) HasPhone() bool {
	return o.PhonePrimary != nil && strings.TrimSpace(*o.PhonePrimary) != ""
}

// institutionalPartyTypes are owner categories that are never wholesaling
// prospects: public bodies and utilities do not sell to cold outreach.
var institutionalPartyTypes = map[string]struct{}{
	"government":     {},
	"municipality":   {},
	"parish":         {},
	"state_agency":   {},
	"federal_agency": {},
	"school_board":   {},
	"levee_district": {},
	"utility":        {},
}

// IsInstitutionalParty reports whether the party type belongs to the
// government/municipal/utility set.
func IsInstitutionalParty(partyType string) bool {
	_, ok := institutionalPartyTypes[strings.ToLower(strings.TrimSpace(partyType))]
	return ok
}

// AbsenteeKind classifies how far the owner's mailing address is from the
// parcel itself.
type AbsenteeKind int

const (
	// AbsenteeUnknown means the mailing address was never normalized.
	AbsenteeUnknown AbsenteeKind = iota
	// AbsenteeNone means owner mails in the parcel's own parish.
	AbsenteeNone
	// AbsenteeInState means same state, different parish.
	AbsenteeInState
	// AbsenteeOutOfState means the owner mails from another state entirely.
	AbsenteeOutOfState
)

// Absentee classifies the record's owner against the parcel location.
// Parish and state comparisons are case-insensitive.
func (r ParcelOwnerRecord) Absentee() AbsenteeKind {
	if r.Party.MailingState == nil {
		return AbsenteeUnknown
	}
	if !strings.EqualFold(*r.Party.MailingState, r.Parcel.State) {
		return AbsenteeOutOfState
	}
	if r.Party.MailingParish == nil {
		return AbsenteeUnknown
	}
	if !strings.EqualFold(*r.Party.MailingParish, r.Parcel.Parish) {
		return AbsenteeInState
	}
	return AbsenteeNone
}
