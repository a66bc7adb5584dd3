package scoring

import (
	"testing"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
)

func qualifyingRecord() domain.ParcelOwnerRecord {
	return domain.ParcelOwnerRecord{
		Parcel: domain.Parcel{
			Parish:            "Tangipahoa",
			State:             "LA",
			LotSizeAcres:      fptr(2.0),
			LandAssessedValue: fptr(8000),
		},
		Owner: domain.Owner{
			PhonePrimary: sptr("+12255550147"),
			IsTCPASafe:   true,
		},
		Party: domain.Party{PartyType: "individual"},
	}
}

func TestDisqualify_ReasonPriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ParcelOwnerRecord)
		reason string
	}{
		{
			"tcpa unsafe phone wins even over opt out",
			func(r *domain.ParcelOwnerRecord) {
				r.Owner.IsTCPASafe = false
				r.Owner.OptOut = true
			},
			domain.ReasonTCPAUnsafe,
		},
		{
			"opt out",
			func(r *domain.ParcelOwnerRecord) { r.Owner.OptOut = true },
			domain.ReasonOptedOut,
		},
		{
			"do not contact flag",
			func(r *domain.ParcelOwnerRecord) { r.Owner.IsDNR = true },
			domain.ReasonDNR,
		},
		{
			"no phone on record",
			func(r *domain.ParcelOwnerRecord) { r.Owner.PhonePrimary = nil },
			domain.ReasonNoPhone,
		},
		{
			"blank phone counts as no phone",
			func(r *domain.ParcelOwnerRecord) { r.Owner.PhonePrimary = sptr("   ") },
			domain.ReasonNoPhone,
		},
		{
			"improvement dominates land value",
			func(r *domain.ParcelOwnerRecord) {
				r.Parcel.ImprovementAssessedValue = fptr(50000)
				r.Parcel.LandAssessedValue = fptr(10000)
			},
			domain.ReasonNotVacantLand,
		},
		{
			"government owner",
			func(r *domain.ParcelOwnerRecord) { r.Party.PartyType = "Parish" },
			domain.ReasonGovernmentOwner,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := qualifyingRecord()
			tt.mutate(&rec)
			disqualified, reason := Disqualify(rec)
			if !disqualified {
				t.Fatal("expected record to be disqualified")
			}
			if reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, reason)
			}
		})
	}
}

func TestDisqualify_MissingImprovementValueIsNotImproved(t *testing.T) {
	rec := qualifyingRecord()
	rec.Parcel.ImprovementAssessedValue = nil
	if disqualified, reason := Disqualify(rec); disqualified {
		t.Fatalf("unenriched parcel should not be disqualified, got %q", reason)
	}

	rec.Parcel.ImprovementAssessedValue = fptr(50000)
	rec.Parcel.LandAssessedValue = nil
	if disqualified, reason := Disqualify(rec); disqualified {
		t.Fatalf("missing land value should not read as improved, got %q", reason)
	}
}

func TestDisqualify_TCPAUnsafeOnlyAppliesWithAPhone(t *testing.T) {
	rec := qualifyingRecord()
	rec.Owner.PhonePrimary = nil
	rec.Owner.IsTCPASafe = false
	disqualified, reason := Disqualify(rec)
	if !disqualified {
		t.Fatal("expected record to be disqualified")
	}
	if reason != domain.ReasonNoPhone {
		t.Fatalf("expected no_phone for a phoneless owner, got %q", reason)
	}
}

func TestDisqualify_CleanRecordPasses(t *testing.T) {
	if disqualified, reason := Disqualify(qualifyingRecord()); disqualified {
		t.Fatalf("qualifying record was disqualified with reason %q", reason)
	}
}
