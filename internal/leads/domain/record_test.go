package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64  { return &f }

func TestIsVacantLand(t *testing.T) {
	cases := []struct {
		name        string
		improvement *float64
		want        bool
	}{
		{"nil improvement is vacant", nil, true},
		{"zero improvement is vacant", floatPtr(0), true},
		{"improved parcel", floatPtr(45000), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parcel{ImprovementAssessedValue: tc.improvement}
			if got := p.IsVacantLand(); got != tc.want {
				t.Fatalf("IsVacantLand() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsTaxDistressed(t *testing.T) {
	if (Parcel{}).IsTaxDistressed() {
		t.Fatal("clean parcel reported distressed")
	}
	if !(Parcel{IsAdjudicated: true}).IsTaxDistressed() {
		t.Fatal("adjudicated parcel not reported distressed")
	}
	if !(Parcel{YearsTaxDelinquent: 1}).IsTaxDistressed() {
		t.Fatal("delinquent parcel not reported distressed")
	}
}

func TestValuePerAcre(t *testing.T) {
	p := Parcel{LandAssessedValue: floatPtr(10000), LotSizeAcres: floatPtr(4)}
	vpa, ok := p.ValuePerAcre()
	if !ok || vpa != 2500 {
		t.Fatalf("ValuePerAcre() = %v, %v; want 2500, true", vpa, ok)
	}

	if _, ok := (Parcel{LandAssessedValue: floatPtr(10000)}).ValuePerAcre(); ok {
		t.Fatal("missing acreage must not produce a value per acre")
	}
	if _, ok := (Parcel{LandAssessedValue: floatPtr(10000), LotSizeAcres: floatPtr(0)}).ValuePerAcre(); ok {
		t.Fatal("zero acreage must not produce a value per acre")
	}
}

func TestYearsSinceLastSale(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sold := time.Date(2014, 3, 10, 0, 0, 0, 0, time.UTC)
	years, ok := (Parcel{LastSaleDate: &sold}).YearsSinceLastSale(now)
	if !ok || years != 12 {
		t.Fatalf("YearsSinceLastSale() = %d, %v; want 12, true", years, ok)
	}

	if _, ok := (Parcel{}).YearsSinceLastSale(now); ok {
		t.Fatal("missing sale date must report unknown")
	}

	future := now.Add(24 * time.Hour)
	if _, ok := (Parcel{LastSaleDate: &future}).YearsSinceLastSale(now); ok {
		t.Fatal("future sale date must report unknown")
	}
}

func TestAbsenteeClassification(t *testing.T) {
	parcel := Parcel{Parish: "Tangipahoa", State: "LA"}

	cases := []struct {
		name   string
		party  Party
		want   AbsenteeKind
	}{
		{"no mailing state", Party{}, AbsenteeUnknown},
		{"out of state", Party{MailingState: strPtr("TX"), MailingParish: strPtr("Harris")}, AbsenteeOutOfState},
		{"in state other parish", Party{MailingState: strPtr("LA"), MailingParish: strPtr("Orleans")}, AbsenteeInState},
		{"same parish", Party{MailingState: strPtr("LA"), MailingParish: strPtr("Tangipahoa")}, AbsenteeNone},
		{"case insensitive parish", Party{MailingState: strPtr("la"), MailingParish: strPtr("TANGIPAHOA")}, AbsenteeNone},
		{"state known parish unknown", Party{MailingState: strPtr("LA")}, AbsenteeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ParcelOwnerRecord{Parcel: parcel, Party: tc.party}
			if got := rec.Absentee(); got != tc.want {
				t.Fatalf("Absentee() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsInstitutionalParty(t *testing.T) {
	for _, typ := range []string{"government", "Municipality", "UTILITY", "school_board", "levee_district"} {
		if !IsInstitutionalParty(typ) {
			t.Fatalf("expected %q to be institutional", typ)
		}
	}
	for _, typ := range []string{"individual", "llc", "trust", ""} {
		if IsInstitutionalParty(typ) {
			t.Fatalf("expected %q to not be institutional", typ)
		}
	}
}

func TestHasPhone(t *testing.T) {
	if (Owner{}).HasPhone() {
		t.Fatal("nil phone reported present")
	}
	if (Owner{PhonePrimary: strPtr("  ")}).HasPhone() {
		t.Fatal("blank phone reported present")
	}
	if !(Owner{PhonePrimary: strPtr("+12255550147")}).HasPhone() {
		t.Fatal("phone not reported present")
	}
}
