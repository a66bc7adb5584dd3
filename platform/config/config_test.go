package config

import "testing"

func validConfig() *Config {
	return &Config{
		DatabaseURL:      "postgres://localhost/leads",
		JWTAccessSecret:  "secret",
		RejectThreshold:  20,
		ContactThreshold: 40,
		HotThreshold:     70,
	}
}

func TestValidateThresholdOrdering(t *testing.T) {
	cases := []struct {
		name    string
		reject  int
		contact int
		hot     int
		wantErr bool
	}{
		{"defaults", 20, 40, 70, false},
		{"tight ordering", 0, 1, 2, false},
		{"contact below reject", 40, 20, 70, true},
		{"hot equals contact", 20, 70, 70, true},
		{"all equal", 40, 40, 40, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.RejectThreshold = tc.reject
			cfg.ContactThreshold = tc.contact
			cfg.HotThreshold = tc.hot

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for thresholds %d/%d/%d", tc.reject, tc.contact, tc.hot)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when DATABASE_URL missing")
	}

	cfg = validConfig()
	cfg.JWTAccessSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when JWT_ACCESS_SECRET missing")
	}
}

func TestValidateCORSWildcardWithCreds(t *testing.T) {
	cfg := validConfig()
	cfg.CORSAllowAll = true
	cfg.CORSAllowCreds = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for wildcard CORS with credentials")
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" a, b ,,c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
