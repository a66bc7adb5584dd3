package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"national format", "(225) 555-0147", "+12255550147"},
		{"already e164", "+12255550147", "+12255550147"},
		{"dashes", "225-555-0147", "+12255550147"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"garbage passes through", "not-a-number", "not-a-number"},
		{"too short passes through", "12345", "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("(225) 555-0147") {
		t.Fatal("expected valid US number")
	}
	if IsValid("12345") {
		t.Fatal("expected short number to be invalid")
	}
	if IsValid("") {
		t.Fatal("expected empty input to be invalid")
	}
}
