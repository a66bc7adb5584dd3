package scoring

import "testing"

func TestParishMedianCacheLookupIsCaseInsensitive(t *testing.T) {
	cache := NewParishMedianCache(map[string]float64{
		"Tangipahoa":       9500,
		" ST. TAMMANY ":    12000,
		"east baton rouge": 15000,
	})

	cases := []struct {
		parish string
		want   float64
	}{
		{"tangipahoa", 9500},
		{"TANGIPAHOA", 9500},
		{"St. Tammany", 12000},
		{"East Baton Rouge ", 15000},
	}
	for _, tc := range cases {
		got, ok := cache.Get(tc.parish)
		if !ok {
			t.Fatalf("expected a median for %q", tc.parish)
		}
		if got != tc.want {
			t.Fatalf("median for %q = %v, want %v", tc.parish, got, tc.want)
		}
	}

	if cache.Len() != 3 {
		t.Fatalf("expected 3 parishes, got %d", cache.Len())
	}
}

func TestEmptyParishMedianCacheMissesEverything(t *testing.T) {
	cache := EmptyParishMedianCache()

	if _, ok := cache.Get("Tangipahoa"); ok {
		t.Fatal("expected no median in an empty snapshot")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty snapshot, got %d parishes", cache.Len())
	}
}
