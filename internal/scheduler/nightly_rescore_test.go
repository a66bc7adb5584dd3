package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNextRescoreAfter(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before the hour fires same day",
			now:  time.Date(2026, 8, 1, 0, 30, 0, 0, time.UTC),
			want: time.Date(2026, 8, 1, 2, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly on the hour waits a full day",
			now:  time.Date(2026, 8, 1, 2, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 2, 2, 0, 0, 0, time.UTC),
		},
		{
			name: "after the hour fires next day",
			now:  time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 2, 2, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary rolls over",
			now:  time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextRescoreAfter(tc.now); !got.Equal(tc.want) {
				t.Fatalf("nextRescoreAfter(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestNightlyRescore_RunStopsOnCancel(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := fakeSchedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "leads"}

	nightly, err := NewNightlyRescore(cfg, nil)
	if err != nil {
		t.Fatalf("NewNightlyRescore: %v", err)
	}
	t.Cleanup(func() { _ = nightly.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		nightly.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestNewNightlyRescore_RequiresRedisURL(t *testing.T) {
	if _, err := NewNightlyRescore(fakeSchedulerConfig{}, nil); err == nil {
		t.Fatal("expected an error without a redis url")
	}
}
