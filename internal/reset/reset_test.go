package reset

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/routine/internal/storage"
)

type countingResetter struct {
	calls int
	err   error
}

func (r *countingResetter) ResetCompletions() error {
	if r.err != nil {
		return r.err
	}
	r.calls++
	return nil
}

func setupScheduler(t *testing.T) (*Scheduler, *countingResetter) {
	t.Helper()
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "routine.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	r := &countingResetter{}
	return New(provider, r), r
}

func TestCheck(t *testing.T) {
	// Wednesday of ISO week 10, 2026.
	wednesday := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		times     []time.Time
		wantCalls int
	}{
		{
			name:      "first run resets",
			times:     []time.Time{wednesday},
			wantCalls: 1,
		},
		{
			name:      "same week is idempotent",
			times:     []time.Time{wednesday, wednesday.Add(time.Hour), wednesday.AddDate(0, 0, 4)},
			wantCalls: 1,
		},
		{
			name:      "next monday resets again",
			times:     []time.Time{wednesday, time.Date(2026, 3, 9, 0, 1, 0, 0, time.UTC)},
			wantCalls: 2,
		},
		{
			name:      "skipped weeks reset once",
			times:     []time.Time{wednesday, wednesday.AddDate(0, 0, 21), wednesday.AddDate(0, 0, 22)},
			wantCalls: 2,
		},
		{
			name:      "year boundary",
			times:     []time.Time{time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC), time.Date(2027, 1, 3, 8, 0, 0, 0, time.UTC), time.Date(2027, 1, 4, 8, 0, 0, 0, time.UTC)},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := setupScheduler(t)
			for _, now := range tt.times {
				if _, err := s.Check(now); err != nil {
					t.Fatalf("Check(%v) error = %v", now, err)
				}
				if s.State() != StateSettled {
					t.Errorf("State() = %s after Check", s.State())
				}
			}
			if r.calls != tt.wantCalls {
				t.Errorf("ResetCompletions called %d times, want %d", r.calls, tt.wantCalls)
			}
			last, ok, err := s.LastReset()
			if err != nil || !ok {
				t.Fatalf("LastReset() = %v, %v, %v", last, ok, err)
			}
		})
	}
}

func TestCheckFailureStaysPending(t *testing.T) {
	s, r := setupScheduler(t)
	r.err = errors.New("disk full")

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	did, err := s.Check(now)
	if err == nil || did {
		t.Fatalf("Check() = %v, %v; want an error", did, err)
	}
	if s.State() != StatePending {
		t.Errorf("State() = %s, want %s", s.State(), StatePending)
	}
	if _, ok, _ := s.LastReset(); ok {
		t.Error("reset recorded despite failure")
	}

	r.err = nil
	did, err = s.Check(now)
	if err != nil || !did {
		t.Errorf("retry Check() = %v, %v; want a reset", did, err)
	}
}
