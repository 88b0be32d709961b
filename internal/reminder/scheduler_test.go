package reminder

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSchedule_DefaultOffsets(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 18, 20, 0, 0, 0, time.UTC)
	got := NewScheduler().Schedule(start)

	want := []string{
		"2026-02-18T19:00:00Z",
		"2026-02-18T19:55:00Z",
		"2026-02-18T19:57:00Z",
		"2026-02-18T19:58:00Z",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d reminders, got %d", len(want), len(got))
	}
	for i, r := range got {
		if s := r.At.Format(time.RFC3339); s != want[i] {
			t.Fatalf("reminder %d: expected %s, got %s", i, want[i], s)
		}
		if r.MinutesBefore != DefaultOffsets[i] {
			t.Fatalf("reminder %d: expected offset %d, got %d", i, DefaultOffsets[i], r.MinutesBefore)
		}
	}
}

func TestSchedule_CustomOffsetsKeepOrder(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 18, 20, 0, 0, 0, time.UTC)
	got := NewScheduler(WithOffsets(1, 30)).Schedule(start)
	if len(got) != 2 || got[0].MinutesBefore != 1 || got[1].MinutesBefore != 30 {
		t.Fatalf("unexpected schedule %+v", got)
	}
	if !got[1].At.Equal(start.Add(-30 * time.Minute)) {
		t.Fatalf("unexpected time %v", got[1].At)
	}
}

func TestAddPreference_Idempotent(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.AddPreference("u1", "evt_a")
	s.AddPreference("u1", "evt_b")
	s.AddPreference("u1", "evt_a")

	got := s.Preferences("u1")
	if len(got) != 2 || got[0] != "evt_a" || got[1] != "evt_b" {
		t.Fatalf("unexpected preferences %v", got)
	}
	if len(s.Preferences("nobody")) != 0 {
		t.Fatalf("unknown user should have no preferences")
	}

	got[0] = "mutated"
	if s.Preferences("u1")[0] != "evt_a" {
		t.Fatalf("preferences must be returned as a copy")
	}
}

func TestAddPreference_Concurrent(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddPreference("u1", fmt.Sprintf("evt_%d", i%10))
		}(i)
	}
	wg.Wait()

	if n := len(s.Preferences("u1")); n != 10 {
		t.Fatalf("expected 10 distinct preferences, got %d", n)
	}
}
