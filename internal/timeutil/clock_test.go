package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	if d := clock.Since(past); d < time.Second {
		t.Errorf("RealClock.Since() = %v, want >= 1s", d)
	}
}

func TestMockClock_Now(t *testing.T) {
	fixed := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	clock := NewMockClock(fixed)
	if !clock.Now().Equal(fixed) {
		t.Errorf("MockClock.Now() = %v, want %v", clock.Now(), fixed)
	}
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	clock := NewMockClock(time.Time{})
	later := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	clock.Set(later)
	clock.Advance(90 * time.Second)

	want := later.Add(90 * time.Second)
	if !clock.Now().Equal(want) {
		t.Errorf("MockClock.Now() = %v, want %v", clock.Now(), want)
	}
	if d := clock.Since(later); d != 90*time.Second {
		t.Errorf("MockClock.Since() = %v, want 90s", d)
	}
}

func TestMockClock_Sleep(t *testing.T) {
	start := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.Sleep(10 * time.Millisecond)
	clock.Sleep(20 * time.Millisecond)

	sleeps := clock.Sleeps()
	if len(sleeps) != 2 || sleeps[0] != 10*time.Millisecond || sleeps[1] != 20*time.Millisecond {
		t.Errorf("Sleeps() = %v, want [10ms 20ms]", sleeps)
	}
	if d := clock.Since(start); d != 30*time.Millisecond {
		t.Errorf("clock advanced %v, want 30ms", d)
	}
}
