package alert

import (
	"testing"
	"time"
)

func TestDecide_InitialStateAllows(t *testing.T) {
	st := &State{}
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !Decide(st, 10*time.Second, t0) {
		t.Fatal("First decision should authorize a dispatch")
	}
	if !st.LastAlert.Equal(t0) {
		t.Errorf("LastAlert = %v, expected %v", st.LastAlert, t0)
	}
}

func TestDecide_CooldownSequence(t *testing.T) {
	st := &State{}
	minInterval := 10 * time.Second
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		offset   time.Duration
		expected bool
	}{
		{0, true},
		{9 * time.Second, false},
		{10 * time.Second, false}, // exactly at the interval is suppressed
		{10*time.Second + time.Millisecond, true},
	}

	for _, tt := range tests {
		got := Decide(st, minInterval, t0.Add(tt.offset))
		if got != tt.expected {
			t.Errorf("Decide at t0+%v = %v, expected %v", tt.offset, got, tt.expected)
		}
	}
}

func TestDecide_SuppressionKeepsState(t *testing.T) {
	st := &State{}
	minInterval := 10 * time.Second
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	Decide(st, minInterval, t0)
	Decide(st, minInterval, t0.Add(5*time.Second))

	if !st.LastAlert.Equal(t0) {
		t.Errorf("Suppressed decision changed state: LastAlert = %v, expected %v", st.LastAlert, t0)
	}
}

func TestDecide_NeverTwiceWithinWindow(t *testing.T) {
	st := &State{}
	minInterval := 10 * time.Second
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Irregular call times, including bursts and near-boundary hits.
	offsets := []time.Duration{
		0,
		100 * time.Millisecond,
		3 * time.Second,
		9999 * time.Millisecond,
		10 * time.Second,
		10*time.Second + time.Millisecond,
		11 * time.Second,
		15 * time.Second,
		20*time.Second + 2*time.Millisecond,
		20*time.Second + 3*time.Millisecond,
		45 * time.Second,
	}

	var lastAuthorized time.Time
	authorized := 0
	for _, off := range offsets {
		now := t0.Add(off)
		if Decide(st, minInterval, now) {
			if authorized > 0 && now.Sub(lastAuthorized) <= minInterval {
				t.Errorf("Dispatch authorized at %v only %v after previous", now, now.Sub(lastAuthorized))
			}
			lastAuthorized = now
			authorized++
		}
	}

	if authorized != 4 {
		t.Errorf("Expected 4 authorized dispatches, got %d", authorized)
	}
}

func TestDecide_LastAlertMonotonic(t *testing.T) {
	st := &State{}
	minInterval := time.Second
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	previous := time.Time{}
	for i := 0; i < 100; i++ {
		Decide(st, minInterval, t0.Add(time.Duration(i)*700*time.Millisecond))
		if st.LastAlert.Before(previous) {
			t.Fatalf("LastAlert went backwards: %v -> %v", previous, st.LastAlert)
		}
		previous = st.LastAlert
	}
}

func TestRateLimiter_ShouldDispatch(t *testing.T) {
	limiter := NewRateLimiter(10 * time.Second)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !limiter.ShouldDispatch(t0) {
		t.Fatal("Fresh limiter should authorize the first dispatch")
	}
	if limiter.ShouldDispatch(t0.Add(9 * time.Second)) {
		t.Error("Dispatch inside the cooldown window should be suppressed")
	}
	if !limiter.LastAlert().Equal(t0) {
		t.Errorf("LastAlert = %v, expected %v", limiter.LastAlert(), t0)
	}
	if !limiter.ShouldDispatch(t0.Add(11 * time.Second)) {
		t.Error("Dispatch after the cooldown window should be authorized")
	}
}

func TestRateLimiter_ConcurrentSingleWinner(t *testing.T) {
	limiter := NewRateLimiter(time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	results := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		go func() {
			results <- limiter.ShouldDispatch(now)
		}()
	}

	wins := 0
	for i := 0; i < 20; i++ {
		if <-results {
			wins++
		}
	}

	if wins != 1 {
		t.Errorf("Expected exactly one goroutine to win the dispatch, got %d", wins)
	}
}
