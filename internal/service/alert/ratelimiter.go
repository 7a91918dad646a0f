// Package alert contains the notification cooldown policy and dispatch.
package alert

import (
	"sync"
	"time"
)

// State holds the cooldown state for a monitoring session. The zero value
// means no alert has been sent yet. LastAlert never decreases.
type State struct {
	LastAlert time.Time
}

// Decide reports whether an alert may be dispatched at now, given the state
// and the minimum interval between alerts. A true result records now as the
// last alert time in the same step. The comparison is strict: an event
// arriving exactly minInterval after the previous alert is suppressed.
//
// Decide authorizes intent to send. A failed downstream delivery must not
// roll the state back; the cooldown window stands either way.
func Decide(st *State, minInterval time.Duration, now time.Time) bool {
	if !st.LastAlert.IsZero() && now.Sub(st.LastAlert) <= minInterval {
		return false
	}
	st.LastAlert = now
	return true
}

// RateLimiter wraps State with a mutex so the check-and-update stays atomic
// when the processing loop and dispatch run on different goroutines.
type RateLimiter struct {
	mu          sync.Mutex
	state       State
	minInterval time.Duration
}

// NewRateLimiter creates a limiter that allows at most one alert per
// minInterval.
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{minInterval: minInterval}
}

// ShouldDispatch applies Decide under the lock.
func (r *RateLimiter) ShouldDispatch(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Decide(&r.state, r.minInterval, now)
}

// LastAlert returns the time of the last authorized dispatch, zero if none.
func (r *RateLimiter) LastAlert() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.LastAlert
}
