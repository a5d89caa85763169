package gateway

import (
	"sync"
	"time"
)

// BreakerState is the circuit state of the upstream gateway.
type BreakerState int

const (
	BreakerClosed   BreakerState = 0 // upstream healthy, requests flow
	BreakerOpen     BreakerState = 1 // upstream down, skip straight to fallback
	BreakerHalfOpen BreakerState = 2 // cooldown elapsed, probe with one request
)

func (s BreakerState) String() string {
	names := [...]string{"Closed", "Open", "HalfOpen"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Closed"
	}
	return names[s]
}

// Breaker is a minimal circuit breaker guarding the upstream transaction
// endpoints. It replaces a shared backendAvailable boolean: availability is
// derived from its state, and unrelated calls cannot stomp each other's view
// of the upstream.
type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time

	now func() time.Time
}

// NewBreaker creates a breaker that opens after threshold consecutive
// failures and probes again after cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a request may go upstream. An Open breaker whose
// cooldown has elapsed transitions to HalfOpen and lets one probe through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed, BreakerHalfOpen:
		return true
	case BreakerOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = BreakerHalfOpen
			return true
		}
		return false
	}
	return true
}

// Success resets the breaker to Closed.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.failures = 0
}

// Failure records a failed upstream exchange. A HalfOpen probe failure, or
// reaching the threshold while Closed, opens the circuit.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen {
		b.state = BreakerOpen
		b.openedAt = b.now()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
	}
}

// State returns the current circuit state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
