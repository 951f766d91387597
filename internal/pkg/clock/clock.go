package clock

import (
	"sync"
	"time"
)

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// FixedClocker always reports the same instant until it is moved.
// TOTP windows are only testable against a clock that does not drift.
type FixedClocker struct {
	mu sync.RWMutex
	at time.Time
}

// NewFixed returns a FixedClocker pinned at t.
func NewFixed(t time.Time) *FixedClocker {
	return &FixedClocker{at: t}
}

// NewFixedUnix returns a FixedClocker pinned at the given unix second.
func NewFixedUnix(sec int64) *FixedClocker {
	return NewFixed(time.Unix(sec, 0))
}

// Now returns the pinned instant.
func (c *FixedClocker) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.at
}

// Set moves the clock to t.
func (c *FixedClocker) Set(t time.Time) {
	c.mu.Lock()
	c.at = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClocker) Advance(d time.Duration) {
	c.mu.Lock()
	c.at = c.at.Add(d)
	c.mu.Unlock()
}
