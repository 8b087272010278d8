// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// DefaultTestTime is the initial time of a FakeClock created from a zero time.
var DefaultTestTime = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	// Clock is the time source accepted by code that stamps its output.
	Clock interface {
		Now() time.Time
	}

	// RealClock reads the system time.
	RealClock struct{}

	// FakeClock only moves when Advance or Set is called. It is safe for
	// concurrent use.
	FakeClock struct {
		mu      sync.Mutex
		current time.Time
	}
)

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NewFakeClock creates a FakeClock at initial, or at DefaultTestTime when
// initial is zero.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = DefaultTestTime
	}
	return &FakeClock{current: initial}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the fake time forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set moves the fake time to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
