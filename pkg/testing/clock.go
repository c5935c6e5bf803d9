package testing

import (
	"sync"
	"time"

	"github.com/go-drift/compose/pkg/reactive"
)

// FakeClock is a controllable reactive.Clock for undo debounce tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ reactive.Clock = (*FakeClock)(nil)

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set sets the clock to an exact time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
