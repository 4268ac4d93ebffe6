package testutil

import "sync"

// Clock hands out monotonically increasing timestamps for captures.
//
// The first call to Next returns 1. Reset starts over so the same
// capture can be rebuilt with identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use.
type Clock struct {
	mu sync.Mutex
	ts int64
}

// Next increments and returns the next timestamp.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ts++
	return c.ts
}

// Current returns the last timestamp handed out without advancing.
func (c *Clock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ts
}

// Reset sets the clock back to 0.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ts = 0
}
