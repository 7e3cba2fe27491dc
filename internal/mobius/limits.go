package mobius

import "sync"

// LimitsCache memoises an axis window. The window is recomputed on the
// first Get after Invalidate and returned from cache otherwise.
type LimitsCache struct {
	mu      sync.Mutex
	compute func() AxisLimits
	value   AxisLimits
	valid   bool
	misses  int
}

func NewLimitsCache(compute func() AxisLimits) *LimitsCache {
	return &LimitsCache{compute: compute}
}

func (c *LimitsCache) Get() AxisLimits {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		c.value = c.compute()
		c.valid = true
		c.misses++
	}
	return c.value
}

func (c *LimitsCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Valid reports whether the next Get is served from cache.
func (c *LimitsCache) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid
}

// Computations returns how many times the window has been computed.
func (c *LimitsCache) Computations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}
