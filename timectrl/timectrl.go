package timectrl

import (
	"sync"
	"time"
)

// Clock is the time source the monitors depend on instead of calling
// time.Now directly. This keeps the handover state machine and the
// registry's stabilization window testable with a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a test clock advanced explicitly.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock constructs a manual clock starting at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute time.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ScaledClock runs simulated time at a fixed multiple of wall-clock
// time, anchored at a start instant. Rate 1 behaves like SystemClock;
// higher rates accelerate demo handover cycles without touching any
// monitor configuration.
type ScaledClock struct {
	start     time.Time
	wallStart time.Time
	rate      float64
}

// NewScaledClock constructs a scaled clock. Rates <= 0 fall back to 1.
func NewScaledClock(start time.Time, rate float64) *ScaledClock {
	if rate <= 0 {
		rate = 1
	}
	return &ScaledClock{start: start, wallStart: time.Now(), rate: rate}
}

func (c *ScaledClock) Now() time.Time {
	elapsed := time.Since(c.wallStart)
	return c.start.Add(time.Duration(float64(elapsed) * c.rate))
}
