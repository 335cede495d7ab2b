package peripheral

import (
	"context"
	"time"
)

// Run drives the emulator's background behavior: polling every armed
// input pin for a level change against its compare condition, and
// watching the reset line for a qualifying low pulse. It returns nil
// when ctx is canceled.
func (c *Core) Run(ctx context.Context, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = time.Millisecond
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var resetSince time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.pollEdges()
			c.checkReset(&resetSince)
		}
	}
}

// PollEdges runs one round of edge detection synchronously, without
// waiting for Run's ticker. Controller tests use it to drive the
// emulator deterministically instead of racing a background goroutine.
func (c *Core) PollEdges() {
	c.pollEdges()
}

// pollEdges is the software stand-in for the 16 independent hardware
// comparators a real MCP23017 runs continuously: any armed, not-yet-
// latched input whose effective level differs from its compare basis
// sets INTF and captures the triggering value.
func (c *Core) pollEdges() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < 16; i++ {
		if !c.iodir[i] || !c.gpinten[i] || c.intf[i] {
			continue
		}
		cur := c.effectiveLevelLocked(i)
		compare := c.knownInput[i]
		if c.intcon[i] {
			compare = c.defval[i]
		}
		if cur == compare {
			continue
		}
		c.intf[i] = true
		c.intcap[i] = cur
		c.knownInput[i] = cur
	}
	c.reevaluateOutputsLocked()
}
