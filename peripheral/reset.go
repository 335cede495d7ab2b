package peripheral

import "time"

// resetDebounce is the minimum continuous low time this emulator
// requires on the reset line before treating it as a genuine reset
// pulse rather than bus noise.
const resetDebounce = time.Microsecond

// checkReset samples the reset pin once per poll tick and tracks how
// long it's been continuously low in *since, applying a reset once that
// reaches resetDebounce.
func (c *Core) checkReset(since *time.Time) {
	c.mu.Lock()
	pin := c.resetPin
	c.mu.Unlock()
	if pin == nil {
		return
	}

	if pin.Get() {
		*since = time.Time{}
		return
	}
	if since.IsZero() {
		*since = time.Now()
		return
	}
	if time.Since(*since) >= resetDebounce {
		c.Reset()
		*since = time.Time{}
	}
}
