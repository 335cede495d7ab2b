package peripheral

import (
	"testing"
	"time"
)

func TestCheckResetFiresAfterQualifyingPulse(t *testing.T) {
	c := NewCore(nil)
	pin := &fakePin{level: false}
	c.SetResetPin(pin)

	// Dirty the state Reset() restores, so firing is observable.
	c.mu.Lock()
	c.iodir[0] = false
	c.mu.Unlock()

	var since time.Time
	c.checkReset(&since) // first low sample: starts the clock, doesn't fire yet
	if since.IsZero() {
		t.Fatalf("expected checkReset to start tracking the low pulse")
	}
	c.mu.Lock()
	stillDirty := !c.iodir[0]
	c.mu.Unlock()
	if !stillDirty {
		t.Fatalf("expected no reset before the debounce window elapses")
	}

	// Backdate the tracked start so the next sample sees it as qualifying,
	// instead of sleeping the real debounce window.
	since = since.Add(-2 * resetDebounce)
	c.checkReset(&since)

	if !since.IsZero() {
		t.Fatalf("expected checkReset to clear its tracking once it fires")
	}
	c.mu.Lock()
	fired := c.iodir[0]
	c.mu.Unlock()
	if !fired {
		t.Fatalf("expected a qualifying low pulse to restore reset defaults")
	}
}

func TestCheckResetIgnoresSubThresholdPulse(t *testing.T) {
	c := NewCore(nil)
	pin := &fakePin{level: false}
	c.SetResetPin(pin)

	c.mu.Lock()
	c.iodir[0] = false
	c.mu.Unlock()

	var since time.Time
	c.checkReset(&since) // starts tracking

	pin.Set(true) // released before the debounce window elapses
	c.checkReset(&since)

	if !since.IsZero() {
		t.Fatalf("expected checkReset to drop its tracking once the pin goes high")
	}
	c.mu.Lock()
	stillDirty := !c.iodir[0]
	c.mu.Unlock()
	if !stillDirty {
		t.Fatalf("expected a sub-threshold pulse not to trigger a reset")
	}
}
