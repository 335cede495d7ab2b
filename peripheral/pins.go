package peripheral

import (
	"github.com/jangala-dev/mcp23017/iopin"
	"github.com/jangala-dev/mcp23017/peripheral/errs"
)

// Logger is the only ambient dependency this package takes: protocol
// warnings (an invalid register address, a write past the address space)
// are reported through it rather than returned as errors, since they
// never abort the bus transaction that produced them.
type Logger interface {
	Warnf(format string, args ...any)
}

// NopLogger discards everything; it is the Core's default so tests and
// callers that don't care about protocol warnings don't have to supply
// one.
type NopLogger struct{}

func (NopLogger) Warnf(string, ...any) {}

// InterruptPin is the minimal surface an emulated INTA/INTB output needs:
// driving a level, and a separate knob for its drive mode. Polarity
// (active-high vs active-low, IOCON.INTPOL) and drive mode (push-pull vs
// open-drain, IOCON.ODR) are orthogonal on real hardware, so they're kept
// orthogonal here instead of one flipping the meaning of the other.
type InterruptPin interface {
	Set(level bool)
	ConfigureOpenDrain(openDrain bool)
}

// SetPin attaches the external pin adapter simulating pin i's physical
// connection. A nil adapter leaves the pin floating: reads return false,
// writes are accepted but have no observable effect outside the core.
func (c *Core) SetPin(i int, pin iopin.Pin) error {
	if i < 0 || i >= 16 {
		return errs.ErrPinIndex
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pins[i] = pin
	return nil
}

// SetInterruptPins attaches the two interrupt output adapters. Both may
// point at the same physical pin if INTA/INTB are wired together on the
// board (which MIRROR also does logically).
func (c *Core) SetInterruptPins(a, b InterruptPin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intA, c.intB = a, b
}

// SetResetPin attaches the pin this core observes for an externally
// driven hardware reset.
func (c *Core) SetResetPin(pin iopin.Pin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetPin = pin
}

func (c *Core) pinLevel(i int) bool {
	p := c.pins[i]
	if p == nil {
		return false
	}
	return p.Get()
}

func (c *Core) drivePin(i int, level bool) {
	p := c.pins[i]
	if p == nil {
		return
	}
	p.Set(level)
}

func (c *Core) reconfigurePin(i int) {
	p := c.pins[i]
	if p == nil {
		return
	}
	if c.iodir[i] {
		pull := iopin.PullNone
		if c.gppu[i] {
			pull = iopin.PullUp
		}
		_ = p.ConfigureInput(pull)
	} else {
		_ = p.ConfigureOutput(c.olat[i])
	}
}
