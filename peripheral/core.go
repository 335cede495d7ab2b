package peripheral

import (
	"sync"

	"github.com/jangala-dev/mcp23017/iopin"
	"github.com/jangala-dev/mcp23017/register"
)

// Core is the emulated register file for one MCP23017. It implements the
// same Tx(addr, w, r) shape as the controller's Bus, so a controller.Runner
// can be pointed directly at a Core for testing without a real bus.
type Core struct {
	mu sync.Mutex

	iodir, ipol, gpinten, defval, intcon, gppu [16]bool
	intf, intcap, olat, knownInput             [16]bool
	iocon                                      register.IOCONFlags

	selected byte

	pins       [16]iopin.Pin
	intA, intB InterruptPin
	resetPin   iopin.Pin

	logger Logger
}

// NewCore returns a Core at its post-reset defaults: every pin an
// unconfigured input, IOCON all zero (BANK=0, no MIRROR, no SEQOP).
func NewCore(logger Logger) *Core {
	if logger == nil {
		logger = NopLogger{}
	}
	c := &Core{logger: logger}
	c.resetLocked()
	return c
}

// Reset restores datasheet power-on defaults and re-applies every pin
// adapter, as if the hardware reset line had just pulsed.
func (c *Core) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Core) resetLocked() {
	c.iodir = [16]bool{}
	for i := range c.iodir {
		c.iodir[i] = true
	}
	c.ipol = [16]bool{}
	c.gpinten = [16]bool{}
	c.defval = [16]bool{}
	c.intcon = [16]bool{}
	c.gppu = [16]bool{}
	c.intf = [16]bool{}
	c.intcap = [16]bool{}
	c.olat = [16]bool{}
	c.knownInput = [16]bool{}
	c.iocon = register.IOCONFlags{}
	c.selected = 0

	for i := 0; i < 16; i++ {
		c.reconfigurePin(i)
		c.knownInput[i] = c.effectiveLevelLocked(i)
	}
	c.reevaluateOutputsLocked()
}

// Tx implements the I²C transaction the controller issues: an optional
// write phase (w[0] sets the address pointer, w[1:] are register writes
// clocked at that pointer), then an optional read phase (each byte
// decoded at the current pointer, side effects applied only once every
// requested byte has been clocked).
func (c *Core) Tx(addr uint16, w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(w) > 0 {
		c.selected = w[0]
		for _, b := range w[1:] {
			c.writeByteLocked(b)
		}
	}

	if len(r) > 0 {
		type pendingRead struct {
			kind register.Kind
			bank register.Bank
		}
		pending := make([]pendingRead, len(r))
		validity := make([]bool, len(r))
		for idx := range r {
			kind, bank, ok := register.FromAddress(c.selected, c.iocon.AddrMode())
			if !ok {
				c.logger.Warnf("peripheral: read at invalid address %#x", c.selected)
				r[idx] = 0
				c.selected = Advance(c.selected, AdvanceModeFor(c.iocon.Seqop, c.iocon.AddrMode()))
				continue
			}
			r[idx] = c.readByteNoSideEffectsLocked(kind, bank)
			pending[idx] = pendingRead{kind, bank}
			validity[idx] = true
			c.selected = Advance(c.selected, AdvanceModeFor(c.iocon.Seqop, c.iocon.AddrMode()))
		}
		for idx, p := range pending {
			if validity[idx] {
				c.applyReadSideEffectsLocked(p.kind, p.bank)
			}
		}
	}
	return nil
}

func (c *Core) writeByteLocked(b byte) {
	kind, bank, ok := register.FromAddress(c.selected, c.iocon.AddrMode())
	if !ok {
		c.logger.Warnf("peripheral: write at invalid address %#x", c.selected)
		c.selected = Advance(c.selected, AdvanceModeFor(c.iocon.Seqop, c.iocon.AddrMode()))
		return
	}
	c.applyWriteLocked(kind, bank, b)
	c.selected = Advance(c.selected, AdvanceModeFor(c.iocon.Seqop, c.iocon.AddrMode()))
}

func (c *Core) applyWriteLocked(kind register.Kind, bank register.Bank, b byte) {
	if kind == register.IOCON {
		c.iocon = register.DecodeIOCON(b)
		c.reevaluateOutputsLocked()
		return
	}

	bits := register.BitsOfByte(b)
	for bit := uint(0); bit < 8; bit++ {
		i := register.PinOf(bank, bit)
		v := bits[bit]
		switch kind {
		case register.IODIR:
			if c.iodir[i] != v {
				c.iodir[i] = v
				c.reconfigurePin(i)
			}
		case register.IPOL:
			c.ipol[i] = v
		case register.GPINTEN:
			c.gpinten[i] = v
		case register.DEFVAL:
			c.defval[i] = v
		case register.INTCON:
			c.intcon[i] = v
		case register.GPPU:
			if c.gppu[i] != v {
				c.gppu[i] = v
				c.reconfigurePin(i)
			}
		case register.OLAT, register.GPIO:
			// A write to either register drives the output latch; the
			// datasheet treats writing GPIO as equivalent to writing
			// OLAT for pins configured as outputs. Input pins ignore it.
			if !c.iodir[i] {
				c.olat[i] = v
				c.drivePin(i, v)
			}
		case register.INTF, register.INTCAP:
			// read-only; writes are accepted on the bus but have no effect.
		}
	}
	c.reevaluateOutputsLocked()
}

func (c *Core) readByteNoSideEffectsLocked(kind register.Kind, bank register.Bank) byte {
	if kind == register.IOCON {
		return register.EncodeIOCON(c.iocon)
	}

	var bits register.Bits8
	for bit := uint(0); bit < 8; bit++ {
		i := register.PinOf(bank, bit)
		switch kind {
		case register.IODIR:
			bits[bit] = c.iodir[i]
		case register.IPOL:
			bits[bit] = c.ipol[i]
		case register.GPINTEN:
			bits[bit] = c.gpinten[i]
		case register.DEFVAL:
			bits[bit] = c.defval[i]
		case register.INTCON:
			bits[bit] = c.intcon[i]
		case register.GPPU:
			bits[bit] = c.gppu[i]
		case register.INTF:
			bits[bit] = c.intf[i]
		case register.INTCAP:
			bits[bit] = c.intcap[i]
		case register.GPIO:
			if c.iodir[i] {
				bits[bit] = c.effectiveLevelLocked(i)
			} else {
				bits[bit] = c.olat[i]
			}
		case register.OLAT:
			bits[bit] = c.olat[i]
		}
	}
	return register.ByteOfBits(bits)
}

// applyReadSideEffectsLocked is the "bytes confirmed" half of a read:
// reading GPIO or INTCAP for a bank clears INTF for every pin in that
// bank and re-derives the interrupt outputs. Reading GPIO additionally
// refreshes the compare baseline for every input pin in the bank.
func (c *Core) applyReadSideEffectsLocked(kind register.Kind, bank register.Bank) {
	switch kind {
	case register.GPIO:
		for bit := uint(0); bit < 8; bit++ {
			i := register.PinOf(bank, bit)
			if c.iodir[i] {
				c.knownInput[i] = c.effectiveLevelLocked(i)
			}
			c.intf[i] = false
		}
		c.reevaluateOutputsLocked()
	case register.INTCAP:
		for bit := uint(0); bit < 8; bit++ {
			i := register.PinOf(bank, bit)
			c.intf[i] = false
		}
		c.reevaluateOutputsLocked()
	}
}

func (c *Core) effectiveLevelLocked(i int) bool {
	level := c.pinLevel(i)
	if c.ipol[i] {
		level = !level
	}
	return level
}

// reevaluateOutputsLocked re-derives INTA/INTB from the current INTF
// bits and IOCON's MIRROR/ODR/INTPOL flags.
func (c *Core) reevaluateOutputsLocked() {
	var bankPending [2]bool
	for i := 0; i < 16; i++ {
		if c.intf[i] {
			bankPending[register.BankOf(i)] = true
		}
	}
	pendingA, pendingB := bankPending[0], bankPending[1]
	if c.iocon.Mirror {
		pendingA = bankPending[0] || bankPending[1]
		pendingB = pendingA
	}
	c.driveInterruptPin(c.intA, pendingA)
	c.driveInterruptPin(c.intB, pendingB)
}

func (c *Core) driveInterruptPin(pin InterruptPin, asserted bool) {
	if pin == nil {
		return
	}
	pin.ConfigureOpenDrain(c.iocon.ODR)
	// level tracks INTPOL regardless of drive mode: ODR only chooses how
	// the pin is driven, never what level "asserted" maps to.
	pin.Set(asserted == c.iocon.Intpol)
}
