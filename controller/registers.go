package controller

import "github.com/jangala-dev/mcp23017/register"

// pinRegisters is the runner's local belief about the device's
// configuration for one pin: everything the 6-phase loop may have pushed
// across IODIR/GPPU/OLAT/DEFVAL/INTCON/GPINTEN. It exists purely so the
// runner can diff a freshly computed target against what it last wrote,
// instead of rewriting every register on every iteration.
type pinRegisters struct {
	direction  bool // true = configured as input (IODIR bit set)
	pullUp     bool
	latch      bool
	intEnabled bool
	intControl bool // true = compare against DEFVAL, false = compare against previous value
	intCompare bool // DEFVAL bit, meaningful only when intControl is true
}

// desiredRegs is the per-pin target computed fresh every iteration from the
// pin's current intent; pushWrites diffs it against pinRegisters.
type desiredRegs struct {
	direction  bool
	pullUp     bool
	latch      bool
	intEnabled bool
	intControl bool
	intCompare bool
}

// regSpec ties one of the six writable register kinds to the desiredRegs
// and pinRegisters fields it governs, so pushWrites can loop over a table
// instead of repeating the same diff-and-write logic six times.
type regSpec struct {
	kind register.Kind
	want func(desiredRegs) bool
	get  func(pinRegisters) bool
	set  func(*pinRegisters, bool)
}

// writeOrder is fixed: IODIR and GPPU before OLAT, compare configuration
// (DEFVAL, INTCON) before the GPINTEN that arms it, so a freshly requested
// interrupt never arms against a stale compare register.
var writeOrder = [6]regSpec{
	{register.IODIR, func(d desiredRegs) bool { return d.direction }, func(p pinRegisters) bool { return p.direction }, func(p *pinRegisters, v bool) { p.direction = v }},
	{register.GPPU, func(d desiredRegs) bool { return d.pullUp }, func(p pinRegisters) bool { return p.pullUp }, func(p *pinRegisters, v bool) { p.pullUp = v }},
	{register.OLAT, func(d desiredRegs) bool { return d.latch }, func(p pinRegisters) bool { return p.latch }, func(p *pinRegisters, v bool) { p.latch = v }},
	{register.DEFVAL, func(d desiredRegs) bool { return d.intCompare }, func(p pinRegisters) bool { return p.intCompare }, func(p *pinRegisters, v bool) { p.intCompare = v }},
	{register.INTCON, func(d desiredRegs) bool { return d.intControl }, func(p pinRegisters) bool { return p.intControl }, func(p *pinRegisters, v bool) { p.intControl = v }},
	{register.GPINTEN, func(d desiredRegs) bool { return d.intEnabled }, func(p pinRegisters) bool { return p.intEnabled }, func(p *pinRegisters, v bool) { p.intEnabled = v }},
}

func bankByte(bank register.Bank, get func(pin int) bool) byte {
	var bits register.Bits8
	for bit := uint(0); bit < 8; bit++ {
		bits[bit] = get(register.PinOf(bank, bit))
	}
	return register.ByteOfBits(bits)
}
