// Package peripheral emulates an MCP23017's register file in software: the
// address-pointer advance rules, the register encode/decode side effects,
// and the interrupt-generation logic, all driven through an I²C-shaped
// Tx(addr, w, r) surface so a controller.Runner can be pointed at it
// without knowing it isn't talking to real silicon.
package peripheral

import "github.com/jangala-dev/mcp23017/register"

// AdvanceMode is how the address pointer moves after each register byte
// clocked on the bus.
type AdvanceMode uint8

const (
	// AdvanceFixed never moves the pointer (SEQOP=0, BANK=1).
	AdvanceFixed AdvanceMode = iota
	// AdvanceToggle flips between a register's two bank addresses
	// (SEQOP=0, BANK=0): address ^ 1.
	AdvanceToggle
	// AdvanceCycle walks the full address space in order, wrapping after
	// the last register (SEQOP=1, regardless of BANK).
	AdvanceCycle
)

// AdvanceModeFor derives the pointer's advance behavior from IOCON.SEQOP
// and the current addressing mode.
func AdvanceModeFor(seqop bool, mode register.Mode) AdvanceMode {
	if seqop {
		return AdvanceCycle
	}
	if mode == register.Bank1 {
		return AdvanceFixed
	}
	return AdvanceToggle
}

// lastAddress is the highest valid address in either mode (BANK=1's last
// register, OLAT in bank B).
const lastAddress = 21

// Advance computes the next address pointer value after one byte has been
// clocked at addr.
func Advance(addr byte, mode AdvanceMode) byte {
	switch mode {
	case AdvanceFixed:
		return addr
	case AdvanceToggle:
		return addr ^ 1
	case AdvanceCycle:
		if addr >= lastAddress {
			return 0
		}
		return addr + 1
	default:
		return addr
	}
}
