package controller

import (
	"fmt"
	"time"

	"github.com/jangala-dev/mcp23017/controller/errs"
	"github.com/jangala-dev/mcp23017/register"
)

// resetPulse is the minimum low time the datasheet guarantees resets the
// part; external debounce/glitch filtering on the reset line itself is
// out of scope here, same as it is for the interrupt line.
const resetPulse = 2 * time.Microsecond

// startup drives a hardware reset and writes the IOCON the rest of the
// runner assumes for the lifetime of the device: BANK=0, MIRROR=1 (the
// two interrupt outputs are wired together so either pin reports either
// bank), SEQOP=0 (address auto-toggles after each byte, which the write
// and read batching in this package both rely on), ODR=1, INTPOL=0.
func (r *Runner) startup(sleep func(time.Duration)) error {
	if r.reset != nil {
		r.reset.Set(false)
		sleep(resetPulse)
		r.reset.Set(true)
		sleep(resetPulse)
	}

	addr := register.AddressOf(register.IOCON, register.BankA, register.Bank0)
	if err := r.bus.Tx(r.addr, []byte{addr, register.StartupIOCON}, nil); err != nil {
		return fmt.Errorf("controller: writing startup IOCON: %w: %w", errs.ErrBusClosed, err)
	}

	for i := range r.cache {
		r.cache[i] = pinRegisters{direction: true}
	}
	return nil
}
