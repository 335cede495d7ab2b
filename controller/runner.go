package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/jangala-dev/mcp23017/controller/errs"
	"github.com/jangala-dev/mcp23017/iopin"
	"github.com/jangala-dev/mcp23017/register"
)

// numPins is fixed by the part: one expander, two 8-bit banks.
const numPins = 16

// Runner is the single task that owns the I²C bus, the shared interrupt
// input, and the reset output, and drives all 16 pins' register state
// from the 16 slots its handles publish into. Nothing else touches the
// bus or the interrupt pin once Run starts.
type Runner struct {
	bus   Bus
	addr  uint16
	irq   iopin.IRQPin
	reset iopin.OutputPin
	sleep func(time.Duration)

	slots [numPins]*slot
	wake  chan struct{}
	watch *irqWatcher

	// intent is the runner's own persistent belief about what each pin
	// should be configured as; it is seeded from a slot's op whenever
	// phase 1 accepts a fresh request, and evolves independently of the
	// slot afterward (e.g. a one-shot read reverts to a quiescent input
	// once satisfied, while the slot itself simply stays Done).
	intent     [numPins]Op
	processing [numPins]bool

	// per-pin gating for operations that need a GPIO read before (or
	// instead of) arming an interrupt.
	needsBaseline     [numPins]bool // WaitForAnyEdge/WaitForSpecificEdge: read once before enabling GPINTEN
	waitStatePrecheck [numPins]bool // WaitForState: one opportunistic read in case it's already satisfied
	watchSeeded       [numPins]bool // Watch: last_known already populated by a first GPIO read

	cache pinRegisters16
}

type pinRegisters16 [numPins]pinRegisters

// NewRunner constructs a Runner ready to have its Run method driven on a
// goroutine of the caller's choosing, along with the 16 handles used to
// address its pins. sleep defaults to time.Sleep if nil.
func NewRunner(bus Bus, addr uint16, irq iopin.IRQPin, reset iopin.OutputPin, sleep func(time.Duration)) (*Runner, [numPins]Handle) {
	if sleep == nil {
		sleep = time.Sleep
	}
	r := &Runner{
		bus:   bus,
		addr:  addr,
		irq:   irq,
		reset: reset,
		sleep: sleep,
		wake:  make(chan struct{}, 1),
	}
	var handles [numPins]Handle
	for i := 0; i < numPins; i++ {
		r.slots[i] = newSlot(r.wake)
		r.intent[i] = defaultOp
		handles[i] = Handle{slot: r.slots[i], index: i}
	}
	return r, handles
}

// Run drives the runner until ctx is canceled or a fatal bus/pin error
// occurs. It performs the reset/IOCON startup sequence first. A clean
// cancellation returns nil; any other return value is fatal. Handle calls
// do not receive that error: with the runner gone nothing completes them,
// so blocked and future calls wait until their own context ends and then
// return its error.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.startup(r.sleep); err != nil {
		return err
	}
	if r.irq != nil {
		w, err := newIRQWatcher(r.irq)
		if err != nil {
			return fmt.Errorf("controller: arming interrupt pin: %w: %w", errs.ErrInterruptPin, err)
		}
		r.watch = w
		defer r.watch.stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		didWork, err := r.iterate()
		if err != nil {
			return err
		}
		if didWork {
			continue
		}
		r.idle(ctx)
	}
}

func (r *Runner) idle(ctx context.Context) {
	var irqEvents <-chan struct{}
	if r.watch != nil {
		irqEvents = r.watch.events()
	}
	select {
	case <-ctx.Done():
	case <-r.wake:
	case <-irqEvents:
	}
}

// iterate runs one pass of the six phases and reports whether it did
// anything observable, so Run knows whether to loop immediately (more
// work may be pending) or go idle.
func (r *Runner) iterate() (bool, error) {
	didWork := false

	// Phase 1: snapshot.
	for i := 0; i < numPins; i++ {
		op, ok := r.slots[i].acceptIfRequested()
		if !ok {
			continue
		}
		r.intent[i] = op
		r.processing[i] = true
		switch {
		case op.Kind == OpWatch:
			r.watchSeeded[i] = false
		case op.Kind == OpInput && op.Sub == SubWaitForState:
			r.waitStatePrecheck[i] = true
		case op.Kind == OpInput && (op.Sub == SubWaitForAnyEdge || op.Sub == SubWaitForSpecificEdge):
			r.needsBaseline[i] = true
		}
		didWork = true
	}

	// Phase 2: compute deltas.
	desired, wantRead := r.computeDeltas()

	// Phase 3: push writes.
	wrote, err := r.pushWrites(desired)
	if err != nil {
		return false, err
	}
	didWork = didWork || wrote

	// Phase 4: interrupt servicing.
	captured, capBit, err := r.serviceInterrupt(desired)
	if err != nil {
		return false, err
	}
	for i := 0; i < numPins; i++ {
		if captured[i] {
			didWork = true
			if !r.isAwaited(i) {
				wantRead[i] = true
			}
		}
	}

	// Phase 5: GPIO read batching.
	readVal, readDone, err := r.batchGPIORead(wantRead)
	if err != nil {
		return false, err
	}
	for i := 0; i < numPins; i++ {
		if readDone[i] {
			didWork = true
		}
	}

	// Phase 6: completion.
	r.completePins(captured, capBit, readVal, readDone)

	return didWork, nil
}

// isAwaited reports whether pin i currently has live interest in its
// interrupt/read state: an in-flight request, or an established Watch.
func (r *Runner) isAwaited(i int) bool {
	return r.processing[i] || r.intent[i].Kind == OpWatch
}

func (r *Runner) computeDeltas() (desired [numPins]desiredRegs, wantRead [numPins]bool) {
	for i := 0; i < numPins; i++ {
		op := r.intent[i]
		switch op.Kind {
		case OpOutput:
			desired[i] = desiredRegs{latch: op.Latch}

		case OpWatch:
			desired[i] = desiredRegs{direction: true, pullUp: op.PullUp, intEnabled: true}
			if !r.watchSeeded[i] {
				wantRead[i] = true
			}

		default: // OpInput
			switch op.Sub {
			case SubRead:
				desired[i] = desiredRegs{direction: true, pullUp: op.PullUp}
				wantRead[i] = true

			case SubWaitForState:
				desired[i] = desiredRegs{
					direction:  true,
					pullUp:     op.PullUp,
					intEnabled: true,
					intControl: true,
					intCompare: !op.Target,
				}
				if r.waitStatePrecheck[i] {
					wantRead[i] = true
				}

			case SubWaitForAnyEdge, SubWaitForSpecificEdge:
				armed := !r.needsBaseline[i]
				desired[i] = desiredRegs{direction: true, pullUp: op.PullUp, intEnabled: armed}
				if r.needsBaseline[i] {
					wantRead[i] = true
				}

			default:
				desired[i] = desiredRegs{direction: true, pullUp: op.PullUp}
			}
		}
	}
	return desired, wantRead
}

// pushWrites diffs desired against the cache, kind by kind in writeOrder,
// and emits one bus write per kind whose target differs from cache in
// either bank — covering both banks in a single transaction when both
// changed.
func (r *Runner) pushWrites(desired [numPins]desiredRegs) (bool, error) {
	changed := false
	for _, spec := range writeOrder {
		wantA := bankByte(register.BankA, func(pin int) bool { return spec.want(desired[pin]) })
		wantB := bankByte(register.BankB, func(pin int) bool { return spec.want(desired[pin]) })
		curA := bankByte(register.BankA, func(pin int) bool { return spec.get(r.cache[pin]) })
		curB := bankByte(register.BankB, func(pin int) bool { return spec.get(r.cache[pin]) })

		chA := wantA != curA
		chB := wantB != curB
		if !chA && !chB {
			continue
		}

		addrA := register.AddressOf(spec.kind, register.BankA, register.Bank0)
		var payload []byte
		switch {
		case chA && chB:
			payload = []byte{addrA, wantA, wantB}
		case chA:
			payload = []byte{addrA, wantA}
		default:
			addrB := register.AddressOf(spec.kind, register.BankB, register.Bank0)
			payload = []byte{addrB, wantB}
		}
		if err := r.bus.Tx(r.addr, payload, nil); err != nil {
			return changed, fmt.Errorf("controller: writing %s: %w: %w", spec.kind, errs.ErrBusClosed, err)
		}

		for pin := 0; pin < numPins; pin++ {
			bank := register.BankOf(pin)
			if (bank == register.BankA && chA) || (bank == register.BankB && chB) {
				spec.set(&r.cache[pin], spec.want(desired[pin]))
			}
		}
		changed = true
	}
	return changed, nil
}

// serviceInterrupt checks the shared interrupt line and, if asserted,
// reads INTF then INTCAP for every bank with at least one armed pin.
// Reading INTCAP clears INTF for that bank, which is what de-asserts the
// line once every captured pin has been accounted for.
func (r *Runner) serviceInterrupt(desired [numPins]desiredRegs) (captured, capBit [numPins]bool, err error) {
	if r.irq == nil || r.irq.Get() {
		return captured, capBit, nil
	}

	var bankArmed [2]bool
	for i := 0; i < numPins; i++ {
		if desired[i].intEnabled {
			bankArmed[register.BankOf(i)] = true
		}
	}
	if !bankArmed[0] && !bankArmed[1] {
		return captured, capBit, nil
	}

	intf, err := r.readBanks(register.INTF, bankArmed)
	if err != nil {
		return captured, capBit, err
	}
	intcap, err := r.readBanks(register.INTCAP, bankArmed)
	if err != nil {
		return captured, capBit, err
	}

	for i := 0; i < numPins; i++ {
		bank := register.BankOf(i)
		if !bankArmed[bank] {
			continue
		}
		bit := byte(1) << register.BitOf(i)
		if intf[bank]&bit != 0 {
			captured[i] = true
			capBit[i] = intcap[bank]&bit != 0
		}
	}
	return captured, capBit, nil
}

// batchGPIORead reads GPIO for every bank that has at least one pin in
// wantRead, in a single transaction per needed bank pair.
func (r *Runner) batchGPIORead(wantRead [numPins]bool) (val, done [numPins]bool, err error) {
	var bankNeeded [2]bool
	for i := 0; i < numPins; i++ {
		if wantRead[i] {
			bankNeeded[register.BankOf(i)] = true
		}
	}
	if !bankNeeded[0] && !bankNeeded[1] {
		return val, done, nil
	}

	gpio, err := r.readBanks(register.GPIO, bankNeeded)
	if err != nil {
		return val, done, err
	}
	for i := 0; i < numPins; i++ {
		if !wantRead[i] {
			continue
		}
		bank := register.BankOf(i)
		bit := byte(1) << register.BitOf(i)
		val[i] = gpio[bank]&bit != 0
		done[i] = true
	}
	return val, done, nil
}

// readBanks reads kind for whichever of the two banks bankNeeded marks,
// batching both into one Tx when both are needed (the toggle address
// mode this part is configured in auto-advances from bank A to bank B
// after the first byte).
func (r *Runner) readBanks(kind register.Kind, bankNeeded [2]bool) ([2]byte, error) {
	var out [2]byte
	addrA := register.AddressOf(kind, register.BankA, register.Bank0)
	switch {
	case bankNeeded[0] && bankNeeded[1]:
		var rd [2]byte
		if err := r.bus.Tx(r.addr, []byte{addrA}, rd[:]); err != nil {
			return out, fmt.Errorf("controller: reading %s: %w: %w", kind, errs.ErrBusClosed, err)
		}
		out[0], out[1] = rd[0], rd[1]
	case bankNeeded[0]:
		var rd [1]byte
		if err := r.bus.Tx(r.addr, []byte{addrA}, rd[:]); err != nil {
			return out, fmt.Errorf("controller: reading %s: %w: %w", kind, errs.ErrBusClosed, err)
		}
		out[0] = rd[0]
	case bankNeeded[1]:
		addrB := register.AddressOf(kind, register.BankB, register.Bank0)
		var rd [1]byte
		if err := r.bus.Tx(r.addr, []byte{addrB}, rd[:]); err != nil {
			return out, fmt.Errorf("controller: reading %s: %w: %w", kind, errs.ErrBusClosed, err)
		}
		out[1] = rd[0]
	}
	return out, nil
}

// quiescentInput is the steady state a one-shot Input sub-operation
// reverts the runner's intent to once satisfied: configured per its
// pull-up, watching nothing.
func quiescentInput(pullUp bool) Op {
	return Op{Kind: OpInput, PullUp: pullUp, Sub: SubNone}
}

func (r *Runner) completePins(captured, capBit, readVal, readDone [numPins]bool) {
	for i := 0; i < numPins; i++ {
		op := r.intent[i]
		switch op.Kind {
		case OpOutput:
			if r.processing[i] {
				r.processing[i] = false
				r.slots[i].complete(op, Response{})
			}

		case OpWatch:
			r.completeWatch(i, op, captured[i], capBit[i], readVal[i], readDone[i])

		case OpInput:
			r.completeInput(i, op, captured[i], capBit[i], readVal[i], readDone[i])
		}
	}
}

func (r *Runner) completeWatch(i int, op Op, captured, capBit, readVal, readDone bool) {
	if !r.watchSeeded[i] {
		if !readDone {
			return
		}
		r.watchSeeded[i] = true
		v := readVal
		resp := Response{LastKnown: &v}
		if r.processing[i] {
			r.processing[i] = false
			r.slots[i].complete(op, resp)
		} else {
			r.slots[i].updateResponse(op, resp)
		}
		return
	}
	if captured {
		v := capBit
		r.slots[i].updateResponse(op, Response{LastKnown: &v})
	}
}

func (r *Runner) completeInput(i int, op Op, captured, capBit, readVal, readDone bool) {
	switch op.Sub {
	case SubNone:
		if r.processing[i] {
			r.processing[i] = false
			r.slots[i].complete(op, Response{})
		}

	case SubRead:
		if readDone && r.processing[i] {
			r.processing[i] = false
			r.slots[i].complete(op, Response{Bit: readVal})
			r.intent[i] = quiescentInput(op.PullUp)
		}

	case SubWaitForState:
		if r.waitStatePrecheck[i] && readDone {
			r.waitStatePrecheck[i] = false
			if readVal == op.Target && r.processing[i] {
				r.processing[i] = false
				r.slots[i].complete(op, Response{Bit: readVal})
				r.intent[i] = quiescentInput(op.PullUp)
				return
			}
		}
		if r.processing[i] && captured {
			r.processing[i] = false
			r.slots[i].complete(op, Response{Bit: capBit})
			r.intent[i] = quiescentInput(op.PullUp)
		}

	case SubWaitForAnyEdge:
		if r.needsBaseline[i] && readDone {
			r.needsBaseline[i] = false
		}
		if r.processing[i] && captured {
			r.processing[i] = false
			r.slots[i].complete(op, Response{Bit: capBit})
			r.intent[i] = quiescentInput(op.PullUp)
		}

	case SubWaitForSpecificEdge:
		if r.needsBaseline[i] && readDone {
			r.needsBaseline[i] = false
		}
		if r.processing[i] && captured && capBit == op.Target {
			r.processing[i] = false
			r.slots[i].complete(op, Response{Bit: capBit})
			r.intent[i] = quiescentInput(op.PullUp)
		}
		// an edge that doesn't match Target is an intermediate edge;
		// the op stays Processing and computeDeltas keeps GPINTEN
		// enabled for it, so the next edge is captured once reading
		// INTCAP has cleared INTF.
	}
}
