package controller

import "context"

// Handle is the private state every typed pin handle shares: a reference
// to its slot and its pin index. The mode polymorphism is expressed as
// three concrete handle kinds sharing this private reference, rather than
// an inheritance hierarchy or phantom-typed parameter.
type Handle struct {
	slot  *slot
	index int
}

// Index returns the pin number this handle addresses (0..15).
func (h Handle) Index() int { return h.index }

// IntoOutput transitions the pin to Output(initial) and waits for the
// runner to apply it.
func (h Handle) IntoOutput(ctx context.Context, initial bool) (OutputPin, error) {
	op := Op{Kind: OpOutput, Latch: initial}
	h.slot.publish(op)
	if _, ok := h.slot.awaitDone(ctx, op); !ok {
		return OutputPin{}, ctx.Err()
	}
	return OutputPin{Handle: h}, nil
}

// IntoInput transitions the pin to Input(pullUp) and waits for the runner
// to apply it.
func (h Handle) IntoInput(ctx context.Context, pullUp bool) (InputPin, error) {
	op := Op{Kind: OpInput, PullUp: pullUp, Sub: SubNone}
	h.slot.publish(op)
	if _, ok := h.slot.awaitDone(ctx, op); !ok {
		return InputPin{}, ctx.Err()
	}
	return InputPin{Handle: h}, nil
}

// IntoWatch transitions the pin to Watch(pullUp) and waits both for the
// runner to apply it and for the first last_known sample to arrive.
func (h Handle) IntoWatch(ctx context.Context, pullUp bool) (WatchPin, error) {
	op := Op{Kind: OpWatch, PullUp: pullUp}
	h.slot.publish(op)
	resp, ok := h.slot.awaitDone(ctx, op)
	if !ok {
		return WatchPin{}, ctx.Err()
	}
	for resp.LastKnown == nil {
		resp, ok = h.slot.awaitUpdate(ctx, op)
		if !ok {
			if err := ctx.Err(); err != nil {
				return WatchPin{}, err
			}
			// op was superseded before last_known ever populated; the
			// caller raced another transition on the same handle.
			return WatchPin{}, context.Canceled
		}
	}
	return WatchPin{Handle: h}, nil
}

// OutputPin is a handle narrowed to the Output mode's operations.
type OutputPin struct{ Handle }

// SetState publishes a new latch value. It does not wait for the write to
// land; use the runner's next Watch/Input transition or device inspection
// to observe completion if that matters to the caller.
func (p OutputPin) SetState(high bool) {
	p.slot.publish(Op{Kind: OpOutput, Latch: high})
}

// IsSetState reports whether the slot's currently requested/applied latch
// value is high, read synchronously from the slot (no bus access).
func (p OutputPin) IsSetState(high bool) bool {
	op := p.slot.currentOp()
	return op.Kind == OpOutput && op.Latch == high
}

// InputPin is a handle narrowed to the Input mode's operations.
type InputPin struct{ Handle }

// State publishes a one-shot read request and waits for the sampled bit.
func (p InputPin) State(ctx context.Context) (bool, error) {
	op := Op{Kind: OpInput, PullUp: p.pullUp(), Sub: SubRead}
	p.slot.publish(op)
	resp, ok := p.slot.awaitDone(ctx, op)
	if !ok {
		return false, ctx.Err()
	}
	return resp.Bit, nil
}

// WaitForState blocks until the pin reads as level.
func (p InputPin) WaitForState(ctx context.Context, level bool) error {
	op := Op{Kind: OpInput, PullUp: p.pullUp(), Sub: SubWaitForState, Target: level}
	p.slot.publish(op)
	_, ok := p.slot.awaitDone(ctx, op)
	if !ok {
		return ctx.Err()
	}
	return nil
}

// WaitForAnyEdge blocks until any input-change interrupt is captured for
// this pin.
func (p InputPin) WaitForAnyEdge(ctx context.Context) error {
	op := Op{Kind: OpInput, PullUp: p.pullUp(), Sub: SubWaitForAnyEdge}
	p.slot.publish(op)
	_, ok := p.slot.awaitDone(ctx, op)
	if !ok {
		return ctx.Err()
	}
	return nil
}

// WaitForSpecificEdge blocks until an edge is captured whose INTCAP value
// equals final. Intermediate edges that don't match final re-arm
// transparently.
func (p InputPin) WaitForSpecificEdge(ctx context.Context, final bool) error {
	op := Op{Kind: OpInput, PullUp: p.pullUp(), Sub: SubWaitForSpecificEdge, Target: final}
	p.slot.publish(op)
	_, ok := p.slot.awaitDone(ctx, op)
	if !ok {
		return ctx.Err()
	}
	return nil
}

func (p InputPin) pullUp() bool { return p.slot.currentOp().PullUp }

// WatchPin is a handle narrowed to the Watch mode's operations.
type WatchPin struct{ Handle }

// WatchedValue reads last_known synchronously, without blocking.
func (p WatchPin) WatchedValue() (level bool, known bool) {
	_, _, resp := p.slot.peek()
	if resp.LastKnown == nil {
		return false, false
	}
	return *resp.LastKnown, true
}

// Watch blocks until the next change to last_known.
func (p WatchPin) Watch(ctx context.Context) (bool, error) {
	op := p.slot.currentOp()
	resp, ok := p.slot.awaitUpdate(ctx, op)
	if !ok {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return false, context.Canceled
	}
	if resp.LastKnown == nil {
		return false, nil
	}
	return *resp.LastKnown, nil
}
