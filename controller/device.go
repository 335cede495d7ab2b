package controller

import (
	"context"
	"time"

	"github.com/jangala-dev/mcp23017/controller/errs"
	"github.com/jangala-dev/mcp23017/iopin"
)

// Device wires a Runner to its 16 handles and runs it on its own
// goroutine, exposing the runner's terminal error once it stops.
// Handles remain usable (their calls will simply never complete) after
// the runner terminates; callers that care should select on Done()
// alongside their own operations.
type Device struct {
	Runner *Runner
	Pins   [numPins]Handle

	done chan struct{}
	err  error
}

// NewDevice starts a Runner for the given bus/address/pins and returns
// immediately; the runner's startup sequence (reset pulse, IOCON write)
// runs on its own goroutine, not before NewDevice returns.
func NewDevice(ctx context.Context, bus Bus, addr uint16, irq iopin.IRQPin, reset iopin.OutputPin) *Device {
	r, handles := NewRunner(bus, addr, irq, reset, time.Sleep)
	d := &Device{Runner: r, Pins: handles, done: make(chan struct{})}
	go func() {
		d.err = r.Run(ctx)
		close(d.done)
	}()
	return d
}

// Pin returns the handle for pin index i.
func (d *Device) Pin(i int) (Handle, error) {
	if i < 0 || i >= numPins {
		return Handle{}, errs.ErrPinIndex
	}
	return d.Pins[i], nil
}

// Done reports when the runner has terminated, successfully or not.
func (d *Device) Done() <-chan struct{} { return d.done }

// Err returns the runner's terminal error. It is only meaningful after
// Done() has fired; nil means a clean shutdown via context cancellation.
func (d *Device) Err() error { return d.err }
