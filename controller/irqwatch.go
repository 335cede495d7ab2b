package controller

import "github.com/jangala-dev/mcp23017/iopin"

// irqWatcher turns the shared, level-triggered interrupt line into an
// edge-triggered wake channel the runner's idle select can block on,
// adapted from a worker's ISR-to-channel hand-off: the interrupt handler
// itself must never block, so it only ever attempts a non-blocking send.
type irqWatcher struct {
	pin iopin.IRQPin
	ch  chan struct{}
}

func newIRQWatcher(pin iopin.IRQPin) (*irqWatcher, error) {
	w := &irqWatcher{pin: pin, ch: make(chan struct{}, 1)}
	if err := pin.SetIRQ(iopin.EdgeFalling, w.signal); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *irqWatcher) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *irqWatcher) events() <-chan struct{} { return w.ch }

func (w *irqWatcher) stop() error { return w.pin.ClearIRQ() }
