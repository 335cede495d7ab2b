// Command mcp23017sim wires a controller.Device to an in-process
// peripheral.Core instead of a real I²C bus, for exercising the driver's
// behavior without hardware. It drives pin 0 as an output, puts pin 1 in
// watch mode, and logs what it observes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jangala-dev/mcp23017/controller"
	"github.com/jangala-dev/mcp23017/iopin"
	"github.com/jangala-dev/mcp23017/peripheral"
)

// wire is a fake electrical connection between two pins. It implements
// iopin.IRQPin for the controller side and peripheral.InterruptPin for the
// peripheral side, so the same value can sit on both ends of a simulated
// INTA/INTB line.
type wire struct {
	level     bool
	openDrain bool
	handler   func()
}

func (w *wire) ConfigureInput(iopin.Pull) error    { return nil }
func (w *wire) ConfigureOutput(initial bool) error { w.level = initial; return nil }
func (w *wire) Set(level bool) {
	if level == w.level {
		return
	}
	w.level = level
	if w.handler != nil {
		w.handler()
	}
}
func (w *wire) Get() bool   { return w.level }
func (w *wire) Number() int { return 0 }
func (w *wire) SetIRQ(_ iopin.Edge, handler func()) error {
	w.handler = handler
	return nil
}
func (w *wire) ClearIRQ() error { w.handler = nil; return nil }
func (w *wire) ConfigureOpenDrain(openDrain bool) { w.openDrain = openDrain }

func main() {
	logger := log.New(os.Stdout, "mcp23017sim: ", log.LstdFlags)

	core := peripheral.NewCore(coreLogger{logger})
	irq := &wire{level: true}
	core.SetInterruptPins(irq, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dev := controller.NewDevice(ctx, core, 0x20, irq, nil)
	go core.Run(ctx, time.Millisecond)

	led, err := dev.Pins[0].IntoOutput(ctx, false)
	if err != nil {
		logger.Fatalf("pin 0 into output: %v", err)
	}
	led.SetState(true)

	button, err := dev.Pins[1].IntoWatch(ctx, true)
	if err != nil {
		logger.Fatalf("pin 1 into watch: %v", err)
	}
	if level, known := button.WatchedValue(); known {
		logger.Printf("pin 1 initial level: %v", level)
	}

	select {
	case <-ctx.Done():
	case <-dev.Done():
		logger.Printf("device stopped: %v", dev.Err())
	}
	fmt.Println("done")
}

type coreLogger struct{ l *log.Logger }

func (c coreLogger) Warnf(format string, args ...any) { c.l.Printf(format, args...) }
