// Package iopin holds the small GPIO/interrupt pin contracts both the
// controller and peripheral cores depend on. The concrete pin
// implementations (sysfs, a microcontroller's machine package, a physical
// simulation) are external collaborators; this package only names the
// capability surface.
package iopin

// Pull is the input pull configuration of a pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selects which transitions an IRQPin reports.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// Pin is a single GPIO line that can be driven or observed.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// IRQPin extends Pin with edge-triggered interrupts. SetIRQ's handler runs
// on whatever context the underlying platform delivers interrupts on and
// must not block; callers that need blocking semantics arrange their own
// hand-off (see controller/irqwatch.go).
type IRQPin interface {
	Pin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// OutputPin is the minimal capability needed to drive the controller's
// reset line.
type OutputPin interface {
	Set(level bool)
}
