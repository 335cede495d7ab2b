// Package errs holds the controller's sentinel errors. A plain
// errors.New sentinel per failure mode is simpler than a string-newtype
// error-code scheme when the whole set fits in one file and callers only
// ever need errors.Is.
package errs

import "errors"

var (
	// ErrBusClosed is returned by the runner when the I²C bus reports an
	// error the runner cannot recover from mid-iteration.
	ErrBusClosed = errors.New("controller: i2c bus unavailable")

	// ErrInterruptPin is returned if arming the shared interrupt input
	// fails during startup.
	ErrInterruptPin = errors.New("controller: interrupt pin unavailable")

	// ErrPinIndex is returned by Device.Pin for an out-of-range index.
	ErrPinIndex = errors.New("controller: pin index out of range")
)
