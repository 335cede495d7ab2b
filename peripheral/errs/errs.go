// Package errs holds the peripheral's sentinel errors. Protocol-level
// issues (an invalid register address on the wire) are warnings reported
// through peripheral.Logger rather than errors, since real hardware
// doesn't abort a bus transaction for them either; the sentinels here
// cover the few conditions that do abort construction.
package errs

import "errors"

// ErrPinIndex is returned by any peripheral constructor helper given an
// out-of-range pin index.
var ErrPinIndex = errors.New("peripheral: pin index out of range")
