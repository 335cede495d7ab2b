package controller

import "tinygo.org/x/drivers"

// Bus is the I²C transport the runner owns exclusively. It is exactly
// tinygo.org/x/drivers.I2C's shape, reused directly rather than wrapped,
// since that is already the bus contract this repo family's device
// drivers are built against.
type Bus = drivers.I2C

// Address computes the 7-bit I²C device address from the three hardware
// address-select lines: 0x20 | (a2<<2) | (a1<<1) | a0.
func Address(a2, a1, a0 bool) uint16 {
	addr := uint16(0x20)
	if a2 {
		addr |= 1 << 2
	}
	if a1 {
		addr |= 1 << 1
	}
	if a0 {
		addr |= 1
	}
	return addr
}
