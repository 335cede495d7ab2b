package register

// IOCON bit positions.
const (
	IOCONBank   = 7
	IOCONMirror = 6
	IOCONSeqop  = 5
	IOCONODR    = 2
	IOCONIntpol = 1
)

// IOCONFlags decodes the handful of IOCON bits this repository cares about.
// Reserved bits are round-tripped through Raw but otherwise ignored.
type IOCONFlags struct {
	Bank   bool // BANK: address map layout
	Mirror bool // MIRROR: OR the two interrupt outputs together
	Seqop  bool // SEQOP: 0 = address pointer does not auto-increment on its own (see AdvanceMode)
	ODR    bool // ODR: interrupt pin is open-drain
	Intpol bool // INTPOL: active level of the interrupt pin, independent of ODR
	Raw    byte // full byte, including unrecognized bits, for round-tripping
}

// DecodeIOCON extracts the flags this repository interprets from a raw
// IOCON byte.
func DecodeIOCON(v byte) IOCONFlags {
	return IOCONFlags{
		Bank:   v&(1<<IOCONBank) != 0,
		Mirror: v&(1<<IOCONMirror) != 0,
		Seqop:  v&(1<<IOCONSeqop) != 0,
		ODR:    v&(1<<IOCONODR) != 0,
		Intpol: v&(1<<IOCONIntpol) != 0,
		Raw:    v,
	}
}

// EncodeIOCON rebuilds a raw IOCON byte from flags, preserving any
// unrecognized bits carried in Raw.
func EncodeIOCON(f IOCONFlags) byte {
	v := f.Raw
	v = setBit(v, IOCONBank, f.Bank)
	v = setBit(v, IOCONMirror, f.Mirror)
	v = setBit(v, IOCONSeqop, f.Seqop)
	v = setBit(v, IOCONODR, f.ODR)
	v = setBit(v, IOCONIntpol, f.Intpol)
	return v
}

func setBit(v byte, pos int, set bool) byte {
	if set {
		return v | (1 << uint(pos))
	}
	return v &^ (1 << uint(pos))
}

// StartupIOCON is the value the controller writes at startup: MIRROR=1,
// ODR=1, everything else clear.
const StartupIOCON byte = 0b0100_0100

// AddrMode reports the addressing mode implied by the BANK flag.
func (f IOCONFlags) AddrMode() Mode {
	if f.Bank {
		return Bank1
	}
	return Bank0
}
