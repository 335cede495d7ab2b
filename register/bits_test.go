package register

import "testing"

func TestBitPackingRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := byte(v)
		if got := ByteOfBits(BitsOfByte(b)); got != b {
			t.Fatalf("ByteOfBits(BitsOfByte(%#02x)) = %#02x", b, got)
		}
	}
}

func TestBitsOfByteBitOrder(t *testing.T) {
	bits := BitsOfByte(0b0000_0101)
	want := Bits8{true, false, true, false, false, false, false, false}
	if bits != want {
		t.Fatalf("BitsOfByte(0x05) = %+v, want %+v", bits, want)
	}
}

func TestBankAndBit(t *testing.T) {
	cases := []struct {
		pin        int
		bank       Bank
		bit        uint
	}{
		{0, BankA, 0},
		{7, BankA, 7},
		{8, BankB, 0},
		{15, BankB, 7},
	}
	for _, c := range cases {
		if got := BankOf(c.pin); got != c.bank {
			t.Errorf("BankOf(%d) = %v, want %v", c.pin, got, c.bank)
		}
		if got := BitOf(c.pin); got != c.bit {
			t.Errorf("BitOf(%d) = %v, want %v", c.pin, got, c.bit)
		}
		if got := PinOf(c.bank, c.bit); got != c.pin {
			t.Errorf("PinOf(%v, %v) = %d, want %d", c.bank, c.bit, got, c.pin)
		}
	}
}
