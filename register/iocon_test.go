package register

import "testing"

func TestIOCONEncodeDecodeRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		got := EncodeIOCON(DecodeIOCON(byte(v)))
		if got != byte(v) {
			t.Fatalf("round trip for %#x produced %#x", v, got)
		}
	}
}

func TestIOCONFlagBits(t *testing.T) {
	f := DecodeIOCON(StartupIOCON)
	if !f.Mirror || !f.ODR {
		t.Fatalf("expected MIRROR and ODR set in startup IOCON, got %+v", f)
	}
	if f.Bank || f.Seqop || f.Intpol {
		t.Fatalf("expected BANK, SEQOP and INTPOL clear in startup IOCON, got %+v", f)
	}
}

func TestIOCONAddrMode(t *testing.T) {
	if DecodeIOCON(0).AddrMode() != Bank0 {
		t.Fatalf("expected Bank0 addressing when BANK bit clear")
	}
	if DecodeIOCON(1 << IOCONBank).AddrMode() != Bank1 {
		t.Fatalf("expected Bank1 addressing when BANK bit set")
	}
}

func TestIOCONPreservesUnrecognizedBits(t *testing.T) {
	// bit 0 isn't one of the flags this package interprets.
	f := DecodeIOCON(0b0000_0001)
	if f.Raw&1 == 0 {
		t.Fatalf("expected unrecognized bit 0 preserved in Raw")
	}
	if EncodeIOCON(f)&1 == 0 {
		t.Fatalf("expected unrecognized bit 0 round-tripped through EncodeIOCON")
	}
}
