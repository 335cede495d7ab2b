package register

import "testing"

func TestAddressRoundTrip(t *testing.T) {
	kinds := []Kind{IODIR, IPOL, GPINTEN, DEFVAL, INTCON, IOCON, GPPU, INTF, INTCAP, GPIO, OLAT}
	for _, mode := range []Mode{Bank0, Bank1} {
		for _, k := range kinds {
			for _, bank := range []Bank{BankA, BankB} {
				addr := AddressOf(k, bank, mode)
				gotK, gotB, ok := FromAddress(addr, mode)
				if !ok {
					t.Fatalf("mode=%v kind=%v bank=%v: address %#02x rejected", mode, k, bank, addr)
				}
				if gotK != k || gotB != bank {
					t.Fatalf("mode=%v kind=%v bank=%v: FromAddress(%#02x) = (%v, %v)", mode, k, bank, addr, gotK, gotB)
				}
			}
		}
	}
}

func TestIOCONHasTwoDistinctAliasAddresses(t *testing.T) {
	for _, mode := range []Mode{Bank0, Bank1} {
		a := AddressOf(IOCON, BankA, mode)
		b := AddressOf(IOCON, BankB, mode)
		if a == b {
			t.Fatalf("mode=%v: IOCON A/B addresses coincide (%#02x)", mode, a)
		}
	}
}

func TestFromAddressRejectsOutOfRange(t *testing.T) {
	if _, _, ok := FromAddress(22, Bank0); ok {
		t.Fatal("address 22 should be rejected")
	}
	if _, _, ok := FromAddress(255, Bank1); ok {
		t.Fatal("address 255 should be rejected")
	}
}
