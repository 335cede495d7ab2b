package peripheral

import (
	"testing"

	"github.com/jangala-dev/mcp23017/iopin"
	"github.com/jangala-dev/mcp23017/register"
)

type fakePin struct {
	level     bool
	isInput   bool
	pull      iopin.Pull
	openDrain bool
}

func (p *fakePin) ConfigureInput(pull iopin.Pull) error {
	p.isInput = true
	p.pull = pull
	return nil
}
func (p *fakePin) ConfigureOutput(initial bool) error {
	p.isInput = false
	p.level = initial
	return nil
}
func (p *fakePin) Set(level bool)                 { p.level = level }
func (p *fakePin) Get() bool                       { return p.level }
func (p *fakePin) Number() int                     { return 0 }
func (p *fakePin) ConfigureOpenDrain(openDrain bool) { p.openDrain = openDrain }

func TestCoreResetDefaults(t *testing.T) {
	c := NewCore(nil)
	var got [1]byte
	addr := register.AddressOf(register.IODIR, register.BankA, register.Bank0)
	if err := c.Tx(0x20, []byte{addr}, got[:]); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0xFF {
		t.Fatalf("expected IODIR bank A to reset to all-input (0xFF), got %#x", got[0])
	}
}

func TestCoreOutputWriteDrivesPin(t *testing.T) {
	c := NewCore(nil)
	pin := &fakePin{}
	if err := c.SetPin(0, pin); err != nil {
		t.Fatal(err)
	}

	iodirAddr := register.AddressOf(register.IODIR, register.BankA, register.Bank0)
	if err := c.Tx(0x20, []byte{iodirAddr, 0xFE}, nil); err != nil { // pin 0 -> output
		t.Fatal(err)
	}
	olatAddr := register.AddressOf(register.OLAT, register.BankA, register.Bank0)
	if err := c.Tx(0x20, []byte{olatAddr, 0x01}, nil); err != nil {
		t.Fatal(err)
	}
	if !pin.Get() {
		t.Fatalf("expected pin 0 driven high after OLAT write")
	}
}

func TestCoreInputReadReflectsPinLevel(t *testing.T) {
	c := NewCore(nil)
	pin := &fakePin{level: true}
	if err := c.SetPin(3, pin); err != nil {
		t.Fatal(err)
	}
	gpioAddr := register.AddressOf(register.GPIO, register.BankA, register.Bank0)
	var got [1]byte
	if err := c.Tx(0x20, []byte{gpioAddr}, got[:]); err != nil {
		t.Fatal(err)
	}
	if got[0]&(1<<3) == 0 {
		t.Fatalf("expected GPIO bit 3 set, got %#x", got[0])
	}
}

func TestCoreGPIOReadClearsINTF(t *testing.T) {
	c := NewCore(nil)
	pin := &fakePin{}
	if err := c.SetPin(0, pin); err != nil {
		t.Fatal(err)
	}

	gpintenAddr := register.AddressOf(register.GPINTEN, register.BankA, register.Bank0)
	if err := c.Tx(0x20, []byte{gpintenAddr, 0x01}, nil); err != nil {
		t.Fatal(err)
	}

	pin.Set(true)
	c.pollEdges()

	intfAddr := register.AddressOf(register.INTF, register.BankA, register.Bank0)
	var intf [1]byte
	if err := c.Tx(0x20, []byte{intfAddr}, intf[:]); err != nil {
		t.Fatal(err)
	}
	if intf[0]&1 == 0 {
		t.Fatalf("expected INTF bit 0 set after edge")
	}

	gpioAddr := register.AddressOf(register.GPIO, register.BankA, register.Bank0)
	var gpio [1]byte
	if err := c.Tx(0x20, []byte{gpioAddr}, gpio[:]); err != nil {
		t.Fatal(err)
	}

	if err := c.Tx(0x20, []byte{intfAddr}, intf[:]); err != nil {
		t.Fatal(err)
	}
	if intf[0]&1 != 0 {
		t.Fatalf("expected INTF bit 0 cleared after GPIO read, got %#x", intf[0])
	}
}

func TestCoreIOCONDualAddressAliasing(t *testing.T) {
	c := NewCore(nil)
	addrA := register.AddressOf(register.IOCON, register.BankA, register.Bank0)
	addrB := register.AddressOf(register.IOCON, register.BankB, register.Bank0)
	if addrA == addrB {
		t.Fatalf("expected IOCON to have two distinct addresses")
	}
	if err := c.Tx(0x20, []byte{addrA, register.StartupIOCON}, nil); err != nil {
		t.Fatal(err)
	}
	var got [1]byte
	if err := c.Tx(0x20, []byte{addrB}, got[:]); err != nil {
		t.Fatal(err)
	}
	if got[0] != register.StartupIOCON {
		t.Fatalf("expected IOCON read via alias address to show the same value, got %#x", got[0])
	}
}

func TestCoreInterruptPinPolarityIndependentOfDriveMode(t *testing.T) {
	c := NewCore(nil)
	intA := &fakePin{level: true}
	c.SetInterruptPins(intA, nil)

	pin := &fakePin{}
	if err := c.SetPin(0, pin); err != nil {
		t.Fatal(err)
	}
	gpintenAddr := register.AddressOf(register.GPINTEN, register.BankA, register.Bank0)
	if err := c.Tx(0x20, []byte{gpintenAddr, 0x01}, nil); err != nil {
		t.Fatal(err)
	}

	// ODR=1, INTPOL=1: open-drain drive mode, active-high polarity.
	iconAddr := register.AddressOf(register.IOCON, register.BankA, register.Bank0)
	flags := register.IOCONFlags{ODR: true, Intpol: true}
	if err := c.Tx(0x20, []byte{iconAddr, register.EncodeIOCON(flags)}, nil); err != nil {
		t.Fatal(err)
	}

	pin.Set(true)
	c.pollEdges()

	if !intA.openDrain {
		t.Fatalf("expected ODR=1 to configure the interrupt pin open-drain")
	}
	if !intA.Get() {
		t.Fatalf("expected INTPOL=1 to drive the interrupt pin high when asserted, regardless of ODR")
	}
}

func TestCoreBank0ToggleAdvance(t *testing.T) {
	c := NewCore(nil)
	addrA := register.AddressOf(register.IODIR, register.BankA, register.Bank0)
	var got [2]byte
	if err := c.Tx(0x20, []byte{addrA}, got[:]); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0xFF || got[1] != 0xFF {
		t.Fatalf("expected both banks to read as all-input after toggle advance, got %#x %#x", got[0], got[1])
	}
}
