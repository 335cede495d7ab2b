package peripheral

import (
	"testing"

	"github.com/jangala-dev/mcp23017/register"
)

func TestAdvanceModeFor(t *testing.T) {
	cases := []struct {
		name  string
		seqop bool
		mode  register.Mode
		want  AdvanceMode
	}{
		{"seqop set, bank0", true, register.Bank0, AdvanceCycle},
		{"seqop set, bank1", true, register.Bank1, AdvanceCycle},
		{"seqop clear, bank0", false, register.Bank0, AdvanceToggle},
		{"seqop clear, bank1", false, register.Bank1, AdvanceFixed},
	}
	for _, c := range cases {
		if got := AdvanceModeFor(c.seqop, c.mode); got != c.want {
			t.Errorf("%s: AdvanceModeFor(%v, %v) = %v, want %v", c.name, c.seqop, c.mode, got, c.want)
		}
	}
}

func TestAdvanceFixed(t *testing.T) {
	if got := Advance(5, AdvanceFixed); got != 5 {
		t.Fatalf("AdvanceFixed should never move the pointer, got %d", got)
	}
}

func TestAdvanceToggle(t *testing.T) {
	if got := Advance(0, AdvanceToggle); got != 1 {
		t.Fatalf("Advance(0, AdvanceToggle) = %d, want 1", got)
	}
	if got := Advance(1, AdvanceToggle); got != 0 {
		t.Fatalf("Advance(1, AdvanceToggle) = %d, want 0", got)
	}
}

func TestAdvanceCycle(t *testing.T) {
	if got := Advance(0, AdvanceCycle); got != 1 {
		t.Fatalf("Advance(0, AdvanceCycle) = %d, want 1", got)
	}
	if got := Advance(lastAddress, AdvanceCycle); got != 0 {
		t.Fatalf("Advance(lastAddress, AdvanceCycle) = %d, want wraparound to 0", got)
	}
}
