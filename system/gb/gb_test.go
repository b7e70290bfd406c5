package gb

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

// nopROM builds a minimal 32KB ROM-only cartridge of LR35902 NOPs. The
// CPU's reset vector is $0100, matching the post-boot-ROM handoff point
// this core treats as its own reset vector.
func nopROM() []byte {
	rom := make([]byte, 32*1024)
	return rom // 0x00 is already an LR35902 NOP
}

func TestNewSystemStartsAtBootHandoffAndRunsNOPs(t *testing.T) {
	s, err := NewSystem(nopROM(), nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.CPU.PC, uint16(0x0100))

	for i := 0; i < 64; i++ {
		if err := s.TickOne(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	test.ExpectEquality(t, s.CPU.Halted, false)
}

func TestSetInputsDrivesActiveLowJoypadMatrix(t *testing.T) {
	s, err := NewSystem(nopROM(), nil)
	test.ExpectSuccess(t, err)

	s.SetInputs(ButtonUp | ButtonA)

	s.Bus.Write(0xff00, 0x20) // bit4=0: select direction keys
	v, err := s.Bus.Read(0xff00)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0xeb)) // Up (bit2) reads low, others high

	s.Bus.Write(0xff00, 0x10) // bit5=0: select button keys
	v, _ = s.Bus.Read(0xff00)
	test.ExpectEquality(t, v, uint8(0xde)) // A (bit0) reads low
}

func TestJoypadPressRequestsInterruptWhenGroupSelected(t *testing.T) {
	s, err := NewSystem(nopROM(), nil)
	test.ExpectSuccess(t, err)

	s.Bus.Write(0xff00, 0x20) // bit4=0: direction keys selected
	s.SetInputs(ButtonDown)
	pending, _ := s.Bus.Read(0xff0f)
	test.ExpectEquality(t, pending&0x10, uint8(0x10))
}

func TestTimerOverflowRequestsIntTimer(t *testing.T) {
	s, err := NewSystem(nopROM(), nil)
	test.ExpectSuccess(t, err)

	s.Bus.Write(0xff06, 0x10) // TMA reload value
	s.Bus.Write(0xff07, 0x05) // enabled, divisor 16 (fastest)
	s.Bus.Write(0xff05, 0xff) // one tick from overflow

	requested := false
	for i := 0; i < 20 && !requested; i++ {
		requested = s.Bus.Timer.tick(tcyclesPerMCycle)
	}
	test.ExpectEquality(t, requested, true)
	test.ExpectEquality(t, s.Bus.Timer.tima, uint8(0x10))
}

func TestOAMDMACopiesWRAMSourceIntoOAM(t *testing.T) {
	s, err := NewSystem(nopROM(), nil)
	test.ExpectSuccess(t, err)

	s.Bus.Write(0xc000, 0xaa) // source page $C000, first byte
	s.Bus.Write(0xff46, 0xc0) // start OAM DMA from $C000

	for i := 0; i < 160; i++ {
		s.Bus.tickOAMDMA()
	}
	v := s.PPU.ReadOAM(0xfe00)
	test.ExpectEquality(t, v, uint8(0xaa))
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	s, err := NewSystem(nopROM(), nil)
	test.ExpectSuccess(t, err)

	for i := 0; i < 8; i++ {
		test.ExpectSuccess(t, s.TickOne())
	}
	saved, err := s.SaveState()
	test.ExpectSuccess(t, err)
	pcAtSave := s.CPU.PC

	for i := 0; i < 8; i++ {
		test.ExpectSuccess(t, s.TickOne())
	}
	if s.CPU.PC == pcAtSave {
		t.Fatalf("expected PC to have advanced past the save point")
	}

	test.ExpectSuccess(t, s.LoadState(saved))
	test.ExpectEquality(t, s.CPU.PC, pcAtSave)
}
