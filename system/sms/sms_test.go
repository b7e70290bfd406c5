package sms

import (
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

// nopROM builds a minimal unbanked 32KB ROM of Z80 NOPs: the Z80 resets
// to PC=0 and starts executing directly out of cartridge ROM, so no
// reset-vector indirection is needed the way the NES/Genesis shells
// need.
func nopROM() []byte {
	rom := make([]byte, 32*1024)
	return rom // 0x00 is already a Z80 NOP
}

func testConfig() prefs.Config {
	cfg := prefs.DefaultConfig()
	cfg.ForcedRegion = prefs.RegionNTSC
	return cfg
}

func TestNewSystemStartsAtZeroAndRunsNOPs(t *testing.T) {
	s, err := NewSystem(nopROM(), testConfig(), nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.CPU.PC, uint16(0x0000))

	for i := 0; i < 64; i++ {
		if err := s.TickOne(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	test.ExpectEquality(t, s.CPU.Halted, false)
}

func TestSetInputsDrivesActiveLowControllerPorts(t *testing.T) {
	s, err := NewSystem(nopROM(), testConfig(), nil)
	test.ExpectSuccess(t, err)

	s.SetInputs(Inputs{Pad1: ButtonUp | ButtonButton1})

	v, err := s.Bus.In(0xdc)
	test.ExpectSuccess(t, err)
	// Up (bit0) and Button1 (bit4) pressed: those bits read low, all
	// others (including the idle pad2 Up/Down in bits 6-7) read high.
	test.ExpectEquality(t, v, uint8(0xee))

	v, err = s.Bus.In(0xdd)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0xff)) // pad2 idle, reset/region bits unmodeled
}

func TestPausePressEdgeLatchesNMIOnce(t *testing.T) {
	s, err := NewSystem(nopROM(), testConfig(), nil)
	test.ExpectSuccess(t, err)

	s.SetInputs(Inputs{PausePressed: true})
	test.ExpectEquality(t, s.Bus.NMI(), true)
	s.Bus.AcknowledgeNMI()
	test.ExpectEquality(t, s.Bus.NMI(), false)

	// holding Pause down without a new press edge does not re-latch NMI
	s.SetInputs(Inputs{PausePressed: true})
	test.ExpectEquality(t, s.Bus.NMI(), false)
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	s, err := NewSystem(nopROM(), testConfig(), nil)
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

func TestVCounterJumpsPastLine218(t *testing.T) {
	test.ExpectEquality(t, vCounter(0), uint8(0x00))
	test.ExpectEquality(t, vCounter(218), uint8(218))
	test.ExpectEquality(t, vCounter(219), uint8(0xd5))
	test.ExpectEquality(t, vCounter(261), uint8(0xff))
}
