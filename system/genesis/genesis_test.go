package genesis

import (
	"encoding/binary"
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

// nopROM builds a minimal cartridge image: the whole body is 68000 NOP
// opcodes ($4E71) except for a reset vector pointing at the first one, so
// a System built from it can be ticked indefinitely without hitting an
// unimplemented opcode.
func nopROM(size int) []byte {
	rom := make([]byte, size)
	for i := 0; i+1 < size; i += 2 {
		rom[i], rom[i+1] = 0x4e, 0x71
	}
	binary.BigEndian.PutUint32(rom[0:4], 0xfff000) // initial SSP
	binary.BigEndian.PutUint32(rom[4:8], 0x000100) // initial PC, into the NOP field
	return rom
}

func testConfig() prefs.Config {
	cfg := prefs.DefaultConfig()
	cfg.ForcedRegion = prefs.RegionNTSC
	return cfg
}

func TestNewSystemLoadsResetVectorAndRunsNOPs(t *testing.T) {
	s, err := NewSystem(nopROM(0x300), testConfig(), false, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.CPU.A[7], uint32(0xfff000))
	test.ExpectEquality(t, s.CPU.PC, uint32(0x000100))

	for i := 0; i < 64; i++ {
		if err := s.TickOne(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	test.ExpectEquality(t, s.CPU.Halted, false)
}

func TestSetInputsLatchesActiveLowControllerBytes(t *testing.T) {
	s, err := NewSystem(nopROM(0x300), testConfig(), false, nil)
	test.ExpectSuccess(t, err)

	s.SetInputs(Inputs{Pad1: ButtonA | ButtonStart})
	v, err := s.Bus.ReadByte(0xa10002)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, ^uint8(ButtonA|ButtonStart))
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	s, err := NewSystem(nopROM(0x300), testConfig(), false, nil)
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

func TestGenesisCartridgeROMReadIsLinear(t *testing.T) {
	rom := nopROM(0x300)
	s, err := NewSystem(rom, testConfig(), false, nil)
	test.ExpectSuccess(t, err)

	v, err := s.Bus.ReadByte(0x100)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x4e))
}
