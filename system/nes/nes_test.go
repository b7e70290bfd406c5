package nes

import (
	"encoding/binary"
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

// nopROM builds a minimal NROM (mapper 0) iNES image: one 16KB PRG bank
// of 6502 NOPs ($EA), no CHR-ROM (CHR-RAM is supplied by the mapper), and
// a reset vector pointing at the first PRG byte as it appears through the
// $8000-mirrored NROM window.
func nopROM(prgBanks uint8) []byte {
	prgSize := int(prgBanks) * 16 * 1024
	rom := make([]byte, 16+prgSize)
	copy(rom, []byte{'N', 'E', 'S', 0x1a})
	rom[4] = prgBanks
	rom[5] = 0 // CHR-RAM

	prg := rom[16:]
	for i := range prg {
		prg[i] = 0xea
	}
	// With one 16KB bank NROM mirrors it across $8000-$FFFF, so $FFFC maps
	// to PRG offset $3FFC (every caller here builds a one-bank image); point
	// it at the first bank's base ($8000) to stay inside the NOP field.
	binary.LittleEndian.PutUint16(prg[0x3ffc:], 0x8000)
	return rom
}

func testConfig() prefs.Config {
	cfg := prefs.DefaultConfig()
	cfg.ForcedRegion = prefs.RegionNTSC
	return cfg
}

func TestNewSystemLoadsResetVectorAndRunsNOPs(t *testing.T) {
	s, err := NewSystem(nopROM(1), testConfig(), nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.CPU.PC, uint16(0x8000))

	for i := 0; i < 64; i++ {
		if err := s.TickOne(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	test.ExpectEquality(t, s.CPU.Killed, false)
}

func TestSetInputsShiftsOutActiveHighButtons(t *testing.T) {
	s, err := NewSystem(nopROM(1), testConfig(), nil)
	test.ExpectSuccess(t, err)

	s.SetInputs(Inputs{Pad1: ButtonA | ButtonStart})
	test.ExpectSuccess(t, s.Bus.Write(0x4016, 1))
	test.ExpectSuccess(t, s.Bus.Write(0x4016, 0))

	v, err := s.Bus.Read(0x4016)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v&1, uint8(1)) // A is first out of the shift register

	v, err = s.Bus.Read(0x4016)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v&1, uint8(0)) // B was not pressed

	_, err = s.Bus.Read(0x4016) // consume Select (not pressed)
	test.ExpectSuccess(t, err)

	v, err = s.Bus.Read(0x4016)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v&1, uint8(1)) // Start is the 4th bit shifted out
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	s, err := NewSystem(nopROM(1), testConfig(), nil)
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

func TestNROMReadMirrorsSingleBankAcrossWindow(t *testing.T) {
	s, err := NewSystem(nopROM(1), testConfig(), nil)
	test.ExpectSuccess(t, err)

	lo, err := s.Bus.Read(0x8000)
	test.ExpectSuccess(t, err)
	hi, err := s.Bus.Read(0xc000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, lo, hi)
	test.ExpectEquality(t, lo, uint8(0xea))
}
