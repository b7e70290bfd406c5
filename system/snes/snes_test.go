package snes

import (
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

// buildROM returns a minimal 32KB LoROM image, every byte a 65C816 NOP
// ($EA) except the internal header (checksum/complement, SRAM size,
// region) and the reset vector, which callers may override.
func buildROM(resetVector uint16) []byte {
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = 0xea
	}
	rom[0x7fdc] = 0x34
	rom[0x7fdd] = 0x12
	rom[0x7fde] = 0xcb
	rom[0x7fdf] = 0xed
	rom[0x7fd7] = 0 // no SRAM
	rom[0x7fd9] = 0x01
	rom[0x7ffc] = uint8(resetVector)
	rom[0x7ffd] = uint8(resetVector >> 8)
	return rom
}

func testConfig() prefs.Config {
	cfg := prefs.DefaultConfig()
	cfg.ForcedRegion = prefs.RegionNTSC
	return cfg
}

func TestNewSystemLoadsResetVectorFromBank0(t *testing.T) {
	s, err := NewSystem(buildROM(0x1234), testConfig(), nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.CPU.PC, uint16(0x1234))
	test.ExpectEquality(t, s.CPU.Emulation, true)
	test.ExpectEquality(t, s.CPU.Interrupted, false)
}

func TestRunsNOPsWithoutError(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	for i := 0; i < 20; i++ {
		if err := s.TickOne(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestManualJoypadShiftsOutButtonsInWireOrder(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	s.SetInputs(Inputs{Pad1: ButtonB | ButtonStart})

	// strobe high then low: real hardware reloads continuously while the
	// strobe bit is held high, then shifts on each subsequent read.
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4016), 1))
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4016), 0))

	expected := []uint8{1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0} // B,Y,Select,Start,Up,Down,Left,Right,A,X,L,R
	for i, want := range expected {
		v, err := s.Bus.Read(bankAddr(0, 0x4016))
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, v, want)
		_ = i
	}
}

func TestMultiplyRegisterComputesProduct(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4202), 7))
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4203), 6)) // triggers 7*6

	lo, err := s.Bus.Read(bankAddr(0, 0x4216))
	test.ExpectSuccess(t, err)
	hi, err := s.Bus.Read(bankAddr(0, 0x4217))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, lo, uint8(42))
	test.ExpectEquality(t, hi, uint8(0))
}

func TestDivideRegisterComputesQuotientAndRemainder(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4204), 100)) // dividend lo
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4205), 0))   // dividend hi
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4206), 7))   // divisor, triggers 100/7

	qlo, err := s.Bus.Read(bankAddr(0, 0x4214))
	test.ExpectSuccess(t, err)
	rlo, err := s.Bus.Read(bankAddr(0, 0x4216))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, qlo, uint8(14))
	test.ExpectEquality(t, rlo, uint8(2))
}

func TestDivideByZeroSaturatesQuotient(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4204), 0x34))
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4205), 0x12))
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4206), 0))

	qlo, _ := s.Bus.Read(bankAddr(0, 0x4214))
	qhi, _ := s.Bus.Read(bankAddr(0, 0x4215))
	test.ExpectEquality(t, qlo, uint8(0xff))
	test.ExpectEquality(t, qhi, uint8(0xff))

	rlo, _ := s.Bus.Read(bankAddr(0, 0x4216))
	rhi, _ := s.Bus.Read(bankAddr(0, 0x4217))
	test.ExpectEquality(t, rlo, uint8(0x34))
	test.ExpectEquality(t, rhi, uint8(0x12))
}

func TestVBlankEntryLatchesNMIAndAutoJoypad(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4200), 0x81)) // NMI enable + auto-joy
	s.SetInputs(Inputs{Pad1: ButtonA | ButtonL})

	s.PPU.Tick(224 * 1364) // drive the PPU directly to scanline 224 (VBlank)
	s.Bus.refreshVBlank()

	test.ExpectEquality(t, s.Bus.NMI(), true)
	test.ExpectEquality(t, s.Bus.autoJoy1, uint16(ButtonA|ButtonL))

	v, err := s.Bus.Read(bankAddr(0, 0x4210))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v&0x80, uint8(0x80))

	hv, err := s.Bus.Read(bankAddr(0, 0x4212))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, hv&0x80, uint8(0x80))
}

func TestGeneralDMACopiesWRAMBytesIntoCGRAM(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x0010), 0xab))
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x0011), 0xcd))

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x2121), 0x00)) // CGADD = 0

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4300), 0x00)) // A->B, mode 0
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4301), 0x22)) // B-bus: $2122 CGDATA
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4302), 0x10)) // A-bus addr lo
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4303), 0x00)) // A-bus addr hi
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4304), 0x00)) // A-bus bank
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4305), 0x02)) // count = 2
	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x4306), 0x00))

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x420b), 0x01)) // fire channel 0

	test.ExpectSuccess(t, s.Bus.Write(bankAddr(0, 0x2121), 0x00)) // rewind CGADD to read back word 0
	lo, err := s.Bus.Read(bankAddr(0, 0x213b))
	test.ExpectSuccess(t, err)
	hi, err := s.Bus.Read(bankAddr(0, 0x213b))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, lo, uint8(0xab))
	test.ExpectEquality(t, hi, uint8(0x4d)) // 0xcd & 0x7f: CGRAM colour words are 15-bit
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	s, err := NewSystem(buildROM(0x0000), testConfig(), nil)
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
