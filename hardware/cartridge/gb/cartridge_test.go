package gb

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func makeROM(cartType uint8, romBanks int) []byte {
	return makeROMWithRAM(cartType, romBanks, 0x02) // 8KB, picked up when the mapper has RAM
}

func makeROMWithRAM(cartType uint8, romBanks int, ramSizeByte uint8) []byte {
	size := romBanks * 0x4000
	if size < 0x8000 {
		size = 0x8000
	}
	rom := make([]byte, size)
	rom[headerCartridgeType] = cartType
	rom[headerROMSize] = 0
	rom[headerRAMSize] = ramSizeByte
	for bank := 0; bank*0x4000 < size; bank++ {
		rom[bank*0x4000] = uint8(bank) // bank-0 byte of each bank tags its index
	}
	return rom
}

func TestLoadCartridgeDetectsROMOnly(t *testing.T) {
	c, err := LoadCartridge(makeROM(0x00, 2))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c.Kind, MapperROMOnly)
	test.ExpectEquality(t, c.Battery, false)
	test.ExpectEquality(t, len(c.RAM), 0)
}

func TestLoadCartridgeDetectsMBC1Battery(t *testing.T) {
	c, err := LoadCartridge(makeROM(0x03, 4))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c.Kind, MapperMBC1)
	test.ExpectEquality(t, c.Battery, true)
	test.ExpectEquality(t, len(c.RAM), 8*1024)
}

func TestMBC1SwitchesROMBank(t *testing.T) {
	c, _ := LoadCartridge(makeROM(0x01, 4))

	test.ExpectEquality(t, c.ReadCPU(0x0000), uint8(0)) // fixed bank 0
	test.ExpectEquality(t, c.ReadCPU(0x4000), uint8(1)) // default switchable bank 1

	c.WriteCPU(0x2000, 0x03) // select bank 3
	test.ExpectEquality(t, c.ReadCPU(0x4000), uint8(3))
}

func TestMBC1Bank0WriteSelectsBank1(t *testing.T) {
	c, _ := LoadCartridge(makeROM(0x01, 4))
	c.WriteCPU(0x2000, 0x00) // bank 0 requested; hardware substitutes bank 1
	test.ExpectEquality(t, c.ReadCPU(0x4000), uint8(1))
}

func TestMBC1RAMEnableGatesAccess(t *testing.T) {
	c, _ := LoadCartridge(makeROM(0x03, 2))

	c.WriteCPU(0xa000, 0x55) // RAM disabled: write ignored
	test.ExpectEquality(t, c.ReadCPU(0xa000), uint8(0xff))

	c.WriteCPU(0x0000, 0x0a) // enable RAM
	c.WriteCPU(0xa000, 0x55)
	test.ExpectEquality(t, c.ReadCPU(0xa000), uint8(0x55))
}

func TestMBC3RAMBankSelect(t *testing.T) {
	c, _ := LoadCartridge(makeROMWithRAM(0x13, 2, 0x03)) // 32KB RAM: 4 banks
	c.WriteCPU(0x0000, 0x0a) // enable RAM

	c.WriteCPU(0x4000, 0x01) // select RAM bank 1
	c.WriteCPU(0xa000, 0x11)
	c.WriteCPU(0x4000, 0x00) // back to bank 0
	c.WriteCPU(0xa000, 0x22)

	c.WriteCPU(0x4000, 0x01)
	test.ExpectEquality(t, c.ReadCPU(0xa000), uint8(0x11))
	c.WriteCPU(0x4000, 0x00)
	test.ExpectEquality(t, c.ReadCPU(0xa000), uint8(0x22))
}

func TestMBC3RTCRegisterSelectReadsFF(t *testing.T) {
	c, _ := LoadCartridge(makeROM(0x0f, 2))
	c.WriteCPU(0x0000, 0x0a)
	c.WriteCPU(0x4000, 0x08) // select RTC seconds register, unmodeled
	test.ExpectEquality(t, c.ReadCPU(0xa000), uint8(0xff))
}

func TestMBC5WideROMBankSelect(t *testing.T) {
	c, _ := LoadCartridge(makeROM(0x19, 512))

	c.WriteCPU(0x2000, 0xff) // low 8 bits
	c.WriteCPU(0x3000, 0x01) // bit 8 -> bank 0x1ff
	test.ExpectEquality(t, c.ReadCPU(0x4000), uint8(0xff))
}
