package snes

import (
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

func buildLoROM(size int) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = byte(i)
	}
	// valid checksum/complement pair at the LoROM header location
	rom[loROMHeaderOffset+0x1c] = 0x34
	rom[loROMHeaderOffset+0x1d] = 0x12
	rom[loROMHeaderOffset+0x1e] = 0xcb
	rom[loROMHeaderOffset+0x1f] = 0xed
	rom[loROMHeaderOffset+0x17] = 1 // SRAM size byte: 1024<<1 = 2KB
	rom[loROMHeaderOffset+0x19] = 0x01
	return rom
}

func buildHiROM(size int) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = byte(i)
	}
	rom[hiROMHeaderOffset+0x1c] = 0x34
	rom[hiROMHeaderOffset+0x1d] = 0x12
	rom[hiROMHeaderOffset+0x1e] = 0xcb
	rom[hiROMHeaderOffset+0x1f] = 0xed
	rom[hiROMHeaderOffset+0x17] = 1
	rom[hiROMHeaderOffset+0x19] = 0x01
	return rom
}

func TestDetectMappingPrefersValidatedLoROM(t *testing.T) {
	cart, err := LoadCartridge(buildLoROM(0x8000), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cart.Mapping, MappingLoROM)
	test.ExpectEquality(t, len(cart.SRAM), 2*1024)
	test.ExpectEquality(t, cart.Battery, true)
}

func TestDetectMappingPicksHiROMWhenOnlyItValidates(t *testing.T) {
	cart, err := LoadCartridge(buildHiROM(0x10000), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cart.Mapping, MappingHiROM)
}

func TestLoROMReadCPUMirrorsAcrossBanks(t *testing.T) {
	cart, err := LoadCartridge(buildLoROM(0x8000), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, cart.ReadCPU(0, 0x8000), cart.ROM[0])
	test.ExpectEquality(t, cart.ReadCPU(0, 0xffff), cart.ROM[0x7fff])
	test.ExpectEquality(t, cart.ReadCPU(1, 0x8000), cart.ROM[0]) // 32KB ROM mirrors every bank
}

func TestLoROMSRAMBankWriteReadRoundTrips(t *testing.T) {
	cart, err := LoadCartridge(buildLoROM(0x8000), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)

	cart.WriteCPU(0x70, 0x0010, 0x5a)
	test.ExpectEquality(t, cart.ReadCPU(0x70, 0x0010), uint8(0x5a))
}

func TestHiROMReadCPUWrapsAcrossBanks(t *testing.T) {
	cart, err := LoadCartridge(buildHiROM(0x10000), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, cart.ReadCPU(0, 0xffff), cart.ROM[0xffff])
	test.ExpectEquality(t, cart.ReadCPU(1, 0), cart.ROM[0]) // 64KB ROM wraps every bank
}

func TestHiROMSRAMBankWriteReadRoundTrips(t *testing.T) {
	cart, err := LoadCartridge(buildHiROM(0x10000), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)

	cart.WriteCPU(0x20, 0x6010, 0x7b)
	test.ExpectEquality(t, cart.ReadCPU(0x20, 0x6010), uint8(0x7b))
}

func TestForcedRegionOverridesHeaderByte(t *testing.T) {
	cfg := prefs.DefaultConfig()
	cfg.ForcedRegion = prefs.RegionPAL
	cart, err := LoadCartridge(buildLoROM(0x8000), cfg) // header region byte says NTSC
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cart.Region, RegionPAL)
}
