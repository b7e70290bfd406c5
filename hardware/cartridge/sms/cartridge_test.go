package sms

import (
	"testing"

	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/test"
)

func romOfSize(n int) []byte {
	rom := make([]byte, n)
	for i := range rom {
		rom[i] = byte(i)
	}
	return rom
}

func TestDetectMapperKindUnbankedUnder32K(t *testing.T) {
	test.ExpectEquality(t, DetectMapperKind(romOfSize(32*1024)), MapperNone)
}

func TestDetectMapperKindDefaultsToSegaAbove32K(t *testing.T) {
	test.ExpectEquality(t, DetectMapperKind(romOfSize(64*1024)), MapperSega)
}

func TestLoadCartridgeGrantsSegaMapperBatteryRAM(t *testing.T) {
	cart, mapper, err := LoadCartridge(romOfSize(64*1024), prefs.DefaultConfig())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mapper.Kind, MapperSega)
	test.ExpectEquality(t, cart.Battery, true)
	test.ExpectEquality(t, len(cart.RAM), 2*pageSize)
}

func TestSegaMapperFirst1KOfSlot0IsAlwaysPage0(t *testing.T) {
	rom := romOfSize(4 * pageSize)
	cart := &Cartridge{ROM: rom}
	m := NewMapper(cart, MapperSega)

	// swap slot 0 to page 3, then confirm the first 1KB still reads page 0
	m.WriteCPU(0xfffd, 3)
	test.ExpectEquality(t, m.ReadCPU(0x0000), rom[0])
	test.ExpectEquality(t, m.ReadCPU(0x03ff), rom[0x3ff])
	// past the fixed first 1KB, slot 0 now reads page 3
	test.ExpectEquality(t, m.ReadCPU(0x0400), rom[3*pageSize+0x400])
}

func TestSegaMapperSlot2PagesCartridgeRAMWhenEnabled(t *testing.T) {
	rom := romOfSize(4 * pageSize)
	cart := &Cartridge{ROM: rom, RAM: make([]byte, 2*pageSize)}
	m := NewMapper(cart, MapperSega)

	m.WriteCPU(0xfffc, 0x08) // enable cart RAM, bank 0
	m.WriteCPU(0x8000, 0x42)
	test.ExpectEquality(t, m.ReadCPU(0x8000), uint8(0x42))
	test.ExpectEquality(t, cart.RAM[0], uint8(0x42))

	// disabling RAM falls back to paged ROM
	m.WriteCPU(0xfffc, 0x00)
	test.ExpectEquality(t, m.ReadCPU(0x8000), rom[2*pageSize])
}

func TestCodemastersMapperPagesOnFirstByteOfEachSlot(t *testing.T) {
	rom := romOfSize(4 * pageSize)
	cart := &Cartridge{ROM: rom}
	m := NewMapper(cart, MapperCodemasters)

	m.WriteCPU(0x0000, 2)
	test.ExpectEquality(t, m.ReadCPU(0x0000), rom[2*pageSize])

	m.WriteCPU(0x8000, 1)
	test.ExpectEquality(t, m.ReadCPU(0x8000), rom[1*pageSize])
}

func TestUnbankedCartridgeIgnoresPagingWrites(t *testing.T) {
	rom := romOfSize(32 * 1024)
	cart := &Cartridge{ROM: rom}
	m := NewMapper(cart, MapperNone)

	before := m.ReadCPU(0x8000)
	m.WriteCPU(0xfffd, 7)
	test.ExpectEquality(t, m.ReadCPU(0x8000), before)
}
