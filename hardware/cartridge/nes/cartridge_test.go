package nes

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func makeHeader(mapperNumber int, prgBanks, chrBanks uint8) []byte {
	h := make([]byte, 16)
	copy(h, []byte{'N', 'E', 'S', 0x1a})
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = byte((mapperNumber & 0xf) << 4)
	h[7] = byte(mapperNumber & 0xf0)
	return h
}

func TestParseHeaderMapperNumber(t *testing.T) {
	h, err := ParseHeader(makeHeader(4, 2, 1))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, h.MapperNumber, 4)
	test.ExpectEquality(t, h.PRGROMSize, 2*16*1024)
}

func TestNROMReadIsModuloROMLength(t *testing.T) {
	header, _ := ParseHeader(makeHeader(0, 1, 1))
	c := &Cartridge{
		PRGROM: make([]byte, 16*1024),
		CHRROM: make([]byte, 8*1024),
		Header: header,
	}
	c.PRGROM[0] = 0xaa
	m, err := NewMapper(c)
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, m.ReadCPU(0x8000), uint8(0xaa))
	test.ExpectEquality(t, m.ReadCPU(0xc000), uint8(0xaa)) // wraps: only one 16KB bank
}

func TestPRGRAMReadsReturnOpenBusWithoutRAM(t *testing.T) {
	header, _ := ParseHeader(makeHeader(2, 1, 0))
	c := &Cartridge{PRGROM: make([]byte, 16*1024), Header: header}
	m, err := NewMapper(c)
	test.ExpectSuccess(t, err)
	c.PRGRAM = nil // simulate a cartridge with no PRG-RAM at all
	test.ExpectEquality(t, m.ReadCPU(0x6000), uint8(0xff))
}

func TestUnsupportedMapperNumberErrors(t *testing.T) {
	header, _ := ParseHeader(makeHeader(255, 1, 1))
	_, err := NewMapper(&Cartridge{PRGROM: make([]byte, 16*1024), Header: header})
	test.ExpectFailure(t, err)
}
