package containers

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func TestVRAMWordAccess(t *testing.T) {
	v := NewVRAM(0x10000)
	v.WriteWord(0x100, 0xabcd)
	test.ExpectEquality(t, v.ReadWord(0x100), uint16(0xabcd))
	test.ExpectEquality(t, v.Read(0x100), uint8(0xab))
}

func TestCRAMWraps(t *testing.T) {
	c := NewCRAM()
	c.Write(0, 0x0ef)
	test.ExpectEquality(t, c.Read(64), uint16(0x0ef)) // wraps modulo 64 entries
}

func TestBankedROMSelectAndModulo(t *testing.T) {
	rom := make([]byte, 16*1024*4) // 4 banks of 16KB
	for bank := 0; bank < 4; bank++ {
		rom[bank*16*1024] = uint8(bank)
	}
	b := NewBankedROM(rom, 16*1024, 2)
	b.SelectBank(0, 1)
	test.ExpectEquality(t, b.Read(0), uint8(1))

	b.SelectBank(0, 5) // modulo 4 banks -> bank 1
	test.ExpectEquality(t, b.Read(0), uint8(1))
}
