// Package gb implements the Game Boy / Game Boy Color cartridge model:
// header parsing and the handful of memory bank controllers real
// commercial software actually shipped with in volume (no mapper,
// MBC1, MBC3, MBC5), in the same header-probed, ReadCPU/WriteCPU-facing
// shape the other console packages in this module use.
package gb

import "github.com/silicontrace/multicore/emuerr"

const (
	headerCartridgeType = 0x0147
	headerROMSize       = 0x0148
	headerRAMSize       = 0x0149
)

type MapperKind int

const (
	MapperROMOnly MapperKind = iota
	MapperMBC1
	MapperMBC3
	MapperMBC5
)

// Cartridge owns the ROM/RAM and bank-select registers for one loaded
// Game Boy cartridge image. ROM is the full dump, unmirrored; RAM is
// sized from the header's RAM-size byte and left nil when absent.
type Cartridge struct {
	ROM     []byte
	RAM     []byte
	Battery bool
	Kind    MapperKind

	ramEnabled bool
	romBankLo  uint8 // MBC1 (5 bits)/MBC3(7 bits)/MBC5(8 bits) primary ROM bank register
	romBankHi  uint8 // MBC5's 9th ROM bank bit; MBC1's secondary 2-bit bank/RAM-bank register
	ramBank    uint8
	mbc1Mode   uint8 // MBC1 banking mode: 0 selects ROM banking, 1 selects RAM banking
}

// mbcFor maps the $0147 cartridge-type byte to a mapper kind plus
// whether external RAM and a battery are present, the standard
// documented Game Boy header cartridge-type table. MBC2 (with its
// built-in 512x4-bit RAM) and MBC6/MBC7 (rumble/accelerometer
// peripherals) saw little commercial use next to MBC1/3/5 and are not
// implemented here.
func mbcFor(typeByte uint8) (kind MapperKind, hasRAM, hasBattery bool) {
	switch typeByte {
	case 0x00:
		return MapperROMOnly, false, false
	case 0x01:
		return MapperMBC1, false, false
	case 0x02:
		return MapperMBC1, true, false
	case 0x03:
		return MapperMBC1, true, true
	case 0x0f:
		return MapperMBC3, false, true // MBC3+TIMER+BATTERY: RTC not modeled
	case 0x10:
		return MapperMBC3, true, true
	case 0x11:
		return MapperMBC3, false, false
	case 0x12:
		return MapperMBC3, true, false
	case 0x13:
		return MapperMBC3, true, true
	case 0x19:
		return MapperMBC5, false, false
	case 0x1a:
		return MapperMBC5, true, false
	case 0x1b:
		return MapperMBC5, true, true
	case 0x1c:
		return MapperMBC5, false, false // +RUMBLE, rumble motor not modeled
	case 0x1d:
		return MapperMBC5, true, false
	case 0x1e:
		return MapperMBC5, true, true
	default:
		return MapperROMOnly, false, false
	}
}

func ramSizeFor(sizeByte uint8) int {
	switch sizeByte {
	case 0x01:
		return 2 * 1024 // unofficial, some early titles used it
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

// LoadCartridge parses a raw Game Boy ROM dump's header ($0147-$0149)
// and builds the matching Cartridge/mapper state.
func LoadCartridge(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x8000 {
		return nil, emuerr.Errorf(emuerr.InvalidRomSize, "Game Boy ROM image shorter than 32KB")
	}

	kind, hasRAM, hasBattery := mbcFor(rom[headerCartridgeType])

	c := &Cartridge{
		ROM:       rom,
		Kind:      kind,
		Battery:   hasBattery,
		romBankLo: 1,
	}
	if hasRAM {
		if n := ramSizeFor(rom[headerRAMSize]); n > 0 {
			c.RAM = make([]byte, n)
		}
	}
	return c, nil
}

func (c *Cartridge) numROMBanks() int {
	n := len(c.ROM) / 0x4000
	if n == 0 {
		return 1
	}
	return n
}

// romBank resolves the 16KB bank currently windowed at $4000-$7FFF.
func (c *Cartridge) romBank() int {
	switch c.Kind {
	case MapperMBC1:
		lo := c.romBankLo & 0x1f
		if lo == 0 {
			lo = 1
		}
		return int(c.romBankHi&0x03)<<5 | int(lo)
	case MapperMBC3:
		lo := c.romBankLo & 0x7f
		if lo == 0 {
			lo = 1
		}
		return int(lo)
	case MapperMBC5:
		return int(c.romBankHi&0x01)<<8 | int(c.romBankLo)
	default:
		return 1
	}
}

// romBankZero resolves the bank windowed at $0000-$3FFF: always bank 0
// except for MBC1 in RAM-banking mode, where its 2-bit secondary
// register also substitutes the high bits of this normally-fixed
// window, the documented "large ROM multicart" quirk.
func (c *Cartridge) romBankZero() int {
	if c.Kind == MapperMBC1 && c.mbc1Mode == 1 {
		return int(c.romBankHi&0x03) << 5
	}
	return 0
}

func (c *Cartridge) ramBankSelect() int {
	if c.Kind == MapperMBC1 {
		if c.mbc1Mode == 1 {
			return int(c.ramBank & 0x03)
		}
		return 0
	}
	return int(c.ramBank)
}

// ReadCPU handles the cartridge's two CPU-visible windows: $0000-$7FFF
// (ROM, bank 0 fixed plus a switchable bank) and $A000-$BFFF (external
// RAM, when present and enabled).
func (c *Cartridge) ReadCPU(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		bank := c.romBankZero() % c.numROMBanks()
		return c.ROM[bank*0x4000+int(addr)]
	case addr < 0x8000:
		bank := c.romBank() % c.numROMBanks()
		return c.ROM[bank*0x4000+int(addr-0x4000)]
	case addr >= 0xa000 && addr < 0xc000:
		return c.readRAM(addr)
	}
	return 0xff
}

func (c *Cartridge) WriteCPU(addr uint16, v uint8) {
	switch {
	case addr >= 0xa000 && addr < 0xc000:
		c.writeRAM(addr, v)
	case addr < 0x8000:
		c.writeRegister(addr, v)
	}
}

func (c *Cartridge) readRAM(addr uint16) uint8 {
	if !c.ramEnabled || len(c.RAM) == 0 || c.rtcSelected() {
		return 0xff
	}
	off := c.ramBankSelect()*0x2000 + int(addr-0xa000)
	return c.RAM[off%len(c.RAM)]
}

func (c *Cartridge) writeRAM(addr uint16, v uint8) {
	if !c.ramEnabled || len(c.RAM) == 0 || c.rtcSelected() {
		return
	}
	off := c.ramBankSelect()*0x2000 + int(addr-0xa000)
	c.RAM[off%len(c.RAM)] = v
}

// rtcSelected reports whether MBC3's $4000-$5FFF register selects one of
// the unmodeled RTC registers (0x08-0x0c) instead of an SRAM bank.
func (c *Cartridge) rtcSelected() bool {
	return c.Kind == MapperMBC3 && c.ramBank >= 0x08 && c.ramBank <= 0x0c
}

func (c *Cartridge) writeRegister(addr uint16, v uint8) {
	switch c.Kind {
	case MapperMBC1:
		switch {
		case addr < 0x2000:
			c.ramEnabled = v&0x0f == 0x0a
		case addr < 0x4000:
			c.romBankLo = v & 0x1f
		case addr < 0x6000:
			c.romBankHi = v & 0x03
		default:
			c.mbc1Mode = v & 0x01
		}
	case MapperMBC3:
		switch {
		case addr < 0x2000:
			c.ramEnabled = v&0x0f == 0x0a
		case addr < 0x4000:
			c.romBankLo = v & 0x7f
		case addr < 0x6000:
			c.ramBank = v // 0x00-0x03 select an SRAM bank; 0x08-0x0c select an RTC
			// register this core doesn't model, so those reads return 0xff.
		default:
			// RTC latch (write 0 then 1): the real-time clock itself isn't
			// modeled, so this is a no-op.
		}
	case MapperMBC5:
		switch {
		case addr < 0x2000:
			c.ramEnabled = v&0x0f == 0x0a
		case addr < 0x3000:
			c.romBankLo = v
		case addr < 0x4000:
			c.romBankHi = v & 0x01
		case addr < 0x6000:
			c.ramBank = v & 0x0f // low nibble only: bit3 (rumble motor) is not modeled
		}
	}
}
