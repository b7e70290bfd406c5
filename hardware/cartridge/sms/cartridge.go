// Package sms implements the Sega Master System / Game Gear cartridge
// model: plain unbanked ROM for images of 32KB or less, and the two
// paging schemes real cartridges beyond that size used — Sega's own
// three-slot mapper and the simpler Codemasters variant — in the same
// tagged-variant style hardware/cartridge/nes's mapper family uses. No
// Master System original-source file is in the retrieval pack; paging
// semantics are supplemented from public SMS mapper documentation the
// way video/smsvdp supplements its own missing original-source
// reference.
package sms

import (
	"github.com/silicontrace/multicore/emuerr"
	"github.com/silicontrace/multicore/prefs"
)

const pageSize = 16 * 1024

// MapperKind selects which of the Master System's paging schemes a
// cartridge uses.
type MapperKind int

const (
	MapperNone MapperKind = iota
	MapperSega
	MapperCodemasters
)

// Region is the forced or (absent any header to inspect) defaulted
// console timing region; Master System dumps carry no region byte the
// way an NES or Genesis header does, so this is driven entirely by
// Configuration.forced_region.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

// Cartridge holds the ROM/RAM a Mapper pages across the Z80's three
// 16KB cartridge slots.
type Cartridge struct {
	ROM []byte
	RAM []byte // Sega-mapper battery-backed cartridge RAM, paged into slot 2

	Battery bool
	Region  Region
}

// LoadCartridge builds a Cartridge and its Mapper from a raw, headerless
// ROM dump.
func LoadCartridge(rom []byte, cfg prefs.Config) (*Cartridge, *Mapper, error) {
	if len(rom) == 0 {
		return nil, nil, emuerr.Errorf(emuerr.InvalidRomSize, "empty ROM image")
	}

	c := &Cartridge{ROM: rom, Region: detectRegion(cfg)}

	kind := DetectMapperKind(rom)
	if kind == MapperSega {
		c.RAM = make([]byte, 2*pageSize)
		c.Battery = true
	}

	m := NewMapper(c, kind)
	return c, m, nil
}

func detectRegion(cfg prefs.Config) Region {
	if cfg.ForcedRegion == prefs.RegionPAL || cfg.ForcedRegion == prefs.RegionDendy {
		return RegionPAL
	}
	return RegionNTSC
}

// DetectMapperKind guesses which paging scheme a raw ROM image needs.
// Images of 32KB or less fit in the Z80's address space unbanked and
// need no paging registers at all. Beyond that, Codemasters cartridges
// are distinguished from the standard Sega mapper by a documented
// quirk of their header: the four bytes at $7FE0 sum, together with the
// little-endian checksum word stored right after at $7FE6, to zero —
// a pattern the standard "TMR SEGA" Sega header at $7FF0 never
// produces.
func DetectMapperKind(rom []byte) MapperKind {
	if len(rom) <= 32*1024 {
		return MapperNone
	}
	if len(rom) >= 0x7fe8 {
		sum := uint16(rom[0x7fe0]) + uint16(rom[0x7fe1]) + uint16(rom[0x7fe2]) + uint16(rom[0x7fe3])
		check := uint16(rom[0x7fe6]) | uint16(rom[0x7fe7])<<8
		if uint16(sum+check) == 0 {
			return MapperCodemasters
		}
	}
	return MapperSega
}

// Mapper is the paging state layered over a Cartridge's fixed ROM image,
// selecting which 16KB page of ROM (or, for the Sega mapper's slot 2,
// cartridge RAM) appears in each of the Z80's three cartridge slots.
type Mapper struct {
	Kind MapperKind
	cart *Cartridge

	pages [3]uint8 // 16KB page selected for slot 0 ($0000), 1 ($4000), 2 ($8000)

	ramEnabled bool
	ramBank    uint8 // which 16KB half of cart.RAM is mapped into slot 2
}

// NewMapper builds a Mapper over c, defaulting every slot to the plain
// sequential page layout a cartridge that never writes a paging
// register behaves as.
func NewMapper(c *Cartridge, kind MapperKind) *Mapper {
	numPages := len(c.ROM) / pageSize
	if numPages == 0 {
		numPages = 1
	}
	m := &Mapper{Kind: kind, cart: c}
	m.pages[0] = 0
	m.pages[1] = uint8(1 % numPages)
	m.pages[2] = uint8(2 % numPages)
	return m
}

// ReadCPU maps a Z80 address in $0000-$BFFF to a cartridge ROM/RAM byte
// across the fixed slot 0/1/2 windows. The Sega mapper additionally
// fixes the first 1KB of slot 0 to ROM page 0 regardless of the slot 0
// register, so the reset/interrupt vectors at the bottom of memory
// survive a slot 0 bank switch.
func (m *Mapper) ReadCPU(addr uint16) uint8 {
	switch {
	case m.Kind == MapperSega && addr < 0x400:
		return m.cart.ROM[int(addr)%len(m.cart.ROM)]
	case addr < 0x4000:
		return m.readPage(m.pages[0], addr)
	case addr < 0x8000:
		return m.readPage(m.pages[1], addr-0x4000)
	default:
		if m.Kind == MapperSega && m.ramEnabled && len(m.cart.RAM) > 0 {
			off := int(m.ramBank)*pageSize + int(addr-0x8000)
			return m.cart.RAM[off%len(m.cart.RAM)]
		}
		return m.readPage(m.pages[2], addr-0x8000)
	}
}

func (m *Mapper) readPage(page uint8, offset uint16) uint8 {
	idx := int(page)*pageSize + int(offset)
	return m.cart.ROM[idx%len(m.cart.ROM)]
}

// WriteCPU applies cartridge-RAM writes (the Sega mapper's paged-in
// slot 2 RAM) and both mappers' paging-register writes. The Sega
// mapper's registers live at $FFFC-$FFFF, aliasing the system RAM
// mirror there; the system bus forwards writes in that range here in
// addition to storing them in RAM. The Codemasters mapper instead
// repurposes the first byte of each ROM slot as that slot's own paging
// register, so it only ever sees addresses inside $0000-$BFFF.
func (m *Mapper) WriteCPU(addr uint16, v uint8) {
	switch m.Kind {
	case MapperCodemasters:
		switch addr {
		case 0x0000:
			m.pages[0] = v
		case 0x4000:
			m.pages[1] = v
		case 0x8000:
			m.pages[2] = v
		}
	case MapperSega:
		switch {
		case addr == 0xfffc:
			m.ramEnabled = v&0x08 != 0
			m.ramBank = (v >> 2) & 0x01
		case addr == 0xfffd:
			m.pages[0] = v
		case addr == 0xfffe:
			m.pages[1] = v
		case addr == 0xffff:
			m.pages[2] = v
		case addr >= 0x8000 && addr < 0xc000 && m.ramEnabled && len(m.cart.RAM) > 0:
			off := int(m.ramBank)*pageSize + int(addr-0x8000)
			m.cart.RAM[off%len(m.cart.RAM)] = v
		}
	}
}
