// Package nes implements the NES cartridge model and its mapper family.
// A cartridge owns immutable ROM, optional battery-backed PRG-RAM, CHR
// ROM/RAM, a timing-mode tag, and a mapper variant.
package nes

import "github.com/silicontrace/multicore/hardware/memory/containers"

// Mirroring selects how the PPU's two physical nametables are mapped
// across the four logical nametable slots.
type Mirroring int

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleScreenLo
	MirrorSingleScreenHi
	MirrorFourScreen
)

// Region is the auto-detected or forced console timing region
// (Configuration.forced_region, supplemented by the DetectRegion feature).
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

// Cartridge holds the ROM/RAM a Mapper operates over. ROM fields are
// moved, not copied, on save-state reload.
type Cartridge struct {
	PRGROM []byte
	CHRROM []byte
	CHRRAM []byte // populated instead of CHRROM when the header says CHR RAM
	PRGRAM []byte
	PRGRAMDirty bool // battery-backed subset dirty bit
	Battery     bool

	Mirroring Mirroring
	Region    Region

	Header Header
}

// DetectRegion inspects the cartridge for an NES 2.0 region byte (header
// byte 12) and falls back to NTSC, mirroring original_source's TMSS-style
// region byte inspection.
func (c *Cartridge) DetectRegion() Region {
	if c.Header.NES20 && c.Header.RegionByte&0x3 == 1 {
		return RegionPAL
	}
	return RegionNTSC
}

// NewMapper constructs the concrete Mapper for this cartridge's header
// mapper number, wiring the shared containers (PRG-RAM default sizing and
// CHR-RAM default sizing).
func NewMapper(c *Cartridge) (*Mapper, error) {
	kind, err := mapperKindFromNumber(c.Header.MapperNumber)
	if err != nil {
		return nil, err
	}

	prgRAMSize := 8 * 1024
	if kind == MapperMMC5 {
		prgRAMSize = 64 * 1024
	}
	if len(c.PRGRAM) == 0 {
		c.PRGRAM = make([]byte, prgRAMSize)
	}
	if c.CHRROM == nil && len(c.CHRRAM) == 0 {
		c.CHRRAM = make([]byte, 8*1024)
	}

	m := &Mapper{
		Kind: kind,
		cart: c,
		prg:  containers.NewBankedROM(c.PRGROM, 8*1024, max(1, len(c.PRGROM)/(8*1024))),
	}
	identityWindows(m.prg)
	if c.CHRROM != nil {
		m.chr = containers.NewBankedROM(c.CHRROM, 1024, max(1, len(c.CHRROM)/1024))
		identityWindows(m.chr)
	}
	m.initKind()
	return m, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// identityWindows points every window of rom at the same-numbered bank.
// Every mapper in this package computes its own absolute bank*bankSize
// offset and calls Read/Write with that value directly rather than
// addressing through SelectBank, so Read's window/bank indirection must
// be the identity for those raw offsets to land on the intended byte.
func identityWindows(rom *containers.BankedROM) {
	for w := 0; w < rom.NumBanks(); w++ {
		rom.SelectBank(w, w)
	}
}
