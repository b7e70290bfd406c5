// Package genesis implements the Genesis/Mega Drive cartridge model: ROM
// mapped linearly into $000000-$3FFFFF with the Sega Virgin-Six-Game/SSF2
// style bank-switched window the few cartridges larger than 4MB need, plus
// the optional battery-backed SRAM window most cartridges expose at
// $200000-$20FFFF.
package genesis

import (
	"github.com/silicontrace/multicore/emuerr"
	"github.com/silicontrace/multicore/hardware/memory/containers"
	"github.com/silicontrace/multicore/prefs"
)

const (
	headerLen   = 0x200
	bankWindow  = 512 * 1024
	bankWindows = 8 // $000000-$3FFFFF split into eight 512KB windows
	ramWindowLo = 0x200000
	ramWindowHi = 0x20ffff
)

// Region is the cartridge header's auto-detected or forced console timing
// region.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

// Cartridge holds a Genesis ROM image plus its optional battery-backed
// SRAM. The header's domestic/overseas/region bytes are parsed once at
// load time; everything else is resolved through the bank-switch window.
type Cartridge struct {
	rom *containers.BankedROM

	SRAM        []byte
	SRAMPresent bool
	Battery     bool
	SRAMDirty   bool

	Region Region

	DomesticName string
	OverseasName string
	SerialNumber string
}

// NewCartridge parses header and builds the bank-switch window over rom.
// rom shorter than one bank window is zero-padded up to it so bank
// selection never has to special-case a short final bank.
func NewCartridge(rom []byte, cfg prefs.Config) (*Cartridge, error) {
	if len(rom) < headerLen {
		return nil, emuerr.Errorf(emuerr.CartridgeFormat, "ROM shorter than header")
	}

	padded := rom
	if rem := len(rom) % bankWindow; rem != 0 {
		padded = make([]byte, len(rom)+(bankWindow-rem))
		copy(padded, rom)
	}

	c := &Cartridge{
		rom:          containers.NewBankedROM(padded, bankWindow, bankWindows),
		DomesticName: trimHeaderString(rom[0x20:0x50]),
		OverseasName: trimHeaderString(rom[0x50:0x80]),
		SerialNumber: trimHeaderString(rom[0x80:0x8e]),
	}

	// bank i defaults to window i: a cartridge that never writes the
	// bank-select register behaves as plain linear ROM.
	for window := 0; window < bankWindows; window++ {
		c.rom.SelectBank(window, window)
	}

	if sramFlag := rom[0x1b0]; sramFlag == 0x52 && len(rom) > 0x1b3 {
		c.SRAMPresent = true
		c.Battery = rom[0x1b3]&0x40 != 0
		c.SRAM = make([]byte, 64*1024)
	}

	c.Region = detectRegion(rom, cfg)
	return c, nil
}

func trimHeaderString(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}

// detectRegion honors Configuration.forced_region before falling back to
// the header's region-support byte, mirroring the NES cartridge's
// DetectRegion shape.
func detectRegion(rom []byte, cfg prefs.Config) Region {
	if cfg.ForcedRegion == prefs.RegionPAL {
		return RegionPAL
	}
	if cfg.ForcedRegion == prefs.RegionNTSC {
		return RegionNTSC
	}
	if len(rom) <= 0x1f0 {
		return RegionNTSC
	}
	spec := rom[0x1f0]
	if spec == 'E' || spec == 'F' {
		return RegionPAL
	}
	return RegionNTSC
}

// SelectBank implements the rare SSF2-style mapper register write: window
// selects which 512KB slice of $000000-$3FFFFF is remapped, bank selects
// which 512KB slice of the underlying ROM backs it.
func (c *Cartridge) SelectBank(window, bank int) { c.rom.SelectBank(window, bank) }

// ReadROM reads one byte from the $000000-$3FFFFF cartridge ROM window.
func (c *Cartridge) ReadROM(addr uint32) uint8 {
	return c.rom.Read(int(addr) % (bankWindow * bankWindows))
}

// ReadSRAM reads from the optional SRAM window, or 0xff if none is fitted.
func (c *Cartridge) ReadSRAM(addr uint32) uint8 {
	if !c.SRAMPresent {
		return 0xff
	}
	return c.SRAM[addr%uint32(len(c.SRAM))]
}

// WriteSRAM writes to the optional SRAM window, marking it dirty for
// save-battery persistence, and is a no-op if none is fitted.
func (c *Cartridge) WriteSRAM(addr uint32, v uint8) {
	if !c.SRAMPresent {
		return
	}
	c.SRAM[addr%uint32(len(c.SRAM))] = v
	c.SRAMDirty = true
}

// InSRAMWindow reports whether addr falls in the cartridge's SRAM window.
func InSRAMWindow(addr uint32) bool { return addr >= ramWindowLo && addr <= ramWindowHi }
