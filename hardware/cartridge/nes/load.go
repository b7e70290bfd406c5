package nes

import (
	"github.com/silicontrace/multicore/emuerr"
	"github.com/silicontrace/multicore/prefs"
)

// LoadCartridge parses a full iNES/NES 2.0 ROM image (header, optional
// 512-byte trainer, PRG-ROM, then CHR-ROM) into a Cartridge and its
// Mapper, ready for a system shell to wire onto a 6502 bus.
func LoadCartridge(raw []byte, cfg prefs.Config) (*Cartridge, *Mapper, error) {
	header, err := ParseHeader(raw)
	if err != nil {
		return nil, nil, err
	}

	pos := 16
	if header.HasTrainer {
		pos += 512
	}

	if pos+header.PRGROMSize > len(raw) {
		return nil, nil, emuerr.Errorf(emuerr.InvalidRomSize, "PRG-ROM extends past end of file")
	}
	prg := append([]byte(nil), raw[pos:pos+header.PRGROMSize]...)
	pos += header.PRGROMSize

	var chr []byte
	if header.CHRROMSize > 0 {
		if pos+header.CHRROMSize > len(raw) {
			return nil, nil, emuerr.Errorf(emuerr.InvalidRomSize, "CHR-ROM extends past end of file")
		}
		chr = append([]byte(nil), raw[pos:pos+header.CHRROMSize]...)
	}

	c := &Cartridge{
		PRGROM:    prg,
		CHRROM:    chr,
		Battery:   header.Battery,
		Mirroring: header.Mirroring,
		Header:    header,
	}
	if header.PRGRAMShift > 0 {
		c.PRGRAM = make([]byte, RAMSizeFromShift(header.PRGRAMShift))
	}

	m, err := NewMapper(c)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.ForcedRegion {
	case prefs.RegionPAL, prefs.RegionDendy:
		c.Region = RegionPAL
	case prefs.RegionNTSC:
		c.Region = RegionNTSC
	default:
		c.Region = c.DetectRegion()
	}

	return c, m, nil
}
