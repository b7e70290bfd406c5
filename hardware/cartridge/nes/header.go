package nes

import "github.com/silicontrace/multicore/emuerr"

// Header is the parsed iNES/NES 2.0 header: 16 bytes, optional 512-byte
// trainer, then PRG-ROM then CHR-ROM.
type Header struct {
	PRGROMSize  int
	CHRROMSize  int
	MapperNumber int
	SubMapper    int
	NES20        bool
	RegionByte   uint8
	HasTrainer   bool
	Battery      bool
	FourScreen   bool
	Mirroring    Mirroring

	PRGRAMShift int
	CHRRAMShift int
}

// ParseHeader decodes a 16-byte iNES/NES 2.0 header, assembling the mapper
// number from header bytes 6, 7, and (for NES 2.0) 8.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < 16 || raw[0] != 'N' || raw[1] != 'E' || raw[2] != 'S' || raw[3] != 0x1a {
		return Header{}, emuerr.Errorf(emuerr.CartridgeFormat, "nes: missing iNES magic")
	}
	var h Header
	h.PRGROMSize = int(raw[4]) * 16 * 1024
	h.CHRROMSize = int(raw[5]) * 8 * 1024
	h.HasTrainer = raw[6]&0x04 != 0
	h.Battery = raw[6]&0x02 != 0
	h.FourScreen = raw[6]&0x08 != 0
	if h.FourScreen {
		h.Mirroring = MirrorFourScreen
	} else if raw[6]&0x01 != 0 {
		h.Mirroring = MirrorVertical
	} else {
		h.Mirroring = MirrorHorizontal
	}

	mapperLo := uint16(raw[6] >> 4)
	mapperHi := uint16(raw[7] & 0xf0)
	h.NES20 = raw[7]&0x0c == 0x08

	if h.NES20 {
		mapperTop := uint16(raw[8]&0x0f) << 8
		h.MapperNumber = int(mapperHi | mapperLo | mapperTop)
		h.SubMapper = int(raw[8] >> 4)
		h.PRGRAMShift = int(raw[10] & 0x0f)
		h.CHRRAMShift = int(raw[11] & 0x0f)
		h.RegionByte = raw[12]
		// NES 2.0 PRG/CHR size can use the exponent-times-multiplier form
		// when byte 9's top nibble is 0xf; ordinary ROMs never hit this.
	} else {
		h.MapperNumber = int(mapperHi | mapperLo)
	}

	return h, nil
}

// RAMSizeFromShift decodes the NES 2.0 shift-count RAM-size encoding:
// size = 64 << shift bytes, 0 meaning "no RAM of this kind".
func RAMSizeFromShift(shift int) int {
	if shift == 0 {
		return 0
	}
	return 64 << uint(shift)
}
