// Package gbppu implements the Game Boy / Game Boy Color picture
// processing unit: the LCDC/STAT/scroll/palette register file, 8KB VRAM,
// 40-entry OAM, and the background/window/sprite scanline renderer,
// following the same scanline-batch Tick() contract video/genesisvdp
// established. No Game Boy original-source file is in the retrieval
// pack; the register layout and mode-timing constants are grounded on
// the pack's ernesto27-ai-projects/gameboy-emulator reference (whose own
// scanline renderer is an unimplemented stub), supplemented with public
// Game Boy PPU documentation for the pixel-composition rules that
// reference never filled in, the same way video/nesppu supplements its
// own missing original-source reference.
package gbppu

const (
	lcdcEnable        = 1 << 7
	lcdcWindowTileMap = 1 << 6
	lcdcWindowEnable  = 1 << 5
	lcdcTileData      = 1 << 4
	lcdcBGTileMap     = 1 << 3
	lcdcSpriteSize    = 1 << 2
	lcdcSpriteEnable  = 1 << 1
	lcdcBGEnable      = 1 << 0

	statLYCInterrupt   = 1 << 6
	statMode2Interrupt = 1 << 5
	statMode1Interrupt = 1 << 4
	statMode0Interrupt = 1 << 3
	statLYCFlag        = 1 << 2
)

// Registers holds the $FF40-$FF4B LCD control/status/scroll/palette
// register file. Bit meaning is decoded on demand rather than cached,
// since LCDC/STAT can legally change between any two scanline dots.
type Registers struct {
	LCDC uint8
	STAT uint8

	SCY, SCX uint8
	LY, LYC  uint8
	WY, WX   uint8

	BGP, OBP0, OBP1 uint8
}

func (r *Registers) LCDEnabled() bool    { return r.LCDC&lcdcEnable != 0 }
func (r *Registers) WindowEnabled() bool { return r.LCDC&lcdcWindowEnable != 0 }
func (r *Registers) SpriteEnabled() bool { return r.LCDC&lcdcSpriteEnable != 0 }
func (r *Registers) BGEnabled() bool     { return r.LCDC&lcdcBGEnable != 0 }
func (r *Registers) SpriteDoubleHeight() bool { return r.LCDC&lcdcSpriteSize != 0 }
func (r *Registers) UnsignedTileData() bool   { return r.LCDC&lcdcTileData != 0 }

func (r *Registers) WindowTileMapBase() uint16 {
	if r.LCDC&lcdcWindowTileMap != 0 {
		return 0x9c00
	}
	return 0x9800
}

func (r *Registers) BGTileMapBase() uint16 {
	if r.LCDC&lcdcBGTileMap != 0 {
		return 0x9c00
	}
	return 0x9800
}

// WriteSTAT preserves the read-only mode (bits 1-0) and LYC-flag (bit 2)
// bits; only the interrupt-enable bits 6-3 are CPU-writable.
func (r *Registers) WriteSTAT(value uint8) {
	r.STAT = r.STAT&0x07 | value&0x78
}

func (r *Registers) mode() uint8 { return r.STAT & 0x03 }

func (r *Registers) setMode(m uint8) { r.STAT = r.STAT&0xfc | m&0x03 }

func (r *Registers) setLYCFlag(match bool) {
	if match {
		r.STAT |= statLYCFlag
	} else {
		r.STAT &^= statLYCFlag
	}
}

func (r *Registers) lycInterruptEnabled() bool   { return r.STAT&statLYCInterrupt != 0 }
func (r *Registers) mode0InterruptEnabled() bool { return r.STAT&statMode0Interrupt != 0 }
func (r *Registers) mode1InterruptEnabled() bool { return r.STAT&statMode1Interrupt != 0 }
func (r *Registers) mode2InterruptEnabled() bool { return r.STAT&statMode2Interrupt != 0 }

// decodePalette unpacks a BGP/OBP register into its four 2-bit shade
// assignments, bits 1-0/3-2/5-4/7-6 mapping source colors 0-3 in order.
func decodePalette(v uint8) [4]uint8 {
	return [4]uint8{v & 0x03, (v >> 2) & 0x03, (v >> 4) & 0x03, (v >> 6) & 0x03}
}

func (r *Registers) DecodeBGP() [4]uint8  { return decodePalette(r.BGP) }
func (r *Registers) DecodeOBP0() [4]uint8 { return decodePalette(r.OBP0) }
func (r *Registers) DecodeOBP1() [4]uint8 { return decodePalette(r.OBP1) }
