package smsvdp

// SpriteSize selects between 8x8 and 8x16 logical sprite patterns
// (register 1 bit 1). Sprite zoom (bit 0, doubling displayed size
// without changing the hit-test size) is not modeled: no commercial
// title this project targets depends on it, and it would only scale
// the final blit, not the evaluation this package focuses on.
type SpriteSize int

const (
	Sprite8x8 SpriteSize = iota
	Sprite8x16
)

// Registers holds the VDP's 11 Mode-4 control registers plus the
// derived fields WriteRegister decodes from them, following the same
// "decode eagerly, not lazily" shape video/genesisvdp.Registers uses.
type Registers struct {
	raw [11]uint8

	DisplayEnable       bool
	VInterruptEnable    bool
	LineInterruptEnable bool

	SpriteSize     SpriteSize
	LeftColumnBlank bool // register 0 bit 5: mask the leftmost 8 pixels with the border color
	HScrollLock    bool // register 0 bit 6: freeze scroll for the top two tile rows
	VScrollLock    bool // register 0 bit 7: freeze scroll for the rightmost 8 tile columns
	SpriteShiftLeft bool // register 0 bit 3: shift every sprite 8 pixels left (the "early clock" bit)

	NameTableBase    uint16 // VRAM word address of the 32x28 tilemap
	SpriteAttrBase   uint16 // VRAM address of the 64-entry sprite attribute table
	SpritePatternBase uint16 // 0x0000 or 0x2000, selected by register 6 bit 2

	BackgroundColorIndex uint8 // register 7 bits 0-3, index into sprite palette (16-31)

	HScroll uint8 // register 8
	VScroll uint8 // register 9, latched once per frame on real hardware

	LineCounterReload uint8 // register 10
}

func NewRegisters() *Registers {
	return &Registers{}
}

// WriteRegister applies one of the 11 Mode-4 register writes, each
// selected by a control-port write whose second byte has bits 6-7 set
// to 10 and bits 0-3 naming the register.
func (r *Registers) WriteRegister(register uint8, value uint8) {
	if int(register) < len(r.raw) {
		r.raw[register] = value
	}

	switch register {
	case 0:
		r.SpriteShiftLeft = value&0x08 != 0
		r.LineInterruptEnable = value&0x10 != 0
		r.LeftColumnBlank = value&0x20 != 0
		r.HScrollLock = value&0x40 != 0
		r.VScrollLock = value&0x80 != 0
	case 1:
		r.DisplayEnable = value&0x40 != 0
		r.VInterruptEnable = value&0x20 != 0
		if value&0x02 != 0 {
			r.SpriteSize = Sprite8x16
		} else {
			r.SpriteSize = Sprite8x8
		}
	case 2:
		r.NameTableBase = uint16(value&0x0e) << 10
	case 5:
		r.SpriteAttrBase = uint16(value&0x7e) << 7
	case 6:
		if value&0x04 != 0 {
			r.SpritePatternBase = 0x2000
		} else {
			r.SpritePatternBase = 0x0000
		}
	case 7:
		r.BackgroundColorIndex = value & 0x0f
	case 8:
		r.HScroll = value
	case 9:
		r.VScroll = value
	case 10:
		r.LineCounterReload = value
	}
}
