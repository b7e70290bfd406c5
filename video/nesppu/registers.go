// Package nesppu implements the NES 2C02 picture processing unit: the
// $2000-$2007 CPU-visible register file, background/sprite scanline
// rendering, the OAM and palette RAM, and VBlank/NMI timing. No original
// NES reference exists in the retrieval pack (only the SNES PPU does),
// so register/timing semantics here are transcribed directly from
// nesdev.org's documented 2C02 behavior. Tick advances one dot and
// renders one pixel per visible dot; sprite evaluation for a whole
// scanline runs at once, at dot 257 of the line before it.
package nesppu

// Control is PPUCTRL ($2000).
type Control struct {
	NameTableBase      uint16 // base address of one of the four logical nametables
	VRAMIncrement      uint16 // 1 or 32, selected by bit 2
	SpritePatternTable uint16 // $0000 or $1000, ignored in 8x16 sprite mode
	BGPatternTable     uint16
	SpriteHeight       int // 8 or 16
	NMIEnabled         bool
}

func (c *Control) Write(v uint8) {
	c.NameTableBase = 0x2000 + 0x400*uint16(v&0x03)
	if v&0x04 != 0 {
		c.VRAMIncrement = 32
	} else {
		c.VRAMIncrement = 1
	}
	if v&0x08 != 0 {
		c.SpritePatternTable = 0x1000
	} else {
		c.SpritePatternTable = 0x0000
	}
	if v&0x10 != 0 {
		c.BGPatternTable = 0x1000
	} else {
		c.BGPatternTable = 0x0000
	}
	if v&0x20 != 0 {
		c.SpriteHeight = 16
	} else {
		c.SpriteHeight = 8
	}
	c.NMIEnabled = v&0x80 != 0
}

// Mask is PPUMASK ($2001).
type Mask struct {
	Grayscale        bool
	ShowBGLeft8      bool
	ShowSpritesLeft8 bool
	ShowBackground   bool
	ShowSprites      bool
	EmphasizeRed     bool
	EmphasizeGreen   bool
	EmphasizeBlue    bool
}

func (m *Mask) Write(v uint8) {
	m.Grayscale = v&0x01 != 0
	m.ShowBGLeft8 = v&0x02 != 0
	m.ShowSpritesLeft8 = v&0x04 != 0
	m.ShowBackground = v&0x08 != 0
	m.ShowSprites = v&0x10 != 0
	m.EmphasizeRed = v&0x20 != 0
	m.EmphasizeGreen = v&0x40 != 0
	m.EmphasizeBlue = v&0x80 != 0
}

func (m *Mask) RenderingEnabled() bool { return m.ShowBackground || m.ShowSprites }

// Status is PPUSTATUS ($2002): reading clears VBlank and the
// control-port write-toggle, which the PPU struct handles since it's a
// cross-register effect.
type Status struct {
	SpriteOverflow bool
	Sprite0Hit     bool
	VBlank         bool
}

func (s *Status) Read() uint8 {
	var v uint8
	if s.SpriteOverflow {
		v |= 0x20
	}
	if s.Sprite0Hit {
		v |= 0x40
	}
	if s.VBlank {
		v |= 0x80
	}
	return v
}

// ScrollRegs holds the PPU's internal v/t/x/w loopy-register scroll
// state: v is the current VRAM address, t the temporary address latched
// by $2005/$2006 writes, x the fine-x scroll, w the write-toggle shared
// by $2005 and $2006.
type ScrollRegs struct {
	V, T uint16
	X    uint8
	W    bool
}

// WriteScroll handles a $2005 PPUSCROLL write.
func (s *ScrollRegs) WriteScroll(v uint8) {
	if !s.W {
		s.T = s.T&0xffe0 | uint16(v>>3)
		s.X = v & 0x07
	} else {
		s.T = s.T&0x8fff | uint16(v&0x07)<<12
		s.T = s.T&0xfc1f | uint16(v&0xf8)<<2
	}
	s.W = !s.W
}

// WriteAddr handles a $2006 PPUADDR write.
func (s *ScrollRegs) WriteAddr(v uint8) {
	if !s.W {
		s.T = s.T&0x00ff | uint16(v&0x3f)<<8
	} else {
		s.T = s.T&0xff00 | uint16(v)
		s.V = s.T
	}
	s.W = !s.W
}

// IncrementX performs the coarse-X increment with nametable-horizontal
// wraparound, applied once per background tile fetched during rendering.
func (s *ScrollRegs) IncrementX() {
	if s.V&0x001f == 31 {
		s.V &^= 0x001f
		s.V ^= 0x0400
	} else {
		s.V++
	}
}

// IncrementY performs the fine/coarse-Y increment with nametable-vertical
// wraparound, applied once per scanline during rendering.
func (s *ScrollRegs) IncrementY() {
	if s.V&0x7000 != 0x7000 {
		s.V += 0x1000
		return
	}
	s.V &^= 0x7000
	y := (s.V & 0x03e0) >> 5
	switch y {
	case 29:
		y = 0
		s.V ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	s.V = s.V&^0x03e0 | y<<5
}

// CopyHorizontal copies t's horizontal bits into v, performed at the end
// of HBlank (dot 257 of each visible/pre-render scanline).
func (s *ScrollRegs) CopyHorizontal() {
	s.V = s.V&0xfbe0 | s.T&0x041f
}

// CopyVertical copies t's vertical bits into v, performed during the
// pre-render scanline's dots 280-304.
func (s *ScrollRegs) CopyVertical() {
	s.V = s.V&0x841f | s.T&0x7be0
}
