package nesppu

// render.go implements the per-dot background fetch (nametable,
// attribute, pattern-table low/high planes addressed through the
// current v scroll register) and the per-scanline sprite evaluation
// (OAM scan into secondary OAM, 8-sprite-per-line limit, sprite 0 hit).

// masterPalette is the NES 2C02's fixed 64-entry NTSC RGB palette.
var masterPalette = [64]uint32{
	0x666666, 0x002a88, 0x1412a7, 0x3b00a4, 0x5c007e, 0x6e0040, 0x6c0600, 0x561d00,
	0x333500, 0x0b4800, 0x005200, 0x004f08, 0x00404d, 0x000000, 0x000000, 0x000000,
	0xadadad, 0x155fd9, 0x4240ff, 0x7527fe, 0xa01acc, 0xb71e7b, 0xb53120, 0x994e00,
	0x6b6d00, 0x388700, 0x0c9300, 0x008f32, 0x007c8d, 0x000000, 0x000000, 0x000000,
	0xfffeff, 0x64b0ff, 0x9290ff, 0xc676ff, 0xf36aff, 0xfe6ecc, 0xfe8170, 0xea9e22,
	0xbcbe00, 0x88d800, 0x5ce430, 0x45e082, 0x48cdde, 0x4f4f4f, 0x000000, 0x000000,
	0xfffeff, 0xc0dfff, 0xd3d2ff, 0xe8c8ff, 0xfbc2ff, 0xfec4ea, 0xfeccc5, 0xf7d8a5,
	0xe4e594, 0xcfef96, 0xbdf4ab, 0xb3f3cc, 0xb5ebf2, 0xb8b8b8, 0x000000, 0x000000,
}

func (p *PPU) bgPaletteColor(paletteIdx, colorIdx uint8) uint32 {
	var idx uint8
	if colorIdx == 0 {
		idx = p.readPalette(0x3f00)
	} else {
		idx = p.readPalette(0x3f00 + uint16(paletteIdx)*4 + uint16(colorIdx))
	}
	return masterPalette[idx&0x3f]
}

func (p *PPU) spritePaletteColor(paletteIdx, colorIdx uint8) uint32 {
	idx := p.readPalette(0x3f10 + uint16(paletteIdx)*4 + uint16(colorIdx))
	return masterPalette[idx&0x3f]
}

// bgPixel returns the background pattern-table color index (0-3) and
// palette number (0-3) for one pixel, fetched from the current scroll
// registers. Tick() advances v's coarse-X once every 8 dots, so within
// a tile's 8 dots v already names the right nametable cell; only the
// fine-X component (fixed for the whole scanline, latched from t at
// dot 257 of the previous line) varies the in-tile bit position.
func (p *PPU) bgPixel(x int) (colorIdx, paletteIdx uint8) {
	fineX := (uint16(p.Scroll.X) + uint16(x)) & 0x07
	v := p.Scroll.V

	ntAddr := 0x2000 | (v & 0x0fff)
	tileIndex := p.ReadBusAddr(ntAddr)

	attrAddr := 0x23c0 | (v & 0x0c00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	attrByte := p.ReadBusAddr(attrAddr)
	coarseX := v & 0x001f
	coarseY := (v >> 5) & 0x001f
	shift := ((coarseY & 0x02) << 1) | (coarseX & 0x02)
	paletteIdx = (attrByte >> shift) & 0x03

	fineY := (v >> 12) & 0x07
	patternAddr := p.Control.BGPatternTable + uint16(tileIndex)*16 + fineY
	lo := p.ReadBusAddr(patternAddr)
	hi := p.ReadBusAddr(patternAddr + 8)

	bit := 7 - uint8(fineX)
	colorIdx = (lo>>bit)&0x01 | ((hi>>bit)&0x01)<<1
	return colorIdx, paletteIdx
}

type evaluatedSprite struct {
	x          int
	patternLo  uint8
	patternHi  uint8
	palette    uint8
	priority   bool // true = behind background
	isSprite0  bool
}

// evaluateSprites scans all 64 OAM entries for the given target scanline
// (the real 2C02 evaluates during the preceding scanline's HBlank; this
// batch model does the equivalent work at dot 257 of the scanline before
// target), keeping the first 8 matches and setting the overflow flag if
// a ninth is found, and fetches their pattern data into p.scanlineSprites.
func (p *PPU) evaluateSprites(target int) {
	height := p.Control.SpriteHeight

	var matched []evaluatedSprite
	sprite0InRange := false

	for i := 0; i < 64; i++ {
		y := int(p.OAM.Read(uint32(i*4))) + 1
		if target < y || target >= y+height {
			continue
		}
		if i == 0 {
			sprite0InRange = true
		}
		if len(matched) >= 8 {
			p.Status.SpriteOverflow = true
			continue
		}

		tile := p.OAM.Read(uint32(i*4 + 1))
		attr := p.OAM.Read(uint32(i*4 + 2))
		x := int(p.OAM.Read(uint32(i*4 + 3)))

		row := target - y
		vFlip := attr&0x80 != 0
		hFlip := attr&0x40 != 0
		if vFlip {
			row = height - 1 - row
		}

		var patternAddr uint16
		if height == 16 {
			table := uint16(tile&0x01) * 0x1000
			cell := tile &^ 0x01
			if row >= 8 {
				cell++
				row -= 8
			}
			patternAddr = table + uint16(cell)*16 + uint16(row)
		} else {
			patternAddr = p.Control.SpritePatternTable + uint16(tile)*16 + uint16(row)
		}

		lo := p.ReadBusAddr(patternAddr)
		hi := p.ReadBusAddr(patternAddr + 8)
		if hFlip {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		matched = append(matched, evaluatedSprite{
			x:         x,
			patternLo: lo,
			patternHi: hi,
			palette:   attr & 0x03,
			priority:  attr&0x20 != 0,
			isSprite0: i == 0 && sprite0InRange,
		})
	}

	p.scanlineSprites = matched
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 0x01
		b >>= 1
	}
	return r
}

// spritePixel finds the highest-priority (lowest OAM index, already
// encoded by slice order) sprite pixel at x, reporting a sprite-0 hit
// candidate separately so renderDot can apply the background-collision
// rule.
func (p *PPU) spritePixel(x int) (colorIdx, paletteIdx uint8, behindBG, isSprite0 bool, hit bool) {
	for _, s := range p.scanlineSprites {
		if x < s.x || x >= s.x+8 {
			continue
		}
		bit := uint8(x - s.x)
		lo := (s.patternLo >> (7 - bit)) & 0x01
		hi := (s.patternHi >> (7 - bit)) & 0x01
		id := lo | hi<<1
		if id == 0 {
			continue
		}
		return id, s.palette, s.priority, s.isSprite0, true
	}
	return 0, 0, false, false, false
}

// renderDot composes the background and sprite layers for one pixel and
// writes the resolved color into the frame buffer.
func (p *PPU) renderDot(scanline, x int) {
	bgColorIdx, bgPalette := uint8(0), uint8(0)
	if p.Mask.ShowBackground && (x >= 8 || p.Mask.ShowBGLeft8) {
		bgColorIdx, bgPalette = p.bgPixel(x)
	}

	var spriteColorIdx, spritePalette uint8
	var behindBG, isSprite0, spriteHit bool
	if p.Mask.ShowSprites && (x >= 8 || p.Mask.ShowSpritesLeft8) {
		spriteColorIdx, spritePalette, behindBG, isSprite0, spriteHit = p.spritePixel(x)
	}

	if spriteHit && isSprite0 && bgColorIdx != 0 && x != 255 {
		p.Status.Sprite0Hit = true
	}

	var color uint32
	switch {
	case spriteHit && (!behindBG || bgColorIdx == 0):
		color = p.spritePaletteColor(spritePalette, spriteColorIdx)
	case bgColorIdx != 0:
		color = p.bgPaletteColor(bgPalette, bgColorIdx)
	default:
		color = p.bgPaletteColor(0, 0)
	}

	p.frame[scanline*screenWidth+x] = color
}
