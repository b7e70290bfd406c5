package gbppu

import "sort"

const (
	maxSpritesPerLine = 10
	spriteYOffset     = 16 // OAM Y=16 renders at screen row 0
	spriteXOffset     = 8  // OAM X=8 renders at screen column 0
)

// spriteAttr is one decoded OAM entry.
type spriteAttr struct {
	y, x, tile, flags uint8
}

func (s spriteAttr) priorityBehindBG() bool { return s.flags&0x80 != 0 }
func (s spriteAttr) flipY() bool            { return s.flags&0x40 != 0 }
func (s spriteAttr) flipX() bool            { return s.flags&0x20 != 0 }
func (s spriteAttr) paletteNum() uint8 {
	if s.flags&0x10 != 0 {
		return 1
	}
	return 0
}

// spriteLineEntry is one sprite matched against the current scanline,
// OAM index preserved for the X-then-OAM-index priority tie-break.
type spriteLineEntry struct {
	screenX  int
	row      int // 0-7 (8x8) or 0-15 (8x16), flip already applied
	tile     uint8
	oamIndex int
	attr     spriteAttr
}

// evaluateSprites scans OAM for the up-to-10 sprites intersecting the
// given scanline, sorted by screen X then OAM index (DMG priority:
// lower X wins; equal X, lower OAM index wins), matching the reference
// sprite renderer's sort.Slice rule.
func (p *PPU) evaluateSprites(scanline int) {
	height := 8
	if p.Regs.SpriteDoubleHeight() {
		height = 16
	}

	for i := range p.spriteCache {
		base := i * 4
		p.spriteCache[i] = spriteAttr{
			y:     p.OAM[base],
			x:     p.OAM[base+1],
			tile:  p.OAM[base+2],
			flags: p.OAM[base+3],
		}
	}

	var matched []spriteLineEntry
	for i, s := range p.spriteCache {
		top := int(s.y) - spriteYOffset
		if scanline < top || scanline >= top+height {
			continue
		}

		row := scanline - top
		if s.flipY() {
			row = height - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile &^= 0x01
			if row >= 8 {
				tile++
				row -= 8
			}
		}

		matched = append(matched, spriteLineEntry{
			screenX:  int(s.x) - spriteXOffset,
			row:      row,
			tile:     tile,
			oamIndex: i,
			attr:     s,
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].screenX != matched[j].screenX {
			return matched[i].screenX < matched[j].screenX
		}
		return matched[i].oamIndex < matched[j].oamIndex
	})

	if len(matched) > maxSpritesPerLine {
		matched = matched[:maxSpritesPerLine]
	}

	p.scanlineSprites = matched
}

// spritePixelAt returns the highest-priority opaque sprite pixel at x,
// consulting scanlineSprites in its already-priority-sorted order so the
// first opaque hit wins.
func (p *PPU) spritePixelAt(x int) (shade uint8, behindBG bool, ok bool) {
	for _, s := range p.scanlineSprites {
		col := x - s.screenX
		if col < 0 || col >= 8 {
			continue
		}
		if s.attr.flipX() {
			col = 7 - col
		}

		tileAddr := uint32(s.tile)*16 + uint32(s.row)*2
		lo := p.VRAM.Read(tileAddr)
		hi := p.VRAM.Read(tileAddr + 1)
		bit := 7 - uint(col)
		colorIdx := (hi>>bit)&0x01<<1 | (lo>>bit)&0x01
		if colorIdx == 0 {
			continue // sprite color 0 is always transparent
		}

		var palette [4]uint8
		if s.attr.paletteNum() == 0 {
			palette = p.Regs.DecodeOBP0()
		} else {
			palette = p.Regs.DecodeOBP1()
		}
		return palette[colorIdx], s.attr.priorityBehindBG(), true
	}
	return 0, false, false
}
