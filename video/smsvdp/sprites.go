package smsvdp

// spriteAttr is one cached sprite attribute table entry: Y (byte 0 of
// the 64-byte Y table) plus X and tile index (the paired 128-byte table
// at SpriteAttrBase+0x80). Kept pre-split out of VRAM per the project's
// sprite-attribute-cache invariant, so a table write only re-derives the
// one affected entry rather than the whole table.
type spriteAttr struct {
	y    uint8
	x    uint8
	tile uint8
}

const (
	maxSpritesPerLine = 8
	spriteYTableLen   = 64
	spriteXTileTableOffset = 0x80
	spriteListTerminator   = 0xd0 // only terminates the list in 192-line mode
)

// spriteLineEntry is one sprite matched against the current scanline,
// pre-resolved enough to answer per-pixel queries during compositing.
type spriteLineEntry struct {
	x    int
	row  int // row within the sprite's pattern, 0-7 (8x8) or 0-15 (8x16)
	tile uint8
}

// refreshSpriteCacheFor updates whichever cached sprite attribute entry
// (if any) the given VRAM write address falls into, maintaining the
// "cached entry updated before the next scanline renders" invariant.
func (v *VDP) refreshSpriteCacheFor(addr uint16) {
	base := v.Registers.SpriteAttrBase
	if addr >= base && addr < base+spriteYTableLen {
		i := addr - base
		v.spriteAttrCache[i].y = v.VRAM.Read(uint32(addr))
		return
	}
	tableStart := base + spriteXTileTableOffset
	if addr >= tableStart && addr < tableStart+128 {
		offset := addr - tableStart
		i := offset / 2
		if int(i) >= len(v.spriteAttrCache) {
			return
		}
		if offset%2 == 0 {
			v.spriteAttrCache[i].x = v.VRAM.Read(uint32(addr))
		} else {
			v.spriteAttrCache[i].tile = v.VRAM.Read(uint32(addr))
		}
	}
}

// rebuildSpriteCache re-derives the whole sprite attribute cache from
// VRAM, called when register 5 (the sprite attribute table's base
// address) changes: a base-address move doesn't touch the bytes at the
// new location, so refreshSpriteCacheFor's per-write update alone would
// leave the cache stale until every entry happened to be rewritten.
func (v *VDP) rebuildSpriteCache() {
	base := v.Registers.SpriteAttrBase
	for i := range v.spriteAttrCache {
		v.spriteAttrCache[i].y = v.VRAM.Read(uint32(base) + uint32(i))
		v.spriteAttrCache[i].x = v.VRAM.Read(uint32(base) + spriteXTileTableOffset + uint32(i)*2)
		v.spriteAttrCache[i].tile = v.VRAM.Read(uint32(base) + spriteXTileTableOffset + uint32(i)*2 + 1)
	}
}

// evaluateSprites scans the 64-entry sprite attribute cache for the
// given scanline, applying the 8-sprite-per-line cap and overflow flag
// and the list terminator (Y=0xd0, valid only in 192-line mode).
func (v *VDP) evaluateSprites(scanline int) {
	height := 8
	if v.Registers.SpriteSize == Sprite8x16 {
		height = 16
	}

	var matched []spriteLineEntry
	v.spriteOverflow = false

	for i := 0; i < len(v.spriteAttrCache); i++ {
		entry := v.spriteAttrCache[i]
		if entry.y == spriteListTerminator {
			break
		}
		y := int(entry.y) + 1
		if y > 240 {
			y -= 256 // sprites near the bottom of the Y table wrap to negative screen rows
		}
		if scanline < y || scanline >= y+height {
			continue
		}
		if len(matched) >= maxSpritesPerLine {
			v.spriteOverflow = true
			break
		}

		x := int(entry.x)
		if v.Registers.SpriteShiftLeft {
			x -= 8
		}
		tile := entry.tile
		if height == 16 {
			tile &^= 0x01 // 8x16 sprites always address an even/odd tile pair
		}
		matched = append(matched, spriteLineEntry{x: x, row: scanline - y, tile: tile})
	}

	v.scanlineSprites = matched
}

// spritePixelAt finds the highest-priority (lowest sprite-index) opaque
// sprite pixel at x, and reports the hardware sprite-collision flag
// (more than one opaque sprite pixel on the same dot) along the way.
func (v *VDP) spritePixelAt(x int) (colorIdx uint8, ok bool) {
	found := false
	for _, s := range v.scanlineSprites {
		if x < s.x || x >= s.x+8 {
			continue
		}
		col := x - s.x
		row := s.row
		tile := int(s.tile)
		if row >= 8 {
			tile++
			row -= 8
		}
		id := v.readTilePixel(v.Registers.SpritePatternBase, tile, row, col)
		if id == 0 {
			continue
		}
		if found {
			v.spriteCollision = true
			continue
		}
		colorIdx, ok = id, true
		found = true
	}
	return
}
