package snesppu

// spritePixelSource is one OAM entry matched for the current scanline,
// pre-fetched enough to answer per-pixel queries during compositing.
type spritePixelSource struct {
	x         int
	width     int
	row       int // 0-63, row within the (possibly large) sprite after v-flip
	tile      int
	palette   uint8
	priority  uint8
	hFlip     bool
}

const maxSpritesPerLine = 32
const maxSpriteTilesPerLine = 34

// evaluateSprites scans all 128 OAM entries for the given scanline,
// applying the 32-sprites/34-tiles-per-line hardware caps and OBJADD's
// priority-rotation start index. Grounded on ppu.rs's sprite evaluation
// being a two-phase (range-then-time) process; simplified here to one
// pass since the system shell polls per-scanline rather than needing
// the real hardware's mid-scanline partial-evaluation timing.
func (p *PPU) evaluateSprites(scanline int) {
	start := 0
	if p.oamPriorityRotate {
		start = int(p.Regs.OAMAddr>>2) & 0x7f
	}

	var matched []spritePixelSource
	tilesUsed := 0

	for n := 0; n < 128; n++ {
		i := (start + n) % 128
		y := int(p.oamLo.Read(uint32(i*4 + 1)))
		attr2 := p.oamHi.Read(uint32(i / 4))
		large := attr2&(1<<uint((i%4)*2+1)) != 0
		width := p.Regs.ObjSizeSmall
		if large {
			width = p.Regs.ObjSizeLarge
		}

		// sprite Y wraps from 240-255 to represent rows straddling the
		// bottom of the screen
		if y >= 240 {
			y -= 256
		}
		if scanline < y || scanline >= y+width {
			continue
		}
		if len(matched) >= maxSpritesPerLine {
			break
		}
		tilesThisSprite := (width / 8)
		if tilesUsed+tilesThisSprite > maxSpriteTilesPerLine {
			break
		}
		tilesUsed += tilesThisSprite

		xLo := int(p.oamLo.Read(uint32(i * 4)))
		attr1 := p.oamLo.Read(uint32(i*4 + 3))
		xHigh := attr2 & (1 << uint((i%4)*2))
		x := xLo
		if xHigh != 0 {
			x -= 256
		}

		// attr1 bit 0 is the tile index's 9th bit, selecting the second
		// OBJ name table (OBSEL's gap-separated table) for tiles 256-511
		tile := int(p.oamLo.Read(uint32(i*4+2))) | int(attr1&0x01)<<8
		vFlip := attr1&0x80 != 0
		hFlip := attr1&0x40 != 0
		paletteGroup := (attr1 >> 1) & 0x07
		priority := (attr1 >> 4) & 0x03

		row := scanline - y
		if vFlip {
			row = width - 1 - row
		}

		matched = append(matched, spritePixelSource{
			x:        x,
			width:    width,
			row:      row,
			tile:     tile,
			palette:  paletteGroup,
			priority: priority,
			hFlip:    hFlip,
		})
	}

	p.scanlineSprites = matched
}

// objPatternBase returns the VRAM word offset of an 8x8 sprite cell,
// selecting the second name table (OBSEL's gap-separated table) once
// the tile index wraps past 255.
func (p *PPU) objPatternBase(tile int) uint16 {
	base := p.Regs.ObjBaseAddr
	if tile >= 256 {
		base += p.Regs.ObjGap
		tile -= 256
	}
	return base + uint16(tile)*16 // 4bpp tile = 16 words
}

// spritePixelAt finds the highest-priority sprite pixel at x (OAM index
// order, matching the hardware's first-match-wins per-dot search), and
// reports its priority tier (0-3) for the layer-priority resolver.
func (p *PPU) spritePixelAt(x int) (colorIdx, palette, priority uint8, ok bool) {
	for _, s := range p.scanlineSprites {
		if x < s.x || x >= s.x+s.width {
			continue
		}
		col := x - s.x
		if s.hFlip {
			col = s.width - 1 - col
		}
		cellRow := s.row % 8
		cellCol := col % 8
		cellsAcross := s.width / 8
		cellIdx := (s.row/8)*cellsAcross + col/8
		// real hardware wraps sub-tile indices at the 16-tile-wide OBJ name
		// sheet rather than walking contiguously past the base tile; not
		// modeled here, so large sprites whose base tile sits near a
		// sheet-row boundary will sample the wrong neighboring tiles
		patternAddr := p.objPatternBase(s.tile) + uint16(cellIdx)*16 + uint16(cellRow)
		id := p.read4bppPixel(patternAddr, cellCol)
		if id == 0 {
			continue
		}
		return id, s.palette, s.priority, true
	}
	return 0, 0, 0, false
}

// read4bppPixel reads one pixel out of a 4bpp planar tile: each row is
// stored as two interleaved bitplane words (bitplanes 0/1 at
// patternBase+row, bitplanes 2/3 at patternBase+row+8).
func (p *PPU) read4bppPixel(patternBase uint16, col int) uint8 {
	lowWord := p.vram.Read(uint32(patternBase))
	highWord := p.vram.Read(uint32(patternBase + 8))
	bit := 7 - uint(col)
	p0 := uint8(lowWord>>bit) & 0x01
	p1 := uint8(lowWord>>(bit+8)) & 0x01
	p2 := uint8(highWord>>bit) & 0x01
	p3 := uint8(highWord>>(bit+8)) & 0x01
	return p0 | p1<<1 | p2<<2 | p3<<3
}
