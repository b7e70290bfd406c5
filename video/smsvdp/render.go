package smsvdp

// render.go composes one Mode-4 scanline: background tilemap/pattern
// fetch with per-scanline H-scroll and the row/column lock bits, sprite
// compositing via the per-line cache sprites.go built, and the 6-bit
// (2 bits per RGB channel) CRAM palette lookup. Grounded on
// video/genesisvdp's Mode-4-compatible rendering rules (register 0's
// lock bits and the tile-priority-over-sprites flag this VDP's Mode 4
// shares with the Genesis VDP's legacy mode) and on public Master
// System VDP documentation for the parts the Genesis VDP's own Mode 5
// superseded (the plain 4bpp planar tile format, the 64-entry flat
// sprite table).

const (
	tileBytes      = 32 // 8 rows x 4 planes
	nameTableWidth = 32
)

// readTilePixel decodes one pixel of a Mode-4 tile: 4 bitplanes stored
// as one byte each per row, 32 bytes per tile.
func (v *VDP) readTilePixel(patternBase uint16, tile, row, col int) uint8 {
	base := uint32(patternBase) + uint32(tile)*tileBytes + uint32(row)*4
	bit := 7 - uint(col)
	var id uint8
	for plane := 0; plane < 4; plane++ {
		b := v.VRAM.Read(base + uint32(plane))
		id |= (b >> bit) & 0x01 << uint(plane)
	}
	return id
}

type bgPixelResult struct {
	colorIdx uint8
	palette  uint8
	priority bool
}

// bgPixel fetches the background tilemap entry covering screenX on the
// given scanline, honoring the H-scroll-lock (rows 0-1 ignore HScroll)
// and V-scroll-lock (rightmost 8 columns ignore VScroll) bits.
func (v *VDP) bgPixel(scanline, screenX int) bgPixelResult {
	r := v.Registers

	hScroll := int(r.HScroll)
	if r.HScrollLock && scanline < 16 {
		hScroll = 0
	}
	col := (screenX + 256 - hScroll) % 256 / 8
	fineX := (screenX + 256 - hScroll) % 8

	vScroll := int(r.VScroll)
	if r.VScrollLock && screenX >= 256-8*8 {
		vScroll = 0
	}
	tileRow := (scanline + vScroll) % 224 / 8
	fineY := (scanline + vScroll) % 8

	entryAddr := uint32(r.NameTableBase) + uint32(tileRow*nameTableWidth+col)*2
	lo := v.VRAM.Read(entryAddr)
	hi := v.VRAM.Read(entryAddr + 1)
	entry := uint16(hi)<<8 | uint16(lo)

	tile := int(entry & 0x01ff)
	hFlip := entry&0x0200 != 0
	vFlip := entry&0x0400 != 0
	palette := uint8((entry >> 11) & 0x01)
	priority := entry&0x1000 != 0

	row := fineY
	if vFlip {
		row = 7 - row
	}
	pixelCol := fineX
	if hFlip {
		pixelCol = 7 - pixelCol
	}

	colorIdx := v.readTilePixel(0, tile, row, pixelCol)
	return bgPixelResult{colorIdx: colorIdx, palette: palette, priority: priority}
}

// renderScanline composes the background and sprite layers for one
// visible scanline into the frame buffer.
func (v *VDP) renderScanline(scanline int) {
	v.evaluateSprites(scanline)

	for x := 0; x < v.frameWidth; x++ {
		bg := v.bgPixel(scanline, x)
		spriteIdx, spriteOK := v.spritePixelAt(x)

		var cramIdx uint8
		switch {
		case v.Registers.LeftColumnBlank && x < 8:
			// register 0 bit 5 masks the leftmost 8 pixels with the
			// overscan color, which is always taken from the sprite palette
			cramIdx = 16 + v.Registers.BackgroundColorIndex
		case spriteOK && !(bg.priority && bg.colorIdx != 0):
			cramIdx = 16 + spriteIdx
		default:
			// a transparent (colorIdx 0) background pixel still indexes its
			// palette's entry 0, the normal backdrop color for the layer
			cramIdx = bg.palette*16 + bg.colorIdx
		}

		v.frame[scanline*v.frameWidth+x] = v.cramColor(cramIdx)
	}
}

// cramColor converts one 6-bit (--BBGGRR) CRAM byte to packed 0xRRGGBB,
// scaling each 2-bit channel by 85 so 0/1/2/3 map to 0/85/170/255.
func (v *VDP) cramColor(idx uint8) uint32 {
	c := v.CRAM.Read(uint32(idx) & (cramLen - 1))
	r := uint32(c&0x03) * 85
	g := uint32((c>>2)&0x03) * 85
	b := uint32((c>>4)&0x03) * 85
	return r<<16 | g<<8 | b
}
