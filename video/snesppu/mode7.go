package snesppu

// mode7Pixel returns the Mode 7 background's color index (0-255, 8bpp,
// single palette) for one pixel, implementing the affine transform
// ported from ppu.rs's render_mode_7_to_buffer: the screen-space pixel
// is rotated/scaled by the 2x2 M7A-D matrix around the M7X/Y center,
// then offset by M7HOFS/VOFS, landing on a cell in the fixed 128x128
// tile Mode 7 map that starts at VRAM word 0.
func (p *PPU) mode7Pixel(screenX, screenY int) (colorIdx uint8, opaque bool) {
	const tileMapSizePixels = 128 * 8

	clipI11 := func(v int32) int32 {
		magnitude := v & 0x3ff
		sign := (v >> 31) &^ 0x3ff
		return magnitude | sign
	}
	signExtend13 := func(v uint16) int32 {
		return int32(int16(v<<3)) >> 3
	}
	truncate := func(v int32) int32 { return v &^ 0x3f }

	r := &p.Regs
	m7a := int32(int16(r.Mode7A))
	m7b := int32(int16(r.Mode7B))
	m7c := int32(int16(r.Mode7C))
	m7d := int32(int16(r.Mode7D))

	m7x := signExtend13(r.Mode7CenterX)
	m7y := signExtend13(r.Mode7CenterY)
	// Mode 7 has no dedicated scroll registers: hardware reuses BG1HOFS/
	// BG1VOFS (written through the same port as every other mode's BG1
	// scroll) as M7HOFS/M7VOFS while BGMODE selects Mode 7.
	hScroll := signExtend13(r.BgHScroll[0])
	vScroll := signExtend13(r.BgVScroll[0])

	sx := int32(screenX)
	sy := int32(screenY)
	if r.Mode7HFlip {
		sx = 255 - sx
	}
	if r.Mode7VFlip {
		sy = 255 - sy
	}

	scrolledCenterX := clipI11(hScroll - m7x)
	scrolledCenterY := clipI11(vScroll - m7y)

	tileMapX := truncate(m7a*scrolledCenterX) + m7a*sx +
		truncate(m7b*scrolledCenterY) + truncate(m7b*sy) + m7x<<8
	tileMapY := truncate(m7c*scrolledCenterX) + m7c*sx +
		truncate(m7d*scrolledCenterY) + truncate(m7d*sy) + m7y<<8

	tileMapX >>= 8
	tileMapY >>= 8

	forceTile0 := false
	if tileMapX < 0 || tileMapY < 0 || tileMapX >= tileMapSizePixels || tileMapY >= tileMapSizePixels {
		switch r.Mode7OOB {
		case Mode7Wrap:
			tileMapX &= tileMapSizePixels - 1
			tileMapY &= tileMapSizePixels - 1
		case Mode7Transparent:
			return 0, false
		case Mode7Tile0:
			tileMapX &= 0x07
			tileMapY &= 0x07
			forceTile0 = true
		}
	}

	var tileNumber int32
	if !forceTile0 {
		row := tileMapY / 8
		col := tileMapX / 8
		mapAddr := row*tileMapSizePixels/8 + col
		tileNumber = int32(p.vram.Read(uint32(mapAddr)) & 0x00ff)
	}

	tileRow := tileMapY % 8
	tileCol := tileMapX % 8
	pixelAddr := 64*tileNumber + 8*tileRow + tileCol
	color := uint8(p.vram.Read(uint32(pixelAddr)) >> 8)
	return color, color != 0
}
