package gbppu

// render.go composes one Game Boy scanline: background tilemap/pattern
// fetch with SCX/SCY scrolling, the window layer (WX/WY, its own
// internal line counter), and the sprite layer sprites.go evaluated,
// finishing with the fixed 4-shade palette lookup. Grounded on the
// pack's ernesto27-ai-projects/gameboy-emulator background.go/window.go/
// sprite.go logic, which computes every piece of this except the actual
// pixel write (left as a TODO there); the tile-addressing-mode and
// priority rules below follow that package's decode exactly.

// gbShades is the authentic (greenish) DMG palette, in the same order
// the reference package's GameBoyPalette table uses.
var gbShades = [4]uint32{
	0x9bbc0f,
	0x8bac0f,
	0x306230,
	0x0f380f,
}

func shadeColor(shade uint8) uint32 {
	if shade > 3 {
		shade = 3
	}
	return gbShades[shade]
}

// tilePixel decodes one pixel of an 8x8 2bpp tile: 2 bytes per row (low
// plane then high plane), MSB-first within the row.
func (p *PPU) tilePixel(tileDataAddr uint32, row, col int) uint8 {
	lo := p.VRAM.Read(tileDataAddr + uint32(row)*2)
	hi := p.VRAM.Read(tileDataAddr + uint32(row)*2 + 1)
	bit := 7 - uint(col)
	return (hi>>bit)&0x01<<1 | (lo>>bit)&0x01
}

// bgTileDataAddr resolves a tile map index to its tile data address per
// LCDC bit 4: unsigned $8000 indexing, or signed $8800 indexing where
// tile 0 sits at $9000.
func (p *PPU) bgTileDataAddr(tileIndex uint8) uint32 {
	if p.Regs.UnsignedTileData() {
		return uint32(tileIndex) * 16
	}
	return uint32(0x9000-0x8000) + uint32(int8(tileIndex))*16
}

// backgroundPixel fetches the background layer's raw color index (0-3,
// before BGP) at the given screen coordinate, wrapping the 256x256
// background map with SCX/SCY.
func (p *PPU) backgroundPixel(scanline, screenX int) uint8 {
	bgY := (scanline + int(p.Regs.SCY)) & 0xff
	bgX := (screenX + int(p.Regs.SCX)) & 0xff

	tileRow := bgY / 8
	tileCol := bgX / 8
	mapAddr := uint32(p.Regs.BGTileMapBase()) - 0x8000 + uint32(tileRow*32+tileCol)
	tileIndex := p.VRAM.Read(mapAddr)

	return p.tilePixel(p.bgTileDataAddr(tileIndex), bgY%8, bgX%8)
}

// windowPixelAt reports the window layer's raw color index at screenX,
// if the window covers that pixel on this scanline. windowRow is the
// window's own internal line counter, not the screen scanline.
func (p *PPU) windowPixelAt(screenX, windowRow int) (uint8, bool) {
	windowX := int(p.Regs.WX) - 7
	if screenX < windowX {
		return 0, false
	}

	internalX := screenX - windowX
	tileRow := windowRow / 8
	tileCol := internalX / 8
	mapAddr := uint32(p.Regs.WindowTileMapBase()) - 0x8000 + uint32(tileRow*32+tileCol)
	tileIndex := p.VRAM.Read(mapAddr)

	return p.tilePixel(p.bgTileDataAddr(tileIndex), windowRow%8, internalX%8), true
}

// renderScanline composes the background, window, and sprite layers for
// one visible scanline into the frame buffer.
func (p *PPU) renderScanline(scanline int) {
	// LCDC bit 0 blanks both background and window layers together; only
	// once both are confirmed does the window's own enable bit/position
	// decide whether it draws this scanline.
	windowVisible := p.Regs.BGEnabled() && p.Regs.WindowEnabled() && scanline >= int(p.Regs.WY) && int(p.Regs.WX) <= 166
	windowDrewThisLine := false

	bgp := p.Regs.DecodeBGP()

	for x := 0; x < screenWidth; x++ {
		var rawColor uint8
		if p.Regs.BGEnabled() {
			rawColor = p.backgroundPixel(scanline, x)
		}

		if windowVisible {
			if wc, ok := p.windowPixelAt(x, int(p.windowLineCounter)); ok {
				rawColor = wc
				windowDrewThisLine = true
			}
		}

		shade := bgp[rawColor]
		bgOpaque := rawColor != 0

		if p.Regs.SpriteEnabled() {
			if spriteShade, behindBG, ok := p.spritePixelAt(x); ok {
				if !behindBG || !bgOpaque {
					shade = spriteShade
				}
			}
		}

		p.frame[scanline*screenWidth+x] = shadeColor(shade)
	}

	if windowDrewThisLine {
		p.windowLineCounter++
	}
}
