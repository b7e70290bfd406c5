package snesppu

// render.go composes one scanline: background-layer tile/pattern fetch
// for modes 0-6 or the Mode 7 affine transform, OBJ compositing via the
// mode-dependent priority table, and the main/sub-screen color math
// blend. Grounded on ppu.rs's render_bg_to_buffer/render_mode_7_to_buffer
// /render_scanline; mosaic, offset-per-tile, hi-res and interlaced
// rendering are not modeled (documented simplifications, matching the
// scope video/genesisvdp already narrowed to for its own pack of
// per-pixel hardware quirks).

type layerPixel struct {
	colorIdx uint8
	palette  uint8
	priority uint8 // 0 or 1 for BGs, 0-3 for OBJ
	present  bool
}

// bgPixel fetches one background layer's pixel for screenX on the given
// scanline, reading the tilemap (with the layer's configured screen
// size) and the character data at the layer's configured bit depth.
func (p *PPU) bgPixel(bg int, scanline, screenX int, bpp int) layerPixel {
	r := &p.Regs
	x := (screenX + int(r.BgHScroll[bg])) & 0x3ff
	y := (scanline + int(r.BgVScroll[bg])) & 0x3ff

	size := r.BgScreenSize[bg]
	wide := size == 1 || size == 3
	tall := size == 2 || size == 3

	tileX := x / 8
	tileY := y / 8
	mapW, mapH := 32, 32
	if wide {
		mapW = 64
	}
	if tall {
		mapH = 64
	}
	screenBlockX := tileX % mapW
	screenBlockY := tileY % mapH

	mapAddr := r.BgMapBaseAddr[bg]
	// 64-wide/64-tall maps are stored as two or four adjacent 32x32
	// screens; select the correct quadrant before indexing within it.
	quadrant := uint16(0)
	if wide && screenBlockX >= 32 {
		quadrant += 0x400
	}
	if tall && screenBlockY >= 32 {
		quadrant += 0x800
	}
	inScreenX := screenBlockX % 32
	inScreenY := screenBlockY % 32
	entryAddr := mapAddr + quadrant + uint16(inScreenY*32+inScreenX)

	entry := p.vram.Read(uint32(entryAddr))
	tile := entry & 0x03ff
	hFlip := entry&0x4000 != 0
	vFlip := entry&0x8000 != 0
	palette := uint8((entry >> 10) & 0x07)
	priority := uint8((entry >> 13) & 0x01)

	row := y % 8
	col := x % 8
	if vFlip {
		row = 7 - row
	}
	if hFlip {
		col = 7 - col
	}

	charBase := r.BgCharBaseAddr[bg]
	var colorIdx uint8
	switch bpp {
	case 2:
		tileAddr := charBase + tile*8
		word := p.vram.Read(uint32(tileAddr) + uint32(row))
		bit := 7 - uint(col)
		colorIdx = uint8(word>>bit)&0x01 | uint8(word>>(bit+8))&0x01<<1
	case 8:
		tileAddr := charBase + tile*32
		colorIdx = p.read8bppPixel(tileAddr, uint16(row), col)
	default: // 4bpp
		tileAddr := charBase + tile*16
		colorIdx = p.read4bppPixel(tileAddr+uint16(row), col)
	}

	return layerPixel{colorIdx: colorIdx, palette: palette, priority: priority, present: colorIdx != 0}
}

func (p *PPU) read8bppPixel(tileAddr, row uint16, col int) uint8 {
	base := tileAddr + row
	lowWord := p.vram.Read(uint32(base))
	midWord := p.vram.Read(uint32(base) + 8)
	highWord := p.vram.Read(uint32(base) + 16)
	topWord := p.vram.Read(uint32(base) + 24)
	bit := 7 - uint(col)
	v := uint8(lowWord>>bit) & 0x01
	v |= uint8(lowWord>>(bit+8)) & 0x01 << 1
	v |= uint8(midWord>>bit) & 0x01 << 2
	v |= uint8(midWord>>(bit+8)) & 0x01 << 3
	v |= uint8(highWord>>bit) & 0x01 << 4
	v |= uint8(highWord>>(bit+8)) & 0x01 << 5
	v |= uint8(topWord>>bit) & 0x01 << 6
	v |= uint8(topWord>>(bit+8)) & 0x01 << 7
	return v
}

// priorityResolver picks the frontmost opaque pixel across BG1-4/OBJ,
// using the per-mode rank constants below (lower rank wins), ported
// from ppu.rs's PriorityResolver. Mode 0-1 and mode 2-7 use different
// rank tables; BG3/BG4 are only ranked in mode 0-1.
type priorityResolver struct {
	minPriority int
	pixel       layerPixel
	layer       int
}

// Mode 0-1 ranks: OBJ.3 > BG1.1 > BG2.1 > OBJ.2 > BG1.0 > BG2.0 > OBJ.1
// > BG3.1 > BG4.1 > OBJ.0 > BG3.0 > BG4.0
const (
	rankMode01Obj3    = 0
	rankMode01Bg1High = 1
	rankMode01Bg2High = 2
	rankMode01Obj2    = 3
	rankMode01Bg1Low  = 4
	rankMode01Bg2Low  = 5
	rankMode01Obj1    = 6
	rankMode01Bg3High = 7
	rankMode01Bg4High = 8
	rankMode01Obj0    = 9
	rankMode01Bg3Low  = 10
	rankMode01Bg4Low  = 11
)

// Mode 2-7 ranks: OBJ.3 > BG1.1 > OBJ.2 > BG2.1 > OBJ.1 > BG1.0 > OBJ.0
// > BG2.0 (BG3/BG4 never render in these modes)
const (
	rankMode27Obj3    = 0
	rankMode27Bg1High = 1
	rankMode27Obj2    = 2
	rankMode27Bg2High = 3
	rankMode27Obj1    = 4
	rankMode27Bg1Low  = 5
	rankMode27Obj0    = 6
	rankMode27Bg2Low  = 7
)

func newPriorityResolver() priorityResolver {
	return priorityResolver{minPriority: 1 << 30, layer: 5}
}

func (pr *priorityResolver) consider(pixel layerPixel, layer, rank int) {
	if !pixel.present {
		return
	}
	if rank < pr.minPriority {
		pr.minPriority = rank
		pr.pixel = pixel
		pr.layer = layer
	}
}

func bg1Rank(isMode01 bool, priority uint8) int {
	if priority == 1 {
		return rankMode01Bg1High // same rank in both tables
	}
	if isMode01 {
		return rankMode01Bg1Low
	}
	return rankMode27Bg1Low
}

func bg2Rank(isMode01 bool, priority uint8) int {
	if isMode01 {
		if priority == 1 {
			return rankMode01Bg2High
		}
		return rankMode01Bg2Low
	}
	if priority == 1 {
		return rankMode27Bg2High
	}
	return rankMode27Bg2Low
}

func objRank(isMode01 bool, priority uint8) int {
	if priority == 3 {
		return rankMode01Obj3 // same rank in both tables
	}
	if isMode01 {
		switch priority {
		case 0:
			return rankMode01Obj0
		case 1:
			return rankMode01Obj1
		default:
			return rankMode01Obj2
		}
	}
	switch priority {
	case 0:
		return rankMode27Obj0
	case 1:
		return rankMode27Obj1
	default:
		return rankMode27Obj2
	}
}

// resolveScreenPixel composes one screen's (main or sub) pixel at
// screenX/scanline for the given enable mask, applying the mode-0/1 vs
// mode-2-7 priority table ppu.rs's PriorityResolver documents.
func (p *PPU) resolveScreenPixel(scanline, screenX int, enabled [5]bool) (colorIdx uint8, palette uint8, layer int) {
	mode := p.Regs.BgMode
	isMode01 := mode == Mode0 || mode == Mode1

	pr := newPriorityResolver()

	if mode == Mode7 {
		if enabled[0] {
			// Mode 7's BG1 has no high-priority tile bit; it always ranks
			// at the low-priority BG1 slot of the mode 2-7 table.
			idx, opaque := p.mode7Pixel(screenX, scanline)
			pr.consider(layerPixel{colorIdx: idx, palette: 0, priority: 0, present: opaque}, 0, rankMode27Bg1Low)
		}
	} else {
		if enabled[0] {
			px := p.bgPixel(0, scanline, screenX, p.Regs.BgMode.bg1Bpp())
			pr.consider(px, 0, bg1Rank(isMode01, px.priority))
		}
		if p.Regs.BgMode.bg2Enabled() && enabled[1] {
			px := p.bgPixel(1, scanline, screenX, p.Regs.BgMode.bg2Bpp())
			pr.consider(px, 1, bg2Rank(isMode01, px.priority))
		}
		if p.Regs.BgMode.bg3Enabled() && enabled[2] {
			px := p.bgPixel(2, scanline, screenX, bg34Bpp)
			if p.Regs.Mode1Bg3Priority && mode == Mode1 && px.priority == 1 && px.present {
				// in mode 1 with the BG3-priority flag set, a non-transparent
				// high-priority BG3 pixel displays over every other layer
				pr.minPriority = -1
				pr.pixel = px
				pr.layer = 2
			} else {
				rank := rankMode01Bg3Low
				if px.priority == 1 {
					rank = rankMode01Bg3High
				}
				pr.consider(px, 2, rank)
			}
		}
		if p.Regs.BgMode.bg4Enabled() && enabled[3] {
			px := p.bgPixel(3, scanline, screenX, bg34Bpp)
			rank := rankMode01Bg4Low
			if px.priority == 1 {
				rank = rankMode01Bg4High
			}
			pr.consider(px, 3, rank)
		}
	}

	if enabled[4] {
		if idx, pal, objPriority, ok := p.spritePixelAt(screenX); ok {
			pr.consider(layerPixel{colorIdx: idx, palette: pal, present: true}, 4, objRank(isMode01, objPriority))
		}
	}

	if pr.layer == 5 {
		return 0, 0, 5
	}
	return pr.pixel.colorIdx, pr.pixel.palette, pr.layer
}

// paletteColor resolves a (layer, palette, colorIdx) triple to a 15-bit
// BGR555 CGRAM color, following each layer's palette-group addressing.
func (p *PPU) paletteColor(layer int, palette, colorIdx uint8) uint16 {
	if colorIdx == 0 {
		return p.cgram.Read(0)
	}
	switch {
	case layer == 4: // OBJ: always 4bpp, palettes 128-255
		return p.cgram.Read(uint32(128 + int(palette)*16 + int(colorIdx)))
	case layer == 0 && (p.Regs.BgMode == Mode3 || p.Regs.BgMode == Mode4 || p.Regs.BgMode == Mode7):
		return p.cgram.Read(uint32(colorIdx)) // 8bpp BG1 in mode 3/4/7: direct 256-color table
	default:
		bpp := bg34Bpp
		switch layer {
		case 0:
			bpp = p.Regs.BgMode.bg1Bpp()
		case 1:
			bpp = p.Regs.BgMode.bg2Bpp()
		}
		entriesPerPalette := 1 << uint(bpp)
		return p.cgram.Read(uint32(int(palette)*entriesPerPalette + int(colorIdx)))
	}
}

// renderScanline composes the main screen (and, when color math needs
// it, the sub screen) and writes the blended result into the frame
// buffer.
func (p *PPU) renderScanline(scanline int) {
	r := &p.Regs

	p.evaluateSprites(scanline)
	needSub := r.SubScreenBgObjEnabled && colorMathEnabledForAnyLayer(r)

	for x := 0; x < screenWidth; x++ {
		mainColorIdx, mainPalette, mainLayer := p.resolveScreenPixel(scanline, x, r.MainScreenEnabled)
		mainColor := p.paletteColor(mainLayer, mainPalette, mainColorIdx)

		mathLayerEnabled := r.ColorMathEnabled[mathLayerIndex(mainLayer)]
		finalColor := mainColor
		if mathLayerEnabled {
			var subColor uint16
			if needSub {
				subColorIdx, subPalette, subLayer := p.resolveScreenPixel(scanline, x, r.SubScreenEnabled)
				if subLayer == 5 {
					subColor = r.SubBackdropColor
				} else {
					subColor = p.paletteColor(subLayer, subPalette, subColorIdx)
				}
			} else {
				subColor = r.SubBackdropColor
			}
			finalColor = applyColorMath(mainColor, subColor, r.ColorMathSubtract, r.ColorMathHalve)
		}

		p.frame[scanline*screenWidth+x] = bgr555ToRGB(finalColor, r.Brightness)
	}
}

func colorMathEnabledForAnyLayer(r *Registers) bool {
	for _, e := range r.ColorMathEnabled {
		if e {
			return true
		}
	}
	return false
}

// mathLayerIndex maps a resolveScreenPixel layer result (0-5) to
// Registers.ColorMathEnabled's [BG1,BG2,BG3,BG4,OBJ,backdrop] index.
func mathLayerIndex(layer int) int { return layer }

func applyColorMath(main, sub uint16, subtract, halve bool) uint16 {
	blend := func(shift uint) uint16 {
		m := (main >> shift) & 0x1f
		s := (sub >> shift) & 0x1f
		var v int
		if subtract {
			v = int(m) - int(s)
		} else {
			v = int(m) + int(s)
		}
		if halve && !subtract {
			v /= 2
		}
		if v < 0 {
			v = 0
		}
		if v > 31 {
			v = 31
		}
		return uint16(v)
	}
	return blend(0) | blend(5)<<5 | blend(10)<<10
}

// bgr555ToRGB converts a 15-bit BGR555 CGRAM color to packed 0xRRGGBB,
// scaling by INIDISP's 0-15 brightness. Real hardware applies a
// non-linear gamma-corrected brightness table; this uses a linear scale
// (documented simplification, as no brightness table was supplemented
// from the pack's examples).
func bgr555ToRGB(c uint16, brightness uint8) uint32 {
	scale := func(component uint16) uint32 {
		v := uint32(component) * 255 / 31
		v = v * uint32(brightness) / 15
		return v
	}
	r := scale(c & 0x1f)
	g := scale((c >> 5) & 0x1f)
	b := scale((c >> 10) & 0x1f)
	return r<<16 | g<<8 | b
}
