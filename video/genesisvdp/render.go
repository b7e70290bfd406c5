package genesisvdp

// render.go implements the five-step scanline pipeline: window-layer
// test, scroll A/B fetch, sprite pipeline (including the H=0 sprite-mask
// quirk), priority/shadow-highlight resolution, and RGB DAC conversion.
// Grounded throughout on the jgenesis Genesis core's render_scanline,
// populate_sprite_buffer, render_pixels_in_scanline and
// determine_pixel_color.

const (
	maxSpritesPerFrame = 80
	spriteHDisplayStart = 128
)

type colorModifier int

const (
	modNone colorModifier = iota
	modShadow
	modHighlight
)

// normal/shadowed/highlighted RGB DAC response curves for the 3-bit
// per-channel Genesis color space, linear and non-linear variants.
var (
	normalLinear      = [8]uint8{0, 36, 73, 109, 146, 182, 219, 255}
	shadowedLinear    = [8]uint8{0, 18, 36, 55, 73, 91, 109, 128}
	highlightedLinear = [8]uint8{128, 146, 164, 182, 200, 219, 237, 255}

	normalNonLinear      = [8]uint8{0, 52, 87, 116, 144, 172, 206, 255}
	shadowedNonLinear    = [8]uint8{0, 29, 52, 70, 87, 101, 116, 130}
	highlightedNonLinear = [8]uint8{130, 144, 158, 172, 187, 206, 228, 255}
)

func (v *VDP) dacCurve(mod colorModifier) *[8]uint8 {
	if v.emulateNonLinearDAC {
		switch mod {
		case modShadow:
			return &shadowedNonLinear
		case modHighlight:
			return &highlightedNonLinear
		default:
			return &normalNonLinear
		}
	}
	switch mod {
	case modShadow:
		return &shadowedLinear
	case modHighlight:
		return &highlightedLinear
	default:
		return &normalLinear
	}
}

// genColorToRGB converts a packed 9-bit BGR color word (bits 0-2 red,
// 4-6 green, 8-10 blue) to a packed 0xRRGGBB pixel via the DAC curve.
func (v *VDP) genColorToRGB(color uint16, mod colorModifier) uint32 {
	curve := v.dacCurve(mod)
	r := curve[color&0x07]
	g := curve[(color>>4)&0x07]
	b := curve[(color>>8)&0x07]
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func (v *VDP) resolveColor(palette uint8, colorID uint8) uint16 {
	return v.CRAM.Read(uint32(palette)<<4 | uint32(colorID))
}

type nameTableWord struct {
	patternGen uint16
	hFlip      bool
	vFlip      bool
	palette    uint8
	priority   bool
}

func decodeNameTableWord(word uint16) nameTableWord {
	return nameTableWord{
		patternGen: word & 0x07ff,
		hFlip:      word&0x0800 != 0,
		vFlip:      word&0x1000 != 0,
		palette:    uint8(word>>13) & 0x03,
		priority:   word&0x8000 != 0,
	}
}

func (v *VDP) readNameTableWord(base uint16, planeWidthCells, planeHeightCells int, vCell, hCell int) nameTableWord {
	hCell %= planeWidthCells
	vCell %= planeHeightCells
	addr := uint32(base) + 2*uint32(vCell*planeWidthCells+hCell)
	return decodeNameTableWord(v.VRAM.ReadWord(addr))
}

// readPatternGenerator returns the 4-bit color index for one pixel of an
// 8x8 (or 8x16 in interlaced-double mode) tile, honoring the tile's own
// flip bits independent of sprite/plane-level flipping.
func (v *VDP) readPatternGenerator(w nameTableWord, row, col, cellHeight int) uint8 {
	cellRow := row % cellHeight
	if w.vFlip {
		cellRow = cellHeight - 1 - cellRow
	}
	cellCol := col % 8
	if w.hFlip {
		cellCol = 7 - cellCol
	}
	rowAddr := 4 * cellHeight * int(w.patternGen)
	addr := uint32(rowAddr + 4*cellRow + cellCol>>1)
	b := v.VRAM.Read(addr)
	if cellCol&1 == 0 {
		return b >> 4
	}
	return b & 0x0f
}

// isInWindow reports whether a pixel falls inside the window plane's
// rectangle, as set up by registers 17/18's X/Y split point and
// direction bits.
func (v *VDP) isInWindow(scanline, pixel int) bool {
	r := v.Registers
	inY := false
	if r.WindowYDir {
		inY = scanline >= int(r.WindowY)*8
	} else {
		inY = scanline < int(r.WindowY)*8
	}
	inX := false
	if r.WindowXDir {
		inX = pixel >= int(r.WindowX)*8
	} else {
		inX = pixel < int(r.WindowX)*8
	}
	if r.WindowX == 0 && !r.WindowXDir {
		inX = false
	}
	if r.WindowY == 0 && !r.WindowYDir {
		inY = false
	}
	return inX || inY
}

type spriteEntry struct {
	vPosition    uint16
	hPosition    uint16
	hSizeCells   uint8
	vSizeCells   uint8
	patternBase  uint16
	hFlip, vFlip bool
	palette      uint8
	priority     bool
	partialWidth int // -1 means no pixel-cap truncation
}

func (v *VDP) readSpriteAttr(addr uint32) spriteEntry {
	word0 := v.VRAM.ReadWord(addr)
	word1 := v.VRAM.ReadWord(addr + 2)
	word2 := v.VRAM.ReadWord(addr + 4)
	word3 := v.VRAM.ReadWord(addr + 6)
	return spriteEntry{
		vPosition:    word0 & 0x03ff,
		vSizeCells:   uint8((word1>>8)&0x03) + 1,
		hSizeCells:   uint8((word1>>10)&0x03) + 1,
		priority:     word2&0x8000 != 0,
		palette:      uint8(word2>>13) & 0x03,
		vFlip:        word2&0x1000 != 0,
		hFlip:        word2&0x0800 != 0,
		patternBase:  word2 & 0x07ff,
		hPosition:    word3 & 0x01ff,
		partialWidth: -1,
	}
}

// populateSpriteBuffer builds the list of sprites visible on scanline,
// applying the per-line sprite-count cap, the per-line sprite-pixel cap,
// and the H=0 masking quirk (a zero H-position sprite hides itself and
// every lower-priority sprite behind it when a non-zero H-position sprite
// was walked before it on this line, or when the previous line overflowed
// its pixel budget; when the first five sprites walked all sit at H=0,
// all five are hidden).
func (v *VDP) populateSpriteBuffer(scanline uint16) []spriteEntry {
	hsize := v.Registers.HSize
	tableAddr := v.Registers.SpriteTable
	tableLen := uint16(64)
	if hsize == H40Cell {
		tableLen = 80
	}

	var sprites []spriteEntry
	sprite0 := v.readSpriteAttr(uint32(tableAddr))
	link := uint16(v.VRAM.Read(uint32(tableAddr) + 3))
	sprites = append(sprites, sprite0)

	for i := uint16(0); i < tableLen; i++ {
		if link == 0 || link >= tableLen {
			break
		}
		addr := uint32(tableAddr) + 8*uint32(link)
		sprite := v.readSpriteAttr(addr)
		link = uint16(v.VRAM.Read(addr + 3))
		sprites = append(sprites, sprite)
	}

	filtered := sprites[:0]
	for _, s := range sprites {
		top := s.vPosition
		bottom := top + 8*uint16(s.vSizeCells)
		if scanline+spriteHDisplayStart >= top && scanline+spriteHDisplayStart < bottom {
			filtered = append(filtered, s)
		}
	}
	sprites = filtered

	maxSprites := hsize.maxSpritesPerLine()
	if len(sprites) > maxSprites {
		if v.enforceSpriteLimits {
			sprites = sprites[:maxSprites]
		}
		v.spriteOverflow = true
	}

	linePixels := 0
	dotOverflow := false
	maxPixels := hsize.maxSpritePixelsPerLine()
	for i := range sprites {
		spritePixels := 8 * int(sprites[i].hSizeCells)
		linePixels += spritePixels
		if linePixels > maxPixels {
			if v.enforceSpriteLimits {
				overflow := linePixels - maxPixels
				sprites[i].partialWidth = spritePixels - overflow
				sprites = sprites[:i+1]
			}
			v.spriteOverflow = true
			dotOverflow = true
			break
		}
	}

	foundNonZero := v.dotOverflowOnPrevLine
	cut := len(sprites)
	for i, s := range sprites {
		if s.hPosition != 0 {
			foundNonZero = true
			continue
		}
		if foundNonZero {
			cut = i
			break
		}
		if i == 4 {
			cut = 0
			break
		}
	}
	sprites = sprites[:cut]
	v.dotOverflowOnPrevLine = dotOverflow

	return sprites
}

// spritePixelAt returns the sprite-layer color for one pixel, scanning
// sprites in priority order (lowest index wins) and returning the first
// non-transparent hit.
func (v *VDP) spritePixelAt(sprites []spriteEntry, scanline, pixel int) (colorID uint8, palette uint8, priority bool, hit bool) {
	for _, s := range sprites {
		width := 8 * int(s.hSizeCells)
		if s.partialWidth >= 0 {
			width = s.partialWidth
		}
		localX := pixel + spriteHDisplayStart - int(s.hPosition)
		if localX < 0 || localX >= width {
			continue
		}
		localY := scanline + spriteHDisplayStart - int(s.vPosition)
		if localY < 0 {
			continue
		}
		col := localX
		row := localY
		if s.hFlip {
			col = 8*int(s.hSizeCells) - 1 - col
		}
		if s.vFlip {
			row = 8*int(s.vSizeCells) - 1 - row
		}
		cellCol := col / 8
		cellRow := row / 8
		tileIndex := s.patternBase + uint16(cellCol)*8*uint16(s.vSizeCells) + uint16(cellRow)
		w := nameTableWord{patternGen: tileIndex & 0x07ff}
		id := v.readPatternGenerator(w, row, col, 8)
		if id == 0 {
			continue
		}
		return id, s.palette, s.priority, true
	}
	return 0, 0, false, false
}

// renderScanline renders one visible scanline into the frame buffer.
// Disabled display renders the border/background color for the whole
// line; this simplified pipeline always runs in non-interlaced mode.
func (v *VDP) renderScanline(scanline uint16) {
	bgColor := v.resolveColor(0, v.Registers.BackgroundColor)
	width := v.Registers.HSize.pixels()

	if !v.Registers.DisplayEnable {
		v.fillScanline(scanline, v.genColorToRGB(bgColor, modNone))
		return
	}

	sprites := v.populateSpriteBuffer(scanline)

	planeHCells, planeVCells := v.Registers.RawScrollSize()
	hScrollAddr := uint32(v.Registers.HScrollTable)

	var hScrollA, hScrollB uint16
	switch v.Registers.HScroll {
	case HScrollCell, HScrollLine:
		row := uint32(scanline) * 4
		hScrollA = v.VRAM.ReadWord(hScrollAddr + row)
		hScrollB = v.VRAM.ReadWord(hScrollAddr + row + 2)
	default:
		hScrollA = v.VRAM.ReadWord(hScrollAddr)
		hScrollB = v.VRAM.ReadWord(hScrollAddr + 2)
	}

	for pixel := 0; pixel < width; pixel++ {
		hCell := pixel / 8

		var vScrollA, vScrollB uint16
		if v.Registers.VScroll == VScrollTwoCell {
			addr := uint32(4 * (hCell / 2))
			vScrollA = v.VSRAM.Read(addr)
			vScrollB = v.VSRAM.Read(addr + 1)
		} else {
			vScrollA = v.VSRAM.Read(0)
			vScrollB = v.VSRAM.Read(1)
		}

		scrolledLineA := int(scanline+vScrollA) % (planeVCells * 8)
		scrolledLineB := int(scanline+vScrollB) % (planeVCells * 8)
		scrolledPixelA := (pixel - int(hScrollA)) % (planeHCells * 8)
		scrolledPixelB := (pixel - int(hScrollB)) % (planeHCells * 8)
		if scrolledPixelA < 0 {
			scrolledPixelA += planeHCells * 8
		}
		if scrolledPixelB < 0 {
			scrolledPixelB += planeHCells * 8
		}
		if scrolledLineA < 0 {
			scrolledLineA += planeVCells * 8
		}
		if scrolledLineB < 0 {
			scrolledLineB += planeVCells * 8
		}

		inWindow := v.isInWindow(int(scanline), pixel)

		var aWord nameTableWord
		var aID uint8
		if inWindow {
			aWord = v.readNameTableWord(v.Registers.NameTableW, planeHCells, planeVCells, int(scanline)/8, pixel/8)
			aID = v.readPatternGenerator(aWord, int(scanline), pixel, 8)
		} else {
			aWord = v.readNameTableWord(v.Registers.NameTableA, planeHCells, planeVCells, scrolledLineA/8, scrolledPixelA/8)
			aID = v.readPatternGenerator(aWord, scrolledLineA, scrolledPixelA, 8)
		}

		bWord := v.readNameTableWord(v.Registers.NameTableB, planeHCells, planeVCells, scrolledLineB/8, scrolledPixelB/8)
		bID := v.readPatternGenerator(bWord, scrolledLineB, scrolledPixelB, 8)

		spriteID, spritePalette, spritePriority, spriteHit := v.spritePixelAt(sprites, int(scanline), pixel)

		color, mod := v.determinePixelColor(pixelColorArgs{
			spritePriority: spritePriority && spriteHit,
			spritePalette:  spritePalette,
			spriteColorID:  spriteID,
			spriteHit:      spriteHit,
			aPriority:      aWord.priority,
			aPalette:       aWord.palette,
			aColorID:       aID,
			bPriority:      bWord.priority,
			bPalette:       bWord.palette,
			bColorID:       bID,
			bgColor:        bgColor,
			shadowHighlight: v.Registers.ShadowHighlight,
		})

		v.setPixel(scanline, pixel, v.genColorToRGB(color, mod))
	}
}

func (v *VDP) fillScanline(scanline uint16, rgb uint32) {
	width := v.Registers.HSize.pixels()
	for x := 0; x < width; x++ {
		v.setPixel(scanline, x, rgb)
	}
}

func (v *VDP) setPixel(scanline uint16, x int, rgb uint32) {
	if int(scanline) >= v.frameHeight || x >= v.frameWidth {
		return
	}
	v.frame[int(scanline)*v.frameWidth+x] = rgb
}

type pixelColorArgs struct {
	spritePriority  bool
	spritePalette   uint8
	spriteColorID   uint8
	spriteHit       bool
	aPriority       bool
	aPalette        uint8
	aColorID        uint8
	bPriority       bool
	bPalette        uint8
	bColorID        uint8
	bgColor         uint16
	shadowHighlight bool
}

type unresolvedColor struct {
	palette  uint8
	colorID  uint8
	isSprite bool
}

// determinePixelColor resolves sprite/scroll-A/scroll-B priority into a
// final color and shadow/highlight modifier, including the palette-3
// sprite color-14/15 shadow-highlight-toggle quirk.
func (v *VDP) determinePixelColor(a pixelColorArgs) (uint16, colorModifier) {
	mod := modNone
	if a.shadowHighlight && !a.aPriority && !a.bPriority {
		mod = modShadow
	}

	sprite := unresolvedColor{a.spritePalette, a.spriteColorID, true}
	scrollA := unresolvedColor{a.aPalette, a.aColorID, false}
	scrollB := unresolvedColor{a.bPalette, a.bColorID, false}
	if !a.spriteHit {
		sprite.colorID = 0
	}

	var order [3]unresolvedColor
	switch {
	case a.spritePriority:
		switch {
		case a.aPriority && a.bPriority:
			order = [3]unresolvedColor{sprite, scrollA, scrollB}
		case a.aPriority:
			order = [3]unresolvedColor{sprite, scrollA, scrollB}
		case a.bPriority:
			order = [3]unresolvedColor{sprite, scrollB, scrollA}
		default:
			order = [3]unresolvedColor{sprite, scrollA, scrollB}
		}
	case a.aPriority && a.bPriority:
		order = [3]unresolvedColor{scrollA, scrollB, sprite}
	case a.aPriority:
		order = [3]unresolvedColor{scrollA, sprite, scrollB}
	case a.bPriority:
		order = [3]unresolvedColor{scrollB, sprite, scrollA}
	default:
		order = [3]unresolvedColor{sprite, scrollA, scrollB}
	}

	for _, c := range order {
		if c.colorID == 0 {
			continue
		}
		if a.shadowHighlight && c.isSprite && c.palette == 3 {
			if c.colorID == 14 {
				mod = modHighlight
				continue
			}
			if c.colorID == 15 {
				mod = modShadow
				continue
			}
		}
		color := v.resolveColor(c.palette, c.colorID)
		pixelMod := mod
		if c.isSprite && (c.colorID == 14 || a.spritePriority) {
			pixelMod = modNone
		}
		return color, pixelMod
	}

	return a.bgColor, mod
}
