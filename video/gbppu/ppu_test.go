package gbppu

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func TestDecodePaletteMapsAllFourShades(t *testing.T) {
	shades := decodePalette(0xe4) // 11 10 01 00
	test.ExpectEquality(t, shades, [4]uint8{0, 1, 2, 3})
}

func TestLCDCAccessorsDecodeBits(t *testing.T) {
	var r Registers
	r.LCDC = 0xff
	test.ExpectSuccess(t, r.LCDEnabled())
	test.ExpectSuccess(t, r.WindowEnabled())
	test.ExpectSuccess(t, r.SpriteEnabled())
	test.ExpectSuccess(t, r.BGEnabled())
	test.ExpectSuccess(t, r.SpriteDoubleHeight())
	test.ExpectSuccess(t, r.UnsignedTileData())
	test.ExpectEquality(t, r.WindowTileMapBase(), uint16(0x9c00))
	test.ExpectEquality(t, r.BGTileMapBase(), uint16(0x9c00))
}

func TestSTATWritePreservesReadOnlyBits(t *testing.T) {
	var r Registers
	r.STAT = 0x06 // mode 2, LYC flag set
	r.WriteSTAT(0x78)
	test.ExpectEquality(t, r.STAT, uint8(0x7e))
}

func TestFrameCompleteFiresOncePerFrame(t *testing.T) {
	p := NewPPU()
	completions := 0
	total := uint64(cyclesPerScanline) * uint64(totalScanlines)
	for i := uint64(0); i < total+1; i++ {
		if p.Tick(1) == FrameComplete {
			completions++
		}
	}
	test.ExpectEquality(t, completions, 1)
}

func TestModeSequenceWithinVisibleScanline(t *testing.T) {
	p := NewPPU()
	test.ExpectEquality(t, p.Regs.mode(), uint8(modeOAMScan))

	p.Tick(oamScanCycles)
	test.ExpectEquality(t, p.Regs.mode(), uint8(modeDrawing))

	p.Tick(drawingCycles)
	test.ExpectEquality(t, p.Regs.mode(), uint8(modeHBlank))

	p.Tick(cyclesPerScanline - oamScanCycles - drawingCycles)
	test.ExpectEquality(t, p.Regs.mode(), uint8(modeOAMScan))
	test.ExpectEquality(t, p.Regs.LY, uint8(1))
}

func TestLYCInterruptFiresOnMatch(t *testing.T) {
	p := NewPPU()
	p.Regs.LYC = 1
	p.Regs.WriteSTAT(0x40) // enable LYC interrupt
	p.Tick(cyclesPerScanline)
	test.ExpectEquality(t, p.Regs.LY, uint8(1))
	test.ExpectSuccess(t, p.STATInterruptPending())
}

func TestVBlankEntrySetsModeAndInterrupt(t *testing.T) {
	p := NewPPU()
	p.Tick(uint64(cyclesPerScanline) * screenHeight)
	test.ExpectEquality(t, p.Regs.mode(), uint8(modeVBlank))
	test.ExpectSuccess(t, p.VBlankInterruptPending())
}

func TestSpriteEvaluationCapsAtTenPerLine(t *testing.T) {
	p := NewPPU()
	for i := 0; i < 16; i++ {
		base := i * 4
		p.OAM[base] = 20     // y=20 -> screen top = 4
		p.OAM[base+1] = uint8(i)
		p.OAM[base+2] = 0
		p.OAM[base+3] = 0
	}
	p.evaluateSprites(4)
	test.ExpectEquality(t, len(p.scanlineSprites), maxSpritesPerLine)
}

func TestSpriteEvaluationSortsByXThenOAMIndex(t *testing.T) {
	p := NewPPU()
	// sprite 1 at x=8+5, sprite 0 at x=8+5 too: same X, lower OAM index wins
	p.OAM[0], p.OAM[1] = 20, 13
	p.OAM[4], p.OAM[5] = 20, 13
	p.evaluateSprites(4)
	test.ExpectEquality(t, len(p.scanlineSprites), 2)
	test.ExpectEquality(t, p.scanlineSprites[0].oamIndex, 0)
}

func TestSpritePixelAtSkipsTransparentColorZero(t *testing.T) {
	p := NewPPU()
	p.OAM[0], p.OAM[1], p.OAM[2] = 20, 16, 5 // y=20->top 4, x=16->screenX 8, tile 5
	// tile 5's VRAM bytes are left zeroed: every pixel decodes to color 0
	p.evaluateSprites(4)
	_, _, ok := p.spritePixelAt(8)
	test.ExpectFailure(t, ok)
}

func TestBackgroundPixelDecodesFirstMapEntry(t *testing.T) {
	p := NewPPU()
	p.Regs.LCDC |= lcdcTileData // unsigned $8000 addressing
	// tile index 1 at map entry (0,0), tile map base defaults to $9800
	p.VRAM.Write(0x9800-0x8000, 1)
	// tile 1, row 0: plane0=0xff, plane1=0x00 -> every pixel color 1
	p.VRAM.Write(16, 0xff)
	p.VRAM.Write(17, 0x00)
	color := p.backgroundPixel(0, 0)
	test.ExpectEquality(t, color, uint8(1))
}

func TestWindowPixelAtRespectsWXOffset(t *testing.T) {
	p := NewPPU()
	p.Regs.WX = 7 // window starts at screen x=0
	_, ok := p.windowPixelAt(0, 0)
	test.ExpectSuccess(t, ok)

	p.Regs.WX = 200 // window pushed off the right edge
	_, ok = p.windowPixelAt(0, 0)
	test.ExpectFailure(t, ok)
}
