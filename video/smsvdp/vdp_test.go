package smsvdp

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func TestRegister0DecodesLockAndMaskBits(t *testing.T) {
	var r Registers
	r.WriteRegister(0, 0xf8) // bits 3-7 all set
	test.ExpectSuccess(t, r.SpriteShiftLeft)
	test.ExpectSuccess(t, r.LineInterruptEnable)
	test.ExpectSuccess(t, r.LeftColumnBlank)
	test.ExpectSuccess(t, r.HScrollLock)
	test.ExpectSuccess(t, r.VScrollLock)
}

func TestRegister1DecodesDisplayEnableAndSpriteSize(t *testing.T) {
	var r Registers
	r.WriteRegister(1, 0x62) // display+vint enabled, 8x16 sprites
	test.ExpectSuccess(t, r.DisplayEnable)
	test.ExpectSuccess(t, r.VInterruptEnable)
	test.ExpectEquality(t, r.SpriteSize, Sprite8x16)
}

func TestControlPortTwoWriteSequenceSetsAddress(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.WriteControlPort(0x34)
	v.WriteControlPort(0x50) // code 1 (VRAM write), address $1034
	v.WriteDataPort(0xab)
	test.ExpectEquality(t, v.VRAM.Read(0x1034), uint8(0xab))
}

func TestDataPortReadPrimesAndAdvancesBuffer(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.VRAM.Write(0x0200, 0x11)
	v.VRAM.Write(0x0201, 0x22)
	v.WriteControlPort(0x00)
	v.WriteControlPort(0x02) // code 0 (VRAM read), address $0200
	test.ExpectEquality(t, v.ReadDataPort(), uint8(0x11))
	test.ExpectEquality(t, v.ReadDataPort(), uint8(0x22))
}

func TestCRAMWriteWrapsAtThirtyTwoEntries(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.WriteControlPort(0x20)
	v.WriteControlPort(0xc0) // code 3 (CRAM write), address $20: one past the last entry
	v.WriteDataPort(0x15)
	test.ExpectEquality(t, v.CRAM.Read(0), uint8(0x15))
}

func TestRegisterWriteRefreshesSpriteAttrBase(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.VRAM.Write(0x3f00, 50) // Y for sprite 0 once SpriteAttrBase moves here
	v.WriteControlPort(0x7e)
	v.WriteControlPort(0x85) // code 2 (register write), register 5 -> SpriteAttrBase = $3f00
	test.ExpectEquality(t, v.Registers.SpriteAttrBase, uint16(0x3f00))
	test.ExpectEquality(t, v.spriteAttrCache[0].y, uint8(50))
}

func TestEvaluateSpritesCapsAtEightPerLine(t *testing.T) {
	v := NewVDP(TimingNTSC)
	for i := 0; i < 10; i++ {
		v.spriteAttrCache[i] = spriteAttr{y: 49, x: 10, tile: 0}
	}
	v.evaluateSprites(50)
	test.ExpectEquality(t, len(v.scanlineSprites), maxSpritesPerLine)
	test.ExpectSuccess(t, v.spriteOverflow)
}

func TestEvaluateSpritesStopsAtTerminator(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.spriteAttrCache[0] = spriteAttr{y: 49, x: 10, tile: 0}
	v.spriteAttrCache[1] = spriteAttr{y: spriteListTerminator}
	v.spriteAttrCache[2] = spriteAttr{y: 49, x: 20, tile: 1}
	v.evaluateSprites(50)
	test.ExpectEquality(t, len(v.scanlineSprites), 1)
}

func TestCRAMColorScalesTwoBitChannels(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.CRAM.Write(0, 0x3f) // all three 2-bit channels maxed
	test.ExpectEquality(t, v.cramColor(0), uint32(0xffffff))
}

func TestFrameCompleteFiresOncePerFrame(t *testing.T) {
	v := NewVDP(TimingNTSC)
	completions := 0
	total := uint64(mclkCyclesPerScanline) * uint64(TimingNTSC.scanlinesPerFrame())
	for i := uint64(0); i < total+1; i++ {
		if v.Tick(1) == FrameComplete {
			completions++
		}
	}
	test.ExpectEquality(t, completions, 1)
}

func TestLineInterruptFiresWhenCounterUnderflows(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.Registers.LineInterruptEnable = true
	v.Registers.LineCounterReload = 0
	v.Tick(mclkCyclesPerScanline)
	test.ExpectSuccess(t, v.LineInterruptPending())
}
