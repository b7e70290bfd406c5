package genesisvdp

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func TestHCounter40CellReachesFFAtLineEnd(t *testing.T) {
	h := hCounter40Cell(3419)
	test.ExpectEquality(t, h, uint8(0xFF))
}

func TestHCounter40CellActiveDisplayIsLinear(t *testing.T) {
	h := hCounter40Cell(0)
	test.ExpectEquality(t, h, uint8(0))
	h = hCounter40Cell(160)
	test.ExpectEquality(t, h, uint8(10))
}

func TestHCounter32CellWrapsPast93(t *testing.T) {
	h := hCounter32Cell(0x94 * 20)
	test.ExpectEquality(t, h, uint8(0x94+(0xE9-0x94)))
}

func TestVCounterNTSCWrapsDuringVBlank(t *testing.T) {
	test.ExpectEquality(t, vCounterNTSC(0xEB), uint8(0xE5))
	test.ExpectEquality(t, vCounterNTSC(0xF0), uint8(0xEA))
	test.ExpectEquality(t, vCounterNTSC(0xEA), uint8(0xEA))
}

func TestDMAVRAMFillThroughputH32ActiveLine(t *testing.T) {
	var tracker dmaTracker
	tracker.Init(ActiveDMAFill, DMAModeVRAMFill, 100)

	moved := 0
	done := tracker.Tick(H32Cell, LineActive, func() { moved++ })

	test.ExpectEquality(t, moved, 15)
	test.ExpectFailure(t, done)
	test.ExpectEquality(t, tracker.remaining, uint32(85))
}

func TestDMAVRAMFillThroughputCompletesWhenLengthExhausted(t *testing.T) {
	var tracker dmaTracker
	tracker.Init(ActiveDMAFill, DMAModeVRAMFill, 10)

	moved := 0
	done := tracker.Tick(H32Cell, LineBlanked, func() { moved++ })

	test.ExpectEquality(t, moved, 10)
	test.ExpectSuccess(t, done)
	test.ExpectFailure(t, tracker.Active())
}

func TestDMAMemToVRAMAlwaysHaltsCPU(t *testing.T) {
	var tracker dmaTracker
	tracker.Init(ActiveDMAMemToVRAM, DMAModeMemToVRAM, 10)
	test.ExpectSuccess(t, tracker.ShouldHaltCPU(false))
}

func TestDMAFillOnlyHaltsCPUOnDataPortTouch(t *testing.T) {
	var tracker dmaTracker
	tracker.Init(ActiveDMAFill, DMAModeVRAMFill, 10)
	test.ExpectFailure(t, tracker.ShouldHaltCPU(false))
	test.ExpectSuccess(t, tracker.ShouldHaltCPU(true))
}

func TestFIFOStallsOnceMoreThanFourEntriesQueued(t *testing.T) {
	f := newFIFOTracker()
	for i := 0; i < 4; i++ {
		f.RecordAccess(LocationVRAM)
	}
	test.ExpectFailure(t, f.ShouldHaltCPU())
	f.RecordAccess(LocationVRAM)
	test.ExpectSuccess(t, f.ShouldHaltCPU())
}

func TestFIFOClearsImmediatelyOutsideActiveDisplay(t *testing.T) {
	f := newFIFOTracker()
	f.RecordAccess(LocationVRAM)
	f.RecordAccess(LocationCRAM)
	f.Tick(100, H32Cell, false)
	test.ExpectSuccess(t, f.IsEmpty())
}

// sprite-mask quirk: a zero-H-position sprite hides itself and every
// lower-priority sprite behind it on the same line once a non-zero-H
// sprite has been walked; when the first five sprites walked all sit at
// H=0, all five are masked.
func TestSpriteMaskHidesLowerPrioritySprites(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.Registers.SpriteTable = 0
	v.Registers.HSize = H32Cell

	writeSprite := func(index int, y, link uint16, hSize, vSize uint8, x uint16) {
		addr := uint32(index * 8)
		v.VRAM.WriteWord(addr, y&0x03ff)
		v.VRAM.WriteWord(addr+2, uint16(vSize-1)<<8|uint16(hSize-1)<<10|link)
		v.VRAM.WriteWord(addr+4, 0)
		v.VRAM.WriteWord(addr+6, x&0x01ff)
	}

	// five sprites at H=0, all covering scanline 100 (stored Y is screen-Y
	// plus the 128-line display offset), linked 0->1->2->3->4->0
	const storedY = 100 + spriteHDisplayStart
	writeSprite(0, storedY, 1, 1, 1, 0)
	writeSprite(1, storedY, 2, 1, 1, 0)
	writeSprite(2, storedY, 3, 1, 1, 0)
	writeSprite(3, storedY, 4, 1, 1, 0)
	writeSprite(4, storedY, 0, 1, 1, 0)

	sprites := v.populateSpriteBuffer(100)
	// the fifth H=0 sprite (index 4) with no non-zero-H sprite before it
	// masks all five
	test.ExpectEquality(t, len(sprites), 0)
}

func TestSpriteMaskDoesNotTriggerWithFewerThanFiveZeroHSprites(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.Registers.SpriteTable = 0
	v.Registers.HSize = H32Cell

	writeSprite := func(index int, y, link uint16, x uint16) {
		addr := uint32(index * 8)
		v.VRAM.WriteWord(addr, y&0x03ff)
		v.VRAM.WriteWord(addr+2, link)
		v.VRAM.WriteWord(addr+4, 0)
		v.VRAM.WriteWord(addr+6, x&0x01ff)
	}

	const storedY = 100 + spriteHDisplayStart
	writeSprite(0, storedY, 1, 0)
	writeSprite(1, storedY, 0, 0)

	sprites := v.populateSpriteBuffer(100)
	test.ExpectEquality(t, len(sprites), 2)
}

func TestFrameCompleteFiresOncePerFrame(t *testing.T) {
	v := NewVDP(TimingNTSC)
	v.Registers.VSize = V28Cell
	mem := fakeMainBus{}

	result := TickNone
	completions := 0
	for i := 0; i < 262; i++ {
		result = v.Tick(mclkCyclesPerScanline, mem)
		if result == FrameComplete {
			completions++
		}
	}
	test.ExpectEquality(t, completions, 1)
}

type fakeMainBus struct{}

func (fakeMainBus) ReadByte(addr uint32) uint8 { return 0 }
