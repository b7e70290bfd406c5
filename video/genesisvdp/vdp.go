// Package genesisvdp implements the Genesis video display processor: the
// scanline renderer, the three-mode DMA engine, the data-port FIFO, the
// HINT/VINT interrupt timers, and the non-linear HV counter (see
// hvtable.go). The VDP is advanced by master-clock amount exactly like
// the CPU cores in hardware/cpu, but its tick() unit of work is a batch of
// clocks rather than a single micro-op, since scanline rendering is
// naturally scanline-granular rather than cycle-granular.
package genesisvdp

import "github.com/silicontrace/multicore/hardware/memory/containers"

const (
	mclkCyclesPerScanline       = 3420
	activeMclkCyclesPerScanline = 2560
	vInterruptDelay             = 48

	// renderTriggerOffset is when the scanline renderer runs: well before
	// HBlank ends, so a CPU write performed mid-HBlank affects the *next*
	// scanline rather than corrupting the one just rendered.
	renderTriggerOffset = activeMclkCyclesPerScanline + 64

	vramLen  = 64 * 1024
	cramLen  = 64
	vsramLen = 40
)

// TickResult is the VDP's report back to the System shell once per
// tick() call.
type TickResult int

const (
	TickNone TickResult = iota
	FrameComplete
)

// MainBus is the subset of the 68000 main bus the VDP needs for
// memory-to-VRAM DMA transfers (it reads 68K RAM/ROM as a DMA source).
type MainBus interface {
	ReadByte(addr uint32) uint8
}

// VDP is the Genesis video display processor.
type VDP struct {
	Timing    TimingMode
	Registers *Registers

	VRAM  *containers.VRAM
	CRAM  *containers.CRAM
	VSRAM *containers.VSRAM

	dma  dmaTracker
	fifo *fifoTracker

	masterClockCycles uint64
	scanline          uint16

	hIntCounter        uint8
	vIntPending        bool
	hIntPending        bool
	vIntFiredThisFrame bool
	latchedHV          *uint16

	// control-port address-setup sequence state
	controlAwaitsSecond bool
	code                uint8
	dataAddress         uint16
	dataLocation        DataPortLocation
	dataIsWrite         bool

	// fillByte is latched from the first data-port write after a
	// VRAM-fill DMA is armed.
	fillByte uint8

	cpuTouchedDataPort bool

	frame       []uint32 // packed 0xRRGGBB, one per pixel, row-major
	frameWidth  int
	frameHeight int

	spriteOverflow        bool
	dotOverflowOnPrevLine bool

	emulateNonLinearDAC bool
	enforceSpriteLimits bool

	openBus uint8
}

func NewVDP(timing TimingMode) *VDP {
	v := &VDP{
		Timing:              timing,
		Registers:           NewRegisters(),
		VRAM:                containers.NewVRAM(vramLen),
		CRAM:                containers.NewCRAM(),
		VSRAM:               containers.NewVSRAM(),
		fifo:                newFIFOTracker(),
		enforceSpriteLimits: true,
	}
	v.frameWidth = 320
	v.frameHeight = 240
	v.frame = make([]uint32, v.frameWidth*v.frameHeight)
	return v
}

// SetNonLinearDAC selects between the documented linear and non-linear
// RGB DAC response curves used for color-modifier conversion.
func (v *VDP) SetNonLinearDAC(nonLinear bool) { v.emulateNonLinearDAC = nonLinear }

// HVCounter returns the value the CPU reads back from the HV counter
// port: a latched value if register 0 bit 1 froze it, otherwise the
// live non-linear H/V counter pair for the current master-clock offset.
func (v *VDP) HVCounter() uint16 {
	if v.latchedHV != nil {
		return *v.latchedHV
	}
	scanlineMclk := v.masterClockCycles % mclkCyclesPerScanline
	h := hCounter(scanlineMclk, v.Registers.HSize == H40Cell)
	vc := v.vCounterFor(scanlineMclk)
	return uint16(vc)<<8 | uint16(h)
}

func (v *VDP) vCounterFor(scanlineMclk uint64) uint8 {
	// the V counter increments for the next line shortly after the start
	// of HBlank, before the scanline field itself rolls over
	scanline := v.scanline
	if scanlineMclk >= activeMclkCyclesPerScanline {
		scanline = (scanline + 1) % v.Timing.scanlinesPerFrame()
	}
	switch v.Timing {
	case TimingPAL:
		if v.Registers.VSize == V30Cell {
			return vCounterPAL30(scanline)
		}
		return vCounterPAL28(scanline)
	default:
		return vCounterNTSC(scanline)
	}
}

// LatchHVCounterIfStopped freezes the HV counter at its current value
// when register 0's HV-counter-stopped bit transitions on, and releases
// the latch when it transitions off. Called by the control-port write
// path after WriteInternalRegister updates Registers.HVCounterStopped.
func (v *VDP) LatchHVCounterIfStopped() {
	if v.Registers.HVCounterStopped && v.latchedHV == nil {
		hv := v.HVCounter()
		v.latchedHV = &hv
	} else if !v.Registers.HVCounterStopped && v.latchedHV != nil {
		v.latchedHV = nil
	}
}

// Tick advances the VDP by mclks master clocks, rendering any scanlines
// crossed, raising HINT/VINT at their defined offsets, and servicing any
// pending DMA transfer. Returns FrameComplete exactly once per frame, on
// the transition into the first VBlank scanline.
func (v *VDP) Tick(mclks uint64, mem MainBus) TickResult {
	result := TickNone
	remaining := mclks
	activeScanlines := v.Registers.VSize.activeScanlines()

	for remaining > 0 {
		mclkIntoLine := v.masterClockCycles % mclkCyclesPerScanline
		step := mclkCyclesPerScanline - mclkIntoLine
		if step > remaining {
			step = remaining
		}
		newMclkIntoLine := mclkIntoLine + step

		active := mclkIntoLine < activeMclkCyclesPerScanline && v.scanline < activeScanlines
		v.fifo.Tick(step, v.Registers.HSize, active)

		if mclkIntoLine < renderTriggerOffset && newMclkIntoLine >= renderTriggerOffset && v.scanline < activeScanlines {
			v.renderScanline(v.scanline)
		}

		hintOffset := uint64(activeMclkCyclesPerScanline)
		if mclkIntoLine < hintOffset && newMclkIntoLine >= hintOffset && v.scanline <= activeScanlines {
			if v.hIntCounter == 0 {
				v.hIntCounter = v.Registers.HIntCounterReload
				v.hIntPending = true
			} else {
				v.hIntCounter--
			}
		}

		v.masterClockCycles += step
		remaining -= step

		lineType := LineActive
		if !active {
			lineType = LineBlanked
		}
		v.dma.Tick(v.Registers.HSize, lineType, func() { v.dmaTransferOneUnit(mem) })

		if newMclkIntoLine >= mclkCyclesPerScanline {
			v.scanline = (v.scanline + 1) % v.Timing.scanlinesPerFrame()
			if v.scanline == activeScanlines {
				result = FrameComplete
			}
		}

		if v.scanline == activeScanlines {
			mclkIntoLineNow := v.masterClockCycles % mclkCyclesPerScanline
			if mclkIntoLineNow >= vInterruptDelay && !v.vIntFiredThisFrame {
				v.vIntPending = true
				v.vIntFiredThisFrame = true
			}
		} else {
			v.vIntFiredThisFrame = false
		}
	}

	return result
}
