package gbppu

import "github.com/silicontrace/multicore/hardware/memory/containers"

const (
	screenWidth  = 160
	screenHeight = 144

	totalScanlines    = 154
	cyclesPerScanline = 456

	oamScanCycles = 80
	drawingCycles = 172 // HBlank fills the remainder of the 456-cycle line

	vramLen = 8 * 1024
	oamLen  = 40 * 4

	modeHBlank  = 0
	modeVBlank  = 1
	modeOAMScan = 2
	modeDrawing = 3
)

// TickResult is the PPU's report back to the system shell once per Tick.
type TickResult int

const (
	TickNone TickResult = iota
	FrameComplete
)

// PPU is the Game Boy / Game Boy Color picture processing unit.
type PPU struct {
	Regs Registers

	// VRAM is a plain power-of-2-sized byte container (containers.RAM);
	// OAM is a fixed 160-byte array instead, since containers.RAM's
	// power-of-2 index mask would wrap incorrectly at a 160-byte size.
	VRAM *containers.RAM
	OAM  [oamLen]uint8

	spriteCache     [40]spriteAttr
	scanlineSprites []spriteLineEntry

	masterClockCycles uint64

	vIntPending    bool
	statIntPending bool

	// windowLineCounter is the window layer's own scanline counter: it
	// only advances on scanlines where the window actually drew,
	// matching the hardware quirk that hiding and re-showing the window
	// resumes rather than restarts its internal line position.
	windowLineCounter uint8

	// oamDMARemaining models the $FF46 OAM DMA transfer countdown; the
	// system shell drives the actual byte copy (it alone has the CPU bus
	// read side) and calls StartOAMDMA/TickOAMDMA.
	oamDMARemaining int

	frame []uint32 // packed 0xRRGGBB, screenWidth*screenHeight
}

func NewPPU() *PPU {
	p := &PPU{
		VRAM: containers.NewRAM(vramLen),
	}
	p.frame = make([]uint32, screenWidth*screenHeight)
	p.Regs.LCDC = 0x91
	p.Regs.BGP = 0xe4
	p.Regs.OBP0 = 0xe4
	p.Regs.OBP1 = 0xe4
	p.Regs.setMode(modeOAMScan)
	return p
}

func (p *PPU) FrameBuffer() []uint32 { return p.frame }
func (p *PPU) FrameWidth() int       { return screenWidth }
func (p *PPU) FrameHeight() int      { return screenHeight }

// VBlankInterruptPending reports the (unconditional, not gated by any
// enable bit) VBlank interrupt request line — IE's VBlank bit lives on
// the CPU side, same split NMIPending uses in video/nesppu.
func (p *PPU) VBlankInterruptPending() bool { return p.vIntPending }

func (p *PPU) AcknowledgeVBlankInterrupt() { p.vIntPending = false }

// STATInterruptPending reports the STAT interrupt line: a level raised
// whenever one of its four enabled sources (LYC=LY, or entry into mode
// 0/1/2) is true, latched at the moment that source becomes true so a
// one-Tick-wide condition is not missed between Tick calls.
func (p *PPU) STATInterruptPending() bool { return p.statIntPending }

func (p *PPU) AcknowledgeSTATInterrupt() { p.statIntPending = false }

// ReadVRAM/WriteVRAM expose $8000-$9FFF in every mode. Real hardware
// makes VRAM inaccessible to the CPU during mode 3 (Drawing); neither
// these methods nor system/gb's MainBus block that access, so test code
// can poke VRAM directly regardless of mode.
func (p *PPU) ReadVRAM(addr uint16) uint8     { return p.VRAM.Read(uint32(addr - 0x8000)) }
func (p *PPU) WriteVRAM(addr uint16, v uint8) { p.VRAM.Write(uint32(addr-0x8000), v) }

func (p *PPU) ReadOAM(addr uint16) uint8 {
	i := addr - 0xfe00
	if int(i) >= len(p.OAM) {
		return 0xff
	}
	return p.OAM[i]
}

func (p *PPU) WriteOAM(addr uint16, v uint8) {
	i := addr - 0xfe00
	if int(i) >= len(p.OAM) {
		return
	}
	p.OAM[i] = v
}

// StartOAMDMA arms a 160-cycle OAM DMA transfer triggered by a $FF46
// write; TickOAMDMA is driven by the system shell once per M-cycle.
func (p *PPU) StartOAMDMA() { p.oamDMARemaining = oamLen }

func (p *PPU) OAMDMAActive() bool { return p.oamDMARemaining > 0 }

func (p *PPU) TickOAMDMA() {
	if p.oamDMARemaining > 0 {
		p.oamDMARemaining--
	}
}

// Tick advances the PPU by mclks T-cycles (4 per M-cycle, matching the
// cyclesPerScanline/oamScanCycles/drawingCycles constants' T-cycle
// units), stepping through the OAM-scan/drawing/h-blank/v-blank mode
// sequence and firing VBlank/STAT interrupts at their mode-transition
// points.
func (p *PPU) Tick(mclks uint64) TickResult {
	result := TickNone

	if !p.Regs.LCDEnabled() {
		return result
	}

	remaining := mclks
	for remaining > 0 {
		cycleInLine := p.masterClockCycles % cyclesPerScanline
		line := int((p.masterClockCycles / cyclesPerScanline) % totalScanlines)

		step := uint64(1)
		if cycleInLine < oamScanCycles {
			step = oamScanCycles - cycleInLine
		} else if cycleInLine < oamScanCycles+drawingCycles {
			step = oamScanCycles + drawingCycles - cycleInLine
		} else {
			step = cyclesPerScanline - cycleInLine
		}
		if step > remaining {
			step = remaining
		}

		newCycleInLine := cycleInLine + step
		p.masterClockCycles += step
		remaining -= step

		if line < screenHeight {
			if cycleInLine < oamScanCycles && newCycleInLine >= oamScanCycles {
				p.Regs.setMode(modeDrawing) // mode 3 has no STAT interrupt source
				p.evaluateSprites(line)
			} else if cycleInLine < oamScanCycles+drawingCycles && newCycleInLine >= oamScanCycles+drawingCycles {
				p.renderScanline(line)
				p.Regs.setMode(modeHBlank)
				p.raiseSTATIfEnabled(p.Regs.mode0InterruptEnabled())
			}
		}

		if newCycleInLine >= cyclesPerScanline {
			nextLine := (line + 1) % totalScanlines
			p.Regs.LY = uint8(nextLine)
			p.onLYCCompare()

			switch {
			case nextLine == screenHeight:
				p.Regs.setMode(modeVBlank)
				p.vIntPending = true
				p.raiseSTATIfEnabled(p.Regs.mode1InterruptEnabled())
				p.windowLineCounter = 0
				result = FrameComplete
			case nextLine < screenHeight:
				p.Regs.setMode(modeOAMScan)
				p.raiseSTATIfEnabled(p.Regs.mode2InterruptEnabled())
			}
		}
	}

	return result
}

func (p *PPU) onLYCCompare() {
	match := p.Regs.LY == p.Regs.LYC
	p.Regs.setLYCFlag(match)
	if match && p.Regs.lycInterruptEnabled() {
		p.statIntPending = true
	}
}

func (p *PPU) raiseSTATIfEnabled(enabled bool) {
	if enabled {
		p.statIntPending = true
	}
}
