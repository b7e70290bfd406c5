// Package smsvdp implements the Sega Master System / Game Gear VDP: the
// TMS9918-derived Mode-4 register file, 16KB VRAM, 32-entry CRAM, sprite
// attribute table, and the scanline renderer, following the same
// scanline-batch Tick() contract video/genesisvdp established (the
// Genesis VDP's own Mode 4 is this VDP's direct ancestor, sharing the
// priority/transparency rules this package grounds its renderer on). No
// Master System original-source file is in the retrieval pack; register
// and timing semantics are supplemented from public SMS VDP
// documentation the way video/nesppu supplements its own missing
// original-source reference.
package smsvdp

import "github.com/silicontrace/multicore/hardware/memory/containers"

const (
	mclkCyclesPerScanline = 228
	activeScanlines       = 192 // the 224/240-line extended modes are not modeled

	vramLen = 16 * 1024
	cramLen = 32

	// renderTriggerOffset mirrors video/genesisvdp's choice of rendering
	// late in the line, so a write performed during HBlank affects the
	// next scanline rather than the one just completed.
	renderTriggerOffset = 200
)

// TickResult is the VDP's once-per-frame report to the system shell.
type TickResult int

const (
	TickNone TickResult = iota
	FrameComplete
)

// TimingMode selects NTSC (262 scanlines/frame) or PAL (313).
type TimingMode int

const (
	TimingNTSC TimingMode = iota
	TimingPAL
)

func (t TimingMode) scanlinesPerFrame() uint16 {
	if t == TimingPAL {
		return 313
	}
	return 262
}

// VDP is the Sega Master System / Game Gear video display processor.
type VDP struct {
	Timing    TimingMode
	Registers *Registers

	VRAM  *containers.VRAM
	CRAM  *containers.RAM

	spriteAttrCache [64]spriteAttr

	masterClockCycles uint64
	scanline          uint16

	lineInterruptCounter uint8
	lineIntPending       bool
	vIntPending          bool

	// control-port address-setup sequence state
	controlAwaitsSecond bool
	addrLatchLow        uint8
	dataAddress         uint16
	code                uint8 // 0=VRAM read, 1=VRAM write, 2=register write, 3=CRAM write

	readBuffer uint8

	frame       []uint32 // packed 0xRRGGBB, 256x192
	frameWidth  int
	frameHeight int

	spriteOverflow   bool
	spriteCollision  bool
	scanlineSprites  []spriteLineEntry
}

func NewVDP(timing TimingMode) *VDP {
	v := &VDP{
		Timing:    timing,
		Registers: NewRegisters(),
		VRAM:      containers.NewVRAM(vramLen),
		CRAM:      containers.NewRAM(cramLen),
	}
	v.frameWidth = 256
	v.frameHeight = activeScanlines
	v.frame = make([]uint32, v.frameWidth*v.frameHeight)
	return v
}

func (v *VDP) FrameBuffer() []uint32 { return v.frame }
func (v *VDP) FrameWidth() int       { return v.frameWidth }
func (v *VDP) FrameHeight() int      { return v.frameHeight }

// VInterruptPending / LineInterruptPending report whether VBlank/line
// interrupt is both latched and enabled by the register file, the same
// latch-and-gate split video/genesisvdp uses for its HINT/VINT lines.
func (v *VDP) VInterruptPending() bool { return v.vIntPending && v.Registers.VInterruptEnable }

func (v *VDP) AcknowledgeVInterrupt() { v.vIntPending = false }

func (v *VDP) LineInterruptPending() bool { return v.lineIntPending && v.Registers.LineInterruptEnable }

func (v *VDP) AcknowledgeLineInterrupt() { v.lineIntPending = false }

// ReadControlPort is $BF: returns and clears VBlank/sprite-overflow/
// sprite-collision status, and resets the two-write address latch.
func (v *VDP) ReadControlPort() uint8 {
	var status uint8
	if v.vIntPending {
		status |= 0x80
	}
	if v.spriteOverflow {
		status |= 0x40
	}
	if v.spriteCollision {
		status |= 0x20
	}
	v.vIntPending = false
	v.spriteOverflow = false
	v.spriteCollision = false
	v.controlAwaitsSecond = false
	return status
}

// WriteControlPort is $BF: the two-byte address/code setup sequence.
// The first write latches the low address byte; the second combines it
// with the high byte and the 2-bit code, and for code 2 (register
// write) applies the write immediately instead of arming the data port.
func (v *VDP) WriteControlPort(value uint8) {
	if !v.controlAwaitsSecond {
		v.addrLatchLow = value
		v.controlAwaitsSecond = true
		return
	}
	v.controlAwaitsSecond = false
	v.code = (value >> 6) & 0x03
	v.dataAddress = uint16(value&0x3f)<<8 | uint16(v.addrLatchLow)

	switch v.code {
	case 0:
		v.readBuffer = v.VRAM.Read(uint32(v.dataAddress))
		v.dataAddress = (v.dataAddress + 1) & 0x3fff
	case 2:
		register := value & 0x0f
		v.Registers.WriteRegister(register, v.addrLatchLow)
		if register == 5 {
			v.rebuildSpriteCache()
		}
	}
}

// ReadDataPort is $BE: returns the read-ahead buffer and primes the
// next one, auto-incrementing the address exactly as the control-port
// VRAM-read setup does.
func (v *VDP) ReadDataPort() uint8 {
	value := v.readBuffer
	v.readBuffer = v.VRAM.Read(uint32(v.dataAddress))
	v.dataAddress = (v.dataAddress + 1) & 0x3fff
	return value
}

// WriteDataPort is $BE: writes VRAM (codes 0/1/2) or CRAM (code 3) at
// the current address and auto-increments, updating the sprite
// attribute cache immediately when the write lands inside the active
// sprite attribute table.
func (v *VDP) WriteDataPort(value uint8) {
	v.controlAwaitsSecond = false
	if v.code == 3 {
		v.CRAM.Write(uint32(v.dataAddress)&(cramLen-1), value)
	} else {
		v.VRAM.Write(uint32(v.dataAddress), value)
		v.readBuffer = value
		v.refreshSpriteCacheFor(v.dataAddress)
	}
	v.dataAddress = (v.dataAddress + 1) & 0x3fff
}

// Tick advances the VDP by mclks master clocks, rendering any scanlines
// crossed and raising VBlank/line interrupts at their defined offsets.
func (v *VDP) Tick(mclks uint64) TickResult {
	result := TickNone
	remaining := mclks

	for remaining > 0 {
		mclkIntoLine := v.masterClockCycles % mclkCyclesPerScanline
		step := mclkCyclesPerScanline - mclkIntoLine
		if step > remaining {
			step = remaining
		}
		newMclkIntoLine := mclkIntoLine + step

		if mclkIntoLine < renderTriggerOffset && newMclkIntoLine >= renderTriggerOffset && v.scanline < activeScanlines {
			v.renderScanline(int(v.scanline))
		}

		v.masterClockCycles += step
		remaining -= step

		if newMclkIntoLine >= mclkCyclesPerScanline {
			// the line-interrupt counter reloads and decrements across
			// every active scanline plus the first post-active line, then
			// holds disarmed for the rest of VBlank
			if v.scanline <= activeScanlines {
				if v.lineInterruptCounter == 0 {
					v.lineInterruptCounter = v.Registers.LineCounterReload
					v.lineIntPending = true
				} else {
					v.lineInterruptCounter--
				}
			} else {
				v.lineInterruptCounter = v.Registers.LineCounterReload
			}

			v.scanline = (v.scanline + 1) % v.Timing.scanlinesPerFrame()
			if v.scanline == activeScanlines {
				result = FrameComplete
				v.vIntPending = true // status flag latches regardless of register 1's enable bit
			}
		}
	}

	return result
}

func (v *VDP) VBlank() bool { return v.scanline >= activeScanlines }

// Scanline reports the current raster line, for the system bus's V
// counter port ($7E read): games poll this for raster-split effects.
// The H counter (the companion $7F read) is not modeled, since nothing
// short of mid-scanline dot timing this package doesn't track could
// serve it meaningfully.
func (v *VDP) Scanline() uint16 { return v.scanline }
