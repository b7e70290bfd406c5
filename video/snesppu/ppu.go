package snesppu

import "github.com/silicontrace/multicore/hardware/memory/containers"

const (
	screenWidth  = 256
	screenHeight = 224

	dotsPerScanline   = 1364
	scanlinesPerFrame = 262 // NTSC; PAL runs 312 but is not modeled separately

	vramWords = 64 * 1024 / 2
	oamLowLen = 512
	oamHighLen = 32
	cgramWords = 256
)

// TickResult is the PPU's once-per-frame report to the system shell.
type TickResult int

const (
	TickNone TickResult = iota
	FrameComplete
)

// PPU is the SNES S-PPU register file, VRAM/OAM/CGRAM, and renderer.
type PPU struct {
	Regs Registers

	vram  *containers.WordRAM
	oamLo *containers.RAM
	oamHi *containers.RAM
	cgram *containers.WordRAM

	vramReadBuffer uint16

	cgLatchLow uint8
	cgHaveLow  bool

	hScrollLatch [4]scrollLatch
	vScrollLatch [4]scrollLatch
	m7Latch      [6]scrollLatch // a,b,c,d,centerX,centerY

	oamPriorityRotate bool

	scanlineSprites []spritePixelSource

	dot      int
	scanline int

	frame []uint32 // packed 0xRRGGBB, 256x224
}

func NewPPU() *PPU {
	p := &PPU{
		vram:  containers.NewWordRAM(vramWords),
		oamLo: containers.NewRAM(oamLowLen),
		oamHi: containers.NewRAM(oamHighLen),
		cgram: containers.NewWordRAM(cgramWords),
	}
	p.frame = make([]uint32, screenWidth*screenHeight)
	return p
}

func (p *PPU) FrameBuffer() []uint32 { return p.frame }
func (p *PPU) FrameWidth() int       { return screenWidth }
func (p *PPU) FrameHeight() int      { return screenHeight }

// ReadPort handles a CPU read of $2134-$213F (PPU1/PPU2 read-only ports
// plus the VRAM/CGRAM/OAM data ports, which are readable as well as
// writable). $2100-$2133 are write-only on real hardware and return
// open-bus, modeled here as simply unreadable (callers supply their own
// open-bus byte).
func (p *PPU) ReadPort(address uint16) (uint8, bool) {
	switch address & 0xff {
	case 0x34, 0x35, 0x36: // MPYL/M/H: mode 7 multiply result, not modeled
		return 0, true
	case 0x37: // SLHV: software latch for H/V counters, side-effecting only
		return 0, true
	case 0x38:
		return p.readOAMDataPort(), true
	case 0x39:
		return p.readVRAMDataPortLow(), true
	case 0x3a:
		return p.readVRAMDataPortHigh(), true
	case 0x3b:
		return p.readCGRAMDataPort(), true
	case 0x3c, 0x3d: // OPHCT/OPVCT latched counters, not modeled
		return 0, true
	case 0x3e, 0x3f: // STAT77/STAT78
		return 0, true
	default:
		return 0, false
	}
}

// WritePort handles a CPU write of $2100-$2133.
func (p *PPU) WritePort(address uint16, v uint8) {
	switch address & 0xff {
	case 0x00:
		p.Regs.WriteINIDISP(v)
	case 0x01:
		p.Regs.WriteOBSEL(v)
	case 0x02:
		p.Regs.OAMAddr = p.Regs.OAMAddr&0xff00 | uint16(v)
	case 0x03:
		p.Regs.OAMAddr = p.Regs.OAMAddr&0x00ff | uint16(v&0x01)<<8
		p.oamPriorityRotate = v&0x80 != 0
	case 0x04:
		p.writeOAMDataPort(v)
	case 0x05:
		p.Regs.WriteBGMODE(v)
	case 0x06:
		// MOSAIC: pixel-mosaic is not modeled (documented simplification,
		// matching video/genesisvdp's interlace/per-tile-scroll omissions).
	case 0x07, 0x08, 0x09, 0x0a:
		p.Regs.WriteBGxSC(int(address&0xff)-0x07, v)
	case 0x0b:
		p.Regs.WriteBG12NBA(v)
	case 0x0c:
		p.Regs.WriteBG34NBA(v)
	case 0x0d:
		p.Regs.WriteScrollLatched(0, true, v, &p.hScrollLatch[0])
	case 0x0e:
		p.Regs.WriteScrollLatched(0, false, v, &p.vScrollLatch[0])
	case 0x0f:
		p.Regs.WriteScrollLatched(1, true, v, &p.hScrollLatch[1])
	case 0x10:
		p.Regs.WriteScrollLatched(1, false, v, &p.vScrollLatch[1])
	case 0x11:
		p.Regs.WriteScrollLatched(2, true, v, &p.hScrollLatch[2])
	case 0x12:
		p.Regs.WriteScrollLatched(2, false, v, &p.vScrollLatch[2])
	case 0x13:
		p.Regs.WriteScrollLatched(3, true, v, &p.hScrollLatch[3])
	case 0x14:
		p.Regs.WriteScrollLatched(3, false, v, &p.vScrollLatch[3])
	case 0x15:
		p.Regs.WriteVMAIN(v)
	case 0x16:
		p.Regs.WriteVMADDL(v)
		p.primeVRAMReadBuffer()
	case 0x17:
		p.Regs.WriteVMADDH(v)
		p.primeVRAMReadBuffer()
	case 0x18:
		p.writeVRAMDataPortLow(v)
	case 0x19:
		p.writeVRAMDataPortHigh(v)
	case 0x1a:
		p.Regs.WriteM7SEL(v)
	case 0x1b:
		p.Regs.WriteMode7Latched16(&p.Regs.Mode7A, v, &p.m7Latch[0])
	case 0x1c:
		p.Regs.WriteMode7Latched16(&p.Regs.Mode7B, v, &p.m7Latch[1])
	case 0x1d:
		p.Regs.WriteMode7Latched16(&p.Regs.Mode7C, v, &p.m7Latch[2])
	case 0x1e:
		p.Regs.WriteMode7Latched16(&p.Regs.Mode7D, v, &p.m7Latch[3])
	case 0x1f:
		p.Regs.WriteMode7Latched16(&p.Regs.Mode7CenterX, v, &p.m7Latch[4])
	case 0x20:
		p.Regs.WriteMode7Latched16(&p.Regs.Mode7CenterY, v, &p.m7Latch[5])
	case 0x21:
		p.Regs.WriteCGADD(v)
		p.cgHaveLow = false
	case 0x22:
		p.writeCGRAMDataPort(v)
	case 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2a, 0x2b:
		// window-mask registers: windows are not modeled (the simplified
		// window test in video/genesisvdp is rectangular; the SNES's
		// per-pixel two-window AND/OR/XOR/XNOR logic has no equivalent
		// precedent in the pack's examples to ground a port on)
	case 0x2c:
		p.Regs.WriteTM(v)
	case 0x2d:
		p.Regs.WriteTS(v)
	case 0x2e, 0x2f:
		// TMW/TSW: window-masked main/sub screen enable, not modeled
	case 0x30:
		p.Regs.WriteCGWSEL(v)
	case 0x31:
		p.Regs.WriteCGADSUB(v)
	case 0x32:
		p.Regs.WriteCOLDATA(v)
	case 0x33:
		// SETINI: interlace/overscan/pseudo-hi-res/extbg, not modeled
	}
}

func (p *PPU) readOAMDataPort() uint8 {
	addr := p.Regs.OAMAddr
	var v uint8
	if addr < 512 {
		v = p.oamLo.Read(uint32(addr))
	} else {
		v = p.oamHi.Read(uint32(addr - 512))
	}
	p.Regs.OAMAddr++
	if p.Regs.OAMAddr >= 544 {
		p.Regs.OAMAddr = 0
	}
	return v
}

func (p *PPU) writeOAMDataPort(v uint8) {
	addr := p.Regs.OAMAddr
	if addr < 512 {
		p.oamLo.Write(uint32(addr), v)
	} else if addr < 544 {
		p.oamHi.Write(uint32(addr-512), v)
	}
	p.Regs.OAMAddr++
	if p.Regs.OAMAddr >= 544 {
		p.Regs.OAMAddr = 0
	}
}

func (p *PPU) primeVRAMReadBuffer() {
	p.vramReadBuffer = p.vram.Read(uint32(p.Regs.VRAMAddress))
}

func (p *PPU) readVRAMDataPortLow() uint8 {
	v := uint8(p.vramReadBuffer)
	if !p.Regs.VRAMIncrementAfterHigh {
		p.advanceVRAMAddress()
	}
	return v
}

func (p *PPU) readVRAMDataPortHigh() uint8 {
	v := uint8(p.vramReadBuffer >> 8)
	if p.Regs.VRAMIncrementAfterHigh {
		p.advanceVRAMAddress()
	}
	return v
}

func (p *PPU) advanceVRAMAddress() {
	p.Regs.VRAMAddress += p.Regs.VRAMIncrementStep
	p.primeVRAMReadBuffer()
}

func (p *PPU) writeVRAMDataPortLow(v uint8) {
	cur := p.vram.Read(uint32(p.Regs.VRAMAddress))
	p.vram.Write(uint32(p.Regs.VRAMAddress), cur&0xff00|uint16(v))
	if !p.Regs.VRAMIncrementAfterHigh {
		p.Regs.VRAMAddress += p.Regs.VRAMIncrementStep
	}
}

func (p *PPU) writeVRAMDataPortHigh(v uint8) {
	cur := p.vram.Read(uint32(p.Regs.VRAMAddress))
	p.vram.Write(uint32(p.Regs.VRAMAddress), cur&0x00ff|uint16(v)<<8)
	if p.Regs.VRAMIncrementAfterHigh {
		p.Regs.VRAMAddress += p.Regs.VRAMIncrementStep
	}
}

func (p *PPU) writeCGRAMDataPort(v uint8) {
	if !p.cgHaveLow {
		p.cgLatchLow = v
		p.cgHaveLow = true
		return
	}
	p.cgHaveLow = false
	word := uint16(v&0x7f)<<8 | uint16(p.cgLatchLow)
	p.cgram.Write(uint32(p.Regs.CGRAMAddress), word)
	p.Regs.CGRAMAddress++
}

func (p *PPU) readCGRAMDataPort() uint8 {
	word := p.cgram.Read(uint32(p.Regs.CGRAMAddress))
	var v uint8
	if !p.cgHaveLow {
		v = uint8(word)
	} else {
		v = uint8(word >> 8)
		p.Regs.CGRAMAddress++
	}
	p.cgHaveLow = !p.cgHaveLow
	return v
}

// Tick advances the PPU by a batch of master clocks, rendering one
// scanline at a time at a fixed offset into active display, the same
// scanline-batch contract video/genesisvdp.VDP.Tick uses.
func (p *PPU) Tick(mclks uint64) TickResult {
	result := TickNone
	for mclks > 0 {
		remaining := uint64(dotsPerScanline - p.dot)
		step := mclks
		if step > remaining {
			step = remaining
		}
		p.dot += int(step)
		mclks -= step

		if p.dot >= dotsPerScanline {
			p.dot = 0
			if p.scanline < screenHeight && !p.Regs.ForcedBlanking {
				p.renderScanline(p.scanline)
			}
			p.scanline++
			if p.scanline >= scanlinesPerFrame {
				p.scanline = 0
				result = FrameComplete
			}
		}
	}
	return result
}

func (p *PPU) VBlank() bool { return p.scanline >= screenHeight }
