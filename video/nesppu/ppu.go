package nesppu

import (
	"github.com/silicontrace/multicore/hardware/cartridge/nes"
	"github.com/silicontrace/multicore/hardware/memory/containers"
)

const (
	dotsPerScanline     = 341
	scanlinesPerFrame   = 262
	visibleScanlines    = 240
	vblankScanline      = 241
	preRenderScanline   = 261
	screenWidth         = 256
)

// TickResult is the PPU's report back to the system shell once per
// Tick() call.
type TickResult int

const (
	TickNone TickResult = iota
	FrameComplete
)

// CHRBus is the cartridge-facing side of the PPU bus: pattern-table
// reads/writes go through the mapper, which may bank CHR ROM/RAM or, for
// MMC3, watch the address stream to drive its scanline IRQ counter.
type CHRBus interface {
	ReadPPU(addr uint16) uint8
	WritePPU(addr uint16, v uint8)
	TickPPU(addr uint16)
	Mirroring() nes.Mirroring
}

// PPU is the NES picture processing unit.
type PPU struct {
	CHR CHRBus

	Control Control
	Mask    Mask
	Status  Status
	Scroll  ScrollRegs

	nameTables [2]*containers.RAM // two physical 1KB nametables
	palette    *containers.RAM    // 32 bytes
	OAM        *containers.RAM    // 256 bytes

	scanlineSprites []evaluatedSprite // sprites matched for the next scanline

	oamAddr uint8

	readBuffer uint8 // $2007 read is delayed by one access except for palette

	dot      int
	scanline int

	oddFrame bool

	frame []uint32 // packed 0xRRGGBB
}

func NewPPU(chr CHRBus) *PPU {
	p := &PPU{
		CHR:        chr,
		nameTables: [2]*containers.RAM{containers.NewRAM(1024), containers.NewRAM(1024)},
		palette:    containers.NewRAM(32),
		OAM:        containers.NewRAM(256),
	}
	p.frame = make([]uint32, screenWidth*visibleScanlines)
	p.scanline = preRenderScanline
	return p
}

// nameTableRAM resolves a $2000-$2FFF PPU-bus address to one of the two
// physical 1KB nametables, according to the cartridge's current
// mirroring mode.
func (p *PPU) nameTableRAM(addr uint16) (*containers.RAM, uint16) {
	addr &= 0x0fff
	table := addr / 0x400
	offset := addr % 0x400

	switch p.CHR.Mirroring() {
	case nes.MirrorVertical:
		return p.nameTables[table%2], offset
	case nes.MirrorHorizontal:
		return p.nameTables[table/2], offset
	case nes.MirrorSingleScreenLo:
		return p.nameTables[0], offset
	case nes.MirrorSingleScreenHi:
		return p.nameTables[1], offset
	default: // four-screen: fold onto the two physical tables (no expansion RAM)
		return p.nameTables[table%2], offset
	}
}

// ReadBusAddr reads the PPU's internal address bus ($0000-$3FFF),
// dispatching pattern tables to the mapper and nametables/palette to
// local RAM.
func (p *PPU) ReadBusAddr(addr uint16) uint8 {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		return p.CHR.ReadPPU(addr)
	case addr < 0x3f00:
		ram, off := p.nameTableRAM(addr)
		return ram.Read(uint32(off))
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) WriteBusAddr(addr uint16, v uint8) {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		p.CHR.WritePPU(addr, v)
	case addr < 0x3f00:
		ram, off := p.nameTableRAM(addr)
		ram.Write(uint32(off), v)
	default:
		p.writePalette(addr, v)
	}
}

func (p *PPU) paletteIndex(addr uint16) uint32 {
	idx := addr & 0x1f
	// $3F10/$3F14/$3F18/$3F1C mirror their $3F00-equivalent background
	// entries; sprite palette 0 color 0 is never independently addressable.
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return uint32(idx)
}

func (p *PPU) readPalette(addr uint16) uint8 { return p.palette.Read(p.paletteIndex(addr)) }
func (p *PPU) writePalette(addr uint16, v uint8) { p.palette.Write(p.paletteIndex(addr), v&0x3f) }

// ReadRegister handles a CPU read of $2000-$2007 (mirrored through
// $3FFF). Side effects (VBlank-clear, read-buffer latch, address
// increment) are applied here, matching the 2C02's documented behavior.
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg & 0x07 {
	case 2:
		v := p.Status.Read()
		p.Status.VBlank = false
		p.Scroll.W = false
		return v
	case 4:
		return p.OAM.Read(uint32(p.oamAddr))
	case 7:
		addr := p.Scroll.V & 0x3fff
		var v uint8
		if addr >= 0x3f00 {
			v = p.readPalette(addr)
			p.readBuffer = p.ReadBusAddr(addr - 0x1000)
		} else {
			v = p.readBuffer
			p.readBuffer = p.ReadBusAddr(addr)
		}
		p.Scroll.V += p.Control.VRAMIncrement
		return v
	default:
		return 0
	}
}

// WriteRegister handles a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(reg uint16, v uint8) {
	switch reg & 0x07 {
	case 0:
		p.Control.Write(v)
		p.Scroll.T = p.Scroll.T&0xf3ff | uint16(v&0x03)<<10
	case 1:
		p.Mask.Write(v)
	case 3:
		p.oamAddr = v
	case 4:
		p.OAM.Write(uint32(p.oamAddr), v)
		p.oamAddr++
	case 5:
		p.Scroll.WriteScroll(v)
	case 6:
		p.Scroll.WriteAddr(v)
	case 7:
		p.WriteBusAddr(p.Scroll.V&0x3fff, v)
		p.Scroll.V += p.Control.VRAMIncrement
	}
}

// NMIPending reports whether VBlank and NMI-enable are both set, the
// condition the system shell checks to drive the CPU's NMI line.
func (p *PPU) NMIPending() bool { return p.Status.VBlank && p.Control.NMIEnabled }

func (p *PPU) FrameBuffer() []uint32 { return p.frame }
func (p *PPU) FrameWidth() int       { return screenWidth }
func (p *PPU) FrameHeight() int      { return visibleScanlines }

// Tick advances the PPU by one dot (the 2C02 runs 3 dots per 6502
// cycle; callers step this 3 times per CPU Step). Returns FrameComplete
// once per frame, on the transition out of the pre-render scanline.
func (p *PPU) Tick() TickResult {
	result := TickNone

	if p.scanline < visibleScanlines && p.dot >= 1 && p.dot <= 256 {
		if p.Mask.RenderingEnabled() {
			p.renderDot(p.scanline, p.dot-1)
		}
	}

	if p.scanline == preRenderScanline && p.dot == 1 {
		p.Status.VBlank = false
		p.Status.Sprite0Hit = false
		p.Status.SpriteOverflow = false
	}
	if p.scanline == vblankScanline && p.dot == 1 {
		p.Status.VBlank = true
	}

	if p.Mask.RenderingEnabled() {
		if p.dot == 256 && p.scanline < visibleScanlines {
			p.Scroll.IncrementY()
		}
		if p.dot == 257 && (p.scanline < visibleScanlines || p.scanline == preRenderScanline) {
			p.Scroll.CopyHorizontal()
			// the pre-render scanline evaluates sprites for scanline 0, not
			// scanline 262 (which would never match any OAM entry)
			target := p.scanline + 1
			if p.scanline == preRenderScanline {
				target = 0
			}
			p.evaluateSprites(target)
		}
		if p.scanline == preRenderScanline && p.dot >= 280 && p.dot <= 304 {
			p.Scroll.CopyVertical()
		}
		if p.dot >= 328 || (p.dot >= 1 && p.dot <= 256) {
			if p.dot%8 == 0 {
				p.Scroll.IncrementX()
			}
		}
	}

	p.dot++
	// the odd-frame dot skip shortens the pre-render scanline by one dot
	// when rendering is enabled
	if p.dot == dotsPerScanline-1 && p.scanline == preRenderScanline && p.oddFrame && p.Mask.RenderingEnabled() {
		p.dot++
	}
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
			result = FrameComplete
		}
	}

	return result
}
