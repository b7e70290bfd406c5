// Package nes assembles the NES/Famicom 6502 primary-CPU bus, the PPU, the
// cartridge mapper, and the two controller ports into one System shell, in
// the tick-one-instruction-at-a-time idiom the rest of this module's CPU
// cores use.
package nes

import (
	gencart "github.com/silicontrace/multicore/hardware/cartridge/nes"
	"github.com/silicontrace/multicore/hardware/memory/containers"
	"github.com/silicontrace/multicore/video/nesppu"
)

const wramSize = 2 * 1024

// MainBus is the 6502's view of the NES address space: 2KB internal RAM
// mirrored four times across $0000-$1FFF, the PPU's eight registers
// mirrored across $2000-$3FFF, the two controller strobe/data ports at
// $4016/$4017, and the cartridge mapper's window at $4020-$FFFF.
type MainBus struct {
	Mapper *gencart.Mapper
	PPU    *nesppu.PPU
	WRAM   *containers.RAM

	pads    [2]controllerPort
	nmi     bool // edge-latched: set on VBlank/NMI-enable's 0->1 transition
	prevNMI bool
}

func NewMainBus(mapper *gencart.Mapper, ppu *nesppu.PPU) *MainBus {
	return &MainBus{
		Mapper: mapper,
		PPU:    ppu,
		WRAM:   containers.NewRAM(wramSize),
	}
}

func (b *MainBus) Read(addr uint16) (uint8, error) {
	switch {
	case addr < 0x2000:
		return b.WRAM.Read(uint32(addr) & 0x7ff), nil
	case addr < 0x4000:
		return b.PPU.ReadRegister(addr), nil
	case addr == 0x4016:
		return b.pads[0].read(), nil
	case addr == 0x4017:
		return b.pads[1].read(), nil
	case addr >= 0x4020:
		return b.Mapper.ReadCPU(addr), nil
	default:
		return 0xff, nil
	}
}

func (b *MainBus) Write(addr uint16, v uint8) error {
	switch {
	case addr < 0x2000:
		b.WRAM.Write(uint32(addr)&0x7ff, v)
	case addr < 0x4000:
		b.PPU.WriteRegister(addr, v)
	case addr == 0x4014:
		b.oamDMA(v)
	case addr == 0x4016:
		b.pads[0].strobe(v)
		b.pads[1].strobe(v)
	case addr >= 0x4020:
		b.Mapper.WriteCPU(addr, v)
	}
	return nil
}

// oamDMA copies one 256-byte page from work RAM into the PPU's OAM,
// mirroring the real $4014 write's CPU-stall-for-513-cycles transfer
// (the stall itself is not modeled; only the data movement is).
func (b *MainBus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v, _ := b.Read(base + uint16(i))
		b.PPU.WriteRegister(0x2004, v)
	}
}

func (b *MainBus) Idle() {}

func (b *MainBus) NMI() bool { return b.nmi }
func (b *MainBus) IRQ() bool { return b.Mapper.IRQFlag() }

func (b *MainBus) AcknowledgeNMI() { b.nmi = false }

// latchNMI edge-detects the PPU's level-sensitive VBlank/NMI-enable
// condition into the pulse mos6502.CPU.Step expects from Bus.NMI: the
// line only (re-)latches on a 0->1 transition, mirroring the real 2C02's
// NMI output, which must drop before it can fire again even while VBlank
// itself stays asserted for the whole blanking period.
func (b *MainBus) latchNMI(level bool) {
	if level && !b.prevNMI {
		b.nmi = true
	}
	b.prevNMI = level
}

// SetInputs latches the current button state into both controller ports'
// shift registers; once a port's eight button bits have been shifted
// out, further reads report 1.
func (b *MainBus) SetInputs(pad1, pad2 Buttons) {
	b.pads[0].latched = uint8(pad1)
	b.pads[1].latched = uint8(pad2)
}

// controllerPort models one standard NES controller's serial shift
// register: writing bit 0 of $4016 while high holds the register loaded
// with the live button state; clearing it latches the snapshot and each
// subsequent read shifts one bit out, A first.
type controllerPort struct {
	latched uint8
	shift   uint8
	strobed bool
}

func (p *controllerPort) strobe(v uint8) {
	p.strobed = v&1 != 0
	if p.strobed {
		p.shift = p.latched
	}
}

func (p *controllerPort) read() uint8 {
	if p.strobed {
		p.shift = p.latched
	}
	bit := p.shift & 1
	p.shift = p.shift>>1 | 0x80
	return bit | 0x40 // open-bus bits on a real pad read back high
}
