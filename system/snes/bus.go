// Package snes assembles the SNES 65C816 primary CPU, the S-PPU, the
// cartridge mapper, and the CPU-side $4200-$421F register block (NMI
// enable, auto-joypad, the hardware multiply/divide unit) plus the
// $4300-$437F general-purpose DMA channels into one System shell, in the
// tick-one-instruction-at-a-time idiom the rest of this module's CPU
// cores use.
package snes

import (
	gencart "github.com/silicontrace/multicore/hardware/cartridge/snes"
	"github.com/silicontrace/multicore/hardware/memory/containers"
	"github.com/silicontrace/multicore/video/snesppu"
)

const wramSize = 128 * 1024

// dmaChannel is one of the eight general-purpose DMA channels addressed
// at $43x0-$43x6.
type dmaChannel struct {
	params   uint8
	bBusAddr uint8
	aBusAddr uint16
	aBusBank uint8
	count    uint16
}

// dmaBPattern gives the sequence of offsets added to a channel's B-bus
// address as each byte of a transfer is moved, the documented "transfer
// pattern" selected by the low 3 bits of $43x0. Patterns 2 and 6 share
// the same two-bytes-to-one-address shape real hardware also aliases.
var dmaBPattern = [8][]uint8{
	0: {0},
	1: {0, 1},
	2: {0, 0},
	3: {0, 0, 1, 1},
	4: {0, 1, 2, 3},
	5: {0, 1, 0, 1},
	6: {0, 0},
	7: {0, 1, 1, 1},
}

// MainBus is the 65C816's view of the SNES address space.
type MainBus struct {
	Cart *gencart.Cartridge
	PPU  *snesppu.PPU
	WRAM *containers.RAM

	pads [2]controllerPort

	nmiEnable  bool // $4200 bit7
	autoJoy    bool // $4200 bit0
	nmiFlag    bool // $4210 bit7, read-and-clear
	vblankPrev bool
	nmi        bool

	autoJoy1, autoJoy2 uint16

	mpyA       uint8
	mdResult   uint16 // multiply product, or divide remainder
	mdQuotient uint16 // divide quotient
	divDividend uint16

	dma [8]dmaChannel

	wramPortAddr uint32 // $2180-$2183 indirect WRAM access
}

func NewMainBus(cart *gencart.Cartridge, ppu *snesppu.PPU) *MainBus {
	return &MainBus{
		Cart: cart,
		PPU:  ppu,
		WRAM: containers.NewRAM(wramSize),
	}
}

func bankAddr(bank uint8, offset uint16) uint32 {
	return uint32(bank)<<16 | uint32(offset)
}

func (b *MainBus) Read(addr uint32) (uint8, error) {
	bank := uint8(addr >> 16)
	offset := uint16(addr)

	if bank == 0x7e || bank == 0x7f {
		return b.WRAM.Read(uint32(bank-0x7e)*0x10000 + uint32(offset)), nil
	}

	if bank&0x7f < 0x40 {
		switch {
		case offset < 0x2000:
			return b.WRAM.Read(uint32(offset)), nil
		case offset >= 0x2100 && offset <= 0x213f:
			if v, ok := b.PPU.ReadPort(offset); ok {
				return v, nil
			}
			return 0xff, nil
		case offset == 0x2180:
			return b.readWRAMPort(), nil
		case offset == 0x4016:
			return b.pads[0].read(), nil
		case offset == 0x4017:
			return b.pads[1].read(), nil
		case offset == 0x4210:
			v := uint8(0x02) // CPU version nibble
			if b.nmiFlag {
				v |= 0x80
			}
			b.nmiFlag = false
			return v, nil
		case offset == 0x4211:
			return 0, nil // H/V-count IRQ timer not modeled: flag never sets
		case offset == 0x4212:
			var v uint8
			if b.PPU.VBlank() {
				v |= 0x80
			}
			return v, nil
		case offset == 0x4214:
			return uint8(b.mdQuotient), nil
		case offset == 0x4215:
			return uint8(b.mdQuotient >> 8), nil
		case offset == 0x4216:
			return uint8(b.mdResult), nil
		case offset == 0x4217:
			return uint8(b.mdResult >> 8), nil
		case offset == 0x4218:
			return uint8(b.autoJoy1), nil
		case offset == 0x4219:
			return uint8(b.autoJoy1 >> 8), nil
		case offset == 0x421a:
			return uint8(b.autoJoy2), nil
		case offset == 0x421b:
			return uint8(b.autoJoy2 >> 8), nil
		case offset >= 0x421c && offset <= 0x421f:
			return 0xff, nil // multitap data not modeled
		}
	}

	return b.Cart.ReadCPU(bank, offset), nil
}

func (b *MainBus) Write(addr uint32, v uint8) error {
	bank := uint8(addr >> 16)
	offset := uint16(addr)

	if bank == 0x7e || bank == 0x7f {
		b.WRAM.Write(uint32(bank-0x7e)*0x10000+uint32(offset), v)
		return nil
	}

	if bank&0x7f < 0x40 {
		switch {
		case offset < 0x2000:
			b.WRAM.Write(uint32(offset), v)
			return nil
		case offset >= 0x2100 && offset <= 0x213f:
			b.PPU.WritePort(offset, v)
			return nil
		case offset == 0x2180:
			b.writeWRAMPort(v)
			return nil
		case offset == 0x2181:
			b.wramPortAddr = b.wramPortAddr&0x1ff00 | uint32(v)
			return nil
		case offset == 0x2182:
			b.wramPortAddr = b.wramPortAddr&0x100ff | uint32(v)<<8
			return nil
		case offset == 0x2183:
			b.wramPortAddr = b.wramPortAddr&0x0ffff | uint32(v&1)<<16
			return nil
		case offset == 0x4016:
			b.pads[0].strobe(v)
			b.pads[1].strobe(v)
			return nil
		case offset == 0x4200:
			b.nmiEnable = v&0x80 != 0
			b.autoJoy = v&0x01 != 0
			return nil
		case offset == 0x4202:
			b.mpyA = v
			return nil
		case offset == 0x4203: // WRMPYB: writing the second factor triggers the multiply
			b.mdResult = uint16(b.mpyA) * uint16(v)
			return nil
		case offset == 0x4204:
			b.divDividend = b.divDividend&0xff00 | uint16(v)
			return nil
		case offset == 0x4205:
			b.divDividend = b.divDividend&0x00ff | uint16(v)<<8
			return nil
		case offset == 0x4206: // WRDIVB: writing the divisor triggers the divide
			if v == 0 {
				b.mdQuotient = 0xffff
				b.mdResult = b.divDividend
			} else {
				b.mdQuotient = b.divDividend / uint16(v)
				b.mdResult = b.divDividend % uint16(v)
			}
			return nil
		case offset == 0x420b:
			b.runGeneralDMA(v)
			return nil
		case offset >= 0x4300 && offset <= 0x437f:
			b.writeDMARegister(offset, v)
			return nil
		}
	}

	b.Cart.WriteCPU(bank, offset, v)
	return nil
}

func (b *MainBus) readWRAMPort() uint8 {
	v := b.WRAM.Read(b.wramPortAddr & (wramSize - 1))
	b.wramPortAddr = (b.wramPortAddr + 1) & 0x1ffff
	return v
}

func (b *MainBus) writeWRAMPort(v uint8) {
	b.WRAM.Write(b.wramPortAddr&(wramSize-1), v)
	b.wramPortAddr = (b.wramPortAddr + 1) & 0x1ffff
}

func (b *MainBus) writeDMARegister(offset uint16, v uint8) {
	ch := (offset - 0x4300) >> 4
	reg := (offset - 0x4300) & 0x0f
	c := &b.dma[ch]
	switch reg {
	case 0x0:
		c.params = v
	case 0x1:
		c.bBusAddr = v
	case 0x2:
		c.aBusAddr = c.aBusAddr&0xff00 | uint16(v)
	case 0x3:
		c.aBusAddr = c.aBusAddr&0x00ff | uint16(v)<<8
	case 0x4:
		c.aBusBank = v
	case 0x5:
		c.count = c.count&0xff00 | uint16(v)
	case 0x6:
		c.count = c.count&0x00ff | uint16(v)<<8
	}
}

// runGeneralDMA executes every channel flagged in an $420B MDMAEN write
// immediately, in one burst: HDMA's per-scanline execution model isn't
// implemented, so only this general-purpose engine moves data.
func (b *MainBus) runGeneralDMA(mask uint8) {
	for i := 0; i < 8; i++ {
		if mask&(1<<uint(i)) != 0 {
			b.executeDMAChannel(&b.dma[i])
		}
	}
}

func (b *MainBus) executeDMAChannel(c *dmaChannel) {
	bToA := c.params&0x80 != 0
	fixedA := c.params&0x08 != 0
	pattern := dmaBPattern[c.params&0x07]

	n := int(c.count)
	if n == 0 {
		n = 0x10000
	}

	aAddr := c.aBusAddr
	for i := 0; i < n; i++ {
		bAddr := uint32(0x2100) + uint32(c.bBusAddr) + uint32(pattern[i%len(pattern)])
		aFull := bankAddr(c.aBusBank, aAddr)

		if bToA {
			v, _ := b.Read(bAddr)
			b.Write(aFull, v)
		} else {
			v, _ := b.Read(aFull)
			b.Write(bAddr, v)
		}

		if !fixedA {
			aAddr++
		}
	}
	c.count = 0
}

func (b *MainBus) Idle() {}

func (b *MainBus) NMI() bool       { return b.nmi }
func (b *MainBus) IRQ() bool       { return false } // H/V-count IRQ timer not modeled
func (b *MainBus) AcknowledgeNMI() { b.nmi = false }

// refreshVBlank edge-detects the PPU's VBlank condition into the NMI
// pulse w65c816.CPU.Step expects from Bus.NMI, sets the read-and-clear
// $4210 flag, and captures an auto-joypad snapshot when enabled, all of
// which real hardware does once per frame at the start of VBlank.
func (b *MainBus) refreshVBlank() {
	vblank := b.PPU.VBlank()
	if vblank && !b.vblankPrev {
		b.nmiFlag = true
		if b.nmiEnable {
			b.nmi = true
		}
		if b.autoJoy {
			b.autoJoy1 = b.pads[0].latched
			b.autoJoy2 = b.pads[1].latched
		}
	}
	b.vblankPrev = vblank
}

// SetInputs latches the current button state into both controller ports'
// shift registers and the auto-joypad snapshot source.
func (b *MainBus) SetInputs(pad1, pad2 Buttons) {
	b.pads[0].latched = uint16(pad1)
	b.pads[1].latched = uint16(pad2)
}

// Buttons is the bitmask layout SetInputs uses for one standard SNES
// pad, in the order a real pad's 16-bit shift register reports them (B,
// Y, Select, Start, Up, Down, Left, Right, A, X, L, R); the top four
// bits a real pad shifts out are always zero and aren't named here.
type Buttons uint16

const (
	ButtonB Buttons = 1 << iota
	ButtonY
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonX
	ButtonL
	ButtonR
)

// controllerPort models one pad's 16-bit serial shift register: $4016/17
// bit0 held high re-latches the live button state every read; clearing it
// lets each subsequent read shift one more bit out, B first.
type controllerPort struct {
	latched uint16
	shift   uint16
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
	bit := uint8(p.shift & 1)
	p.shift = p.shift>>1 | 0x8000
	return bit
}
