// Package gb assembles the Sharp LR35902 CPU, the picture processing
// unit, the cartridge mapper, and the joypad/timer peripherals into one
// Game Boy / Game Boy Color System shell, in the tick-one-M-cycle-at-a-
// time idiom the rest of this module's CPU cores use.
package gb

import (
	gbcart "github.com/silicontrace/multicore/hardware/cartridge/gb"
	"github.com/silicontrace/multicore/hardware/cpu/lr35902"
	"github.com/silicontrace/multicore/hardware/memory/containers"
	"github.com/silicontrace/multicore/video/gbppu"
)

const (
	wramSize = 8 * 1024
	hramSize = 127
	audioLen = 0xff40 - 0xff10
)

// Buttons is the bitmask layout SetInputs uses for the eight-button
// joypad matrix.
type Buttons uint8

const (
	ButtonRight Buttons = 1 << iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// timer models the DIV/TIMA/TMA/TAC registers at $FF04-$FF07. DIV is
// the high byte of a free-running 16-bit counter; TIMA increments once
// per timerDivisor(TAC) ticks of that same counter when TAC's enable
// bit is set, reloading from TMA and requesting IntTimer on overflow.
// Real hardware derives TIMA's tick from a falling edge of one of the
// counter's bits and can glitch when DIV or TAC is rewritten
// mid-count; that edge-detector quirk is not modeled here.
type timer struct {
	div     uint16
	tima    uint8
	tma     uint8
	tac     uint8
	timaAcc uint32
}

func timerDivisor(sel uint8) uint32 {
	switch sel & 0x03 {
	case 0:
		return 1024
	case 1:
		return 16
	case 2:
		return 64
	default:
		return 256
	}
}

// tick advances the timer by tcycles T-cycles, returning true if TIMA
// overflowed and an IntTimer request should be latched.
func (t *timer) tick(tcycles int) bool {
	overflowed := false
	for i := 0; i < tcycles; i++ {
		t.div++
		if t.tac&0x04 == 0 {
			continue
		}
		t.timaAcc++
		if t.timaAcc >= timerDivisor(t.tac) {
			t.timaAcc = 0
			t.tima++
			if t.tima == 0 {
				t.tima = t.tma
				overflowed = true
			}
		}
	}
	return overflowed
}

// MainBus is the LR35902's view of the Game Boy address space: the
// cartridge's ROM/RAM windows at $0000-$7FFF/$A000-$BFFF, the PPU's
// VRAM/OAM windows and $FF40-$FF4B register block, 8KB of work RAM
// mirrored across $E000-$FDFF, the joypad matrix at $FF00, the DIV/TIMA
// timer at $FF04-$FF07, IF/IE at $FF0F/$FFFF, and 127 bytes of HRAM at
// $FF80-$FFFE.
type MainBus struct {
	Cart  *gbcart.Cartridge
	PPU   *gbppu.PPU
	WRAM  *containers.RAM
	Timer timer

	HRAM      [hramSize]uint8
	audioRegs [audioLen]uint8 // $FF10-$FF3F: no channel synthesis, writes just round-trip

	joypSelect uint8 // bits 4-5 of $FF00, the only CPU-writable bits
	buttons    Buttons

	ifReg uint8
	ie    uint8

	dmaSourceHigh uint8
	dmaIndex      int
}

func NewMainBus(cart *gbcart.Cartridge, ppu *gbppu.PPU) *MainBus {
	return &MainBus{
		Cart:       cart,
		PPU:        ppu,
		WRAM:       containers.NewRAM(wramSize),
		joypSelect: 0x30,
	}
}

func (b *MainBus) Read(addr uint16) (uint8, error) {
	switch {
	case addr < 0x8000:
		return b.Cart.ReadCPU(addr), nil
	case addr < 0xa000:
		return b.PPU.ReadVRAM(addr), nil
	case addr < 0xc000:
		return b.Cart.ReadCPU(addr), nil
	case addr < 0xe000:
		return b.WRAM.Read(uint32(addr - 0xc000)), nil
	case addr < 0xfe00:
		return b.WRAM.Read(uint32(addr - 0xe000)), nil
	case addr < 0xfea0:
		return b.PPU.ReadOAM(addr), nil
	case addr < 0xff00:
		return 0xff, nil
	case addr == 0xff00:
		return b.readJoypad(), nil
	case addr == 0xff04:
		return uint8(b.Timer.div >> 8), nil
	case addr == 0xff05:
		return b.Timer.tima, nil
	case addr == 0xff06:
		return b.Timer.tma, nil
	case addr == 0xff07:
		return b.Timer.tac | 0xf8, nil
	case addr == 0xff0f:
		return b.ifReg | 0xe0, nil
	case addr >= 0xff10 && addr < 0xff40:
		return b.audioRegs[addr-0xff10], nil
	case addr >= 0xff40 && addr <= 0xff4b:
		return b.PPU.ReadPort(addr), nil
	case addr >= 0xff80 && addr < 0xffff:
		return b.HRAM[addr-0xff80], nil
	case addr == 0xffff:
		return b.ie, nil
	default:
		return 0xff, nil
	}
}

func (b *MainBus) Write(addr uint16, v uint8) error {
	switch {
	case addr < 0x8000:
		b.Cart.WriteCPU(addr, v)
	case addr < 0xa000:
		b.PPU.WriteVRAM(addr, v)
	case addr < 0xc000:
		b.Cart.WriteCPU(addr, v)
	case addr < 0xe000:
		b.WRAM.Write(uint32(addr-0xc000), v)
	case addr < 0xfe00:
		b.WRAM.Write(uint32(addr-0xe000), v)
	case addr < 0xfea0:
		b.PPU.WriteOAM(addr, v)
	case addr < 0xff00:
		// unusable region: ignored
	case addr == 0xff00:
		b.joypSelect = v & 0x30
	case addr == 0xff04:
		b.Timer.div = 0
		b.Timer.timaAcc = 0
	case addr == 0xff05:
		b.Timer.tima = v
	case addr == 0xff06:
		b.Timer.tma = v
	case addr == 0xff07:
		b.Timer.tac = v & 0x07
	case addr == 0xff0f:
		b.ifReg = v & 0x1f
	case addr >= 0xff10 && addr < 0xff40:
		b.audioRegs[addr-0xff10] = v
	case addr == 0xff46:
		b.dmaSourceHigh = v
		b.dmaIndex = 0
		b.PPU.StartOAMDMA()
	case addr >= 0xff40 && addr <= 0xff4b:
		b.PPU.WritePort(addr, v)
	case addr >= 0xff80 && addr < 0xffff:
		b.HRAM[addr-0xff80] = v
	case addr == 0xffff:
		b.ie = v & 0x1f
	}
	return nil
}

func (b *MainBus) Idle() {}

func (b *MainBus) PendingInterrupts() uint8 { return b.ifReg & b.ie }

func (b *MainBus) AcknowledgeInterrupt(bit uint8) { b.ifReg &^= bit }

// readJoypad composes $FF00's read value: the two CPU-written select
// bits plus the active-low state of whichever button group(s) they
// select, matching real hardware's wired-AND of both groups when both
// selects are asserted low simultaneously.
func (b *MainBus) readJoypad() uint8 {
	v := b.joypSelect | 0xc0 | 0x0f
	if b.joypSelect&0x10 == 0 {
		v &^= uint8(b.buttons) & 0x0f
	}
	if b.joypSelect&0x20 == 0 {
		v &^= (uint8(b.buttons) >> 4) & 0x0f
	}
	return v
}

// SetInputs latches the current button matrix, requesting IntJoypad on
// any newly pressed button that belongs to a currently selected group
// (the real joypad interrupt's wake-from-STOP trigger is a high-to-low
// edge on a selected line).
func (b *MainBus) SetInputs(buttons Buttons) {
	pressedNow := buttons &^ b.buttons
	if pressedNow != 0 {
		if b.joypSelect&0x10 == 0 && pressedNow&0x0f != 0 {
			b.ifReg |= lr35902.IntJoypad
		}
		if b.joypSelect&0x20 == 0 && pressedNow&0xf0 != 0 {
			b.ifReg |= lr35902.IntJoypad
		}
	}
	b.buttons = buttons
}

// refreshPPUInterrupts transfers the PPU's level-sensitive VBlank/STAT
// interrupt lines into IF as one-shot request bits, acknowledging the
// PPU side so a still-asserted condition doesn't keep re-requesting
// once software has cleared IF.
func (b *MainBus) refreshPPUInterrupts() {
	if b.PPU.VBlankInterruptPending() {
		b.ifReg |= lr35902.IntVBlank
		b.PPU.AcknowledgeVBlankInterrupt()
	}
	if b.PPU.STATInterruptPending() {
		b.ifReg |= lr35902.IntSTAT
		b.PPU.AcknowledgeSTATInterrupt()
	}
}

// tickOAMDMA copies one byte per call from the $FF46-latched source
// page into OAM while a transfer is active. Real hardware restricts
// the CPU to HRAM-only access during the transfer; this core does not
// enforce that restriction.
func (b *MainBus) tickOAMDMA() {
	if !b.PPU.OAMDMAActive() {
		return
	}
	src := uint16(b.dmaSourceHigh)<<8 | uint16(b.dmaIndex)
	v, _ := b.Read(src)
	b.PPU.WriteOAM(0xfe00+uint16(b.dmaIndex), v)
	b.dmaIndex++
	b.PPU.TickOAMDMA()
}
