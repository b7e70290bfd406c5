// Package sms assembles the Sega Master System / Game Gear Z80 primary
// CPU, the VDP, the cartridge mapper, and the two controller ports into
// one System shell, in the tick-one-instruction-at-a-time idiom the rest
// of this module's CPU cores use.
package sms

import (
	gencart "github.com/silicontrace/multicore/hardware/cartridge/sms"
	"github.com/silicontrace/multicore/hardware/memory/containers"
	"github.com/silicontrace/multicore/video/smsvdp"
)

const wramSize = 8 * 1024

// MainBus is the Z80's view of the Master System address space: the
// cartridge mapper's window at $0000-$BFFF, 8KB of work RAM mirrored
// across $C000-$FFFF (with $FFFC-$FFFF writes additionally forwarded to
// the mapper so a Sega-mapper cartridge can latch its paging
// registers), and the three I/O port regions Out/In decode by the same
// partial $C0-mask real hardware uses: $40-$7F (PSG write / V-H
// counter read), $80-$BF (VDP data/control), $C0-$FF (controller ports).
type MainBus struct {
	Mapper *gencart.Mapper
	VDP    *smsvdp.VDP
	WRAM   *containers.RAM

	pad1, pad2 uint8 // active-low snapshot; idle bit reads back 1

	nmi     bool // edge-latched: set by the Pause button's press edge
	intLine bool // level: VDP VBlank/line interrupt, gated by its own enables
}

func NewMainBus(mapper *gencart.Mapper, vdp *smsvdp.VDP) *MainBus {
	return &MainBus{
		Mapper: mapper,
		VDP:    vdp,
		WRAM:   containers.NewRAM(wramSize),
		pad1:   0xff,
		pad2:   0xff,
	}
}

func (b *MainBus) Read(addr uint16) (uint8, error) {
	if addr < 0xc000 {
		return b.Mapper.ReadCPU(addr), nil
	}
	return b.WRAM.Read(uint32(addr)), nil
}

func (b *MainBus) Write(addr uint16, v uint8) error {
	if addr < 0xc000 {
		b.Mapper.WriteCPU(addr, v)
		return nil
	}
	b.WRAM.Write(uint32(addr), v)
	if addr >= 0xfffc {
		b.Mapper.WriteCPU(addr, v)
	}
	return nil
}

func (b *MainBus) In(port uint8) (uint8, error) {
	switch {
	case port&0xc0 == 0x40:
		if port&1 == 0 {
			return vCounter(b.VDP.Scanline()), nil
		}
		return 0xff, nil // H counter: no mid-scanline dot position is tracked
	case port&0xc0 == 0x80:
		if port&1 == 0 {
			return b.VDP.ReadDataPort(), nil
		}
		return b.VDP.ReadControlPort(), nil
	case port&0xc0 == 0xc0:
		if port&1 == 0 {
			return b.pad1, nil
		}
		return b.pad2, nil
	default:
		return 0xff, nil
	}
}

func (b *MainBus) Out(port uint8, v uint8) error {
	switch {
	case port&0xc0 == 0x40:
		// PSG (SN76489) register write: no channel synthesis is
		// implemented, so the write is accepted and discarded.
	case port&0xc0 == 0x80:
		if port&1 == 0 {
			b.VDP.WriteDataPort(v)
		} else {
			b.VDP.WriteControlPort(v)
		}
	}
	return nil
}

// vCounter reproduces the NTSC VDP's V counter jump: scanlines 219-261
// read back as $D5-$FF instead of their raw line number, the documented
// quirk of cramming 262 lines into an 8-bit counter that games polling
// $7E rely on.
func vCounter(scanline uint16) uint8 {
	if scanline < 219 {
		return uint8(scanline)
	}
	return uint8(scanline - 6)
}

func (b *MainBus) Idle() {}

func (b *MainBus) NMI() bool            { return b.nmi }
func (b *MainBus) INT() bool            { return b.intLine }
func (b *MainBus) AcknowledgeNMI()      { b.nmi = false }
func (b *MainBus) InterruptData() uint8 { return 0xff } // IM1 ignores this

// refreshIntLine resolves the VDP's level-sensitive VBlank/line
// interrupt condition onto the Z80's INT line; called every cycle since
// either can assert mid-frame.
func (b *MainBus) refreshIntLine() {
	b.intLine = b.VDP.VInterruptPending() || b.VDP.LineInterruptPending()
}

// latchPauseNMI edge-latches a Pause button press into the Z80's NMI
// line: the console's Pause button is wired directly to NMI rather than
// to either controller port, so it only needs a press edge, not a
// per-cycle level.
func (b *MainBus) latchPauseNMI(pressed, prevPressed bool) {
	if pressed && !prevPressed {
		b.nmi = true
	}
}

// SetInputs latches the current button state into both controller
// ports' active-low data registers, in the real SMS wiring: port $DC
// carries pad1's Up/Down/Left/Right/Button1/Button2 plus pad2's
// Up/Down, and port $DD carries pad2's Left/Right/Button1/Button2 in
// its low nibble (its top bits are reset/region lines this core doesn't
// model and leaves high).
func (b *MainBus) SetInputs(pad1, pad2 Buttons) {
	dc := (uint8(pad1) & 0x3f) | ((uint8(pad2) & 0x03) << 6)
	dd := (uint8(pad2) >> 2) & 0x0f
	b.pad1 = ^dc
	b.pad2 = ^dd | 0xf0
}

// Buttons is the bitmask layout SetInputs uses for one controller: Up,
// Down, Left, Right, Button1 (TL), Button2 (TR).
type Buttons uint8

const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonButton1
	ButtonButton2
)
