// Package genesis assembles the Genesis/Mega Drive primary-CPU bus, sound
// co-processor bus, VDP, and optional Sega CD expansion into one System
// shell, in the tick-one-instruction-at-a-time idiom the rest of this
// module's CPU cores use.
package genesis

import (
	gencart "github.com/silicontrace/multicore/hardware/cartridge/genesis"
	"github.com/silicontrace/multicore/hardware/cartridge/segacd"
	"github.com/silicontrace/multicore/hardware/memory/containers"
	"github.com/silicontrace/multicore/video/genesisvdp"
)

const (
	wramSize = 64 * 1024
	zramSize = 8 * 1024
)

// MainBus is the 68000's view of the Genesis/Mega Drive address space:
// cartridge ROM/SRAM, 64KB work RAM, the Z80 sound area, I/O/expansion
// registers, the VDP port window, and (when a disc is attached) the Sega
// CD's $A12000 main-CPU register window.
type MainBus struct {
	Cart *gencart.Cartridge
	VDP  *genesisvdp.VDP
	SCD  *segacd.SegaCd // nil unless a Sega CD disc is attached

	WRAM *containers.RAM

	sound  *soundBus
	ioPort ioRegisters
}

// NewMainBus wires cart, vdp, the Z80 sound bus, and an optional Sega CD
// unit into one bus.
func NewMainBus(cart *gencart.Cartridge, vdp *genesisvdp.VDP, scd *segacd.SegaCd, sound *soundBus) *MainBus {
	return &MainBus{
		Cart:  cart,
		VDP:   vdp,
		SCD:   scd,
		WRAM:  containers.NewRAM(wramSize),
		sound: sound,
	}
}

// vdpDMAAdapter lets MainBus serve as the genesisvdp.MainBus DMA source
// without colliding its single-error-return ReadByte with the m68000.Bus
// two-return ReadByte on the same method name.
type vdpDMAAdapter struct{ b *MainBus }

func (a vdpDMAAdapter) ReadByte(addr uint32) uint8 {
	v, _ := a.b.ReadByte(addr)
	return v
}

func (b *MainBus) ReadByte(addr uint32) (uint8, error) {
	addr &= 0xffffff
	switch {
	case addr < 0x400000:
		if b.Cart.SRAMPresent && gencart.InSRAMWindow(addr) {
			return b.Cart.ReadSRAM(addr), nil
		}
		return b.Cart.ReadROM(addr), nil

	case addr >= 0xa00000 && addr < 0xa10000:
		return b.sound.mainRead(addr - 0xa00000), nil

	case addr >= 0xa10000 && addr < 0xa10020:
		return b.ioPort.read(addr), nil

	case addr == 0xa11100:
		return boolByte(!b.sound.busReqAsserted()), nil
	case addr == 0xa11200:
		return 0, nil

	case b.SCD != nil && addr >= 0xa12000 && addr < 0xa12030:
		return b.SCD.ReadMainRegisterByte(addr), nil

	case addr >= 0xc00000 && addr < 0xc00020:
		return b.readVDPByte(addr), nil

	case addr >= 0xe00000:
		return b.WRAM.Read(addr), nil
	}

	return 0xff, nil
}

func (b *MainBus) ReadWord(addr uint32) (uint16, error) {
	addr &= 0xfffffe
	switch {
	case addr >= 0xc00000 && addr < 0xc00020:
		return b.readVDPWord(addr), nil
	case b.SCD != nil && addr >= 0xa12000 && addr < 0xa12030:
		return b.SCD.ReadMainRegisterWord(addr), nil
	}

	hi, err := b.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (b *MainBus) WriteByte(addr uint32, v uint8) error {
	addr &= 0xffffff
	switch {
	case addr < 0x400000:
		if b.Cart.SRAMPresent && gencart.InSRAMWindow(addr) {
			b.Cart.WriteSRAM(addr, v)
		}
		return nil

	case addr >= 0xa00000 && addr < 0xa10000:
		b.sound.mainWrite(addr-0xa00000, v)
		return nil

	case addr >= 0xa10000 && addr < 0xa10020:
		b.ioPort.write(addr, v)
		return nil

	case addr == 0xa11100:
		b.sound.setBusReq(v&1 != 0)
		return nil
	case addr == 0xa11200:
		b.sound.setReset(v&1 == 0)
		return nil

	case b.SCD != nil && addr >= 0xa12000 && addr < 0xa12030:
		b.SCD.WriteMainRegisterByte(addr, v)
		return nil

	case addr >= 0xc00000 && addr < 0xc00020:
		b.writeVDPByte(addr, v)
		return nil

	case addr >= 0xe00000:
		b.WRAM.Write(addr, v)
		return nil
	}
	return nil
}

func (b *MainBus) WriteWord(addr uint32, v uint16) error {
	addr &= 0xfffffe
	switch {
	case addr >= 0xc00000 && addr < 0xc00020:
		b.writeVDPWord(addr, v)
		return nil
	case b.SCD != nil && addr >= 0xa12000 && addr < 0xa12030:
		b.SCD.WriteMainRegisterWord(addr, v)
		return nil
	}

	if err := b.WriteByte(addr, uint8(v>>8)); err != nil {
		return err
	}
	return b.WriteByte(addr+1, uint8(v))
}

// readVDPByte/readVDPWord/writeVDPByte/writeVDPWord implement the VDP's
// $C00000 (data), $C00004 (control/status), $C00008 (HV counter) port
// triple, each mirrored across its four-byte slot.
func (b *MainBus) readVDPWord(addr uint32) uint16 {
	switch addr & 0x1c {
	case 0x00:
		return b.VDP.ReadDataPort()
	case 0x04:
		return b.VDP.ReadStatusPort()
	case 0x08:
		return b.VDP.HVCounter()
	}
	return 0xffff
}

func (b *MainBus) readVDPByte(addr uint32) uint8 {
	w := b.readVDPWord(addr &^ 1)
	if addr&1 == 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

func (b *MainBus) writeVDPWord(addr uint32, v uint16) {
	switch addr & 0x1c {
	case 0x00:
		b.VDP.WriteDataPort(v)
	case 0x04:
		b.VDP.WriteControlPort(v)
	}
}

func (b *MainBus) writeVDPByte(addr uint32, v uint8) {
	// byte-wide control/data port writes duplicate the byte into both
	// halves of the word, matching documented Genesis VDP behavior.
	b.writeVDPWord(addr&^1, uint16(v)<<8|uint16(v))
}

func (b *MainBus) Idle() {}

func (b *MainBus) InterruptLevel() uint8 {
	switch {
	case b.VDP.VInterruptPending():
		return 6
	case b.VDP.HInterruptPending():
		return 4
	default:
		return 0
	}
}

// AcknowledgeInterrupt implements the fixed autovector scheme the Genesis
// 68000 uses for its two VDP-sourced interrupt levels: level 6 is VINT,
// level 4 is HINT, both autovectored ($78/$70) rather than supplying a
// vector byte over the bus.
func (b *MainBus) AcknowledgeInterrupt(level uint8) (uint8, bool) {
	switch level {
	case 6:
		b.VDP.AcknowledgeVInterrupt()
		return 0x1e, true // autovector 6
	case 4:
		b.VDP.AcknowledgeHInterrupt()
		return 0x1c, true // autovector 4
	}
	return 0, false
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// ioRegisters is a minimal stand-in for the $A10000-$A1001F controller
// data/control/serial registers: reads return whatever was last latched
// by SetInputs, ignoring the control-register direction bits most games
// never reprogram away from the default all-input setting.
type ioRegisters struct {
	version    uint8
	controller [3]uint8 // port1, port2, ext
}

func (io *ioRegisters) read(addr uint32) uint8 {
	switch addr {
	case 0xa10000:
		return io.version
	case 0xa10002:
		return io.controller[0]
	case 0xa10004:
		return io.controller[1]
	case 0xa10006:
		return io.controller[2]
	default:
		return 0xff
	}
}

func (io *ioRegisters) write(addr uint32, v uint8) {
	// control/serial registers are accepted and discarded; no game-facing
	// behavior in this emulator depends on their readback value.
}
