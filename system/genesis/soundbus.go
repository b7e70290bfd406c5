package genesis

import "github.com/silicontrace/multicore/hardware/memory/containers"

// soundBus is the Z80 sound co-processor's view of its own address space
// (8KB sound RAM mirrored through $3FFF, the YM2612 register pair at
// $4000-$4003, the bank register at $6000, and the PSG at $7F11), plus
// the handful of registers the main 68000 bus pokes at from its side
// ($A00000-$A0FFFF RAM window, $A11100 busreq, $A11200 reset).
//
// The YM2612/PSG are register-addressable stand-ins only: writes latch
// and are readable back where real hardware allows it, but no audio
// synthesis is driven from here, consistent with this emulator's scope
// (sample generation, not cycle-exact synthesis).
type soundBus struct {
	ram *containers.RAM

	ym2612Addr [2]uint8
	ym2612Data [2]uint8
	psgLatch   uint8

	bank      uint32 // 68000-space window selected by successive $6000 writes
	bankShift uint8

	busReq bool
	reset  bool

	main *MainBus
}

func newSoundBus(main *MainBus) *soundBus {
	return &soundBus{ram: containers.NewRAM(zramSize), main: main}
}

func (s *soundBus) busReqAsserted() bool { return s.busReq }

func (s *soundBus) setBusReq(v bool) { s.busReq = v }

func (s *soundBus) setReset(v bool) { s.reset = v }

// Halted reports whether the Z80 core must not be stepped this tick:
// either the 68000 holds it in reset, or has asserted bus request to use
// its RAM/ports directly.
func (s *soundBus) Halted() bool { return s.reset || s.busReq }

// mainRead/mainWrite service the 68000's $A00000-$A0FFFF window into the
// Z80's own address space, used while the Z80 is halted for busreq.
func (s *soundBus) mainRead(offset uint32) uint8 {
	return s.Read16(uint16(offset & 0x3fff))
}

func (s *soundBus) mainWrite(offset uint32, v uint8) {
	s.Write16(uint16(offset&0x3fff), v)
}

// Read16/Write16 implement the Z80's own 16-bit address space, factored
// out of Read/Write so the 68000-side window (which addresses the same
// space through a 24-bit offset) can share the decode.
func (s *soundBus) Read16(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return s.ram.Read(uint32(addr))
	case addr < 0x4000:
		return s.ram.Read(uint32(addr) & 0x1fff)
	case addr < 0x4004:
		return s.ym2612Data[addr&1]
	case addr >= 0x8000:
		return s.main.bankedReadByte(s.bank + uint32(addr-0x8000))
	default:
		return 0xff
	}
}

func (s *soundBus) Write16(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		s.ram.Write(uint32(addr), v)
	case addr < 0x4000:
		s.ram.Write(uint32(addr)&0x1fff, v)
	case addr < 0x4004:
		if addr&2 == 0 {
			s.ym2612Addr[addr&1] = v
		} else {
			s.ym2612Data[addr&1] = v
		}
	case addr == 0x6000:
		// each write shifts in one bit of the 68000-space window address,
		// from bit 15 down to bit 23, matching documented hardware.
		bit := uint32(v&1) << (15 + s.bankShift)
		s.bank = (s.bank &^ (1 << (15 + s.bankShift))) | bit
		s.bankShift = (s.bankShift + 1) % 9
	case addr == 0x7f11:
		s.psgLatch = v
	}
}

func (b *MainBus) bankedReadByte(addr uint32) uint8 {
	v, _ := b.ReadByte(addr)
	return v
}

// z80BusAdapter satisfies hardware/cpu/z80.Bus; the Z80 has no I/O-port
// peripherals wired into this emulator (the PSG/YM2612 are memory-mapped
// here rather than port-mapped), so In/Out are no-ops.
type z80BusAdapter struct{ s *soundBus }

func (a z80BusAdapter) Read(addr uint16) (uint8, error)  { return a.s.Read16(addr), nil }
func (a z80BusAdapter) Write(addr uint16, v uint8) error { a.s.Write16(addr, v); return nil }
func (a z80BusAdapter) In(port uint8) (uint8, error)     { return 0xff, nil }
func (a z80BusAdapter) Out(port uint8, v uint8) error    { return nil }
func (a z80BusAdapter) Idle()                            {}
func (a z80BusAdapter) NMI() bool                        { return false }
func (a z80BusAdapter) INT() bool                        { return false }
func (a z80BusAdapter) AcknowledgeNMI()                  {}
func (a z80BusAdapter) InterruptData() uint8             { return 0xff }
