package z80

import (
	"github.com/silicontrace/multicore/random"
)

type microop func(c *CPU, bus Bus) error

// CPU implements a Z80 core. A single type serves both the SMS/Game Gear
// primary CPU and the Genesis sound co-processor instance; the two differ
// only in the bus they're wired to and the interrupt mode they're put
// into at reset (both use IM1 in practice, so no special-casing is
// needed here).
type CPU struct {
	A          uint8
	B, C, D, E uint8
	H, L       uint8
	Aalt, Falt uint8
	Balt, Calt, Dalt, Ealt uint8
	Halt, Lalt uint8
	IX, IY     uint16
	SP, PC     uint16
	I, R       uint8
	IFF1, IFF2 bool
	IM         uint8

	flags Flags

	rnd *random.Random

	queue []microop
	qpos  int

	opcode  uint8
	Halted  bool
	Interrupted bool
}

func NewCPU(rnd *random.Random) *CPU {
	c := &CPU{rnd: rnd}
	c.Reset()
	return c
}

func (c *CPU) Reset() {
	c.queue = nil
	c.qpos = 0
	c.Halted = false
	c.Interrupted = true
	c.IFF1, c.IFF2 = false, false
	c.IM = 1
	c.I, c.R = 0, 0
	c.PC = 0
	c.SP = 0xffff

	if c.rnd != nil {
		c.A = uint8(c.rnd.NoRewind(256))
		c.B = uint8(c.rnd.NoRewind(256))
		c.C = uint8(c.rnd.NoRewind(256))
		c.D = uint8(c.rnd.NoRewind(256))
		c.E = uint8(c.rnd.NoRewind(256))
		c.Halt = uint8(c.rnd.NoRewind(256))
		c.Lalt = uint8(c.rnd.NoRewind(256))
	}
	c.flags = Flags{}
}

func (c *CPU) getHL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }
func (c *CPU) getBC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) getDE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) getAF() uint16 { return uint16(c.A)<<8 | uint16(c.flags.ToByte()) }
func (c *CPU) setAF(v uint16) { c.A = uint8(v >> 8); c.flags.FromByte(uint8(v)) }

// Flags returns the condition-flag register. Exported so a save-state
// that needs the primary CPU's full register file (unlike the unexported
// flags field gob would otherwise silently drop) can capture it as a
// plain byte.
func (c *CPU) Flags() uint8 { return c.flags.ToByte() }

// SetFlags restores a condition-flag byte produced by Flags.
func (c *CPU) SetFlags(v uint8) { c.flags.FromByte(v) }

func (c *CPU) MidInstruction() bool { return len(c.queue) > 0 && c.qpos < len(c.queue) }

// Step advances the CPU by exactly one master-clock unit.
func (c *CPU) Step(bus Bus) error {
	if !c.MidInstruction() {
		c.Interrupted = false
		c.R = (c.R & 0x80) | ((c.R + 1) & 0x7f)

		if bus.NMI() {
			bus.AcknowledgeNMI()
			c.Halted = false
			c.IFF2 = c.IFF1
			c.IFF1 = false
			c.queue = c.callSequence(0x0066)
			c.qpos = 0
		} else if c.IFF1 && bus.INT() {
			c.Halted = false
			c.IFF1, c.IFF2 = false, false
			c.queue = c.interruptAcceptSequence(bus)
			c.qpos = 0
		} else if c.Halted {
			c.queue = []microop{func(c *CPU, bus Bus) error { bus.Idle(); return nil }}
			c.qpos = 0
		} else {
			c.queue = c.decode(bus)
			c.qpos = 0
		}
	}

	op := c.queue[c.qpos]
	c.qpos++
	if err := op(c, bus); err != nil {
		return err
	}
	if c.qpos >= len(c.queue) {
		c.queue = nil
		c.qpos = 0
	}
	return nil
}

func (c *CPU) interruptAcceptSequence(bus Bus) []microop {
	switch c.IM {
	case 0, 1:
		return c.callSequence(0x0038)
	default:
		vec := uint16(c.I)<<8 | uint16(bus.InterruptData())
		return []microop{
			func(c *CPU, bus Bus) error {
				c.SP--
				return bus.Write(c.SP, uint8(c.PC>>8))
			},
			func(c *CPU, bus Bus) error {
				c.SP--
				return bus.Write(c.SP, uint8(c.PC))
			},
			func(c *CPU, bus Bus) error {
				lo, err := bus.Read(vec)
				if err != nil {
					return err
				}
				hi, err := bus.Read(vec + 1)
				if err != nil {
					return err
				}
				c.PC = uint16(hi)<<8 | uint16(lo)
				return nil
			},
		}
	}
}

func (c *CPU) callSequence(target uint16) []microop {
	return []microop{
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		func(c *CPU, bus Bus) error {
			c.SP--
			return bus.Write(c.SP, uint8(c.PC>>8))
		},
		func(c *CPU, bus Bus) error {
			c.SP--
			if err := bus.Write(c.SP, uint8(c.PC)); err != nil {
				return err
			}
			c.PC = target
			return nil
		},
	}
}

func (c *CPU) decode(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := bus.Read(c.PC)
			if err != nil {
				return err
			}
			c.opcode = v
			c.PC++
			ops := c.dispatch(bus)
			c.queue = append([]microop{nopMicroop}, ops...)
			c.qpos = 1
			return nil
		},
	}
}

func nopMicroop(c *CPU, bus Bus) error { return nil }

func (c *CPU) fetchByte(bus Bus) (uint8, error) {
	v, err := bus.Read(c.PC)
	c.PC++
	return v, err
}

func (c *CPU) fetchWord(bus Bus) (uint16, error) {
	lo, err := c.fetchByte(bus)
	if err != nil {
		return 0, err
	}
	hi, err := c.fetchByte(bus)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
