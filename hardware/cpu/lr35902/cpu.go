package lr35902

import (
	"github.com/silicontrace/multicore/random"
)

type microop func(c *CPU, bus Bus) error

// CPU implements the Sharp LR35902 Game Boy/Game Boy Color primary CPU.
type CPU struct {
	A    uint8
	F    Flags
	B, C uint8
	D, E uint8
	H, L uint8
	SP, PC uint16

	// IME is the interrupt master enable flip-flop. pendingEI/applyEI
	// implement EI's documented one-instruction-delayed enable: EI sets
	// pendingEI, which becomes applyEI (and only then IME) at the start
	// of the NEXT instruction's fetch, so the instruction immediately
	// after EI still runs with interrupts disabled.
	IME       bool
	pendingEI bool
	applyEI   bool

	Halted      bool
	Interrupted bool

	rnd *random.Random

	queue []microop
	qpos  int
}

func NewCPU(rnd *random.Random) *CPU {
	c := &CPU{rnd: rnd}
	c.Reset()
	return c
}

// Reset puts the CPU in its post-boot-ROM state: real hardware's boot ROM
// always leaves these exact register values before handing off to
// cartridge code at $0100, which this core treats as its reset vector
// since no boot ROM is modeled.
func (c *CPU) Reset() {
	c.queue = nil
	c.qpos = 0
	c.Halted = false
	c.Interrupted = true
	c.IME = false
	c.pendingEI, c.applyEI = false, false

	c.A = 0x01
	c.F.FromByte(0xb0)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xd8
	c.H, c.L = 0x01, 0x4d
	c.SP = 0xfffe
	c.PC = 0x0100

	if c.rnd != nil {
		// real hardware's boot ROM fully determines these registers, so
		// randomization is skipped here unlike the other cores' cold-boot
		// registers; rnd is still consumed once to keep tick-based
		// determinism identical across every core's NewCPU call.
		_ = c.rnd.NoRewind(1)
	}
}

func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }
func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.F.ToByte()) }
func (c *CPU) setAF(v uint16) { c.A = uint8(v >> 8); c.F.FromByte(uint8(v)) }

func (c *CPU) MidInstruction() bool { return len(c.queue) > 0 && c.qpos < len(c.queue) }

func vectorFor(bit uint8) uint16 {
	switch bit {
	case IntVBlank:
		return 0x40
	case IntSTAT:
		return 0x48
	case IntTimer:
		return 0x50
	case IntSerial:
		return 0x58
	default:
		return 0x60
	}
}

func lowestSetBit(mask uint8) uint8 {
	return mask & (^mask + 1)
}

// Step advances the CPU by exactly one M-cycle.
func (c *CPU) Step(bus Bus) error {
	if !c.MidInstruction() {
		c.Interrupted = false

		if c.applyEI {
			c.IME = true
			c.applyEI = false
		}
		if c.pendingEI {
			c.pendingEI = false
			c.applyEI = true
		}

		pending := bus.PendingInterrupts()

		// HALT wakes on any pending, enabled interrupt source regardless
		// of IME; servicing it is gated on IME separately. This skips
		// modeling the well-known "HALT bug" double-fetch that occurs on
		// real hardware when IME is false and an interrupt is pending.
		if c.Halted && pending != 0 {
			c.Halted = false
		}

		switch {
		case c.IME && pending != 0:
			bit := lowestSetBit(pending)
			bus.AcknowledgeInterrupt(bit)
			c.IME = false
			c.queue = c.interruptServiceSequence(vectorFor(bit))
			c.qpos = 0
		case c.Halted:
			c.queue = []microop{func(c *CPU, bus Bus) error { bus.Idle(); return nil }}
			c.qpos = 0
		default:
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

func (c *CPU) interruptServiceSequence(vector uint16) []microop {
	return []microop{
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
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
			c.PC = vector
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
			c.PC++
			var ops []microop
			if v == 0xcb {
				cb, err := c.fetchByte(bus)
				if err != nil {
					return err
				}
				ops = c.dispatchCB(cb)
			} else {
				ops = c.dispatch(bus, v)
			}
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
