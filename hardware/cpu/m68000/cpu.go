package m68000

import (
	"github.com/silicontrace/multicore/random"
)

type microop func(c *CPU, bus Bus) error

// CPU implements the Genesis/Sega CD 68000 as a micro-cycle state machine,
// generalising the mos6502/w65c816 queue-of-closures idiom to a 16-bit
// data / 24-bit address architecture.
type CPU struct {
	D [8]uint32
	A [8]uint32
	PC uint32
	Status SR

	rnd *random.Random

	queue []microop
	qpos  int

	// per-instruction scratch, valid only mid-instruction
	opcode     uint16
	ea         uint32
	eaReg      int
	eaMode     int
	size       Size
	srcVal     uint32
	writeback  func(c *CPU, bus Bus, v uint32) error

	Halted      bool
	Interrupted bool
	stoppedUntilInterrupt bool
}

// NewCPU creates a CPU. If rnd is non-nil, Reset draws power-on register
// values from it rather than zeroing them (mirrors the 6502/816 cores).
func NewCPU(rnd *random.Random) *CPU {
	c := &CPU{rnd: rnd}
	c.Reset()
	return c
}

func (c *CPU) Reset() {
	c.queue = nil
	c.qpos = 0
	c.Halted = false
	c.stoppedUntilInterrupt = false
	c.Interrupted = true

	if c.rnd != nil {
		for i := range c.D {
			c.D[i] = uint32(c.rnd.NoRewind(1 << 32))
		}
		for i := range c.A {
			c.A[i] = uint32(c.rnd.NoRewind(1 << 32))
		}
	} else {
		c.D = [8]uint32{}
		c.A = [8]uint32{}
	}
	c.Status = SR{Supervisor: true, IntMask: 7}
}

// LoadResetVector loads the initial SSP (A7) and PC from the reset vector
// at addresses $0/$4, as real 68000 hardware does on RESET.
func (c *CPU) LoadResetVector(bus Bus) error {
	sp, err := c.readLong(bus, 0)
	if err != nil {
		return err
	}
	pc, err := c.readLong(bus, 4)
	if err != nil {
		return err
	}
	c.A[7] = sp
	c.PC = maskAddr(pc)
	c.Interrupted = false
	return nil
}

func (c *CPU) readLong(bus Bus, addr uint32) (uint32, error) {
	hi, err := bus.ReadWord(maskAddr(addr))
	if err != nil {
		return 0, err
	}
	lo, err := bus.ReadWord(maskAddr(addr + 2))
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

func (c *CPU) MidInstruction() bool { return len(c.queue) > 0 && c.qpos < len(c.queue) }

// Step advances the CPU by one master-clock unit. Each call
// pops and runs the next queued microop; when the queue drains, the next
// call polls the interrupt lines and decodes a new instruction.
func (c *CPU) Step(bus Bus) error {
	if c.Halted {
		bus.Idle()
		return nil
	}

	if !c.MidInstruction() {
		c.Interrupted = false

		level := bus.InterruptLevel()
		if level > c.Status.IntMask || level == 7 {
			if vector, ok := bus.AcknowledgeInterrupt(level); ok {
				c.queue = c.exceptionSequence(uint32(vector))
				c.qpos = 0
				c.stoppedUntilInterrupt = false
			}
		}

		if c.stoppedUntilInterrupt {
			bus.Idle()
			return nil
		}

		if !c.MidInstruction() {
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

func (c *CPU) decode(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := bus.ReadWord(c.PC)
			if err != nil {
				return err
			}
			c.opcode = v
			c.PC += 2
			ops := c.dispatch(bus)
			c.queue = append([]microop{nopMicroop}, ops...)
			c.qpos = 1
			return nil
		},
	}
}

func nopMicroop(c *CPU, bus Bus) error { return nil }

// exceptionSequence pushes PC and SR onto the supervisor stack, enters
// supervisor mode, and loads PC from the given vector number's table
// entry (vector N lives at address N*4), matching the shared shape of
// RESET/interrupt/TRAP handling on real hardware.
func (c *CPU) exceptionSequence(vector uint32) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			bus.Idle()
			c.Status.Supervisor = true
			c.Status.Trace = false
			return nil
		},
		func(c *CPU, bus Bus) error {
			c.A[7] -= 2
			return bus.WriteWord(maskAddr(c.A[7]), uint16(c.PC))
		},
		func(c *CPU, bus Bus) error {
			c.A[7] -= 2
			return bus.WriteWord(maskAddr(c.A[7]), uint16(c.PC>>16))
		},
		func(c *CPU, bus Bus) error {
			c.A[7] -= 2
			return bus.WriteWord(maskAddr(c.A[7]), c.Status.ToWord())
		},
		func(c *CPU, bus Bus) error {
			pc, err := c.readLong(bus, vector*4)
			if err != nil {
				return err
			}
			c.PC = maskAddr(pc)
			return nil
		},
	}
}
