package mos6502

import (
	"github.com/silicontrace/multicore/random"
)

// micro-operations are the scheduled steps of the instruction currently in
// flight. This queue is the Go-idiomatic realisation of a small bank of
// per-instruction scratch bytes (t0..t6): rather than hand-unroll
// 256 opcode-specific state machines (one teacher convention did this; see
// DESIGN.md), each addressing mode builds a short queue of closures over
// the CPU's scratch fields, and Step pops and runs exactly one per call.
// The scratch fields below are valid only while a queue is in flight.
type microop func(c *CPU, bus Bus) error

// CPU implements the NES 6502 variant as a micro-cycle state machine.
type CPU struct {
	PC uint16
	A, X, Y, SP uint8
	P Flags

	rnd *random.Random

	queue []microop
	qpos  int

	// per-instruction scratch, valid only mid-instruction
	opcode             uint8
	operandLo, operandHi uint8
	addr               uint16
	fetched            uint8
	pageCrossed        bool
	branchTaken        bool

	// Killed is set by a KIL/JAM opcode; only Reset() clears it.
	Killed bool

	// Interrupted is true immediately after Reset, mirroring the
	// teacher's CPU.Interrupted convention of signalling "don't treat
	// this as a normal mid-instruction state".
	Interrupted bool

	pendingNMI bool
	inNMI      bool
	servicingInterrupt bool
}

// NewCPU creates a CPU. If rnd is non-nil, Reset draws power-on register
// values from it instead of zeroing them, matching registers resetting to
// indeterminate values on console reset.
func NewCPU(rnd *random.Random) *CPU {
	c := &CPU{rnd: rnd}
	c.Reset()
	return c
}

// Reset reinitialises registers and micro-state. It does not load PC from
// the reset vector; callers do that with LoadResetVector once the bus is
// ready (mirrors the teacher's LoadPCIndirect convention).
func (c *CPU) Reset() {
	c.queue = nil
	c.qpos = 0
	c.Killed = false
	c.Interrupted = true
	c.pendingNMI = false
	c.inNMI = false
	c.servicingInterrupt = false

	if c.rnd != nil {
		c.A = uint8(c.rnd.NoRewind(256))
		c.X = uint8(c.rnd.NoRewind(256))
		c.Y = uint8(c.rnd.NoRewind(256))
		c.SP = uint8(c.rnd.NoRewind(256))
	} else {
		c.A, c.X, c.Y = 0, 0, 0
		c.SP = 0xfd
	}
	c.P = Flags{Interrupt: true}
}

// LoadResetVector loads PC from the CPU's reset vector ($FFFC/$FFFD).
func (c *CPU) LoadResetVector(bus Bus) error {
	lo, err := bus.Read(0xfffc)
	if err != nil {
		return err
	}
	hi, err := bus.Read(0xfffd)
	if err != nil {
		return err
	}
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.Interrupted = false
	return nil
}

// CycleCounter reports the 0-based position within the in-flight
// instruction (0 meaning "about to fetch a new opcode").
func (c *CPU) CycleCounter() int {
	return c.qpos
}

// MidInstruction reports whether Step is partway through decoding or
// executing an instruction.
func (c *CPU) MidInstruction() bool {
	return len(c.queue) > 0 && c.qpos < len(c.queue)
}

// Step advances the CPU by exactly one master-clock unit: one more
// micro-cycle of an in-flight instruction, or the start of a new
// instruction (including interrupt service) if none is in flight.
func (c *CPU) Step(bus Bus) error {
	if c.Killed {
		bus.Idle()
		return nil
	}

	if !c.MidInstruction() {
		c.Interrupted = false

		// Interrupts are polled on the boundary between instructions;
		// NMI takes priority over IRQ.
		if bus.NMI() {
			c.pendingNMI = true
			bus.AcknowledgeNMI()
		}

		switch {
		case c.pendingNMI:
			c.pendingNMI = false
			c.queue = c.interruptSequence(0xfffa, false)
		case bus.IRQ() && !c.P.Interrupt:
			c.queue = c.interruptSequence(0xfffe, false)
		default:
			c.queue = c.decode(bus)
		}
		c.qpos = 0
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

// decode fetches the opcode byte and builds the micro-op queue for the
// addressing mode + operation it names. The fetch itself consumes the
// first micro-op slot's cycle.
func (c *CPU) decode(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := bus.Read(c.PC)
			if err != nil {
				return err
			}
			c.opcode = v
			c.PC++

			def := opcodeTable[c.opcode]
			ops := addressingMicroops(def.mode, def.rw, def.exec)
			// splice: the fetch already consumed a cycle; everything
			// after runs on subsequent Step calls.
			c.queue = append([]microop{nopMicroop}, ops...)
			c.qpos = 1
			return nil
		},
	}
}

func nopMicroop(c *CPU, bus Bus) error { return nil }

// interruptSequence builds the seven-cycle interrupt service microop queue
// (push PCH, PCL, P, then load vector), shared by NMI/IRQ/BRK.
func (c *CPU) interruptSequence(vector uint16, brk bool) []microop {
	return []microop{
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		func(c *CPU, bus Bus) error {
			return c.push(bus, uint8(c.PC>>8))
		},
		func(c *CPU, bus Bus) error {
			return c.push(bus, uint8(c.PC))
		},
		func(c *CPU, bus Bus) error {
			return c.push(bus, c.P.ToByte(brk))
		},
		func(c *CPU, bus Bus) error {
			c.P.Interrupt = true
			lo, err := bus.Read(vector)
			c.operandLo = lo
			return err
		},
		func(c *CPU, bus Bus) error {
			hi, err := bus.Read(vector + 1)
			if err != nil {
				return err
			}
			c.PC = uint16(hi)<<8 | uint16(c.operandLo)
			return nil
		},
	}
}

func (c *CPU) push(bus Bus, v uint8) error {
	err := bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
	return err
}

func (c *CPU) pop(bus Bus) (uint8, error) {
	c.SP++
	return bus.Read(0x0100 | uint16(c.SP))
}
