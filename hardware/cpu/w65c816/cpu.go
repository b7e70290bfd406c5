package w65c816

import "github.com/silicontrace/multicore/random"

// microop mirrors mos6502's convention: each closure is exactly one bus
// cycle, and addressing-mode sequences fuse the opcode's own operation onto
// the cycle that last touches the bus rather than spending an extra Step on
// it (see DESIGN.md).
type microop func(c *CPU, bus Bus) error

// CPU implements the 65C816. A, X, Y are kept as full 16-bit values at all
// times; the M/X status flags determine whether the upper byte is treated
// as live data or ignored/cleared on load, matching real hardware's
// register-file behaviour.
type CPU struct {
	PC       uint16
	A, X, Y  uint16
	S        uint16
	D        uint16 // direct page register
	DBR, PBR uint8  // data bank, program bank
	P        Flags
	Emulation bool

	rnd *random.Random

	queue []microop
	qpos  int

	opcode               uint8
	operandLo, operandHi uint8
	addr                 uint32
	fetched              uint16
	directPageWrapExtra  bool

	Killed      bool
	Interrupted bool

	pendingNMI         bool
	servicingInterrupt bool
}

func NewCPU(rnd *random.Random) *CPU {
	c := &CPU{rnd: rnd}
	c.Reset()
	return c
}

// Reset puts the CPU into 6502-compatible emulation mode, as real 65C816
// hardware does on reset.
func (c *CPU) Reset() {
	c.queue = nil
	c.qpos = 0
	c.Killed = false
	c.Interrupted = true
	c.pendingNMI = false
	c.servicingInterrupt = false

	c.Emulation = true
	c.D = 0
	c.DBR = 0
	c.PBR = 0
	c.P = Flags{IRQDisable: true, MemWidth8: true, IndexWidth8: true}

	if c.rnd != nil {
		c.A = uint16(c.rnd.NoRewind(65536))
		c.X = uint16(c.rnd.NoRewind(256))
		c.Y = uint16(c.rnd.NoRewind(256))
	} else {
		c.A, c.X, c.Y = 0, 0, 0
	}
	c.S = 0x01fd
}

func (c *CPU) LoadResetVector(bus Bus) error {
	lo, err := bus.Read(bankAddr(0, 0xfffc))
	if err != nil {
		return err
	}
	hi, err := bus.Read(bankAddr(0, 0xfffd))
	if err != nil {
		return err
	}
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.Interrupted = false
	return nil
}

func (c *CPU) CycleCounter() int { return c.qpos }

func (c *CPU) MidInstruction() bool {
	return len(c.queue) > 0 && c.qpos < len(c.queue)
}

// vectorFor returns the native-mode vector address for a given emulation
// one, since NMI/IRQ/BRK/COP each have distinct native and emulation
// vectors on the 65C816.
func (c *CPU) vectorFor(nativeVec, emuVec uint16) uint16 {
	if c.Emulation {
		return emuVec
	}
	return nativeVec
}

func (c *CPU) Step(bus Bus) error {
	if c.Killed {
		bus.Idle()
		return nil
	}

	if !c.MidInstruction() {
		c.Interrupted = false

		if bus.NMI() {
			c.pendingNMI = true
			bus.AcknowledgeNMI()
		}

		switch {
		case c.pendingNMI:
			c.pendingNMI = false
			c.queue = c.interruptSequence(c.vectorFor(0xffea, 0xfffa), false)
		case bus.IRQ() && !c.P.IRQDisable:
			c.queue = c.interruptSequence(c.vectorFor(0xffee, 0xfffe), false)
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

func (c *CPU) decode(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := bus.Read(bankAddr(c.PBR, c.PC))
			if err != nil {
				return err
			}
			c.opcode = v
			c.PC++

			def := opcodeTable[c.opcode]
			ops := def.build(c, def)
			c.queue = append([]microop{nopMicroop}, ops...)
			c.qpos = 1
			return nil
		},
	}
}

func nopMicroop(c *CPU, bus Bus) error { return nil }

// interruptSequence pushes PBR (native mode only), PC, P, then loads the
// vector. Emulation mode's sequence is the 6502-compatible 7-cycle one
// (no PBR push); native mode spends one extra cycle pushing PBR (spec
// §4.1: "65C816 additionally tracks whether it is currently inside an
// interrupt handler").
func (c *CPU) interruptSequence(vector uint16, brk bool) []microop {
	ops := []microop{
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
	}
	if !c.Emulation {
		ops = append(ops, func(c *CPU, bus Bus) error {
			return c.pushByte(bus, c.PBR)
		})
	}
	ops = append(ops,
		func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC>>8)) },
		func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC)) },
		func(c *CPU, bus Bus) error { return c.pushByte(bus, c.P.ToByte(c.Emulation, brk)) },
		func(c *CPU, bus Bus) error {
			c.P.IRQDisable = true
			c.P.Decimal = false
			c.PBR = 0
			lo, err := bus.Read(bankAddr(0, vector))
			c.operandLo = lo
			return err
		},
		func(c *CPU, bus Bus) error {
			hi, err := bus.Read(bankAddr(0, vector+1))
			if err != nil {
				return err
			}
			c.PC = uint16(hi)<<8 | uint16(c.operandLo)
			return nil
		},
	)
	return ops
}

// pushByte writes one byte to the stack, decrementing S. In emulation mode
// S is an 8-bit pointer pinned to page 1; in native mode it is a
// free-running 16-bit pointer.
func (c *CPU) pushByte(bus Bus, v uint8) error {
	err := bus.Write(bankAddr(0, c.S), v)
	if c.Emulation {
		c.S = 0x0100 | uint16(uint8(c.S)-1)
	} else {
		c.S--
	}
	return err
}

func (c *CPU) popByte(bus Bus) (uint8, error) {
	if c.Emulation {
		c.S = 0x0100 | uint16(uint8(c.S)+1)
	} else {
		c.S++
	}
	return bus.Read(bankAddr(0, c.S))
}
