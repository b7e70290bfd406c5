package mos6502

// opcodeDef describes one of the 256 opcode byte values: the addressing
// mode used to fetch its operand, how that operand is read/written, and
// the micro-op that performs the operation itself once the operand is
// ready. Unassigned bytes fall through to jam.
type opcodeDef struct {
	mnemonic string
	mode     Mode
	rw       rwKind
	exec     microop
}

var opcodeTable [256]opcodeDef

func defOp(n int, mnemonic string, mode Mode, rw rwKind, exec microop) {
	opcodeTable[n] = opcodeDef{mnemonic: mnemonic, mode: mode, rw: rw, exec: exec}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeDef{mnemonic: "JAM", mode: ModeImplied, rw: rwNone, exec: execJAM}
	}

	// load/store
	defOp(0xa9, "LDA", ModeImmediate, rwNone, execLDA)
	defOp(0xa5, "LDA", ModeZeroPage, rwRead, execLDA)
	defOp(0xb5, "LDA", ModeZeroPageX, rwRead, execLDA)
	defOp(0xad, "LDA", ModeAbsolute, rwRead, execLDA)
	defOp(0xbd, "LDA", ModeAbsoluteX, rwRead, execLDA)
	defOp(0xb9, "LDA", ModeAbsoluteY, rwRead, execLDA)
	defOp(0xa1, "LDA", ModeIndexedIndirect, rwRead, execLDA)
	defOp(0xb1, "LDA", ModeIndirectIndexed, rwRead, execLDA)

	defOp(0xa2, "LDX", ModeImmediate, rwNone, execLDX)
	defOp(0xa6, "LDX", ModeZeroPage, rwRead, execLDX)
	defOp(0xb6, "LDX", ModeZeroPageY, rwRead, execLDX)
	defOp(0xae, "LDX", ModeAbsolute, rwRead, execLDX)
	defOp(0xbe, "LDX", ModeAbsoluteY, rwRead, execLDX)

	defOp(0xa0, "LDY", ModeImmediate, rwNone, execLDY)
	defOp(0xa4, "LDY", ModeZeroPage, rwRead, execLDY)
	defOp(0xb4, "LDY", ModeZeroPageX, rwRead, execLDY)
	defOp(0xac, "LDY", ModeAbsolute, rwRead, execLDY)
	defOp(0xbc, "LDY", ModeAbsoluteX, rwRead, execLDY)

	defOp(0x85, "STA", ModeZeroPage, rwWrite, execSTA)
	defOp(0x95, "STA", ModeZeroPageX, rwWrite, execSTA)
	defOp(0x8d, "STA", ModeAbsolute, rwWrite, execSTA)
	defOp(0x9d, "STA", ModeAbsoluteX, rwWrite, execSTA)
	defOp(0x99, "STA", ModeAbsoluteY, rwWrite, execSTA)
	defOp(0x81, "STA", ModeIndexedIndirect, rwWrite, execSTA)
	defOp(0x91, "STA", ModeIndirectIndexed, rwWrite, execSTA)

	defOp(0x86, "STX", ModeZeroPage, rwWrite, execSTX)
	defOp(0x96, "STX", ModeZeroPageY, rwWrite, execSTX)
	defOp(0x8e, "STX", ModeAbsolute, rwWrite, execSTX)

	defOp(0x84, "STY", ModeZeroPage, rwWrite, execSTY)
	defOp(0x94, "STY", ModeZeroPageX, rwWrite, execSTY)
	defOp(0x8c, "STY", ModeAbsolute, rwWrite, execSTY)

	// transfers
	defOp(0xaa, "TAX", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.X = c.A; c.P.setNZ(c.X); return nil })
	defOp(0x8a, "TXA", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.A = c.X; c.P.setNZ(c.A); return nil })
	defOp(0xa8, "TAY", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.Y = c.A; c.P.setNZ(c.Y); return nil })
	defOp(0x98, "TYA", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.A = c.Y; c.P.setNZ(c.A); return nil })
	defOp(0xba, "TSX", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.X = c.SP; c.P.setNZ(c.X); return nil })
	defOp(0x9a, "TXS", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.SP = c.X; return nil })

	// stack
	defOp(0x48, "PHA", ModePush, rwNone, func(c *CPU, bus Bus) error { return c.push(bus, c.A) })
	defOp(0x08, "PHP", ModePush, rwNone, func(c *CPU, bus Bus) error { return c.push(bus, c.P.ToByte(true)) })
	defOp(0x68, "PLA", ModePLA, rwNone, func(c *CPU, bus Bus) error {
		c.A = c.fetched
		c.P.setNZ(c.A)
		return nil
	})
	defOp(0x28, "PLP", ModePLA, rwNone, func(c *CPU, bus Bus) error {
		c.P.FromByte(c.fetched)
		return nil
	})

	// arithmetic / logic
	defOp(0x69, "ADC", ModeImmediate, rwNone, execADC)
	defOp(0x65, "ADC", ModeZeroPage, rwRead, execADC)
	defOp(0x75, "ADC", ModeZeroPageX, rwRead, execADC)
	defOp(0x6d, "ADC", ModeAbsolute, rwRead, execADC)
	defOp(0x7d, "ADC", ModeAbsoluteX, rwRead, execADC)
	defOp(0x79, "ADC", ModeAbsoluteY, rwRead, execADC)
	defOp(0x61, "ADC", ModeIndexedIndirect, rwRead, execADC)
	defOp(0x71, "ADC", ModeIndirectIndexed, rwRead, execADC)

	defOp(0xe9, "SBC", ModeImmediate, rwNone, execSBC)
	defOp(0xe5, "SBC", ModeZeroPage, rwRead, execSBC)
	defOp(0xf5, "SBC", ModeZeroPageX, rwRead, execSBC)
	defOp(0xed, "SBC", ModeAbsolute, rwRead, execSBC)
	defOp(0xfd, "SBC", ModeAbsoluteX, rwRead, execSBC)
	defOp(0xf9, "SBC", ModeAbsoluteY, rwRead, execSBC)
	defOp(0xe1, "SBC", ModeIndexedIndirect, rwRead, execSBC)
	defOp(0xf1, "SBC", ModeIndirectIndexed, rwRead, execSBC)

	defOp(0x29, "AND", ModeImmediate, rwNone, execAND)
	defOp(0x25, "AND", ModeZeroPage, rwRead, execAND)
	defOp(0x35, "AND", ModeZeroPageX, rwRead, execAND)
	defOp(0x2d, "AND", ModeAbsolute, rwRead, execAND)
	defOp(0x3d, "AND", ModeAbsoluteX, rwRead, execAND)
	defOp(0x39, "AND", ModeAbsoluteY, rwRead, execAND)
	defOp(0x21, "AND", ModeIndexedIndirect, rwRead, execAND)
	defOp(0x31, "AND", ModeIndirectIndexed, rwRead, execAND)

	defOp(0x09, "ORA", ModeImmediate, rwNone, execORA)
	defOp(0x05, "ORA", ModeZeroPage, rwRead, execORA)
	defOp(0x15, "ORA", ModeZeroPageX, rwRead, execORA)
	defOp(0x0d, "ORA", ModeAbsolute, rwRead, execORA)
	defOp(0x1d, "ORA", ModeAbsoluteX, rwRead, execORA)
	defOp(0x19, "ORA", ModeAbsoluteY, rwRead, execORA)
	defOp(0x01, "ORA", ModeIndexedIndirect, rwRead, execORA)
	defOp(0x11, "ORA", ModeIndirectIndexed, rwRead, execORA)

	defOp(0x49, "EOR", ModeImmediate, rwNone, execEOR)
	defOp(0x45, "EOR", ModeZeroPage, rwRead, execEOR)
	defOp(0x55, "EOR", ModeZeroPageX, rwRead, execEOR)
	defOp(0x4d, "EOR", ModeAbsolute, rwRead, execEOR)
	defOp(0x5d, "EOR", ModeAbsoluteX, rwRead, execEOR)
	defOp(0x59, "EOR", ModeAbsoluteY, rwRead, execEOR)
	defOp(0x41, "EOR", ModeIndexedIndirect, rwRead, execEOR)
	defOp(0x51, "EOR", ModeIndirectIndexed, rwRead, execEOR)

	defOp(0xc9, "CMP", ModeImmediate, rwNone, execCMP(cmpA))
	defOp(0xc5, "CMP", ModeZeroPage, rwRead, execCMP(cmpA))
	defOp(0xd5, "CMP", ModeZeroPageX, rwRead, execCMP(cmpA))
	defOp(0xcd, "CMP", ModeAbsolute, rwRead, execCMP(cmpA))
	defOp(0xdd, "CMP", ModeAbsoluteX, rwRead, execCMP(cmpA))
	defOp(0xd9, "CMP", ModeAbsoluteY, rwRead, execCMP(cmpA))
	defOp(0xc1, "CMP", ModeIndexedIndirect, rwRead, execCMP(cmpA))
	defOp(0xd1, "CMP", ModeIndirectIndexed, rwRead, execCMP(cmpA))

	defOp(0xe0, "CPX", ModeImmediate, rwNone, execCMP(cmpX))
	defOp(0xe4, "CPX", ModeZeroPage, rwRead, execCMP(cmpX))
	defOp(0xec, "CPX", ModeAbsolute, rwRead, execCMP(cmpX))

	defOp(0xc0, "CPY", ModeImmediate, rwNone, execCMP(cmpY))
	defOp(0xc4, "CPY", ModeZeroPage, rwRead, execCMP(cmpY))
	defOp(0xcc, "CPY", ModeAbsolute, rwRead, execCMP(cmpY))

	defOp(0x24, "BIT", ModeZeroPage, rwRead, execBIT)
	defOp(0x2c, "BIT", ModeAbsolute, rwRead, execBIT)

	// increment/decrement
	defOp(0xe6, "INC", ModeZeroPage, rwModify, execINCmem)
	defOp(0xf6, "INC", ModeZeroPageX, rwModify, execINCmem)
	defOp(0xee, "INC", ModeAbsolute, rwModify, execINCmem)
	defOp(0xfe, "INC", ModeAbsoluteX, rwModify, execINCmem)

	defOp(0xc6, "DEC", ModeZeroPage, rwModify, execDECmem)
	defOp(0xd6, "DEC", ModeZeroPageX, rwModify, execDECmem)
	defOp(0xce, "DEC", ModeAbsolute, rwModify, execDECmem)
	defOp(0xde, "DEC", ModeAbsoluteX, rwModify, execDECmem)

	defOp(0xe8, "INX", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.X++; c.P.setNZ(c.X); return nil })
	defOp(0xc8, "INY", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.Y++; c.P.setNZ(c.Y); return nil })
	defOp(0xca, "DEX", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.X--; c.P.setNZ(c.X); return nil })
	defOp(0x88, "DEY", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.Y--; c.P.setNZ(c.Y); return nil })

	// shifts/rotates
	defOp(0x0a, "ASL", ModeAccumulator, rwNone, execASLAcc)
	defOp(0x06, "ASL", ModeZeroPage, rwModify, execASLmem)
	defOp(0x16, "ASL", ModeZeroPageX, rwModify, execASLmem)
	defOp(0x0e, "ASL", ModeAbsolute, rwModify, execASLmem)
	defOp(0x1e, "ASL", ModeAbsoluteX, rwModify, execASLmem)

	defOp(0x4a, "LSR", ModeAccumulator, rwNone, execLSRAcc)
	defOp(0x46, "LSR", ModeZeroPage, rwModify, execLSRmem)
	defOp(0x56, "LSR", ModeZeroPageX, rwModify, execLSRmem)
	defOp(0x4e, "LSR", ModeAbsolute, rwModify, execLSRmem)
	defOp(0x5e, "LSR", ModeAbsoluteX, rwModify, execLSRmem)

	defOp(0x2a, "ROL", ModeAccumulator, rwNone, execROLAcc)
	defOp(0x26, "ROL", ModeZeroPage, rwModify, execROLmem)
	defOp(0x36, "ROL", ModeZeroPageX, rwModify, execROLmem)
	defOp(0x2e, "ROL", ModeAbsolute, rwModify, execROLmem)
	defOp(0x3e, "ROL", ModeAbsoluteX, rwModify, execROLmem)

	defOp(0x6a, "ROR", ModeAccumulator, rwNone, execRORAcc)
	defOp(0x66, "ROR", ModeZeroPage, rwModify, execRORmem)
	defOp(0x76, "ROR", ModeZeroPageX, rwModify, execRORmem)
	defOp(0x6e, "ROR", ModeAbsolute, rwModify, execRORmem)
	defOp(0x7e, "ROR", ModeAbsoluteX, rwModify, execRORmem)

	// jumps/calls
	defOp(0x4c, "JMP", ModeAbsolute, rwNone, execJMPabs)
	defOp(0x6c, "JMP", ModeIndirect, rwNone, execJMPind)
	defOp(0x20, "JSR", ModeJSR, rwNone, nopMicroop)
	defOp(0x60, "RTS", ModeRTS, rwNone, nopMicroop)
	defOp(0x40, "RTI", ModeRTI, rwNone, nopMicroop)
	defOp(0x00, "BRK", ModeImplied, rwNone, execBRK)

	// branches
	defOp(0x90, "BCC", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return !c.P.Carry }))
	defOp(0xb0, "BCS", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return c.P.Carry }))
	defOp(0xf0, "BEQ", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return c.P.Zero }))
	defOp(0xd0, "BNE", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return !c.P.Zero }))
	defOp(0x30, "BMI", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return c.P.Negative }))
	defOp(0x10, "BPL", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return !c.P.Negative }))
	defOp(0x50, "BVC", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return !c.P.Overflow }))
	defOp(0x70, "BVS", ModeRelative, rwNone, execBranch(func(c *CPU) bool { return c.P.Overflow }))

	// flags
	defOp(0x18, "CLC", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Carry = false; return nil })
	defOp(0x38, "SEC", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Carry = true; return nil })
	defOp(0x58, "CLI", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Interrupt = false; return nil })
	defOp(0x78, "SEI", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Interrupt = true; return nil })
	defOp(0xd8, "CLD", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Decimal = false; return nil })
	defOp(0xf8, "SED", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Decimal = true; return nil })
	defOp(0xb8, "CLV", ModeImplied, rwNone, func(c *CPU, bus Bus) error { c.P.Overflow = false; return nil })

	defOp(0xea, "NOP", ModeImplied, rwNone, func(c *CPU, bus Bus) error { return nil })

	registerUnofficialOpcodes()
}

func execLDA(c *CPU, bus Bus) error { c.A = c.fetched; c.P.setNZ(c.A); return nil }
func execLDX(c *CPU, bus Bus) error { c.X = c.fetched; c.P.setNZ(c.X); return nil }
func execLDY(c *CPU, bus Bus) error { c.Y = c.fetched; c.P.setNZ(c.Y); return nil }

func execSTA(c *CPU, bus Bus) error { return bus.Write(c.addr, c.A) }
func execSTX(c *CPU, bus Bus) error { return bus.Write(c.addr, c.X) }
func execSTY(c *CPU, bus Bus) error { return bus.Write(c.addr, c.Y) }

// execADC implements binary addition with carry, including the correct
// overflow rule: overflow is set when the sign of the result differs from
// both operands' signs. BCD mode is not
// honoured on the NES's 6502 (hardware disables it), matching the
// console's actual behaviour even though the D flag can still be set.
func execADC(c *CPU, bus Bus) error {
	a, m := c.A, c.fetched
	var carry uint16
	if c.P.Carry {
		carry = 1
	}
	sum := uint16(a) + uint16(m) + carry
	result := uint8(sum)
	c.P.Carry = sum > 0xff
	c.P.Overflow = (a^result)&(m^result)&0x80 != 0
	c.A = result
	c.P.setNZ(c.A)
	return nil
}

func execSBC(c *CPU, bus Bus) error {
	// SBC(m) == ADC(~m)
	c.fetched = ^c.fetched
	return execADC(c, bus)
}

func execAND(c *CPU, bus Bus) error { c.A &= c.fetched; c.P.setNZ(c.A); return nil }
func execORA(c *CPU, bus Bus) error { c.A |= c.fetched; c.P.setNZ(c.A); return nil }
func execEOR(c *CPU, bus Bus) error { c.A ^= c.fetched; c.P.setNZ(c.A); return nil }

func execBIT(c *CPU, bus Bus) error {
	c.P.Zero = c.A&c.fetched == 0
	c.P.Negative = c.fetched&0x80 != 0
	c.P.Overflow = c.fetched&0x40 != 0
	return nil
}

type cmpReg int

const (
	cmpA cmpReg = iota
	cmpX
	cmpY
)

func execCMP(which cmpReg) microop {
	return func(c *CPU, bus Bus) error {
		var reg uint8
		switch which {
		case cmpA:
			reg = c.A
		case cmpX:
			reg = c.X
		case cmpY:
			reg = c.Y
		}
		result := reg - c.fetched
		c.P.Carry = reg >= c.fetched
		c.P.setNZ(result)
		return nil
	}
}

func execINCmem(c *CPU, bus Bus) error {
	c.fetched++
	c.P.setNZ(c.fetched)
	return bus.Write(c.addr, c.fetched)
}

func execDECmem(c *CPU, bus Bus) error {
	c.fetched--
	c.P.setNZ(c.fetched)
	return bus.Write(c.addr, c.fetched)
}

// execASLAcc and its Accumulator-mode siblings below don't idle the bus
// themselves: ModeAccumulator's addressing op already does that once, on
// the same cycle exec runs.
func execASLAcc(c *CPU, bus Bus) error {
	c.P.Carry = c.A&0x80 != 0
	c.A <<= 1
	c.P.setNZ(c.A)
	return nil
}

func execASLmem(c *CPU, bus Bus) error {
	c.P.Carry = c.fetched&0x80 != 0
	c.fetched <<= 1
	c.P.setNZ(c.fetched)
	return bus.Write(c.addr, c.fetched)
}

func execLSRAcc(c *CPU, bus Bus) error {
	c.P.Carry = c.A&0x01 != 0
	c.A >>= 1
	c.P.setNZ(c.A)
	return nil
}

func execLSRmem(c *CPU, bus Bus) error {
	c.P.Carry = c.fetched&0x01 != 0
	c.fetched >>= 1
	c.P.setNZ(c.fetched)
	return bus.Write(c.addr, c.fetched)
}

func execROLAcc(c *CPU, bus Bus) error {
	var carryIn uint8
	if c.P.Carry {
		carryIn = 1
	}
	c.P.Carry = c.A&0x80 != 0
	c.A = c.A<<1 | carryIn
	c.P.setNZ(c.A)
	return nil
}

func execROLmem(c *CPU, bus Bus) error {
	var carryIn uint8
	if c.P.Carry {
		carryIn = 1
	}
	c.P.Carry = c.fetched&0x80 != 0
	c.fetched = c.fetched<<1 | carryIn
	c.P.setNZ(c.fetched)
	return bus.Write(c.addr, c.fetched)
}

func execRORAcc(c *CPU, bus Bus) error {
	var carryIn uint8
	if c.P.Carry {
		carryIn = 0x80
	}
	c.P.Carry = c.A&0x01 != 0
	c.A = c.A>>1 | carryIn
	c.P.setNZ(c.A)
	return nil
}

func execRORmem(c *CPU, bus Bus) error {
	var carryIn uint8
	if c.P.Carry {
		carryIn = 0x80
	}
	c.P.Carry = c.fetched&0x01 != 0
	c.fetched = c.fetched>>1 | carryIn
	c.P.setNZ(c.fetched)
	return bus.Write(c.addr, c.fetched)
}

func execJMPabs(c *CPU, bus Bus) error { c.PC = c.addr; return nil }
func execJMPind(c *CPU, bus Bus) error { c.PC = c.addr; return nil }

// execBRK runs on the cycle after the opcode fetch and the operand-skip
// idle cycle, so it only needs the push/push/push/fetch-lo/fetch-hi tail
// of the interrupt sequence, not the two leading idle cycles (BRK already
// spent those fetching and discarding its signature byte).
func execBRK(c *CPU, bus Bus) error {
	c.PC++ // BRK's operand byte is skipped, not executed
	seq := c.interruptSequence(0xfffe, true)
	c.queue = append(c.queue[:c.qpos], seq[2:]...)
	return nil
}

// execBranch returns an exec micro-op for a conditional branch. Branches
// not taken cost nothing extra; taken branches cost one idle cycle, plus
// a second if the target crosses a page, both appended to the
// queue dynamically since neither is known until the condition and offset
// are evaluated.
func execBranch(cond func(*CPU) bool) microop {
	return func(c *CPU, bus Bus) error {
		offset := int8(c.operandLo)
		if !cond(c) {
			c.branchTaken = false
			return nil
		}
		c.branchTaken = true
		c.queue = append(c.queue, func(c *CPU, bus Bus) error {
			bus.Idle()
			base := c.PC
			target := uint16(int32(base) + int32(offset))
			c.pageCrossed = (target & 0xff00) != (base & 0xff00)
			c.PC = target
			if c.pageCrossed {
				c.queue = append(c.queue, func(c *CPU, bus Bus) error {
					bus.Idle()
					return nil
				})
			}
			return nil
		})
		return nil
	}
}

// execJAM doesn't idle the bus itself: ModeImplied's addressing op already
// does, on the same cycle this runs.
func execJAM(c *CPU, bus Bus) error {
	c.Killed = true
	return nil
}
