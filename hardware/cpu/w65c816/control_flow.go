package w65c816

// absoluteJMPBuild: JMP addr (bank unchanged).
func absoluteJMPBuild(long bool) func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | uint16(c.operandLo)
				return nil
			},
		}
	}
}

func absoluteLongJMPBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandHi = v
				return err
			},
			func(c *CPU, bus Bus) error {
				bank, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.PC = uint16(c.operandHi)<<8 | uint16(c.operandLo)
				c.PBR = bank
				return nil
			},
		}
	}
}

// jmpIndirectBuild: JMP (addr) [long=false] / JML [addr] [long=true]. The
// pointer always lives in bank 0 regardless of DBR/PBR.
func jmpIndirectBuild(long bool) func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandHi = v
				return err
			},
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
				v, err := bus.Read(bankAddr(0, ptr))
				c.fetched = uint16(v)
				return err
			},
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
				v, err := bus.Read(bankAddr(0, ptr+1))
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | c.fetched
				return nil
			},
		}
		if long {
			ops = append(ops, func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
				bank, err := bus.Read(bankAddr(0, ptr+2))
				c.PBR = bank
				return err
			})
		}
		return ops
	}
}

// jmpIndexedIndirectBuild: JMP (addr,X), pointer resolved within PBR.
func jmpIndexedIndirectBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandHi = v
				return err
			},
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo) + c.X
				v, err := bus.Read(bankAddr(c.PBR, ptr))
				c.fetched = uint16(v)
				return err
			},
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo) + c.X
				v, err := bus.Read(bankAddr(c.PBR, ptr+1))
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | c.fetched
				return nil
			},
		}
	}
}

// jsrBuild pushes the address of JSR's own last operand byte, matching the
// well-known 6502/65C816 off-by-one (RTS pops and increments).
func jsrBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC>>8)) },
			func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC)) },
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | uint16(c.operandLo)
				return nil
			},
		}
	}
}

func jsrIndexedIndirectBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC>>8)) },
			func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC)) },
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandHi = v
				return err
			},
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo) + c.X
				v, err := bus.Read(bankAddr(c.PBR, ptr))
				c.fetched = uint16(v)
				return err
			},
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo) + c.X
				v, err := bus.Read(bankAddr(c.PBR, ptr+1))
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | c.fetched
				return nil
			},
		}
	}
}

// jslBuild: JSR-Long pushes the old PBR too, then sets both PC and PBR.
func jslBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandHi = v
				return err
			},
			func(c *CPU, bus Bus) error { return c.pushByte(bus, c.PBR) },
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC>>8)) },
			func(c *CPU, bus Bus) error { return c.pushByte(bus, uint8(c.PC)) },
			func(c *CPU, bus Bus) error {
				bank, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.PC = uint16(c.operandHi)<<8 | uint16(c.operandLo)
				c.PBR = bank
				return nil
			},
		}
	}
}

func rtsBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | uint16(c.operandLo)
				return nil
			},
			func(c *CPU, bus Bus) error { c.PC++; bus.Idle(); return nil },
		}
	}
}

func rtlBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				c.operandHi = v
				return err
			},
			func(c *CPU, bus Bus) error {
				bank, err := c.popByte(bus)
				if err != nil {
					return err
				}
				c.PC = uint16(c.operandHi)<<8 | uint16(c.operandLo)
				c.PC++
				c.PBR = bank
				return nil
			},
		}
	}
}

// rtiBuild pops P, PCL, PCH, and (native mode only) PBR - the converse of
// the extra PBR push interruptSequence performs when not in emulation mode.
func rtiBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				if err != nil {
					return err
				}
				c.P.FromByte(v, c.Emulation)
				return nil
			},
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := c.popByte(bus)
				if err != nil {
					return err
				}
				c.PC = uint16(v)<<8 | uint16(c.operandLo)
				return nil
			},
		}
		if !c.Emulation {
			ops = append(ops, func(c *CPU, bus Bus) error {
				bank, err := c.popByte(bus)
				c.PBR = bank
				return err
			})
		}
		return ops
	}
}

func brkBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				_, err := fetchPC(c, bus) // signature byte, not otherwise used
				return err
			},
			func(c *CPU, bus Bus) error {
				seq := c.interruptSequence(c.vectorFor(0xffe6, 0xfffe), true)
				c.queue = append(c.queue, seq[1:]...)
				return nil
			},
		}
	}
}

func copBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				_, err := fetchPC(c, bus)
				return err
			},
			func(c *CPU, bus Bus) error {
				seq := c.interruptSequence(c.vectorFor(0xffe4, 0xfff4), false)
				c.queue = append(c.queue, seq[1:]...)
				return nil
			},
		}
	}
}

// brlBuild: BRL, a 16-bit-offset unconditional relative branch.
func brlBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				offset := int16(uint16(v)<<8 | uint16(c.operandLo))
				c.PC = uint16(int32(c.PC) + int32(offset))
				return nil
			},
		}
	}
}

// peaBuild: PEA pushes the two immediate operand bytes verbatim - it never
// dereferences memory, unlike every other "absolute" addressing mode.
func peaBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.fetched = uint16(v)<<8 | uint16(c.operandLo)
				return execPEA(c, bus)
			},
		}
	}
}

// peiBuild: PEI pushes the 16-bit value stored at the direct-page pointer
// (one level of indirection, always within bank 0) - it does not chase the
// pointer a second time the way LDA (dp) would.
func peiBuild() func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{func(c *CPU, bus Bus) error {
			v, err := fetchPC(c, bus)
			c.operandLo = v
			return err
		}}
		ops = append(ops, dpExtraIdle(c)...)
		ops = append(ops,
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(bankAddr(0, c.D+uint16(c.operandLo)))
				c.fetched = uint16(v)
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(bankAddr(0, c.D+uint16(c.operandLo)+1))
				if err != nil {
					return err
				}
				c.fetched = uint16(v)<<8 | c.fetched
				return execPEI(c, bus)
			},
		)
		return ops
	}
}

// blockMoveBuild implements MVN/MVP as a self-repeating macro-instruction:
// each 7-cycle pass moves one byte and, while the count (held in A) has
// not yet wrapped past zero, re-appends its own per-byte cycle sequence
// instead of letting Step fall through to decode a new opcode - the same
// dynamic-append idiom used for page-cross fixups elsewhere in this tree.
func blockMoveBuild(mvn bool) func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandHi = v // destination bank
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.operandLo = v // source bank
				c.DBR = c.operandHi
				c.queue = append(c.queue, blockMoveByteOps(mvn)...)
				return nil
			},
		}
	}
}

func blockMoveByteOps(mvn bool) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := bus.Read(bankAddr(c.operandLo, c.Y))
			c.fetched = uint16(v)
			return err
		},
		func(c *CPU, bus Bus) error {
			return bus.Write(bankAddr(c.operandHi, c.X), uint8(c.fetched))
		},
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		func(c *CPU, bus Bus) error {
			bus.Idle()
			if mvn {
				c.X++
				c.Y++
			} else {
				c.X--
				c.Y--
			}
			c.A--
			if c.A != 0xffff {
				// three idle cycles stand in for the opcode and bank-operand
				// refetch, keeping every pass at seven cycles
				idle := func(c *CPU, bus Bus) error { bus.Idle(); return nil }
				c.queue = append(c.queue, idle, idle, idle)
				c.queue = append(c.queue, blockMoveByteOps(mvn)...)
			}
			return nil
		},
	}
}
