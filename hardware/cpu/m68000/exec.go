package m68000

const (
	logicAnd = iota
	logicOr
	logicEor
)

func (c *CPU) buildRTS() []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			pc, err := c.readLong(bus, c.A[7])
			if err != nil {
				return err
			}
			c.A[7] += 4
			c.PC = maskAddr(pc)
			return nil
		},
	}
}

func (c *CPU) buildRTE() []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			sr, err := bus.ReadWord(maskAddr(c.A[7]))
			if err != nil {
				return err
			}
			c.A[7] += 2
			c.Status.FromWord(sr)
			return nil
		},
		func(c *CPU, bus Bus) error {
			pc, err := c.readLong(bus, c.A[7])
			if err != nil {
				return err
			}
			c.A[7] += 4
			c.PC = maskAddr(pc)
			return nil
		},
	}
}

func (c *CPU) buildJSR(bus Bus) []microop {
	mode, reg := int(c.opcode>>3)&7, int(c.opcode&7)
	_, _, err := c.resolveEA(bus, mode, reg, SizeLong)
	// for control-flow modes the target is the effective address itself,
	// which resolveEA records in c.ea while consuming extension words.
	target := c.ea
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			c.A[7] -= 4
			if werr := bus.WriteWord(maskAddr(c.A[7]), uint16(c.PC>>16)); werr != nil {
				return werr
			}
			if werr := bus.WriteWord(maskAddr(c.A[7]+2), uint16(c.PC)); werr != nil {
				return werr
			}
			c.PC = maskAddr(target)
			return nil
		},
	}
}

func (c *CPU) buildJMP(bus Bus) []microop {
	mode, reg := int(c.opcode>>3)&7, int(c.opcode&7)
	_, _, err := c.resolveEA(bus, mode, reg, SizeLong)
	target := c.ea
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			c.PC = maskAddr(target)
			return nil
		},
	}
}

func (c *CPU) buildAddqSubq(bus Bus) []microop {
	op := c.opcode
	data := uint32((op >> 9) & 7)
	if data == 0 {
		data = 8
	}
	isSub := op&0x0100 != 0
	size := sizeField((op >> 6) & 3)
	mode, reg := int(op>>3)&7, int(op&7)
	read, write, err := c.resolveEA(bus, mode, reg, size)
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			v, rerr := read(bus)
			if rerr != nil {
				return rerr
			}
			var result uint32
			if isSub {
				result = v - data
			} else {
				result = v + data
			}
			if mode != modeAddrReg {
				c.Status.setNZ(result, size)
			}
			if write != nil {
				return write(bus, size.mask(result))
			}
			return nil
		},
	}
}

func (c *CPU) buildDBcc(bus Bus) []microop {
	cond := (c.opcode >> 8) & 0xf
	reg := int(c.opcode & 7)
	return []microop{
		func(c *CPU, bus Bus) error {
			disp, err := c.fetchExtWord(bus)
			if err != nil {
				return err
			}
			if c.testCondition(cond) {
				return nil
			}
			d16 := uint16(c.D[reg])
			d16--
			c.D[reg] = mergeSize(c.D[reg], uint32(d16), SizeWord)
			if d16 != 0xffff {
				c.PC = c.PC - 2 + signExtendWord(uint32(disp))
			}
			return nil
		},
	}
}

func (c *CPU) buildBranch(bus Bus) []microop {
	cond := (c.opcode >> 8) & 0xf
	disp8 := int8(c.opcode & 0xff)
	return []microop{
		func(c *CPU, bus Bus) error {
			base := c.PC
			var target uint32
			if disp8 == 0 {
				w, err := c.fetchExtWord(bus)
				if err != nil {
					return err
				}
				target = base + signExtendWord(uint32(w))
			} else {
				target = base + uint32(int32(disp8))
			}
			if cond == 1 { // BSR
				c.A[7] -= 4
				if err := bus.WriteWord(maskAddr(c.A[7]), uint16(c.PC>>16)); err != nil {
					return err
				}
				if err := bus.WriteWord(maskAddr(c.A[7]+2), uint16(c.PC)); err != nil {
					return err
				}
				c.PC = maskAddr(target)
				return nil
			}
			if cond == 0 || c.testCondition(cond) { // BRA or Bcc taken
				c.PC = maskAddr(target)
			}
			return nil
		},
	}
}

func (c *CPU) testCondition(cond uint16) bool {
	s := c.Status
	switch cond {
	case 0:
		return true // T
	case 1:
		return false // F
	case 2:
		return !s.Carry && !s.Zero // HI
	case 3:
		return s.Carry || s.Zero // LS
	case 4:
		return !s.Carry // CC
	case 5:
		return s.Carry // CS
	case 6:
		return !s.Zero // NE
	case 7:
		return s.Zero // EQ
	case 8:
		return !s.Overflow // VC
	case 9:
		return s.Overflow // VS
	case 10:
		return !s.Negative // PL
	case 11:
		return s.Negative // MI
	case 12:
		return s.Negative == s.Overflow // GE
	case 13:
		return s.Negative != s.Overflow // LT
	case 14:
		return !s.Zero && s.Negative == s.Overflow // GT
	default:
		return s.Zero || s.Negative != s.Overflow // LE
	}
}

func moveSizeField(bits uint16) Size {
	switch bits {
	case 1:
		return SizeByte
	case 3:
		return SizeWord
	default:
		return SizeLong
	}
}

func (c *CPU) buildMove(bus Bus) []microop {
	op := c.opcode
	size := moveSizeField((op >> 12) & 3)
	srcMode, srcReg := int(op>>3)&7, int(op&7)
	dstMode, dstReg := int(op>>6)&7, int(op>>9)&7
	isMovea := dstMode == modeAddrReg

	return []microop{
		func(c *CPU, bus Bus) error {
			read, _, err := c.resolveEA(bus, srcMode, srcReg, size)
			if err != nil {
				return err
			}
			v, err := read(bus)
			if err != nil {
				return err
			}
			c.srcVal = v
			return nil
		},
		func(c *CPU, bus Bus) error {
			_, write, err := c.resolveEA(bus, dstMode, dstReg, size)
			if err != nil {
				return err
			}
			if !isMovea {
				c.Status.setNZ(c.srcVal, size)
				c.Status.Overflow = false
				c.Status.Carry = false
			}
			if write != nil {
				return write(bus, size.mask(c.srcVal))
			}
			return nil
		},
	}
}

func (c *CPU) buildMoveq() []microop {
	reg := int(c.opcode>>9) & 7
	data := uint32(int32(int8(c.opcode & 0xff)))
	return []microop{
		func(c *CPU, bus Bus) error {
			c.D[reg] = data
			c.Status.setNZ(data, SizeLong)
			c.Status.Overflow = false
			c.Status.Carry = false
			return nil
		},
	}
}

func (c *CPU) buildLEA(bus Bus) []microop {
	mode, reg := int(c.opcode>>3)&7, int(c.opcode&7)
	dst := int(c.opcode>>9) & 7
	_, _, err := c.resolveEA(bus, mode, reg, SizeLong)
	addr := c.ea
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			c.A[dst] = addr
			return nil
		},
	}
}

func (c *CPU) buildPEA(bus Bus) []microop {
	mode, reg := int(c.opcode>>3)&7, int(c.opcode&7)
	_, _, err := c.resolveEA(bus, mode, reg, SizeLong)
	addr := c.ea
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			c.A[7] -= 4
			return bus.WriteWord(maskAddr(c.A[7]), uint16(addr>>16))
		},
		func(c *CPU, bus Bus) error {
			return bus.WriteWord(maskAddr(c.A[7]+2), uint16(addr))
		},
	}
}

func (c *CPU) buildSwap() []microop {
	reg := int(c.opcode & 7)
	return []microop{
		func(c *CPU, bus Bus) error {
			v := c.D[reg]
			c.D[reg] = v<<16 | v>>16
			c.Status.setNZ(c.D[reg], SizeLong)
			c.Status.Overflow = false
			c.Status.Carry = false
			return nil
		},
	}
}

func (c *CPU) buildExt(size Size) []microop {
	reg := int(c.opcode & 7)
	return []microop{
		func(c *CPU, bus Bus) error {
			if size == SizeWord {
				v := uint32(int32(int8(c.D[reg])))
				c.D[reg] = mergeSize(c.D[reg], v, SizeWord)
				c.Status.setNZ(v, SizeWord)
			} else {
				v := uint32(int32(int16(c.D[reg])))
				c.D[reg] = v
				c.Status.setNZ(v, SizeLong)
			}
			c.Status.Overflow = false
			c.Status.Carry = false
			return nil
		},
	}
}

func (c *CPU) buildClr(bus Bus) []microop {
	size := sizeField((c.opcode >> 6) & 3)
	mode, reg := int(c.opcode>>3)&7, int(c.opcode&7)
	_, write, err := c.resolveEA(bus, mode, reg, size)
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			c.Status.Zero = true
			c.Status.Negative = false
			c.Status.Overflow = false
			c.Status.Carry = false
			if write != nil {
				return write(bus, 0)
			}
			return nil
		},
	}
}

func (c *CPU) buildTst(bus Bus) []microop {
	size := sizeField((c.opcode >> 6) & 3)
	mode, reg := int(c.opcode>>3)&7, int(c.opcode&7)
	read, _, err := c.resolveEA(bus, mode, reg, size)
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			v, rerr := read(bus)
			if rerr != nil {
				return rerr
			}
			c.Status.setNZ(v, size)
			c.Status.Overflow = false
			c.Status.Carry = false
			return nil
		},
	}
}

func (c *CPU) buildCmp(bus Bus) []microop {
	op := c.opcode
	reg := int(op>>9) & 7
	isCmpa := op&0x00c0 == 0x00c0
	size := sizeField((op >> 6) & 3)
	if isCmpa {
		size = sizeField(((op >> 8) & 1) + 1) // CMPA.W=3, CMPA.L=7 -> word/long only
		if op&0x0100 == 0 {
			size = SizeWord
		} else {
			size = SizeLong
		}
	}
	mode, ereg := int(op>>3)&7, int(op&7)
	read, _, err := c.resolveEA(bus, mode, ereg, size)
	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			v, rerr := read(bus)
			if rerr != nil {
				return rerr
			}
			var a uint32
			if isCmpa {
				a = c.A[reg]
			} else {
				a = c.D[reg]
			}
			result := size.mask(a) - v
			c.Status.setNZ(result, size)
			c.Status.Carry = v > size.mask(a)
			c.Status.Overflow = overflowSub(size.mask(a), v, result, size)
			return nil
		},
	}
}

func (c *CPU) buildAddSub(bus Bus, isAdd bool) []microop {
	op := c.opcode
	reg := int(op>>9) & 7
	opmode := (op >> 6) & 7
	isAddr := opmode == 3 || opmode == 7
	var size Size
	if isAddr {
		if opmode == 3 {
			size = SizeWord
		} else {
			size = SizeLong
		}
	} else {
		size = sizeField(opmode & 3)
	}
	toEA := opmode&4 != 0 && !isAddr
	mode, ereg := int(op>>3)&7, int(op&7)
	read, write, err := c.resolveEA(bus, mode, ereg, size)

	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			eaVal, rerr := read(bus)
			if rerr != nil {
				return rerr
			}
			var a uint32
			if isAddr {
				a = c.A[reg]
			} else {
				a = size.mask(c.D[reg])
			}

			var result uint32
			if isAdd {
				result = a + eaVal
			} else {
				if toEA {
					result = eaVal - a
				} else {
					result = a - eaVal
				}
			}
			result = size.mask(result)

			if isAddr {
				if size == SizeWord {
					c.A[reg] = signExtendWord(result)
				} else {
					c.A[reg] = result
				}
				return nil
			}

			c.Status.setNZ(result, size)
			if isAdd {
				c.Status.Carry = overflowCarryAdd(a, eaVal, size)
				c.Status.Overflow = overflowAdd(a, eaVal, result, size)
			} else {
				src, dst := a, eaVal
				if toEA {
					src, dst = eaVal, a
				}
				c.Status.Carry = src > dst
				c.Status.Overflow = overflowSub(dst, src, result, size)
			}
			c.Status.Extend = c.Status.Carry

			if toEA {
				if write != nil {
					return write(bus, result)
				}
				return nil
			}
			c.D[reg] = mergeSize(c.D[reg], result, size)
			return nil
		},
	}
}

func (c *CPU) buildLogic(bus Bus, kind int) []microop {
	op := c.opcode
	reg := int(op>>9) & 7
	size := sizeField((op >> 6) & 3)
	toEA := op&0x0100 != 0
	mode, ereg := int(op>>3)&7, int(op&7)
	read, write, err := c.resolveEA(bus, mode, ereg, size)

	return []microop{
		func(c *CPU, bus Bus) error {
			if err != nil {
				return err
			}
			eaVal, rerr := read(bus)
			if rerr != nil {
				return rerr
			}
			d := size.mask(c.D[reg])
			var result uint32
			switch kind {
			case logicAnd:
				result = d & eaVal
			case logicOr:
				result = d | eaVal
			default:
				result = d ^ eaVal
			}
			result = size.mask(result)
			c.Status.setNZ(result, size)
			c.Status.Overflow = false
			c.Status.Carry = false

			if toEA {
				if write != nil {
					return write(bus, result)
				}
				return nil
			}
			c.D[reg] = mergeSize(c.D[reg], result, size)
			return nil
		},
	}
}

func overflowAdd(a, b, result uint32, size Size) bool {
	sa, sb, sr := size.signBit(a), size.signBit(b), size.signBit(result)
	return sa == sb && sr != sa
}

func overflowSub(a, b, result uint32, size Size) bool {
	sa, sb, sr := size.signBit(a), size.signBit(b), size.signBit(result)
	return sa != sb && sr != sa
}

func overflowCarryAdd(a, b uint32, size Size) bool {
	sum := uint64(size.mask(a)) + uint64(size.mask(b))
	return sum > uint64(size.mask(^uint32(0)))
}
