package z80

// getR8/setR8 map the 3-bit register field to B,C,D,E,H,L,(HL),A, the
// standard Z80 register-index convention.
func (c *CPU) getR8(bus Bus, idx uint8) (uint8, error) {
	switch idx {
	case 0:
		return c.B, nil
	case 1:
		return c.C, nil
	case 2:
		return c.D, nil
	case 3:
		return c.E, nil
	case 4:
		return c.H, nil
	case 5:
		return c.L, nil
	case 6:
		return bus.Read(c.getHL())
	default:
		return c.A, nil
	}
}

func (c *CPU) setR8(bus Bus, idx uint8, v uint8) error {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		return bus.Write(c.getHL(), v)
	default:
		c.A = v
	}
	return nil
}

func (c *CPU) testCond(cc uint8) bool {
	switch cc & 7 {
	case 0:
		return !c.flags.Zero
	case 1:
		return c.flags.Zero
	case 2:
		return !c.flags.Carry
	case 3:
		return c.flags.Carry
	case 4:
		return !c.flags.ParityOverflow
	case 5:
		return c.flags.ParityOverflow
	case 6:
		return !c.flags.Sign
	default:
		return c.flags.Sign
	}
}

func (c *CPU) buildJP(bus Bus, cc uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			target, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			if cc == 0xff || c.testCond(cc) {
				c.PC = target
			}
			return nil
		},
	}
}

func (c *CPU) buildJR(bus Bus, cc uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			e, err := c.fetchByte(bus)
			if err != nil {
				return err
			}
			if cc == 0xff || c.testCond(cc) {
				bus.Idle()
				c.PC += uint16(int16(int8(e)))
			}
			return nil
		},
	}
}

func (c *CPU) buildDJNZ(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			e, err := c.fetchByte(bus)
			if err != nil {
				return err
			}
			bus.Idle()
			c.B--
			if c.B != 0 {
				c.PC += uint16(int16(int8(e)))
			}
			return nil
		},
	}
}

func (c *CPU) buildCALL(bus Bus, cc uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			target, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			if cc != 0xff && !c.testCond(cc) {
				return nil
			}
			c.SP--
			if err := bus.Write(c.SP, uint8(c.PC>>8)); err != nil {
				return err
			}
			c.SP--
			if err := bus.Write(c.SP, uint8(c.PC)); err != nil {
				return err
			}
			c.PC = target
			return nil
		},
	}
}

func (c *CPU) buildRET(bus Bus, cc uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			if cc != 0xff && !c.testCond(cc) {
				bus.Idle()
				return nil
			}
			lo, err := bus.Read(c.SP)
			if err != nil {
				return err
			}
			c.SP++
			hi, err := bus.Read(c.SP)
			if err != nil {
				return err
			}
			c.SP++
			c.PC = uint16(hi)<<8 | uint16(lo)
			return nil
		},
	}
}

func (c *CPU) rr16(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.SP
	}
}

func (c *CPU) setRR16(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// rr16Stack/setRR16Stack use the PUSH/POP register-pair encoding, which
// substitutes AF for SP at index 3.
func (c *CPU) rr16Stack(idx uint8) uint16 {
	if idx == 3 {
		return c.getAF()
	}
	return c.rr16(idx)
}

func (c *CPU) setRR16Stack(idx uint8, v uint16) {
	if idx == 3 {
		c.setAF(v)
		return
	}
	c.setRR16(idx, v)
}

func (c *CPU) buildPUSH(bus Bus, idx uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		func(c *CPU, bus Bus) error {
			v := c.rr16Stack(idx)
			c.SP--
			if err := bus.Write(c.SP, uint8(v>>8)); err != nil {
				return err
			}
			c.SP--
			return bus.Write(c.SP, uint8(v))
		},
	}
}

func (c *CPU) buildPOP(bus Bus, idx uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			lo, err := bus.Read(c.SP)
			if err != nil {
				return err
			}
			c.SP++
			hi, err := bus.Read(c.SP)
			if err != nil {
				return err
			}
			c.SP++
			c.setRR16Stack(idx, uint16(hi)<<8|uint16(lo))
			return nil
		},
	}
}

func (c *CPU) buildLDrn(bus Bus, dst uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			n, err := c.fetchByte(bus)
			if err != nil {
				return err
			}
			return c.setR8(bus, dst, n)
		},
	}
}

func (c *CPU) buildLDrr(bus Bus, dst, src uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := c.getR8(bus, src)
			if err != nil {
				return err
			}
			return c.setR8(bus, dst, v)
		},
	}
}

func (c *CPU) buildLDrrnn(bus Bus, idx uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			c.setRR16(idx, v)
			return nil
		},
	}
}

func (c *CPU) buildIncDecRR(bus Bus, idx uint8, inc bool) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			bus.Idle()
			v := c.rr16(idx)
			if inc {
				v++
			} else {
				v--
			}
			c.setRR16(idx, v)
			return nil
		},
	}
}

func (c *CPU) buildIncDecR(bus Bus, idx uint8, inc bool) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := c.getR8(bus, idx)
			if err != nil {
				return err
			}
			var result uint8
			if inc {
				result = v + 1
				c.flags.HalfCarry = v&0xf == 0xf
				c.flags.ParityOverflow = v == 0x7f
				c.flags.Subtract = false
			} else {
				result = v - 1
				c.flags.HalfCarry = v&0xf == 0
				c.flags.ParityOverflow = v == 0x80
				c.flags.Subtract = true
			}
			c.flags.setSZXY(result)
			return c.setR8(bus, idx, result)
		},
	}
}

func (c *CPU) buildAddHL(bus Bus, idx uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			bus.Idle()
			hl := c.getHL()
			rr := c.rr16(idx)
			sum := uint32(hl) + uint32(rr)
			c.flags.Carry = sum > 0xffff
			c.flags.HalfCarry = (hl&0xfff)+(rr&0xfff) > 0xfff
			c.flags.Subtract = false
			c.setHL(uint16(sum))
			return nil
		},
	}
}

func (c *CPU) buildLDAmem(bus Bus, addr func() uint16) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := bus.Read(addr())
			if err != nil {
				return err
			}
			c.A = v
			return nil
		},
	}
}

func (c *CPU) buildSTAmem(bus Bus, addr func() uint16) []microop {
	return []microop{
		func(c *CPU, bus Bus) error { return bus.Write(addr(), c.A) },
	}
}

func (c *CPU) buildLDAabs(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			addr, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			v, err := bus.Read(addr)
			if err != nil {
				return err
			}
			c.A = v
			return nil
		},
	}
}

func (c *CPU) buildSTAabs(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			addr, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			return bus.Write(addr, c.A)
		},
	}
}

func (c *CPU) buildLDHLabs(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			addr, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			lo, err := bus.Read(addr)
			if err != nil {
				return err
			}
			hi, err := bus.Read(addr + 1)
			if err != nil {
				return err
			}
			c.setHL(uint16(hi)<<8 | uint16(lo))
			return nil
		},
	}
}

func (c *CPU) buildSTHLabs(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			addr, err := c.fetchWord(bus)
			if err != nil {
				return err
			}
			hl := c.getHL()
			if err := bus.Write(addr, uint8(hl)); err != nil {
				return err
			}
			return bus.Write(addr+1, uint8(hl>>8))
		},
	}
}

const (
	aluAdd = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

func (c *CPU) alu(op uint8, v uint8) {
	a := c.A
	switch op {
	case aluAdd, aluAdc:
		carryIn := uint8(0)
		if op == aluAdc && c.flags.Carry {
			carryIn = 1
		}
		result := uint16(a) + uint16(v) + uint16(carryIn)
		c.flags.HalfCarry = (a&0xf)+(v&0xf)+carryIn > 0xf
		c.flags.Carry = result > 0xff
		r8 := uint8(result)
		c.flags.ParityOverflow = (a^v)&0x80 == 0 && (a^r8)&0x80 != 0
		c.flags.Subtract = false
		c.flags.setSZXY(r8)
		c.A = r8
	case aluSub, aluSbc, aluCp:
		borrowIn := uint8(0)
		if op == aluSbc && c.flags.Carry {
			borrowIn = 1
		}
		result := int16(a) - int16(v) - int16(borrowIn)
		r8 := uint8(result)
		c.flags.HalfCarry = (a&0xf) < (v&0xf)+borrowIn
		c.flags.Carry = result < 0
		c.flags.ParityOverflow = (a^v)&0x80 != 0 && (a^r8)&0x80 != 0
		c.flags.Subtract = true
		c.flags.setSZXY(r8)
		if op != aluCp {
			c.A = r8
		}
	case aluAnd:
		c.A &= v
		c.flags.HalfCarry = true
		c.flags.Carry, c.flags.Subtract = false, false
		c.flags.ParityOverflow = parity(c.A)
		c.flags.setSZXY(c.A)
	case aluXor:
		c.A ^= v
		c.flags.HalfCarry, c.flags.Carry, c.flags.Subtract = false, false, false
		c.flags.ParityOverflow = parity(c.A)
		c.flags.setSZXY(c.A)
	case aluOr:
		c.A |= v
		c.flags.HalfCarry, c.flags.Carry, c.flags.Subtract = false, false, false
		c.flags.ParityOverflow = parity(c.A)
		c.flags.setSZXY(c.A)
	}
}

func (c *CPU) buildAluR(bus Bus, op, src uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			v, err := c.getR8(bus, src)
			if err != nil {
				return err
			}
			c.alu(op, v)
			return nil
		},
	}
}

func (c *CPU) buildAluN(bus Bus, op uint8) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			n, err := c.fetchByte(bus)
			if err != nil {
				return err
			}
			c.alu(op, n)
			return nil
		},
	}
}

func (c *CPU) buildOUT(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			port, err := c.fetchByte(bus)
			if err != nil {
				return err
			}
			return bus.Out(port, c.A)
		},
	}
}

func (c *CPU) buildIN(bus Bus) []microop {
	return []microop{
		func(c *CPU, bus Bus) error {
			port, err := c.fetchByte(bus)
			if err != nil {
				return err
			}
			v, err := bus.In(port)
			if err != nil {
				return err
			}
			c.A = v
			return nil
		},
	}
}
