package mos6502

// Mode names the 6502 addressing modes. Zero-page indexed addressing wraps
// within the zero page ($FF -> $00).
type Mode int

const (
	ModeImplied Mode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndexedIndirect // (zp,X)
	ModeIndirectIndexed // (zp),Y
	ModeRelative
	ModeJSR // JSR's unique fetch-lo/internal/push/push/fetch-hi sequence
	ModePush // PHA/PHP: idle, then push (a real, separate write cycle)
	ModePLA  // PLA/PLP: idle, SP increment idle, pop
	ModeRTS // RTS: idle, idle, pop PCL, pop PCH, idle (PC increment)
	ModeRTI // RTI: idle, idle, pop P, pop PCL, pop PCH
)

// rwKind controls how an instruction consumes its operand once addressing
// has computed it: rwRead fetches into c.fetched, rwWrite leaves an
// address in c.addr for exec to write to, rwModify does both plus a dummy
// write-back of the unmodified value (the real 6502's read-modify-write
// bus pattern, which always pays the indexed penalty cycle), and rwNone
// covers instructions with no addressable operand at
// all (implied, accumulator, relative, JSR).
type rwKind int

const (
	rwNone rwKind = iota
	rwRead
	rwWrite
	rwModify
)

// addressingMicroops returns the complete micro-op sequence for one
// instruction: operand addressing plus exec, fused onto the same cycle
// wherever real hardware does the ALU operation in parallel with a bus
// cycle rather than spending a cycle of its own, matching per-mode cycle
// counts. Addressing modes whose cycle count is data-dependent
// (indexed reads that may or may not cross a page) append their own extra
// micro-op onto c.queue at runtime rather than padding the statically
// built sequence, so Step never advances more than the real hardware
// would for a given operand.
func addressingMicroops(mode Mode, rw rwKind, exec microop) []microop {
	switch mode {
	case ModeImplied, ModeAccumulator:
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return exec(c, bus) },
		}

	case ModeImmediate:
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.PC)
				if err != nil {
					return err
				}
				c.fetched = v
				c.PC++
				return exec(c, bus)
			},
		}

	case ModeZeroPage:
		ops := []microop{
			func(c *CPU, bus Bus) error {
				lo, err := bus.Read(c.PC)
				c.addr = uint16(lo)
				c.PC++
				return err
			},
		}
		return appendRW(ops, rw, exec)

	case ModeZeroPageX:
		return zeroPageIndexed(rw, true, exec)
	case ModeZeroPageY:
		return zeroPageIndexed(rw, false, exec)

	case ModeAbsolute:
		ops := []microop{
			func(c *CPU, bus Bus) error {
				lo, err := bus.Read(c.PC)
				c.operandLo = lo
				c.PC++
				return err
			},
			func(c *CPU, bus Bus) error {
				hi, err := bus.Read(c.PC)
				c.operandHi = hi
				c.PC++
				c.addr = uint16(hi)<<8 | uint16(c.operandLo)
				return err
			},
		}
		return appendRW(ops, rw, exec)

	case ModeAbsoluteX:
		return absoluteIndexed(rw, true, exec)
	case ModeAbsoluteY:
		return absoluteIndexed(rw, false, exec)

	case ModeIndexedIndirect:
		ops := []microop{
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.PC)
				c.operandLo = v
				c.PC++
				return err
			},
			func(c *CPU, bus Bus) error { bus.Idle(); return nil }, // add X, zp wrap
			func(c *CPU, bus Bus) error {
				ptr := uint8(c.operandLo + c.X)
				lo, err := bus.Read(uint16(ptr))
				c.addr = uint16(lo)
				return err
			},
			func(c *CPU, bus Bus) error {
				ptr := uint8(c.operandLo + c.X + 1)
				hi, err := bus.Read(uint16(ptr))
				c.addr |= uint16(hi) << 8
				return err
			},
		}
		return appendRW(ops, rw, exec)

	case ModeIndirectIndexed:
		ops := []microop{
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.PC)
				c.operandLo = v
				c.PC++
				return err
			},
			func(c *CPU, bus Bus) error {
				lo, err := bus.Read(uint16(c.operandLo))
				c.addr = uint16(lo) // pointer low byte, temporarily
				return err
			},
			func(c *CPU, bus Bus) error {
				hi, err := bus.Read(uint16(uint8(c.operandLo + 1)))
				c.operandHi = hi // pointer high byte
				return err
			},
		}
		final := func(c *CPU, bus Bus) error {
			base := uint16(c.operandHi)<<8 | c.addr
			sum := base + uint16(c.Y)
			c.pageCrossed = (sum & 0xff00) != (base & 0xff00)

			switch rw {
			case rwRead:
				c.addr = (base & 0xff00) | (sum & 0xff)
				if !c.pageCrossed {
					v, err := bus.Read(c.addr)
					if err != nil {
						return err
					}
					c.fetched = v
					return exec(c, bus)
				}
				bus.Idle()
				c.queue = append(c.queue, func(c *CPU, bus Bus) error {
					c.addr = base + uint16(c.Y)
					v, err := bus.Read(c.addr)
					if err != nil {
						return err
					}
					c.fetched = v
					return exec(c, bus)
				})
				return nil
			case rwModify:
				c.addr = base + uint16(c.Y)
				bus.Idle()
				c.queue = append(c.queue,
					func(c *CPU, bus Bus) error {
						v, err := bus.Read(c.addr)
						c.fetched = v
						return err
					},
					func(c *CPU, bus Bus) error {
						return bus.Write(c.addr, c.fetched)
					},
					exec,
				)
				return nil
			default: // rwWrite: always pays the fix-up cycle
				c.addr = base + uint16(c.Y)
				bus.Idle()
				c.queue = append(c.queue, exec)
				return nil
			}
		}
		ops = append(ops, final)
		return ops

	case ModeIndirect:
		return []microop{
			func(c *CPU, bus Bus) error {
				lo, err := bus.Read(c.PC)
				c.operandLo = lo
				c.PC++
				return err
			},
			func(c *CPU, bus Bus) error {
				hi, err := bus.Read(c.PC)
				c.operandHi = hi
				c.PC++
				return err
			},
			func(c *CPU, bus Bus) error {
				ptr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
				lo, err := bus.Read(ptr)
				c.fetched = lo
				return err
			},
			func(c *CPU, bus Bus) error {
				// JMP (indirect) page-wrap bug: high byte fetch wraps
				// within the same page rather than crossing it.
				ptr := uint16(c.operandHi)<<8 | uint16(uint8(c.operandLo+1))
				hi, err := bus.Read(ptr)
				if err != nil {
					return err
				}
				c.addr = uint16(hi)<<8 | uint16(c.fetched)
				return exec(c, bus)
			},
		}

	case ModeRelative:
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.PC)
				if err != nil {
					return err
				}
				c.operandLo = v
				c.PC++
				return exec(c, bus)
			},
		}

	case ModeJSR:
		// Real JSR fetches the low byte, does an internal stack-pointer
		// cycle, pushes PCH then PCL (PC pointing at the instruction's
		// last byte, the well-known 6502 off-by-one), then fetches the
		// high byte and jumps. Six cycles total including opcode fetch.
		return []microop{
			func(c *CPU, bus Bus) error {
				lo, err := bus.Read(c.PC)
				c.operandLo = lo
				c.PC++
				return err
			},
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				retAddr := c.PC
				return c.push(bus, uint8(retAddr>>8))
			},
			func(c *CPU, bus Bus) error {
				retAddr := c.PC
				return c.push(bus, uint8(retAddr))
			},
			func(c *CPU, bus Bus) error {
				hi, err := bus.Read(c.PC)
				if err != nil {
					return err
				}
				c.PC = uint16(hi)<<8 | uint16(c.operandLo)
				return nil
			},
		}

	case ModePush:
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			exec,
		}

	case ModePLA:
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { bus.Idle(); return nil }, // SP++ happens here
			func(c *CPU, bus Bus) error {
				v, err := c.pop(bus)
				if err != nil {
					return err
				}
				c.fetched = v
				return exec(c, bus)
			},
		}

	case ModeRTS:
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				lo, err := c.pop(bus)
				c.operandLo = lo
				return err
			},
			func(c *CPU, bus Bus) error {
				hi, err := c.pop(bus)
				c.operandHi = hi
				return err
			},
			func(c *CPU, bus Bus) error {
				c.PC = uint16(c.operandHi)<<8 | uint16(c.operandLo)
				c.PC++
				bus.Idle()
				return nil
			},
		}

	case ModeRTI:
		return []microop{
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
			func(c *CPU, bus Bus) error {
				v, err := c.pop(bus)
				c.P.FromByte(v)
				return err
			},
			func(c *CPU, bus Bus) error {
				lo, err := c.pop(bus)
				c.operandLo = lo
				return err
			},
			func(c *CPU, bus Bus) error {
				hi, err := c.pop(bus)
				if err != nil {
					return err
				}
				c.PC = uint16(hi)<<8 | uint16(c.operandLo)
				return nil
			},
		}
	}
	return nil
}

// appendRW appends the micro-ops needed to finish an instruction once ops
// has computed c.addr, fusing exec onto the same cycle as the data read
// for rwRead (real hardware operates combinationally on the same cycle it
// reads), using exec itself as the single write cycle for rwWrite, and
// inserting the real read + dummy-write-back cycles before exec (which
// performs the final write) for rwModify.
func appendRW(ops []microop, rw rwKind, exec microop) []microop {
	switch rw {
	case rwRead:
		return append(ops, func(c *CPU, bus Bus) error {
			v, err := bus.Read(c.addr)
			if err != nil {
				return err
			}
			c.fetched = v
			return exec(c, bus)
		})
	case rwModify:
		return append(ops,
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.addr)
				c.fetched = v
				return err
			},
			func(c *CPU, bus Bus) error {
				// dummy write-back of the unmodified value
				return bus.Write(c.addr, c.fetched)
			},
			exec,
		)
	default: // rwWrite
		return append(ops, exec)
	}
}

// zeroPageIndexed builds the X/Y-indexed zero page sequence. The index
// addition always costs an extra idle cycle and always wraps within the
// zero page.
func zeroPageIndexed(rw rwKind, useX bool, exec microop) []microop {
	ops := []microop{
		func(c *CPU, bus Bus) error {
			lo, err := bus.Read(c.PC)
			c.operandLo = lo
			c.PC++
			return err
		},
		func(c *CPU, bus Bus) error {
			bus.Idle()
			if useX {
				c.addr = uint16(uint8(c.operandLo + c.X))
			} else {
				c.addr = uint16(uint8(c.operandLo + c.Y))
			}
			return nil
		},
	}
	return appendRW(ops, rw, exec)
}

// absoluteIndexed builds the X/Y-indexed absolute sequence. The
// page-boundary-cross penalty cycle is only paid for reads when the
// crossing actually happens, but is always paid for writes/RMW; the
// extra cycle (when it happens) is appended to c.queue at runtime rather
// than reserved up front, with exec fused onto whichever cycle performs
// the final bus access.
func absoluteIndexed(rw rwKind, useX bool, exec microop) []microop {
	index := func(c *CPU) uint8 {
		if useX {
			return c.X
		}
		return c.Y
	}

	ops := []microop{
		func(c *CPU, bus Bus) error {
			lo, err := bus.Read(c.PC)
			c.operandLo = lo
			c.PC++
			return err
		},
		func(c *CPU, bus Bus) error {
			hi, err := bus.Read(c.PC)
			c.operandHi = hi
			c.PC++
			return err
		},
		func(c *CPU, bus Bus) error {
			base := uint16(c.operandHi)<<8 | uint16(c.operandLo)
			sum := base + uint16(index(c))
			c.pageCrossed = (sum & 0xff00) != (base & 0xff00)
			c.addr = (base & 0xff00) | (sum & 0xff)

			switch rw {
			case rwRead:
				if !c.pageCrossed {
					v, err := bus.Read(c.addr)
					if err != nil {
						return err
					}
					c.fetched = v
					return exec(c, bus)
				}
				bus.Idle()
				c.queue = append(c.queue, func(c *CPU, bus Bus) error {
					c.addr = base + uint16(index(c))
					v, err := bus.Read(c.addr)
					if err != nil {
						return err
					}
					c.fetched = v
					return exec(c, bus)
				})
				return nil
			case rwModify:
				c.addr = base + uint16(index(c))
				bus.Idle()
				c.queue = append(c.queue,
					func(c *CPU, bus Bus) error {
						v, err := bus.Read(c.addr)
						c.fetched = v
						return err
					},
					func(c *CPU, bus Bus) error {
						return bus.Write(c.addr, c.fetched)
					},
					exec,
				)
				return nil
			default: // rwWrite: always pay the fix-up cycle
				c.addr = base + uint16(index(c))
				bus.Idle()
				c.queue = append(c.queue, exec)
				return nil
			}
		},
	}
	return ops
}
