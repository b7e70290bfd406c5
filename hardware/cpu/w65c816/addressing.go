package w65c816

// Unlike mos6502 (where an opcode's cycle count is fixed at compile time,
// modulo the single page-cross fixup), a 65C816 opcode's cycle count also
// depends on the *live* M/X width flags and on whether the direct-page
// register's low byte is zero. So, instead of a static per-mode microop
// table, each opcode stores a build function that is invoked at decode
// time, after the opcode byte is known and with the current CPU flags in
// hand, and returns the right-length queue for *this* dispatch: in
// emulation mode with a zero direct-page low byte, dp,X lookups wrap within
// their 256-byte page, and operand widths depend on the current M/X flags.

type execFn func(c *CPU, bus Bus) error

type rwKind int

const (
	rwNone rwKind = iota
	rwRead
	rwWrite
	rwModify
)

// wideA / wideXY read the CPU's current M and X flags (inverted: the flag
// means *8-bit*, the helper means *is this access 16-bit*).
func wideA(c *CPU) bool  { return !c.P.MemWidth8 }
func wideXY(c *CPU) bool { return !c.P.IndexWidth8 }

func fetchPC(c *CPU, bus Bus) (uint8, error) {
	v, err := bus.Read(bankAddr(c.PBR, c.PC))
	c.PC++
	return v, err
}

// dpExtraIdle appends the one idle cycle real hardware spends whenever D's
// low byte is non-zero, before the first operand fetch.
func dpExtraIdle(c *CPU) []microop {
	if c.D&0x00ff != 0 {
		return []microop{func(c *CPU, bus Bus) error { bus.Idle(); return nil }}
	}
	return nil
}

// immediateBuild fetches a 1- or 2-byte immediate operand (width decided at
// build time from wide) and fuses exec onto the last fetch cycle.
func immediateBuild(wide func(*CPU) bool, exec execFn) func(c *CPU, def opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		if !wide(c) {
			return []microop{func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				if err != nil {
					return err
				}
				c.fetched = uint16(v)
				return exec(c, bus)
			}}
		}
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
				return exec(c, bus)
			},
		}
	}
}

// readWriteTail performs the final read-exec, write-only, or
// read-modify-write-exec cycle(s) against c.addr, width-aware.
func readWriteTail(rw rwKind, wide bool, exec execFn) []microop {
	switch rw {
	case rwRead:
		if !wide {
			return []microop{func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.addr)
				if err != nil {
					return err
				}
				c.fetched = uint16(v)
				return exec(c, bus)
			}}
		}
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.addr)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(incAddr(c.addr))
				if err != nil {
					return err
				}
				c.fetched = uint16(v)<<8 | uint16(c.operandLo)
				return exec(c, bus)
			},
		}
	case rwWrite:
		// exec writes the low byte (or the only byte, in 8-bit mode) and,
		// for a 16-bit store, appends one more microop onto c.queue to
		// write the high byte on the following cycle — the same
		// dynamic-append technique mos6502 uses for its page-cross
		// fixup, since whether a second write cycle is needed depends on
		// the live M/X flag, not on the opcode byte alone.
		return []microop{func(c *CPU, bus Bus) error { return exec(c, bus) }}
	default: // rwModify
		if !wide {
			return []microop{
				func(c *CPU, bus Bus) error {
					v, err := bus.Read(c.addr)
					c.fetched = uint16(v)
					return err
				},
				func(c *CPU, bus Bus) error { return bus.Write(c.addr, uint8(c.fetched)) },
				func(c *CPU, bus Bus) error { return exec(c, bus) },
			}
		}
		return []microop{
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(c.addr)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(incAddr(c.addr))
				c.fetched = uint16(v)<<8 | uint16(c.operandLo)
				return err
			},
			func(c *CPU, bus Bus) error { return bus.Write(incAddr(c.addr), uint8(c.fetched>>8)) },
			func(c *CPU, bus Bus) error { return bus.Write(c.addr, uint8(c.fetched)) },
			func(c *CPU, bus Bus) error { return exec(c, bus) },
		}
	}
}

func incAddr(a uint32) uint32 {
	bank := a & 0xff0000
	off := uint16(a) + 1
	return bank | uint32(off)
}

func directPageBuild(rw rwKind, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{func(c *CPU, bus Bus) error {
			v, err := fetchPC(c, bus)
			c.operandLo = v
			return err
		}}
		ops = append(ops, dpExtraIdle(c)...)
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					c.addr = bankAddr(0, c.D+uint16(c.operandLo))
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

func directPageIndexedBuild(rw rwKind, useX bool, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{func(c *CPU, bus Bus) error {
			v, err := fetchPC(c, bus)
			c.operandLo = v
			return err
		}}
		ops = append(ops, dpExtraIdle(c)...)
		ops = append(ops, func(c *CPU, bus Bus) error { bus.Idle(); return nil })
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					idx := c.X
					if !useX {
						idx = c.Y
					}
					off := uint16(c.operandLo) + idx
					if c.Emulation && c.D&0x00ff == 0 {
						// emulation mode with DL zero: dp,X wraps within the page
						off &= 0x00ff
					}
					c.addr = bankAddr(0, c.D+off)
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

func absoluteBuild(rw rwKind, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
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
		}
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					c.addr = bankAddr(c.DBR, uint16(c.operandHi)<<8|uint16(c.operandLo))
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

// absoluteIndexedBuild always spends the index-add idle cycle (the 65C816,
// unlike the 6502, does not skip it on non-crossing reads in most modes);
// this matches the simplifying convention original_source's emulator core
// uses for X/Y-indexed absolute accesses.
func absoluteIndexedBuild(rw rwKind, useX bool, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
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
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		}
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					idx := c.X
					if !useX {
						idx = c.Y
					}
					base := uint32(c.operandHi)<<8 | uint32(c.operandLo)
					c.addr = bankAddr(c.DBR, 0) + (base+uint32(idx))&0xffff
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

// absoluteLongBuild reads a 3-byte bank:offset operand (the 65C816's
// full 24-bit addressing) and never uses DBR.
func absoluteLongBuild(rw rwKind, useX bool, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
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
		}
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					v, err := fetchPC(c, bus)
					if err != nil {
						return err
					}
					off := uint32(c.operandHi)<<8 | uint32(c.operandLo)
					if useX {
						off += uint32(c.X)
					}
					c.addr = uint32(v)<<16 | (off & 0xffffff)
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

// directPageIndirectBuild covers (dp), [dp], (dp,X) and (dp),Y: fetch the
// direct-page pointer, read a 16- or 24-bit address out of bank 0, apply
// indexing, then perform the final access.
func directPageIndirectBuild(rw rwKind, long, preIndexX, postIndexY bool, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{func(c *CPU, bus Bus) error {
			v, err := fetchPC(c, bus)
			c.operandLo = v
			return err
		}}
		ops = append(ops, dpExtraIdle(c)...)
		if preIndexX {
			ops = append(ops, func(c *CPU, bus Bus) error { bus.Idle(); return nil })
		}
		ptrBase := func(c *CPU) uint16 {
			p := c.D + uint16(c.operandLo)
			if preIndexX {
				p += c.X
			}
			return p
		}
		ops = append(ops,
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(bankAddr(0, ptrBase(c)))
				c.fetched = uint16(v)
				return err
			},
			func(c *CPU, bus Bus) error {
				v, err := bus.Read(bankAddr(0, ptrBase(c)+1))
				c.fetched = uint16(v)<<8 | c.fetched
				return err
			},
		)
		if long {
			ops = append(ops, func(c *CPU, bus Bus) error {
				bank, err := bus.Read(bankAddr(0, ptrBase(c)+2))
				c.addr = uint32(bank)<<16 | uint32(c.fetched)
				return err
			})
		} else {
			ops = append(ops, func(c *CPU, bus Bus) error {
				c.addr = bankAddr(c.DBR, c.fetched)
				return nil
			})
		}
		if postIndexY {
			ops = append(ops, func(c *CPU, bus Bus) error { bus.Idle(); return nil })
		}
		// fold the final address-fixup step into the tail's first op
		last := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					if err := last(c, bus); err != nil {
						return err
					}
					if postIndexY {
						c.addr = (c.addr & 0xff0000) | uint32(uint16(c.addr)+c.Y)
					}
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

func stackRelativeBuild(rw rwKind, wide func(*CPU) bool, exec execFn) func(*CPU, opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		ops := []microop{
			func(c *CPU, bus Bus) error {
				v, err := fetchPC(c, bus)
				c.operandLo = v
				return err
			},
			func(c *CPU, bus Bus) error { bus.Idle(); return nil },
		}
		tail := readWriteTail(rw, wide(c), exec)
		wrapped := make([]microop, len(tail))
		for i, op := range tail {
			op := op
			if i == 0 {
				wrapped[i] = func(c *CPU, bus Bus) error {
					c.addr = bankAddr(0, c.S+uint16(c.operandLo))
					return op(c, bus)
				}
			} else {
				wrapped[i] = op
			}
		}
		return append(ops, wrapped...)
	}
}

func impliedBuild(exec execFn) func(*CPU, opcodeDef) []microop {
	return func(c *CPU, def opcodeDef) []microop {
		return []microop{func(c *CPU, bus Bus) error {
			bus.Idle()
			return exec(c, bus)
		}}
	}
}
