package w65c816

// Flags is the 65C816 processor status register. In native mode all eight
// bits are meaningful; in emulation mode bit 4 reads as the 6502-compatible
// B (break) flag instead of X, and M/X are pinned true.
type Flags struct {
	Carry, Zero, IRQDisable, Decimal bool
	// X is also used as the 6502-style Index-width flag; in emulation mode
	// it is pinned true and bit 4 instead carries Break on push.
	IndexWidth8 bool // X flag: true = 8-bit index registers
	MemWidth8   bool // M flag: true = 8-bit accumulator/memory
	Overflow, Negative bool
}

func (p Flags) ToByte(emulation, brk bool) uint8 {
	var b uint8
	if p.Carry {
		b |= 0x01
	}
	if p.Zero {
		b |= 0x02
	}
	if p.IRQDisable {
		b |= 0x04
	}
	if p.Decimal {
		b |= 0x08
	}
	if emulation {
		if brk {
			b |= 0x10
		}
	} else if p.IndexWidth8 {
		b |= 0x10
	}
	if emulation || p.MemWidth8 {
		b |= 0x20
	}
	if p.Overflow {
		b |= 0x40
	}
	if p.Negative {
		b |= 0x80
	}
	return b
}

func (p *Flags) FromByte(b uint8, emulation bool) {
	p.Carry = b&0x01 != 0
	p.Zero = b&0x02 != 0
	p.IRQDisable = b&0x04 != 0
	p.Decimal = b&0x08 != 0
	if !emulation {
		p.IndexWidth8 = b&0x10 != 0
	}
	p.MemWidth8 = emulation || b&0x20 != 0
	p.Overflow = b&0x40 != 0
	p.Negative = b&0x80 != 0
	if emulation {
		p.IndexWidth8 = true
	}
}

func (p *Flags) setNZ8(v uint8) {
	p.Zero = v == 0
	p.Negative = v&0x80 != 0
}

func (p *Flags) setNZ16(v uint16) {
	p.Zero = v == 0
	p.Negative = v&0x8000 != 0
}
