package z80

// Flags is the Z80's F register, decomposed bit by bit. Beyond the usual
// status flags, the Z80 adds a second carry-like half-carry flag and the
// undocumented X/Y bits copied from the ALU result, which commercial
// software occasionally inspects.
type Flags struct {
	Carry, Subtract, ParityOverflow, HalfCarry, Zero, Sign bool
	X, Y bool // undocumented copies of result bits 3 and 5
}

func (f Flags) ToByte() uint8 {
	var v uint8
	if f.Carry {
		v |= 1 << 0
	}
	if f.Subtract {
		v |= 1 << 1
	}
	if f.ParityOverflow {
		v |= 1 << 2
	}
	if f.X {
		v |= 1 << 3
	}
	if f.HalfCarry {
		v |= 1 << 4
	}
	if f.Y {
		v |= 1 << 5
	}
	if f.Zero {
		v |= 1 << 6
	}
	if f.Sign {
		v |= 1 << 7
	}
	return v
}

func (f *Flags) FromByte(v uint8) {
	f.Carry = v&(1<<0) != 0
	f.Subtract = v&(1<<1) != 0
	f.ParityOverflow = v&(1<<2) != 0
	f.X = v&(1<<3) != 0
	f.HalfCarry = v&(1<<4) != 0
	f.Y = v&(1<<5) != 0
	f.Zero = v&(1<<6) != 0
	f.Sign = v&(1<<7) != 0
}

func (f *Flags) setSZXY(result uint8) {
	f.Sign = result&0x80 != 0
	f.Zero = result == 0
	f.X = result&0x08 != 0
	f.Y = result&0x20 != 0
}

func parity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}
