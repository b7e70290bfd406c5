package lr35902

// Flags is the LR35902's F register. The Sign and Parity/Overflow flags
// the full Z80 carries are gone; only Zero, Subtract, HalfCarry and Carry
// remain, and the low nibble of F always reads back zero.
type Flags struct {
	Zero, Subtract, HalfCarry, Carry bool
}

func (f Flags) ToByte() uint8 {
	var v uint8
	if f.Carry {
		v |= 1 << 4
	}
	if f.HalfCarry {
		v |= 1 << 5
	}
	if f.Subtract {
		v |= 1 << 6
	}
	if f.Zero {
		v |= 1 << 7
	}
	return v
}

func (f *Flags) FromByte(v uint8) {
	f.Carry = v&(1<<4) != 0
	f.HalfCarry = v&(1<<5) != 0
	f.Subtract = v&(1<<6) != 0
	f.Zero = v&(1<<7) != 0
}
