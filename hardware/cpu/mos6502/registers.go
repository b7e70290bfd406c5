package mos6502

import "fmt"

// Flags is the 6502 status register. The
// unused bit 5 is always read back as 1 and is not modelled as a field;
// nor is the B (break) bit, which exists only in the pushed stack image
// (set for BRK/PHP, clear for interrupts; see ToByte).
type Flags struct {
	Negative bool
	Overflow bool
	Decimal  bool
	Interrupt bool
	Zero     bool
	Carry    bool
}

// ToByte packs the flags into the conventional NV-BDIZC layout, with the
// unused bit and Break set according to brk (true when pushed by BRK/PHP,
// false when pushed by a hardware interrupt).
func (f Flags) ToByte(brk bool) uint8 {
	var v uint8
	if f.Negative {
		v |= 0x80
	}
	if f.Overflow {
		v |= 0x40
	}
	v |= 0x20 // unused bit, always 1
	if brk {
		v |= 0x10
	}
	if f.Decimal {
		v |= 0x08
	}
	if f.Interrupt {
		v |= 0x04
	}
	if f.Zero {
		v |= 0x02
	}
	if f.Carry {
		v |= 0x01
	}
	return v
}

// FromByte unpacks a pushed/PLP'd status byte. Break and the unused bit are
// not stored as CPU state; they only exist in the pushed byte image.
func (f *Flags) FromByte(v uint8) {
	f.Negative = v&0x80 != 0
	f.Overflow = v&0x40 != 0
	f.Decimal = v&0x08 != 0
	f.Interrupt = v&0x04 != 0
	f.Zero = v&0x02 != 0
	f.Carry = v&0x01 != 0
}

func (f Flags) String() string {
	bit := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return ch - 'A' + 'a'
	}
	return fmt.Sprintf("%c%c--%c%c%c%c",
		bit(f.Negative, 'N'), bit(f.Overflow, 'V'),
		bit(f.Decimal, 'D'), bit(f.Interrupt, 'I'),
		bit(f.Zero, 'Z'), bit(f.Carry, 'C'))
}

// setNZ updates Negative/Zero from a computed 8 bit result, the rule used
// by almost every instruction that produces a value.
func (f *Flags) setNZ(v uint8) {
	f.Negative = v&0x80 != 0
	f.Zero = v == 0
}
