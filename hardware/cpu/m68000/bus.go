// Package m68000 implements the 68000 used as the Genesis/Sega CD primary
// CPU (and, with a second instance, the Sega CD sub-CPU) as a micro-cycle
// state machine in the same idiom as the mos6502/w65c816 cores: Step
// advances exactly one master-clock unit of work, resuming a partially
// decoded instruction across calls rather than running it to completion.
package m68000

// Bus is the contract the CPU is driven through. Addresses are 24 bits,
// matching the 65C816's own address width; the top byte of any computed
// address is masked off by callers.
type Bus interface {
	ReadByte(addr uint32) (uint8, error)
	ReadWord(addr uint32) (uint16, error)
	WriteByte(addr uint32, data uint8) error
	WriteWord(addr uint32, data uint16) error

	// Idle represents a bus-inactive cycle; it still advances the master
	// clock and must be visible to whatever ticks the VDP in lockstep.
	Idle()

	// InterruptLevel reports the current priority (0-7) being asserted on
	// the CPU's IPL0-2 lines, sampled each instruction boundary.
	InterruptLevel() uint8

	// AcknowledgeInterrupt returns the vector number the CPU takes once it
	// accepts an interrupt at the given level: an autovector (24+level) or
	// a vector the device supplies.
	AcknowledgeInterrupt(level uint8) (vector uint8, ok bool)
}

func maskAddr(addr uint32) uint32 { return addr & 0xffffff }
