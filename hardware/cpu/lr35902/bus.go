// Package lr35902 implements the Sharp LR35902 (SM83), the Game Boy and
// Game Boy Color's primary CPU: a Z80 derivative with a reduced register
// file and no I/O port space, modeled as a micro-cycle state machine in
// the same idiom as this module's other CPU cores (z80, mos6502,
// w65c816). Step advances exactly one M-cycle, resuming a partially
// decoded instruction across calls.
package lr35902

// Bus is the contract the CPU is driven through. Unlike z80.Bus there is
// no separate I/O port space and no NMI line; interrupts are instead five
// independently-maskable, memory-mapped sources (VBlank, STAT, Timer,
// Serial, Joypad) with fixed vectors, already ANDed against the enable
// mask (IE) by the caller, so PendingInterrupts reports only requests the
// CPU is actually allowed to service.
type Bus interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, data uint8) error

	Idle()

	// PendingInterrupts returns IF&IE, bit0=VBlank, bit1=STAT, bit2=Timer,
	// bit3=Serial, bit4=Joypad: the real hardware priority order, lowest
	// bit serviced first.
	PendingInterrupts() uint8
	// AcknowledgeInterrupt clears the IF bit for the source the CPU has
	// just started vectoring to.
	AcknowledgeInterrupt(bit uint8)
}

const (
	IntVBlank uint8 = 1 << 0
	IntSTAT   uint8 = 1 << 1
	IntTimer  uint8 = 1 << 2
	IntSerial uint8 = 1 << 3
	IntJoypad uint8 = 1 << 4
)
