// Package w65c816 implements the SNES's 65C816 as a micro-cycle state
// machine, in the same style as the sibling mos6502 package: Step executes
// exactly one master-clock unit, resuming a partially decoded instruction
// rather than running one to completion per call. Addresses are 24 bits
// (bank byte + 16-bit offset), and the accumulator/index registers switch
// between 8-bit and 16-bit width at runtime via the P register's M and X
// flags.
package w65c816

// Bus is the contract the CPU is driven through. addr is the full 24-bit
// bank:offset address — wider than the 6502's 16-bit address space.
type Bus interface {
	Read(addr uint32) (uint8, error)
	Write(addr uint32, data uint8) error
	Idle()

	NMI() bool
	IRQ() bool
	AcknowledgeNMI()
}

func bankAddr(bank uint8, offset uint16) uint32 {
	return uint32(bank)<<16 | uint32(offset)
}
