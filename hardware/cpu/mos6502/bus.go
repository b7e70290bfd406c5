// Package mos6502 implements the NES's 6502 derivative (no binary-coded
// decimal in hardware, but the flag is tracked since software can still set
// it) as a micro-cycle state machine, in the style of the teacher's 6507
// core: Step executes exactly one master-clock unit of CPU work, resuming
// a partially-decoded instruction rather than running it to completion in
// one call.
package mos6502

// Bus is the contract the CPU is driven through. Address is 16 bits, the
// usual 6502 family address width.
type Bus interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, data uint8) error

	// Idle represents a bus-inactive cycle. It still advances the master
	// clock and must be visible to whatever is ticking the video
	// processor in lockstep, so it is a distinct call from Read/Write
	// rather than a Read that's silently discarded.
	Idle()

	// NMI and IRQ report the current state of the interrupt lines, and
	// are sampled at each boundary between instructions.
	NMI() bool
	IRQ() bool

	// AcknowledgeNMI edge-clears the NMI latch once the CPU has begun
	// servicing it.
	AcknowledgeNMI()
}
