// Package segacd implements the Sega CD expansion's memory map: the
// 512 KB program RAM shared (in banked 128 KB windows) with the main
// 68000, the 256 KB word RAM arbitrated between both CPUs, battery
// backup RAM and the optional RAM cartridge, the PCM sound chip's
// register space, and the $A12000/$FF8000 register windows that
// coordinate the two CPUs. The register file holds six interrupt-enable
// bits; the sub CPU is sent levels 1-5 (graphics, software, timer, CDD,
// CDC), and the subcode interrupt (level 6) has no source here and is
// never raised. Grounded on
// original_source/backend/segacd-core/src/memory.rs, generalizing the
// teacher's hardware/memory/bus.ChipBus register-mapped-chip convention
// to a second CPU rather than a single VCS chip.
package segacd

import "github.com/silicontrace/multicore/hardware/memory/containers"

const (
	PRGRAMLen       = 512 * 1024
	BackupRAMLen    = 8 * 1024
	RAMCartridgeLen = 128 * 1024

	timerDivider = 1536 // master clocks per stopwatch/timer tick

	ramCartridgeSizeByte = 0x04 // 8 KB * 2^N, N=4 -> 128 KB
)

// scdCPU distinguishes which 68000 is making a register-file access,
// since a handful of registers (PRG-RAM write protection, host data
// drain bookkeeping) behave differently for the main CPU than the sub
// CPU.
type scdCPU int

const (
	scdCPUMain scdCPU = iota
	scdCPUSub
)

// SegaCd is the expansion unit's shared memory and register state. It
// does not itself implement m68000.Bus for the main CPU (the Genesis
// system shell's existing cartridge-slot bus does that, delegating into
// ReadMainRegisterByte/WriteMainRegisterByte etc.); SubBus wraps it to
// satisfy m68000.Bus for the sub CPU.
type SegaCd struct {
	prgRAM *containers.RAM
	wordRAM *wordRAM

	backupRAM        *containers.RAM
	enableRAMCartridge bool
	ramCartridge     *containers.RAM
	ramCartWritesEnabled bool
	backupRAMDirty   bool

	regs registers
	cdc  *cdc
	cdd  *cdd
	pcm  *pcm

	timerDividerRemaining uint64

	// graphicsIntPending stands in for the graphics coprocessor's own
	// interrupt line (INT1); this package does not implement the
	// rotation/scaling coprocessor itself, so callers needing INT1 set
	// this directly (e.g. from a future GraphicsCoprocessor component).
	graphicsIntPending bool
}

func (s *SegaCd) graphicsInterruptPending() bool { return s.graphicsIntPending }
func (s *SegaCd) acknowledgeGraphicsInterrupt()  { s.graphicsIntPending = false }
func (s *SegaCd) RaiseGraphicsInterrupt()        { s.graphicsIntPending = true }

// NewSegaCd builds an expansion unit with all memory zeroed and the
// register file at its post-reset defaults.
func NewSegaCd(enableRAMCartridge bool) *SegaCd {
	return &SegaCd{
		prgRAM:               containers.NewRAM(PRGRAMLen),
		wordRAM:              newWordRAM(),
		backupRAM:            containers.NewRAM(BackupRAMLen),
		enableRAMCartridge:   enableRAMCartridge,
		ramCartridge:         containers.NewRAM(RAMCartridgeLen),
		ramCartWritesEnabled: true,
		regs:                 newRegisters(),
		cdc:                  newCDC(),
		cdd:                  newCDD(),
		pcm:                  newPCM(),
		timerDividerRemaining: timerDivider,
	}
}

func (s *SegaCd) Reset() {
	s.regs = newRegisters()
	s.timerDividerRemaining = timerDivider
}

// Tick advances the stopwatch and general-purpose timer by
// masterClockCycles master clocks, firing the timer's INT3 request
// every time its programmed interval elapses.
func (s *SegaCd) Tick(masterClockCycles uint64) {
	for masterClockCycles > 0 {
		if masterClockCycles < s.timerDividerRemaining {
			s.timerDividerRemaining -= masterClockCycles
			return
		}
		masterClockCycles -= s.timerDividerRemaining
		s.timerDividerRemaining = timerDivider
		s.clockTimers()
	}
}

func (s *SegaCd) clockTimers() {
	switch s.regs.timerCounter {
	case 1:
		s.regs.timerIntPending = true
		s.regs.timerCounter = 0
	case 0:
		s.regs.timerCounter = s.regs.timerInterval
	default:
		s.regs.timerCounter--
	}
	s.regs.stopwatchCounter = (s.regs.stopwatchCounter + 1) & 0x0fff
}

func (s *SegaCd) BackupRAMDirty() bool {
	dirty := s.backupRAMDirty
	s.backupRAMDirty = false
	return dirty
}

// WordRAMPriorityMode reports the 1M-mode VDP overlay priority field, for
// a future GraphicsCoprocessor/VDP word-RAM-display component to consult.
func (s *SegaCd) WordRAMPriorityMode() uint8 { return s.wordRAM.priority() }

// ReadMainPRGRAM/WriteMainPRGRAM serve the main CPU's banked 128 KB PRG
// RAM window at $020000-$03FFFF (bit 17 set of the BIOS/PRG-RAM mirror
// range); address is the offset within that window, resolved through
// the bank-select register before touching the 512 KB store.
func (s *SegaCd) ReadMainPRGRAM(address uint32) uint8 {
	return s.prgRAM.Read(s.regs.prgRAMAddr(address))
}

func (s *SegaCd) WriteMainPRGRAM(address uint32, value uint8) {
	s.writePRGRAM(s.regs.prgRAMAddr(address), value, scdCPUMain)
}

// writePRGRAM applies the sub-CPU-only write-protect boundary: writes
// below the boundary (in units of $200) from the sub CPU are dropped,
// while the main CPU is always allowed through (matching the BIOS
// reliance on unconditional main-CPU PRG-RAM writes). address is an
// absolute offset into the full 512 KB store, already bank-resolved.
func (s *SegaCd) writePRGRAM(address uint32, value uint8, cpu scdCPU) {
	boundary := uint32(s.regs.prgRAMWriteProtect) * 0x200
	if cpu == scdCPUMain || address >= boundary {
		s.prgRAM.Write(address, value)
	}
}

// ReadRAMCartridgeByte/WriteRAMCartridgeByte serve the optional RAM
// cartridge at $400000-$7FFFFF (odd addresses only).
func (s *SegaCd) ReadRAMCartridgeByte(address uint32) uint8 {
	if !s.enableRAMCartridge {
		return 0xff
	}
	if address&1 == 0 {
		return 0x00 // RAM cartridge is mapped to odd addresses only
	}
	switch {
	case address >= 0x400000 && address <= 0x4fffff:
		return ramCartridgeSizeByte
	case address >= 0x500000 && address <= 0x5fffff:
		return 0x00
	case address >= 0x600000 && address <= 0x6fffff:
		return s.ramCartridge.Read((address & 0x3ffff) >> 1)
	case address >= 0x700000 && address <= 0x7fffff:
		if s.ramCartWritesEnabled {
			return 1
		}
		return 0
	default:
		return 0xff
	}
}

func (s *SegaCd) WriteRAMCartridgeByte(address uint32, value uint8) {
	if !s.enableRAMCartridge || address&1 == 0 {
		return
	}
	switch {
	case address >= 0x600000 && address <= 0x6fffff:
		if s.ramCartWritesEnabled {
			s.ramCartridge.Write((address&0x3ffff)>>1, value)
			s.backupRAMDirty = true
		}
	case address >= 0x700000 && address <= 0x7fffff:
		s.ramCartWritesEnabled = value&0x01 != 0
	}
}
