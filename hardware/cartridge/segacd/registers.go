package segacd

// registers holds the Sega CD register file shared by the main-CPU
// window at $A12000-$A1202F and the sub-CPU window at $FF8000-$FF81FF
// (mirrored throughout $FF8000-$FFFFFF). Bit layout follows the
// original hardware's $A12000/$A12001 reset pair, $A12002/$A12003
// memory-mode pair, and the communication/timer/interrupt-mask blocks.
type registers struct {
	softwareIntPending bool
	softwareIntEnabled bool
	subCPUBusReq       bool
	subCPUReset        bool
	ledGreen           bool
	ledRed             bool

	prgRAMWriteProtect uint8
	prgRAMBank         uint8

	hIntVector uint16

	stopwatchCounter uint16

	mainCommFlags uint8
	subCommFlags  uint8
	commCommands  [8]uint16
	commStatuses  [8]uint16

	timerCounter  uint8
	timerInterval uint8
	timerIntPending bool

	subcodeIntEnabled  bool
	cdcIntEnabled      bool
	cddIntEnabled      bool
	timerIntEnabled    bool
	graphicsIntEnabled bool

	cddHostClockOn bool
	cddCommand     [10]uint8
}

func newRegisters() registers {
	return registers{
		subCPUBusReq: true,
		subCPUReset:  true,
		ledGreen:     true,
		hIntVector:   0xffff,
	}
}

// prgRAMAddr resolves a main-CPU PRG-RAM-window address (bit 17 set,
// $020000-$03FFFF mirrored range) through the bank-select register: the
// window is a 128 KB slice of the 512 KB PRG RAM, selected in 128 KB
// units by prgRAMBank.
func (r *registers) prgRAMAddr(address uint32) uint32 {
	return uint32(r.prgRAMBank)<<17 | (address & 0x1ffff)
}
