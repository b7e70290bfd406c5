package segacd

import "github.com/silicontrace/multicore/hardware/cpu/m68000"

var _ m68000.Bus = (*SubBus)(nil)

// SubBus adapts a SegaCd to m68000.Bus for the sub CPU: PRG RAM at
// $000000-$07FFFF, word RAM at $080000-$0DFFFF, backup RAM (odd
// addresses) at $FE0000-$FEFFFF, the PCM chip (odd addresses) at
// $FF0000-$FF7FFF, and the sub-CPU register window at $FF8000-$FFFFFF
// (canonically $FF8000-$FF81FF, mirrored throughout the rest of the
// range). Address decoding and the interrupt priority order (levels 5
// down to 1; the subcode interrupt, level 6, is never raised) follow
// original_source/backend/segacd-core/src/memory.rs's SubBus.
type SubBus struct {
	scd *SegaCd
}

func NewSubBus(scd *SegaCd) *SubBus { return &SubBus{scd: scd} }

const subAddressMask = 0xffffff // 68000 24-bit address bus
const subRegisterAddressMask = 0x1ff

func (b *SubBus) ReadByte(address uint32) (uint8, error) {
	address &= subAddressMask
	switch {
	case address <= 0x07ffff:
		return b.scd.prgRAM.Read(address), nil
	case address <= 0x0dffff:
		return b.scd.wordRAM.subCPUReadRAM(address), nil
	case address >= 0xfe0000 && address <= 0xfeffff:
		if address&1 == 0 {
			return 0x00, nil
		}
		return b.scd.backupRAM.Read((address & 0x3fff) >> 1), nil
	case address >= 0xff0000 && address <= 0xff7fff:
		if address&1 == 0 {
			return 0x00, nil
		}
		return b.scd.pcm.read((address & 0x3fff) >> 1), nil
	case address >= 0xff8000:
		return b.scd.readRegisterByte(address), nil
	default:
		return 0xff, nil
	}
}

func (b *SubBus) ReadWord(address uint32) (uint16, error) {
	address &= subAddressMask
	switch {
	case address <= 0x07ffff:
		hi := b.scd.prgRAM.Read(address)
		lo := b.scd.prgRAM.Read(address + 1)
		return uint16(hi)<<8 | uint16(lo), nil
	case address <= 0x0dffff:
		hi := b.scd.wordRAM.subCPUReadRAM(address)
		lo := b.scd.wordRAM.subCPUReadRAM(address | 1)
		return uint16(hi)<<8 | uint16(lo), nil
	case address >= 0xfe0000 && address <= 0xfeffff:
		return uint16(b.scd.backupRAM.Read((address & 0x3fff) >> 1)), nil
	case address >= 0xff0000 && address <= 0xff7fff:
		return uint16(b.scd.pcm.read((address & 0x3fff) >> 1)), nil
	case address >= 0xff8000:
		return b.scd.readRegisterWord(address), nil
	default:
		return 0xffff, nil
	}
}

func (b *SubBus) WriteByte(address uint32, value uint8) error {
	address &= subAddressMask
	switch {
	case address <= 0x07ffff:
		b.scd.writePRGRAM(address, value, scdCPUSub)
	case address <= 0x0dffff:
		b.scd.wordRAM.subCPUWriteRAM(address, value)
	case address >= 0xfe0000 && address <= 0xfeffff:
		if address&1 != 0 {
			b.scd.backupRAM.Write((address&0x3fff)>>1, value)
			b.scd.backupRAMDirty = true
		}
	case address >= 0xff0000 && address <= 0xff7fff:
		if address&1 != 0 {
			b.scd.pcm.write((address&0x3fff)>>1, value)
		}
	case address >= 0xff8000:
		b.scd.writeRegisterByte(address, value)
	}
	return nil
}

func (b *SubBus) WriteWord(address uint32, value uint16) error {
	address &= subAddressMask
	switch {
	case address <= 0x07ffff:
		b.scd.writePRGRAM(address, uint8(value>>8), scdCPUSub)
		b.scd.writePRGRAM(address+1, uint8(value), scdCPUSub)
	case address <= 0x0dffff:
		b.scd.wordRAM.subCPUWriteRAM(address, uint8(value>>8))
		b.scd.wordRAM.subCPUWriteRAM(address|1, uint8(value))
	case address >= 0xfe0000 && address <= 0xfeffff:
		b.scd.backupRAM.Write((address&0x3fff)>>1, uint8(value))
		b.scd.backupRAMDirty = true
	case address >= 0xff0000 && address <= 0xff7fff:
		b.scd.pcm.write((address&0x3fff)>>1, uint8(value))
	case address >= 0xff8000:
		b.scd.writeRegisterWord(address, value)
	}
	return nil
}

func (b *SubBus) Idle() {}

// InterruptLevel reports the highest-priority pending, enabled
// interrupt source: INT5 (CDC) down to INT1 (graphics), matching the
// fixed priority order memory.rs's BusInterface impl uses.
func (b *SubBus) InterruptLevel() uint8 {
	r := &b.scd.regs
	switch {
	case r.cdcIntEnabled && b.scd.cdc.interruptPending():
		return 5
	case r.cddIntEnabled && r.cddHostClockOn && b.scd.cdd.interruptPending():
		return 4
	case r.timerIntEnabled && r.timerIntPending:
		return 3
	case r.softwareIntEnabled && r.softwareIntPending:
		return 2
	case r.graphicsIntEnabled && b.scd.graphicsInterruptPending():
		return 1
	default:
		return 0
	}
}

func (b *SubBus) AcknowledgeInterrupt(level uint8) (uint8, bool) {
	r := &b.scd.regs
	switch level {
	case 1:
		b.scd.acknowledgeGraphicsInterrupt()
	case 2:
		r.softwareIntPending = false
	case 3:
		r.timerIntPending = false
	case 4:
		b.scd.cdd.acknowledgeInterrupt()
	case 5:
		b.scd.cdc.acknowledgeInterrupt()
	}
	return 24 + level, true
}

func (b *SubBus) Halt() bool  { return b.scd.regs.subCPUBusReq }
func (b *SubBus) Reset() bool { return b.scd.regs.subCPUReset }
