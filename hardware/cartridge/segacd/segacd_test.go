package segacd

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

func TestPRGRAMBankSelectWindowsMainCPUAccess(t *testing.T) {
	s := NewSegaCd(false)
	s.WriteMainRegisterByte(0xa12003, 1<<6) // select bank 1
	s.WriteMainPRGRAM(0, 0x42)
	test.ExpectEquality(t, s.prgRAM.Read(1<<17), uint8(0x42))
	test.ExpectEquality(t, s.ReadMainPRGRAM(0), uint8(0x42))
}

func TestSubCPUWriteProtectBoundaryBlocksLowAddresses(t *testing.T) {
	s := NewSegaCd(false)
	s.WriteMainRegisterByte(0xa12002, 4) // boundary at 4*0x200 = 0x800
	bus := NewSubBus(s)

	bus.WriteByte(0x100, 0xaa) // below boundary, sub CPU write dropped
	v, _ := bus.ReadByte(0x100)
	test.ExpectEquality(t, v, uint8(0))

	bus.WriteByte(0x900, 0xbb) // above boundary, allowed
	v, _ = bus.ReadByte(0x900)
	test.ExpectEquality(t, v, uint8(0xbb))
}

func TestMainCPUPRGRAMWriteIgnoresProtectBoundary(t *testing.T) {
	s := NewSegaCd(false)
	s.WriteMainRegisterByte(0xa12002, 4)
	s.WriteMainPRGRAM(0x100, 0xcc) // main CPU always allowed through
	test.ExpectEquality(t, s.ReadMainPRGRAM(0x100), uint8(0xcc))
}

func TestWordRAM2MOwnershipHandoff(t *testing.T) {
	w := newWordRAM()
	w.mainCPUWriteRAM(0, 0x11) // main owns it by default
	test.ExpectEquality(t, w.mainCPUReadRAM(0), uint8(0x11))

	w.mainCPUWriteControl(0x02) // DMNA: request sub CPU take ownership
	test.ExpectEquality(t, w.ownedBySub, true)
	test.ExpectEquality(t, w.subCPUReadRAM(0), uint8(0x11))

	// main CPU can no longer see the block
	v := w.mainCPUReadRAM(0)
	test.ExpectEquality(t, v, uint8(0xff))

	w.subCPUWriteControl(0x04) // RET: sub CPU returns ownership
	test.ExpectEquality(t, w.ownedBySub, false)
	test.ExpectEquality(t, w.mainCPUReadRAM(0), uint8(0x11))
}

func TestWordRAM1MSplitsIntoTwoBanks(t *testing.T) {
	w := newWordRAM()
	w.mainCPUWriteControl(0x01) // switch to 1M mode
	w.mainCPUWriteRAM(0, 0xaa)  // main sees bank 1 (subBank^1 = 1) initially
	w.subCPUWriteRAM(0, 0xbb)   // sub sees bank 0 (subBank = 0)

	test.ExpectEquality(t, w.mainCPUReadRAM(0), uint8(0xaa))
	test.ExpectEquality(t, w.subCPUReadRAM(0), uint8(0xbb))

	w.subCPUWriteControl(0x04) // sub CPU swaps its assigned bank
	test.ExpectEquality(t, w.subCPUReadRAM(0), uint8(0xaa))
}

func TestBackupRAMOnlyMappedAtOddAddresses(t *testing.T) {
	s := NewSegaCd(false)
	bus := NewSubBus(s)

	bus.WriteByte(0xfe0000, 0x11) // even address, dropped
	bus.WriteByte(0xfe0001, 0x22) // odd address, written

	v, _ := bus.ReadByte(0xfe0000)
	test.ExpectEquality(t, v, uint8(0))
	v, _ = bus.ReadByte(0xfe0001)
	test.ExpectEquality(t, v, uint8(0x22))
}

func TestStopwatchIncrementsEveryDivider(t *testing.T) {
	s := NewSegaCd(false)
	s.Tick(timerDivider)
	test.ExpectEquality(t, s.regs.stopwatchCounter, uint16(1))

	s.Tick(timerDivider * 3)
	test.ExpectEquality(t, s.regs.stopwatchCounter, uint16(4))
}

func TestGeneralTimerFiresINT3WhenEnabled(t *testing.T) {
	s := NewSegaCd(false)
	bus := NewSubBus(s)

	bus.WriteByte(0xff8031, 1)    // timer interval = 1 tick
	bus.WriteByte(0xff8033, 1<<3) // enable timer interrupt

	s.Tick(timerDivider)
	test.ExpectEquality(t, bus.InterruptLevel(), uint8(3))

	bus.AcknowledgeInterrupt(3)
	test.ExpectEquality(t, bus.InterruptLevel(), uint8(0))
}

func TestInterruptPriorityOrderFavorsCDCOverLowerLevels(t *testing.T) {
	s := NewSegaCd(false)
	s.regs.cdcIntEnabled = true
	s.regs.softwareIntEnabled = true
	s.regs.softwareIntPending = true
	s.cdc.raiseInterrupt()

	bus := NewSubBus(s)
	test.ExpectEquality(t, bus.InterruptLevel(), uint8(5))
}

func TestCDDCommandSendOnlyTriggersAtCanonicalAddress(t *testing.T) {
	s := NewSegaCd(false)
	bus := NewSubBus(s)

	bus.WriteByte(0xff8042, 0x05) // cddCommand[0] = 0x05
	bus.WriteByte(0xff804b, 0x00) // triggers send; echoes cddCommand[0]
	test.ExpectEquality(t, s.cdd.statusBuf[0], uint8(0x05))

	s.cdd.statusBuf[0] = 0
	bus.WriteByte(0xff8042, 0x09) // cddCommand[0] = 0x09
	bus.WriteByte(0xffc04b, 0x00) // mirrored address, command byte still stored...
	test.ExpectEquality(t, s.regs.cddCommand[9], uint8(0x00))
	// ...but the send is only triggered at the canonical address, so no echo.
	test.ExpectEquality(t, s.cdd.statusBuf[0], uint8(0))
}

func TestRAMCartridgeOddAddressOnlyAndWriteGate(t *testing.T) {
	s := NewSegaCd(true)
	s.WriteRAMCartridgeByte(0x600000, 0x11) // even address, ignored
	v := s.ReadRAMCartridgeByte(0x600001)
	test.ExpectEquality(t, v, uint8(0))

	s.WriteRAMCartridgeByte(0x600001, 0x33)
	v = s.ReadRAMCartridgeByte(0x600001)
	test.ExpectEquality(t, v, uint8(0x33))
}
