package lr35902

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

type testBus struct {
	mem     [65536]uint8
	pending uint8
	acked   []uint8
}

func (b *testBus) Read(addr uint16) (uint8, error)  { return b.mem[addr], nil }
func (b *testBus) Write(addr uint16, v uint8) error { b.mem[addr] = v; return nil }
func (b *testBus) Idle()                            {}
func (b *testBus) PendingInterrupts() uint8          { return b.pending }
func (b *testBus) AcknowledgeInterrupt(bit uint8) {
	b.pending &^= bit
	b.acked = append(b.acked, bit)
}

func newTestCPU() (*CPU, *testBus) {
	c := NewCPU(nil)
	b := &testBus{}
	return c, b
}

func TestResetMatchesPostBootROMState(t *testing.T) {
	c, _ := newTestCPU()
	test.ExpectEquality(t, c.PC, uint16(0x0100))
	test.ExpectEquality(t, c.SP, uint16(0xfffe))
	test.ExpectEquality(t, c.A, uint8(0x01))
}

func TestLDrnLoadsImmediateAndAdvancesPC(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0x06 // LD B,n
	b.mem[0x101] = 0x42

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))

	test.ExpectEquality(t, c.B, uint8(0x42))
	test.ExpectEquality(t, c.PC, uint16(0x102))
}

func TestADDSetsZeroCarryAndHalfCarry(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0x3e // LD A,n
	b.mem[0x101] = 0xff
	b.mem[0x102] = 0xc6 // ADD A,n
	b.mem[0x103] = 0x01

	for i := 0; i < 4; i++ {
		test.ExpectSuccess(t, c.Step(b))
	}

	test.ExpectEquality(t, c.A, uint8(0x00))
	test.ExpectEquality(t, c.F.Zero, true)
	test.ExpectEquality(t, c.F.Carry, true)
	test.ExpectEquality(t, c.F.HalfCarry, true)
	test.ExpectEquality(t, c.F.Subtract, false)
}

func TestDAAAdjustsBCDAddition(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0x3e // LD A,0x45
	b.mem[0x101] = 0x45
	b.mem[0x102] = 0xc6 // ADD A,0x38
	b.mem[0x103] = 0x38
	b.mem[0x104] = 0x27 // DAA

	for i := 0; i < 6; i++ {
		test.ExpectSuccess(t, c.Step(b))
	}

	test.ExpectEquality(t, c.A, uint8(0x83))
	test.ExpectEquality(t, c.F.Zero, false)
	test.ExpectEquality(t, c.F.Carry, false)
}

func TestCBBitResSet(t *testing.T) {
	c, b := newTestCPU()
	c.B = 0x80
	b.mem[0x100], b.mem[0x101] = 0xcb, 0x78 // BIT 7,B
	b.mem[0x102], b.mem[0x103] = 0xcb, 0xb8 // RES 7,B
	b.mem[0x104], b.mem[0x105] = 0xcb, 0xc0 // SET 0,B

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.F.Zero, false) // bit 7 was set
	test.ExpectEquality(t, c.F.HalfCarry, true)

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.B, uint8(0x00))

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.B, uint8(0x01))
}

func TestPushPopRoundTrip(t *testing.T) {
	c, b := newTestCPU()
	c.setBC(0x1234)
	b.mem[0x100] = 0xc5 // PUSH BC
	b.mem[0x101] = 0xd1 // POP DE

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.SP, uint16(0xfffc))

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.getDE(), uint16(0x1234))
	test.ExpectEquality(t, c.SP, uint16(0xfffe))
}

// TestEIDelaysEnableByOneInstruction exercises the documented EI quirk: the
// instruction immediately after EI still runs with interrupts disabled;
// only the instruction after THAT can be preempted.
func TestEIDelaysEnableByOneInstruction(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0xfb // EI
	b.mem[0x101] = 0x00 // NOP, runs with interrupts still disabled
	b.mem[0x102] = 0x00 // NOP, preempted by the now-enabled interrupt
	b.pending = IntVBlank

	test.ExpectSuccess(t, c.Step(b)) // EI: fetch
	test.ExpectSuccess(t, c.Step(b)) // EI: sets pendingEI
	test.ExpectEquality(t, c.IME, false)

	test.ExpectSuccess(t, c.Step(b)) // NOP at 0x101, interrupts still disabled
	test.ExpectEquality(t, c.IME, false)
	test.ExpectEquality(t, c.PC, uint16(0x102))

	test.ExpectSuccess(t, c.Step(b)) // IME now takes effect; preempts the 0x102 fetch
	test.ExpectEquality(t, c.IME, false) // cleared on interrupt entry
	test.ExpectEquality(t, len(b.acked), 1)
	test.ExpectEquality(t, b.acked[0], IntVBlank)

	for i := 0; i < 3; i++ {
		test.ExpectSuccess(t, c.Step(b))
	}
	test.ExpectEquality(t, c.PC, uint16(0x40))
	test.ExpectEquality(t, c.SP, uint16(0xfffc))
	lo, _ := b.Read(c.SP)
	hi, _ := b.Read(c.SP + 1)
	test.ExpectEquality(t, lo, uint8(0x02))
	test.ExpectEquality(t, hi, uint8(0x01))
}

func TestHaltWakesWithoutServicingWhenIMEDisabled(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0x76 // HALT
	b.mem[0x101] = 0x00 // NOP, runs once woken

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.Halted, true)

	b.pending = IntTimer
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.Halted, false)
	test.ExpectEquality(t, c.PC, uint16(0x102)) // resumed at the NOP and fetched it
	test.ExpectEquality(t, len(b.acked), 0)      // not serviced: IME was false
}

func TestHaltServicesInterruptWhenIMEEnabled(t *testing.T) {
	c, b := newTestCPU()
	c.IME = true
	b.mem[0x100] = 0x76 // HALT

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.Halted, true)

	b.pending = IntJoypad
	test.ExpectSuccess(t, c.Step(b)) // wakes and immediately begins dispatch
	test.ExpectEquality(t, c.Halted, false)
	test.ExpectEquality(t, c.IME, false)

	for i := 0; i < 3; i++ {
		test.ExpectSuccess(t, c.Step(b))
	}
	test.ExpectEquality(t, c.PC, uint16(0x60))
	test.ExpectEquality(t, len(b.acked), 1)
	test.ExpectEquality(t, b.acked[0], IntJoypad)
}

func TestJRNotTakenStillAdvancesPastOperand(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0x20 // JR NZ,e
	b.mem[0x101] = 0x05
	c.F.Zero = true // condition false, branch not taken

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.PC, uint16(0x102))
}

func TestJRTakenAppliesSignedOffset(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0x18 // JR e
	b.mem[0x101] = 0xfe // -2: jump back onto itself

	test.ExpectSuccess(t, c.Step(b))
	test.ExpectSuccess(t, c.Step(b))
	test.ExpectEquality(t, c.PC, uint16(0x100))
}

func TestCALLandRET(t *testing.T) {
	c, b := newTestCPU()
	b.mem[0x100] = 0xcd // CALL nn
	b.mem[0x101] = 0x00
	b.mem[0x102] = 0x02 // target 0x0200
	b.mem[0x200] = 0xc9 // RET

	for i := 0; i < 4; i++ { // CALL: fetch+1 body microop = 2 steps; RET: fetch+1 body microop = 2 steps
		test.ExpectSuccess(t, c.Step(b))
	}
	test.ExpectEquality(t, c.PC, uint16(0x103))
	test.ExpectEquality(t, c.SP, uint16(0xfffe))
}
