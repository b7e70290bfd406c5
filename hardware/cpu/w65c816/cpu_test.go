package w65c816

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

type memBus struct {
	ram        [1 << 24]uint8
	idleCycles int
	nmi, irq   bool
}

func (m *memBus) Read(addr uint32) (uint8, error)  { return m.ram[addr&0xffffff], nil }
func (m *memBus) Write(addr uint32, v uint8) error { m.ram[addr&0xffffff] = v; return nil }
func (m *memBus) Idle()                            { m.idleCycles++ }
func (m *memBus) NMI() bool                        { return m.nmi }
func (m *memBus) IRQ() bool                         { return m.irq }
func (m *memBus) AcknowledgeNMI()                   { m.nmi = false }

func newTestCPU(bus *memBus, resetPC uint16) *CPU {
	bus.ram[0xfffc] = uint8(resetPC)
	bus.ram[0xfffd] = uint8(resetPC >> 8)
	c := NewCPU(nil)
	_ = c.LoadResetVector(bus)
	return c
}

func runToBoundary(t *testing.T, c *CPU, bus *memBus, maxCycles int) int {
	t.Helper()
	n := 0
	for ; n < maxCycles; n++ {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if !c.MidInstruction() && n > 0 {
			return n + 1
		}
	}
	t.Fatalf("instruction did not complete within %d cycles", maxCycles)
	return n
}

// TestResetEntersEmulationMode checks that the 65C816 boots 6502
// compatible, with 8-bit A/X/Y and the stack pinned to page 1.
func TestResetEntersEmulationMode(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)
	test.ExpectEquality(t, c.Emulation, true)
	test.ExpectEquality(t, c.P.MemWidth8, true)
	test.ExpectEquality(t, c.P.IndexWidth8, true)
	test.ExpectEquality(t, c.S, uint16(0x01fd))
}

// TestNativeMode16BitLoadTakesExtraCycle exercises XCE + REP to enter
// native mode with a 16-bit accumulator, then checks LDA #imm spends two
// operand-fetch cycles instead of one.
func TestNativeMode16BitLoadTakesExtraCycle(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)

	bus.ram[0x8000] = 0x18 // CLC
	bus.ram[0x8001] = 0xfb // XCE -> native mode
	bus.ram[0x8002] = 0xc2 // REP #$20
	bus.ram[0x8003] = 0x20
	bus.ram[0x8004] = 0xa9 // LDA #$1234
	bus.ram[0x8005] = 0x34
	bus.ram[0x8006] = 0x12

	runToBoundary(t, c, bus, 10) // CLC
	runToBoundary(t, c, bus, 10) // XCE
	test.ExpectEquality(t, c.Emulation, false)
	runToBoundary(t, c, bus, 10) // REP #$20
	test.ExpectEquality(t, c.P.MemWidth8, false)

	cycles := runToBoundary(t, c, bus, 10)
	test.ExpectEquality(t, cycles, 3)
	test.ExpectEquality(t, c.A, uint16(0x1234))
}

// TestEmulationModeLoadIsOneCycleImmediate checks the narrower 8-bit path
// stays a 2-cycle LDA #imm, as on a plain 6502.
func TestEmulationModeLoadIsOneCycleImmediate(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)
	bus.ram[0x8000] = 0xa9 // LDA #$42
	bus.ram[0x8001] = 0x42

	cycles := runToBoundary(t, c, bus, 10)
	test.ExpectEquality(t, cycles, 2)
	test.ExpectEquality(t, uint8(c.A), uint8(0x42))
}

func TestJSRAndRTSRoundTrip(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)

	bus.ram[0x8000] = 0x20 // JSR $9000
	bus.ram[0x8001] = 0x00
	bus.ram[0x8002] = 0x90
	bus.ram[0x9000] = 0x60 // RTS

	runToBoundary(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint16(0x9000))
	runToBoundary(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint16(0x8003))
}

func TestDirectPageWrapPenalty(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)
	c.D = 0x0012 // non-zero low byte: real hardware spends an extra cycle

	bus.ram[0x8000] = 0xa5 // LDA dp
	bus.ram[0x8001] = 0x10
	bus.ram[0x0022] = 0x55

	cycles := runToBoundary(t, c, bus, 10)
	test.ExpectEquality(t, cycles, 4)
	test.ExpectEquality(t, uint8(c.A), uint8(0x55))
}

func TestDirectPageNoWrapPenaltyWhenLowByteZero(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)
	c.D = 0x0000

	bus.ram[0x8000] = 0xa5 // LDA dp
	bus.ram[0x8001] = 0x10
	bus.ram[0x0010] = 0x77

	cycles := runToBoundary(t, c, bus, 10)
	test.ExpectEquality(t, cycles, 3)
	test.ExpectEquality(t, uint8(c.A), uint8(0x77))
}

func TestBlockMoveCopiesEntireRange(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x8000)
	c.A = 2 // move 3 bytes
	c.X = 0x2000
	c.Y = 0x1000
	bus.ram[0x1000] = 0xaa
	bus.ram[0x1001] = 0xbb
	bus.ram[0x1002] = 0xcc

	bus.ram[0x8000] = 0x44 // MVN dest=$00 src=$00 (bank bytes both zero here)
	bus.ram[0x8001] = 0x00
	bus.ram[0x8002] = 0x00

	for i := 0; i < 40 && c.A != 0xffff; i++ {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	test.ExpectEquality(t, bus.ram[0x2000], uint8(0xaa))
	test.ExpectEquality(t, bus.ram[0x2001], uint8(0xbb))
	test.ExpectEquality(t, bus.ram[0x2002], uint8(0xcc))
	test.ExpectEquality(t, c.A, uint16(0xffff))
}

func TestFlagsRoundTrip(t *testing.T) {
	var p Flags
	p.FromByte(0b1100_0011, false)
	test.ExpectEquality(t, p.Carry, true)
	test.ExpectEquality(t, p.Zero, true)
	test.ExpectEquality(t, p.IndexWidth8, false)
	test.ExpectEquality(t, p.MemWidth8, false)
	test.ExpectEquality(t, p.Overflow, true)
	test.ExpectEquality(t, p.Negative, true)
	test.ExpectEquality(t, p.ToByte(false, false), uint8(0b1100_0011))
}
