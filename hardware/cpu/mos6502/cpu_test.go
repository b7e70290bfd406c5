package mos6502

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

// memBus is a flat 64K RAM bus for CPU unit tests, with no interrupt lines
// asserted unless the test sets them directly.
type memBus struct {
	ram      [65536]byte
	idleCount int
	nmi, irq bool
	nmiAcked bool
}

func newMemBus() *memBus { return &memBus{} }

func (b *memBus) Read(addr uint16) (uint8, error)       { return b.ram[addr], nil }
func (b *memBus) Write(addr uint16, data uint8) error   { b.ram[addr] = data; return nil }
func (b *memBus) Idle()                                 { b.idleCount++ }
func (b *memBus) NMI() bool                              { return b.nmi }
func (b *memBus) IRQ() bool                               { return b.irq }
func (b *memBus) AcknowledgeNMI()                        { b.nmiAcked = true; b.nmi = false }

func (b *memBus) loadAt(addr uint16, bytes ...uint8) {
	for i, v := range bytes {
		b.ram[int(addr)+i] = v
	}
}

// runToBoundary steps the CPU until it is no longer mid-instruction, having
// just completed exactly one instruction. Guards against an infinite loop
// with a generous cycle ceiling.
func runToBoundary(t *testing.T, c *CPU, bus Bus) {
	t.Helper()
	for i := 0; i < 64; i++ {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if !c.MidInstruction() {
			return
		}
	}
	t.Fatalf("instruction did not complete within cycle budget")
}

// TestADCCarryAndOverflow: A=0x50, carry clear, operand 0x50 must produce
// A=0xA0, N=1, V=1, Z=0, C=0 (a positive + positive sum overflowing into
// a negative result).
func TestADCCarryAndOverflow(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0x69, 0x50) // ADC #$50
	c := NewCPU(nil)
	c.PC = 0x0000
	c.A = 0x50
	c.P.Carry = false

	runToBoundary(t, c, bus)

	test.Equate(t, c.A, uint8(0xa0))
	test.Equate(t, c.P.Negative, true)
	test.Equate(t, c.P.Overflow, true)
	test.Equate(t, c.P.Zero, false)
	test.Equate(t, c.P.Carry, false)
}

func TestSBCBorrow(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0xe9, 0x01) // SBC #$01
	c := NewCPU(nil)
	c.PC = 0x0000
	c.A = 0x00
	c.P.Carry = true // no borrow going in

	runToBoundary(t, c, bus)

	test.Equate(t, c.A, uint8(0xff))
	test.Equate(t, c.P.Carry, false) // borrow occurred
	test.Equate(t, c.P.Negative, true)
}

// TestAbsoluteXPageCrossOnlyPenalisesReads checks the asymmetric
// page-cross rule: LDA abs,X pays the extra cycle only when the index
// actually crosses a page; STA abs,X always pays it.
func TestAbsoluteXPageCrossOnlyPenalisesReads(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0xbd, 0xff, 0x00) // LDA $00FF,X
	bus.ram[0x0100] = 0x42
	c := NewCPU(nil)
	c.PC = 0x0000
	c.X = 0x01 // $00FF + 1 = $0100: crosses the page

	cycles := 0
	for {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
		cycles++
		if !c.MidInstruction() {
			break
		}
	}
	test.Equate(t, cycles, 5) // fetch op, lo, hi+index, fixup, read
	test.Equate(t, c.A, uint8(0x42))
}

func TestAbsoluteXNoPageCrossIsFourCycles(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0xbd, 0x00, 0x01) // LDA $0100,X
	bus.ram[0x0101] = 0x7e
	c := NewCPU(nil)
	c.PC = 0x0000
	c.X = 0x01 // no page cross

	cycles := 0
	for {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
		cycles++
		if !c.MidInstruction() {
			break
		}
	}
	test.Equate(t, cycles, 4)
	test.Equate(t, c.A, uint8(0x7e))
}

func TestJSRAndRTSRoundTrip(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0x20, 0x05, 0x00) // JSR $0005
	bus.loadAt(0x0005, 0x60)             // RTS
	c := NewCPU(nil)
	c.PC = 0x0000
	c.SP = 0xff

	runToBoundary(t, c, bus) // JSR
	test.Equate(t, c.PC, uint16(0x0005))

	runToBoundary(t, c, bus) // RTS
	test.Equate(t, c.PC, uint16(0x0003))
	test.Equate(t, c.SP, uint8(0xff))
}

func TestBranchTakenCrossesPageCostsTwoExtraCycles(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x00fd, 0xf0, 0x05) // BEQ +5, lands at $0104 (crosses page)
	c := NewCPU(nil)
	c.PC = 0x00fd
	c.P.Zero = true

	cycles := 0
	for {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
		cycles++
		if !c.MidInstruction() {
			break
		}
	}
	test.Equate(t, cycles, 4) // fetch, fetch offset, branch-taken idle, page-cross idle
	test.Equate(t, c.PC, uint16(0x0104))
}

func TestStepIsResumableMidInstruction(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0xad, 0x10, 0x00) // LDA $0010 (absolute)
	bus.ram[0x0010] = 0x99
	c := NewCPU(nil)
	c.PC = 0x0000

	if err := c.Step(bus); err != nil {
		t.Fatalf("Step: %v", err)
	}
	test.ExpectSuccess(t, c.MidInstruction())
	test.ExpectInequality(t, c.A, uint8(0x99))

	runToBoundary(t, c, bus)
	test.Equate(t, c.A, uint8(0x99))
}

func TestUnofficialLAX(t *testing.T) {
	bus := newMemBus()
	bus.loadAt(0x0000, 0xa7, 0x10) // LAX $10
	bus.ram[0x0010] = 0x77
	c := NewCPU(nil)
	c.PC = 0x0000

	runToBoundary(t, c, bus)

	test.Equate(t, c.A, uint8(0x77))
	test.Equate(t, c.X, uint8(0x77))
}

func TestFlagsToByteAndFromByteRoundTrip(t *testing.T) {
	f := Flags{Negative: true, Overflow: false, Decimal: true, Interrupt: true, Zero: false, Carry: true}
	b := f.ToByte(false)

	var g Flags
	g.FromByte(b)
	test.Equate(t, g, f)
}
