package z80

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

type memBus struct {
	ram  [1 << 16]uint8
	ports [256]uint8
	nmi, int_ bool
}

func (m *memBus) Read(addr uint16) (uint8, error)  { return m.ram[addr], nil }
func (m *memBus) Write(addr uint16, v uint8) error { m.ram[addr] = v; return nil }
func (m *memBus) In(port uint8) (uint8, error)      { return m.ports[port], nil }
func (m *memBus) Out(port uint8, v uint8) error     { m.ports[port] = v; return nil }
func (m *memBus) Idle()                             {}
func (m *memBus) NMI() bool                         { return m.nmi }
func (m *memBus) INT() bool                         { return m.int_ }
func (m *memBus) AcknowledgeNMI()                   { m.nmi = false }
func (m *memBus) InterruptData() uint8              { return 0xff }

func newTestCPU(bus *memBus, pc uint16) *CPU {
	c := NewCPU(nil)
	c.PC = pc
	return c
}

func runOne(t *testing.T, c *CPU, bus *memBus, maxSteps int) {
	t.Helper()
	if err := c.Step(bus); err != nil {
		t.Fatalf("Step: %v", err)
	}
	for n := 0; c.MidInstruction() && n < maxSteps; n++ {
		if err := c.Step(bus); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
}

func TestLdRNSetsRegister(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x0000)
	bus.ram[0] = 0x3e // LD A,n
	bus.ram[1] = 0x42

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.A, uint8(0x42))
}

func TestAddSetsCarryAndHalfCarry(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x0000)
	c.A = 0xff
	c.B = 0x01
	bus.ram[0] = 0x80 // ADD A,B

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.A, uint8(0x00))
	test.ExpectEquality(t, c.flags.Carry, true)
	test.ExpectEquality(t, c.flags.HalfCarry, true)
	test.ExpectEquality(t, c.flags.Zero, true)
}

func TestCallRetRoundTrip(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x0000)
	c.SP = 0xfffe
	bus.ram[0] = 0xcd // CALL nn
	bus.ram[1] = 0x00
	bus.ram[2] = 0x10
	bus.ram[0x1000] = 0xc9 // RET

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint16(0x1000))

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint16(0x0003))
}

func TestJrTakesRelativeBranch(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x0000)
	bus.ram[0] = 0x18 // JR +5
	bus.ram[1] = 0x05

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint16(0x0007))
}

func TestPushPopRoundTrip(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x0000)
	c.SP = 0xfffe
	c.B, c.C = 0x12, 0x34
	bus.ram[0] = 0xc5 // PUSH BC
	bus.ram[1] = 0xe1 // POP HL

	runOne(t, c, bus, 10)
	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.getHL(), uint16(0x1234))
}
