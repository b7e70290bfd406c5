package m68000

import (
	"testing"

	"github.com/silicontrace/multicore/test"
)

type memBus struct {
	ram  [1 << 20]uint8
	ipl  uint8
}

func (m *memBus) ReadByte(addr uint32) (uint8, error) { return m.ram[addr&0xfffff], nil }
func (m *memBus) ReadWord(addr uint32) (uint16, error) {
	a := addr & 0xfffff
	return uint16(m.ram[a])<<8 | uint16(m.ram[a+1]), nil
}
func (m *memBus) WriteByte(addr uint32, v uint8) error { m.ram[addr&0xfffff] = v; return nil }
func (m *memBus) WriteWord(addr uint32, v uint16) error {
	a := addr & 0xfffff
	m.ram[a] = uint8(v >> 8)
	m.ram[a+1] = uint8(v)
	return nil
}
func (m *memBus) Idle()                 {}
func (m *memBus) InterruptLevel() uint8 { return m.ipl }
func (m *memBus) AcknowledgeInterrupt(level uint8) (uint8, bool) { return 24 + level, true }

func (m *memBus) setWord(addr uint32, v uint16) {
	m.ram[addr] = uint8(v >> 8)
	m.ram[addr+1] = uint8(v)
}

func newTestCPU(bus *memBus, pc uint32) *CPU {
	bus.setWord(0, 0x0010) // SSP high
	bus.setWord(2, 0x0000)
	bus.setWord(4, uint16(pc>>16))
	bus.setWord(6, uint16(pc))
	c := NewCPU(nil)
	_ = c.LoadResetVector(bus)
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

func TestResetLoadsVectorTable(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x1000)
	test.ExpectEquality(t, c.A[7], uint32(0x100000))
	test.ExpectEquality(t, c.PC, uint32(0x1000))
	test.ExpectEquality(t, c.Status.Supervisor, true)
}

func TestMoveqSetsRegisterAndFlags(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x1000)
	bus.setWord(0x1000, 0x7005) // MOVEQ #5,D0

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.D[0], uint32(5))
	test.ExpectEquality(t, c.Status.Zero, false)
	test.ExpectEquality(t, c.Status.Negative, false)
}

func TestJsrRtsRoundTrip(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x1000)
	bus.setWord(0x1000, 0x4eb9) // JSR abs.L
	bus.setWord(0x1002, 0x0000)
	bus.setWord(0x1004, 0x2000)
	bus.setWord(0x2000, 0x4e75) // RTS

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint32(0x2000))

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint32(0x1006))
}

func TestAddSetsCarryOnOverflow(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x1000)
	c.D[0] = 0xffffffff
	c.D[1] = 1
	bus.setWord(0x1000, 0xd081) // ADD.L D1,D0

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.D[0], uint32(0))
	test.ExpectEquality(t, c.Status.Zero, true)
	test.ExpectEquality(t, c.Status.Carry, true)
}

func TestBraTakesBranch(t *testing.T) {
	bus := &memBus{}
	c := newTestCPU(bus, 0x1000)
	bus.setWord(0x1000, 0x6004) // BRA +4

	runOne(t, c, bus, 10)
	test.ExpectEquality(t, c.PC, uint32(0x1006))
}
