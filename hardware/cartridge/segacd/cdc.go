package segacd

// cdc models the CD data controller's host-visible register file: a
// register-address/register-data pair (16 byte-wide internal registers),
// a host data FIFO exposed as big-endian words, and a DMA destination
// selector. memory.rs only names the method shapes this package calls
// (register_address/read_register/write_register/read_host_data/
// device_destination/set_dma_address); the register contents below are
// a simplified stand-in, not a retrieved LC89510-family register map.
type cdc struct {
	registers       [16]uint8
	registerAddress uint8

	hostData      uint16
	dataReady     bool
	endOfTransfer bool

	dmaAddress uint32
	dest       uint8 // device-destination field, 3 bits

	intPending bool
}

const cdcRegisterAddressMask = 0x0f

func newCDC() *cdc { return &cdc{} }

func (c *cdc) registerAddr() uint8 { return c.registerAddress }

func (c *cdc) setRegisterAddress(addr uint8) { c.registerAddress = addr & cdcRegisterAddressMask }

func (c *cdc) readRegister() uint8 { return c.registers[c.registerAddress] }

func (c *cdc) writeRegister(value uint8) { c.registers[c.registerAddress] = value }

func (c *cdc) readHostData(cpu scdCPU) uint16 {
	// Either CPU may drain the host data FIFO; reading marks the
	// transfer not-ready until the controller refills it.
	_ = cpu
	c.dataReady = false
	return c.hostData
}

func (c *cdc) pushHostData(value uint16) {
	c.hostData = value
	c.dataReady = true
}

func (c *cdc) dataReadyFlag() bool       { return c.dataReady }
func (c *cdc) endOfDataTransfer() bool   { return c.endOfTransfer }
func (c *cdc) deviceDestinationBits() uint8 { return c.dest & 0x07 }
func (c *cdc) setDeviceDestination(v uint8) { c.dest = v & 0x07 }

func (c *cdc) dmaAddr() uint32 { return c.dmaAddress }
func (c *cdc) setDMAAddress(v uint32) { c.dmaAddress = v }

func (c *cdc) interruptPending() bool { return c.intPending }
func (c *cdc) acknowledgeInterrupt()  { c.intPending = false }
func (c *cdc) raiseInterrupt()        { c.intPending = true }
