package genesisvdp

// WriteControlPort implements the two-word control-port address/register
// setup sequence. The first word's top two bits select register-write
// (10) versus address-setup (anything else); a register write always
// latches its low two code bits even though it isn't part of an address
// sequence. The second word of an address sequence carries the high
// address bits and the remaining four code bits, and arms a DMA transfer
// if the DMA-start code bit is set and register 23 didn't select fill
// mode (fill arms from the first data-port write instead).
func (v *VDP) WriteControlPort(value uint16) {
	if v.controlAwaitsSecond {
		v.controlSecondWord(value)
		return
	}
	v.controlFirstWordWrite(value)
}

func (v *VDP) controlFirstWordWrite(value uint16) {
	v.code = (v.code & 0xfc) | uint8(value>>14)&0x03
	v.updateDataPortLocation()

	if value&0xe000 == 0x8000 {
		register := uint8(value>>8) & 0x1f
		v.Registers.WriteInternalRegister(register, uint8(value))
		v.LatchHVCounterIfStopped()
		return
	}

	v.dataAddress = v.dataAddress&0xc000 | (value & 0x3fff)
	v.controlAwaitsSecond = true
}

func (v *VDP) controlSecondWord(value uint16) {
	v.dataAddress = v.dataAddress&0x3fff | (value << 14)
	v.controlAwaitsSecond = false
	v.code = uint8(value>>2)&0x3c | (v.code & 0x03)
	v.updateDataPortLocation()

	if v.code&0x20 != 0 && v.Registers.DMAEnabled && v.Registers.DMAMode != DMAModeVRAMFill {
		kind := ActiveDMAMemToVRAM
		if v.Registers.DMAMode == DMAModeVRAMCopy {
			kind = ActiveDMACopy
		}
		v.dma.Init(kind, v.Registers.DMAMode, v.Registers.DMALengthBytes())
	}
}

func (v *VDP) updateDataPortLocation() {
	switch v.code & 0x0f {
	case 0x01:
		v.dataLocation, v.dataIsWrite = LocationVRAM, true
	case 0x03:
		v.dataLocation, v.dataIsWrite = LocationCRAM, true
	case 0x05:
		v.dataLocation, v.dataIsWrite = LocationVSRAM, true
	case 0x00:
		v.dataLocation, v.dataIsWrite = LocationVRAM, false
	case 0x08:
		v.dataLocation, v.dataIsWrite = LocationCRAM, false
	case 0x04:
		v.dataLocation, v.dataIsWrite = LocationVSRAM, false
	}
}

// WriteDataPort writes the data port. A write while register 23 has
// selected VRAM-fill mode and the DMA-start bit is pending arms a fill
// transfer instead of touching memory directly, since the fill byte
// comes from this first data-port write.
func (v *VDP) WriteDataPort(value uint16) {
	v.controlAwaitsSecond = false
	v.cpuTouchedDataPort = true

	if v.code&0x20 != 0 && v.Registers.DMAEnabled && v.Registers.DMAMode == DMAModeVRAMFill {
		v.dma.Init(ActiveDMAFill, DMAModeVRAMFill, v.Registers.DMALengthBytes())
		v.fillByte = uint8(value)
		return
	}

	switch v.dataLocation {
	case LocationVRAM:
		addr := v.dataAddress &^ 1
		v.VRAM.WriteWord(uint32(addr), value)
	case LocationCRAM:
		v.CRAM.Write(uint32(v.dataAddress>>1)&0x3f, value)
	case LocationVSRAM:
		v.VSRAM.Write(uint32(v.dataAddress>>1)%vsramLen, value)
	}

	v.fifo.RecordAccess(v.dataLocation)
	v.dataAddress += v.Registers.AutoIncrement()
}

// ReadDataPort reads the data port. Reading with the port set up for
// writes returns all-ones, matching documented hardware behavior for an
// invalid/mismatched code.
func (v *VDP) ReadDataPort() uint16 {
	v.controlAwaitsSecond = false
	if v.dataIsWrite {
		return 0xffff
	}

	var data uint16
	switch v.dataLocation {
	case LocationVRAM:
		addr := v.dataAddress &^ 1
		data = v.VRAM.ReadWord(uint32(addr))
	case LocationCRAM:
		data = v.CRAM.Read(uint32(v.dataAddress>>1) & 0x3f)
	case LocationVSRAM:
		data = v.VSRAM.Read(uint32(v.dataAddress>>1) % vsramLen)
	}

	v.fifo.RecordAccess(v.dataLocation)
	v.dataAddress += v.Registers.AutoIncrement()
	return data
}

// ReadStatusPort returns the VDP status register: the fixed 0x3400 bits,
// VBlank (bit 3), HBlank (bit 2), DMA-in-progress (bit 1) and FIFO
// full/empty (bits 8/9). Sprite overflow, sprite collision and the
// odd-frame flag are not reported; those bits read as 0.
func (v *VDP) ReadStatusPort() uint16 {
	var status uint16 = 0x3400 // fixed bits always read as 1 on real hardware

	mclkIntoLine := v.masterClockCycles % mclkCyclesPerScanline
	active := mclkIntoLine < activeMclkCyclesPerScanline && v.scanline < v.Registers.VSize.activeScanlines()
	if v.scanline >= v.Registers.VSize.activeScanlines() {
		status |= 0x08 // VBlank
	}
	if !active {
		status |= 0x04 // HBlank
	}
	if v.dma.Active() {
		status |= 0x02
	}
	if v.fifo.IsFull() {
		status |= 0x100
	}
	if v.fifo.IsEmpty() {
		status |= 0x200
	}

	v.controlAwaitsSecond = false
	return status
}

// dmaTransferOneUnit moves one byte (memory-to-VRAM), one fill byte, or
// one VRAM-to-VRAM copy byte, called once per byte the dma tracker's
// throughput table allows this scanline.
func (v *VDP) dmaTransferOneUnit(mem MainBus) {
	switch v.dma.active {
	case ActiveDMAMemToVRAM:
		srcByte := mem.ReadByte(v.Registers.DMASource)
		v.VRAM.Write(uint32(v.dataAddress), srcByte)
		v.Registers.DMASource = (v.Registers.DMASource + 1) & 0xffffff
		v.dataAddress += v.Registers.AutoIncrement()
	case ActiveDMAFill:
		v.VRAM.Write(uint32(v.dataAddress), v.fillByte)
		v.dataAddress += v.Registers.AutoIncrement()
	case ActiveDMACopy:
		b := v.VRAM.Read(v.Registers.DMASource & 0xffff)
		v.VRAM.Write(uint32(v.dataAddress), b)
		v.Registers.DMASource = (v.Registers.DMASource + 1) & 0xffffff
		v.dataAddress += v.Registers.AutoIncrement()
	}
}

// AcknowledgeHInterrupt clears the pending HINT latch; called by the
// system shell's interrupt controller once the 68000 has taken the
// interrupt.
func (v *VDP) AcknowledgeHInterrupt() { v.hIntPending = false }

// AcknowledgeVInterrupt clears the pending VINT latch.
func (v *VDP) AcknowledgeVInterrupt() { v.vIntPending = false }

// HInterruptPending reports whether HINT is both latched and enabled by
// register 0.
func (v *VDP) HInterruptPending() bool { return v.hIntPending && v.Registers.HInterruptEnable }

// VInterruptPending reports whether VINT is both latched and enabled by
// register 1.
func (v *VDP) VInterruptPending() bool { return v.vIntPending && v.Registers.VInterruptEnable }

// ShouldHaltCPU reports whether the 68000 must stall this cycle, either
// because an in-flight DMA demands the bus or because the data-port FIFO
// is over capacity. Consumes the cpuTouchedDataPort latch so a single
// data-port access only counts once.
func (v *VDP) ShouldHaltCPU() bool {
	touched := v.cpuTouchedDataPort
	v.cpuTouchedDataPort = false
	return v.dma.ShouldHaltCPU(touched) || v.fifo.ShouldHaltCPU()
}

// FrameBuffer returns the rendered frame as a flat row-major slice of
// packed 0xRRGGBB pixels.
func (v *VDP) FrameBuffer() []uint32 { return v.frame }

func (v *VDP) FrameWidth() int  { return v.frameWidth }
func (v *VDP) FrameHeight() int { return v.frameHeight }
