package segacd

// mainregs.go implements the main-CPU-visible half of the shared
// register file, at $A12000-$A1202F. The Genesis system shell's memory
// map dispatches reads/writes in that range here; everything else
// (BIOS, the PRG-RAM/word-RAM windows, the RAM cartridge) goes through
// the accessors in segacd.go directly.

// ReadMainRegisterByte handles a main-CPU byte read in $A12000-$A1202F.
func (s *SegaCd) ReadMainRegisterByte(address uint32) uint8 {
	switch address {
	case 0xa12000:
		var v uint8
		if s.regs.softwareIntEnabled {
			v |= 0x80
		}
		if s.regs.softwareIntPending {
			v |= 0x01
		}
		return v
	case 0xa12001:
		var v uint8
		if s.regs.subCPUBusReq {
			v |= 0x02
		}
		if !s.regs.subCPUReset {
			v |= 0x01
		}
		return v
	case 0xa12002:
		return s.regs.prgRAMWriteProtect
	case 0xa12003:
		return s.regs.prgRAMBank<<6 | s.wordRAM.readControl()
	case 0xa12004:
		var v uint8
		if s.cdc.endOfDataTransfer() {
			v |= 0x80
		}
		if s.cdc.dataReadyFlag() {
			v |= 0x40
		}
		v |= s.cdc.deviceDestinationBits()
		return v
	case 0xa12006:
		return uint8(s.regs.hIntVector >> 8)
	case 0xa12007:
		return uint8(s.regs.hIntVector)
	case 0xa12008:
		return uint8(s.cdc.readHostData(scdCPUMain) >> 8)
	case 0xa12009:
		return uint8(s.cdc.readHostData(scdCPUMain))
	case 0xa1200c:
		return uint8(s.regs.stopwatchCounter >> 8)
	case 0xa1200d:
		return uint8(s.regs.stopwatchCounter)
	case 0xa1200e:
		return s.regs.mainCommFlags
	case 0xa1200f:
		return s.regs.subCommFlags
	default:
		if address >= 0xa12010 && address <= 0xa1201f {
			idx := (address & 0xf) >> 1
			word := s.regs.commCommands[idx]
			if address&1 != 0 {
				return uint8(word)
			}
			return uint8(word >> 8)
		}
		if address >= 0xa12020 && address <= 0xa1202f {
			idx := (address & 0xf) >> 1
			word := s.regs.commStatuses[idx]
			if address&1 != 0 {
				return uint8(word)
			}
			return uint8(word >> 8)
		}
		return 0
	}
}

// ReadMainRegisterWord handles a main-CPU word read in the same range.
func (s *SegaCd) ReadMainRegisterWord(address uint32) uint16 {
	switch address {
	case 0xa12000, 0xa12002:
		return uint16(s.ReadMainRegisterByte(address))<<8 | uint16(s.ReadMainRegisterByte(address|1))
	case 0xa12004:
		return uint16(s.ReadMainRegisterByte(address)) << 8
	case 0xa12006:
		return s.regs.hIntVector
	case 0xa12008:
		return s.cdc.readHostData(scdCPUMain)
	case 0xa1200c:
		return s.regs.stopwatchCounter
	case 0xa1200e:
		return uint16(s.regs.mainCommFlags)<<8 | uint16(s.regs.subCommFlags)
	default:
		if address >= 0xa12010 && address <= 0xa1201f {
			return s.regs.commCommands[(address&0xf)>>1]
		}
		if address >= 0xa12020 && address <= 0xa1202f {
			return s.regs.commStatuses[(address&0xf)>>1]
		}
		return 0
	}
}

// WriteMainRegisterByte handles a main-CPU byte write.
func (s *SegaCd) WriteMainRegisterByte(address uint32, value uint8) {
	switch address {
	case 0xa12000:
		s.regs.softwareIntPending = value&0x01 != 0
	case 0xa12001:
		s.regs.subCPUBusReq = value&0x02 != 0
		s.regs.subCPUReset = value&0x01 == 0
	case 0xa12002:
		s.regs.prgRAMWriteProtect = value
	case 0xa12003:
		s.regs.prgRAMBank = value >> 6
		s.wordRAM.mainCPUWriteControl(value)
	case 0xa12006, 0xa12007:
		s.regs.hIntVector = uint16(value)<<8 | uint16(value)
	case 0xa1200e, 0xa1200f:
		s.regs.mainCommFlags = value
	default:
		if address >= 0xa12010 && address <= 0xa1201f {
			idx := (address & 0xf) >> 1
			if address&1 != 0 {
				s.regs.commCommands[idx] = s.regs.commCommands[idx]&0xff00 | uint16(value)
			} else {
				s.regs.commCommands[idx] = s.regs.commCommands[idx]&0x00ff | uint16(value)<<8
			}
		}
	}
}

// WriteMainRegisterWord handles a main-CPU word write.
func (s *SegaCd) WriteMainRegisterWord(address uint32, value uint16) {
	switch address {
	case 0xa12000, 0xa12002:
		s.WriteMainRegisterByte(address, uint8(value>>8))
		s.WriteMainRegisterByte(address|1, uint8(value))
	case 0xa12006:
		s.regs.hIntVector = value
	case 0xa1200e:
		s.regs.mainCommFlags = uint8(value >> 8)
	default:
		if address >= 0xa12010 && address <= 0xa1201f {
			s.regs.commCommands[(address&0xf)>>1] = value
		}
	}
}
