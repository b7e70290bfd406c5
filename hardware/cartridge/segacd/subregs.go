package segacd

// subregs.go implements the sub-CPU register window, canonically at
// $FF8000-$FF81FF but mirrored throughout $FF8000-$FFFFFF (each function
// here masks the address with subRegisterAddressMask). Layout follows
// original_source/backend/segacd-core/src/memory.rs's SubBus
// read/write_register_byte/word.

func (s *SegaCd) readRegisterByte(address uint32) uint8 {
	a := address & subRegisterAddressMask
	switch a {
	case 0x0000:
		var v uint8
		if s.regs.ledGreen {
			v |= 0x02
		}
		if s.regs.ledRed {
			v |= 0x01
		}
		return v
	case 0x0001:
		return 0x01 // CD drive operable; version nibble left at 0
	case 0x0002:
		return s.regs.prgRAMWriteProtect
	case 0x0003:
		return s.wordRAM.readControl() | s.wordRAM.priority()<<3
	case 0x0004:
		var v uint8
		if s.cdc.endOfDataTransfer() {
			v |= 0x80
		}
		if s.cdc.dataReadyFlag() {
			v |= 0x40
		}
		return v | s.cdc.deviceDestinationBits()
	case 0x0005:
		return s.cdc.registerAddr()
	case 0x0007:
		return s.cdc.readRegister()
	case 0x0008:
		return uint8(s.cdc.readHostData(scdCPUSub) >> 8)
	case 0x0009:
		return uint8(s.cdc.readHostData(scdCPUSub))
	case 0x000c:
		return uint8(s.regs.stopwatchCounter >> 8)
	case 0x000d:
		return uint8(s.regs.stopwatchCounter)
	case 0x000e:
		return s.regs.mainCommFlags
	case 0x000f:
		return s.regs.subCommFlags
	case 0x0031:
		return s.regs.timerInterval
	case 0x0033:
		var v uint8
		if s.regs.subcodeIntEnabled {
			v |= 1 << 6
		}
		if s.regs.cdcIntEnabled {
			v |= 1 << 5
		}
		if s.regs.cddIntEnabled {
			v |= 1 << 4
		}
		if s.regs.timerIntEnabled {
			v |= 1 << 3
		}
		if s.regs.softwareIntEnabled {
			v |= 1 << 2
		}
		if s.regs.graphicsIntEnabled {
			v |= 1 << 1
		}
		return v
	case 0x0036:
		if s.cdd.playingAudio() {
			return 0
		}
		return 1
	case 0x0037:
		var v uint8
		if s.regs.cddHostClockOn {
			v = 1 << 2
		}
		return v
	default:
		switch {
		case a >= 0x0038 && a <= 0x0041:
			st := s.cdd.status()
			return st[(a-8)&0xf]
		case a >= 0x0042 && a <= 0x004b:
			return s.regs.cddCommand[(a-2)&0xf]
		case a >= 0x0010 && a <= 0x001f:
			idx := (a & 0xf) >> 1
			word := s.regs.commCommands[idx]
			if address&1 != 0 {
				return uint8(word)
			}
			return uint8(word >> 8)
		case a >= 0x0020 && a <= 0x002f:
			idx := (a & 0xf) >> 1
			word := s.regs.commStatuses[idx]
			if address&1 != 0 {
				return uint8(word)
			}
			return uint8(word >> 8)
		default:
			return 0x00
		}
	}
}

func (s *SegaCd) readRegisterWord(address uint32) uint16 {
	a := address & subRegisterAddressMask
	switch a {
	case 0x0000, 0x0002, 0x0004, 0x0036:
		return uint16(s.readRegisterByte(address))<<8 | uint16(s.readRegisterByte(address|1))
	case 0x0006:
		return uint16(s.readRegisterByte(address | 1))
	case 0x0008:
		return s.cdc.readHostData(scdCPUSub)
	case 0x000a:
		return uint16(s.cdc.dmaAddr() >> 3)
	case 0x000c:
		return s.regs.stopwatchCounter
	case 0x000e:
		return uint16(s.regs.mainCommFlags)<<8 | uint16(s.regs.subCommFlags)
	case 0x0030:
		return uint16(s.regs.timerInterval)
	case 0x0032:
		return uint16(s.readRegisterByte(address | 1))
	default:
		if a >= 0x0010 && a <= 0x001f {
			return s.regs.commCommands[(a&0xf)>>1]
		}
		if a >= 0x0020 && a <= 0x002f {
			return s.regs.commStatuses[(a&0xf)>>1]
		}
		if a >= 0x0038 && a <= 0x0041 {
			st := s.cdd.status()
			rel := (a - 8) & 0xf
			return uint16(st[rel])<<8 | uint16(st[(rel+1)&0xf])
		}
		if a >= 0x0042 && a <= 0x004b {
			rel := (a - 2) & 0xf
			return uint16(s.regs.cddCommand[rel])<<8 | uint16(s.regs.cddCommand[(rel+1)&0xf])
		}
		return 0x0000
	}
}

func (s *SegaCd) writeRegisterByte(address uint32, value uint8) {
	a := address & subRegisterAddressMask
	switch a {
	case 0x0000:
		s.regs.ledGreen = value&0x02 != 0
		s.regs.ledRed = value&0x01 != 0
	case 0x0001:
		// TODO: reset the CDD/CDC sub-chips when this becomes real hardware.
	case 0x0002, 0x0003:
		s.wordRAM.subCPUWriteControl(value)
	case 0x0004:
		s.cdc.setDeviceDestination(value & 0x07)
	case 0x0005:
		s.cdc.setRegisterAddress(value)
	case 0x0007:
		s.cdc.writeRegister(value)
	case 0x000a, 0x000b:
		word := uint16(value)<<8 | uint16(value)
		s.cdc.setDMAAddress(uint32(word) << 3)
	case 0x000c, 0x000d:
		s.regs.stopwatchCounter = (uint16(value)<<8 | uint16(value)) & 0x0fff
	case 0x000e, 0x000f:
		s.regs.subCommFlags = value
	case 0x0030, 0x0031:
		s.regs.timerInterval = value
		s.regs.timerCounter = value
	case 0x0033:
		s.regs.subcodeIntEnabled = value&(1<<6) != 0
		s.regs.cdcIntEnabled = value&(1<<5) != 0
		s.regs.cddIntEnabled = value&(1<<4) != 0
		s.regs.timerIntEnabled = value&(1<<3) != 0
		s.regs.softwareIntEnabled = value&(1<<2) != 0
		s.regs.graphicsIntEnabled = value&(1<<1) != 0
		if !s.regs.graphicsIntEnabled {
			s.acknowledgeGraphicsInterrupt()
		}
	case 0x0034, 0x0035:
		s.cdd.setFaderVolume(uint16(value)<<8 | uint16(value))
	case 0x0037:
		s.regs.cddHostClockOn = value&0x04 != 0
	default:
		if a >= 0x0020 && a <= 0x002f {
			idx := (a & 0xf) >> 1
			if address&1 != 0 {
				s.regs.commStatuses[idx] = s.regs.commStatuses[idx]&0xff00 | uint16(value)
			} else {
				s.regs.commStatuses[idx] = s.regs.commStatuses[idx]&0x00ff | uint16(value)<<8
			}
		}
		if a >= 0x0042 && a <= 0x004b {
			rel := (a - 2) & 0xf
			s.regs.cddCommand[rel] = value & 0x0f
			if address == 0xff804b {
				s.cdd.sendCommand(s.regs.cddCommand)
			}
		}
	}
}

func (s *SegaCd) writeRegisterWord(address uint32, value uint16) {
	a := address & subRegisterAddressMask
	switch a {
	case 0x0000, 0x0004:
		s.writeRegisterByte(address, uint8(value>>8))
		s.writeRegisterByte(address|1, uint8(value))
	case 0x0002, 0x0006, 0x0032, 0x0036, 0x004c:
		s.writeRegisterByte(address|1, uint8(value))
	case 0x000a:
		s.cdc.setDMAAddress(uint32(value) << 3)
	case 0x000c:
		s.regs.stopwatchCounter = value & 0x0fff
	case 0x000e:
		s.regs.subCommFlags = uint8(value)
	case 0x0030:
		s.regs.timerInterval = uint8(value)
		s.regs.timerCounter = uint8(value)
	case 0x0034:
		s.cdd.setFaderVolume((value >> 4) & 0x7ff)
	default:
		if a >= 0x0020 && a <= 0x002f {
			s.regs.commStatuses[(a&0xf)>>1] = value
		}
		if a >= 0x0042 && a <= 0x004b {
			rel := (a - 2) & 0xf
			hi, lo := uint8(value>>8)&0x0f, uint8(value)&0x0f
			s.regs.cddCommand[rel] = hi
			s.regs.cddCommand[(rel+1)&0xf] = lo
			if address == 0xff804a {
				s.cdd.sendCommand(s.regs.cddCommand)
			}
		}
	}
}
