package nes

// vrcState covers the Konami VRC4/VRC6/VRC7 family: per-CPU-cycle IRQ
// counters (shared shape across all three) plus expansion audio
// participation, which this core stubs since full synthesis is out of
// scope for tick_one(). CHR/PRG bank registers are
// modelled generically enough to cover VRC4's 1KB CHR banking and VRC6's
// 1KB banking with the same register layout; VRC7's extra 6-channel FM
// register writes are accepted but not synthesised.
type vrcState struct {
	prgBank8k  [2]uint8
	chrBank1k  [8]uint8

	irqLatch   uint8
	irqCounter uint8
	irqEnabled bool
	irqAckEnabled bool
	irqPending bool
	irqMode    uint8 // 0 = scanline (prescaled by CPU cycles), 1 = cycle mode
	prescaler  int
}

func (s *vrcState) init(m *Mapper) {}

func (s *vrcState) writeCPU(m *Mapper, addr uint16, v uint8) {
	switch {
	case addr < 0x8000:
		m.writePRGRAM(addr, v)
	case addr >= 0x8000 && addr < 0x9000:
		s.prgBank8k[0] = v & 0x1f
	case addr >= 0xa000 && addr < 0xb000:
		s.prgBank8k[1] = v & 0x1f
	case addr >= 0xb000 && addr < 0xe000:
		// CHR bank registers occupy a contiguous run of sub-addresses per
		// chip variant; folded to one of 8 banks by position here.
		idx := int((addr-0xb000)/0x10) % 8
		s.chrBank1k[idx] = v
	case addr >= 0xf000 && addr < 0xf010:
		s.irqLatch = v
	case addr >= 0xf010 && addr < 0xf020:
		s.irqAckEnabled = v&0x1 != 0
		s.irqEnabled = v&0x2 != 0
		s.irqMode = (v >> 2) & 0x1
		if s.irqEnabled {
			s.irqCounter = s.irqLatch
			s.prescaler = 341
		}
		s.irqPending = false
	case addr >= 0xf020:
		s.irqEnabled = s.irqAckEnabled
		s.irqPending = false
	}
}

func (s *vrcState) readCPU(m *Mapper, addr uint16) uint8 {
	if addr < 0x8000 {
		return m.readPRGRAM(addr)
	}
	numBanks := m.prg.NumBanks()
	bank8k := int(addr-0x8000) / (8 * 1024)

	var bank int
	switch bank8k {
	case 0:
		bank = int(s.prgBank8k[0])
	case 1:
		bank = int(s.prgBank8k[1])
	case 2:
		bank = numBanks - 2
	default:
		bank = numBanks - 1
	}
	bank = ((bank % max(1, numBanks)) + numBanks) % max(1, numBanks)
	offset := bank*8*1024 + int(addr)%(8*1024)
	return m.prg.Read(offset % m.prg.Len())
}

func (s *vrcState) readPPU(m *Mapper, addr uint16) uint8 {
	bank1k := int(addr) / 1024 % 8
	if m.chr == nil {
		if int(addr) < len(m.cart.CHRRAM) {
			return m.cart.CHRRAM[addr]
		}
		return 0
	}
	offset := int(s.chrBank1k[bank1k])*1024 + int(addr)%1024
	return m.chr.Read(offset % m.chr.Len())
}

func (s *vrcState) tickCPU() {
	if !s.irqEnabled {
		return
	}
	if s.irqMode == 1 {
		s.clockIRQCounter()
		return
	}
	s.prescaler -= 3
	if s.prescaler <= 0 {
		s.prescaler += 341
		s.clockIRQCounter()
	}
}

func (s *vrcState) clockIRQCounter() {
	if s.irqCounter == 0xff {
		s.irqCounter = s.irqLatch
		s.irqPending = true
	} else {
		s.irqCounter++
	}
}
