package nes

// mmc1State implements mapper 1 (MMC1/SxROM): a single serial-shift
// register loaded one bit per CPU write (bit 7 set resets it), latched
// into one of four internal registers on the fifth bit.
type mmc1State struct {
	shift      uint8
	shiftCount int
	control    uint8
	chrBank0   uint8
	chrBank1   uint8
	prgBank    uint8
}

func (s *mmc1State) init(m *Mapper) {
	s.shift = 0
	s.shiftCount = 0
	s.control = 0x0c // PRG mode 3 (fix last bank) by default at power-on
}

func (s *mmc1State) writeCPU(m *Mapper, addr uint16, v uint8) {
	if addr < 0x8000 {
		m.writePRGRAM(addr, v)
		return
	}
	if v&0x80 != 0 {
		s.shift = 0
		s.shiftCount = 0
		s.control |= 0x0c
		return
	}
	s.shift |= (v & 1) << uint(s.shiftCount)
	s.shiftCount++
	if s.shiftCount < 5 {
		return
	}
	value := s.shift
	s.shift = 0
	s.shiftCount = 0

	switch {
	case addr < 0xa000:
		s.control = value
		switch value & 0x3 {
		case 0:
			m.cart.Mirroring = MirrorSingleScreenLo
		case 1:
			m.cart.Mirroring = MirrorSingleScreenHi
		case 2:
			m.cart.Mirroring = MirrorVertical
		default:
			m.cart.Mirroring = MirrorHorizontal
		}
	case addr < 0xc000:
		s.chrBank0 = value
	case addr < 0xe000:
		s.chrBank1 = value
	default:
		s.prgBank = value & 0x0f
	}
}

func (s *mmc1State) readCPU(m *Mapper, addr uint16) uint8 {
	if addr < 0x8000 {
		return m.readPRGRAM(addr)
	}
	prgMode := (s.control >> 2) & 0x3
	numBanks := m.prg.NumBanks() // 8KB banks; mmc1ReadBanked wraps offsets to the ROM size
	bank16k := int(s.prgBank)

	switch prgMode {
	case 0, 1: // 32KB switch, ignore low bit of bank
		bank32 := bank16k >> 1
		half := 0
		if addr >= 0xc000 {
			half = 1
		}
		return mmc1ReadBanked(m, bank32*2+half, addr)
	case 2: // fix first bank at $8000, switch $C000
		if addr < 0xc000 {
			return mmc1ReadBanked(m, 0, addr)
		}
		return mmc1ReadBanked(m, bank16k%max(1, numBanks), addr)
	default: // 3: switch $8000, fix last bank at $C000
		if addr < 0xc000 {
			return mmc1ReadBanked(m, bank16k%max(1, numBanks), addr)
		}
		return mmc1ReadBanked(m, max(1, numBanks)-1, addr)
	}
}

func mmc1ReadBanked(m *Mapper, bank16k int, addr uint16) uint8 {
	offset := bank16k*16*1024 + int(addr&0x3fff)
	return m.prg.Read(offset % m.prg.Len())
}
