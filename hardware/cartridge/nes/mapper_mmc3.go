package nes

// mmc3State implements mapper 4 (MMC3/TxROM): eight bank-select registers
// (6 CHR + 2 PRG) addressed through a bank-select/data register pair, and
// a scanline IRQ counter clocked by A12 rising edges on the PPU bus (spec
// §4.4: "per-PPU-bus-address A12-rising-edge counter; decrement on rising
// edge of A12 when it stays high long enough; raise IRQ when counter
// underflows if IRQs enabled").
type mmc3State struct {
	bankSelect uint8
	regs       [8]uint8
	prgRAMProtect uint8

	irqLatch   uint8
	irqCounter uint8
	irqEnabled bool
	irqPending bool
	a12Low     bool
	a12LowCount int
}

func (s *mmc3State) init(m *Mapper) {}

func (s *mmc3State) writeCPU(m *Mapper, addr uint16, v uint8) {
	switch {
	case addr < 0x8000:
		m.writePRGRAM(addr, v)
	case addr < 0xa000:
		if addr&1 == 0 {
			s.bankSelect = v
		} else {
			s.regs[s.bankSelect&0x7] = v
		}
	case addr < 0xc000:
		if addr&1 == 0 {
			// mirroring select; four-screen carts ignore mapper-level
			// mirroring control entirely.
			if m.cart.Mirroring != MirrorFourScreen {
				if v&1 != 0 {
					m.cart.Mirroring = MirrorHorizontal
				} else {
					m.cart.Mirroring = MirrorVertical
				}
			}
		}
		// odd address: PRG-RAM protect, not modelled further
	case addr < 0xe000:
		if addr&1 == 0 {
			s.irqLatch = v
		} else {
			s.irqCounter = 0
		}
	default:
		if addr&1 == 0 {
			s.irqEnabled = false
			s.irqPending = false
		} else {
			s.irqEnabled = true
		}
	}
}

func (s *mmc3State) readCPU(m *Mapper, addr uint16) uint8 {
	if addr < 0x8000 {
		return m.readPRGRAM(addr)
	}
	prgMode := s.bankSelect & 0x40
	numBanks := m.prg.NumBanks() // 8KB banks

	fixedSecondToLast := numBanks - 2
	fixedLast := numBanks - 1

	bank8k := int(addr-0x8000) / (8 * 1024)
	var selected int
	switch {
	case bank8k == 0:
		if prgMode == 0 {
			selected = int(s.regs[6])
		} else {
			selected = fixedSecondToLast
		}
	case bank8k == 1:
		selected = int(s.regs[7])
	case bank8k == 2:
		if prgMode == 0 {
			selected = fixedSecondToLast
		} else {
			selected = int(s.regs[6])
		}
	default:
		selected = fixedLast
	}
	selected = ((selected % max(1, numBanks)) + numBanks) % max(1, numBanks)
	offset := selected*8*1024 + int(addr)%(8*1024)
	return m.prg.Read(offset % m.prg.Len())
}

func (s *mmc3State) readPPU(m *Mapper, addr uint16) uint8 {
	if m.chr == nil {
		if int(addr) < len(m.cart.CHRRAM) {
			return m.cart.CHRRAM[addr]
		}
		return 0
	}
	chrMode := s.bankSelect & 0x80
	bank1k := int(addr) / 1024
	var regIdx int
	var sub int
	if chrMode == 0 {
		switch {
		case bank1k < 2:
			regIdx, sub = 0, bank1k
		case bank1k < 4:
			regIdx, sub = 1, bank1k-2
		default:
			regIdx, sub = bank1k-2, 0
		}
	} else {
		switch {
		case bank1k < 4:
			regIdx, sub = bank1k+2, 0
		case bank1k < 6:
			regIdx, sub = 0, bank1k-4
		default:
			regIdx, sub = 1, bank1k-6
		}
	}
	var bankNum int
	if regIdx <= 1 {
		bankNum = int(s.regs[regIdx]&0xfe) + sub
	} else {
		bankNum = int(s.regs[regIdx])
	}
	offset := bankNum*1024 + int(addr)%1024
	return m.chr.Read(offset % m.chr.Len())
}

func (s *mmc3State) tickPPU(m *Mapper, ppuBusAddr uint16) {
	a12 := ppuBusAddr&0x1000 != 0
	if !a12 {
		s.a12Low = true
		return
	}
	if s.a12Low {
		s.a12Low = false
		if s.irqCounter == 0 {
			s.irqCounter = s.irqLatch
		} else {
			s.irqCounter--
		}
		if s.irqCounter == 0 && s.irqEnabled {
			s.irqPending = true
		}
	}
}
