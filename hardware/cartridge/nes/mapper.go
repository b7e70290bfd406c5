package nes

import (
	"github.com/silicontrace/multicore/emuerr"
	"github.com/silicontrace/multicore/hardware/memory/containers"
)

// MapperKind tags the concrete mapper variant: every mapper is represented
// as one tagged variant dispatched via exhaustive switch, never through
// dynamic dispatch. This is a deliberate departure from the teacher's
// interface-based cartMapper convention (recorded in DESIGN.md).
type MapperKind int

const (
	MapperNROM MapperKind = iota
	MapperMMC1
	MapperUxROM
	MapperCNROM
	MapperMMC3
	MapperMMC5
	MapperAxROM
	MapperVRC4
	MapperVRC6
	MapperVRC7
	MapperNamco163
	MapperSunsoft
	MapperBandaiFCG
	MapperUNROM512
)

func mapperKindFromNumber(n int) (MapperKind, error) {
	switch n {
	case 0:
		return MapperNROM, nil
	case 1:
		return MapperMMC1, nil
	case 2:
		return MapperUxROM, nil
	case 3:
		return MapperCNROM, nil
	case 4:
		return MapperMMC3, nil
	case 5:
		return MapperMMC5, nil
	case 7:
		return MapperAxROM, nil
	case 21, 23, 25:
		return MapperVRC4, nil
	case 24, 26:
		return MapperVRC6, nil
	case 85:
		return MapperVRC7, nil
	case 19:
		return MapperNamco163, nil
	case 69:
		return MapperSunsoft, nil
	case 16, 153:
		return MapperBandaiFCG, nil
	case 30:
		return MapperUNROM512, nil
	default:
		return 0, emuerr.Errorf(emuerr.UnsupportedMapper, n)
	}
}

// Mapper is the single concrete type for every supported cartridge
// variant: read_cpu, write_cpu, read_ppu, write_ppu, tick_cpu, tick_ppu,
// and irq_flag, plus the per-variant extra state each mapper_*.go file
// owns and the exhaustive switch in each method below dispatches into.
type Mapper struct {
	Kind MapperKind
	cart *Cartridge
	prg  *containers.BankedROM
	chr  *containers.BankedROM

	// shared scratch used by more than one mapper kind
	mmc1  mmc1State
	mmc3  mmc3State
	mmc5  mmc5State
	vrc   vrcState
	n163  namco163State
	sun   sunsoftState
	bandai bandaiState
	uxrom  uxromState

	chrBank    int
	prgBank32k int
}

func (m *Mapper) initKind() {
	switch m.Kind {
	case MapperMMC1:
		m.mmc1.init(m)
	case MapperMMC3:
		m.mmc3.init(m)
	case MapperMMC5:
		m.mmc5.init(m)
	case MapperVRC4, MapperVRC6, MapperVRC7:
		m.vrc.init(m)
	case MapperNamco163:
		m.n163.init(m)
	case MapperSunsoft:
		m.sun.init(m)
	case MapperBandaiFCG:
		m.bandai.init(m)
	case MapperUxROM, MapperUNROM512:
		m.uxrom.init(m)
	}
}

// ReadCPU reads from the mapper's CPU-space window ($6000-$FFFF typical).
func (m *Mapper) ReadCPU(addr uint16) uint8 {
	switch m.Kind {
	case MapperNROM:
		return m.readNROM(addr)
	case MapperMMC1:
		return m.mmc1.readCPU(m, addr)
	case MapperUxROM, MapperUNROM512:
		return m.uxrom.readCPU(m, addr)
	case MapperCNROM:
		return m.readNROM(addr) // CNROM banks CHR only; PRG is fixed like NROM
	case MapperMMC3:
		return m.mmc3.readCPU(m, addr)
	case MapperMMC5:
		return m.mmc5.readCPU(m, addr)
	case MapperAxROM:
		return m.readNROM(addr)
	case MapperVRC4, MapperVRC6, MapperVRC7:
		return m.vrc.readCPU(m, addr)
	case MapperNamco163:
		return m.n163.readCPU(m, addr)
	case MapperSunsoft:
		return m.sun.readCPU(m, addr)
	case MapperBandaiFCG:
		return m.bandai.readCPU(m, addr)
	default:
		return 0xff
	}
}

// WriteCPU writes to the mapper's CPU-space window, the primary path for
// bank-switch register writes.
func (m *Mapper) WriteCPU(addr uint16, v uint8) {
	switch m.Kind {
	case MapperMMC1:
		m.mmc1.writeCPU(m, addr, v)
	case MapperUxROM, MapperUNROM512:
		m.uxrom.writeCPU(m, addr, v)
	case MapperCNROM:
		m.chrBank = int(v) // simple single-register CHR bank select
	case MapperMMC3:
		m.mmc3.writeCPU(m, addr, v)
	case MapperMMC5:
		m.mmc5.writeCPU(m, addr, v)
	case MapperAxROM:
		m.prgBank32k = int(v) & 0x7
	case MapperVRC4, MapperVRC6, MapperVRC7:
		m.vrc.writeCPU(m, addr, v)
	case MapperNamco163:
		m.n163.writeCPU(m, addr, v)
	case MapperSunsoft:
		m.sun.writeCPU(m, addr, v)
	case MapperBandaiFCG:
		m.bandai.writeCPU(m, addr, v)
	default:
		// NROM and other fixed mappers ignore CPU-space writes outside PRG-RAM.
		m.writePRGRAM(addr, v)
	}
}

func (m *Mapper) ReadPPU(addr uint16) uint8 {
	switch m.Kind {
	case MapperMMC3:
		return m.mmc3.readPPU(m, addr)
	case MapperMMC5:
		return m.mmc5.readPPU(m, addr)
	case MapperVRC4, MapperVRC6, MapperVRC7:
		return m.vrc.readPPU(m, addr)
	case MapperNamco163:
		return m.n163.readPPU(m, addr)
	case MapperSunsoft:
		return m.sun.readPPU(m, addr)
	default:
		if m.chr != nil {
			offset := int(addr)
			if m.Kind == MapperCNROM {
				offset += m.chrBank * 8 * 1024
			}
			return m.chr.Read(offset % m.chr.Len())
		}
		if int(addr) < len(m.cart.CHRRAM) {
			return m.cart.CHRRAM[addr]
		}
		return 0
	}
}

func (m *Mapper) WritePPU(addr uint16, v uint8) {
	if m.cart.CHRROM == nil && int(addr) < len(m.cart.CHRRAM) {
		m.cart.CHRRAM[addr] = v
	}
}

// TickCPU is called once per CPU cycle, driving mapper IRQ counters that
// count CPU cycles (VRC4/6/7, Namco 163, Sunsoft, Bandai FCG).
func (m *Mapper) TickCPU() {
	switch m.Kind {
	case MapperVRC4, MapperVRC6, MapperVRC7:
		m.vrc.tickCPU()
	case MapperNamco163:
		m.n163.tickCPU()
	case MapperSunsoft:
		m.sun.tickCPU()
	case MapperBandaiFCG:
		m.bandai.tickCPU()
	}
}

// Mirroring returns the cartridge's current nametable mirroring mode,
// which several mappers (MMC1, MMC3, Bandai, Sunsoft) change at runtime
// via CPU-space writes.
func (m *Mapper) Mirroring() Mirroring { return m.cart.Mirroring }

// TickPPU is called once per PPU cycle with the current PPU bus address,
// driving MMC3's A12-rising-edge scanline counter.
func (m *Mapper) TickPPU(ppuBusAddr uint16) {
	if m.Kind == MapperMMC3 {
		m.mmc3.tickPPU(m, ppuBusAddr)
	}
}

func (m *Mapper) IRQFlag() bool {
	switch m.Kind {
	case MapperMMC3:
		return m.mmc3.irqPending
	case MapperMMC5:
		return m.mmc5.irqPending
	case MapperVRC4, MapperVRC6, MapperVRC7:
		return m.vrc.irqPending
	case MapperNamco163:
		return m.n163.irqPending
	case MapperSunsoft:
		return m.sun.irqPending
	case MapperBandaiFCG:
		return m.bandai.irqPending
	default:
		return false
	}
}

func (m *Mapper) readNROM(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.readPRGRAM(addr)
	}
	offset := int(addr-0x8000) + m.prgBank32k*32*1024
	return m.prg.Read(offset % m.prg.Len())
}

func (m *Mapper) readPRGRAM(addr uint16) uint8 {
	if addr < 0x6000 || int(addr-0x6000) >= len(m.cart.PRGRAM) {
		return 0xff
	}
	return m.cart.PRGRAM[addr-0x6000]
}

func (m *Mapper) writePRGRAM(addr uint16, v uint8) {
	if addr < 0x6000 || int(addr-0x6000) >= len(m.cart.PRGRAM) {
		return
	}
	m.cart.PRGRAM[addr-0x6000] = v
	m.cart.PRGRAMDirty = true
}
