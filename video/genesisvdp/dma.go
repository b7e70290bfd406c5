package genesisvdp

// LineType distinguishes active-display scanlines from blanked ones for
// DMA/FIFO throughput purposes: both run much faster during blanking,
// since the VDP isn't competing with display fetches for VRAM bandwidth.
type LineType int

const (
	LineActive LineType = iota
	LineBlanked
)

// dmaBytesPerLine is the throughput table: bytes transferred per scanline
// by (mode, horizontal size, line type). Grounded on the jgenesis Genesis
// core's DmaTracker::tick table.
var dmaBytesPerLine = map[DMAMode]map[HSize]map[LineType]int{
	DMAModeMemToVRAM: {
		H32Cell: {LineActive: 16, LineBlanked: 167},
		H40Cell: {LineActive: 18, LineBlanked: 205},
	},
	DMAModeVRAMFill: {
		H32Cell: {LineActive: 15, LineBlanked: 166},
		H40Cell: {LineActive: 17, LineBlanked: 204},
	},
	DMAModeVRAMCopy: {
		H32Cell: {LineActive: 8, LineBlanked: 83},
		H40Cell: {LineActive: 9, LineBlanked: 102},
	},
}

// ActiveDMAKind distinguishes the three in-flight transfer shapes; fill
// additionally carries the fill byte latched from the first data write.
type ActiveDMAKind int

const (
	ActiveDMANone ActiveDMAKind = iota
	ActiveDMAMemToVRAM
	ActiveDMAFill
	ActiveDMACopy
)

// dmaTracker advances a pending DMA transfer scanline-by-scanline,
// draining dmaBytesPerLine[mode][hsize][lineType] bytes each time Tick is
// called, per-scanline, until the programmed length is exhausted.
type dmaTracker struct {
	active    ActiveDMAKind
	mode      DMAMode
	remaining uint32
}

func (d *dmaTracker) Init(kind ActiveDMAKind, mode DMAMode, length uint32) {
	d.active = kind
	d.mode = mode
	d.remaining = length
}

func (d *dmaTracker) Active() bool { return d.active != ActiveDMANone }

// Tick drains one scanline's worth of throughput and invokes transfer for
// each byte actually moved this scanline, in source-address/dest-address
// order matching the VDP's own auto-increment. Returns true once the
// transfer completes.
func (d *dmaTracker) Tick(hsize HSize, lineType LineType, transfer func()) bool {
	if d.active == ActiveDMANone {
		return false
	}
	perLine := dmaBytesPerLine[d.mode][hsize][lineType]
	for i := 0; i < perLine && d.remaining > 0; i++ {
		transfer()
		d.remaining--
	}
	if d.remaining == 0 {
		d.active = ActiveDMANone
		return true
	}
	return false
}

// ShouldHaltCPU reports whether the CPU should be frozen this cycle.
// Memory-to-VRAM DMA always halts the CPU; VRAM-fill and VRAM-copy only
// halt it if it attempts to access the VDP data port while the transfer
// is in flight (modeled by the caller passing cpuTouchedDataPort=true).
func (d *dmaTracker) ShouldHaltCPU(cpuTouchedDataPort bool) bool {
	if d.active == ActiveDMANone {
		return false
	}
	if d.active == ActiveDMAMemToVRAM {
		return true
	}
	return cpuTouchedDataPort
}
