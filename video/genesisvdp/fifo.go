package genesisvdp

const fifoCapacity = 4

// fifoSlotCost is the number of FIFO "slots" one data-port access costs:
// VRAM accesses are word-wide over a byte-wide bus internally and cost
// twice what CRAM/VSRAM accesses cost.
func fifoSlotCost(loc DataPortLocation) int {
	if loc == LocationVRAM {
		return 2
	}
	return 1
}

// mclkPerSlot is the master-clock cost of draining one FIFO slot: slower
// in H32 mode since fewer pixels are clocked per scanline.
func mclkPerSlot(hsize HSize) float64 {
	if hsize == H40Cell {
		return 1.78
	}
	return 2.0
}

// fifoTracker models the 4-entry data-port FIFO used for CPU stall
// timing: each queued access drains during active display at a rate
// depending on hsize and the access's own slot cost; HBlank/VBlank clear
// outstanding waits since the VDP isn't fetching the display pipeline.
type fifoTracker struct {
	entries     []DataPortLocation
	mclkElapsed float64
}

func newFIFOTracker() *fifoTracker {
	return &fifoTracker{entries: make([]DataPortLocation, 0, fifoCapacity+1)}
}

func (f *fifoTracker) RecordAccess(loc DataPortLocation) {
	f.entries = append(f.entries, loc)
}

func (f *fifoTracker) IsEmpty() bool { return len(f.entries) == 0 }
func (f *fifoTracker) IsFull() bool  { return len(f.entries) >= fifoCapacity }

// ShouldHaltCPU reports whether the CPU must stall on its next data-port
// access: it does once the FIFO has more entries queued than it can hold.
func (f *fifoTracker) ShouldHaltCPU() bool { return len(f.entries) > fifoCapacity }

// Tick drains the FIFO during active-display scanlines only; during
// HBlank/VBlank all pending waits are cleared immediately.
func (f *fifoTracker) Tick(mclks uint64, hsize HSize, active bool) {
	if !active {
		f.entries = f.entries[:0]
		f.mclkElapsed = 0
		return
	}
	if len(f.entries) == 0 {
		return
	}
	f.mclkElapsed += float64(mclks)
	slotCost := mclkPerSlot(hsize)
	for len(f.entries) > 0 {
		cost := float64(fifoSlotCost(f.entries[0])) * slotCost
		if f.mclkElapsed < cost {
			break
		}
		f.mclkElapsed -= cost
		f.entries = f.entries[1:]
	}
}
