package genesisvdp

// TimingMode selects the console's broadcast timing standard.
type TimingMode int

const (
	TimingNTSC TimingMode = iota
	TimingPAL
)

func (t TimingMode) scanlinesPerFrame() uint16 {
	if t == TimingPAL {
		return 313
	}
	return 262
}

// HSize is the horizontal display width, set by register 12.
type HSize int

const (
	H32Cell HSize = iota
	H40Cell
)

func (h HSize) pixels() int {
	if h == H40Cell {
		return 320
	}
	return 256
}

func (h HSize) maxSpritesPerLine() int {
	if h == H40Cell {
		return 20
	}
	return 16
}

func (h HSize) maxSpritePixelsPerLine() int {
	return h.pixels()
}

// VSize is the vertical display height, set by register 1.
type VSize int

const (
	V28Cell VSize = iota
	V30Cell
)

func (v VSize) activeScanlines() uint16 {
	if v == V30Cell {
		return 240
	}
	return 224
}

// HScrollMode is the per-register-11 horizontal scroll source.
type HScrollMode int

const (
	HScrollFullScreen HScrollMode = iota
	HScrollCell
	HScrollLine
)

// VScrollMode is the per-register-11 vertical scroll source.
type VScrollMode int

const (
	VScrollFullScreen VScrollMode = iota
	VScrollTwoCell
)

// DataPortLocation is the memory space the last control-port address
// setup sequence selected for subsequent data-port accesses.
type DataPortLocation int

const (
	LocationVRAM DataPortLocation = iota
	LocationCRAM
	LocationVSRAM
)

// DMAMode is the armed transfer type selected by register 23's top bits.
type DMAMode int

const (
	DMAModeMemToVRAM DMAMode = iota
	DMAModeVRAMFill
	DMAModeVRAMCopy
)

// Registers holds the VDP's 24 internal registers plus the derived fields
// decoded from them. Fields are recomputed by WriteInternalRegister rather than
// decoded lazily, since register writes are rare relative to per-pixel
// rendering work.
type Registers struct {
	raw [24]uint8

	DisplayEnable     bool
	VInterruptEnable  bool
	HInterruptEnable  bool
	DMAEnabled        bool
	M5 bool // mode 5 (Genesis mode) vs legacy SMS-compatible mode 4

	HSize HSize
	VSize VSize

	HScroll HScrollMode
	VScroll VScrollMode

	NameTableA     uint16
	NameTableB     uint16
	NameTableW     uint16
	SpriteTable    uint16
	HScrollTable   uint16

	BackgroundColor uint8

	HIntCounterReload uint8

	WindowX    uint16
	WindowXDir bool // false = left-to-center, true = center-to-right
	WindowY    uint16
	WindowYDir bool // false = top-to-center, true = center-to-bottom

	DMALength uint16
	DMASource uint32
	DMAMode   DMAMode

	ShadowHighlight bool
	HVCounterStopped bool

	// openBus models the Genesis VDP's documented quirk where unused
	// register-read bits retain whatever value was last placed on the bus,
	// rather than reading as a fixed constant.
	openBus uint8
}

func NewRegisters() *Registers {
	r := &Registers{}
	r.HSize = H32Cell
	return r
}

// WriteInternalRegister applies one of the 24 register writes decoded
// from a first-word control-port write whose top two bits are 10.
func (r *Registers) WriteInternalRegister(register uint8, value uint8) {
	if int(register) < len(r.raw) {
		r.raw[register] = value
	}
	r.openBus = value

	switch register {
	case 0:
		r.HInterruptEnable = value&0x10 != 0
		r.HVCounterStopped = value&0x02 != 0
	case 1:
		r.DisplayEnable = value&0x40 != 0
		r.VInterruptEnable = value&0x20 != 0
		r.DMAEnabled = value&0x10 != 0
		r.M5 = value&0x04 != 0
		if value&0x08 != 0 {
			r.VSize = V30Cell
		} else {
			r.VSize = V28Cell
		}
	case 2:
		r.NameTableA = uint16(value&0x38) << 10
	case 3:
		r.NameTableW = uint16(value&0x3e) << 10
	case 4:
		r.NameTableB = uint16(value&0x07) << 13
	case 5:
		r.SpriteTable = uint16(value&0x7f) << 9
	case 7:
		r.BackgroundColor = value & 0x3f
	case 10:
		r.HIntCounterReload = value
	case 11:
		switch value & 0x03 {
		case 0x00:
			r.HScroll = HScrollFullScreen
		case 0x01:
			r.HScroll = HScrollCell
		default:
			r.HScroll = HScrollLine
		}
		r.VScroll = VScrollFullScreen
		if value&0x04 != 0 {
			r.VScroll = VScrollTwoCell
		}
	case 12:
		if value&0x01 != 0 {
			r.HSize = H40Cell
		} else {
			r.HSize = H32Cell
		}
		r.ShadowHighlight = value&0x08 != 0
	case 13:
		r.HScrollTable = uint16(value&0x3f) << 10
	case 16:
		// scroll-plane size handled by caller via RawScrollSize
	case 17:
		r.WindowXDir = value&0x80 != 0
		r.WindowX = uint16(value&0x1f) * 2
	case 18:
		r.WindowYDir = value&0x80 != 0
		r.WindowY = uint16(value&0x1f)
	case 19:
		r.DMALength = r.DMALength&0xff00 | uint16(value)
	case 20:
		r.DMALength = r.DMALength&0x00ff | uint16(value)<<8
	case 21:
		r.DMASource = r.DMASource&0xfffffe00 | uint32(value)<<1
	case 22:
		r.DMASource = r.DMASource&0xfffe01ff | uint32(value)<<9
	case 23:
		switch value & 0xc0 {
		case 0x80:
			r.DMAMode = DMAModeVRAMFill
		case 0xc0:
			r.DMAMode = DMAModeVRAMCopy
		default:
			r.DMAMode = DMAModeMemToVRAM
		}
		if value&0x80 == 0 {
			r.DMASource = r.DMASource&0x00fdff | uint32(value&0x3f)<<17
		} else {
			r.DMASource = r.DMASource&0xfdffff | uint32(value&0x3f)<<17
		}
	case 15:
		// auto-increment, read directly by the VDP's data-port logic
	}
}

// AutoIncrement is register 15: the data address increment applied after
// each data-port access.
func (r *Registers) AutoIncrement() uint16 { return uint16(r.raw[15]) }

// RawScrollSize decodes register 16's packed horizontal/vertical scroll
// plane sizes (32/64/128 cells; bit combination 0b10 is prohibited and
// falls back to 32, matching documented hardware behavior).
func (r *Registers) RawScrollSize() (h, v int) {
	bits := r.raw[16]
	decode := func(b uint8) int {
		switch b & 0x03 {
		case 0x01:
			return 64
		case 0x03:
			return 128
		default:
			return 32
		}
	}
	return decode(bits), decode(bits >> 4)
}

// DMALengthBytes returns the DMA transfer length in bytes, treating a
// programmed length of 0 as 65536 per documented hardware behavior.
func (r *Registers) DMALengthBytes() uint32 {
	if r.DMALength == 0 {
		return 65536
	}
	return uint32(r.DMALength)
}
