// Package snesppu implements the SNES S-PPU pair (PPU1/PPU2): the
// $2100-$213F register file, 8 background modes including Mode 7's
// affine transform, OAM sprite evaluation, and the main/sub-screen
// color math pipeline, following the scanline-batch Tick() shape
// established in video/genesisvdp. Register and rendering semantics are
// transcribed from original_source/backend/snes-core/src/ppu.rs, which
// is the only SNES reference file carried in the retrieval pack (its
// sibling registers.rs/sprites.rs modules were not); where ppu.rs calls
// into those missing modules, behavior is supplemented from public SNES
// hardware documentation and noted inline.
package snesppu

// BgMode is BGMODE's mode field (0-7), selecting per-layer bit depth,
// layer count, and whether Mode 7's rotation/scaling layer is active.
type BgMode uint8

const (
	Mode0 BgMode = iota
	Mode1
	Mode2
	Mode3
	Mode4
	Mode5
	Mode6
	Mode7
)

func (m BgMode) bg1Bpp() int {
	switch m {
	case Mode3, Mode4:
		return 8
	case Mode0:
		return 2
	default:
		return 4
	}
}

func (m BgMode) bg2Bpp() int {
	switch m {
	case Mode0, Mode4, Mode5:
		return 2
	case Mode3:
		return 4
	default:
		return 4
	}
}

func (m BgMode) bg3Enabled() bool { return m == Mode0 || m == Mode1 }
func (m BgMode) bg4Enabled() bool { return m == Mode0 }
func (m BgMode) bg2Enabled() bool { return m != Mode6 && m != Mode7 }

// BitsPerPixel for BG3/BG4, which are always 2bpp in the modes that
// carry them (0 and 1).
const bg34Bpp = 2

// Mode7OobBehavior selects what Mode 7 shows once the affine transform
// walks off the 128x128-tile map, set by M7SEL bits 6-7.
type Mode7OobBehavior uint8

const (
	Mode7Wrap Mode7OobBehavior = iota
	Mode7Transparent
	Mode7Tile0
)

// Registers holds the CPU-visible $2100-$213F register file.
type Registers struct {
	ForcedBlanking bool
	Brightness     uint8 // INIDISP bits 0-3, 0-15

	ObjBaseAddr  uint16 // OBSEL name-table base, in VRAM words
	ObjGap       uint16 // OBSEL name-table 2 gap
	ObjSizeSmall int    // small/large sprite size pair, indexed 0-7
	ObjSizeLarge int

	BgMode         BgMode
	Mode1Bg3Priority bool

	BgScreenSize   [4]uint8  // BGxSC bits 0-1: 0=32x32,1=64x32,2=32x64,3=64x64
	BgMapBaseAddr  [4]uint16 // BGxSC bits 2-7, in VRAM words
	BgCharBaseAddr [4]uint16 // BGx character (tile graphics) base, in VRAM words

	BgHScroll [4]uint16 // 10-bit, written low-then-high via shared latch
	BgVScroll [4]uint16

	VRAMIncrementAfterHigh bool // VMAIN bit 7: increment on high byte write instead of low
	VRAMIncrementStep      uint16
	VRAMRemap              uint8 // VMAIN bits 2-3, address remapping mode (not modeled further)
	VRAMAddress            uint16

	Mode7A, Mode7B, Mode7C, Mode7D uint16 // fixed-point 1/256-pixel affine parameters
	Mode7CenterX, Mode7CenterY     uint16
	Mode7HFlip, Mode7VFlip         bool
	Mode7OOB                       Mode7OobBehavior

	CGRAMAddress uint8

	MainScreenEnabled [5]bool // BG1-4, OBJ
	SubScreenEnabled  [5]bool

	ColorMathEnabled      [6]bool // BG1-4, OBJ, backdrop
	ColorMathSubtract     bool
	ColorMathHalve        bool
	ColorMathDivide       bool // approximation of CGWSEL's sub-screen-enable + halve interaction
	SubScreenBgObjEnabled bool
	SubBackdropColor      uint16 // fixed color used when sub screen is not independently rendered

	OAMAddr uint16 // current OAMADDL/H value, also the priority-rotation base
}

func (r *Registers) WriteINIDISP(v uint8) {
	r.ForcedBlanking = v&0x80 != 0
	r.Brightness = v & 0x0f
}

func (r *Registers) WriteOBSEL(v uint8) {
	r.ObjBaseAddr = uint16(v&0x07) * 0x2000 / 2
	r.ObjGap = (uint16((v>>3)&0x03) + 1) * 0x2000 / 2
	pair := (v >> 5) & 0x07
	sizes := [8][2]int{{8, 16}, {8, 32}, {8, 64}, {16, 32}, {16, 64}, {32, 64}, {16, 32}, {16, 32}}
	r.ObjSizeSmall, r.ObjSizeLarge = sizes[pair][0], sizes[pair][1]
}

func (r *Registers) WriteBGMODE(v uint8) {
	r.BgMode = BgMode(v & 0x07)
	r.Mode1Bg3Priority = v&0x08 != 0
}

// WriteBGxSC handles BG1SC-BG4SC ($2107-$210A).
func (r *Registers) WriteBGxSC(bg int, v uint8) {
	r.BgScreenSize[bg] = v & 0x03
	r.BgMapBaseAddr[bg] = uint16(v>>2) * 0x400
}

// WriteBG12NBA / WriteBG34NBA handle $210B/$210C, each packing two
// layers' character base addresses into one byte (4 bits each).
func (r *Registers) WriteBG12NBA(v uint8) {
	r.BgCharBaseAddr[0] = uint16(v&0x0f) * 0x1000
	r.BgCharBaseAddr[1] = uint16(v>>4) * 0x1000
}

func (r *Registers) WriteBG34NBA(v uint8) {
	r.BgCharBaseAddr[2] = uint16(v&0x0f) * 0x1000
	r.BgCharBaseAddr[3] = uint16(v>>4) * 0x1000
}

// WriteScrollLatched handles BG1HOFS-BG4VOFS ($210D-$2114). Each
// background's H and V scroll has its own two-write latch, passed in by
// the caller (separate from the CGRAM data port's latch and from the
// Mode 7 registers' latches); bg selects BG1-4, horiz selects HOFS vs
// VOFS.
func (r *Registers) WriteScrollLatched(bg int, horiz bool, v uint8, latch *scrollLatch) {
	if !latch.have {
		latch.low = v
		latch.have = true
		return
	}
	latch.have = false
	value := (uint16(v)<<8 | uint16(latch.low)) & 0x03ff
	if horiz {
		r.BgHScroll[bg] = value
	} else {
		r.BgVScroll[bg] = value
	}
}

// scrollLatch is the two-write latch BG1HOFS/VOFS through BG4HOFS/VOFS
// each carry independently (eight latches total, one per scroll
// register); the PPU keeps one more per Mode 7 register (six in all).
type scrollLatch struct {
	low  uint8
	have bool
}

func (r *Registers) WriteVMAIN(v uint8) {
	r.VRAMIncrementAfterHigh = v&0x80 != 0
	r.VRAMRemap = (v >> 2) & 0x03
	switch v & 0x03 {
	case 0:
		r.VRAMIncrementStep = 1
	case 1:
		r.VRAMIncrementStep = 32
	default:
		r.VRAMIncrementStep = 128
	}
}

func (r *Registers) WriteVMADDL(v uint8) { r.VRAMAddress = r.VRAMAddress&0xff00 | uint16(v) }
func (r *Registers) WriteVMADDH(v uint8) { r.VRAMAddress = r.VRAMAddress&0x00ff | uint16(v)<<8 }

func (r *Registers) WriteM7SEL(v uint8) {
	r.Mode7HFlip = v&0x01 != 0
	r.Mode7VFlip = v&0x02 != 0
	r.Mode7OOB = Mode7OobBehavior((v >> 6) & 0x03)
	if r.Mode7OOB == 3 {
		r.Mode7OOB = Mode7Tile0
	}
}

// WriteMode7Latched16 handles M7A/B/C/D/X/Y ($211B-$2120), each latching
// low-then-high through its own two-write latch (PPU.m7Latch holds one
// per register). M7HOFS/M7VOFS share the BG1HOFS/BG1VOFS ports and go
// through WriteScrollLatched.
func (r *Registers) WriteMode7Latched16(dst *uint16, v uint8, latch *scrollLatch) {
	if !latch.have {
		latch.low = v
		latch.have = true
		return
	}
	latch.have = false
	*dst = uint16(v)<<8 | uint16(latch.low)
}

func (r *Registers) WriteCGADD(v uint8) { r.CGRAMAddress = v }

func (r *Registers) WriteTM(v uint8) {
	for i := 0; i < 5; i++ {
		r.MainScreenEnabled[i] = v&(1<<uint(i)) != 0
	}
}

func (r *Registers) WriteTS(v uint8) {
	for i := 0; i < 5; i++ {
		r.SubScreenEnabled[i] = v&(1<<uint(i)) != 0
	}
}

// WriteCGWSEL handles $2130: sub-screen color-math source select and
// main-screen black-clip window (the window-clip portion is simplified
// to always-on/always-off, the two non-window-dependent settings).
func (r *Registers) WriteCGWSEL(v uint8) {
	r.SubScreenBgObjEnabled = v&0x02 != 0
	r.ColorMathDivide = v&0x01 != 0
}

// WriteCGADSUB handles $2131: color math operation and per-layer enable.
func (r *Registers) WriteCGADSUB(v uint8) {
	r.ColorMathSubtract = v&0x80 != 0
	r.ColorMathHalve = v&0x40 != 0
	for i := 0; i < 6; i++ {
		r.ColorMathEnabled[i] = v&(1<<uint(i)) != 0
	}
}

func (r *Registers) WriteCOLDATA(v uint8) {
	intensity := uint16(v & 0x1f)
	if v&0x20 != 0 {
		r.SubBackdropColor = r.SubBackdropColor&^0x001f | intensity
	}
	if v&0x40 != 0 {
		r.SubBackdropColor = r.SubBackdropColor&^0x03e0 | intensity<<5
	}
	if v&0x80 != 0 {
		r.SubBackdropColor = r.SubBackdropColor&^0x7c00 | intensity<<10
	}
}
