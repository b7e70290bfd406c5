package gb

import (
	"bytes"
	"encoding/gob"
	"fmt"

	gbcart "github.com/silicontrace/multicore/hardware/cartridge/gb"
	"github.com/silicontrace/multicore/hardware/cpu/lr35902"
	"github.com/silicontrace/multicore/logger"
	"github.com/silicontrace/multicore/random"
	"github.com/silicontrace/multicore/video/gbppu"
)

const tcyclesPerMCycle = 4

// System is a complete Game Boy / Game Boy Color emulation: LR35902
// primary CPU, PPU, cartridge mapper, and joypad/timer peripherals,
// advanced one M-cycle (one CPU Step call) at a time.
type System struct {
	Bus  *MainBus
	CPU  *lr35902.CPU
	PPU  *gbppu.PPU
	Cart *gbcart.Cartridge

	rnd *random.Random
	log *logger.Logger

	masterClock uint64
	frameReady  bool
	audio       []float32
}

// CurrentTick implements random.TickSource.
func (s *System) CurrentTick() uint64 { return s.masterClock }

// NewSystem builds a Game Boy System from a raw, headerless ROM dump.
func NewSystem(rom []byte, log *logger.Logger) (*System, error) {
	cart, err := gbcart.LoadCartridge(rom)
	if err != nil {
		return nil, fmt.Errorf("gb: %w", err)
	}

	if log == nil {
		log = logger.NewLogger(256)
	}

	s := &System{Cart: cart, log: log}
	s.rnd = random.NewRandom(s)

	s.PPU = gbppu.NewPPU()
	s.Bus = NewMainBus(cart, s.PPU)

	s.CPU = lr35902.NewCPU(s.rnd)
	s.Reset()
	return s, nil
}

// Reset restarts the LR35902 at its post-boot-ROM register state. The
// PPU and cartridge mapper state survive a soft reset; only power-on
// clears them, which this core does not model separately from
// construction.
func (s *System) Reset() {
	s.masterClock = 0
	s.frameReady = false
	s.CPU.Reset()
}

// SetInputs latches the current button matrix into the bus.
func (s *System) SetInputs(buttons Buttons) {
	s.Bus.SetInputs(buttons)
}

// FrameComplete reports whether the most recent TickOne call completed
// a video frame, consuming the flag.
func (s *System) FrameComplete() bool {
	v := s.frameReady
	s.frameReady = false
	return v
}

// FrameBuffer returns the PPU's current rendered frame.
func (s *System) FrameBuffer() []uint32 { return s.PPU.FrameBuffer() }

// FrameWidth/FrameHeight report the PPU's frame dimensions, for a
// frontend that needs to size a texture or window without knowing
// which console it's driving.
func (s *System) FrameWidth() int  { return s.PPU.FrameWidth() }
func (s *System) FrameHeight() int { return s.PPU.FrameHeight() }

// AudioSamples drains and returns whatever samples have accumulated
// since the last call. The four-channel APU is not implemented, so the
// stream is silence paced at the system's nominal 48000Hz/frame-rate
// ratio, matching this core's audio-synthesis non-goal while still
// exercising a frontend's buffer-draining contract.
func (s *System) AudioSamples() []float32 {
	out := s.audio
	s.audio = nil
	return out
}

// TickOne advances the LR35902 by one M-cycle, ticks the PPU and timer
// the matching four T-cycles, drains one byte of any active OAM DMA
// transfer, and resolves the PPU's VBlank/STAT interrupt lines into IF.
func (s *System) TickOne() error {
	if err := s.CPU.Step(s.Bus); err != nil {
		return fmt.Errorf("gb: lr35902: %w", err)
	}
	s.masterClock++

	if s.PPU.Tick(tcyclesPerMCycle) == gbppu.FrameComplete {
		s.frameReady = true
		s.appendSilentFrame()
	}
	if s.Bus.Timer.tick(tcyclesPerMCycle) {
		s.Bus.ifReg |= lr35902.IntTimer
	}
	s.Bus.refreshPPUInterrupts()
	s.Bus.tickOAMDMA()

	return nil
}

func (s *System) appendSilentFrame() {
	const samplesPerFrame = 48000 / 60 * 2
	s.audio = append(s.audio, make([]float32, samplesPerFrame)...)
}

// savedState is the persisted subset of System state: immutable ROM
// bytes are never included, only what changes at runtime.
type savedState struct {
	CPU         lr35902.CPU
	WRAM        []byte
	HRAM        [hramSize]uint8
	CartRAM     []byte
	IF, IE      uint8
	MasterClock uint64
}

// SaveState serialises the System's mutable state via encoding/gob, the
// same stdlib-of-necessity choice made throughout this module's system
// shells (no third-party serialization library exists anywhere in the
// dependency pack).
func (s *System) SaveState() ([]byte, error) {
	st := savedState{
		CPU:         *s.CPU,
		WRAM:        append([]byte(nil), s.Bus.WRAM.Bytes()...),
		HRAM:        s.Bus.HRAM,
		IF:          s.Bus.ifReg,
		IE:          s.Bus.ie,
		MasterClock: s.masterClock,
	}
	if len(s.Cart.RAM) > 0 {
		st.CartRAM = append([]byte(nil), s.Cart.RAM...)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("gb: save state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a buffer produced by SaveState. The cartridge ROM
// itself is assumed unchanged since the save.
func (s *System) LoadState(data []byte) error {
	var st savedState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("gb: load state: %w", err)
	}

	*s.CPU = st.CPU
	s.Bus.HRAM = st.HRAM
	s.Bus.ifReg = st.IF
	s.Bus.ie = st.IE
	s.masterClock = st.MasterClock
	s.Bus.WRAM.Load(st.WRAM)
	if len(st.CartRAM) > 0 && len(s.Cart.RAM) == len(st.CartRAM) {
		copy(s.Cart.RAM, st.CartRAM)
	}
	return nil
}
