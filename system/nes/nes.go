package nes

import (
	"bytes"
	"encoding/gob"
	"fmt"

	gencart "github.com/silicontrace/multicore/hardware/cartridge/nes"
	"github.com/silicontrace/multicore/hardware/cpu/mos6502"
	"github.com/silicontrace/multicore/logger"
	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/random"
	"github.com/silicontrace/multicore/video/nesppu"
)

// ppuDotsPerCPUCycle is the 2C02's fixed 3:1 dot rate against the 6502.
const ppuDotsPerCPUCycle = 3

// Buttons is the bitmask layout SetInputs uses for one standard
// controller, in the shift-register order a real pad reports them (A, B,
// Select, Start, Up, Down, Left, Right).
type Buttons uint8

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Inputs is the per-frame controller snapshot SetInputs consumes.
type Inputs struct {
	Pad1 Buttons
	Pad2 Buttons
}

// System is a complete NES/Famicom emulation: 6502 primary CPU, PPU,
// cartridge mapper, and two controller ports, advanced one CPU cycle at a
// time.
type System struct {
	Bus  *MainBus
	CPU  *mos6502.CPU
	PPU  *nesppu.PPU
	Cart *gencart.Cartridge

	mapper *gencart.Mapper

	rnd *random.Random
	log *logger.Logger

	cfg prefs.Config

	masterClock uint64
	frameReady  bool
	audio       []float32
}

// CurrentTick implements random.TickSource.
func (s *System) CurrentTick() uint64 { return s.masterClock }

// NewSystem builds an NES System from a full iNES/NES 2.0 ROM image.
func NewSystem(rom []byte, cfg prefs.Config, log *logger.Logger) (*System, error) {
	cart, mapper, err := gencart.LoadCartridge(rom, cfg)
	if err != nil {
		return nil, fmt.Errorf("nes: %w", err)
	}

	if log == nil {
		log = logger.NewLogger(256)
	}

	s := &System{Cart: cart, mapper: mapper, cfg: cfg, log: log}
	s.rnd = random.NewRandom(s)

	s.PPU = nesppu.NewPPU(mapper)
	s.Bus = NewMainBus(mapper, s.PPU)

	s.CPU = mos6502.NewCPU(s.rnd)
	s.Reset()
	return s, nil
}

// Reset reloads the 6502's reset vector. PPU and mapper state survive a
// soft reset; only power-on clears them, which this core does not model
// separately from construction.
func (s *System) Reset() {
	s.masterClock = 0
	s.frameReady = false
	s.CPU.Reset()
	if err := s.CPU.LoadResetVector(s.Bus); err != nil {
		s.log.Logf(logger.Allow, "nes", "reset vector load failed: %v", err)
	}
}

// SetInputs latches the current controller state into both ports' shift
// registers.
func (s *System) SetInputs(in Inputs) {
	s.Bus.SetInputs(in.Pad1, in.Pad2)
}

// FrameComplete reports whether the most recent TickOne call completed a
// video frame, consuming the flag.
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

// AudioSamples drains and returns whatever samples have accumulated since
// the last call. APU channel synthesis and mapper expansion audio are not
// implemented, so the stream is silence paced at the system's nominal
// 48000Hz/frame-rate ratio, matching the core's stated audio-synthesis
// non-goal while still exercising a frontend's buffer-draining contract.
func (s *System) AudioSamples() []float32 {
	out := s.audio
	s.audio = nil
	return out
}

// TickOne advances the primary CPU by one cycle, ticks the PPU the three
// dots that correspond to it, resolves the NMI line from the PPU's
// VBlank/NMI-enable state, and ticks the mapper's per-CPU-cycle IRQ
// counter.
func (s *System) TickOne() error {
	if err := s.CPU.Step(s.Bus); err != nil {
		return fmt.Errorf("nes: 6502: %w", err)
	}
	s.masterClock++

	for i := 0; i < ppuDotsPerCPUCycle; i++ {
		if s.PPU.Tick() == nesppu.FrameComplete {
			s.frameReady = true
			s.appendSilentFrame()
		}
	}

	s.mapper.TickCPU()
	s.Bus.latchNMI(s.PPU.NMIPending())

	return nil
}

func (s *System) appendSilentFrame() {
	const samplesPerFrame = 48000 / 60 * 2
	s.audio = append(s.audio, make([]float32, samplesPerFrame)...)
}

// savedState is the persisted subset of System state: immutable ROM
// bytes are never included, only what changes at runtime.
type savedState struct {
	CPU         mos6502.CPU
	WRAM        []byte
	PRGRAM      []byte
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
		MasterClock: s.masterClock,
	}
	if len(s.Cart.PRGRAM) > 0 {
		st.PRGRAM = append([]byte(nil), s.Cart.PRGRAM...)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("nes: save state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a buffer produced by SaveState. The cartridge ROM
// itself is assumed unchanged since the save.
func (s *System) LoadState(data []byte) error {
	var st savedState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("nes: load state: %w", err)
	}

	*s.CPU = st.CPU
	s.masterClock = st.MasterClock
	s.Bus.WRAM.Load(st.WRAM)
	if len(st.PRGRAM) > 0 && len(s.Cart.PRGRAM) == len(st.PRGRAM) {
		copy(s.Cart.PRGRAM, st.PRGRAM)
	}
	return nil
}
