package sms

import (
	"bytes"
	"encoding/gob"
	"fmt"

	gencart "github.com/silicontrace/multicore/hardware/cartridge/sms"
	"github.com/silicontrace/multicore/hardware/cpu/z80"
	"github.com/silicontrace/multicore/logger"
	"github.com/silicontrace/multicore/prefs"
	"github.com/silicontrace/multicore/random"
	"github.com/silicontrace/multicore/video/smsvdp"
)

// Inputs is the per-frame controller snapshot SetInputs consumes.
// PausePressed models the console's Pause button, wired directly to
// the Z80's NMI line rather than to either controller port.
type Inputs struct {
	Pad1, Pad2   Buttons
	PausePressed bool
}

// System is a complete Master System/Game Gear emulation: Z80 primary
// CPU, VDP, and cartridge mapper, advanced one Z80 cycle at a time. The
// VDP's own documented "cycles per scanline" figure is expressed in
// this same Z80-cycle unit, so no separate dot-rate divider is needed
// the way the NES/Genesis shells need between their CPU and PPU/VDP.
type System struct {
	Bus  *MainBus
	CPU  *z80.CPU
	VDP  *smsvdp.VDP
	Cart *gencart.Cartridge

	mapper *gencart.Mapper

	rnd *random.Random
	log *logger.Logger

	masterClock uint64
	frameReady  bool
	audio       []float32

	prevPause bool
}

// CurrentTick implements random.TickSource.
func (s *System) CurrentTick() uint64 { return s.masterClock }

// NewSystem builds an SMS/Game Gear System from a raw, headerless ROM
// dump.
func NewSystem(rom []byte, cfg prefs.Config, log *logger.Logger) (*System, error) {
	cart, mapper, err := gencart.LoadCartridge(rom, cfg)
	if err != nil {
		return nil, fmt.Errorf("sms: %w", err)
	}

	if log == nil {
		log = logger.NewLogger(256)
	}

	timing := smsvdp.TimingNTSC
	if cart.Region == gencart.RegionPAL {
		timing = smsvdp.TimingPAL
	}

	s := &System{Cart: cart, mapper: mapper, log: log}
	s.rnd = random.NewRandom(s)

	s.VDP = smsvdp.NewVDP(timing)
	s.Bus = NewMainBus(mapper, s.VDP)

	s.CPU = z80.NewCPU(s.rnd)
	s.Reset()
	return s, nil
}

// Reset restarts the Z80 at its fixed $0000 reset vector. The VDP and
// mapper state survive a soft reset; only power-on clears them, which
// this core does not model separately from construction.
func (s *System) Reset() {
	s.masterClock = 0
	s.frameReady = false
	s.prevPause = false
	s.CPU.Reset()
}

// SetInputs latches the current controller/pause state into the bus.
func (s *System) SetInputs(in Inputs) {
	s.Bus.SetInputs(in.Pad1, in.Pad2)
	s.Bus.latchPauseNMI(in.PausePressed, s.prevPause)
	s.prevPause = in.PausePressed
}

// FrameComplete reports whether the most recent TickOne call completed a
// video frame, consuming the flag.
func (s *System) FrameComplete() bool {
	v := s.frameReady
	s.frameReady = false
	return v
}

// FrameBuffer returns the VDP's current rendered frame.
func (s *System) FrameBuffer() []uint32 { return s.VDP.FrameBuffer() }

// FrameWidth/FrameHeight report the VDP's frame dimensions, for a
// frontend that needs to size a texture or window without knowing
// which console it's driving.
func (s *System) FrameWidth() int  { return s.VDP.FrameWidth() }
func (s *System) FrameHeight() int { return s.VDP.FrameHeight() }

// AudioSamples drains and returns whatever samples have accumulated
// since the last call. PSG (SN76489) channel synthesis is not
// implemented, so the stream is silence paced at the system's nominal
// 48000Hz/frame-rate ratio, matching the core's stated audio-synthesis
// non-goal while still exercising a frontend's buffer-draining contract.
func (s *System) AudioSamples() []float32 {
	out := s.audio
	s.audio = nil
	return out
}

// TickOne advances the Z80 by one cycle, ticks the VDP the matching
// single unit, and resolves the VDP's VBlank/line interrupt level onto
// the Z80's INT line.
func (s *System) TickOne() error {
	if err := s.CPU.Step(s.Bus); err != nil {
		return fmt.Errorf("sms: z80: %w", err)
	}
	s.masterClock++

	if s.VDP.Tick(1) == smsvdp.FrameComplete {
		s.frameReady = true
		s.appendSilentFrame()
	}
	s.Bus.refreshIntLine()

	return nil
}

func (s *System) appendSilentFrame() {
	const samplesPerFrame = 48000 / 60 * 2
	s.audio = append(s.audio, make([]float32, samplesPerFrame)...)
}

// savedState is the persisted subset of System state: immutable ROM
// bytes are never included, only what changes at runtime.
type savedState struct {
	CPU         z80.CPU
	CPUFlags    uint8 // z80.CPU.flags is unexported; gob would otherwise drop it
	WRAM        []byte
	CartRAM     []byte
	MasterClock uint64
}

// SaveState serialises the System's mutable state via encoding/gob, the
// same stdlib-of-necessity choice made throughout this module's system
// shells (no third-party serialization library exists anywhere in the
// dependency pack).
func (s *System) SaveState() ([]byte, error) {
	st := savedState{
		CPU:         *s.CPU,
		CPUFlags:    s.CPU.Flags(),
		WRAM:        append([]byte(nil), s.Bus.WRAM.Bytes()...),
		MasterClock: s.masterClock,
	}
	if len(s.Cart.RAM) > 0 {
		st.CartRAM = append([]byte(nil), s.Cart.RAM...)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("sms: save state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a buffer produced by SaveState. The cartridge ROM
// itself is assumed unchanged since the save.
func (s *System) LoadState(data []byte) error {
	var st savedState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("sms: load state: %w", err)
	}

	*s.CPU = st.CPU
	s.CPU.SetFlags(st.CPUFlags)
	s.masterClock = st.MasterClock
	s.Bus.WRAM.Load(st.WRAM)
	if len(st.CartRAM) > 0 && len(s.Cart.RAM) == len(st.CartRAM) {
		copy(s.Cart.RAM, st.CartRAM)
	}
	return nil
}
