package segacd

// pcm is a minimal register-addressable model of the Sega CD's RF5C164
// PCM sound chip: enough to satisfy the sub bus's odd-address read/write
// contract at $FF0000-$FF7FFF. Cycle-exact audio synthesis is out of
// scope (the emulator's Non-goals exclude it beyond what drives sample
// generation), so this stores the chip's addressable byte space without
// mixing any waveform output.
type pcm struct {
	data [0x2000]uint8
}

func newPCM() *pcm { return &pcm{} }

func (p *pcm) read(addr uint32) uint8 {
	return p.data[addr&uint32(len(p.data)-1)]
}

func (p *pcm) write(addr uint32, value uint8) {
	p.data[addr&uint32(len(p.data)-1)] = value
}
