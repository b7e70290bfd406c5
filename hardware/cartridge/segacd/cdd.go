package segacd

// cdd models the CD drive's command/status protocol: a 10-byte status
// buffer the sub CPU polls at $FF8038-$FF8041 and a command buffer it
// fills and sends at $FF8042-$FF804B. Actual disc-track seeking/audio
// playback is outside this package's scope; sendCommand only updates
// the status buffer's checksum-free echo fields enough to unblock BIOS
// polling loops that wait for a status reply.
type cdd struct {
	statusBuf [10]uint8
	playing   bool
	fader     uint16

	intPending bool
}

func newCDD() *cdd { return &cdd{} }

func (d *cdd) status() [10]uint8 { return d.statusBuf }

func (d *cdd) sendCommand(command [10]uint8) {
	// Echo the command's first nibble back as the status reply's
	// leading byte, matching the drive's command/status handshake
	// shape without modelling disc contents.
	d.statusBuf[0] = command[0]
	d.intPending = true
}

func (d *cdd) playingAudio() bool { return d.playing }

func (d *cdd) setFaderVolume(v uint16) { d.fader = v }

func (d *cdd) interruptPending() bool { return d.intPending }
func (d *cdd) acknowledgeInterrupt()  { d.intPending = false }
