// Package sdlaudio queues a System's synthesized audio stream to an
// SDL2 audio device, in the same open-device/queue-buffer/flush shape
// the teacher's gui/sdlplay audio.go uses, generalized from its fixed
// 8-bit mono TIA samples to this module's float32 stereo-silence
// stream (no console in this tree synthesizes real channel audio yet;
// see each System's AudioSamples doc comment).
package sdlaudio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/sdl"
)

const sampleRate = 48000

// Output owns one SDL audio playback device.
type Output struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
	buf  []byte // scratch buffer for the per-call float32->byte conversion
}

// NewOutput opens a stereo, 32-bit-float playback device at the
// module's nominal 48000Hz sample rate.
func NewOutput() (*Output, error) {
	want := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 2,
		Samples:  1024,
	}
	var got sdl.AudioSpec

	id, err := sdl.OpenAudioDevice("", false, want, &got, 0)
	if err != nil {
		return nil, fmt.Errorf("sdlaudio: open device: %w", err)
	}
	sdl.PauseAudioDevice(id, false)

	return &Output{id: id, spec: got}, nil
}

// QueueSamples appends interleaved stereo float32 samples to the
// device's queue. AUDIO_F32SYS is the host's native float byte order;
// this core only targets little-endian hosts (amd64/arm64), so the
// conversion is written directly in that order rather than reaching
// for unsafe.
func (o *Output) QueueSamples(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	if cap(o.buf) < len(samples)*4 {
		o.buf = make([]byte, len(samples)*4)
	}
	o.buf = o.buf[:len(samples)*4]

	for i, s := range samples {
		binary.LittleEndian.PutUint32(o.buf[i*4:], math.Float32bits(s))
	}

	if err := sdl.QueueAudio(o.id, o.buf); err != nil {
		return fmt.Errorf("sdlaudio: queue audio: %w", err)
	}
	return nil
}

// QueuedBytes reports how much audio is still buffered on the device,
// useful for a frontend pacing how far ahead of playback it renders.
func (o *Output) QueuedBytes() uint32 { return sdl.GetQueuedAudioSize(o.id) }

// Close stops and releases the audio device.
func (o *Output) Close() {
	sdl.CloseAudioDevice(o.id)
}
