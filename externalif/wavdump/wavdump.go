// Package wavdump captures a System's AudioSamples() stream to a .wav
// file on disk. No console in this tree synthesizes real channel audio
// yet (every System's AudioSamples doc comment says so), so in
// practice this records silence paced at the nominal frame rate; it
// exists to exercise the same capture path a future channel-synthesis
// pass would use, and to give go-audio/wav and go-audio/audio (present
// in the dependency pack but unused by the teacher's own source tree)
// a concrete home.
package wavdump

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	sampleRate = 48000
	bitDepth   = 16
	channels   = 2

	pcmFormat = 1 // WAVE_FORMAT_PCM
)

// Dumper owns one open .wav file and its encoder.
type Dumper struct {
	file *os.File
	enc  *wav.Encoder
}

// Create opens path and prepares it for streamed interleaved-stereo
// PCM16 writes at the module's nominal 48000Hz sample rate.
func Create(path string) (*Dumper, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavdump: %w", err)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormat)
	return &Dumper{file: f, enc: enc}, nil
}

// Write appends one call's worth of interleaved float32 samples (the
// shape System.AudioSamples returns), clipping to [-1,1] and
// converting to signed 16-bit PCM.
func (d *Dumper) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	ints := make([]int, len(samples))
	for i, s := range samples {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		ints[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: bitDepth,
	}
	if err := d.enc.Write(buf); err != nil {
		return fmt.Errorf("wavdump: write: %w", err)
	}
	return nil
}

// Close finalises the WAV header and closes the underlying file.
func (d *Dumper) Close() error {
	if err := d.enc.Close(); err != nil {
		d.file.Close()
		return fmt.Errorf("wavdump: close encoder: %w", err)
	}
	return d.file.Close()
}
