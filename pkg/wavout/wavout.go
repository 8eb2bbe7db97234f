// Package wavout writes decoded 16-bit PCM into RIFF/WAVE files.
package wavout

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth     = 16
	formatPCMTag = 1
)

// Writer streams interleaved samples into a WAV container. The header is
// finalized on Close, which requires a seekable destination.
type Writer struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int64
}

// NewWriter starts a 16-bit PCM WAV stream on ws.
func NewWriter(ws io.WriteSeeker, channels, sampleRate int) (*Writer, error) {
	if channels < 1 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid wav format: channels=%d rate=%d", channels, sampleRate)
	}
	return &Writer{
		enc: wav.NewEncoder(ws, sampleRate, bitDepth, channels, formatPCMTag),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples appends interleaved samples. len(samples) must be a multiple
// of the channel count.
func (w *Writer) WriteSamples(samples []int16) error {
	channels := w.buf.Format.NumChannels
	if len(samples)%channels != 0 {
		return fmt.Errorf("%d samples do not form whole frames of %d channels", len(samples), channels)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	w.frames += int64(len(samples) / channels)
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int64 { return w.frames }

// Close finalizes the WAV header. It does not close the destination.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

// Write encodes a complete buffer of interleaved samples to ws.
func Write(ws io.WriteSeeker, samples []int16, channels, sampleRate int) error {
	w, err := NewWriter(ws, channels, sampleRate)
	if err != nil {
		return err
	}
	if err := w.WriteSamples(samples); err != nil {
		return err
	}
	return w.Close()
}
