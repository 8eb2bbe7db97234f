package fadpcm

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Observer receives decode events from a Stream. Implementations must be
// safe for concurrent use: channels of a block are decoded in parallel.
type Observer interface {
	BlockDecoded(channel, samples int)
	DecodeFailed(err error)
}

// StreamConfig describes where a FADPCM stream lives inside its source.
type StreamConfig struct {
	// Offset is the byte offset of the first block.
	Offset int64
	// Size is the stream size in bytes. When zero it is taken from the
	// source if the source reports its size.
	Size int64
	// Channels is the number of externally interleaved channels.
	Channels int
	// SampleRate is informational and passed through to consumers.
	SampleRate int
	// Observer is optional.
	Observer Observer
}

// Stream decodes an externally interleaved FADPCM stream in which block b of
// channel c is stored at Offset + (b*Channels + c) * BlockSize.
//
// Every read re-derives its state from block headers, so positioning is
// exact at any sample.
type Stream struct {
	src        io.ReaderAt
	offset     int64
	channels   int
	sampleRate int
	numSamples int64
	observer   Observer

	pos int64
}

type sizer interface {
	Size() int64
}

// NewStream validates cfg and returns a Stream positioned at sample 0.
func NewStream(src io.ReaderAt, cfg StreamConfig) (*Stream, error) {
	if cfg.Channels < 1 {
		return nil, fmt.Errorf("%w: channels=%d", ErrInvalidArgument, cfg.Channels)
	}
	if cfg.Offset < 0 {
		return nil, fmt.Errorf("%w: offset=%d", ErrInvalidArgument, cfg.Offset)
	}

	size := cfg.Size
	if size == 0 {
		if sz, ok := src.(sizer); ok {
			size = sz.Size() - cfg.Offset
		}
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: size=%d", ErrInvalidArgument, size)
	}

	return &Stream{
		src:        src,
		offset:     cfg.Offset,
		channels:   cfg.Channels,
		sampleRate: cfg.SampleRate,
		numSamples: BytesToSamples(size, cfg.Channels),
		observer:   cfg.Observer,
	}, nil
}

// NumSamples returns the number of samples per channel.
func (s *Stream) NumSamples() int64 { return s.numSamples }

// Channels returns the channel count.
func (s *Stream) Channels() int { return s.channels }

// SampleRate returns the configured sample rate.
func (s *Stream) SampleRate() int { return s.sampleRate }

// Position returns the next sample ReadSamples will decode.
func (s *Stream) Position() int64 { return s.pos }

// SeekSample moves the read position to an absolute per-channel sample.
func (s *Stream) SeekSample(sample int64) error {
	if sample < 0 || sample > s.numSamples {
		return fmt.Errorf("%w: seek to %d outside [0,%d]", ErrInvalidArgument, sample, s.numSamples)
	}
	s.pos = sample
	return nil
}

// ReadSamples decodes interleaved frames from the current position into
// dst. len(dst) should be a multiple of the channel count; trailing slots
// of a partial frame are left untouched. It returns io.EOF once the stream
// is exhausted and ErrShortBuffer if dst cannot hold one frame.
func (s *Stream) ReadSamples(ctx context.Context, dst []int16) (int, error) {
	if s.pos >= s.numSamples {
		return 0, io.EOF
	}
	n, err := s.DecodeRange(ctx, s.pos, dst)
	s.pos += int64(n / s.channels)
	return n, err
}

// DecodeRange decodes interleaved frames starting at the per-channel sample
// first into dst, without touching the read position. It returns the number
// of int16 values written, which is a multiple of the channel count.
// A dst shorter than one frame returns ErrShortBuffer unless first is at
// the end of the stream.
func (s *Stream) DecodeRange(ctx context.Context, first int64, dst []int16) (int, error) {
	if first < 0 || first > s.numSamples {
		return 0, fmt.Errorf("%w: first=%d outside [0,%d]", ErrInvalidArgument, first, s.numSamples)
	}

	frames := int64(len(dst) / s.channels)
	if frames == 0 && first < s.numSamples {
		return 0, fmt.Errorf("%w: %d slots for %d channels", ErrShortBuffer, len(dst), s.channels)
	}
	frames = min(frames, s.numSamples-first)

	done := int64(0)
	for done < frames {
		if err := ctx.Err(); err != nil {
			return int(done) * s.channels, err
		}

		loc := Locate(0, first+done)
		todo := int(min(frames-done, int64(BlockSamples-loc.Skip)))
		out := dst[int(done)*s.channels:]

		if err := s.decodeBlock(loc, out, todo); err != nil {
			if s.observer != nil {
				s.observer.DecodeFailed(err)
			}
			return int(done) * s.channels, err
		}
		done += int64(todo)
	}
	return int(done) * s.channels, nil
}

// decodeBlock decodes block loc.Block of every channel into out.
func (s *Stream) decodeBlock(loc Location, out []int16, todo int) error {
	if s.channels == 1 {
		return s.decodeChannel(loc, 0, out, todo)
	}

	var g errgroup.Group
	for c := 0; c < s.channels; c++ {
		g.Go(func() error {
			return s.decodeChannel(loc, c, out[c:], todo)
		})
	}
	return g.Wait()
}

func (s *Stream) decodeChannel(loc Location, c int, out []int16, todo int) error {
	base := s.offset + (loc.Block*int64(s.channels)+int64(c))*BlockSize
	n, err := Decode(s.src, base, out, s.channels, int64(loc.Skip), todo)
	if err != nil {
		return fmt.Errorf("channel %d block %d: %w", c, loc.Block, err)
	}
	if s.observer != nil {
		s.observer.BlockDecoded(c, n)
	}
	return nil
}
