// Package convert runs FADPCM to PCM conversion jobs.
package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fadpcm-server/pkg/config"
	"fadpcm-server/pkg/fadpcm"
	"fadpcm-server/pkg/media"
	"fadpcm-server/pkg/metrics"
	"fadpcm-server/pkg/wavout"
)

// chunkFrames is the number of frames decoded per read.
const chunkFrames = 16 * fadpcm.BlockSamples

var tracer = otel.Tracer("fadpcm-server/pkg/convert")

// Job describes one conversion.
type Job struct {
	ID     uuid.UUID
	Input  string
	Output string
	// Start is the first per-channel sample to convert.
	Start int64
	// Count limits the number of frames converted; 0 converts to the end.
	Count int64
}

// NewJob returns a Job with a fresh ID.
func NewJob(input, output string) Job {
	return Job{ID: uuid.New(), Input: input, Output: output}
}

// Result summarizes a finished job.
type Result struct {
	Frames   int64
	Channels int
	Duration time.Duration
}

// Run converts job.Input into job.Output using cfg. m may be nil.
func Run(ctx context.Context, job Job, cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) (res Result, err error) {
	started := time.Now()
	log := logger.WithField("job_id", job.ID.String())

	ctx, span := tracer.Start(ctx, "convert.Run", trace.WithAttributes(
		attribute.String("job.id", job.ID.String()),
		attribute.String("job.input", job.Input),
		attribute.String("job.format", cfg.OutputFormat),
		attribute.Int("fadpcm.channels", cfg.Channels),
	))
	defer func() {
		res.Duration = time.Since(started)
		if m != nil {
			m.ObserveConversion(cfg.OutputFormat, started, err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.WithError(err).Error("Conversion failed")
		} else {
			span.SetAttributes(attribute.Int64("fadpcm.frames", res.Frames))
		}
		span.End()
	}()

	if err := cfg.Validate(); err != nil {
		return res, err
	}

	in, err := os.Open(job.Input)
	if err != nil {
		return res, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return res, fmt.Errorf("failed to stat input: %w", err)
	}

	streamCfg := fadpcm.StreamConfig{
		Offset:     cfg.StreamOffset,
		Size:       info.Size() - cfg.StreamOffset,
		Channels:   cfg.Channels,
		SampleRate: cfg.SampleRate,
	}
	if m != nil {
		streamCfg.Observer = m
	}
	stream, err := fadpcm.NewStream(in, streamCfg)
	if err != nil {
		return res, err
	}
	if err := stream.SeekSample(job.Start); err != nil {
		return res, err
	}
	res.Channels = stream.Channels()

	total := stream.NumSamples() - job.Start
	if job.Count > 0 {
		total = min(total, job.Count)
	}

	log.WithFields(logrus.Fields{
		"input":    job.Input,
		"output":   job.Output,
		"channels": stream.Channels(),
		"rate":     stream.SampleRate(),
		"start":    job.Start,
		"frames":   total,
		"format":   cfg.OutputFormat,
	}).Info("Starting conversion")

	out, err := os.Create(job.Output)
	if err != nil {
		return res, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	sink, err := newSink(out, cfg, stream)
	if err != nil {
		return res, err
	}

	res.Frames, err = pump(ctx, stream, sink, total)
	if err != nil {
		return res, err
	}
	if err := sink.Close(); err != nil {
		return res, err
	}

	log.WithFields(logrus.Fields{
		"frames":   res.Frames,
		"duration": time.Since(started),
	}).Info("Conversion finished")
	return res, nil
}

// pump copies up to total frames from stream into sink.
func pump(ctx context.Context, stream *fadpcm.Stream, sink sampleSink, total int64) (int64, error) {
	channels := stream.Channels()
	buf := make([]int16, chunkFrames*channels)
	var frames int64

	for frames < total {
		want := min(int64(chunkFrames), total-frames)
		n, err := stream.ReadSamples(ctx, buf[:want*int64(channels)])
		if n > 0 {
			if werr := sink.WriteSamples(buf[:n]); werr != nil {
				return frames, werr
			}
			frames += int64(n / channels)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("decode failed at frame %d: %w", stream.Position(), err)
		}
	}
	return frames, nil
}

type sampleSink interface {
	WriteSamples([]int16) error
	Close() error
}

func newSink(f *os.File, cfg *config.Config, stream *fadpcm.Stream) (sampleSink, error) {
	switch cfg.OutputFormat {
	case config.FormatWAV:
		return wavout.NewWriter(f, stream.Channels(), stream.SampleRate())
	case config.FormatRaw:
		return &rawSink{w: bufio.NewWriter(f)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.OutputFormat)
	}
}

// rawSink writes headerless little-endian PCM.
type rawSink struct {
	w *bufio.Writer
}

func (s *rawSink) WriteSamples(samples []int16) error {
	_, err := s.w.Write(media.SamplesToPCM(samples))
	return err
}

func (s *rawSink) Close() error {
	return s.w.Flush()
}
