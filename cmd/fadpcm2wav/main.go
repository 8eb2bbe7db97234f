package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"fadpcm-server/pkg/config"
	"fadpcm-server/pkg/convert"
	"fadpcm-server/pkg/metrics"
)

type options struct {
	envFile  string
	input    string
	output   string
	channels int
	rate     int
	offset   int64
	start    int64
	count    int64
	format   string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("fadpcm2wav", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.envFile, "env", ".env", "optional .env file")
	fs.StringVar(&opts.input, "in", "", "input FADPCM stream")
	fs.StringVar(&opts.output, "out", "", "output file (default: input with .wav or .pcm)")
	fs.IntVar(&opts.channels, "channels", 0, "interleaved channel count (overrides FADPCM_CHANNELS)")
	fs.IntVar(&opts.rate, "rate", 0, "sample rate (overrides FADPCM_SAMPLE_RATE)")
	fs.Int64Var(&opts.offset, "offset", -1, "byte offset of the first block (overrides FADPCM_STREAM_OFFSET)")
	fs.Int64Var(&opts.start, "start", 0, "first sample to convert")
	fs.Int64Var(&opts.count, "count", 0, "number of samples to convert, 0 for all")
	fs.StringVar(&opts.format, "format", "", "output format: wav or raw (overrides FADPCM_OUTPUT_FORMAT)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.input == "" && fs.NArg() > 0 {
		opts.input = fs.Arg(0)
	}
	if opts.input == "" {
		return nil, errors.New("no input file given")
	}
	return opts, nil
}

func (o *options) apply(cfg *config.Config) {
	if o.channels > 0 {
		cfg.Channels = o.channels
	}
	if o.rate > 0 {
		cfg.SampleRate = o.rate
	}
	if o.offset >= 0 {
		cfg.StreamOffset = o.offset
	}
	if o.format != "" {
		cfg.OutputFormat = strings.ToLower(o.format)
	}
	if o.output == "" {
		o.output = strings.TrimSuffix(o.input, ".fadpcm") + "." + outputExt(cfg.OutputFormat)
	}
}

func outputExt(format string) string {
	if format == config.FormatRaw {
		return "pcm"
	}
	return "wav"
}

func run(ctx context.Context, args []string, reg prometheus.Registerer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.NewLogger()
	job := convert.NewJob(opts.input, opts.output)
	job.Start = opts.start
	job.Count = opts.count

	_, err = convert.Run(ctx, job, cfg, logger, metrics.New(reg))
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], prometheus.DefaultRegisterer); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logrus.WithError(err).Error("fadpcm2wav failed")
		fmt.Fprintln(os.Stderr, "usage: fadpcm2wav [flags] -in <file>")
		os.Exit(1)
	}
}
