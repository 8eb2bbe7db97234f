// Package config loads converter settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatWAV = "wav"
	FormatRaw = "raw"
)

// Config holds converter settings.
type Config struct {
	Channels     int
	SampleRate   int
	StreamOffset int64
	OutputFormat string
	LogLevel     string
	LogFormat    string
}

// Load reads envFile, if it exists, into the process environment and
// builds a Config from it. Variables already set in the environment win.
// Only malformed numbers fail here; call Validate once all overrides are
// applied.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		OutputFormat: strings.ToLower(getEnv("FADPCM_OUTPUT_FORMAT", FormatWAV)),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Channels, err = getEnvInt("FADPCM_CHANNELS", 1); err != nil {
		return nil, err
	}
	if cfg.SampleRate, err = getEnvInt("FADPCM_SAMPLE_RATE", 44100); err != nil {
		return nil, err
	}
	offset, err := getEnvInt("FADPCM_STREAM_OFFSET", 0)
	if err != nil {
		return nil, err
	}
	cfg.StreamOffset = int64(offset)

	return cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", c.Channels)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.StreamOffset < 0 {
		return fmt.Errorf("stream offset must not be negative, got %d", c.StreamOffset)
	}
	switch c.OutputFormat {
	case FormatWAV, FormatRaw:
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// NewLogger builds a logger from the log settings.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
