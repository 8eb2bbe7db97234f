// Package metrics exposes decode counters in Prometheus format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects decoder statistics. It implements fadpcm.Observer.
type Metrics struct {
	BlocksDecoded      *prometheus.CounterVec
	SamplesDecoded     prometheus.Counter
	DecodeErrors       prometheus.Counter
	ConversionDuration *prometheus.HistogramVec
}

// New registers the decoder metrics on reg. A nil reg uses a private
// registry, which keeps repeated construction in tests from colliding.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		BlocksDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fadpcm_blocks_decoded_total",
			Help: "Number of FADPCM blocks decoded, by channel.",
		}, []string{"channel"}),
		SamplesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fadpcm_samples_decoded_total",
			Help: "Number of PCM samples produced across all channels.",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "fadpcm_decode_errors_total",
			Help: "Number of failed block decodes.",
		}),
		ConversionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fadpcm_conversion_duration_seconds",
			Help:    "Wall time of conversion jobs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format", "status"}),
	}
}

// BlockDecoded records one decoded block.
func (m *Metrics) BlockDecoded(channel, samples int) {
	m.BlocksDecoded.WithLabelValues(strconv.Itoa(channel)).Inc()
	m.SamplesDecoded.Add(float64(samples))
}

// DecodeFailed records a failed block decode.
func (m *Metrics) DecodeFailed(error) {
	m.DecodeErrors.Inc()
}

// ObserveConversion records the duration of a conversion job.
func (m *Metrics) ObserveConversion(format string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ConversionDuration.WithLabelValues(format, status).Observe(time.Since(started).Seconds())
}
