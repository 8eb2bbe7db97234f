package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"fadpcm-server/pkg/fadpcm"
)

var _ fadpcm.Observer = (*Metrics)(nil)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.BlockDecoded(0, 256)
	m.BlockDecoded(0, 100)
	m.BlockDecoded(1, 256)
	m.DecodeFailed(errors.New("short read"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.BlocksDecoded.WithLabelValues("0")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.BlocksDecoded.WithLabelValues("1")))
	require.Equal(t, 612.0, testutil.ToFloat64(m.SamplesDecoded))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors))

	m.ObserveConversion("wav", time.Now(), nil)
	m.ObserveConversion("raw", time.Now(), errors.New("x"))
	require.Equal(t, 2, testutil.CollectAndCount(m.ConversionDuration))

	n, err := testutil.GatherAndCount(reg, "fadpcm_blocks_decoded_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestNewNilRegistry(t *testing.T) {
	require.NotPanics(t, func() {
		New(nil)
		New(nil)
	})
}
