package fadpcm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	for _, ca := range []struct {
		name  string
		base  int64
		first int64
		loc   Location
	}{
		{"start", 0, 0, Location{Block: 0, Skip: 0, Offset: 0}},
		{"inside first block", 0, 255, Location{Block: 0, Skip: 255, Offset: 0}},
		{"second block", 0, 256, Location{Block: 1, Skip: 0, Offset: 0x8c}},
		{"with base", 0x40, 1000, Location{Block: 3, Skip: 232, Offset: 0x40 + 3*0x8c}},
	} {
		t.Run(ca.name, func(t *testing.T) {
			require.Equal(t, ca.loc, Locate(ca.base, ca.first))
		})
	}
}

func TestBytesToSamples(t *testing.T) {
	require.Equal(t, int64(256), BytesToSamples(BlockSize, 1))
	require.Equal(t, int64(256), BytesToSamples(BlockSize*2+10, 2))
	require.Equal(t, int64(0), BytesToSamples(BlockSize-1, 1))
	require.Equal(t, int64(0), BytesToSamples(BlockSize, 0))
	require.Equal(t, int64(768), BytesToSamples(BlockSize*3, 1))
}

func TestCoefsFold(t *testing.T) {
	for i := 0; i < 16; i++ {
		c1, c2 := Coefs(uint8(i))
		require.Equal(t, coefTable[i%7][0], c1, "index %d", i)
		require.Equal(t, coefTable[i%7][1], c2, "index %d", i)
	}

	c1, c2 := Coefs(7)
	require.Equal(t, [2]int32{0, 0}, [2]int32{c1, c2})
	c1, c2 = Coefs(14)
	require.Equal(t, [2]int32{0, 0}, [2]int32{c1, c2})
	c1, c2 = Coefs(9)
	require.Equal(t, [2]int32{122, 60}, [2]int32{c1, c2})
}

func TestParseHeader(t *testing.T) {
	b := testBlock{
		coefs:  0x76543210,
		shifts: 0xfedcba98,
		hist1:  -2,
		hist2:  1234,
	}.bytes()

	h := ParseHeader(b)
	require.Equal(t, [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}, h.CoefIndex)
	require.Equal(t, [8]uint8{8, 9, 10, 11, 12, 13, 14, 15}, h.ShiftFactor)
	require.Equal(t, int16(-2), h.Hist1)
	require.Equal(t, int16(1234), h.Hist2)
	require.Equal(t, uint(0x16-8), h.Shift(0))
	require.Equal(t, uint(0x07), h.Shift(7))
}
