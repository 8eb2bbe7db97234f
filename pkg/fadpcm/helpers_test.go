package fadpcm

import (
	"encoding/binary"
	"math/rand"
)

type testBlock struct {
	coefs, shifts uint32
	hist1, hist2  int16
	words         [Subframes * wordsPerFrame]uint32
}

func (tb testBlock) bytes() []byte {
	b := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(b[0x00:], tb.coefs)
	binary.LittleEndian.PutUint32(b[0x04:], tb.shifts)
	binary.LittleEndian.PutUint16(b[0x08:], uint16(tb.hist1))
	binary.LittleEndian.PutUint16(b[0x0a:], uint16(tb.hist2))
	for i, w := range tb.words {
		binary.LittleEndian.PutUint32(b[HeaderSize+4*i:], w)
	}
	return b
}

func randomBlock(rng *rand.Rand) []byte {
	tb := testBlock{
		coefs:  rng.Uint32(),
		shifts: rng.Uint32(),
		hist1:  int16(rng.Intn(1 << 16)),
		hist2:  int16(rng.Intn(1 << 16)),
	}
	for i := range tb.words {
		tb.words[i] = rng.Uint32()
	}
	return tb.bytes()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// referenceDecode decodes a whole block with 64-bit arithmetic and explicit
// floor division.
func referenceDecode(block []byte) []int16 {
	coefs := binary.LittleEndian.Uint32(block[0:])
	shifts := binary.LittleEndian.Uint32(block[4:])
	h1 := int64(int16(binary.LittleEndian.Uint16(block[8:])))
	h2 := int64(int16(binary.LittleEndian.Uint16(block[10:])))
	table := [7][2]int64{{0, 0}, {60, 0}, {122, 60}, {115, 52}, {98, 55}, {0, 0}, {0, 0}}

	out := make([]int16, 0, BlockSamples)
	for i := 0; i < Subframes; i++ {
		c := table[((coefs>>(4*i))&0xf)%7]
		shift := 0x16 - int64((shifts>>(4*i))&0xf)
		for j := 0; j < 4; j++ {
			w := binary.LittleEndian.Uint32(block[HeaderSize+SubframeSize*i+4*j:])
			for k := 0; k < 8; k++ {
				n := int64((w >> (4 * k)) & 0xf)
				if n >= 8 {
					n -= 16
				}
				v := floorDiv(n<<28, int64(1)<<shift)
				v = floorDiv(v-h2*c[1]+h1*c[0], 64)
				v = max(-32768, min(32767, v))
				out = append(out, int16(v))
				h2, h1 = h1, v
			}
		}
	}
	return out
}
