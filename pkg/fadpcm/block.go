package fadpcm

const (
	// BlockSize is the encoded size of one block.
	BlockSize = 0x8c
	// HeaderSize is the size of the block header.
	HeaderSize = 0x0c
	// SubframeSize is the encoded size of one subframe.
	SubframeSize = 0x10
	// Subframes is the number of subframes per block.
	Subframes = 8
	// BlockSamples is the number of samples a block decodes to.
	BlockSamples = (BlockSize - HeaderSize) * 2

	nibblesPerWord = 8
	wordsPerFrame  = SubframeSize / 4
)

// Location addresses the block holding an absolute sample.
type Location struct {
	Block  int64 // block index from the stream start
	Skip   int   // samples to discard inside the block
	Offset int64 // byte offset of the block header
}

// Locate maps an absolute sample index onto its block. It does not know the
// stream length; out-of-range indices are the caller's concern.
func Locate(base, firstSample int64) Location {
	block := firstSample / BlockSamples
	return Location{
		Block:  block,
		Skip:   int(firstSample % BlockSamples),
		Offset: base + BlockSize*block,
	}
}

// BytesToSamples returns how many whole samples per channel fit in size
// bytes of externally interleaved data.
func BytesToSamples(size int64, channels int) int64 {
	if channels <= 0 || size <= 0 {
		return 0
	}
	return size / int64(channels) / BlockSize * BlockSamples
}
