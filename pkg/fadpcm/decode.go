package fadpcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidArgument is returned for negative positions or counts and
	// for a channel spacing below one.
	ErrInvalidArgument = errors.New("fadpcm: invalid argument")
	// ErrShortBuffer is returned when the output cannot hold the requested
	// samples at the given spacing.
	ErrShortBuffer = errors.New("fadpcm: output buffer too small")
)

// Decode decodes up to samplesToDo samples of the block holding firstSample
// into out, writing one sample every spacing slots. The stream starts at
// base. Only one block is touched per call: samples past its end are left
// for the next call, made with the following start sample.
//
// The whole block is read with a single ReadAt. A short read returns the
// error from src unchanged and nothing is written.
func Decode(src io.ReaderAt, base int64, out []int16, spacing int, firstSample int64, samplesToDo int) (int, error) {
	if spacing < 1 || firstSample < 0 || samplesToDo < 0 {
		return 0, fmt.Errorf("%w: spacing=%d first=%d count=%d", ErrInvalidArgument, spacing, firstSample, samplesToDo)
	}
	if samplesToDo == 0 {
		return 0, nil
	}

	loc := Locate(base, firstSample)
	want := min(samplesToDo, BlockSamples-loc.Skip)
	if need := (want-1)*spacing + 1; len(out) < need {
		return 0, fmt.Errorf("%w: need %d slots, have %d", ErrShortBuffer, need, len(out))
	}

	var block [BlockSize]byte
	if err := readFull(src, block[:], loc.Offset); err != nil {
		return 0, err
	}
	return DecodeBlock(block[:], out, spacing, loc.Skip, samplesToDo), nil
}

// DecodeBlock decodes one in-memory block. The first skip samples are
// decoded to advance the prediction history but not written; at most
// samplesToDo samples are stored, at out[n*spacing]. It returns the number
// of samples written.
//
// DecodeBlock does not validate its arguments. It panics if block is shorter
// than BlockSize or out is shorter than (n-1)*spacing+1 for the n samples it
// writes, and spacing must be at least one with skip in [0, BlockSamples).
// Decode is the checked entry point.
func DecodeBlock(block []byte, out []int16, spacing, skip, samplesToDo int) int {
	_ = block[BlockSize-1]
	h := ParseHeader(block)

	hist1 := int32(h.Hist1)
	hist2 := int32(h.Hist2)
	done, count := 0, 0

	for i := 0; i < Subframes && done < samplesToDo; i++ {
		coef1, coef2 := Coefs(h.CoefIndex[i])
		shift := h.Shift(i)
		group := block[HeaderSize+SubframeSize*i:]

		for j := 0; j < wordsPerFrame && done < samplesToDo; j++ {
			nibbles := binary.LittleEndian.Uint32(group[4*j:])

			for k := 0; k < nibblesPerWord; k++ {
				// Sign extend and scale in one arithmetic shift.
				sample := int32((nibbles>>(4*k))<<28) >> shift
				sample = sample - hist2*coef2 + hist1*coef1
				// Floors toward -inf; a division by 64 would not match.
				sample >>= 6
				sample = clamp16(sample)

				if count >= skip && done < samplesToDo {
					out[done*spacing] = int16(sample)
					done++
				}
				count++

				hist2 = hist1
				hist1 = sample
			}
		}
	}
	return done
}

func clamp16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}
