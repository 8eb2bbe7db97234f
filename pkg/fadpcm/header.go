package fadpcm

import (
	"encoding/binary"
	"io"
)

// Header is the decoded 12-byte block header.
type Header struct {
	CoefIndex   [Subframes]uint8
	ShiftFactor [Subframes]uint8
	Hist1       int16
	Hist2       int16
}

// ParseHeader decodes a header from the first HeaderSize bytes of b.
func ParseHeader(b []byte) Header {
	_ = b[HeaderSize-1]

	coefs := binary.LittleEndian.Uint32(b[0x00:])
	shifts := binary.LittleEndian.Uint32(b[0x04:])

	h := Header{
		Hist1: int16(binary.LittleEndian.Uint16(b[0x08:])),
		Hist2: int16(binary.LittleEndian.Uint16(b[0x0a:])),
	}
	for i := 0; i < Subframes; i++ {
		h.CoefIndex[i] = uint8(coefs>>(4*i)) & 0x0f
		h.ShiftFactor[i] = uint8(shifts>>(4*i)) & 0x0f
	}
	return h
}

// ReadHeader reads and decodes the header of the block at off.
func ReadHeader(src io.ReaderAt, off int64) (Header, error) {
	var b [HeaderSize]byte
	if err := readFull(src, b[:], off); err != nil {
		return Header{}, err
	}
	return ParseHeader(b[:]), nil
}

// Shift returns the arithmetic right shift applied to subframe i nibbles,
// in the range 0x16 down to 0x07.
func (h Header) Shift(i int) uint {
	return shiftBias - uint(h.ShiftFactor[i])
}

const shiftBias = 0x16

// readFull fills b from src at off. A complete read that also reports
// io.EOF is a success; anything shorter returns the reader's error as is.
func readFull(src io.ReaderAt, b []byte, off int64) error {
	n, err := src.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}
