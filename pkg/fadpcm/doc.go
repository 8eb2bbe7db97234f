// Package fadpcm decodes FMOD's FADPCM, a PSX-style ADPCM variant with a
// 12-byte block header, into 16-bit linear PCM.
//
// A block is 0x8c bytes and holds 256 samples: a header with per-subframe
// coefficient and shift selectors plus two history samples, followed by
// eight subframes of 32 packed nibbles. Blocks carry no state between each
// other, so any sample can be reached by decoding a single block.
package fadpcm
