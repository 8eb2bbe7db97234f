package media

import (
	"encoding/binary"
	"fmt"

	"fadpcm-server/pkg/fadpcm"
)

// DecodeAudioPayload converts a codec-specific payload into 16-bit PCM.
// Multi-channel FADPCM payloads hold one block per channel in turn; the
// returned slice is interleaved and uses little-endian byte ordering.
func DecodeAudioPayload(payload []byte, codecName string, channels int) ([]byte, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	switch canonicalCodecName(codecName) {
	case "FADPCM":
		samples, err := decodeFADPCMPayload(payload, channels)
		if err != nil {
			return nil, err
		}
		return SamplesToPCM(samples), nil
	case "L16":
		// Already 16-bit linear PCM
		if len(payload)%(2*channels) != 0 {
			return nil, fmt.Errorf("L16 payload of %d bytes is not frame aligned for %d channels", len(payload), channels)
		}
		return append([]byte(nil), payload...), nil
	default:
		return nil, fmt.Errorf("unsupported codec for PCM conversion: %s", codecName)
	}
}

// decodeFADPCMPayload decodes whole interleaved FADPCM blocks into
// interleaved samples.
func decodeFADPCMPayload(payload []byte, channels int) ([]int16, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty FADPCM payload")
	}

	frameBytes := fadpcm.BlockSize * channels
	if len(payload)%frameBytes != 0 {
		return nil, fmt.Errorf("FADPCM payload of %d bytes is not a multiple of %d", len(payload), frameBytes)
	}

	nblocks := len(payload) / frameBytes
	samples := make([]int16, nblocks*fadpcm.BlockSamples*channels)

	for b := 0; b < nblocks; b++ {
		out := samples[b*fadpcm.BlockSamples*channels:]
		for c := 0; c < channels; c++ {
			block := payload[(b*channels+c)*fadpcm.BlockSize:]
			fadpcm.DecodeBlock(block[:fadpcm.BlockSize], out[c:], channels, 0, fadpcm.BlockSamples)
		}
	}
	return samples, nil
}

// SamplesToPCM packs samples as little-endian 16-bit PCM.
func SamplesToPCM(samples []int16) []byte {
	if len(samples) == 0 {
		return nil
	}

	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(sample))
	}
	return out
}

// PCMToSamples unpacks little-endian 16-bit PCM. A trailing odd byte is
// ignored.
func PCMToSamples(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return samples
}
