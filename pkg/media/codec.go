package media

import (
	"fmt"
	"strings"

	"fadpcm-server/pkg/fadpcm"
)

// CodecInfo represents information about a codec
type CodecInfo struct {
	Name string
	// BlockSize is the encoded size of one independently decodable unit
	// per channel, 0 for sample-aligned formats.
	BlockSize int
	// BlockSamples is the number of samples one block decodes to.
	BlockSamples int
	Description  string
}

// SupportedCodecs maps codec names to codec information
var SupportedCodecs = map[string]CodecInfo{
	"FADPCM": {Name: "FADPCM", BlockSize: fadpcm.BlockSize, BlockSamples: fadpcm.BlockSamples, Description: "FMOD FADPCM"},
	"L16":    {Name: "L16", BlockSize: 2, BlockSamples: 1, Description: "16-bit linear PCM"},
}

// GetCodecInfo returns codec information by name. Lookup is case-insensitive
// and accepts the aliases understood by DecodeAudioPayload.
func GetCodecInfo(codecName string) (CodecInfo, error) {
	name := canonicalCodecName(codecName)
	codec, exists := SupportedCodecs[name]
	if !exists {
		return CodecInfo{}, fmt.Errorf("unsupported codec: %s", codecName)
	}
	return codec, nil
}

func canonicalCodecName(codecName string) string {
	switch strings.ToUpper(codecName) {
	case "", "FADPCM", "FMOD_ADPCM":
		return "FADPCM"
	case "L16", "LINEAR16", "PCM16":
		return "L16"
	default:
		return strings.ToUpper(codecName)
	}
}
