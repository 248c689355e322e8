package codec

import (
	"math"

	"github.com/kvcache-codec/kvcodec/cdf"
	"github.com/kvcache-codec/kvcodec/quant"
)

// assembleBlob packages the driver's blobs/offsets with the normalized CDF
// and per-row scales into an EncoderOutput (spec.md §4.5): concatenate
// bytestreams, carry offsets as-is (already 32-bit, non-negative, computed
// by the driver), and record num_heads/head_size so a decoder can reverse
// the head-flatten step.
func assembleBlob(blobs [][]byte, offsets []int32, cdfInt cdf.IntTable, scalesKey, scalesValue quant.Scales, numHeads, headSize int) *EncoderOutput {
	total := 0
	for _, b := range blobs {
		total += len(b)
	}

	bytestream := make([]byte, 0, total)
	for _, b := range blobs {
		bytestream = append(bytestream, b...)
	}

	return &EncoderOutput{
		Bytestream:   bytestream,
		StartIndices: offsets,
		CDF:          cdfInt,
		ScalesKey:    scalesKey,
		ScalesValue:  scalesValue,
		NumHeads:     numHeads,
		HeadSize:     headSize,
	}
}

func floatBits(f float32) uint32 {
	return math.Float32bits(f)
}
