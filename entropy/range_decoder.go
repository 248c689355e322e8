package entropy

import (
	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/kverrs"
)

// RangeDecoder is the read half of RangeCoder, kept minimal: it decodes a
// row of symbols against the same per-channel CDFs EncodeRow used. Per
// spec.md §1/§8, decode belongs to a sibling specification; this type
// exists only so this module's own tests can verify the round-trip
// properties of §8 (symbols recovered exactly). It offers none of a real
// decoder's concerns -- no index-based random access, no dequantization.
type RangeDecoder struct{}

// NewRangeDecoder returns a RangeDecoder.
func NewRangeDecoder() *RangeDecoder {
	return &RangeDecoder{}
}

// DecodeRow decodes len(cdfRows) symbols from blob, one per cdfRows entry,
// inverting RangeCoder.EncodeRow.
func (d *RangeDecoder) DecodeRow(cdfRows [][]int16, blob []byte) ([]uint8, error) {
	dec := newDecoder(blob)
	out := make([]uint8, len(cdfRows))

	for i, cdfRow := range cdfRows {
		sym, err := decodeSymbol(dec, cdfRow)
		if err != nil {
			return nil, err
		}
		out[i] = sym
	}

	return out, nil
}

// decodeSymbol inverts encodeSymbol: it reads the cumulative-frequency
// value dec.val currently falls in, finds the matching CDF interval by
// linear scan (the alphabet is fixed at format.CDFEntries=33 entries, so a
// scan is cheap and needs no auxiliary structure), and advances dec.
func decodeSymbol(dec *decoder, cdfRow []int16) (uint8, error) {
	freq := dec.decodeFreq(format.MaxTotalFreq)

	for s := 0; s+1 < len(cdfRow); s++ {
		fl := uint16ify(cdfRow[s])
		fh := uint16ify(cdfRow[s+1])
		if uint32(fl) <= freq && freq < uint32(fh) {
			dec.update(uint32(fl), uint32(fh), format.MaxTotalFreq)
			return uint8(s), nil
		}
	}

	return 0, kverrs.Wrap(kverrs.ErrInternalInvariant,
		"decoded frequency %d not covered by any CDF interval", freq)
}
