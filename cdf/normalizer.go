package cdf

import (
	"math"

	"github.com/kvcache-codec/kvcodec/format"
)

// IntTable is a fixed-point CDF of shape [Slabs, Channels, A+1], strictly
// monotonically increasing along the last axis, values in [0, 2^P).
type IntTable struct {
	Slabs, Channels int
	Data            []int16 // row-major (slab, channel, alphabet); bit
	// patterns are treated as unsigned by the entropy coder.
}

// Row returns the (A+1)-length integer CDF row for (slab, channel).
func (t IntTable) Row(slab, channel int) []int16 {
	base := (slab*t.Channels + channel) * format.CDFEntries
	return t.Data[base : base+format.CDFEntries]
}

// Normalize converts a floating CDF in [0, 1) to a strictly monotonically
// increasing integer CDF at format.Precision bits (spec.md §4.3). needsRamp
// corresponds to the source's `needs_normalization` flag; this module's
// primary path always passes true, but the flag is kept to mirror the
// original's two-mode normalizer, which the secondary "final CDF for
// persistence" pass may in principle reuse without the ramp.
func Normalize(t Table, needsRamp bool) IntTable {
	lp := format.CDFEntries
	newMax := float64(format.MaxTotalFreq)
	if needsRamp {
		newMax -= float64(lp - 1)
	}

	out := IntTable{
		Slabs:    t.Slabs,
		Channels: t.Channels,
		Data:     make([]int16, len(t.Data)),
	}

	for i, v := range t.Data {
		scaled := math.RoundToEven(v * newMax)
		out.Data[i] = int16(int32(scaled))
	}

	if needsRamp {
		for slab := 0; slab < t.Slabs; slab++ {
			for channel := 0; channel < t.Channels; channel++ {
				row := out.Row(slab, channel)
				for a := 0; a < lp; a++ {
					row[a] += int16(a)
				}
			}
		}
	}

	return out
}
