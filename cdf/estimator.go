// Package cdf implements the per-channel empirical CDF estimator
// (spec.md §4.2) and its fixed-point normalization (spec.md §4.3).
package cdf

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/kverrs"
	"github.com/kvcache-codec/kvcodec/quant"
)

// Table is an empirical CDF of shape [Slabs, Channels, A+1], entries in
// [0, 1], non-decreasing along the last axis, cdf[...,0] == 0.
type Table struct {
	Slabs, Channels int
	Data            []float64 // row-major (slab, channel, alphabet)
}

// Row returns the (A+1)-length CDF row for (slab, channel).
func (t Table) Row(slab, channel int) []float64 {
	base := (slab*t.Channels + channel) * format.CDFEntries
	return t.Data[base : base+format.CDFEntries]
}

// EstimateEmpirical computes the per-channel empirical CDF over sym
// (spec.md §4.2 steps 1-4). isKey is only used for error messages.
func EstimateEmpirical(sym quant.Symbols, isKey bool) (Table, error) {
	l, c, t := sym.Layers, sym.Channels, sym.Tokens

	data := make([]float64, l*c*format.CDFEntries)
	counts := make([]float64, format.CDFEntries)
	probs := make([]float64, format.CDFEntries)
	cumulative := make([]float64, format.CDFEntries)

	kind := "value"
	if isKey {
		kind = "key"
	}

	for layer := 0; layer < l; layer++ {
		for channel := 0; channel < c; channel++ {
			for i := range counts {
				counts[i] = 0
			}

			for tok := 0; tok < t; tok++ {
				s := sym.Row(layer, tok)[channel]
				if int(s) >= format.CDFEntries {
					return Table{}, kverrs.Wrap(kverrs.ErrInternalInvariant,
						"%s layer %d channel %d: symbol %d >= alphabet+1 (%d); bins > %d?",
						kind, layer, channel, s, format.CDFEntries, format.AlphabetSize+1)
				}
				counts[s]++
			}

			for i, cnt := range counts {
				probs[i] = cnt / float64(t)
			}

			// row[a] = sum_{a' < a} probs[a'] -- inclusive cumsum, then
			// shift right by one position, dropping the final (== 1) entry.
			floats.CumSum(cumulative, probs)

			row := data[(layer*c+channel)*format.CDFEntries : (layer*c+channel)*format.CDFEntries+format.CDFEntries]
			row[0] = 0
			copy(row[1:], cumulative[:format.CDFEntries-1])
		}
	}

	return Table{Slabs: l, Channels: c, Data: data}, nil
}

// Concat stacks kCDF and vCDF along the leading (slab) axis: Keys first,
// then Values, matching the entropy coder driver's (kind, layer) ordering.
func Concat(kCDF, vCDF Table) (Table, error) {
	if kCDF.Channels != vCDF.Channels {
		return Table{}, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"key CDF channels (%d) != value CDF channels (%d)", kCDF.Channels, vCDF.Channels)
	}

	out := Table{
		Slabs:    kCDF.Slabs + vCDF.Slabs,
		Channels: kCDF.Channels,
		Data:     make([]float64, 0, len(kCDF.Data)+len(vCDF.Data)),
	}
	out.Data = append(out.Data, kCDF.Data...)
	out.Data = append(out.Data, vCDF.Data...)

	return out, nil
}
