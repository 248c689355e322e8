package cdf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/quant"
)

func symbolsOf(layers, tokens, channels int, fill func(layer, tok, ch int) uint8) quant.Symbols {
	data := make([]uint8, layers*tokens*channels)
	for l := 0; l < layers; l++ {
		for t := 0; t < tokens; t++ {
			for c := 0; c < channels; c++ {
				data[(l*tokens+t)*channels+c] = fill(l, t, c)
			}
		}
	}

	bins := make([]int, layers)
	for i := range bins {
		bins[i] = 8
	}

	return quant.Symbols{Layers: layers, Tokens: tokens, Channels: channels, Data: data, Bins: bins}
}

func TestEstimateEmpirical_Invariants(t *testing.T) {
	sym := symbolsOf(1, 16, 2, func(layer, tok, ch int) uint8 {
		return uint8((tok + ch) % 8)
	})

	table, err := EstimateEmpirical(sym, true)
	require.NoError(t, err)
	require.Equal(t, 1, table.Slabs)
	require.Equal(t, 2, table.Channels)

	for l := 0; l < table.Slabs; l++ {
		for c := 0; c < table.Channels; c++ {
			row := table.Row(l, c)
			require.Len(t, row, format.CDFEntries)
			require.Equal(t, 0.0, row[0])
			require.LessOrEqual(t, row[format.CDFEntries-1], 1.0)
			for i := 1; i < len(row); i++ {
				require.GreaterOrEqual(t, row[i], row[i-1])
			}
		}
	}
}

func TestEstimateEmpirical_UniformRamp(t *testing.T) {
	// Single channel, T=8, symbols 0..7 (bins=8, A+1=33 alphabet).
	sym := symbolsOf(1, 8, 1, func(layer, tok, ch int) uint8 {
		return uint8(tok)
	})

	table, err := EstimateEmpirical(sym, true)
	require.NoError(t, err)

	row := table.Row(0, 0)
	// Each symbol 0..7 occurs exactly once out of 8 tokens.
	for a := 0; a < 8; a++ {
		require.InDelta(t, float64(a)/8.0, row[a], 1e-9)
	}
	for a := 8; a < format.CDFEntries; a++ {
		require.InDelta(t, 1.0, row[a], 1e-9)
	}
}

func TestEstimateEmpirical_AlphabetMismatch(t *testing.T) {
	sym := symbolsOf(1, 1, 1, func(layer, tok, ch int) uint8 {
		return uint8(format.CDFEntries) // one past the valid alphabet
	})

	_, err := EstimateEmpirical(sym, true)
	require.Error(t, err)
}

func TestConcat(t *testing.T) {
	k := symbolsOf(1, 4, 1, func(l, t, c int) uint8 { return 0 })
	v := symbolsOf(1, 4, 1, func(l, t, c int) uint8 { return 1 })

	kCDF, err := EstimateEmpirical(k, true)
	require.NoError(t, err)
	vCDF, err := EstimateEmpirical(v, false)
	require.NoError(t, err)

	merged, err := Concat(kCDF, vCDF)
	require.NoError(t, err)
	require.Equal(t, 2, merged.Slabs)
	require.Equal(t, kCDF.Row(0, 0), merged.Row(0, 0))
	require.Equal(t, vCDF.Row(0, 0), merged.Row(1, 0))
}
