package cdf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvcache-codec/kvcodec/format"
)

func TestNormalize_StrictlyIncreasing(t *testing.T) {
	// One channel, a non-uniform empirical CDF with a repeated value
	// (tests the ramp's uniqueness guarantee).
	data := make([]float64, format.CDFEntries)
	data[0] = 0
	for i := 1; i < format.CDFEntries; i++ {
		data[i] = data[i-1] // all equal to 0: worst case for monotonicity.
	}
	data[format.CDFEntries-1] = 1.0

	table := Table{Slabs: 1, Channels: 1, Data: data}
	intTable := Normalize(table, true)

	row := intTable.Row(0, 0)
	require.Equal(t, int16(0), row[0])
	for i := 1; i < len(row); i++ {
		lo := uint16(row[i-1])
		hi := uint16(row[i])
		require.Greater(t, hi, lo, "index %d", i)
	}

	last := uint16(row[format.CDFEntries-1])
	require.LessOrEqual(t, uint32(last), uint32(format.MaxTotalFreq-1))
}

func TestNormalize_Bounds(t *testing.T) {
	data := make([]float64, format.CDFEntries)
	for i := range data {
		data[i] = float64(i) / float64(format.CDFEntries-1)
	}
	data[0] = 0

	table := Table{Slabs: 1, Channels: 1, Data: data}
	intTable := Normalize(table, true)

	row := intTable.Row(0, 0)
	require.Equal(t, int16(0), row[0])
	for i := 0; i < len(row); i++ {
		v := uint16(row[i])
		require.Less(t, uint32(v), uint32(format.MaxTotalFreq))
	}
}
