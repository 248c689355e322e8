package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/kverrs"
)

// uniformCDF builds a strictly increasing CDF over n symbols spread evenly
// across [0, format.MaxTotalFreq). Divides by n+1, not n, so the final
// entry stays below format.MaxTotalFreq instead of wrapping to 0 when n
// divides format.MaxTotalFreq evenly (matching driver_test.go's ramp16CDF).
func uniformCDF(n int) []int16 {
	row := make([]int16, n+1)
	for i := 0; i <= n; i++ {
		row[i] = int16(uint16(i * format.MaxTotalFreq / (n + 1)))
	}
	return row
}

func TestRangeCoder_EncodeDecodeRoundTrip(t *testing.T) {
	cdf := uniformCDF(8)
	symbols := []uint8{0, 7, 3, 3, 1, 6, 2, 5, 0, 7}

	cdfRows := make([][]int16, len(symbols))
	for i := range cdfRows {
		cdfRows[i] = cdf
	}

	rc := NewRangeCoder(256)
	blob, err := rc.EncodeRow(cdfRows, symbols)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	dec := NewRangeDecoder()
	got, err := dec.DecodeRow(cdfRows, blob)
	require.NoError(t, err)
	require.Equal(t, symbols, got)
}

func TestRangeCoder_EncodeBatch_MatchesEncodeRow(t *testing.T) {
	cdf := uniformCDF(4)
	cdfByChannel := [][]int16{cdf, cdf, cdf}
	rows := [][]uint8{
		{0, 1, 2},
		{3, 0, 1},
		{2, 2, 2},
	}

	rc := NewRangeCoder(256)
	batched, err := rc.EncodeBatch(cdfByChannel, rows)
	require.NoError(t, err)
	require.Len(t, batched, len(rows))

	for i, row := range rows {
		want, err := rc.EncodeRow(cdfByChannel, row)
		require.NoError(t, err)
		require.Equal(t, want, batched[i])

		dec := NewRangeDecoder()
		got, err := dec.DecodeRow(cdfByChannel, batched[i])
		require.NoError(t, err)
		require.Equal(t, row, got)
	}
}

func TestRangeCoder_MismatchedRowLengths(t *testing.T) {
	cdf := uniformCDF(4)
	rc := NewRangeCoder(64)

	_, err := rc.EncodeRow([][]int16{cdf, cdf}, []uint8{0, 1, 2})
	require.Error(t, err)
}

func TestRangeCoder_Overflow(t *testing.T) {
	cdf := uniformCDF(32)
	symbols := make([]uint8, 64)
	for i := range symbols {
		symbols[i] = uint8(i % 32)
	}

	cdfRows := make([][]int16, len(symbols))
	for i := range cdfRows {
		cdfRows[i] = cdf
	}

	rc := NewRangeCoder(1) // far too small to hold 64 symbols.
	_, err := rc.EncodeRow(cdfRows, symbols)
	require.ErrorIs(t, err, kverrs.ErrCoderOverflow)
}

func TestRangeCoder_SymbolOutOfRange(t *testing.T) {
	cdf := uniformCDF(4)
	rc := NewRangeCoder(64)

	_, err := rc.EncodeRow([][]int16{cdf}, []uint8{10})
	require.Error(t, err)
}
