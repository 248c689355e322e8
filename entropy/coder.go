// Package entropy is the integer-arithmetic-coder port described in
// spec.md §9: "the integer arithmetic coder is an external dependency with
// two required operations: encode(cdf_row_int16, symbols_int16) -> bytes
// and its batched variant." Coder is that port; RangeCoder is this
// module's implementation of it, algorithmically grounded on
// _examples/thesyncim-gopus/rangecoding (a carryless range coder per
// RFC 6716 §4.1), generalized from Opus's ICDF tables to this domain's
// int16 cumulative-frequency rows.
package entropy

import (
	"fmt"

	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/kverrs"
)

// Coder drives an integer arithmetic coder over per-position symbols
// against their per-channel CDFs (spec.md §4.4).
type Coder interface {
	// EncodeRow encodes len(symbols) symbols where cdfRows[i] is the
	// (A+1)-entry, strictly increasing int16 CDF governing symbols[i].
	// All values are treated as unsigned bit patterns in [0, 2^16).
	EncodeRow(cdfRows [][]int16, symbols []uint8) ([]byte, error)

	// EncodeBatch encodes multiple rows that all share the same per-channel
	// CDF table (one CDF per channel, broadcast across rows), returning one
	// blob per row in the same order. Per spec.md §4.4, this must produce
	// output bit-identical to calling EncodeRow once per row.
	EncodeBatch(cdfByChannel [][]int16, symbolRows [][]uint8) ([][]byte, error)
}

// RangeCoder implements Coder using the carryless range-coding algorithm.
type RangeCoder struct {
	// maxRowBytes bounds a single EncodeRow output; exceeding it is
	// treated as kverrs.ErrCoderOverflow (spec.md §4.4 failure semantics:
	// "a bug in either the estimator or the coder").
	maxRowBytes int
}

// NewRangeCoder returns a RangeCoder whose per-row output buffer can hold
// up to maxRowBytes bytes. A symbol coded against format.Precision=16 bits
// of CDF resolution costs at most ~2 bytes plus renormalization slack, so
// callers typically size this as roughly 4*channels + 64.
func NewRangeCoder(maxRowBytes int) *RangeCoder {
	return &RangeCoder{maxRowBytes: maxRowBytes}
}

func (rc *RangeCoder) EncodeRow(cdfRows [][]int16, symbols []uint8) ([]byte, error) {
	if len(cdfRows) != len(symbols) {
		return nil, kverrs.Wrap(kverrs.ErrInternalInvariant,
			"cdf row count (%d) != symbol count (%d)", len(cdfRows), len(symbols))
	}

	buf := make([]byte, rc.maxRowBytes)
	enc := newEncoder(buf)

	for i, sym := range symbols {
		row := cdfRows[i]
		if err := encodeSymbol(enc, row, sym); err != nil {
			return nil, err
		}
	}

	out, ok := enc.done()
	if !ok {
		return nil, kverrs.Wrap(kverrs.ErrCoderOverflow,
			"row of %d symbols exceeded %d-byte output cap", len(symbols), rc.maxRowBytes)
	}

	// Copy into a right-sized slice so the retained blob does not pin the
	// maxRowBytes-sized scratch buffer allocated above.
	result := make([]byte, len(out))
	copy(result, out)

	return result, nil
}

func (rc *RangeCoder) EncodeBatch(cdfByChannel [][]int16, symbolRows [][]uint8) ([][]byte, error) {
	out := make([][]byte, len(symbolRows))
	for i, symbols := range symbolRows {
		if len(symbols) != len(cdfByChannel) {
			return nil, kverrs.Wrap(kverrs.ErrInternalInvariant,
				"row %d: symbol count (%d) != channel count (%d)", i, len(symbols), len(cdfByChannel))
		}

		blob, err := rc.EncodeRow(cdfByChannel, symbols)
		if err != nil {
			return nil, fmt.Errorf("batched row %d: %w", i, err)
		}
		out[i] = blob
	}

	return out, nil
}

// encodeSymbol encodes sym using cdfRow as the (A+1)-entry, monotonically
// increasing int16 CDF, with a fixed total frequency of format.MaxTotalFreq
// (the coder never reads an explicit "total" entry: per spec.md §4.3, the
// last CDF entry approximates but need not equal 2^16 exactly, so the
// total is supplied by the caller's fixed precision, not by the table).
func encodeSymbol(enc *encoder, cdfRow []int16, sym uint8) error {
	if int(sym)+1 >= len(cdfRow) {
		return kverrs.Wrap(kverrs.ErrInternalInvariant,
			"symbol %d out of range for CDF of length %d", sym, len(cdfRow))
	}

	fl := uint16ify(cdfRow[sym])
	fh := uint16ify(cdfRow[sym+1])
	if fh <= fl {
		return kverrs.Wrap(kverrs.ErrInternalInvariant,
			"CDF not strictly increasing at symbol %d: fl=%d fh=%d", sym, fl, fh)
	}

	enc.encode(uint32(fl), uint32(fh), format.MaxTotalFreq)

	return nil
}

// uint16ify reinterprets an int16's bit pattern as an unsigned value, per
// spec.md §4.3: "the arithmetic coder treats these bit patterns as
// unsigned."
func uint16ify(v int16) uint16 {
	return uint16(v)
}
