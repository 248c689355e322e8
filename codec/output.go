package codec

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/kvcache-codec/kvcodec/cdf"
	"github.com/kvcache-codec/kvcodec/endian"
	"github.com/kvcache-codec/kvcodec/internal/pool"
	"github.com/kvcache-codec/kvcodec/kverrs"
	"github.com/kvcache-codec/kvcodec/quant"
	"github.com/kvcache-codec/kvcodec/sidecar"
)

// blobMagic and blobVersion frame EncoderOutput.Serialize's byte form. This
// is this module's own framing for round-trip testing, not a wire contract
// (spec.md §6.2 delegates concrete framing to the storage backend).
const (
	blobMagic   uint32 = 0x4b56_4347 // "KVCG" read most-significant byte first
	blobVersion uint16 = 1
)

// EncoderOutput is the Blob Assembler's product (spec.md §3, §6.2):
// {bytestream, offsets, integer_cdf, scales_K, scales_V, num_heads,
// head_size}. Fields are exported so callers (and round-trip tests) can
// consume the structured form directly instead of round-tripping through
// Serialize.
type EncoderOutput struct {
	Bytestream   []byte
	StartIndices []int32
	CDF          cdf.IntTable
	ScalesKey    quant.Scales
	ScalesValue  quant.Scales
	NumHeads     int
	HeadSize     int

	// SidecarAlgorithm records which sidecar package codec
	// CompressedSidecar uses for the CDF/offsets/scales sidecar, as set by
	// WithSidecarCompression. sidecar.None by default.
	SidecarAlgorithm sidecar.Algorithm
}

// sidecarBytes serializes the CDF, start_indices, and both scale tensors
// (everything in EncoderOutput except the entropy-coded bytestream itself)
// into one little-endian buffer:
//
//	[0:4]  len(start_indices) (uint32), then that many int32 offsets
//	[..:..] cdf.Slabs, cdf.Channels (uint32 each), then Slabs*Channels*33 int16 entries
//	[..:..] scales_key.Layers, scales_key.Tokens (uint32 each), then that many float32 entries
//	[..:..] scales_value.Layers, scales_value.Tokens (uint32 each), then that many float32 entries
//
// Kept separate from the bytestream so it can be compressed independently
// (spec.md §4.5's "sidecars"): the CDF and scales are small, structured,
// and far more compressible than the entropy-coded bytestream, which is
// already close to incompressible by construction.
func (out *EncoderOutput) sidecarBytes() []byte {
	eng := endian.LittleEndian()
	buf := pool.Get()
	defer pool.Put(buf)

	writeU32 := func(v uint32) {
		buf.B = eng.AppendUint32(buf.B, v)
	}

	writeU32(uint32(len(out.StartIndices)))
	for _, off := range out.StartIndices {
		buf.B = eng.AppendUint32(buf.B, uint32(off))
	}

	writeU32(uint32(out.CDF.Slabs))
	writeU32(uint32(out.CDF.Channels))
	for _, v := range out.CDF.Data {
		buf.B = eng.AppendUint16(buf.B, uint16(v))
	}

	writeScales := func(s quant.Scales) {
		writeU32(uint32(s.Layers))
		writeU32(uint32(s.Tokens))
		for _, v := range s.Data {
			buf.B = eng.AppendUint32(buf.B, floatBits(v))
		}
	}
	writeScales(out.ScalesKey)
	writeScales(out.ScalesValue)

	result := make([]byte, buf.Len())
	copy(result, buf.B)

	return result
}

// CompressedSidecar returns sidecarBytes run through the codec named by
// out.SidecarAlgorithm (sidecar.None is a no-op pass-through).
func (out *EncoderOutput) CompressedSidecar() ([]byte, error) {
	codec, err := sidecar.Get(out.SidecarAlgorithm)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(out.sidecarBytes())
	if err != nil {
		return nil, fmt.Errorf("compressing sidecar with %v: %w", out.SidecarAlgorithm, err)
	}

	return compressed, nil
}

// Fingerprint returns the xxHash64 of the serialized blob, suitable as a
// cache key or dedup key for the storage backend. Not part of spec.md; a
// natural consequence of this module's output having a concrete byte form,
// grounded on the teacher's metric-ID hashing idiom
// (internal/hash.ID -> xxhash.Sum64String).
func (out *EncoderOutput) Fingerprint() uint64 {
	return xxhash.Sum64(out.Serialize())
}

// Serialize writes out a length-prefixed byte form of EncoderOutput:
//
//	[0:4]   magic (uint32 blobMagic; bytes "GCVK" in little-endian order)
//	[4:6]   version (uint16)
//	[6:8]   num_heads (uint16)
//	[8:10]  head_size (uint16)
//	[10:14] len(bytestream) (uint32)
//	         bytestream
//	[..:..] len(sidecar) (uint32)
//	         sidecarBytes() -- always uncompressed here, regardless of
//	         out.SidecarAlgorithm; this method is this module's own
//	         round-trip framing, CompressedSidecar is the storage-facing one
//
// Byte order is fixed little-endian throughout (spec.md §6.2's one fixed
// choice; see endian.LittleEndian).
func (out *EncoderOutput) Serialize() []byte {
	eng := endian.LittleEndian()
	buf := pool.Get()
	defer pool.Put(buf)

	writeU32 := func(v uint32) {
		buf.B = eng.AppendUint32(buf.B, v)
	}
	writeU16 := func(v uint16) {
		buf.B = eng.AppendUint16(buf.B, v)
	}

	writeU32(blobMagic)
	writeU16(blobVersion)
	writeU16(uint16(out.NumHeads))
	writeU16(uint16(out.HeadSize))

	writeU32(uint32(len(out.Bytestream)))
	buf.Write(out.Bytestream)

	sc := out.sidecarBytes()
	writeU32(uint32(len(sc)))
	buf.Write(sc)

	result := make([]byte, buf.Len())
	copy(result, buf.B)

	return result
}

// Validate checks the invariants of spec.md §8's "Offsets property":
// non-decreasing, within [0, len(bytestream)], and start_indices[0] == 0
// when non-empty. It does not check len(start_indices) against 2*L*T.
func (out *EncoderOutput) Validate() error {
	n := len(out.StartIndices)
	if n == 0 {
		return nil
	}

	if out.StartIndices[0] != 0 {
		return kverrs.Wrap(kverrs.ErrInternalInvariant, "start_indices[0] = %d, want 0", out.StartIndices[0])
	}

	for i := 1; i < n; i++ {
		if out.StartIndices[i] < out.StartIndices[i-1] {
			return kverrs.Wrap(kverrs.ErrInternalInvariant,
				"start_indices not non-decreasing at %d: %d < %d", i, out.StartIndices[i], out.StartIndices[i-1])
		}
	}

	last := out.StartIndices[n-1]
	if last < 0 || int(last) > len(out.Bytestream) {
		return kverrs.Wrap(kverrs.ErrInternalInvariant,
			"start_indices[%d] = %d out of bytestream bounds [0,%d]", n-1, last, len(out.Bytestream))
	}

	return nil
}
