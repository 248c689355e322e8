// Package kvcodec provides a self-describing binary codec for transformer
// KV-cache tensors.
//
// It compresses per-layer Key/Value tensors produced by a prefill step so
// they can be persisted or shipped to peers: scalar symmetric quantization
// with layer-banded bin budgets, per-channel empirical CDF estimation,
// fixed-point CDF normalization, an integer arithmetic coder driven over
// per-(layer, token) symbol rows, and a packed bytestream with a per-row
// offset index for random access on decode.
//
// # Basic usage
//
//	cfg := config.Default()
//	enc, err := kvcodec.NewEncoder()
//	out, err := enc.Encode(kv, cfg, "default", chunkSize)
//	blob := out.Serialize()
//
// This top-level package mirrors the layout of its subpackages: tensor for
// the input type, config for the bin-band schedule, layout for input-format
// adapters, and codec for the facade itself. For fine-grained control, use
// the codec package directly.
package kvcodec

import (
	"github.com/kvcache-codec/kvcodec/codec"
	"github.com/kvcache-codec/kvcodec/sidecar"
)

// NewEncoder builds an Encoder configured by opts. See codec.Option for the
// available knobs (batched entropy coding, sidecar compression).
func NewEncoder(opts ...codec.Option) (*codec.Encoder, error) {
	return codec.NewEncoder(opts...)
}

// WithBatchedEntropyCoder selects the batched entropy-coder path instead of
// the default serial per-row path. Output is bit-identical either way.
func WithBatchedEntropyCoder() codec.Option {
	return codec.WithBatchedEntropyCoder()
}

// WithSidecarCompression selects algo as the codec that
// EncoderOutput.CompressedSidecar applies to the CDF/offsets/scales sidecar.
// Encode only records the choice; it compresses nothing itself.
func WithSidecarCompression(algo sidecar.Algorithm) codec.Option {
	return codec.WithSidecarCompression(algo)
}
