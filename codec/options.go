package codec

import (
	"github.com/kvcache-codec/kvcodec/internal/options"
	"github.com/kvcache-codec/kvcodec/sidecar"
)

// encoderConfig holds the facade's configurable knobs, set via Option
// (spec.md §4.6 plus this module's own sidecar compression addition).
type encoderConfig struct {
	batched          bool
	sidecarAlgorithm sidecar.Algorithm
}

// Option configures an Encoder, following the generic functional-options
// pattern ported from internal/options (the teacher's
// blob.NumericEncoder configuration idiom).
type Option = options.Option[*encoderConfig]

// WithBatchedEntropyCoder selects the batched entropy-coder path of
// spec.md §4.4 instead of the default serial per-row path. Output is
// bit-identical either way.
func WithBatchedEntropyCoder() Option {
	return options.NoError(func(c *encoderConfig) {
		c.batched = true
	})
}

// WithSidecarCompression selects algo as the codec that
// EncoderOutput.CompressedSidecar applies to the CDF/offsets/scales sidecar
// (not part of spec.md's EncoderOutput shape; an addition carried by the
// sidecar package, defaulting to sidecar.None). Encode only records algo on
// its output; it compresses nothing itself, and EncoderOutput.Serialize
// always writes the sidecar uncompressed.
func WithSidecarCompression(algo sidecar.Algorithm) Option {
	return options.NoError(func(c *encoderConfig) {
		c.sidecarAlgorithm = algo
	})
}

func defaultEncoderConfig() *encoderConfig {
	return &encoderConfig{sidecarAlgorithm: sidecar.None}
}
