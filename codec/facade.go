package codec

import (
	"github.com/kvcache-codec/kvcodec/cdf"
	"github.com/kvcache-codec/kvcodec/config"
	"github.com/kvcache-codec/kvcodec/internal/options"
	"github.com/kvcache-codec/kvcodec/kverrs"
	"github.com/kvcache-codec/kvcodec/layout"
	"github.com/kvcache-codec/kvcodec/quant"
	"github.com/kvcache-codec/kvcodec/tensor"
)

// Encoder is the Codec Facade (spec.md §4.6): one call, encode(kv, config,
// chunk_size) -> bytes, stateless and safe for concurrent use across
// distinct inputs.
type Encoder struct {
	cfg *encoderConfig
}

// NewEncoder builds an Encoder configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg := defaultEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg}, nil
}

// Encode runs spec.md §4.6's pipeline end to end: layout check, split,
// quantize, estimate+concat CDF, normalize, drive the entropy coder,
// assemble the blob. kv.Tokens must equal chunkSize (spec.md §3's chunk_size
// invariant).
func (e *Encoder) Encode(kv *tensor.KV, modelCfg config.ModelConfig, fmtKey string, chunkSize int) (*EncoderOutput, error) {
	adapted, err := layout.Apply(fmtKey, kv)
	if err != nil {
		return nil, err
	}

	if adapted.Tokens != chunkSize {
		return nil, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"tensor has %d tokens, chunk_size requires %d", adapted.Tokens, chunkSize)
	}

	kFlat, vFlat, err := adapted.Split()
	if err != nil {
		return nil, err
	}

	kSym, kScale, err := quant.Quantize(kFlat, modelCfg, true)
	if err != nil {
		return nil, err
	}

	vSym, vScale, err := quant.Quantize(vFlat, modelCfg, false)
	if err != nil {
		return nil, err
	}

	kCDF, err := cdf.EstimateEmpirical(kSym, true)
	if err != nil {
		return nil, err
	}

	vCDF, err := cdf.EstimateEmpirical(vSym, false)
	if err != nil {
		return nil, err
	}

	empirical, err := cdf.Concat(kCDF, vCDF)
	if err != nil {
		return nil, err
	}

	cdfInt := cdf.Normalize(empirical, true)

	stackedSym, err := stackSymbols(kSym, vSym)
	if err != nil {
		return nil, err
	}

	var blobs [][]byte
	var offsets []int32
	if e.cfg.batched {
		blobs, offsets, err = driveEntropyCoderBatched(stackedSym, cdfInt)
	} else {
		blobs, offsets, err = driveEntropyCoder(stackedSym, cdfInt)
	}
	if err != nil {
		return nil, err
	}

	out := assembleBlob(blobs, offsets, cdfInt, kScale, vScale, adapted.Heads, adapted.HeadSize)
	out.SidecarAlgorithm = e.cfg.sidecarAlgorithm

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// stackSymbols concatenates Key and Value symbols into the [2L, T, C]
// tensor spec.md §4.4 step 1 describes, K slabs first.
func stackSymbols(k, v quant.Symbols) (quant.Symbols, error) {
	if k.Channels != v.Channels || k.Tokens != v.Tokens {
		return quant.Symbols{}, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"key shape [L=%d,T=%d,C=%d] incompatible with value shape [L=%d,T=%d,C=%d]",
			k.Layers, k.Tokens, k.Channels, v.Layers, v.Tokens, v.Channels)
	}

	data := make([]uint8, 0, len(k.Data)+len(v.Data))
	data = append(data, k.Data...)
	data = append(data, v.Data...)

	bins := make([]int, 0, len(k.Bins)+len(v.Bins))
	bins = append(bins, k.Bins...)
	bins = append(bins, v.Bins...)

	return quant.Symbols{
		Layers:   k.Layers + v.Layers,
		Tokens:   k.Tokens,
		Channels: k.Channels,
		Data:     data,
		Bins:     bins,
	}, nil
}
