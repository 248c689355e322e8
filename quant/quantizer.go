// Package quant implements scalar, symmetric, per-(layer, token) uniform
// quantization with a layer-banded bin count (spec.md §4.1).
package quant

import (
	"math"

	"github.com/kvcache-codec/kvcodec/config"
	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/kverrs"
	"github.com/kvcache-codec/kvcodec/tensor"
)

// Symbols is the quantized, unsigned-shifted symbol tensor of shape
// [L, T, C], one per kind (Key or Value), alongside the per-layer bin
// counts used to produce it.
type Symbols struct {
	Layers, Tokens, Channels int
	// Data holds symbols in [0, bins(layer)-1], row-major (layer, token, channel).
	Data []uint8
	// Bins[layer] is the bin count used for that layer.
	Bins []int
}

// Row returns the C-length symbol row for (layer, token).
func (s Symbols) Row(layer, token int) []uint8 {
	base := (layer*s.Tokens + token) * s.Channels
	return s.Data[base : base+s.Channels]
}

// Scales holds one scalar per (layer, token), the row's absolute maximum
// used to invert quantization on decode.
type Scales struct {
	Layers, Tokens int
	Data           []float32 // row-major (layer, token)
}

// At returns the scale for (layer, token).
func (s Scales) At(layer, token int) float32 {
	return s.Data[layer*s.Tokens+token]
}

// roundHalfToEven is this module's one fixed rounding mode (spec.md §4.1,
// §9): round-half-to-even, so two encoder implementations built to this
// spec agree bit-for-bit.
func roundHalfToEven(x float64) float64 {
	return math.RoundToEven(x)
}

// Quantize runs spec.md §4.1 steps 1-5 over flat for the given kind (Key or
// Value selects the band schedule in cfg). flat must be shape [L, T, C].
func Quantize(flat tensor.Flat, cfg config.ModelConfig, isKey bool) (Symbols, Scales, error) {
	l, t, c := flat.Layers, flat.Tokens, flat.Channels

	bins := make([]int, l)
	for layer := 0; layer < l; layer++ {
		b, err := cfg.BinsForLayer(isKey, layer)
		if err != nil {
			return Symbols{}, Scales{}, err
		}
		if b <= 0 || b > format.MaxBins {
			return Symbols{}, Scales{}, kverrs.Wrap(kverrs.ErrConfigInvalid,
				"layer %d: bin count %d must be in (0, %d]", layer, b, format.MaxBins)
		}
		bins[layer] = b
	}

	symData := make([]uint8, l*t*c)
	scaleData := make([]float32, l*t)

	for layer := 0; layer < l; layer++ {
		binCount := bins[layer]
		cMax := binCount/2 - 1
		if cMax <= 0 {
			return Symbols{}, Scales{}, kverrs.Wrap(kverrs.ErrConfigInvalid,
				"layer %d: bin count %d yields non-positive C_max", layer, binCount)
		}

		for tok := 0; tok < t; tok++ {
			row := flat.Row(layer, tok)

			maxAbs := float32(0)
			for _, x := range row {
				a := x
				if a < 0 {
					a = -a
				}
				if a > maxAbs {
					maxAbs = a
				}
			}

			scale := maxAbs
			if scale == 0 {
				// Zero-scale policy (spec.md §9): substitute scale=1 and
				// emit the center symbol rather than dividing by zero.
				scale = 1
			}
			scaleData[layer*t+tok] = scale

			symRow := symData[(layer*t+tok)*c : (layer*t+tok)*c+c]
			ratio := float64(cMax) / float64(scale)
			for i, x := range row {
				var sym int64
				if maxAbs == 0 {
					sym = 0
				} else {
					v := roundHalfToEven(float64(x) * ratio)
					if v > float64(cMax) {
						v = float64(cMax)
					} else if v < float64(-cMax) {
						v = float64(-cMax)
					}
					sym = int64(v)
				}
				symRow[i] = uint8(int8(sym) + int8(cMax))
			}
		}
	}

	return Symbols{Layers: l, Tokens: t, Channels: c, Data: symData, Bins: bins},
		Scales{Layers: l, Tokens: t, Data: scaleData},
		nil
}
