// Package layout implements named, registrable input-layout adapters.
//
// The codec's core pipeline fixes one input layout, [L, 2, T, H, D]
// (tensor.LayoutDefault). Callers whose framework produces a different
// physical layout transpose before entering the core; this package is that
// transpose step, selected by the engine-level "fmt" metadata key (§6.1).
package layout

import (
	"github.com/kvcache-codec/kvcodec/kverrs"
	"github.com/kvcache-codec/kvcodec/tensor"
)

// Adapter transposes a KV tensor from its native layout into
// tensor.LayoutDefault.
type Adapter func(kv *tensor.KV) (*tensor.KV, error)

var registry = map[string]Adapter{
	"":            identity,
	"default":     identity,
	"huggingface": huggingFace,
}

// Register adds or replaces a named adapter. Intended for callers that need
// a layout this package doesn't already know about.
func Register(name string, adapter Adapter) {
	registry[name] = adapter
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	adapter, ok := registry[name]
	if !ok {
		return nil, kverrs.Wrap(kverrs.ErrConfigInvalid, "unknown layout fmt %q", name)
	}

	return adapter, nil
}

// Apply is a convenience wrapper around Lookup + invoking the adapter.
func Apply(name string, kv *tensor.KV) (*tensor.KV, error) {
	adapter, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	return adapter(kv)
}

func identity(kv *tensor.KV) (*tensor.KV, error) {
	if kv.Layout != tensor.LayoutDefault {
		return nil, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"fmt=default requires LayoutDefault input, got %v", kv.Layout)
	}

	return kv, nil
}

// huggingFace adapts [L, 2, H, T, D] (HuggingFace's native KV-cache layout)
// to [L, 2, T, H, D] by swapping the T and H axes, mirroring the original
// source's `tensor.permute(0, 1, 3, 2, 4)`.
func huggingFace(kv *tensor.KV) (*tensor.KV, error) {
	if kv.Layout != tensor.LayoutHuggingFace {
		return nil, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"fmt=huggingface requires LayoutHuggingFace input, got %v", kv.Layout)
	}

	l, t, h, d := kv.Layers, kv.Tokens, kv.Heads, kv.HeadSize
	want := l * 2 * t * h * d
	if len(kv.Data) != want {
		return nil, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"data length %d does not match shape [L=%d,2,H=%d,T=%d,D=%d] (want %d)",
			len(kv.Data), l, h, t, d, want)
	}

	out := make([]float32, want)
	// src index order is [L, 2, H, T, D]; dst order is [L, 2, T, H, D].
	for layer := 0; layer < l; layer++ {
		for kind := 0; kind < 2; kind++ {
			for head := 0; head < h; head++ {
				for tok := 0; tok < t; tok++ {
					srcOff := ((((layer*2+kind)*h+head)*t + tok) * d)
					dstOff := ((((layer*2+kind)*t+tok)*h + head) * d)
					copy(out[dstOff:dstOff+d], kv.Data[srcOff:srcOff+d])
				}
			}
		}
	}

	return &tensor.KV{
		Layers: l, Tokens: t, Heads: h, HeadSize: d,
		Layout: tensor.LayoutDefault,
		Data:   out,
	}, nil
}
