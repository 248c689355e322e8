// Package tensor holds the input KV tensor type and the split-and-flatten
// step that turns it into per-kind [L][T][C] views for the rest of the
// pipeline.
package tensor

import (
	"fmt"

	"github.com/kvcache-codec/kvcodec/kverrs"
)

// Kind distinguishes Keys from Values within a KV tensor.
type Kind int

const (
	Key Kind = iota
	Value
)

func (k Kind) String() string {
	if k == Key {
		return "key"
	}

	return "value"
}

// Layout describes the physical axis order of the input tensor.
type Layout int

const (
	// LayoutDefault is [L, 2, T, H, D], the layout the core pipeline
	// consumes directly.
	LayoutDefault Layout = iota
	// LayoutHuggingFace is [L, 2, H, T, D]; the caller's "fmt" metadata
	// selects it, and the layout package transposes it to LayoutDefault
	// before it reaches the quantizer.
	LayoutHuggingFace
)

// KV is the dense input tensor of shape [L, 2, T, H, D] (or the
// HuggingFace-ordered variant before adaptation), Key at index 0 and Value
// at index 1 along axis 1. Data is stored flat, row-major.
type KV struct {
	Layers   int
	Tokens   int
	Heads    int
	HeadSize int
	Layout   Layout
	Data     []float32
}

// Channels returns H*D, the flattened channel count.
func (kv *KV) Channels() int {
	return kv.Heads * kv.HeadSize
}

// Validate checks that Data's length matches the declared shape.
func (kv *KV) Validate() error {
	if kv.Layers <= 0 || kv.Tokens <= 0 || kv.Heads <= 0 || kv.HeadSize <= 0 {
		return kverrs.Wrap(kverrs.ErrShapeMismatch,
			"all of layers=%d tokens=%d heads=%d head_size=%d must be positive",
			kv.Layers, kv.Tokens, kv.Heads, kv.HeadSize)
	}

	want := kv.Layers * 2 * kv.Tokens * kv.Heads * kv.HeadSize
	if len(kv.Data) != want {
		return kverrs.Wrap(kverrs.ErrShapeMismatch,
			"data length %d does not match shape [L=%d,2,T=%d,H=%d,D=%d] (want %d)",
			len(kv.Data), kv.Layers, kv.Tokens, kv.Heads, kv.HeadSize, want)
	}

	return nil
}

// Flat is a single kind's [L][T][C] view over a contiguous float32 slice.
type Flat struct {
	Layers   int
	Tokens   int
	Channels int
	Data     []float32
}

// Row returns the C-length channel row for (layer, token).
func (f Flat) Row(layer, token int) []float32 {
	base := (layer*f.Tokens + token) * f.Channels
	return f.Data[base : base+f.Channels]
}

// Split separates kv into Key and Value flat views of shape [L, T, C],
// assuming LayoutDefault. Callers with LayoutHuggingFace must run the
// layout package's adapter first.
func (kv *KV) Split() (k, v Flat, err error) {
	if kv.Layout != LayoutDefault {
		return Flat{}, Flat{}, kverrs.Wrap(kverrs.ErrShapeMismatch,
			"Split requires LayoutDefault, got %v (run layout.Apply first)", kv.Layout)
	}
	if err := kv.Validate(); err != nil {
		return Flat{}, Flat{}, err
	}

	c := kv.Channels()
	perKind := kv.Layers * kv.Tokens * c
	kData := make([]float32, perKind)
	vData := make([]float32, perKind)

	// Source layout [L, 2, T, H, D] -> destination [L, T, C].
	for l := 0; l < kv.Layers; l++ {
		for t := 0; t < kv.Tokens; t++ {
			dstOff := (l*kv.Tokens + t) * c
			kSrcOff := (((l*2+0)*kv.Tokens + t) * kv.Heads) * kv.HeadSize
			vSrcOff := (((l*2+1)*kv.Tokens + t) * kv.Heads) * kv.HeadSize
			copy(kData[dstOff:dstOff+c], kv.Data[kSrcOff:kSrcOff+c])
			copy(vData[dstOff:dstOff+c], kv.Data[vSrcOff:vSrcOff+c])
		}
	}

	k = Flat{Layers: kv.Layers, Tokens: kv.Tokens, Channels: c, Data: kData}
	v = Flat{Layers: kv.Layers, Tokens: kv.Tokens, Channels: c, Data: vData}

	return k, v, nil
}

func (l Layout) String() string {
	switch l {
	case LayoutDefault:
		return "default"
	case LayoutHuggingFace:
		return "huggingface"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}
