package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvcache-codec/kvcodec/tensor"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "empty defaults to identity", key: ""},
		{name: "default", key: "default"},
		{name: "huggingface", key: "huggingface"},
		{name: "unknown", key: "something-else", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.key)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestHuggingFaceTranspose(t *testing.T) {
	l, tok, h, d := 1, 2, 2, 2
	// Source layout [L, 2, H, T, D].
	data := make([]float32, l*2*h*tok*d)
	for i := range data {
		data[i] = float32(i)
	}

	kv := &tensor.KV{Layers: l, Tokens: tok, Heads: h, HeadSize: d, Layout: tensor.LayoutHuggingFace, Data: data}

	out, err := Apply("huggingface", kv)
	require.NoError(t, err)
	require.Equal(t, tensor.LayoutDefault, out.Layout)
	require.Len(t, out.Data, len(data))

	// src[layer=0,kind=0,head=1,tok=0,:] should land at dst[layer=0,kind=0,tok=0,head=1,:].
	srcOff := ((((0*2+0)*h + 1) * tok) + 0) * d
	dstOff := ((((0*2+0)*tok + 0) * h) + 1) * d
	require.Equal(t, data[srcOff:srcOff+d], out.Data[dstOff:dstOff+d])
}

func TestIdentityRejectsWrongLayout(t *testing.T) {
	kv := &tensor.KV{Layers: 1, Tokens: 1, Heads: 1, HeadSize: 1, Layout: tensor.LayoutHuggingFace, Data: make([]float32, 2)}
	_, err := Apply("default", kv)
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	called := false
	Register("custom", func(kv *tensor.KV) (*tensor.KV, error) {
		called = true
		return kv, nil
	})

	kv := &tensor.KV{Layers: 1, Tokens: 1, Heads: 1, HeadSize: 1, Data: make([]float32, 2)}
	_, err := Apply("custom", kv)
	require.NoError(t, err)
	require.True(t, called)
}
