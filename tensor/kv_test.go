package tensor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKV_Validate(t *testing.T) {
	tests := []struct {
		name    string
		kv      KV
		wantErr bool
	}{
		{
			name:    "valid shape",
			kv:      KV{Layers: 2, Tokens: 4, Heads: 2, HeadSize: 2, Data: make([]float32, 2*2*4*2*2)},
			wantErr: false,
		},
		{
			name:    "zero layers",
			kv:      KV{Layers: 0, Tokens: 4, Heads: 2, HeadSize: 2, Data: make([]float32, 4*2*2)},
			wantErr: true,
		},
		{
			name:    "data length mismatch",
			kv:      KV{Layers: 2, Tokens: 4, Heads: 2, HeadSize: 2, Data: make([]float32, 10)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kv.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestKV_Split(t *testing.T) {
	l, tok, h, d := 2, 3, 2, 2
	c := h * d
	data := make([]float32, l*2*tok*h*d)
	for i := range data {
		data[i] = float32(i)
	}

	kv := &KV{Layers: l, Tokens: tok, Heads: h, HeadSize: d, Layout: LayoutDefault, Data: data}

	k, v, err := kv.Split()
	require.NoError(t, err)
	require.Equal(t, l, k.Layers)
	require.Equal(t, c, k.Channels)
	require.Len(t, k.Data, l*tok*c)
	require.Len(t, v.Data, l*tok*c)

	// layer 0, token 0, key block starts at src offset 0.
	require.Equal(t, float32(0), k.Row(0, 0)[0])
	// layer 0, token 0, value block starts right after the key block.
	require.Equal(t, float32(tok*c), v.Row(0, 0)[0])
}

func TestKV_Split_WrongLayout(t *testing.T) {
	kv := &KV{Layers: 1, Tokens: 1, Heads: 1, HeadSize: 1, Layout: LayoutHuggingFace, Data: make([]float32, 2)}
	_, _, err := kv.Split()
	require.Error(t, err)
}

func TestChannels(t *testing.T) {
	kv := &KV{Heads: 4, HeadSize: 8}
	require.Equal(t, 32, kv.Channels())
}
