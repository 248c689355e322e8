package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Builtin(t *testing.T) {
	c, err := New("range", 64)
	require.NoError(t, err)
	require.IsType(t, &RangeCoder{}, c)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("does-not-exist", 64)
	require.Error(t, err)
}

func TestRegister_CustomFactory(t *testing.T) {
	called := false
	Register("custom-test-coder", func(maxRowBytes int) Coder {
		called = true
		return NewRangeCoder(maxRowBytes)
	})

	c, err := New("custom-test-coder", 64)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.True(t, called)
}
