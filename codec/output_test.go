package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvcache-codec/kvcodec/cdf"
	"github.com/kvcache-codec/kvcodec/quant"
	"github.com/kvcache-codec/kvcodec/sidecar"
)

func sampleOutput() *EncoderOutput {
	return &EncoderOutput{
		Bytestream:   []byte{1, 2, 3, 4, 5, 6},
		StartIndices: []int32{0, 2, 4},
		CDF: cdf.IntTable{
			Slabs: 1, Channels: 1,
			Data: []int16{0, 100, 200},
		},
		ScalesKey:   quant.Scales{Layers: 1, Tokens: 1, Data: []float32{1.5}},
		ScalesValue: quant.Scales{Layers: 1, Tokens: 1, Data: []float32{2.5}},
		NumHeads:    2,
		HeadSize:    4,
	}
}

func TestEncoderOutput_Validate(t *testing.T) {
	out := sampleOutput()
	require.NoError(t, out.Validate())

	bad := sampleOutput()
	bad.StartIndices = []int32{1, 2, 4}
	require.Error(t, bad.Validate())

	nonMonotone := sampleOutput()
	nonMonotone.StartIndices = []int32{0, 4, 2}
	require.Error(t, nonMonotone.Validate())

	outOfBounds := sampleOutput()
	outOfBounds.StartIndices = []int32{0, 2, 100}
	require.Error(t, outOfBounds.Validate())

	empty := &EncoderOutput{}
	require.NoError(t, empty.Validate())
}

func TestEncoderOutput_SerializeRoundTripsLength(t *testing.T) {
	out := sampleOutput()
	blob := out.Serialize()

	require.Equal(t, blobMagic, leUint32(blob[0:4]))
	require.Equal(t, blobVersion, leUint16(blob[4:6]))
	require.Equal(t, uint16(out.NumHeads), leUint16(blob[6:8]))
	require.Equal(t, uint16(out.HeadSize), leUint16(blob[8:10]))

	bsLen := leUint32(blob[10:14])
	require.EqualValues(t, len(out.Bytestream), bsLen)
}

func TestEncoderOutput_Fingerprint_Deterministic(t *testing.T) {
	a := sampleOutput()
	b := sampleOutput()
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Bytestream = append([]byte{}, b.Bytestream...)
	b.Bytestream[0] ^= 0xff
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestEncoderOutput_CompressedSidecar(t *testing.T) {
	out := sampleOutput()
	out.SidecarAlgorithm = sidecar.None

	raw := out.sidecarBytes()
	compressed, err := out.CompressedSidecar()
	require.NoError(t, err)
	require.Equal(t, raw, compressed)

	out.SidecarAlgorithm = sidecar.Zstd
	zstdCompressed, err := out.CompressedSidecar()
	require.NoError(t, err)
	require.NotEmpty(t, zstdCompressed)
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
