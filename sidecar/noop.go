package sidecar

// NoOpCodec passes sidecar data through unchanged. Grounded on
// arloliu-mebo/compress/noop.go.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
