// Package sidecar compresses the CDF tables and offset index that travel
// alongside the entropy-coded bytestream (spec.md §4.5, §6.2 sidecar
// fields). Grounded on
// _examples/arloliu-mebo/compress/codec.go's Compressor/Decompressor/Codec
// port and its name-keyed CreateCodec/GetCodec registry, narrowed to the
// two algorithms this domain actually exercises.
package sidecar

import "github.com/kvcache-codec/kvcodec/kverrs"

// Algorithm identifies a sidecar compression codec.
type Algorithm uint8

const (
	// None stores the sidecar uncompressed.
	None Algorithm = iota
	// Zstd compresses with zstd, favoring ratio over speed.
	Zstd
	// LZ4 compresses with LZ4, favoring speed over ratio.
	LZ4
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a sidecar payload.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a sidecar payload.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Algorithm]Codec{
	None: NoOpCodec{},
	Zstd: ZstdCodec{},
	LZ4:  LZ4Codec{},
}

// Get retrieves the built-in Codec for algo.
func Get(algo Algorithm) (Codec, error) {
	codec, ok := builtinCodecs[algo]
	if !ok {
		return nil, kverrs.Wrap(kverrs.ErrConfigInvalid, "unsupported sidecar algorithm %q", algo)
	}

	return codec, nil
}
