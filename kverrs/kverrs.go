// Package kverrs defines the sentinel errors and structured error kinds
// returned by the codec's core pipeline.
//
// All errors raised by quant, cdf, entropy, and codec are fatal for the
// current call: the core never retries internally and never returns a
// partial EncoderOutput. Callers should match on Kind rather than on
// Error() text, which may gain detail over time.
package kverrs

import (
	"errors"
	"fmt"
)

// Kind classifies a core error for programmatic handling.
type Kind string

const (
	// KindConfigInvalid covers bin counts that are non-positive, non-integer,
	// exceed the CDF alphabet size, or layer-band boundaries that are not
	// monotone.
	KindConfigInvalid Kind = "config_invalid"

	// KindShapeMismatch covers input tensor rank, axis, or chunk-size
	// mismatches.
	KindShapeMismatch Kind = "shape_mismatch"

	// KindCoderOverflow covers a per-blob encoded size exceeding the
	// implementation's hard cap.
	KindCoderOverflow Kind = "coder_overflow"

	// KindInternalInvariant covers invariant violations such as a quantized
	// symbol falling outside [0, A+1) after quantization.
	KindInternalInvariant Kind = "internal_invariant"
)

// Sentinels wrapped by fmt.Errorf("%w: detail", Sentinel, ...) at call
// sites, following the wrap-with-detail idiom used throughout this module.
var (
	ErrConfigInvalid     = errors.New("kvcodec: invalid configuration")
	ErrShapeMismatch     = errors.New("kvcodec: tensor shape mismatch")
	ErrCoderOverflow     = errors.New("kvcodec: entropy coder output overflow")
	ErrInternalInvariant = errors.New("kvcodec: internal invariant violated")
)

var kindBySentinel = map[error]Kind{
	ErrConfigInvalid:     KindConfigInvalid,
	ErrShapeMismatch:     KindShapeMismatch,
	ErrCoderOverflow:     KindCoderOverflow,
	ErrInternalInvariant: KindInternalInvariant,
}

// KindOf returns the Kind of err if it wraps one of this package's
// sentinels, and false otherwise.
func KindOf(err error) (Kind, bool) {
	for sentinel, kind := range kindBySentinel {
		if errors.Is(err, sentinel) {
			return kind, true
		}
	}

	return "", false
}

// Wrap builds a detailed error for sentinel, in the "%w: detail" shape used
// throughout this module's call sites.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
