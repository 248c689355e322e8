// Package format holds the wire-format constants shared across the
// quantizer, CDF estimator/normalizer, entropy coder, and blob assembler.
package format

// AlphabetSize is A, the fixed symbol-alphabet cap used to size the CDF
// (spec.md §4.2). No layer's bin count may exceed AlphabetSize+1.
const AlphabetSize = 32

// CDFEntries is A+1, the number of CDF breakpoints per channel.
const CDFEntries = AlphabetSize + 1

// Precision is P, the fixed-point bit width the CDF is normalized to
// (spec.md §4.3). The arithmetic coder's total frequency is 1<<Precision.
const Precision = 16

// MaxTotalFreq is 2^P, the arithmetic coder's total frequency.
const MaxTotalFreq = 1 << Precision

// MaxBins is the largest bin count a layer band may request: it must fit
// within the fixed CDFEntries alphabet (bins <= AlphabetSize+1).
const MaxBins = CDFEntries
