package entropy

// Byte-oriented carryless range coder constants, following RFC 6716 §4.1
// (the same renormalization scheme used by Opus's range coder). Grounded
// on _examples/thesyncim-gopus/rangecoding/constants.go; reproduced here
// because that package is internal to gopus and tied to Opus-specific
// framing (raw end-bits for LBRR flags) this domain does not need — only
// the carryless range-coding algorithm itself is reused.
const (
	symBits   = 8
	codeBits  = 32
	symMax    = (1 << symBits) - 1
	codeTop   = 1 << (codeBits - 1)
	codeBot   = codeTop >> symBits
	codeShift = codeBits - symBits - 1
)

// ilog returns floor(log2(x))+1, i.e. the position of the highest set bit
// (1-indexed), matching libopus's EC_ILOG/gopus's ilog helper.
func ilog(x uint32) uint32 {
	n := uint32(0)
	for x != 0 {
		n++
		x >>= 1
	}

	return n
}
