package entropy

// encoder is a minimal carryless range encoder: the write half of the
// RFC 6716 §4.1 algorithm, supporting exactly the operation the codec
// needs -- encode a symbol given its cumulative-frequency interval
// [fl, fh) out of a fixed total ft. Grounded on gopus's
// rangecoding.Encoder.Encode/normalize/carryOut/Done; the raw-bits window,
// Shrink/Limit, and ICDF table helpers are dropped because nothing in this
// domain encodes bits outside a CDF interval.
type encoder struct {
	buf  []byte
	offs uint32
	rng  uint32
	val  uint32
	rem  int // -1 == nothing buffered yet
	ext  uint32
	err  bool
}

func newEncoder(buf []byte) *encoder {
	return &encoder{
		buf: buf,
		rng: codeTop,
		rem: -1,
	}
}

func (e *encoder) writeByte(b byte) {
	if int(e.offs) >= len(e.buf) {
		e.err = true
		return
	}
	e.buf[e.offs] = b
	e.offs++
}

func (e *encoder) carryOut(c int) {
	if c != symMax {
		carry := c >> symBits
		if e.rem >= 0 {
			e.writeByte(byte(e.rem + carry))
		}
		if e.ext > 0 {
			sym := byte((symMax + carry) & symMax)
			for ; e.ext > 0; e.ext-- {
				e.writeByte(sym)
			}
		}
		e.rem = c & symMax
	} else {
		e.ext++
	}
}

func (e *encoder) normalize() {
	for e.rng <= codeBot {
		e.carryOut(int(e.val >> codeShift))
		e.val = (e.val << symBits) & (codeTop - 1)
		e.rng <<= symBits
	}
}

// encode encodes a symbol occupying the cumulative-frequency interval
// [fl, fh) out of total ft, per RFC 6716 §4.1 ec_encode.
func (e *encoder) encode(fl, fh, ft uint32) {
	r := e.rng / ft
	if fl > 0 {
		e.val += e.rng - r*(ft-fl)
		e.rng = r * (fh - fl)
	} else {
		e.rng -= r * (ft - fh)
	}
	if e.rng == 0 {
		e.rng = 1
	}
	e.normalize()
}

// done finalizes the stream and returns the written bytes, or ok=false if
// the pre-allocated buffer overflowed.
func (e *encoder) done() ([]byte, bool) {
	l := codeBits - int(ilog(e.rng))
	msk := (uint32(codeTop) - 1) >> uint(l)
	end := (e.val + msk) &^ msk
	if (end | msk) >= e.val+e.rng {
		l++
		msk >>= 1
		end = (e.val + msk) &^ msk
	}

	for l > 0 {
		e.carryOut(int(end >> codeShift))
		end = (end << symBits) & (codeTop - 1)
		l -= symBits
	}

	if e.rem >= 0 || e.ext > 0 {
		e.carryOut(0)
	}

	if e.err {
		return nil, false
	}

	return e.buf[:e.offs], true
}
