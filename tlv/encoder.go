package tlv

// defaultReserve is the initial Encoder buffer size, split evenly between
// front (prepend) and back (append) room so that bottom-up TLV
// construction (children first, then wrapping TL) rarely reallocates.
// Grounded on ndn-cxx's src/encoding/encoder.hpp reservation strategy.
const defaultReserve = 512

// Encoder holds a Buffer and two cursors, begin and end, that start in the
// interior and move apart as data is written: PrependXxx moves begin left,
// AppendXxx moves end right (spec.md §3 "Encoder"). The two-pass
// Estimator-then-Encoder pattern (see estimator.go) lets callers allocate
// exactly once by reserving the estimated size up front.
type Encoder struct {
	buf   Buffer
	begin int
	end   int
}

// NewEncoder creates an Encoder with room for at least reserve bytes,
// split evenly between the front and back margins. reserve <= 0 selects
// defaultReserve.
func NewEncoder(reserve int) *Encoder {
	if reserve <= 0 {
		reserve = defaultReserve
	}
	mid := reserve / 2
	return &Encoder{
		buf:   make(Buffer, reserve),
		begin: mid,
		end:   mid,
	}
}

// Len returns the number of committed bytes between begin and end.
func (e *Encoder) Len() int { return e.end - e.begin }

// Bytes returns the committed byte range [begin, end). The returned slice
// aliases the Encoder's buffer; callers that need an independent copy
// should clone it (e.g. before further mutating the Encoder).
func (e *Encoder) Bytes() []byte { return e.buf[e.begin:e.end] }

// growFront ensures at least n more bytes are available before begin.
func (e *Encoder) growFront(n int) {
	if e.begin >= n {
		return
	}
	e.realloc(n, 0)
}

// growBack ensures at least n more bytes are available after end.
func (e *Encoder) growBack(n int) {
	if len(e.buf)-e.end >= n {
		return
	}
	e.realloc(0, n)
}

// realloc doubles the buffer (at least), ensuring extraFront/extraBack
// bytes of additional headroom on each side, and recenters the existing
// committed content into the new buffer.
func (e *Encoder) realloc(extraFront, extraBack int) {
	content := e.end - e.begin
	oldCap := len(e.buf)
	needed := content + e.begin + extraFront + (len(e.buf)-e.end) + extraBack
	newCap := oldCap * 2
	if newCap < needed {
		newCap = needed * 2
	}
	if newCap < defaultReserve {
		newCap = defaultReserve
	}

	newBuf := make(Buffer, newCap)
	newBegin := e.begin + extraFront + (newCap-needed)/2
	copy(newBuf[newBegin:newBegin+content], e.buf[e.begin:e.end])

	e.buf = newBuf
	e.begin = newBegin
	e.end = newBegin + content
}

// PrependBytes copies p immediately before the current committed range.
func (e *Encoder) PrependBytes(p []byte) {
	e.growFront(len(p))
	e.begin -= len(p)
	copy(e.buf[e.begin:e.begin+len(p)], p)
}

// AppendBytes copies p immediately after the current committed range.
func (e *Encoder) AppendBytes(p []byte) {
	e.growBack(len(p))
	copy(e.buf[e.end:e.end+len(p)], p)
	e.end += len(p)
}

// PrependVarNumber prepends the VarNumber encoding of v.
func (e *Encoder) PrependVarNumber(v VarNumber) {
	n := v.EncodingLength()
	e.growFront(n)
	e.begin -= n
	v.EncodeInto(e.buf[e.begin : e.begin+n])
}

// AppendVarNumber appends the VarNumber encoding of v.
func (e *Encoder) AppendVarNumber(v VarNumber) {
	n := v.EncodingLength()
	e.growBack(n)
	v.EncodeInto(e.buf[e.end : e.end+n])
	e.end += n
}

// PrependNonNegativeInteger prepends the minimal-width encoding of v.
func (e *Encoder) PrependNonNegativeInteger(v NonNegativeInteger) {
	n := v.EncodingLength()
	e.growFront(n)
	e.begin -= n
	v.EncodeInto(e.buf[e.begin : e.begin+n])
}

// AppendNonNegativeInteger appends the minimal-width encoding of v.
func (e *Encoder) AppendNonNegativeInteger(v NonNegativeInteger) {
	n := v.EncodingLength()
	e.growBack(n)
	v.EncodeInto(e.buf[e.end : e.end+n])
	e.end += n
}

// PrependTypeLength prepends a Length VarNumber then a Type VarNumber, in
// that order, so that after a prior PrependBytes/child encoding of the
// value, the final byte order is Type, Length, Value.
func (e *Encoder) PrependTypeLength(typ VarNumber, length int) {
	e.PrependVarNumber(VarNumber(length))
	e.PrependVarNumber(typ)
}
