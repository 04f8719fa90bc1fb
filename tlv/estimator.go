package tlv

// Estimator has the same shaped API as Encoder but never allocates: every
// operation returns the number of bytes that *would* have been written.
// Encoding uses the estimator-then-encoder two-pass pattern (spec.md §3)
// to size an Encoder's reservation exactly once: call the same sequence
// of operations against an Estimator first, then NewEncoder(est.Length())
// and repeat the sequence for real.
type Estimator struct {
	length int
}

// Length returns the total number of bytes accumulated so far.
func (e *Estimator) Length() int { return e.length }

// PrependBytes records n bytes of value and returns n.
func (e *Estimator) PrependBytes(p []byte) int {
	e.length += len(p)
	return len(p)
}

// AppendBytes records n bytes of value and returns n.
func (e *Estimator) AppendBytes(p []byte) int {
	e.length += len(p)
	return len(p)
}

// PrependVarNumber records the encoding length of v and returns it.
func (e *Estimator) PrependVarNumber(v VarNumber) int {
	n := v.EncodingLength()
	e.length += n
	return n
}

// AppendVarNumber records the encoding length of v and returns it.
func (e *Estimator) AppendVarNumber(v VarNumber) int {
	n := v.EncodingLength()
	e.length += n
	return n
}

// PrependNonNegativeInteger records the minimal-width encoding length of v.
func (e *Estimator) PrependNonNegativeInteger(v NonNegativeInteger) int {
	n := v.EncodingLength()
	e.length += n
	return n
}

// AppendNonNegativeInteger records the minimal-width encoding length of v.
func (e *Estimator) AppendNonNegativeInteger(v NonNegativeInteger) int {
	n := v.EncodingLength()
	e.length += n
	return n
}

// PrependTypeLength records a Length VarNumber followed by a Type
// VarNumber, mirroring Encoder.PrependTypeLength, and returns the total
// bytes added.
func (e *Estimator) PrependTypeLength(typ VarNumber, length int) int {
	n := e.PrependVarNumber(VarNumber(length))
	n += e.PrependVarNumber(typ)
	return n
}
