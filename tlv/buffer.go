package tlv

// Buffer is a growable byte vector that supports cheap bidirectional
// prepend/append through an Encoder, and cheap read-only sharing once
// frozen into a Block (spec.md §3 "Buffer"). Unlike ndn-cxx's
// shared_ptr<vector<uint8>>, Go's slices already give us reference-counted,
// copy-free sub-ranging: a Buffer is just []byte, and a Block's (begin,
// end) offsets carve out a read-only view of it.
type Buffer []byte

// Clone returns an independent copy of b.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}
