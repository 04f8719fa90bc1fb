package tlv

import (
	"bytes"
	"fmt"
)

// ErrBadStructure is returned by Parse when a value's declared
// sub-elements don't pack exactly into the parent's value octets.
var ErrBadStructure = fmt.Errorf("tlv: sub-element lengths do not pack exactly into value")

// ErrNotEncoded is returned by Wire/Value/Size when no wire has been
// materialized yet: the "const but mutable cached wire" problem from
// ndn-cxx is replaced here with an explicit seal step (Encode) and a
// read-only getter that errors instead of silently memoizing
// (spec.md §9 design notes).
var ErrNotEncoded = fmt.Errorf("tlv: block has no materialized wire, call Encode first")

// MaxParseDepth bounds Parse's recursion to protect against stack
// exhaustion from hostile/malformed input (spec.md §4.2 recommends >= 32).
const MaxParseDepth = 32

// Block is the recursive TLV element described in spec.md §3/§4.2: a type,
// a materialized wire (once encoded), and an optional list of parsed
// sub-elements. A Block can exist in three states:
//
//   - (a) only Typ set (no value, no wire)
//   - (b) Typ + raw value bytes set, TL not materialized
//   - (c) fully materialized wire, with value delimited by [valueBegin,valueEnd)
//
// Mutating a Block (PushBack, Erase) always clears the cached wire.
type Block struct {
	Typ VarNumber

	wire                 Buffer // full T+L+V octets once materialized; nil otherwise
	valueBegin, valueEnd int    // offsets into wire delimiting V; valid iff wire != nil

	rawValue []byte // explicit value bytes pending encode (state b); nil if unused

	subElements []Block
	parsed      bool // subElements reflects a successful Parse() (or were built directly)
}

// NewBlock returns an empty Block of the given type (state a).
func NewBlock(typ VarNumber) Block {
	return Block{Typ: typ}
}

// NewBlockWithValue returns a Block carrying explicit, already-encoded
// value bytes (state b): TL is not yet materialized.
func NewBlockWithValue(typ VarNumber, value []byte) Block {
	return Block{Typ: typ, rawValue: value}
}

// NewBlockFromElements returns a Block built from already-constructed
// children; the wire is not materialized until Encode is called.
func NewBlockFromElements(typ VarNumber, elements []Block) Block {
	return Block{Typ: typ, subElements: elements, parsed: true}
}

// DecodeBlock parses a single TLV element's Type, Length, and value range
// from the front of buf. It does not recurse into the value (use Parse for
// that). Returns the Block and the number of bytes consumed.
func DecodeBlock(buf []byte) (Block, int, error) {
	typ, tlen, err := DecodeVarNumber(buf)
	if err != nil {
		return Block{}, 0, ErrTruncated
	}
	length, llen, err := DecodeVarNumber(buf[tlen:])
	if err != nil {
		return Block{}, 0, ErrTruncated
	}
	valueBegin := tlen + llen
	valueEnd := valueBegin + int(length)
	if valueEnd > len(buf) {
		return Block{}, 0, ErrBadLength{Msg: fmt.Sprintf("declared length %d exceeds available %d bytes", length, len(buf)-valueBegin)}
	}
	b := Block{
		Typ:        typ,
		wire:       Buffer(buf[:valueEnd]),
		valueBegin: valueBegin,
		valueEnd:   valueEnd,
	}
	return b, valueEnd, nil
}

// HasWire reports whether this Block has a materialized wire.
func (b *Block) HasWire() bool { return b.wire != nil }

// Wire returns the full T+L+V octets. It is a read-only getter: if nothing
// has been materialized yet, it returns ErrNotEncoded rather than encoding
// on the fly (spec.md §9).
func (b *Block) Wire() ([]byte, error) {
	if b.wire == nil {
		return nil, ErrNotEncoded
	}
	return b.wire, nil
}

// Value returns the value octets (the V in T+L+V).
func (b *Block) Value() ([]byte, error) {
	if b.wire != nil {
		return b.wire[b.valueBegin:b.valueEnd], nil
	}
	if b.rawValue != nil {
		return b.rawValue, nil
	}
	if b.subElements != nil {
		return nil, ErrNotEncoded
	}
	return []byte{}, nil
}

// Size returns the encoded length of the block (T+L+V). Requires a
// materialized wire.
func (b *Block) Size() (int, error) {
	if b.wire == nil {
		return 0, ErrNotEncoded
	}
	return len(b.wire), nil
}

// ResetWire clears any cached wire, forcing the next Encode to rebuild it.
// Sub-elements are not cleared: the next Encode rebuilds the wire from
// them, which is how PushBack and Erase take effect.
func (b *Block) ResetWire() {
	b.wire = nil
	b.valueBegin, b.valueEnd = 0, 0
}

// Parse recursively decodes the value octets into sub-elements. It is
// idempotent and never modifies the wire bytes. Fails with ErrBadStructure
// if sub-element lengths don't pack exactly into the value, and refuses to
// recurse past MaxParseDepth.
func (b *Block) Parse() error {
	return b.parseDepth(MaxParseDepth)
}

func (b *Block) parseDepth(depthLeft int) error {
	if b.parsed {
		return nil
	}
	if depthLeft <= 0 {
		return fmt.Errorf("tlv: parse depth exceeded %d", MaxParseDepth)
	}
	value, err := b.Value()
	if err != nil {
		return err
	}
	var elements []Block
	pos := 0
	for pos < len(value) {
		child, n, err := DecodeBlock(value[pos:])
		if err != nil {
			return ErrBadStructure
		}
		_ = child.parseDepth(depthLeft - 1)
		elements = append(elements, child)
		pos += n
	}
	if pos != len(value) {
		return ErrBadStructure
	}
	b.subElements = elements
	b.parsed = true
	return nil
}

// SubElements returns the parsed (or directly constructed) sub-elements.
// Call Parse first if the Block was produced by DecodeBlock.
func (b *Block) SubElements() []Block {
	return b.subElements
}

// Find returns the first sub-element of the given type, if any.
func (b *Block) Find(typ VarNumber) (*Block, bool) {
	for i := range b.subElements {
		if b.subElements[i].Typ == typ {
			return &b.subElements[i], true
		}
	}
	return nil, false
}

// Get returns the first sub-element of the given type, or an error if
// absent.
func (b *Block) Get(typ VarNumber) (*Block, error) {
	if el, ok := b.Find(typ); ok {
		return el, nil
	}
	return nil, fmt.Errorf("tlv: no sub-element of type %d", typ)
}

// PushBack appends a child sub-element and invalidates the cached wire.
func (b *Block) PushBack(child Block) {
	b.subElements = append(b.subElements, child)
	b.parsed = true
	b.ResetWire()
}

// Erase removes the sub-element at index i and invalidates the cached
// wire.
func (b *Block) Erase(i int) error {
	if i < 0 || i >= len(b.subElements) {
		return fmt.Errorf("tlv: erase index %d out of range", i)
	}
	b.subElements = append(b.subElements[:i], b.subElements[i+1:]...)
	b.ResetWire()
	return nil
}

// Encode materializes the wire: if a wire is already cached, it's a no-op.
// Otherwise it recursively encodes any sub-elements (children first, then
// the wrapping Type-Length), using the estimator-then-encoder two-pass
// pattern so the final buffer is allocated exactly once.
func (b *Block) Encode() error {
	if b.wire != nil {
		return nil
	}

	if b.rawValue != nil && b.subElements == nil {
		enc := NewEncoder(len(b.rawValue) + 2*9)
		enc.AppendBytes(b.rawValue)
		valueLen := enc.Len()
		enc.PrependTypeLength(b.Typ, valueLen)
		return b.seal(enc, valueLen)
	}

	if len(b.subElements) > 0 {
		// First pass: encode (or reuse) every child, tally total length.
		valueLen := 0
		for i := range b.subElements {
			if err := b.subElements[i].Encode(); err != nil {
				return err
			}
			sz, err := b.subElements[i].Size()
			if err != nil {
				return err
			}
			valueLen += sz
		}

		enc := NewEncoder(valueLen + 2*9)
		for i := range b.subElements {
			w, err := b.subElements[i].Wire()
			if err != nil {
				return err
			}
			enc.AppendBytes(w)
		}
		enc.PrependTypeLength(b.Typ, valueLen)
		return b.seal(enc, valueLen)
	}

	// Empty value.
	enc := NewEncoder(2 * 9)
	enc.PrependTypeLength(b.Typ, 0)
	return b.seal(enc, 0)
}

func (b *Block) seal(enc *Encoder, valueLen int) error {
	wire := enc.Bytes()
	b.wire = Buffer(wire)
	b.valueEnd = len(wire)
	b.valueBegin = b.valueEnd - valueLen
	return nil
}

// Equal compares the materialized wire bytes of two blocks, encoding
// working copies first if necessary (spec.md §4.2).
func (b Block) Equal(other Block) bool {
	bw, err1 := (&b).sealedWire()
	ow, err2 := (&other).sealedWire()
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(bw, ow)
}

func (b *Block) sealedWire() ([]byte, error) {
	if b.wire == nil {
		if err := b.Encode(); err != nil {
			return nil, err
		}
	}
	return b.wire, nil
}
