package names

import (
	"crypto/sha256"
	"strings"

	"github.com/ndn-go/ndncore/tlv"
)

// Name is a finite ordered sequence of Components (spec.md §3 "Name").
// Append/erase produce logically new Names; the underlying slice may be
// shared (copy-shallow), matching spec.md §3's "Lifecycles" note.
type Name []Component

// Empty is the zero-length Name.
var Empty = Name{}

// Parse builds a Name from a slice of components, without copying.
func Parse(components ...Component) Name {
	return Name(components)
}

// Append returns a new Name with the given components appended. The
// receiver's backing array is never mutated.
func (n Name) Append(components ...Component) Name {
	out := make(Name, len(n), len(n)+len(components))
	copy(out, n)
	return append(out, components...)
}

// AppendNumber appends a GenericNameComponent whose value is the
// big-endian minimal-width encoding of v (no recognized marker byte).
func (n Name) AppendNumber(v uint64) Name {
	return n.Append(Component{Typ: TypeGenericNameComponent, Val: tlv.NonNegativeInteger(v).Bytes()})
}

func (n Name) AppendVersion(v uint64) Name  { return n.Append(NewVersionComponent(v)) }
func (n Name) AppendSegment(v uint64) Name  { return n.Append(NewSegmentComponent(v)) }
func (n Name) AppendSequence(v uint64) Name { return n.Append(NewSequenceNumComponent(v)) }

// AppendImplicitSha256Digest appends the final-name digest component.
func (n Name) AppendImplicitSha256Digest(digest []byte) Name {
	return n.Append(NewImplicitSha256DigestComponent(digest))
}

// Prefix returns the first k components of n. Panics if k is out of range,
// as this indicates a programmer error, not a runtime condition.
func (n Name) Prefix(k int) Name {
	if k < 0 || k > len(n) {
		panic("names: prefix length out of range")
	}
	return n[:k]
}

// IsPrefixOf reports whether n is a prefix of other: n.size() <= other.size()
// and components match pairwise (spec.md §3).
func (n Name) IsPrefixOf(other Name) bool {
	if len(n) > len(other) {
		return false
	}
	for i := range n {
		if !n[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether n and other have the same components.
func (n Name) Equal(other Name) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if !n[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Compare implements canonical Name ordering: lexicographic over
// component-wise canonical Component.Compare, with a shorter prefix
// sorting before any of its extensions.
func (n Name) Compare(other Name) int {
	for i := 0; i < len(n) && i < len(other); i++ {
		if c := n[i].Compare(other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n) < len(other):
		return -1
	case len(n) > len(other):
		return 1
	default:
		return 0
	}
}

// Block encodes the Name as a TLV `Name { Component* }` block (spec.md
// §4.3).
func (n Name) Block() tlv.Block {
	children := make([]tlv.Block, len(n))
	for i, c := range n {
		children[i] = c.Block()
	}
	return tlv.NewBlockFromElements(TypeName, children)
}

// DecodeName decodes a Name from an already-type-checked tlv.Block of type
// TypeName.
func DecodeName(b *tlv.Block) (Name, error) {
	if b.Typ != TypeName {
		return nil, ErrWrongType{Expected: TypeName, Got: b.Typ}
	}
	if err := b.Parse(); err != nil {
		return nil, err
	}
	elems := b.SubElements()
	out := make(Name, len(elems))
	for i := range elems {
		val, err := elems[i].Value()
		if err != nil {
			return nil, err
		}
		out[i] = Component{Typ: elems[i].Typ, Val: val}
	}
	return out, nil
}

// ErrWrongType is returned when a Block's type doesn't match what the
// caller expected to decode.
type ErrWrongType struct {
	Expected, Got tlv.VarNumber
}

func (e ErrWrongType) Error() string {
	return "names: wrong TLV type"
}

// String returns the Name's URI representation, e.g. "/A/B".
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Key returns a canonical byte-string encoding of n suitable for use as
// a map key: each component contributes its type, its value length, and
// its value, all as VarNumber-prefixed fields, so no two distinct Names
// can collide on component boundaries.
func (n Name) Key() string {
	var sb strings.Builder
	for _, c := range n {
		sb.Write(c.Typ.Bytes())
		sb.Write(tlv.VarNumber(len(c.Val)).Bytes())
		sb.Write(c.Val)
	}
	return sb.String()
}

// FullNameDigest computes sha256(wire) for use in a FullName's trailing
// implicit digest component (spec.md §4.4 "FullName").
func FullNameDigest(wire []byte) []byte {
	sum := sha256.Sum256(wire)
	return sum[:]
}
