// Package names implements NDN Name and Component (spec.md §3 "Component",
// "Name", and §4.3), grounded on the teacher's std/encoding/component*.go
// and name_pattern.go files.
package names

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ndn-go/ndncore/tlv"
)

// Well-known component types (spec.md §6.1).
const (
	TypeInvalidComponent              tlv.VarNumber = 0x00
	TypeImplicitSha256DigestComponent tlv.VarNumber = 0x01
	TypeGenericNameComponent          tlv.VarNumber = 0x08
	TypeKeywordNameComponent          tlv.VarNumber = 0x20
	TypeSegmentNameComponent          tlv.VarNumber = 0x32
	TypeByteOffsetNameComponent       tlv.VarNumber = 0x34
	TypeVersionNameComponent          tlv.VarNumber = 0x36
	TypeTimestampNameComponent        tlv.VarNumber = 0x38
	TypeSequenceNumNameComponent      tlv.VarNumber = 0x3a

	TypeName tlv.VarNumber = 0x07
)

// Sha256DigestLength is the fixed value length of an
// ImplicitSha256DigestComponent.
const Sha256DigestLength = 32

// Component is an opaque byte string tagged with a TLV type
// (spec.md §3 "Component").
type Component struct {
	Typ tlv.VarNumber
	Val []byte
}

// NewGenericComponent returns a GenericNameComponent with the given bytes.
func NewGenericComponent(val []byte) Component {
	return Component{Typ: TypeGenericNameComponent, Val: val}
}

// NewStringComponent returns a GenericNameComponent from a UTF-8 string.
func NewStringComponent(s string) Component {
	return NewGenericComponent([]byte(s))
}

// NewImplicitSha256DigestComponent returns the implicit digest component
// for a 32-byte SHA-256 digest. Panics if digest isn't exactly 32 bytes,
// matching ndn-cxx's precondition (a malformed digest is a programmer
// error, not a runtime condition).
func NewImplicitSha256DigestComponent(digest []byte) Component {
	if len(digest) != Sha256DigestLength {
		panic("names: implicit sha256 digest component requires a 32-byte value")
	}
	return Component{Typ: TypeImplicitSha256DigestComponent, Val: digest}
}

// newNumberComponent encodes v as a NonNegativeInteger value with the
// given marker type, per the *Name Component Conventions (spec.md §4.3).
func newNumberComponent(typ tlv.VarNumber, v uint64) Component {
	return Component{Typ: typ, Val: tlv.NonNegativeInteger(v).Bytes()}
}

func NewSegmentComponent(seg uint64) Component {
	return newNumberComponent(TypeSegmentNameComponent, seg)
}

func NewVersionComponent(ver uint64) Component {
	return newNumberComponent(TypeVersionNameComponent, ver)
}

func NewSequenceNumComponent(seq uint64) Component {
	return newNumberComponent(TypeSequenceNumNameComponent, seq)
}

func NewTimestampComponent(ts uint64) Component {
	return newNumberComponent(TypeTimestampNameComponent, ts)
}

// NumberVal decodes the value as a big-endian unsigned integer, as used by
// the numeric marker-type components.
func (c Component) NumberVal() uint64 {
	var ret uint64
	for _, v := range c.Val {
		ret = (ret << 8) | uint64(v)
	}
	return ret
}

// Clone returns an independent copy of c.
func (c Component) Clone() Component {
	v := make([]byte, len(c.Val))
	copy(v, c.Val)
	return Component{Typ: c.Typ, Val: v}
}

// EncodingLength returns the encoded TLV length of the component.
func (c Component) EncodingLength() int {
	return tlv.VarNumber(c.Typ).EncodingLength() + tlv.VarNumber(len(c.Val)).EncodingLength() + len(c.Val)
}

// Block returns the component as an encoded tlv.Block.
func (c Component) Block() tlv.Block {
	return tlv.NewBlockWithValue(c.Typ, c.Val)
}

// Compare implements NDN canonical component order (spec.md §3): first by
// type, then by value length, then lexicographically.
func (c Component) Compare(rhs Component) int {
	if c.Typ != rhs.Typ {
		if c.Typ < rhs.Typ {
			return -1
		}
		return 1
	}
	if len(c.Val) != len(rhs.Val) {
		if len(c.Val) < len(rhs.Val) {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.Val, rhs.Val)
}

// Equal reports whether c and rhs have the same type and value.
func (c Component) Equal(rhs Component) bool {
	return c.Compare(rhs) == 0
}

var hexDigits = []rune("0123456789abcdef")

// String returns the URI representation of the component: "type=value" for
// non-generic types (e.g. "sha256digest=..." for the implicit digest,
// "seg=1" for a segment marker), or just the percent-escaped value text for
// GenericNameComponent.
func (c Component) String() string {
	var sb strings.Builder
	if name, ok := altURIName[c.Typ]; ok {
		sb.WriteString(name)
		sb.WriteByte('=')
	} else if c.Typ != TypeGenericNameComponent {
		sb.WriteString(strconv.FormatUint(uint64(c.Typ), 10))
		sb.WriteByte('=')
	}
	switch c.Typ {
	case TypeImplicitSha256DigestComponent:
		writeHex(&sb, c.Val)
		return sb.String()
	case TypeSegmentNameComponent, TypeByteOffsetNameComponent, TypeVersionNameComponent,
		TypeTimestampNameComponent, TypeSequenceNumNameComponent:
		sb.WriteString(strconv.FormatUint(c.NumberVal(), 10))
		return sb.String()
	}
	writeURIValue(&sb, c.Val)
	return sb.String()
}

var altURIName = map[tlv.VarNumber]string{
	TypeImplicitSha256DigestComponent: "sha256digest",
	TypeSegmentNameComponent:          "seg",
	TypeVersionNameComponent:          "v",
	TypeTimestampNameComponent:        "t",
	TypeSequenceNumNameComponent:      "seq",
	TypeByteOffsetNameComponent:       "off",
	TypeKeywordNameComponent:          "32",
}

func writeHex(sb *strings.Builder, val []byte) {
	for _, b := range val {
		sb.WriteRune(hexDigits[b>>4])
		sb.WriteRune(hexDigits[b&0xf])
	}
}

func writeURIValue(sb *strings.Builder, val []byte) {
	for _, b := range val {
		if isURISafe(b) {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('%')
			sb.WriteRune(hexDigits[b>>4])
			sb.WriteRune(hexDigits[b&0xf])
		}
	}
}

func isURISafe(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	default:
		return false
	}
}
