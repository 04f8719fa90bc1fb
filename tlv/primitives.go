// Package tlv implements the NDN TLV wire codec: variable-length numbers,
// a growable prepend/append Buffer, a two-pass Estimator/Encoder, and the
// recursive Block element that every NDN packet and sub-element is built
// from. Grounded on the teacher's std/encoding package (primitives.go,
// types.go) and on ndn-cxx's src/encoding/{tlv,buffer,encoder,estimator}.
package tlv

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated is returned when an input buffer ends before a complete
// VarNumber, NonNegativeInteger, or TLV element could be read. Callers of
// streaming decoders may retry after buffering more bytes.
var ErrTruncated = fmt.Errorf("tlv: truncated input")

// ErrBadLength is returned when a declared TLV Length exceeds the bytes
// actually available, or a NonNegativeInteger has a length other than
// 1, 2, 4, or 8 octets.
type ErrBadLength struct {
	Msg string
}

func (e ErrBadLength) Error() string { return "tlv: bad length: " + e.Msg }

// VarNumber is a TLV Type or Length number, NDN's variable-length unsigned
// integer encoding (spec.md §4.1).
type VarNumber uint64

// EncodingLength returns 1, 3, 5, or 9: the number of octets EncodeInto
// will write for this value.
func (v VarNumber) EncodingLength() int {
	switch {
	case v <= 0xfc:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// EncodeInto writes the VarNumber encoding of v into buf, which must have
// at least EncodingLength() bytes, and returns the number of bytes written.
func (v VarNumber) EncodeInto(buf []byte) int {
	switch {
	case v <= 0xfc:
		buf[0] = byte(v)
		return 1
	case v <= 0xffff:
		buf[0] = 0xfd
		binary.BigEndian.PutUint16(buf[1:], uint16(v))
		return 3
	case v <= 0xffffffff:
		buf[0] = 0xfe
		binary.BigEndian.PutUint32(buf[1:], uint32(v))
		return 5
	default:
		buf[0] = 0xff
		binary.BigEndian.PutUint64(buf[1:], uint64(v))
		return 9
	}
}

// Bytes allocates and returns the VarNumber encoding of v.
func (v VarNumber) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	v.EncodeInto(buf)
	return buf
}

// DecodeVarNumber parses a VarNumber from the front of buf, returning the
// value and the number of bytes consumed. It returns ErrTruncated rather
// than panicking when buf is too short.
func DecodeVarNumber(buf []byte) (val VarNumber, consumed int, err error) {
	if len(buf) < 1 {
		return 0, 0, ErrTruncated
	}
	switch x := buf[0]; {
	case x <= 0xfc:
		return VarNumber(x), 1, nil
	case x == 0xfd:
		if len(buf) < 3 {
			return 0, 0, ErrTruncated
		}
		return VarNumber(binary.BigEndian.Uint16(buf[1:3])), 3, nil
	case x == 0xfe:
		if len(buf) < 5 {
			return 0, 0, ErrTruncated
		}
		return VarNumber(binary.BigEndian.Uint32(buf[1:5])), 5, nil
	default: // x == 0xff
		if len(buf) < 9 {
			return 0, 0, ErrTruncated
		}
		return VarNumber(binary.BigEndian.Uint64(buf[1:9])), 9, nil
	}
}

// NonNegativeInteger is a fixed-width (1/2/4/8 byte) big-endian unsigned
// integer, used for e.g. FreshnessPeriod and InterestLifetime values.
type NonNegativeInteger uint64

// EncodingLength returns the minimal encoding width (1, 2, 4, or 8) for v.
func (v NonNegativeInteger) EncodingLength() int {
	switch {
	case v <= 0xff:
		return 1
	case v <= 0xffff:
		return 2
	case v <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

// EncodeInto writes v into buf using its minimal width and returns the
// number of bytes written.
func (v NonNegativeInteger) EncodeInto(buf []byte) int {
	switch {
	case v <= 0xff:
		buf[0] = byte(v)
		return 1
	case v <= 0xffff:
		binary.BigEndian.PutUint16(buf, uint16(v))
		return 2
	case v <= 0xffffffff:
		binary.BigEndian.PutUint32(buf, uint32(v))
		return 4
	default:
		binary.BigEndian.PutUint64(buf, uint64(v))
		return 8
	}
}

// Bytes allocates and returns the minimal-width encoding of v.
func (v NonNegativeInteger) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	v.EncodeInto(buf)
	return buf
}

// DecodeNonNegativeInteger parses a NonNegativeInteger from a buffer whose
// length is exactly the encoding (1, 2, 4, or 8 bytes); any other length
// is rejected per spec.md §4.1.
func DecodeNonNegativeInteger(buf []byte) (NonNegativeInteger, error) {
	switch len(buf) {
	case 1:
		return NonNegativeInteger(buf[0]), nil
	case 2:
		return NonNegativeInteger(binary.BigEndian.Uint16(buf)), nil
	case 4:
		return NonNegativeInteger(binary.BigEndian.Uint32(buf)), nil
	case 8:
		return NonNegativeInteger(binary.BigEndian.Uint64(buf)), nil
	default:
		return 0, ErrBadLength{Msg: fmt.Sprintf("non-negative integer length %d is not 1, 2, 4 or 8", len(buf))}
	}
}
