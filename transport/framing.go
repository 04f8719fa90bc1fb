package transport

import (
	"bufio"
	"io"

	"github.com/ndn-go/ndncore/tlv"
)

// readTLVFrame reads one complete top-level TLV element (type, length,
// value) from r and returns its full encoded bytes, for transports
// whose underlying connection is a raw byte stream rather than a
// message-framed socket (spec.md §6.2 "one decoded top-level Block per
// call").
func readTLVFrame(r *bufio.Reader) ([]byte, error) {
	var header []byte

	typBytes, err := readVarNumber(r)
	if err != nil {
		return nil, err
	}
	header = append(header, typBytes...)

	lenBytes, err := readVarNumber(r)
	if err != nil {
		return nil, err
	}
	header = append(header, lenBytes...)

	length, _, err := tlv.DecodeVarNumber(lenBytes)
	if err != nil {
		return nil, err
	}

	value := make([]byte, length)
	if _, err := io.ReadFull(r, value); err != nil {
		return nil, err
	}

	return append(header, value...), nil
}

// readVarNumber reads exactly one VarNumber encoding from r, byte by
// byte, since the encoded length is self-describing only after the
// first octet is known (tlv.DecodeVarNumber expects the whole thing
// up front).
func readVarNumber(r *bufio.Reader) ([]byte, error) {
	first, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	n := 1
	switch first {
	case 0xfd:
		n = 3
	case 0xfe:
		n = 5
	case 0xff:
		n = 9
	}
	buf := make([]byte, n)
	buf[0] = first
	if n > 1 {
		if _, err := io.ReadFull(r, buf[1:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
