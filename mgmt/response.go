package mgmt

import "github.com/ndn-go/ndncore/tlv"

// TLV types for the control response, following the well-known NFD
// management protocol numbering used throughout ndn-cxx/NFD (see
// _examples/original_source/src/mgmt/control-response.hpp).
const (
	TypeControlResponse tlv.VarNumber = 101
	TypeStatusCode      tlv.VarNumber = 102
	TypeStatusText      tlv.VarNumber = 103
)

// ControlResponse is the reply to a processed control command (spec.md
// §4.7 step 5 of the control command pipeline).
type ControlResponse struct {
	Code uint64
	Text string
	Body []byte
}

// NewControlResponse returns a ControlResponse with the given code/text
// and no body.
func NewControlResponse(code uint64, text string) ControlResponse {
	return ControlResponse{Code: code, Text: text}
}

// Encode returns the wire encoding of the response.
func (r ControlResponse) Encode() ([]byte, error) {
	children := []tlv.Block{
		tlv.NewBlockWithValue(TypeStatusCode, tlv.NonNegativeInteger(r.Code).Bytes()),
		tlv.NewBlockWithValue(TypeStatusText, []byte(r.Text)),
	}
	if len(r.Body) > 0 {
		b, _, err := tlv.DecodeBlock(r.Body)
		if err == nil {
			children = append(children, b)
		}
	}
	b := tlv.NewBlockFromElements(TypeControlResponse, children)
	if err := b.Encode(); err != nil {
		return nil, err
	}
	return b.Wire()
}

// DecodeControlResponse parses a ControlResponse from its wire bytes.
func DecodeControlResponse(wire []byte) (ControlResponse, error) {
	b, _, err := tlv.DecodeBlock(wire)
	if err != nil {
		return ControlResponse{}, err
	}
	if err := b.Parse(); err != nil {
		return ControlResponse{}, err
	}
	var r ControlResponse
	for i, el := range b.SubElements() {
		switch el.Typ {
		case TypeStatusCode:
			v, err := el.Value()
			if err != nil {
				return ControlResponse{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return ControlResponse{}, err
			}
			r.Code = uint64(n)
		case TypeStatusText:
			v, err := el.Value()
			if err != nil {
				return ControlResponse{}, err
			}
			r.Text = string(v)
		default:
			r.Body, _ = b.SubElements()[i].Wire()
		}
	}
	return r, nil
}
