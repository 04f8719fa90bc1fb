package packet

import (
	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/ndn"
	"github.com/ndn-go/ndncore/tlv"
)

// SignatureInfo carries the signature type and an optional key locator
// (spec.md §4.4, §6.1).
type SignatureInfo struct {
	SigType        ndn.SigType
	KeyLocatorName names.Name // set iff the locator is a Name
	KeyDigest      []byte     // set iff the locator is a KeyDigest
	HasKeyLocator  bool
}

func (s SignatureInfo) block() tlv.Block {
	children := []tlv.Block{
		tlv.NewBlockWithValue(TypeSignatureType, tlv.NonNegativeInteger(s.SigType).Bytes()),
	}
	if s.HasKeyLocator {
		var locatorChild tlv.Block
		if s.KeyDigest != nil {
			locatorChild = tlv.NewBlockWithValue(TypeKeyDigest, s.KeyDigest)
		} else {
			locatorChild = s.KeyLocatorName.Block()
		}
		children = append(children, tlv.NewBlockFromElements(TypeKeyLocator, []tlv.Block{locatorChild}))
	}
	return tlv.NewBlockFromElements(TypeSignatureInfo, children)
}

func decodeSignatureInfo(b *tlv.Block) (SignatureInfo, error) {
	if err := b.Parse(); err != nil {
		return SignatureInfo{}, err
	}
	var s SignatureInfo
	sawType := false
	for _, el := range b.SubElements() {
		el := el
		switch el.Typ {
		case TypeSignatureType:
			v, err := el.Value()
			if err != nil {
				return SignatureInfo{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return SignatureInfo{}, err
			}
			s.SigType = ndn.SigType(n)
			sawType = true
		case TypeKeyLocator:
			if err := el.Parse(); err != nil {
				return SignatureInfo{}, err
			}
			subs := el.SubElements()
			if len(subs) != 1 {
				return SignatureInfo{}, ErrBadStructure{Msg: "KeyLocator must contain exactly one element"}
			}
			s.HasKeyLocator = true
			switch subs[0].Typ {
			case names.TypeName:
				name, err := names.DecodeName(&subs[0])
				if err != nil {
					return SignatureInfo{}, err
				}
				s.KeyLocatorName = name
			case TypeKeyDigest:
				val, err := subs[0].Value()
				if err != nil {
					return SignatureInfo{}, err
				}
				s.KeyDigest = val
			default:
				if IsCritical(subs[0].Typ) {
					return SignatureInfo{}, ErrCriticalUnknownElement{Typ: subs[0].Typ}
				}
			}
		default:
			if IsCritical(el.Typ) {
				return SignatureInfo{}, ErrCriticalUnknownElement{Typ: el.Typ}
			}
		}
	}
	if !sawType {
		return SignatureInfo{}, ErrMissingRequiredElement{Typ: TypeSignatureType}
	}
	return s, nil
}

// Equal compares two SignatureInfo values.
func (s SignatureInfo) Equal(o SignatureInfo) bool {
	if s.SigType != o.SigType || s.HasKeyLocator != o.HasKeyLocator {
		return false
	}
	if !s.HasKeyLocator {
		return true
	}
	if len(s.KeyDigest) != 0 || len(o.KeyDigest) != 0 {
		return string(s.KeyDigest) == string(o.KeyDigest)
	}
	return s.KeyLocatorName.Equal(o.KeyLocatorName)
}

// ErrMissingRequiredElement is returned when a required element (Name,
// SignatureInfo, SignatureValue, SignatureType) is absent from the decoded
// structure (spec.md §4.4 "Required").
type ErrMissingRequiredElement struct {
	Typ tlv.VarNumber
}

func (e ErrMissingRequiredElement) Error() string {
	return "packet: missing required element"
}

// ErrBadStructure is returned when elements appear out of the strict order
// spec.md §4.4/§9 mandates, or a structural invariant (e.g. KeyLocator's
// single child) is violated.
type ErrBadStructure struct {
	Msg string
}

func (e ErrBadStructure) Error() string { return "packet: bad structure: " + e.Msg }
