package packet

import (
	"fmt"
	"time"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/tlv"
)

// MetaInfo carries a Data packet's ContentType, FreshnessPeriod, and
// FinalBlockId (spec.md §4.4).
type MetaInfo struct {
	ContentType      ContentType
	HasContentType   bool
	FreshnessPeriod  time.Duration
	HasFreshness     bool
	FinalBlockId     *names.Component
}

func (m MetaInfo) block() tlv.Block {
	var children []tlv.Block
	if m.HasContentType {
		children = append(children, tlv.NewBlockWithValue(TypeContentType, tlv.NonNegativeInteger(m.ContentType).Bytes()))
	}
	if m.HasFreshness {
		ms := uint64(m.FreshnessPeriod / time.Millisecond)
		children = append(children, tlv.NewBlockWithValue(TypeFreshnessPeriod, tlv.NonNegativeInteger(ms).Bytes()))
	}
	if m.FinalBlockId != nil {
		children = append(children, tlv.NewBlockFromElements(TypeFinalBlockId, []tlv.Block{m.FinalBlockId.Block()}))
	}
	return tlv.NewBlockFromElements(TypeMetaInfo, children)
}

func decodeMetaInfo(b *tlv.Block) (MetaInfo, error) {
	if err := b.Parse(); err != nil {
		return MetaInfo{}, err
	}
	var m MetaInfo
	for _, el := range b.SubElements() {
		el := el
		switch el.Typ {
		case TypeContentType:
			v, err := el.Value()
			if err != nil {
				return MetaInfo{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return MetaInfo{}, err
			}
			m.ContentType = ContentType(n)
			m.HasContentType = true
		case TypeFreshnessPeriod:
			v, err := el.Value()
			if err != nil {
				return MetaInfo{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return MetaInfo{}, err
			}
			m.FreshnessPeriod = time.Duration(n) * time.Millisecond
			m.HasFreshness = true
		case TypeFinalBlockId:
			if err := el.Parse(); err != nil {
				return MetaInfo{}, err
			}
			subs := el.SubElements()
			if len(subs) != 1 {
				return MetaInfo{}, fmt.Errorf("packet: FinalBlockId must contain exactly one component")
			}
			val, err := subs[0].Value()
			if err != nil {
				return MetaInfo{}, err
			}
			comp := names.Component{Typ: subs[0].Typ, Val: val}
			m.FinalBlockId = &comp
		default:
			if IsCritical(el.Typ) {
				return MetaInfo{}, ErrCriticalUnknownElement{Typ: el.Typ}
			}
		}
	}
	return m, nil
}

// Equal compares two MetaInfo values field by field.
func (m MetaInfo) Equal(o MetaInfo) bool {
	if m.HasContentType != o.HasContentType || (m.HasContentType && m.ContentType != o.ContentType) {
		return false
	}
	if m.HasFreshness != o.HasFreshness || (m.HasFreshness && m.FreshnessPeriod != o.FreshnessPeriod) {
		return false
	}
	switch {
	case m.FinalBlockId == nil && o.FinalBlockId == nil:
		return true
	case m.FinalBlockId == nil || o.FinalBlockId == nil:
		return false
	default:
		return m.FinalBlockId.Equal(*o.FinalBlockId)
	}
}

// ErrCriticalUnknownElement is returned when decode encounters an
// unrecognized element whose type is critical (spec.md §4.4/§6.1).
type ErrCriticalUnknownElement struct {
	Typ tlv.VarNumber
}

func (e ErrCriticalUnknownElement) Error() string {
	return fmt.Sprintf("packet: unrecognized critical element type %d", e.Typ)
}
