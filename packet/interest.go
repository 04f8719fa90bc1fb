package packet

import (
	"crypto/rand"
	"time"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/tags"
	"github.com/ndn-go/ndncore/tlv"
)

// ChildSelector picks which matching child to prefer when multiple Data
// entries satisfy an Interest (spec.md §4.5.1 rule 6).
type ChildSelector int

const (
	ChildSelectorLeftmost  ChildSelector = 0
	ChildSelectorRightmost ChildSelector = 1
)

// Selectors narrows which Data packets may satisfy an Interest (spec.md
// §4.4 "Interest fields").
type Selectors struct {
	MinSuffixComponents    int
	HasMinSuffixComponents bool
	MaxSuffixComponents    int
	HasMaxSuffixComponents bool
	PublisherPublicKeyName names.Name
	HasPublisherKeyLocator bool
	Exclude                Exclude
	HasExclude             bool
	ChildSelector          ChildSelector
	HasChildSelector       bool
	MustBeFresh            bool
}

func (s Selectors) isEmpty() bool {
	return !s.HasMinSuffixComponents && !s.HasMaxSuffixComponents &&
		!s.HasPublisherKeyLocator && !s.HasExclude && !s.HasChildSelector && !s.MustBeFresh
}

func (s Selectors) block() tlv.Block {
	var children []tlv.Block
	if s.HasMinSuffixComponents {
		children = append(children, tlv.NewBlockWithValue(TypeMinSuffixComponents, tlv.NonNegativeInteger(s.MinSuffixComponents).Bytes()))
	}
	if s.HasMaxSuffixComponents {
		children = append(children, tlv.NewBlockWithValue(TypeMaxSuffixComponents, tlv.NonNegativeInteger(s.MaxSuffixComponents).Bytes()))
	}
	if s.HasPublisherKeyLocator {
		children = append(children, tlv.NewBlockFromElements(TypePublisherPublicKeyLocator, []tlv.Block{s.PublisherPublicKeyName.Block()}))
	}
	if s.HasExclude {
		children = append(children, s.Exclude.block())
	}
	if s.HasChildSelector {
		children = append(children, tlv.NewBlockWithValue(TypeChildSelector, tlv.NonNegativeInteger(s.ChildSelector).Bytes()))
	}
	if s.MustBeFresh {
		children = append(children, tlv.NewBlock(TypeMustBeFresh))
	}
	return tlv.NewBlockFromElements(TypeSelectors, children)
}

func decodeSelectors(b *tlv.Block) (Selectors, error) {
	if err := b.Parse(); err != nil {
		return Selectors{}, err
	}
	var s Selectors
	for i := range b.SubElements() {
		el := &b.SubElements()[i]
		switch el.Typ {
		case TypeMinSuffixComponents:
			v, err := el.Value()
			if err != nil {
				return Selectors{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return Selectors{}, err
			}
			s.MinSuffixComponents, s.HasMinSuffixComponents = int(n), true
		case TypeMaxSuffixComponents:
			v, err := el.Value()
			if err != nil {
				return Selectors{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return Selectors{}, err
			}
			s.MaxSuffixComponents, s.HasMaxSuffixComponents = int(n), true
		case TypePublisherPublicKeyLocator:
			if err := el.Parse(); err != nil {
				return Selectors{}, err
			}
			subs := el.SubElements()
			if len(subs) == 1 && subs[0].Typ == names.TypeName {
				name, err := names.DecodeName(&subs[0])
				if err != nil {
					return Selectors{}, err
				}
				s.PublisherPublicKeyName = name
				s.HasPublisherKeyLocator = true
			}
		case TypeExclude:
			ex, err := decodeExclude(el)
			if err != nil {
				return Selectors{}, err
			}
			s.Exclude, s.HasExclude = ex, true
		case TypeChildSelector:
			v, err := el.Value()
			if err != nil {
				return Selectors{}, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return Selectors{}, err
			}
			s.ChildSelector, s.HasChildSelector = ChildSelector(n), true
		case TypeMustBeFresh:
			s.MustBeFresh = true
		default:
			if IsCritical(el.Typ) {
				return Selectors{}, ErrCriticalUnknownElement{Typ: el.Typ}
			}
		}
	}
	return s, nil
}

// Interest is a request packet carrying a Name and matching preferences
// (spec.md §3 "Interest", §4.4).
type Interest struct {
	NameV      names.Name
	Selectors  Selectors
	Nonce      [4]byte
	HasNonce   bool
	Scope      int
	HasScope   bool
	Lifetime   time.Duration
	HasLifetime bool

	// Tags carries per-packet side metadata (IncomingFaceId, PitToken,
	// ...). It never affects the wire image or Equal (spec.md §4.9).
	Tags tags.Host

	wire tlv.Block
	hasWire bool
}

// NewInterest returns an Interest for the given name with no optional
// fields set.
func NewInterest(name names.Name) *Interest {
	return &Interest{NameV: name}
}

// Express (re-)sets the Nonce to 4 fresh random bytes if none is present,
// or always does so when force is true, and invalidates any cached wire
// (spec.md §4.4 "The Nonce is (re-)set... by an express step").
func (i *Interest) Express(force bool) {
	if i.HasNonce && !force {
		return
	}
	_, _ = rand.Read(i.Nonce[:])
	i.HasNonce = true
	i.resetWire()
}

func (i *Interest) resetWire() { i.hasWire = false; i.wire = tlv.Block{} }

// Encode materializes the wire encoding, calling Express(false) first so
// an unset Nonce is never sent on the wire.
func (i *Interest) Encode() ([]byte, error) {
	i.Express(false)

	children := []tlv.Block{i.NameV.Block()}
	if !i.Selectors.isEmpty() {
		children = append(children, i.Selectors.block())
	}
	children = append(children, tlv.NewBlockWithValue(TypeNonce, i.Nonce[:]))
	if i.HasScope {
		children = append(children, tlv.NewBlockWithValue(TypeScope, tlv.NonNegativeInteger(i.Scope).Bytes()))
	}
	if i.HasLifetime {
		ms := uint64(i.Lifetime / time.Millisecond)
		children = append(children, tlv.NewBlockWithValue(TypeInterestLifetime, tlv.NonNegativeInteger(ms).Bytes()))
	}

	b := tlv.NewBlockFromElements(TypeInterest, children)
	if err := b.Encode(); err != nil {
		return nil, err
	}
	i.wire = b
	i.hasWire = true
	wire, _ := b.Wire()
	return wire, nil
}

// DecodeInterest decodes an Interest from a full Interest TLV block.
func DecodeInterest(b tlv.Block) (*Interest, error) {
	if b.Typ != TypeInterest {
		return nil, names.ErrWrongType{Expected: TypeInterest, Got: b.Typ}
	}
	if err := b.Parse(); err != nil {
		return nil, err
	}
	var i Interest
	sawName, sawNonce := false, false
	order := map[tlv.VarNumber]int{names.TypeName: 1, TypeSelectors: 2, TypeNonce: 3, TypeScope: 4, TypeInterestLifetime: 5}
	last := 0
	for idx := range b.SubElements() {
		el := &b.SubElements()[idx]
		if pos, ok := order[el.Typ]; ok {
			if pos <= last {
				return nil, ErrBadStructure{Msg: "Interest element repeated or out of order"}
			}
			last = pos
		}
		switch el.Typ {
		case names.TypeName:
			name, err := names.DecodeName(el)
			if err != nil {
				return nil, err
			}
			i.NameV = name
			sawName = true
		case TypeSelectors:
			sel, err := decodeSelectors(el)
			if err != nil {
				return nil, err
			}
			i.Selectors = sel
		case TypeNonce:
			v, err := el.Value()
			if err != nil {
				return nil, err
			}
			if len(v) != 4 {
				return nil, ErrBadStructure{Msg: "Nonce must be 4 bytes"}
			}
			copy(i.Nonce[:], v)
			i.HasNonce = true
			sawNonce = true
		case TypeScope:
			v, err := el.Value()
			if err != nil {
				return nil, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return nil, err
			}
			i.Scope, i.HasScope = int(n), true
		case TypeInterestLifetime:
			v, err := el.Value()
			if err != nil {
				return nil, err
			}
			n, err := tlv.DecodeNonNegativeInteger(v)
			if err != nil {
				return nil, err
			}
			i.Lifetime, i.HasLifetime = time.Duration(n)*time.Millisecond, true
		default:
			if IsCritical(el.Typ) {
				return nil, ErrCriticalUnknownElement{Typ: el.Typ}
			}
		}
	}
	if !sawName {
		return nil, ErrMissingRequiredElement{Typ: names.TypeName}
	}
	if !sawNonce {
		return nil, ErrMissingRequiredElement{Typ: TypeNonce}
	}
	i.wire, i.hasWire = b, true
	return &i, nil
}

// Name returns the Interest's name.
func (i *Interest) Name() names.Name { return i.NameV }
