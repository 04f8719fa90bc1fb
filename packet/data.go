package packet

import (
	"fmt"
	"time"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/ndn"
	"github.com/ndn-go/ndncore/tags"
	"github.com/ndn-go/ndncore/tlv"
)

// Data is a response packet carrying a Name, Content, and a signature
// (spec.md §3 "Data", §4.4). The signed portion is the concatenation of
// the Name, MetaInfo, and Content elements' encoded bytes, up to but
// excluding SignatureValue.
type Data struct {
	NameV    names.Name
	Meta     MetaInfo
	HasMeta  bool
	Content  []byte
	HasContent bool
	Sig      SignatureInfo
	SigValue []byte

	// Tags carries per-packet side metadata (IncomingFaceId, ...). It
	// never affects the wire image or Equal (spec.md §4.9).
	Tags tags.Host

	wire         tlv.Block
	hasWire      bool
	fullName     names.Name
	hasFullName  bool
}

// NewData returns an unsigned Data for the given name.
func NewData(name names.Name) *Data {
	return &Data{NameV: name}
}

// Name returns the Data's name.
func (d *Data) Name() names.Name { return d.NameV }

// SetContent sets the Content field and invalidates any cached wire.
func (d *Data) SetContent(content []byte) {
	d.Content, d.HasContent = content, true
	d.resetWire()
}

// SetFreshnessPeriod sets MetaInfo.FreshnessPeriod.
func (d *Data) SetFreshnessPeriod(ms uint64) {
	d.Meta.FreshnessPeriod = time.Duration(ms) * time.Millisecond
	d.Meta.HasFreshness = true
	d.HasMeta = true
	d.resetWire()
}

func (d *Data) resetWire() {
	d.hasWire = false
	d.wire = tlv.Block{}
	d.hasFullName = false
}

// signedCovered returns the byte ranges covered by the signature: the
// fully encoded Name, MetaInfo (if present), and Content (if present)
// elements, in that order (spec.md §4.4 "signed portion").
func (d *Data) signedCovered() ([][]byte, error) {
	parts := []tlv.Block{d.NameV.Block()}
	if d.HasMeta {
		parts = append(parts, d.Meta.block())
	}
	if d.HasContent {
		parts = append(parts, tlv.NewBlockWithValue(TypeContent, d.Content))
	}
	covered := make([][]byte, len(parts))
	for i := range parts {
		if err := parts[i].Encode(); err != nil {
			return nil, err
		}
		w, err := parts[i].Wire()
		if err != nil {
			return nil, err
		}
		covered[i] = w
	}
	return covered, nil
}

// Sign computes the signature over the signed portion using signer,
// filling in SignatureInfo and SignatureValue, then materializes the wire.
// This is the "seal" step (spec.md §9): FullName is undefined before it.
func (d *Data) Sign(signer ndn.Signer) error {
	covered, err := d.signedCovered()
	if err != nil {
		return err
	}

	d.Sig = SignatureInfo{SigType: signer.Type()}
	if kn := signer.KeyLocator(); kn != nil {
		d.Sig.HasKeyLocator = true
		d.Sig.KeyLocatorName = kn
	}

	sigInfoBlock := d.Sig.block()
	if err := sigInfoBlock.Encode(); err != nil {
		return err
	}
	sigInfoWire, err := sigInfoBlock.Wire()
	if err != nil {
		return err
	}
	covered = append(covered, sigInfoWire)

	sigValue, err := signer.Sign(covered)
	if err != nil {
		return err
	}
	d.SigValue = sigValue

	return d.encodeFrom(covered, sigInfoBlock)
}

func (d *Data) encodeFrom(covered [][]byte, sigInfoBlock tlv.Block) error {
	var children []tlv.Block
	children = append(children, rewrapWire(covered[0], names.TypeName))
	idx := 1
	if d.HasMeta {
		children = append(children, rewrapWire(covered[idx], TypeMetaInfo))
		idx++
	}
	if d.HasContent {
		children = append(children, rewrapWire(covered[idx], TypeContent))
		idx++
	}
	children = append(children, sigInfoBlock)
	children = append(children, tlv.NewBlockWithValue(TypeSignatureValue, d.SigValue))

	top := tlv.NewBlockFromElements(TypeData, children)
	if err := top.Encode(); err != nil {
		return err
	}
	d.wire, d.hasWire = top, true
	return nil
}

// rewrapWire re-decodes an already-encoded child's wire bytes into a Block
// so it can be reused as a child of the top-level Data block without
// re-encoding. typ is asserted to match for sanity.
func rewrapWire(wire []byte, typ tlv.VarNumber) tlv.Block {
	b, _, err := tlv.DecodeBlock(wire)
	if err != nil || b.Typ != typ {
		// Should never happen: we just encoded these bytes ourselves.
		panic(fmt.Sprintf("packet: [BUG] failed to rewrap encoded child of type %d", typ))
	}
	return b
}

// Encode returns the cached wire produced by Sign or DecodeData. It never
// signs: a Data with no cached wire yields ErrNotSigned.
func (d *Data) Encode() ([]byte, error) {
	if !d.hasWire {
		return nil, ErrNotSigned{}
	}
	return d.wire.Wire()
}

// DecodeData decodes a Data packet from a full Data TLV block. Strict
// order is enforced: Name, [MetaInfo], [Content], SignatureInfo,
// SignatureValue (spec.md §4.4, §9 "Open question" — this repo follows
// the normative strict-order contract).
func DecodeData(b tlv.Block) (*Data, error) {
	if b.Typ != TypeData {
		return nil, names.ErrWrongType{Expected: TypeData, Got: b.Typ}
	}
	if err := b.Parse(); err != nil {
		return nil, err
	}

	const (
		stName = iota
		stMeta
		stContent
		stSigInfo
		stSigValue
		stDone
	)
	state := stName
	sawName, sawSigInfo := false, false

	var d Data
	for idx := range b.SubElements() {
		el := &b.SubElements()[idx]
		switch el.Typ {
		case names.TypeName:
			if state > stName {
				return nil, ErrBadStructure{Msg: "Name out of order"}
			}
			name, err := names.DecodeName(el)
			if err != nil {
				return nil, err
			}
			d.NameV = name
			sawName = true
			state = stMeta
		case TypeMetaInfo:
			if state > stMeta {
				return nil, ErrBadStructure{Msg: "MetaInfo out of order"}
			}
			m, err := decodeMetaInfo(el)
			if err != nil {
				return nil, err
			}
			d.Meta, d.HasMeta = m, true
			state = stContent
		case TypeContent:
			if state > stContent {
				return nil, ErrBadStructure{Msg: "Content out of order"}
			}
			v, err := el.Value()
			if err != nil {
				return nil, err
			}
			d.Content, d.HasContent = v, true
			state = stSigInfo
		case TypeSignatureInfo:
			if state > stSigInfo {
				return nil, ErrBadStructure{Msg: "SignatureInfo out of order"}
			}
			s, err := decodeSignatureInfo(el)
			if err != nil {
				return nil, err
			}
			d.Sig = s
			sawSigInfo = true
			state = stSigValue
		case TypeSignatureValue:
			if state > stSigValue {
				return nil, ErrBadStructure{Msg: "SignatureValue out of order"}
			}
			v, err := el.Value()
			if err != nil {
				return nil, err
			}
			d.SigValue = v
			state = stDone
		default:
			if IsCritical(el.Typ) {
				return nil, ErrCriticalUnknownElement{Typ: el.Typ}
			}
		}
	}
	if !sawName || !sawSigInfo || state < stDone {
		return nil, ErrMissingRequiredElement{}
	}
	d.wire, d.hasWire = b, true
	return &d, nil
}

// Equal compares Data packets by name, meta, content, signature info, and
// signature value (spec.md §4.4).
func (d *Data) Equal(o *Data) bool {
	if !d.NameV.Equal(o.NameV) {
		return false
	}
	if d.HasMeta != o.HasMeta || (d.HasMeta && !d.Meta.Equal(o.Meta)) {
		return false
	}
	if d.HasContent != o.HasContent || string(d.Content) != string(o.Content) {
		return false
	}
	if !d.Sig.Equal(o.Sig) {
		return false
	}
	return string(d.SigValue) == string(o.SigValue)
}

// ErrNotSigned is returned by FullName/Encode when a Data has never been
// wire-encoded via Sign (spec.md §4.4 "FullName computation").
type ErrNotSigned struct{}

func (ErrNotSigned) Error() string { return "packet: data has not been signed/encoded" }
