package packet

import (
	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/tlv"
)

// Exclude represents an Interest's Exclude selector: a set of explicitly
// excluded components interleaved with "Any" gaps, in canonical order
// (spec.md §4.4 "Selectors"). Grounded on ndn-cxx's Exclude, simplified to
// the operations the content store's matching logic (spec.md §4.5.1 rule
// 5) actually needs.
type Exclude struct {
	// Components is a canonically ordered list of explicitly excluded
	// components.
	Components []names.Component
	// AnyBefore[i] reports whether every component strictly less than
	// Components[i] (and greater than Components[i-1], if any) is also
	// excluded.
	AnyBefore []bool
	// AnyAfterLast reports whether every component strictly greater than
	// the last entry in Components is excluded.
	AnyAfterLast bool
}

// Contains reports whether c is excluded.
func (ex Exclude) Contains(c names.Component) bool {
	for i, comp := range ex.Components {
		switch cmp := c.Compare(comp); {
		case cmp == 0:
			return true
		case cmp < 0:
			if i < len(ex.AnyBefore) {
				return ex.AnyBefore[i]
			}
			return false
		}
	}
	return ex.AnyAfterLast
}

func (ex Exclude) block() tlv.Block {
	var children []tlv.Block
	for i, comp := range ex.Components {
		if i < len(ex.AnyBefore) && ex.AnyBefore[i] {
			children = append(children, tlv.NewBlock(TypeAny))
		}
		children = append(children, comp.Block())
	}
	if ex.AnyAfterLast {
		children = append(children, tlv.NewBlock(TypeAny))
	}
	return tlv.NewBlockFromElements(TypeExclude, children)
}

func decodeExclude(b *tlv.Block) (Exclude, error) {
	if err := b.Parse(); err != nil {
		return Exclude{}, err
	}
	var ex Exclude
	pendingAny := false
	for _, el := range b.SubElements() {
		el := el
		if el.Typ == TypeAny {
			pendingAny = true
			continue
		}
		val, err := el.Value()
		if err != nil {
			return Exclude{}, err
		}
		ex.Components = append(ex.Components, names.Component{Typ: el.Typ, Val: val})
		ex.AnyBefore = append(ex.AnyBefore, pendingAny)
		pendingAny = false
	}
	ex.AnyAfterLast = pendingAny
	return ex, nil
}
