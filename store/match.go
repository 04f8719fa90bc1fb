package store

import (
	"time"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
)

// Find returns the best entry satisfying interest, applying every
// matching rule in spec.md §4.5.1 and breaking ties between equally
// good candidates with the Interest's ChildSelector (rule 6, default
// leftmost). It records an access against the chosen entry.
func (s *Store) Find(interest *packet.Interest) (*packet.Data, bool) {
	rightmost := interest.Selectors.HasChildSelector && interest.Selectors.ChildSelector == packet.ChildSelectorRightmost

	now := s.now()
	var best *Entry
	for _, e := range s.all() {
		if !s.matches(interest, e, now) {
			continue
		}
		if best == nil {
			best = e
			continue
		}
		cmp := e.Data.Name().Compare(best.Data.Name())
		if rightmost {
			if cmp > 0 {
				best = e
			}
		} else if cmp < 0 {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	s.touch(best)
	return best.Data, true
}

// matches applies rules 1-5 of spec.md §4.5.1 to a single candidate.
func (s *Store) matches(interest *packet.Interest, e *Entry, now time.Time) bool {
	iname := interest.Name()
	name := e.Data.Name()

	fullName, err := e.Data.FullName()
	if err != nil {
		return false
	}

	// Rule 1: a trailing implicit digest component must match the Data's
	// FullName exactly; otherwise the Interest name must be a proper (or
	// equal) prefix of the Data's Name.
	exactFullNameMatch := false
	if len(iname) > 0 && iname[len(iname)-1].Typ == names.TypeImplicitSha256DigestComponent {
		if !iname.Equal(fullName) {
			return false
		}
		exactFullNameMatch = true
	} else if !iname.IsPrefixOf(name) {
		return false
	}

	// Rule 2: suffix length bounds, counted against the FullName (so the
	// implicit digest always counts as one suffix component).
	suffixLen := len(fullName) - len(iname)
	if suffixLen < 0 {
		suffixLen = 0
	}
	sel := interest.Selectors
	if sel.HasMinSuffixComponents && suffixLen < sel.MinSuffixComponents {
		return false
	}
	if sel.HasMaxSuffixComponents && suffixLen > sel.MaxSuffixComponents {
		return false
	}

	// Rule 3: freshness. An exact full-name (digest) match bypasses this
	// check: the Interest already pins the exact Data by its digest, so
	// staleness is moot.
	if sel.MustBeFresh && !exactFullNameMatch && !e.Fresh(now) {
		return false
	}

	// Rule 4: key locator.
	if sel.HasPublisherKeyLocator {
		if !e.Data.Sig.HasKeyLocator || !e.Data.Sig.KeyLocatorName.Equal(sel.PublisherPublicKeyName) {
			return false
		}
	}

	// Rule 5: exclude applies to the immediate child component following
	// the matched Interest name prefix.
	if sel.HasExclude && len(name) > len(iname) {
		if sel.Exclude.Contains(name[len(iname)]) {
			return false
		}
	}

	return true
}
