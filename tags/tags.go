// Package tags implements per-packet typed side-channel metadata (spec.md
// §4.9 "Tags and PIT token"). Grounded on the teacher's lp-packet tag
// handling and ndn-cxx's src/lp/tags.hpp, which the design notes (spec.md
// §9) recommend lowering to a closed sum type when the tag set is known.
package tags

import (
	"fmt"
	"strings"
)

// Kind identifies a well-known tag type (spec.md §9 design notes list:
// CachePolicy, IncomingFaceId, NextHopFaceId, NonDiscovery,
// PrefixAnnouncement, CongestionMark).
type Kind int

const (
	KindCachePolicy Kind = iota
	KindIncomingFaceId
	KindNextHopFaceId
	KindNonDiscovery
	KindPrefixAnnouncement
	KindCongestionMark
)

// CachePolicyValue is the value carried by a CachePolicy tag.
type CachePolicyValue int

const (
	CachePolicyNone    CachePolicyValue = 0
	CachePolicyNoCache CachePolicyValue = 1
)

// Host carries a typed map from tag kind to value. Tags are metadata: they
// never affect a packet's wire image or Equal comparison, so Host's
// mutators work even though callers typically hold packets by value or via
// a read-only view (spec.md §4.9).
type Host struct {
	values map[Kind]any
}

// Get retrieves the tag of the given kind, if set.
func (h *Host) Get(k Kind) (any, bool) {
	if h.values == nil {
		return nil, false
	}
	v, ok := h.values[k]
	return v, ok
}

// Set stores a tag value, overwriting any previous value of the same kind.
func (h *Host) Set(k Kind, v any) {
	if h.values == nil {
		h.values = make(map[Kind]any)
	}
	h.values[k] = v
}

// Remove deletes the tag of the given kind, if any.
func (h *Host) Remove(k Kind) {
	delete(h.values, k)
}

// GetIncomingFaceId is a typed convenience accessor.
func (h *Host) GetIncomingFaceId() (uint64, bool) {
	v, ok := h.Get(KindIncomingFaceId)
	if !ok {
		return 0, false
	}
	return v.(uint64), true
}

// SetIncomingFaceId stores the IncomingFaceId tag.
func (h *Host) SetIncomingFaceId(faceID uint64) { h.Set(KindIncomingFaceId, faceID) }

// GetNextHopFaceId is a typed convenience accessor.
func (h *Host) GetNextHopFaceId() (uint64, bool) {
	v, ok := h.Get(KindNextHopFaceId)
	if !ok {
		return 0, false
	}
	return v.(uint64), true
}

// SetNextHopFaceId stores the NextHopFaceId tag.
func (h *Host) SetNextHopFaceId(faceID uint64) { h.Set(KindNextHopFaceId, faceID) }

// GetCachePolicy is a typed convenience accessor.
func (h *Host) GetCachePolicy() (CachePolicyValue, bool) {
	v, ok := h.Get(KindCachePolicy)
	if !ok {
		return CachePolicyNone, false
	}
	return v.(CachePolicyValue), true
}

// SetCachePolicy stores the CachePolicy tag.
func (h *Host) SetCachePolicy(v CachePolicyValue) { h.Set(KindCachePolicy, v) }

const (
	minPitTokenLen = 1
	maxPitTokenLen = 32
)

// PitToken is a 1-32 byte opaque correlation handle carried in link-layer
// headers (spec.md §4.9, grounded on ndn-cxx's src/lp/pit-token.cpp).
type PitToken []byte

// NewPitToken validates and returns a PitToken. Returns an error if val's
// length is outside [1, 32] bytes.
func NewPitToken(val []byte) (PitToken, error) {
	if len(val) < minPitTokenLen || len(val) > maxPitTokenLen {
		return nil, fmt.Errorf("tags: pit token length %d out of range [%d, %d]", len(val), minPitTokenLen, maxPitTokenLen)
	}
	return PitToken(val), nil
}

// String renders the token as uppercase hex (spec.md §4.9).
func (t PitToken) String() string {
	var sb strings.Builder
	const hex = "0123456789ABCDEF"
	for _, b := range t {
		sb.WriteByte(hex[b>>4])
		sb.WriteByte(hex[b&0xf])
	}
	return sb.String()
}
