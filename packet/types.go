// Package packet implements the NDN packet model: Interest, Data,
// MetaInfo, and SignatureInfo (spec.md §3 "Interest, Data" and §4.4),
// layered on top of tlv.Block and names.Name. Grounded on the teacher's
// std/ndn/spec_2022 package and on ndn-cxx's data.cpp/interest model
// (see _examples/original_source/ndn-cxx/data.cpp).
package packet

import "github.com/ndn-go/ndncore/tlv"

// Top-level packet and element TLV types (spec.md §6.1).
const (
	TypeInterest         tlv.VarNumber = 5
	TypeData             tlv.VarNumber = 6
	TypeSelectors        tlv.VarNumber = 9
	TypeNonce            tlv.VarNumber = 10
	TypeScope            tlv.VarNumber = 11
	TypeInterestLifetime tlv.VarNumber = 12

	TypeMinSuffixComponents       tlv.VarNumber = 13
	TypeMaxSuffixComponents       tlv.VarNumber = 14
	TypePublisherPublicKeyLocator tlv.VarNumber = 15
	TypeExclude                   tlv.VarNumber = 16
	TypeChildSelector             tlv.VarNumber = 17
	TypeMustBeFresh               tlv.VarNumber = 18
	TypeAny                       tlv.VarNumber = 19

	TypeMetaInfo        tlv.VarNumber = 20
	TypeContent         tlv.VarNumber = 21
	TypeSignatureInfo   tlv.VarNumber = 22
	TypeSignatureValue  tlv.VarNumber = 23
	TypeContentType     tlv.VarNumber = 24
	TypeFreshnessPeriod tlv.VarNumber = 25
	TypeFinalBlockId    tlv.VarNumber = 26
	TypeSignatureType   tlv.VarNumber = 27
	TypeKeyLocator      tlv.VarNumber = 28
	TypeKeyDigest       tlv.VarNumber = 29
)

// Content types (spec.md §6.1).
const (
	ContentTypeBlob ContentType = 0
	ContentTypeLink ContentType = 1
	ContentTypeKey  ContentType = 2
	ContentTypeNack ContentType = 3
)

type ContentType uint64

// Criticality: TLV types < 32 or odd are critical (spec.md §6.1,
// §4.4 decoding rules). An unknown critical element fails decode; a
// non-critical one is skipped.
func IsCritical(typ tlv.VarNumber) bool {
	return typ < 32 || typ%2 == 1
}
