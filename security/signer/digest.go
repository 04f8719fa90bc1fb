// Package signer provides reference ndn.Signer implementations: a
// keyless SHA-256 digest signer and a shared-secret HMAC-SHA256 signer.
// Grounded on the teacher's std/security/signer/{sha256_signer,
// hmac_signer}.go, adapted to this repo's ndn.Signer shape (Sign takes
// [][]byte rather than an enc.Wire, and EstimateSize returns int).
package signer

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/ndn"
)

type digestSigner struct{}

// NewDigestSigner returns a signer using SignatureDigestSha256, which
// carries no key and authenticates nothing beyond packet integrity.
func NewDigestSigner() ndn.Signer { return digestSigner{} }

func (digestSigner) Type() ndn.SigType       { return ndn.SignatureDigestSha256 }
func (digestSigner) KeyName() names.Name     { return nil }
func (digestSigner) KeyLocator() names.Name  { return nil }
func (digestSigner) EstimateSize() int       { return sha256.Size }

func (digestSigner) Sign(covered [][]byte) ([]byte, error) {
	h := sha256.New()
	for _, buf := range covered {
		if _, err := h.Write(buf); err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}

type hmacSigner struct {
	key     []byte
	keyName names.Name
}

// NewHMACSigner returns a signer using SignatureHmacWithSha256 under a
// shared secret key, optionally identified by keyName in the
// SignatureInfo's KeyLocator.
func NewHMACSigner(key []byte, keyName names.Name) ndn.Signer {
	return &hmacSigner{key: key, keyName: keyName}
}

func (s *hmacSigner) Type() ndn.SigType      { return ndn.SignatureHmacWithSha256 }
func (s *hmacSigner) KeyName() names.Name    { return s.keyName }
func (s *hmacSigner) KeyLocator() names.Name { return s.keyName }
func (*hmacSigner) EstimateSize() int        { return sha256.Size }

func (s *hmacSigner) Sign(covered [][]byte) ([]byte, error) {
	mac := hmac.New(sha256.New, s.key)
	for _, buf := range covered {
		if _, err := mac.Write(buf); err != nil {
			return nil, err
		}
	}
	return mac.Sum(nil), nil
}

// VerifyHMAC recomputes the HMAC over covered with key and compares it
// to sigValue in constant time.
func VerifyHMAC(covered [][]byte, key, sigValue []byte) bool {
	mac := hmac.New(sha256.New, key)
	for _, buf := range covered {
		mac.Write(buf)
	}
	return hmac.Equal(mac.Sum(nil), sigValue)
}

// VerifyDigest recomputes the SHA-256 digest over covered and compares
// it to sigValue in constant time.
func VerifyDigest(covered [][]byte, sigValue []byte) bool {
	h := sha256.New()
	for _, buf := range covered {
		h.Write(buf)
	}
	return hmac.Equal(h.Sum(nil), sigValue)
}
