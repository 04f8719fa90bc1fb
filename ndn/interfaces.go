// Package ndn collects the small set of interfaces this core consumes from
// external collaborators it deliberately does not implement: transport I/O,
// the reactor's timer service, and KeyChain signing/certificate lookup
// (spec.md §1 "Deliberately out of scope"). Grounded on the shape of the
// teacher's std/ndn package (ndn.Signer, ndn.Timer, ndn.Face).
package ndn

import (
	"time"

	"github.com/ndn-go/ndncore/names"
)

// SigType identifies a signature algorithm (spec.md §6.1).
type SigType uint64

const (
	SignatureDigestSha256   SigType = 0
	SignatureSha256WithRsa  SigType = 1
	SignatureSha256WithEcdsa SigType = 3
	SignatureHmacWithSha256 SigType = 4
)

// Signer produces a signature over a set of byte ranges (the signed
// portion of a packet). Deterministic over its input (spec.md §6.3).
// KeyChain signing and certificate storage are external collaborators;
// this interface is the contract the core consumes, not an
// implementation of one.
type Signer interface {
	Type() SigType
	KeyName() names.Name
	KeyLocator() names.Name
	EstimateSize() int
	Sign(covered [][]byte) ([]byte, error)
}

// CertificateSource returns a certificate's Data bytes by key name. An
// external collaborator (spec.md §1); the certificate fetcher (§4.8)
// consumes it over the network rather than implementing it locally.
type CertificateSource interface {
	Certificate(keyName names.Name) ([]byte, error)
}

// Timer is the reactor's timer service that the scheduler (spec.md §4.6)
// is built on top of: a single-shot callback after a delay, with a
// cancel function, plus Now/Sleep/Nonce helpers. Grounded on the teacher's
// std/ndn Timer interface and engine/basic/timer.go.
type Timer interface {
	Now() time.Time
	Sleep(d time.Duration)
	// Schedule arranges for f to run after d and returns a function that
	// cancels the pending call; calling it after f has already run is a
	// harmless no-op (it simply reports the event already fired).
	Schedule(d time.Duration, f func()) (cancel func() error)
	Nonce() []byte
}

// Transport is the external byte-level I/O collaborator (spec.md §6.2):
// send raw bytes, report locality, and close. Received packets are not
// part of this interface; each implementation delivers them through its
// own callback hook.
type Transport interface {
	Send(b []byte) error
	IsLocal() bool
	Close() error
}

// Reactor provides the cooperative event loop the engine and scheduler run
// on top of: posting closures for same-thread execution, and access to its
// Timer. Connection management and the loop's own implementation
// are external (spec.md §1).
type Reactor interface {
	Post(f func())
	Timer() Timer
}
