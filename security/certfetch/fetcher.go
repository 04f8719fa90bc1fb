// Package certfetch fetches certificates by key name over the network,
// racing an infrastructure Interest against a "direct" Interest toward
// the face that delivered the packet under validation (spec.md §4.8).
// Grounded on ndn-cxx's CertificateFetcherDirectFetch, which extends
// CertificateFetcherFromNetwork to add the direct leg
// (_examples/original_source/src/security/v2/certificate-fetcher-direct-fetch.cpp).
package certfetch

import (
	"errors"
	"sync"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
)

// MaxRetries is how many times each leg (infrastructure and direct)
// independently retries on timeout or Nack before giving up (spec.md
// §4.8 "both legs retry independently up to 3 times").
const MaxRetries = 3

// ResultKind classifies the outcome of an expressed Interest.
type ResultKind int

const (
	ResultData ResultKind = iota
	ResultNack
	ResultTimeout
)

// Result is delivered to the callback passed to Requester.Express.
type Result struct {
	Kind       ResultKind
	Data       *packet.Data
	NackReason uint64
}

// Requester is the face capability the fetcher needs: express one
// Interest and receive exactly one result callback. Grounded on the
// teacher's ndn.Engine.Express (std/engine/basic/engine.go), scoped down
// to the single method this package consumes.
type Requester interface {
	Express(interest *packet.Interest, onResult func(Result)) error
}

// ErrCannotRetrieveCert is returned when direct-only mode is enabled but
// no incoming face id is available (spec.md §4.8 "fail immediately with
// CannotRetrieveCert").
var ErrCannotRetrieveCert = errors.New("certfetch: cannot retrieve certificate: no incoming face id available in direct_only mode")

// Fetcher fetches certificate Data by key name.
type Fetcher struct {
	requester  Requester
	directOnly bool
}

// New returns a Fetcher. When directOnly is true, only the direct leg is
// ever sent (spec.md §4.8 "Mode switch direct_only").
func New(requester Requester, directOnly bool) *Fetcher {
	return &Fetcher{requester: requester, directOnly: directOnly}
}

// Fetch retrieves the certificate named keyName. hasIncomingFaceID/
// incomingFaceID come from the IncomingFaceId tag on the packet under
// validation (spec.md §4.8); onDone is called exactly once, with either
// a certificate Data or an error.
func (f *Fetcher) Fetch(keyName names.Name, hasIncomingFaceID bool, incomingFaceID uint64, onDone func(*packet.Data, error)) {
	if f.directOnly && !hasIncomingFaceID {
		onDone(nil, ErrCannotRetrieveCert)
		return
	}

	var mu sync.Mutex
	settled := false
	legsRemaining := 0
	if !f.directOnly {
		legsRemaining++
	}
	if hasIncomingFaceID {
		legsRemaining++
	}
	if legsRemaining == 0 {
		onDone(nil, ErrCannotRetrieveCert)
		return
	}

	settle := func(data *packet.Data) {
		mu.Lock()
		defer mu.Unlock()
		if settled {
			return
		}
		settled = true
		onDone(data, nil)
	}
	legFailed := func() {
		mu.Lock()
		defer mu.Unlock()
		if settled {
			return
		}
		legsRemaining--
		if legsRemaining == 0 {
			settled = true
			onDone(nil, ErrCannotRetrieveCert)
		}
	}

	if !f.directOnly {
		f.retryLeg(packet.NewInterest(keyName), settle, legFailed)
	}
	if hasIncomingFaceID {
		direct := packet.NewInterest(keyName)
		direct.Tags.SetNextHopFaceId(incomingFaceID)
		f.retryLeg(direct, settle, legFailed)
	}
}

// retryLeg expresses interest, retrying with a fresh nonce on timeout or
// Nack up to MaxRetries times before calling onFail.
func (f *Fetcher) retryLeg(interest *packet.Interest, onData func(*packet.Data), onFail func()) {
	var attempt func(n int)
	attempt = func(n int) {
		interest.Express(true)
		err := f.requester.Express(interest, func(res Result) {
			switch res.Kind {
			case ResultData:
				onData(res.Data)
			case ResultNack, ResultTimeout:
				if n < MaxRetries {
					attempt(n + 1)
				} else {
					onFail()
				}
			}
		})
		if err != nil {
			onFail()
		}
	}
	attempt(0)
}
