package main

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ndn-go/ndncore/config"
	"github.com/ndn-go/ndncore/log"
	"github.com/ndn-go/ndncore/ndn"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/schedule"
	"github.com/ndn-go/ndncore/tlv"
	"github.com/ndn-go/ndncore/transport"
)

// pendingInterest tracks one outstanding Express call waiting on a Data,
// Nack, or timeout. Keyed by name rather than by a full PIT trie: a
// reference client expresses at most one Interest per name at a time,
// unlike a forwarder's PIT which must aggregate many downstream faces.
type pendingInterest struct {
	onData    func(*packet.Data)
	onTimeout func()
	deadline  schedule.EventID
}

// engine is the minimal face + reactor a client needs to express
// Interests and receive Data: one transport, one timer-driven scheduler
// for per-Interest timeouts, and a name-keyed table of callbacks waiting
// on a reply. Grounded on the teacher's engine/basic.Engine, cut down to
// what a single-purpose client needs rather than a full forwarder's
// face table and FIB.
type engine struct {
	transport ndn.Transport
	timer     ndn.Timer
	scheduler *schedule.Scheduler

	mu      sync.Mutex
	pending map[string]*pendingInterest
}

func newEngine(t ndn.Transport, timer ndn.Timer) *engine {
	e := &engine{
		transport: t,
		timer:     timer,
		scheduler: schedule.New(timer),
		pending:   make(map[string]*pendingInterest),
	}
	return e
}

// newClient dials uri and returns an engine wired to the resulting
// transport's OnPacket/OnError hooks, ready to express Interests.
func newClient(uri string) (*engine, error) {
	t, err := resolveStreamTransport(uri)
	if err != nil {
		return nil, err
	}
	e := newEngine(t, schedule.NewRealTimer())
	t.OnPacket(e.onFrame)
	t.OnError(e.onError)
	if err := t.Open(); err != nil {
		return nil, fmt.Errorf("ndnclient: open transport: %w", err)
	}
	return e, nil
}

func (e *engine) close() error {
	return e.transport.Close()
}

func (e *engine) onFrame(frame []byte) {
	block, _, err := tlv.DecodeBlock(frame)
	if err != nil {
		log.Warn("ndnclient: dropping malformed frame", "err", err)
		return
	}
	if block.Typ != packet.TypeData {
		log.Debug("ndnclient: ignoring non-Data top-level block", "type", block.Typ)
		return
	}
	data, err := packet.DecodeData(block)
	if err != nil {
		log.Warn("ndnclient: dropping undecodable Data", "err", err)
		return
	}

	key := data.Name().Key()
	e.mu.Lock()
	p, ok := e.pending[key]
	if ok {
		delete(e.pending, key)
		e.scheduler.Cancel(p.deadline)
	}
	e.mu.Unlock()

	if ok {
		p.onData(data)
	} else {
		log.Debug("ndnclient: Data for no pending Interest", "name", data.Name())
	}
}

func (e *engine) onError(err error) {
	log.Error("ndnclient: transport error", "err", err)
}

// express sends interest and arranges for exactly one of onData or
// onTimeout to run once, after lifetime has elapsed without a reply.
func (e *engine) express(interest *packet.Interest, lifetime time.Duration, onData func(*packet.Data), onTimeout func()) error {
	interest.Lifetime, interest.HasLifetime = lifetime, true
	interest.Express(true)

	wire, err := interest.Encode()
	if err != nil {
		return fmt.Errorf("ndnclient: encode interest: %w", err)
	}

	key := interest.Name().Key()
	p := &pendingInterest{onData: onData, onTimeout: onTimeout}
	e.mu.Lock()
	e.pending[key] = p
	e.mu.Unlock()

	p.deadline = e.scheduler.Schedule(lifetime, func() {
		e.mu.Lock()
		cur, ok := e.pending[key]
		if ok && cur == p {
			delete(e.pending, key)
		}
		e.mu.Unlock()
		if ok && cur == p {
			onTimeout()
		}
	})

	if err := e.transport.Send(wire); err != nil {
		e.mu.Lock()
		delete(e.pending, key)
		e.mu.Unlock()
		e.scheduler.Cancel(p.deadline)
		return fmt.Errorf("ndnclient: send interest: %w", err)
	}
	return nil
}

// resolveStreamTransport parses a transport URI of the form
// scheme://host[:port] (unix paths use unix:///path/to.sock) into an
// unopened StreamTransport. The caller must wire OnPacket/OnError before
// calling Open, as the stream transport refuses to start without them.
func resolveStreamTransport(uri string) (*transport.StreamTransport, error) {
	addr, _, err := config.ParseTransportURI(uri)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("ndnclient: parsing transport address: %w", err)
	}

	network, dialAddr := u.Scheme, u.Host
	if u.Scheme == "unix" {
		dialAddr = u.Path
	}
	return transport.NewStreamTransport(network, dialAddr, network == "unix"), nil
}
