// Package transport provides reference ndn.Transport implementations:
// stream-based (unix/tcp/tcp4/tcp6, over net.Conn) and WebSocket
// (ws/wss). Grounded on the teacher's std/engine/face package
// (StreamFace, WebSocketFace, baseFace), adapted from a byte-producing
// "Face" abstraction to this repo's narrower ndn.Transport contract
// (Send/IsLocal/Close) plus the OnPacket/OnError wiring hooks the
// engine needs to drive it.
package transport

import (
	"sync"
	"sync/atomic"
)

// base is the shared running-state/callback bookkeeping every concrete
// transport embeds, mirroring the teacher's baseFace.
type base struct {
	running atomic.Bool
	local   bool
	onPkt   func(frame []byte)
	onError func(err error)
	sendMu  sync.Mutex
}

func newBase(local bool) base {
	return base{local: local}
}

// IsRunning reports whether Open has succeeded and Close has not yet
// been called.
func (b *base) IsRunning() bool { return b.running.Load() }

// IsLocal implements ndn.Transport.
func (b *base) IsLocal() bool { return b.local }

// OnPacket registers the callback invoked with one decoded top-level
// wire frame per call (spec.md §6.2 "on_receive(block)").
func (b *base) OnPacket(onPkt func(frame []byte)) { b.onPkt = onPkt }

// OnError registers the callback invoked when the underlying connection
// fails or is closed by the peer.
func (b *base) OnError(onError func(err error)) { b.onError = onError }

func (b *base) setStateUp()   { b.running.Store(true) }
func (b *base) setStateDown() { b.running.Store(false) }

// setStateClosed transitions to not-running and reports whether the
// transport had been running (mirrors the teacher's setStateClosed,
// which avoids firing an onDown-equivalent on an explicit Close).
func (b *base) setStateClosed() bool { return b.running.Swap(false) }
