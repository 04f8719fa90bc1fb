package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/security/signer"
	"github.com/ndn-go/ndncore/testutils"
)

// fakeTransport is an in-process ndn.Transport double: Send hands the
// wire bytes straight to a test-controlled channel instead of a socket.
type fakeTransport struct {
	sent    chan []byte
	onPkt   func([]byte)
	onError func(error)
	closed  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: make(chan []byte, 8)}
}

func (f *fakeTransport) Send(b []byte) error {
	cp := append([]byte(nil), b...)
	f.sent <- cp
	return nil
}
func (f *fakeTransport) IsLocal() bool { return true }
func (f *fakeTransport) Close() error  { f.closed = true; return nil }

func dataWire(t *testing.T, name names.Name, content string) []byte {
	d := packet.NewData(name)
	d.SetContent([]byte(content))
	require.NoError(t, d.Sign(signer.NewDigestSigner()))
	wire, err := d.Encode()
	require.NoError(t, err)
	return wire
}

func TestEngineExpressDeliversData(t *testing.T) {
	ft := newFakeTransport()
	timer := testutils.NewDummyTimer()
	e := newEngine(ft, timer)

	name := names.Parse(names.NewStringComponent("a"), names.NewStringComponent("b"))
	interest := packet.NewInterest(name)

	got := make(chan *packet.Data, 1)
	err := e.express(interest, time.Second, func(d *packet.Data) { got <- d }, func() {
		t.Fatal("unexpected timeout")
	})
	require.NoError(t, err)

	<-ft.sent // the Interest wire, not consumed further here

	e.onFrame(dataWire(t, name, "hello"))

	select {
	case d := <-got:
		require.Equal(t, "hello", string(d.Content))
	case <-time.After(time.Second):
		t.Fatal("onData never called")
	}
}

func TestEngineExpressTimesOut(t *testing.T) {
	ft := newFakeTransport()
	timer := testutils.NewDummyTimer()
	e := newEngine(ft, timer)

	name := names.Parse(names.NewStringComponent("never"))
	interest := packet.NewInterest(name)

	timedOut := make(chan struct{}, 1)
	err := e.express(interest, time.Second, func(*packet.Data) {
		t.Fatal("unexpected data")
	}, func() { timedOut <- struct{}{} })
	require.NoError(t, err)

	<-ft.sent
	timer.MoveForward(2 * time.Second)

	select {
	case <-timedOut:
	case <-time.After(time.Second):
		t.Fatal("onTimeout never called")
	}
}

