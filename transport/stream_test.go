package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStreamTransportRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverDone := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// Write one frame to the client.
		conn.Write([]byte{0x08, 0x01, 'x'})
		// Read one frame from the client.
		buf := make([]byte, 3)
		conn.Read(buf)
		serverDone <- buf
	}()

	tr := NewStreamTransport("tcp", ln.Addr().String(), false)
	var gotPkt []byte
	pktCh := make(chan []byte, 1)
	tr.OnPacket(func(frame []byte) { pktCh <- frame })
	tr.OnError(func(error) {})

	require.NoError(t, tr.Open())
	defer tr.Close()

	select {
	case gotPkt = <-pktCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for received packet")
	}
	require.Equal(t, []byte{0x08, 0x01, 'x'}, gotPkt)

	require.NoError(t, tr.Send([]byte{0x08, 0x01, 'y'}))
	select {
	case got := <-serverDone:
		require.Equal(t, []byte{0x08, 0x01, 'y'}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to observe send")
	}
}

func TestStreamTransportSendFailsWhenNotRunning(t *testing.T) {
	tr := NewStreamTransport("tcp", "127.0.0.1:0", false)
	err := tr.Send([]byte{0x08})
	require.Error(t, err)
}

func TestStreamTransportIsLocal(t *testing.T) {
	tr := NewStreamTransport("unix", "/tmp/nonexistent.sock", true)
	require.True(t, tr.IsLocal())
}
