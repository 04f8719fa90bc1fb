package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
)

// StreamTransport is an ndn.Transport over a stream connection (spec.md
// §6.4 "unix", "tcp", "tcp4", "tcp6"). Grounded on the teacher's
// std/engine/face/stream_face.go.
type StreamTransport struct {
	base
	network string
	addr    string
	conn    net.Conn
}

// NewStreamTransport returns a StreamTransport that will dial
// network/addr on Open (e.g. network="unix", addr="/run/nfd/nfd.sock").
func NewStreamTransport(network, addr string, local bool) *StreamTransport {
	return &StreamTransport{base: newBase(local), network: network, addr: addr}
}

// String identifies the transport for logging.
func (t *StreamTransport) String() string {
	return fmt.Sprintf("stream-transport (%s://%s)", t.network, t.addr)
}

// Open dials the configured network address and starts the receive
// loop in a goroutine.
func (t *StreamTransport) Open() error {
	if t.IsRunning() {
		return fmt.Errorf("transport: already running")
	}
	if t.onError == nil || t.onPkt == nil {
		return fmt.Errorf("transport: callbacks not set")
	}

	conn, err := net.Dial(t.network, t.addr)
	if err != nil {
		return err
	}
	t.conn = conn
	t.setStateUp()
	go t.receive()
	return nil
}

// Close implements ndn.Transport.
func (t *StreamTransport) Close() error {
	if t.setStateClosed() && t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

// Send implements ndn.Transport.
func (t *StreamTransport) Send(b []byte) error {
	if !t.IsRunning() {
		return fmt.Errorf("transport: not running")
	}
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	_, err := t.conn.Write(b)
	return err
}

func (t *StreamTransport) receive() {
	defer t.setStateDown()

	r := bufio.NewReader(t.conn)
	for t.IsRunning() {
		frame, err := readTLVFrame(r)
		if err != nil {
			if t.IsRunning() {
				if err == io.EOF {
					t.onError(io.EOF)
				} else {
					t.onError(err)
				}
			}
			return
		}
		t.onPkt(frame)
	}
}
