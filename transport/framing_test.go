package transport

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTLVFrameShortLength(t *testing.T) {
	// type=8 (generic component), length=3, value="abc"
	frame := []byte{0x08, 0x03, 'a', 'b', 'c'}
	r := bufio.NewReader(bytes.NewReader(frame))

	got, err := readTLVFrame(r)
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

func TestReadTLVFrameLongLength(t *testing.T) {
	value := bytes.Repeat([]byte{0x42}, 300)
	var frame []byte
	frame = append(frame, 0x15)       // type = 21 (Content), single byte
	frame = append(frame, 0xfd, 0x01, 0x2c) // length = 300, 3-byte varnumber
	frame = append(frame, value...)
	r := bufio.NewReader(bytes.NewReader(frame))

	got, err := readTLVFrame(r)
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

func TestReadTLVFrameTwoInSequence(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x08, 0x01, 'a'})
	buf.Write([]byte{0x08, 0x01, 'b'})
	r := bufio.NewReader(&buf)

	first, err := readTLVFrame(r)
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x01, 'a'}, first)

	second, err := readTLVFrame(r)
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x01, 'b'}, second)
}
