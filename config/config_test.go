package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/config"
)

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.DefaultTransportURI, c.TransportURI)
	require.Equal(t, config.DefaultStoreCapacity, c.StoreCapacity)
	require.Equal(t, config.DefaultFreshness, c.DefaultFreshness)
	require.Equal(t, config.MaxPacketSize, c.MaxPacketSize)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ndncore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: tcp://127.0.0.1:6363\nstore_capacity: 64\n"), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "tcp://127.0.0.1:6363", c.TransportURI)
	require.Equal(t, 64, c.StoreCapacity)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ndncore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: tcp://127.0.0.1:6363\n"), 0o644))
	t.Setenv("NDN_CLIENT_TRANSPORT", "unix:///tmp/custom.sock")

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "unix:///tmp/custom.sock", c.TransportURI)
}

func TestExplicitOptionOverridesEverything(t *testing.T) {
	t.Setenv("NDN_CLIENT_TRANSPORT", "unix:///tmp/custom.sock")

	c, err := config.Load("", config.WithTransportURI("tcp4://10.0.0.1:6363"))
	require.NoError(t, err)
	require.Equal(t, "tcp4://10.0.0.1:6363", c.TransportURI)
}

func TestLoadRejectsUnrecognizedScheme(t *testing.T) {
	_, err := config.Load("", config.WithTransportURI("quic://127.0.0.1:6363"))
	require.Error(t, err)
}

func TestParseTransportURIDecodesQueryOptions(t *testing.T) {
	addr, opts, err := config.ParseTransportURI("tcp://127.0.0.1:6363?timeout=2s&insecure=true")
	require.NoError(t, err)
	require.Equal(t, "tcp://127.0.0.1:6363", addr)
	require.Equal(t, 2*time.Second, opts.Timeout)
	require.True(t, opts.Insecure)
}
