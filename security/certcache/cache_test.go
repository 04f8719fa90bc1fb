package certcache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/security/certcache"
	"github.com/ndn-go/ndncore/security/signer"
)

func signedCert(t *testing.T, name names.Name) *packet.Data {
	t.Helper()
	d := packet.NewData(name)
	d.SetContent([]byte("cert-bytes"))
	require.NoError(t, d.Sign(signer.NewDigestSigner()))
	return d
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := certcache.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	keyName := names.Parse(names.NewStringComponent("alice"), names.NewStringComponent("KEY"), names.NewStringComponent("1"))
	cert := signedCert(t, keyName)

	require.NoError(t, c.Put(keyName, cert))

	got, ok, err := c.Get(keyName)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(cert))
}

func TestGetMissReportsNotFound(t *testing.T) {
	c, err := certcache.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(names.Parse(names.NewStringComponent("nobody")))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveDeletesEntry(t *testing.T) {
	c, err := certcache.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	keyName := names.Parse(names.NewStringComponent("bob"), names.NewStringComponent("KEY"), names.NewStringComponent("1"))
	require.NoError(t, c.Put(keyName, signedCert(t, keyName)))
	require.NoError(t, c.Remove(keyName))

	_, ok, err := c.Get(keyName)
	require.NoError(t, err)
	require.False(t, ok)
}
