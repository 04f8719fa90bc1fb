package audit_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/mgmt/audit"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := audit.Open(path)
	require.NoError(t, err)
	defer l.Close()

	now := time.Unix(1700000000, 0)
	require.NoError(t, l.Record(now, "/localhost/nfd/faces/create", "alice", 200))
	require.NoError(t, l.Record(now.Add(time.Second), "/localhost/nfd/faces/destroy", "bob", 404))

	entries, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "/localhost/nfd/faces/destroy", entries[0].Command)
	require.Equal(t, uint64(404), entries[0].ResponseCode)
	require.Equal(t, "/localhost/nfd/faces/create", entries[1].Command)
}

func TestRecentRespectsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := audit.Open(path)
	require.NoError(t, err)
	defer l.Close()

	now := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(now, "cmd", "r", 200))
	}

	entries, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
