package mgmt_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/mgmt"
	"github.com/ndn-go/ndncore/mgmt/audit"
	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/security/signer"
	"github.com/ndn-go/ndncore/tags"
)

// fakeFace is a minimal in-process mgmt.Face for tests: it keeps
// registered filters in a slice and lets the test deliver an Interest
// directly, and records every sent Data packet.
type fakeFace struct {
	filters []struct {
		prefix names.Name
		fn     func(*packet.Interest)
	}
	sent []*packet.Data
}

func (f *fakeFace) SetInterestFilter(prefix names.Name, onInterest func(*packet.Interest)) func() {
	f.filters = append(f.filters, struct {
		prefix names.Name
		fn     func(*packet.Interest)
	}{prefix, onInterest})
	idx := len(f.filters) - 1
	return func() { f.filters[idx].fn = nil }
}

func (f *fakeFace) RegisterPrefix(prefix names.Name) (func(), error) {
	return func() {}, nil
}

func (f *fakeFace) SendData(d *packet.Data) error {
	f.sent = append(f.sent, d)
	return nil
}

func (f *fakeFace) deliver(interest *packet.Interest) {
	name := interest.Name()
	var best func(*packet.Interest)
	bestLen := -1
	for _, flt := range f.filters {
		if flt.fn == nil {
			continue
		}
		if flt.prefix.IsPrefixOf(name) && len(flt.prefix) > bestLen {
			best, bestLen = flt.fn, len(flt.prefix)
		}
	}
	if best != nil {
		best(interest)
	}
}

func nameOf(s string) names.Name {
	parts := []names.Component{}
	cur := ""
	for _, r := range s {
		if r == '/' {
			if cur != "" {
				parts = append(parts, names.NewStringComponent(cur))
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		parts = append(parts, names.NewStringComponent(cur))
	}
	return names.Parse(parts...)
}

func TestControlCommandRoundTrip(t *testing.T) {
	face := &fakeFace{}
	d := mgmt.New(face, signer.NewDigestSigner(), 0)

	type createParams struct{ faceID uint64 }
	parser := func(comp names.Component) (any, error) {
		return createParams{faceID: comp.NumberVal()}, nil
	}
	var handled createParams
	err := d.AddControlCommand(
		nameOf("faces/create"),
		parser,
		mgmt.AcceptAllAuthorization,
		func(params any) bool { return params.(createParams).faceID != 0 },
		func(prefix names.Name, interest *packet.Interest, params any, done mgmt.CommandContinuation) {
			handled = params.(createParams)
			done(mgmt.NewControlResponse(200, "ok"))
		},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddTopPrefix(nameOf("/localhost/nfd"), false))

	faceIDComponent := names.Component{Typ: names.TypeGenericNameComponent, Val: []byte{0, 0, 0, 42}}
	interest := packet.NewInterest(nameOf("/localhost/nfd/faces/create").Append(faceIDComponent))
	face.deliver(interest)

	require.Equal(t, uint64(42), handled.faceID)
	require.Len(t, face.sent, 1)

	resp, err := mgmt.DecodeControlResponse(responseWire(face.sent[0]))
	require.NoError(t, err)
	require.Equal(t, uint64(200), resp.Code)

	require.True(t, face.sent[0].HasMeta)
	require.True(t, face.sent[0].Meta.HasFreshness)
	require.Equal(t, time.Second, face.sent[0].Meta.FreshnessPeriod)
}

func TestControlCommandRejectedByValidation(t *testing.T) {
	face := &fakeFace{}
	d := mgmt.New(face, signer.NewDigestSigner(), 0)

	parser := func(comp names.Component) (any, error) { return comp.NumberVal(), nil }
	err := d.AddControlCommand(
		nameOf("faces/create"),
		parser,
		mgmt.AcceptAllAuthorization,
		func(params any) bool { return false }, // always invalid
		func(names.Name, *packet.Interest, any, mgmt.CommandContinuation) {
			t.Fatal("handler must not run when validation fails")
		},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddTopPrefix(nameOf("/localhost/nfd"), false))

	comp := names.Component{Typ: names.TypeGenericNameComponent, Val: []byte{0}}
	interest := packet.NewInterest(nameOf("/localhost/nfd/faces/create").Append(comp))
	face.deliver(interest)

	require.Len(t, face.sent, 1)
	resp, err := mgmt.DecodeControlResponse(responseWire(face.sent[0]))
	require.NoError(t, err)
	require.Equal(t, uint64(400), resp.Code)
}

func TestStatusDatasetSegmentsAndCaches(t *testing.T) {
	face := &fakeFace{}
	d := mgmt.New(face, signer.NewDigestSigner(), 0)

	err := d.AddStatusDataset(nameOf("faces/list"), mgmt.AcceptAllAuthorization,
		func(prefix names.Name, interest *packet.Interest, ctx *mgmt.DatasetContext) {
			require.NoError(t, ctx.Append([]byte("face-1")))
			require.NoError(t, ctx.Append([]byte("face-2")))
			require.NoError(t, ctx.End())
		},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddTopPrefix(nameOf("/localhost/nfd"), false))

	interest := packet.NewInterest(nameOf("/localhost/nfd/faces/list"))
	face.deliver(interest)

	require.Len(t, face.sent, 1)
	require.Equal(t, "face-1face-2", string(face.sent[0].Content))

	// A repeated request is answered from the internal store, not by
	// running the handler again.
	face.deliver(interest)
	require.Len(t, face.sent, 2)
	require.Same(t, face.sent[0], face.sent[1])
}

func TestStatusDatasetMultiSegmentSetsFinalBlockIdAndNoCacheTag(t *testing.T) {
	face := &fakeFace{}
	d := mgmt.New(face, signer.NewDigestSigner(), 0)

	// maxSegmentSize is 4400 bytes; 9000 bytes of content forces 3 segments.
	payload := bytes.Repeat([]byte("x"), 9000)

	err := d.AddStatusDataset(nameOf("faces/list"), mgmt.AcceptAllAuthorization,
		func(prefix names.Name, interest *packet.Interest, ctx *mgmt.DatasetContext) {
			require.NoError(t, ctx.Append(payload))
			require.NoError(t, ctx.End())
		},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddTopPrefix(nameOf("/localhost/nfd"), false))

	interest := packet.NewInterest(nameOf("/localhost/nfd/faces/list"))
	face.deliver(interest)

	require.Len(t, face.sent, 3)
	for i, seg := range face.sent {
		require.True(t, seg.HasMeta)
		policy, ok := seg.Tags.GetCachePolicy()
		require.True(t, ok)
		require.Equal(t, tags.CachePolicyNoCache, policy)

		if i == len(face.sent)-1 {
			require.NotNil(t, seg.Meta.FinalBlockId)
			require.True(t, seg.Meta.FinalBlockId.Equal(seg.Name()[len(seg.Name())-1]))
		} else {
			require.Nil(t, seg.Meta.FinalBlockId)
		}
	}
}

func TestNotificationStreamSequenceNumbers(t *testing.T) {
	face := &fakeFace{}
	d := mgmt.New(face, signer.NewDigestSigner(), 0)

	post, err := d.AddNotificationStream(nameOf("faces/events"))
	require.NoError(t, err)
	require.NoError(t, d.AddTopPrefix(nameOf("/localhost/nfd"), false))

	require.NoError(t, post([]byte("up")))
	require.NoError(t, post([]byte("down")))

	require.Len(t, face.sent, 2)
	require.Equal(t, uint64(0), face.sent[0].Name()[len(face.sent[0].Name())-1].NumberVal())
	require.Equal(t, uint64(1), face.sent[1].Name()[len(face.sent[1].Name())-1].NumberVal())
}

func TestAuditLogRecordsExecutedCommand(t *testing.T) {
	face := &fakeFace{}
	d := mgmt.New(face, signer.NewDigestSigner(), 0)

	log, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer log.Close()
	d.SetAuditLog(log)

	parser := func(comp names.Component) (any, error) {
		return comp.NumberVal(), nil
	}
	err = d.AddControlCommand(
		nameOf("faces/create"),
		parser,
		mgmt.AcceptAllAuthorization,
		func(params any) bool { return true },
		func(prefix names.Name, interest *packet.Interest, params any, done mgmt.CommandContinuation) {
			done(mgmt.NewControlResponse(200, "ok"))
		},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddTopPrefix(nameOf("/localhost/nfd"), false))

	comp := names.Component{Typ: names.TypeGenericNameComponent, Val: []byte{1}}
	face.deliver(packet.NewInterest(nameOf("/localhost/nfd/faces/create").Append(comp)))

	entries, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint64(200), entries[0].ResponseCode)
}

func responseWire(d *packet.Data) []byte {
	return d.Content
}
