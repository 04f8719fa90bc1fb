package certfetch_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/security/certfetch"
)

// fakeRequester scripts a sequence of results per call; each Express
// call pops the next scripted result for that leg (infra vs. direct,
// told apart by the NextHopFaceId tag).
type fakeRequester struct {
	mu           sync.Mutex
	infraResults []certfetch.Result
	directResults []certfetch.Result
	infraCalls   int
	directCalls  int
}

func (r *fakeRequester) Express(interest *packet.Interest, onResult func(certfetch.Result)) error {
	r.mu.Lock()
	_, isDirect := interest.Tags.GetNextHopFaceId()
	var res certfetch.Result
	if isDirect {
		res = r.directResults[r.directCalls]
		r.directCalls++
	} else {
		res = r.infraResults[r.infraCalls]
		r.infraCalls++
	}
	r.mu.Unlock()
	onResult(res)
	return nil
}

func certData(name names.Name) *packet.Data {
	return packet.NewData(name)
}

func TestFetchSucceedsOnInfraLeg(t *testing.T) {
	req := &fakeRequester{
		infraResults:  []certfetch.Result{{Kind: certfetch.ResultData, Data: certData(names.Parse(names.NewStringComponent("cert")))}},
		directResults: []certfetch.Result{{Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}},
	}
	f := certfetch.New(req, false)

	var got *packet.Data
	var gotErr error
	f.Fetch(names.Parse(names.NewStringComponent("key")), true, 7, func(d *packet.Data, err error) {
		got, gotErr = d, err
	})

	require.NoError(t, gotErr)
	require.NotNil(t, got)
}

func TestFetchRetriesUpToThreeTimesThenFails(t *testing.T) {
	timeouts := []certfetch.Result{{Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}}
	req := &fakeRequester{infraResults: timeouts, directResults: timeouts}
	f := certfetch.New(req, false)

	var gotErr error
	f.Fetch(names.Parse(names.NewStringComponent("key")), true, 7, func(d *packet.Data, err error) {
		gotErr = err
	})

	require.ErrorIs(t, gotErr, certfetch.ErrCannotRetrieveCert)
	require.Equal(t, 4, req.infraCalls)
	require.Equal(t, 4, req.directCalls)
}

func TestDirectOnlyFailsImmediatelyWithoutFaceID(t *testing.T) {
	req := &fakeRequester{}
	f := certfetch.New(req, true)

	var gotErr error
	f.Fetch(names.Parse(names.NewStringComponent("key")), false, 0, func(d *packet.Data, err error) {
		gotErr = err
	})

	require.ErrorIs(t, gotErr, certfetch.ErrCannotRetrieveCert)
	require.Equal(t, 0, req.infraCalls)
	require.Equal(t, 0, req.directCalls)
}

func TestDirectOnlySendsOnlyDirectLeg(t *testing.T) {
	req := &fakeRequester{
		directResults: []certfetch.Result{{Kind: certfetch.ResultData, Data: certData(names.Parse(names.NewStringComponent("cert")))}},
	}
	f := certfetch.New(req, true)

	var got *packet.Data
	f.Fetch(names.Parse(names.NewStringComponent("key")), true, 3, func(d *packet.Data, err error) {
		got = d
	})

	require.NotNil(t, got)
	require.Equal(t, 0, req.infraCalls)
	require.Equal(t, 1, req.directCalls)
}

func TestNackRetriesLikeTimeout(t *testing.T) {
	req := &fakeRequester{
		infraResults:  []certfetch.Result{{Kind: certfetch.ResultNack, NackReason: 50}, {Kind: certfetch.ResultData, Data: certData(names.Parse(names.NewStringComponent("cert")))}},
		directResults: []certfetch.Result{{Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}, {Kind: certfetch.ResultTimeout}},
	}
	f := certfetch.New(req, false)

	var got *packet.Data
	f.Fetch(names.Parse(names.NewStringComponent("key")), true, 9, func(d *packet.Data, err error) {
		got = d
	})

	require.NotNil(t, got)
	require.Equal(t, 2, req.infraCalls)
}
