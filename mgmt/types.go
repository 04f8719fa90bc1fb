// Package mgmt implements a management-protocol dispatcher (spec.md
// §4.7): control commands, segmented/versioned/cached status datasets,
// and sequence-numbered notification streams, served under one or more
// top-level prefixes with non-overlapping relative prefixes. Grounded on
// ndn-cxx's src/mgmt/dispatcher.{hpp,cpp} (see
// _examples/original_source/src/mgmt/), generalized from NFD's specific
// management protocol into a reusable dispatcher.
package mgmt

import (
	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
)

// RejectReply indicates how to respond when authorization is rejected.
type RejectReply int

const (
	// RejectSilent drops the Interest without a response.
	RejectSilent RejectReply = iota
	// RejectStatus403 replies with a ControlResponse carrying StatusCode
	// 403.
	RejectStatus403
)

// AcceptContinuation is invoked by an Authorization function when the
// request is accepted. requester is an opaque string for logging only.
type AcceptContinuation func(requester string)

// RejectContinuation is invoked by an Authorization function when the
// request is rejected.
type RejectContinuation func(reply RejectReply)

// Authorization decides whether interest may proceed under prefix,
// optionally inspecting decoded control parameters (nil for status
// dataset / notification stream requests). Exactly one of accept/reject
// must be called, possibly asynchronously.
type Authorization func(prefix names.Name, interest *packet.Interest, params any, accept AcceptContinuation, reject RejectContinuation)

// AcceptAllAuthorization authorizes every request, reporting "" as the
// requester (spec.md §4.7 "pluggable async authorization").
func AcceptAllAuthorization(_ names.Name, _ *packet.Interest, _ any, accept AcceptContinuation, _ RejectContinuation) {
	accept("")
}

// ControlParametersParser extracts control parameters from the name
// component that follows a control command's relative prefix. Go has no
// direct analogue of the teacher's templated ControlParameters type, so
// this is supplied per command instead.
type ControlParametersParser func(comp names.Component) (any, error)

// ValidateParameters reports whether already-parsed control parameters
// are acceptable (e.g. all required fields present).
type ValidateParameters func(params any) bool

// CommandContinuation is invoked by a ControlCommandHandler once
// processing is complete.
type CommandContinuation func(resp ControlResponse)

// ControlCommandHandler processes an authorized, validated control
// command.
type ControlCommandHandler func(prefix names.Name, interest *packet.Interest, params any, done CommandContinuation)

// StatusDatasetHandler produces a status dataset's content into ctx.
type StatusDatasetHandler func(prefix names.Name, interest *packet.Interest, ctx *DatasetContext)

// PostNotification publishes one notification block under a registered
// notification stream.
type PostNotification func(content []byte) error
