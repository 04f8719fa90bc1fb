package mgmt

import (
	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
)

// Face is the minimal face contract the dispatcher needs: registering
// interest filters and prefixes, and sending Data packets. Grounded on
// the teacher's ndn.Engine face abstraction, scoped down to exactly what
// ndn-cxx's Dispatcher uses from its Face& (see
// _examples/original_source/src/mgmt/dispatcher.hpp).
type Face interface {
	// SetInterestFilter registers onInterest to be called for every
	// Interest whose name has prefix as a prefix. The returned func
	// removes the filter.
	SetInterestFilter(prefix names.Name, onInterest func(*packet.Interest)) (unset func())
	// RegisterPrefix asks the upstream forwarder to route prefix to this
	// face. The returned func undoes the registration.
	RegisterPrefix(prefix names.Name) (unregister func(), err error)
	// SendData sends a signed Data packet out this face.
	SendData(d *packet.Data) error
}
