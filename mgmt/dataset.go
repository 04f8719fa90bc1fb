package mgmt

import (
	"fmt"
	"time"

	"github.com/ndn-go/ndncore/names"
)

// defaultDatasetExpiry is the cache freshness window applied to status
// dataset segments stored in the dispatcher's internal store, matching
// ndn-cxx's 1 second default FreshnessPeriod for management datasets
// (_examples/original_source/src/mgmt/dispatcher.cpp).
const defaultDatasetExpiry = time.Second

type datasetState int

const (
	datasetInitial datasetState = iota
	datasetResponded
	datasetFinalized
)

// DatasetContext lets a StatusDatasetHandler build up a response in
// zero or more Append calls before calling End, or short-circuit with
// Reject (spec.md §4.7, grounded on ndn-cxx's StatusDatasetContext).
type DatasetContext struct {
	prefix names.Name
	expiry time.Duration
	buffer []byte
	state  datasetState

	dataSender func(dataName names.Name, content []byte, imsFresh time.Duration, isFinalBlock bool)
	nackSender func(resp ControlResponse)
}

func newDatasetContext(
	prefix names.Name,
	dataSender func(names.Name, []byte, time.Duration, bool),
	nackSender func(ControlResponse),
) *DatasetContext {
	return &DatasetContext{
		prefix:     prefix,
		expiry:     defaultDatasetExpiry,
		dataSender: dataSender,
		nackSender: nackSender,
	}
}

// Prefix returns the Data name prefix (Interest name plus a version
// component) segments will be published under.
func (ctx *DatasetContext) Prefix() names.Name { return ctx.prefix }

// SetPrefix overrides the Data name prefix before any Append/End/Reject
// call; it must still be prefixed by the Interest's name.
func (ctx *DatasetContext) SetPrefix(prefix names.Name) error {
	if ctx.state != datasetInitial {
		return fmt.Errorf("mgmt: cannot change prefix after Append/End/Reject")
	}
	ctx.prefix = prefix
	return nil
}

// SetExpiry sets how long this dataset's segments remain fresh in the
// dispatcher's internal store.
func (ctx *DatasetContext) SetExpiry(d time.Duration) { ctx.expiry = d }

// Append adds bytes to the dataset's content buffer.
func (ctx *DatasetContext) Append(block []byte) error {
	if ctx.state == datasetFinalized {
		return fmt.Errorf("mgmt: Append after End/Reject")
	}
	ctx.buffer = append(ctx.buffer, block...)
	ctx.state = datasetResponded
	return nil
}

// maxSegmentSize bounds how many content bytes go into each segment:
// roughly half of the 8800 byte MAX_NDN_PACKET_SIZE (spec.md §4.7.2),
// leaving the other half as headroom for Name/MetaInfo/SignatureInfo/
// SignatureValue overhead.
const maxSegmentSize = 4400

// End finalizes the dataset, segmenting the buffered content and
// invoking dataSender once per segment with FinalBlockId set on the
// last one (spec.md §4.7 "segmented/versioned/cached status datasets").
func (ctx *DatasetContext) End() error {
	if ctx.state == datasetFinalized {
		return fmt.Errorf("mgmt: End called twice")
	}
	ctx.state = datasetFinalized

	if len(ctx.buffer) == 0 {
		ctx.dataSender(ctx.prefix.AppendSegment(0), nil, ctx.expiry, true)
		return nil
	}
	total := (len(ctx.buffer) + maxSegmentSize - 1) / maxSegmentSize
	for i := 0; i < total; i++ {
		start := i * maxSegmentSize
		end := start + maxSegmentSize
		if end > len(ctx.buffer) {
			end = len(ctx.buffer)
		}
		name := ctx.prefix.AppendSegment(uint64(i))
		ctx.dataSender(name, ctx.buffer[start:end], ctx.expiry, i == total-1)
	}
	return nil
}

// Reject declares the non-existence of a response (spec.md §4.7: "the
// incoming Interest is malformed").
func (ctx *DatasetContext) Reject(resp ControlResponse) error {
	if ctx.state != datasetInitial {
		return fmt.Errorf("mgmt: Reject after Append/End")
	}
	ctx.state = datasetFinalized
	ctx.nackSender(resp)
	return nil
}
