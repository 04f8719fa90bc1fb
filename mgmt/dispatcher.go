package mgmt

import (
	"fmt"
	"time"

	"github.com/ndn-go/ndncore/log"
	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/ndn"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/store"
	"github.com/ndn-go/ndncore/tags"
)

// defaultStorageCapacity matches ndn-cxx's Dispatcher default
// imsCapacity of 256 (_examples/original_source/src/mgmt/dispatcher.hpp).
const defaultStorageCapacity = 256

// AuditRecorder records executed control commands (SPEC_FULL.md §3
// domain stack). mgmt/audit.Log implements this; it is optional and
// unset by default.
type AuditRecorder interface {
	Record(at time.Time, command string, requester string, responseCode uint64) error
}

type ccEntry struct {
	relPrefix names.Name
	parser    ControlParametersParser
	auth      Authorization
	validate  ValidateParameters
	handler   ControlCommandHandler
}

type dsEntry struct {
	relPrefix names.Name
	auth      Authorization
	handler   StatusDatasetHandler
}

type streamEntry struct {
	relPrefix names.Name
	nextSeq   uint64
}

type topPrefixEntry struct {
	prefix       names.Name
	unregister   func()
	unsetFilters []func()
}

// Dispatcher serves the management protocol under one or more top-level
// prefixes: control commands (parse -> authorize -> validate -> handle),
// status datasets (segmented, versioned, cached in an internal store),
// and notification streams (spec.md §4.7). Grounded on ndn-cxx's
// mgmt::Dispatcher.
type Dispatcher struct {
	face   Face
	signer ndn.Signer
	now    func() time.Time

	topPrefixes map[string]*topPrefixEntry
	ccHandlers  map[string]*ccEntry
	dsHandlers  map[string]*dsEntry
	streams     map[string]*streamEntry

	storage *store.Store
	audit   AuditRecorder
}

// SetAuditLog attaches an optional recorder that logs every executed
// control command (SPEC_FULL.md §3). Pass nil to disable.
func (d *Dispatcher) SetAuditLog(a AuditRecorder) { d.audit = a }

// New returns a Dispatcher that signs outgoing Data with signer and
// caches status dataset segments in an internal store of the given
// capacity (0 uses ndn-cxx's documented default of 256).
func New(face Face, signer ndn.Signer, storageCapacity int) *Dispatcher {
	if storageCapacity <= 0 {
		storageCapacity = defaultStorageCapacity
	}
	return &Dispatcher{
		face:        face,
		signer:      signer,
		now:         time.Now,
		topPrefixes: make(map[string]*topPrefixEntry),
		ccHandlers:  make(map[string]*ccEntry),
		dsHandlers:  make(map[string]*dsEntry),
		streams:     make(map[string]*streamEntry),
		storage:     store.New(store.NewFIFO(), store.WithCapacity(storageCapacity)),
	}
}

func (d *Dispatcher) isOverlappedWithOthers(relPrefix names.Name) bool {
	check := func(other names.Name) bool {
		return relPrefix.IsPrefixOf(other) || other.IsPrefixOf(relPrefix)
	}
	for _, e := range d.ccHandlers {
		if check(e.relPrefix) {
			return true
		}
	}
	for _, e := range d.dsHandlers {
		if check(e.relPrefix) {
			return true
		}
	}
	for _, e := range d.streams {
		if check(e.relPrefix) {
			return true
		}
	}
	return false
}

// AddControlCommand registers a control command under relPrefix. Must be
// called before any top-level prefix is added (spec.md §4.7 "\pre no
// top-level prefix has been added").
func (d *Dispatcher) AddControlCommand(relPrefix names.Name, parser ControlParametersParser, auth Authorization, validate ValidateParameters, handler ControlCommandHandler) error {
	if len(d.topPrefixes) > 0 {
		return fmt.Errorf("mgmt: cannot add control command after a top-level prefix has been added")
	}
	if d.isOverlappedWithOthers(relPrefix) {
		return fmt.Errorf("mgmt: relPrefix %s overlaps with an existing relPrefix", relPrefix)
	}
	d.ccHandlers[relPrefix.Key()] = &ccEntry{relPrefix: relPrefix, parser: parser, auth: auth, validate: validate, handler: handler}
	return nil
}

// AddStatusDataset registers a status dataset handler under relPrefix.
func (d *Dispatcher) AddStatusDataset(relPrefix names.Name, auth Authorization, handler StatusDatasetHandler) error {
	if len(d.topPrefixes) > 0 {
		return fmt.Errorf("mgmt: cannot add status dataset after a top-level prefix has been added")
	}
	if d.isOverlappedWithOthers(relPrefix) {
		return fmt.Errorf("mgmt: relPrefix %s overlaps with an existing relPrefix", relPrefix)
	}
	d.dsHandlers[relPrefix.Key()] = &dsEntry{relPrefix: relPrefix, auth: auth, handler: handler}
	return nil
}

// AddNotificationStream registers a notification stream under relPrefix
// and returns a function to publish notifications to it.
func (d *Dispatcher) AddNotificationStream(relPrefix names.Name) (PostNotification, error) {
	if len(d.topPrefixes) > 0 {
		return nil, fmt.Errorf("mgmt: cannot add notification stream after a top-level prefix has been added")
	}
	if d.isOverlappedWithOthers(relPrefix) {
		return nil, fmt.Errorf("mgmt: relPrefix %s overlaps with an existing relPrefix", relPrefix)
	}
	entry := &streamEntry{relPrefix: relPrefix}
	d.streams[relPrefix.Key()] = entry
	return func(content []byte) error {
		return d.postNotification(entry, content)
	}, nil
}

// AddTopPrefix registers prefix as a top-level prefix, wiring every
// registered relative prefix underneath it (spec.md §4.7 "top-prefix
// exclusivity/overlap rules").
func (d *Dispatcher) AddTopPrefix(prefix names.Name, wantRegister bool) error {
	for _, e := range d.topPrefixes {
		if prefix.IsPrefixOf(e.prefix) || e.prefix.IsPrefixOf(prefix) {
			return fmt.Errorf("mgmt: top-level prefix %s overlaps with existing prefix %s", prefix, e.prefix)
		}
	}

	entry := &topPrefixEntry{prefix: prefix}
	if wantRegister {
		unreg, err := d.face.RegisterPrefix(prefix)
		if err != nil {
			return err
		}
		entry.unregister = unreg
	}

	for _, cc := range d.ccHandlers {
		cc := cc
		full := prefix.Append(cc.relPrefix...)
		unset := d.face.SetInterestFilter(full, func(interest *packet.Interest) {
			d.onControlCommandInterest(prefix, cc, interest)
		})
		entry.unsetFilters = append(entry.unsetFilters, unset)
	}
	for _, ds := range d.dsHandlers {
		ds := ds
		full := prefix.Append(ds.relPrefix...)
		unset := d.face.SetInterestFilter(full, func(interest *packet.Interest) {
			d.onStatusDatasetInterest(prefix, ds, interest)
		})
		entry.unsetFilters = append(entry.unsetFilters, unset)
	}

	d.topPrefixes[prefix.Key()] = entry
	return nil
}

// RemoveTopPrefix undoes a previous AddTopPrefix.
func (d *Dispatcher) RemoveTopPrefix(prefix names.Name) {
	entry, ok := d.topPrefixes[prefix.Key()]
	if !ok {
		return
	}
	if entry.unregister != nil {
		entry.unregister()
	}
	for _, unset := range entry.unsetFilters {
		unset()
	}
	delete(d.topPrefixes, prefix.Key())
}

func (d *Dispatcher) afterAuthorizationRejected(reply RejectReply, interest *packet.Interest) {
	if reply == RejectSilent {
		return
	}
	resp := NewControlResponse(403, "authorization rejected")
	d.sendControlResponse(interest.Name(), resp)
}

// controlResponseFreshness is the 1 second FreshnessPeriod spec.md
// §4.7.1 step 5 requires on every signed control response, even though
// the response is never cached in the internal store.
const controlResponseFreshness = time.Second

func (d *Dispatcher) sendControlResponse(interestName names.Name, resp ControlResponse) {
	body, err := resp.Encode()
	if err != nil {
		log.Error("mgmt: failed to encode control response", "err", err)
		return
	}
	d.sendOnFace(interestName, body, controlResponseFreshness, nil, false)
}

// sendOnFace builds, signs, and sends a Data packet. When cache is true,
// the segment is also inserted into the internal store and tagged
// CachePolicy=NO_CACHE to hint hop-by-hop caches not to bother, since
// the dispatcher itself is already serving as the authoritative cache
// for it (spec.md §4.7.2 "carry a CachePolicy = NO_CACHE tag to hint
// hop-by-hop caches"). finalBlockId, if non-nil, is set on MetaInfo
// (spec.md §4.7.2 "Set FinalBlockId on the last segment").
func (d *Dispatcher) sendOnFace(dataName names.Name, content []byte, freshness time.Duration, finalBlockId *names.Component, cache bool) {
	data := packet.NewData(dataName)
	data.SetContent(content)
	if freshness > 0 {
		data.SetFreshnessPeriod(uint64(freshness / time.Millisecond))
	}
	if finalBlockId != nil {
		data.Meta.FinalBlockId = finalBlockId
		data.HasMeta = true
	}
	if cache {
		data.Tags.SetCachePolicy(tags.CachePolicyNoCache)
	}
	if err := data.Sign(d.signer); err != nil {
		log.Error("mgmt: failed to sign outgoing data", "name", dataName.String(), "err", err)
		return
	}
	if err := d.face.SendData(data); err != nil {
		log.Error("mgmt: failed to send data", "name", dataName.String(), "err", err)
		return
	}
	if cache {
		if err := d.storage.Insert(data); err != nil {
			log.Warn("mgmt: failed to cache data", "name", dataName.String(), "err", err)
		}
	}
}

func (d *Dispatcher) onControlCommandInterest(prefix names.Name, cc *ccEntry, interest *packet.Interest) {
	iname := interest.Name()
	rel := iname[len(prefix):]
	if len(rel) <= len(cc.relPrefix) {
		return // missing ControlParameters component
	}
	paramComp := rel[len(cc.relPrefix)]
	params, err := cc.parser(paramComp)
	if err != nil {
		log.Debug("mgmt: failed to parse control parameters", "err", err)
		return
	}

	cc.auth(prefix, interest, params,
		func(requester string) {
			d.processAuthorizedControlCommand(prefix, interest, params, cc, requester)
		},
		func(reply RejectReply) {
			d.afterAuthorizationRejected(reply, interest)
		},
	)
}

func (d *Dispatcher) processAuthorizedControlCommand(prefix names.Name, interest *packet.Interest, params any, cc *ccEntry, requester string) {
	commandName := interest.Name().String()
	if !cc.validate(params) {
		d.recordAudit(commandName, requester, 400)
		d.sendControlResponse(interest.Name(), NewControlResponse(400, "malformed command"))
		return
	}
	cc.handler(prefix, interest, params, func(resp ControlResponse) {
		d.recordAudit(commandName, requester, resp.Code)
		d.sendControlResponse(interest.Name(), resp)
	})
}

func (d *Dispatcher) recordAudit(command, requester string, code uint64) {
	if d.audit == nil {
		return
	}
	if err := d.audit.Record(d.now(), command, requester, code); err != nil {
		log.Warn("mgmt: failed to record audit entry", "command", command, "err", err)
	}
}

func (d *Dispatcher) onStatusDatasetInterest(prefix names.Name, ds *dsEntry, interest *packet.Interest) {
	iname := interest.Name()

	// Reject requests already carrying version/segment components
	// (spec.md §4.7 step 1).
	for _, c := range iname[len(prefix)+len(ds.relPrefix):] {
		if c.Typ == names.TypeVersionNameComponent || c.Typ == names.TypeSegmentNameComponent {
			return
		}
	}

	if found, ok := d.storage.Find(interest); ok {
		_ = d.face.SendData(found)
		return
	}

	ds.auth(prefix, interest, nil,
		func(requester string) {
			d.processAuthorizedStatusDataset(prefix, interest, ds)
		},
		func(reply RejectReply) {
			d.afterAuthorizationRejected(reply, interest)
		},
	)
}

func (d *Dispatcher) processAuthorizedStatusDataset(prefix names.Name, interest *packet.Interest, ds *dsEntry) {
	version := uint64(d.now().UnixMilli())
	dataPrefix := interest.Name().AppendVersion(version)

	ctx := newDatasetContext(dataPrefix,
		func(name names.Name, content []byte, imsFresh time.Duration, isFinalBlock bool) {
			var finalBlockId *names.Component
			if isFinalBlock && len(name) > 0 {
				finalBlockId = &name[len(name)-1]
			}
			d.sendOnFace(name, content, imsFresh, finalBlockId, true)
		},
		func(resp ControlResponse) {
			d.sendControlResponse(interest.Name(), resp)
		},
	)
	ds.handler(prefix, interest, ctx)
}

func (d *Dispatcher) postNotification(stream *streamEntry, content []byte) error {
	if len(d.topPrefixes) != 1 {
		return fmt.Errorf("mgmt: notification requires exactly one top-level prefix, have %d", len(d.topPrefixes))
	}
	var top names.Name
	for _, e := range d.topPrefixes {
		top = e.prefix
	}
	seq := stream.nextSeq
	stream.nextSeq++
	name := top.Append(stream.relPrefix...).AppendSequence(seq)
	d.sendOnFace(name, content, 0, nil, false)
	return nil
}
