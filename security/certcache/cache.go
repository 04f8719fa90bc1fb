// Package certcache is an optional on-disk cache of fetched certificates,
// keyed by key name, sitting in front of a certfetch.Fetcher so repeated
// certificate Interests for the same key don't require a network round
// trip across process restarts (SPEC_FULL.md §3 domain stack). This is a
// cache for fetched certificates, not the in-memory content store
// (spec.md §4.5), which stays strictly in-memory.
//
// Grounded on the teacher's badger-backed object store
// (std/object/storage/store_badger.go): same "open a badger.DB at a
// path, key by the canonical name bytes" shape, narrowed to get/put/
// remove on certificate Data only.
package certcache

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/tlv"
)

// Cache is an on-disk key-name-indexed certificate cache.
type Cache struct {
	db *badger.DB
}

// Open opens (creating if absent) a badger database at path for use as a
// certificate cache.
func Open(path string) (*Cache, error) {
	db, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) key(keyName names.Name) []byte {
	return []byte(keyName.Key())
}

// Get returns the cached certificate Data for keyName, if present.
func (c *Cache) Get(keyName names.Name) (*packet.Data, bool, error) {
	var wire []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.key(keyName))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		wire, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if wire == nil {
		return nil, false, nil
	}
	block, _, err := tlv.DecodeBlock(wire)
	if err != nil {
		return nil, false, err
	}
	data, err := packet.DecodeData(block)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores cert under keyName, overwriting any previous entry.
func (c *Cache) Put(keyName names.Name, cert *packet.Data) error {
	wire, err := cert.Encode()
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.key(keyName), wire)
	})
}

// Remove deletes the cached certificate for keyName, if any.
func (c *Cache) Remove(keyName names.Name) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(c.key(keyName))
	})
}
