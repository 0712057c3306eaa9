// Package memorydb implements an ordered in-memory key-value store, used by
// tests and by engines that do not need durability.
package memorydb

import (
	"bytes"
	"sync"

	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/tidwall/btree"
)

type item struct {
	key   []byte
	value []byte
}

func byKey(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Database is an ephemeral key-value store backed by a b-tree
type Database struct {
	lock   sync.RWMutex
	tree   *btree.BTreeG[item]
	closed bool
}

// New returns an empty memory database
func New() *Database {
	return &Database{
		tree: btree.NewBTreeG(byKey),
	}
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return false, kvdb.ErrClosed
	}

	_, ok := db.tree.Get(item{key: key})

	return ok, nil
}

func (db *Database) Get(key []byte) ([]byte, bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, false, kvdb.ErrClosed
	}

	it, ok := db.tree.Get(item{key: key})
	if !ok {
		return nil, false, nil
	}

	return types.CopyBytes(it.value), true, nil
}

func (db *Database) Set(key, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return kvdb.ErrClosed
	}

	db.tree.Set(item{key: types.CopyBytes(key), value: types.CopyBytes(value)})

	return nil
}

func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return kvdb.ErrClosed
	}

	db.tree.Delete(item{key: key})

	return nil
}

// Len returns the number of keys stored
func (db *Database) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return db.tree.Len()
}

func (db *Database) NewBatch() kvdb.Batch {
	return &batch{db: db}
}

// NewIterator walks a copy-on-write clone of the tree, later writes are not
// observed.
func (db *Database) NewIterator(prefix, start []byte) kvdb.Iterator {
	db.lock.RLock()

	if db.closed {
		db.lock.RUnlock()

		return &iterator{err: kvdb.ErrClosed}
	}

	snapshot := db.tree.Copy()
	db.lock.RUnlock()

	pivot := append(types.CopyBytes(prefix), start...)
	items := make([]item, 0)

	snapshot.Ascend(item{key: pivot}, func(it item) bool {
		if !bytes.HasPrefix(it.key, prefix) {
			return false
		}

		items = append(items, it)

		return true
	})

	return &iterator{items: items, index: -1}
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.closed = true
	db.tree.Clear()

	return nil
}

type keyOp struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db   *Database
	ops  []keyOp
	size int
}

func (b *batch) Set(k, v []byte) error {
	b.ops = append(b.ops, keyOp{key: types.CopyBytes(k), value: types.CopyBytes(v)})
	b.size += len(k) + len(v)

	return nil
}

func (b *batch) Delete(k []byte) error {
	b.ops = append(b.ops, keyOp{key: types.CopyBytes(k), delete: true})
	b.size += len(k)

	return nil
}

func (b *batch) ValueSize() int {
	return b.size
}

// Write applies every queued operation under a single lock
func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.closed {
		return kvdb.ErrClosed
	}

	for _, op := range b.ops {
		if op.delete {
			b.db.tree.Delete(item{key: op.key})
		} else {
			b.db.tree.Set(item{key: op.key, value: op.value})
		}
	}

	return nil
}

func (b *batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

type iterator struct {
	items []item
	index int
	err   error
}

func (it *iterator) Next() bool {
	if it.index >= len(it.items) {
		return false
	}

	it.index++

	return it.index < len(it.items)
}

func (it *iterator) Key() []byte {
	if it.index < 0 || it.index >= len(it.items) {
		return nil
	}

	return it.items[it.index].key
}

func (it *iterator) Value() []byte {
	if it.index < 0 || it.index >= len(it.items) {
		return nil
	}

	return it.items[it.index].value
}

func (it *iterator) Release() {
	it.items = nil
	it.index = 0
}

func (it *iterator) Error() error {
	return it.err
}
