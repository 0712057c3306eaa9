package leveldb

import (
	"errors"

	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// minCache is the minimum memory allocate to leveldb
	// half write, half read
	minCache = 16 // 16 MiB

	// minHandles is the minimum number of files handles to leveldb open files
	minHandles = 16

	DefaultHandles             = 512   // files handles to leveldb open files
	DefaultBloomKeyBits        = 2048  // bloom filter bits (256 bytes)
	DefaultCompactionTableSize = 4     // 4  MiB
	DefaultCompactionTotalSize = 40    // 40 MiB
	DefaultNoSyncFlag          = false // false - sync write, true - async write
)

type batch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
	size  int // counting batch size
}

func (b *batch) Set(k, v []byte) error {
	b.batch.Put(k, v)
	b.size += len(k) + len(v)

	return nil
}

func (b *batch) Delete(k []byte) error {
	b.batch.Delete(k)
	b.size += len(k)

	return nil
}

// ValueSize retrieves the amount of data queued up for writing.
func (b *batch) ValueSize() int {
	return b.size
}

// Write commits the whole batch atomically
func (b *batch) Write() error {
	return wrapClosed(b.db.Write(b.batch, nil))
}

// Reset resets the batch for reuse.
func (b *batch) Reset() {
	b.batch.Reset()
	b.size = 0
}

// database is the leveldb implementation of the kv storage
type database struct {
	db *leveldb.DB
}

// New opens (or creates) a leveldb database at the given path
func New(path string, options ...Option) (kvdb.Database, error) {
	o, err := newDBOption(options)
	if err != nil {
		return nil, err
	}

	db, err := leveldb.OpenFile(path, o.options)
	if err != nil {
		return nil, err
	}

	o.logger.Info("leveldb opened", "path", path)

	return &database{db: db}, nil
}

// NewMemory creates a leveldb database on top of a memory storage, nothing is
// ever written to disk.
func NewMemory(options ...Option) (kvdb.Database, error) {
	o, err := newDBOption(options)
	if err != nil {
		return nil, err
	}

	db, err := leveldb.Open(storage.NewMemStorage(), o.options)
	if err != nil {
		return nil, err
	}

	return &database{db: db}, nil
}

func (kv *database) NewBatch() kvdb.Batch {
	return &batch{db: kv.db, batch: &leveldb.Batch{}}
}

// bytesPrefixRange returns key range that satisfy
// - the given prefix, and
// - the given seek position
func bytesPrefixRange(prefix, start []byte) *util.Range {
	r := util.BytesPrefix(prefix)
	r.Start = append(r.Start, start...)

	return r
}

func (kv *database) NewIterator(prefix, start []byte) kvdb.Iterator {
	return kv.db.NewIterator(bytesPrefixRange(prefix, start), nil)
}

// Set sets the key-value pair in leveldb storage
func (kv *database) Set(p []byte, v []byte) error {
	return wrapClosed(kv.db.Put(p, v, nil))
}

func (kv *database) Delete(p []byte) error {
	return wrapClosed(kv.db.Delete(p, nil))
}

func (kv *database) Has(p []byte) (bool, error) {
	ok, err := kv.db.Has(p, nil)

	return ok, wrapClosed(err)
}

// Get retrieves the key-value pair in leveldb storage
func (kv *database) Get(p []byte) ([]byte, bool, error) {
	data, err := kv.db.Get(p, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		} else if errors.Is(err, leveldb.ErrClosed) {
			return nil, false, kvdb.ErrClosed
		} else {
			panic(err)
		}
	}

	return data, true, nil
}

// Close closes the leveldb storage instance
func (kv *database) Close() error {
	return kv.db.Close()
}

func wrapClosed(err error) error {
	if errors.Is(err, leveldb.ErrClosed) {
		return kvdb.ErrClosed
	}

	return err
}
