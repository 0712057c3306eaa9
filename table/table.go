package table

import (
	"errors"
	"fmt"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/atomic"
)

const (
	// DefaultMaxTupleLength is the largest encoded row a table accepts
	DefaultMaxTupleLength = 2 * 1024 * 1024

	// DefaultCacheSize is the row cache size in bytes
	DefaultCacheSize = 32 * 1024 * 1024

	rowPrefixFormat = "t/%s/r/"
)

var (
	ErrInvalidName   = errors.New("table name must not be empty")
	ErrTupleTooLarge = errors.New("tuple exceeds the maximum tuple length")
	ErrEmptyKey      = errors.New("tuple key must not be empty")
)

// Config is the table configuration
type Config struct {
	Name        string
	PartitionID int32

	// MaxTupleLength bounds the encoded size of a single row
	MaxTupleLength int

	// CacheSize is the row cache size in bytes, zero disables the cache
	CacheSize int
}

// DefaultConfig returns the table config with the default sizes
func DefaultConfig(name string) *Config {
	return &Config{
		Name:           name,
		MaxTupleLength: DefaultMaxTupleLength,
		CacheSize:      DefaultCacheSize,
	}
}

// Table is a partitioned table stored in a key-value database, with an
// optional elastic hash index over its partitioning keys.
type Table struct {
	name           string
	partitionID    int32
	maxTupleLength int
	rowPrefix      []byte

	db      kvdb.Database
	cache   *fastcache.Cache // nil when disabled
	logger  hclog.Logger
	metrics *Metrics

	// lock serializes mutations and guards index
	lock  sync.RWMutex
	index *index

	stream *eventStream

	// number of bulk delete tokens currently held
	suppressed *atomic.Int32
}

// NewTable creates the table on top of the given database
func NewTable(db kvdb.Database, config *Config, logger hclog.Logger, metrics *Metrics) (*Table, error) {
	if config.Name == "" {
		return nil, ErrInvalidName
	}

	if config.MaxTupleLength <= 0 {
		return nil, fmt.Errorf("invalid max tuple length %d", config.MaxTupleLength)
	}

	t := &Table{
		name:           config.Name,
		partitionID:    config.PartitionID,
		maxTupleLength: config.MaxTupleLength,
		rowPrefix:      []byte(fmt.Sprintf(rowPrefixFormat, config.Name)),
		db:             db,
		logger:         logger.Named("table").With("table", config.Name),
		metrics:        NewDummyMetrics(metrics),
		stream:         newEventStream(),
		suppressed:     atomic.NewInt32(0),
	}

	if config.CacheSize > 0 {
		t.cache = fastcache.New(config.CacheSize)
	}

	return t, nil
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) PartitionID() int32 {
	return t.partitionID
}

func (t *Table) MaxTupleLength() int {
	return t.maxTupleLength
}

func (t *Table) rowKey(key []byte) []byte {
	k := make([]byte, 0, len(t.rowPrefix)+len(key))
	k = append(k, t.rowPrefix...)

	return append(k, key...)
}

// Insert writes the tuple, replacing any row with the same key
func (t *Table) Insert(tuple *types.Tuple) error {
	if len(tuple.Key) == 0 {
		return ErrEmptyKey
	}

	data := tuple.MarshalRLPTo(nil)
	if len(data) > t.maxTupleLength {
		return fmt.Errorf("%w: %d > %d", ErrTupleTooLarge, len(data), t.maxTupleLength)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	rowKey := t.rowKey(tuple.Key)

	if err := t.db.Set(rowKey, data); err != nil {
		return err
	}

	t.cacheSet(rowKey, data)

	if t.index != nil {
		t.index.insert(tuple.Hash(), tuple.Key)
		t.metrics.SetIndexEntries(float64(t.index.tree.Len()))
	}

	t.metrics.TuplesInsertedInc()

	return nil
}

// Get returns the row stored under the key
func (t *Table) Get(key []byte) (*types.Tuple, bool, error) {
	rowKey := t.rowKey(key)

	data, ok := t.cacheGet(rowKey)
	if !ok {
		var err error

		data, ok, err = t.db.Get(rowKey)
		if err != nil {
			return nil, false, err
		} else if !ok {
			return nil, false, nil
		}

		t.cacheSet(rowKey, data)
	}

	tuple := &types.Tuple{}
	if err := tuple.UnmarshalRLP(data); err != nil {
		return nil, false, fmt.Errorf("corrupted row %x: %w", key, err)
	}

	return tuple, true, nil
}

// Delete removes the row stored under the key and publishes a delete
// notification, unless notifications are suppressed by a bulk delete token.
// It reports whether the row existed.
func (t *Table) Delete(key []byte) (bool, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	rowKey := t.rowKey(key)

	exists, err := t.db.Has(rowKey)
	if err != nil || !exists {
		return false, err
	}

	if err := t.db.Delete(rowKey); err != nil {
		return false, err
	}

	t.cacheDel(rowKey)

	hash := types.PartitionHash(key)

	if t.index != nil {
		t.index.remove(hash, key)
		t.metrics.SetIndexEntries(float64(t.index.tree.Len()))
	}

	t.metrics.TuplesDeletedInc()
	t.notifyDelete(key, hash)

	return true, nil
}

// Scan calls fn for every row in key order until fn returns false
func (t *Table) Scan(fn func(tuple *types.Tuple) bool) error {
	iter := t.db.NewIterator(t.rowPrefix, nil)
	defer iter.Release()

	for iter.Next() {
		tuple := &types.Tuple{}
		if err := tuple.UnmarshalRLP(iter.Value()); err != nil {
			return fmt.Errorf("corrupted row %x: %w", iter.Key(), err)
		}

		if !fn(tuple) {
			break
		}
	}

	return iter.Error()
}

// Count returns the number of rows in the table
func (t *Table) Count() (int, error) {
	count := 0

	err := t.Scan(func(*types.Tuple) bool {
		count++

		return true
	})

	return count, err
}

// Subscribe registers a listener for delete notifications
func (t *Table) Subscribe() Subscription {
	return t.stream.subscribe()
}

func (t *Table) notifyDelete(key []byte, hash int64) {
	if t.suppressed.Load() > 0 {
		t.metrics.SuppressedNotificationsInc()

		return
	}

	if dropped := t.stream.push(&DeleteEvent{Key: types.CopyBytes(key), Hash: hash}); dropped > 0 {
		t.metrics.DroppedNotificationsAdd(float64(dropped))
	}
}

// Close releases the listeners and the row cache, the database is owned by
// the caller.
func (t *Table) Close() error {
	t.stream.close()

	if t.cache != nil {
		t.cache.Reset()
	}

	return nil
}

func (t *Table) cacheGet(rowKey []byte) ([]byte, bool) {
	if t.cache == nil {
		return nil, false
	}

	return t.cache.HasGet(nil, rowKey)
}

func (t *Table) cacheSet(rowKey, data []byte) {
	if t.cache == nil {
		return
	}

	t.cache.Set(rowKey, data)
}

func (t *Table) cacheDel(rowKey []byte) {
	if t.cache == nil {
		return
	}

	t.cache.Del(rowKey)
}
