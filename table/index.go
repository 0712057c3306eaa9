package table

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/axiomhq/hyperloglog"
	"github.com/dogechain-lab/elasticdb/helper/metrics"
	"github.com/dogechain-lab/elasticdb/types"
	iradix "github.com/hashicorp/go-immutable-radix"
)

const (
	hashKeyLength = 8

	// build checks for cancellation every buildCheckInterval rows
	buildCheckInterval = 1024
)

var (
	ErrIndexExists = errors.New("elastic index already exists")
	ErrNoIndex     = errors.New("elastic index does not exist")
)

// IndexStats describes the elastic index
type IndexStats struct {
	Entries  int
	Complete bool

	// EstimatedDistinctHashes approximates the number of distinct hashes
	// indexed since the index was created, deletions are not subtracted.
	EstimatedDistinctHashes uint64
}

// index maps (hash, key) to nothing, ordered by the hash on the signed ring
// first and by the key second.
type index struct {
	tree     *iradix.Tree
	complete bool
	sketch   *hyperloglog.Sketch
}

func newIndex() *index {
	return &index{
		tree:   iradix.New(),
		sketch: hyperloglog.New(),
	}
}

// encodeHash maps a signed hash onto bytes that sort in signed order
func encodeHash(hash int64) []byte {
	b := make([]byte, hashKeyLength)
	binary.BigEndian.PutUint64(b, uint64(hash)^(1<<63))

	return b
}

func decodeHash(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b[:hashKeyLength]) ^ (1 << 63))
}

func indexKey(hash int64, key []byte) []byte {
	return append(encodeHash(hash), key...)
}

func (idx *index) insert(hash int64, key []byte) {
	idx.tree, _, _ = idx.tree.Insert(indexKey(hash, key), struct{}{})
	idx.sketch.Insert(encodeHash(hash))
}

func (idx *index) remove(hash int64, key []byte) {
	idx.tree, _, _ = idx.tree.Delete(indexKey(hash, key))
}

// CreateIndex declares the elastic index. Until BuildIndex completes the index
// is maintained on writes but reports itself incomplete.
func (t *Table) CreateIndex() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.index != nil {
		return ErrIndexExists
	}

	t.index = newIndex()
	t.metrics.SetIndexEntries(0)

	t.logger.Info("elastic index created")

	return nil
}

// BuildIndex indexes every existing row and marks the index complete.
// Writers are blocked while the build runs. A cancelled build leaves the
// index incomplete and untouched.
func (t *Table) BuildIndex(ctx context.Context) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.index == nil {
		return ErrNoIndex
	}

	if t.index.complete {
		return nil
	}

	var (
		start   = time.Now()
		txn     = t.index.tree.Txn()
		hashes  = make([][]byte, 0)
		scanned = 0
	)

	iter := t.db.NewIterator(t.rowPrefix, nil)
	defer iter.Release()

	for iter.Next() {
		if scanned%buildCheckInterval == 0 {
			select {
			case <-ctx.Done():
				t.logger.Warn("elastic index build cancelled", "scanned", scanned)

				return ctx.Err()
			default:
			}
		}

		key := iter.Key()[len(t.rowPrefix):]
		hash := types.PartitionHash(key)

		txn.Insert(indexKey(hash, key), struct{}{})
		hashes = append(hashes, encodeHash(hash))
		scanned++
	}

	if err := iter.Error(); err != nil {
		return err
	}

	t.index.tree = txn.Commit()
	t.index.complete = true

	for _, h := range hashes {
		t.index.sketch.Insert(h)
	}

	metrics.ObserveSince(t.metrics.indexBuildSeconds, start)
	t.metrics.SetIndexEntries(float64(t.index.tree.Len()))

	t.logger.Info("elastic index built",
		"rows", scanned,
		"entries", t.index.tree.Len(),
		"elapsed", time.Since(start),
	)

	return nil
}

// DropIndex removes the elastic index
func (t *Table) DropIndex() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.index = nil
	t.metrics.SetIndexEntries(0)
}

// HasIndex reports whether the elastic index exists
func (t *Table) HasIndex() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.index != nil
}

// IsIndexingComplete reports whether the elastic index covers every row
func (t *Table) IsIndexingComplete() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.index != nil && t.index.complete
}

// IndexStats returns the elastic index statistics
func (t *Table) IndexStats() (IndexStats, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if t.index == nil {
		return IndexStats{}, ErrNoIndex
	}

	return IndexStats{
		Entries:                 t.index.tree.Len(),
		Complete:                t.index.complete,
		EstimatedDistinctHashes: t.index.sketch.Estimate(),
	}, nil
}

// snapshot returns the current immutable index tree
func (t *Table) snapshot() (*iradix.Tree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if t.index == nil {
		return nil, ErrNoIndex
	}

	return t.index.tree, nil
}

// eraseKeys drops the given index keys from the live index
func (t *Table) eraseKeys(keys [][]byte) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.eraseKeysLocked(keys)
}

// eraseKeysLocked is eraseKeys for callers holding the table lock
func (t *Table) eraseKeysLocked(keys [][]byte) int {
	if t.index == nil {
		return 0
	}

	txn := t.index.tree.Txn()
	erased := 0

	for _, k := range keys {
		if _, ok := txn.Delete(k); ok {
			erased++
		}
	}

	t.index.tree = txn.Commit()
	t.metrics.SetIndexEntries(float64(t.index.tree.Len()))

	return erased
}
