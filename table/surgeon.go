package table

import (
	"errors"
	"sync"

	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/dogechain-lab/elasticdb/types"
)

var (
	ErrTokenReleased   = errors.New("bulk delete token already released")
	ErrForeignIterator = errors.New("range iterator belongs to another table")
)

// BulkDeleteToken is a guard that suppresses delete notifications on the table
// while it is held. Deletes are staged and applied atomically on Commit.
// Release must be called on every path, usually deferred.
type BulkDeleteToken interface {
	// DeleteTuple stages the removal of the tuple's row
	DeleteTuple(tuple *types.Tuple) error

	// EraseOnCommit schedules the index entries covered by the iterator to be
	// erased by Commit, in the same critical section as the row removal
	EraseOnCommit(iter RangeIterator) error

	// Commit atomically removes every staged row
	Commit() error

	// Release re-enables delete notifications, it is safe to call it more
	// than once
	Release()
}

// Surgeon is the privileged mutation surface stream contexts operate the
// table through.
type Surgeon struct {
	table *Table
}

// Surgeon returns the mutation surface of the table
func (t *Table) Surgeon() *Surgeon {
	return &Surgeon{table: t}
}

func (s *Surgeon) HasIndex() bool {
	return s.table.HasIndex()
}

func (s *Surgeon) IsIndexingComplete() bool {
	return s.table.IsIndexingComplete()
}

// IndexRangeIterator returns an iterator over the rows in range, reading a
// snapshot of the index taken now.
func (s *Surgeon) IndexRangeIterator(r types.HashRange) (RangeIterator, error) {
	snapshot, err := s.table.snapshot()
	if err != nil {
		return nil, err
	}

	return newRangeIterator(s.table, snapshot, r), nil
}

// DeleteTuple removes a single row with the ordinary notification behaviour
func (s *Surgeon) DeleteTuple(tuple *types.Tuple) error {
	_, err := s.table.Delete(tuple.Key)

	return err
}

// BulkDeleteToken acquires a bulk delete token
func (s *Surgeon) BulkDeleteToken() BulkDeleteToken {
	s.table.suppressed.Inc()

	return &bulkDeleteToken{
		table: s.table,
		batch: s.table.db.NewBatch(),
	}
}

type bulkDeleteToken struct {
	table *Table
	batch kvdb.Batch
	keys  [][]byte
	erase *rangeIterator

	once     sync.Once
	released bool
}

func (b *bulkDeleteToken) DeleteTuple(tuple *types.Tuple) error {
	if b.released {
		return ErrTokenReleased
	}

	if err := b.batch.Delete(b.table.rowKey(tuple.Key)); err != nil {
		return err
	}

	b.keys = append(b.keys, types.CopyBytes(tuple.Key))

	return nil
}

func (b *bulkDeleteToken) EraseOnCommit(iter RangeIterator) error {
	if b.released {
		return ErrTokenReleased
	}

	it, ok := iter.(*rangeIterator)
	if !ok || it.table != b.table {
		return ErrForeignIterator
	}

	b.erase = it

	return nil
}

func (b *bulkDeleteToken) Commit() error {
	if b.released {
		return ErrTokenReleased
	}

	t := b.table

	t.lock.Lock()
	defer t.lock.Unlock()

	if err := b.batch.Write(); err != nil {
		return err
	}

	for _, key := range b.keys {
		t.cacheDel(t.rowKey(key))
		t.notifyDelete(key, types.PartitionHash(key))
	}

	// rows re-inserted after the lock is released keep their new entries
	if b.erase != nil && !b.erase.erased {
		b.erase.logErased(t.eraseKeysLocked(b.erase.snapshotKeys()))
	}

	b.erase = nil

	t.metrics.BulkDeletedTuplesAdd(float64(len(b.keys)))
	t.logger.Debug("bulk delete committed", "rows", len(b.keys))

	b.batch.Reset()
	b.keys = nil

	return nil
}

func (b *bulkDeleteToken) Release() {
	b.once.Do(func() {
		b.released = true
		b.table.suppressed.Dec()
	})
}
