package table

import (
	"bytes"

	"github.com/dogechain-lab/elasticdb/types"
	iradix "github.com/hashicorp/go-immutable-radix"
)

// RangeIterator walks the rows whose partitioning hash falls inside a hash
// range, in index order.
type RangeIterator interface {
	// Next fills tuple with the next row in range. It returns false when the
	// range is exhausted or an error occurred.
	Next(tuple *types.Tuple) bool

	// Reset rewinds the iterator to the start of its range
	Reset()

	// Erase removes the index entries covered by the range from the live
	// index
	Erase()

	// Error returns any accumulated error. Exhausting the range is not
	// considered to be an error.
	Error() error
}

// segment is a [start, end) key interval of the index, nil end is unbounded
type segment struct {
	start []byte
	end   []byte
}

func rangeSegments(r types.HashRange) []segment {
	switch {
	case r.Low < r.High:
		return []segment{{start: encodeHash(r.Low), end: encodeHash(r.High)}}
	case r.Low > r.High:
		return []segment{
			{start: encodeHash(r.Low), end: nil},
			{start: nil, end: encodeHash(r.High)},
		}
	default:
		return []segment{{start: nil, end: nil}}
	}
}

// rangeIterator reads an immutable snapshot of the index taken when it was
// created. Writes to the live index never move its cursor, rows that were
// deleted after the snapshot are skipped.
type rangeIterator struct {
	table    *Table
	rng      types.HashRange
	snapshot *iradix.Tree
	segments []segment

	current int // segment in progress
	iter    *iradix.Iterator
	err     error
	erased  bool
}

func newRangeIterator(t *Table, snapshot *iradix.Tree, r types.HashRange) *rangeIterator {
	it := &rangeIterator{
		table:    t,
		rng:      r,
		snapshot: snapshot,
		segments: rangeSegments(r),
	}

	it.Reset()

	return it
}

func (it *rangeIterator) seek() {
	it.iter = it.snapshot.Root().Iterator()

	if start := it.segments[it.current].start; start != nil {
		it.iter.SeekLowerBound(start)
	}
}

// nextKey returns the next index key inside the range
func (it *rangeIterator) nextKey() ([]byte, bool) {
	for it.current < len(it.segments) {
		key, _, ok := it.iter.Next()

		if ok {
			end := it.segments[it.current].end
			if end == nil || bytes.Compare(key, end) < 0 {
				return key, true
			}
		}

		it.current++

		if it.current < len(it.segments) {
			it.seek()
		}
	}

	return nil, false
}

func (it *rangeIterator) Next(tuple *types.Tuple) bool {
	if it.err != nil || it.erased {
		return false
	}

	for {
		key, ok := it.nextKey()
		if !ok {
			return false
		}

		row, exists, err := it.table.Get(key[hashKeyLength:])
		if err != nil {
			it.err = err

			return false
		}

		if !exists {
			// deleted after the snapshot was taken
			it.table.metrics.SkippedIndexEntriesInc()

			continue
		}

		*tuple = *row

		return true
	}
}

func (it *rangeIterator) Reset() {
	it.current = 0
	it.err = nil
	it.seek()
}

func (it *rangeIterator) Erase() {
	if it.erased {
		return
	}

	it.logErased(it.table.eraseKeys(it.snapshotKeys()))
}

// snapshotKeys lists the index keys of the snapshot inside the range. It
// rewinds the iterator.
func (it *rangeIterator) snapshotKeys() [][]byte {
	keys := make([][]byte, 0)

	it.Reset()

	for {
		key, ok := it.nextKey()
		if !ok {
			break
		}

		keys = append(keys, key)
	}

	return keys
}

func (it *rangeIterator) logErased(erased int) {
	it.erased = true

	it.table.logger.Info("elastic index range erased",
		"range", it.rng.String(),
		"entries", erased,
	)
}

func (it *rangeIterator) Error() error {
	return it.err
}
