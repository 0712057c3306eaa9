package table

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/dogechain-lab/elasticdb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndexedTable(t *testing.T, n int) (*Table, []*types.Tuple) {
	t.Helper()

	tbl := newTestTable(t)
	tuples := fillTable(t, tbl, n)

	require.NoError(t, tbl.CreateIndex())
	require.NoError(t, tbl.BuildIndex(context.Background()))

	return tbl, tuples
}

// inRange returns the keys of the tuples inside the range, in index order
func inRange(tuples []*types.Tuple, r types.HashRange) []string {
	matched := make([]*types.Tuple, 0)

	for _, tuple := range tuples {
		if r.Contains(tuple.Hash()) {
			matched = append(matched, tuple)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		hi, hj := matched[i].Hash(), matched[j].Hash()
		if hi != hj {
			return hi < hj
		}

		return string(matched[i].Key) < string(matched[j].Key)
	})

	keys := make([]string, 0, len(matched))
	for _, tuple := range matched {
		keys = append(keys, string(tuple.Key))
	}

	return keys
}

func drainKeys(t *testing.T, it RangeIterator) []string {
	t.Helper()

	keys := make([]string, 0)

	var tuple types.Tuple
	for it.Next(&tuple) {
		keys = append(keys, string(tuple.Key))
	}

	require.NoError(t, it.Error())

	return keys
}

func TestIndexKeyOrdering(t *testing.T) {
	t.Parallel()

	hashes := []int64{math.MinInt64, -10, -1, 0, 1, 10, math.MaxInt64}

	for i := 1; i < len(hashes); i++ {
		assert.Less(t, string(encodeHash(hashes[i-1])), string(encodeHash(hashes[i])))
	}

	for _, h := range hashes {
		assert.Equal(t, h, decodeHash(indexKey(h, []byte("k"))))
	}
}

func TestIndex_Lifecycle(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t)
	fillTable(t, tbl, 50)

	assert.False(t, tbl.HasIndex())
	assert.False(t, tbl.IsIndexingComplete())
	assert.ErrorIs(t, tbl.BuildIndex(context.Background()), ErrNoIndex)

	_, err := tbl.IndexStats()
	assert.ErrorIs(t, err, ErrNoIndex)

	require.NoError(t, tbl.CreateIndex())
	assert.ErrorIs(t, tbl.CreateIndex(), ErrIndexExists)
	assert.True(t, tbl.HasIndex())
	assert.False(t, tbl.IsIndexingComplete())

	require.NoError(t, tbl.BuildIndex(context.Background()))
	assert.True(t, tbl.IsIndexingComplete())

	stats, err := tbl.IndexStats()
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Entries)
	assert.True(t, stats.Complete)
	assert.InDelta(t, 50, float64(stats.EstimatedDistinctHashes), 5)

	// maintained on writes
	require.NoError(t, tbl.Insert(testTuple(1000)))
	_, err = tbl.Delete(testTuple(0).Key)
	require.NoError(t, err)

	stats, err = tbl.IndexStats()
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Entries)

	tbl.DropIndex()
	assert.False(t, tbl.HasIndex())
}

func TestIndex_BuildCancelled(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t)
	fillTable(t, tbl, 10)
	require.NoError(t, tbl.CreateIndex())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tbl.BuildIndex(ctx), context.Canceled)
	assert.True(t, tbl.HasIndex())
	assert.False(t, tbl.IsIndexingComplete())

	stats, err := tbl.IndexStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestRangeIterator_Ranges(t *testing.T) {
	t.Parallel()

	tbl, tuples := newIndexedTable(t, 200)
	surgeon := tbl.Surgeon()

	ranges := []types.HashRange{
		types.NewHashRange(math.MinInt64, 0),
		types.NewHashRange(0, math.MaxInt64),
		types.NewHashRange(math.MinInt64/2, math.MaxInt64/2),
		types.NewHashRange(math.MaxInt64/2, math.MinInt64/2), // wraps
		types.NewHashRange(42, 42),                            // whole ring
		types.NewHashRange(10, 11),                            // most likely empty
	}

	for _, r := range ranges {
		it, err := surgeon.IndexRangeIterator(r)
		require.NoError(t, err)

		assert.Equal(t, inRange(tuples, r), drainKeys(t, it), "range %s", r)
	}
}

func TestRangeIterator_Reset(t *testing.T) {
	t.Parallel()

	tbl, tuples := newIndexedTable(t, 100)
	r := types.NewHashRange(math.MinInt64, 0)

	it, err := tbl.Surgeon().IndexRangeIterator(r)
	require.NoError(t, err)

	var tuple types.Tuple

	// consume part of the range
	for i := 0; i < 5; i++ {
		require.True(t, it.Next(&tuple))
	}

	it.Reset()

	assert.Equal(t, inRange(tuples, r), drainKeys(t, it))
	assert.False(t, it.Next(&tuple))
}

func TestRangeIterator_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	tbl, tuples := newIndexedTable(t, 100)
	whole := types.NewHashRange(0, 0)

	it, err := tbl.Surgeon().IndexRangeIterator(whole)
	require.NoError(t, err)

	expected := inRange(tuples, whole)

	// rows deleted after the snapshot are skipped
	deleted, err := tbl.Delete([]byte(expected[0]))
	require.NoError(t, err)
	require.True(t, deleted)

	// rows inserted after the snapshot are not visible
	require.NoError(t, tbl.Insert(testTuple(5000)))

	assert.Equal(t, expected[1:], drainKeys(t, it))
}

func TestRangeIterator_Erase(t *testing.T) {
	t.Parallel()

	tbl, tuples := newIndexedTable(t, 100)
	r := types.NewHashRange(math.MinInt64, 0)
	surgeon := tbl.Surgeon()

	it, err := surgeon.IndexRangeIterator(r)
	require.NoError(t, err)

	// a row inserted after the snapshot keeps its entry even when in range
	var late *types.Tuple

	for i := 5000; late == nil; i++ {
		if candidate := testTuple(i); r.Contains(candidate.Hash()) {
			late = candidate
		}
	}

	require.NoError(t, tbl.Insert(late))

	it.Erase()

	var tuple types.Tuple
	assert.False(t, it.Next(&tuple))

	stats, err := tbl.IndexStats()
	require.NoError(t, err)
	assert.Equal(t, len(tuples)+1-len(inRange(tuples, r)), stats.Entries)

	fresh, err := surgeon.IndexRangeIterator(r)
	require.NoError(t, err)
	assert.Equal(t, []string{string(late.Key)}, drainKeys(t, fresh))

	// rows themselves are untouched by erase
	count, err := tbl.Count()
	require.NoError(t, err)
	assert.Equal(t, len(tuples)+1, count)
}

func TestRangeIterator_NoIndex(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t)

	_, err := tbl.Surgeon().IndexRangeIterator(types.NewHashRange(0, 1))
	assert.ErrorIs(t, err, ErrNoIndex)
}
