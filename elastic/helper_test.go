package elastic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/dogechain-lab/elasticdb/helper/kvdb/memorydb"
	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/table"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

const (
	testMaxTupleLength = 64
	testCapacity       = 256
	testPartitionID    = 5
)

var errWriteFailed = errors.New("write failed")

// toggleDB fails batch writes while failWrites is set
type toggleDB struct {
	*memorydb.Database

	failWrites *atomic.Bool
}

type toggleBatch struct {
	kvdb.Batch

	db *toggleDB
}

func (d *toggleDB) NewBatch() kvdb.Batch {
	return &toggleBatch{Batch: d.Database.NewBatch(), db: d}
}

func (b *toggleBatch) Write() error {
	if b.db.failWrites.Load() {
		return errWriteFailed
	}

	return b.Batch.Write()
}

// bloatSerializer pads the row of key past the max tuple length while bloat
// is set
type bloatSerializer struct {
	key   string
	bloat *atomic.Bool
}

func (s bloatSerializer) SerializeTo(dst []byte, tuple *types.Tuple) []byte {
	dst = tuple.MarshalRLPTo(dst)

	if s.bloat.Load() && string(tuple.Key) == s.key {
		dst = append(dst, make([]byte, testMaxTupleLength)...)
	}

	return dst
}

type fixture struct {
	db     *toggleDB
	tbl    *table.Table
	tuples []*types.Tuple
}

func testTuple(i int) *types.Tuple {
	return &types.Tuple{
		Key:    []byte(fmt.Sprintf("key-%04d", i)),
		Values: [][]byte{[]byte(fmt.Sprintf("value-%d", i))},
	}
}

func newUnindexedFixture(t *testing.T, n int) *fixture {
	t.Helper()

	config := table.DefaultConfig("orders")
	config.PartitionID = testPartitionID
	config.MaxTupleLength = testMaxTupleLength

	db := &toggleDB{Database: memorydb.New(), failWrites: atomic.NewBool(false)}

	tbl, err := table.NewTable(db, config, hclog.NewNullLogger(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		tbl.Close()
	})

	tuples := make([]*types.Tuple, 0, n)

	for i := 0; i < n; i++ {
		tuple := testTuple(i)
		require.NoError(t, tbl.Insert(tuple))

		tuples = append(tuples, tuple)
	}

	return &fixture{db: db, tbl: tbl, tuples: tuples}
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()

	f := newUnindexedFixture(t, n)

	require.NoError(t, f.tbl.CreateIndex())
	require.NoError(t, f.tbl.BuildIndex(context.Background()))

	return f
}

func (f *fixture) newContext(predicates ...string) *Context {
	return f.newContextWithSerializer(streamer.RLPSerializer{}, predicates...)
}

func (f *fixture) newContextWithSerializer(serializer streamer.TupleSerializer, predicates ...string) *Context {
	base := streamer.NewBaseContext(f.tbl, f.tbl.Surgeon(), serializer, predicates, hclog.NewNullLogger())

	return NewContext(base)
}

func (f *fixture) newStreamer() *streamer.Streamer {
	s := streamer.NewStreamer(f.tbl, f.tbl.Surgeon(), streamer.RLPSerializer{}, hclog.NewNullLogger(), nil)

	s.RegisterFactory(streamer.StreamElasticIndexRead, NewContextFactory())
	s.RegisterFactory(streamer.StreamElasticIndexClear, NewContextFactory())

	return s
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()

	count, err := f.tbl.Count()
	require.NoError(t, err)

	return count
}

// inRange returns the keys of the tuples inside the range in index order,
// valid for ranges that do not wrap
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

func newOutputs() (*streamer.OutputStreams, *streamer.TupleOutputStream) {
	output := streamer.NewTupleOutputStream(testCapacity)

	return streamer.NewOutputStreams(output), output
}

// decodeKeys decodes a stream written by a stream-more call
func decodeKeys(t *testing.T, output *streamer.TupleOutputStream, position int) []string {
	t.Helper()

	keys := make([]string, 0)

	if position == 0 {
		return keys
	}

	require.Equal(t, output.Position(), position)

	partitionID, tuples, err := streamer.DecodeStream(output.Bytes()[:position])
	require.NoError(t, err)
	require.Equal(t, int32(testPartitionID), partitionID)

	for _, tuple := range tuples {
		keys = append(keys, string(tuple.Key))
	}

	return keys
}

type streamMoreFunc func(outputs *streamer.OutputStreams) (streamer.StreamResult, []int)

// drainAll calls streamMore until it reports Done and returns the streamed
// keys together with the number of calls
func drainAll(t *testing.T, streamMore streamMoreFunc) ([]string, int) {
	t.Helper()

	keys := make([]string, 0)
	calls := 0

	for {
		outputs, output := newOutputs()

		result, positions := streamMore(outputs)
		calls++

		require.False(t, result.IsError(), "stream more failed: %v", result.Err)
		require.Len(t, positions, 1)

		keys = append(keys, decodeKeys(t, output, positions[0])...)

		if result.IsDone() {
			return keys, calls
		}

		require.Less(t, calls, 10000, "drain does not terminate")
	}
}

// keyInRange returns a key which is not in the table whose hash is inside the
// range
func keyInRange(t *testing.T, r types.HashRange, prefix string) []byte {
	t.Helper()

	for i := 0; i < 1000; i++ {
		key := []byte(fmt.Sprintf("%s-%d", prefix, i))
		if r.Contains(types.PartitionHash(key)) {
			return key
		}
	}

	t.Fatal("no key found in range")

	return nil
}
