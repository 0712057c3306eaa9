package streamer

import (
	"fmt"
	"testing"

	"github.com/dogechain-lab/elasticdb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTuple(i int) *types.Tuple {
	return &types.Tuple{
		Key:    []byte(fmt.Sprintf("key-%04d", i)),
		Values: [][]byte{[]byte(fmt.Sprintf("value-%d", i))},
	}
}

type keyPrefixPredicate string

func (p keyPrefixPredicate) Accept(tuple *types.Tuple) bool {
	return len(tuple.Key) >= len(p) && string(tuple.Key[:len(p)]) == string(p)
}

func TestTupleOutputStream_TooSmall(t *testing.T) {
	t.Parallel()

	s := NewTupleOutputStream(StreamHeaderSize + RowHeaderSize + 15)

	assert.ErrorIs(t, s.Open(1, 16), ErrStreamTooSmall)
	assert.NoError(t, s.Open(1, 15))
}

func TestTupleOutputStream_NotOpen(t *testing.T) {
	t.Parallel()

	s := NewTupleOutputStream(1024)

	_, err := s.WriteRow(RLPSerializer{}, testTuple(0))
	assert.ErrorIs(t, err, ErrStreamNotOpen)
}

func TestTupleOutputStream_WriteAndDecode(t *testing.T) {
	t.Parallel()

	s := NewTupleOutputStream(4096)
	require.NoError(t, s.Open(7, 64))

	for i := 0; i < 5; i++ {
		yield, err := s.WriteRow(RLPSerializer{}, testTuple(i))
		require.NoError(t, err)
		assert.False(t, yield)
	}

	s.Close()

	assert.Equal(t, 5, s.RowCount())
	assert.Equal(t, len(s.Bytes()), s.Position())

	partitionID, tuples, err := DecodeStream(s.Bytes())
	require.NoError(t, err)

	assert.Equal(t, int32(7), partitionID)
	require.Len(t, tuples, 5)

	for i, tuple := range tuples {
		assert.Equal(t, testTuple(i), tuple)
	}
}

func TestTupleOutputStream_Yield(t *testing.T) {
	t.Parallel()

	// room for one max length row plus a short one
	maxTupleLength := 64
	s := NewTupleOutputStream(StreamHeaderSize + 2*RowHeaderSize + maxTupleLength + 20)
	require.NoError(t, s.Open(0, maxTupleLength))

	yield, err := s.WriteRow(RLPSerializer{}, testTuple(0))
	require.NoError(t, err)
	assert.False(t, yield)

	yield, err = s.WriteRow(RLPSerializer{}, testTuple(1))
	require.NoError(t, err)
	assert.True(t, yield)

	_, err = s.WriteRow(RLPSerializer{}, testTuple(2))
	assert.ErrorIs(t, err, ErrStreamFull)
	assert.Equal(t, 2, s.RowCount())
}

func TestTupleOutputStream_RowTooLarge(t *testing.T) {
	t.Parallel()

	s := NewTupleOutputStream(1024)
	require.NoError(t, s.Open(0, 8))

	before := s.Position()

	_, err := s.WriteRow(RLPSerializer{}, testTuple(0))
	assert.ErrorIs(t, err, ErrRowTooLarge)
	assert.Equal(t, before, s.Position())
	assert.Equal(t, 0, s.RowCount())
}

// oversizedSerializer emits rows far larger than any stream capacity
type oversizedSerializer struct{}

func (oversizedSerializer) SerializeTo(dst []byte, _ *types.Tuple) []byte {
	return append(dst, make([]byte, 4096)...)
}

func TestTupleOutputStream_OversizedRowKeepsCapacity(t *testing.T) {
	t.Parallel()

	capacity := StreamHeaderSize + RowHeaderSize + 64
	s := NewTupleOutputStream(capacity)
	require.NoError(t, s.Open(0, 64))

	_, err := s.WriteRow(oversizedSerializer{}, testTuple(0))
	assert.ErrorIs(t, err, ErrRowTooLarge)

	assert.Equal(t, capacity, cap(s.Bytes()))
	assert.Equal(t, StreamHeaderSize, s.Position())

	// the stream still takes a row that fits
	_, err = s.WriteRow(RLPSerializer{}, testTuple(1))
	require.NoError(t, err)
	assert.Equal(t, capacity, cap(s.Bytes()))
	assert.Equal(t, 1, s.RowCount())
}

func TestOutputStreams_NilLen(t *testing.T) {
	t.Parallel()

	var outputs *OutputStreams

	assert.Equal(t, 0, outputs.Len())
}

func TestTupleOutputStream_Reopen(t *testing.T) {
	t.Parallel()

	s := NewTupleOutputStream(1024)
	require.NoError(t, s.Open(0, 64))

	_, err := s.WriteRow(RLPSerializer{}, testTuple(0))
	require.NoError(t, err)
	s.Close()

	require.NoError(t, s.Open(0, 64))
	s.Close()

	assert.Equal(t, StreamHeaderSize, s.Position())
	assert.Equal(t, 0, s.RowCount())
}

func TestDecodeStream_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"short header":     {0, 0, 0},
		"missing row":      {0, 0, 0, 0, 0, 0, 0, 1},
		"truncated row":    {0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 9, 0xc0},
		"trailing bytes":   {0, 0, 0, 0, 0, 0, 0, 0, 1},
		"invalid encoding": {0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0xc0},
	}

	for name, data := range cases {
		data := data

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := DecodeStream(data)
			assert.Error(t, err)
		})
	}
}

func TestOutputStreams_Predicates(t *testing.T) {
	t.Parallel()

	a := NewTupleOutputStream(4096)
	b := NewTupleOutputStream(4096)
	outputs := NewOutputStreams(a, b)

	require.NoError(t, outputs.Open(
		64, 3, RLPSerializer{},
		[]StreamPredicate{keyPrefixPredicate("key-000"), keyPrefixPredicate("key-001")},
		[]bool{false, true},
	))

	_, deleteRow, err := outputs.WriteRow(testTuple(1))
	require.NoError(t, err)
	assert.False(t, deleteRow)

	_, deleteRow, err = outputs.WriteRow(testTuple(12))
	require.NoError(t, err)
	assert.True(t, deleteRow)

	outputs.Close()

	assert.Equal(t, 1, a.RowCount())
	assert.Equal(t, 1, b.RowCount())
	assert.Equal(t, []int{a.Position(), b.Position()}, outputs.Positions())
}

func TestOutputStreams_PredicateCountMismatch(t *testing.T) {
	t.Parallel()

	outputs := NewOutputStreams(NewTupleOutputStream(4096))

	err := outputs.Open(64, 0, RLPSerializer{},
		[]StreamPredicate{keyPrefixPredicate("a"), keyPrefixPredicate("b")}, nil)
	assert.Error(t, err)
}

func TestDecodeStreams(t *testing.T) {
	t.Parallel()

	data := make([]byte, 0)

	for chunk := 0; chunk < 3; chunk++ {
		s := NewTupleOutputStream(1024)
		require.NoError(t, s.Open(0, 64))

		for i := 0; i < chunk; i++ {
			_, err := s.WriteRow(RLPSerializer{}, testTuple(chunk*10+i))
			require.NoError(t, err)
		}

		s.Close()

		data = append(data, s.Bytes()...)
	}

	tuples, err := DecodeStreams(data)
	require.NoError(t, err)

	assert.Equal(t, []*types.Tuple{testTuple(10), testTuple(20), testTuple(21)}, tuples)

	_, err = DecodeStreams(data[:len(data)-1])
	assert.Error(t, err)
}
