package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntheticTuple(t *testing.T) {
	t.Parallel()

	tuple := syntheticTuple("row", 42, 3, 8, false)

	assert.Equal(t, "row-0000000042", string(tuple.Key))
	assert.Len(t, tuple.Values, 3)

	for _, v := range tuple.Values {
		assert.Len(t, v, 8)
	}
}

func TestSyntheticTuple_Jitter(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		tuple := syntheticTuple("row", i, 2, 10, true)

		for _, v := range tuple.Values {
			assert.GreaterOrEqual(t, len(v), 5)
			assert.LessOrEqual(t, len(v), 10)
		}
	}

	assert.Equal(t, 1, jitteredSize(1, true))
	assert.Equal(t, 10, jitteredSize(10, false))
}

func TestLoadParams_Validate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, (&loadParams{rows: 0, columns: 1}).validateFlags(), errInvalidRows)
	assert.ErrorIs(t, (&loadParams{rows: 1, columns: 1, valueSize: -1}).validateFlags(), errInvalidValueSize)
	assert.ErrorIs(t, (&loadParams{rows: 1, columns: 0}).validateFlags(), errInvalidColumns)
	assert.NoError(t, (&loadParams{rows: 1, columns: 1}).validateFlags())
}
