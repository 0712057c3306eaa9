package drain

import (
	"testing"

	"github.com/dogechain-lab/elasticdb/elastic"
	"github.com/stretchr/testify/assert"
)

func TestDrainParams_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&drainParams{rangeRaw: "0:100", capacity: 1}).validateFlags())
	assert.ErrorIs(t, (&drainParams{rangeRaw: "0-100", capacity: 1}).validateFlags(), elastic.ErrInvalidRange)
	assert.ErrorIs(t, (&drainParams{rangeRaw: "0:100"}).validateFlags(), errInvalidCapacity)
	assert.ErrorIs(t, (&drainParams{rangeRaw: "0:100", capacity: 1, timeout: -1}).validateFlags(), errInvalidTimeout)
}
