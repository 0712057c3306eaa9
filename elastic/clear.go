package elastic

import (
	"fmt"

	"github.com/dogechain-lab/elasticdb/types"
)

// deleteStreamedTuples removes every row of the streamed range together with
// the range's index entries. Delete notifications stay suppressed until the token
// is released. The removal is all-or-nothing.
func (c *Context) deleteStreamedTuples() (int, error) {
	token := c.Surgeon().BulkDeleteToken()
	defer token.Release()

	c.iter.Reset()

	deleted := 0
	tuple := &types.Tuple{}

	for c.iter.Next(tuple) {
		if err := token.DeleteTuple(tuple); err != nil {
			return 0, fmt.Errorf("stage delete of %s: %w", tuple.String(), err)
		}

		deleted++
	}

	if err := c.iter.Error(); err != nil {
		return 0, fmt.Errorf("iterate range %s: %w", c.rng.String(), err)
	}

	if err := token.EraseOnCommit(c.iter); err != nil {
		return 0, err
	}

	if err := token.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete of %d rows: %w", deleted, err)
	}

	return deleted, nil
}
