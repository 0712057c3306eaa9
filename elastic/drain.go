package elastic

import (
	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/types"
)

// next returns the row to write next, the row left over by a failed write
// first
func (c *Context) next() (*types.Tuple, bool) {
	if c.pending != nil {
		tuple := c.pending
		c.pending = nil

		return tuple, true
	}

	tuple := &types.Tuple{}
	if !c.iter.Next(tuple) {
		return nil, false
	}

	return tuple, true
}

// HandleStreamMore serializes rows of the range into the single output
// stream until the stream asks to yield or the range is exhausted.
func (c *Context) HandleStreamMore(outputs *streamer.OutputStreams) (streamer.StreamResult, []int) {
	if c.iter == nil {
		c.logger.Error("attempted to begin serialization without activating the context")

		return streamer.Failure(streamer.ErrNotActivated), nil
	}

	if outputs.Len() != 1 {
		c.logger.Error("stream more expects exactly one output stream", "streams", outputs.Len())

		return streamer.Failure(streamer.ErrOutputStreamCount), nil
	}

	result, opened := c.streamMore(outputs)

	// nothing was written when the stream was never opened
	positions := []int{0}
	if opened {
		positions[0] = outputs.At(0).Position()
	}

	if result.IsDone() && !c.materialized {
		c.materialized = true

		c.logger.Info("index range materialized", "range", c.rng.String())
	}

	return result, positions
}

func (c *Context) streamMore(outputs *streamer.OutputStreams) (streamer.StreamResult, bool) {
	tuple, ok := c.next()
	if !ok {
		return c.exhausted(), false
	}

	if err := outputs.Open(
		c.MaxTupleLength(),
		c.PartitionID(),
		c.Serializer(),
		c.Predicates(),
		c.PredicateDeleteFlags(),
	); err != nil {
		c.pending = tuple

		return streamer.Failure(err), false
	}

	defer outputs.Close()

	for {
		yield, _, err := outputs.WriteRow(tuple)
		if err != nil {
			c.pending = tuple
			c.logger.Error("unable to write row", "key", tuple.String(), "err", err)

			return streamer.Failure(err), true
		}

		if yield {
			return streamer.MoreRemains(), true
		}

		if tuple, ok = c.next(); !ok {
			return c.exhausted(), true
		}
	}
}

func (c *Context) exhausted() streamer.StreamResult {
	if err := c.iter.Error(); err != nil {
		c.logger.Error("index range iteration failed", "range", c.rng.String(), "err", err)

		return streamer.Failure(err)
	}

	return streamer.Done()
}
