package elastic

import (
	"fmt"

	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/table"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/hashicorp/go-hclog"
)

// Phase is the lifecycle position of an index read context
type Phase int

const (
	PhaseUnactivated Phase = iota
	PhaseReading
	PhaseMaterialized
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseUnactivated:
		return "unactivated"
	case PhaseReading:
		return "reading"
	case PhaseMaterialized:
		return "materialized"
	case PhaseCleared:
		return "cleared"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Context streams every row of one hash range out of the elastic index and,
// once the range was fully streamed, deletes those rows together with their
// index entries.
type Context struct {
	streamer.BaseContext

	logger hclog.Logger

	rng  types.HashRange
	iter table.RangeIterator

	// pending is a row fetched from the iterator but not written yet
	pending *types.Tuple

	materialized bool
	cleared      bool
}

// NewContext creates an unactivated index read context
func NewContext(base streamer.BaseContext) *Context {
	return &Context{
		BaseContext: base,
		logger:      base.Logger().Named("elastic"),
	}
}

// NewContextFactory returns the factory the streamer creates index read
// contexts with
func NewContextFactory() streamer.ContextFactory {
	return func(base streamer.BaseContext) streamer.Context {
		return NewContext(base)
	}
}

// Phase returns the current lifecycle phase
func (c *Context) Phase() Phase {
	switch {
	case c.cleared:
		return PhaseCleared
	case c.materialized:
		return PhaseMaterialized
	case c.iter != nil:
		return PhaseReading
	default:
		return PhaseUnactivated
	}
}

// Range returns the hash range parsed at read activation
func (c *Context) Range() types.HashRange {
	return c.rng
}

// IsMaterialized reports whether every row in range was streamed
func (c *Context) IsMaterialized() bool {
	return c.materialized
}

func (c *Context) HandleActivation(streamType streamer.StreamType, reactivate bool) streamer.ActivationResult {
	switch streamType {
	case streamer.StreamElasticIndexRead:
		return c.activateRead(reactivate)
	case streamer.StreamElasticIndexClear:
		return c.activateClear()
	default:
		return streamer.ActivationUnsupported
	}
}

func (c *Context) indexReady() bool {
	surgeon := c.Surgeon()

	if !surgeon.HasIndex() || !surgeon.IsIndexingComplete() {
		c.logger.Error("elastic index consumption is not allowed until index generation completes")

		return false
	}

	return true
}

func (c *Context) activateRead(reactivate bool) streamer.ActivationResult {
	if reactivate {
		c.logger.Error("not allowed to reactivate an index read stream")

		return streamer.ActivationFailed
	}

	if c.Phase() != PhaseUnactivated {
		c.logger.Error("index read stream already activated", "phase", c.Phase().String())

		return streamer.ActivationFailed
	}

	if !c.indexReady() {
		return streamer.ActivationFailed
	}

	rng, err := ParseHashRange(c.PredicateStrings())
	if err != nil {
		c.logger.Error("unable to parse index read predicate", "err", err)

		return streamer.ActivationFailed
	}

	iter, err := c.Surgeon().IndexRangeIterator(rng)
	if err != nil {
		c.logger.Error("unable to create index range iterator", "range", rng.String(), "err", err)

		return streamer.ActivationFailed
	}

	c.rng = rng
	c.iter = iter

	c.logger.Info("index read stream activated", "range", rng.String())

	return streamer.ActivationSucceeded
}

func (c *Context) activateClear() streamer.ActivationResult {
	if !c.indexReady() {
		return streamer.ActivationFailed
	}

	if c.Phase() != PhaseMaterialized {
		c.logger.Error("not allowed to clear the index range until it was fully materialized",
			"phase", c.Phase().String(),
		)

		return streamer.ActivationFailed
	}

	deleted, err := c.deleteStreamedTuples()
	if err != nil {
		c.logger.Error("unable to delete streamed tuples", "range", c.rng.String(), "err", err)

		return streamer.ActivationFailed
	}

	c.iter = nil
	c.cleared = true

	c.logger.Info("index range cleared", "range", c.rng.String(), "rows", deleted)

	return streamer.ActivationSucceeded
}

// HandleDeactivation keeps the context alive after the read stream so the
// range can still be cleared, and discards it after the clear stream.
func (c *Context) HandleDeactivation(streamType streamer.StreamType) bool {
	switch streamType {
	case streamer.StreamElasticIndexRead:
		return true
	case streamer.StreamElasticIndexClear:
		return false
	default:
		panic(fmt.Sprintf("unexpected stream type %s in index read context deactivation", streamType))
	}
}
