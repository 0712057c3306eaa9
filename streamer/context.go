package streamer

import (
	"github.com/dogechain-lab/elasticdb/table"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Table is the table a stream context serializes
type Table interface {
	Name() string
	PartitionID() int32
	MaxTupleLength() int
}

// Surgeon is the table mutation surface granted to stream contexts
type Surgeon interface {
	HasIndex() bool
	IsIndexingComplete() bool
	IndexRangeIterator(r types.HashRange) (table.RangeIterator, error)
	DeleteTuple(tuple *types.Tuple) error
	BulkDeleteToken() table.BulkDeleteToken
}

// Context is a table stream context. A context runs single threaded, the
// Streamer serializes every call.
type Context interface {
	// HandleActivation reacts to the activation of a stream type. Contexts
	// return ActivationUnsupported for stream types they do not handle.
	HandleActivation(streamType StreamType, reactivate bool) ActivationResult

	// HandleDeactivation reports whether the context must be kept alive after
	// the stream type is deactivated.
	HandleDeactivation(streamType StreamType) bool

	// HandleStreamMore serializes more tuples into the output streams and
	// returns the progress together with the stream positions.
	HandleStreamMore(outputs *OutputStreams) (StreamResult, []int)
}

// ContextFactory creates the context for a stream type on first activation
type ContextFactory func(base BaseContext) Context

// BaseContext carries the state every stream context shares
type BaseContext struct {
	id          string
	table       Table
	surgeon     Surgeon
	partitionID int32
	serializer  TupleSerializer
	predicates  []string
	logger      hclog.Logger
}

func NewBaseContext(
	tbl Table,
	surgeon Surgeon,
	serializer TupleSerializer,
	predicates []string,
	logger hclog.Logger,
) BaseContext {
	id := uuid.New().String()

	return BaseContext{
		id:          id,
		table:       tbl,
		surgeon:     surgeon,
		partitionID: tbl.PartitionID(),
		serializer:  serializer,
		predicates:  append([]string(nil), predicates...),
		logger:      logger.With("context", id, "table", tbl.Name()),
	}
}

func (c *BaseContext) ID() string {
	return c.id
}

func (c *BaseContext) Table() Table {
	return c.table
}

func (c *BaseContext) Surgeon() Surgeon {
	return c.surgeon
}

func (c *BaseContext) PartitionID() int32 {
	return c.partitionID
}

func (c *BaseContext) Serializer() TupleSerializer {
	return c.serializer
}

func (c *BaseContext) MaxTupleLength() int {
	return c.table.MaxTupleLength()
}

// PredicateStrings returns the raw predicates the context was created with
func (c *BaseContext) PredicateStrings() []string {
	return append([]string(nil), c.predicates...)
}

// Predicates returns the row filters applied to the output streams
func (c *BaseContext) Predicates() []StreamPredicate {
	return nil
}

// PredicateDeleteFlags returns the delete flags matching Predicates
func (c *BaseContext) PredicateDeleteFlags() []bool {
	return nil
}

func (c *BaseContext) Logger() hclog.Logger {
	return c.logger
}
