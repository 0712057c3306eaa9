package streamer

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// stream binds an activated stream type to the context serving it
type stream struct {
	streamType StreamType
	context    Context
}

// Streamer dispatches the activate / stream-more / deactivate calls of one
// table to its stream contexts.
type Streamer struct {
	table      Table
	surgeon    Surgeon
	serializer TupleSerializer
	logger     hclog.Logger
	metrics    *Metrics

	factories map[StreamType]ContextFactory

	lock     sync.Mutex
	contexts []Context
	streams  []stream
}

func NewStreamer(
	tbl Table,
	surgeon Surgeon,
	serializer TupleSerializer,
	logger hclog.Logger,
	metrics *Metrics,
) *Streamer {
	return &Streamer{
		table:      tbl,
		surgeon:    surgeon,
		serializer: serializer,
		logger:     logger.Named("streamer"),
		metrics:    NewDummyMetrics(metrics),
		factories:  make(map[StreamType]ContextFactory),
	}
}

// RegisterFactory sets the factory creating contexts for the stream type
func (s *Streamer) RegisterFactory(streamType StreamType, factory ContextFactory) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.factories[streamType] = factory
}

// Activate activates the stream type. Live contexts are offered the
// activation first, a new context is created only when none of them handles
// the stream type.
func (s *Streamer) Activate(streamType StreamType, reactivate bool, predicates []string) ActivationResult {
	s.lock.Lock()
	defer s.lock.Unlock()

	result := s.activate(streamType, reactivate, predicates)
	s.metrics.ActivationInc(result)

	s.logger.Debug("stream activation",
		"type", streamType.String(),
		"reactivate", reactivate,
		"result", result.String(),
	)

	return result
}

func (s *Streamer) activate(streamType StreamType, reactivate bool, predicates []string) ActivationResult {
	for _, ctx := range s.contexts {
		result := ctx.HandleActivation(streamType, reactivate)
		if result == ActivationUnsupported {
			continue
		}

		if result == ActivationSucceeded {
			s.bind(streamType, ctx)
		}

		return result
	}

	factory, ok := s.factories[streamType]
	if !ok {
		return ActivationUnsupported
	}

	ctx := factory(NewBaseContext(s.table, s.surgeon, s.serializer, predicates, s.logger))

	result := ctx.HandleActivation(streamType, reactivate)
	if result == ActivationSucceeded {
		s.contexts = append(s.contexts, ctx)
		s.bind(streamType, ctx)
	}

	return result
}

func (s *Streamer) bind(streamType StreamType, ctx Context) {
	for _, st := range s.streams {
		if st.streamType == streamType && st.context == ctx {
			return
		}
	}

	s.streams = append(s.streams, stream{streamType: streamType, context: ctx})
}

func (s *Streamer) find(streamType StreamType) Context {
	for _, st := range s.streams {
		if st.streamType == streamType {
			return st.context
		}
	}

	return nil
}

// IsActive reports whether a context serves the stream type
func (s *Streamer) IsActive(streamType StreamType) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.find(streamType) != nil
}

// StreamMore continues the stream of the given type into the outputs
func (s *Streamer) StreamMore(streamType StreamType, outputs *OutputStreams) (StreamResult, []int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ctx := s.find(streamType)
	if ctx == nil {
		s.metrics.StreamErrorsInc()

		return Failure(ErrNoActiveStream), nil
	}

	start := time.Now()
	result, positions := ctx.HandleStreamMore(outputs)

	s.metrics.StreamMoreSecondsObserve(time.Since(start).Seconds())

	if result.IsError() {
		s.metrics.StreamErrorsInc()
	} else {
		for i := 0; i < outputs.Len() && i < len(positions); i++ {
			// a stream left unopened still holds the rows of the last call
			if positions[i] <= 0 {
				continue
			}

			s.metrics.BytesStreamedAdd(float64(positions[i]))
			s.metrics.TuplesStreamedAdd(float64(outputs.At(i).RowCount()))
		}
	}

	return result, positions
}

// Deactivate deactivates the stream type. Contexts that do not ask to be kept
// alive are discarded together with every stream they serve. It reports
// whether a stream of the type was active.
func (s *Streamer) Deactivate(streamType StreamType) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	found := false
	discard := make([]Context, 0)

	for _, st := range s.streams {
		if st.streamType != streamType {
			continue
		}

		found = true

		if !st.context.HandleDeactivation(streamType) {
			discard = append(discard, st.context)
		}
	}

	for _, ctx := range discard {
		s.drop(ctx)
	}

	return found
}

// Discard drops the contexts serving the stream type without deactivating
// them. It reports whether a stream of the type was active.
func (s *Streamer) Discard(streamType StreamType) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	found := false

	for {
		ctx := s.find(streamType)
		if ctx == nil {
			return found
		}

		found = true

		s.drop(ctx)
	}
}

func (s *Streamer) drop(ctx Context) {
	streams := s.streams[:0]

	for _, st := range s.streams {
		if st.context != ctx {
			streams = append(streams, st)
		}
	}

	s.streams = streams

	contexts := s.contexts[:0]

	for _, c := range s.contexts {
		if c != ctx {
			contexts = append(contexts, c)
		}
	}

	s.contexts = contexts
}

// Contexts returns the number of live contexts
func (s *Streamer) Contexts() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.contexts)
}
