package table

import (
	"sync"

	"go.uber.org/atomic"
)

// subscriptionBufferSize is the number of undelivered events a subscription
// holds before new events are dropped for it
const subscriptionBufferSize = 1024

// DeleteEvent is the notification passed to listeners when a row is deleted
type DeleteEvent struct {
	// Key is the partitioning key of the deleted row
	Key []byte

	// Hash is the partitioning hash of the deleted row
	Hash int64
}

// Subscription is the table delete notification subscription interface
type Subscription interface {
	GetEvent() <-chan *DeleteEvent

	IsClosed() bool
	Unsubscribe()
}

// subscription is the table event subscription object
type subscription struct {
	// Channel for update information
	// close from eventStream
	updateCh chan *DeleteEvent

	// closed is a flag that indicates if the subscription is closed
	closed *atomic.Bool

	stream *eventStream
}

// GetEvent returns the event from the subscription (BLOCKING)
func (s *subscription) GetEvent() <-chan *DeleteEvent {
	return s.updateCh
}

// IsClosed returns true if the subscription is closed
func (s *subscription) IsClosed() bool {
	return s.closed.Load()
}

// Unsubscribe closes the subscription
func (s *subscription) Unsubscribe() {
	if s.closed.CompareAndSwap(false, true) {
		s.stream.remove(s)
	}
}

// eventStream fans delete notifications out to the subscriptions. Delivery
// never blocks the writer, a full subscription misses the event.
type eventStream struct {
	lock sync.RWMutex

	subs map[*subscription]struct{}

	isClosed *atomic.Bool
}

func newEventStream() *eventStream {
	return &eventStream{
		subs:     make(map[*subscription]struct{}),
		isClosed: atomic.NewBool(false),
	}
}

func (e *eventStream) subscribe() *subscription {
	sub := &subscription{
		updateCh: make(chan *DeleteEvent, subscriptionBufferSize),
		closed:   atomic.NewBool(false),
		stream:   e,
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.isClosed.Load() {
		sub.closed.Store(true)
		close(sub.updateCh)

		return sub
	}

	e.subs[sub] = struct{}{}

	return sub
}

func (e *eventStream) remove(sub *subscription) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if _, ok := e.subs[sub]; ok {
		delete(e.subs, sub)
		close(sub.updateCh)
	}
}

// push delivers the event and returns the number of subscriptions that
// missed it
func (e *eventStream) push(event *DeleteEvent) int {
	e.lock.RLock()
	defer e.lock.RUnlock()

	dropped := 0

	for sub := range e.subs {
		select {
		case sub.updateCh <- event:
		default:
			dropped++
		}
	}

	return dropped
}

func (e *eventStream) close() {
	if !e.isClosed.CompareAndSwap(false, true) {
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	for sub := range e.subs {
		sub.closed.Store(true)
		close(sub.updateCh)
	}

	e.subs = make(map[*subscription]struct{})
}
