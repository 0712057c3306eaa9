package streamer

import (
	"errors"
	"fmt"
)

// StreamType identifies the kind of table stream a caller activates
type StreamType int

const (
	StreamSnapshot StreamType = iota
	StreamRecovery
	StreamElasticIndex
	StreamElasticIndexRead
	StreamElasticIndexClear
)

func (t StreamType) String() string {
	switch t {
	case StreamSnapshot:
		return "snapshot"
	case StreamRecovery:
		return "recovery"
	case StreamElasticIndex:
		return "elastic-index"
	case StreamElasticIndexRead:
		return "elastic-index-read"
	case StreamElasticIndexClear:
		return "elastic-index-clear"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ActivationResult is the outcome of a stream activation
type ActivationResult int

const (
	ActivationSucceeded ActivationResult = iota
	ActivationFailed
	ActivationUnsupported
)

func (r ActivationResult) String() string {
	switch r {
	case ActivationSucceeded:
		return "succeeded"
	case ActivationFailed:
		return "failed"
	case ActivationUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

var (
	ErrNotActivated      = errors.New("stream context was not activated")
	ErrOutputStreamCount = errors.New("expects exactly one output stream")
	ErrNoActiveStream    = errors.New("no active stream of the requested type")
)

// StreamStatus is the progress reported by a stream-more call
type StreamStatus int

const (
	StreamError StreamStatus = iota
	StreamDone
	StreamMoreRemains
)

// StreamResult is the tagged outcome of a stream-more call. Callers must tell
// Done and Error apart before acting on it.
type StreamResult struct {
	Status StreamStatus

	// Err is set when Status is StreamError
	Err error
}

// MoreRemains reports that tuples remain to be streamed
func MoreRemains() StreamResult {
	return StreamResult{Status: StreamMoreRemains}
}

// Done reports that the stream is exhausted
func Done() StreamResult {
	return StreamResult{Status: StreamDone}
}

// Failure reports a stream error
func Failure(err error) StreamResult {
	return StreamResult{Status: StreamError, Err: err}
}

func (r StreamResult) IsDone() bool {
	return r.Status == StreamDone
}

func (r StreamResult) IsError() bool {
	return r.Status == StreamError
}

// Remaining returns the numeric encoding: 1 when more remains, 0 when done
// and -1 on error.
func (r StreamResult) Remaining() int64 {
	switch r.Status {
	case StreamMoreRemains:
		return 1
	case StreamDone:
		return 0
	default:
		return -1
	}
}

func (r StreamResult) String() string {
	switch r.Status {
	case StreamMoreRemains:
		return "more-remains"
	case StreamDone:
		return "done"
	default:
		return fmt.Sprintf("error(%v)", r.Err)
	}
}
