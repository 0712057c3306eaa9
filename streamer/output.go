package streamer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dogechain-lab/elasticdb/types"
)

const (
	// StreamHeaderSize is the partition id followed by the row count
	StreamHeaderSize = 8

	// RowHeaderSize is the length prefix of every row
	RowHeaderSize = 4
)

var (
	ErrStreamTooSmall = errors.New("output stream cannot hold a single max length tuple")
	ErrStreamNotOpen  = errors.New("output stream is not open")
	ErrRowTooLarge    = errors.New("serialized row exceeds the max tuple length")
	ErrStreamFull     = errors.New("output stream is full")
)

// StreamPredicate selects the rows an output stream receives
type StreamPredicate interface {
	Accept(tuple *types.Tuple) bool
}

// TupleOutputStream is a fixed capacity buffer of serialized rows.
//
// Layout: partition id (int32), row count (int32), then per row a
// big-endian uint32 length followed by the serialized tuple. The header is
// filled in by Close.
type TupleOutputStream struct {
	buf      []byte
	capacity int

	// scratch holds the row being serialized, buf never grows past capacity
	scratch []byte

	opened         bool
	partitionID    int32
	maxTupleLength int
	rowCount       int32
}

// NewTupleOutputStream creates a stream holding at most capacity bytes
func NewTupleOutputStream(capacity int) *TupleOutputStream {
	return &TupleOutputStream{
		buf:      make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Open resets the stream and reserves the header
func (s *TupleOutputStream) Open(partitionID int32, maxTupleLength int) error {
	if s.capacity < StreamHeaderSize+RowHeaderSize+maxTupleLength {
		return fmt.Errorf("%w: capacity %d, max tuple length %d",
			ErrStreamTooSmall, s.capacity, maxTupleLength)
	}

	s.buf = append(s.buf[:0], make([]byte, StreamHeaderSize)...)
	s.opened = true
	s.partitionID = partitionID
	s.maxTupleLength = maxTupleLength
	s.rowCount = 0

	return nil
}

// WriteRow appends the tuple. It returns true when the stream can no longer
// guarantee room for another max length row, the caller must then yield.
func (s *TupleOutputStream) WriteRow(serializer TupleSerializer, tuple *types.Tuple) (bool, error) {
	if !s.opened {
		return false, ErrStreamNotOpen
	}

	if s.capacity-len(s.buf) < RowHeaderSize+s.maxTupleLength {
		return true, ErrStreamFull
	}

	s.scratch = serializer.SerializeTo(s.scratch[:0], tuple)

	size := len(s.scratch)
	if size > s.maxTupleLength {
		return false, fmt.Errorf("%w: %d > %d", ErrRowTooLarge, size, s.maxTupleLength)
	}

	s.buf = binary.BigEndian.AppendUint32(s.buf, uint32(size))
	s.buf = append(s.buf, s.scratch...)
	s.rowCount++

	return s.capacity-len(s.buf) < RowHeaderSize+s.maxTupleLength, nil
}

// Close writes the header
func (s *TupleOutputStream) Close() {
	if !s.opened {
		return
	}

	binary.BigEndian.PutUint32(s.buf[0:], uint32(s.partitionID))
	binary.BigEndian.PutUint32(s.buf[4:], uint32(s.rowCount))
	s.opened = false
}

// Position is the number of bytes written, header included
func (s *TupleOutputStream) Position() int {
	return len(s.buf)
}

// Bytes returns the written bytes, valid until the stream is reopened
func (s *TupleOutputStream) Bytes() []byte {
	return s.buf
}

// RowCount returns the rows written since the stream was opened
func (s *TupleOutputStream) RowCount() int {
	return int(s.rowCount)
}

func (s *TupleOutputStream) Capacity() int {
	return s.capacity
}

// DecodeStream parses a closed stream back into its partition id and tuples
func DecodeStream(data []byte) (int32, []*types.Tuple, error) {
	partitionID, tuples, rest, err := decodeStream(data)
	if err != nil {
		return 0, nil, err
	}

	if len(rest) != 0 {
		return 0, nil, fmt.Errorf("%d trailing bytes after %d rows", len(rest), len(tuples))
	}

	return partitionID, tuples, nil
}

// DecodeStreams parses a sequence of closed streams written back to back
func DecodeStreams(data []byte) ([]*types.Tuple, error) {
	tuples := make([]*types.Tuple, 0)

	for len(data) > 0 {
		_, chunk, rest, err := decodeStream(data)
		if err != nil {
			return nil, err
		}

		tuples = append(tuples, chunk...)
		data = rest
	}

	return tuples, nil
}

func decodeStream(data []byte) (int32, []*types.Tuple, []byte, error) {
	if len(data) < StreamHeaderSize {
		return 0, nil, nil, fmt.Errorf("stream too short: %d bytes", len(data))
	}

	partitionID := int32(binary.BigEndian.Uint32(data[0:]))
	rowCount := int(binary.BigEndian.Uint32(data[4:]))
	tuples := make([]*types.Tuple, 0, rowCount)

	rest := data[StreamHeaderSize:]

	for i := 0; i < rowCount; i++ {
		if len(rest) < RowHeaderSize {
			return 0, nil, nil, fmt.Errorf("truncated row header at row %d", i)
		}

		size := int(binary.BigEndian.Uint32(rest))
		rest = rest[RowHeaderSize:]

		if len(rest) < size {
			return 0, nil, nil, fmt.Errorf("truncated row %d", i)
		}

		tuple := &types.Tuple{}
		if err := tuple.UnmarshalRLP(rest[:size]); err != nil {
			return 0, nil, nil, fmt.Errorf("row %d: %w", i, err)
		}

		tuples = append(tuples, tuple)
		rest = rest[size:]
	}

	return partitionID, tuples, rest, nil
}

// OutputStreams is the set of destination streams of a stream-more call.
// Stream i receives the rows accepted by predicate i, every stream receives
// every row when no predicates are set.
type OutputStreams struct {
	streams     []*TupleOutputStream
	predicates  []StreamPredicate
	deleteFlags []bool
	serializer  TupleSerializer
}

func NewOutputStreams(streams ...*TupleOutputStream) *OutputStreams {
	return &OutputStreams{streams: streams}
}

// Len returns the number of streams, a nil set has none
func (o *OutputStreams) Len() int {
	if o == nil {
		return 0
	}

	return len(o.streams)
}

func (o *OutputStreams) At(i int) *TupleOutputStream {
	return o.streams[i]
}

// Open opens every stream against the table serialization parameters
func (o *OutputStreams) Open(
	maxTupleLength int,
	partitionID int32,
	serializer TupleSerializer,
	predicates []StreamPredicate,
	deleteFlags []bool,
) error {
	if len(predicates) > 0 && len(predicates) != len(o.streams) {
		return fmt.Errorf("%d predicates for %d streams", len(predicates), len(o.streams))
	}

	for _, s := range o.streams {
		if err := s.Open(partitionID, maxTupleLength); err != nil {
			return err
		}
	}

	o.predicates = predicates
	o.deleteFlags = deleteFlags
	o.serializer = serializer

	return nil
}

// WriteRow writes the tuple to every stream that accepts it. It returns
// whether the caller must yield and whether an accepting predicate asked for
// the row to be deleted.
func (o *OutputStreams) WriteRow(tuple *types.Tuple) (yield bool, deleteRow bool, err error) {
	for i, s := range o.streams {
		if len(o.predicates) > 0 {
			if !o.predicates[i].Accept(tuple) {
				continue
			}

			if i < len(o.deleteFlags) && o.deleteFlags[i] {
				deleteRow = true
			}
		}

		full, err := s.WriteRow(o.serializer, tuple)
		if err != nil {
			return false, false, err
		}

		yield = yield || full
	}

	return yield, deleteRow, nil
}

// Close closes every stream
func (o *OutputStreams) Close() {
	for _, s := range o.streams {
		s.Close()
	}
}

// Positions returns the write position of every stream
func (o *OutputStreams) Positions() []int {
	positions := make([]int, 0, len(o.streams))
	for _, s := range o.streams {
		positions = append(positions, s.Position())
	}

	return positions
}
