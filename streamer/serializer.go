package streamer

import "github.com/dogechain-lab/elasticdb/types"

// TupleSerializer encodes tuples into the stream wire format
type TupleSerializer interface {
	// SerializeTo appends the encoded tuple to dst
	SerializeTo(dst []byte, tuple *types.Tuple) []byte
}

// RLPSerializer writes tuples in their RLP storage encoding
type RLPSerializer struct{}

func (RLPSerializer) SerializeTo(dst []byte, tuple *types.Tuple) []byte {
	return tuple.MarshalRLPTo(dst)
}
