package types

import (
	"fmt"

	"github.com/dogechain-lab/fastrlp"
	"github.com/spaolacci/murmur3"
)

// Tuple is a single table row. Key is the partitioning column, it decides
// which hash range the row belongs to.
type Tuple struct {
	Key    []byte
	Values [][]byte
}

// Hash returns the partitioning hash of the tuple key.
func (t *Tuple) Hash() int64 {
	return PartitionHash(t.Key)
}

// Copy returns a deep copy of the tuple
func (t *Tuple) Copy() *Tuple {
	return &Tuple{
		Key:    CopyBytes(t.Key),
		Values: CopyBytesList(t.Values),
	}
}

func (t *Tuple) String() string {
	return fmt.Sprintf("%x (%d columns)", t.Key, len(t.Values))
}

// PartitionHash maps a partitioning key onto the signed 64-bit hash ring.
func PartitionHash(key []byte) int64 {
	return int64(murmur3.Sum64(key))
}

func (t *Tuple) MarshalRLPWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewBytes(t.Key))

	cols := ar.NewArray()
	for _, col := range t.Values {
		cols.Set(ar.NewBytes(col))
	}

	v.Set(cols)

	return v
}

// MarshalRLPTo appends the RLP encoding of the tuple to dst
func (t *Tuple) MarshalRLPTo(dst []byte) []byte {
	ar := fastrlp.DefaultArenaPool.Get()
	defer fastrlp.DefaultArenaPool.Put(ar)

	return t.MarshalRLPWith(ar).MarshalTo(dst)
}

var tupleParserPool fastrlp.ParserPool

func (t *Tuple) UnmarshalRLP(b []byte) error {
	p := tupleParserPool.Get()
	defer tupleParserPool.Put(p)

	v, err := p.Parse(b)
	if err != nil {
		return err
	}

	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if len(elems) != 2 {
		return fmt.Errorf("incorrect number of elements to decode tuple, expected 2 but found %d",
			len(elems))
	}

	// key
	if t.Key, err = elems[0].GetBytes(t.Key[:0]); err != nil {
		return err
	}

	// columns
	cols, err := elems[1].GetElems()
	if err != nil {
		return err
	}

	t.Values = make([][]byte, 0, len(cols))

	for _, col := range cols {
		b, err := col.GetBytes(nil)
		if err != nil {
			return err
		}

		t.Values = append(t.Values, b)
	}

	return nil
}
