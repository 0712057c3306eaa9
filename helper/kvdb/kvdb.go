// Package kvdb defines the ordered key-value storage the tables are kept in.
// Every table keeps its encoded rows under its own key prefix.
package kvdb

import (
	"errors"
	"io"
)

var (
	// ErrClosed is returned by a backend which has already been closed
	ErrClosed = errors.New("database closed")
)

type KVReader interface {
	Has(key []byte) (bool, error)

	// Get returns the stored value and whether the key exists. A missing key
	// is not an error.
	Get(key []byte) (value []byte, exists bool, err error)
}

type KVWriter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch stages writes that are applied all at once by Write. A failed
// Write applies nothing.
type Batch interface {
	KVWriter

	// ValueSize is the size of the staged keys and values
	ValueSize() int

	Write() error

	// Reset drops the staged writes so the batch can be reused
	Reset()
}

type Batcher interface {
	NewBatch() Batch
}

// Iterator walks keys in bytewise ascending order
type Iterator interface {
	// Next moves to the next pair and returns false once exhausted
	Next() bool

	// Key and Value are only valid until the next call to Next, callers
	// copy what they keep
	Key() []byte
	Value() []byte

	// Release may be called more than once
	Release()

	// Error returns the error that stopped the iteration, exhaustion is not
	// an error
	Error() error
}

type Iteratee interface {
	// NewIterator iterates the keys carrying prefix, starting at prefix+start.
	// The iterator observes the content of the store when it is created.
	NewIterator(prefix, start []byte) Iterator
}

type Reader interface {
	KVReader
	Iteratee
}

type Writer interface {
	KVWriter
	Batcher
}

// Database is the storage a table is opened on
type Database interface {
	Reader
	Writer
	io.Closer
}
