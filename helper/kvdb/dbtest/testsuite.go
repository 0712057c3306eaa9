// Package dbtest contains the conformance suite every kvdb backend must pass.
package dbtest

import (
	"bytes"
	"testing"

	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() kvdb.Database) {
	t.Helper()

	t.Run("GetSet", func(t *testing.T) {
		db := New()
		defer db.Close()

		var (
			key   = []byte("hello")
			value = []byte("world")
		)

		_, ok, err := db.Get(key)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, db.Set(key, value))

		v, ok, err := db.Get(key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, value, v)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("Delete", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("key")

		require.NoError(t, db.Set(key, []byte("value")))
		require.NoError(t, db.Delete(key))

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.False(t, has)

		// deleting a missing key is not an error
		assert.NoError(t, db.Delete([]byte("missing")))
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		require.NoError(t, db.Set([]byte("gone"), []byte("soon")))

		b := db.NewBatch()
		require.NoError(t, b.Set([]byte("a"), []byte("1")))
		require.NoError(t, b.Set([]byte("b"), []byte("2")))
		require.NoError(t, b.Delete([]byte("gone")))
		assert.Equal(t, 1+1+1+1+4, b.ValueSize())

		// nothing is visible before the write
		has, err := db.Has([]byte("a"))
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, b.Write())

		v, ok, err := db.Get([]byte("b"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("2"), v)

		has, err = db.Has([]byte("gone"))
		require.NoError(t, err)
		assert.False(t, has)

		b.Reset()
		assert.Equal(t, 0, b.ValueSize())
	})

	t.Run("Iterator", func(t *testing.T) {
		db := New()
		defer db.Close()

		keys := []string{"p1", "p3", "p2", "q1", "o9", "p4"}
		for _, k := range keys {
			require.NoError(t, db.Set([]byte(k), []byte("v"+k)))
		}

		collect := func(prefix, start string) []string {
			it := db.NewIterator([]byte(prefix), []byte(start))
			defer it.Release()

			res := []string{}
			for it.Next() {
				res = append(res, string(it.Key()))

				assert.True(t, bytes.Equal([]byte("v"+string(it.Key())), it.Value()))
			}

			assert.NoError(t, it.Error())

			return res
		}

		assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, collect("p", ""))
		assert.Equal(t, []string{"p3", "p4"}, collect("p", "3"))
		assert.Equal(t, []string{"o9", "p1", "p2", "p3", "p4", "q1"}, collect("", ""))
		assert.Equal(t, []string{}, collect("z", ""))
	})

	t.Run("IteratorSnapshot", func(t *testing.T) {
		db := New()
		defer db.Close()

		require.NoError(t, db.Set([]byte("a"), []byte("1")))
		require.NoError(t, db.Set([]byte("b"), []byte("2")))

		it := db.NewIterator(nil, nil)
		defer it.Release()

		require.NoError(t, db.Delete([]byte("b")))
		require.NoError(t, db.Set([]byte("c"), []byte("3")))

		seen := 0
		for it.Next() {
			seen++
		}

		assert.Equal(t, 2, seen)
	})
}
