package leveldb

import (
	"testing"

	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/dogechain-lab/elasticdb/helper/kvdb/dbtest"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

func TestLevelDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() kvdb.Database {
			db, err := NewMemory()
			if err != nil {
				t.Fatal(err)
			}

			return db
		})
	})
}

func TestLevelDB_OpenFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	db, err := New(dir, SetLogger(hclog.NewNullLogger()), SetCacheSize(32), SetNoSync(true))
	assert.NoError(t, err)

	assert.NoError(t, db.Set([]byte("k"), []byte("v")))
	assert.NoError(t, db.Close())

	db, err = New(dir, SetReadonly(true))
	assert.NoError(t, err)

	defer db.Close()

	v, ok, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestLevelDB_InvalidOption(t *testing.T) {
	t.Parallel()

	_, err := NewMemory(SetCacheSize(0))
	assert.Error(t, err)

	_, err = NewMemory(SetHandles(-1))
	assert.Error(t, err)
}

func TestLevelDB_Closed(t *testing.T) {
	t.Parallel()

	db, err := NewMemory()
	assert.NoError(t, err)
	assert.NoError(t, db.Close())

	_, _, err = db.Get([]byte("k"))
	assert.ErrorIs(t, err, kvdb.ErrClosed)
	assert.ErrorIs(t, db.Set([]byte("k"), nil), kvdb.ErrClosed)
}

func TestNewDBOption(t *testing.T) {
	t.Parallel()

	o, err := newDBOption([]Option{
		SetCacheSize(32),
		SetCompactionTableSize(8),
		SetHandles(64),
		nil,
		SetNoSync(true),
	})
	assert.NoError(t, err)

	assert.Equal(t, 32*opt.MiB, o.options.BlockCacheCapacity)
	assert.Equal(t, 8*opt.MiB, o.options.CompactionTableSize)
	assert.Equal(t, 16*opt.MiB, o.options.WriteBuffer)
	assert.Equal(t, 64, o.options.OpenFilesCacheCapacity)
	assert.True(t, o.options.NoSync)
	assert.Equal(t, []interface{}{
		"cacheSize", 32,
		"compactionTableSize", 8,
		"handles", 64,
		"noSync", true,
	}, o.applied)
}
