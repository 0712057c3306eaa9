package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dogechain-lab/elasticdb/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func TestReadConfigFile_HCL(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.hcl", `
backend = "memory"
log_level = "DEBUG"
prometheus = "127.0.0.1:9090"
jaeger = "http://127.0.0.1:14268/api/traces"

table {
  name = "orders"
  partition_id = 3
}
`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, config.Backend)
	assert.Equal(t, "DEBUG", config.LogLevel)
	assert.Equal(t, "127.0.0.1:9090", config.PrometheusAddr)
	assert.Equal(t, "http://127.0.0.1:14268/api/traces", config.JaegerURL)
	assert.Equal(t, "orders", config.Table.Name)
	assert.Equal(t, 3, config.Table.PartitionID)

	// unset values keep their defaults
	assert.Equal(t, table.DefaultMaxTupleLength, config.Table.MaxTupleLength)
	assert.Equal(t, table.DefaultCacheSize, config.Table.CacheSize)
	assert.NotNil(t, config.Leveldb)
	assert.NoError(t, config.Validate())
}

func TestReadConfigFile_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.json", `{
  "data_dir": "/tmp/elastic",
  "table": {"name": "users", "max_tuple_length": 1024},
  "leveldb": {"cache_size": 64, "nosync": true}
}`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, BackendLevelDB, config.Backend)
	assert.Equal(t, "/tmp/elastic", config.DataDir)
	assert.Equal(t, "users", config.Table.Name)
	assert.Equal(t, 1024, config.Table.MaxTupleLength)
	assert.Equal(t, 64, config.Leveldb.CacheSize)
	assert.True(t, config.Leveldb.NoSync)
	assert.Equal(t, DefaultLogLevel, config.LogLevel)
}

func TestReadConfigFile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ReadConfigFile(writeFile(t, "config.yaml", "backend: memory"))
	assert.Error(t, err)

	_, err = ReadConfigFile(writeFile(t, "config.json", "{"))
	assert.Error(t, err)

	_, err = ReadConfigFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultConfig().Validate())

	config := DefaultConfig()
	config.Backend = "rocksdb"
	assert.ErrorIs(t, config.Validate(), ErrUnknownBackend)

	config = DefaultConfig()
	config.Table.Name = ""
	assert.ErrorIs(t, config.Validate(), table.ErrInvalidName)

	config = DefaultConfig()
	config.Table.MaxTupleLength = -1
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.Leveldb = nil
	assert.Error(t, config.Validate())

	config.Backend = BackendMemory
	assert.NoError(t, config.Validate())
}
