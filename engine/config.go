package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dogechain-lab/elasticdb/helper/kvdb/leveldb"
	"github.com/dogechain-lab/elasticdb/table"
	"github.com/hashicorp/hcl"
)

const (
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"

	DefaultTableName = "elastic"
	DefaultLogLevel  = "INFO"

	defaultLeveldbCache = 128 // MiB

	// the data directory sub folder holding the table database
	tableDirName = "table"
)

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Config defines the engine configuration, it is also the layout of the
// config file
type Config struct {
	// Backend is the row storage, leveldb or memory
	Backend string `json:"backend" hcl:"backend"`

	// DataDir is the leveldb location. Leveldb keeps rows in memory when it
	// is empty.
	DataDir string `json:"data_dir" hcl:"data_dir"`

	Table *TableConfig `json:"table" hcl:"table"`

	Leveldb *LeveldbOptions `json:"leveldb" hcl:"leveldb"`

	LogLevel    string `json:"log_level" hcl:"log_level"`
	LogFilePath string `json:"log_to" hcl:"log_to"`

	// PrometheusAddr enables the metrics endpoint when set
	PrometheusAddr string `json:"prometheus" hcl:"prometheus"`

	// JaegerURL exports drain traces to a jaeger collector when set
	JaegerURL string `json:"jaeger" hcl:"jaeger"`
}

// TableConfig holds the served table settings
type TableConfig struct {
	Name           string `json:"name" hcl:"name"`
	PartitionID    int    `json:"partition_id" hcl:"partition_id"`
	MaxTupleLength int    `json:"max_tuple_length" hcl:"max_tuple_length"`
	CacheSize      int    `json:"cache_size" hcl:"cache_size"`
}

// LeveldbOptions holds the leveldb options
type LeveldbOptions struct {
	CacheSize           int  `json:"cache_size" hcl:"cache_size"`
	Handles             int  `json:"handles" hcl:"handles"`
	BloomKeyBits        int  `json:"bloom_bits" hcl:"bloom_bits"`
	CompactionTableSize int  `json:"table_size" hcl:"table_size"`
	CompactionTotalSize int  `json:"total_table_size" hcl:"total_table_size"`
	NoSync              bool `json:"nosync" hcl:"nosync"`
}

// DefaultConfig returns the default engine config
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendLevelDB,
		Table: &TableConfig{
			Name:           DefaultTableName,
			MaxTupleLength: table.DefaultMaxTupleLength,
			CacheSize:      table.DefaultCacheSize,
		},
		Leveldb: &LeveldbOptions{
			CacheSize:           defaultLeveldbCache,
			Handles:             leveldb.DefaultHandles,
			BloomKeyBits:        leveldb.DefaultBloomKeyBits,
			CompactionTableSize: leveldb.DefaultCompactionTableSize,
			CompactionTotalSize: leveldb.DefaultCompactionTotalSize,
			NoSync:              leveldb.DefaultNoSyncFlag,
		},
		LogLevel: DefaultLogLevel,
	}
}

// ReadConfigFile reads the config file from the specified path, builds a Config
// object and returns it.
//
// Supported file types: .json, .hcl
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var unmarshalFunc func([]byte, interface{}) error

	switch {
	case strings.HasSuffix(path, ".hcl"):
		unmarshalFunc = hcl.Unmarshal
	case strings.HasSuffix(path, ".json"):
		unmarshalFunc = json.Unmarshal
	default:
		return nil, fmt.Errorf("suffix of %s is neither hcl nor json", path)
	}

	config := DefaultConfig()

	if err := unmarshalFunc(data, config); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
	}

	config.fillDefaults()

	return config, nil
}

// fillDefaults sets the zero values a partial config file left behind. A
// negative table cache size disables the cache.
func (c *Config) fillDefaults() {
	defaults := DefaultConfig()

	if c.Backend == "" {
		c.Backend = defaults.Backend
	}

	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	if c.Table == nil {
		c.Table = defaults.Table
	}

	if c.Table.Name == "" {
		c.Table.Name = defaults.Table.Name
	}

	if c.Table.MaxTupleLength == 0 {
		c.Table.MaxTupleLength = defaults.Table.MaxTupleLength
	}

	if c.Table.CacheSize == 0 {
		c.Table.CacheSize = defaults.Table.CacheSize
	}

	if c.Leveldb == nil {
		c.Leveldb = defaults.Leveldb
	}
}

// Validate checks that the config can be served
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLevelDB, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.Table == nil || c.Table.Name == "" {
		return table.ErrInvalidName
	}

	if c.Table.MaxTupleLength <= 0 {
		return fmt.Errorf("invalid max tuple length %d", c.Table.MaxTupleLength)
	}

	if c.Backend == BackendLevelDB && c.Leveldb == nil {
		return errors.New("leveldb options are missing")
	}

	return nil
}

func (c *Config) tableConfig() *table.Config {
	return &table.Config{
		Name:           c.Table.Name,
		PartitionID:    int32(c.Table.PartitionID),
		MaxTupleLength: c.Table.MaxTupleLength,
		CacheSize:      c.Table.CacheSize,
	}
}
