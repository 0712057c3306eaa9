package leveldb

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Logger receives the applied options
type Logger interface {
	Info(msg string, args ...interface{})
}

// Option tunes the leveldb table storage
type Option func(o *dbOption) error

type dbOption struct {
	logger  Logger
	options *opt.Options

	// applied keeps the key/value pairs of the options in call order
	applied []interface{}
}

func (o *dbOption) record(key string, value interface{}) {
	o.applied = append(o.applied, key, value)
}

func positive(key string, v int, unit string) error {
	if v <= 0 {
		return fmt.Errorf("leveldb %s must be greater than 0%s, got %d", key, unit, v)
	}

	return nil
}

// SetBloomKeyBits sets bloom filter bits per key
func SetBloomKeyBits(v int) Option {
	return func(o *dbOption) error {
		if err := positive("bloom key bits", v, ""); err != nil {
			return err
		}

		o.options.Filter = filter.NewBloomFilter(v)
		o.record("bloomKeyBits", v)

		return nil
	}
}

// SetCacheSize sets the block cache size in MiB
func SetCacheSize(v int) Option {
	return func(o *dbOption) error {
		if err := positive("cache size", v, " MiB"); err != nil {
			return err
		}

		o.options.BlockCacheCapacity = v * opt.MiB
		o.record("cacheSize", v)

		return nil
	}
}

// SetCompactionTableSize sets the size in MiB of a sorted table produced by
// compaction. The write buffer is twice the size.
func SetCompactionTableSize(v int) Option {
	return func(o *dbOption) error {
		if err := positive("compaction table size", v, " MiB"); err != nil {
			return err
		}

		o.options.CompactionTableSize = v * opt.MiB
		o.options.WriteBuffer = o.options.CompactionTableSize * 2
		o.record("compactionTableSize", v)

		return nil
	}
}

// SetCompactionTotalSize limits the total size in MiB of the sorted tables of
// each level
func SetCompactionTotalSize(v int) Option {
	return func(o *dbOption) error {
		if err := positive("compaction total size", v, " MiB"); err != nil {
			return err
		}

		o.options.CompactionTotalSize = v * opt.MiB
		o.record("compactionTotalSize", v)

		return nil
	}
}

// SetHandles sets the open files cache capacity
func SetHandles(v int) Option {
	return func(o *dbOption) error {
		if err := positive("handles", v, ""); err != nil {
			return err
		}

		o.options.OpenFilesCacheCapacity = v
		o.record("handles", v)

		return nil
	}
}

// SetLogger sets the logger receiving the applied options, nothing is logged
// by default
func SetLogger(v Logger) Option {
	return func(o *dbOption) error {
		if v != nil {
			o.logger = v
		}

		return nil
	}
}

// SetNoSync disables fsync on writes
func SetNoSync(v bool) Option {
	return func(o *dbOption) error {
		o.options.NoSync = v
		o.record("noSync", v)

		return nil
	}
}

// SetReadonly opens the database in read-only mode
func SetReadonly(v bool) Option {
	return func(o *dbOption) error {
		o.options.ReadOnly = v
		o.record("readOnly", v)

		return nil
	}
}

// defaultLevelDBOptions favors point reads of encoded rows and ordered scans
// of the row prefix
func defaultLevelDBOptions() *opt.Options {
	return &opt.Options{
		OpenFilesCacheCapacity:        minHandles,
		CompactionTableSize:           DefaultCompactionTableSize * opt.MiB,
		CompactionTotalSize:           DefaultCompactionTotalSize * opt.MiB,
		BlockCacheCapacity:            minCache * opt.MiB,
		WriteBuffer:                   (DefaultCompactionTableSize * 2) * opt.MiB,
		CompactionTableSizeMultiplier: 1.1,
		Filter:                        filter.NewBloomFilter(DefaultBloomKeyBits),
		BlockSize:                     64 * opt.KiB,
		DisableSeeksCompaction:        true,
	}
}

func newDBOption(options []Option) (*dbOption, error) {
	o := &dbOption{
		logger:  hclog.NewNullLogger(),
		options: defaultLevelDBOptions(),
	}

	for _, option := range options {
		if option == nil {
			continue
		}

		if err := option(o); err != nil {
			return nil, err
		}
	}

	if len(o.applied) > 0 {
		o.logger.Info("leveldb options", o.applied...)
	}

	return o, nil
}
