package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/dogechain-lab/elasticdb/elastic"
	"github.com/dogechain-lab/elasticdb/helper/common"
	"github.com/dogechain-lab/elasticdb/helper/kvdb"
	"github.com/dogechain-lab/elasticdb/helper/kvdb/leveldb"
	"github.com/dogechain-lab/elasticdb/helper/kvdb/memorydb"
	"github.com/dogechain-lab/elasticdb/helper/telemetry"
	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/table"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "elasticdb"
	serviceName      = "elasticdb"
)

// Engine serves one table and its streams
type Engine struct {
	logger hclog.Logger
	config *Config

	db       kvdb.Database
	table    *table.Table
	streamer *streamer.Streamer

	metrics          *engineMetrics
	prometheusServer *http.Server

	tracerProvider telemetry.TracerProvider
	tracer         telemetry.Tracer

	// drainLock serializes range drains, a table streams one range at a time
	drainLock sync.Mutex
}

// Stats describes the served table
type Stats struct {
	Table       string
	PartitionID int32
	Rows        int
	HasIndex    bool
	Index       table.IndexStats
}

// NewEngine opens the storage and builds the table stack the config describes
func NewEngine(config *Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLoggerFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("could not setup new logger instance, %w", err)
	}

	e := &Engine{
		logger: logger,
		config: config,
	}

	if config.PrometheusAddr != "" {
		addr, err := net.ResolveTCPAddr("tcp", config.PrometheusAddr)
		if err != nil {
			return nil, fmt.Errorf("invalid prometheus address %s: %w", config.PrometheusAddr, err)
		}

		e.metrics = metricProvider(metricsNamespace, config.Table.Name, true)
		e.prometheusServer = e.startPrometheusServer(addr)
	} else {
		e.metrics = metricProvider(metricsNamespace, config.Table.Name, false)
	}

	if config.JaegerURL != "" {
		if e.tracerProvider, err = telemetry.NewTracerProvider(config.JaegerURL, serviceName); err != nil {
			e.shutdownPrometheus()

			return nil, fmt.Errorf("failed to create tracer provider: %w", err)
		}
	} else {
		e.tracerProvider = telemetry.NewNilTracerProvider()
	}

	e.tracer = e.tracerProvider.NewTracer("engine")

	if e.db, err = e.openStorage(); err != nil {
		e.shutdownTelemetry()

		return nil, err
	}

	if e.table, err = table.NewTable(e.db, config.tableConfig(), logger, e.metrics.table); err != nil {
		e.db.Close()
		e.shutdownTelemetry()

		return nil, err
	}

	e.streamer = streamer.NewStreamer(
		e.table,
		e.table.Surgeon(),
		streamer.RLPSerializer{},
		logger,
		e.metrics.streamer,
	)

	factory := elastic.NewContextFactory()
	e.streamer.RegisterFactory(streamer.StreamElasticIndexRead, factory)
	e.streamer.RegisterFactory(streamer.StreamElasticIndexClear, factory)

	return e, nil
}

func (e *Engine) openStorage() (kvdb.Database, error) {
	if e.config.Backend == BackendMemory {
		e.logger.Info("using memory storage")

		return memorydb.New(), nil
	}

	options := e.leveldbOptions()

	if e.config.DataDir == "" {
		e.logger.Info("using leveldb memory storage")

		return leveldb.NewMemory(options...)
	}

	e.logger.Info("Data dir", "path", e.config.DataDir)

	if err := common.SetupDataDir(e.config.DataDir, []string{tableDirName}); err != nil {
		return nil, fmt.Errorf("failed to create data directories: %w", err)
	}

	return leveldb.New(filepath.Join(e.config.DataDir, tableDirName), options...)
}

// leveldbOptions converts the configured leveldb options, unset values keep
// the leveldb defaults
func (e *Engine) leveldbOptions() []leveldb.Option {
	o := e.config.Leveldb

	options := []leveldb.Option{
		leveldb.SetLogger(e.logger.Named("leveldb")),
		leveldb.SetNoSync(o.NoSync),
	}

	if o.CacheSize > 0 {
		options = append(options, leveldb.SetCacheSize(o.CacheSize))
	}

	if o.Handles > 0 {
		options = append(options, leveldb.SetHandles(o.Handles))
	}

	if o.BloomKeyBits > 0 {
		options = append(options, leveldb.SetBloomKeyBits(o.BloomKeyBits))
	}

	if o.CompactionTableSize > 0 {
		options = append(options, leveldb.SetCompactionTableSize(o.CompactionTableSize))
	}

	if o.CompactionTotalSize > 0 {
		options = append(options, leveldb.SetCompactionTotalSize(o.CompactionTotalSize))
	}

	return options
}

func (e *Engine) startPrometheusServer(listenAddr *net.TCPAddr) *http.Server {
	srv := &http.Server{
		Addr: listenAddr.String(),
		Handler: promhttp.InstrumentMetricHandler(
			prometheus.DefaultRegisterer, promhttp.HandlerFor(
				prometheus.DefaultGatherer,
				promhttp.HandlerOpts{},
			),
		),
		ReadHeaderTimeout: time.Minute,
	}

	go func() {
		e.logger.Info("Prometheus server started", "addr", listenAddr.String())

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("Prometheus HTTP server ListenAndServe", "err", err)
		}
	}()

	return srv
}

func (e *Engine) shutdownPrometheus() error {
	if e.prometheusServer == nil {
		return nil
	}

	return e.prometheusServer.Shutdown(context.Background())
}

// shutdownTelemetry releases the metrics endpoint and the tracer, it is used
// when the engine fails to open
func (e *Engine) shutdownTelemetry() {
	if err := e.shutdownPrometheus(); err != nil {
		e.logger.Error("prometheus server shutdown", "err", err)
	}

	if err := e.tracerProvider.Shutdown(context.Background()); err != nil {
		e.logger.Error("tracer provider shutdown", "err", err)
	}
}

// Table returns the served table
func (e *Engine) Table() *table.Table {
	return e.table
}

// Streamer returns the streamer of the served table
func (e *Engine) Streamer() *streamer.Streamer {
	return e.streamer
}

func (e *Engine) Logger() hclog.Logger {
	return e.logger
}

// Insert writes the tuples into the table
func (e *Engine) Insert(tuples ...*types.Tuple) error {
	for _, tuple := range tuples {
		if err := e.table.Insert(tuple); err != nil {
			return fmt.Errorf("insert %s: %w", tuple.String(), err)
		}
	}

	return nil
}

// EnsureIndex creates the elastic index when it is missing and builds it
// unless it is already complete
func (e *Engine) EnsureIndex(ctx context.Context) error {
	if e.table.IsIndexingComplete() {
		return nil
	}

	if !e.table.HasIndex() {
		if err := e.table.CreateIndex(); err != nil && !errors.Is(err, table.ErrIndexExists) {
			return err
		}
	}

	return e.table.BuildIndex(ctx)
}

// Stats returns the table statistics
func (e *Engine) Stats() (*Stats, error) {
	rows, err := e.table.Count()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Table:       e.table.Name(),
		PartitionID: e.table.PartitionID(),
		Rows:        rows,
		HasIndex:    e.table.HasIndex(),
	}

	if stats.HasIndex {
		if stats.Index, err = e.table.IndexStats(); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// Close closes the table and the storage, then stops the telemetry
func (e *Engine) Close() error {
	var result error

	e.logger.Info("close table")

	if err := e.table.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close table: %w", err))
	}

	e.logger.Info("close storage")

	if err := e.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close storage: %w", err))
	}

	if err := e.shutdownPrometheus(); err != nil {
		result = multierror.Append(result, fmt.Errorf("prometheus server shutdown: %w", err))
	}

	if err := e.tracerProvider.Shutdown(context.Background()); err != nil {
		result = multierror.Append(result, fmt.Errorf("tracer provider shutdown: %w", err))
	}

	return result
}
