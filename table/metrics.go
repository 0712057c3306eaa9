package table

import (
	"github.com/dogechain-lab/elasticdb/helper/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "table"

// Metrics represents the table metrics
type Metrics struct {
	// Rows inserted
	tuplesInserted prometheus.Counter
	// Rows deleted one by one
	tuplesDeleted prometheus.Counter
	// Rows deleted through bulk delete tokens
	bulkDeletedTuples prometheus.Counter
	// Live elastic index entries
	indexEntries prometheus.Gauge
	// Elastic index build duration
	indexBuildSeconds prometheus.Histogram
	// Index entries whose row was already gone when iterated
	skippedIndexEntries prometheus.Counter
	// Delete notifications swallowed by bulk delete tokens
	suppressedNotifications prometheus.Counter
	// Delete notifications missed by full subscriptions
	droppedNotifications prometheus.Counter
}

func (m *Metrics) TuplesInsertedInc() {
	metrics.CounterInc(m.tuplesInserted)
}

func (m *Metrics) TuplesDeletedInc() {
	metrics.CounterInc(m.tuplesDeleted)
}

func (m *Metrics) BulkDeletedTuplesAdd(v float64) {
	metrics.AddCounter(m.bulkDeletedTuples, v)
}

func (m *Metrics) SetIndexEntries(v float64) {
	metrics.SetGauge(m.indexEntries, v)
}

func (m *Metrics) SkippedIndexEntriesInc() {
	metrics.CounterInc(m.skippedIndexEntries)
}

func (m *Metrics) SuppressedNotificationsInc() {
	metrics.CounterInc(m.suppressedNotifications)
}

func (m *Metrics) DroppedNotificationsAdd(v float64) {
	metrics.AddCounter(m.droppedNotifications, v)
}

func newCounter(namespace, name string, constLabels prometheus.Labels) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        metrics.MetricName2Help(name),
		ConstLabels: constLabels,
	})
}

// GetPrometheusMetrics return the table metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	m := &Metrics{
		tuplesInserted:          newCounter(namespace, "tuples_inserted", constLabels),
		tuplesDeleted:           newCounter(namespace, "tuples_deleted", constLabels),
		bulkDeletedTuples:       newCounter(namespace, "bulk_deleted_tuples", constLabels),
		skippedIndexEntries:     newCounter(namespace, "skipped_index_entries", constLabels),
		suppressedNotifications: newCounter(namespace, "suppressed_notifications", constLabels),
		droppedNotifications:    newCounter(namespace, "dropped_notifications", constLabels),
		indexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "index_entries",
			Help:        "live elastic index entries",
			ConstLabels: constLabels,
		}),
		indexBuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "index_build_seconds",
			Help:        "elastic index build time (seconds)",
			ConstLabels: constLabels,
		}),
	}

	metrics.Register(
		m.tuplesInserted,
		m.tuplesDeleted,
		m.bulkDeletedTuples,
		m.indexEntries,
		m.indexBuildSeconds,
		m.skippedIndexEntries,
		m.suppressedNotifications,
		m.droppedNotifications,
	)

	return m
}

// NilMetrics will return the non operational table metrics
func NilMetrics() *Metrics {
	return &Metrics{}
}

// NewDummyMetrics will return the no nil table metrics
func NewDummyMetrics(metrics *Metrics) *Metrics {
	if metrics != nil {
		return metrics
	}

	return NilMetrics()
}
