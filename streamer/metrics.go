package streamer

import (
	"github.com/dogechain-lab/elasticdb/helper/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "streamer"

// Metrics represents the table streaming metrics
type Metrics struct {
	activationsSucceeded   prometheus.Counter
	activationsFailed      prometheus.Counter
	activationsUnsupported prometheus.Counter

	// stream-more call duration
	streamMoreSeconds prometheus.Histogram
	// stream-more calls reporting an error
	streamErrors prometheus.Counter
	// bytes written into output streams, headers included
	bytesStreamed prometheus.Counter
	// tuples written into output streams
	tuplesStreamed prometheus.Counter
}

func (m *Metrics) ActivationInc(result ActivationResult) {
	switch result {
	case ActivationSucceeded:
		metrics.CounterInc(m.activationsSucceeded)
	case ActivationFailed:
		metrics.CounterInc(m.activationsFailed)
	default:
		metrics.CounterInc(m.activationsUnsupported)
	}
}

func (m *Metrics) StreamMoreSecondsObserve(v float64) {
	metrics.HistogramObserve(m.streamMoreSeconds, v)
}

func (m *Metrics) StreamErrorsInc() {
	metrics.CounterInc(m.streamErrors)
}

func (m *Metrics) BytesStreamedAdd(v float64) {
	metrics.AddCounter(m.bytesStreamed, v)
}

func (m *Metrics) TuplesStreamedAdd(v float64) {
	metrics.AddCounter(m.tuplesStreamed, v)
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

// GetPrometheusMetrics return the streamer metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	m := &Metrics{
		activationsSucceeded:   newCounter(namespace, "activations_succeeded", constLabels),
		activationsFailed:      newCounter(namespace, "activations_failed", constLabels),
		activationsUnsupported: newCounter(namespace, "activations_unsupported", constLabels),
		streamErrors:           newCounter(namespace, "stream_errors", constLabels),
		bytesStreamed:          newCounter(namespace, "bytes_streamed", constLabels),
		tuplesStreamed:         newCounter(namespace, "tuples_streamed", constLabels),
		streamMoreSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "stream_more_seconds",
			Help:        "stream more call time (seconds)",
			ConstLabels: constLabels,
		}),
	}

	metrics.Register(
		m.activationsSucceeded,
		m.activationsFailed,
		m.activationsUnsupported,
		m.streamMoreSeconds,
		m.streamErrors,
		m.bytesStreamed,
		m.tuplesStreamed,
	)

	return m
}

// NilMetrics will return the non operational streamer metrics
func NilMetrics() *Metrics {
	return &Metrics{}
}

// NewDummyMetrics will return the no nil streamer metrics
func NewDummyMetrics(metrics *Metrics) *Metrics {
	if metrics != nil {
		return metrics
	}

	return NilMetrics()
}
