package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseLables turns a flat "key, value, key, value" list into const labels
func ParseLables(labelsWithValues ...string) prometheus.Labels {
	constLabels := map[string]string{}

	if len(labelsWithValues)%2 == 0 {
		for i := 1; i < len(labelsWithValues); i += 2 {
			constLabels[labelsWithValues[i-1]] = labelsWithValues[i]
		}
	} else {
		panic("invalid labels")
	}

	return constLabels
}

func CounterInc(counter prometheus.Counter) {
	if counter == nil {
		return
	}

	counter.Inc()
}

func AddCounter(counter prometheus.Counter, v float64) {
	if counter == nil {
		return
	}

	counter.Add(v)
}

func SetGauge(gauge prometheus.Gauge, v float64) {
	if gauge == nil {
		return
	}

	gauge.Set(v)
}

func HistogramObserve(histogram prometheus.Histogram, v float64) {
	if histogram == nil {
		return
	}

	histogram.Observe(v)
}

// ObserveSince records the seconds elapsed since start
func ObserveSince(histogram prometheus.Histogram, start time.Time) {
	HistogramObserve(histogram, time.Since(start).Seconds())
}

func MetricName2Help(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// Register registers every non-nil collector with the default registry
func Register(collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if c != nil {
			prometheus.MustRegister(c)
		}
	}
}
