package engine

import (
	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/table"
)

// engineMetrics holds the metric instances of all sub systems
type engineMetrics struct {
	table    *table.Metrics
	streamer *streamer.Metrics
}

// metricProvider returns the engineMetrics instance for the given table and namespace
func metricProvider(nameSpace string, tableName string, metricsRequired bool) *engineMetrics {
	if metricsRequired {
		return &engineMetrics{
			table:    table.GetPrometheusMetrics(nameSpace, "table", tableName),
			streamer: streamer.GetPrometheusMetrics(nameSpace, "table", tableName),
		}
	}

	return &engineMetrics{
		table:    table.NilMetrics(),
		streamer: streamer.NilMetrics(),
	}
}
