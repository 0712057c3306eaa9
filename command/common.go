package command

const (
	ConfigFlag      = "config"
	BackendFlag     = "backend"
	DataDirFlag     = "data-dir"
	TableFlag       = "table"
	PartitionFlag   = "partition"
	LogLevelFlag    = "log-level"
	LogFileFlag     = "log-to"
	PrometheusFlag  = "prometheus"
	MaxTupleLenFlag = "max-tuple-length"
	JaegerFlag      = "jaeger"
)
