package helper

import (
	"github.com/dogechain-lab/elasticdb/command"
	"github.com/dogechain-lab/elasticdb/engine"
	"github.com/spf13/cobra"
)

// EngineParams are the engine flags shared by the table commands. Flags that
// were set override the config file.
type EngineParams struct {
	configPath string

	backend        string
	dataDir        string
	table          string
	partitionID    int
	maxTupleLength int
	logLevel       string
	logFilePath    string
	prometheusAddr string
	jaegerURL      string
}

// RegisterEngineFlags registers the engine flags on the command
func (p *EngineParams) RegisterEngineFlags(cmd *cobra.Command) {
	defaultConfig := engine.DefaultConfig()

	cmd.Flags().StringVar(
		&p.configPath,
		command.ConfigFlag,
		"",
		"the path to the engine config. Supports .json and .hcl",
	)

	cmd.Flags().StringVar(
		&p.backend,
		command.BackendFlag,
		defaultConfig.Backend,
		"the row storage, leveldb or memory",
	)

	cmd.Flags().StringVar(
		&p.dataDir,
		command.DataDirFlag,
		defaultConfig.DataDir,
		"the data directory of the leveldb storage, rows are kept in memory when empty",
	)

	cmd.Flags().StringVar(
		&p.table,
		command.TableFlag,
		defaultConfig.Table.Name,
		"the table name",
	)

	cmd.Flags().IntVar(
		&p.partitionID,
		command.PartitionFlag,
		defaultConfig.Table.PartitionID,
		"the partition id written into the stream headers",
	)

	cmd.Flags().IntVar(
		&p.maxTupleLength,
		command.MaxTupleLenFlag,
		defaultConfig.Table.MaxTupleLength,
		"the maximum encoded row length in bytes",
	)

	cmd.Flags().StringVar(
		&p.logLevel,
		command.LogLevelFlag,
		defaultConfig.LogLevel,
		"the log level for console output",
	)

	cmd.Flags().StringVar(
		&p.logFilePath,
		command.LogFileFlag,
		defaultConfig.LogFilePath,
		"write all logs to the file at specified location instead of writing them to console",
	)

	cmd.Flags().StringVar(
		&p.prometheusAddr,
		command.PrometheusFlag,
		"",
		"the address and port for the prometheus instrumentation service (address:port)",
	)

	cmd.Flags().StringVar(
		&p.jaegerURL,
		command.JaegerFlag,
		"",
		"the jaeger collector endpoint receiving the drain traces",
	)
}

// GenerateConfig builds the engine config from the config file and the flags
func (p *EngineParams) GenerateConfig(cmd *cobra.Command) (*engine.Config, error) {
	config := engine.DefaultConfig()

	if p.configPath != "" {
		var err error

		if config, err = engine.ReadConfigFile(p.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()

	if p.configPath == "" || flags.Changed(command.BackendFlag) {
		config.Backend = p.backend
	}

	if p.configPath == "" || flags.Changed(command.DataDirFlag) {
		config.DataDir = p.dataDir
	}

	if p.configPath == "" || flags.Changed(command.TableFlag) {
		config.Table.Name = p.table
	}

	if p.configPath == "" || flags.Changed(command.PartitionFlag) {
		config.Table.PartitionID = p.partitionID
	}

	if p.configPath == "" || flags.Changed(command.MaxTupleLenFlag) {
		config.Table.MaxTupleLength = p.maxTupleLength
	}

	if p.configPath == "" || flags.Changed(command.LogLevelFlag) {
		config.LogLevel = p.logLevel
	}

	if p.configPath == "" || flags.Changed(command.LogFileFlag) {
		config.LogFilePath = p.logFilePath
	}

	if p.configPath == "" || flags.Changed(command.PrometheusFlag) {
		config.PrometheusAddr = p.prometheusAddr
	}

	if p.configPath == "" || flags.Changed(command.JaegerFlag) {
		config.JaegerURL = p.jaegerURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
