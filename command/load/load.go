package load

import (
	"fmt"

	"github.com/dogechain-lab/elasticdb/command"
	"github.com/dogechain-lab/elasticdb/command/helper"
	"github.com/dogechain-lab/elasticdb/engine"
	"github.com/dogechain-lab/elasticdb/helper/common"
	"github.com/dogechain-lab/elasticdb/types"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	loadCmd := &cobra.Command{
		Use:     "load",
		Short:   "Inserts synthetic rows into the table",
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	params.RegisterEngineFlags(loadCmd)
	helper.RegisterPprofFlag(loadCmd)
	setFlags(loadCmd)
	helper.SetRequiredFlags(loadCmd, params.getRequiredFlags())

	return loadCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(
		&params.rows,
		rowsFlag,
		0,
		"the number of rows to insert",
	)

	cmd.Flags().IntVar(
		&params.start,
		startFlag,
		0,
		"the sequence number of the first row",
	)

	cmd.Flags().IntVar(
		&params.valueSize,
		valueSizeFlag,
		32,
		"the size of every column value in bytes",
	)

	cmd.Flags().IntVar(
		&params.columns,
		columnsFlag,
		1,
		"the number of value columns per row",
	)

	cmd.Flags().StringVar(
		&params.prefix,
		prefixFlag,
		"row",
		"the prefix of the generated row keys",
	)

	cmd.Flags().BoolVar(
		&params.jitter,
		jitterFlag,
		false,
		"draw every value size between half the value size and the value size",
	)
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

// syntheticTuple returns the row with sequence number seq
func syntheticTuple(prefix string, seq, columns, valueSize int, jitter bool) *types.Tuple {
	values := make([][]byte, 0, columns)
	for i := 0; i < columns; i++ {
		values = append(values, common.RandomBytes(jitteredSize(valueSize, jitter)))
	}

	return &types.Tuple{
		Key:    []byte(fmt.Sprintf("%s-%010d", prefix, seq)),
		Values: values,
	}
}

func jitteredSize(size int, jitter bool) int {
	if !jitter || size < 2 {
		return size
	}

	low := size / 2

	return low + common.SecureRandInt(size-low+1)
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	result, err := load(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

func load(cmd *cobra.Command) (*LoadResult, error) {
	config, err := params.GenerateConfig(cmd)
	if err != nil {
		return nil, err
	}

	e, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	defer e.Close()

	defer command.StopPprofServer(command.StartPprofServer(cmd, e.Logger()))

	for seq := params.start; seq < params.start+params.rows; seq++ {
		if err := e.Insert(syntheticTuple(params.prefix, seq, params.columns, params.valueSize, params.jitter)); err != nil {
			return nil, err
		}
	}

	stats, err := e.Stats()
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		Table:    stats.Table,
		Inserted: params.rows,
		Rows:     stats.Rows,
	}, nil
}
