package stats

import (
	"context"

	"github.com/dogechain-lab/elasticdb/command"
	"github.com/dogechain-lab/elasticdb/command/helper"
	"github.com/dogechain-lab/elasticdb/engine"
	"github.com/spf13/cobra"
)

const (
	buildIndexFlag = "build-index"
)

type statsParams struct {
	helper.EngineParams

	buildIndex bool
}

var (
	params = &statsParams{}
)

func GetCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Returns the table row count and the elastic index statistics",
		Run:   runCommand,
	}

	params.RegisterEngineFlags(statsCmd)

	statsCmd.Flags().BoolVar(
		&params.buildIndex,
		buildIndexFlag,
		false,
		"build the elastic index before reporting",
	)

	return statsCmd
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	result, err := stats(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

func stats(cmd *cobra.Command) (*StatsResult, error) {
	config, err := params.GenerateConfig(cmd)
	if err != nil {
		return nil, err
	}

	e, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	defer e.Close()

	if params.buildIndex {
		if err := e.EnsureIndex(context.Background()); err != nil {
			return nil, err
		}
	}

	s, err := e.Stats()
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		Table:                   s.Table,
		PartitionID:             s.PartitionID,
		Rows:                    s.Rows,
		HasIndex:                s.HasIndex,
		IndexComplete:           s.Index.Complete,
		IndexEntries:            s.Index.Entries,
		EstimatedDistinctHashes: s.Index.EstimatedDistinctHashes,
	}, nil
}
