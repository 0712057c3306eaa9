package drain

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dogechain-lab/elasticdb/command"
	"github.com/dogechain-lab/elasticdb/command/helper"
	"github.com/dogechain-lab/elasticdb/engine"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	drainCmd := &cobra.Command{
		Use:     "drain",
		Short:   "Streams every row of a hash range into a file and optionally deletes them from the table",
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	params.RegisterEngineFlags(drainCmd)
	helper.RegisterPprofFlag(drainCmd)
	setFlags(drainCmd)
	helper.SetRequiredFlags(drainCmd, params.getRequiredFlags())

	return drainCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&params.rangeRaw,
		rangeFlag,
		"",
		"the hash range to drain, <low>:<high>",
	)

	cmd.Flags().StringVar(
		&params.outPath,
		outFlag,
		"",
		"the file the output streams are written to",
	)

	cmd.Flags().IntVar(
		&params.capacity,
		capacityFlag,
		defaultCapacity,
		"the capacity of a single output stream in bytes",
	)

	cmd.Flags().BoolVar(
		&params.clear,
		clearFlag,
		false,
		"delete the streamed rows from the table",
	)

	cmd.Flags().DurationVar(
		&params.timeout,
		timeoutFlag,
		0,
		"abandon the drain after the duration, zero waits forever",
	)
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	result, err := drain(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

func drain(cmd *cobra.Command) (*DrainResult, error) {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if params.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, params.timeout)
		defer cancel()
	}

	if err := e.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("build elastic index: %w", err)
	}

	f, err := os.Create(params.outPath)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	w := bufio.NewWriter(f)

	report, err := e.DrainRange(ctx, params.rangeRaw, params.capacity, w, params.clear)
	if err != nil {
		return nil, err
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}

	return &DrainResult{
		Range:    report.RangeStr,
		Out:      params.outPath,
		Calls:    report.Calls,
		Chunks:   report.Chunks,
		Rows:     report.Rows,
		Bytes:    report.Bytes,
		Cleared:  report.Cleared,
		Duration: report.Duration.String(),
	}, nil
}
