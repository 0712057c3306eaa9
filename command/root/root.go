package root

import (
	"fmt"
	"os"

	"github.com/dogechain-lab/elasticdb/command/drain"
	"github.com/dogechain-lab/elasticdb/command/helper"
	"github.com/dogechain-lab/elasticdb/command/load"
	"github.com/dogechain-lab/elasticdb/command/stats"
	"github.com/dogechain-lab/elasticdb/command/version"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:   "elasticdb",
			Short: "elasticdb streams hash ranges of a partitioned table out of its elastic index",
		},
	}

	helper.RegisterJSONOutputFlag(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		version.GetCommand(),
		load.GetCommand(),
		stats.GetCommand(),
		drain.GetCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
