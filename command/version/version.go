package version

import (
	"runtime"

	"github.com/dogechain-lab/elasticdb/command"
	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/versioning"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Returns the current elasticdb version",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	outputter.SetCommandResult(newVersionResult())
}

func newVersionResult() *VersionResult {
	return &VersionResult{
		Version:   versioning.Version,
		Commit:    versioning.Commit,
		BuildTime: versioning.BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		StreamKinds: []string{
			streamer.StreamElasticIndexRead.String(),
			streamer.StreamElasticIndexClear.String(),
		},
	}
}
