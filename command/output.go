package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// CommandResult is the result of a command, printed by the outputter
type CommandResult interface {
	GetOutput() string
}

// OutputFormatter collects the command result or error and writes it out
type OutputFormatter interface {
	// SetError sets the encountered error
	SetError(err error)
	// SetCommandResult sets the result of the command execution
	SetCommandResult(result CommandResult)
	// WriteOutput writes the result / error output
	WriteOutput()
}

// InitializeOutputter returns the JSON outputter when the json flag is set
// and the human readable one otherwise
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	if shouldOutputJSON(cmd) {
		return newJSONOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return newCLIOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func shouldOutputJSON(cmd *cobra.Command) bool {
	flag := cmd.Flag(JSONOutputFlag)

	return flag != nil && flag.Changed
}

type commonOutputFormatter struct {
	errorOutput   error
	commandOutput CommandResult

	stdout io.Writer
	stderr io.Writer

	// exit is called with 1 after an error was written
	exit func(code int)
}

func (c *commonOutputFormatter) SetError(err error) {
	c.errorOutput = err
}

func (c *commonOutputFormatter) SetCommandResult(result CommandResult) {
	c.commandOutput = result
}

type cliOutput struct {
	commonOutputFormatter
}

func newCLIOutput(stdout, stderr io.Writer) *cliOutput {
	return &cliOutput{
		commonOutputFormatter{stdout: stdout, stderr: stderr, exit: os.Exit},
	}
}

func (cli *cliOutput) WriteOutput() {
	if cli.errorOutput != nil {
		_, _ = fmt.Fprintln(cli.stderr, cli.errorOutput.Error())

		cli.exit(1)

		return
	}

	if cli.commandOutput != nil {
		_, _ = fmt.Fprintln(cli.stdout, cli.commandOutput.GetOutput())
	}
}

type jsonOutput struct {
	commonOutputFormatter
}

func newJSONOutput(stdout, stderr io.Writer) *jsonOutput {
	return &jsonOutput{
		commonOutputFormatter{stdout: stdout, stderr: stderr, exit: os.Exit},
	}
}

func (jo *jsonOutput) WriteOutput() {
	if jo.errorOutput != nil {
		_, _ = fmt.Fprintln(jo.stderr, jo.marshal(map[string]string{"err": jo.errorOutput.Error()}))

		jo.exit(1)

		return
	}

	if jo.commandOutput != nil {
		_, _ = fmt.Fprintln(jo.stdout, jo.marshal(jo.commandOutput))
	}
}

func (jo *jsonOutput) marshal(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Sprintf(`{"err": %q}`, err.Error())
	}

	return string(bytes)
}
