package helper

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dogechain-lab/elasticdb/command"
	"github.com/spf13/cobra"
)

// FormatKV formats "key|value" rows into aligned columns
func FormatKV(in []string) string {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', 0)

	for _, row := range in {
		key, value, _ := strings.Cut(row, "|")
		_, _ = fmt.Fprintf(w, "%s\t= %s\n", key, value)
	}

	_ = w.Flush()

	return strings.TrimSuffix(buf.String(), "\n")
}

// RegisterJSONOutputFlag registers the --json output setting for all child commands
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

// RegisterPprofFlag registers the pprof server flags
func RegisterPprofFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(
		command.PprofFlag,
		false,
		"enable the pprof server",
	)

	cmd.Flags().String(
		command.PprofAddressFlag,
		command.DefaultPprofAddress,
		"the address and port for the pprof server",
	)
}

// SetRequiredFlags marks the flags as required
func SetRequiredFlags(cmd *cobra.Command, requiredFlags []string) {
	for _, requiredFlag := range requiredFlags {
		_ = cmd.MarkFlagRequired(requiredFlag)
	}
}
