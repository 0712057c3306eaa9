package command

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestStartPprofServer_Disabled(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	assert.Nil(t, StartPprofServer(cmd, hclog.NewNullLogger()))

	cmd.Flags().Bool(PprofFlag, false, "")
	cmd.Flags().String(PprofAddressFlag, DefaultPprofAddress, "")
	assert.Nil(t, StartPprofServer(cmd, hclog.NewNullLogger()))

	assert.NotPanics(t, func() {
		StopPprofServer(nil)
	})
}
