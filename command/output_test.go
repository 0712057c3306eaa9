package command

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResult struct {
	Rows int `json:"rows"`
}

func (r *testResult) GetOutput() string {
	return "rows: 3"
}

func TestInitializeOutputter(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool(JSONOutputFlag, false, "")

	_, ok := InitializeOutputter(cmd).(*cliOutput)
	assert.True(t, ok)

	require.NoError(t, cmd.Flags().Set(JSONOutputFlag, "true"))

	_, ok = InitializeOutputter(cmd).(*jsonOutput)
	assert.True(t, ok)
}

func TestCLIOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	out := newCLIOutput(&stdout, &stderr)
	out.SetCommandResult(&testResult{Rows: 3})
	out.WriteOutput()

	assert.Equal(t, "rows: 3\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	out := newJSONOutput(&stdout, &stderr)
	out.SetCommandResult(&testResult{Rows: 3})
	out.WriteOutput()

	assert.JSONEq(t, `{"rows": 3}`, stdout.String())
}

func TestOutput_Error(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := 0

	out := newJSONOutput(&stdout, &stderr)
	out.exit = func(c int) { code = c }

	out.SetCommandResult(&testResult{Rows: 3})
	out.SetError(errors.New("boom"))
	out.WriteOutput()

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.JSONEq(t, `{"err": "boom"}`, stderr.String())

	cli := newCLIOutput(&stdout, &stderr)
	cli.exit = func(c int) { code = c + 1 }

	stderr.Reset()
	cli.SetError(errors.New("boom"))
	cli.WriteOutput()

	assert.Equal(t, 2, code)
	assert.Equal(t, "boom\n", stderr.String())
}
