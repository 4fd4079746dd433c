package cmdutils

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExecuteCommand runs a cobra command with the given arguments and returns
// its stdout and stderr output. Viper state is reset afterwards so commands
// in one test run do not leak bound keys into each other.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, in io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)

	stdOut := new(bytes.Buffer)
	stdErr := new(bytes.Buffer)
	cmd.SetOut(stdOut)
	cmd.SetErr(stdErr)
	cmd.SetIn(in)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdOut.String(), stdErr.String(), err
}
