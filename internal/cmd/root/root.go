package root

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sobundle/sobundle/internal/cmd/bundle"
	"github.com/sobundle/sobundle/internal/cmdutils"
	"github.com/sobundle/sobundle/pkg/log"
)

func New() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sobundle",
		Short: "Create self-contained bundles of dynamically linked executables",
		// We are printing errors ourselves in Execute, which allows us
		// to decide per error whether the usage help is shown.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug output")
	cmdutils.ViperMustBindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(bundle.New())

	return rootCmd
}

// Execute runs the CLI and reports errors. The returned error is only used
// to set the exit code.
func Execute() error {
	invokedCmd, err := New().ExecuteC()
	if err == nil {
		return nil
	}

	var usageErr *cmdutils.IncorrectUsageError
	if errors.As(err, &usageErr) {
		log.Error(err.Error())
		_ = invokedCmd.Usage()
	} else if !errors.Is(err, cmdutils.ErrSilent) {
		log.Errorf("%v", err)
	}
	return err
}
