package cmdutils

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ViperMustBindPFlag binds a viper key to a flag and panics on error, which
// only happens on programming mistakes.
func ViperMustBindPFlag(key string, flag *pflag.Flag) {
	err := viper.BindPFlag(key, flag)
	if err != nil {
		panic(fmt.Sprintf("failed to bind viper key %q: %v", key, err))
	}
}

// AddFlags executes the given flag functions and returns a function which
// binds all those flags to viper keys. The binding must be deferred to the
// PreRun of the command, else multiple commands sharing a flag name would
// rebind each other's keys.
func AddFlags(cmd *cobra.Command, funcs ...func(*cobra.Command) func()) func() {
	var binders []func()
	for _, f := range funcs {
		binders = append(binders, f(cmd))
	}
	return func() {
		for _, bind := range binders {
			bind()
		}
	}
}

func AddOutputFlag(cmd *cobra.Command) func() {
	cmd.Flags().StringP("output", "o", "output", "Directory the bundle is written to")
	return func() { ViperMustBindPFlag("output", cmd.Flags().Lookup("output")) }
}

func AddLibraryPathFlag(cmd *cobra.Command) func() {
	cmd.Flags().StringArrayP("library-path", "L", nil,
		"Additional library search directory, searched before the system directories.\n"+
			"May be given multiple times and may contain glob patterns.")
	return func() { ViperMustBindPFlag("library-path", cmd.Flags().Lookup("library-path")) }
}

func AddResolverFlag(cmd *cobra.Command) func() {
	cmd.Flags().String("resolver", "elf",
		"Dependency resolution strategy, one of \"elf\" (parse dynamic-linking\n"+
			"metadata directly) or \"ldd\" (query the platform's dynamic linker).")
	return func() { ViperMustBindPFlag("resolver", cmd.Flags().Lookup("resolver")) }
}

func AddIgnoreFlag(cmd *cobra.Command) func() {
	cmd.Flags().StringArray("ignore", nil,
		"Additional ignore pattern (regular expression matched against library\n"+
			"filenames). May be given multiple times.")
	return func() { ViperMustBindPFlag("ignore", cmd.Flags().Lookup("ignore")) }
}

func AddIgnoreLibcFlag(cmd *cobra.Command) func() {
	cmd.Flags().Bool("ignore-libc", false, "Do not bundle the core C runtime library")
	return func() { ViperMustBindPFlag("ignore-libc", cmd.Flags().Lookup("ignore-libc")) }
}

func AddJSONFlag(cmd *cobra.Command) func() {
	cmd.Flags().Bool("json", false, "Print the bundle report as JSON")
	return func() { ViperMustBindPFlag("json", cmd.Flags().Lookup("json")) }
}
