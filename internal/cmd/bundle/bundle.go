package bundle

import (
	"github.com/hokaccha/go-prettyjson"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sobundle/sobundle/internal/bundler"
	"github.com/sobundle/sobundle/internal/cmdutils"
	"github.com/sobundle/sobundle/internal/config"
	"github.com/sobundle/sobundle/internal/ignore"
	"github.com/sobundle/sobundle/internal/ldd"
	"github.com/sobundle/sobundle/internal/resolver"
	"github.com/sobundle/sobundle/pkg/log"
	"github.com/sobundle/sobundle/util/fileutil"
)

type options struct {
	OutputDir      string   `mapstructure:"output"`
	LibraryPaths   []string `mapstructure:"library-path"`
	Resolver       string   `mapstructure:"resolver"`
	IgnorePatterns []string `mapstructure:"ignore"`
	IgnoreLibc     bool     `mapstructure:"ignore-libc"`
	JSON           bool     `mapstructure:"json"`

	Executable string
}

func (opts *options) validate() error {
	if !fileutil.Exists(opts.Executable) {
		return errors.Errorf("executable %s does not exist", opts.Executable)
	}
	if !fileutil.IsReadable(opts.Executable) {
		return errors.Errorf("executable %s is not readable", opts.Executable)
	}
	if !fileutil.IsExecutable(opts.Executable) {
		log.Warnf("%s is not executable, bundling it anyway", opts.Executable)
	}

	err := config.ValidateResolver(opts.Resolver)
	if err != nil {
		return cmdutils.WrapIncorrectUsageError(err)
	}

	return nil
}

type bundleCmd struct {
	*cobra.Command
	opts *options
}

func New() *cobra.Command {
	return newWithOptions(&options{})
}

func newWithOptions(opts *options) *cobra.Command {
	var bindFlags func()

	cmd := &cobra.Command{
		Use:   "bundle <executable>",
		Short: "Bundle an executable together with its shared libraries",
		Long: `This command discovers the complete set of shared libraries the given
executable requires at load time and copies them, together with the
executable, into a self-contained output directory. The generated env.sh
makes the bundle runnable on machines without the libraries installed:

    . <output>/env.sh && <executable-name>

Libraries are located by searching the --library-path directories first,
then the standard system library directories, then LD_LIBRARY_PATH. The
dynamic loader and the vdso are never bundled; libraries that cannot be
found anywhere are reported and left out.
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind viper keys to flags. We can't do this in the New
			// function, because that would re-bind viper keys which
			// were bound to the flags of other commands before.
			bindFlags()
			err := config.FindAndParseConfig(opts)
			if err != nil {
				return err
			}
			opts.Executable = args[0]
			return opts.validate()
		},
		RunE: func(c *cobra.Command, args []string) error {
			cmd := bundleCmd{Command: c, opts: opts}
			return cmd.run()
		},
	}

	// Note: If a flag should be configurable via sobundle.yaml and
	//       SOBUNDLE_* environment variables as well, bind it to viper
	//       in the PreRun function.
	bindFlags = cmdutils.AddFlags(cmd,
		cmdutils.AddOutputFlag,
		cmdutils.AddLibraryPathFlag,
		cmdutils.AddResolverFlag,
		cmdutils.AddIgnoreFlag,
		cmdutils.AddIgnoreLibcFlag,
		cmdutils.AddJSONFlag,
	)

	return cmd
}

func (c *bundleCmd) run() error {
	// Compile the ignore patterns up front so a bad pattern fails before
	// the (possibly long) resolution. Filtering still only happens after
	// the full closure is computed.
	filter, err := ignore.NewFilter(c.opts.IgnorePatterns, c.opts.IgnoreLibc)
	if err != nil {
		return cmdutils.WrapIncorrectUsageError(err)
	}

	deps, err := c.resolveDependencies()
	if err != nil {
		return err
	}
	log.Debugf("Raw closure of %s: %d entries", c.opts.Executable, deps.Len())

	filter.Apply(deps)

	report, err := bundler.New(&bundler.Options{
		Executable: c.opts.Executable,
		OutputDir:  c.opts.OutputDir,
		Deps:       deps,
	}).Bundle()
	if err != nil {
		return err
	}

	if c.opts.JSON {
		out, err := prettyjson.Marshal(report)
		if err != nil {
			return errors.WithStack(err)
		}
		log.Print(string(out))
		return nil
	}

	log.Successf("Created bundle in %s (%d libraries, %d not found)",
		report.OutputDir, len(report.Libraries), len(report.Missing))
	return nil
}

// resolveDependencies computes the raw dependency closure with the strategy
// selected for this run. The strategies are never mixed: the ELF strategy
// resolves names through the search tiers at every level, the ldd strategy
// trusts the platform linker's own transitive resolution.
func (c *bundleCmd) resolveDependencies() (*resolver.Set, error) {
	switch c.opts.Resolver {
	case config.ResolverLDD:
		return ldd.ResolvedDependencies(c.opts.Executable)
	default:
		paths, err := resolver.NewPathResolver(c.opts.LibraryPaths)
		if err != nil {
			return nil, err
		}
		log.Debugf("Library search path: %v", paths.SearchDirs())
		return resolver.NewClosureResolver(paths).Resolve(c.opts.Executable)
	}
}
