// Package bundler materializes a resolved dependency set into a relocatable
// bundle directory: the executable at the root, every resolved library under
// libs/, an env.sh relocation script and a bundle.yaml manifest.
package bundler

import (
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-filemutex"
	"github.com/otiai10/copy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sobundle/sobundle/internal/binary"
	"github.com/sobundle/sobundle/internal/resolver"
	"github.com/sobundle/sobundle/pkg/log"
)

const (
	// LibsDirName is the subdirectory of the bundle holding the copied
	// shared libraries.
	LibsDirName = "libs"

	// EnvScriptName is the relocation script written into the bundle root.
	EnvScriptName = "env.sh"

	// ManifestName is the bundle manifest written into the bundle root.
	ManifestName = "bundle.yaml"

	lockFileName = ".sobundle.lock"
)

type Options struct {
	// Executable is the path of the input executable.
	Executable string

	// OutputDir is the bundle directory, created if necessary.
	OutputDir string

	// Deps is the finalized dependency set, already ignore-filtered.
	Deps *resolver.Set
}

// Library describes one copied shared library in the report and manifest.
type Library struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Report summarizes one bundling run.
type Report struct {
	Executable  string    `json:"executable" yaml:"executable"`
	OutputDir   string    `json:"output_dir" yaml:"output_dir"`
	Interpreter string    `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
	Libraries   []Library `json:"libraries" yaml:"libraries"`
	Missing     []string  `json:"missing,omitempty" yaml:"missing,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

type Bundler struct {
	opts *Options
}

func New(opts *Options) *Bundler {
	return &Bundler{opts: opts}
}

// Bundle creates the output layout and copies the executable and every
// resolved library into it. Directory creation and copy failures are fatal.
// Dependencies without a resolved path are reported and skipped. The bundle
// directory is locked for the duration of the run so two invocations cannot
// interleave their copies.
func (b *Bundler) Bundle() (*Report, error) {
	outDir, err := filepath.Abs(b.opts.OutputDir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	libsDir := filepath.Join(outDir, LibsDirName)

	// Both directories must exist before any copy starts.
	for _, dir := range []string{outDir, libsDir} {
		err = os.MkdirAll(dir, 0o755)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	mutex, err := filemutex.New(filepath.Join(outDir, lockFileName))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = mutex.Lock()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		_ = mutex.Unlock()
	}()

	exeTarget := filepath.Join(outDir, filepath.Base(b.opts.Executable))
	err = copy.Copy(b.opts.Executable, exeTarget)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to copy %s", b.opts.Executable)
	}
	log.Printf("%s => %s", b.opts.Executable, exeTarget)

	libraries, err := b.copyLibraries(libsDir)
	if err != nil {
		return nil, err
	}

	missing := b.opts.Deps.Missing()
	for _, name := range missing {
		log.Printf("Library %s not found", name)
	}

	report := &Report{
		Executable: exeTarget,
		OutputDir:  outDir,
		Libraries:  libraries,
		Missing:    missing,
		CreatedAt:  time.Now().UTC(),
	}

	// Best effort: the loader is informative metadata, a static or stripped
	// binary simply leaves it empty.
	if interp, err := binary.Interpreter(b.opts.Executable); err == nil {
		report.Interpreter = interp
	}

	err = writeEnvScript(outDir, filepath.Base(b.opts.Executable))
	if err != nil {
		return nil, err
	}
	err = writeManifest(outDir, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// copyLibraries copies every resolved dependency into the libs directory.
// Copies run in parallel, the directories already exist at this point.
// Two dependencies resolving to the same base filename would race on the
// same target, so only the first one (in identity order) is copied and the
// collision is reported.
func (b *Bundler) copyLibraries(libsDir string) ([]Library, error) {
	var libraries []Library
	targets := make(map[string]string)
	for _, id := range b.opts.Deps.Resolved() {
		source := b.opts.Deps.Path(id)
		target := filepath.Join(libsDir, filepath.Base(source))
		if existing, ok := targets[target]; ok {
			log.Warnf("Skipping %s: %s is already bundled from %s", source, filepath.Base(source), existing)
			continue
		}
		targets[target] = source
		libraries = append(libraries, Library{
			Name:   filepath.Base(source),
			Source: source,
			Target: target,
		})
	}

	var group errgroup.Group
	for _, lib := range libraries {
		lib := lib
		group.Go(func() error {
			err := copy.Copy(lib.Source, lib.Target)
			if err != nil {
				return errors.Wrapf(err, "failed to copy %s", lib.Source)
			}
			log.Printf("%s => %s", lib.Source, lib.Target)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, err
	}

	return libraries, nil
}
