package bundler

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// writeManifest records what went into the bundle, so an operator can later
// tell which libraries were copied from where and which were never found.
func writeManifest(outDir string, report *Report) error {
	out, err := yaml.Marshal(report)
	if err != nil {
		return errors.WithStack(err)
	}
	path := filepath.Join(outDir, ManifestName)
	err = os.WriteFile(path, out, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
