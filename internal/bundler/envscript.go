package bundler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
)

// The script shape is fixed: it prepends the bundle root to PATH and points
// the dynamic loader at the bundled libraries. Relocation happens through
// this script, the binaries themselves are never patched.
const envScriptTemplate = `#!/bin/sh
# Generated by sobundle. Source this file to run %s without system-wide
# library installation.
BUNDLE_DIR=%s
export PATH="$BUNDLE_DIR:$PATH"
export LD_LIBRARY_PATH="$BUNDLE_DIR/%s:$LD_LIBRARY_PATH"
`

func writeEnvScript(outDir, exeName string) error {
	script := fmt.Sprintf(envScriptTemplate, exeName, shellescape.Quote(outDir), LibsDirName)
	path := filepath.Join(outDir, EnvScriptName)
	err := os.WriteFile(path, []byte(script), 0o755)
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
