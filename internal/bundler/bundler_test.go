package bundler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sobundle/sobundle/internal/resolver"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestBundle_CreatesLayout(t *testing.T) {
	srcDir := t.TempDir()
	exe := createFile(t, srcDir, "myapp", "fake executable")
	libFoo := createFile(t, srcDir, "libfoo.so.1", "fake library foo")
	libBar := createFile(t, srcDir, "libbar.so", "fake library bar")

	deps := resolver.NewSet()
	deps.Add("libfoo.so.1", libFoo)
	deps.Add("libbar.so", libBar)
	deps.Add("libghost.so.2", "")

	outDir := filepath.Join(t.TempDir(), "output")
	report, err := New(&Options{
		Executable: exe,
		OutputDir:  outDir,
		Deps:       deps,
	}).Bundle()
	require.NoError(t, err)

	// The executable lands in the bundle root, the libraries under libs/.
	content, err := os.ReadFile(filepath.Join(outDir, "myapp"))
	require.NoError(t, err)
	assert.Equal(t, "fake executable", string(content))

	content, err = os.ReadFile(filepath.Join(outDir, LibsDirName, "libfoo.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "fake library foo", string(content))

	content, err = os.ReadFile(filepath.Join(outDir, LibsDirName, "libbar.so"))
	require.NoError(t, err)
	assert.Equal(t, "fake library bar", string(content))

	// The unresolved library is reported, not copied, and not fatal.
	assert.Equal(t, []string{"libghost.so.2"}, report.Missing)
	assert.NoFileExists(t, filepath.Join(outDir, LibsDirName, "libghost.so.2"))

	assert.Len(t, report.Libraries, 2)
	assert.Equal(t, filepath.Join(outDir, "myapp"), report.Executable)
}

func TestBundle_EnvScript(t *testing.T) {
	srcDir := t.TempDir()
	exe := createFile(t, srcDir, "myapp", "fake executable")

	outDir := filepath.Join(t.TempDir(), "output")
	_, err := New(&Options{
		Executable: exe,
		OutputDir:  outDir,
		Deps:       resolver.NewSet(),
	}).Bundle()
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(outDir, EnvScriptName))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(outDir, EnvScriptName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	content := string(script)
	assert.True(t, len(content) > 0)
	assert.Contains(t, content, "#!/bin/sh")
	assert.Contains(t, content, "BUNDLE_DIR="+outDir)
	assert.Contains(t, content, `export PATH="$BUNDLE_DIR:$PATH"`)
	assert.Contains(t, content, `export LD_LIBRARY_PATH="$BUNDLE_DIR/libs:$LD_LIBRARY_PATH"`)
}

func TestBundle_Manifest(t *testing.T) {
	srcDir := t.TempDir()
	exe := createFile(t, srcDir, "myapp", "fake executable")
	libFoo := createFile(t, srcDir, "libfoo.so.1", "fake library foo")

	deps := resolver.NewSet()
	deps.Add("libfoo.so.1", libFoo)
	deps.Add("libghost.so.2", "")

	outDir := filepath.Join(t.TempDir(), "output")
	_, err := New(&Options{
		Executable: exe,
		OutputDir:  outDir,
		Deps:       deps,
	}).Bundle()
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outDir, ManifestName))
	require.NoError(t, err)

	var manifest Report
	require.NoError(t, yaml.Unmarshal(raw, &manifest))
	assert.Equal(t, []string{"libghost.so.2"}, manifest.Missing)
	require.Len(t, manifest.Libraries, 1)
	assert.Equal(t, "libfoo.so.1", manifest.Libraries[0].Name)
	assert.Equal(t, libFoo, manifest.Libraries[0].Source)
	assert.False(t, manifest.CreatedAt.IsZero())
}

func TestBundle_OutputDirCreatedBeforeCopies(t *testing.T) {
	srcDir := t.TempDir()
	exe := createFile(t, srcDir, "myapp", "fake executable")

	// Deeply nested output directory which does not exist yet.
	outDir := filepath.Join(t.TempDir(), "a", "b", "output")
	_, err := New(&Options{
		Executable: exe,
		OutputDir:  outDir,
		Deps:       resolver.NewSet(),
	}).Bundle()
	require.NoError(t, err)

	assert.DirExists(t, outDir)
	assert.DirExists(t, filepath.Join(outDir, LibsDirName))
}

func TestBundle_SameFilenameFromTwoRootsCopiedOnce(t *testing.T) {
	srcDir := t.TempDir()
	exe := createFile(t, srcDir, "myapp", "fake executable")

	dirA := filepath.Join(srcDir, "a")
	dirB := filepath.Join(srcDir, "b")
	require.NoError(t, os.MkdirAll(dirA, 0o755))
	require.NoError(t, os.MkdirAll(dirB, 0o755))
	libA := createFile(t, dirA, "libfoo.so.1", "library from a")
	libB := createFile(t, dirB, "libfoo.so.1", "library from b")

	// Same soname reachable under two identities, e.g. once by name and
	// once by absolute path. Both would land on libs/libfoo.so.1.
	deps := resolver.NewSet()
	deps.Add(libA, libA)
	deps.Add(libB, libB)

	outDir := filepath.Join(t.TempDir(), "output")
	report, err := New(&Options{
		Executable: exe,
		OutputDir:  outDir,
		Deps:       deps,
	}).Bundle()
	require.NoError(t, err)

	// Only the first identity in order is copied, deterministically.
	require.Len(t, report.Libraries, 1)
	assert.Equal(t, libA, report.Libraries[0].Source)
	content, err := os.ReadFile(filepath.Join(outDir, LibsDirName, "libfoo.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "library from a", string(content))
}

func TestBundle_CopyFailureIsFatal(t *testing.T) {
	srcDir := t.TempDir()
	exe := createFile(t, srcDir, "myapp", "fake executable")

	deps := resolver.NewSet()
	// Resolved path that does not exist anymore by the time we copy.
	deps.Add("libfoo.so.1", filepath.Join(srcDir, "gone.so"))

	outDir := filepath.Join(t.TempDir(), "output")
	_, err := New(&Options{
		Executable: exe,
		OutputDir:  outDir,
		Deps:       deps,
	}).Bundle()
	require.Error(t, err)
}
