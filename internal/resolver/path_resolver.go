package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"

	"github.com/sobundle/sobundle/util/fileutil"
	"github.com/sobundle/sobundle/util/sliceutil"
)

// DefaultSystemPaths is the built-in second search tier, in precedence order.
var DefaultSystemPaths = []string{
	"/lib",
	"/usr/lib",
	"/lib64",
	"/usr/lib64",
	"/usr/local/lib",
}

// LibraryPathEnvVar is the colon-separated third search tier, read from the
// process environment.
const LibraryPathEnvVar = "LD_LIBRARY_PATH"

// ErrNotFound is returned by PathResolver.Resolve when a library name exists
// in none of the search tiers. It is not fatal: callers report the miss and
// leave the library out of the copy set.
var ErrNotFound = errors.New("library not found")

// PathResolver locates a bare library name on disk. The search order is
// fixed: user-supplied extra paths first, then the built-in system
// directories, then the entries of LD_LIBRARY_PATH. No directory is searched
// twice.
type PathResolver struct {
	searchDirs []string
}

// NewPathResolver builds a resolver from the given extra search paths.
// Extra path entries may contain glob patterns, which are expanded in place;
// an entry that matches nothing is kept verbatim so precedence stays
// predictable.
func NewPathResolver(extraPaths []string) (*PathResolver, error) {
	var dirs []string

	for _, path := range extraPaths {
		expanded, err := expandGlob(path)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, expanded...)
	}

	dirs = append(dirs, DefaultSystemPaths...)

	for _, dir := range strings.Split(os.Getenv(LibraryPathEnvVar), ":") {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}

	return &PathResolver{searchDirs: dedup(dirs)}, nil
}

// Resolve returns the absolute path of the first file named name in the
// search directories, or ErrNotFound once all tiers are exhausted. Presence
// of a file with the matching name is sufficient, no architecture or symlink
// validation happens here.
func (r *PathResolver) Resolve(name string) (string, error) {
	for _, dir := range r.searchDirs {
		path := filepath.Join(dir, name)
		if fileutil.Exists(path) {
			return path, nil
		}
	}
	return "", errors.Wrap(ErrNotFound, name)
}

// SearchDirs returns the flattened search directory list in precedence order.
func (r *PathResolver) SearchDirs() []string {
	return r.searchDirs
}

func expandGlob(path string) ([]string, error) {
	if !strings.ContainsAny(path, "*?[{") {
		return []string{path}, nil
	}
	matches, err := zglob.Glob(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{path}, nil
		}
		return nil, errors.Wrapf(err, "invalid library path pattern %q", path)
	}
	if len(matches) == 0 {
		return []string{path}, nil
	}
	return matches, nil
}

func dedup(dirs []string) []string {
	var unique []string
	for _, dir := range dirs {
		if !sliceutil.Contains(unique, dir) {
			unique = append(unique, dir)
		}
	}
	return unique
}
