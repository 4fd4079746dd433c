package resolver

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sobundle/sobundle/internal/binary"
	"github.com/sobundle/sobundle/pkg/log"
)

// maxWorkItems bounds the closure walk so a pathological dependency graph
// cannot keep the tool busy forever. Real-world closures are a few dozen
// libraries deep.
const maxWorkItems = 10000

// Lister returns the directly required library names of one binary. It is the
// seam between the closure walk and the ELF metadata reader, so tests can
// substitute synthetic dependency graphs.
type Lister func(path string) ([]string, error)

// ClosureResolver computes the transitive shared-library closure of an
// executable using the direct-metadata strategy: every binary is read with
// the Lister and every discovered name is located through the PathResolver
// before it is descended into.
type ClosureResolver struct {
	paths *PathResolver
	list  Lister
}

func NewClosureResolver(paths *PathResolver) *ClosureResolver {
	return &ClosureResolver{
		paths: paths,
		list:  binary.ImportedLibraries,
	}
}

// NewClosureResolverWithLister is like NewClosureResolver but reads direct
// dependencies through the given Lister.
func NewClosureResolverWithLister(paths *PathResolver, list Lister) *ClosureResolver {
	return &ClosureResolver{paths: paths, list: list}
}

// Resolve walks the dependency graph rooted at exePath and returns the
// deduplicated closure. The walk uses an explicit work queue instead of
// recursion, so cyclic graphs and very deep chains cannot exhaust the call
// stack. Every dependency name is added to the set before its own
// dependencies are explored, which terminates cycles including direct
// self-cycles.
//
// A malformed or unreadable binary is fatal. A name that cannot be located in
// any search tier is recorded in the set without a path and not descended
// into.
func (c *ClosureResolver) Resolve(exePath string) (*Set, error) {
	set := NewSet()

	// The root executable itself is not part of its dependency set, but it
	// seeds the work queue. Its identity is its path, so bundling a library
	// that is also reachable as a dependency of itself stays cycle-safe.
	queue := []string{exePath}
	seenFiles := map[string]bool{exePath: true}

	var processed int
	for len(queue) > 0 {
		if processed++; processed > maxWorkItems {
			return nil, errors.Errorf("dependency graph of %s exceeds %d entries, giving up", exePath, maxWorkItems)
		}

		current := queue[0]
		queue = queue[1:]

		names, err := c.list(current)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			if set.Contains(name) {
				continue
			}

			path, err := c.paths.Resolve(name)
			if errors.Is(err, ErrNotFound) {
				// Non-fatal: recorded as a name only and reported later. It
				// cannot be opened, so its own dependencies stay unexplored.
				log.Debugf("Cannot resolve %s, required by %s", name, filepath.Base(current))
				set.Add(name, "")
				continue
			}
			if err != nil {
				return nil, err
			}

			// Mark seen before descending, the cycle-safety invariant.
			set.Add(name, path)
			if !seenFiles[path] {
				seenFiles[path] = true
				queue = append(queue, path)
			}
		}
	}

	return set, nil
}
