package resolver

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Set is the dependency set produced by closure resolution. Entries are keyed
// by the dependency identity: the bare library name for the ELF strategy, the
// resolved absolute path for the ldd strategy. The value is the resolved path
// on disk, empty if the dependency could not be located. Within one run all
// identities use the same representation so membership checks are
// well-defined.
type Set struct {
	entries map[string]string
}

func NewSet() *Set {
	return &Set{entries: make(map[string]string)}
}

// Add records a dependency with its resolved path. An empty path marks the
// dependency as unresolvable.
func (s *Set) Add(id, path string) {
	s.entries[id] = path
}

func (s *Set) Contains(id string) bool {
	_, ok := s.entries[id]
	return ok
}

func (s *Set) Remove(id string) {
	delete(s.entries, id)
}

func (s *Set) Len() int {
	return len(s.entries)
}

// Path returns the resolved path of a dependency, empty if the dependency is
// unknown or unresolved.
func (s *Set) Path(id string) string {
	return s.entries[id]
}

// IDs returns all dependency identities in lexical order.
func (s *Set) IDs() []string {
	ids := maps.Keys(s.entries)
	sort.Strings(ids)
	return ids
}

// Resolved returns the identities of all dependencies with a resolved path,
// in lexical order.
func (s *Set) Resolved() []string {
	var ids []string
	for id, path := range s.entries {
		if path != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Missing returns the identities of all dependencies without a resolved path,
// in lexical order.
func (s *Set) Missing() []string {
	var ids []string
	for id, path := range s.entries {
		if path == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
