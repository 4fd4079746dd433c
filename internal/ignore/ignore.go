// Package ignore removes well-known always-present entries from a computed
// dependency closure. Filtering happens exactly once, after the closure is
// complete, so the dependencies of an ignored library are still discovered.
package ignore

import (
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"

	"github.com/sobundle/sobundle/internal/resolver"
)

// Default patterns cover the dynamic loader and the kernel-injected vdso.
// They are matched against the base filename and deliberately leave the
// version suffix open, so "ld-linux-x86-64.so.2" matches a pattern written
// against "ld-linux*.so".
var defaultPatterns = []string{
	`^ld-linux.*\.so`,
	`^ld\.so`,
	`^linux-vdso\.so`,
	`^linux-gate\.so`,
}

// libcPattern additionally drops the core C runtime, for targets that are
// known to carry a compatible glibc.
const libcPattern = `^libc\.so`

// Filter holds the compiled ignore patterns of one invocation.
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter compiles the default patterns plus any user-supplied extra
// patterns. With ignoreLibc the C runtime is dropped from bundles as well.
func NewFilter(extraPatterns []string, ignoreLibc bool) (*Filter, error) {
	patterns := append([]string{}, defaultPatterns...)
	if ignoreLibc {
		patterns = append(patterns, libcPattern)
	}
	patterns = append(patterns, extraPatterns...)

	f := &Filter{}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Matches reports whether the base filename of the given dependency identity
// matches any ignore pattern.
func (f *Filter) Matches(id string) bool {
	base := filepath.Base(id)
	for _, re := range f.patterns {
		if re.MatchString(base) {
			return true
		}
	}
	return false
}

// Apply removes every matching entry from the set. The set must not be
// mutated afterwards.
func (f *Filter) Apply(set *resolver.Set) {
	for _, id := range set.IDs() {
		if f.Matches(id) {
			set.Remove(id)
		}
	}
}
