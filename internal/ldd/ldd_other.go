//go:build !freebsd && !linux

package ldd

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/sobundle/sobundle/internal/resolver"
)

// The query-tool strategy relies on ldd's output format, which is only
// stable on Linux and FreeBSD. Elsewhere the direct ELF strategy is the only
// supported one.
func ResolvedDependencies(exePath string) (*resolver.Set, error) {
	return nil, errors.Errorf("the ldd resolver is not supported on %s, use the elf resolver", runtime.GOOS)
}
