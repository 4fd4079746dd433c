//go:build freebsd || linux

// Package ldd implements the dynamic-linker-query strategy: it invokes the
// platform's ldd utility on an executable and parses its output into a
// dependency set of resolved absolute paths. ldd already reports the complete
// transitive closure with the platform's own search-path logic, so no
// recursion and no path resolver are involved.
package ldd

import (
	"bufio"
	"bytes"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/sobundle/sobundle/internal/resolver"
)

// Line shapes produced by glibc's ldd:
//
//	linux-vdso.so.1 (0x00007ffd8bdf2000)
//	libc.so.6 => /lib/x86_64-linux-gnu/libc.so.6 (0x00007f1d3a000000)
//	libmissing.so.1 => not found
//	/lib64/ld-linux-x86-64.so.2 (0x00007f1d3a41e000)
type entry struct {
	name     string
	path     string
	notFound bool
}

// ResolvedDependencies runs ldd on the given executable and returns its full
// transitive dependency closure. Entries ldd resolved are keyed by their
// absolute path, entries it could not resolve are kept as bare names without
// a path. A statically linked executable yields an empty set.
func ResolvedDependencies(exePath string) (*resolver.Set, error) {
	cmd := exec.Command("ldd", exePath)
	// Keep LD_PRELOAD and friends out of the queried process.
	cmd.Env = []string{}

	out, err := cmd.CombinedOutput()
	if err != nil {
		if bytes.Contains(out, []byte("not a dynamic executable")) {
			return resolver.NewSet(), nil
		}
		return nil, errors.Wrapf(err, "ldd %s: %s", exePath, strings.TrimSpace(string(out)))
	}

	set := resolver.NewSet()
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		e, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		switch {
		case e.notFound:
			set.Add(e.name, "")
		case e.path != "":
			set.Add(e.path, e.path)
		default:
			// Virtual entries like the vdso have a name but no file behind
			// it. Keep the name so the ignore filter sees it.
			set.Add(e.name, "")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return set, nil
}

// parseLine parses one line of ldd output. It returns false for lines that
// carry no dependency information.
func parseLine(line string) (entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return entry{}, false
	}

	if name, rest, found := strings.Cut(line, "=>"); found {
		e := entry{name: strings.TrimSpace(name)}
		rest = strings.TrimSpace(rest)
		if rest == "not found" {
			e.notFound = true
			return e, true
		}
		e.path = stripAddress(rest)
		return e, true
	}

	// No arrow: either the dynamic loader, listed by its absolute path, or a
	// virtual entry like linux-vdso.so.1.
	token := stripAddress(line)
	if token == "" || strings.ContainsAny(token, " \t") {
		// Informational lines like "statically linked".
		return entry{}, false
	}
	if strings.HasPrefix(token, "/") {
		return entry{name: token, path: token}, true
	}
	return entry{name: token}, true
}

// stripAddress removes the trailing memory-address annotation, e.g.
// "(0x00007f1d3a000000)".
func stripAddress(s string) string {
	if i := strings.LastIndex(s, " ("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
