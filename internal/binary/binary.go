// Package binary reads dynamic-linking metadata directly from ELF files.
package binary

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ParseError is returned when a file is not a valid ELF binary. It is fatal
// for the whole resolution run: a binary we cannot parse means we cannot
// trust the closure to be complete.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: not a valid ELF binary: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ImportedLibraries returns the DT_NEEDED entries of the ELF file at path, in
// declaration order. Statically linked binaries yield an empty list. A file
// that cannot be opened returns the underlying I/O error, a file that is not
// an ELF binary returns a *ParseError.
func ImportedLibraries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	elfFile, err := elf.NewFile(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	libs, err := elfFile.ImportedLibraries()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return libs, nil
}

// Interpreter returns the dynamic loader recorded in the PT_INTERP program
// header, or an empty string if the binary does not request one (static
// binaries, shared objects).
func Interpreter(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	elfFile, err := elf.NewFile(f)
	if err != nil {
		return "", &ParseError{Path: path, Err: err}
	}

	for _, prog := range elfFile.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}
		raw, err := io.ReadAll(prog.Open())
		if err != nil {
			return "", errors.WithStack(err)
		}
		// The interpreter string is NUL-terminated.
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		return string(raw), nil
	}

	return "", nil
}
