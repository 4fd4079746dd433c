package fileutil

import (
	"os"
	"regexp"

	"golang.org/x/sys/unix"
)

// Matches shared object filenames like libfoo.so, libfoo.so.1, libfoo.so.1.2.3
var sharedLibraryRegexp = regexp.MustCompile(`\.so(\.\d+)*$`)

// Exists returns whether the given file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsSharedLibrary returns whether the given path looks like a versioned or
// unversioned shared object.
func IsSharedLibrary(path string) bool {
	return sharedLibraryRegexp.MatchString(path)
}

// IsExecutable returns whether the current user is allowed to execute the
// file at the given path.
func IsExecutable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}

// IsReadable returns whether the current user is allowed to read the file at
// the given path.
func IsReadable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}
