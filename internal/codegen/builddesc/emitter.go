// Package builddesc implements G4, the build-descriptor emitter: it
// ensures the four proxy/stub sources generated for one IDL unit are
// listed in the shared ps/CMakeLists.txt, creating that file from a
// scaffold on first use and otherwise merging into it in place.
package builddesc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/sdv-framework/sdvidlc/internal/codegen"
)

// lockName documents the fixed constant the original compiler's named
// mutex was keyed on (ipc::named_mutex("SDV_IDL_COMPILER_GENERATE_CMAKE"));
// this port locks the descriptor file itself rather than an OS-global
// named mutex, since a lock scoped to the file it protects composes
// better with --output-dir pointing different invocations at different
// descriptors.
const lockName = "SDV_IDL_COMPILER_GENERATE_CMAKE"

var errMissingAddLibrary = errors.New(lockName + ": missing 'add_library' keyword")
var errMissingShared = errors.New(lockName + ": missing 'shared' keyword")
var errUnclosedAddLibrary = errors.New(lockName + ": missing ')' closing the add_library statement")

// Merge ensures the four proxy/stub sources for one IDL unit (stem ==
// the unit's file stem, e.g. "foo" for foo.idl) are listed in path's
// `add_library(... SHARED ...)` stanza, creating path from the default
// scaffold first if it does not exist yet. Cross-process access is
// serialized by a named file lock so concurrent compiler invocations
// targeting the same descriptor never interleave their read-modify-write.
func Merge(path, targetLibName, stem string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	var source string
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		source = string(data)
	case os.IsNotExist(err):
		source = codegen.Template(defaultCMakeLists, map[string]string{"target_lib_name": targetLibName})
	default:
		return err
	}

	merged, changed, err := mergeSources(source, stem)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(merged), 0o644)
}

// mergeSources parses the add_library(... SHARED ...) stanza's source
// list and inserts the four <stem>_proxy/_stub files not already
// present, reproducing the original compiler's case-insensitive keyword
// search and whitespace-delimited file-list scan (cmake_generator.cpp).
func mergeSources(source, stem string) (result string, changed bool, err error) {
	lower := strings.ToLower(source)

	libPos := strings.Index(lower, "add_library")
	if libPos < 0 {
		return "", false, errMissingAddLibrary
	}
	sharedOffset := strings.Index(lower[libPos:], "shared")
	if sharedOffset < 0 {
		return "", false, errMissingShared
	}
	pos := libPos + sharedOffset + len("shared")

	closeOffset := strings.Index(source[pos:], ")")
	if closeOffset < 0 {
		return "", false, errUnclosedAddLibrary
	}
	stop := pos + closeOffset

	existing := map[string]bool{}
	for _, tok := range strings.Fields(source[pos:stop]) {
		existing[tok] = true
	}

	required := []string{stem + "_proxy.h", stem + "_proxy.cpp", stem + "_stub.h", stem + "_stub.cpp"}
	var missing []string
	for _, f := range required {
		if !existing[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return source, false, nil
	}

	var insert strings.Builder
	for _, f := range missing {
		insert.WriteString("\n    ")
		insert.WriteString(f)
	}
	return source[:stop] + insert.String() + source[stop:], true, nil
}
