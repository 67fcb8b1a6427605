// Package compiler drives the per-file generator pipeline: parse one
// IDL unit, then run G1/G2/G3/G4 over its entity graph and commit their
// output atomically.
package compiler

// Options mirrors the CLI flags that shape one compile invocation
// (cmd/sdvidlc/cmd/compile.go), kept separate from cobra's flag-binding
// machinery so the pipeline has no dependency on the CLI layer.
type Options struct {
	// OutputDir overrides the output base directory; "" means each
	// file's own directory.
	OutputDir string

	// NoProxyStub skips G2 (proxy/stub) and G4 (build descriptor),
	// producing only the G1 definition header and G3 serdes header.
	NoProxyStub bool

	// PSCMakeTarget names the shared library target G4 ensures inside
	// ps/CMakeLists.txt's add_library(... SHARED ...) stanza.
	PSCMakeTarget string

	// IncludeDirs are additional search paths for `#include` resolution.
	IncludeDirs []string

	// Verbose reports every phase to stderr; Quiet suppresses all
	// non-error output. Both are mutually exclusive CLI flags, enforced
	// by the caller.
	Verbose bool
	Quiet   bool
}
