package codegen

import (
	"path/filepath"
	"strings"
)

// OutputPaths computes the full set of output file paths for one input
// IDL file, rooted at outputDir: the definition header
// sits alongside the computed base, while proxy/stub and serdes files
// live in sibling `ps/` and `serdes/` sub-directories.
type OutputPaths struct {
	Definition  string // <base>.h
	ProxyHeader string // ps/<stem>_proxy.h
	ProxySource string // ps/<stem>_proxy.cpp
	StubHeader  string // ps/<stem>_stub.h
	StubSource  string // ps/<stem>_stub.cpp
	SerdesHeader string // serdes/<stem>_serdes.h
	CMakeLists  string // ps/CMakeLists.txt
}

// ComputeOutputPaths derives every generator's output path from inputPath
// (e.g. "path/to/foo.idl") and outputDir. When outputDir is "", the input
// file's own directory is used (the CLI's --output-dir default =
// input directory").
func ComputeOutputPaths(inputPath, outputDir string) OutputPaths {
	dir := filepath.Dir(inputPath)
	if outputDir != "" {
		dir = outputDir
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	psDir := filepath.Join(dir, "ps")
	serdesDir := filepath.Join(dir, "serdes")
	return OutputPaths{
		Definition:   filepath.Join(dir, stem+".h"),
		ProxyHeader:  filepath.Join(psDir, stem+"_proxy.h"),
		ProxySource:  filepath.Join(psDir, stem+"_proxy.cpp"),
		StubHeader:   filepath.Join(psDir, stem+"_stub.h"),
		StubSource:   filepath.Join(psDir, stem+"_stub.cpp"),
		SerdesHeader: filepath.Join(serdesDir, stem+"_serdes.h"),
		CMakeLists:   filepath.Join(psDir, "CMakeLists.txt"),
	}
}

// IncludeNameFor renders the #include-able header name for an IDL unit's
// own definition file, given only its input path (used when rewriting
// `#include "x.idl"` to `#include "x.h"`).
func IncludeNameFor(idlPath string) string {
	stem := strings.TrimSuffix(filepath.Base(idlPath), filepath.Ext(idlPath))
	return stem + ".h"
}
