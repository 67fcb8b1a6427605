package codegen

import (
	"strings"
)

// FileHeader renders the doc-comment banner every generated file opens
// with: the source IDL file it was derived from and the generator that
// produced it. Timestamps are intentionally omitted so output is
// byte-reproducible across runs of the same input (build systems diff
// generated sources to decide whether to recompile).
func FileHeader(s *Stream, sourceFile, generator string) {
	s.Line("// Generated by sdvidlc from %s.", sourceFile)
	s.Line("// Generator: %s. Do not edit by hand.", generator)
	s.Blank()
}

// IncludeGuardName derives a `#pragma once`-equivalent macro name from a
// header's path, for toolchains that prefer guard macros over pragmas.
func IncludeGuardName(headerPath string) string {
	base := headerPath
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	upper := strings.ToUpper(base)
	var b strings.Builder
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("_INCLUDED")
	return b.String()
}

// OpenIncludeGuard writes `#pragma once`, the idiomatic guard on every
// toolchain this compiler targets (no generated header needs the
// portability of an #ifndef guard).
func OpenIncludeGuard(s *Stream, _ string) {
	s.Line("#pragma once")
	s.Blank()
}
