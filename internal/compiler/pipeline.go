package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/codegen/builddesc"
	"github.com/sdv-framework/sdvidlc/internal/codegen/definition"
	"github.com/sdv-framework/sdvidlc/internal/codegen/proxystub"
	"github.com/sdv-framework/sdvidlc/internal/codegen/serdes"
	cerrors "github.com/sdv-framework/sdvidlc/internal/errors"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/parser"
)

// Phase names a pipeline stage for --verbose reporting.
type Phase string

const (
	PhaseParse      Phase = "parse"
	PhaseDefinition Phase = "definition"
	PhaseProxyStub  Phase = "proxy/stub"
	PhaseSerdes     Phase = "serdes"
	PhaseBuildDesc  Phase = "build descriptor"
)

// Report is called once per phase whatever Options.Verbose says; the CLI
// layer supplies the implementation and decides whether to print
// (library packages never print directly).
type Report func(file string, phase Phase)

// CompileFile runs the full pipeline over one IDL file: parse, then
// emit the definition and serdes headers, and (unless NoProxyStub) the
// proxy/stub sources plus the merged build descriptor. Every generated
// header and source is written via a temp-file-then-rename commit so a
// failure partway through never leaves a half-written output file
// behind; the build descriptor is rewritten in place by builddesc.Merge.
// Diagnostics accumulated while parsing are returned even on success
// (an empty Diagnostics has HasErrors() == false).
func CompileFile(path string, opts Options, report Report) (*cerrors.Diagnostics, error) {
	report = reportOrNoop(report)

	source, err := readSource(path)
	if err != nil {
		return nil, err
	}

	report(path, PhaseParse)
	p := parser.New(path, source)
	if err := p.ParseUnit(); err != nil {
		return p.Diagnostics(), nil
	}
	diags := p.Diagnostics()
	if diags.HasErrors() {
		return diags, nil
	}

	checkIncludes(p.Meta(), path, opts.IncludeDirs, diags)
	if diags.HasErrors() {
		return diags, nil
	}

	paths := codegen.ComputeOutputPaths(path, opts.OutputDir)
	includeName := codegen.IncludeNameFor(path)
	arena := p.Arena()

	report(path, PhaseDefinition)
	defEmitter := definition.New(arena, path, adaptMeta(p.Meta()))
	defHeader, err := defEmitter.Emit()
	if err != nil {
		return diags, fmt.Errorf("emitting definition header for %s: %w", path, err)
	}
	if err := writeFile(paths.Definition, defHeader); err != nil {
		return diags, err
	}

	report(path, PhaseSerdes)
	serdesHeader := serdes.Emit(arena, path, includeName)
	if err := writeFile(paths.SerdesHeader, serdesHeader); err != nil {
		return diags, err
	}

	if opts.NoProxyStub {
		return diags, nil
	}

	report(path, PhaseProxyStub)
	proxyHeader, proxySource := proxystub.EmitProxyUnit(arena, path, includeName)
	stubHeader, stubSource := proxystub.EmitStubUnit(arena, path, includeName)
	for _, f := range []struct {
		path, text string
	}{
		{paths.ProxyHeader, proxyHeader},
		{paths.ProxySource, proxySource},
		{paths.StubHeader, stubHeader},
		{paths.StubSource, stubSource},
	} {
		if err := writeFile(f.path, f.text); err != nil {
			return diags, err
		}
	}

	report(path, PhaseBuildDesc)
	target := opts.PSCMakeTarget
	if target == "" {
		target = stem(path)
	}
	if err := builddesc.Merge(paths.CMakeLists, target, stem(path)); err != nil {
		return diags, fmt.Errorf("merging build descriptor for %s: %w", path, err)
	}

	return diags, nil
}

// FileResult is one file's outcome from CompileFiles: its parse
// diagnostics (nil if parsing never started) and a pipeline error for
// anything that failed after a clean parse (emission, I/O, locking).
type FileResult struct {
	Path        string
	Diagnostics *cerrors.Diagnostics
	Err         error
}

// Failed reports whether this file should count toward a nonzero exit
// status: either a pipeline error, or at least one parse diagnostic.
func (r FileResult) Failed() bool {
	return r.Err != nil || (r.Diagnostics != nil && r.Diagnostics.HasErrors())
}

// CompileFiles runs CompileFile over every path, continuing past a
// failing file rather than aborting the whole batch, and returns one
// FileResult per input so the caller can report diagnostics the way it
// sees fit.
func CompileFiles(paths []string, opts Options, report Report) []FileResult {
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		diags, err := CompileFile(path, opts, report)
		results = append(results, FileResult{Path: path, Diagnostics: diags, Err: err})
	}
	return results
}

func reportOrNoop(r Report) Report {
	if r != nil {
		return r
	}
	return func(string, Phase) {}
}

// checkIncludes resolves every quoted `#include "x.idl"` meta directive
// against the unit's own directory and the --include search path,
// recording an I/O diagnostic for anything unresolvable. System includes
// (`#include <...>`) are assumed to be external headers G1 never
// rewrites, so they are not resolved here. Resolution only confirms the
// file exists; its contents are not merged into this unit's entity
// graph: this compiler has no cross-unit symbol import step.
func checkIncludes(meta []parser.MetaItem, unitPath string, includeDirs []string, diags *cerrors.Diagnostics) {
	dirs := append([]string{filepath.Dir(unitPath)}, includeDirs...)
	for _, m := range meta {
		d := lexer.ParseDirective(m.Tok.Lexeme)
		if d.Kind != lexer.DirInclude || d.IsSystem || d.Target == "" {
			continue
		}
		if filepath.IsAbs(d.Target) {
			if _, err := os.Stat(d.Target); err == nil {
				continue
			}
			diags.Add(cerrors.New(cerrors.KindIO, m.Tok.Pos, fmt.Sprintf("included file not found: %s", d.Target), "", unitPath))
			continue
		}
		found := false
		for _, dir := range dirs {
			if _, err := os.Stat(filepath.Join(dir, d.Target)); err == nil {
				found = true
				break
			}
		}
		if !found {
			diags.Add(cerrors.New(cerrors.KindIO, m.Tok.Pos, fmt.Sprintf("included file not found in search path: %s", d.Target), "", unitPath))
		}
	}
}

func adaptMeta(items []parser.MetaItem) []definition.MetaItem {
	out := make([]definition.MetaItem, len(items))
	for i, m := range items {
		out[i] = definition.MetaItem{Tok: m.Tok, Scope: m.Scope}
	}
	return out
}

func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// writeFile commits text to path via a temp file in the same directory
// followed by a rename, so a generated output file is never observed
// half-written by a concurrent build.
func writeFile(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("committing %s: %w", path, err)
	}
	return nil
}
