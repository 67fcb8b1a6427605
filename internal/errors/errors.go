// Package errors formats compiler diagnostics with source context and
// line/column carets, and classifies them by kind.
package errors

import (
	"fmt"
	"strings"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// Kind classifies a CompilerError by the pipeline stage that raised it.
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindResolution
	KindType
	KindSemantic
	KindIO
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindResolution:
		return "resolution error"
	case KindType:
		return "type error"
	case KindSemantic:
		return "semantic error"
	case KindIO:
		return "I/O error"
	case KindInternal:
		return "internal error"
	default:
		return "error"
	}
}

// CompilerError is a single diagnostic with position and source context.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a diagnostic of the given kind.
func New(kind Kind, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface with the one-line form required
// for non-verbose propagation: `path(line,col): error: message`.
func (e *CompilerError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("(%d,%d): %s: %s", e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s(%d,%d): %s: %s", e.File, e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
}

// Format renders the error with a source-line caret, matching the
// one-diagnostic-per-root-cause presentation. With color
// true, ANSI codes highlight the caret and message for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	sb.WriteString(e.Error())
	sb.WriteString("\n")

	sourceLine := e.getSourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatWithContext renders contextLines of source before and after the
// error line, for `--verbose` stacked context.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	if e.Source == "" {
		return e.Format(color)
	}
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return e.Format(color)
	}

	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	for i := start; i <= end; i++ {
		lineNumStr := fmt.Sprintf("%4d | ", i)
		if i == e.Pos.Line {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(lines[i-1])
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(lines[i-1])
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Diagnostics collects every CompilerError raised while processing one
// compilation unit. Parsing continues past a failing top-level item, so
// one unit can record several diagnostics; any recorded diagnostic marks
// the whole unit as failed.
type Diagnostics struct {
	errs []*CompilerError
}

// Add appends err; a nil err is ignored so callers can write
// `diags.Add(maybeErr())` without a guard.
func (d *Diagnostics) Add(err *CompilerError) {
	if err != nil {
		d.errs = append(d.errs, err)
	}
}

// HasErrors reports whether any diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool { return len(d.errs) > 0 }

// Errors returns the recorded diagnostics in the order they were added.
func (d *Diagnostics) Errors() []*CompilerError { return d.errs }

// Format renders every recorded diagnostic, numbered when there is more
// than one.
func (d *Diagnostics) Format(verbose bool, color bool) string {
	if len(d.errs) == 0 {
		return ""
	}
	if len(d.errs) == 1 {
		return formatOne(d.errs[0], verbose, color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(d.errs))
	for i, e := range d.errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(d.errs))
		sb.WriteString(formatOne(e, verbose, color))
		if i < len(d.errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatOne(e *CompilerError, verbose, color bool) string {
	if verbose {
		return e.FormatWithContext(2, color)
	}
	return e.Format(color)
}
