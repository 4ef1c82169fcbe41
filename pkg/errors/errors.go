// Package errors renders internal/diag.Diagnostic values into
// human-readable text: file:line:col header, the offending source line,
// and a caret pointing at the column. diag itself only accumulates
// structured records; this is the presentation layer spec.md's
// diagnostics model leaves to a separate concern.
//
// Grounded on go-dws's internal/errors/errors.go: a CompilerError type
// with a Format(color bool) method building the same header/source-line
// /caret/message shape via strings.Builder and raw ANSI escapes.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
)

// SourceError pairs one diagnostic with enough context (source text,
// optional file name) to render it.
type SourceError struct {
	Diagnostic diag.Diagnostic
	Source     string
	File       string
}

// Line and Column are 1-indexed, matching go-dws's lexer.Position
// convention.
func (e *SourceError) Line() int   { line, _ := lineCol(e.Source, e.Diagnostic.Start); return line }
func (e *SourceError) Column() int { _, col := lineCol(e.Source, e.Diagnostic.Start); return col }

// Error implements the error interface.
func (e *SourceError) Error() string { return e.Format(false) }

// Format renders the diagnostic with its source line and a caret,
// matching go-dws's CompilerError.Format(color bool).
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder

	line, col := lineCol(e.Source, e.Diagnostic.Start)
	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Diagnostic.Level, e.File, line, col)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", e.Diagnostic.Level, line, col)
	}

	if srcLine := sourceLine(e.Source, line); srcLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", line)
		sb.WriteString(lineNumStr)
		sb.WriteString(srcLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Diagnostic.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// sourceLine extracts a 1-indexed line from src.
func sourceLine(src string, lineNum int) string {
	if src == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// lineCol converts a byte offset into a 1-indexed (line, column) pair.
func lineCol(src string, offset int) (line, col int) {
	line, col = 1, 1
	if offset > len(src) {
		offset = len(src)
	}
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// FromList renders every error and warning in diags against src/file, in
// emission order (errors first, matching diag.List's own separation).
func FromList(diags *diag.List, src, file string) []*SourceError {
	all := make([]*SourceError, 0, len(diags.Errors())+len(diags.Warnings()))
	for _, d := range diags.Errors() {
		all = append(all, &SourceError{Diagnostic: d, Source: src, File: file})
	}
	for _, d := range diags.Warnings() {
		all = append(all, &SourceError{Diagnostic: d, Source: src, File: file})
	}
	return all
}

// Format renders every diagnostic in diags, separated by blank lines,
// matching go-dws's FormatErrors helper for multiple CompilerErrors.
func Format(diags *diag.List, src, file string, color bool) string {
	items := FromList(diags, src, file)
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Format(color))
	}
	return strings.Join(parts, "\n\n")
}
