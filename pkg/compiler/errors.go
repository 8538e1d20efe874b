// Package compiler provides the validation pipeline for IPPcode20 sources.
// This file defines the CompileError type for structured error reporting.
package compiler

import (
	"fmt"
	"strings"

	"github.com/zurustar/ipp-parse/pkg/status"
)

// CompileError represents a classified failure with location information.
// It wraps the *status.Error produced by a pipeline phase and adds the phase
// name and the surrounding source lines.
type CompileError struct {
	// Phase indicates which phase generated the error.
	// Valid values: "reader", "parser"
	Phase string

	// Line is the 1-indexed line number where the error occurred (0 if unknown).
	Line int

	// Column is the 1-indexed column number where the error occurred (0 if unknown).
	Column int

	// Context contains the source code around the error location, with a
	// pointer (^) indicating the error column. Empty when no line is known.
	Context string

	// Err is the classified cause.
	Err *status.Error
}

// Error implements the error interface.
// It returns a formatted error message including phase, location, message, and context.
func (e *CompileError) Error() string {
	if e.Line > 0 {
		msg := fmt.Sprintf("%s error at line %d, column %d: %s", e.Phase, e.Line, e.Column, e.Err.Detail)
		if e.Context != "" {
			msg += "\n" + e.Context
		}
		return msg
	}
	return fmt.Sprintf("%s error: %s", e.Phase, e.Err.Error())
}

// Unwrap returns the classified cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// ErrorKind implements status.Classified.
func (e *CompileError) ErrorKind() status.Kind {
	return e.Err.Kind
}

// NewParserErrorWithContext wraps a parser failure and attaches source context.
func NewParserErrorWithContext(err *status.Error, source string) *CompileError {
	return &CompileError{
		Phase:   "parser",
		Line:    err.Line,
		Column:  err.Column,
		Context: GenerateErrorContext(source, err.Line, err.Column),
		Err:     err,
	}
}

// GenerateErrorContext generates source code context around an error location.
// It includes 2 lines before and 2 lines after the error line, with line numbers
// and a pointer (^) indicating the error column.
//
// Example output:
//
//	  2 | DEFVAR GF@x
//	  3 | MOVE GF@x int@1
//	> 4 | WRITE int@x
//	    |       ^
//	  5 | BREAK
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	if line > len(lines) {
		return ""
	}

	// 2 lines before (0-indexed: line-1-2 = line-3)
	start := line - 3
	if start < 0 {
		start = 0
	}
	// 2 lines after (0-indexed: line-1+2+1 = line+2)
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		lineContent := lines[i]

		if lineNum != line {
			buf.WriteString(fmt.Sprintf("  %*d | %s\n", lineNumWidth, lineNum, lineContent))
			continue
		}

		buf.WriteString(fmt.Sprintf("> %*d | %s\n", lineNumWidth, lineNum, lineContent))
		// "> " + lineNumWidth + " | "
		pointerIndent := 2 + lineNumWidth + 3
		if column > 0 {
			buf.WriteString(fmt.Sprintf("%s%s^\n", strings.Repeat(" ", pointerIndent), strings.Repeat(" ", column-1)))
		} else {
			buf.WriteString(fmt.Sprintf("%s^\n", strings.Repeat(" ", pointerIndent)))
		}
	}

	return buf.String()
}
