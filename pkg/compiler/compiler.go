// Package compiler provides the validation pipeline for IPPcode20 sources.
// It turns decoded source text into an ast.Program through two phases:
// 1. Lexer: comment stripping and tokenization per line
// 2. Parser: header, opcode and operand validation, program assembly
package compiler

import (
	"errors"

	"github.com/zurustar/ipp-parse/pkg/compiler/ast"
	"github.com/zurustar/ipp-parse/pkg/compiler/lexer"
	"github.com/zurustar/ipp-parse/pkg/compiler/parser"
	"github.com/zurustar/ipp-parse/pkg/stats"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// CompileOptions provides configuration options for compilation.
type CompileOptions struct {
	// Parser selects the accepted dialect (case policy, extensions).
	Parser parser.Options
}

// Result is the outcome of a successful pass.
type Result struct {
	Program  *ast.Program
	Counters stats.Counters
}

// Compile validates source and builds the program.
// The returned error is always classified (see status.KindOf); on failure no
// partial result is returned.
func Compile(source string, opts CompileOptions) (*Result, error) {
	l := lexer.New(source)
	p := parser.New(l, opts.Parser)

	program, counters, err := p.ParseProgram()
	if err != nil {
		var se *status.Error
		if errors.As(err, &se) {
			return nil, NewParserErrorWithContext(se, l.GetSource())
		}
		return nil, status.Wrap(status.InternalError, err, "unclassified parser failure")
	}

	return &Result{Program: program, Counters: counters}, nil
}
