// Package parser validates IPPcode20 source line by line and builds the
// program model. The first violation aborts the pass.
package parser

import (
	"errors"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zurustar/ipp-parse/pkg/compiler/ast"
	"github.com/zurustar/ipp-parse/pkg/compiler/lexer"
	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/stats"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// Options controls the accepted dialect.
type Options struct {
	// StrictCase requires the header marker and opcodes in their exact
	// canonical spelling. By default both are matched case-insensitively.
	StrictCase bool

	// Extensions enables optional instruction-set extensions.
	Extensions opcode.Extension
}

// Parser builds an ast.Program from lexer lines.
type Parser struct {
	l    *lexer.Lexer
	opts Options

	headerSeen   bool
	instructions []ast.Instruction
	collector    stats.Collector
	upper        cases.Caser
}

// New creates a new Parser.
func New(l *lexer.Lexer, opts Options) *Parser {
	return &Parser{
		l:     l,
		opts:  opts,
		upper: cases.Upper(language.Und),
	}
}

// ParseProgram runs the whole pass. On success it returns the program and the
// collected counters; on failure it returns a nil program and a
// *status.Error describing the first violation.
func (p *Parser) ParseProgram() (*ast.Program, stats.Counters, error) {
	for {
		line, err := p.l.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats.Counters{}, status.Wrap(status.InputError, err, "failed to read source")
		}

		if err := p.parseLine(line); err != nil {
			return nil, stats.Counters{}, err
		}
	}

	if !p.headerSeen {
		return nil, stats.Counters{}, status.New(status.HeaderError, "missing header "+opcode.HeaderMarker)
	}

	return &ast.Program{
		Language:     opcode.Language,
		Instructions: p.instructions,
	}, p.collector.Counters(), nil
}

// parseLine handles one normalized line.
func (p *Parser) parseLine(line lexer.Line) error {
	if line.HasComment {
		p.collector.Comment()
	}
	if line.Empty() {
		return nil
	}

	if !p.headerSeen {
		return p.checkHeader(line)
	}

	inst, err := p.parseInstruction(line)
	if err != nil {
		return err
	}

	p.instructions = append(p.instructions, inst)
	p.collector.Instruction(inst.Opcode)
	return nil
}

// parseInstruction validates an instruction line. Nothing is recorded
// unless every operand is valid.
func (p *Parser) parseInstruction(line lexer.Line) (ast.Instruction, error) {
	head := line.Tokens[0]

	name, sig, ok := p.lookupOpcode(head.Literal)
	if !ok {
		return ast.Instruction{}, status.At(status.OpcodeError, head.Line, head.Column,
			"unknown opcode %q", head.Literal)
	}

	operands := line.Tokens[1:]
	if len(operands) != sig.Arity() {
		return ast.Instruction{}, status.At(status.SyntaxError, head.Line, head.Column,
			"%s expects %d operand(s), got %d", name, sig.Arity(), len(operands))
	}

	args := make([]ast.Operand, 0, len(operands))
	for i, kind := range sig.Args {
		arg, err := p.parseOperand(kind, operands[i], i+1)
		if err != nil {
			return ast.Instruction{}, err
		}
		args = append(args, arg)
	}

	return ast.Instruction{
		Order:  p.collector.Counters().LOC + 1,
		Opcode: name,
		Args:   args,
		Line:   line.Number,
	}, nil
}

// lookupOpcode resolves an opcode token to its canonical name and signature.
func (p *Parser) lookupOpcode(literal string) (opcode.Name, opcode.Signature, bool) {
	name := opcode.Name(literal)
	if !p.opts.StrictCase {
		if !isASCII(literal) {
			return "", opcode.Signature{}, false
		}
		name = opcode.Name(p.upper.String(literal))
	}

	sig, ok := opcode.Lookup(name, p.opts.Extensions)
	return name, sig, ok
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
