package parser

import (
	"regexp"
	"strings"

	"github.com/zurustar/ipp-parse/pkg/compiler/ast"
	"github.com/zurustar/ipp-parse/pkg/compiler/lexer"
	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// identifier grammar shared by variable names and labels:
// a letter or special symbol, then word characters or special symbols.
const identifier = `[_\-$&%*!?a-zA-Z][_\-$&%*!?a-zA-Z0-9]*`

var (
	variablePattern = regexp.MustCompile(`^(GF|TF|LF)@` + identifier + `$`)
	labelPattern    = regexp.MustCompile(`^` + identifier + `$`)

	// string constants must escape codes 000-032 as \ddd
	constantPatterns = map[ast.ArgType]*regexp.Regexp{
		ast.TypeInt:    regexp.MustCompile(`^[+-]?[0-9]+$`),
		ast.TypeBool:   regexp.MustCompile(`^(true|false)$`),
		ast.TypeString: regexp.MustCompile(`^([^\x00-\x20\s#@\\]|\\[0-9]{3})*$`),
		ast.TypeNil:    regexp.MustCompile(`^nil$`),
		ast.TypeFloat: regexp.MustCompile(`^[+-]?(` +
			`0[xX]([0-9a-fA-F]+(\.[0-9a-fA-F]*)?|\.[0-9a-fA-F]+)([pP][+-]?[0-9]+)?` +
			`|[0-9]+(\.[0-9]*)?([eE][+-]?[0-9]+)?` +
			`|\.[0-9]+([eE][+-]?[0-9]+)?` +
			`)$`),
	}
)

// framePrefixes mark a symbol as a variable reference.
var framePrefixes = []string{"GF@", "TF@", "LF@"}

// parseOperand validates tok against the declared kind and classifies it.
func (p *Parser) parseOperand(kind opcode.ArgKind, tok lexer.Token, position int) (ast.Operand, error) {
	switch kind {
	case opcode.Var:
		return p.parseVariable(tok, position)
	case opcode.Symb:
		return p.parseSymbol(tok, position)
	case opcode.Label:
		return p.parseLabel(tok, position)
	case opcode.Type:
		return p.parseTypeName(tok, position)
	}
	return ast.Operand{}, status.At(status.InternalError, tok.Line, tok.Column, "unknown operand kind %d", int(kind))
}

func (p *Parser) parseVariable(tok lexer.Token, position int) (ast.Operand, error) {
	if !variablePattern.MatchString(tok.Literal) {
		return ast.Operand{}, syntaxError(tok, "invalid variable %q", tok.Literal)
	}
	return ast.Operand{
		Position: position,
		Kind:     ast.Variable,
		Type:     ast.TypeVar,
		Value:    tok.Literal,
	}, nil
}

func (p *Parser) parseSymbol(tok lexer.Token, position int) (ast.Operand, error) {
	for _, prefix := range framePrefixes {
		if strings.HasPrefix(tok.Literal, prefix) {
			return p.parseVariable(tok, position)
		}
	}

	typ, value, found := strings.Cut(tok.Literal, "@")
	if !found {
		return ast.Operand{}, syntaxError(tok, "invalid symbol %q", tok.Literal)
	}

	argType := ast.ArgType(typ)
	if !p.constantTypeAllowed(argType) {
		return ast.Operand{}, syntaxError(tok, "invalid constant type %q", typ)
	}
	if !constantPatterns[argType].MatchString(value) {
		return ast.Operand{}, syntaxError(tok, "invalid %s constant %q", typ, value)
	}

	return ast.Operand{
		Position: position,
		Kind:     ast.Constant,
		Type:     argType,
		Value:    value,
	}, nil
}

func (p *Parser) parseLabel(tok lexer.Token, position int) (ast.Operand, error) {
	if !labelPattern.MatchString(tok.Literal) {
		return ast.Operand{}, syntaxError(tok, "invalid label %q", tok.Literal)
	}
	return ast.Operand{
		Position: position,
		Kind:     ast.Label,
		Type:     ast.TypeLabel,
		Value:    tok.Literal,
	}, nil
}

func (p *Parser) parseTypeName(tok lexer.Token, position int) (ast.Operand, error) {
	switch ast.ArgType(tok.Literal) {
	case ast.TypeInt, ast.TypeBool, ast.TypeString:
	case ast.TypeFloat:
		if !p.opts.Extensions.Has(opcode.Float) {
			return ast.Operand{}, syntaxError(tok, "invalid type %q", tok.Literal)
		}
	default:
		return ast.Operand{}, syntaxError(tok, "invalid type %q", tok.Literal)
	}
	return ast.Operand{
		Position: position,
		Kind:     ast.TypeName,
		Type:     ast.TypeType,
		Value:    tok.Literal,
	}, nil
}

// constantTypeAllowed reports whether typ may prefix a constant.
func (p *Parser) constantTypeAllowed(typ ast.ArgType) bool {
	switch typ {
	case ast.TypeInt, ast.TypeBool, ast.TypeString, ast.TypeNil:
		return true
	case ast.TypeFloat:
		return p.opts.Extensions.Has(opcode.Float)
	}
	return false
}

func syntaxError(tok lexer.Token, format string, args ...any) error {
	return status.At(status.SyntaxError, tok.Line, tok.Column, format, args...)
}
