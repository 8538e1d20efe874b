package parser

import (
	"golang.org/x/text/cases"

	"github.com/zurustar/ipp-parse/pkg/compiler/lexer"
	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// checkHeader validates the first significant line. It must hold exactly
// the language marker and nothing else.
func (p *Parser) checkHeader(line lexer.Line) error {
	first := line.Tokens[0]

	if len(line.Tokens) != 1 {
		extra := line.Tokens[1]
		return status.At(status.HeaderError, extra.Line, extra.Column,
			"unexpected %q after header", extra.Literal)
	}

	if !p.isHeaderMarker(first.Literal) {
		return status.At(status.HeaderError, first.Line, first.Column,
			"expected %s, got %q", opcode.HeaderMarker, first.Literal)
	}

	p.headerSeen = true
	return nil
}

// isHeaderMarker compares a token with the language marker. Unless strict
// case matching is requested, both sides are case folded.
func (p *Parser) isHeaderMarker(literal string) bool {
	if p.opts.StrictCase {
		return literal == opcode.HeaderMarker
	}
	fold := cases.Fold()
	return fold.String(literal) == fold.String(opcode.HeaderMarker)
}
