// Package lexer splits IPPcode20 source into significant lines of tokens.
// Comments start at the first '#' of a line and run to its end; tokens are
// separated by runs of whitespace.
package lexer

import (
	"io"
	"strings"
	"unicode"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = '#'

// Token is a single whitespace-delimited word of a line.
type Token struct {
	Literal string
	Line    int // 1-based line number
	Column  int // 1-based byte column
}

// Line is one normalized source line.
type Line struct {
	Number     int     // 1-based line number
	Tokens     []Token // significant tokens, never empty strings
	HasComment bool    // the raw line contained a comment
}

// Empty reports whether the line carries no tokens and must be skipped.
func (l Line) Empty() bool {
	return len(l.Tokens) == 0
}

// Literals returns the token texts.
func (l Line) Literals() []string {
	out := make([]string, len(l.Tokens))
	for i, tok := range l.Tokens {
		out[i] = tok.Literal
	}
	return out
}

// Normalize strips the comment from a raw line and tokenizes the rest.
func Normalize(raw string, number int) Line {
	line := Line{Number: number}

	raw = strings.TrimRight(raw, "\r\n")
	if idx := strings.IndexByte(raw, CommentMarker); idx >= 0 {
		line.HasComment = true
		raw = raw[:idx]
	}

	start := -1
	for i, r := range raw {
		if unicode.IsSpace(r) {
			if start >= 0 {
				line.Tokens = append(line.Tokens, Token{Literal: raw[start:i], Line: number, Column: start + 1})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		line.Tokens = append(line.Tokens, Token{Literal: raw[start:], Line: number, Column: start + 1})
	}

	return line
}

// Lexer yields normalized lines one at a time.
type Lexer struct {
	input    string
	position int // byte offset of the next unread line
	line     int // number of the last line returned
}

// New creates a new Lexer.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next line, including empty and comment-only lines so that
// the caller can account for them. It returns io.EOF after the last line.
func (l *Lexer) Next() (Line, error) {
	if l.position >= len(l.input) {
		return Line{}, io.EOF
	}

	rest := l.input[l.position:]
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		end = len(rest)
	} else {
		end++
	}
	l.position += end
	l.line++

	return Normalize(rest[:end], l.line), nil
}

// GetSource returns the whole input, used for error context.
func (l *Lexer) GetSource() string {
	return l.input
}
