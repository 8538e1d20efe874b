// Package status defines the closed set of failure kinds reported by ipp-parse.
// Every kind maps 1:1 to a process exit code and a fixed message.
package status

import (
	"errors"
	"fmt"
	"strings"
)

// Kind represents the classification of a failure.
type Kind int

const (
	// OK means no failure.
	OK Kind = iota
	// ArgumentError - missing argument or forbidden combination of arguments
	ArgumentError
	// InputError - a declared input cannot be opened or read
	InputError
	// OutputError - a declared output cannot be opened or written
	OutputError
	// HeaderError - missing or malformed language marker
	HeaderError
	// OpcodeError - unrecognized opcode
	OpcodeError
	// SyntaxError - any other lexical or syntax violation (bad operand, wrong arity)
	SyntaxError
	// InternalError - anything the implementation cannot classify
	InternalError
)

var kindInfo = map[Kind]struct {
	name    string
	code    int
	message string
}{
	OK:            {"OK", 0, ""},
	ArgumentError: {"ARGUMENT", 10, "Invalid argument or combination of arguments."},
	InputError:    {"INPUT", 11, "Unable to open input file."},
	OutputError:   {"OUTPUT", 12, "Unable to open output file."},
	HeaderError:   {"HEADER", 21, "Corrupted or missing header."},
	OpcodeError:   {"OPCODE", 22, "Corrupted or unknown opcode."},
	SyntaxError:   {"SYNTAX", 23, "Other lexical or syntax error."},
	InternalError: {"INTERNAL", 99, "Internal error."},
}

// String returns the short upper-case name of the kind.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return kindInfo[InternalError].name
}

// Code returns the process exit code of the kind.
func (k Kind) Code() int {
	if info, ok := kindInfo[k]; ok {
		return info.code
	}
	return kindInfo[InternalError].code
}

// Message returns the fixed human-readable message of the kind.
func (k Kind) Message() string {
	if info, ok := kindInfo[k]; ok {
		return info.message
	}
	return kindInfo[InternalError].message
}

// Classified is implemented by every error that carries a Kind.
type Classified interface {
	error
	ErrorKind() Kind
}

// Error is a classified failure.
type Error struct {
	Kind   Kind
	Detail string // what exactly went wrong, may be empty
	Line   int    // 1-based source line, 0 if not applicable
	Column int    // 1-based column of the offending token, 0 if unknown
	Err    error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(e.Kind.String())
	b.WriteString("] ")
	if e.Detail != "" {
		b.WriteString(e.Detail)
	} else {
		b.WriteString(e.Kind.Message())
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind implements Classified.
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// New creates an Error without line information.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf creates an Error with a formatted detail.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// At creates an Error bound to a source position.
func At(kind Kind, line, column int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Column: column, Detail: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf returns the kind of err. Errors that carry no classification, or
// claim OK, are InternalError; nil is OK.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}
	var c Classified
	if errors.As(err, &c) && c.ErrorKind() != OK {
		return c.ErrorKind()
	}
	return InternalError
}

// Code returns the exit code for err (0 for nil).
func Code(err error) int {
	return KindOf(err).Code()
}

// Describe renders err as exactly one line for the error stream.
// The fixed message of the kind always comes first.
func Describe(err error) string {
	kind := KindOf(err)
	if kind == OK {
		return ""
	}

	var b strings.Builder
	b.WriteString(kind.Message())

	var se *Error
	if errors.As(err, &se) {
		if se.Line > 0 {
			fmt.Fprintf(&b, " (line %d)", se.Line)
		}
		if se.Detail != "" {
			b.WriteString(" ")
			b.WriteString(se.Detail)
		}
	} else if kind == InternalError {
		b.WriteString(" ")
		b.WriteString(err.Error())
	}

	return oneLine(b.String())
}

// oneLine collapses line breaks so the result fits on a single line.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
