// Package opcode defines the IPPcode20 instruction set.
// This package is the foundation the parser and the XML writer depend on.
// The table is package-level data built once at program start and never
// modified afterwards.
package opcode

import (
	"sort"
	"strings"
)

// Language is the identifier carried by the root element of the document.
const Language = "IPPcode20"

// HeaderMarker is the required first token of every source file.
const HeaderMarker = "." + Language

// Name is a canonical (upper-case) opcode spelling.
type Name string

// ArgKind is the kind of operand an opcode expects at a position.
type ArgKind int

const (
	// Var is a frame-prefixed variable reference: GF@x
	Var ArgKind = iota
	// Symb is a variable or a typed constant: LF@x, int@5
	Symb
	// Label is a jump target name
	Label
	// Type is a type name operand of READ
	Type
)

// String returns the name used in diagnostics.
func (k ArgKind) String() string {
	switch k {
	case Var:
		return "var"
	case Symb:
		return "symb"
	case Label:
		return "label"
	case Type:
		return "type"
	}
	return "unknown"
}

// Extension is a set of optional instruction-set extensions.
type Extension uint8

// Core is the base IPPcode20 instruction set, always enabled.
const Core Extension = 0

const (
	// Stack enables the stack variants (ADDS, JUMPIFEQS, ...).
	Stack Extension = 1 << iota
	// Float enables float constants, the float type and float conversions.
	Float
)

// Has reports whether all extensions of other are enabled in e.
func (e Extension) Has(other Extension) bool {
	return e&other == other
}

// ParseExtension parses an extension name as used on the command line.
func ParseExtension(name string) (Extension, bool) {
	switch strings.ToLower(name) {
	case "stack":
		return Stack, true
	case "float":
		return Float, true
	}
	return Core, false
}

// Signature describes the operands an opcode requires.
type Signature struct {
	Args []ArgKind // ordered operand kinds; len(Args) is the arity
	Ext  Extension // extensions that must be enabled for the opcode to exist
}

// Arity returns the number of operands.
func (s Signature) Arity() int {
	return len(s.Args)
}

// Core opcodes.
const (
	Move        Name = "MOVE"
	CreateFrame Name = "CREATEFRAME"
	PushFrame   Name = "PUSHFRAME"
	PopFrame    Name = "POPFRAME"
	DefVar      Name = "DEFVAR"
	Call        Name = "CALL"
	Return      Name = "RETURN"
	PushS       Name = "PUSHS"
	PopS        Name = "POPS"
	Add         Name = "ADD"
	Sub         Name = "SUB"
	Mul         Name = "MUL"
	IDiv        Name = "IDIV"
	Lt          Name = "LT"
	Gt          Name = "GT"
	Eq          Name = "EQ"
	And         Name = "AND"
	Or          Name = "OR"
	Not         Name = "NOT"
	Int2Char    Name = "INT2CHAR"
	Stri2Int    Name = "STRI2INT"
	Read        Name = "READ"
	Write       Name = "WRITE"
	Concat      Name = "CONCAT"
	StrLen      Name = "STRLEN"
	GetChar     Name = "GETCHAR"
	SetChar     Name = "SETCHAR"
	TypeOf      Name = "TYPE"
	LabelDef    Name = "LABEL"
	Jump        Name = "JUMP"
	JumpIfEq    Name = "JUMPIFEQ"
	JumpIfNeq   Name = "JUMPIFNEQ"
	Exit        Name = "EXIT"
	DPrint      Name = "DPRINT"
	Break       Name = "BREAK"
)

// STACK and FLOAT extension opcodes.
const (
	ClearS     Name = "CLEARS"
	AddS       Name = "ADDS"
	SubS       Name = "SUBS"
	MulS       Name = "MULS"
	IDivS      Name = "IDIVS"
	DivS       Name = "DIVS"
	LtS        Name = "LTS"
	GtS        Name = "GTS"
	EqS        Name = "EQS"
	AndS       Name = "ANDS"
	OrS        Name = "ORS"
	NotS       Name = "NOTS"
	Int2CharS  Name = "INT2CHARS"
	Stri2IntS  Name = "STRI2INTS"
	JumpIfEqS  Name = "JUMPIFEQS"
	JumpIfNeqS Name = "JUMPIFNEQS"
	Div        Name = "DIV"
	Int2Float  Name = "INT2FLOAT"
	Float2Int  Name = "FLOAT2INT"
)

var (
	none      = []ArgKind{}
	varOnly   = []ArgKind{Var}
	symbOnly  = []ArgKind{Symb}
	labelOnly = []ArgKind{Label}
	varSymb   = []ArgKind{Var, Symb}
	varType   = []ArgKind{Var, Type}
	varSymb2  = []ArgKind{Var, Symb, Symb}
	labelSym2 = []ArgKind{Label, Symb, Symb}
)

var table = map[Name]Signature{
	CreateFrame: {Args: none},
	PushFrame:   {Args: none},
	PopFrame:    {Args: none},
	Return:      {Args: none},
	Break:       {Args: none},

	DefVar: {Args: varOnly},
	PopS:   {Args: varOnly},

	Call:     {Args: labelOnly},
	LabelDef: {Args: labelOnly},
	Jump:     {Args: labelOnly},

	PushS:  {Args: symbOnly},
	Write:  {Args: symbOnly},
	Exit:   {Args: symbOnly},
	DPrint: {Args: symbOnly},

	Move:     {Args: varSymb},
	Int2Char: {Args: varSymb},
	StrLen:   {Args: varSymb},
	TypeOf:   {Args: varSymb},
	Not:      {Args: varSymb},

	Read: {Args: varType},

	Add:      {Args: varSymb2},
	Sub:      {Args: varSymb2},
	Mul:      {Args: varSymb2},
	IDiv:     {Args: varSymb2},
	Lt:       {Args: varSymb2},
	Gt:       {Args: varSymb2},
	Eq:       {Args: varSymb2},
	And:      {Args: varSymb2},
	Or:       {Args: varSymb2},
	Concat:   {Args: varSymb2},
	GetChar:  {Args: varSymb2},
	SetChar:  {Args: varSymb2},
	Stri2Int: {Args: varSymb2},

	JumpIfEq:  {Args: labelSym2},
	JumpIfNeq: {Args: labelSym2},

	ClearS:     {Args: none, Ext: Stack},
	AddS:       {Args: none, Ext: Stack},
	SubS:       {Args: none, Ext: Stack},
	MulS:       {Args: none, Ext: Stack},
	IDivS:      {Args: none, Ext: Stack},
	LtS:        {Args: none, Ext: Stack},
	GtS:        {Args: none, Ext: Stack},
	EqS:        {Args: none, Ext: Stack},
	AndS:       {Args: none, Ext: Stack},
	OrS:        {Args: none, Ext: Stack},
	NotS:       {Args: none, Ext: Stack},
	Int2CharS:  {Args: none, Ext: Stack},
	Stri2IntS:  {Args: none, Ext: Stack},
	JumpIfEqS:  {Args: labelOnly, Ext: Stack},
	JumpIfNeqS: {Args: labelOnly, Ext: Stack},

	DivS:      {Args: none, Ext: Stack | Float},
	Div:       {Args: varSymb2, Ext: Float},
	Int2Float: {Args: varSymb, Ext: Float},
	Float2Int: {Args: varSymb, Ext: Float},
}

var jumps = map[Name]bool{
	Call:       true,
	Jump:       true,
	JumpIfEq:   true,
	JumpIfNeq:  true,
	Return:     true,
	JumpIfEqS:  true,
	JumpIfNeqS: true,
}

// Lookup returns the signature of an opcode spelled exactly in canonical form.
// Opcodes belonging to an extension that is not enabled are not found.
func Lookup(name Name, enabled Extension) (Signature, bool) {
	sig, ok := table[name]
	if !ok || !enabled.Has(sig.Ext) {
		return Signature{}, false
	}
	return sig, true
}

// IsJump reports whether an accepted instruction counts as a jump.
func IsJump(name Name) bool {
	return jumps[name]
}

// Names returns all opcodes available with the given extensions, sorted.
func Names(enabled Extension) []Name {
	names := make([]Name, 0, len(table))
	for name, sig := range table {
		if enabled.Has(sig.Ext) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
