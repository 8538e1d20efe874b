// Package ast defines the program model built from IPPcode20 source.
package ast

import (
	"bytes"
	"strings"

	"github.com/zurustar/ipp-parse/pkg/opcode"
)

// OperandKind classifies an operand.
type OperandKind int

const (
	Variable OperandKind = iota
	Constant
	Label
	TypeName
)

func (k OperandKind) String() string {
	switch k {
	case Variable:
		return "Variable"
	case Constant:
		return "Constant"
	case Label:
		return "Label"
	case TypeName:
		return "TypeName"
	}
	return "Unknown"
}

// ArgType is the value of the type attribute of an operand element.
type ArgType string

const (
	TypeVar    ArgType = "var"
	TypeInt    ArgType = "int"
	TypeBool   ArgType = "bool"
	TypeString ArgType = "string"
	TypeNil    ArgType = "nil"
	TypeFloat  ArgType = "float"
	TypeLabel  ArgType = "label"
	TypeType   ArgType = "type"
)

// Operand is one validated operand of an instruction.
type Operand struct {
	Position int // 1-based index within the instruction
	Kind     OperandKind
	Type     ArgType
	Value    string // raw matched text, without the type@ prefix for constants
}

// Source returns the operand as it would be written in source.
func (o Operand) Source() string {
	if o.Kind == Constant {
		return string(o.Type) + "@" + o.Value
	}
	return o.Value
}

// Instruction is one accepted source line.
type Instruction struct {
	Order  int // 1-based, contiguous
	Opcode opcode.Name
	Args   []Operand
	Line   int // source line the instruction came from
}

// String returns the instruction in source form.
func (i Instruction) String() string {
	var out bytes.Buffer
	out.WriteString(string(i.Opcode))
	for _, arg := range i.Args {
		out.WriteString(" ")
		out.WriteString(arg.Source())
	}
	return out.String()
}

// Program is the ordered sequence of instructions of one source file.
type Program struct {
	Language     string
	Instructions []Instruction
}

// String returns the program in source form, header included.
func (p *Program) String() string {
	lines := make([]string, 0, len(p.Instructions)+1)
	lines = append(lines, "."+p.Language)
	for _, inst := range p.Instructions {
		lines = append(lines, inst.String())
	}
	return strings.Join(lines, "\n") + "\n"
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}
