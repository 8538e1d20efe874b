// Package codegen renders a validated program: the XML document written to
// standard output, the source reconstruction used for round-trip checks, and
// a tabular listing for debug logging.
package codegen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zurustar/ipp-parse/pkg/compiler/ast"
	"github.com/zurustar/ipp-parse/pkg/stats"
)

// xmlProgram is the root element of the document.
type xmlProgram struct {
	XMLName      xml.Name         `xml:"program"`
	Language     string           `xml:"language,attr"`
	Instructions []xmlInstruction `xml:"instruction"`
}

type xmlInstruction struct {
	Order  int    `xml:"order,attr"`
	Opcode string `xml:"opcode,attr"`
	Args   []xmlArg
}

// xmlArg is named arg1..arg3 after the operand position.
type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}

// Generator converts a program to its XML document.
type Generator struct {
	indent string
}

// New creates a new generator with two-space indentation.
func New() *Generator {
	return &Generator{indent: "  "}
}

// Generate returns the complete document, declaration included.
func (g *Generator) Generate(program *ast.Program) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", g.indent)
	if err := enc.Encode(toXML(program)); err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// WriteXML generates the document and writes it to w in one call.
func WriteXML(w io.Writer, program *ast.Program) error {
	doc, err := New().Generate(program)
	if err != nil {
		return err
	}
	_, err = w.Write(doc)
	return err
}

func toXML(program *ast.Program) xmlProgram {
	doc := xmlProgram{
		Language:     program.Language,
		Instructions: make([]xmlInstruction, 0, len(program.Instructions)),
	}
	for _, inst := range program.Instructions {
		xi := xmlInstruction{
			Order:  inst.Order,
			Opcode: string(inst.Opcode),
			Args:   make([]xmlArg, 0, len(inst.Args)),
		}
		for _, arg := range inst.Args {
			xi.Args = append(xi.Args, xmlArg{
				XMLName: xml.Name{Local: "arg" + strconv.Itoa(arg.Position)},
				Type:    string(arg.Type),
				Value:   arg.Value,
			})
		}
		doc.Instructions = append(doc.Instructions, xi)
	}
	return doc
}

// Source reconstructs canonical source text from a program: the header
// followed by one instruction per line, single-spaced, without comments.
func Source(program *ast.Program) string {
	return program.String()
}

// Listing renders the program and its counters as a table.
func Listing(w io.Writer, program *ast.Program, counters stats.Counters) error {
	t := table.NewWriter()
	t.SetTitle("%s (%d instructions)", program.Language, program.Len())
	t.AppendHeader(table.Row{"Order", "Line", "Opcode", "Arg1", "Arg2", "Arg3"})

	for _, inst := range program.Instructions {
		row := table.Row{inst.Order, inst.Line, string(inst.Opcode), "", "", ""}
		for _, arg := range inst.Args {
			row[2+arg.Position] = fmt.Sprintf("%s: %s", arg.Type, arg.Value)
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{
		"loc", counters.LOC,
		"comments", counters.Comments,
		fmt.Sprintf("labels %d", counters.Labels),
		fmt.Sprintf("jumps %d", counters.Jumps),
	})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
