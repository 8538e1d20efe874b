package parser

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/ipp-parse/pkg/compiler/lexer"
	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// sampleLine は検証済みの命令行テンプレート
// {L} はラベル名に置き換えられる
type sampleLine struct {
	format string
	op     opcode.Name
}

var sampleLines = []sampleLine{
	{"DEFVAR GF@{L}", opcode.DefVar},
	{"MOVE LF@{L} int@-12", opcode.Move},
	{"WRITE string@x\\032{L}", opcode.Write},
	{"LABEL {L}", opcode.LabelDef},
	{"JUMP {L}", opcode.Jump},
	{"CALL {L}", opcode.Call},
	{"RETURN", opcode.Return},
	{"JUMPIFEQ {L} TF@a bool@false", opcode.JumpIfEq},
	{"JUMPIFNEQ {L} nil@nil GF@b", opcode.JumpIfNeq},
	{"ADD GF@{L} GF@{L} int@1", opcode.Add},
	{"READ GF@{L} bool", opcode.Read},
	{"CREATEFRAME   # comment", opcode.CreateFrame},
	{"BREAK", opcode.Break},
}

// buildSource はテンプレート番号の列からソースを組み立てる
// 空行とコメント行を挟んで、順序番号がソース上の行番号と無関係であることを確認できるようにする
func buildSource(indices []int, label string) (string, []opcode.Name) {
	var b strings.Builder
	b.WriteString(".IPPcode20\n")

	ops := make([]opcode.Name, 0, len(indices))
	for i, idx := range indices {
		s := sampleLines[idx]
		if i%3 == 0 {
			b.WriteString("\n# filler\n")
		}
		b.WriteString("  ")
		b.WriteString(strings.ReplaceAll(s.format, "{L}", label))
		b.WriteString("\n")
		ops = append(ops, s.op)
	}
	return b.String(), ops
}

func labelGen() gopter.Gen {
	return gen.Identifier().Map(func(s string) string {
		if s == "" {
			return "L"
		}
		return s
	})
}

// プロパティ1: 順序番号は1から始まる連番で、命令数はLOCと一致する
func TestProperty_OrderIsContiguous(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("任意の正しいプログラムについて、順序番号は1..LOCの連番になる", prop.ForAll(
		func(indices []int, label string) bool {
			source, ops := buildSource(indices, label)

			program, counters, err := New(lexer.New(source), Options{}).ParseProgram()
			if err != nil {
				return false
			}
			if program.Len() != counters.LOC || program.Len() != len(ops) {
				return false
			}
			for i, inst := range program.Instructions {
				if inst.Order != i+1 || inst.Opcode != ops[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(sampleLines)-1)),
		labelGen(),
	))

	properties.TestingRun(t)
}

// プロパティ2: jumpsとlabelsのカウンタは該当する命令の数と一致する
func TestProperty_JumpAndLabelCounters(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("jumps/labels/commentsのカウンタは命令列から計算した値と一致する", prop.ForAll(
		func(indices []int, label string) bool {
			source, ops := buildSource(indices, label)

			_, counters, err := New(lexer.New(source), Options{}).ParseProgram()
			if err != nil {
				return false
			}

			jumps, labels := 0, 0
			for _, op := range ops {
				if opcode.IsJump(op) {
					jumps++
				}
				if op == opcode.LabelDef {
					labels++
				}
			}
			comments := strings.Count(source, "#")

			return counters.Jumps == jumps && counters.Labels == labels && counters.Comments == comments
		},
		gen.SliceOf(gen.IntRange(0, len(sampleLines)-1)),
		labelGen(),
	))

	properties.TestingRun(t)
}

// プロパティ3: ヘッダーは最初の1行だけが検査され、2回目以降の出現は不明なオペコードとして扱われる
func TestProperty_HeaderCheckedOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("2つ目のヘッダー行はOpcodeErrorになる", prop.ForAll(
		func(indices []int, label string) bool {
			source, ops := buildSource(indices, label)
			source += ".IPPcode20\n"

			_, _, err := New(lexer.New(source), Options{}).ParseProgram()
			se, ok := err.(*status.Error)
			if !ok || se.Kind != status.OpcodeError {
				return false
			}
			// ヘッダー1行 + 命令行 + フィラー(3命令ごとに2行) の次の行
			fillers := 2 * ((len(ops) + 2) / 3)
			return se.Line == 1+len(ops)+fillers+1
		},
		gen.SliceOf(gen.IntRange(0, len(sampleLines)-1)),
		labelGen(),
	))

	properties.TestingRun(t)
}

// プロパティ4: オペランド数がオペコードの定義と異なる命令は必ずSyntaxErrorになる
func TestProperty_ArityMismatchIsSyntaxError(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	names := opcode.Names(opcode.Core)
	properties := gopter.NewProperties(parameters)

	properties.Property("オペランド数の不一致はSyntaxError", prop.ForAll(
		func(idx int, count int) bool {
			name := names[idx]
			sig, _ := opcode.Lookup(name, opcode.Core)
			if count == sig.Arity() {
				count++
			}

			operands := make([]string, count)
			for i := range operands {
				operands[i] = "GF@x"
			}
			source := ".IPPcode20\n" + strings.TrimSpace(string(name)+" "+strings.Join(operands, " ")) + "\n"

			_, _, err := New(lexer.New(source), Options{}).ParseProgram()
			return status.KindOf(err) == status.SyntaxError
		},
		gen.IntRange(0, len(names)-1),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
