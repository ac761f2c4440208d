package parser

import (
	"testing"

	"github.com/cwbudde/algolang/internal/ast"
	"github.com/cwbudde/algolang/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenizing %q: %v", src, err)
	}
	prog, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return prog
}

func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenizing %q: %v", src, err)
	}
	p := New(tokens)
	return p.parseExpression()
}

// TestExpressionPrecedence checks the full precedence table of spec.md
// §4.2 by rendering each parsed expression back through its fully
// parenthesised String() form.
func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a < b And c > d", "((a < b) And (c > d))"},
		{"a = b Or c <> d", "((a = b) Or (c <> d))"},
		{"Not a And b", "((Not a) And b)"},
		{"-a * b", "((-a) * b)"},
		{"10 Div 3 Mod 2", "((10 Div 3) Mod 2)"},
		{"a Or b And c", "(a Or (b And c))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 < 2 = True", "((1 < 2) = True)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			if got := expr.String(); got != tt.want {
				t.Errorf("parseExpr(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestLeftAssociativity confirms same-precedence operators nest to the
// left, so "a - b - c" groups as "(a - b) - c" and not the reverse.
func TestLeftAssociativity(t *testing.T) {
	expr := parseExpr(t, "a - b - c")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected *ast.BinaryOp, got %T", expr)
	}
	left, ok := bin.Left.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected left operand to be a nested BinaryOp, got %T", bin.Left)
	}
	if left.Op != ast.OpSub {
		t.Errorf("expected the nested operator to be Sub, got %v", left.Op)
	}
	if _, ok := bin.Right.(*ast.Identifier); !ok {
		t.Errorf("expected right operand to be the bare identifier c, got %T", bin.Right)
	}
}

// TestAssignmentFormRoundTrip is spec.md §8 invariant 6: replacing one
// assignment spelling with another yields a program that parses to the
// same AST (rendered here through Program.String(), which normalises
// every spelling to " := ").
func TestAssignmentFormRoundTrip(t *testing.T) {
	forms := []string{":=", "<-", "←"}
	var rendered []string
	for _, form := range forms {
		src := "Algorithm A\nVar x : Integer\nBegin x " + form + " 1 End"
		prog := mustParse(t, src)
		rendered = append(rendered, prog.String())
	}
	for i := 1; i < len(rendered); i++ {
		if rendered[i] != rendered[0] {
			t.Errorf("form %q rendered %q, want %q (same as %q)", forms[i], rendered[i], rendered[0], forms[0])
		}
	}
}

// TestParseErrorShape checks every consume failure carries spec.md §4.2's
// "Line <n>: <expectation>" shape.
func TestParseErrorShape(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing End", "Algorithm A\nBegin Write(1)"},
		{"missing EndIf", "Algorithm A\nBegin If True Then Write(1) End"},
		{"bad statement start", "Algorithm A\nBegin * End"},
		{"missing colon in var decl", "Algorithm A\nVar x Integer\nBegin End"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.Tokenize(tt.src)
			if err != nil {
				t.Fatalf("tokenizing: %v", err)
			}
			_, err = Parse(tokens)
			if err == nil {
				t.Fatal("expected a parse error, got none")
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line == 0 {
				t.Errorf("expected a non-zero line, got %d", pe.Line)
			}
			want := "Line " + itoa(pe.Line) + ": "
			if len(pe.Error()) < len(want) || pe.Error()[:len(want)] != want {
				t.Errorf("error %q does not start with %q", pe.Error(), want)
			}
		})
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// TestCallDisambiguation checks spec.md §4.2's disambiguation rule:
// identifier-then-'(' is a call, anything else begins an assignment.
func TestCallDisambiguation(t *testing.T) {
	prog := mustParse(t, "Algorithm A\nProcedure P()\nBegin\nEndProcedure\nBegin\nP()\nEnd")
	if len(prog.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body.Statements))
	}
	if _, ok := prog.Body.Statements[0].(*ast.Call); !ok {
		t.Fatalf("expected a *ast.Call statement, got %T", prog.Body.Statements[0])
	}
}

// TestArrayDeclAndAccess checks multi-dimensional array declarations and
// chained index access parse per spec.md §4.2's dimList/ref productions.
func TestArrayDeclAndAccess(t *testing.T) {
	prog := mustParse(t, "Algorithm A\nVar Grid : array [3][3] of Integer\nBegin\nGrid[0][1] := 5\nEnd")
	if len(prog.VarDecls) != 1 || len(prog.VarDecls[0].Dims) != 2 {
		t.Fatalf("expected one VarDecl with 2 dims, got %+v", prog.VarDecls)
	}
	assign, ok := prog.Body.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", prog.Body.Statements[0])
	}
	access, ok := assign.Target.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("expected *ast.ArrayAccess target, got %T", assign.Target)
	}
	if len(access.Indices) != 2 {
		t.Fatalf("expected 2 indices, got %d", len(access.Indices))
	}
}

// TestEmptyBlocksParse checks spec.md §8's boundary behaviour: empty body
// blocks must parse without error.
func TestEmptyBlocksParse(t *testing.T) {
	mustParse(t, "Algorithm A\nBegin End")
	mustParse(t, "Algorithm A\nBegin If True Then EndIf End")
}
