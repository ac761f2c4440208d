package ast

import (
	"testing"

	"github.com/cwbudde/algolang/internal/lexer"
)

func tok(line int, literal string) lexer.Token {
	return lexer.Token{Literal: literal, Line: line}
}

// TestLinePreservation is spec.md §8 invariant 1, checked loosely: every
// node variant is built with a token on a non-zero line, and its Line()
// must not return 0.
func TestLinePreservation(t *testing.T) {
	nodes := []Node{
		&VarDecl{Token: tok(3, "Var"), Names: []string{"x"}, BaseType: "Integer"},
		&Identifier{Token: tok(5, "x"), Name: "x"},
		&Literal{Token: tok(7, "1"), Kind: NumberLiteral},
		&BinaryOp{Token: tok(9, "+"), Op: OpAdd},
		&UnaryOp{Token: tok(11, "-"), Op: OpNeg},
		&ArrayAccess{Token: tok(13, "Grid"), Name: "Grid"},
		&Call{Token: tok(17, "Foo"), Callee: "Foo"},
		&Block{Token: tok(19, "Begin")},
		&Assignment{Token: tok(23, ":=")},
		&IO{Token: tok(29, "Write")},
		&Return{Token: tok(31, "Return")},
		&If{Token: tok(37, "If")},
		&While{Token: tok(41, "While")},
		&For{Token: tok(43, "For")},
		&FunctionDecl{Token: tok(47, "Function")},
		&ProcedureDecl{Token: tok(53, "Procedure")},
	}
	for _, n := range nodes {
		if n.Line() == 0 {
			t.Errorf("%T: Line() returned 0", n)
		}
	}
}

func TestVarDeclString(t *testing.T) {
	tests := []struct {
		name string
		decl VarDecl
		want string
	}{
		{"scalar", VarDecl{Names: []string{"x"}, BaseType: "Integer"}, "x : Integer"},
		{"multi-name", VarDecl{Names: []string{"a", "b"}, BaseType: "Real"}, "a, b : Real"},
		{"one-dim array", VarDecl{Names: []string{"v"}, BaseType: "Integer", Dims: []int{3}}, "v : array [3] of Integer"},
		{"two-dim array", VarDecl{Names: []string{"Grid"}, BaseType: "Integer", Dims: []int{3, 3}}, "Grid : array [3][3] of Integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decl.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{"number", Literal{Token: tok(1, "42"), Kind: NumberLiteral}, "42"},
		{"string", Literal{Kind: StringLiteral, Str: "hi"}, `"hi"`},
		{"true", Literal{Kind: BooleanLiteral, Bool: true}, "True"},
		{"false", Literal{Kind: BooleanLiteral, Bool: false}, "False"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lit.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnaryOpString(t *testing.T) {
	x := &Identifier{Name: "x"}
	neg := &UnaryOp{Op: OpNeg, Operand: x}
	if got := neg.String(); got != "(-x)" {
		t.Errorf("negation String() = %q, want %q", got, "(-x)")
	}
	not := &UnaryOp{Op: OpNot, Operand: x}
	if got := not.String(); got != "(Not x)" {
		t.Errorf("Not String() = %q, want %q", got, "(Not x)")
	}
}

func TestArrayAccessString(t *testing.T) {
	a := &ArrayAccess{
		Name: "Grid",
		Indices: []Expression{
			&Identifier{Name: "r"},
			&Identifier{Name: "c"},
		},
	}
	if got := a.String(); got != "Grid[r][c]" {
		t.Errorf("String() = %q, want %q", got, "Grid[r][c]")
	}
}

func TestCallString(t *testing.T) {
	c := &Call{
		Callee: "Add",
		Args: []Expression{
			&Literal{Kind: NumberLiteral, Token: tok(1, "1")},
			&Literal{Kind: NumberLiteral, Token: tok(1, "2")},
		},
	}
	if got := c.String(); got != "Add(1, 2)" {
		t.Errorf("String() = %q, want %q", got, "Add(1, 2)")
	}
}

// TestReturnString checks the bare-vs-valued Return rendering spec.md §3
// requires to distinguish a Procedure's Return from a Function's.
func TestReturnString(t *testing.T) {
	bare := &Return{}
	if got := bare.String(); got != "Return" {
		t.Errorf("bare Return String() = %q, want %q", got, "Return")
	}
	valued := &Return{Value: &Identifier{Name: "x"}}
	if got := valued.String(); got != "Return x" {
		t.Errorf("valued Return String() = %q, want %q", got, "Return x")
	}
}

func TestIfStringWithAndWithoutElse(t *testing.T) {
	cond := &Identifier{Name: "ok"}
	then := &Block{Statements: []Statement{&Return{}}}

	noElse := &If{Cond: cond, Then: then}
	want := "If ok Then\nReturn\nEndIf"
	if got := noElse.String(); got != want {
		t.Errorf("If without Else String() = %q, want %q", got, want)
	}

	withElse := &If{Cond: cond, Then: then, Else: &Block{Statements: []Statement{&Return{}}}}
	want = "If ok Then\nReturn\nElse\nReturn\nEndIf"
	if got := withElse.String(); got != want {
		t.Errorf("If with Else String() = %q, want %q", got, want)
	}
}

func TestForStringIncludesDefaultedStep(t *testing.T) {
	f := &For{
		Var:   "i",
		Start: &Literal{Kind: NumberLiteral, Token: tok(1, "0")},
		End:   &Literal{Kind: NumberLiteral, Token: tok(1, "9")},
		Step:  &Literal{Kind: NumberLiteral, Token: tok(1, "1")},
		Body:  &Block{},
	}
	want := "For i := 0 To 9 Step 1 Do\nEndFor"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBlockStringEmptyIsEmptyString(t *testing.T) {
	b := &Block{}
	if got := b.String(); got != "" {
		t.Errorf("empty Block String() = %q, want empty string", got)
	}
}

func TestFunctionDeclAndProcedureDeclString(t *testing.T) {
	fn := &FunctionDecl{
		Name:       "Add",
		Params:     []Param{{Name: "a", BaseType: "Integer"}, {Name: "b", BaseType: "Integer"}},
		ReturnType: "Integer",
		Body:       &Block{Statements: []Statement{&Return{Value: &Identifier{Name: "a"}}}},
	}
	want := "Function Add(a : Integer, b : Integer) : Integer\nBegin\nReturn a\nEndFunction"
	if got := fn.String(); got != want {
		t.Errorf("FunctionDecl String() = %q, want %q", got, want)
	}

	proc := &ProcedureDecl{
		Name:   "Greet",
		Params: []Param{{Name: "name", BaseType: "String"}},
		Body:   &Block{},
	}
	want = "Procedure Greet(name : String)\nBegin\nEndProcedure"
	if got := proc.String(); got != want {
		t.Errorf("ProcedureDecl String() = %q, want %q", got, want)
	}
}

// TestIOString covers the Read/Write rendering split on IODirection.
func TestIOString(t *testing.T) {
	write := &IO{Direction: IOWrite, Args: []Expression{&Identifier{Name: "x"}}}
	if got := write.String(); got != "Write(x)" {
		t.Errorf("Write String() = %q, want %q", got, "Write(x)")
	}
	read := &IO{Direction: IORead, Args: []Expression{&Identifier{Name: "x"}}}
	if got := read.String(); got != "Read(x)" {
		t.Errorf("Read String() = %q, want %q", got, "Read(x)")
	}
}
