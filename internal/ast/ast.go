// Package ast defines the Abstract Syntax Tree node types for AlgoLang.
// The tree is a closed, immutable-after-parse family of node variants; the
// interpreter switches on each variant's concrete type and never rewrites
// the tree.
package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algolang/internal/lexer"
)

// Node is the base interface implemented by every AST node. Every node
// carries the source line of its first token.
type Node interface {
	TokenLiteral() string
	String() string
	Line() int
}

// Expression is a node that produces a runtime value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Param is a function/procedure parameter binding: a name and its
// declared base type.
type Param struct {
	Name     string
	BaseType string
}

// VarDecl declares one or more names sharing a type. Dims is empty for a
// scalar declaration; a non-empty Dims makes every name in Names an array
// with that dimension list.
type VarDecl struct {
	Token    lexer.Token
	Names    []string
	BaseType string
	Dims     []int
}

func (v *VarDecl) TokenLiteral() string { return v.Token.Literal }
func (v *VarDecl) Line() int            { return v.Token.Line }
func (v *VarDecl) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(v.Names, ", "))
	sb.WriteString(" : ")
	if len(v.Dims) > 0 {
		sb.WriteString("array ")
		for _, d := range v.Dims {
			fmt.Fprintf(&sb, "[%d]", d)
		}
		sb.WriteString(" of ")
	}
	sb.WriteString(v.BaseType)
	return sb.String()
}

// Program is the AST root: the algorithm's name, its global variable
// declarations, its function/procedure declarations, and its main body.
type Program struct {
	Token      lexer.Token
	Name       string
	VarDecls   []*VarDecl
	Functions  []*FunctionDecl
	Procedures []*ProcedureDecl
	Body       *Block
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) Line() int            { return p.Token.Line }
func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Algorithm %s\n", p.Name)
	for _, v := range p.VarDecls {
		fmt.Fprintf(&sb, "Var %s\n", v.String())
	}
	for _, f := range p.Functions {
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	for _, pr := range p.Procedures {
		sb.WriteString(pr.String())
		sb.WriteString("\n")
	}
	sb.WriteString("Begin\n")
	sb.WriteString(p.Body.String())
	sb.WriteString("End")
	return sb.String()
}

// Identifier is a bare name reference.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Line() int            { return i.Token.Line }
func (i *Identifier) String() string       { return i.Name }

// LiteralKind distinguishes the three literal shapes the tokenizer can
// produce. There is no separate Integer literal kind: spec.md collapses
// Integer and Real to one double-precision Number at runtime.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
)

// Literal is a constant value fixed at parse time.
type Literal struct {
	Token lexer.Token
	Kind  LiteralKind
	Num   float64
	Str   string
	Bool  bool
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) Line() int            { return l.Token.Line }
func (l *Literal) String() string {
	switch l.Kind {
	case StringLiteral:
		return fmt.Sprintf("%q", l.Str)
	case BooleanLiteral:
		if l.Bool {
			return "True"
		}
		return "False"
	default:
		return l.Token.Literal
	}
}

// BinaryOpKind enumerates the binary operators the grammar recognises.
type BinaryOpKind int

const (
	OpAdd BinaryOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpIDiv
	OpAnd
	OpOr
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
)

// BinaryOp is a left-associative binary expression.
type BinaryOp struct {
	Token lexer.Token
	Op    BinaryOpKind
	Left  Expression
	Right Expression
}

func (b *BinaryOp) expressionNode()      {}
func (b *BinaryOp) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryOp) Line() int            { return b.Token.Line }
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), binaryOpSymbols[b.Op], b.Right.String())
}

var binaryOpSymbols = map[BinaryOpKind]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "Mod", OpIDiv: "Div",
	OpAnd: "And", OpOr: "Or", OpEq: "=", OpNotEq: "<>",
	OpLess: "<", OpLessEq: "<=", OpGreater: ">", OpGreaterEq: ">=",
}

// UnaryOpKind enumerates the prefix operators the grammar recognises.
type UnaryOpKind int

const (
	OpNeg UnaryOpKind = iota
	OpNot
)

// UnaryOp is a prefix expression: Not x or -x.
type UnaryOp struct {
	Token   lexer.Token
	Op      UnaryOpKind
	Operand Expression
}

func (u *UnaryOp) expressionNode()      {}
func (u *UnaryOp) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryOp) Line() int            { return u.Token.Line }
func (u *UnaryOp) String() string {
	sym := "-"
	if u.Op == OpNot {
		sym = "Not "
	}
	return fmt.Sprintf("(%s%s)", sym, u.Operand.String())
}

// ArrayAccess indexes a named array with one index expression per
// dimension level, e.g. Grid[r][c].
type ArrayAccess struct {
	Token   lexer.Token
	Name    string
	Indices []Expression
}

func (a *ArrayAccess) expressionNode()      {}
func (a *ArrayAccess) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayAccess) Line() int            { return a.Token.Line }
func (a *ArrayAccess) String() string {
	var sb strings.Builder
	sb.WriteString(a.Name)
	for _, idx := range a.Indices {
		fmt.Fprintf(&sb, "[%s]", idx.String())
	}
	return sb.String()
}

// Call is a function/procedure invocation, used both as an expression
// (function call inside an expression) and as a standalone statement
// (procedure call).
type Call struct {
	Token  lexer.Token
	Callee string
	Args   []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) statementNode()       {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) Line() int            { return c.Token.Line }
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}
