package ast

import (
	"strings"

	"github.com/cwbudde/algolang/internal/lexer"
)

// Block is an ordered list of statements. An empty block is legal and
// executes as a no-op. Its Line() is the line of the first token after
// whatever opened it (a Begin, Then, Do, or Else): the first statement's
// line or, for an empty block, the terminator's line.
type Block struct {
	Token      lexer.Token
	Statements []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) Line() int            { return b.Token.Line }
func (b *Block) String() string {
	var sb strings.Builder
	for _, s := range b.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Assignment stores Value into Target, which is either an *Identifier or
// an *ArrayAccess.
type Assignment struct {
	Token  lexer.Token
	Target Expression
	Value  Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Line() int            { return a.Token.Line }
func (a *Assignment) String() string {
	return a.Target.String() + " := " + a.Value.String()
}

// IODirection distinguishes Read from Write.
type IODirection int

const (
	IORead IODirection = iota
	IOWrite
)

// IO is a Read(...) or Write(...) statement. Read's arguments must be
// assignable references (Identifier or ArrayAccess); Write's arguments are
// arbitrary expressions.
type IO struct {
	Token     lexer.Token
	Direction IODirection
	Args      []Expression
}

func (io *IO) statementNode()       {}
func (io *IO) TokenLiteral() string { return io.Token.Literal }
func (io *IO) Line() int            { return io.Token.Line }
func (io *IO) String() string {
	name := "Write"
	if io.Direction == IORead {
		name = "Read"
	}
	parts := make([]string, len(io.Args))
	for i, a := range io.Args {
		parts[i] = a.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Return unwinds one activation, optionally carrying a value. Value is nil
// for a bare `Return` inside a Procedure.
type Return struct {
	Token lexer.Token
	Value Expression
}

func (r *Return) statementNode()       {}
func (r *Return) TokenLiteral() string { return r.Token.Literal }
func (r *Return) Line() int            { return r.Token.Line }
func (r *Return) String() string {
	if r.Value == nil {
		return "Return"
	}
	return "Return " + r.Value.String()
}
