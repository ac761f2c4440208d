// This file holds the control-flow node variants: If, While, and For.
package ast

import "github.com/cwbudde/algolang/internal/lexer"

// If evaluates Cond once and executes Then or (if present) Else.
type If struct {
	Token lexer.Token
	Cond  Expression
	Then  *Block
	Else  *Block // nil when there is no Else clause
}

func (i *If) statementNode()       {}
func (i *If) TokenLiteral() string { return i.Token.Literal }
func (i *If) Line() int            { return i.Token.Line }
func (i *If) String() string {
	s := "If " + i.Cond.String() + " Then\n" + i.Then.String()
	if i.Else != nil {
		s += "Else\n" + i.Else.String()
	}
	return s + "EndIf"
}

// While re-evaluates Cond at the loop header before each iteration.
type While struct {
	Token lexer.Token
	Cond  Expression
	Body  *Block
}

func (w *While) statementNode()       {}
func (w *While) TokenLiteral() string { return w.Token.Literal }
func (w *While) Line() int            { return w.Token.Line }
func (w *While) String() string {
	return "While " + w.Cond.String() + " Do\n" + w.Body.String() + "EndWhile"
}

// For evaluates Start, End and Step once at loop entry; Step defaults to a
// literal 1 when the source omits it.
type For struct {
	Token lexer.Token
	Var   string
	Start Expression
	End   Expression
	Step  Expression // never nil: the parser fills in a Literal 1 if omitted
	Body  *Block
}

func (f *For) statementNode()       {}
func (f *For) TokenLiteral() string { return f.Token.Literal }
func (f *For) Line() int            { return f.Token.Line }
func (f *For) String() string {
	return "For " + f.Var + " := " + f.Start.String() + " To " + f.End.String() +
		" Step " + f.Step.String() + " Do\n" + f.Body.String() + "EndFor"
}
