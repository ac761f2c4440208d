// This file holds the callable declaration node variants: FunctionDecl and
// ProcedureDecl.
package ast

import (
	"strings"

	"github.com/cwbudde/algolang/internal/lexer"
)

// FunctionDecl declares a named, typed callable that returns a value.
type FunctionDecl struct {
	Token      lexer.Token
	Name       string
	Params     []Param
	ReturnType string
	Locals     []*VarDecl
	Body       *Block
}

func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) Line() int            { return f.Token.Line }
func (f *FunctionDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + " : " + p.BaseType
	}
	return "Function " + f.Name + "(" + strings.Join(parts, ", ") + ") : " + f.ReturnType +
		"\nBegin\n" + f.Body.String() + "EndFunction"
}

// ProcedureDecl declares a named callable with no return value.
type ProcedureDecl struct {
	Token  lexer.Token
	Name   string
	Params []Param
	Locals []*VarDecl
	Body   *Block
}

func (p *ProcedureDecl) TokenLiteral() string { return p.Token.Literal }
func (p *ProcedureDecl) Line() int            { return p.Token.Line }
func (p *ProcedureDecl) String() string {
	parts := make([]string, len(p.Params))
	for i, pa := range p.Params {
		parts[i] = pa.Name + " : " + pa.BaseType
	}
	return "Procedure " + p.Name + "(" + strings.Join(parts, ", ") + ")" +
		"\nBegin\n" + p.Body.String() + "EndProcedure"
}
