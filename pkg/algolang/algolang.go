// Package algolang is the embeddable entry point into the AlgoLang
// pipeline: tokenize source, parse tokens into a program, and run that
// program as a resumable coroutine. It is the only supported surface for
// collaborators such as a file tree, an editor, or a lesson catalog —
// nothing under internal/ is meant to be imported directly.
package algolang

import (
	"github.com/cwbudde/algolang/internal/ast"
	"github.com/cwbudde/algolang/internal/interp"
	"github.com/cwbudde/algolang/internal/lexer"
	"github.com/cwbudde/algolang/internal/parser"
)

// Tokenize turns AlgoLang source text into its token sequence. It fails
// fast on the first unrecognised character or unterminated string.
func Tokenize(source string) ([]lexer.Token, error) {
	return lexer.Tokenize(source)
}

// Parse turns a token sequence into a Program. It fails on the first
// grammar violation.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return parser.Parse(tokens)
}

// Interpret starts program running as a resumable coroutine, suspended
// before its first statement. Call Handle.Advance to drive it.
func Interpret(program *ast.Program) *interp.Handle {
	return interp.Interpret(program)
}

// Event is the currency between a running program and its host.
type Event = interp.Event

// Handle is a resumable interpreter instance.
type Handle = interp.Handle

// Event kinds, re-exported so callers never need to import internal/interp.
const (
	EventStep   = interp.EventStep
	EventOutput = interp.EventOutput
	EventInput  = interp.EventInput
	EventError  = interp.EventError
	EventDone   = interp.EventDone
)
