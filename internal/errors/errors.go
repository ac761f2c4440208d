// Package errors formats AlgoLang diagnostics — lexical, syntax, and
// runtime — with source context and, when a column is known, a caret
// pointing at the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algolang/internal/lexer"
)

// RuntimeError is a single diagnostic tied to one source position.
type RuntimeError struct {
	Message string
	Source  string
	Pos     lexer.Position
}

// New creates a RuntimeError over the given position and source text.
func New(pos lexer.Position, message, source string) *RuntimeError {
	return &RuntimeError{Pos: pos, Message: message, Source: source}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return e.Format(false)
}

// Format renders the error with its source line and, if Pos.Column is
// set, a caret under that column. If color is true, ANSI codes highlight
// the caret and message.
func (e *RuntimeError) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Error at line %d", e.Pos.Line)
	if e.Pos.Column > 0 {
		fmt.Fprintf(&sb, ", column %d", e.Pos.Column)
	}
	sb.WriteString("\n")

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		if e.Pos.Column > 0 {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// sourceLine extracts a 1-indexed line from Source.
func (e *RuntimeError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
