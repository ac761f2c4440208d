// Package parser implements a recursive-descent parser for AlgoLang.
//
// The parser is non-recovering: the first syntax error terminates parsing.
// Internally this is implemented with panic/recover around a single
// *ParseError type (the same technique go/scanner and text/template use
// for recursive-descent parsers) so that deeply nested parse functions
// don't need to thread an error return through every call.
//
// Expression precedence, lowest to highest:
//
//	Or < And < (= <>) < (< <= > >=) < (+ -) < (* / Mod Div) < unary < primary
//
// All binary operators are left-associative; this is realised directly by
// the nesting order of the parseXxx functions below, which is the
// "published precedence table" the grammar in spec.md §4.2 calls for.
package parser

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algolang/internal/ast"
	"github.com/cwbudde/algolang/internal/lexer"
)

// ParseError is returned by Parse when the token stream does not match the
// grammar. It always carries the offending line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}

// Parser consumes a token slice produced by the lexer and builds a
// *ast.Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a Parser over an already-tokenized source.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes nothing itself; it parses an already-lexed token stream
// into a *ast.Program, or returns the first *ParseError encountered.
func Parse(tokens []lexer.Token) (prog *ast.Program, err error) {
	p := New(tokens)
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			err = pe
		}
	}()
	prog = p.parseProgram()
	return prog, nil
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

// expect consumes the current token if it has type tt, else panics with a
// "Line <n>: <expectation>" ParseError (spec.md §4.2).
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if !p.at(tt) {
		p.fail("expected %s, got %s (%q)", tt, p.cur().Type, p.cur().Literal)
	}
	return p.advance()
}

func (p *Parser) fail(format string, args ...any) {
	panic(&ParseError{Line: p.cur().Line, Message: fmt.Sprintf(format, args...)})
}

// skipSemicolons consumes zero or more optional statement separators.
// AlgoLang statements and declarations need no terminator, but ';' is a
// recognised token and is tolerated wherever one would be expected.
func (p *Parser) skipSemicolons() {
	for p.at(lexer.SEMICOLON) {
		p.advance()
	}
}

// ---- program ----

func (p *Parser) parseProgram() *ast.Program {
	tok := p.expect(lexer.ALGORITHM)
	name := p.expect(lexer.IDENT).Literal

	prog := &ast.Program{Name: name}
	prog.Token = tok

	if p.at(lexer.VAR) {
		p.advance()
		prog.VarDecls = p.parseVarDecls()
	}

	for p.at(lexer.FUNCTION) || p.at(lexer.PROCEDURE) {
		if p.at(lexer.FUNCTION) {
			prog.Functions = append(prog.Functions, p.parseFunctionDecl())
		} else {
			prog.Procedures = append(prog.Procedures, p.parseProcedureDecl())
		}
	}

	p.expect(lexer.BEGIN)
	prog.Body = p.parseBlock(lexer.END)
	p.expect(lexer.END)
	return prog
}

// parseVarDecls parses zero or more "nameList : [array dimList of] baseType"
// groups until a token starts something else (Begin, Function, Procedure,
// or end of input).
func (p *Parser) parseVarDecls() []*ast.VarDecl {
	var decls []*ast.VarDecl
	for p.at(lexer.IDENT) {
		decls = append(decls, p.parseOneVarDecl())
		p.skipSemicolons()
	}
	return decls
}

func (p *Parser) parseOneVarDecl() *ast.VarDecl {
	tok := p.cur()
	names := []string{p.expect(lexer.IDENT).Literal}
	for p.at(lexer.COMMA) {
		p.advance()
		names = append(names, p.expect(lexer.IDENT).Literal)
	}
	p.expect(lexer.COLON)

	var dims []int
	if p.at(lexer.ARRAY) {
		p.advance()
		dims = p.parseDimList()
		p.expect(lexer.OF)
	}
	baseType := p.parseBaseType()

	return &ast.VarDecl{Token: tok, Names: names, BaseType: baseType, Dims: dims}
}

func (p *Parser) parseDimList() []int {
	var dims []int
	p.expect(lexer.LBRACK)
	dims = append(dims, p.parseDimNumber())
	p.expect(lexer.RBRACK)
	for p.at(lexer.LBRACK) {
		p.advance()
		dims = append(dims, p.parseDimNumber())
		p.expect(lexer.RBRACK)
	}
	return dims
}

func (p *Parser) parseDimNumber() int {
	tok := p.expect(lexer.NUMBER)
	var n int
	if _, err := fmt.Sscanf(tok.Literal, "%d", &n); err != nil {
		p.fail("invalid array dimension %q", tok.Literal)
	}
	return n
}

func (p *Parser) parseBaseType() string {
	switch p.cur().Type {
	case lexer.TYPE_INTEGER:
		p.advance()
		return "Integer"
	case lexer.TYPE_REAL:
		p.advance()
		return "Real"
	case lexer.TYPE_BOOLEAN:
		p.advance()
		return "Boolean"
	case lexer.TYPE_STRING:
		p.advance()
		return "String"
	case lexer.TYPE_CHAR:
		p.advance()
		return "Char"
	default:
		p.fail("expected a type name, got %s (%q)", p.cur().Type, p.cur().Literal)
		return ""
	}
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	tok := p.expect(lexer.FUNCTION)
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.LPAREN)
	params := p.parseParams()
	p.expect(lexer.RPAREN)
	p.expect(lexer.COLON)
	retType := p.parseBaseType()

	var locals []*ast.VarDecl
	if p.at(lexer.VAR) {
		p.advance()
		locals = p.parseVarDecls()
	}

	p.expect(lexer.BEGIN)
	body := p.parseBlock(lexer.ENDFUNCTION)
	p.expect(lexer.ENDFUNCTION)

	return &ast.FunctionDecl{Token: tok, Name: name, Params: params, ReturnType: retType, Locals: locals, Body: body}
}

func (p *Parser) parseProcedureDecl() *ast.ProcedureDecl {
	tok := p.expect(lexer.PROCEDURE)
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.LPAREN)
	params := p.parseParams()
	p.expect(lexer.RPAREN)

	var locals []*ast.VarDecl
	if p.at(lexer.VAR) {
		p.advance()
		locals = p.parseVarDecls()
	}

	p.expect(lexer.BEGIN)
	body := p.parseBlock(lexer.ENDPROCEDURE)
	p.expect(lexer.ENDPROCEDURE)

	return &ast.ProcedureDecl{Token: tok, Name: name, Params: params, Locals: locals, Body: body}
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	if p.at(lexer.RPAREN) {
		return params
	}
	params = append(params, p.parseOneParam())
	for p.at(lexer.COMMA) {
		p.advance()
		params = append(params, p.parseOneParam())
	}
	return params
}

func (p *Parser) parseOneParam() ast.Param {
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.COLON)
	return ast.Param{Name: name, BaseType: p.parseBaseType()}
}

// isBlockEnd reports whether the current token is one of the block's
// possible terminators, so parseBlock knows when to stop without
// consuming the terminator itself.
func (p *Parser) isBlockEnd(terminators ...lexer.TokenType) bool {
	for _, t := range terminators {
		if p.at(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseBlock(terminators ...lexer.TokenType) *ast.Block {
	tok := p.cur()
	block := &ast.Block{}
	block.Token = tok
	p.skipSemicolons()
	for !p.isBlockEnd(terminators...) && !p.at(lexer.EOF) {
		block.Statements = append(block.Statements, p.parseStatement())
		p.skipSemicolons()
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.READ:
		return p.parseIO(lexer.READ, ast.IORead)
	case lexer.WRITE:
		return p.parseIO(lexer.WRITE, ast.IOWrite)
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IDENT:
		// Disambiguation (spec.md §4.2): identifier followed by '(' is a
		// call statement; otherwise it begins an assignment through ref.
		if p.peek().Type == lexer.LPAREN {
			return p.parseCallStatement()
		}
		return p.parseAssignment()
	default:
		p.fail("expected a statement, got %s (%q)", p.cur().Type, p.cur().Literal)
		return nil
	}
}

func (p *Parser) parseIO(kw lexer.TokenType, dir ast.IODirection) ast.Statement {
	tok := p.expect(kw)
	p.expect(lexer.LPAREN)
	io := &ast.IO{Direction: dir}
	io.Token = tok
	if !p.at(lexer.RPAREN) {
		if dir == ast.IORead {
			io.Args = append(io.Args, p.parseRef())
			for p.at(lexer.COMMA) {
				p.advance()
				io.Args = append(io.Args, p.parseRef())
			}
		} else {
			io.Args = append(io.Args, p.parseExpression())
			for p.at(lexer.COMMA) {
				p.advance()
				io.Args = append(io.Args, p.parseExpression())
			}
		}
	}
	p.expect(lexer.RPAREN)
	return io
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.expect(lexer.IF)
	cond := p.parseExpression()
	p.expect(lexer.THEN)
	thenBlock := p.parseBlock(lexer.ELSE, lexer.ENDIF)
	stmt := &ast.If{Cond: cond, Then: thenBlock}
	stmt.Token = tok
	if p.at(lexer.ELSE) {
		p.advance()
		stmt.Else = p.parseBlock(lexer.ENDIF)
	}
	p.expect(lexer.ENDIF)
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.expect(lexer.WHILE)
	cond := p.parseExpression()
	p.expect(lexer.DO)
	body := p.parseBlock(lexer.ENDWHILE)
	p.expect(lexer.ENDWHILE)
	stmt := &ast.While{Cond: cond, Body: body}
	stmt.Token = tok
	return stmt
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.expect(lexer.FOR)
	loopVar := p.expect(lexer.IDENT).Literal
	p.expectAssign()
	start := p.parseExpression()
	p.expect(lexer.TO)
	end := p.parseExpression()

	var step ast.Expression
	if p.at(lexer.STEP) {
		p.advance()
		step = p.parseExpression()
	} else {
		oneTok := lexer.Token{Type: lexer.NUMBER, Literal: "1", Line: tok.Line}
		step = &ast.Literal{Token: oneTok, Kind: ast.NumberLiteral, Num: 1}
	}

	p.expect(lexer.DO)
	body := p.parseBlock(lexer.ENDFOR)
	p.expect(lexer.ENDFOR)

	stmt := &ast.For{Var: loopVar, Start: start, End: end, Step: step, Body: body}
	stmt.Token = tok
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.expect(lexer.RETURN)
	stmt := &ast.Return{}
	stmt.Token = tok
	if p.canStartExpression() {
		stmt.Value = p.parseExpression()
	}
	return stmt
}

// canStartExpression reports whether the current token could begin an
// expression, used to tell a bare `Return` apart from `Return <expr>`.
func (p *Parser) canStartExpression() bool {
	switch p.cur().Type {
	case lexer.NUMBER, lexer.STRING, lexer.IDENT, lexer.LPAREN, lexer.MINUS, lexer.NOT, lexer.PLUS:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCallStatement() ast.Statement {
	tok := p.cur()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.LPAREN)
	args := p.parseExprListUntil(lexer.RPAREN)
	p.expect(lexer.RPAREN)
	call := &ast.Call{Callee: name, Args: args}
	call.Token = tok
	return call
}

// parseAssignment parses `ref ASSIGN expr`.
func (p *Parser) parseAssignment() ast.Statement {
	tok := p.cur()
	target := p.parseRef()
	p.expectAssign()
	value := p.parseExpression()
	stmt := &ast.Assignment{Target: target, Value: value}
	stmt.Token = tok
	return stmt
}

// expectAssign consumes any of the three assignment spellings (:=, <-, ←),
// which the lexer has already folded into one ASSIGN token kind.
func (p *Parser) expectAssign() {
	p.expect(lexer.ASSIGN)
}

// parseRef parses `ident { "[" expr "]" }`, producing an *Identifier or an
// *ArrayAccess.
func (p *Parser) parseRef() ast.Expression {
	tok := p.expect(lexer.IDENT)
	if !p.at(lexer.LBRACK) {
		id := &ast.Identifier{Name: tok.Literal}
		id.Token = tok
		return id
	}
	access := &ast.ArrayAccess{Name: tok.Literal}
	access.Token = tok
	for p.at(lexer.LBRACK) {
		p.advance()
		access.Indices = append(access.Indices, p.parseExpression())
		p.expect(lexer.RBRACK)
	}
	return access
}

func (p *Parser) parseExprListUntil(end lexer.TokenType) []ast.Expression {
	var exprs []ast.Expression
	if p.at(end) {
		return exprs
	}
	exprs = append(exprs, p.parseExpression())
	for p.at(lexer.COMMA) {
		p.advance()
		exprs = append(exprs, p.parseExpression())
	}
	return exprs
}

// ---- expressions ----

func (p *Parser) parseExpression() ast.Expression { return p.parseOr() }

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.at(lexer.OR) {
		tok := p.advance()
		right := p.parseAnd()
		left = binOp(tok, ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.at(lexer.AND) {
		tok := p.advance()
		right := p.parseEquality()
		left = binOp(tok, ast.OpAnd, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.at(lexer.EQ) || p.at(lexer.NOT_EQ) {
		tok := p.advance()
		kind := ast.OpEq
		if tok.Type == lexer.NOT_EQ {
			kind = ast.OpNotEq
		}
		right := p.parseComparison()
		left = binOp(tok, kind, left, right)
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for p.at(lexer.LESS) || p.at(lexer.LESS_EQ) || p.at(lexer.GREATER) || p.at(lexer.GREATER_EQ) {
		tok := p.advance()
		var kind ast.BinaryOpKind
		switch tok.Type {
		case lexer.LESS:
			kind = ast.OpLess
		case lexer.LESS_EQ:
			kind = ast.OpLessEq
		case lexer.GREATER:
			kind = ast.OpGreater
		default:
			kind = ast.OpGreaterEq
		}
		right := p.parseAdditive()
		left = binOp(tok, kind, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		tok := p.advance()
		kind := ast.OpAdd
		if tok.Type == lexer.MINUS {
			kind = ast.OpSub
		}
		right := p.parseMultiplicative()
		left = binOp(tok, kind, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.at(lexer.ASTERISK) || p.at(lexer.SLASH) || p.at(lexer.MOD) || p.at(lexer.DIV) {
		tok := p.advance()
		var kind ast.BinaryOpKind
		switch tok.Type {
		case lexer.ASTERISK:
			kind = ast.OpMul
		case lexer.SLASH:
			kind = ast.OpDiv
		case lexer.MOD:
			kind = ast.OpMod
		default:
			kind = ast.OpIDiv
		}
		right := p.parseUnary()
		left = binOp(tok, kind, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.at(lexer.NOT) {
		tok := p.advance()
		operand := p.parseUnary()
		u := &ast.UnaryOp{Op: ast.OpNot, Operand: operand}
		u.Token = tok
		return u
	}
	if p.at(lexer.MINUS) {
		tok := p.advance()
		operand := p.parseUnary()
		u := &ast.UnaryOp{Op: ast.OpNeg, Operand: operand}
		u.Token = tok
		return u
	}
	if p.at(lexer.PLUS) {
		// Unary plus is a no-op; skip it and parse the operand.
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		var n float64
		fmt.Sscanf(tok.Literal, "%g", &n)
		lit := &ast.Literal{Kind: ast.NumberLiteral, Num: n}
		lit.Token = tok
		return lit
	case lexer.STRING:
		p.advance()
		lit := &ast.Literal{Kind: ast.StringLiteral, Str: tok.Literal}
		lit.Token = tok
		return lit
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN)
		return expr
	case lexer.IDENT:
		return p.parseIdentOrCallOrIndex()
	default:
		p.fail("unexpected token %s (%q) in expression", tok.Type, tok.Literal)
		return nil
	}
}

// parseIdentOrCallOrIndex handles the four primary shapes that start with
// an identifier: True/False constants, a call expression, an indexed
// array access, or a bare identifier.
func (p *Parser) parseIdentOrCallOrIndex() ast.Expression {
	tok := p.advance()
	switch {
	case strings.EqualFold(tok.Literal, "true"):
		lit := &ast.Literal{Kind: ast.BooleanLiteral, Bool: true}
		lit.Token = tok
		return lit
	case strings.EqualFold(tok.Literal, "false"):
		lit := &ast.Literal{Kind: ast.BooleanLiteral, Bool: false}
		lit.Token = tok
		return lit
	}

	if p.at(lexer.LPAREN) {
		p.advance()
		args := p.parseExprListUntil(lexer.RPAREN)
		p.expect(lexer.RPAREN)
		call := &ast.Call{Callee: tok.Literal, Args: args}
		call.Token = tok
		return call
	}

	if p.at(lexer.LBRACK) {
		access := &ast.ArrayAccess{Name: tok.Literal}
		access.Token = tok
		for p.at(lexer.LBRACK) {
			p.advance()
			access.Indices = append(access.Indices, p.parseExpression())
			p.expect(lexer.RBRACK)
		}
		return access
	}

	id := &ast.Identifier{Name: tok.Literal}
	id.Token = tok
	return id
}

func binOp(tok lexer.Token, kind ast.BinaryOpKind, left, right ast.Expression) ast.Expression {
	b := &ast.BinaryOp{Op: kind, Left: left, Right: right}
	b.Token = tok
	return b
}
