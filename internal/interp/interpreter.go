// Package interp walks an AlgoLang AST as a resumable coroutine: the walk
// runs on its own goroutine and suspends at each Step, Output, and Input
// point by blocking on a channel, so Advance's "one stepping operation"
// contract comes from the channel protocol itself. See Handle in handle.go
// for the host-facing half of that contract.
package interp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algolang/internal/ast"
)

// runtimeError is a terminal diagnostic, panicked from deep inside
// expression/statement evaluation and recovered once at the top of the
// interpreter goroutine, where it becomes an Error event.
type runtimeError struct {
	message string
	line    int
}

func (e *runtimeError) Error() string { return e.message }

func rtErr(line int, format string, args ...any) {
	panic(&runtimeError{message: fmt.Sprintf(format, args...), line: line})
}

// returnSignal unwinds exactly one activation on a Return statement.
type returnSignal struct {
	value    Value
	hasValue bool
}

// abandonSignal unwinds the goroutine when the host has cancelled the
// handle; nothing more is sent on events or awaited on replies after it.
type abandonSignal struct{}

// interpreter holds everything live for one run: the program, its
// case-insensitive function table, the call stack, and the channel pair
// used to talk to the host.
type interpreter struct {
	prog  *ast.Program
	funcs map[string]*ast.FunctionDecl
	procs map[string]*ast.ProcedureDecl

	stack *stack

	events  chan Event
	replies chan string
	done    <-chan struct{}

	// exprDepth > 0 means evaluation is inside an expression-mode call:
	// per spec, such calls run synchronously and their nested Step/
	// Output/Input effects are silently skipped.
	exprDepth int
}

func newInterpreter(prog *ast.Program, events chan Event, replies chan string, done <-chan struct{}) *interpreter {
	it := &interpreter{
		prog:    prog,
		funcs:   make(map[string]*ast.FunctionDecl),
		procs:   make(map[string]*ast.ProcedureDecl),
		stack:   newStack(),
		events:  events,
		replies: replies,
		done:    done,
	}
	for _, f := range prog.Functions {
		it.funcs[strings.ToLower(f.Name)] = f
	}
	for _, p := range prog.Procedures {
		it.procs[strings.ToLower(p.Name)] = p
	}
	return it
}

// run drives the whole program to completion (or to a terminal error),
// then returns, which closes the events channel via the caller's defer.
func (it *interpreter) run() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abandonSignal); ok {
				return
			}
			if re, ok := r.(*runtimeError); ok {
				it.emit(Event{Kind: EventError, Message: re.message, Line: re.line})
				return
			}
			panic(r)
		}
	}()

	global := it.stack.top()
	for _, vd := range it.prog.VarDecls {
		it.declareVar(global, vd)
	}
	it.execBlock(it.prog.Body)
}

// emit delivers one event to the host, or abandons the walk if the
// handle was cancelled first.
func (it *interpreter) emit(ev Event) {
	select {
	case it.events <- ev:
	case <-it.done:
		panic(abandonSignal{})
	}
}

func (it *interpreter) awaitReply() string {
	select {
	case r := <-it.replies:
		return r
	case <-it.done:
		panic(abandonSignal{})
	}
}

// step emits a Step event, unless the current statement is being executed
// inside an expression-mode call.
func (it *interpreter) step(line int) {
	if it.exprDepth > 0 {
		return
	}
	it.emit(Event{Kind: EventStep, Line: line, Snapshot: it.stack.snapshot()})
}

func (it *interpreter) callDepth() int {
	return len(it.stack.frames) - 1
}

// declareVar materialises one Var declaration's names into sc, arrays or
// scalars per spec.md's initialization rule.
func (it *interpreter) declareVar(sc *scope, vd *ast.VarDecl) {
	for _, name := range vd.Names {
		if len(vd.Dims) > 0 {
			sc.vars[name] = newArray(vd.Dims, vd.BaseType)
		} else {
			sc.vars[name] = zeroValue(vd.BaseType)
		}
	}
}

// execBlock runs every statement in order; control-flow statements manage
// their own header stepping, everything else steps once before it runs.
func (it *interpreter) execBlock(b *ast.Block) {
	for _, s := range b.Statements {
		it.execStatement(s)
	}
}

func (it *interpreter) execStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.If:
		it.execIf(s)
	case *ast.While:
		it.execWhile(s)
	case *ast.For:
		it.execFor(s)
	case *ast.Assignment:
		it.step(s.Line())
		it.execAssignment(s)
	case *ast.IO:
		it.step(s.Line())
		it.execIO(s)
	case *ast.Return:
		it.step(s.Line())
		it.execReturn(s)
	case *ast.Call:
		it.step(s.Line())
		it.invokeStepping(s)
	default:
		rtErr(stmt.Line(), "System Error: unsupported statement")
	}
}

func (it *interpreter) execIf(s *ast.If) {
	it.step(s.Line())
	if it.evalBool(s.Cond) {
		it.execBlock(s.Then)
	} else if s.Else != nil {
		it.execBlock(s.Else)
	}
}

func (it *interpreter) execWhile(s *ast.While) {
	for {
		it.step(s.Line())
		if !it.evalBool(s.Cond) {
			return
		}
		it.execBlock(s.Body)
	}
}

// execFor evaluates start/end/step once, then steps at the header line
// before every test: changes to the loop variable inside the body affect
// the next test, changes to end/step do not (spec.md §4.3).
func (it *interpreter) execFor(s *ast.For) {
	start := it.evalNumber(s.Start)
	end := it.evalNumber(s.End)
	incr := it.evalNumber(s.Step)

	if !it.stack.set(s.Var, RealValue{Value: start}) {
		rtErr(s.Line(), "Variable '%s' not declared.", s.Var)
	}

	for {
		it.step(s.Line())
		current := it.loopVar(s)
		if incr >= 0 {
			if current > end {
				return
			}
		} else if current < end {
			return
		}
		it.execBlock(s.Body)
		current = it.loopVar(s)
		it.stack.set(s.Var, RealValue{Value: current + incr})
	}
}

func (it *interpreter) loopVar(s *ast.For) float64 {
	v, ok := it.stack.get(s.Var)
	if !ok {
		rtErr(s.Line(), "Variable '%s' not declared.", s.Var)
	}
	r, ok := v.(RealValue)
	if !ok {
		rtErr(s.Line(), "'%s' must be numeric to use as a For-loop variable.", s.Var)
	}
	return r.Value
}

func (it *interpreter) execAssignment(s *ast.Assignment) {
	v := deepCopy(it.eval(s.Value))
	it.setRefValue(s.Target, v)
}

func (it *interpreter) execReturn(s *ast.Return) {
	if it.callDepth() == 0 {
		rtErr(s.Line(), "Return is not valid outside a function or procedure.")
	}
	if s.Value == nil {
		panic(returnSignal{})
	}
	v := it.eval(s.Value)
	panic(returnSignal{value: v, hasValue: true})
}

// execIO runs a Read/Write statement. Per spec.md §4.3, inside an
// expression-mode call this is silently skipped rather than queued.
func (it *interpreter) execIO(s *ast.IO) {
	if it.exprDepth > 0 {
		return
	}
	if s.Direction == ast.IOWrite {
		parts := make([]string, len(s.Args))
		for i, a := range s.Args {
			parts[i] = it.eval(a).String()
		}
		it.emit(Event{Kind: EventOutput, Text: strings.Join(parts, " ")})
		return
	}

	for _, a := range s.Args {
		cur := it.getRefValue(a)
		it.emit(Event{Kind: EventInput, Name: refName(a), ExpectedType: cur.Type()})
		reply := it.awaitReply()
		v, err := parseReply(reply, cur.Type())
		if err != nil {
			rtErr(s.Line(), "%s", err.Error())
		}
		it.setRefValue(a, v)
	}
}

func refName(e ast.Expression) string {
	switch r := e.(type) {
	case *ast.Identifier:
		return r.Name
	case *ast.ArrayAccess:
		return r.Name
	default:
		return ""
	}
}

// parseReply converts a typed-in reply string per spec.md §4.3's Read
// parsing rule.
func parseReply(reply, expectedType string) (Value, error) {
	switch expectedType {
	case "Boolean":
		switch strings.ToLower(strings.TrimSpace(reply)) {
		case "true":
			return BooleanValue{Value: true}, nil
		case "false":
			return BooleanValue{Value: false}, nil
		default:
			return nil, errors.New("Expected a boolean input.")
		}
	case "String":
		return StringValue{Value: reply}, nil
	default: // Real
		f, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
		if err != nil {
			return nil, errors.New("Expected a number input.")
		}
		return RealValue{Value: f}, nil
	}
}

// invokeStepping runs call under the normal event-emitting discipline
// (§4.3 "stepping mode"): a fresh scope, by-value argument binding, and
// any nested Step/Output/Input events surfacing to the host as they occur.
func (it *interpreter) invokeStepping(call *ast.Call) Value {
	lower := strings.ToLower(call.Callee)
	if fn, ok := it.funcs[lower]; ok {
		args := it.evalArgs(call, fn.Params)
		return it.runCallable(fn.Params, fn.Locals, fn.Body, args)
	}
	if pr, ok := it.procs[lower]; ok {
		args := it.evalArgs(call, pr.Params)
		it.runCallable(pr.Params, pr.Locals, pr.Body, args)
		return nil
	}
	rtErr(call.Line(), "Unknown procedure/function '%s'.", call.Callee)
	return nil
}

func (it *interpreter) evalArgs(call *ast.Call, params []ast.Param) []Value {
	if len(call.Args) != len(params) {
		rtErr(call.Line(), "'%s' expects %d arguments, got %d.", call.Callee, len(params), len(call.Args))
	}
	vals := make([]Value, len(call.Args))
	for i, a := range call.Args {
		vals[i] = deepCopy(it.eval(a))
	}
	return vals
}

func (it *interpreter) runCallable(params []ast.Param, locals []*ast.VarDecl, body *ast.Block, args []Value) (result Value) {
	sc := it.stack.push()
	for i, p := range params {
		sc.vars[p.Name] = args[i]
	}
	for _, vd := range locals {
		it.declareVar(sc, vd)
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					if rs.hasValue {
						result = rs.value
					}
					return
				}
				panic(r)
			}
		}()
		it.execBlock(body)
	}()

	it.stack.pop()
	return result
}

// evalCall runs call in expression mode (§4.3 "expression mode"): no Step/
// Output/Input event crosses the boundary, and any I/O performed inside
// the callee is silently skipped rather than queued.
func (it *interpreter) evalCall(call *ast.Call) Value {
	it.exprDepth++
	defer func() { it.exprDepth-- }()
	return it.invokeStepping(call)
}

func (it *interpreter) getRefValue(ref ast.Expression) Value {
	switch r := ref.(type) {
	case *ast.Identifier:
		v, ok := it.stack.get(r.Name)
		if !ok {
			rtErr(r.Line(), "Variable '%s' not declared.", r.Name)
		}
		return v
	case *ast.ArrayAccess:
		return it.evalArrayAccess(r)
	default:
		rtErr(ref.Line(), "System Error: invalid reference")
		return nil
	}
}

func (it *interpreter) setRefValue(ref ast.Expression, v Value) {
	switch r := ref.(type) {
	case *ast.Identifier:
		if !it.stack.set(r.Name, v) {
			rtErr(r.Line(), "Variable '%s' not declared.", r.Name)
		}
	case *ast.ArrayAccess:
		it.setArrayAccess(r, v)
	default:
		rtErr(ref.Line(), "System Error: invalid assignment target")
	}
}

func (it *interpreter) evalArrayAccess(r *ast.ArrayAccess) Value {
	base, ok := it.stack.get(r.Name)
	if !ok {
		rtErr(r.Line(), "Variable '%s' not declared.", r.Name)
	}
	arr, ok := base.(*ArrayValue)
	if !ok {
		rtErr(r.Line(), "'%s' is not an array.", r.Name)
	}
	return it.indexInto(arr, r.Indices, r.Name, r.Line())
}

func (it *interpreter) indexInto(arr *ArrayValue, indices []ast.Expression, name string, line int) Value {
	if len(indices) > len(arr.Dims) {
		rtErr(line, "'%s' is not an array.", name)
	}
	idx := it.evalIndex(indices[0], line)
	if idx < 0 || idx >= arr.Dims[0] {
		rtErr(line, "Index %d out of bounds.", idx)
	}
	if len(indices) == 1 {
		if len(arr.Dims) == 1 {
			return arr.Elements[idx]
		}
		return sliceSubArray(arr, idx)
	}
	return it.indexInto(sliceSubArray(arr, idx), indices[1:], name, line)
}

func (it *interpreter) setArrayAccess(r *ast.ArrayAccess, v Value) {
	base, ok := it.stack.get(r.Name)
	if !ok {
		rtErr(r.Line(), "Variable '%s' not declared.", r.Name)
	}
	arr, ok := base.(*ArrayValue)
	if !ok {
		rtErr(r.Line(), "'%s' is not an array.", r.Name)
	}
	it.assignInto(arr, r.Indices, v, r.Name, r.Line())
}

func (it *interpreter) assignInto(arr *ArrayValue, indices []ast.Expression, v Value, name string, line int) {
	if len(indices) > len(arr.Dims) {
		rtErr(line, "'%s' is not an array.", name)
	}
	idx := it.evalIndex(indices[0], line)
	if idx < 0 || idx >= arr.Dims[0] {
		rtErr(line, "Index %d out of bounds.", idx)
	}
	if len(indices) == 1 {
		if len(arr.Dims) == 1 {
			arr.Elements[idx] = v
			return
		}
		sub := sliceSubArray(arr, idx)
		src, ok := v.(*ArrayValue)
		if !ok {
			rtErr(line, "cannot assign a scalar to an array slot.")
		}
		copy(sub.Elements, src.Elements)
		return
	}
	it.assignInto(sliceSubArray(arr, idx), indices[1:], v, name, line)
}

func sliceSubArray(arr *ArrayValue, idx int) *ArrayValue {
	stride := 1
	for _, d := range arr.Dims[1:] {
		stride *= d
	}
	return &ArrayValue{Dims: arr.Dims[1:], Elements: arr.Elements[idx*stride : (idx+1)*stride]}
}

func (it *interpreter) evalIndex(e ast.Expression, line int) int {
	v := it.eval(e)
	r, ok := v.(RealValue)
	if !ok {
		rtErr(line, "array index must be numeric.")
	}
	return int(r.Value)
}

func (it *interpreter) evalNumber(e ast.Expression) float64 {
	v := it.eval(e)
	r, ok := v.(RealValue)
	if !ok {
		rtErr(e.Line(), "expected a numeric value, got %s.", v.Type())
	}
	return r.Value
}

func (it *interpreter) evalBool(e ast.Expression) bool {
	v := it.eval(e)
	b, ok := v.(BooleanValue)
	if !ok {
		rtErr(e.Line(), "expected a boolean value, got %s.", v.Type())
	}
	return b.Value
}

func (it *interpreter) eval(expr ast.Expression) Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return it.evalLiteral(e)
	case *ast.Identifier:
		v, ok := it.stack.get(e.Name)
		if !ok {
			rtErr(e.Line(), "Variable '%s' not declared.", e.Name)
		}
		return v
	case *ast.ArrayAccess:
		return it.evalArrayAccess(e)
	case *ast.UnaryOp:
		return it.evalUnary(e)
	case *ast.BinaryOp:
		return it.evalBinary(e)
	case *ast.Call:
		return it.evalCall(e)
	default:
		rtErr(expr.Line(), "System Error: unsupported expression")
		return nil
	}
}

func (it *interpreter) evalLiteral(l *ast.Literal) Value {
	switch l.Kind {
	case ast.StringLiteral:
		return StringValue{Value: l.Str}
	case ast.BooleanLiteral:
		return BooleanValue{Value: l.Bool}
	default:
		return RealValue{Value: l.Num}
	}
}

func (it *interpreter) evalUnary(u *ast.UnaryOp) Value {
	switch u.Op {
	case ast.OpNeg:
		return RealValue{Value: -it.evalNumber(u.Operand)}
	default: // OpNot
		return BooleanValue{Value: !it.evalBool(u.Operand)}
	}
}

func (it *interpreter) evalBinary(b *ast.BinaryOp) Value {
	switch b.Op {
	case ast.OpAnd:
		if !it.evalBool(b.Left) {
			return BooleanValue{Value: false}
		}
		return BooleanValue{Value: it.evalBool(b.Right)}
	case ast.OpOr:
		if it.evalBool(b.Left) {
			return BooleanValue{Value: true}
		}
		return BooleanValue{Value: it.evalBool(b.Right)}
	}

	left := it.eval(b.Left)
	right := it.eval(b.Right)

	switch b.Op {
	case ast.OpEq:
		return BooleanValue{Value: valuesEqual(left, right)}
	case ast.OpNotEq:
		return BooleanValue{Value: !valuesEqual(left, right)}
	case ast.OpAdd:
		ls, lok := left.(StringValue)
		rs, rok := right.(StringValue)
		if lok && rok {
			return StringValue{Value: ls.Value + rs.Value}
		}
		return RealValue{Value: it.numericOperand(left, b.Line()) + it.numericOperand(right, b.Line())}
	case ast.OpSub:
		return RealValue{Value: it.numericOperand(left, b.Line()) - it.numericOperand(right, b.Line())}
	case ast.OpMul:
		return RealValue{Value: it.numericOperand(left, b.Line()) * it.numericOperand(right, b.Line())}
	case ast.OpDiv:
		l, r := it.numericOperand(left, b.Line()), it.numericOperand(right, b.Line())
		return RealValue{Value: l / r}
	case ast.OpIDiv:
		l, r := it.numericOperand(left, b.Line()), it.numericOperand(right, b.Line())
		return RealValue{Value: math.Floor(l / r)}
	case ast.OpMod:
		l, r := it.numericOperand(left, b.Line()), it.numericOperand(right, b.Line())
		return RealValue{Value: math.Mod(l, r)}
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		l, r := it.numericOperand(left, b.Line()), it.numericOperand(right, b.Line())
		switch b.Op {
		case ast.OpLess:
			return BooleanValue{Value: l < r}
		case ast.OpLessEq:
			return BooleanValue{Value: l <= r}
		case ast.OpGreater:
			return BooleanValue{Value: l > r}
		default:
			return BooleanValue{Value: l >= r}
		}
	}

	rtErr(b.Line(), "unsupported operator")
	return nil
}

func (it *interpreter) numericOperand(v Value, line int) float64 {
	r, ok := v.(RealValue)
	if !ok {
		rtErr(line, "expected a numeric value, got %s.", v.Type())
	}
	return r.Value
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case RealValue:
		bv, ok := b.(RealValue)
		return ok && av.Value == bv.Value
	case BooleanValue:
		bv, ok := b.(BooleanValue)
		return ok && av.Value == bv.Value
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Value == bv.Value
	default:
		return false
	}
}
