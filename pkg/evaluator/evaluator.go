// Package evaluator implements the Glitter tree-walking interpreter (spec.md §4.5).
package evaluator

import (
	"fmt"
	"io"

	"github.com/thomasrohde/glitter/pkg/ast"
	"github.com/thomasrohde/glitter/pkg/diagnostics"
	"github.com/thomasrohde/glitter/pkg/token"
	"github.com/thomasrohde/glitter/pkg/value"
)

// RuntimeError is a failure during evaluation (spec.md §7 RuntimeError).
type RuntimeError struct {
	Code    string
	Message string
	Span    token.Span
}

func (e *RuntimeError) Error() string { return e.Message }

func newRuntimeError(msg string, span token.Span) *RuntimeError {
	return &RuntimeError{Code: diagnostics.RuntimeError, Message: msg, Span: span}
}

// Diagnostic converts a RuntimeError into a diagnostics.Diagnostic for
// uniform reporting alongside scanner/parser/resolver errors.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.Make(e.Code, e.Message, e.Span)
}

// controlKind distinguishes ordinary statement completion from an
// in-flight return (spec.md §9 "Return as non-local exit").
type controlKind int

const (
	normal controlKind = iota
	returning
)

type control struct {
	kind  controlKind
	value value.Value
}

var normalControl = control{kind: normal}

// Evaluator walks an AST against a persistent root environment. The root
// environment is shared across successive Run calls of the same session
// (spec.md §5), so globals defined in one run are visible to the next.
type Evaluator struct {
	Root   *value.Environment
	Output io.Writer
}

// New creates an Evaluator over root, writing Print output to out.
func New(root *value.Environment, out io.Writer) *Evaluator {
	return &Evaluator{Root: root, Output: out}
}

// Run executes stmts in source order starting from the root environment.
// A runtime error aborts the current run but leaves Root intact so a
// subsequent Run call still observes previously defined globals (spec.md
// §8 property 8: errors are isolated per run).
func (e *Evaluator) Run(stmts []ast.Stmt) error {
	for _, s := range stmts {
		ctrl, err := e.execStmt(s, e.Root)
		if err != nil {
			return err
		}
		if ctrl.kind == returning {
			// A top-level return has nowhere to unwind to; treat it as the
			// end of this run.
			return nil
		}
	}
	return nil
}

func (e *Evaluator) execStmt(stmt ast.Stmt, env *value.Environment) (control, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := e.evalExpr(s.Expr, env)
		return normalControl, err

	case *ast.Print:
		v, err := e.evalExpr(s.Expr, env)
		if err != nil {
			return normalControl, err
		}
		fmt.Fprintln(e.Output, value.Format(v))
		return normalControl, nil

	case *ast.VarDecl:
		var v value.Value = value.Undef
		if s.Initializer != nil {
			var err error
			v, err = e.evalExpr(s.Initializer, env)
			if err != nil {
				return normalControl, err
			}
		}
		env.Define(s.Name, v)
		return normalControl, nil

	case *ast.FunctionDecl:
		fn := &value.Function{Decl: s, Closure: env}
		env.Define(s.Name, fn)
		return normalControl, nil

	case *ast.Block:
		return e.execBlock(s.Stmts, env.Child())

	case *ast.If:
		cond, err := e.evalExpr(s.Cond, env)
		if err != nil {
			return normalControl, err
		}
		if value.Truthy(cond) {
			return e.execStmt(s.Then, env)
		}
		if s.Else != nil {
			return e.execStmt(s.Else, env)
		}
		return normalControl, nil

	case *ast.While:
		for {
			cond, err := e.evalExpr(s.Cond, env)
			if err != nil {
				return normalControl, err
			}
			if !value.Truthy(cond) {
				return normalControl, nil
			}
			ctrl, err := e.execStmt(s.Body, env)
			if err != nil {
				return normalControl, err
			}
			if ctrl.kind == returning {
				return ctrl, nil
			}
		}

	case *ast.Return:
		var v value.Value = value.Undef
		if s.Expr != nil {
			var err error
			v, err = e.evalExpr(s.Expr, env)
			if err != nil {
				return normalControl, err
			}
		}
		return control{kind: returning, value: v}, nil
	}
	return normalControl, nil
}

// execBlock runs stmts against env, which must already be the block's own
// child frame. Execution stops and unwinds as soon as a Return is seen.
func (e *Evaluator) execBlock(stmts []ast.Stmt, env *value.Environment) (control, error) {
	for _, s := range stmts {
		ctrl, err := e.execStmt(s, env)
		if err != nil {
			return normalControl, err
		}
		if ctrl.kind == returning {
			return ctrl, nil
		}
	}
	return normalControl, nil
}

func (e *Evaluator) evalExpr(expr ast.Expr, env *value.Environment) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return literalValue(n.Value), nil

	case *ast.Grouping:
		return e.evalExpr(n.Expr, env)

	case *ast.Variable:
		return e.lookupVariable(n.Name, n.ScopeDistance, env, n.Span)

	case *ast.Assignment:
		v, err := e.evalExpr(n.Value, env)
		if err != nil {
			return nil, err
		}
		if err := e.assignVariable(n.Name, v, n.ScopeDistance, env, n.Span); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Unary:
		return e.evalUnary(n, env)

	case *ast.Binary:
		return e.evalBinary(n, env)

	case *ast.Logical:
		return e.evalLogical(n, env)

	case *ast.Call:
		return e.evalCall(n, env)
	}
	return nil, newRuntimeError(fmt.Sprintf("cannot evaluate %s", expr.Kind()), expr.NodeSpan())
}

func literalValue(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Undef
	case bool:
		return value.Bool{Value: t}
	case float64:
		return value.Number{Value: t}
	case string:
		return value.String{Value: t}
	default:
		return value.Undef
	}
}

func (e *Evaluator) lookupVariable(name string, distance int, env *value.Environment, span token.Span) (value.Value, error) {
	var v value.Value
	var err error
	if distance < 0 {
		v, err = env.GetGlobal(name)
	} else {
		v, err = env.GetAt(name, distance)
	}
	if err != nil {
		return nil, newRuntimeError(err.Error(), span)
	}
	return v, nil
}

func (e *Evaluator) assignVariable(name string, v value.Value, distance int, env *value.Environment, span token.Span) error {
	var err error
	if distance < 0 {
		err = env.SetGlobal(name, v)
	} else {
		err = env.SetAt(name, v, distance)
	}
	if err != nil {
		return newRuntimeError(err.Error(), span)
	}
	return nil
}

func (e *Evaluator) evalUnary(n *ast.Unary, env *value.Environment) (value.Value, error) {
	right, err := e.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.Minus:
		num, ok := right.(value.Number)
		if !ok {
			return nil, newRuntimeError("unary '-' operand must be a number", n.Span)
		}
		return value.Number{Value: -num.Value}, nil
	case token.Bang:
		return value.Bool{Value: !value.Truthy(right)}, nil
	}
	return nil, newRuntimeError("unknown unary operator", n.Span)
}

func (e *Evaluator) evalLogical(n *ast.Logical, env *value.Environment) (value.Value, error) {
	left, err := e.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}
	truthy := value.Truthy(left)
	// Short-circuit preserving value identity (spec.md §8 property 7): `or`
	// returns left verbatim when truthy, `and` returns left verbatim when
	// falsy, rather than coercing either side to Bool.
	if n.Op == token.Or && truthy {
		return left, nil
	}
	if n.Op == token.And && !truthy {
		return left, nil
	}
	return e.evalExpr(n.Right, env)
}

func (e *Evaluator) evalBinary(n *ast.Binary, env *value.Environment) (value.Value, error) {
	left, err := e.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.Plus:
		if lNum, ok := left.(value.Number); ok {
			if rNum, ok := right.(value.Number); ok {
				return value.Number{Value: lNum.Value + rNum.Value}, nil
			}
		}
		if lStr, ok := left.(value.String); ok {
			if rStr, ok := right.(value.String); ok {
				return value.String{Value: lStr.Value + rStr.Value}, nil
			}
		}
		return nil, newRuntimeError("'+' operands must be two numbers or two strings", n.Span)

	case token.Minus, token.Star, token.Slash:
		lNum, lOk := left.(value.Number)
		rNum, rOk := right.(value.Number)
		if !lOk || !rOk {
			return nil, newRuntimeError(fmt.Sprintf("'%s' operands must be numbers", n.Op), n.Span)
		}
		switch n.Op {
		case token.Minus:
			return value.Number{Value: lNum.Value - rNum.Value}, nil
		case token.Star:
			return value.Number{Value: lNum.Value * rNum.Value}, nil
		default: // token.Slash
			// Division by zero is not special-cased: ordinary float64
			// arithmetic yields +/-Inf or NaN per IEEE-754 (spec.md §9).
			return value.Number{Value: lNum.Value / rNum.Value}, nil
		}

	case token.EqualEqual:
		return value.Bool{Value: value.Equal(left, right)}, nil

	case token.BangEqual:
		return value.Bool{Value: !value.Equal(left, right)}, nil

	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		lNum, lOk := left.(value.Number)
		rNum, rOk := right.(value.Number)
		if !lOk || !rOk {
			return nil, newRuntimeError(fmt.Sprintf("'%s' operands must be numbers", n.Op), n.Span)
		}
		switch n.Op {
		case token.Greater:
			return value.Bool{Value: lNum.Value > rNum.Value}, nil
		case token.GreaterEqual:
			return value.Bool{Value: lNum.Value >= rNum.Value}, nil
		case token.Less:
			return value.Bool{Value: lNum.Value < rNum.Value}, nil
		default: // token.LessEqual
			return value.Bool{Value: lNum.Value <= rNum.Value}, nil
		}
	}
	return nil, newRuntimeError("unknown binary operator", n.Span)
}

func (e *Evaluator) evalCall(n *ast.Call, env *value.Environment) (value.Value, error) {
	callee, err := e.evalExpr(n.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := e.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch fn := callee.(type) {
	case *value.Function:
		if len(args) != fn.ArityCount() {
			return nil, newRuntimeError(
				fmt.Sprintf("expected %d arguments but got %d", fn.ArityCount(), len(args)), n.Span)
		}
		callEnv := fn.Closure.Child()
		for i, param := range fn.Decl.Params {
			callEnv.Define(param, args[i])
		}
		ctrl, err := e.execBlock(fn.Decl.Body, callEnv)
		if err != nil {
			return nil, err
		}
		if ctrl.kind == returning {
			return ctrl.value, nil
		}
		return value.Undef, nil

	case *value.NativeFunction:
		if len(args) != fn.Arity {
			return nil, newRuntimeError(
				fmt.Sprintf("expected %d arguments but got %d", fn.Arity, len(args)), n.Span)
		}
		result, err := fn.Handler(args)
		if err != nil {
			return nil, newRuntimeError(err.Error(), n.Span)
		}
		return result, nil

	default:
		return nil, newRuntimeError(fmt.Sprintf("'%s' is not callable", value.TypeName(callee)), n.Span)
	}
}
