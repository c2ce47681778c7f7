// Package resolver implements the Glitter scope-distance pre-pass (spec.md §4.3).
package resolver

import (
	"github.com/thomasrohde/glitter/pkg/ast"
	"github.com/thomasrohde/glitter/pkg/diagnostics"
)

type bindingState int

const (
	declared bindingState = iota
	defined
)

type scope struct {
	bindings map[string]bindingState
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]bindingState), parent: parent}
}

type functionContext int

const (
	noFunction functionContext = iota
	inFunction
)

// resolver walks an AST annotating Variable/Assignment scope distance.
type resolver struct {
	current     *scope
	global      *scope
	diags       []diagnostics.Diagnostic
	file        string
	funcContext functionContext
}

// Resolve annotates every Variable and Assignment node in stmts with its
// scopeDistance and returns any static errors found (spec.md §4.3).
// Resolving the same AST twice leaves annotations unchanged (idempotent).
func Resolve(stmts []ast.Stmt, file string) []diagnostics.Diagnostic {
	r := &resolver{file: file}
	r.global = newScope(nil)
	r.current = r.global
	for _, s := range stmts {
		r.resolveStmt(s)
	}
	return r.diags
}

func (r *resolver) addError(msg string, span ast.Node) {
	d := diagnostics.Make(diagnostics.ResolverError, msg, span.NodeSpan())
	r.diags = append(r.diags, d)
}

func (r *resolver) beginScope() { r.current = newScope(r.current) }
func (r *resolver) endScope()   { r.current = r.current.parent }

// declare marks name as declared-but-not-yet-usable in the current scope.
// Redeclaring a name in the same non-global scope is an error; the global
// scope permits it.
func (r *resolver) declare(name string, node ast.Node) {
	if _, exists := r.current.bindings[name]; exists && r.current != r.global {
		r.addError("duplicate declaration of '"+name+"' in this scope", node)
	}
	r.current.bindings[name] = declared
}

func (r *resolver) define(name string) {
	r.current.bindings[name] = defined
}

// resolveLocalName searches scopes from innermost outward and returns the
// distance to the scope holding name, or -1 if unresolved (treated as
// global by the evaluator).
func (r *resolver) resolveLocalName(name string) int {
	distance := 0
	for sc := r.current; sc != nil && sc != r.global; sc = sc.parent {
		if _, ok := sc.bindings[name]; ok {
			return distance
		}
		distance++
	}
	return -1
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		r.declare(s.Name, s)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.FunctionDecl:
		r.declare(s.Name, s)
		r.define(s.Name) // functions may recurse in their own body
		r.beginScope()
		for _, param := range s.Params {
			r.declare(param, s)
			r.define(param)
		}
		prevFn := r.funcContext
		r.funcContext = inFunction
		for _, body := range s.Body {
			r.resolveStmt(body)
		}
		r.funcContext = prevFn
		r.endScope()

	case *ast.Block:
		r.beginScope()
		for _, inner := range s.Stmts {
			r.resolveStmt(inner)
		}
		r.endScope()

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.funcContext != inFunction {
			r.addError("return outside function", s)
		}
		if s.Expr != nil {
			r.resolveExpr(s.Expr)
		}
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if state, ok := r.current.bindings[e.Name]; ok && state == declared {
			r.addError("self-reference in initializer of '"+e.Name+"'", e)
		}
		e.ScopeDistance = r.resolveLocalName(e.Name)
	case *ast.Assignment:
		r.resolveExpr(e.Value)
		e.ScopeDistance = r.resolveLocalName(e.Name)
	case *ast.Grouping:
		r.resolveExpr(e.Expr)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.Literal:
		// no identifiers to resolve
	}
}
