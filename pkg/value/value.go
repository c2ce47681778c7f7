// Package value defines the Glitter runtime value model and lexical
// environments (spec.md §3 Value/Environment, §4.4).
package value

import (
	"fmt"
	"strconv"

	"github.com/thomasrohde/glitter/pkg/ast"
)

// Value is the sealed interface for every runtime value.
type Value interface {
	value()
}

// Undefined is the single undefined value. A nil Value is not treated as
// Undefined by Truthy, Equal or Format, so the canonical instance below
// should be used explicitly.
type Undefined struct{}

func (Undefined) value() {}

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (Bool) value() {}

// Number wraps Glitter's single numeric type (float64; spec.md §3 "one
// numeric type, no int/float distinction").
type Number struct{ Value float64 }

func (Number) value() {}

// String wraps a UTF-8 string.
type String struct{ Value string }

func (String) value() {}

// Function is a user-defined closure: a declaration plus the environment
// captured at the point of definition.
type Function struct {
	Decl    *ast.FunctionDecl
	Closure *Environment
}

func (*Function) value() {}

// NativeFunction is a callable implemented by the host.
type NativeFunction struct {
	Name    string
	Arity   int
	Handler func(args []Value) (Value, error)
}

func (*NativeFunction) value() {}

// ArityCount returns the number of parameters Function expects.
func (f *Function) ArityCount() int { return len(f.Decl.Params) }

// Undef is the canonical Undefined instance.
var Undef Value = Undefined{}

// Truthy implements spec.md §4.5: Undefined is false, Bool is its value,
// everything else is true.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Undefined:
		return false
	case Bool:
		return t.Value
	default:
		return true
	}
}

// Equal implements spec.md §4.5 equality: Undefined equals only Undefined;
// numbers/strings/bools compare by value; callables compare by identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	default:
		return false
	}
}

// TypeName returns a human-readable type name for error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Undefined:
		return "undefined"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case *Function, *NativeFunction:
		return "function"
	default:
		return "value"
	}
}

// Format renders v the way `print` does (spec.md §4.5): Undefined prints as
// "undefined"; integral numbers print without a trailing ".0" (the Open
// Question in spec.md §9 resolved in DESIGN.md).
func Format(v Value) string {
	switch t := v.(type) {
	case Undefined:
		return "undefined"
	case Bool:
		if t.Value {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(t.Value)
	case String:
		return t.Value
	case *Function:
		return fmt.Sprintf("<function %s>", t.Decl.Name)
	case *NativeFunction:
		return fmt.Sprintf("<native %s>", t.Name)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
