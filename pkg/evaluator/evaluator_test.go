package evaluator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/glitter/pkg/evaluator"
	"github.com/thomasrohde/glitter/pkg/parser"
	"github.com/thomasrohde/glitter/pkg/resolver"
	"github.com/thomasrohde/glitter/pkg/value"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	stmts, diags := parser.Parse(source, "test")
	require.Empty(t, diags)
	rDiags := resolver.Resolve(stmts, "test")
	require.Empty(t, rDiags)

	var out bytes.Buffer
	root := value.NewEnvironment()
	ev := evaluator.New(root, &out)
	err := ev.Run(stmts)
	return out.String(), err
}

func TestArithmeticAndComparison(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3; print 10 / 2 - 1; print 2 < 3; print 2 >= 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n4\ntrue\nfalse\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestTypeMismatchIsARuntimeError(t *testing.T) {
	out, err := run(t, `print "x" + 1;`)
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestNoPartialOutputPastPriorPrints(t *testing.T) {
	var out bytes.Buffer
	root := value.NewEnvironment()
	ev := evaluator.New(root, &out)

	stmts, diags := parser.Parse(`print "ok"; print "x" + 1; print "unreached";`, "test")
	require.Empty(t, diags)
	require.Empty(t, resolver.Resolve(stmts, "test"))

	err := ev.Run(stmts)
	require.Error(t, err)
	assert.Equal(t, "ok\n", out.String())
}

func TestDivisionByZeroProducesInfNotError(t *testing.T) {
	out, err := run(t, `print 1 / 0; print -1 / 0; print 0 / 0;`)
	require.NoError(t, err)
	assert.Equal(t, "+Inf\n-Inf\nNaN\n", out)
}

// TestShortCircuitPreservesValue is spec.md §8 property 7.
func TestShortCircuitPreservesValue(t *testing.T) {
	out, err := run(t, `print 5 or 10; print 0 and 10; print undefined and 10;`)
	require.NoError(t, err)
	assert.Equal(t, "5\n10\nundefined\n", out)
}

func TestUndefinedVariableIsARuntimeError(t *testing.T) {
	_, err := run(t, `print missing;`)
	assert.Error(t, err)
}

func TestArityMismatchIsARuntimeError(t *testing.T) {
	_, err := run(t, `function f(a,b){ return a+b; } f(1);`)
	assert.Error(t, err)
}

func TestCallingNonCallableIsARuntimeError(t *testing.T) {
	_, err := run(t, `var a = 1; a();`)
	assert.Error(t, err)
}

// TestClosureCapture is spec.md §8 property 6.
func TestClosureCapture(t *testing.T) {
	out, err := run(t, `function make(){ var c=0; function inc(){ c=c+1; print c; } return inc; } var a=make(); a(); a(); var b=make(); b();`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n", out)
}

func TestRecursion(t *testing.T) {
	out, err := run(t, `function f(n){ if (n<=1) return n; return f(n-2)+f(n-1); } print f(7);`)
	require.NoError(t, err)
	assert.Equal(t, "13\n", out)
}

func TestGlobalsPersistAcrossRunsAfterRuntimeError(t *testing.T) {
	var out bytes.Buffer
	root := value.NewEnvironment()
	ev := evaluator.New(root, &out)

	stmts, diags := parser.Parse(`var a = 5; print a;`, "first")
	require.Empty(t, diags)
	require.Empty(t, resolver.Resolve(stmts, "first"))
	require.NoError(t, ev.Run(stmts))
	assert.Equal(t, "5\n", out.String())

	out.Reset()
	stmts2, diags2 := parser.Parse(`print "x" + 1;`, "second")
	require.Empty(t, diags2)
	require.Empty(t, resolver.Resolve(stmts2, "second"))
	require.Error(t, ev.Run(stmts2))

	out.Reset()
	stmts3, diags3 := parser.Parse(`print a;`, "third")
	require.Empty(t, diags3)
	require.Empty(t, resolver.Resolve(stmts3, "third"))
	require.NoError(t, ev.Run(stmts3))
	assert.Equal(t, "5\n", out.String())
}

func TestRuntimeErrorCarriesDiagnostic(t *testing.T) {
	_, err := run(t, `print missing;`)
	require.Error(t, err)
	re, ok := err.(*evaluator.RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "RUNTIME_ERROR", re.Diagnostic().Code)
}

func TestLiteralKindsEvaluate(t *testing.T) {
	out, err := run(t, `print true; print false; print undefined; print 1.5;`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\nundefined\n1.5\n", out)
}
