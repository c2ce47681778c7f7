package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/glitter/pkg/ast"
	"github.com/thomasrohde/glitter/pkg/parser"
)

func TestParseVarDeclAndPrint(t *testing.T) {
	stmts, diags := parser.Parse(`var a = 1; print a;`, "test")
	require.Empty(t, diags)
	require.Len(t, stmts, 2)
	decl, ok := stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name)
	_, ok = stmts[1].(*ast.Print)
	assert.True(t, ok)
}

func TestForLoopDesugarsToWhileInBlock(t *testing.T) {
	stmts, diags := parser.Parse(`for (var i=0; i<3; i=i+1) print i;`, "test")
	require.Empty(t, diags)
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)
	_, ok = outer.Stmts[0].(*ast.VarDecl)
	assert.True(t, ok)

	loop, ok := outer.Stmts[1].(*ast.While)
	require.True(t, ok)
	body, ok := loop.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
	_, ok = body.Stmts[0].(*ast.Print)
	assert.True(t, ok)
	_, ok = body.Stmts[1].(*ast.ExpressionStmt)
	assert.True(t, ok)
}

func TestInvalidAssignmentTargetIsAnError(t *testing.T) {
	_, diags := parser.Parse(`1 = 2;`, "test")
	require.NotEmpty(t, diags)
	assert.Equal(t, "PARSE_ERROR", diags[0].Code)
}

// TestParserDeterminism is spec.md §8 property 4: parsing the same source
// twice must yield identical trees, not just trees of the same shape.
func TestParserDeterminism(t *testing.T) {
	src := `function f(n){ if (n<=1) return n; return f(n-2)+f(n-1); } print f(7);`
	stmts1, diags1 := parser.Parse(src, "test")
	stmts2, diags2 := parser.Parse(src, "test")
	require.Empty(t, diags1)
	require.Empty(t, diags2)
	require.Equal(t, len(stmts1), len(stmts2))
	if diff := cmp.Diff(stmts1, stmts2); diff != "" {
		t.Fatalf("parse is not deterministic (-first +second):\n%s", diff)
	}
}

func TestSynchronizeRecoversAfterError(t *testing.T) {
	stmts, diags := parser.Parse(`var ; var b = 2; print b;`, "test")
	// The first declaration is malformed, but the parser should recover at
	// the next statement and still see the rest of the program.
	require.NotEmpty(t, diags)
	assert.Len(t, stmts, 2)
}

func TestMultipleArgumentsParse(t *testing.T) {
	stmts, diags := parser.Parse(`f(1, 2, 3);`, "test")
	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	exprStmt := stmts[0].(*ast.ExpressionStmt)
	call := exprStmt.Expr.(*ast.Call)
	assert.Len(t, call.Args, 3)
}
