package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/glitter/pkg/value"
)

func TestTruthy(t *testing.T) {
	assert.False(t, value.Truthy(value.Undef))
	assert.False(t, value.Truthy(value.Bool{Value: false}))
	assert.True(t, value.Truthy(value.Bool{Value: true}))
	assert.True(t, value.Truthy(value.Number{Value: 0}))
	assert.True(t, value.Truthy(value.String{Value: ""}))
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Equal(value.Undef, value.Undefined{}))
	assert.False(t, value.Equal(value.Undef, value.Number{Value: 0}))
	assert.True(t, value.Equal(value.Number{Value: 1}, value.Number{Value: 1}))
	assert.True(t, value.Equal(value.String{Value: "a"}, value.String{Value: "a"}))
	assert.False(t, value.Equal(value.Bool{Value: true}, value.Bool{Value: false}))
}

func TestEqualIsIdentityForFunctions(t *testing.T) {
	a := &value.NativeFunction{Name: "a", Arity: 0}
	b := &value.NativeFunction{Name: "a", Arity: 0}
	assert.True(t, value.Equal(a, a))
	assert.False(t, value.Equal(a, b))
}

func TestFormatNumberHasNoTrailingDecimalForIntegers(t *testing.T) {
	assert.Equal(t, "3", value.Format(value.Number{Value: 3}))
	assert.Equal(t, "3.5", value.Format(value.Number{Value: 3.5}))
}

func TestFormatUndefinedAndBool(t *testing.T) {
	assert.Equal(t, "undefined", value.Format(value.Undef))
	assert.Equal(t, "true", value.Format(value.Bool{Value: true}))
	assert.Equal(t, "false", value.Format(value.Bool{Value: false}))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "number", value.TypeName(value.Number{Value: 1}))
	assert.Equal(t, "string", value.TypeName(value.String{Value: "x"}))
	assert.Equal(t, "function", value.TypeName(&value.NativeFunction{}))
}

func TestEnvironmentGetAtAndSetAt(t *testing.T) {
	root := value.NewEnvironment()
	root.Define("a", value.Number{Value: 1})
	child := root.Child()
	grandchild := child.Child()

	v, err := grandchild.GetAt("a", 2)
	require.NoError(t, err)
	assert.Equal(t, value.Number{Value: 1}, v)

	require.NoError(t, grandchild.SetAt("a", value.Number{Value: 2}, 2))
	v, err = root.GetAt("a", 0)
	require.NoError(t, err)
	assert.Equal(t, value.Number{Value: 2}, v)
}

func TestEnvironmentSetAtUndefinedNameIsAnError(t *testing.T) {
	root := value.NewEnvironment()
	err := root.SetAt("missing", value.Undef, 0)
	assert.Error(t, err)
}

func TestEnvironmentGlobalLookup(t *testing.T) {
	root := value.NewEnvironment()
	root.Define("g", value.String{Value: "hi"})
	child := root.Child().Child().Child()

	v, err := child.GetGlobal("g")
	require.NoError(t, err)
	assert.Equal(t, value.String{Value: "hi"}, v)

	require.NoError(t, child.SetGlobal("g", value.String{Value: "bye"}))
	v, _ = root.GetGlobal("g")
	assert.Equal(t, value.String{Value: "bye"}, v)
}

// TestClosureCaptureSurvivesParentScopeExit is spec.md §8 property 6,
// exercised directly at the Environment level.
func TestClosureCaptureSurvivesParentScopeExit(t *testing.T) {
	root := value.NewEnvironment()
	var captured *value.Environment
	func() {
		block := root.Child()
		block.Define("x", value.Number{Value: 42})
		captured = block // simulates a closure retaining its defining frame
	}()

	v, err := captured.GetAt("x", 0)
	require.NoError(t, err)
	assert.Equal(t, value.Number{Value: 42}, v)
}
