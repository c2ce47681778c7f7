package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/glitter/pkg/diagnostics"
	"github.com/thomasrohde/glitter/pkg/token"
)

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	source := "var a = 1;\nprint b;\n"
	span := token.Span{File: "test.glitter", Start: 17, Len: 1, Line: 2} // "b" in "print b;"
	d := diagnostics.Make(diagnostics.RuntimeError, "undefined variable 'b'", span)

	out := diagnostics.Format(d, source)
	assert.Contains(t, out, "RUNTIME_ERROR")
	assert.Contains(t, out, "undefined variable 'b'")
	assert.Contains(t, out, "test.glitter:2")
	assert.Contains(t, out, "print b;")
	assert.Contains(t, out, "^")
}

func TestFormatWithoutSpanOmitsLocation(t *testing.T) {
	d := diagnostics.MakeWithoutSpan(diagnostics.ResolverError, "return outside function", "test.glitter")
	out := diagnostics.Format(d, "")
	assert.Equal(t, "RESOLVER_ERROR: return outside function", out)
}

func TestFormatAllJoinsWithBlankLine(t *testing.T) {
	d1 := diagnostics.MakeWithoutSpan(diagnostics.ParseError, "first", "f")
	d2 := diagnostics.MakeWithoutSpan(diagnostics.ParseError, "second", "f")
	out := diagnostics.FormatAll([]diagnostics.Diagnostic{d1, d2}, "")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "\n\n")
}

func TestDiagnosticImplementsError(t *testing.T) {
	var err error = diagnostics.Make(diagnostics.ParseError, "boom", token.Span{})
	assert.EqualError(t, err, "boom")
}

func TestFormatAllJSONEncodesCodeMessageAndLocation(t *testing.T) {
	span := token.Span{File: "test.glitter", Start: 17, Len: 1, Line: 2}
	d := diagnostics.Make(diagnostics.RuntimeError, "undefined variable 'b'", span)
	out := diagnostics.FormatAllJSON([]diagnostics.Diagnostic{d})
	assert.Contains(t, out, `"code":"RUNTIME_ERROR"`)
	assert.Contains(t, out, `"message":"undefined variable 'b'"`)
	assert.Contains(t, out, `"file":"test.glitter"`)
	assert.Contains(t, out, `"line":2`)
}

func TestFormatAllJSONOmitsLocationWithoutSpan(t *testing.T) {
	d := diagnostics.MakeWithoutSpan(diagnostics.ResolverError, "return outside function", "test.glitter")
	out := diagnostics.FormatAllJSON([]diagnostics.Diagnostic{d})
	assert.NotContains(t, out, `"file"`)
	assert.NotContains(t, out, `"line"`)
}
