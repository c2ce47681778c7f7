// Package diagnostics defines Glitter's error taxonomy and rendering (spec.md §7).
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/glitter/pkg/token"
)

// Diagnostic codes, one per spec.md §7 taxonomy entry.
const (
	UnexpectedCharacter     = "UNEXPECTED_CHARACTER"
	UnterminatedString      = "UNTERMINATED_STRING"
	UnterminatedBlockComment = "UNTERMINATED_BLOCK_COMMENT"
	ParseError              = "PARSE_ERROR"
	ResolverError           = "RESOLVER_ERROR"
	RuntimeError            = "RUNTIME_ERROR"
)

// Diagnostic is a single reported error: a message, source file, and
// position. The line number is derivable from Span but cached for display.
type Diagnostic struct {
	Code    string
	Message string
	File    string
	Span    token.Span
	HasSpan bool
}

// Make builds a Diagnostic anchored at span.
func Make(code, message string, span token.Span) Diagnostic {
	return Diagnostic{Code: code, Message: message, File: span.File, Span: span, HasSpan: true}
}

// MakeWithoutSpan builds a Diagnostic with no source position (e.g. "return
// outside any function" when no token is available).
func MakeWithoutSpan(code, message, file string) Diagnostic {
	return Diagnostic{Code: code, Message: message, File: file}
}

// Error implements the error interface so a Diagnostic can be returned and
// type-asserted by callers that want the structured form back.
func (d Diagnostic) Error() string {
	return d.Message
}

// Format renders one human-readable line with kind, message, and — when the
// source text is available — the offending source line with a caret
// underline beneath the span (spec.md §7).
func Format(d Diagnostic, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Code, d.Message)
	if d.HasSpan {
		fmt.Fprintf(&b, "\n  --> %s:%d", d.File, d.Span.Line)
		if line, col, ok := sourceLine(source, d.Span); ok {
			fmt.Fprintf(&b, "\n%s\n%s", line, caretUnderline(col, d.Span.Len))
		}
	}
	return b.String()
}

// FormatAll renders a sequence of diagnostics separated by blank lines.
func FormatAll(diags []Diagnostic, source string) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = Format(d, source)
	}
	return strings.Join(parts, "\n\n")
}

// jsonDiagnostic is the machine-readable wire shape for a Diagnostic,
// mirroring the teacher's `Diagnostic` JSON tags.
type jsonDiagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func toJSON(d Diagnostic) jsonDiagnostic {
	jd := jsonDiagnostic{Code: d.Code, Message: d.Message}
	if d.HasSpan {
		jd.File = d.File
		jd.Line = d.Span.Line
	}
	return jd
}

// FormatAllJSON renders diags as a JSON array, the default machine-readable
// output (spec.md §7 requires a human-readable rendering, which FormatAll
// provides; --pretty on the CLI switches to FormatAll instead).
func FormatAllJSON(diags []Diagnostic) string {
	out := make([]jsonDiagnostic, len(diags))
	for i, d := range diags {
		out[i] = toJSON(d)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// sourceLine extracts the line containing span.Start from source and the
// zero-based column of the span's start on that line.
func sourceLine(source string, span token.Span) (line string, col int, ok bool) {
	if span.Start < 0 || span.Start > len(source) {
		return "", 0, false
	}
	lineStart := strings.LastIndexByte(source[:span.Start], '\n') + 1
	lineEndRel := strings.IndexByte(source[lineStart:], '\n')
	var lineEnd int
	if lineEndRel < 0 {
		lineEnd = len(source)
	} else {
		lineEnd = lineStart + lineEndRel
	}
	return source[lineStart:lineEnd], span.Start - lineStart, true
}

// caretUnderline builds a line of spaces up to col followed by n carets
// (at least one), matching the length of the offending lexeme.
func caretUnderline(col, n int) string {
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", col) + strings.Repeat("^", n)
}
