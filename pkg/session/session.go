// Package session wires the scanner, parser, resolver, and evaluator into
// the embedding surface described by spec.md §6 "Session API".
package session

import (
	"io"
	"strings"

	"github.com/thomasrohde/glitter/pkg/diagnostics"
	"github.com/thomasrohde/glitter/pkg/evaluator"
	"github.com/thomasrohde/glitter/pkg/natives"
	"github.com/thomasrohde/glitter/pkg/parser"
	"github.com/thomasrohde/glitter/pkg/resolver"
	"github.com/thomasrohde/glitter/pkg/token"
	"github.com/thomasrohde/glitter/pkg/value"
)

// Session owns the persistent root environment and wires the pipeline
// stages for successive Run calls (spec.md §5 "the root environment is
// shared across successive run invocations").
type Session struct {
	input  io.Reader
	output io.Writer
	root   *value.Environment
	eval   *evaluator.Evaluator
}

// Option configures a Session at construction time, mirroring the
// teacher's functional-option Runtime configuration.
type Option func(*Session)

// WithNative pre-registers a native function before any Run call
// (spec.md §6 registerNative). Arity mismatches are reported at call time,
// not at registration time.
func WithNative(name string, arity int, handler func(args []value.Value) (value.Value, error)) Option {
	return func(s *Session) {
		s.root.Define(name, &value.NativeFunction{Name: name, Arity: arity, Handler: handler})
	}
}

// WithNativeRegistry pre-registers every native function held in r.
func WithNativeRegistry(r *natives.Registry) Option {
	return func(s *Session) {
		for name, fn := range r.All() {
			s.root.Define(name, fn)
		}
	}
}

// New creates a Session reading from in and writing Print output to out.
// The `clock` native (spec.md §6) is always registered through
// natives.RegisterBuiltins; additional natives are added via Option, e.g.
// WithNativeRegistry with a Policy-filtered natives.Registry (see
// cmd/glitter for the CLI's use of natives.LoadPolicy).
func New(in io.Reader, out io.Writer, opts ...Option) *Session {
	root := value.NewEnvironment()
	s := &Session{input: in, output: out, root: root}
	s.eval = evaluator.New(root, out)

	builtins := natives.NewRegistry()
	natives.RegisterBuiltins(builtins, evaluator.Now)
	for name, fn := range builtins.All() {
		root.Define(name, fn)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterNative adds a native callable to the root environment. Safe to
// call between Run invocations as well as before the first one. This is the
// direct, trusted-embedder path; a driver that wants to gate registration
// through a natives.Policy should check Policy.IsAllowed itself before
// calling this (see cmd/glitter, which filters an optional natives.Registry
// by a loaded Policy and registers the survivors via WithNativeRegistry).
func (s *Session) RegisterNative(name string, arity int, handler func(args []value.Value) (value.Value, error)) {
	s.root.Define(name, &value.NativeFunction{Name: name, Arity: arity, Handler: handler})
}

// DiagnosticError wraps one or more collected diagnostics as a single error
// (teacher's pkg/runtime.DiagnosticError, generalized to any pipeline
// stage's output).
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
	Source      string
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = diagnostics.Format(d, e.Source)
	}
	return strings.Join(msgs, "\n\n")
}

// Run scans, parses, resolves, and evaluates source (spec.md §4 pipeline).
// If path is empty, "<input>" is used as the diagnostic file name. Scanner,
// parser, and resolver errors are collected and, if any occurred, the
// evaluator does not run at all (spec.md §4.5 failure semantics). A
// runtime error aborts only the current call; s.root survives for the
// next Run.
func (s *Session) Run(source, path string) error {
	file := path
	if file == "" {
		file = "<input>"
	}

	stmts, diags := parser.Parse(source, file)
	if len(diags) > 0 {
		return &DiagnosticError{Diagnostics: diags, Source: source}
	}

	rDiags := resolver.Resolve(stmts, file)
	if len(rDiags) > 0 {
		return &DiagnosticError{Diagnostics: rDiags, Source: source}
	}

	if err := s.eval.Run(stmts); err != nil {
		var d diagnostics.Diagnostic
		if re, ok := err.(*evaluator.RuntimeError); ok {
			d = re.Diagnostic()
		} else {
			d = diagnostics.Make(diagnostics.RuntimeError, err.Error(), token.Span{File: file, Line: 1})
		}
		return &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{d}, Source: source}
	}
	return nil
}

// Check scans, parses, and resolves source without evaluating it, returning
// every static diagnostic found (spec.md §4 "check"-style dry run).
func (s *Session) Check(source, path string) []diagnostics.Diagnostic {
	file := path
	if file == "" {
		file = "<input>"
	}
	stmts, diags := parser.Parse(source, file)
	if len(diags) > 0 {
		return diags
	}
	return resolver.Resolve(stmts, file)
}

// Input returns the abstract input stream supplied at construction. Nothing
// in this module reads from it: the `read` native takes its own reader
// (natives.RegisterOptional), and the CLI REPL reads os.Stdin directly.
func (s *Session) Input() io.Reader { return s.input }
