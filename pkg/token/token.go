// Package token defines the Glitter token grammar and literal payloads.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// Single-character punctuators.
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	Slash

	// Literal categories.
	Number
	String
	Identifier

	// Reserved words.
	And
	Or
	If
	Else
	While
	For
	Return
	Function
	Var
	Let
	True
	False
	Undefined
	Print
	Class
	Base
	This
	Break
	Continue
	Foreach

	// Structural.
	Whitespace
	EndOfFile
)

var kindNames = map[Kind]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Dot: ".", Minus: "-", Plus: "+", Semicolon: ";", Star: "*",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Greater: ">", GreaterEqual: ">=", Less: "<", LessEqual: "<=", Slash: "/",
	Number: "NUMBER", String: "STRING", Identifier: "IDENTIFIER",
	And: "and", Or: "or", If: "if", Else: "else", While: "while", For: "for",
	Return: "return", Function: "function", Var: "var", Let: "let",
	True: "true", False: "false", Undefined: "undefined", Print: "print",
	Class: "class", Base: "base", This: "this", Break: "break",
	Continue: "continue", Foreach: "foreach",
	Whitespace: "WHITESPACE", EndOfFile: "EOF",
}

// String returns a human-readable name for the kind, used in error messages.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved word lexemes to their token kind.
var Keywords = map[string]Kind{
	"and": And, "or": Or, "if": If, "else": Else, "while": While, "for": For,
	"return": Return, "function": Function, "var": Var, "let": Let,
	"true": True, "false": False, "undefined": Undefined, "print": Print,
	"class": Class, "base": Base, "this": This, "break": Break,
	"continue": Continue, "foreach": Foreach,
}

// Span marks a token's extent in the source file.
type Span struct {
	File  string
	Start int // byte offset
	Len   int
	Line  int // 1-based
}

// Token is a single lexical unit. Literal payloads are only meaningful for
// the corresponding Kind: Number carries NumberValue, String and Identifier
// carry StringValue. Reading the wrong payload is a programmer error, so the
// accessors panic rather than silently returning a zero value.
type Token struct {
	Kind        Kind
	Lexeme      string
	NumberValue float64
	StringValue string
	Span        Span
}

// Number returns the decoded numeric literal. Panics if Kind != Number.
func (t Token) Number() float64 {
	if t.Kind != Number {
		panic(fmt.Sprintf("token: Number() called on %s token", t.Kind))
	}
	return t.NumberValue
}

// Str returns the decoded string/identifier payload. Panics otherwise.
func (t Token) Str() string {
	if t.Kind != String && t.Kind != Identifier {
		panic(fmt.Sprintf("token: Str() called on %s token", t.Kind))
	}
	return t.StringValue
}
