// Package lexer implements the Glitter scanner (spec.md §4.1).
package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/thomasrohde/glitter/pkg/diagnostics"
	"github.com/thomasrohde/glitter/pkg/token"
)

// Options configures a scan.
type Options struct {
	// EmitWhitespace, when true, includes Whitespace tokens in the output
	// (spec.md §4.1: "a configuration flag decides whether Whitespace tokens
	// are emitted or silently skipped"). EndOfFile is always emitted.
	EmitWhitespace bool
}

type scanner struct {
	source string
	file   string
	opts   Options
	pos    int // byte offset of the next unconsumed byte
	line   int
	diags  []diagnostics.Diagnostic
	tokens []token.Token

	hasLastSignificant bool
	lastSignificant     token.Kind
}

// Scan tokenizes source into a finite token sequence terminated by exactly
// one EndOfFile token (spec.md testable property 1). Scanner errors are
// accumulated rather than aborting the scan, so a single run can surface
// more than one problem.
func Scan(source, file string, opts Options) ([]token.Token, []diagnostics.Diagnostic) {
	s := &scanner{source: source, file: file, opts: opts, line: 1}
	for !s.atEnd() {
		s.scanOne()
	}
	s.emit(token.EndOfFile, s.pos, 0)
	return s.tokens, s.diags
}

func (s *scanner) atEnd() bool { return s.pos >= len(s.source) }

func (s *scanner) byteAt(i int) byte {
	if i < 0 || i >= len(s.source) {
		return 0
	}
	return s.source[i]
}

func (s *scanner) peek() byte  { return s.byteAt(s.pos) }
func (s *scanner) peekNext() byte { return s.byteAt(s.pos + 1) }

func (s *scanner) advanceByte() byte {
	b := s.source[s.pos]
	s.pos++
	return b
}

func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.pos] != expected {
		return false
	}
	s.pos++
	return true
}

func (s *scanner) emit(kind token.Kind, start, length int) {
	s.tokens = append(s.tokens, token.Token{
		Kind:   kind,
		Lexeme: s.source[start : start+length],
		Span:   token.Span{File: s.file, Start: start, Len: length, Line: s.line},
	})
	s.noteSignificant(kind)
}

func (s *scanner) emitLiteral(t token.Token) {
	s.tokens = append(s.tokens, t)
	s.noteSignificant(t.Kind)
}

func (s *scanner) noteSignificant(kind token.Kind) {
	if kind == token.Whitespace {
		return
	}
	s.lastSignificant = kind
	s.hasLastSignificant = true
}

// canPrecedeNegativeLiteral reports whether the most recently emitted
// significant token leaves '-' in a prefix (unary) position rather than an
// infix (binary) one. A '-' is only folded into a negative number literal
// when it cannot instead be read as subtraction, so `n-2` still scans as
// Identifier Minus Number.
func (s *scanner) canPrecedeNegativeLiteral() bool {
	if !s.hasLastSignificant {
		return true
	}
	switch s.lastSignificant {
	case token.Identifier, token.Number, token.String,
		token.RightParen, token.RightBrace,
		token.True, token.False, token.Undefined, token.This:
		return false
	default:
		return true
	}
}

func (s *scanner) addError(code, msg string, start, length int) {
	s.diags = append(s.diags, diagnostics.Make(code, msg, token.Span{
		File: s.file, Start: start, Len: length, Line: s.line,
	}))
}

func (s *scanner) scanOne() {
	start := s.pos
	c := s.advanceByte()

	switch c {
	case '(':
		s.emit(token.LeftParen, start, 1)
	case ')':
		s.emit(token.RightParen, start, 1)
	case '{':
		s.emit(token.LeftBrace, start, 1)
	case '}':
		s.emit(token.RightBrace, start, 1)
	case ',':
		s.emit(token.Comma, start, 1)
	case '.':
		s.emit(token.Dot, start, 1)
	case '+':
		s.emit(token.Plus, start, 1)
	case ';':
		s.emit(token.Semicolon, start, 1)
	case '*':
		s.emit(token.Star, start, 1)
	case '-':
		if isDigit(s.peek()) && s.canPrecedeNegativeLiteral() {
			s.scanNumber(start)
		} else {
			s.emit(token.Minus, start, 1)
		}
	case '!':
		if s.match('=') {
			s.emit(token.BangEqual, start, 2)
		} else {
			s.emit(token.Bang, start, 1)
		}
	case '=':
		if s.match('=') {
			s.emit(token.EqualEqual, start, 2)
		} else {
			s.emit(token.Equal, start, 1)
		}
	case '<':
		if s.match('=') {
			s.emit(token.LessEqual, start, 2)
		} else {
			s.emit(token.Less, start, 1)
		}
	case '>':
		if s.match('=') {
			s.emit(token.GreaterEqual, start, 2)
		} else {
			s.emit(token.Greater, start, 1)
		}
	case '/':
		switch {
		case s.match('/'):
			s.scanLineComment(start)
		case s.match('*'):
			s.scanBlockComment(start)
		default:
			s.emit(token.Slash, start, 1)
		}
	case ' ', '\t', '\r':
		s.scanWhitespace(start)
	case '\n':
		s.line++
		s.scanWhitespace(start)
	case '"':
		s.scanString(start)
	default:
		if isDigit(c) {
			s.scanNumber(start)
		} else if isAlpha(c) {
			s.scanIdentifier(start)
		} else {
			s.pos = start
			_, width := utf8.DecodeRuneInString(s.source[start:])
			if width < 1 {
				width = 1
			}
			s.pos = start + width
			s.addError(diagnostics.UnexpectedCharacter,
				"unexpected character '"+s.source[start:start+width]+"'", start, width)
		}
	}
}

// scanWhitespace coalesces consecutive space/tab/CR/LF characters and any
// interleaved line/block comments into a single Whitespace token (spec.md
// testable property 3). The caller has already consumed the first
// whitespace byte (and bumped the line counter if it was a newline) or the
// first comment of the run.
func (s *scanner) scanWhitespace(start int) {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.pos++
		case '\n':
			s.pos++
			s.line++
		case '/':
			if s.peekNext() == '/' {
				s.pos += 2
				s.consumeLineCommentBody()
			} else if s.peekNext() == '*' {
				s.pos += 2
				s.consumeBlockCommentBody(start)
			} else {
				goto done
			}
		default:
			goto done
		}
	}
done:
	if s.opts.EmitWhitespace {
		s.emit(token.Whitespace, start, s.pos-start)
	}
}

func (s *scanner) scanLineComment(start int) {
	s.consumeLineCommentBody()
	s.scanWhitespace(start)
}

func (s *scanner) consumeLineCommentBody() {
	for !s.atEnd() && s.peek() != '\n' {
		s.pos++
	}
}

func (s *scanner) scanBlockComment(start int) {
	s.consumeBlockCommentBody(start)
	s.scanWhitespace(start)
}

func (s *scanner) consumeBlockCommentBody(start int) {
	for !s.atEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.pos += 2
			return
		}
		if s.peek() == '\n' {
			s.line++
		}
		s.pos++
	}
	s.addError(diagnostics.UnterminatedBlockComment, "unterminated block comment", start, s.pos-start)
}

func (s *scanner) scanNumber(start int) {
	for isDigit(s.peek()) {
		s.pos++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.pos++
		for isDigit(s.peek()) {
			s.pos++
		}
	}
	lexeme := s.source[start:s.pos]
	value, _ := strconv.ParseFloat(lexeme, 64)
	s.emitLiteral(token.Token{
		Kind:        token.Number,
		Lexeme:      lexeme,
		NumberValue: value,
		Span:        token.Span{File: s.file, Start: start, Len: s.pos - start, Line: s.line},
	})
}

func (s *scanner) scanString(start int) {
	startLine := s.line
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.pos++
	}
	if s.atEnd() {
		s.diags = append(s.diags, diagnostics.Make(diagnostics.UnterminatedString, "unterminated string",
			token.Span{File: s.file, Start: start, Len: 1, Line: startLine}))
		return
	}
	s.pos++ // closing quote
	lexeme := s.source[start:s.pos]
	value := lexeme[1 : len(lexeme)-1]
	s.emitLiteral(token.Token{
		Kind:        token.String,
		Lexeme:      lexeme,
		StringValue: value,
		Span:        token.Span{File: s.file, Start: start, Len: s.pos - start, Line: startLine},
	})
}

func (s *scanner) scanIdentifier(start int) {
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.pos++
	}
	lexeme := s.source[start:s.pos]
	span := token.Span{File: s.file, Start: start, Len: s.pos - start, Line: s.line}
	if kind, ok := token.Keywords[lexeme]; ok {
		s.emitLiteral(token.Token{Kind: kind, Lexeme: lexeme, Span: span})
		return
	}
	s.emitLiteral(token.Token{Kind: token.Identifier, Lexeme: lexeme, StringValue: lexeme, Span: span})
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlphaNumeric(b byte) bool { return isAlpha(b) || isDigit(b) }
