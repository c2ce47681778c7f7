// Package parser implements the Glitter recursive-descent parser (spec.md §4.2).
package parser

import (
	"fmt"

	"github.com/thomasrohde/glitter/pkg/ast"
	"github.com/thomasrohde/glitter/pkg/diagnostics"
	"github.com/thomasrohde/glitter/pkg/lexer"
	"github.com/thomasrohde/glitter/pkg/token"
)

// maxArgs bounds parameter and argument lists, per spec.md grammar notes.
const maxArgs = 32

// synchronizers are the statement/declaration starting keywords the parser
// resumes at after a parse error (spec.md §4.2 error recovery).
var synchronizers = map[token.Kind]bool{
	token.Class: true, token.Function: true, token.Var: true,
	token.For: true, token.If: true, token.While: true,
	token.Print: true, token.Return: true,
}

type parser struct {
	tokens []token.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse scans and parses source, returning an ordered list of top-level
// statements. Multiple errors may accumulate in one run (spec.md §4.2/§7);
// when any are present the statement list should not be evaluated.
func Parse(source, file string) ([]ast.Stmt, []diagnostics.Diagnostic) {
	tokens, lexDiags := lexer.Scan(source, file, lexer.Options{EmitWhitespace: false})
	p := &parser{tokens: tokens}
	var stmts []ast.Stmt
	for !p.check(token.EndOfFile) {
		stmt, ok := p.declaration()
		if ok {
			stmts = append(stmts, stmt)
		}
	}
	diags := append(append([]diagnostics.Diagnostic{}, lexDiags...), p.diags...)
	return stmts, diags
}

// --- token stream helpers ---

func (p *parser) current() token.Token { return p.tokens[p.pos] }

func (p *parser) check(k token.Kind) bool { return p.current().Kind == k }

func (p *parser) checkNext(k token.Kind) bool {
	if p.pos+1 >= len(p.tokens) {
		return k == token.EndOfFile
	}
	return p.tokens[p.pos+1].Kind == k
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if tok.Kind != token.EndOfFile {
		p.pos++
	}
	return tok
}

func (p *parser) matchAny(kinds ...token.Kind) (token.Token, bool) {
	for _, k := range kinds {
		if p.check(k) {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

func (p *parser) expect(k token.Kind, msg string) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.addError(msg)
	return token.Token{}, false
}

func (p *parser) addError(msg string) {
	tok := p.current()
	p.diags = append(p.diags, diagnostics.Make(diagnostics.ParseError, msg, tok.Span))
}

// synchronize discards tokens until the previous token was ';' or the next
// token starts a declaration/statement (spec.md §4.2).
func (p *parser) synchronize() {
	for !p.check(token.EndOfFile) {
		if p.tokens[p.pos].Kind == token.Semicolon {
			p.pos++
			return
		}
		if synchronizers[p.current().Kind] {
			return
		}
		p.pos++
	}
}

// --- declarations ---

func (p *parser) declaration() (ast.Stmt, bool) {
	var stmt ast.Stmt
	var err bool
	switch {
	case p.check(token.Var) || p.check(token.Let):
		stmt, err = p.varDecl()
	case p.check(token.Function):
		stmt, err = p.funDecl()
	default:
		stmt, err = p.statement()
	}
	if err {
		p.synchronize()
		return nil, false
	}
	return stmt, true
}

func (p *parser) varDecl() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // var | let
	name, ok := p.expect(token.Identifier, "expected variable name")
	if !ok {
		return nil, true
	}
	var init ast.Expr
	if _, ok := p.matchAny(token.Equal); ok {
		init, ok = p.expression()
		if !ok {
			return nil, true
		}
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after variable declaration"); !ok {
		return nil, true
	}
	return &ast.VarDecl{Span: start, Name: name.Lexeme, Initializer: init}, false
}

func (p *parser) funDecl() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // function
	name, ok := p.expect(token.Identifier, "expected function name")
	if !ok {
		return nil, true
	}
	if _, ok := p.expect(token.LeftParen, "expected '(' after function name"); !ok {
		return nil, true
	}
	var params []string
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.addError(fmt.Sprintf("cannot exceed %d parameters", maxArgs))
				return nil, true
			}
			paramTok, ok := p.expect(token.Identifier, "expected parameter name")
			if !ok {
				return nil, true
			}
			params = append(params, paramTok.Lexeme)
			if _, ok := p.matchAny(token.Comma); !ok {
				break
			}
		}
	}
	if _, ok := p.expect(token.RightParen, "expected ')' after parameters"); !ok {
		return nil, true
	}
	if _, ok := p.expect(token.LeftBrace, "expected '{' before function body"); !ok {
		return nil, true
	}
	body, ok := p.blockBody()
	if !ok {
		return nil, true
	}
	return &ast.FunctionDecl{Span: start, Name: name.Lexeme, Params: params, Body: body}, false
}

// --- statements ---

func (p *parser) statement() (ast.Stmt, bool) {
	switch {
	case p.check(token.If):
		return p.ifStmt()
	case p.check(token.While):
		return p.whileStmt()
	case p.check(token.For):
		return p.forStmt()
	case p.check(token.Return):
		return p.returnStmt()
	case p.check(token.Print):
		return p.printStmt()
	case p.check(token.LeftBrace):
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *parser) block() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // {
	stmts, ok := p.blockBody()
	if !ok {
		return nil, true
	}
	return &ast.Block{Span: start, Stmts: stmts}, false
}

// blockBody parses declaration* "}" assuming the opening "{" is consumed.
func (p *parser) blockBody() ([]ast.Stmt, bool) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.check(token.EndOfFile) {
		stmt, ok := p.declaration()
		if ok {
			stmts = append(stmts, stmt)
		}
	}
	if _, ok := p.expect(token.RightBrace, "expected '}' after block"); !ok {
		return nil, false
	}
	return stmts, true
}

func (p *parser) ifStmt() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // if
	if _, ok := p.expect(token.LeftParen, "expected '(' after 'if'"); !ok {
		return nil, true
	}
	cond, ok := p.expression()
	if !ok {
		return nil, true
	}
	if _, ok := p.expect(token.RightParen, "expected ')' after condition"); !ok {
		return nil, true
	}
	thenStmt, failed := p.statement()
	if failed {
		return nil, true
	}
	var elseStmt ast.Stmt
	if _, matched := p.matchAny(token.Else); matched {
		elseStmt, failed = p.statement()
		if failed {
			return nil, true
		}
	}
	return &ast.If{Span: start, Cond: cond, Then: thenStmt, Else: elseStmt}, false
}

func (p *parser) whileStmt() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // while
	if _, ok := p.expect(token.LeftParen, "expected '(' after 'while'"); !ok {
		return nil, true
	}
	cond, ok := p.expression()
	if !ok {
		return nil, true
	}
	if _, ok := p.expect(token.RightParen, "expected ')' after condition"); !ok {
		return nil, true
	}
	body, failed := p.statement()
	if failed {
		return nil, true
	}
	return &ast.While{Span: start, Cond: cond, Body: body}, false
}

// forStmt desugars `for(init; cond; inc) body` into
// `{ init; while(cond) { body; inc; } }` per spec.md §4.2.
func (p *parser) forStmt() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // for
	if _, ok := p.expect(token.LeftParen, "expected '(' after 'for'"); !ok {
		return nil, true
	}

	var init ast.Stmt
	switch {
	case p.check(token.Semicolon):
		p.advance()
	case p.check(token.Var) || p.check(token.Let):
		var failed bool
		init, failed = p.varDecl()
		if failed {
			return nil, true
		}
	default:
		var failed bool
		init, failed = p.exprStmt()
		if failed {
			return nil, true
		}
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		var ok bool
		cond, ok = p.expression()
		if !ok {
			return nil, true
		}
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after loop condition"); !ok {
		return nil, true
	}
	if cond == nil {
		cond = &ast.Literal{Span: start, Value: true}
	}

	var inc ast.Expr
	if !p.check(token.RightParen) {
		var ok bool
		inc, ok = p.expression()
		if !ok {
			return nil, true
		}
	}
	if _, ok := p.expect(token.RightParen, "expected ')' after for clauses"); !ok {
		return nil, true
	}

	body, failed := p.statement()
	if failed {
		return nil, true
	}

	if inc != nil {
		body = &ast.Block{Span: start, Stmts: []ast.Stmt{
			body, &ast.ExpressionStmt{Span: inc.NodeSpan(), Expr: inc},
		}}
	}

	loop := ast.Stmt(&ast.While{Span: start, Cond: cond, Body: body})
	if init != nil {
		loop = &ast.Block{Span: start, Stmts: []ast.Stmt{init, loop}}
	}
	return loop, false
}

func (p *parser) returnStmt() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // return
	var value ast.Expr
	if !p.check(token.Semicolon) {
		var ok bool
		value, ok = p.expression()
		if !ok {
			return nil, true
		}
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after return value"); !ok {
		return nil, true
	}
	return &ast.Return{Span: start, Expr: value}, false
}

func (p *parser) printStmt() (ast.Stmt, bool) {
	start := p.current().Span
	p.advance() // print
	expr, ok := p.expression()
	if !ok {
		return nil, true
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after value"); !ok {
		return nil, true
	}
	return &ast.Print{Span: start, Expr: expr}, false
}

func (p *parser) exprStmt() (ast.Stmt, bool) {
	start := p.current().Span
	expr, ok := p.expression()
	if !ok {
		return nil, true
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after expression"); !ok {
		return nil, true
	}
	return &ast.ExpressionStmt{Span: start, Expr: expr}, false
}

// --- expressions, lowest to highest precedence ---

func (p *parser) expression() (ast.Expr, bool) { return p.assignment() }

func (p *parser) assignment() (ast.Expr, bool) {
	expr, ok := p.logicOr()
	if !ok {
		return nil, false
	}
	if eq, matched := p.matchAny(token.Equal); matched {
		value, ok := p.assignment()
		if !ok {
			return nil, false
		}
		if v, isVar := expr.(*ast.Variable); isVar {
			return ast.NewAssignment(eq.Span, v.Name, value), true
		}
		p.diags = append(p.diags, diagnostics.Make(diagnostics.ParseError, "Invalid assignment target", eq.Span))
		return nil, false
	}
	return expr, true
}

func (p *parser) logicOr() (ast.Expr, bool) {
	expr, ok := p.logicAnd()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAny(token.Or)
		if !matched {
			return expr, true
		}
		right, ok := p.logicAnd()
		if !ok {
			return nil, false
		}
		expr = &ast.Logical{Span: op.Span, Left: expr, Op: op.Kind, Right: right}
	}
}

func (p *parser) logicAnd() (ast.Expr, bool) {
	expr, ok := p.equality()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAny(token.And)
		if !matched {
			return expr, true
		}
		right, ok := p.equality()
		if !ok {
			return nil, false
		}
		expr = &ast.Logical{Span: op.Span, Left: expr, Op: op.Kind, Right: right}
	}
}

func (p *parser) equality() (ast.Expr, bool) {
	return p.binaryLevel(p.comparison, token.EqualEqual, token.BangEqual)
}

func (p *parser) comparison() (ast.Expr, bool) {
	return p.binaryLevel(p.addition, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *parser) addition() (ast.Expr, bool) {
	return p.binaryLevel(p.multiplication, token.Plus, token.Minus)
}

func (p *parser) multiplication() (ast.Expr, bool) {
	return p.binaryLevel(p.unary, token.Slash, token.Star)
}

// binaryLevel implements one left-associative precedence level.
func (p *parser) binaryLevel(next func() (ast.Expr, bool), ops ...token.Kind) (ast.Expr, bool) {
	expr, ok := next()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAny(ops...)
		if !matched {
			return expr, true
		}
		right, ok := next()
		if !ok {
			return nil, false
		}
		expr = &ast.Binary{Span: op.Span, Left: expr, Op: op.Kind, Right: right}
	}
}

func (p *parser) unary() (ast.Expr, bool) {
	if op, matched := p.matchAny(token.Bang, token.Minus); matched {
		right, ok := p.unary()
		if !ok {
			return nil, false
		}
		return &ast.Unary{Span: op.Span, Op: op.Kind, Right: right}, true
	}
	return p.call()
}

func (p *parser) call() (ast.Expr, bool) {
	expr, ok := p.primary()
	if !ok {
		return nil, false
	}
	for {
		paren, matched := p.matchAny(token.LeftParen)
		if !matched {
			return expr, true
		}
		var args []ast.Expr
		if !p.check(token.RightParen) {
			for {
				if len(args) >= maxArgs {
					p.addError(fmt.Sprintf("cannot exceed %d arguments", maxArgs))
					return nil, false
				}
				arg, ok := p.expression()
				if !ok {
					return nil, false
				}
				args = append(args, arg)
				if _, ok := p.matchAny(token.Comma); !ok {
					break
				}
			}
		}
		if _, ok := p.expect(token.RightParen, "expected ')' after arguments"); !ok {
			return nil, false
		}
		expr = &ast.Call{Span: paren.Span, Callee: expr, Args: args}
	}
}

func (p *parser) primary() (ast.Expr, bool) {
	tok := p.current()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return &ast.Literal{Span: tok.Span, Value: tok.Number()}, true
	case token.String:
		p.advance()
		return &ast.Literal{Span: tok.Span, Value: tok.Str()}, true
	case token.True:
		p.advance()
		return &ast.Literal{Span: tok.Span, Value: true}, true
	case token.False:
		p.advance()
		return &ast.Literal{Span: tok.Span, Value: false}, true
	case token.Undefined:
		p.advance()
		return &ast.Literal{Span: tok.Span, Value: nil}, true
	case token.LeftParen:
		p.advance()
		expr, ok := p.expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RightParen, "expected ')' after expression"); !ok {
			return nil, false
		}
		return &ast.Grouping{Span: tok.Span, Expr: expr}, true
	case token.Identifier:
		p.advance()
		return ast.NewVariable(tok.Span, tok.Lexeme), true
	default:
		p.addError(fmt.Sprintf("unexpected token '%s'", tok.Lexeme))
		return nil, false
	}
}
