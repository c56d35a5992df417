// Package parser turns ECMAScript source text into an ESTree AST.
//
// The parser is a recursive descent parser over the token stream produced
// by package lexer. It stops at the first syntax error; the error is a
// *diag.Error carrying the kind, message and position.
package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/lexer"
	"github.com/SKalt/meriyah-sub000/token"
)

// Parser holds the state of a single parse. A Parser is not reusable.
type Parser struct {
	l    *lexer.Lexer
	opts Options

	curToken token.Token
	prevType token.TokenType
	prevEnd  int

	ctx    context
	scopes []*scope
	labels []label
	fn     *funcChecks

	classes []*privateNames

	// exported names and module-level references to undeclared locals
	exports          map[string]bool
	undefinedExports map[string]*ast.Identifier

	// parenthesized records nodes that were wrapped in parentheses. They
	// are transparent in the tree but matter to assignment targets and
	// directive detection.
	parenthesized map[ast.Node]bool

	// start of an expression that may turn out to be an arrow head
	potentialArrowAt int

	// first yield and await expressions since the last reset, used to
	// reject them in arrow parameter defaults; 0 when none
	yieldPos      int
	awaitPos      int
	awaitIdentPos int
}

// New returns a parser for input.
func New(input string, opts Options) *Parser {
	p := &Parser{
		l:                lexer.New(input),
		opts:             opts,
		exports:          map[string]bool{},
		undefinedExports: map[string]*ast.Identifier{},
		parenthesized:    map[ast.Node]bool{},
		potentialArrowAt: -1,
	}
	p.l.SetHTMLComments(opts.WebCompat && opts.SourceType != Module)

	p.ctx = context{
		strict:  opts.ImpliedStrict || opts.SourceType == Module,
		allowIn: true,
	}
	if opts.SourceType == Module {
		// top-level await
		p.ctx.inAsync = true
	}
	if opts.GlobalReturn && opts.SourceType == Script {
		p.ctx.inFunction = true
	}
	return p
}

// Parse parses input as a complete program.
func Parse(input string, opts Options) (*ast.Program, error) {
	return New(input, opts).ParseProgram()
}

// ParseScript parses input with the script goal.
func ParseScript(input string, opts Options) (*ast.Program, error) {
	opts.SourceType = Script
	return Parse(input, opts)
}

// ParseModule parses input with the module goal.
func ParseModule(input string, opts Options) (*ast.Program, error) {
	opts.SourceType = Module
	return Parse(input, opts)
}

// ParseProgram parses the whole input. On failure the program is nil and
// the error is a *diag.Error.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			if e.Source == "" {
				e.Source = p.opts.Source
			}
			program, err = nil, e
		}
	}()

	p.nextToken()
	p.enterScope(scopeTop)
	program = &ast.Program{SourceType: p.opts.SourceType.String()}
	program.Body = p.parseStatementList(token.EOF, true, true)
	p.exitScope()

	if p.opts.SourceType == Module && p.opts.Lexical {
		p.checkUndefinedExports()
	}

	program.Start, program.End = 0, len(p.l.Input())
	p.locate(&program.Span)
	return program, nil
}

// ---------- Tokens ----------

func (p *Parser) nextToken() {
	p.prevType = p.curToken.Type
	p.prevEnd = p.curToken.End
	p.curToken = p.l.Next()
	p.checkToken()
}

// checkToken turns a lexer failure into a parse failure.
func (p *Parser) checkToken() {
	if p.curToken.Type != token.Illegal {
		return
	}
	if err := p.l.Err(); err != nil {
		panic(err)
	}
	p.fail(diag.InvalidCharacter, p.curToken.Start, "Invalid or unexpected token")
}

// peekToken scans the token after curToken without consuming it.
func (p *Parser) peekToken() token.Token {
	return p.l.Peek()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// isContextual reports whether curToken is the unescaped identifier name.
func (p *Parser) isContextual(name string) bool {
	return p.curToken.Type == token.Identifier && p.curToken.Literal == name && !p.curToken.Escaped
}

func (p *Parser) eat(t token.TokenType) bool {
	if p.curToken.Type == t {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) eatContextual(name string) bool {
	if p.isContextual(name) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) expect(t token.TokenType) {
	if !p.eat(t) {
		p.unexpected()
	}
}

func (p *Parser) expectContextual(name string) {
	if !p.eatContextual(name) {
		p.unexpected()
	}
}

// canInsertSemicolon reports whether automatic semicolon insertion applies
// before curToken.
func (p *Parser) canInsertSemicolon() bool {
	return p.curTokenIs(token.EOF) || p.curTokenIs(token.RightBrace) || p.curToken.NewlineBefore
}

// semicolon consumes an explicit or inserted statement terminator.
func (p *Parser) semicolon() {
	if !p.eat(token.Semicolon) && !p.canInsertSemicolon() {
		p.unexpected()
	}
}

// afterTrailingComma consumes close when it directly follows a comma.
func (p *Parser) afterTrailingComma(close token.TokenType) bool {
	if p.curTokenIs(close) {
		p.nextToken()
		return true
	}
	return false
}

// ---------- Errors ----------

// fail aborts the parse with a syntax error at offset.
func (p *Parser) fail(kind diag.Kind, offset int, format string, args ...interface{}) {
	err := diag.New(kind, offset, format, args...)
	err.Line, err.Column = p.l.Position(offset)
	err.Source = p.opts.Source
	panic(err)
}

// unexpected fails on curToken.
func (p *Parser) unexpected() {
	p.unexpectedAt(p.curToken)
}

func (p *Parser) unexpectedAt(tok token.Token) {
	switch tok.Type {
	case token.EOF:
		p.fail(diag.UnexpectedEOF, tok.Start, "Unexpected end of input")
	case token.Identifier:
		p.fail(diag.UnexpectedToken, tok.Start, "Unexpected identifier '%s'", tok.Literal)
	case token.String:
		p.fail(diag.UnexpectedToken, tok.Start, "Unexpected string")
	case token.Number, token.BigInt:
		p.fail(diag.UnexpectedToken, tok.Start, "Unexpected number")
	case token.NoSubstitutionTemplate, token.TemplateHead, token.TemplateMiddle, token.TemplateTail:
		p.fail(diag.UnexpectedToken, tok.Start, "Unexpected template string")
	}
	p.fail(diag.UnexpectedToken, tok.Start, "Unexpected token '%s'", tok.Raw)
}

// ---------- Positions ----------

// finish stamps the range [start, end of the previous token) on n.
func finish[T ast.Node](p *Parser, n T, start int) T {
	span := n.Bounds()
	span.Start, span.End = start, p.prevEnd
	p.locate(span)
	return n
}

// finishAt stamps an explicit range, used for nodes synthesized from
// tokens that were already consumed.
func finishAt[T ast.Node](p *Parser, n T, start, end int) T {
	span := n.Bounds()
	span.Start, span.End = start, end
	p.locate(span)
	return n
}

func (p *Parser) locate(span *ast.Span) {
	if !p.opts.Loc {
		return
	}
	sl, sc := p.l.Position(span.Start)
	el, ec := p.l.Position(span.End)
	span.Loc = &ast.SourceLocation{
		Start: ast.Position{Line: sl, Column: sc},
		End:   ast.Position{Line: el, Column: ec},
	}
}
