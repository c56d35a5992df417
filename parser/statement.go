package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

// stmtContext says where a statement appears. Outside statement lists
// declarations are restricted.
type stmtContext int

const (
	ctxList  stmtContext = iota // statement list item
	ctxIf                       // if or else branch
	ctxLabel                    // labelled statement in a list
	ctxOther                    // loop, with, or a label inside one
)

// parseStatementList parses statements until end, which is left current.
// With directives set the leading string literal statements form a
// directive prologue.
func (p *Parser) parseStatementList(end token.TokenType, directives, topLevel bool) []ast.Statement {
	body := []ast.Statement{}
	octal := -1
	for directives && p.curTokenIs(token.String) {
		tok := p.curToken
		stmt := p.parseStatement(ctxList, topLevel)
		body = append(body, stmt)
		if !p.isDirective(stmt, tok) {
			break
		}
		es := stmt.(*ast.ExpressionStatement)
		raw := tok.Raw[1 : len(tok.Raw)-1]
		if p.opts.Directives {
			es.Directive = raw
		}
		if tok.LegacyOctal && octal < 0 {
			octal = tok.Start
		}
		if raw == "use strict" {
			if !p.ctx.strict {
				p.ctx.strict = true
				if octal >= 0 {
					p.fail(diag.StrictModeViolation, octal, "Octal escape sequences are not allowed in strict mode")
				}
			}
			p.becameStrict(tok.Start)
		}
	}
	for !p.curTokenIs(end) {
		body = append(body, p.parseStatement(ctxList, topLevel))
	}
	return body
}

// isDirective reports whether stmt consists of exactly the string token tok.
func (p *Parser) isDirective(stmt ast.Statement, tok token.Token) bool {
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	lit, ok := es.Expression.(*ast.Literal)
	if !ok || p.parenthesized[lit] {
		return false
	}
	return lit.Start == tok.Start && lit.End == tok.End
}

// isLet reports whether a `let` at the current position starts a lexical
// declaration rather than an identifier expression.
func (p *Parser) isLet(ctx stmtContext) bool {
	if !p.isContextual("let") {
		return false
	}
	next := p.peekToken()
	if next.Type == token.LeftBracket {
		return true
	}
	if ctx != ctxList {
		return false
	}
	return next.Type == token.LeftBrace || next.Type == token.Identifier
}

// isAsyncFunction reports `async function` with no line break in between.
func (p *Parser) isAsyncFunction() bool {
	if !p.isContextual("async") {
		return false
	}
	next := p.peekToken()
	return next.Type == token.Function && !next.NewlineBefore
}

func (p *Parser) parseStatement(ctx stmtContext, topLevel bool) ast.Statement {
	start := p.curToken.Start
	tt := p.curToken.Type
	kind := ""
	if p.isLet(ctx) {
		tt, kind = token.Var, "let"
	}

	switch tt {
	case token.Break, token.Continue:
		return p.parseBreakContinue(tt == token.Break)
	case token.Debugger:
		p.nextToken()
		p.semicolon()
		return finish(p, &ast.DebuggerStatement{}, start)
	case token.Do:
		return p.parseDoStatement()
	case token.For:
		return p.parseForStatement()
	case token.Function:
		if ctx != ctxList && (p.ctx.strict || !p.opts.WebCompat || (ctx != ctxIf && ctx != ctxLabel)) {
			if p.ctx.strict {
				p.fail(diag.UnexpectedToken, start,
					"In strict mode code, functions can only be declared at top level or inside a block")
			}
			if ctx == ctxIf || ctx == ctxLabel {
				p.fail(diag.UnexpectedToken, start,
					"Function declarations are only allowed here in web-compatible sloppy mode")
			}
			p.fail(diag.UnexpectedToken, start,
				"Function declarations are not allowed in this statement position")
		}
		p.nextToken()
		fk := funcDeclaration
		if ctx != ctxList {
			fk = funcHanging
		}
		return p.parseFunction(start, false, fk).(ast.Statement)
	case token.Class:
		if ctx != ctxList {
			p.unexpected()
		}
		return p.parseClass(start, true, false).(ast.Statement)
	case token.If:
		return p.parseIfStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Const, token.Var:
		if kind == "" {
			kind = p.curToken.Literal
		}
		if ctx != ctxList && kind != "var" {
			p.fail(diag.UnexpectedToken, start, "Lexical declaration cannot appear in a single-statement context")
		}
		p.nextToken()
		decl := p.parseVar(false, kind)
		p.semicolon()
		return finish(p, decl, start)
	case token.While:
		return p.parseWhileStatement()
	case token.With:
		return p.parseWithStatement()
	case token.LeftBrace:
		return p.parseBlock(true)
	case token.Semicolon:
		p.nextToken()
		return finish(p, &ast.EmptyStatement{}, start)
	case token.Import, token.Export:
		if tt == token.Import {
			if next := p.peekToken().Type; next == token.LeftParen || next == token.Dot {
				break
			}
		}
		if !topLevel {
			p.fail(diag.ModuleSyntax, start, "'import' and 'export' may only appear at the top level")
		}
		if p.opts.SourceType != Module {
			p.fail(diag.ModuleSyntax, start, "'import' and 'export' may appear only with 'sourceType: module'")
		}
		if tt == token.Import {
			return p.parseImport()
		}
		return p.parseExport()
	}

	if p.isAsyncFunction() {
		if ctx != ctxList {
			p.fail(diag.UnexpectedToken, start, "Async functions can only be declared at the top level or inside a block")
		}
		p.nextToken()
		p.nextToken()
		return p.parseFunction(start, true, funcDeclaration).(ast.Statement)
	}

	startTok := p.curToken
	expr := p.parseExpression()
	if id, ok := expr.(*ast.Identifier); ok && startTok.Type == token.Identifier &&
		p.curTokenIs(token.Colon) && !p.parenthesized[id] {
		p.nextToken()
		return p.parseLabeledStatement(start, id, ctx)
	}
	p.semicolon()
	return finish(p, &ast.ExpressionStatement{Expression: expr}, start)
}

func (p *Parser) parseBlock(newScope bool) *ast.BlockStatement {
	start := p.curToken.Start
	p.expect(token.LeftBrace)
	if newScope {
		p.enterScope(0)
	}
	body := p.parseStatementList(token.RightBrace, false, false)
	p.nextToken()
	if newScope {
		p.exitScope()
	}
	return finish(p, &ast.BlockStatement{Body: body}, start)
}

func (p *Parser) parseParenExpression() ast.Expression {
	p.expect(token.LeftParen)
	expr := p.parseExpressionIn()
	p.expect(token.RightParen)
	return expr
}

// ---------- Control flow ----------

func (p *Parser) parseBreakContinue(isBreak bool) ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	var lbl *ast.Identifier
	if !p.eat(token.Semicolon) && !p.canInsertSemicolon() {
		if !p.curTokenIs(token.Identifier) {
			p.unexpected()
		}
		lbl = p.parseIdent(false)
		p.semicolon()
	}

	if !p.hasLabel(lbl, isBreak) {
		switch {
		case lbl == nil && isBreak:
			p.fail(diag.IllegalBreak, start, "Illegal break statement")
		case lbl == nil:
			p.fail(diag.IllegalContinue, start, "Illegal continue statement: no surrounding iteration statement")
		case isBreak:
			p.fail(diag.IllegalBreak, lbl.Start, "Undefined label '%s'", lbl.Name)
		default:
			p.fail(diag.IllegalContinue, lbl.Start,
				"Illegal continue statement: '%s' does not denote an iteration statement", lbl.Name)
		}
	}

	if isBreak {
		return finish(p, &ast.BreakStatement{Label: lbl}, start)
	}
	return finish(p, &ast.ContinueStatement{Label: lbl}, start)
}

// hasLabel reports whether a break or continue can target lbl, or the
// innermost loop or switch when lbl is nil.
func (p *Parser) hasLabel(lbl *ast.Identifier, isBreak bool) bool {
	for i := len(p.labels) - 1; i >= 0; i-- {
		l := p.labels[i]
		if lbl == nil {
			if l.kind == labelLoop || isBreak && l.kind == labelSwitch {
				return true
			}
			continue
		}
		if l.name == lbl.Name {
			return isBreak || l.kind == labelLoop
		}
	}
	return false
}

func (p *Parser) parseLabeledStatement(start int, id *ast.Identifier, ctx stmtContext) ast.Statement {
	for _, l := range p.labels {
		if l.name == id.Name {
			p.fail(diag.DuplicateLabel, id.Start, "Label '%s' has already been declared", id.Name)
		}
	}
	kind := labelPlain
	switch p.curToken.Type {
	case token.Do, token.While, token.For:
		kind = labelLoop
	case token.Switch:
		kind = labelSwitch
	}
	// labels stacked on the same statement share its kind
	for i := len(p.labels) - 1; i >= 0; i-- {
		l := &p.labels[i]
		if l.start != start {
			break
		}
		l.start = p.curToken.Start
		l.kind = kind
	}
	p.labels = append(p.labels, label{name: id.Name, kind: kind, start: p.curToken.Start})

	bodyCtx := ctxLabel
	if ctx != ctxList && ctx != ctxLabel {
		bodyCtx = ctxOther
	}
	body := p.parseStatement(bodyCtx, false)
	p.labels = p.labels[:len(p.labels)-1]
	return finish(p, &ast.LabeledStatement{Label: id, Body: body}, start)
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.IfStatement{Test: p.parseParenExpression()}
	stmt.Consequent = p.parseStatement(ctxIf, false)
	if p.eat(token.Else) {
		stmt.Alternate = p.parseStatement(ctxIf, false)
	}
	return finish(p, stmt, start)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.curToken.Start
	if !p.ctx.inFunction {
		p.fail(diag.IllegalReturn, start, "Illegal return statement")
	}
	p.nextToken()
	stmt := &ast.ReturnStatement{}
	if !p.eat(token.Semicolon) && !p.canInsertSemicolon() {
		stmt.Argument = p.parseExpression()
		p.semicolon()
	}
	return finish(p, stmt, start)
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.SwitchStatement{Discriminant: p.parseParenExpression(), Cases: []*ast.SwitchCase{}}
	p.expect(token.LeftBrace)
	p.labels = append(p.labels, label{kind: labelSwitch})
	p.enterScope(0)

	var cur *ast.SwitchCase
	curStart := 0
	sawDefault := false
	for !p.curTokenIs(token.RightBrace) {
		if p.curTokenIs(token.Case) || p.curTokenIs(token.Default) {
			isCase := p.curTokenIs(token.Case)
			if cur != nil {
				finish(p, cur, curStart)
			}
			curStart = p.curToken.Start
			cur = &ast.SwitchCase{Consequent: []ast.Statement{}}
			stmt.Cases = append(stmt.Cases, cur)
			p.nextToken()
			if isCase {
				cur.Test = p.parseExpressionIn()
			} else {
				if sawDefault {
					p.fail(diag.UnexpectedToken, curStart, "More than one default clause in switch statement")
				}
				sawDefault = true
			}
			p.expect(token.Colon)
			continue
		}
		if cur == nil {
			p.unexpected()
		}
		cur.Consequent = append(cur.Consequent, p.parseStatement(ctxList, false))
	}
	if cur != nil {
		finish(p, cur, curStart)
	}
	p.nextToken()
	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]
	return finish(p, stmt, start)
}

func (p *Parser) parseThrowStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	if p.curToken.NewlineBefore {
		p.fail(diag.NewlineRestriction, p.prevEnd, "Illegal newline after throw")
	}
	stmt := &ast.ThrowStatement{Argument: p.parseExpression()}
	p.semicolon()
	return finish(p, stmt, start)
}

func (p *Parser) parseTryStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.TryStatement{Block: p.parseBlock(true)}
	if p.curTokenIs(token.Catch) {
		catchStart := p.curToken.Start
		p.nextToken()
		clause := &ast.CatchClause{}
		if p.eat(token.LeftParen) {
			clause.Param = p.parseBindingAtom()
			if _, simple := clause.Param.(*ast.Identifier); simple {
				p.enterScope(scopeSimpleCatch)
				p.checkLValPattern(clause.Param, bindCatch, nil)
			} else {
				p.enterScope(0)
				p.checkLValPattern(clause.Param, bindLexical, map[string]bool{})
			}
			p.expect(token.RightParen)
		} else {
			p.enterScope(0)
		}
		clause.Body = p.parseBlock(false)
		p.exitScope()
		stmt.Handler = finish(p, clause, catchStart)
	}
	if p.eat(token.Finally) {
		stmt.Finalizer = p.parseBlock(true)
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.fail(diag.UnexpectedToken, p.curToken.Start, "Missing catch or finally after try")
	}
	return finish(p, stmt, start)
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.WhileStatement{Test: p.parseParenExpression()}
	p.labels = append(p.labels, label{kind: labelLoop})
	stmt.Body = p.parseStatement(ctxOther, false)
	p.labels = p.labels[:len(p.labels)-1]
	return finish(p, stmt, start)
}

func (p *Parser) parseDoStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	p.labels = append(p.labels, label{kind: labelLoop})
	stmt := &ast.DoWhileStatement{Body: p.parseStatement(ctxOther, false)}
	p.labels = p.labels[:len(p.labels)-1]
	p.expect(token.While)
	stmt.Test = p.parseParenExpression()
	p.eat(token.Semicolon)
	return finish(p, stmt, start)
}

func (p *Parser) parseWithStatement() ast.Statement {
	start := p.curToken.Start
	if p.ctx.strict {
		p.fail(diag.StrictModeViolation, start, "Strict mode code may not include a with statement")
	}
	p.nextToken()
	stmt := &ast.WithStatement{Object: p.parseParenExpression()}
	stmt.Body = p.parseStatement(ctxOther, false)
	return finish(p, stmt, start)
}

// ---------- Loops ----------

func (p *Parser) parseForStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	awaitAt := -1
	if p.ctx.inAsync && p.isContextual("await") {
		awaitAt = p.curToken.Start
		p.nextToken()
	}
	p.labels = append(p.labels, label{kind: labelLoop})
	p.enterScope(0)
	p.expect(token.LeftParen)
	stmt := p.parseForHead(start, awaitAt)
	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]
	return stmt
}

func (p *Parser) isForInOf() bool {
	return p.curTokenIs(token.In) || p.isContextual("of")
}

func (p *Parser) failForAwait(awaitAt int) {
	p.fail(diag.InvalidForLoop, awaitAt, "for await is only valid with for-of loops")
}

func (p *Parser) parseForHead(start, awaitAt int) ast.Statement {
	if p.curTokenIs(token.Semicolon) {
		if awaitAt >= 0 {
			p.failForAwait(awaitAt)
		}
		return p.parseFor(start, nil)
	}

	saved := p.ctx.allowIn
	isLet := p.isLet(ctxList)
	if p.curTokenIs(token.Var) || p.curTokenIs(token.Const) || isLet {
		declStart := p.curToken.Start
		kind := "let"
		if !isLet {
			kind = p.curToken.Literal
		}
		p.nextToken()
		p.ctx.allowIn = false
		decl := finish(p, p.parseVar(true, kind), declStart)
		p.ctx.allowIn = saved
		if p.isForInOf() && len(decl.Declarations) == 1 {
			isOf := !p.curTokenIs(token.In)
			if awaitAt >= 0 && !isOf {
				p.failForAwait(awaitAt)
			}
			return p.parseForInOf(start, decl, isOf, awaitAt >= 0)
		}
		if awaitAt >= 0 {
			p.failForAwait(awaitAt)
		}
		return p.parseFor(start, decl)
	}

	startsWithLet := p.isContextual("let")
	cover := newCoverInfo()
	p.ctx.allowIn = false
	var init ast.Expression
	if awaitAt >= 0 {
		init = p.parseExprSubscripts(cover)
	} else {
		init = p.parseExpressionCover(cover)
	}
	p.ctx.allowIn = saved

	if p.isForInOf() {
		isOf := !p.curTokenIs(token.In)
		if awaitAt >= 0 && !isOf {
			p.failForAwait(awaitAt)
		}
		if startsWithLet && isOf {
			p.fail(diag.InvalidForLoop, init.Bounds().Start, "The left-hand side of a for-of loop may not start with 'let'")
		}
		target := p.toAssignable(init, false, cover)
		p.checkLValPattern(target, bindNone, nil)
		return p.parseForInOf(start, target, isOf, awaitAt >= 0)
	}
	p.checkExpressionErrors(cover, true)
	if awaitAt >= 0 {
		p.failForAwait(awaitAt)
	}
	return p.parseFor(start, init)
}

// parseFor parses the rest of a three-part for statement after its init.
func (p *Parser) parseFor(start int, init ast.Node) ast.Statement {
	stmt := &ast.ForStatement{Init: init}
	p.expect(token.Semicolon)
	if !p.curTokenIs(token.Semicolon) {
		stmt.Test = p.parseExpressionIn()
	}
	p.expect(token.Semicolon)
	if !p.curTokenIs(token.RightParen) {
		stmt.Update = p.parseExpressionIn()
	}
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement(ctxOther, false)
	return finish(p, stmt, start)
}

func (p *Parser) parseForInOf(start int, left ast.Node, isOf, await bool) ast.Statement {
	loop := "in"
	if isOf {
		loop = "of"
	}
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		d := decl.Declarations[0]
		if d.Init != nil {
			_, simple := d.ID.(*ast.Identifier)
			if isOf || p.ctx.strict || decl.Kind != "var" || !simple || !p.opts.WebCompat {
				p.fail(diag.InvalidForLoop, d.Start, "for-%s loop variable declaration may not have an initializer", loop)
			}
		}
	}
	p.nextToken()
	var right ast.Expression
	if isOf {
		right = p.parseMaybeAssignIn()
	} else {
		right = p.parseExpressionIn()
	}
	p.expect(token.RightParen)
	body := p.parseStatement(ctxOther, false)
	if isOf {
		return finish(p, &ast.ForOfStatement{Left: left, Right: right, Body: body, Await: await}, start)
	}
	return finish(p, &ast.ForInStatement{Left: left, Right: right, Body: body}, start)
}

// parseVar parses the declarators after var, let or const. The caller
// stamps the range, which includes the semicolon outside loop heads.
func (p *Parser) parseVar(isFor bool, kind string) *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Kind: kind}
	bk := bindLexical
	if kind == "var" {
		bk = bindVar
	}
	for {
		dstart := p.curToken.Start
		d := &ast.VariableDeclarator{ID: p.parseBindingAtom()}
		p.checkLValPattern(d.ID, bk, nil)
		if p.eat(token.Assign) {
			d.Init = p.parseMaybeAssign(nil)
		} else if !(isFor && p.isForInOf()) {
			if kind == "const" {
				p.fail(diag.MissingInitializer, p.curToken.Start, "Missing initializer in const declaration")
			}
			if _, simple := d.ID.(*ast.Identifier); !simple {
				p.fail(diag.MissingInitializer, p.curToken.Start, "Missing initializer in destructuring declaration")
			}
		}
		decl.Declarations = append(decl.Declarations, finish(p, d, dstart))
		if !p.eat(token.Comma) {
			break
		}
	}
	return decl
}
