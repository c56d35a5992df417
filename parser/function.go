package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

type funcKind int

const (
	funcExpression  funcKind = iota
	funcDeclaration          // statement list item
	funcHanging              // body of an if or a label, sloppy only
	funcDefault              // export default, the name is optional
)

// funcState is the per-function parser state that nested functions save
// and restore.
type funcState struct {
	ctx           context
	yieldPos      int
	awaitPos      int
	awaitIdentPos int
}

func (p *Parser) saveFunc() funcState {
	st := funcState{p.ctx, p.yieldPos, p.awaitPos, p.awaitIdentPos}
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	return st
}

func (p *Parser) restoreFunc(st funcState) {
	p.ctx = st.ctx
	p.yieldPos, p.awaitPos, p.awaitIdentPos = st.yieldPos, st.awaitPos, st.awaitIdentPos
}

// functionBindingKind is how a function declaration binds its name in the
// current scope.
func (p *Parser) functionBindingKind(async, generator bool) bindingKind {
	if !p.ctx.strict && !async && !generator {
		return bindFunction
	}
	if p.treatFunctionsAsVar(p.currentScope()) {
		return bindVar
	}
	return bindLexical
}

// parseFunction parses a function after the `function` keyword, and the
// async prefix, have been consumed. start is the offset of the first of
// them.
func (p *Parser) parseFunction(start int, async bool, kind funcKind) ast.Node {
	if kind == funcHanging && p.curTokenIs(token.Asterisk) {
		p.unexpected()
	}
	generator := p.eat(token.Asterisk)

	var id *ast.Identifier
	if kind != funcExpression && (kind != funcDefault || p.curTokenIs(token.Identifier)) {
		id = p.parseBindingIdentifier()
		if kind != funcHanging {
			p.checkLValSimple(id, p.functionBindingKind(async, generator), nil)
		}
	}

	saved := p.saveFunc()
	p.ctx = p.ctx.functionContext(async, generator)
	p.enterScope(scopeFunction)
	if kind == funcExpression && p.curTokenIs(token.Identifier) {
		id = p.parseBindingIdentifier()
	}
	params := p.parseFunctionParams()
	body, _ := p.parseFunctionBody(params, id, false, false)
	p.exitScope()
	p.restoreFunc(saved)

	block := body.(*ast.BlockStatement)
	if kind == funcExpression {
		return finish(p, &ast.FunctionExpression{ID: id, Params: params, Body: block, Async: async, Generator: generator}, start)
	}
	return finish(p, &ast.FunctionDeclaration{ID: id, Params: params, Body: block, Async: async, Generator: generator}, start)
}

// parseMethod parses the parameters and body of an object or class method.
// The value's range starts at the parameter list.
func (p *Parser) parseMethod(generator, async, allowDirectSuper bool) *ast.FunctionExpression {
	start := p.curToken.Start
	saved := p.saveFunc()
	p.ctx = p.ctx.functionContext(async, generator)
	p.ctx.allowSuperProperty = true
	p.ctx.allowSuperCall = allowDirectSuper
	p.enterScope(scopeFunction)
	params := p.parseFunctionParams()
	body, _ := p.parseFunctionBody(params, nil, false, true)
	p.exitScope()
	p.restoreFunc(saved)
	return finish(p, &ast.FunctionExpression{
		Params:    params,
		Body:      body.(*ast.BlockStatement),
		Async:     async,
		Generator: generator,
	}, start)
}

// parseArrowExpression finishes an arrow function whose head was parsed as
// an expression list and whose `=>` is consumed.
func (p *Parser) parseArrowExpression(start int, params []ast.Node, async bool) *ast.ArrowFunctionExpression {
	saved := p.saveFunc()
	p.ctx = p.ctx.arrowContext(async)
	p.enterScope(scopeFunction | scopeArrow)
	arrow := &ast.ArrowFunctionExpression{Async: async}
	arrow.Params = p.toAssignableList(params, true)
	arrow.Body, arrow.Expression = p.parseFunctionBody(arrow.Params, nil, true, false)
	p.exitScope()
	p.restoreFunc(saved)
	return finish(p, arrow, start)
}

func (p *Parser) parseFunctionParams() []ast.Pattern {
	p.expect(token.LeftParen)
	params := p.parseBindingList(token.RightParen, false, true)
	p.checkYieldAwaitInDefaultParams()
	return params
}

// checkYieldAwaitInDefaultParams rejects yield and await expressions seen
// while parsing a parameter list.
func (p *Parser) checkYieldAwaitInDefaultParams() {
	if p.yieldPos > 0 && (p.awaitPos == 0 || p.yieldPos < p.awaitPos) {
		p.fail(diag.IllegalYield, p.yieldPos, "Yield expression cannot be a default value")
	}
	if p.awaitPos > 0 {
		p.fail(diag.IllegalAwait, p.awaitPos, "Await expression cannot be a default value")
	}
}

func isSimpleParamList(params []ast.Pattern) bool {
	for _, param := range params {
		if _, ok := param.(*ast.Identifier); !ok {
			return false
		}
	}
	return true
}

// checkParams declares the parameters in the function scope and returns
// the names they bind.
func (p *Parser) checkParams(params []ast.Pattern, allowDuplicates bool) []*ast.Identifier {
	var clashes map[string]bool
	if !allowDuplicates {
		clashes = map[string]bool{}
	}
	var ids []*ast.Identifier
	for _, param := range params {
		p.checkLValInner(param, bindVar, clashes)
		ids = boundNames(ids, param)
	}
	return ids
}

// parseFunctionBody parses a function body after its parameters and
// validates the parameters against it. It reports whether the body is a
// concise arrow body.
func (p *Parser) parseFunctionBody(params []ast.Pattern, id *ast.Identifier, arrow, method bool) (ast.Node, bool) {
	if arrow && !p.curTokenIs(token.LeftBrace) {
		p.checkParams(params, false)
		return p.parseMaybeAssign(nil), true
	}

	simple := isSimpleParamList(params)
	wasStrict := p.ctx.strict
	deferDuplicates := !wasStrict && !arrow && !method && simple

	savedFn, savedLabels := p.fn, p.labels
	p.fn = &funcChecks{id: id, simpleParams: simple, duplicatesDeferred: deferDuplicates}
	p.fn.params = p.checkParams(params, deferDuplicates)
	p.labels = nil
	p.ctx.allowIn = true

	start := p.curToken.Start
	p.expect(token.LeftBrace)
	stmts := p.parseStatementList(token.RightBrace, true, false)
	p.nextToken()
	body := finish(p, &ast.BlockStatement{Body: stmts}, start)

	switch {
	case p.ctx.strict && !wasStrict:
		p.flushStrictChecks()
	case p.ctx.strict && id != nil:
		p.checkStrictBinding(id)
	}
	p.fn, p.labels = savedFn, savedLabels
	return body, false
}
