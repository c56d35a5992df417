package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

// parseClass parses a class declaration or expression starting at the
// `class` keyword. nullableID allows `export default class {}`.
func (p *Parser) parseClass(start int, isStatement, nullableID bool) ast.Node {
	p.nextToken()
	savedStrict := p.ctx.strict
	p.ctx.strict = true

	var id *ast.Identifier
	if p.curTokenIs(token.Identifier) {
		id = p.parseBindingIdentifier()
		if isStatement {
			p.checkLValSimple(id, bindLexical, nil)
		}
	} else if isStatement && !nullableID {
		p.unexpected()
	}

	var superClass ast.Expression
	if p.eat(token.Extends) {
		superClass = p.parseExprSubscripts(nil)
	}
	body := p.parseClassBody(superClass != nil)
	p.ctx.strict = savedStrict

	if isStatement {
		return finish(p, &ast.ClassDeclaration{ID: id, SuperClass: superClass, Body: body}, start)
	}
	return finish(p, &ast.ClassExpression{ID: id, SuperClass: superClass, Body: body}, start)
}

func (p *Parser) parseClassBody(derived bool) *ast.ClassBody {
	start := p.curToken.Start
	p.expect(token.LeftBrace)
	p.enterClassBody()
	savedIn := p.ctx.allowIn
	p.ctx.allowIn = true

	body := &ast.ClassBody{Body: []ast.ClassElement{}}
	hadConstructor := false
	for !p.curTokenIs(token.RightBrace) {
		el := p.parseClassElement(derived)
		if el == nil {
			continue
		}
		if m, ok := el.(*ast.MethodDefinition); ok && m.Kind == "constructor" {
			if hadConstructor {
				p.fail(diag.DuplicateConstructor, m.Start, "A class may only have one constructor")
			}
			hadConstructor = true
		}
		body.Body = append(body.Body, el)
	}
	p.nextToken()
	p.ctx.allowIn = savedIn
	p.exitClassBody()
	return finish(p, body, start)
}

// isClassElementNameStart reports whether the current token can begin a
// member name.
func (p *Parser) isClassElementNameStart() bool {
	switch p.curToken.Type {
	case token.Identifier, token.PrivateName, token.Number, token.BigInt, token.String, token.LeftBracket:
		return true
	}
	return p.curToken.Type.IsKeyword()
}

// parseClassElement parses one member. It returns nil for a stray
// semicolon.
func (p *Parser) parseClassElement(derived bool) ast.ClassElement {
	if p.eat(token.Semicolon) {
		return nil
	}
	start := p.curToken.Start
	var keyTok token.Token
	keyName := ""
	static, async, generator := false, false, false
	kind := "method"

	if p.isContextual("static") {
		keyTok = p.curToken
		p.nextToken()
		if p.curTokenIs(token.LeftBrace) {
			return p.parseStaticBlock(start)
		}
		if p.isClassElementNameStart() || p.curTokenIs(token.Asterisk) {
			static = true
		} else {
			keyName = "static"
		}
	}
	if keyName == "" && p.isContextual("async") {
		keyTok = p.curToken
		p.nextToken()
		if (p.isClassElementNameStart() || p.curTokenIs(token.Asterisk)) && !p.curToken.NewlineBefore {
			async = true
		} else {
			keyName = "async"
		}
	}
	if keyName == "" && p.eat(token.Asterisk) {
		generator = true
	}
	if keyName == "" && !async && !generator && (p.isContextual("get") || p.isContextual("set")) {
		keyTok = p.curToken
		p.nextToken()
		if p.isClassElementNameStart() {
			kind = keyTok.Literal
		} else {
			keyName = keyTok.Literal
		}
	}

	var key ast.Expression
	computed := false
	if keyName != "" {
		key = finishAt(p, &ast.Identifier{Name: keyName}, keyTok.Start, keyTok.End)
	} else {
		key, computed = p.parseClassElementName()
	}

	if p.curTokenIs(token.LeftParen) || kind != "method" || generator || async {
		return p.parseClassMethod(start, key, kind, computed, static, async, generator, derived)
	}
	return p.parseClassField(start, key, computed, static)
}

func (p *Parser) parseClassElementName() (ast.Expression, bool) {
	if !p.curTokenIs(token.PrivateName) {
		return p.parsePropertyName()
	}
	tok := p.curToken
	if tok.Literal == "constructor" {
		p.fail(diag.InvalidClassMember, tok.Start, "Classes may not have a private field named '#constructor'")
	}
	p.nextToken()
	return finish(p, &ast.PrivateIdentifier{Name: tok.Literal}, tok.Start), false
}

func (p *Parser) parseClassMethod(start int, key ast.Expression, kind string, computed, static, async, generator, derived bool) *ast.MethodDefinition {
	isConstructor := !static && isKeyName(key, computed, "constructor")
	if isConstructor {
		switch {
		case kind != "method":
			p.fail(diag.InvalidClassMember, key.Bounds().Start, "Class constructor may not be an accessor")
		case generator:
			p.fail(diag.InvalidClassMember, key.Bounds().Start, "Class constructor may not be a generator")
		case async:
			p.fail(diag.InvalidClassMember, key.Bounds().Start, "Class constructor may not be an async method")
		}
	} else if static && isKeyName(key, computed, "prototype") {
		p.fail(diag.InvalidClassMember, key.Bounds().Start, "Classes may not have a static property named 'prototype'")
	}

	value := p.parseMethod(generator, async, isConstructor && derived)
	p.checkAccessorParams(kind, value)
	if pid, ok := key.(*ast.PrivateIdentifier); ok {
		p.declarePrivateName(pid, kind, static)
	}
	if isConstructor {
		kind = "constructor"
	}
	return finish(p, &ast.MethodDefinition{Key: key, Value: value, Kind: kind, Computed: computed, Static: static}, start)
}

func (p *Parser) parseClassField(start int, key ast.Expression, computed, static bool) *ast.PropertyDefinition {
	if isKeyName(key, computed, "constructor") {
		p.fail(diag.InvalidClassMember, key.Bounds().Start, "Classes may not have a field named 'constructor'")
	}
	if static && isKeyName(key, computed, "prototype") {
		p.fail(diag.InvalidClassMember, key.Bounds().Start, "Classes may not have a static property named 'prototype'")
	}
	if pid, ok := key.(*ast.PrivateIdentifier); ok {
		p.declarePrivateName(pid, "field", static)
	}

	field := &ast.PropertyDefinition{Key: key, Computed: computed, Static: static}
	if p.eat(token.Assign) {
		saved := p.saveFunc()
		p.ctx = context{
			strict:             true,
			allowSuperProperty: true,
			allowNewTarget:     true,
			inClassFieldInit:   true,
			allowIn:            true,
		}
		field.Value = p.parseMaybeAssign(nil)
		p.restoreFunc(saved)
	}
	p.semicolon()
	return finish(p, field, start)
}

// parseStaticBlock parses `static { ... }` after `static`.
func (p *Parser) parseStaticBlock(start int) *ast.StaticBlock {
	saved := p.saveFunc()
	savedFn, savedLabels := p.fn, p.labels
	p.ctx = context{
		strict:             true,
		allowSuperProperty: true,
		allowNewTarget:     true,
		inClassStaticBlock: true,
		allowIn:            true,
	}
	p.fn, p.labels = nil, nil
	p.enterScope(scopeStaticBlock)

	p.expect(token.LeftBrace)
	body := p.parseStatementList(token.RightBrace, false, false)
	p.nextToken()

	p.exitScope()
	p.fn, p.labels = savedFn, savedLabels
	p.restoreFunc(saved)
	return finish(p, &ast.StaticBlock{Body: body}, start)
}
