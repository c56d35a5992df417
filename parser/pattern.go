package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

// coverInfo records the first position of constructs that are only valid
// once an object or array literal turns out to be a pattern (or only valid
// while it stays an expression). -1 means not seen.
type coverInfo struct {
	shorthandAssign int // `{a = 1}`
	trailingComma   int // a comma after a spread element
	doubleProto     int // a second __proto__: value
}

func newCoverInfo() *coverInfo {
	return &coverInfo{shorthandAssign: -1, trailingComma: -1, doubleProto: -1}
}

// checkExpressionErrors reports whether the literal can no longer be used as
// an expression; with fail set it aborts instead.
func (p *Parser) checkExpressionErrors(cover *coverInfo, fail bool) bool {
	if cover == nil {
		return false
	}
	if !fail {
		return cover.shorthandAssign >= 0 || cover.doubleProto >= 0
	}
	if cover.shorthandAssign >= 0 {
		p.fail(diag.InvalidDestructuringTarget, cover.shorthandAssign,
			"Shorthand property assignments are valid only in destructuring patterns")
	}
	if cover.doubleProto >= 0 {
		p.fail(diag.DuplicateProto, cover.doubleProto, "Redefinition of __proto__ property")
	}
	return false
}

// checkPatternErrors fails on constructs that cannot appear in a pattern.
func (p *Parser) checkPatternErrors(cover *coverInfo) {
	if cover != nil && cover.trailingComma >= 0 {
		p.fail(diag.InvalidDestructuringTarget, cover.trailingComma, "Comma is not permitted after the rest element")
	}
}

// ---------- Reinterpretation ----------

// toAssignable rebuilds an expression as the equivalent pattern. The
// expression tree is discarded; leaf identifiers and member expressions are
// carried over as they are.
func (p *Parser) toAssignable(n ast.Node, isBinding bool, cover *coverInfo) ast.Pattern {
	if p.parenthesized[n] {
		switch n.(type) {
		case *ast.Identifier, *ast.MemberExpression:
			if isBinding {
				p.fail(diag.InvalidArrowParams, n.Bounds().Start, "Parenthesized pattern")
			}
		default:
			p.fail(diag.InvalidDestructuringTarget, n.Bounds().Start, "Invalid destructuring assignment target")
		}
	}
	switch n := n.(type) {
	case *ast.Identifier:
		if p.ctx.inAsync && n.Name == "await" {
			p.fail(diag.IllegalAwait, n.Start, "Cannot use 'await' as identifier inside an async function")
		}
		return n
	case *ast.ObjectPattern, *ast.ArrayPattern, *ast.AssignmentPattern, *ast.RestElement:
		return n.(ast.Pattern)
	case *ast.ObjectExpression:
		p.checkPatternErrors(cover)
		pat := &ast.ObjectPattern{Span: n.Span, Properties: make([]ast.Node, len(n.Properties))}
		for i, prop := range n.Properties {
			switch prop := prop.(type) {
			case *ast.Property:
				pat.Properties[i] = p.propertyToAssignable(prop, isBinding)
			case *ast.SpreadElement:
				rest := p.toAssignable(prop, isBinding, nil).(*ast.RestElement)
				switch rest.Argument.(type) {
				case *ast.ArrayPattern, *ast.ObjectPattern:
					p.fail(diag.InvalidDestructuringTarget, rest.Argument.Bounds().Start,
						"Invalid rest element in object pattern")
				}
				if i != len(n.Properties)-1 {
					p.fail(diag.InvalidDestructuringTarget, rest.Start, "Rest element must be last element")
				}
				pat.Properties[i] = rest
			}
		}
		return pat
	case *ast.ArrayExpression:
		p.checkPatternErrors(cover)
		pat := &ast.ArrayPattern{Span: n.Span, Elements: make([]ast.Pattern, len(n.Elements))}
		for i, el := range n.Elements {
			if el == nil {
				continue
			}
			pat.Elements[i] = p.toAssignable(el, isBinding, nil)
			if _, ok := pat.Elements[i].(*ast.RestElement); ok && i != len(n.Elements)-1 {
				p.fail(diag.InvalidDestructuringTarget, el.Bounds().Start, "Rest element must be last element")
			}
		}
		return pat
	case *ast.SpreadElement:
		arg := p.toAssignable(n.Argument, isBinding, nil)
		if _, ok := arg.(*ast.AssignmentPattern); ok {
			p.fail(diag.InvalidDestructuringTarget, arg.Bounds().Start, "Rest elements cannot have a default value")
		}
		return &ast.RestElement{Span: n.Span, Argument: arg}
	case *ast.AssignmentExpression:
		if n.Operator != "=" {
			p.fail(diag.InvalidDestructuringTarget, n.Left.Bounds().End,
				"Only '=' operator can be used for specifying default value.")
		}
		return &ast.AssignmentPattern{Span: n.Span, Left: p.toAssignable(n.Left, isBinding, nil), Right: n.Right}
	case *ast.ChainExpression:
		p.fail(diag.InvalidAssignmentTarget, n.Start, "Optional chaining cannot appear in left-hand side")
	case *ast.MemberExpression:
		if !isBinding {
			return n
		}
		p.fail(diag.InvalidDestructuringTarget, n.Start, "Binding member expression")
	}
	if isBinding {
		p.fail(diag.InvalidArrowParams, n.Bounds().Start, "Invalid destructuring target")
	}
	p.fail(diag.InvalidAssignmentTarget, n.Bounds().Start, "Invalid left-hand side in assignment")
	return nil
}

func (p *Parser) propertyToAssignable(prop *ast.Property, isBinding bool) *ast.Property {
	if prop.Kind != "init" || prop.Method {
		p.fail(diag.InvalidDestructuringTarget, prop.Key.Bounds().Start,
			"Object pattern can't contain getter or setter")
	}
	out := *prop
	out.Value = p.toAssignable(prop.Value, isBinding, nil)
	return &out
}

// toAssignableList converts arrow parameters.
func (p *Parser) toAssignableList(exprs []ast.Node, isBinding bool) []ast.Pattern {
	params := make([]ast.Pattern, len(exprs))
	for i, e := range exprs {
		params[i] = p.toAssignable(e, isBinding, nil)
		if _, ok := params[i].(*ast.RestElement); ok && i != len(exprs)-1 {
			p.fail(diag.InvalidArrowParams, e.Bounds().Start, "Rest parameter must be last formal parameter")
		}
	}
	return params
}

// ---------- Binding patterns ----------

// parseBindingAtom parses a binding identifier or a destructuring pattern.
func (p *Parser) parseBindingAtom() ast.Pattern {
	switch p.curToken.Type {
	case token.LeftBracket:
		start := p.curToken.Start
		p.nextToken()
		elements := p.parseBindingList(token.RightBracket, true, true)
		return finish(p, &ast.ArrayPattern{Elements: elements}, start)
	case token.LeftBrace:
		return p.parseObjectPattern()
	}
	return p.parseBindingIdentifier()
}

// parseBindingIdentifier parses a plain binding name.
func (p *Parser) parseBindingIdentifier() *ast.Identifier {
	if !p.curTokenIs(token.Identifier) {
		p.unexpected()
	}
	return p.parseIdent(false)
}

// parseBindingList parses comma separated binding elements up to close.
func (p *Parser) parseBindingList(close token.TokenType, allowEmpty, allowTrailingComma bool) []ast.Pattern {
	saved := p.ctx.allowIn
	p.ctx.allowIn = true
	elts := []ast.Pattern{}
	first := true
	for !p.eat(close) {
		if first {
			first = false
		} else {
			p.expect(token.Comma)
		}
		switch {
		case allowEmpty && p.curTokenIs(token.Comma):
			elts = append(elts, nil)
		case allowTrailingComma && p.afterTrailingComma(close):
			p.ctx.allowIn = saved
			return elts
		case p.curTokenIs(token.Spread):
			rest := p.parseRestBinding()
			elts = append(elts, rest)
			if p.curTokenIs(token.Comma) {
				p.fail(diag.InvalidDestructuringTarget, p.curToken.Start, "Comma is not permitted after the rest element")
			}
			p.expect(close)
			p.ctx.allowIn = saved
			return elts
		default:
			elts = append(elts, p.parseMaybeDefault(p.curToken.Start, nil))
		}
	}
	p.ctx.allowIn = saved
	return elts
}

func (p *Parser) parseRestBinding() *ast.RestElement {
	start := p.curToken.Start
	p.expect(token.Spread)
	arg := p.parseBindingAtom()
	if p.curTokenIs(token.Assign) {
		p.fail(diag.InvalidDestructuringTarget, p.curToken.Start, "Rest elements cannot have a default value")
	}
	return finish(p, &ast.RestElement{Argument: arg}, start)
}

// parseMaybeDefault parses an optional `= default` after a binding target.
func (p *Parser) parseMaybeDefault(start int, left ast.Pattern) ast.Pattern {
	if left == nil {
		left = p.parseBindingAtom()
	}
	if !p.eat(token.Assign) {
		return left
	}
	right := p.parseMaybeAssign(nil)
	return finish(p, &ast.AssignmentPattern{Left: left, Right: right}, start)
}

// parseObjectPattern parses `{a, b: [c], ...d}` in binding position.
func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	start := p.curToken.Start
	p.expect(token.LeftBrace)
	saved := p.ctx.allowIn
	p.ctx.allowIn = true
	pat := &ast.ObjectPattern{Properties: []ast.Node{}}
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false

		if p.curTokenIs(token.Spread) {
			restStart := p.curToken.Start
			p.nextToken()
			arg := p.parseBindingIdentifier()
			if p.curTokenIs(token.Comma) {
				p.fail(diag.InvalidDestructuringTarget, p.curToken.Start, "Comma is not permitted after the rest element")
			}
			pat.Properties = append(pat.Properties, finish(p, &ast.RestElement{Argument: arg}, restStart))
			continue
		}

		propStart := p.curToken.Start
		prop := &ast.Property{Kind: "init"}
		keyTok := p.curToken
		prop.Key, prop.Computed = p.parsePropertyName()
		if p.eat(token.Colon) {
			prop.Value = p.parseMaybeDefault(p.curToken.Start, nil)
		} else {
			key, ok := prop.Key.(*ast.Identifier)
			if !ok || prop.Computed || keyTok.Type != token.Identifier {
				p.unexpected()
			}
			p.checkUnreserved(key, keyTok.Escaped)
			prop.Shorthand = true
			prop.Value = p.parseMaybeDefault(propStart, copyIdent(key))
		}
		pat.Properties = append(pat.Properties, finish(p, prop, propStart))
	}
	p.ctx.allowIn = saved
	return finish(p, pat, start)
}

func copyIdent(id *ast.Identifier) *ast.Identifier {
	c := *id
	return &c
}
