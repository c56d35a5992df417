package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/lexer"
	"github.com/SKalt/meriyah-sub000/token"
)

// ---------- Sequences and assignment ----------

func (p *Parser) parseExpression() ast.Expression {
	return p.parseExpressionCover(nil)
}

func (p *Parser) parseExpressionCover(cover *coverInfo) ast.Expression {
	start := p.curToken.Start
	expr := p.parseMaybeAssign(cover)
	if !p.curTokenIs(token.Comma) {
		return expr
	}
	seq := &ast.SequenceExpression{Expressions: []ast.Expression{expr}}
	for p.eat(token.Comma) {
		seq.Expressions = append(seq.Expressions, p.parseMaybeAssign(cover))
	}
	return finish(p, seq, start)
}

// parseExpressionIn parses an expression where `in` is always an operator,
// as between brackets or parentheses.
func (p *Parser) parseExpressionIn() ast.Expression {
	saved := p.ctx.allowIn
	p.ctx.allowIn = true
	expr := p.parseExpression()
	p.ctx.allowIn = saved
	return expr
}

func (p *Parser) parseMaybeAssignIn() ast.Expression {
	saved := p.ctx.allowIn
	p.ctx.allowIn = true
	expr := p.parseMaybeAssign(nil)
	p.ctx.allowIn = saved
	return expr
}

// parseMaybeAssign parses an AssignmentExpression. cover collects the
// errors of an enclosing literal; when nil, the expression owns its errors
// and reports them once it is known not to be a pattern.
func (p *Parser) parseMaybeAssign(cover *coverInfo) ast.Expression {
	if p.ctx.inGenerator && p.isContextual("yield") {
		return p.parseYield()
	}

	own := false
	oldTrailing, oldDoubleProto := -1, -1
	if cover != nil {
		oldTrailing, oldDoubleProto = cover.trailingComma, cover.doubleProto
		cover.trailingComma = -1
	} else {
		cover = newCoverInfo()
		own = true
	}

	start := p.curToken.Start
	if p.curTokenIs(token.LeftParen) || p.curTokenIs(token.Identifier) {
		p.potentialArrowAt = start
	}
	left := p.parseMaybeConditional(cover)

	if p.curToken.Type.IsAssign() {
		op := p.curToken.Raw
		var target ast.Pattern
		if p.curTokenIs(token.Assign) {
			target = p.toAssignable(left, false, cover)
		}
		if !own {
			cover.trailingComma, cover.doubleProto = -1, -1
		}
		if cover.shorthandAssign >= left.Bounds().Start {
			cover.shorthandAssign = -1
		}
		if target != nil {
			p.checkLValPattern(target, bindNone, nil)
		} else {
			p.checkLValSimple(left, bindNone, nil)
			target = left.(ast.Pattern)
		}
		p.nextToken()
		right := p.parseMaybeAssign(nil)
		if oldDoubleProto >= 0 {
			cover.doubleProto = oldDoubleProto
		}
		return finish(p, &ast.AssignmentExpression{Operator: op, Left: target, Right: right}, start)
	}
	if own {
		p.checkExpressionErrors(cover, true)
	}
	if oldTrailing >= 0 {
		cover.trailingComma = oldTrailing
	}
	return left
}

func (p *Parser) parseMaybeConditional(cover *coverInfo) ast.Expression {
	start := p.curToken.Start
	expr := p.parseExprOps(cover)
	if p.checkExpressionErrors(cover, false) {
		return expr
	}
	// an unparenthesized arrow cannot be the test of a conditional
	if _, ok := expr.(*ast.ArrowFunctionExpression); ok && expr.Bounds().Start == start {
		return expr
	}
	if !p.eat(token.QuestionMark) {
		return expr
	}
	cons := p.parseMaybeAssignIn()
	p.expect(token.Colon)
	alt := p.parseMaybeAssign(nil)
	return finish(p, &ast.ConditionalExpression{Test: expr, Consequent: cons, Alternate: alt}, start)
}

// ---------- Binary operators ----------

func (p *Parser) parseExprOps(cover *coverInfo) ast.Expression {
	start := p.curToken.Start
	expr := p.parseMaybeUnary(cover, false, false)
	if p.checkExpressionErrors(cover, false) {
		return expr
	}
	if _, ok := expr.(*ast.ArrowFunctionExpression); ok && expr.Bounds().Start == start {
		return expr
	}
	return p.parseExprOp(expr, start, -1)
}

// parseExprOp is an operator precedence climber over the binary operators
// above minPrec.
func (p *Parser) parseExprOp(left ast.Expression, leftStart, minPrec int) ast.Expression {
	tt := p.curToken.Type
	prec := tt.Precedence()
	if prec == token.LowestPrec || prec <= minPrec || (tt == token.In && !p.ctx.allowIn) {
		return left
	}
	logical := tt == token.Or || tt == token.And
	coalesce := tt == token.NullishCoalesce
	if coalesce {
		prec = token.LogicalAndPrec
	}
	op := p.curToken.Raw
	p.nextToken()
	start := p.curToken.Start
	right := p.parseExprOp(p.parseMaybeUnary(nil, false, false), start, prec)
	node := p.buildBinary(leftStart, left, right, op, logical || coalesce)
	if logical && p.curTokenIs(token.NullishCoalesce) ||
		coalesce && (p.curTokenIs(token.Or) || p.curTokenIs(token.And)) {
		p.fail(diag.MixedCoalesce, p.curToken.Start,
			"Logical expressions and coalesce expressions cannot be mixed. Wrap either by parentheses")
	}
	return p.parseExprOp(node, leftStart, minPrec)
}

func (p *Parser) buildBinary(start int, left, right ast.Expression, op string, logical bool) ast.Expression {
	if _, ok := right.(*ast.PrivateIdentifier); ok {
		p.fail(diag.UnexpectedToken, right.Bounds().Start, "Private identifier can only be left side of binary expression")
	}
	if logical {
		return finish(p, &ast.LogicalExpression{Operator: op, Left: left, Right: right}, start)
	}
	return finish(p, &ast.BinaryExpression{Operator: op, Left: left, Right: right}, start)
}

// ---------- Unary operators ----------

func isPrefix(tt token.TokenType) bool {
	switch tt {
	case token.Not, token.BitwiseNot, token.Plus, token.Minus, token.Typeof, token.Void,
		token.Delete, token.Increment, token.Decrement:
		return true
	}
	return false
}

// parseMaybeUnary parses unary, update, await and exponent expressions.
// sawUnary is set when a prefix operator applies to the result, which makes
// a following ** ambiguous; incDec stops the operand of ++/-- from taking
// the exponent.
func (p *Parser) parseMaybeUnary(cover *coverInfo, sawUnary, incDec bool) ast.Expression {
	start := p.curToken.Start
	var expr ast.Expression
	switch {
	case p.ctx.inAsync && p.isContextual("await"):
		expr = p.parseAwait()
		sawUnary = true
	case isPrefix(p.curToken.Type):
		tt := p.curToken.Type
		op := p.curToken.Raw
		update := tt == token.Increment || tt == token.Decrement
		p.nextToken()
		arg := p.parseMaybeUnary(nil, true, update)
		p.checkExpressionErrors(cover, true)
		if update {
			p.checkLValSimple(arg, bindNone, nil)
			expr = finish(p, &ast.UpdateExpression{Operator: op, Argument: arg, Prefix: true}, start)
			break
		}
		if tt == token.Delete {
			p.checkDelete(arg)
		}
		sawUnary = true
		expr = finish(p, &ast.UnaryExpression{Operator: op, Argument: arg, Prefix: true}, start)
	case !sawUnary && p.curTokenIs(token.PrivateName):
		if !p.ctx.allowIn || len(p.classes) == 0 {
			p.unexpected()
		}
		expr = p.parsePrivateIdent()
		if !p.curTokenIs(token.In) {
			p.unexpected()
		}
	default:
		expr = p.parseExprSubscripts(cover)
		if p.checkExpressionErrors(cover, false) {
			return expr
		}
		for (p.curTokenIs(token.Increment) || p.curTokenIs(token.Decrement)) && !p.canInsertSemicolon() {
			p.checkLValSimple(expr, bindNone, nil)
			op := p.curToken.Raw
			p.nextToken()
			expr = finish(p, &ast.UpdateExpression{Operator: op, Argument: expr}, start)
		}
	}

	if incDec || !p.curTokenIs(token.Exponent) {
		return expr
	}
	if sawUnary {
		p.fail(diag.AmbiguousExponent, p.curToken.Start,
			"Unary operator used immediately before exponentiation expression. Parenthesis must be used to disambiguate operator precedence")
	}
	p.nextToken()
	right := p.parseMaybeUnary(nil, false, false)
	return p.buildBinary(start, expr, right, "**", false)
}

func (p *Parser) checkDelete(arg ast.Expression) {
	switch arg := arg.(type) {
	case *ast.Identifier:
		if p.ctx.strict {
			p.fail(diag.StrictModeViolation, arg.Start, "Delete of an unqualified identifier in strict mode.")
		}
	case *ast.MemberExpression:
		if _, ok := arg.Property.(*ast.PrivateIdentifier); ok {
			p.fail(diag.InvalidClassMember, arg.Property.Bounds().Start, "Private fields can not be deleted")
		}
	case *ast.ChainExpression:
		p.checkDelete(arg.Expression)
	}
}

func (p *Parser) parseAwait() ast.Expression {
	start := p.curToken.Start
	if p.awaitPos == 0 {
		p.awaitPos = start
	}
	p.nextToken()
	arg := p.parseMaybeUnary(nil, true, false)
	return finish(p, &ast.AwaitExpression{Argument: arg}, start)
}

// startsExpr reports whether tt can begin an expression.
func startsExpr(tt token.TokenType) bool {
	switch tt {
	case token.Identifier, token.PrivateName, token.Number, token.BigInt, token.String,
		token.Slash, token.SlashAssign, token.NoSubstitutionTemplate, token.TemplateHead,
		token.LeftParen, token.LeftBracket, token.LeftBrace,
		token.Plus, token.Minus, token.Not, token.BitwiseNot, token.Increment, token.Decrement,
		token.This, token.Super, token.Function, token.Class, token.New, token.Null,
		token.True, token.False, token.Typeof, token.Void, token.Delete, token.Import:
		return true
	}
	return false
}

func (p *Parser) parseYield() ast.Expression {
	start := p.curToken.Start
	if p.yieldPos == 0 {
		p.yieldPos = start
	}
	p.nextToken()
	y := &ast.YieldExpression{}
	if !p.curTokenIs(token.Semicolon) && !p.canInsertSemicolon() &&
		(p.curTokenIs(token.Asterisk) || startsExpr(p.curToken.Type)) {
		y.Delegate = p.eat(token.Asterisk)
		y.Argument = p.parseMaybeAssign(nil)
	}
	return finish(p, y, start)
}

// ---------- Calls and member access ----------

func (p *Parser) parseExprSubscripts(cover *coverInfo) ast.Expression {
	start := p.curToken.Start
	expr := p.parseExprAtom(cover, false)
	if arrow, ok := expr.(*ast.ArrowFunctionExpression); ok && p.prevType != token.RightParen {
		return arrow
	}
	return p.parseSubscripts(expr, start, false)
}

func (p *Parser) parseSubscripts(base ast.Expression, start int, noCalls bool) ast.Expression {
	id, isIdent := base.(*ast.Identifier)
	maybeAsyncArrow := isIdent && id.Name == "async" && p.prevEnd == id.End &&
		!p.canInsertSemicolon() && id.End-id.Start == len("async") && p.potentialArrowAt == id.Start
	chained := false
	for {
		element, optional := p.parseSubscript(base, start, noCalls, maybeAsyncArrow, chained)
		if optional {
			chained = true
		}
		_, isArrow := element.(*ast.ArrowFunctionExpression)
		if element == base || isArrow {
			if chained {
				return finish(p, &ast.ChainExpression{Expression: element}, start)
			}
			return element
		}
		base = element
	}
}

func (p *Parser) isTemplateStart() bool {
	return p.curTokenIs(token.NoSubstitutionTemplate) || p.curTokenIs(token.TemplateHead)
}

// parseSubscript parses one member access, call or tagged template on
// base. It returns base itself when no subscript follows.
func (p *Parser) parseSubscript(base ast.Expression, start int, noCalls, maybeAsyncArrow, chained bool) (ast.Expression, bool) {
	optional := p.eat(token.OptionalChain)
	if noCalls && optional {
		p.fail(diag.UnexpectedToken, p.prevEnd-2, "Invalid optional chain from new expression")
	}

	computed := p.eat(token.LeftBracket)
	if computed || (optional && !p.curTokenIs(token.LeftParen) && !p.isTemplateStart()) || p.eat(token.Dot) {
		m := &ast.MemberExpression{Object: base, Computed: computed, Optional: optional}
		switch {
		case computed:
			m.Property = p.parseExpressionIn()
			p.expect(token.RightBracket)
		case p.curTokenIs(token.PrivateName):
			if _, ok := base.(*ast.Super); ok {
				p.unexpected()
			}
			m.Property = p.parsePrivateIdent()
		default:
			m.Property = p.parseIdent(true)
		}
		return finish(p, m, start), optional
	}

	if !noCalls && p.eat(token.LeftParen) {
		cover := newCoverInfo()
		oldYield, oldAwait, oldAwaitIdent := p.yieldPos, p.awaitPos, p.awaitIdentPos
		p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
		args := p.parseExprList(token.RightParen, true, false, cover)
		if maybeAsyncArrow && !optional && !p.canInsertSemicolon() && p.curTokenIs(token.Arrow) {
			p.nextToken()
			p.checkPatternErrors(cover)
			p.checkYieldAwaitInDefaultParams()
			if p.awaitIdentPos > 0 {
				p.fail(diag.IllegalAwait, p.awaitIdentPos, "Cannot use 'await' as identifier inside an async function")
			}
			p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYield, oldAwait, oldAwaitIdent
			return p.parseArrowExpression(start, expressionNodes(args), true), false
		}
		p.checkExpressionErrors(cover, true)
		if oldYield != 0 {
			p.yieldPos = oldYield
		}
		if oldAwait != 0 {
			p.awaitPos = oldAwait
		}
		if oldAwaitIdent != 0 {
			p.awaitIdentPos = oldAwaitIdent
		}
		return finish(p, &ast.CallExpression{Callee: base, Arguments: args, Optional: optional}, start), optional
	}

	if p.isTemplateStart() {
		if optional || chained {
			p.fail(diag.UnexpectedToken, p.curToken.Start, "Invalid tagged template on optional chain")
		}
		quasi := p.parseTemplate(true)
		return finish(p, &ast.TaggedTemplateExpression{Tag: base, Quasi: quasi}, start), false
	}
	return base, false
}

func expressionNodes(exprs []ast.Expression) []ast.Node {
	nodes := make([]ast.Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}

// parseExprList parses comma separated expressions up to close. Holes are
// nil and only allowed in array literals.
func (p *Parser) parseExprList(close token.TokenType, allowTrailingComma, allowEmpty bool, cover *coverInfo) []ast.Expression {
	saved := p.ctx.allowIn
	p.ctx.allowIn = true
	elts := []ast.Expression{}
	first := true
	for !p.eat(close) {
		if !first {
			p.expect(token.Comma)
			if allowTrailingComma && p.afterTrailingComma(close) {
				break
			}
		}
		first = false

		switch {
		case allowEmpty && p.curTokenIs(token.Comma):
			elts = append(elts, nil)
		case p.curTokenIs(token.Spread):
			elts = append(elts, p.parseSpread(cover))
			if cover != nil && p.curTokenIs(token.Comma) && cover.trailingComma < 0 {
				cover.trailingComma = p.curToken.Start
			}
		default:
			elts = append(elts, p.parseMaybeAssign(cover))
		}
	}
	p.ctx.allowIn = saved
	return elts
}

func (p *Parser) parseSpread(cover *coverInfo) *ast.SpreadElement {
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseMaybeAssign(cover)
	return finish(p, &ast.SpreadElement{Argument: arg}, start)
}

// ---------- Primary expressions ----------

func (p *Parser) parseExprAtom(cover *coverInfo, forNew bool) ast.Expression {
	tok := p.curToken
	start := tok.Start
	canBeArrow := p.potentialArrowAt == start

	switch tok.Type {
	case token.Super:
		p.nextToken()
		if p.curTokenIs(token.LeftParen) {
			if !p.ctx.allowSuperCall {
				p.fail(diag.IllegalSuper, start, "'super' keyword unexpected here")
			}
		} else if !p.ctx.allowSuperProperty {
			p.fail(diag.IllegalSuper, start, "'super' keyword outside a method")
		}
		if !p.curTokenIs(token.Dot) && !p.curTokenIs(token.LeftBracket) && !p.curTokenIs(token.LeftParen) {
			p.unexpected()
		}
		return finish(p, &ast.Super{}, start)

	case token.This:
		p.nextToken()
		return finish(p, &ast.ThisExpression{}, start)

	case token.Identifier:
		id := p.parseIdent(false)
		isAsync := id.Name == "async" && !tok.Escaped
		if isAsync && !p.canInsertSemicolon() && p.curTokenIs(token.Function) {
			p.nextToken()
			return p.parseFunction(start, true, funcExpression).(ast.Expression)
		}
		if canBeArrow && !p.canInsertSemicolon() {
			if p.eat(token.Arrow) {
				return p.parseArrowExpression(start, []ast.Node{id}, false)
			}
			if isAsync && p.curTokenIs(token.Identifier) {
				param := p.parseIdent(false)
				if p.canInsertSemicolon() || !p.eat(token.Arrow) {
					p.unexpected()
				}
				return p.parseArrowExpression(start, []ast.Node{param}, true)
			}
		}
		return id

	case token.Slash, token.SlashAssign:
		p.curToken = p.l.ScanRegExp(p.curToken)
		p.checkToken()
		tok = p.curToken
		p.nextToken()
		lit := &ast.Literal{Regex: &ast.RegExpValue{Pattern: tok.Pattern, Flags: tok.Flags}}
		if p.opts.Raw {
			lit.Raw = tok.Raw
		}
		return finish(p, lit, start)

	case token.Number, token.BigInt, token.String:
		return p.parseLiteral()

	case token.Null, token.True, token.False:
		p.nextToken()
		lit := &ast.Literal{}
		if tok.Type != token.Null {
			lit.Value = tok.Type == token.True
		}
		if p.opts.Raw {
			lit.Raw = tok.Raw
		}
		return finish(p, lit, start)

	case token.LeftParen:
		return p.parseParenAndDistinguish(canBeArrow)

	case token.LeftBracket:
		p.nextToken()
		elements := p.parseExprList(token.RightBracket, true, true, cover)
		return finish(p, &ast.ArrayExpression{Elements: elements}, start)

	case token.LeftBrace:
		return p.parseObjectLiteral(cover)

	case token.Function:
		p.nextToken()
		return p.parseFunction(start, false, funcExpression).(ast.Expression)

	case token.Class:
		return p.parseClass(start, false, false).(ast.Expression)

	case token.New:
		return p.parseNew()

	case token.NoSubstitutionTemplate, token.TemplateHead:
		return p.parseTemplate(false)

	case token.Import:
		return p.parseExprImport(forNew)
	}
	p.unexpected()
	return nil
}

// parseIdent parses an identifier. A liberal parse accepts any
// IdentifierName, as after a dot; otherwise reserved words are rejected.
func (p *Parser) parseIdent(liberal bool) *ast.Identifier {
	tok := p.curToken
	if tok.Type != token.Identifier && !(liberal && tok.Type.IsKeyword()) {
		p.unexpected()
	}
	p.nextToken()
	id := finish(p, &ast.Identifier{Name: tok.Literal}, tok.Start)
	if !liberal {
		p.checkUnreserved(id, tok.Escaped)
		if id.Name == "await" && p.awaitIdentPos == 0 {
			p.awaitIdentPos = tok.Start
		}
	}
	return id
}

// parsePrivateIdent parses a #name reference. It is resolved against the
// enclosing class bodies once they are complete.
func (p *Parser) parsePrivateIdent() *ast.PrivateIdentifier {
	tok := p.curToken
	p.nextToken()
	id := finish(p, &ast.PrivateIdentifier{Name: tok.Literal}, tok.Start)
	if len(p.classes) == 0 {
		p.fail(diag.UndeclaredPrivateName, tok.Start,
			"Private field '#%s' must be declared in an enclosing class", id.Name)
	}
	pn := p.classes[len(p.classes)-1]
	pn.used = append(pn.used, id)
	return id
}

func (p *Parser) parseLiteral() *ast.Literal {
	tok := p.curToken
	p.nextToken()
	lit := &ast.Literal{}
	switch tok.Type {
	case token.Number:
		if tok.LegacyOctal && p.ctx.strict {
			p.fail(diag.StrictModeViolation, tok.Start, "Octal literals are not allowed in strict mode")
		}
		lit.Value = tok.Value
	case token.BigInt:
		lit.BigInt = tok.Literal
	case token.String:
		if tok.LegacyOctal && p.ctx.strict {
			p.fail(diag.StrictModeViolation, tok.Start, "Octal escape sequences are not allowed in strict mode")
		}
		lit.Value = tok.Literal
	default:
		p.unexpectedAt(tok)
	}
	if p.opts.Raw {
		lit.Raw = tok.Raw
	}
	return finish(p, lit, tok.Start)
}

// parseParenAndDistinguish parses `( ... )` once and decides afterwards
// whether it was an arrow head or a parenthesized expression.
func (p *Parser) parseParenAndDistinguish(canBeArrow bool) ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	saved := p.ctx.allowIn
	p.ctx.allowIn = true

	innerStart := p.curToken.Start
	var items []ast.Node
	first := true
	trailingComma := false
	spreadStart := -1
	cover := newCoverInfo()
	oldYield, oldAwait := p.yieldPos, p.awaitPos
	p.yieldPos, p.awaitPos = 0, 0

	for !p.curTokenIs(token.RightParen) {
		if first {
			first = false
		} else {
			p.expect(token.Comma)
		}
		if p.curTokenIs(token.RightParen) {
			trailingComma = true
			break
		}
		if p.curTokenIs(token.Spread) {
			spreadStart = p.curToken.Start
			items = append(items, p.parseRestBinding())
			if p.curTokenIs(token.Comma) {
				p.fail(diag.InvalidArrowParams, p.curToken.Start, "Comma is not permitted after the rest element")
			}
			break
		}
		items = append(items, p.parseMaybeAssign(cover))
	}
	innerEnd := p.prevEnd
	closeTok := p.curToken
	p.expect(token.RightParen)
	p.ctx.allowIn = saved

	if canBeArrow && !p.canInsertSemicolon() && p.curTokenIs(token.Arrow) {
		p.nextToken()
		p.checkPatternErrors(cover)
		p.checkYieldAwaitInDefaultParams()
		p.yieldPos, p.awaitPos = oldYield, oldAwait
		return p.parseArrowExpression(start, items, false)
	}

	if len(items) == 0 || trailingComma {
		p.unexpectedAt(closeTok)
	}
	if spreadStart >= 0 {
		p.fail(diag.UnexpectedToken, spreadStart, "Unexpected token '...'")
	}
	p.checkExpressionErrors(cover, true)
	if oldYield != 0 {
		p.yieldPos = oldYield
	}
	if oldAwait != 0 {
		p.awaitPos = oldAwait
	}

	var val ast.Expression
	if len(items) > 1 {
		seq := &ast.SequenceExpression{Expressions: make([]ast.Expression, len(items))}
		for i, item := range items {
			seq.Expressions[i] = item.(ast.Expression)
		}
		val = finishAt(p, seq, innerStart, innerEnd)
	} else {
		val = items[0].(ast.Expression)
	}
	p.parenthesized[val] = true
	return val
}

func (p *Parser) parseNew() ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	if p.eat(token.Dot) {
		meta := finishAt(p, &ast.Identifier{Name: "new"}, start, start+len("new"))
		propTok := p.curToken
		prop := p.parseIdent(true)
		if prop.Name != "target" || propTok.Escaped {
			p.fail(diag.UnexpectedToken, propTok.Start, "The only valid meta property for new is 'new.target'")
		}
		if !p.ctx.allowNewTarget {
			p.fail(diag.IllegalNewTarget, start, "new.target expression is not allowed here")
		}
		return finish(p, &ast.MetaProperty{Meta: meta, Property: prop}, start)
	}
	calleeStart := p.curToken.Start
	callee := p.parseSubscripts(p.parseExprAtom(nil, true), calleeStart, true)
	args := []ast.Expression{}
	if p.eat(token.LeftParen) {
		args = p.parseExprList(token.RightParen, true, false, nil)
	}
	return finish(p, &ast.NewExpression{Callee: callee, Arguments: args}, start)
}

// parseExprImport parses import(...) and import.meta.
func (p *Parser) parseExprImport(forNew bool) ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	switch {
	case p.curTokenIs(token.LeftParen) && !forNew:
		p.nextToken()
		imp := &ast.ImportExpression{Source: p.parseMaybeAssignIn()}
		if p.curTokenIs(token.Comma) {
			if !p.opts.Next {
				p.unexpected()
			}
			p.nextToken()
			if !p.curTokenIs(token.RightParen) {
				imp.Options = p.parseMaybeAssignIn()
				p.eat(token.Comma)
			}
		}
		p.expect(token.RightParen)
		return finish(p, imp, start)
	case p.curTokenIs(token.Dot):
		p.nextToken()
		meta := finishAt(p, &ast.Identifier{Name: "import"}, start, start+len("import"))
		propTok := p.curToken
		prop := p.parseIdent(true)
		if prop.Name != "meta" || propTok.Escaped {
			p.fail(diag.UnexpectedToken, propTok.Start, "The only valid meta property for import is 'import.meta'")
		}
		if p.opts.SourceType != Module {
			p.fail(diag.ModuleSyntax, start, "Cannot use 'import.meta' outside a module")
		}
		return finish(p, &ast.MetaProperty{Meta: meta, Property: prop}, start)
	}
	p.unexpected()
	return nil
}

// ---------- Templates ----------

func (p *Parser) parseTemplate(tagged bool) *ast.TemplateLiteral {
	start := p.curToken.Start
	lit := &ast.TemplateLiteral{Quasis: []*ast.TemplateElement{}, Expressions: []ast.Expression{}}
	for {
		tok := p.curToken
		lit.Quasis = append(lit.Quasis, p.templateElement(tok, tagged))
		p.nextToken()
		if tok.Type == token.NoSubstitutionTemplate || tok.Type == token.TemplateTail {
			break
		}
		lit.Expressions = append(lit.Expressions, p.parseExpressionIn())
		if !p.curTokenIs(token.RightBrace) {
			p.unexpected()
		}
		p.curToken = p.l.ScanTemplateContinuation(p.curToken)
		p.checkToken()
	}
	return finish(p, lit, start)
}

// templateElement builds the quasi for one template part. Its range covers
// the characters between the delimiters.
func (p *Parser) templateElement(tok token.Token, tagged bool) *ast.TemplateElement {
	el := &ast.TemplateElement{
		Value: ast.TemplateValue{Raw: lexer.TemplateRaw(tok)},
		Tail:  tok.Type == token.NoSubstitutionTemplate || tok.Type == token.TemplateTail,
	}
	if tok.BadEscape >= 0 {
		if !tagged {
			p.fail(diag.InvalidEscape, tok.BadEscape, "Invalid escape sequence in template")
		}
	} else {
		cooked := tok.Literal
		el.Value.Cooked = &cooked
	}
	end := tok.End - len("`")
	if !el.Tail {
		end = tok.End - len("${")
	}
	return finishAt(p, el, tok.Start+1, end)
}

// ---------- Object literals ----------

func (p *Parser) parseObjectLiteral(cover *coverInfo) *ast.ObjectExpression {
	start := p.curToken.Start
	p.nextToken()
	saved := p.ctx.allowIn
	p.ctx.allowIn = true

	obj := &ast.ObjectExpression{Properties: []ast.Node{}}
	hasProto := false
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false

		prop := p.parseProperty(cover)
		if pr, ok := prop.(*ast.Property); ok && isProtoInit(pr) {
			if hasProto {
				if cover == nil {
					p.fail(diag.DuplicateProto, pr.Key.Bounds().Start, "Redefinition of __proto__ property")
				}
				if cover.doubleProto < 0 {
					cover.doubleProto = pr.Key.Bounds().Start
				}
			}
			hasProto = true
		}
		obj.Properties = append(obj.Properties, prop)
	}
	p.ctx.allowIn = saved
	return finish(p, obj, start)
}

func isProtoInit(prop *ast.Property) bool {
	if prop.Computed || prop.Method || prop.Shorthand || prop.Kind != "init" {
		return false
	}
	return isKeyName(prop.Key, false, "__proto__")
}

// isKeyName reports whether a non-computed key spells name.
func isKeyName(key ast.Expression, computed bool, name string) bool {
	if computed {
		return false
	}
	switch key := key.(type) {
	case *ast.Identifier:
		return key.Name == name
	case *ast.Literal:
		s, ok := key.Value.(string)
		return ok && s == name
	}
	return false
}

func (p *Parser) isPropertyNameStart() bool {
	switch p.curToken.Type {
	case token.Identifier, token.String, token.Number, token.BigInt, token.LeftBracket, token.Asterisk:
		return true
	}
	return p.curToken.Type.IsKeyword()
}

func (p *Parser) parseProperty(cover *coverInfo) ast.Node {
	start := p.curToken.Start
	if p.curTokenIs(token.Spread) {
		spread := p.parseSpread(cover)
		if cover != nil && p.curTokenIs(token.Comma) && cover.trailingComma < 0 {
			cover.trailingComma = p.curToken.Start
		}
		return spread
	}

	prop := &ast.Property{Kind: "init"}
	generator := p.eat(token.Asterisk)
	keyTok := p.curToken
	prop.Key, prop.Computed = p.parsePropertyName()
	async := false
	if !generator && !prop.Computed && isPlainWord(keyTok, "async") &&
		p.isPropertyNameStart() && !p.curToken.NewlineBefore {
		async = true
		generator = p.eat(token.Asterisk)
		keyTok = p.curToken
		prop.Key, prop.Computed = p.parsePropertyName()
	}

	switch {
	case (generator || async) && p.curTokenIs(token.Colon):
		p.unexpected()
	case p.eat(token.Colon):
		prop.Value = p.parseMaybeAssign(cover)
	case p.curTokenIs(token.LeftParen):
		prop.Method = true
		prop.Value = p.parseMethod(generator, async, false)
	case !prop.Computed && (isPlainWord(keyTok, "get") || isPlainWord(keyTok, "set")) &&
		!p.curTokenIs(token.Comma) && !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.Assign):
		if generator || async {
			p.unexpected()
		}
		prop.Kind = keyTok.Literal
		prop.Key, prop.Computed = p.parsePropertyName()
		fn := p.parseMethod(false, false, false)
		p.checkAccessorParams(prop.Kind, fn)
		prop.Value = fn
	case !prop.Computed && keyTok.Type == token.Identifier:
		if generator || async {
			p.unexpected()
		}
		key := prop.Key.(*ast.Identifier)
		p.checkUnreserved(key, keyTok.Escaped)
		if key.Name == "await" && p.awaitIdentPos == 0 {
			p.awaitIdentPos = key.Start
		}
		prop.Shorthand = true
		if p.curTokenIs(token.Assign) && cover != nil {
			if cover.shorthandAssign < 0 {
				cover.shorthandAssign = p.curToken.Start
			}
			prop.Value = p.parseMaybeDefault(start, copyIdent(key))
		} else {
			prop.Value = copyIdent(key)
		}
	default:
		p.unexpected()
	}
	return finish(p, prop, start)
}

// isPlainWord reports an unescaped identifier token spelling word.
func isPlainWord(tok token.Token, word string) bool {
	return tok.Type == token.Identifier && tok.Literal == word && !tok.Escaped
}

// parsePropertyName parses an object or class member key.
func (p *Parser) parsePropertyName() (ast.Expression, bool) {
	switch p.curToken.Type {
	case token.LeftBracket:
		p.nextToken()
		key := p.parseMaybeAssignIn()
		p.expect(token.RightBracket)
		return key, true
	case token.String, token.Number, token.BigInt:
		return p.parseLiteral(), false
	}
	return p.parseIdent(true), false
}

func (p *Parser) checkAccessorParams(kind string, fn *ast.FunctionExpression) {
	switch kind {
	case "get":
		if len(fn.Params) != 0 {
			p.fail(diag.InvalidClassMember, fn.Start, "Getter must not have any formal parameters")
		}
	case "set":
		if len(fn.Params) != 1 {
			p.fail(diag.InvalidClassMember, fn.Start, "Setter must have exactly one formal parameter")
		}
		if _, ok := fn.Params[0].(*ast.RestElement); ok {
			p.fail(diag.InvalidClassMember, fn.Params[0].Bounds().Start,
				"Setter function argument must not be a rest parameter")
		}
	}
}
