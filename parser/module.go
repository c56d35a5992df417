package parser

import (
	"unicode/utf8"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

// ---------- Imports ----------

func (p *Parser) parseImport() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	decl := &ast.ImportDeclaration{Specifiers: []ast.ModuleSpecifier{}}
	if !p.curTokenIs(token.String) {
		decl.Specifiers = p.parseImportSpecifiers()
		p.expectContextual("from")
	}
	decl.Source = p.parseModuleSource()
	decl.Attributes = p.parseImportAttributes()
	p.semicolon()
	return finish(p, decl, start)
}

func (p *Parser) parseModuleSource() *ast.Literal {
	if !p.curTokenIs(token.String) {
		p.unexpected()
	}
	return p.parseLiteral()
}

// parseImportLocal parses and declares an imported binding.
func (p *Parser) parseImportLocal() *ast.Identifier {
	local := p.parseBindingIdentifier()
	p.checkLValSimple(local, bindLexical, nil)
	return local
}

func (p *Parser) parseImportSpecifiers() []ast.ModuleSpecifier {
	specs := []ast.ModuleSpecifier{}
	if p.curTokenIs(token.Identifier) {
		start := p.curToken.Start
		local := p.parseImportLocal()
		specs = append(specs, finish(p, &ast.ImportDefaultSpecifier{Local: local}, start))
		if !p.eat(token.Comma) {
			return specs
		}
	}
	if p.curTokenIs(token.Asterisk) {
		start := p.curToken.Start
		p.nextToken()
		p.expectContextual("as")
		local := p.parseImportLocal()
		return append(specs, finish(p, &ast.ImportNamespaceSpecifier{Local: local}, start))
	}

	p.expect(token.LeftBrace)
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false

		start := p.curToken.Start
		importedTok := p.curToken
		imported := p.parseModuleExportName()
		var local *ast.Identifier
		if p.eatContextual("as") {
			local = p.parseBindingIdentifier()
		} else {
			id, ok := imported.(*ast.Identifier)
			if !ok {
				p.unexpected()
			}
			p.checkUnreserved(id, importedTok.Escaped)
			local = copyIdent(id)
		}
		p.checkLValSimple(local, bindLexical, nil)
		specs = append(specs, finish(p, &ast.ImportSpecifier{Imported: imported, Local: local}, start))
	}
	return specs
}

// parseModuleExportName parses an IdentifierName or a string literal
// naming an import or export.
func (p *Parser) parseModuleExportName() ast.Node {
	if !p.curTokenIs(token.String) {
		return p.parseIdent(true)
	}
	lit := p.parseLiteral()
	if !utf8.ValidString(lit.Value.(string)) {
		p.fail(diag.InvalidIdentifier, lit.Start, "An export name cannot include a lone surrogate")
	}
	return lit
}

// parseImportAttributes parses an optional `with { type: "json" }` clause.
// Without the Next option it returns nil and `with` is left in place.
func (p *Parser) parseImportAttributes() []*ast.ImportAttribute {
	if !p.opts.Next {
		return nil
	}
	attrs := []*ast.ImportAttribute{}
	if !p.eat(token.With) {
		return attrs
	}
	p.expect(token.LeftBrace)
	seen := map[string]bool{}
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false

		start := p.curToken.Start
		attr := &ast.ImportAttribute{}
		var name string
		if p.curTokenIs(token.String) {
			lit := p.parseLiteral()
			attr.Key, name = lit, lit.Value.(string)
		} else {
			id := p.parseIdent(true)
			attr.Key, name = id, id.Name
		}
		if seen[name] {
			p.fail(diag.DuplicateBinding, start, "Duplicate attribute key '%s'", name)
		}
		seen[name] = true
		p.expect(token.Colon)
		attr.Value = p.parseModuleSource()
		attrs = append(attrs, finish(p, attr, start))
	}
	return attrs
}

// ---------- Exports ----------

func exportName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.Literal:
		s, _ := n.Value.(string)
		return s
	}
	return ""
}

// checkExport records an exported name and rejects duplicates.
func (p *Parser) checkExport(name string, pos int) {
	if p.exports[name] {
		p.fail(diag.DuplicateExport, pos, "Duplicate export of '%s'", name)
	}
	p.exports[name] = true
}

// checkLocalExport remembers a local export whose binding is not declared
// yet. It is resolved when the module ends.
func (p *Parser) checkLocalExport(id *ast.Identifier) {
	if !p.opts.Lexical {
		return
	}
	top := p.scopes[0]
	if !top.lexical[id.Name] && !top.vars[id.Name] && !top.functions[id.Name] {
		p.undefinedExports[id.Name] = id
	}
}

// checkUndefinedExports fails on the first local export that was never
// declared.
func (p *Parser) checkUndefinedExports() {
	var first *ast.Identifier
	for _, id := range p.undefinedExports {
		if first == nil || id.Start < first.Start {
			first = id
		}
	}
	if first != nil {
		p.fail(diag.UndefinedExport, first.Start, "Export '%s' is not defined", first.Name)
	}
}

func (p *Parser) shouldParseExportStatement() bool {
	switch p.curToken.Type {
	case token.Var, token.Const, token.Class, token.Function:
		return true
	}
	return p.isLet(ctxList) || p.isAsyncFunction()
}

func (p *Parser) parseExport() ast.Statement {
	start := p.curToken.Start
	p.nextToken()

	if p.eat(token.Asterisk) {
		all := &ast.ExportAllDeclaration{}
		if p.isContextual("as") {
			if !p.opts.Next {
				p.unexpected()
			}
			p.nextToken()
			all.Exported = p.parseModuleExportName()
			p.checkExport(exportName(all.Exported), all.Exported.Bounds().Start)
		}
		p.expectContextual("from")
		all.Source = p.parseModuleSource()
		all.Attributes = p.parseImportAttributes()
		p.semicolon()
		return finish(p, all, start)
	}

	if p.curTokenIs(token.Default) {
		p.checkExport("default", p.curToken.Start)
		p.nextToken()
		decl := p.parseExportDefault()
		return finish(p, &ast.ExportDefaultDeclaration{Declaration: decl}, start)
	}

	named := &ast.ExportNamedDeclaration{Specifiers: []ast.ModuleSpecifier{}}
	if p.shouldParseExportStatement() {
		named.Declaration = p.parseStatement(ctxList, true)
		switch d := named.Declaration.(type) {
		case *ast.VariableDeclaration:
			for _, decl := range d.Declarations {
				for _, id := range boundNames(nil, decl.ID) {
					p.checkExport(id.Name, id.Start)
				}
			}
		case *ast.FunctionDeclaration:
			p.checkExport(d.ID.Name, d.ID.Start)
		case *ast.ClassDeclaration:
			p.checkExport(d.ID.Name, d.ID.Start)
		}
		return finish(p, named, start)
	}

	named.Specifiers = p.parseExportSpecifiers()
	if p.eatContextual("from") {
		named.Source = p.parseModuleSource()
		named.Attributes = p.parseImportAttributes()
	} else {
		for _, s := range named.Specifiers {
			spec := s.(*ast.ExportSpecifier)
			local, ok := spec.Local.(*ast.Identifier)
			if !ok {
				p.fail(diag.ModuleSyntax, spec.Local.Bounds().Start,
					"A string literal cannot be used as an exported binding without `from`")
			}
			p.checkUnreserved(local, false)
			p.checkLocalExport(local)
		}
	}
	p.semicolon()
	return finish(p, named, start)
}

func (p *Parser) parseExportDefault() ast.Node {
	start := p.curToken.Start
	switch {
	case p.curTokenIs(token.Function), p.isAsyncFunction():
		async := !p.curTokenIs(token.Function)
		p.nextToken()
		if async {
			p.nextToken()
		}
		return p.parseFunction(start, async, funcDefault)
	case p.curTokenIs(token.Class):
		return p.parseClass(start, true, true)
	}
	expr := p.parseMaybeAssignIn()
	p.semicolon()
	return expr
}

func (p *Parser) parseExportSpecifiers() []ast.ModuleSpecifier {
	p.expect(token.LeftBrace)
	specs := []ast.ModuleSpecifier{}
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false

		start := p.curToken.Start
		spec := &ast.ExportSpecifier{Local: p.parseModuleExportName()}
		if p.eatContextual("as") {
			spec.Exported = p.parseModuleExportName()
		} else {
			spec.Exported = copyExportName(spec.Local)
		}
		p.checkExport(exportName(spec.Exported), spec.Exported.Bounds().Start)
		specs = append(specs, finish(p, spec, start))
	}
	return specs
}

func copyExportName(n ast.Node) ast.Node {
	switch n := n.(type) {
	case *ast.Identifier:
		return copyIdent(n)
	case *ast.Literal:
		c := *n
		return &c
	}
	return n
}
