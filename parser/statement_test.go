package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
)

func TestVariableDeclarations(t *testing.T) {
	prog := mustParse(t, "var a = 1, b; let [c] = d; const { e } = f;", Options{})
	require.Len(t, prog.Body, 3)
	v := prog.Body[0].(*ast.VariableDeclaration)
	assert.Equal(t, "var", v.Kind)
	require.Len(t, v.Declarations, 2)
	assert.Nil(t, v.Declarations[1].Init)
	assert.Equal(t, 0, v.Start)
	assert.Equal(t, 13, v.End)

	assert.Equal(t, "let", prog.Body[1].(*ast.VariableDeclaration).Kind)
	c := prog.Body[2].(*ast.VariableDeclaration)
	assert.Equal(t, "const", c.Kind)
	assert.IsType(t, &ast.ObjectPattern{}, c.Declarations[0].ID)

	e := parseErr(t, "const a;", Options{})
	assert.Equal(t, diag.MissingInitializer, e.Kind)
	e = parseErr(t, "let [a];", Options{})
	assert.Equal(t, diag.MissingInitializer, e.Kind)
}

func TestLetAsIdentifier(t *testing.T) {
	prog := mustParse(t, "let = 1; let\nfoo", Options{})
	require.Len(t, prog.Body, 2)
	assert.IsType(t, &ast.ExpressionStatement{}, prog.Body[0])
	decl := prog.Body[1].(*ast.VariableDeclaration)
	assert.Equal(t, "let", decl.Kind)

	// in an if branch let followed by a newline is an identifier
	prog = mustParse(t, "if (a) let\nfoo", Options{})
	assert.Len(t, prog.Body, 2)

	e := parseErr(t, "let let = 1", Options{})
	assert.Equal(t, diag.ReservedWord, e.Kind)
}

func TestLexicalRedeclaration(t *testing.T) {
	for _, src := range []string{
		"let a; let a;",
		"let a; var a;",
		"const a = 1; function a() {}",
		"{ let a; var a; }",
		"try {} catch ([e]) { var e; }",
		"function f(a) { let a; }",
	} {
		e := parseErr(t, src, Options{Lexical: true})
		assert.Equal(t, diag.DuplicateBinding, e.Kind, src)
		mustParse(t, src, Options{})
	}

	for _, src := range []string{
		"var a; var a;",
		"function a() {} function a() {}",
		"try {} catch (e) { var e; }",
		"{ let a; } { let a; }",
		"let a; { let a; }",
		"function f(a) { var a; }",
	} {
		mustParse(t, src, Options{Lexical: true})
	}

	e := parseErr(t, "'use strict'; { function a() {} function a() {} }", Options{Lexical: true})
	assert.Equal(t, diag.DuplicateBinding, e.Kind)
}

func TestParameterStrictness(t *testing.T) {
	for src, kind := range map[string]diag.Kind{
		"function f(eval) { 'use strict' }":      diag.StrictModeViolation,
		"function eval() { 'use strict' }":       diag.StrictModeViolation,
		"function f(a, a) { 'use strict' }":      diag.DuplicateBinding,
		"function f(a = 1) { 'use strict' }":     diag.StrictParams,
		"function f({ a }) { 'use strict' }":     diag.StrictParams,
		"'use strict'; function f(a, a) {}":      diag.DuplicateBinding,
		"'use strict'; function f(arguments) {}": diag.StrictModeViolation,
		"function f(a, [a]) {}":                  diag.DuplicateBinding,
	} {
		e := parseErr(t, src, Options{})
		assert.Equal(t, kind, e.Kind, "%s: %s", src, e.Message)
	}

	mustParse(t, "function f(a, a) {}", Options{})
	mustParse(t, "function f(eval) {}", Options{})
	mustParse(t, "function f() { 'use strict' } eval = 1", Options{})
}

func TestFunctionShapes(t *testing.T) {
	prog := mustParse(t, "async function* f(a, ...b) { await a; yield b }", Options{})
	fn := prog.Body[0].(*ast.FunctionDeclaration)
	assert.True(t, fn.Async)
	assert.True(t, fn.Generator)
	assert.Equal(t, "f", fn.ID.Name)
	require.Len(t, fn.Params, 2)
	assert.IsType(t, &ast.RestElement{}, fn.Params[1])

	fe := expr(t, "(function g() {})", Options{}).(*ast.FunctionExpression)
	assert.Equal(t, "g", fe.ID.Name)

	e := parseErr(t, "function () {}", Options{})
	assert.Equal(t, diag.UnexpectedToken, e.Kind)

	e = parseErr(t, "function f(...a,) {}", Options{})
	assert.NotEqual(t, diag.Unknown, e.Kind)
}

func TestControlFlow(t *testing.T) {
	src := `
if (a) b; else if (c) d; else { e }
while (x) { break; }
do { continue } while (y)
for (;;) {}
for (let i = 0, j; i < 1; i++) ;
for (x in y) ;
for (const [k] of m) ;
switch (v) { case 1: f(); default: g(); case 2: }
try { h() } catch { } finally { }
try { h() } catch (err) { }
throw new Error("x")
with (o) p;
debugger;
`
	prog := mustParse(t, src, Options{})
	types := make([]string, 0, len(prog.Body))
	for _, stmt := range prog.Body {
		types = append(types, stmt.Type())
	}
	assert.Equal(t, []string{
		"IfStatement", "WhileStatement", "DoWhileStatement", "ForStatement", "ForStatement",
		"ForInStatement", "ForOfStatement", "SwitchStatement", "TryStatement", "TryStatement",
		"ThrowStatement", "WithStatement", "DebuggerStatement",
	}, types)

	sw := prog.Body[7].(*ast.SwitchStatement)
	require.Len(t, sw.Cases, 3)
	assert.Nil(t, sw.Cases[1].Test)
	assert.Empty(t, sw.Cases[2].Consequent)

	try := prog.Body[8].(*ast.TryStatement)
	assert.Nil(t, try.Handler.Param)
	assert.NotNil(t, try.Finalizer)
}

func TestForAwait(t *testing.T) {
	prog := mustParse(t, "async function f() { for await (const x of y) ; }", Options{})
	loop := prog.Body[0].(*ast.FunctionDeclaration).Body.Body[0].(*ast.ForOfStatement)
	assert.True(t, loop.Await)

	prog = mustParse(t, "for await (x of y) ;", Options{SourceType: Module})
	assert.True(t, prog.Body[0].(*ast.ForOfStatement).Await)

	_, err := Parse("for await (x of y) ;", Options{})
	assert.Error(t, err)
	_, err = Parse("async function f() { for await (x in y) ; }", Options{})
	assert.Error(t, err)
}

func TestForHeads(t *testing.T) {
	for src, kind := range map[string]diag.Kind{
		"for (let a = 1 of b) ;":               diag.InvalidForLoop,
		"for (let a, b of c) ;":                diag.UnexpectedToken,
		"for (const a of b, c) ;":              diag.UnexpectedToken,
		"for (a + b of c) ;":                   diag.InvalidAssignmentTarget,
		"'use strict'; for (var a = 1 in b) ;": diag.InvalidForLoop,
	} {
		_, err := Parse(src, Options{})
		require.Error(t, err, src)
		assert.Equal(t, kind, diag.KindOf(err), "%s: %v", src, err)
	}

	// annex B keeps var initializers in sloppy for-in
	mustParse(t, "for (var a = 1 in b) ;", Options{WebCompat: true})
	_, err := Parse("for (var a = 1 in b) ;", Options{})
	assert.Error(t, err)
	mustParse(t, "for (x in a, b) ;", Options{})
	mustParse(t, "for (let in x) ;", Options{})
	mustParse(t, "for (x of [1, 2]) ;", Options{})
	mustParse(t, "for ((x) in y) ;", Options{})

	_, err = Parse("for (let of x) ;", Options{})
	assert.Error(t, err)
	_, err = Parse("for (async of x) ;", Options{})
	assert.Error(t, err)
	mustParse(t, "for (async of => x; ;) break;", Options{})
}

func TestLabelsAndJumps(t *testing.T) {
	prog := mustParse(t, "outer: for (;;) { inner: while (1) { break outer; continue outer; } }", Options{})
	labeled := prog.Body[0].(*ast.LabeledStatement)
	assert.Equal(t, "outer", labeled.Label.Name)

	mustParse(t, "a: { break a; }", Options{})
	mustParse(t, "a: b: c: ;", Options{})
	mustParse(t, "a: ; a: ;", Options{})

	for src, kind := range map[string]diag.Kind{
		"break;":                                 diag.IllegalBreak,
		"continue;":                              diag.IllegalContinue,
		"a: { continue a; }":                     diag.IllegalContinue,
		"while (1) { continue foo; }":            diag.IllegalContinue,
		"while (1) { break foo; }":               diag.IllegalBreak,
		"a: a: ;":                                diag.DuplicateLabel,
		"a: { a: ; }":                            diag.DuplicateLabel,
		"while (1) { (function () { break; }) }": diag.IllegalBreak,
		"return 1":                               diag.IllegalReturn,
	} {
		e := parseErr(t, src, Options{})
		assert.Equal(t, kind, e.Kind, "%s: %s", src, e.Message)
	}
}

func TestNewlineRestrictions(t *testing.T) {
	e := parseErr(t, "throw\n1", Options{})
	assert.Equal(t, diag.NewlineRestriction, e.Kind)

	prog := mustParse(t, "function f() { return\n1 }", Options{})
	body := prog.Body[0].(*ast.FunctionDeclaration).Body.Body
	require.Len(t, body, 2)
	assert.Nil(t, body[0].(*ast.ReturnStatement).Argument)

	prog = mustParse(t, "a: while (1) { break\na }", Options{})
	loop := prog.Body[0].(*ast.LabeledStatement).Body.(*ast.WhileStatement)
	stmts := loop.Body.(*ast.BlockStatement).Body
	require.Len(t, stmts, 2)
	assert.Nil(t, stmts[0].(*ast.BreakStatement).Label)
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	prog := mustParse(t, "a\nb\n;c", Options{})
	assert.Len(t, prog.Body, 3)

	prog = mustParse(t, "do x; while (y) z", Options{})
	assert.Len(t, prog.Body, 2)

	prog = mustParse(t, "{ a } b", Options{})
	assert.Len(t, prog.Body, 2)

	for _, src := range []string{"a b", "if (a) b c", "for (a\nb) ;", "var a = 1 2"} {
		e := parseErr(t, src, Options{})
		assert.Equal(t, diag.UnexpectedToken, e.Kind, src)
	}
}

func TestSloppyOnlyStatements(t *testing.T) {
	mustParse(t, "if (a) function f() {}", Options{WebCompat: true})
	mustParse(t, "a: function f() {}", Options{WebCompat: true})

	for _, src := range []string{
		"'use strict'; if (a) function f() {}",
		"'use strict'; a: function f() {}",
		"while (1) function f() {}",
		"if (a) function* g() {}",
		"if (a) class C {}",
		"if (a) let [b] = c;",
		"while (1) const a = 1;",
	} {
		_, err := Parse(src, Options{WebCompat: true})
		assert.Error(t, err, src)
	}

	for _, src := range []string{"if (a) function f() {}", "a: function f() {}"} {
		e := parseErr(t, src, Options{})
		assert.Equal(t, diag.UnexpectedToken, e.Kind)
		assert.Contains(t, e.Message, "web-compatible sloppy mode", src)
		assert.NotContains(t, e.Message, "strict", src)
	}

	e := parseErr(t, "if (a) function f() {}", Options{ImpliedStrict: true, WebCompat: true})
	assert.Contains(t, e.Message, "In strict mode code")

	e = parseErr(t, "while (1) function f() {}", Options{WebCompat: true})
	assert.NotContains(t, e.Message, "strict")
}

func TestCatchParameters(t *testing.T) {
	prog := mustParse(t, "try {} catch ({ message, stack: [top] }) {}", Options{})
	param := prog.Body[0].(*ast.TryStatement).Handler.Param
	assert.IsType(t, &ast.ObjectPattern{}, param)

	e := parseErr(t, "try {} catch ([a, a]) {}", Options{})
	assert.Equal(t, diag.DuplicateBinding, e.Kind)

	e = parseErr(t, "try {} catch (e) { let e; }", Options{Lexical: true})
	assert.Equal(t, diag.DuplicateBinding, e.Kind)
}
