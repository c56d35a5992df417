package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
)

func TestClassMembers(t *testing.T) {
	src := `class A extends B {
  constructor() { super(); }
  static #count = 0;
  x;
  'quoted' = 1;
  [key]() {}
  get #v() { return this.#count }
  set #v(value) {}
  static async *gen() {}
  static { A.#count++; }
  static() {}
  async
  get() {}
}`
	prog := mustParse(t, src, Options{})
	require.Len(t, prog.Body, 1)
	class := prog.Body[0].(*ast.ClassDeclaration)
	assert.Equal(t, "A", class.ID.Name)
	assert.Equal(t, "B", class.SuperClass.(*ast.Identifier).Name)

	types := []string{}
	for _, el := range class.Body.Body {
		types = append(types, el.Type())
	}
	assert.Equal(t, []string{
		"MethodDefinition", "PropertyDefinition", "PropertyDefinition", "PropertyDefinition",
		"MethodDefinition", "MethodDefinition", "MethodDefinition", "MethodDefinition",
		"StaticBlock", "MethodDefinition", "PropertyDefinition", "MethodDefinition",
	}, types)
	require.Len(t, class.Body.Body, 12)

	ctor := class.Body.Body[0].(*ast.MethodDefinition)
	assert.Equal(t, "constructor", ctor.Kind)

	count := class.Body.Body[1].(*ast.PropertyDefinition)
	assert.True(t, count.Static)
	assert.Equal(t, "count", count.Key.(*ast.PrivateIdentifier).Name)

	assert.Nil(t, class.Body.Body[2].(*ast.PropertyDefinition).Value)
	assert.True(t, class.Body.Body[4].(*ast.MethodDefinition).Computed)
	assert.Equal(t, "get", class.Body.Body[5].(*ast.MethodDefinition).Kind)

	gen := class.Body.Body[7].(*ast.MethodDefinition)
	assert.True(t, gen.Static)
	assert.True(t, gen.Value.Async)
	assert.True(t, gen.Value.Generator)

	// a method named static, then a field named async before a method named get
	staticMethod := class.Body.Body[9].(*ast.MethodDefinition)
	assert.False(t, staticMethod.Static)
	assert.Equal(t, "static", staticMethod.Key.(*ast.Identifier).Name)
	assert.Equal(t, "async", class.Body.Body[10].(*ast.PropertyDefinition).Key.(*ast.Identifier).Name)
	assert.Equal(t, "get", class.Body.Body[11].(*ast.MethodDefinition).Key.(*ast.Identifier).Name)
}

func TestClassExpression(t *testing.T) {
	class := expr(t, "(class {})", Options{}).(*ast.ClassExpression)
	assert.Nil(t, class.ID)
	assert.Empty(t, class.Body.Body)

	e := parseErr(t, "class {}", Options{})
	assert.Equal(t, diag.UnexpectedToken, e.Kind)
}

func TestClassBodiesAreStrict(t *testing.T) {
	e := parseErr(t, "class A { m() { with (a) {} } }", Options{})
	assert.Equal(t, diag.StrictModeViolation, e.Kind)

	e = parseErr(t, "class A extends (function () { with (a) {} }) {}", Options{})
	assert.Equal(t, diag.StrictModeViolation, e.Kind)

	// the strictness ends with the class
	mustParse(t, "class A {} with (a) {}", Options{})
}

func TestClassErrors(t *testing.T) {
	for src, kind := range map[string]diag.Kind{
		"class A { constructor() {} constructor() {} }": diag.DuplicateConstructor,
		"class A { get constructor() {} }":              diag.InvalidClassMember,
		"class A { *constructor() {} }":                 diag.InvalidClassMember,
		"class A { async constructor() {} }":            diag.InvalidClassMember,
		"class A { constructor = 1 }":                   diag.InvalidClassMember,
		"class A { static prototype() {} }":             diag.InvalidClassMember,
		"class A { static prototype = 1 }":              diag.InvalidClassMember,
		"class A { #constructor() {} }":                 diag.InvalidClassMember,
		"class A { #x; #x; }":                           diag.DuplicatePrivateName,
		"class A { get #x() {} #x; }":                   diag.DuplicatePrivateName,
		"class A { static get #x() {} set #x(v) {} }":   diag.DuplicatePrivateName,
		"class A { m() { this.#y } }":                   diag.UndeclaredPrivateName,
		"this.#x":                                       diag.UndeclaredPrivateName,
		"class A { constructor() { super(); } }":        diag.IllegalSuper,
		"class A extends B { m() { super(); } }":        diag.IllegalSuper,
		"class A { x = arguments; }":                    diag.InvalidClassMember,
		"class A { static { await; } }":                 diag.IllegalAwait,
		"class A { static { return; } }":                diag.IllegalReturn,
		"class A { get x(a) {} }":                       diag.InvalidClassMember,
		"class A { set x() {} }":                        diag.InvalidClassMember,
		"class A { m() {} static { var m; let m; } }":   diag.DuplicateBinding,
	} {
		e := parseErr(t, src, Options{Lexical: true})
		assert.Equal(t, kind, e.Kind, "%s: %s", src, e.Message)
	}
}

func TestPrivateNames(t *testing.T) {
	// names may be used before their declaration and from nested classes
	mustParse(t, "class A { m() { return this.#x } #x = 1 }", Options{})
	mustParse(t, "class A { #x; m() { class B { n(o) { return o.#x } } } }", Options{})
	mustParse(t, "class A { get #x() {} set #x(v) {} }", Options{})
	mustParse(t, "class A { #x; static has(o) { return #x in o } }", Options{})

	chain := mustParse(t, "class A { #x; m(o) { o?.#x } }", Options{})
	class := chain.Body[0].(*ast.ClassDeclaration)
	body := class.Body.Body[1].(*ast.MethodDefinition).Value.Body.Body
	stmt := body[0].(*ast.ExpressionStatement)
	assert.IsType(t, &ast.ChainExpression{}, stmt.Expression)

	_, err := Parse("class A { #x; m() { #x } }", Options{})
	assert.Error(t, err)
	_, err = Parse("class A { #x; m() { 1 + #x in this } }", Options{})
	assert.Error(t, err)
}

func TestSuperProperty(t *testing.T) {
	mustParse(t, "class A { m() { return super.m() } }", Options{})
	mustParse(t, "({ m() { return super.x } })", Options{})
	mustParse(t, "class A extends B { constructor() { (() => super())() } }", Options{})
	mustParse(t, "class A { x = super.y }", Options{})

	for _, src := range []string{
		"function f() { super.x }",
		"({ m: function () { super.x } })",
		"super.x",
		"class A { m() { super } }",
	} {
		e := parseErr(t, src, Options{})
		assert.NotEqual(t, diag.Unknown, e.Kind, src)
	}
}
