package parser

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
)

func mustParse(t *testing.T, src string, opts Options) *ast.Program {
	t.Helper()
	prog, err := Parse(src, opts)
	require.NoError(t, err, src)
	require.NotNil(t, prog)
	return prog
}

func parseErr(t *testing.T, src string, opts Options) *diag.Error {
	t.Helper()
	prog, err := Parse(src, opts)
	require.Error(t, err, src)
	assert.Nil(t, prog)
	e, ok := diag.As(err)
	require.True(t, ok, "not a *diag.Error: %v", err)
	return e
}

// expr returns the expression of the only statement in src.
func expr(t *testing.T, src string, opts Options) ast.Expression {
	t.Helper()
	prog := mustParse(t, src, opts)
	require.Len(t, prog.Body, 1, src)
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok, "%T", prog.Body[0])
	return stmt.Expression
}

func TestProgramShape(t *testing.T) {
	prog := mustParse(t, "1 + 2", Options{})
	b, err := ast.Marshal(prog, ast.EncodeOptions{})
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"Program","body":[{"type":"ExpressionStatement","expression":`+
			`{"type":"BinaryExpression","operator":"+","left":{"type":"Literal","value":1},`+
			`"right":{"type":"Literal","value":2}}}],"sourceType":"script"}`,
		string(b))
}

func TestSourceType(t *testing.T) {
	assert.Equal(t, "script", mustParse(t, "", Options{}).SourceType)
	assert.Equal(t, "module", mustParse(t, "", Options{SourceType: Module}).SourceType)

	prog, err := ParseModule("export {}", Options{})
	require.NoError(t, err)
	assert.Equal(t, "module", prog.SourceType)

	_, err = ParseScript("export {}", Options{SourceType: Module})
	require.Error(t, err)
	assert.Equal(t, diag.ModuleSyntax, diag.KindOf(err))
}

func TestProgramRange(t *testing.T) {
	prog := mustParse(t, "  a;  ", Options{})
	assert.Equal(t, 0, prog.Start)
	assert.Equal(t, 6, prog.End)
	stmt := prog.Body[0].(*ast.ExpressionStatement)
	assert.Equal(t, 2, stmt.Start)
	assert.Equal(t, 4, stmt.End)
}

func TestDeeplyNestedParens(t *testing.T) {
	src := strings.Repeat("(", 50) + "x" + strings.Repeat(")", 50)
	id, ok := expr(t, src, Options{}).(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", id.Name)
	assert.Equal(t, 50, id.Start)
	assert.Equal(t, 51, id.End)
}

func TestLiteralValues(t *testing.T) {
	lit := expr(t, "0x1F", Options{Raw: true}).(*ast.Literal)
	assert.Equal(t, 31.0, lit.Value)
	assert.Equal(t, "0x1F", lit.Raw)

	lit = expr(t, "010", Options{}).(*ast.Literal)
	assert.Equal(t, 8.0, lit.Value)
	assert.Empty(t, lit.Raw)

	lit = expr(t, "'a\\nb'", Options{}).(*ast.Literal)
	assert.Equal(t, "a\nb", lit.Value)

	lit = expr(t, "10n", Options{}).(*ast.Literal)
	assert.Equal(t, "10", lit.BigInt)

	lit = expr(t, "null", Options{}).(*ast.Literal)
	assert.Nil(t, lit.Value)

	lit = expr(t, "true", Options{}).(*ast.Literal)
	assert.Equal(t, true, lit.Value)
}

func TestLegacyOctalInStrictCode(t *testing.T) {
	e := parseErr(t, "'use strict'; 010", Options{})
	assert.Equal(t, diag.StrictModeViolation, e.Kind)

	e = parseErr(t, "010", Options{SourceType: Module})
	assert.Equal(t, diag.StrictModeViolation, e.Kind)

	// a directive after an octal escape still makes the escape an error
	e = parseErr(t, "function f() { '\\01'; 'use strict'; }", Options{})
	assert.Equal(t, diag.StrictModeViolation, e.Kind)
}

func TestRegExpLiteral(t *testing.T) {
	assign := expr(t, "x = /a+[/]/g", Options{}).(*ast.AssignmentExpression)
	lit := assign.Right.(*ast.Literal)
	require.NotNil(t, lit.Regex)
	assert.Equal(t, "a+[/]", lit.Regex.Pattern)
	assert.Equal(t, "g", lit.Regex.Flags)

	div := expr(t, "a / b / c", Options{}).(*ast.BinaryExpression)
	assert.Equal(t, "/", div.Operator)
}

func TestDirectives(t *testing.T) {
	prog := mustParse(t, "'use strict'; 'other'\n1", Options{Directives: true})
	require.Len(t, prog.Body, 3)
	assert.Equal(t, "use strict", prog.Body[0].(*ast.ExpressionStatement).Directive)
	assert.Equal(t, "other", prog.Body[1].(*ast.ExpressionStatement).Directive)
	assert.Empty(t, prog.Body[2].(*ast.ExpressionStatement).Directive)

	prog = mustParse(t, "'use strict'", Options{})
	assert.Empty(t, prog.Body[0].(*ast.ExpressionStatement).Directive)

	// parenthesized strings are not directives
	prog = mustParse(t, "('use strict'); with (a) {}", Options{})
	assert.Len(t, prog.Body, 2)
}

func TestLocations(t *testing.T) {
	prog := mustParse(t, "a\n  bb", Options{Loc: true})
	require.Len(t, prog.Body, 2)
	second := prog.Body[1].(*ast.ExpressionStatement)
	require.NotNil(t, second.Loc)
	assert.Equal(t, ast.Position{Line: 2, Column: 2}, second.Loc.Start)
	assert.Equal(t, ast.Position{Line: 2, Column: 4}, second.Loc.End)

	prog = mustParse(t, "a", Options{})
	assert.Nil(t, prog.Loc)
}

func TestErrorPosition(t *testing.T) {
	e := parseErr(t, "a\n  +", Options{Source: "input.js"})
	assert.Equal(t, diag.UnexpectedEOF, e.Kind)
	assert.Equal(t, "input.js", e.Source)
	assert.Equal(t, 2, e.Line)
}

const rangeSample = `
'use strict';
import def, { a as b, c } from "mod";
export const [x, , ...y] = [1, 2, 3];
export default class K extends def {
  #p = 1;
  static s;
  static { this.s = K; }
  constructor(...args) { super(...args); }
  get #q() { return this.#p; }
  has(o) { return #p in o; }
  async *gen() { yield* await b; }
}
label: for (let i = 0; i < 10; i++) {
  if (i % 2) continue label; else break label;
}
for (const [k, v] of Object.entries({ a, ...c })) { k?.[v]?.(); }
for (var key in obj) ;
try { throw new Error(tag` + "`a${x}b`" + `); } catch ({ message }) {} finally {}
switch (x) { case 1: case 2: y = x ** 2; break; default: }
const f = async ({ p = 1 }, [q] = [], ...r) => ({ p, q, r }), g = function* () {};
do x--; while (x > 0)
import.meta ?? import("m");
`

func TestRangesNest(t *testing.T) {
	src := rangeSample
	prog := mustParse(t, src, Options{SourceType: Module, Loc: true})

	var walk func(parent ast.Node)
	count := 0
	walk = func(parent ast.Node) {
		ps := parent.Bounds()
		assert.LessOrEqual(t, ps.Start, ps.End, "%s", parent.Type())
		for _, child := range ast.Children(parent) {
			count++
			cs := child.Bounds()
			assert.GreaterOrEqual(t, cs.Start, ps.Start, "%s in %s", child.Type(), parent.Type())
			assert.LessOrEqual(t, cs.End, ps.End, "%s in %s", child.Type(), parent.Type())
			walk(child)
		}
	}
	walk(prog)
	assert.Greater(t, count, 100)
}

func TestOutputMatchesSchema(t *testing.T) {
	src := rangeSample
	prog := mustParse(t, src, Options{SourceType: Module, Loc: true, Raw: true})
	b, err := ast.Marshal(prog, ast.EncodeOptions{Ranges: true})
	require.NoError(t, err)

	abs, err := filepath.Abs(filepath.Join("..", "ast", "testdata", "estree.schema.json"))
	require.NoError(t, err)
	result, err := gojsonschema.Validate(
		gojsonschema.NewReferenceLoader("file://"+abs),
		gojsonschema.NewBytesLoader(b),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())
}

func TestParsingIsDeterministic(t *testing.T) {
	src := rangeSample
	opts := Options{SourceType: Module, Raw: true}
	a, err := ast.Marshal(mustParse(t, src, opts), ast.EncodeOptions{Ranges: true})
	require.NoError(t, err)
	b, err := ast.Marshal(mustParse(t, src, opts), ast.EncodeOptions{Ranges: true})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestNextGatedSyntax(t *testing.T) {
	src := `import j from "./a.json" with { type: "json" };`
	e := parseErr(t, src, Options{SourceType: Module})
	assert.Equal(t, diag.UnexpectedToken, e.Kind)

	prog := mustParse(t, src, Options{SourceType: Module, Next: true})
	imp := prog.Body[0].(*ast.ImportDeclaration)
	require.Len(t, imp.Attributes, 1)
	assert.Equal(t, "type", imp.Attributes[0].Key.(*ast.Identifier).Name)
	assert.Equal(t, "json", imp.Attributes[0].Value.Value)

	e = parseErr(t, `import j from "a" with { type: "json", type: "css" };`, Options{SourceType: Module, Next: true})
	assert.Equal(t, diag.DuplicateBinding, e.Kind)
}

func TestWebCompatHTMLComments(t *testing.T) {
	prog := mustParse(t, "<!-- hidden\na\n--> also hidden\nb", Options{WebCompat: true})
	assert.Len(t, prog.Body, 2)

	_, err := Parse("<!-- hidden\na", Options{})
	assert.Error(t, err)

	_, err = Parse("<!-- hidden\na", Options{WebCompat: true, SourceType: Module})
	assert.Error(t, err)
}

func TestGlobalReturn(t *testing.T) {
	e := parseErr(t, "return 1", Options{})
	assert.Equal(t, diag.IllegalReturn, e.Kind)

	prog := mustParse(t, "return 1", Options{GlobalReturn: true})
	_, ok := prog.Body[0].(*ast.ReturnStatement)
	assert.True(t, ok)
}

func TestImpliedStrict(t *testing.T) {
	mustParse(t, "with (a) b", Options{})
	e := parseErr(t, "with (a) b", Options{ImpliedStrict: true})
	assert.Equal(t, diag.StrictModeViolation, e.Kind)
}
