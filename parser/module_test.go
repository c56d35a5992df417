package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
)

var moduleGoal = Options{SourceType: Module}

func TestImportForms(t *testing.T) {
	src := `import "side-effect";
import a from "a";
import * as ns from "ns";
import b, { c, d as e, default as f, "string name" as g } from "b";
import h, * as i from "h";
`
	prog := mustParse(t, src, moduleGoal)
	require.Len(t, prog.Body, 5)

	bare := prog.Body[0].(*ast.ImportDeclaration)
	assert.Empty(t, bare.Specifiers)
	assert.Equal(t, "side-effect", bare.Source.Value)

	assert.IsType(t, &ast.ImportDefaultSpecifier{}, prog.Body[1].(*ast.ImportDeclaration).Specifiers[0])
	assert.IsType(t, &ast.ImportNamespaceSpecifier{}, prog.Body[2].(*ast.ImportDeclaration).Specifiers[0])

	named := prog.Body[3].(*ast.ImportDeclaration).Specifiers
	require.Len(t, named, 5)
	c := named[1].(*ast.ImportSpecifier)
	assert.Equal(t, "c", c.Imported.(*ast.Identifier).Name)
	assert.Equal(t, "c", c.Local.Name)
	assert.NotSame(t, c.Imported, c.Local)
	assert.Equal(t, "default", named[3].(*ast.ImportSpecifier).Imported.(*ast.Identifier).Name)
	assert.Equal(t, "string name", named[4].(*ast.ImportSpecifier).Imported.(*ast.Literal).Value)

	assert.Len(t, prog.Body[4].(*ast.ImportDeclaration).Specifiers, 2)
}

func TestImportErrors(t *testing.T) {
	for src, kind := range map[string]diag.Kind{
		`import { default } from "a"`:        diag.ReservedWord,
		`import { "s" } from "a"`:            diag.UnexpectedToken,
		`import a, b from "a"`:               diag.UnexpectedToken,
		`import a from b`:                    diag.UnexpectedToken,
		`{ import a from "a" }`:              diag.ModuleSyntax,
		`function f() { import a from "a" }`: diag.ModuleSyntax,
		`import { a as eval } from "a"`:      diag.StrictModeViolation,
	} {
		e := parseErr(t, src, moduleGoal)
		assert.Equal(t, kind, e.Kind, "%s: %s", src, e.Message)
	}

	e := parseErr(t, `import a from "a"; import a from "b"`, Options{SourceType: Module, Lexical: true})
	assert.Equal(t, diag.DuplicateBinding, e.Kind)

	e = parseErr(t, `import a from "a"`, Options{})
	assert.Equal(t, diag.ModuleSyntax, e.Kind)
}

func TestExportForms(t *testing.T) {
	src := `export var v = 1;
export let [l1, l2] = [];
export const c = 2;
export function f() {}
export async function af() {}
export class K {}
export { v as w, c as "string name" };
export { x as default2, y } from "m";
export * from "all";
export default function () {}
`
	prog := mustParse(t, src, moduleGoal)
	require.Len(t, prog.Body, 10)

	fn := prog.Body[3].(*ast.ExportNamedDeclaration)
	assert.IsType(t, &ast.FunctionDeclaration{}, fn.Declaration)
	assert.Empty(t, fn.Specifiers)
	assert.Nil(t, fn.Source)

	local := prog.Body[6].(*ast.ExportNamedDeclaration)
	require.Len(t, local.Specifiers, 2)
	spec := local.Specifiers[1].(*ast.ExportSpecifier)
	assert.Equal(t, "c", spec.Local.(*ast.Identifier).Name)
	assert.Equal(t, "string name", spec.Exported.(*ast.Literal).Value)

	reexport := prog.Body[7].(*ast.ExportNamedDeclaration)
	assert.Equal(t, "m", reexport.Source.Value)

	all := prog.Body[8].(*ast.ExportAllDeclaration)
	assert.Nil(t, all.Exported)

	def := prog.Body[9].(*ast.ExportDefaultDeclaration)
	anon := def.Declaration.(*ast.FunctionDeclaration)
	assert.Nil(t, anon.ID)
}

func TestExportDefaultForms(t *testing.T) {
	for src, typ := range map[string]string{
		"export default class {}":             "ClassDeclaration",
		"export default class A {}":           "ClassDeclaration",
		"export default async function () {}": "FunctionDeclaration",
		"export default 1 + 2;":               "BinaryExpression",
		"export default (class {});":          "ClassExpression",
		"export default async () => {};":      "ArrowFunctionExpression",
	} {
		prog := mustParse(t, src, moduleGoal)
		def := prog.Body[0].(*ast.ExportDefaultDeclaration)
		assert.Equal(t, typ, def.Declaration.Type(), src)
	}
}

func TestExportNamespaceAs(t *testing.T) {
	e := parseErr(t, `export * as ns from "m"`, moduleGoal)
	assert.Equal(t, diag.UnexpectedToken, e.Kind)

	prog := mustParse(t, `export * as ns from "m"`, Options{SourceType: Module, Next: true})
	all := prog.Body[0].(*ast.ExportAllDeclaration)
	assert.Equal(t, "ns", all.Exported.(*ast.Identifier).Name)
}

func TestDuplicateExports(t *testing.T) {
	for _, src := range []string{
		"export { a as b, c as b }",
		"export default 1; export default 2;",
		"export var a; export function a() {}",
		"export const [x, x2] = []; export { y as x }",
		`export { a as "b" }; export { c as b }`,
		`export * as m from "m"; export { a as m }`,
	} {
		e := parseErr(t, src, Options{SourceType: Module, Next: true})
		assert.Equal(t, diag.DuplicateExport, e.Kind, "%s: %s", src, e.Message)
	}
}

func TestLexicalExportChecks(t *testing.T) {
	src := "let a; export function a(){};"
	e := parseErr(t, src, Options{SourceType: Module, Lexical: true})
	assert.Equal(t, diag.DuplicateBinding, e.Kind)

	prog := mustParse(t, src, moduleGoal)
	require.Len(t, prog.Body, 3)
	assert.IsType(t, &ast.VariableDeclaration{}, prog.Body[0])
	assert.IsType(t, &ast.ExportNamedDeclaration{}, prog.Body[1])
	assert.IsType(t, &ast.EmptyStatement{}, prog.Body[2])

	// exports may precede their declarations
	mustParse(t, "export { a, b }; var a; function b() {}", Options{SourceType: Module, Lexical: true})

	e = parseErr(t, "export { missing, other }", Options{SourceType: Module, Lexical: true})
	assert.Equal(t, diag.UndefinedExport, e.Kind)
	assert.Equal(t, 9, e.Offset)

	// names bound only in nested scopes do not count
	e = parseErr(t, "export { a }; { let a; }", Options{SourceType: Module, Lexical: true})
	assert.Equal(t, diag.UndefinedExport, e.Kind)

	mustParse(t, "export { missing }", moduleGoal)
	mustParse(t, `export { missing } from "m"`, Options{SourceType: Module, Lexical: true})
}

func TestExportErrors(t *testing.T) {
	for _, src := range []string{
		`export { "a" }`,
		"export { default }",
		"export default var a = 1",
		"export let",
		"export async () => {}",
		"{ export var a }",
	} {
		_, err := Parse(src, moduleGoal)
		assert.Error(t, err, src)
	}
	e := parseErr(t, `export { "a" }`, moduleGoal)
	assert.Equal(t, diag.ModuleSyntax, e.Kind)
}

func TestModuleCodeIsStrict(t *testing.T) {
	for src, kind := range map[string]diag.Kind{
		"with (a) {}":         diag.StrictModeViolation,
		"var package":         diag.ReservedWord,
		"var await":           diag.IllegalAwait,
		"delete a":            diag.StrictModeViolation,
		"eval = 1":            diag.StrictModeViolation,
		"<!-- comment":        diag.UnexpectedToken,
		"function f(a, a) {}": diag.DuplicateBinding,
	} {
		e := parseErr(t, src, Options{SourceType: Module, WebCompat: true})
		assert.Equal(t, kind, e.Kind, "%s: %s", src, e.Message)
	}
}
