package testrunner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/parser"
)

func writeFiles(t *testing.T, files map[string]string) string {
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func parserTestsSuite(t *testing.T) string {
	return writeFiles(t, map[string]string{
		"pass/a.js":          "var a = 1\n",
		"pass-explicit/a.js": "var a = 1;",
		"pass/b.module.js":   "export default 1;",
		"pass/c.js":          "a\nb",
		"pass-explicit/c.js": "a;\nb;",
		"pass/d.js":          "a + b",
		"pass-explicit/d.js": "a - b",
		"fail/e.js":          "var 1;",
		"fail/f.js":          "var a;",
		"early/g.js":         "let a; let a;",
		"early/README.md":    "not a test",
	})
}

func resultsByPath(results []TestResult) map[string]TestResult {
	m := make(map[string]TestResult, len(results))
	for _, r := range results {
		m[r.Path] = r
	}
	return m
}

func TestDetectLayout(t *testing.T) {
	layout, err := DetectLayout(parserTestsSuite(t))
	require.NoError(t, err)
	assert.Equal(t, ParserTests, layout)

	layout, err = DetectLayout(writeFiles(t, map[string]string{"test/a.js": ""}))
	require.NoError(t, err)
	assert.Equal(t, Test262, layout)

	_, err = DetectLayout(t.TempDir())
	assert.Error(t, err)
}

func TestRunParserTests(t *testing.T) {
	dir := parserTestsSuite(t)
	results, summary, err := Run(context.Background(), Config{
		Dir:     dir,
		Workers: 2,
		Options: parser.Options{Lexical: true, Raw: true, Loc: true},
	})
	require.NoError(t, err)

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}
	assert.Equal(t, []string{
		"pass/a.js", "pass/b.module.js", "pass/c.js", "pass/d.js",
		"fail/e.js", "fail/f.js",
		"early/g.js",
	}, paths)

	byPath := resultsByPath(results)
	assert.Equal(t, Pass, byPath["pass/a.js"].Result)
	assert.Equal(t, Pass, byPath["pass/b.module.js"].Result, byPath["pass/b.module.js"].Message)
	assert.Equal(t, Pass, byPath["pass/c.js"].Result)
	assert.Equal(t, Fail, byPath["pass/d.js"].Result)
	assert.Contains(t, byPath["pass/d.js"].Message, "explicit")
	assert.Equal(t, Pass, byPath["fail/e.js"].Result)
	assert.Equal(t, Fail, byPath["fail/f.js"].Result)
	assert.Equal(t, "expected a syntax error", byPath["fail/f.js"].Message)
	assert.Equal(t, Pass, byPath["early/g.js"].Result)
	assert.Equal(t, diag.DuplicateBinding.String(), byPath["early/g.js"].Message)

	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 5, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Errors)
	assert.InDelta(t, 71.43, summary.PassRate(), 0.01)
}

func TestRunFilterLimitAndSkip(t *testing.T) {
	dir := parserTestsSuite(t)

	results, _, err := Run(context.Background(), Config{Dir: dir, Filter: "pass/"})
	require.NoError(t, err)
	assert.Len(t, results, 4)

	results, _, err = Run(context.Background(), Config{Dir: dir, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, summary, err := Run(context.Background(), Config{
		Dir:    dir,
		Filter: "fail/",
		Skip:   map[string]bool{"fail/f.js": true},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Skip, results[1].Result)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, float64(100), summary.PassRate())
}

func TestRunTest262(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"test/language/a.js": `/*---
description: invalid binding
negative:
  phase: parse
  type: SyntaxError
---*/
var 1;`,
		"test/language/b.js": `/*---
description: with is not allowed in strict code
negative:
  phase: parse
  type: SyntaxError
flags: [onlyStrict]
---*/
with (a) {}`,
		"test/language/c.js": `/*---
flags: [module]
---*/
export var x = 1;`,
		"test/language/d.js": `/*---
features: [decorators]
---*/
@dec class A {}`,
		"test/language/e_FIXTURE.js":"export var fixture;",
		"test/language/f.js": `/*---
negative:
  phase: runtime
  type: TypeError
---*/
null.x;`,
		"test/language/g.js": `/*---
description: yield is only reserved in strict code
---*/
var yield = 1;`,
		"test/language/h.js": `/*---
flags: [noStrict]
---*/
with (a) {}`,
	})

	results, summary, err := Run(context.Background(), Config{Dir: dir, Options: parser.Options{WebCompat: true}})
	require.NoError(t, err)
	require.Len(t, results, 10)

	byPath := resultsByPath(results)
	assert.Equal(t, Pass, byPath["test/language/a.js (sloppy)"].Result)
	assert.Equal(t, Pass, byPath["test/language/a.js (strict)"].Result)
	assert.Equal(t, Pass, byPath["test/language/b.js"].Result)
	assert.Equal(t, Pass, byPath["test/language/c.js"].Result)
	assert.Equal(t, Skip, byPath["test/language/d.js"].Result)
	assert.Equal(t, "unsupported feature: decorators", byPath["test/language/d.js"].Message)
	assert.Equal(t, Pass, byPath["test/language/f.js (sloppy)"].Result)
	assert.Equal(t, Pass, byPath["test/language/f.js (strict)"].Result)
	assert.NotContains(t, byPath, "test/language/e_FIXTURE.js")

	// files without a mode flag are also run as strict code
	assert.Equal(t, Pass, byPath["test/language/g.js (sloppy)"].Result)
	assert.Equal(t, Fail, byPath["test/language/g.js (strict)"].Result)
	assert.Equal(t, Pass, byPath["test/language/h.js"].Result)

	assert.Equal(t, Summary{Total: 10, Passed: 8, Failed: 1, Skipped: 1, Elapsed: summary.Elapsed}, summary)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Run(ctx, Config{Dir: parserTestsSuite(t)})
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "PASS", Pass.String())
	assert.Equal(t, "FAIL", Fail.String())
	assert.Equal(t, "SKIP", Skip.String())
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "UNKNOWN", Result(42).String())
}
