package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/cache"
	"github.com/SKalt/meriyah-sub000/parser"
)

func defaults() args {
	return args{Format: "json", Repeat: 1, CacheSize: cache.DefaultSize}
}

func TestOptions(t *testing.T) {
	a := defaults()
	a.Lexical = true
	opts, err := a.options("lib/a.js")
	require.NoError(t, err)
	assert.Equal(t, parser.Script, opts.SourceType)
	assert.True(t, opts.Lexical)
	assert.Equal(t, "lib/a.js", opts.Source)

	opts, err = a.options("lib/a.mjs")
	require.NoError(t, err)
	assert.Equal(t, parser.Module, opts.SourceType)

	a.SourceType = "module"
	opts, err = a.options("a.js")
	require.NoError(t, err)
	assert.Equal(t, parser.Module, opts.SourceType)

	a.SourceType = "commonjs"
	_, err = a.options("a.js")
	assert.Error(t, err)
}

func TestRunWritesInOrder(t *testing.T) {
	var stdout, stderr bytes.Buffer
	sources := []source{
		{name: "one.js", text: "a"},
		{name: "bad.js", text: "var 1"},
		{name: "two.js", text: "b"},
	}
	failed, err := run(context.Background(), defaults(), sources, parser.Parse, &stdout, &stderr, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"name":"a"`)
	assert.Contains(t, lines[1], `"name":"b"`)
	assert.True(t, strings.HasPrefix(stderr.String(), "bad.js:1:"), stderr.String())
}

func TestRunJSONMatchesEncoder(t *testing.T) {
	a := defaults()
	a.Ranges = true
	a.Indent = "  "
	var stdout bytes.Buffer
	_, err := run(context.Background(), a, []source{{name: "x.js", text: "x = 1"}}, parser.Parse, &stdout, &bytes.Buffer{}, zap.NewNop())
	require.NoError(t, err)

	prog, err := parser.Parse("x = 1", parser.Options{Source: "x.js"})
	require.NoError(t, err)
	want, err := ast.Marshal(prog, ast.EncodeOptions{Ranges: true, Indent: "  "})
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", stdout.String())
}

func TestFormats(t *testing.T) {
	for format, want := range map[string]string{
		"tree":      "Program\n  ExpressionStatement\n    BinaryExpression +\n",
		"positions": "Program[0...5]\n",
		"go":        "&ast.Program{",
	} {
		a := defaults()
		a.Format = format
		var stdout bytes.Buffer
		_, err := run(context.Background(), a, []source{{name: "s.js", text: "1 + 2"}}, parser.Parse, &stdout, &bytes.Buffer{}, zap.NewNop())
		require.NoError(t, err, format)
		assert.Contains(t, stdout.String(), want, format)
	}

	_, err := newRenderer("yaml")
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	a := defaults()
	a.Tokens = true
	var stdout, stderr bytes.Buffer
	failed, err := run(context.Background(), a, []source{{name: "t.js", text: "let x = 1\ny"}}, parser.Parse, &stdout, &stderr, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, failed)
	out := stdout.String()
	assert.Contains(t, out, "identifier")
	assert.Contains(t, out, `"x"`)
	assert.Contains(t, out, "nl")

	stdout.Reset()
	failed, err = run(context.Background(), a, []source{{name: "t.js", text: `"unterminated`}}, parser.Parse, &stdout, &stderr, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Contains(t, stderr.String(), "t.js:")
}

func TestRepeatReportsTimes(t *testing.T) {
	a := defaults()
	a.Repeat = 3
	a.Quiet = true
	c, err := cache.New(4)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	_, err = run(context.Background(), a, []source{{name: "r.js", text: "f(1)"}}, c.Parse, &stdout, &stderr, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Parse time for r.js (3 runs):")
	assert.Contains(t, stderr.String(), "Median:")
	hits, misses := c.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}
