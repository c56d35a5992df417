// Package testrunner checks the parser against conformance suites: a
// tc39/test262-parser-tests checkout (pass, pass-explicit, fail and early
// directories) or a full test262 checkout whose files carry YAML
// frontmatter.
package testrunner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/parser"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

// PassRate is the percentage of passing tests among those not skipped.
func (s Summary) PassRate() float64 {
	run := s.Total - s.Skipped
	if run == 0 {
		return 0
	}
	return float64(s.Passed) / float64(run) * 100
}

// Layout is the directory structure of a suite.
type Layout int

const (
	// ParserTests is tc39/test262-parser-tests.
	ParserTests Layout = iota
	// Test262 is tc39/test262 with frontmatter metadata.
	Test262
)

func (l Layout) String() string {
	if l == Test262 {
		return "test262"
	}
	return "test262-parser-tests"
}

// DetectLayout inspects dir and reports which suite it holds.
func DetectLayout(dir string) (Layout, error) {
	if info, err := os.Stat(filepath.Join(dir, "pass")); err == nil && info.IsDir() {
		return ParserTests, nil
	}
	if info, err := os.Stat(filepath.Join(dir, "test")); err == nil && info.IsDir() {
		return Test262, nil
	}
	return ParserTests, errors.Errorf("%s is neither a test262-parser-tests nor a test262 checkout", dir)
}

// DefaultTimeout bounds a single parse.
const DefaultTimeout = 5 * time.Second

type Config struct {
	Dir     string
	Filter  string // substring of the path relative to Dir
	Limit   int    // 0 runs everything
	Workers int    // 0 uses GOMAXPROCS
	Timeout time.Duration

	// Options is the base parser configuration. SourceType and
	// ImpliedStrict are set per test.
	Options parser.Options
	// Skip lists paths, relative to Dir, that are not run.
	Skip map[string]bool

	Logger *zap.Logger
}

// testCase is one file to parse and the outcome it expects.
type testCase struct {
	path        string
	rel         string
	module      bool
	strict      bool
	expectError bool
	explicit    string // equivalent pass-explicit file, if any
	skip        string // reason to skip
	name        string // result path, rel plus the mode when a file runs twice
}

func (c testCase) resultPath() string {
	if c.name != "" {
		return c.name
	}
	return c.rel
}

// Run discovers and runs the suite in cfg.Dir. Tests run concurrently;
// results are in discovery order.
func Run(ctx context.Context, cfg Config) ([]TestResult, Summary, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	layout, err := DetectLayout(cfg.Dir)
	if err != nil {
		return nil, Summary{}, err
	}
	var cases []testCase
	if layout == Test262 {
		cases, err = discoverTest262(cfg.Dir)
	} else {
		cases, err = discoverParserTests(cfg.Dir)
	}
	if err != nil {
		return nil, Summary{}, err
	}

	filtered := cases[:0]
	for _, c := range cases {
		if cfg.Filter == "" || strings.Contains(c.rel, cfg.Filter) {
			if cfg.Skip[c.rel] {
				c.skip = "skip list"
			}
			filtered = append(filtered, c)
		}
	}
	cases = filtered
	if cfg.Limit > 0 && len(cases) > cfg.Limit {
		cases = cases[:cfg.Limit]
	}
	log.Info("running suite",
		zap.String("dir", cfg.Dir),
		zap.Stringer("layout", layout),
		zap.Int("tests", len(cases)),
		zap.Int("workers", workers))

	start := time.Now()
	results := make([]TestResult, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runCase(c, cfg)
			logResult(log, results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, errors.Wrap(err, "running suite")
	}

	summary := Summary{Total: len(results), Elapsed: time.Since(start)}
	for _, tr := range results {
		switch tr.Result {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Skip:
			summary.Skipped++
		case Error:
			summary.Errors++
		}
	}
	return results, summary, nil
}

func logResult(log *zap.Logger, tr TestResult) {
	fields := []zap.Field{zap.String("path", tr.Path), zap.Duration("elapsed", tr.Elapsed)}
	if tr.Message != "" {
		fields = append(fields, zap.String("message", tr.Message))
	}
	switch tr.Result {
	case Fail, Error:
		log.Warn(tr.Result.String(), fields...)
	default:
		log.Debug(tr.Result.String(), fields...)
	}
}

// discoverParserTests lists a test262-parser-tests checkout. Files named
// *.module.js use the module goal.
func discoverParserTests(dir string) ([]testCase, error) {
	var cases []testCase
	for _, sub := range []string{"pass", "fail", "early"} {
		files, err := listJS(filepath.Join(dir, sub))
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			name := filepath.Base(path)
			c := testCase{
				path:        path,
				rel:         filepath.ToSlash(filepath.Join(sub, name)),
				module:      strings.HasSuffix(name, ".module.js"),
				expectError: sub != "pass",
			}
			if sub == "pass" {
				explicit := filepath.Join(dir, "pass-explicit", name)
				if _, err := os.Stat(explicit); err == nil {
					c.explicit = explicit
				}
			}
			cases = append(cases, c)
		}
	}
	return cases, nil
}

// discoverTest262 lists test/ of a test262 checkout, reading each file's
// frontmatter.
func discoverTest262(dir string) ([]testCase, error) {
	files, err := listJS(filepath.Join(dir, "test"))
	if err != nil {
		return nil, err
	}
	var cases []testCase
	for _, path := range files {
		if strings.Contains(filepath.Base(path), "_FIXTURE") {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		meta := parseMetadata(string(src))
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", path)
		}
		c := testCase{
			path:        path,
			rel:         filepath.ToSlash(rel),
			module:      meta.HasFlag("module"),
			strict:      meta.HasFlag("onlyStrict"),
			expectError: meta.ExpectsSyntaxError(),
		}
		if f := unsupportedFeature(meta.Features); f != "" {
			c.skip = "unsupported feature: " + f
		}
		if c.module || c.strict || meta.HasFlag("noStrict") || meta.HasFlag("raw") || c.skip != "" {
			cases = append(cases, c)
			continue
		}
		// files without a mode flag run as sloppy and as strict code
		sloppy, strict := c, c
		sloppy.name = c.rel + " (sloppy)"
		strict.name = c.rel + " (strict)"
		strict.strict = true
		cases = append(cases, sloppy, strict)
	}
	return cases, nil
}

func listJS(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".js") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

type parseOutcome struct {
	prog *ast.Program
	err  error
}

func runCase(c testCase, cfg Config) TestResult {
	tr := parseCase(c, cfg)
	tr.Path = c.resultPath()
	return tr
}

func parseCase(c testCase, cfg Config) TestResult {
	if c.skip != "" {
		return TestResult{Path: c.rel, Result: Skip, Message: c.skip}
	}
	src, err := os.ReadFile(c.path)
	if err != nil {
		return TestResult{Path: c.rel, Result: Error, Message: "read error: " + err.Error()}
	}

	opts := cfg.Options
	opts.Source = c.rel
	opts.SourceType = parser.Script
	if c.module {
		opts.SourceType = parser.Module
	}
	opts.ImpliedStrict = opts.ImpliedStrict || c.strict

	start := time.Now()
	out, ok := parseWithTimeout(string(src), opts, cfg.Timeout)
	elapsed := time.Since(start)
	if !ok {
		return TestResult{Path: c.rel, Result: Error, Message: fmt.Sprintf("timeout (%s)", cfg.Timeout), Elapsed: elapsed}
	}
	if out.err != nil {
		if _, isDiag := diag.As(out.err); !isDiag {
			return TestResult{Path: c.rel, Result: Error, Message: out.err.Error(), Elapsed: elapsed}
		}
	}

	switch {
	case c.expectError && out.err == nil:
		return TestResult{Path: c.rel, Result: Fail, Message: "expected a syntax error", Elapsed: elapsed}
	case c.expectError:
		return TestResult{Path: c.rel, Result: Pass, Message: diag.KindOf(out.err).String(), Elapsed: elapsed}
	case out.err != nil:
		return TestResult{Path: c.rel, Result: Fail, Message: out.err.Error(), Elapsed: elapsed}
	}

	if c.explicit != "" {
		if msg := compareExplicit(string(src), c.explicit, opts); msg != "" {
			return TestResult{Path: c.rel, Result: Fail, Message: msg, Elapsed: elapsed}
		}
	}
	return TestResult{Path: c.rel, Result: Pass, Elapsed: elapsed}
}

// parseWithTimeout parses on a separate goroutine. A parser panic that is
// not a syntax error is reported as an error instead of taking down the
// run.
func parseWithTimeout(src string, opts parser.Options, timeout time.Duration) (parseOutcome, bool) {
	done := make(chan parseOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- parseOutcome{err: errors.Errorf("parser panic: %v", r)}
			}
		}()
		prog, err := parser.Parse(src, opts)
		done <- parseOutcome{prog: prog, err: err}
	}()
	select {
	case out := <-done:
		return out, true
	case <-time.After(timeout):
		return parseOutcome{}, false
	}
}

// compareExplicit checks that a pass test and its pass-explicit twin,
// which spells out the same program without ASI or sugar, produce the
// same tree once positions and source spelling are ignored.
func compareExplicit(src, explicitPath string, opts parser.Options) string {
	explicitSrc, err := os.ReadFile(explicitPath)
	if err != nil {
		return "read error: " + err.Error()
	}
	opts.Raw = false
	opts.Loc = false
	opts.Directives = false
	a, err := encodeProgram(src, opts)
	if err != nil {
		return err.Error()
	}
	b, err := encodeProgram(string(explicitSrc), opts)
	if err != nil {
		return "explicit form: " + err.Error()
	}
	if string(a) != string(b) {
		return "tree differs from the explicit form"
	}
	return ""
}

func encodeProgram(src string, opts parser.Options) ([]byte, error) {
	prog, err := parser.Parse(src, opts)
	if err != nil {
		return nil, err
	}
	return ast.Marshal(prog, ast.EncodeOptions{})
}
