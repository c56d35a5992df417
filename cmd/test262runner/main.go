package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/SKalt/meriyah-sub000/internal/logging"
	"github.com/SKalt/meriyah-sub000/parser"
	"github.com/SKalt/meriyah-sub000/testrunner"
)

type args struct {
	Dir      string `arg:"env:TEST262_DIR" help:"path to a test262-parser-tests or test262 checkout"`
	Filter   string `help:"run only tests whose path contains this substring"`
	Limit    int    `help:"maximum number of tests to run (0 = all)"`
	Workers  int    `arg:"env:TEST262_WORKERS" help:"parallel parses (0 = GOMAXPROCS)"`
	SkipFile string `arg:"--skip-file,env:TEST262_SKIP" help:"file listing test paths to skip, one per line"`

	NoWebCompat bool `arg:"--no-webcompat" help:"reject Annex B syntax"`
	NoLexical   bool `arg:"--no-lexical" help:"skip lexical redeclaration checks"`
	Next        bool `help:"enable proposal syntax"`
	All         bool `help:"print passing and skipped tests too"`
	Verbose     bool `arg:"-v" help:"log every result"`
}

func (args) Description() string {
	return "Runs the parser against a conformance suite and prints a summary."
}

func main() {
	a := args{Dir: "test262-parser-tests"}
	arg.MustParse(&a)

	log := logging.New(logging.Level(a.Verbose), os.Stderr, os.Stderr, false)
	defer log.Sync()

	if _, err := os.Stat(a.Dir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: suite directory not found at %s\n", a.Dir)
		fmt.Fprintf(os.Stderr, "Clone it with: git clone --depth 1 https://github.com/tc39/test262-parser-tests %s\n", a.Dir)
		os.Exit(1)
	}

	skip, err := readSkipFile(a.SkipFile)
	if err != nil {
		log.Fatal("reading skip file", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := testrunner.Config{
		Dir:     a.Dir,
		Filter:  a.Filter,
		Limit:   a.Limit,
		Workers: a.Workers,
		Options: parser.Options{WebCompat: !a.NoWebCompat, Lexical: !a.NoLexical, Next: a.Next},
		Skip:    skip,
		Logger:  log,
	}

	results, summary, err := testrunner.Run(ctx, cfg)
	if err != nil {
		log.Fatal("run failed", zap.Error(err))
	}

	for _, r := range results {
		if !a.All && (r.Result == testrunner.Pass || r.Result == testrunner.Skip) {
			continue
		}
		msg := ""
		if r.Message != "" {
			msg = " " + r.Message
		}
		fmt.Printf("%s %s%s\n", r.Result, r.Path, msg)
	}

	fmt.Println()
	fmt.Println("=== Conformance Summary ===")
	fmt.Printf("Total:   %d\n", summary.Total)
	fmt.Printf("Passed:  %d\n", summary.Passed)
	fmt.Printf("Failed:  %d\n", summary.Failed)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	fmt.Printf("Errors:  %d\n", summary.Errors)
	if run := summary.Total - summary.Skipped; run > 0 {
		fmt.Printf("Pass rate: %.1f%% (%d/%d excluding skipped)\n", summary.PassRate(), summary.Passed, run)
	}
	fmt.Printf("Elapsed: %s\n", summary.Elapsed)

	if summary.Failed > 0 || summary.Errors > 0 {
		os.Exit(1)
	}
}

// readSkipFile loads a skip list. Blank lines and lines starting with #
// are ignored.
func readSkipFile(path string) (map[string]bool, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	skip := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skip[line] = true
	}
	return skip, sc.Err()
}
