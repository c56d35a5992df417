// Command esparse parses JavaScript files and prints their ESTree.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SKalt/meriyah-sub000/cache"
	"github.com/SKalt/meriyah-sub000/internal/logging"
	"github.com/SKalt/meriyah-sub000/parser"
)

type args struct {
	Files      []string `arg:"positional" help:"files to parse; standard input when none are given"`
	SourceType string   `arg:"--source-type,env:ESPARSE_SOURCE_TYPE" help:"script or module; .mjs files are always modules"`

	Ranges        bool `help:"include start and end offsets"`
	Loc           bool `help:"include line and column locations"`
	Raw           bool `help:"include the source text of literals"`
	Lexical       bool `help:"report lexical redeclarations and undefined exports"`
	WebCompat     bool `arg:"--webcompat" help:"accept Annex B syntax"`
	Next          bool `help:"accept proposal syntax"`
	Directives    bool `help:"mark directive prologues"`
	GlobalReturn  bool `arg:"--global-return" help:"allow top-level return"`
	ImpliedStrict bool `arg:"--implied-strict" help:"parse scripts as strict code"`

	Format string `arg:"env:ESPARSE_FORMAT" help:"json, tree, positions or go"`
	Indent string `help:"indent for json output"`
	Tokens bool   `help:"print the token stream instead of the tree"`
	Quiet  bool   `arg:"-q" help:"only report errors"`

	Repeat    uint64 `help:"parse each file repeatedly and report parse times"`
	Watch     bool   `help:"reparse files when they change"`
	CacheSize int    `arg:"--cache-size,env:ESPARSE_CACHE_SIZE" help:"parse results kept in watch mode"`
	Verbose   bool   `arg:"-v" help:"debug logging"`
}

func (args) Description() string {
	return "Parses ECMAScript sources into ESTree JSON."
}

// options is the parser configuration for name.
func (a args) options(name string) (parser.Options, error) {
	st, err := parser.ParseSourceType(a.SourceType)
	if err != nil {
		return parser.Options{}, err
	}
	if strings.HasSuffix(name, ".mjs") {
		st = parser.Module
	}
	return parser.Options{
		SourceType:    st,
		Ranges:        a.Ranges,
		Loc:           a.Loc,
		Raw:           a.Raw,
		Lexical:       a.Lexical,
		WebCompat:     a.WebCompat,
		Next:          a.Next,
		Directives:    a.Directives,
		GlobalReturn:  a.GlobalReturn,
		ImpliedStrict: a.ImpliedStrict,
		Source:        name,
	}, nil
}

func main() {
	a := args{Format: "json", Indent: "  ", Repeat: 1, CacheSize: cache.DefaultSize}
	p := arg.MustParse(&a)
	if _, err := newRenderer(a.Format); err != nil {
		p.Fail(err.Error())
	}
	if _, err := parser.ParseSourceType(a.SourceType); err != nil {
		p.Fail(err.Error())
	}

	log := logging.New(logging.Level(a.Verbose), os.Stderr, os.Stderr, false)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if a.Watch {
		if len(a.Files) == 0 {
			p.Fail("--watch needs at least one file")
		}
		if err := watch(ctx, a, os.Stdout, os.Stderr, log); err != nil {
			log.Fatal("watch failed", zap.Error(err))
		}
		return
	}

	var sources []source
	if len(a.Files) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal("reading standard input", zap.Error(err))
		}
		sources = append(sources, source{name: "<stdin>", text: string(src)})
	} else {
		for _, name := range a.Files {
			src, err := os.ReadFile(name)
			if err != nil {
				log.Fatal("reading source", zap.Error(errors.WithStack(err)))
			}
			sources = append(sources, source{name: filepath.ToSlash(name), text: string(src)})
		}
	}

	failed, err := run(ctx, a, sources, parser.Parse, os.Stdout, os.Stderr, log)
	if err != nil {
		log.Fatal("parse failed", zap.Error(err))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
