package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/lexer"
	"github.com/SKalt/meriyah-sub000/parser"
)

type source struct {
	name string
	text string
}

// parseFunc is parser.Parse or a cached equivalent.
type parseFunc func(src string, opts parser.Options) (*ast.Program, error)

type output struct {
	out   bytes.Buffer
	times []float64
	err   error // syntax error in the source
}

// run parses sources concurrently and writes their output to stdout in
// the order given. Syntax errors are written to stderr; the number of
// sources that failed is returned.
func run(ctx context.Context, a args, sources []source, parse parseFunc, stdout, stderr io.Writer, log *zap.Logger) (int, error) {
	render, err := newRenderer(a.Format)
	if err != nil {
		return 0, err
	}
	outputs := make([]output, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range sources {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return process(a, s, parse, render, &outputs[i], log)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	for i, o := range outputs {
		if o.err != nil {
			failed++
			fmt.Fprintln(stderr, o.err)
			continue
		}
		if !a.Quiet {
			if _, err := stdout.Write(o.out.Bytes()); err != nil {
				return failed, err
			}
		}
		if a.Repeat > 1 {
			reportTimes(stderr, sources[i].name, o.times)
		}
	}
	return failed, nil
}

// process fills o for one source. Only output failures are returned; a
// syntax error is recorded in o.err.
func process(a args, s source, parse parseFunc, render renderer, o *output, log *zap.Logger) error {
	if a.Tokens {
		toks, err := lexer.Tokenize(s.text)
		if err != nil {
			if e, ok := diag.As(err); ok && e.Source == "" {
				e.Source = s.name
			}
			o.err = err
			return nil
		}
		return writeTokens(&o.out, toks)
	}

	opts, err := a.options(s.name)
	if err != nil {
		return err
	}
	repeat := a.Repeat
	if repeat == 0 {
		repeat = 1
	}
	var prog *ast.Program
	for i := uint64(0); i < repeat; i++ {
		begin := time.Now()
		prog, err = parse(s.text, opts)
		o.times = append(o.times, float64(time.Since(begin)))
		if err != nil {
			o.err = err
			return nil
		}
	}
	log.Debug("parsed",
		zap.String("file", s.name),
		zap.Stringer("sourceType", opts.SourceType),
		zap.Int("statements", len(prog.Body)))
	return render(&o.out, prog, ast.EncodeOptions{Ranges: opts.Ranges, Indent: a.Indent})
}

func reportTimes(w io.Writer, name string, times []float64) {
	fmt.Fprintf(w, "Parse time for %s (%d runs):\n", name, len(times))
	f, _ := stats.Median(times)
	fmt.Fprintf(w, "  Median: %v\n", time.Duration(f))
	f, _ = stats.Mean(times)
	fmt.Fprintf(w, "  Mean: %v\n", time.Duration(f))
	f, _ = stats.StdDevS(times)
	fmt.Fprintf(w, "  StdDev: %v\n", time.Duration(f))
	f, _ = stats.Min(times)
	fmt.Fprintf(w, "  Min: %v\n", time.Duration(f))
	f, _ = stats.Max(times)
	fmt.Fprintf(w, "  Max: %v\n", time.Duration(f))
}
