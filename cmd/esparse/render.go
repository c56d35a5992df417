package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/token"
)

type renderer func(w io.Writer, prog *ast.Program, opts ast.EncodeOptions) error

func newRenderer(format string) (renderer, error) {
	switch format {
	case "", "json":
		return func(w io.Writer, prog *ast.Program, opts ast.EncodeOptions) error {
			return ast.Encode(w, prog, opts)
		}, nil
	case "tree":
		return func(w io.Writer, prog *ast.Program, _ ast.EncodeOptions) error {
			ast.Print(prog, w, "  ")
			return nil
		}, nil
	case "positions":
		return func(w io.Writer, prog *ast.Program, _ ast.EncodeOptions) error {
			ast.PrintPositions(prog, w, "  ")
			return nil
		}, nil
	case "go":
		return func(w io.Writer, prog *ast.Program, _ ast.EncodeOptions) error {
			_, err := fmt.Fprintf(w, "%# v\n", pretty.Formatter(prog))
			return errors.Wrap(err, "writing Go syntax")
		}, nil
	}
	return nil, errors.Errorf("unknown format %q: want json, tree, positions or go", format)
}

// writeTokens prints one token per line: position, type and source text.
func writeTokens(w io.Writer, toks []token.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range toks {
		nl := ""
		if tok.NewlineBefore {
			nl = "nl"
		}
		fmt.Fprintf(tw, "%d:%d\t%s\t%q\t%s\n", tok.Line, tok.Column, tok.Type, tok.Raw, nl)
	}
	return errors.Wrap(tw.Flush(), "writing tokens")
}
