package parser

import "fmt"

// SourceType selects the top-level grammar.
type SourceType int

const (
	// Script is sloppy-mode global code unless a directive says otherwise.
	Script SourceType = iota
	// Module code is always strict and may contain import and export.
	Module
)

func (s SourceType) String() string {
	switch s {
	case Script:
		return "script"
	case Module:
		return "module"
	}
	return fmt.Sprintf("SourceType(%d)", int(s))
}

// ParseSourceType maps "script" and "module" to a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch s {
	case "", "script":
		return Script, nil
	case "module":
		return Module, nil
	}
	return Script, fmt.Errorf("unknown source type %q", s)
}

// Options configures a parse. The zero value parses a sloppy script and
// records byte ranges only.
type Options struct {
	SourceType SourceType

	// Ranges requests start/end byte offsets in the encoded output.
	Ranges bool
	// Loc attaches line/column locations to every node.
	Loc bool
	// Raw keeps the source text of literals in Literal.Raw.
	Raw bool
	// Lexical enables scope analysis: redeclarations of lexical bindings,
	// var/let conflicts and exports of undeclared names.
	Lexical bool
	// WebCompat enables the Annex B grammar: HTML-like comments in scripts,
	// function declarations as if bodies and under labels, duplicate sloppy
	// block functions and initialized for-in var declarations.
	WebCompat bool
	// Next enables staged syntax: `export * as ns`, import attributes and
	// the options argument of import().
	Next bool
	// Directives fills ExpressionStatement.Directive for prologue entries.
	Directives bool
	// GlobalReturn allows return statements at the top level of a script.
	GlobalReturn bool
	// ImpliedStrict parses a script as if it started with "use strict".
	ImpliedStrict bool
	// AllowReserved accepts implements, interface, package, private,
	// protected and public as identifiers in strict code.
	AllowReserved bool

	// Source labels error messages, usually with a file name.
	Source string
}
