// Package diag defines the syntax error taxonomy shared by the lexer and
// the parser, and extracts the kind associated with an error.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of a syntax error.
type Kind int

// List of error kinds.
const (
	// Unknown error kind.
	Unknown Kind = iota
	// UnexpectedToken is a grammar mismatch.
	UnexpectedToken
	// UnexpectedEOF is input ending in the middle of a production.
	UnexpectedEOF
	// UnterminatedString is a string literal missing its closing quote.
	UnterminatedString
	// UnterminatedTemplate is a template literal missing its closing backtick.
	UnterminatedTemplate
	// UnterminatedComment is a block comment missing its closing delimiter.
	UnterminatedComment
	// UnterminatedRegExp is a regular expression literal missing its closing slash.
	UnterminatedRegExp
	// InvalidRegExpFlags is an unknown or repeated regular expression flag.
	InvalidRegExpFlags
	// InvalidEscape is a malformed escape sequence.
	InvalidEscape
	// InvalidNumber is a malformed numeric literal.
	InvalidNumber
	// InvalidCharacter is a code point that cannot start any token.
	InvalidCharacter
	// InvalidIdentifier is an escaped identifier that decodes to an invalid
	// character, or a keyword written with escapes.
	InvalidIdentifier
	// InvalidDestructuringTarget is a cover grammar reinterpretation failure.
	InvalidDestructuringTarget
	// InvalidAssignmentTarget is assigning to a literal, call or other non-reference.
	InvalidAssignmentTarget
	// InvalidArrowParams is an arrow parameter list that is not a binding pattern.
	InvalidArrowParams
	// DuplicateBinding is a lexical redeclaration or duplicate parameter.
	DuplicateBinding
	// DuplicateExport is an exported name used twice in a module.
	DuplicateExport
	// UndefinedExport is an exported local binding that is never declared.
	UndefinedExport
	// ReservedWord is a reserved or strict-mode reserved word used as a binding or reference.
	ReservedWord
	// StrictModeViolation is a construct forbidden in strict code.
	StrictModeViolation
	// StrictParams is a "use strict" body combined with a non-simple parameter list.
	StrictParams
	// ModuleSyntax is import/export outside the top level of a module.
	ModuleSyntax
	// IllegalYield is yield misuse.
	IllegalYield
	// IllegalAwait is await misuse.
	IllegalAwait
	// IllegalReturn is return outside a function body.
	IllegalReturn
	// IllegalBreak is break outside an iteration, switch or matching label.
	IllegalBreak
	// IllegalContinue is continue outside an iteration or naming a non-loop label.
	IllegalContinue
	// DuplicateLabel is a label nested inside a label of the same name.
	DuplicateLabel
	// IllegalSuper is super outside a method, or super() outside a derived constructor.
	IllegalSuper
	// IllegalNewTarget is new.target outside a function.
	IllegalNewTarget
	// NewlineRestriction is a line terminator where the grammar forbids one.
	NewlineRestriction
	// MixedCoalesce is ?? mixed with || or && without parentheses.
	MixedCoalesce
	// AmbiguousExponent is a unary operator directly applied to a ** base.
	AmbiguousExponent
	// DuplicateConstructor is a second constructor in one class body.
	DuplicateConstructor
	// InvalidClassMember is a malformed class element.
	InvalidClassMember
	// UndeclaredPrivateName is a #name referenced but never declared.
	UndeclaredPrivateName
	// DuplicatePrivateName is a #name declared twice.
	DuplicatePrivateName
	// MissingInitializer is a const or destructuring declaration without '='.
	MissingInitializer
	// InvalidForLoop is a malformed for-in or for-of head.
	InvalidForLoop
	// DuplicateProto is a duplicate __proto__ property in an object literal.
	DuplicateProto
)

var kindString = map[Kind]string{
	Unknown:                    "unknown",
	UnexpectedToken:            "unexpected token",
	UnexpectedEOF:              "unexpected end of input",
	UnterminatedString:         "unterminated string",
	UnterminatedTemplate:       "unterminated template",
	UnterminatedComment:        "unterminated comment",
	UnterminatedRegExp:         "unterminated regular expression",
	InvalidRegExpFlags:         "invalid regular expression flags",
	InvalidEscape:              "invalid escape sequence",
	InvalidNumber:              "invalid numeric literal",
	InvalidCharacter:           "invalid character",
	InvalidIdentifier:          "invalid identifier",
	InvalidDestructuringTarget: "invalid destructuring target",
	InvalidAssignmentTarget:    "invalid assignment target",
	InvalidArrowParams:         "invalid arrow parameters",
	DuplicateBinding:           "duplicate binding",
	DuplicateExport:            "duplicate export",
	UndefinedExport:            "undefined export",
	ReservedWord:               "reserved word",
	StrictModeViolation:        "strict mode violation",
	StrictParams:               "strict mode parameters",
	ModuleSyntax:               "module syntax",
	IllegalYield:               "illegal yield",
	IllegalAwait:               "illegal await",
	IllegalReturn:              "illegal return",
	IllegalBreak:               "illegal break",
	IllegalContinue:            "illegal continue",
	DuplicateLabel:             "duplicate label",
	IllegalSuper:               "illegal super",
	IllegalNewTarget:           "illegal new.target",
	NewlineRestriction:         "line terminator not allowed",
	MixedCoalesce:              "mixed coalesce",
	AmbiguousExponent:          "ambiguous exponent",
	DuplicateConstructor:       "duplicate constructor",
	InvalidClassMember:         "invalid class member",
	UndeclaredPrivateName:      "undeclared private name",
	DuplicatePrivateName:       "duplicate private name",
	MissingInitializer:         "missing initializer",
	InvalidForLoop:             "invalid for loop",
	DuplicateProto:             "duplicate __proto__",
}

// String representation of a Kind.
func (k Kind) String() string {
	if s, ok := kindString[k]; ok {
		return s
	}
	return fmt.Sprintf("invalid kind (%d)", int(k))
}

// Error is a single syntax error. Offset is a byte offset into the source,
// Line is 1-based and Column is a 0-based byte column.
type Error struct {
	Kind    Kind
	Message string
	Offset  int
	Line    int
	Column  int
	Source  string // optional file label
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("Line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// New constructs an Error for the given kind. The position is filled in by
// whoever knows the line table.
func New(kind Kind, offset int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

// KindOf returns the kind of a syntax error, or Unknown if err is not one.
// Wrapping by github.com/pkg/errors is looked through.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	if se, ok := errors.Cause(err).(*Error); ok {
		return se.Kind
	}
	return Unknown
}

// As returns the *Error behind err, if any.
func As(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	se, ok := errors.Cause(err).(*Error)
	return se, ok
}
