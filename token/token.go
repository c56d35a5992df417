package token

import "fmt"

type TokenType int

const (
	// Literals
	Illegal TokenType = iota
	EOF
	Identifier
	PrivateName // #name
	Number
	BigInt
	String
	RegExp

	// Template literal parts
	NoSubstitutionTemplate
	TemplateHead
	TemplateMiddle
	TemplateTail

	// Operators
	Plus
	Minus
	Asterisk
	Slash
	Percent
	Exponent // **
	Assign
	PlusAssign
	MinusAssign
	AsteriskAssign
	SlashAssign
	PercentAssign
	ExponentAssign
	AmpersandAssign
	PipeAssign
	CaretAssign
	LeftShiftAssign
	RightShiftAssign
	UnsignedRightShiftAssign
	NullishAssign // ??=
	AndAssign     // &&=
	OrAssign      // ||=
	Equal
	NotEqual
	StrictEqual
	StrictNotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Not
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	LeftShift
	RightShift
	UnsignedRightShift
	Increment
	Decrement

	// Delimiters
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Colon
	Comma
	Dot
	Spread // ...
	Arrow  // =>
	QuestionMark
	OptionalChain   // ?.
	NullishCoalesce // ??

	keywordBegin
	// Reserved words. Contextual words (let, static, yield, await, async,
	// of, get, set, as, from, ...) are scanned as Identifier.
	Break
	Case
	Catch
	Class
	Const
	Continue
	Debugger
	Default
	Delete
	Do
	Else
	Enum
	Export
	Extends
	False
	Finally
	For
	Function
	If
	Import
	In
	Instanceof
	New
	Null
	Return
	Super
	Switch
	This
	Throw
	True
	Try
	Typeof
	Var
	Void
	While
	With
	keywordEnd
)

type Token struct {
	Type    TokenType
	Literal string // decoded value: identifier name, string value, cooked template text
	Raw     string // exact source text of the token
	Start   int    // byte offset of the first character
	End     int    // byte offset just past the last character
	Line    int
	Column  int

	// NewlineBefore is set when a line terminator separates this token
	// from the previous one.
	NewlineBefore bool
	// Escaped is set when an identifier or keyword contains \u escapes.
	Escaped bool
	// Value is the numeric value of a Number token.
	Value float64
	// LegacyOctal marks 010 / 08 numbers and \0-\9 escapes in strings;
	// both are rejected in strict code.
	LegacyOctal bool
	// BadEscape is the offset of an invalid escape inside a template part,
	// or -1. Tagged templates tolerate it, untagged templates reject it.
	BadEscape int
	// Pattern and Flags hold the two halves of a RegExp token.
	Pattern string
	Flags   string
}

var Keywords = map[string]TokenType{
	"break":      Break,
	"case":       Case,
	"catch":      Catch,
	"class":      Class,
	"const":      Const,
	"continue":   Continue,
	"debugger":   Debugger,
	"default":    Default,
	"delete":     Delete,
	"do":         Do,
	"else":       Else,
	"enum":       Enum,
	"export":     Export,
	"extends":    Extends,
	"false":      False,
	"finally":    Finally,
	"for":        For,
	"function":   Function,
	"if":         If,
	"import":     Import,
	"in":         In,
	"instanceof": Instanceof,
	"new":        New,
	"null":       Null,
	"return":     Return,
	"super":      Super,
	"switch":     Switch,
	"this":       This,
	"throw":      Throw,
	"true":       True,
	"try":        Try,
	"typeof":     Typeof,
	"var":        Var,
	"void":       Void,
	"while":      While,
	"with":       With,
}

// StrictReserved lists identifiers that are reserved only in strict mode code.
var StrictReserved = map[string]bool{
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
}

func LookupIdentifier(ident string) TokenType {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return Identifier
}

func (t TokenType) IsKeyword() bool {
	return t > keywordBegin && t < keywordEnd
}

func (t TokenType) IsAssign() bool {
	switch t {
	case Assign, PlusAssign, MinusAssign, AsteriskAssign, SlashAssign, PercentAssign,
		ExponentAssign, AmpersandAssign, PipeAssign, CaretAssign, LeftShiftAssign,
		RightShiftAssign, UnsignedRightShiftAssign, NullishAssign, AndAssign, OrAssign:
		return true
	}
	return false
}

// IsLogicalAssign reports &&=, ||= and ??=, whose targets must be simple.
func (t TokenType) IsLogicalAssign() bool {
	return t == AndAssign || t == OrAssign || t == NullishAssign
}

// Binary operator precedence levels. Exponent is handled by the unary
// parser since it is right-associative and interacts with prefix operators.
const (
	LowestPrec          = 0
	precNullishCoalesce = 1
	precLogicalOr       = 1
	precLogicalAnd      = 2
	precBitwiseOr       = 3
	precBitwiseXor      = 4
	precBitwiseAnd      = 5
	precEquality        = 6
	precRelational      = 7
	precShift           = 8
	precAdditive        = 9
	precMultiplicative  = 10
)

// Precedence returns the binary precedence of t, or LowestPrec when t is
// not a binary operator.
func (t TokenType) Precedence() int {
	switch t {
	case NullishCoalesce:
		return precNullishCoalesce
	case Or:
		return precLogicalOr
	case And:
		return precLogicalAnd
	case BitwiseOr:
		return precBitwiseOr
	case BitwiseXor:
		return precBitwiseXor
	case BitwiseAnd:
		return precBitwiseAnd
	case Equal, NotEqual, StrictEqual, StrictNotEqual:
		return precEquality
	case LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual, Instanceof, In:
		return precRelational
	case LeftShift, RightShift, UnsignedRightShift:
		return precShift
	case Plus, Minus:
		return precAdditive
	case Asterisk, Slash, Percent:
		return precMultiplicative
	}
	return LowestPrec
}

// LogicalAndPrec is the level a `??` right operand is parsed at, so that a
// following || or && is left for the mixing check.
const LogicalAndPrec = precLogicalAnd

var names = map[TokenType]string{
	Illegal:                  "ILLEGAL",
	EOF:                      "end of input",
	Identifier:               "identifier",
	PrivateName:              "private name",
	Number:                   "number",
	BigInt:                   "bigint",
	String:                   "string",
	RegExp:                   "regular expression",
	NoSubstitutionTemplate:   "template",
	TemplateHead:             "template",
	TemplateMiddle:           "template",
	TemplateTail:             "template",
	Plus:                     "+",
	Minus:                    "-",
	Asterisk:                 "*",
	Slash:                    "/",
	Percent:                  "%",
	Exponent:                 "**",
	Assign:                   "=",
	PlusAssign:               "+=",
	MinusAssign:              "-=",
	AsteriskAssign:           "*=",
	SlashAssign:              "/=",
	PercentAssign:            "%=",
	ExponentAssign:           "**=",
	AmpersandAssign:          "&=",
	PipeAssign:               "|=",
	CaretAssign:              "^=",
	LeftShiftAssign:          "<<=",
	RightShiftAssign:         ">>=",
	UnsignedRightShiftAssign: ">>>=",
	NullishAssign:            "??=",
	AndAssign:                "&&=",
	OrAssign:                 "||=",
	Equal:                    "==",
	NotEqual:                 "!=",
	StrictEqual:              "===",
	StrictNotEqual:           "!==",
	LessThan:                 "<",
	GreaterThan:              ">",
	LessThanOrEqual:          "<=",
	GreaterThanOrEqual:       ">=",
	And:                      "&&",
	Or:                       "||",
	Not:                      "!",
	BitwiseAnd:               "&",
	BitwiseOr:                "|",
	BitwiseXor:               "^",
	BitwiseNot:               "~",
	LeftShift:                "<<",
	RightShift:               ">>",
	UnsignedRightShift:       ">>>",
	Increment:                "++",
	Decrement:                "--",
	LeftParen:                "(",
	RightParen:               ")",
	LeftBrace:                "{",
	RightBrace:               "}",
	LeftBracket:              "[",
	RightBracket:             "]",
	Semicolon:                ";",
	Colon:                    ":",
	Comma:                    ",",
	Dot:                      ".",
	Spread:                   "...",
	Arrow:                    "=>",
	QuestionMark:             "?",
	OptionalChain:            "?.",
	NullishCoalesce:          "??",
}

func init() {
	for word, tt := range Keywords {
		names[tt] = word
	}
}

func (t TokenType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(t))
}
