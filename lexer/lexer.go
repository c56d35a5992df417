package lexer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

const eof = -1

// Lexer scans one source text. It never decides on its own whether a '/'
// starts a regular expression or whether a '}' resumes a template; the
// parser asks for those rescans explicitly.
type Lexer struct {
	input   string
	pos     int // current position in input (points to current char)
	readPos int // current reading position (after current char)
	ch      rune

	lines []int // byte offsets of line starts
	first bool  // no token has been produced yet

	htmlComments bool
	err          *diag.Error
}

func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		lines: lineStarts(input),
		first: true,
	}
	l.seek(0)
	if strings.HasPrefix(input, "\uFEFF") {
		l.seek(len("\uFEFF"))
	}
	if l.ch == '#' && l.peekChar() == '!' {
		l.skipLineComment()
	}
	return l
}

// SetHTMLComments enables the web-compatibility `<!--` and `-->` single
// line comments. They are never valid in module code.
func (l *Lexer) SetHTMLComments(on bool) {
	l.htmlComments = on
}

// Input returns the source text being scanned.
func (l *Lexer) Input() string {
	return l.input
}

// Err returns the error behind the last Illegal token.
func (l *Lexer) Err() *diag.Error {
	return l.err
}

// Offset returns the position the next scan starts from.
func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) seek(off int) {
	l.readPos = off
	l.readChar()
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = eof
		l.pos = len(l.input)
		l.readPos = len(l.input)
		return
	}
	c := l.input[l.readPos]
	l.pos = l.readPos
	if c < utf8.RuneSelf {
		l.ch = rune(c)
		l.readPos++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) peekCharAt(offset int) rune {
	pos := l.readPos + offset
	if pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

// ---------- Positions ----------

func lineStarts(input string) []int {
	lines := []int{0}
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '\n':
			lines = append(lines, i+1)
		case '\r':
			if i+1 < len(input) && input[i+1] == '\n' {
				i++
			}
			lines = append(lines, i+1)
		case 0xE2:
			// U+2028 and U+2029 are E2 80 A8 / E2 80 A9
			if i+2 < len(input) && input[i+1] == 0x80 && (input[i+2] == 0xA8 || input[i+2] == 0xA9) {
				i += 2
				lines = append(lines, i+1)
			}
		}
	}
	return lines
}

// Position maps a byte offset to a 1-based line and 0-based byte column.
func (l *Lexer) Position(offset int) (line, column int) {
	i := sort.Search(len(l.lines), func(i int) bool { return l.lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - l.lines[i]
}

func (l *Lexer) fail(kind diag.Kind, offset int, format string, args ...interface{}) token.Token {
	err := diag.New(kind, offset, format, args...)
	err.Line, err.Column = l.Position(offset)
	l.err = err
	return token.Token{Type: token.Illegal, Start: offset, End: offset, BadEscape: -1}
}

// ---------- Whitespace and comments ----------

func (l *Lexer) skipLineComment() {
	for l.ch != eof && !isLineTerminator(l.ch) {
		l.readChar()
	}
}

// skipBlockComment consumes a /* */ comment and reports whether it
// contained a line terminator.
func (l *Lexer) skipBlockComment() (newline, ok bool) {
	// skip past /*
	l.readChar()
	l.readChar()
	for {
		switch {
		case l.ch == eof:
			return newline, false
		case l.ch == '*' && l.peekChar() == '/':
			l.readChar()
			l.readChar()
			return newline, true
		case isLineTerminator(l.ch):
			newline = true
		}
		l.readChar()
	}
}

func (l *Lexer) skipWhitespaceAndComments() (sawNewline, ok bool) {
	for {
		switch {
		case l.ch == eof:
			return sawNewline, true
		case isLineTerminator(l.ch):
			sawNewline = true
			l.readChar()
		case isWhitespace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.skipLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			start := l.pos
			nl, closed := l.skipBlockComment()
			if !closed {
				l.fail(diag.UnterminatedComment, start, "Unterminated comment")
				return sawNewline, false
			}
			sawNewline = sawNewline || nl
		// Annex B: <!-- is a single-line comment (anywhere)
		case l.htmlComments && l.ch == '<' && l.peekChar() == '!' && l.peekCharAt(1) == '-' && l.peekCharAt(2) == '-':
			l.skipLineComment()
		// Annex B: --> is a single-line comment only at the start of a line
		case l.htmlComments && (sawNewline || l.first) && l.ch == '-' && l.peekChar() == '-' && l.peekCharAt(1) == '>':
			l.skipLineComment()
		default:
			return sawNewline, true
		}
	}
}

// ---------- Tokens ----------

// Next scans the next token. A '/' is always scanned as division and a '}'
// always as a brace; see ScanRegExp and ScanTemplateContinuation.
func (l *Lexer) Next() token.Token {
	l.err = nil
	nl, ok := l.skipWhitespaceAndComments()
	if !ok {
		return token.Token{Type: token.Illegal, BadEscape: -1}
	}
	start := l.pos
	tok := l.scan()
	l.first = false
	return l.finish(tok, start, nl)
}

// Peek scans the token after the current position without consuming it.
func (l *Lexer) Peek() token.Token {
	saved, first := l.pos, l.first
	tok := l.Next()
	l.seek(saved)
	l.first = first
	l.err = nil
	return tok
}

func (l *Lexer) finish(tok token.Token, start int, newline bool) token.Token {
	if tok.Type == token.Illegal {
		return tok
	}
	tok.Start = start
	tok.End = l.pos
	tok.Raw = l.input[start:l.pos]
	tok.Line, tok.Column = l.Position(start)
	tok.NewlineBefore = newline
	if tok.Literal == "" && tok.Type != token.String && !isTemplate(tok.Type) {
		tok.Literal = tok.Raw
	}
	return tok
}

func isTemplate(tt token.TokenType) bool {
	return tt == token.NoSubstitutionTemplate || tt == token.TemplateHead ||
		tt == token.TemplateMiddle || tt == token.TemplateTail
}

func punct(tt token.TokenType) token.Token {
	return token.Token{Type: tt, BadEscape: -1}
}

func (l *Lexer) scan() token.Token {
	switch {
	case l.ch == eof:
		return punct(token.EOF)

	case l.ch == '(':
		l.readChar()
		return punct(token.LeftParen)
	case l.ch == ')':
		l.readChar()
		return punct(token.RightParen)
	case l.ch == '{':
		l.readChar()
		return punct(token.LeftBrace)
	case l.ch == '}':
		l.readChar()
		return punct(token.RightBrace)
	case l.ch == '[':
		l.readChar()
		return punct(token.LeftBracket)
	case l.ch == ']':
		l.readChar()
		return punct(token.RightBracket)
	case l.ch == ';':
		l.readChar()
		return punct(token.Semicolon)
	case l.ch == ':':
		l.readChar()
		return punct(token.Colon)
	case l.ch == ',':
		l.readChar()
		return punct(token.Comma)
	case l.ch == '~':
		l.readChar()
		return punct(token.BitwiseNot)

	case l.ch == '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			l.readChar()
			l.readChar()
			l.readChar()
			return punct(token.Spread)
		}
		if isDecimalDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return punct(token.Dot)

	case l.ch == '+':
		l.readChar()
		if l.ch == '+' {
			l.readChar()
			return punct(token.Increment)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.PlusAssign)
		}
		return punct(token.Plus)

	case l.ch == '-':
		l.readChar()
		if l.ch == '-' {
			l.readChar()
			return punct(token.Decrement)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.MinusAssign)
		}
		return punct(token.Minus)

	case l.ch == '*':
		l.readChar()
		if l.ch == '*' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.ExponentAssign)
			}
			return punct(token.Exponent)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.AsteriskAssign)
		}
		return punct(token.Asterisk)

	case l.ch == '/':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return punct(token.SlashAssign)
		}
		return punct(token.Slash)

	case l.ch == '%':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return punct(token.PercentAssign)
		}
		return punct(token.Percent)

	case l.ch == '=':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			return punct(token.Arrow)
		}
		if l.ch == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.StrictEqual)
			}
			return punct(token.Equal)
		}
		return punct(token.Assign)

	case l.ch == '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.StrictNotEqual)
			}
			return punct(token.NotEqual)
		}
		return punct(token.Not)

	case l.ch == '<':
		l.readChar()
		if l.ch == '<' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.LeftShiftAssign)
			}
			return punct(token.LeftShift)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.LessThanOrEqual)
		}
		return punct(token.LessThan)

	case l.ch == '>':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			if l.ch == '>' {
				l.readChar()
				if l.ch == '=' {
					l.readChar()
					return punct(token.UnsignedRightShiftAssign)
				}
				return punct(token.UnsignedRightShift)
			}
			if l.ch == '=' {
				l.readChar()
				return punct(token.RightShiftAssign)
			}
			return punct(token.RightShift)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.GreaterThanOrEqual)
		}
		return punct(token.GreaterThan)

	case l.ch == '&':
		l.readChar()
		if l.ch == '&' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.AndAssign)
			}
			return punct(token.And)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.AmpersandAssign)
		}
		return punct(token.BitwiseAnd)

	case l.ch == '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.OrAssign)
			}
			return punct(token.Or)
		}
		if l.ch == '=' {
			l.readChar()
			return punct(token.PipeAssign)
		}
		return punct(token.BitwiseOr)

	case l.ch == '^':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return punct(token.CaretAssign)
		}
		return punct(token.BitwiseXor)

	case l.ch == '?':
		l.readChar()
		if l.ch == '.' && !isDecimalDigit(l.peekChar()) {
			l.readChar()
			return punct(token.OptionalChain)
		}
		if l.ch == '?' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return punct(token.NullishAssign)
			}
			return punct(token.NullishCoalesce)
		}
		return punct(token.QuestionMark)

	case l.ch == '`':
		return l.readTemplate()

	case l.ch == '"' || l.ch == '\'':
		return l.readString()

	case isDecimalDigit(l.ch):
		return l.readNumber()

	case l.ch == '#':
		start := l.pos
		l.readChar()
		if !IsIdentifierStart(l.ch) && l.ch != '\\' {
			return l.fail(diag.InvalidCharacter, start, "Invalid character '#'")
		}
		tok := l.readIdentifier()
		if tok.Type == token.Illegal {
			return tok
		}
		tok.Type = token.PrivateName
		return tok

	case IsIdentifierStart(l.ch) || l.ch == '\\':
		return l.readIdentifier()

	default:
		return l.fail(diag.InvalidCharacter, l.pos, "Invalid or unexpected token")
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	var buf strings.Builder
	hasEscape := false

	for IsIdentifierPart(l.ch) || l.ch == '\\' {
		if l.ch == '\\' {
			escStart := l.pos
			hasEscape = true
			l.readChar() // consume backslash
			if l.ch != 'u' {
				return l.fail(diag.InvalidIdentifier, escStart, "Invalid escape in identifier")
			}
			l.readChar() // consume 'u'
			r := l.readUnicodeEscape()
			if r < 0 {
				return l.fail(diag.InvalidEscape, escStart, "Invalid Unicode escape sequence")
			}
			valid := IsIdentifierPart(rune(r))
			if buf.Len() == 0 {
				valid = IsIdentifierStart(rune(r))
			}
			if !valid {
				return l.fail(diag.InvalidIdentifier, escStart, "Invalid Unicode escape in identifier")
			}
			buf.WriteRune(rune(r))
		} else {
			buf.WriteString(l.input[l.pos:l.readPos])
			l.readChar()
		}
	}

	var literal string
	if hasEscape {
		literal = buf.String()
	} else {
		literal = l.input[start:l.pos]
	}

	tt := token.Identifier
	if !hasEscape {
		tt = token.LookupIdentifier(literal)
	}
	return token.Token{Type: tt, Literal: literal, Escaped: hasEscape, BadEscape: -1}
}

// writeUTF16CodeUnit writes a UTF-16 code unit (including surrogates) to a string builder.
// For surrogates, it uses WTF-8 encoding (3-byte sequences like regular code points)
// rather than the replacement character that Go's WriteRune would produce.
func writeUTF16CodeUnit(buf *strings.Builder, cu uint16) {
	if cu < 0x80 {
		buf.WriteByte(byte(cu))
	} else if cu < 0x800 {
		buf.WriteByte(byte(0xC0 | (cu >> 6)))
		buf.WriteByte(byte(0x80 | (cu & 0x3F)))
	} else {
		buf.WriteByte(byte(0xE0 | (cu >> 12)))
		buf.WriteByte(byte(0x80 | ((cu >> 6) & 0x3F)))
		buf.WriteByte(byte(0x80 | (cu & 0x3F)))
	}
}

func (l *Lexer) readUnicodeEscape() int {
	if l.ch == '{' {
		// \u{XXXX} form
		l.readChar()
		val := 0
		digits := 0
		for l.ch != '}' && l.ch != eof {
			d := hexVal(l.ch)
			if d < 0 {
				return -1
			}
			val = val*16 + d
			if val > 0x10FFFF {
				return -1
			}
			digits++
			l.readChar()
		}
		if l.ch != '}' || digits == 0 {
			return -1
		}
		l.readChar() // consume '}'
		return val
	}
	// \uXXXX form (exactly 4 hex digits)
	val := 0
	for i := 0; i < 4; i++ {
		d := hexVal(l.ch)
		if d < 0 {
			return -1
		}
		val = val*16 + d
		l.readChar()
	}
	return val
}

// Tokenize returns all tokens from the input, stopping at the first error.
// Without a parser the regexp/division choice is made from the previous
// token, which is good enough for debugging output.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	prevType := token.EOF // EOF means "start of input" - regex is valid here
	depth := 0
	var templateDepths []int

	for {
		tok := l.Next()
		switch {
		case tok.Type == token.Illegal:
			return tokens, l.Err()
		case (tok.Type == token.Slash || tok.Type == token.SlashAssign) && canPrecedeRegex(prevType):
			tok = l.ScanRegExp(tok)
		case tok.Type == token.LeftBrace:
			depth++
		case tok.Type == token.RightBrace:
			if n := len(templateDepths); n > 0 && templateDepths[n-1] == depth {
				templateDepths = templateDepths[:n-1]
				tok = l.ScanTemplateContinuation(tok)
			} else {
				depth--
			}
		}
		if tok.Type == token.Illegal {
			return tokens, l.Err()
		}
		if tok.Type == token.TemplateHead || tok.Type == token.TemplateMiddle {
			templateDepths = append(templateDepths, depth)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
		prevType = tok.Type
	}
}

// regexPrecedingTokens are the tokens after which a '/' is division.
var regexPrecedingTokens = map[token.TokenType]bool{
	token.Identifier:             true,
	token.PrivateName:            true,
	token.Number:                 true,
	token.BigInt:                 true,
	token.String:                 true,
	token.RegExp:                 true,
	token.True:                   true,
	token.False:                  true,
	token.Null:                   true,
	token.This:                   true,
	token.Super:                  true,
	token.RightParen:             true,
	token.RightBracket:           true,
	token.RightBrace:             true,
	token.Increment:              true,
	token.Decrement:              true,
	token.NoSubstitutionTemplate: true,
	token.TemplateTail:           true,
}

func canPrecedeRegex(tt token.TokenType) bool {
	return !regexPrecedingTokens[tt]
}
