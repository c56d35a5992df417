package lexer

import (
	"strings"

	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

func (l *Lexer) readString() token.Token {
	quote := l.ch
	start := l.pos
	l.readChar() // skip opening quote

	var buf strings.Builder
	legacy := false
	for {
		switch {
		case l.ch == eof, l.ch == '\n', l.ch == '\r':
			return l.fail(diag.UnterminatedString, start, "Unterminated string literal")
		case l.ch == quote:
			l.readChar()
			return token.Token{Type: token.String, Literal: buf.String(), LegacyOctal: legacy, BadEscape: -1}
		case l.ch == '\\':
			escStart := l.pos
			l.readChar()
			octal, ok := l.readEscape(&buf, false)
			if !ok {
				return l.fail(diag.InvalidEscape, escStart, "Invalid escape sequence")
			}
			legacy = legacy || octal
		default:
			// copy the source bytes so invalid UTF-8 survives unchanged
			buf.WriteString(l.input[l.pos:l.readPos])
			l.readChar()
		}
	}
}

// readEscape decodes the escape sequence after a backslash into buf. It
// reports whether the escape was a legacy octal (\1, \01, \8) and whether
// it was well formed. Template literals reject legacy octals outright.
func (l *Lexer) readEscape(buf *strings.Builder, template bool) (legacyOctal, ok bool) {
	switch l.ch {
	case eof:
		return false, false
	case 'n':
		buf.WriteByte('\n')
	case 't':
		buf.WriteByte('\t')
	case 'r':
		buf.WriteByte('\r')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'v':
		buf.WriteByte('\v')
	case '\r':
		// line continuation
		l.readChar()
		if l.ch == '\n' {
			l.readChar()
		}
		return false, true
	case '\n', '\u2028', '\u2029':
		l.readChar()
		return false, true
	case 'x':
		l.readChar()
		hi, lo := hexVal(l.ch), hexVal(l.peekChar())
		if hi < 0 || lo < 0 {
			return false, false
		}
		l.readChar()
		l.readChar()
		writeUTF16CodeUnit(buf, uint16(hi<<4|lo))
		return false, true
	case 'u':
		l.readChar()
		r := l.readUnicodeEscape()
		if r < 0 {
			return false, false
		}
		l.writeCodePoint(buf, r)
		return false, true
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if l.ch == '0' && !isDecimalDigit(l.peekChar()) {
			buf.WriteByte(0)
			break
		}
		if template {
			return false, false
		}
		// up to three digits, value at most 0377
		val := int(l.ch - '0')
		maxDigits := 3
		if val > 3 {
			maxDigits = 2
		}
		l.readChar()
		for i := 1; i < maxDigits && isOctalDigit(l.ch); i++ {
			val = val*8 + int(l.ch-'0')
			l.readChar()
		}
		writeUTF16CodeUnit(buf, uint16(val))
		return true, true
	case '8', '9':
		if template {
			return false, false
		}
		buf.WriteRune(l.ch)
		l.readChar()
		return true, true
	default:
		// identity escape
		buf.WriteString(l.input[l.pos:l.readPos])
	}
	l.readChar()
	return false, true
}

// writeCodePoint writes r, joining a \uD83D\uDE00 style surrogate pair into
// one code point when the low half follows immediately.
func (l *Lexer) writeCodePoint(buf *strings.Builder, r int) {
	if r >= 0x10000 {
		buf.WriteRune(rune(r))
		return
	}
	if r >= 0xD800 && r <= 0xDBFF && l.ch == '\\' && l.peekChar() == 'u' {
		saved := l.pos
		l.readChar()
		l.readChar()
		lo := l.readUnicodeEscape()
		if lo >= 0xDC00 && lo <= 0xDFFF {
			buf.WriteRune(rune((r-0xD800)<<10 + (lo - 0xDC00) + 0x10000))
			return
		}
		l.seek(saved)
	}
	writeUTF16CodeUnit(buf, uint16(r))
}

// ---------- Templates ----------

func (l *Lexer) readTemplate() token.Token {
	start := l.pos
	l.readChar() // skip `
	return l.readTemplatePart(start, true)
}

// ScanTemplateContinuation rescans a '}' token that closes a template
// substitution as a TemplateMiddle or TemplateTail.
func (l *Lexer) ScanTemplateContinuation(brace token.Token) token.Token {
	l.err = nil
	l.seek(brace.Start + 1)
	tok := l.readTemplatePart(brace.Start, false)
	return l.finish(tok, brace.Start, brace.NewlineBefore)
}

// readTemplatePart scans template characters up to the closing backtick or
// the next `${`. An invalid escape does not stop the scan; its offset is
// kept in BadEscape so tagged templates can still use the raw text.
func (l *Lexer) readTemplatePart(start int, opening bool) token.Token {
	var buf strings.Builder
	bad := -1
	for {
		switch {
		case l.ch == eof:
			return l.fail(diag.UnterminatedTemplate, start, "Unterminated template literal")
		case l.ch == '`':
			l.readChar()
			tt := token.TemplateTail
			if opening {
				tt = token.NoSubstitutionTemplate
			}
			return token.Token{Type: tt, Literal: buf.String(), BadEscape: bad}
		case l.ch == '$' && l.peekChar() == '{':
			l.readChar()
			l.readChar()
			tt := token.TemplateMiddle
			if opening {
				tt = token.TemplateHead
			}
			return token.Token{Type: tt, Literal: buf.String(), BadEscape: bad}
		case l.ch == '\\':
			escStart := l.pos
			l.readChar()
			if _, ok := l.readEscape(&buf, true); !ok && bad < 0 {
				bad = escStart
			}
		case l.ch == '\r':
			l.readChar()
			if l.ch == '\n' {
				l.readChar()
			}
			buf.WriteByte('\n')
		default:
			buf.WriteString(l.input[l.pos:l.readPos])
			l.readChar()
		}
	}
}

// TemplateRaw returns the raw text of a template part: the source between
// the delimiters with CR and CRLF normalized to LF.
func TemplateRaw(tok token.Token) string {
	raw := tok.Raw
	if len(raw) > 0 && (raw[0] == '`' || raw[0] == '}') {
		raw = raw[1:]
	}
	switch {
	case strings.HasSuffix(raw, "${"):
		raw = raw[:len(raw)-2]
	case strings.HasSuffix(raw, "`"):
		raw = raw[:len(raw)-1]
	}
	if strings.IndexByte(raw, '\r') >= 0 {
		raw = strings.ReplaceAll(raw, "\r\n", "\n")
		raw = strings.ReplaceAll(raw, "\r", "\n")
	}
	return raw
}

// ---------- Regular expressions ----------

const regexpFlags = "dgimsuyv"

// ScanRegExp rescans a '/' or '/=' token as a regular expression literal.
// The pattern body is not validated beyond finding its end.
func (l *Lexer) ScanRegExp(slash token.Token) token.Token {
	l.err = nil
	l.seek(slash.Start + 1)
	inClass := false
	for {
		if l.ch == eof || isLineTerminator(l.ch) {
			return l.fail(diag.UnterminatedRegExp, slash.Start, "Invalid regular expression: missing /")
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == eof || isLineTerminator(l.ch) {
				return l.fail(diag.UnterminatedRegExp, slash.Start, "Invalid regular expression: missing /")
			}
		} else if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			break
		}
		l.readChar()
	}
	pattern := l.input[slash.Start+1 : l.pos]
	l.readChar() // closing /

	flagStart := l.pos
	for IsIdentifierPart(l.ch) || l.ch == '\\' {
		if l.ch == '\\' {
			return l.fail(diag.InvalidRegExpFlags, l.pos, "Invalid regular expression flags")
		}
		if !strings.ContainsRune(regexpFlags, l.ch) || strings.ContainsRune(l.input[flagStart:l.pos], l.ch) {
			return l.fail(diag.InvalidRegExpFlags, l.pos, "Invalid regular expression flags")
		}
		l.readChar()
	}
	flags := l.input[flagStart:l.pos]
	if strings.ContainsRune(flags, 'u') && strings.ContainsRune(flags, 'v') {
		return l.fail(diag.InvalidRegExpFlags, flagStart, "Invalid regular expression flags")
	}

	tok := token.Token{Type: token.RegExp, Pattern: pattern, Flags: flags, BadEscape: -1}
	return l.finish(tok, slash.Start, slash.NewlineBefore)
}
