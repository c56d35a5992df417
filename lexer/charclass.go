package lexer

import "unicode"

const (
	classIDStart uint8 = 1 << iota
	classIDPart
	classDecimal
	classHex
	classSpace
)

// asciiClass is the fast path for the first 128 code points.
var asciiClass [128]uint8

func init() {
	for c := 'a'; c <= 'z'; c++ {
		asciiClass[c] |= classIDStart | classIDPart
	}
	for c := 'A'; c <= 'Z'; c++ {
		asciiClass[c] |= classIDStart | classIDPart
	}
	asciiClass['$'] |= classIDStart | classIDPart
	asciiClass['_'] |= classIDStart | classIDPart
	for c := '0'; c <= '9'; c++ {
		asciiClass[c] |= classIDPart | classDecimal | classHex
	}
	for _, c := range "abcdefABCDEF" {
		asciiClass[c] |= classHex
	}
	for _, c := range "\t\v\f " {
		asciiClass[c] |= classSpace
	}
}

var (
	idStartTables    = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start}
	idContinueTables = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue}
)

func isPatternChar(ch rune) bool {
	return unicode.In(ch, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// IsIdentifierStart reports whether ch may begin an IdentifierName.
func IsIdentifierStart(ch rune) bool {
	if ch < 0 {
		return false
	}
	if ch < 128 {
		return asciiClass[ch]&classIDStart != 0
	}
	return unicode.IsOneOf(idStartTables, ch) && !isPatternChar(ch)
}

// IsIdentifierPart reports whether ch may continue an IdentifierName.
func IsIdentifierPart(ch rune) bool {
	if ch < 0 {
		return false
	}
	if ch < 128 {
		return asciiClass[ch]&classIDPart != 0
	}
	if ch == '\u200C' || ch == '\u200D' {
		return true
	}
	return unicode.IsOneOf(idContinueTables, ch) && !isPatternChar(ch)
}

func isDecimalDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return ch >= 0 && ch < 128 && asciiClass[ch]&classHex != 0
}

func isOctalDigit(ch rune) bool {
	return ch >= '0' && ch <= '7'
}

func isDigitInBase(ch rune, base int) bool {
	switch base {
	case 2:
		return ch == '0' || ch == '1'
	case 8:
		return isOctalDigit(ch)
	case 16:
		return isHexDigit(ch)
	}
	return isDecimalDigit(ch)
}

func isLineTerminator(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\u2028' || ch == '\u2029'
}

func isWhitespace(ch rune) bool {
	if ch < 0 {
		return false
	}
	if ch < 128 {
		return asciiClass[ch]&classSpace != 0
	}
	return ch == '\u00A0' || ch == '\uFEFF' || unicode.Is(unicode.Zs, ch)
}

func hexVal(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	default:
		return -1
	}
}
