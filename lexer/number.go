package lexer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

func (l *Lexer) readNumber() token.Token {
	start := l.pos

	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			return l.readRadixNumber(start, 16)
		case 'o', 'O':
			return l.readRadixNumber(start, 8)
		case 'b', 'B':
			return l.readRadixNumber(start, 2)
		}
		if isDecimalDigit(l.peekChar()) {
			return l.readLegacyNumber(start)
		}
	}

	intPart := "0"
	if l.ch == '0' {
		l.readChar()
		if l.ch == '_' {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are not allowed after a leading zero")
		}
	} else if l.ch != '.' {
		digits, ok := l.readDigits(10)
		if !ok {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
		}
		intPart = digits
	}

	isInteger := true
	var text strings.Builder
	text.WriteString(intPart)

	// Fractional part
	if l.ch == '.' {
		isInteger = false
		l.readChar()
		if l.ch == '_' {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
		}
		frac, ok := l.readDigits(10)
		if !ok {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
		}
		text.WriteByte('.')
		text.WriteString(frac)
		if frac == "" {
			text.WriteByte('0')
		}
	}

	// Exponent
	if l.ch == 'e' || l.ch == 'E' {
		isInteger = false
		l.readChar()
		text.WriteByte('e')
		if l.ch == '+' || l.ch == '-' {
			text.WriteRune(l.ch)
			l.readChar()
		}
		if !isDecimalDigit(l.ch) {
			return l.fail(diag.InvalidNumber, l.pos, "Missing exponent")
		}
		exp, ok := l.readDigits(10)
		if !ok {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
		}
		text.WriteString(exp)
	}

	// BigInt suffix
	if l.ch == 'n' {
		if !isInteger {
			return l.fail(diag.InvalidNumber, start, "Invalid BigInt literal")
		}
		l.readChar()
		if err := l.checkNumberEnd(); err != nil {
			return *err
		}
		i, _ := new(big.Int).SetString(intPart, 10)
		return token.Token{Type: token.BigInt, Literal: i.String(), BadEscape: -1}
	}

	if err := l.checkNumberEnd(); err != nil {
		return *err
	}
	value, err := strconv.ParseFloat(text.String(), 64)
	if err != nil {
		// ParseFloat reports range errors but still returns an infinity or zero
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return l.fail(diag.InvalidNumber, start, "Invalid number")
		}
	}
	return token.Token{Type: token.Number, Value: value, BadEscape: -1}
}

func (l *Lexer) readRadixNumber(start, base int) token.Token {
	l.readChar() // 0
	l.readChar() // x, o or b
	if !isDigitInBase(l.ch, base) {
		return l.fail(diag.InvalidNumber, start, "Missing digits after base prefix")
	}
	digits, ok := l.readDigits(base)
	if !ok {
		return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
	}
	i, _ := new(big.Int).SetString(digits, base)

	if l.ch == 'n' {
		l.readChar()
		if err := l.checkNumberEnd(); err != nil {
			return *err
		}
		return token.Token{Type: token.BigInt, Literal: i.String(), BadEscape: -1}
	}
	if err := l.checkNumberEnd(); err != nil {
		return *err
	}
	value, _ := new(big.Float).SetInt(i).Float64()
	return token.Token{Type: token.Number, Value: value, BadEscape: -1}
}

// readLegacyNumber scans 0-prefixed integers: 017 is octal, 018 and 09.5
// are decimal. Neither form takes separators or a BigInt suffix.
func (l *Lexer) readLegacyNumber(start int) token.Token {
	octal := true
	for isDecimalDigit(l.ch) {
		if !isOctalDigit(l.ch) {
			octal = false
		}
		l.readChar()
	}
	digits := l.input[start:l.pos]
	if l.ch == '_' {
		return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are not allowed in legacy octal literals")
	}
	if l.ch == 'n' {
		return l.fail(diag.InvalidNumber, start, "Invalid BigInt literal")
	}

	if octal {
		if err := l.checkNumberEnd(); err != nil {
			return *err
		}
		i, _ := new(big.Int).SetString(digits, 8)
		value, _ := new(big.Float).SetInt(i).Float64()
		return token.Token{Type: token.Number, Value: value, LegacyOctal: true, BadEscape: -1}
	}

	text := digits
	if l.ch == '.' {
		l.readChar()
		frac, ok := l.readDigits(10)
		if !ok {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
		}
		text += "." + frac + "0"
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		text += "e"
		if l.ch == '+' || l.ch == '-' {
			text += string(l.ch)
			l.readChar()
		}
		if !isDecimalDigit(l.ch) {
			return l.fail(diag.InvalidNumber, l.pos, "Missing exponent")
		}
		exp, ok := l.readDigits(10)
		if !ok {
			return l.fail(diag.InvalidNumber, l.pos, "Numeric separators are only allowed between digits")
		}
		text += exp
	}
	if err := l.checkNumberEnd(); err != nil {
		return *err
	}
	value, _ := strconv.ParseFloat(text, 64)
	return token.Token{Type: token.Number, Value: value, LegacyOctal: true, BadEscape: -1}
}

// readDigits consumes digits of the given base with optional '_'
// separators and returns them with the separators removed. A separator
// must sit between two digits.
func (l *Lexer) readDigits(base int) (string, bool) {
	var buf strings.Builder
	prevSep := false
	for {
		if l.ch == '_' {
			if buf.Len() == 0 || prevSep {
				return "", false
			}
			prevSep = true
			l.readChar()
			continue
		}
		if !isDigitInBase(l.ch, base) {
			break
		}
		buf.WriteRune(l.ch)
		prevSep = false
		l.readChar()
	}
	if prevSep {
		return "", false
	}
	return buf.String(), true
}

// checkNumberEnd rejects `3in` and `0b12`: a numeric literal may not be
// immediately followed by an identifier start or a digit.
func (l *Lexer) checkNumberEnd() *token.Token {
	if IsIdentifierStart(l.ch) || isDecimalDigit(l.ch) || l.ch == '\\' {
		tok := l.fail(diag.InvalidNumber, l.pos, "Identifier starts immediately after numeric literal")
		return &tok
	}
	return nil
}
