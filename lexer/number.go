package lexer

import (
	"strconv"

	"github.com/atlang/atlex/token"
)

// readNumber scans a numeric literal. ch is a decimal digit when this is
// called. Recognised forms:
//
//	0x1F    hex integer       UNUM (uint64)
//	017     octal integer     ONUM (uint64)
//	42      decimal integer   INUM (int64)
//	3.14e-2 float             FNUM (float64)
//
// Malformed numbers are read to their last digit, reported, and returned as
// an ERROR token.
func (l *Lexer) readNumber() token.Token {
	s := l.src
	l.narrow.Reset()

	if s.ch != '0' {
		if !l.takeDigits(isDigit) {
			return token.Token{}
		}
		if s.ch == '.' {
			return l.readFloat()
		}
		return l.finishNumber(token.INUM)
	}

	if !l.take() { // '0'
		return token.Token{}
	}
	switch {
	case s.ch == 'x' || s.ch == 'X':
		if !l.take() {
			return token.Token{}
		}
		if !isHex(s.ch) {
			return l.malformed("hex")
		}
		if !l.takeDigits(isHex) {
			return token.Token{}
		}
		return l.finishNumber(token.UNUM)

	case s.ch == '.':
		return l.readFloat()

	case isDigit(s.ch):
		if !l.takeDigits(isOctal) {
			return token.Token{}
		}
		if isDigit(s.ch) {
			if !l.takeDigits(isDigit) {
				return token.Token{}
			}
			return l.malformed("octal")
		}
		return l.finishNumber(token.ONUM)
	}
	return l.finishNumber(token.INUM) // plain zero
}

// readFloat finishes a float once the integer part has been read and ch is
// the '.'.
func (l *Lexer) readFloat() token.Token {
	s := l.src
	if !l.take() || !l.takeDigits(isDigit) { // '.' and the fraction
		return token.Token{}
	}
	if s.ch != 'e' && s.ch != 'E' {
		return l.finishNumber(token.FNUM)
	}
	if !l.take() {
		return token.Token{}
	}
	if s.ch == '+' || s.ch == '-' {
		if !l.take() {
			return token.Token{}
		}
	}
	if !isDigit(s.ch) {
		return l.malformed("float")
	}
	if !l.takeDigits(isDigit) {
		return token.Token{}
	}
	return l.finishNumber(token.FNUM)
}

// finishNumber converts the buffered text into the token's value.
func (l *Lexer) finishNumber(tt token.Type) token.Token {
	text := l.narrow.Contents().String()
	var (
		v   any
		err error
	)
	switch tt {
	case token.INUM:
		v, err = strconv.ParseInt(text, 10, 64)
	case token.UNUM:
		v, err = strconv.ParseUint(text[2:], 16, 64)
	case token.ONUM:
		v, err = strconv.ParseUint(text[1:], 8, 64)
	case token.FNUM:
		v, err = strconv.ParseFloat(text, 64)
	}
	if err != nil {
		l.errorf(l.tokPos, ErrMalformedNumber, "number out of range: %s", text)
		return token.Token{Type: token.ERROR, Literal: text, Pos: l.tokPos}
	}
	return token.Token{Type: tt, Literal: text, Value: v, Pos: l.tokPos}
}

func (l *Lexer) malformed(kind string) token.Token {
	text := l.narrow.Contents().String()
	l.errorf(l.tokPos, ErrMalformedNumber, "malformed %s number: %s", kind, text)
	return token.Token{Type: token.ERROR, Literal: text, Pos: l.tokPos}
}

// take moves ch into the narrow buffer and advances.
func (l *Lexer) take() bool {
	if !l.appendNarrow(byte(l.src.ch)) {
		return false
	}
	l.src.readChar()
	return true
}

// takeDigits takes characters while class accepts them.
func (l *Lexer) takeDigits(class func(rune) bool) bool {
	for class(l.src.ch) {
		if !l.take() {
			return false
		}
	}
	return true
}
