package lexer

import (
	"fmt"
	"strconv"
)

// Digit limits for numeric escapes.
const (
	maxHexDigits     = 8
	maxDecimalDigits = 10
	maxOctalDigits   = 3
)

// simpleEscapes maps the character after a backslash to its value.
var simpleEscapes = map[rune]byte{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f', 'v': '\v',
	'\\': '\\', '"': '"', '\'': '\'',
}

// readEscape decodes one escape sequence into the literal. The backslash has
// been consumed; ch is the character after it. On error the offending
// character is left unread.
//
//	\x41      hex, 1-8 digits
//	\d65      decimal, optional sign, 1-10 digits (also \D)
//	\101 \0   octal, \0 plus up to 3 digits or \1-\7 plus up to 2
//	\n \t …   simple escapes; any other \c stands for c
func (l *Lexer) readEscape() error {
	s := l.src
	c := s.ch
	switch {
	case c == eof || c == '\n':
		return nil // the string reader reports the unterminated literal
	case c == 'x' || c == 'X':
		s.readChar()
		return l.numericEscape("hex", 16, maxHexDigits, false, 0x10FFFF)
	case c == 'd' || c == 'D':
		s.readChar()
		return l.numericEscape("decimal", 10, maxDecimalDigits, true, 0x10FFFF)
	case isOctal(c):
		digits := maxOctalDigits
		if c == '0' {
			digits++ // \0 introduces up to three further digits
		}
		return l.numericEscape("octal", 8, digits, false, 0xFF)
	}

	if b, ok := simpleEscapes[c]; ok {
		s.readChar()
		l.appendByte(b)
		return nil
	}
	// unknown escape: the character stands for itself
	l.appendSource()
	s.readChar()
	return nil
}

// numericEscape reads up to maxDigits digits in the given base and appends the
// value as one code point.
func (l *Lexer) numericEscape(kind string, base, maxDigits int, signed bool, limit int64) error {
	s := l.src
	var digits []byte
	if signed && (s.ch == '+' || s.ch == '-') {
		digits = append(digits, byte(s.ch))
		s.readChar()
	}
	n := 0
	for n < maxDigits && isBaseDigit(s.ch, base) {
		digits = append(digits, byte(s.ch))
		s.readChar()
		n++
	}
	if n == 0 {
		if s.ch == eof || s.ch == '\n' {
			return fmt.Errorf("%w: %s escape without digits", ErrMalformedEscape, kind)
		}
		return fmt.Errorf("%w: %q is not a %s digit", ErrMalformedEscape, s.ch, kind)
	}

	v, err := strconv.ParseInt(string(digits), base, 64)
	if err != nil || v < 0 || v > limit {
		return fmt.Errorf("%w: %s escape \\%s", ErrEscapeOutOfRange, kind, digits)
	}
	if v >= 0xD800 && v <= 0xDFFF {
		return fmt.Errorf("%w: %s escape \\%s is a surrogate", ErrEscapeOutOfRange, kind, digits)
	}
	l.appendCodePoint(rune(v))
	return nil
}

func isBaseDigit(r rune, base int) bool {
	switch base {
	case 8:
		return isOctal(r)
	case 16:
		return isHex(r)
	}
	return isDigit(r)
}
