// Package lexer implements the AT language scanner.
//
// The scanner converts source text into a stream of [token.Token] values.
// Create one with [New] (or [NewWithOptions] and push sources), then call
// [Lexer.NextToken] repeatedly until you receive a token with Type ==
// [token.END_OF_INPUT].
//
// Design notes:
//   - Single-pass, character-by-character scanning using a read cursor.
//   - No global state; every [Lexer] owns its cursor, buffers and options.
//     The symbol table is shared by reference and may outlive the scanner.
//   - Token text is assembled in reusable growable buffers: a narrow (byte)
//     buffer, and a wide (UTF-16) buffer a string literal is promoted to when
//     an escape decodes to a code point above 0xFF.
//   - Identifiers are interned; reserved words are entries of the same table,
//     so one lookup classifies a word.
//   - Malformed input is reported to the diagnostics sink and scanning
//     continues. Only exhausted limits and over-deep source nesting are fatal.
package lexer

import (
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	"github.com/atlang/atlex/buffer"
	"github.com/atlang/atlex/diag"
	"github.com/atlang/atlex/symtab"
	"github.com/atlang/atlex/token"
)

// tracer traces with key 'atlex.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("atlex.lexer")
}

// Recoverable lexical errors. They are reported through the diagnostics sink
// as the Err of a [diag.Diagnostic]; scanning continues after each.
var (
	ErrMalformedEscape       = errors.New("malformed escape sequence")
	ErrEscapeOutOfRange      = errors.New("escape sequence out of range")
	ErrUnterminatedLiteral   = errors.New("unterminated string literal")
	ErrUnterminatedComment   = errors.New("unterminated comment")
	ErrUnrecognizedCharacter = errors.New("unrecognized character")
	ErrMalformedNumber       = errors.New("malformed number")
)

// Options configures a Lexer. The zero value is ready to use.
type Options struct {
	// Symbols interns identifiers. When nil the lexer creates a private
	// symbol table.
	Symbols symtab.Interner
	// Sink receives diagnostics. When nil they are collected by a private
	// diag.Collector that discards its output.
	Sink diag.Sink
	// FoldCase makes the private symbol table case-insensitive.
	FoldCase bool
	// MaxTokenLen caps the length of a single token in code units.
	// Exceeding it is fatal. 0 means no limit.
	MaxTokenLen int
	// MaxSymbols caps the private symbol table. 0 means no limit.
	MaxSymbols int
	// NoRawStrings disables '…' raw strings; a quote is then an
	// unrecognized character.
	NoRawStrings bool
}

// Lexer holds all state required to tokenise a stack of sources.
// Never copy a Lexer after first use.
type Lexer struct {
	src   *source   // active source, nil once input is exhausted
	stack []*source // suspended sources

	syms symtab.Interner
	sink diag.Sink
	opts Options

	narrow *buffer.Narrow
	wide   *buffer.Wide
	inWide bool // the literal being assembled lives in wide
	escHi  []int // narrow offsets of escape bytes >= 0x80

	tokPos token.Position // start of the token being scanned
	last   token.Position // start of the token most recently returned

	err  error // fatal error, terminal
	done bool  // END_OF_INPUT reached
}

// New creates a [Lexer] with default options that tokenises input.
// The lexer is positioned at the first character; call [Lexer.NextToken]
// immediately to begin scanning.
func New(input string) *Lexer {
	l := NewWithOptions(Options{})
	_ = l.PushString("input", input)
	return l
}

// NewWithOptions creates a [Lexer] with no source. Push one with
// [Lexer.PushString], [Lexer.PushFile] or [Lexer.PushReader].
func NewWithOptions(opts Options) *Lexer {
	l := &Lexer{
		opts: opts,
		syms: opts.Symbols,
		sink: opts.Sink,
	}
	if l.syms == nil {
		l.syms = symtab.New(symtab.Options{FoldCase: opts.FoldCase, MaxSymbols: opts.MaxSymbols})
	}
	if l.sink == nil {
		l.sink = diag.NewCollector(io.Discard)
	}
	bo := buffer.Options{Limit: opts.MaxTokenLen}
	l.narrow = buffer.NewNarrow(bo)
	l.wide = buffer.NewWide(bo)
	return l
}

// Sink returns the diagnostics sink in use.
func (l *Lexer) Sink() diag.Sink { return l.sink }

// Err returns the fatal error that terminated the scan, or nil.
func (l *Lexer) Err() error { return l.err }

// NextToken returns the next token from the input.
//
// Whitespace and comments are skipped before each token. When a pushed source
// ends while another is suspended, END_OF_FILE is returned and scanning
// resumes in the suspended source. When every source is exhausted, or after
// a fatal error, NextToken returns END_OF_INPUT on every call.
func (l *Lexer) NextToken() token.Token {
	for {
		if l.err != nil || l.src == nil {
			return l.endOfInput()
		}
		l.skipWhitespaceAndComments()
		l.tokPos = l.position()

		if l.src.ch == eof {
			if l.popSource() {
				return l.emit(token.Token{Type: token.END_OF_FILE, Pos: l.tokPos})
			}
			return l.endOfInput()
		}

		tok, ok := l.scan()
		if l.err != nil {
			return l.endOfInput()
		}
		if ok {
			return l.emit(tok)
		}
	}
}

func (l *Lexer) emit(tok token.Token) token.Token {
	l.last = tok.Pos
	return tok
}

func (l *Lexer) endOfInput() token.Token {
	if !l.done {
		l.done = true
		if l.src == nil && l.err == nil {
			tracer().Debugf("end of input")
		}
	}
	return l.emit(token.Token{Type: token.END_OF_INPUT, Pos: l.tokPos})
}

// scan recognises one token starting at ch. It reports false when the
// character was skipped without producing a token.
func (l *Lexer) scan() (token.Token, bool) {
	ch := l.src.ch
	switch {
	case ch == '"':
		return l.readString(), true
	case ch == '\'' && !l.opts.NoRawStrings:
		return l.readRawString(), true
	case isDigit(ch):
		return l.readNumber(), true
	case isLetter(ch):
		return l.readIdentifier(), true
	}
	if tok, ok := l.readOperator(); ok {
		return tok, true
	}
	l.errorf(l.tokPos, ErrUnrecognizedCharacter, "unrecognized character in input: %q (0x%02X)", ch, ch)
	l.src.readChar()
	return token.Token{}, false
}

// ── Position tracking ─────────────────────────────────────────────────────────

func (l *Lexer) position() token.Position {
	if l.src == nil {
		return l.tokPos
	}
	return token.Position{File: l.src.name, Offset: l.src.pos, Line: l.src.line, Col: l.src.col}
}

// Position returns the start of the most recently returned token.
func (l *Lexer) Position() token.Position { return l.last }

// FileName returns the source name of the most recently returned token.
func (l *Lexer) FileName() string { return l.last.File }

// Line returns the line of the most recently returned token.
func (l *Lexer) Line() int { return l.last.Line }

// Column returns the column of the most recently returned token.
func (l *Lexer) Column() int { return l.last.Col }

// ── Diagnostics ───────────────────────────────────────────────────────────────

func (l *Lexer) report(sev diag.Severity, pos token.Position, err error, msg string) {
	l.sink.Report(diag.Diagnostic{Severity: sev, Pos: pos, Err: err, Msg: msg})
}

func (l *Lexer) errorf(pos token.Position, err error, format string, args ...any) {
	l.report(diag.Error, pos, err, fmt.Sprintf(format, args...))
}

// fail records a fatal error. The scan ends: every later NextToken returns
// END_OF_INPUT.
func (l *Lexer) fail(err error) {
	if l.err != nil {
		return
	}
	l.err = err
	tracer().Errorf("scan aborted: %v", err)
	l.report(diag.Fatal, l.tokPos, err, err.Error())
}

// ── Whitespace and comments ───────────────────────────────────────────────────

// skipWhitespaceAndComments advances past whitespace, line comments
// (// … \n) and block comments (/* … */) before the next meaningful token.
func (l *Lexer) skipWhitespaceAndComments() {
	s := l.src
	for {
		switch {
		case s.ch == eof:
			return
		case unicode.IsSpace(s.ch):
			s.readChar()
		case s.ch == '/' && s.peekChar() == '/':
			for s.ch != '\n' && s.ch != eof {
				s.readChar()
			}
		case s.ch == '/' && s.peekChar() == '*':
			start := l.position()
			s.readChar() // '/'
			s.readChar() // '*'
			for {
				if s.ch == eof {
					l.errorf(start, ErrUnterminatedComment, "comment is not terminated")
					return
				}
				if s.ch == '*' && s.peekChar() == '/' {
					s.readChar()
					s.readChar()
					break
				}
				s.readChar()
			}
		default:
			return
		}
	}
}

// ── Identifiers ───────────────────────────────────────────────────────────────

// readIdentifier scans a maximal run of identifier characters into the
// narrow buffer and classifies it through the symbol table.
func (l *Lexer) readIdentifier() token.Token {
	s := l.src
	l.narrow.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		if !l.appendNarrow(byte(s.ch)) {
			return token.Token{}
		}
		s.readChar()
	}

	text := l.narrow.Contents().String()
	sym, err := l.syms.Intern(text)
	if err != nil {
		l.fail(fmt.Errorf("cannot intern %q: %w", text, err))
		return token.Token{}
	}
	return token.Token{Type: sym.Type, Literal: text, Sym: sym, Pos: l.tokPos}
}

// ── Operators ─────────────────────────────────────────────────────────────────

// readOperator matches the longest operator spelling at the cursor.
func (l *Lexer) readOperator() (token.Token, bool) {
	s := l.src
	if s.ch >= utf8.RuneSelf {
		return token.Token{}, false
	}
	end := s.pos + token.MaxOperatorLen
	if end > len(s.input) {
		end = len(s.input)
	}
	cand := s.input[s.pos:end]
	for n := len(cand); n > 0; n-- {
		tt, ok := token.LookupOperator(cand[:n])
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			s.readChar()
		}
		return token.Token{Type: tt, Literal: cand[:n], Pos: l.tokPos}, true
	}
	return token.Token{}, false
}

// ── Strings ───────────────────────────────────────────────────────────────────

// readString scans a double-quoted string literal, decoding escapes. The
// opening '"' is ch when this is called.
//
// A literal cut short by a newline or the end of the source yields an ERROR
// token; the newline is left for the next call so scanning resumes on the
// following line. A literal containing a bad escape is read to its closing
// quote and also yields an ERROR token.
func (l *Lexer) readString() token.Token {
	s := l.src
	l.resetLiteral()
	s.readChar() // skip opening '"'

	bad := false
	for {
		switch s.ch {
		case '"':
			s.readChar()
			return l.literalToken(bad)

		case '\\':
			escPos := l.position()
			s.readChar()
			err := l.readEscape()
			if l.err != nil {
				return token.Token{}
			}
			if err != nil {
				l.errorf(escPos, err, "%v", err)
				bad = true
			}

		case '\n', eof:
			l.errorf(l.tokPos, ErrUnterminatedLiteral, "line breaks are not allowed in a string")
			return l.errorToken()

		default:
			if !l.appendSource() {
				return token.Token{}
			}
			s.readChar()
		}
	}
}

// readRawString scans a single-quoted string. Its text is taken exactly as
// found in the source; there are no escapes.
func (l *Lexer) readRawString() token.Token {
	s := l.src
	l.resetLiteral()
	s.readChar() // skip opening '\''

	for {
		switch s.ch {
		case '\'':
			s.readChar()
			return l.literalToken(false)
		case '\n', eof:
			l.errorf(l.tokPos, ErrUnterminatedLiteral, "line breaks are not allowed in a string")
			return l.errorToken()
		default:
			if !l.appendSource() {
				return token.Token{}
			}
			s.readChar()
		}
	}
}

func (l *Lexer) resetLiteral() {
	l.narrow.Reset()
	l.wide.Reset()
	l.inWide = false
	l.escHi = l.escHi[:0]
}

// literalText returns the decoded literal and, for wide literals, a copy
// of its UTF-16 units.
func (l *Lexer) literalText() (string, []uint16) {
	if l.inWide {
		units := l.wide.Contents().Copy()
		return string(utf16.Decode(units)), units
	}
	return l.narrow.Contents().String(), nil
}

func (l *Lexer) literalToken(bad bool) token.Token {
	if bad {
		return l.errorToken()
	}
	text, units := l.literalText()
	return token.Token{Type: token.QSTRG, Literal: text, Value: text, Wide: units, Pos: l.tokPos}
}

func (l *Lexer) errorToken() token.Token {
	text, _ := l.literalText()
	return token.Token{Type: token.ERROR, Literal: text, Pos: l.tokPos}
}

// ── Buffer plumbing ───────────────────────────────────────────────────────────

// appendNarrow adds one byte to the narrow buffer. Running out of room is
// fatal; false is returned then.
func (l *Lexer) appendNarrow(b byte) bool {
	if err := l.narrow.Append(b); err != nil {
		l.fail(fmt.Errorf("token too long: %w", err))
		return false
	}
	return true
}

// appendWide adds the UTF-16 encoding of r to the wide buffer.
func (l *Lexer) appendWide(r rune) bool {
	var err error
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		if err = l.wide.Append(uint16(hi)); err == nil {
			err = l.wide.Append(uint16(lo))
		}
	} else {
		err = l.wide.Append(uint16(r))
	}
	if err != nil {
		l.fail(fmt.Errorf("token too long: %w", err))
		return false
	}
	return true
}

// appendSource adds the current source character to the literal.
func (l *Lexer) appendSource() bool {
	s := l.src
	if l.inWide {
		r := s.ch
		if r == utf8.RuneError && s.width == 1 {
			r = rune(s.input[s.pos])
		}
		return l.appendWide(r)
	}
	raw := s.raw()
	for i := 0; i < len(raw); i++ {
		if !l.appendNarrow(raw[i]) {
			return false
		}
	}
	return true
}

// appendByte adds a single-byte code unit, e.g. from an octal escape.
func (l *Lexer) appendByte(b byte) bool {
	if l.inWide {
		return l.appendWide(rune(b))
	}
	if b >= utf8.RuneSelf {
		l.escHi = append(l.escHi, l.narrow.Len())
	}
	return l.appendNarrow(b)
}

// appendCodePoint adds a decoded code point, promoting the literal to the
// wide buffer when it does not fit a byte.
func (l *Lexer) appendCodePoint(r rune) bool {
	if r <= 0xFF {
		return l.appendByte(byte(r))
	}
	if !l.inWide && !l.promote() {
		return false
	}
	return l.appendWide(r)
}

// promote transcodes the narrow buffer into the wide one. Bytes that came
// from escapes become the code unit of the same value. Source text between
// them is decoded as UTF-8, with stray bytes widened as they are.
func (l *Lexer) promote() bool {
	l.wide.Reset()
	bs := l.narrow.Contents().Units()
	esc := l.escHi
	for i := 0; i < len(bs); {
		if len(esc) > 0 && esc[0] == i {
			if !l.appendWide(rune(bs[i])) {
				return false
			}
			esc = esc[1:]
			i++
			continue
		}
		end := len(bs)
		if len(esc) > 0 {
			end = esc[0]
		}
		r, n := utf8.DecodeRune(bs[i:end])
		if r == utf8.RuneError && n <= 1 {
			r, n = rune(bs[i]), 1
		}
		if !l.appendWide(r) {
			return false
		}
		i += n
	}
	l.inWide = true
	return true
}

// ── Character classes ─────────────────────────────────────────────────────────

// isLetter reports whether r may start an identifier: [A-Za-z_].
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// isDigit reports whether r is an ASCII decimal digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isOctal(r rune) bool {
	return r >= '0' && r <= '7'
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
