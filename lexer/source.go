package lexer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// eof is the value of ch once a source is exhausted.
const eof = -1

// MaxNesting is the deepest a source may be pushed on top of others.
const MaxNesting = 15

// ErrNestingTooDeep is the fatal error for pushing more than MaxNesting
// sources.
var ErrNestingTooDeep = errors.New("maximum source nesting depth exceeded")

// source is one input being scanned: a file, a string, or a REPL line.
type source struct {
	name    string
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset of the character after ch
	ch      rune // current character, or eof
	width   int  // byte width of ch

	line int // current 1-based line
	col  int // 1-based column of ch
}

func newSource(name, input string) *source {
	s := &source{name: name, input: input, line: 1}
	s.readChar() // prime: set s.ch to the first character
	return s
}

// readChar advances by one character. Newlines bump the line counter and
// reset the column, so the first character of a line sits in column 1.
func (s *source) readChar() {
	s.pos = s.readPos
	if s.readPos >= len(s.input) {
		if s.ch != eof {
			s.col++ // end of input sits just past the last character
		}
		s.ch = eof
		s.width = 0
		return
	}
	r, w := rune(s.input[s.readPos]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRuneInString(s.input[s.readPos:])
	}
	s.ch = r
	s.width = w
	s.readPos += w

	if s.ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
}

// peekChar returns the character after ch without consuming it.
func (s *source) peekChar() rune {
	if s.readPos >= len(s.input) {
		return eof
	}
	r := rune(s.input[s.readPos])
	if r >= utf8.RuneSelf {
		r, _ = utf8.DecodeRuneInString(s.input[s.readPos:])
	}
	return r
}

// raw returns the source bytes of ch. For invalid UTF-8 this is the single
// offending byte rather than the replacement character.
func (s *source) raw() string {
	return s.input[s.pos : s.pos+s.width]
}

// ── Source stack ──────────────────────────────────────────────────────────────

// PushString makes input the active source. When it is exhausted the scanner
// returns END_OF_FILE and resumes the source that was active before. Exceeding
// MaxNesting is fatal.
func (l *Lexer) PushString(name, input string) error {
	if l.err != nil {
		return l.err
	}
	if l.Depth() >= MaxNesting {
		l.fail(fmt.Errorf("%s: %w", name, ErrNestingTooDeep))
		return l.err
	}
	if l.src != nil {
		l.stack = append(l.stack, l.src)
	}
	l.src = newSource(name, input)
	l.done = false
	tracer().Debugf("push source %q (depth %d)", name, len(l.stack)+1)
	return nil
}

// PushReader reads r to the end and pushes its contents.
func (l *Lexer) PushReader(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("cannot read input %q: %w", name, err)
	}
	return l.PushString(name, string(data))
}

// PushFile pushes the contents of the named file.
func (l *Lexer) PushFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		l.fail(fmt.Errorf("cannot open input file %q: %w", path, err))
		return l.err
	}
	return l.PushString(path, string(data))
}

// popSource drops the exhausted active source and reports whether a
// suspended one was resumed.
func (l *Lexer) popSource() bool {
	tracer().Debugf("pop source %q", l.src.name)
	if len(l.stack) == 0 {
		l.src = nil
		return false
	}
	l.src = l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return true
}

// Depth returns the number of sources on the stack, the active one included.
func (l *Lexer) Depth() int {
	if l.src == nil {
		return 0
	}
	return len(l.stack) + 1
}
