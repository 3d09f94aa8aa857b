package lexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atlang/atlex/diag"
	"github.com/atlang/atlex/token"
)

// ErrUnexpectedToken classifies the syntax errors reported by Stream.Expect
// and Stream.ExpectOneOf.
var ErrUnexpectedToken = errors.New("unexpected token")

// Tokenizer is anything that hands out tokens one at a time.
type Tokenizer interface {
	NextToken() token.Token
}

// Stream wraps a Tokenizer with a two-token lookahead, for hand-written
// recursive-descent consumers.
//
//	s := lexer.NewStream(l, sink)
//	if _, ok := s.Expect(token.SYMBOL); ok { ... }
type Stream struct {
	src  Tokenizer
	sink diag.Sink
	cur  token.Token // current token (the one being examined)
	peek token.Token // next token
}

// NewStream primes the lookahead: after it returns, Cur is the first token
// and Peek the second. Mismatches found by Expect are reported to sink; a nil
// sink uses the lexer's own sink when src is a *Lexer.
func NewStream(src Tokenizer, sink diag.Sink) *Stream {
	if sink == nil {
		if l, ok := src.(*Lexer); ok {
			sink = l.Sink()
		} else {
			sink = diag.NewCollector(nil)
		}
	}
	s := &Stream{src: src, sink: sink}
	s.advance()
	s.advance()
	return s
}

func (s *Stream) advance() {
	s.cur = s.peek
	s.peek = s.src.NextToken()
}

// Cur returns the current token.
func (s *Stream) Cur() token.Token { return s.cur }

// Peek returns the token after the current one.
func (s *Stream) Peek() token.Token { return s.peek }

// Next advances and returns the new current token.
func (s *Stream) Next() token.Token {
	s.advance()
	return s.cur
}

// Is reports whether the current token has type tt.
func (s *Stream) Is(tt token.Type) bool { return s.cur.Type == tt }

// Expect consumes the current token if it has type tt. Otherwise a syntax
// error is reported and the stream stays where it is.
func (s *Stream) Expect(tt token.Type) (token.Token, bool) {
	return s.ExpectOneOf(tt)
}

// ExpectOneOf consumes the current token if its type is one of tts.
func (s *Stream) ExpectOneOf(tts ...token.Type) (token.Token, bool) {
	for _, tt := range tts {
		if s.cur.Type == tt {
			tok := s.cur
			s.advance()
			return tok, true
		}
	}
	s.sink.Report(diag.Diagnostic{
		Severity: diag.Error,
		Pos:      s.cur.Pos,
		Err:      ErrUnexpectedToken,
		Msg:      fmt.Sprintf("expected %s but got %s", describe(tts), s.cur),
	})
	return s.cur, false
}

func describe(tts []token.Type) string {
	switch len(tts) {
	case 0:
		return "nothing"
	case 1:
		return tts[0].String()
	}
	names := make([]string, len(tts))
	for i, tt := range tts {
		names[i] = tt.String()
	}
	return "one of " + strings.Join(names, ", ")
}
