package lexer

import (
	"io"
	"strings"

	plex "github.com/alecthomas/participle/v2/lexer"

	"github.com/atlang/atlex/token"
)

// Definition adapts the scanner to participle, so a participle grammar can
// be driven by atlex tokens:
//
//	parser := participle.MustBuild[Assign](participle.Lexer(&lexer.Definition{}))
//
// Grammars refer to token types by the names in Symbols, e.g. @Symbol,
// @Int or @String, and to operators and keywords by their literal text.
type Definition struct {
	Options Options
}

var _ plex.Definition = (*Definition)(nil)

// symbolNames names the token types that have no single spelling.
var symbolNames = map[token.Type]string{
	token.ERROR:       "Error",
	token.END_OF_FILE: "EndOfFile",
	token.SYMBOL:      "Symbol",
	token.UNUM:        "Hex",
	token.INUM:        "Int",
	token.FNUM:        "Float",
	token.ONUM:        "Octal",
	token.QSTRG:       "String",

	token.SLASH: "Slash", token.MUL: "Mul", token.MOD: "Mod",
	token.COMMA: "Comma", token.SEMIC: "Semicolon", token.COLON: "Colon",
	token.OSQU: "LBracket", token.CSQU: "RBracket",
	token.OCUR: "LBrace", token.CCUR: "RBrace",
	token.OPAR: "LParen", token.CPAR: "RParen",
	token.DOT: "Dot", token.EQU: "Assign",
	token.LT: "Lt", token.GT: "Gt", token.LTE: "Lte", token.GTE: "Gte",
	token.SUB: "Sub", token.ADD: "Add", token.NOT: "Not",
	token.EQUALITY: "Equality", token.NEQ: "Neq",
	token.DEC: "Dec", token.INC: "Inc",
	token.AND: "And", token.OR: "Or", token.SHL: "Shl", token.SHR: "Shr",
	token.ADD_ASSIGN: "AddAssign", token.SUB_ASSIGN: "SubAssign",
	token.MUL_ASSIGN: "MulAssign", token.DIV_ASSIGN: "DivAssign",
	token.MOD_ASSIGN: "ModAssign", token.SHL_ASSIGN: "ShlAssign",
	token.SHR_ASSIGN: "ShrAssign",
}

// Symbols implements participle's lexer.Definition. Keywords are named by
// their capitalised spelling, e.g. "If" or "Namespace".
func (d *Definition) Symbols() map[string]plex.TokenType {
	syms := map[string]plex.TokenType{"EOF": plex.EOF}
	for tt, name := range symbolNames {
		syms[name] = plex.TokenType(tt)
	}
	token.Reserved(func(word string, tt token.Type) {
		if tt.IsKeyword() {
			syms[strings.ToUpper(word[:1])+word[1:]] = plex.TokenType(tt)
		}
	})
	return syms
}

// Lex implements participle's lexer.Definition. Each call scans with a
// fresh Lexer; a shared symbol table can be supplied through Options.
func (d *Definition) Lex(filename string, r io.Reader) (plex.Lexer, error) {
	l := NewWithOptions(d.Options)
	if err := l.PushReader(filename, r); err != nil {
		return nil, err
	}
	return &participleLexer{l: l}, nil
}

type participleLexer struct {
	l *Lexer
}

// Next implements participle's lexer.Lexer.
func (p *participleLexer) Next() (plex.Token, error) {
	tok := p.l.NextToken()
	if err := p.l.Err(); err != nil {
		return plex.Token{}, err
	}
	pos := plex.Position{
		Filename: tok.Pos.File,
		Offset:   tok.Pos.Offset,
		Line:     tok.Pos.Line,
		Column:   tok.Pos.Col,
	}
	if tok.Type == token.END_OF_INPUT {
		return plex.Token{Type: plex.EOF, Pos: pos}, nil
	}
	return plex.Token{Type: plex.TokenType(tok.Type), Value: tok.Literal, Pos: pos}, nil
}
