// Package token defines the token types, the Token struct and the interned
// Symbol shared by the atlex scanner and its consumers.
//
// Tokens are the smallest meaningful units of an AT source file. Every token
// carries its type, the text it was scanned from, a decoded value for
// literals and its source position. Positions are 1-based: the first
// character of a file is Line 1, Col 1.
package token

import "fmt"

// Type identifies the category of a scanned token.
// The zero value is ERROR so that an uninitialised token is never mistaken
// for a valid one.
type Type int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// ERROR is returned for malformed input (bad escape, unterminated string,
	// malformed number). The condition has already been reported to the
	// diagnostics sink when the token is handed out.
	ERROR Type = iota
	// END_OF_INPUT is returned once every source has been exhausted, and on
	// every call after that.
	END_OF_INPUT
	// END_OF_FILE marks the end of a nested source. Scanning resumes in the
	// source that was active before it was pushed.
	END_OF_FILE

	// ── Literals ───────────────────────────────────────────────────────────────

	// SYMBOL is an identifier: [A-Za-z_][A-Za-z0-9_]*
	SYMBOL
	// UNUM is a hexadecimal integer literal, e.g. 0xFF. Value is a uint64.
	UNUM
	// INUM is a decimal integer literal, e.g. 42. Value is an int64.
	INUM
	// FNUM is a floating-point literal, e.g. 3.14 or 1.5e-3. Value is a float64.
	FNUM
	// ONUM is an octal integer literal, e.g. 0755. Value is a uint64.
	ONUM
	// QSTRG is a quoted string, "…" with escapes or '…' raw. Value is the
	// decoded string.
	QSTRG

	// ── Operators and delimiters ───────────────────────────────────────────────

	SLASH    // /
	MUL      // *
	MOD      // %
	COMMA    // ,
	SEMIC    // ;
	COLON    // :
	OSQU     // [
	CSQU     // ]
	OCUR     // {
	CCUR     // }
	OPAR     // (
	CPAR     // )
	DOT      // .
	EQU      // =
	LT       // < or lt
	GT       // > or gt
	SUB      // -
	ADD      // +
	NOT      // ! or not
	EQUALITY // == or equ
	LTE      // <= or lte
	GTE      // >= or gte
	DEC      // --
	INC      // ++
	NEQ      // != or <> or neq
	AND      // & or and
	OR       // | or or
	SHL      // <<
	SHR      // >>

	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	DIV_ASSIGN // /=
	MOD_ASSIGN // %=
	SHL_ASSIGN // <<=
	SHR_ASSIGN // >>=

	// ── Keywords ───────────────────────────────────────────────────────────────

	keywordBeg
	FOR
	IF
	ELSE
	WHILE
	DO
	SWITCH
	CASE
	BREAK
	CONTINUE
	TRY
	EXCEPT
	RAISE
	DEFAULT
	CREATE
	DESTROY
	SUPER
	ENTRY
	CLASS
	CONSTRUCTOR
	DESTRUCTOR
	IMPORT
	TRUE
	FALSE
	BOOL
	MAP
	DICT
	LIST
	UINT
	INT
	FLOAT
	STRING
	INLINE
	PUBLIC
	PRIVATE
	PROTECTED
	RETURN
	AS
	NAMESPACE
	NOTHING
	keywordEnd
)

// names holds the diagnostic spelling of every token type.
var names = [...]string{
	ERROR:        "ERROR",
	END_OF_INPUT: "END OF INPUT",
	END_OF_FILE:  "END OF FILE",
	SYMBOL:       "symbol",
	UNUM:         "unsigned number",
	INUM:         "signed number",
	FNUM:         "float number",
	ONUM:         "octal number",
	QSTRG:        "quoted string",

	SLASH:    "'/'",
	MUL:      "'*'",
	MOD:      "'%'",
	COMMA:    "','",
	SEMIC:    "';'",
	COLON:    "':'",
	OSQU:     "'['",
	CSQU:     "']'",
	OCUR:     "'{'",
	CCUR:     "'}'",
	OPAR:     "'('",
	CPAR:     "')'",
	DOT:      "'.'",
	EQU:      "'='",
	LT:       "'<' or 'lt'",
	GT:       "'>' or 'gt'",
	SUB:      "'-'",
	ADD:      "'+'",
	NOT:      "'!' or 'not'",
	EQUALITY: "'==' or 'equ'",
	LTE:      "'<=' or 'lte'",
	GTE:      "'>=' or 'gte'",
	DEC:      "'--'",
	INC:      "'++'",
	NEQ:      "'!=' or 'neq'",
	AND:      "'&' or 'and'",
	OR:       "'|' or 'or'",
	SHL:      "'<<'",
	SHR:      "'>>'",

	ADD_ASSIGN: "'+='",
	SUB_ASSIGN: "'-='",
	MUL_ASSIGN: "'*='",
	DIV_ASSIGN: "'/='",
	MOD_ASSIGN: "'%='",
	SHL_ASSIGN: "'<<='",
	SHR_ASSIGN: "'>>='",

	FOR:         "'for'",
	IF:          "'if'",
	ELSE:        "'else'",
	WHILE:       "'while'",
	DO:          "'do'",
	SWITCH:      "'switch'",
	CASE:        "'case'",
	BREAK:       "'break'",
	CONTINUE:    "'continue'",
	TRY:         "'try'",
	EXCEPT:      "'except'",
	RAISE:       "'raise'",
	DEFAULT:     "'default'",
	CREATE:      "'create'",
	DESTROY:     "'destroy'",
	SUPER:       "'super'",
	ENTRY:       "'entry'",
	CLASS:       "'class'",
	CONSTRUCTOR: "'constructor'",
	DESTRUCTOR:  "'destructor'",
	IMPORT:      "'import'",
	TRUE:        "'true'",
	FALSE:       "'false'",
	BOOL:        "'bool'",
	MAP:         "'map'",
	DICT:        "'dict'",
	LIST:        "'list'",
	UINT:        "'uint'",
	INT:         "'int'",
	FLOAT:       "'float'",
	STRING:      "'string'",
	INLINE:      "'inline'",
	PUBLIC:      "'public'",
	PRIVATE:     "'private'",
	PROTECTED:   "'protected'",
	RETURN:      "'return'",
	AS:          "'as'",
	NAMESPACE:   "'namespace'",
	NOTHING:     "'nothing'",
}

// String returns the spelling used in diagnostics, e.g. "'if'" or "symbol".
func (t Type) String() string {
	if t >= 0 && int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsKeyword reports whether t is one of the reserved words. Word operators
// such as "and" or "lte" scan to operator types and are not keywords.
func (t Type) IsKeyword() bool { return t > keywordBeg && t < keywordEnd }

// IsLiteral reports whether t carries a decoded Value.
func (t Type) IsLiteral() bool { return t >= UNUM && t <= QSTRG }

// Types returns every valid token type in declaration order.
func Types() []Type {
	out := make([]Type, 0, int(keywordEnd))
	for t := ERROR; t < keywordEnd; t++ {
		if t == keywordBeg {
			continue
		}
		out = append(out, t)
	}
	return out
}

// reserved maps every reserved word to its token type. The scanner loads
// these into its symbol table; identifiers are never looked up here directly.
var reserved = map[string]Type{
	"and":         AND,
	"as":          AS,
	"bool":        BOOL,
	"break":       BREAK,
	"case":        CASE,
	"class":       CLASS,
	"constructor": CONSTRUCTOR,
	"continue":    CONTINUE,
	"create":      CREATE,
	"default":     DEFAULT,
	"destroy":     DESTROY,
	"destructor":  DESTRUCTOR,
	"dict":        DICT,
	"do":          DO,
	"else":        ELSE,
	"entry":       ENTRY,
	"equ":         EQUALITY,
	"except":      EXCEPT,
	"false":       FALSE,
	"float":       FLOAT,
	"for":         FOR,
	"gt":          GT,
	"gte":         GTE,
	"if":          IF,
	"import":      IMPORT,
	"inline":      INLINE,
	"int":         INT,
	"list":        LIST,
	"lt":          LT,
	"lte":         LTE,
	"map":         MAP,
	"namespace":   NAMESPACE,
	"neq":         NEQ,
	"not":         NOT,
	"nothing":     NOTHING,
	"or":          OR,
	"private":     PRIVATE,
	"protected":   PROTECTED,
	"public":      PUBLIC,
	"raise":       RAISE,
	"return":      RETURN,
	"string":      STRING,
	"super":       SUPER,
	"switch":      SWITCH,
	"true":        TRUE,
	"try":         TRY,
	"uint":        UINT,
	"while":       WHILE,
}

// Reserved calls fn for every reserved word and its token type.
func Reserved(fn func(word string, t Type)) {
	for w, t := range reserved {
		fn(w, t)
	}
}

// operators maps every operator and delimiter spelling to its type.
var operators = map[string]Type{
	"/": SLASH, "/=": DIV_ASSIGN,
	"*": MUL, "*=": MUL_ASSIGN,
	"%": MOD, "%=": MOD_ASSIGN,
	",": COMMA, ";": SEMIC, ":": COLON,
	"[": OSQU, "]": CSQU,
	"{": OCUR, "}": CCUR,
	"(": OPAR, ")": CPAR,
	".": DOT,
	"=": EQU, "==": EQUALITY,
	"<": LT, "<=": LTE, "<>": NEQ, "<<": SHL, "<<=": SHL_ASSIGN,
	">": GT, ">=": GTE, ">>": SHR, ">>=": SHR_ASSIGN,
	"-": SUB, "--": DEC, "-=": SUB_ASSIGN,
	"+": ADD, "++": INC, "+=": ADD_ASSIGN,
	"!": NOT, "!=": NEQ,
	"&": AND,
	"|": OR,
}

// MaxOperatorLen is the length of the longest operator spelling.
const MaxOperatorLen = 3

// LookupOperator returns the type of the operator spelled op.
func LookupOperator(op string) (Type, bool) {
	t, ok := operators[op]
	return t, ok
}

// Position is a location in a source.
type Position struct {
	File   string // source name, "REPL" for interactive input
	Offset int    // 0-based byte offset
	Line   int    // 1-based line
	Col    int    // 1-based column, counted in characters
}

// IsValid reports whether the position refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String formats the position as file:line:col.
func (p Position) String() string {
	if !p.IsValid() {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Symbol is the canonical entry for one identifier or reserved word in a
// symbol table. There is exactly one *Symbol per distinct name in a table, so
// two tokens refer to the same name iff their Sym pointers are equal.
type Symbol struct {
	Name string
	Type Type // SYMBOL for identifiers, the reserved word's type otherwise
}

// IsReserved reports whether the symbol is a keyword or word operator.
func (s *Symbol) IsReserved() bool { return s.Type != SYMBOL }

// Token is a single lexical unit produced by the scanner.
//
// Fields:
//   - Type    — the category of this token
//   - Literal — the source text; for strings the decoded text
//   - Value   — decoded literal value (int64, uint64, float64 or string)
//   - Wide    — UTF-16 units of a string assembled in the wide buffer
//   - Sym     — interned symbol for identifiers and reserved words
//   - Pos     — position of the first character of this token
type Token struct {
	Type    Type
	Literal string
	Value   any
	Wide    []uint16
	Sym     *Symbol
	Pos     Position
}

// String returns a human-readable representation of the token, useful for
// debugging and error messages.
func (t Token) String() string {
	switch t.Type {
	case END_OF_INPUT, END_OF_FILE:
		return t.Type.String()
	case QSTRG:
		return fmt.Sprintf("%q", t.Literal)
	}
	return t.Literal
}
