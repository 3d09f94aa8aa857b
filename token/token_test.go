package token_test

import (
	"strings"
	"testing"

	"github.com/atlang/atlex/token"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  token.Type
		want string
	}{
		{token.ERROR, "ERROR"},
		{token.END_OF_INPUT, "END OF INPUT"},
		{token.SYMBOL, "symbol"},
		{token.SHR_ASSIGN, "'>>='"},
		{token.NEQ, "'!=' or 'neq'"},
		{token.NAMESPACE, "'namespace'"},
		{token.Type(-1), "Type(-1)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d — got %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

// TestTypes_Named verifies that every type has a diagnostic spelling.
func TestTypes_Named(t *testing.T) {
	for _, tt := range token.Types() {
		if strings.HasPrefix(tt.String(), "Type(") {
			t.Errorf("type %d has no name", int(tt))
		}
	}
	if !token.FNUM.IsLiteral() || token.SYMBOL.IsLiteral() || token.ADD.IsLiteral() {
		t.Error("literal classification wrong")
	}
}

func TestReserved(t *testing.T) {
	words := map[string]token.Type{}
	token.Reserved(func(w string, tt token.Type) { words[w] = tt })

	for w, want := range map[string]token.Type{
		"if": token.IF, "and": token.AND, "equ": token.EQUALITY, "nothing": token.NOTHING,
	} {
		if words[w] != want {
			t.Errorf("%q — got %v, want %v", w, words[w], want)
		}
	}
	if words["if"].IsKeyword() != true || words["and"].IsKeyword() {
		t.Error("keyword classification wrong")
	}
	keywords := 0
	for _, tt := range token.Types() {
		if tt.IsKeyword() {
			keywords++
		}
	}
	if got := len(words) - 9; got != keywords {
		t.Errorf("reserved words — %d keywords spelled, %d declared", got, keywords)
	}
}

func TestLookupOperator(t *testing.T) {
	for op, want := range map[string]token.Type{
		"<>": token.NEQ, ">>=": token.SHR_ASSIGN, "&": token.AND, ".": token.DOT,
	} {
		if got, ok := token.LookupOperator(op); !ok || got != want {
			t.Errorf("%q — got (%v, %v)", op, got, ok)
		}
	}
	if _, ok := token.LookupOperator("@"); ok {
		t.Error("@ is not an operator")
	}
}

func TestPosition_String(t *testing.T) {
	p := token.Position{File: "main.at", Line: 3, Col: 7}
	if got := p.String(); got != "main.at:3:7" {
		t.Errorf("got %q", got)
	}
	if (token.Position{File: "x"}).IsValid() {
		t.Error("zero line reported valid")
	}
}

func TestToken_String(t *testing.T) {
	if got := (token.Token{Type: token.QSTRG, Literal: "a\tb"}).String(); got != `"a\tb"` {
		t.Errorf("got %s", got)
	}
	if got := (token.Token{Type: token.END_OF_INPUT}).String(); got != "END OF INPUT" {
		t.Errorf("got %s", got)
	}
	if (&token.Symbol{Name: "x", Type: token.SYMBOL}).IsReserved() {
		t.Error("identifier reported reserved")
	}
}
