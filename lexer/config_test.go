package lexer_test

import (
	"testing"

	"github.com/atlang/atlex/config"
	"github.com/atlang/atlex/lexer"
	"github.com/atlang/atlex/token"
)

func TestOptionsFrom(t *testing.T) {
	opts, err := lexer.OptionsFrom(config.Map{
		"fold-case":   "true",
		"max-token":   "32",
		"raw-strings": "false",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !opts.FoldCase || opts.MaxTokenLen != 32 || opts.MaxSymbols != 0 || !opts.NoRawStrings {
		t.Errorf("got %+v", opts)
	}

	l := lexer.NewWithOptions(opts)
	_ = l.PushString("cfg", "WHILE")
	if tok := l.NextToken(); tok.Type != token.WHILE {
		t.Errorf("fold-case not applied — got %v", tok.Type)
	}
}

func TestOptionsFrom_Defaults(t *testing.T) {
	opts, err := lexer.OptionsFrom(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts != (lexer.Options{}) {
		t.Errorf("got %+v, want zero options", opts)
	}
	if _, err := lexer.OptionsFrom(config.Map{"max-symbols": "many"}); err == nil {
		t.Error("malformed max-symbols accepted")
	}
}
