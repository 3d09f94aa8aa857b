package config_test

import (
	"flag"
	"testing"

	"github.com/atlang/atlex/config"
)

func TestMap(t *testing.T) {
	src := config.Map{"fold-case": "true", "max-token": "64", "bad": "x"}

	if b, err := config.Bool(src, "fold-case", false); err != nil || !b {
		t.Errorf("fold-case — got (%v, %v)", b, err)
	}
	if n, err := config.Int(src, "max-token", 0); err != nil || n != 64 {
		t.Errorf("max-token — got (%d, %v)", n, err)
	}
	if n, err := config.Int(src, "absent", 7); err != nil || n != 7 {
		t.Errorf("absent — got (%d, %v)", n, err)
	}
	if _, err := config.Int(src, "bad", 0); err == nil {
		t.Error("malformed integer accepted")
	}
	if _, err := config.Bool(src, "bad", false); err == nil {
		t.Error("malformed boolean accepted")
	}
	if got := config.String(nil, "any", "def"); got != "def" {
		t.Errorf("nil source — got %q", got)
	}
}

func TestFlags(t *testing.T) {
	fs := flag.NewFlagSet("atlex", flag.ContinueOnError)
	fs.Bool("fold-case", false, "")
	fs.Int("max-token", 0, "")
	if err := fs.Parse([]string{"-max-token", "12"}); err != nil {
		t.Fatal(err)
	}
	src := config.FromFlags(fs)
	if v, ok := src.Lookup("max-token"); !ok || v != "12" {
		t.Errorf("max-token — got (%q, %v)", v, ok)
	}
	if _, ok := src.Lookup("fold-case"); ok {
		t.Error("flag not given on the command line reported present")
	}
}

func TestChain(t *testing.T) {
	c := config.Chain{nil, config.Map{"a": "1"}, config.Map{"a": "2", "b": "3"}}
	if v, _ := c.Lookup("a"); v != "1" {
		t.Errorf("a — got %q, want first source", v)
	}
	if v, _ := c.Lookup("b"); v != "3" {
		t.Errorf("b — got %q", v)
	}
	if _, ok := c.Lookup("c"); ok {
		t.Error("c present")
	}
}
