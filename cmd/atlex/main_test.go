package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Stdin(t *testing.T) {
	var out, errs bytes.Buffer
	code := run(nil, strings.NewReader("x = 0x1F;"), &out, &errs)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errs.String())
	}
	want := "<stdin>:1:1\tsymbol\tx\n" +
		"<stdin>:1:3\t'='\t=\n" +
		"<stdin>:1:5\tunsigned number\t0x1F\t31\n" +
		"<stdin>:1:9\t';'\t;\n"
	if out.String() != want {
		t.Errorf("got\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.at")
	b := filepath.Join(dir, "b.at")
	if err := os.WriteFile(a, []byte("alpha beta"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("beta \"\\q"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errs bytes.Buffer
	code := run([]string{"-fold-case", a, b}, nil, &out, &errs)
	if code != 1 {
		t.Errorf("exit — got %d, want 1", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], a+":1:1") || !strings.HasPrefix(lines[2], b+":1:1") {
		t.Errorf("output not in argument order:\n%s", out.String())
	}
	if !strings.Contains(errs.String(), "Syntax Error: "+b+": 1: 6: line breaks are not allowed in a string") {
		t.Errorf("diagnostics:\n%s", errs.String())
	}
}

func TestRun_Quiet(t *testing.T) {
	var out, errs bytes.Buffer
	if code := run([]string{"-q"}, strings.NewReader("a @"), &out, &errs); code != 1 {
		t.Errorf("exit — got %d", code)
	}
	if out.Len() != 0 {
		t.Errorf("quiet printed tokens: %q", out.String())
	}
	if !strings.Contains(errs.String(), "unrecognized character") {
		t.Errorf("diagnostics: %q", errs.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	var out, errs bytes.Buffer
	if code := run([]string{"-max-token", "lots"}, nil, &out, &errs); code != 2 {
		t.Errorf("exit — got %d", code)
	}
}

func TestRun_MissingFile(t *testing.T) {
	var out, errs bytes.Buffer
	if code := run([]string{filepath.Join(t.TempDir(), "none.at")}, nil, &out, &errs); code != 1 {
		t.Errorf("exit — got %d", code)
	}
	if !strings.Contains(errs.String(), "FATAL ERROR") {
		t.Errorf("diagnostics: %q", errs.String())
	}
}
