package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/atlang/atlex/diag"
	"github.com/atlang/atlex/lexer"
	"github.com/atlang/atlex/symtab"
	"github.com/atlang/atlex/token"
)

const (
	historyFile = ".atlex_history"
	prompt      = "atlex> "
)

const replHelp = `Type AT source to see its tokens.
  :symbols   list interned identifiers
  :quit      exit
`

// runREPL scans each entered line as its own source. The symbol table
// lives for the whole session.
func runREPL(opts lexer.Options, stdout, stderr io.Writer) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	syms := symtab.New(symtab.Options{FoldCase: opts.FoldCase, MaxSymbols: opts.MaxSymbols})
	opts.Symbols = syms
	opts.Sink = diag.NewCollector(stderr)
	l := lexer.NewWithOptions(opts)

	fmt.Fprint(stdout, replHelp)
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(stdout)
			return 0
		}
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		switch strings.TrimSpace(line) {
		case ":quit":
			return 0
		case ":symbols":
			syms.Each(func(sym *token.Symbol) bool {
				if !sym.IsReserved() {
					fmt.Fprintln(stdout, sym.Name)
				}
				return true
			})
			continue
		}

		if err := l.PushString("REPL", line); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		dump(l, stdout, false)
		if l.Err() != nil {
			return 1
		}
	}
}
