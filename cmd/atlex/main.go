// Command atlex scans AT source files and prints their tokens.
//
// Usage:
//
//	atlex [flags] file.at ...   scan files in parallel, one shared symbol table
//	atlex [flags]               scan standard input
//	atlex -repl [flags]         scan lines typed interactively
//
// Diagnostics go to standard error. The exit status is 1 when any file had
// errors.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"

	"github.com/atlang/atlex/config"
	"github.com/atlang/atlex/diag"
	"github.com/atlang/atlex/lexer"
	"github.com/atlang/atlex/symtab"
	"github.com/atlang/atlex/token"
)

// tracer traces with key 'atlex.cmd'.
func tracer() tracing.Trace {
	return tracing.Select("atlex.cmd")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(config.ProgName(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Bool(lexer.KeyFoldCase, false, "treat identifiers case-insensitively")
	fs.Int(lexer.KeyMaxToken, 0, "maximum token length in code units (0 = unlimited)")
	fs.Int(lexer.KeyMaxSymbols, 0, "maximum number of symbols (0 = unlimited)")
	fs.Bool(lexer.KeyRawStrings, true, "accept single-quoted raw strings")
	repl := fs.Bool("repl", false, "start an interactive session")
	quiet := fs.Bool("q", false, "print diagnostics only")
	trace := fs.Bool("trace", false, "enable debug tracing")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] [file.at ...]\n", config.ProgName())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *trace {
		for _, key := range []string{"atlex.cmd", "atlex.lexer", "atlex.hashtable", "atlex.symtab", "atlex.diag"} {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}

	opts, err := lexer.OptionsFrom(config.FromFlags(fs))
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.ProgName(), err)
		return 2
	}

	if *repl {
		return runREPL(opts, stdout, stderr)
	}

	files := fs.Args()
	if len(files) == 0 {
		c := diag.NewCollector(stderr)
		opts.Sink = c
		l := lexer.NewWithOptions(opts)
		if err := l.PushReader("<stdin>", stdin); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", config.ProgName(), err)
			return 1
		}
		dump(l, stdout, *quiet)
		return status(c)
	}
	return scanFiles(files, opts, *quiet, stdout, stderr)
}

// fileResult holds the output of scanning one file. Output is buffered so
// files print in argument order.
type fileResult struct {
	out    bytes.Buffer
	diags  bytes.Buffer
	errors int
}

// scanFiles scans every file concurrently. All lexers intern into one
// shared symbol table.
func scanFiles(files []string, opts lexer.Options, quiet bool, stdout, stderr io.Writer) int {
	syms := symtab.NewShared(symtab.Options{
		FoldCase:   opts.FoldCase,
		MaxSymbols: opts.MaxSymbols,
	})
	opts.Symbols = syms
	results := make([]*fileResult, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		res := &fileResult{}
		results[i] = res
		g.Go(func() error {
			c := diag.NewCollector(&res.diags)
			o := opts
			o.Sink = c
			l := lexer.NewWithOptions(o)
			if err := l.PushFile(path); err != nil {
				res.errors = c.Errors()
				return nil
			}
			dump(l, &res.out, quiet)
			res.errors = c.Errors()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.ProgName(), err)
		return 1
	}

	code := 0
	for _, res := range results {
		_, _ = res.out.WriteTo(stdout)
		_, _ = res.diags.WriteTo(stderr)
		if res.errors > 0 {
			code = 1
		}
	}
	tracer().Debugf("scanned %d files, %d symbols", len(files), syms.Len())
	return code
}

// dump prints one line per token until the input is exhausted.
func dump(l *lexer.Lexer, w io.Writer, quiet bool) {
	for {
		tok := l.NextToken()
		if tok.Type == token.END_OF_INPUT {
			return
		}
		if !quiet {
			printToken(w, tok)
		}
	}
}

func printToken(w io.Writer, tok token.Token) {
	switch {
	case tok.Type == token.END_OF_FILE:
		fmt.Fprintf(w, "%s\t%s\n", tok.Pos, tok.Type)
	case tok.Type.IsLiteral() && tok.Value != nil:
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", tok.Pos, tok.Type, tok, tok.Value)
	default:
		fmt.Fprintf(w, "%s\t%s\t%s\n", tok.Pos, tok.Type, tok)
	}
}

func status(c *diag.Collector) int {
	if c.Errors() > 0 {
		return 1
	}
	return 0
}
