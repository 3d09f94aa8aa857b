// Package diag collects the diagnostics the scanner reports.
//
// The scanner never stops on malformed input: it reports a Diagnostic to a
// Sink and carries on. A Collector is the standard Sink. It counts errors and
// warnings, keeps every diagnostic, and writes one line per diagnostic to its
// error stream in the form
//
//	Syntax Error: main.at: 3: 12: unterminated string literal
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/atlang/atlex/token"
)

// tracer traces with key 'atlex.diag'.
func tracer() tracing.Trace {
	return tracing.Select("atlex.diag")
}

// Severity grades a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "Warning"
	case Error:
		return "Syntax Error"
	case Fatal:
		return "FATAL ERROR"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is one reported condition.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Err      error  // sentinel classifying the condition, may be nil
	Msg      string // human-readable detail
}

// Error formats the diagnostic the way it is written to the error stream.
func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if d.Pos.IsValid() {
		fmt.Fprintf(&b, "%s: %d: %d: ", d.Pos.File, d.Pos.Line, d.Pos.Col)
	}
	b.WriteString(d.Msg)
	return b.String()
}

// Unwrap exposes the classifying sentinel to errors.Is.
func (d Diagnostic) Unwrap() error { return d.Err }

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// Collector is a Sink that counts, keeps and prints diagnostics.
// It is not safe for concurrent use.
type Collector struct {
	w        io.Writer
	diags    []Diagnostic
	errors   int
	warnings int
}

// NewCollector creates a collector writing to w. A nil w discards output.
func NewCollector(w io.Writer) *Collector {
	if w == nil {
		w = io.Discard
	}
	return &Collector{w: w}
}

// Report implements Sink.
func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
	if d.Severity == Warning {
		c.warnings++
	} else {
		c.errors++
	}
	if d.Severity == Fatal {
		tracer().Errorf("%s", d.Error())
	}
	fmt.Fprintln(c.w, d.Error())
}

// Errors returns the number of errors reported, fatal ones included.
func (c *Collector) Errors() int { return c.errors }

// Warnings returns the number of warnings reported.
func (c *Collector) Warnings() int { return c.warnings }

// Diagnostics returns every diagnostic in reporting order.
func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// Stream returns the writer diagnostics are printed to.
func (c *Collector) Stream() io.Writer { return c.w }

// Err joins every error-level diagnostic, or returns nil if there is none.
func (c *Collector) Err() error {
	var errs []error
	for _, d := range c.diags {
		if d.Severity != Warning {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}

// Snippet renders the source line of d with a caret under its column,
// preceded by the diagnostic itself:
//
//	Syntax Error: main.at: 2: 9: bad escape
//	   2 | x = "a\q"
//	     |         ^
func Snippet(src string, d Diagnostic) string {
	var b strings.Builder
	b.WriteString(d.Error())
	lines := strings.Split(src, "\n")
	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return b.String()
	}
	line := strings.TrimRight(lines[d.Pos.Line-1], "\r")
	prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
	fmt.Fprintf(&b, "\n%s%s\n", prefix, line)
	col := d.Pos.Col
	if col < 1 {
		col = 1
	}
	b.WriteString(strings.Repeat(" ", len(prefix)-2))
	b.WriteString("| ")
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteString("^")
	return b.String()
}
