// Package symtab interns identifiers and reserved words for the scanner.
//
// A Table maps every distinct name to one *token.Symbol, so consumers compare
// names by pointer. Reserved words are defined up front; defining a reserved
// word that was already interned as an identifier turns that entry into the
// reserved word, so classification never depends on insertion order.
package symtab

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/atlang/atlex/hashtable"
	"github.com/atlang/atlex/token"
)

// tracer traces with key 'atlex.symtab'.
func tracer() tracing.Trace {
	return tracing.Select("atlex.symtab")
}

// Interner is what the scanner needs from a symbol table.
type Interner interface {
	// Intern returns the canonical symbol for name, creating an identifier
	// symbol on first sight.
	Intern(name string) (*token.Symbol, error)
}

// Options configures a Table.
type Options struct {
	// FoldCase makes names case-insensitive; the spelling of the first
	// occurrence is kept.
	FoldCase bool
	// Capacity is the initial bucket count of the underlying hash table.
	Capacity int
	// MaxSymbols caps the number of entries. Interning beyond it fails with
	// hashtable.ErrOutOfMemory.
	MaxSymbols int
	// NoReserved leaves the reserved words out.
	NoReserved bool
}

// Table is a symbol table. It is not safe for concurrent use; see Shared.
type Table struct {
	t *hashtable.Table[*token.Symbol]
}

func (o Options) table() hashtable.Options[*token.Symbol] {
	ho := hashtable.Options[*token.Symbol]{
		Capacity:   o.Capacity,
		MaxEntries: o.MaxSymbols,
	}
	if ho.Capacity == 0 {
		ho.Capacity = 128
	}
	if o.FoldCase {
		ho.Hash = hashtable.FoldHash
		ho.Equal = hashtable.FoldEqual
	}
	return ho
}

// New creates a table holding every reserved word of the language.
func New(opts Options) *Table {
	st := &Table{t: hashtable.New(opts.table())}
	if !opts.NoReserved {
		defineReserved(st.t)
	}
	return st
}

func defineReserved(t *hashtable.Table[*token.Symbol]) {
	token.Reserved(func(word string, tt token.Type) {
		if _, err := defineKeyword(t, word, tt); err != nil {
			tracer().Errorf("cannot define reserved word %q: %v", word, err)
		}
	})
}

// DefineKeyword makes name a reserved word of type tt. An identifier symbol
// already interned under name is replaced.
func (st *Table) DefineKeyword(name string, tt token.Type) (*token.Symbol, error) {
	return defineKeyword(st.t, name, tt)
}

func defineKeyword(t *hashtable.Table[*token.Symbol], name string, tt token.Type) (*token.Symbol, error) {
	if tt == token.SYMBOL {
		return nil, fmt.Errorf("symtab: %q: reserved word cannot have type %v", name, tt)
	}
	sym := &token.Symbol{Name: name, Type: tt}
	err := t.Insert(name, sym)
	if errors.Is(err, hashtable.ErrKeyExists) {
		old, rerr := t.Replace(name, sym)
		if rerr != nil {
			return nil, rerr
		}
		if old != nil && old.Type == token.SYMBOL {
			tracer().Debugf("identifier %q promoted to reserved word %v", name, tt)
		}
		return sym, nil
	}
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// Intern implements Interner.
func (st *Table) Intern(name string) (*token.Symbol, error) {
	return intern(st.t, name)
}

func intern(t *hashtable.Table[*token.Symbol], name string) (*token.Symbol, error) {
	sym, err := t.Find(name)
	if err == nil {
		return sym, nil
	}
	if !errors.Is(err, hashtable.ErrNotFound) {
		return nil, err
	}
	sym = &token.Symbol{Name: name, Type: token.SYMBOL}
	if err := t.Insert(name, sym); err != nil {
		return nil, fmt.Errorf("symtab: intern %q: %w", name, err)
	}
	return sym, nil
}

// Lookup returns the symbol for name without interning it.
func (st *Table) Lookup(name string) (*token.Symbol, bool) {
	sym, err := st.t.Find(name)
	return sym, err == nil
}

// Len returns the number of symbols, reserved words included.
func (st *Table) Len() int { return st.t.Len() }

// Each calls fn for every symbol until fn returns false.
func (st *Table) Each(fn func(sym *token.Symbol) bool) {
	st.t.Each(func(_ string, sym *token.Symbol) bool { return fn(sym) })
}
