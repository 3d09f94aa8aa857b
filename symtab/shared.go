package symtab

import (
	"github.com/atlang/atlex/hashtable"
	"github.com/atlang/atlex/token"
)

// Shared is a symbol table several scanners may intern into concurrently,
// e.g. when the files of one program are scanned in parallel.
type Shared struct {
	s *hashtable.Shared[*token.Symbol]
}

// NewShared creates a shared table holding every reserved word.
func NewShared(opts Options) *Shared {
	sh := &Shared{s: hashtable.NewShared(opts.table())}
	if !opts.NoReserved {
		_ = sh.s.Do(func(t *hashtable.Table[*token.Symbol]) error {
			defineReserved(t)
			return nil
		})
	}
	return sh
}

// Intern implements Interner. Lookup and insertion happen under one lock,
// so two scanners interning the same name get the same symbol.
func (sh *Shared) Intern(name string) (*token.Symbol, error) {
	var sym *token.Symbol
	err := sh.s.Do(func(t *hashtable.Table[*token.Symbol]) error {
		var err error
		sym, err = intern(t, name)
		return err
	})
	return sym, err
}

// DefineKeyword makes name a reserved word of type tt.
func (sh *Shared) DefineKeyword(name string, tt token.Type) (*token.Symbol, error) {
	var sym *token.Symbol
	err := sh.s.Do(func(t *hashtable.Table[*token.Symbol]) error {
		var err error
		sym, err = defineKeyword(t, name, tt)
		return err
	})
	return sym, err
}

// Lookup returns the symbol for name without interning it.
func (sh *Shared) Lookup(name string) (*token.Symbol, bool) {
	sym, err := sh.s.Find(name)
	return sym, err == nil
}

// Len returns the number of symbols, reserved words included.
func (sh *Shared) Len() int { return sh.s.Len() }

// Each calls fn for every symbol until fn returns false.
func (sh *Shared) Each(fn func(sym *token.Symbol) bool) {
	sh.s.Each(func(_ string, sym *token.Symbol) bool { return fn(sym) })
}
