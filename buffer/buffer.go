// Package buffer implements the growable, append-only code-unit buffers the
// scanner assembles token text in.
//
// A Buffer is reset and reused for every token, so after warm-up scanning
// does not allocate. Two instantiations are used: Narrow over bytes for
// source text and single-byte escapes, and Wide over UTF-16 units for
// literals holding code points above 0xFF.
//
// Views returned by Contents are bound to the buffer generation that produced
// them. Any Reset, and any Append that reallocates, starts a new generation;
// reading a view from an older generation panics instead of returning
// storage that may have been reused.
package buffer

import (
	"errors"
	"unicode/utf16"
)

// ErrOutOfMemory is returned by Append when growing the buffer would exceed
// its configured limit.
var ErrOutOfMemory = errors.New("buffer: out of memory")

// InitialCapacity is the capacity of a buffer before its first growth.
const InitialCapacity = 8

// Unit is a code unit a buffer can hold.
type Unit interface {
	~byte | ~uint16
}

// Options configures a buffer.
type Options struct {
	// Limit caps the number of units the buffer may hold. 0 means no limit.
	Limit int
}

// Buffer is a growable array of code units. The zero value is not usable;
// create buffers with New, NewNarrow or NewWide.
type Buffer[U Unit] struct {
	units     []U // len(units) is the capacity; units[:n] is valid
	n         int
	gen       uint64
	limit     int
	destroyed bool
}

// Narrow holds bytes.
type Narrow = Buffer[byte]

// Wide holds UTF-16 code units.
type Wide = Buffer[uint16]

// New creates an empty buffer with InitialCapacity units of storage.
func New[U Unit](opts Options) *Buffer[U] {
	c := InitialCapacity
	if opts.Limit > 0 && opts.Limit < c {
		c = opts.Limit
	}
	return &Buffer[U]{units: make([]U, c), limit: opts.Limit}
}

// NewNarrow creates a byte buffer.
func NewNarrow(opts Options) *Narrow { return New[byte](opts) }

// NewWide creates a UTF-16 buffer.
func NewWide(opts Options) *Wide { return New[uint16](opts) }

func (b *Buffer[U]) check() {
	if b.destroyed {
		panic("buffer: use after Destroy")
	}
}

// Append adds one unit at the end of the buffer. When the buffer is full its
// capacity doubles. If the limit forbids growth, ErrOutOfMemory is returned
// and the buffer keeps its previous contents.
func (b *Buffer[U]) Append(u U) error {
	b.check()
	if b.n == len(b.units) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.units[b.n] = u
	b.n++
	return nil
}

// AppendSlice appends every unit of us, stopping at the first failure.
func (b *Buffer[U]) AppendSlice(us []U) error {
	for _, u := range us {
		if err := b.Append(u); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer[U]) grow() error {
	c := len(b.units) * 2
	if c == 0 {
		c = InitialCapacity
	}
	if b.limit > 0 {
		if b.n >= b.limit {
			return ErrOutOfMemory
		}
		if c > b.limit {
			c = b.limit
		}
	}
	units := make([]U, c)
	copy(units, b.units[:b.n])
	b.units = units
	b.gen++
	return nil
}

// Reset empties the buffer without releasing its storage.
func (b *Buffer[U]) Reset() {
	b.check()
	b.n = 0
	b.gen++
}

// Len returns the number of valid units.
func (b *Buffer[U]) Len() int { return b.n }

// Cap returns the number of units the buffer holds before it has to grow.
func (b *Buffer[U]) Cap() int { return len(b.units) }

// At returns the unit at index i. It panics if i is out of range.
func (b *Buffer[U]) At(i int) U {
	b.check()
	if i < 0 || i >= b.n {
		panic("buffer: index out of range")
	}
	return b.units[i]
}

// Contents returns a read-only view of the valid prefix. The view is only
// usable until the next Reset or growing Append.
func (b *Buffer[U]) Contents() View[U] {
	b.check()
	return View[U]{b: b, gen: b.gen, n: b.n}
}

// Destroy releases the storage. The buffer must not be used afterwards.
func (b *Buffer[U]) Destroy() {
	b.units = nil
	b.n = 0
	b.gen++
	b.destroyed = true
}

// View is a snapshot of a buffer's valid prefix.
type View[U Unit] struct {
	b   *Buffer[U]
	gen uint64
	n   int
}

// Valid reports whether the view still refers to live storage.
func (v View[U]) Valid() bool {
	return v.b != nil && !v.b.destroyed && v.b.gen == v.gen
}

// Len returns the number of units in the view.
func (v View[U]) Len() int { return v.n }

// Units returns the viewed units. The slice aliases the buffer and must not
// be retained past the view's lifetime; use Copy for that.
func (v View[U]) Units() []U {
	if !v.Valid() {
		panic("buffer: stale view")
	}
	return v.b.units[:v.n:v.n]
}

// Copy returns the viewed units in a newly allocated slice.
func (v View[U]) Copy() []U {
	return append([]U(nil), v.Units()...)
}

// String converts the view to a Go string. Narrow units are taken as raw
// bytes; wide units are decoded as UTF-16.
func (v View[U]) String() string {
	units := v.Units()
	switch us := any(units).(type) {
	case []byte:
		return string(us)
	case []uint16:
		return string(utf16.Decode(us))
	}
	// Named unit types fall back to a per-unit conversion.
	var wide bool
	var zero U
	if ^zero > 0xFF {
		wide = true
	}
	if !wide {
		bs := make([]byte, len(units))
		for i, u := range units {
			bs[i] = byte(u)
		}
		return string(bs)
	}
	ws := make([]uint16, len(units))
	for i, u := range units {
		ws[i] = uint16(u)
	}
	return string(utf16.Decode(ws))
}
