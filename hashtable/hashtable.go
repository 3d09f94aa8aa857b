// Package hashtable implements the chained hash table the scanner interns
// symbols in.
//
// Entries live in an arena slice and are chained through indices; every
// bucket holds the index of the first entry of its chain. Growing the table
// allocates a larger bucket array and relinks the existing entries by index,
// so no entry is copied into a new node and every payload keeps its identity.
//
// A Table is not safe for concurrent use. Hosts sharing a table between
// goroutines wrap it in a Shared.
package hashtable

import (
	"errors"
	"iter"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'atlex.hashtable'.
func tracer() tracing.Trace {
	return tracing.Select("atlex.hashtable")
}

// Results of table operations other than success. They are ordinary
// outcomes callers branch on, not failures of the caller.
var (
	ErrKeyExists   = errors.New("hashtable: key exists")
	ErrNotFound    = errors.New("hashtable: key not found")
	ErrNoData      = errors.New("hashtable: entry has no data")
	ErrDataSize    = errors.New("hashtable: data size mismatch")
	ErrOutOfMemory = errors.New("hashtable: out of memory")
)

const (
	// DefaultCapacity is the bucket count used when Options.Capacity is 0.
	DefaultCapacity = 16

	// The table grows once count/capacity exceeds loadNum/loadDen.
	loadNum = 3
	loadDen = 4
)

// Options configures a Table.
type Options[V any] struct {
	// Capacity is the initial number of buckets.
	Capacity int
	// Hash and Equal define key identity. They default to StringHash and
	// StringEqual; use FoldHash and FoldEqual for case-insensitive keys.
	Hash  HashFunc
	Equal EqualFunc
	// DataSize, when positive, is the only payload size accepted. SizeOf
	// measures a payload; the check is skipped when it is nil.
	DataSize int
	SizeOf   func(V) int
	// MaxEntries caps the number of entries. 0 means no limit.
	MaxEntries int
}

type entry[V any] struct {
	key  string
	hash uint64
	data V
	set  bool // payload slot filled
	live bool
	next int // next entry in the chain, or in the free list; -1 ends it
}

// Table maps string keys to payloads of type V.
type Table[V any] struct {
	buckets []int
	entries []entry[V]
	free    int
	count   int

	hash       HashFunc
	equal      EqualFunc
	dataSize   int
	sizeOf     func(V) int
	maxEntries int

	iterating int
	destroyed bool
}

// New creates an empty table.
func New[V any](opts Options[V]) *Table[V] {
	c := opts.Capacity
	if c <= 0 {
		c = DefaultCapacity
	}
	t := &Table[V]{
		buckets:    newBuckets(c),
		free:       -1,
		hash:       opts.Hash,
		equal:      opts.Equal,
		dataSize:   opts.DataSize,
		sizeOf:     opts.SizeOf,
		maxEntries: opts.MaxEntries,
	}
	if t.hash == nil {
		t.hash = StringHash
	}
	if t.equal == nil {
		t.equal = StringEqual
	}
	return t
}

func newBuckets(n int) []int {
	b := make([]int, n)
	for i := range b {
		b[i] = -1
	}
	return b
}

// Len returns the number of entries.
func (t *Table[V]) Len() int { return t.count }

// Cap returns the number of buckets.
func (t *Table[V]) Cap() int { return len(t.buckets) }

func (t *Table[V]) bucket(h uint64) int {
	return int(h % uint64(len(t.buckets)))
}

// lookup returns the index of the entry for key and of its chain
// predecessor (-1 when it heads the chain), or -1 when absent.
func (t *Table[V]) lookup(key string, h uint64) (idx, prev int) {
	prev = -1
	for i := t.buckets[t.bucket(h)]; i >= 0; i = t.entries[i].next {
		e := &t.entries[i]
		if e.hash == h && t.equal(e.key, key) {
			return i, prev
		}
		prev = i
	}
	return -1, -1
}

func (t *Table[V]) checkUse() {
	if t.destroyed {
		panic("hashtable: use after Destroy")
	}
}

func (t *Table[V]) checkMutate() {
	t.checkUse()
	if t.iterating > 0 {
		panic("hashtable: table modified during iteration")
	}
}

func (t *Table[V]) checkSize(v V) error {
	if t.dataSize > 0 && t.sizeOf != nil && t.sizeOf(v) != t.dataSize {
		return ErrDataSize
	}
	return nil
}

// Insert adds key with payload v. If an equal key is present the table is
// left unchanged and ErrKeyExists is returned; use Replace to overwrite.
func (t *Table[V]) Insert(key string, v V) error {
	t.checkMutate()
	if t.Contains(key) {
		return ErrKeyExists
	}
	if err := t.checkSize(v); err != nil {
		return err
	}
	return t.insert(key, v, true)
}

// Reserve adds key with an empty payload slot. Find reports ErrNoData for
// the key until Replace stores a payload.
func (t *Table[V]) Reserve(key string) error {
	t.checkMutate()
	var zero V
	return t.insert(key, zero, false)
}

func (t *Table[V]) insert(key string, v V, set bool) error {
	h := t.hash(key)
	if i, _ := t.lookup(key, h); i >= 0 {
		return ErrKeyExists
	}
	if t.maxEntries > 0 && t.count >= t.maxEntries {
		return ErrOutOfMemory
	}

	e := entry[V]{key: key, hash: h, data: v, set: set, live: true}
	var i int
	if t.free >= 0 {
		i = t.free
		t.free = t.entries[i].next
		t.entries[i] = e
	} else {
		i = len(t.entries)
		t.entries = append(t.entries, e)
	}
	b := t.bucket(h)
	t.entries[i].next = t.buckets[b]
	t.buckets[b] = i
	t.count++

	if t.count*loadDen > len(t.buckets)*loadNum {
		t.grow()
	}
	return nil
}

// grow doubles the bucket array and relinks every entry into it.
func (t *Table[V]) grow() {
	old := t.buckets
	t.buckets = newBuckets(len(old) * 2)
	for _, head := range old {
		for i := head; i >= 0; {
			next := t.entries[i].next
			b := t.bucket(t.entries[i].hash)
			t.entries[i].next = t.buckets[b]
			t.buckets[b] = i
			i = next
		}
	}
	tracer().Debugf("hashtable grown from %d to %d buckets (%d entries)", len(old), len(t.buckets), t.count)
}

// Find returns the payload stored under key. It fails with ErrNotFound when
// the key is absent and with ErrNoData when the key was only reserved.
func (t *Table[V]) Find(key string) (V, error) {
	t.checkUse()
	var zero V
	i, _ := t.lookup(key, t.hash(key))
	if i < 0 {
		return zero, ErrNotFound
	}
	if !t.entries[i].set {
		return zero, ErrNoData
	}
	return t.entries[i].data, nil
}

// Contains reports whether key is present, with or without a payload.
func (t *Table[V]) Contains(key string) bool {
	t.checkUse()
	i, _ := t.lookup(key, t.hash(key))
	return i >= 0
}

// Replace overwrites the payload of an existing key in place and returns the
// previous payload (the zero value for a reserved key). It fails with
// ErrNotFound when the key is absent; the table is not changed then.
func (t *Table[V]) Replace(key string, v V) (V, error) {
	t.checkMutate()
	var zero V
	if err := t.checkSize(v); err != nil {
		return zero, err
	}
	i, _ := t.lookup(key, t.hash(key))
	if i < 0 {
		return zero, ErrNotFound
	}
	e := &t.entries[i]
	old := e.data
	e.data = v
	e.set = true
	return old, nil
}

// Remove deletes key and returns its payload.
func (t *Table[V]) Remove(key string) (V, error) {
	t.checkMutate()
	var zero V
	h := t.hash(key)
	i, prev := t.lookup(key, h)
	if i < 0 {
		return zero, ErrNotFound
	}
	e := &t.entries[i]
	if prev < 0 {
		t.buckets[t.bucket(h)] = e.next
	} else {
		t.entries[prev].next = e.next
	}
	old := e.data
	*e = entry[V]{next: t.free}
	t.free = i
	t.count--
	return old, nil
}

// Each calls fn for every entry until fn returns false. Reserved entries
// are visited with the zero payload; Find tells them apart. The visiting
// order is unspecified. fn must not modify the table.
func (t *Table[V]) Each(fn func(key string, v V) bool) {
	t.checkUse()
	t.iterating++
	defer func() { t.iterating-- }()
	for _, head := range t.buckets {
		for i := head; i >= 0; i = t.entries[i].next {
			e := &t.entries[i]
			if !fn(e.key, e.data) {
				return
			}
		}
	}
}

// All returns an iterator over every entry, as visited by Each.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		t.Each(yield)
	}
}

// Destroy releases every entry and the bucket array. The table must not be
// used afterwards.
func (t *Table[V]) Destroy() {
	t.checkMutate()
	t.buckets = nil
	t.entries = nil
	t.free = -1
	t.count = 0
	t.destroyed = true
}
