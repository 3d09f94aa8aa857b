package hashtable

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to a 64-bit hash. Keys that are equal under the
// table's EqualFunc must hash to the same value.
type HashFunc func(key string) uint64

// EqualFunc reports whether two keys name the same entry.
type EqualFunc func(a, b string) bool

// StringHash is the default hash: 64-bit xxHash of the key bytes.
func StringHash(key string) uint64 { return xxhash.Sum64String(key) }

// StringEqual is the default, case-sensitive key comparison.
func StringEqual(a, b string) bool { return a == b }

// FoldHash hashes key so that keys equal under FoldEqual collide.
// Every rune is replaced by the smallest rune of its case-folding orbit.
func FoldHash(key string) uint64 {
	plain := true
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= utf8.RuneSelf || ('a' <= c && c <= 'z') {
			plain = false
			break
		}
	}
	if plain {
		return xxhash.Sum64String(key)
	}
	var buf [64]byte
	folded := buf[:0]
	for _, r := range key {
		folded = utf8.AppendRune(folded, foldRune(r))
	}
	return xxhash.Sum64(folded)
}

// FoldEqual is the case-insensitive key comparison paired with FoldHash.
func FoldEqual(a, b string) bool { return strings.EqualFold(a, b) }

func foldRune(r rune) rune {
	m := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < m {
			m = f
		}
	}
	return m
}
