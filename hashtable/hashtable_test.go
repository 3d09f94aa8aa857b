package hashtable_test

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/atlang/atlex/hashtable"
)

type payload struct{ n int }

// TestTable_FindAfterGrowth inserts keys across several growth boundaries
// and checks that every key still maps to its original payload.
func TestTable_FindAfterGrowth(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[*payload]{Capacity: 4})
	const n = 1000
	want := make(map[string]*payload, n)
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("key%d", i)
		p := &payload{n: i}
		if err := tbl.Insert(k, p); err != nil {
			t.Fatalf("insert %q: %v", k, err)
		}
		want[k] = p
	}
	if tbl.Len() != n {
		t.Fatalf("len — got %d, want %d", tbl.Len(), n)
	}
	if tbl.Cap() <= 4 {
		t.Fatalf("table never grew: cap %d", tbl.Cap())
	}
	if tbl.Len()*4 > tbl.Cap()*3 {
		t.Errorf("load factor above threshold: %d entries in %d buckets", tbl.Len(), tbl.Cap())
	}
	for k, p := range want {
		got, err := tbl.Find(k)
		if err != nil {
			t.Fatalf("find %q: %v", k, err)
		}
		if got != p {
			t.Fatalf("find %q: payload identity changed", k)
		}
	}
}

// TestTable_InsertExisting verifies that a duplicate insert is refused and
// changes nothing.
func TestTable_InsertExisting(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{})
	if err := tbl.Insert("x", 1); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Insert("x", 2); !errors.Is(err, hashtable.ErrKeyExists) {
		t.Fatalf("got %v, want ErrKeyExists", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("len — got %d, want 1", tbl.Len())
	}
	if v, _ := tbl.Find("x"); v != 1 {
		t.Errorf("payload overwritten: got %d", v)
	}
}

// TestTable_Replace covers replace on present and absent keys.
func TestTable_Replace(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[string]{})
	_ = tbl.Insert("a", "one")

	old, err := tbl.Replace("a", "uno")
	if err != nil || old != "one" {
		t.Fatalf("replace — got (%q, %v), want (\"one\", nil)", old, err)
	}
	if v, _ := tbl.Find("a"); v != "uno" {
		t.Errorf("find after replace — got %q", v)
	}

	if _, err := tbl.Replace("b", "two"); !errors.Is(err, hashtable.ErrNotFound) {
		t.Fatalf("replace absent — got %v, want ErrNotFound", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("replace of absent key changed len to %d", tbl.Len())
	}
}

// TestTable_FindMissing checks the NotFound result.
func TestTable_FindMissing(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{})
	if _, err := tbl.Find("nope"); !errors.Is(err, hashtable.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// TestTable_Reserve checks that a reserved key reports NoData until filled.
func TestTable_Reserve(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{})
	if err := tbl.Reserve("slot"); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Find("slot"); !errors.Is(err, hashtable.ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}
	if !tbl.Contains("slot") {
		t.Error("reserved key not contained")
	}
	if err := tbl.Insert("slot", 3); !errors.Is(err, hashtable.ErrKeyExists) {
		t.Errorf("insert over reserved key — got %v", err)
	}
	if _, err := tbl.Replace("slot", 7); err != nil {
		t.Fatal(err)
	}
	if v, err := tbl.Find("slot"); err != nil || v != 7 {
		t.Errorf("find — got (%d, %v)", v, err)
	}
}

// TestTable_DataSize checks fixed-size payload enforcement.
func TestTable_DataSize(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[[]byte]{
		DataSize: 4,
		SizeOf:   func(b []byte) int { return len(b) },
	})
	if err := tbl.Insert("ok", []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Insert("short", []byte{1}); !errors.Is(err, hashtable.ErrDataSize) {
		t.Errorf("insert — got %v, want ErrDataSize", err)
	}
	if _, err := tbl.Replace("ok", []byte{1, 2}); !errors.Is(err, hashtable.ErrDataSize) {
		t.Errorf("replace — got %v, want ErrDataSize", err)
	}
	if err := tbl.Insert("ok", []byte{1}); !errors.Is(err, hashtable.ErrKeyExists) {
		t.Errorf("duplicate insert — got %v, want ErrKeyExists", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("len — got %d", tbl.Len())
	}
}

// TestTable_MaxEntries checks the allocation cap.
func TestTable_MaxEntries(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{MaxEntries: 2})
	_ = tbl.Insert("a", 1)
	_ = tbl.Insert("b", 2)
	if err := tbl.Insert("c", 3); !errors.Is(err, hashtable.ErrOutOfMemory) {
		t.Fatalf("got %v, want ErrOutOfMemory", err)
	}
	if err := tbl.Insert("a", 9); !errors.Is(err, hashtable.ErrKeyExists) {
		t.Errorf("duplicate at the cap — got %v, want ErrKeyExists", err)
	}
}

// TestTable_Remove checks removal, free-slot reuse and chain integrity.
func TestTable_Remove(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{Capacity: 2})
	for i := 0; i < 50; i++ {
		_ = tbl.Insert(fmt.Sprint(i), i)
	}
	for i := 0; i < 50; i += 2 {
		v, err := tbl.Remove(fmt.Sprint(i))
		if err != nil || v != i {
			t.Fatalf("remove %d — got (%d, %v)", i, v, err)
		}
	}
	if _, err := tbl.Remove("0"); !errors.Is(err, hashtable.ErrNotFound) {
		t.Errorf("second remove — got %v", err)
	}
	if tbl.Len() != 25 {
		t.Fatalf("len — got %d, want 25", tbl.Len())
	}
	for i := 0; i < 50; i++ {
		v, err := tbl.Find(fmt.Sprint(i))
		if i%2 == 0 {
			if !errors.Is(err, hashtable.ErrNotFound) {
				t.Errorf("removed key %d still found", i)
			}
			continue
		}
		if err != nil || v != i {
			t.Errorf("find %d — got (%d, %v)", i, v, err)
		}
	}
	for i := 100; i < 110; i++ {
		if err := tbl.Insert(fmt.Sprint(i), i); err != nil {
			t.Fatal(err)
		}
	}
	if tbl.Len() != 35 {
		t.Errorf("len after reuse — got %d, want 35", tbl.Len())
	}
}

// TestTable_Each visits every entry exactly once.
func TestTable_Each(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{Capacity: 3})
	keys := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	for i, k := range keys {
		_ = tbl.Insert(k, i)
	}
	_ = tbl.Reserve("reserved")

	var seen []string
	for k, v := range tbl.All() {
		if k == "reserved" {
			if v != 0 {
				t.Errorf("reserved entry carries payload %d", v)
			}
		} else if keys[v] != k {
			t.Errorf("entry %q carries payload %d", k, v)
		}
		seen = append(seen, k)
	}
	if len(seen) != tbl.Len() {
		t.Errorf("visited %d entries, Len reports %d", len(seen), tbl.Len())
	}
	sort.Strings(seen)
	want := append([]string{"reserved"}, keys...)
	sort.Strings(want)
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("visited %v, want %v", seen, want)
	}

	n := 0
	tbl.Each(func(string, int) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("early stop — visited %d", n)
	}
}

// TestTable_MutateDuringIteration verifies the iteration guard.
func TestTable_MutateDuringIteration(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{})
	_ = tbl.Insert("a", 1)
	defer func() {
		if recover() == nil {
			t.Error("insert during iteration did not panic")
		}
		// the guard is released once the walk unwinds
		if err := tbl.Insert("c", 3); err != nil {
			t.Errorf("insert after iteration: %v", err)
		}
	}()
	tbl.Each(func(string, int) bool {
		_ = tbl.Insert("b", 2)
		return true
	})
}

// TestTable_FoldCase checks case-insensitive keys.
func TestTable_FoldCase(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{
		Hash:  hashtable.FoldHash,
		Equal: hashtable.FoldEqual,
	})
	_ = tbl.Insert("While", 1)
	for _, k := range []string{"while", "WHILE", "wHiLe"} {
		if v, err := tbl.Find(k); err != nil || v != 1 {
			t.Errorf("find %q — got (%d, %v)", k, v, err)
		}
	}
	if err := tbl.Insert("WHILE", 2); !errors.Is(err, hashtable.ErrKeyExists) {
		t.Errorf("insert folded duplicate — got %v", err)
	}
}

// TestFoldHash checks that keys equal under FoldEqual hash alike.
func TestFoldHash(t *testing.T) {
	pairs := [][2]string{
		{"abc", "ABC"},
		{"Straße", "strAße"},
		{"k", "\u212a"}, // Kelvin sign
		{"Kelvin", "\u212aELVIN"},
		{"_x1", "_X1"},
	}
	for _, p := range pairs {
		if !hashtable.FoldEqual(p[0], p[1]) {
			t.Fatalf("%q and %q not fold-equal", p[0], p[1])
		}
		if hashtable.FoldHash(p[0]) != hashtable.FoldHash(p[1]) {
			t.Errorf("FoldHash(%q) != FoldHash(%q)", p[0], p[1])
		}
	}
}

// TestTable_Destroy checks that a destroyed table refuses further use.
func TestTable_Destroy(t *testing.T) {
	tbl := hashtable.New(hashtable.Options[int]{})
	_ = tbl.Insert("a", 1)
	tbl.Destroy()
	if tbl.Len() != 0 {
		t.Errorf("len after destroy — got %d", tbl.Len())
	}
	defer func() {
		if recover() == nil {
			t.Error("find after destroy did not panic")
		}
	}()
	_, _ = tbl.Find("a")
}

// TestShared_ConcurrentInsert hammers one shared table from several
// goroutines and checks that no key is lost or duplicated.
func TestShared_ConcurrentInsert(t *testing.T) {
	s := hashtable.NewShared(hashtable.Options[int]{Capacity: 2})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := fmt.Sprint(i)
				_ = s.Do(func(tbl *hashtable.Table[int]) error {
					if _, err := tbl.Find(k); errors.Is(err, hashtable.ErrNotFound) {
						return tbl.Insert(k, i)
					}
					return nil
				})
			}
		}()
	}
	wg.Wait()
	if s.Len() != 200 {
		t.Fatalf("len — got %d, want 200", s.Len())
	}
	for i := 0; i < 200; i++ {
		if v, err := s.Find(fmt.Sprint(i)); err != nil || v != i {
			t.Errorf("find %d — got (%d, %v)", i, v, err)
		}
	}
}
