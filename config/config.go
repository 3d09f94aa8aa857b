// Package config provides the read-only configuration lookup the scanner
// consults when it is created.
//
// A Source answers Lookup(name) with a value or "absent". Sources are plain
// maps, command-line flag sets, or chains of both. Typed accessors parse
// values and fall back to a default when a name is absent.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Source looks up configuration values by name.
type Source interface {
	Lookup(name string) (string, bool)
}

// Map is a Source backed by a map.
type Map map[string]string

// Lookup implements Source.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Flags is a Source backed by a flag set. Only flags given on the command
// line are present; defaults stay with the consumer.
type Flags struct {
	fs *flag.FlagSet
}

// FromFlags wraps a parsed flag set.
func FromFlags(fs *flag.FlagSet) Flags { return Flags{fs: fs} }

// Lookup implements Source.
func (f Flags) Lookup(name string) (string, bool) {
	var (
		v  string
		ok bool
	)
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			v, ok = fl.Value.String(), true
		}
	})
	return v, ok
}

// Chain consults its sources in order; the first one holding a name wins.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// Bool returns the named boolean, or def when it is absent.
func Bool(src Source, name string, def bool) (bool, error) {
	v, ok := lookup(src, name)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", name, err)
	}
	return b, nil
}

// Int returns the named integer, or def when it is absent.
func Int(src Source, name string, def int) (int, error) {
	v, ok := lookup(src, name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", name, err)
	}
	return n, nil
}

// String returns the named value, or def when it is absent.
func String(src Source, name string, def string) string {
	if v, ok := lookup(src, name); ok {
		return v
	}
	return def
}

func lookup(src Source, name string) (string, bool) {
	if src == nil {
		return "", false
	}
	return src.Lookup(name)
}

// ProgName returns the base name of the running program.
func ProgName() string {
	if len(os.Args) == 0 {
		return "atlex"
	}
	return filepath.Base(os.Args[0])
}
