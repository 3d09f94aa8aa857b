package lexer

import (
	"github.com/atlang/atlex/config"
)

// Configuration keys read by OptionsFrom.
const (
	KeyFoldCase   = "fold-case"
	KeyMaxToken   = "max-token"
	KeyMaxSymbols = "max-symbols"
	KeyRawStrings = "raw-strings"
)

// OptionsFrom reads scanner options from src. Absent keys keep their
// defaults; raw strings are enabled unless turned off.
func OptionsFrom(src config.Source) (Options, error) {
	var opts Options
	var err error
	if opts.FoldCase, err = config.Bool(src, KeyFoldCase, false); err != nil {
		return opts, err
	}
	if opts.MaxTokenLen, err = config.Int(src, KeyMaxToken, 0); err != nil {
		return opts, err
	}
	if opts.MaxSymbols, err = config.Int(src, KeyMaxSymbols, 0); err != nil {
		return opts, err
	}
	raw, err := config.Bool(src, KeyRawStrings, true)
	if err != nil {
		return opts, err
	}
	opts.NoRawStrings = !raw
	return opts, nil
}
