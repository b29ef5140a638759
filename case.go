// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

package mbstring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/charlievieth/mbstring/internal/casemap"
)

// A Mode is a case conversion performed by [ConvertCase].
type Mode int

// The values of CaseUpper, CaseLower and CaseTitle match PHP's MB_CASE_*
// constants.
const (
	CaseUpper Mode = iota // Map lowercase letters to uppercase.
	CaseLower             // Map uppercase and titlecase letters to lowercase.
	CaseTitle             // Uppercase the first letter of each word and lowercase the rest.
	CaseFold              // Like CaseLower but also folds special equivalences (µ => μ).
)

var modeNames = [...]string{
	CaseUpper: "upper",
	CaseLower: "lower",
	CaseTitle: "title",
	CaseFold:  "fold",
}

func (m Mode) String() string {
	if 0 <= m && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ErrUnknownMode is returned by ParseMode for unrecognized mode names.
var ErrUnknownMode = errors.New("mbstring: unknown case mode")

// ParseMode returns the Mode named s ("upper", "lower", "title" or "fold").
// Names are case-insensitive.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ConvertCaseBytes returns a copy of the UTF-8 encoded b with its case
// converted according to mode. Unmapped code points are copied unchanged
// and the result may be shorter or longer than b. Modes other than
// CaseUpper, CaseTitle and CaseFold are treated as CaseLower.
//
// The input must be valid UTF-8. Code point boundaries are found by only
// looking at the lead byte of each sequence, so invalid input results in
// unspecified (but memory safe) output.
func ConvertCaseBytes(b []byte, mode Mode) []byte {
	if len(b) == 0 {
		return []byte{}
	}
	if debug && !utf8.Valid(b) {
		logger.Printf("ConvertCaseBytes: invalid UTF-8: %q", b)
	}
	switch mode {
	case CaseUpper:
		return convert(slices.Clone(b), casemap.Upper())
	case CaseTitle:
		return title(slices.Clone(b))
	case CaseFold:
		return convert([]byte(casemap.Fold(string(b))), casemap.Lower())
	default:
		return convert(slices.Clone(b), casemap.Lower())
	}
}

// convert replaces each code point in b that has an entry in m, left to
// right. b is modified and the resulting buffer returned.
func convert(b []byte, m casemap.Map) []byte {
	for i := 0; i < len(b); {
		n := span(b, i)
		if repl, ok := m.Lookup(b[i : i+n]); ok {
			b = splice(b, i, n, repl)
			n = len(repl)
		}
		i += n
	}
	return b
}

// title uppercases lowercase letters at the start of a word and lowercases
// uppercase and titlecase letters that are not. A word starts at the
// beginning of b and after any code point that is not a word character.
func title(b []byte) []byte {
	upper := casemap.Upper()
	lower := casemap.Lower()
	inWord := false
	for i := 0; i < len(b); {
		r, n := utf8.DecodeRune(b[i:])
		var m casemap.Map
		switch {
		case !inWord && casemap.IsLowerLetter(r):
			m = upper
		case inWord && casemap.IsUpperOrTitle(r):
			m = lower
		}
		inWord = casemap.IsWord(r)
		if m != nil {
			if repl, ok := m.Lookup(b[i : i+n]); ok {
				b = splice(b, i, n, repl)
				n = len(repl)
			}
		}
		i += n
	}
	return b
}

// span returns the length of the code point starting at b[i] as indicated
// by its lead byte, truncated to the end of b.
func span(b []byte, i int) int {
	n := casemap.Width(b[i])
	if rem := len(b) - i; n > rem {
		n = rem
	}
	return n
}

// splice replaces the n bytes of b starting at i with repl. The bytes are
// overwritten in place if the lengths match, otherwise b is resized.
func splice(b []byte, i, n int, repl string) []byte {
	if len(repl) == n {
		copy(b[i:i+n], repl)
		return b
	}
	return slices.Replace(b, i, i+n, []byte(repl)...)
}

// ConvertCase returns s, which is encoded in the internal encoding, with its
// case converted according to mode.
func ConvertCase(s string, mode Mode) string {
	return Internal().ConvertCase(s, mode)
}

// ToLower returns s with all Unicode letters mapped to their lower case.
func ToLower(s string) string { return ConvertCase(s, CaseLower) }

// ToUpper returns s with all Unicode letters mapped to their upper case.
func ToUpper(s string) string { return ConvertCase(s, CaseUpper) }

// ToTitle returns s with the first letter of each word in upper case and
// the remaining letters in lower case.
func ToTitle(s string) string { return ConvertCase(s, CaseTitle) }

// Fold returns the case folded form of s. It is intended for case-insensitive
// comparison, not display.
func Fold(s string) string { return ConvertCase(s, CaseFold) }
