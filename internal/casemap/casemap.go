// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

// Package casemap provides the codepoint mapping tables used for case
// conversion. Keys and values are the UTF-8 encodings of a single code
// point and the two are not required to have the same encoded length.
//
// The tables are built from the simple case mappings of the unicode package
// the first time they are requested and are read-only afterwards.
package casemap

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// A Map maps the UTF-8 encoding of one code point to the UTF-8 encoding of
// its replacement. A Map must not be modified.
type Map map[string]string

// Lookup returns the replacement for the code point encoded by seq.
func (m Map) Lookup(seq []byte) (string, bool) {
	s, ok := m[string(seq)] // no allocation
	return s, ok
}

// Upper returns the lowercase to uppercase map.
func Upper() Map { return upper() }

// Lower returns the uppercase and titlecase to lowercase map.
func Lower() Map { return lower() }

var upper = sync.OnceValue(func() Map {
	return build(unicode.ToUpper)
})

var lower = sync.OnceValue(func() Map {
	return build(unicode.ToLower)
})

// build creates a Map of every rune in unicode.CaseRanges that fn changes.
func build(fn func(rune) rune) Map {
	m := make(Map, 1536)
	for _, cr := range unicode.CaseRanges {
		for r := rune(cr.Lo); r <= rune(cr.Hi); r++ {
			if to := fn(r); to != r {
				m[string(r)] = string(to)
			}
		}
	}
	return m
}

// foldPairs are the special case equivalences applied before lowercasing
// when folding. Each source is a single code point.
var foldPairs = [...][2]string{
	{"\u00b5", "\u03bc"}, // µ => μ
	{"\u017f", "s"},      // ſ => s
	{"\u0345", "\u03b9"}, // COMBINING GREEK YPOGEGRAMMENI => ι
	{"\u03c2", "\u03c3"}, // ς => σ
	{"\u03d0", "\u03b2"}, // ϐ => β
	{"\u03d1", "\u03b8"}, // ϑ => θ
	{"\u03d5", "\u03c6"}, // ϕ => φ
	{"\u03d6", "\u03c0"}, // ϖ => π
	{"\u03f0", "\u03ba"}, // ϰ => κ
	{"\u03f1", "\u03c1"}, // ϱ => ρ
	{"\u03f5", "\u03b5"}, // ϵ => ε
	{"\u1e9b", "\u1e61"}, // ẛ => ṡ
	{"\u1fbe", "\u03b9"}, // GREEK PROSGEGRAMMENI => ι
}

var foldReplacer = sync.OnceValue(func() *strings.Replacer {
	oldnew := make([]string, 0, len(foldPairs)*2)
	for _, p := range foldPairs {
		oldnew = append(oldnew, p[0], p[1])
	}
	return strings.NewReplacer(oldnew...)
})

// Fold applies the special case fold equivalences (µ => μ, ſ => s, ...)
// to s.
func Fold(s string) string {
	return foldReplacer().Replace(s)
}

var (
	// upperTitle matches letters lowered by the title case conversion.
	upperTitle = rangetable.Merge(unicode.Lu, unicode.Lt)
	// word is the set of non-ASCII word characters. Nonspacing marks are
	// included so that decomposed letters do not split a word.
	word = rangetable.Merge(unicode.L, unicode.N, unicode.Mn, unicode.Pc)
)

// IsLowerLetter reports whether r is a lowercase letter (Ll).
func IsLowerLetter(r rune) bool {
	if r < 0x80 {
		return 'a' <= r && r <= 'z'
	}
	return unicode.Is(unicode.Ll, r)
}

// IsUpperOrTitle reports whether r is an uppercase (Lu) or titlecase (Lt)
// letter.
func IsUpperOrTitle(r rune) bool {
	if r < 0x80 {
		return 'A' <= r && r <= 'Z'
	}
	return unicode.Is(upperTitle, r)
}

// IsWord reports whether r is a word character: a letter (L), a number
// (N), a nonspacing mark (Mn) or a connector punctuation (Pc) such as '_'.
func IsWord(r rune) bool {
	if r < 0x80 {
		return r == '_' || '0' <= r && r <= '9' ||
			'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
	}
	return unicode.Is(word, r)
}

// Width returns the encoded length of the code point starting with lead
// byte c. It only looks at the high bits of c and assumes well-formed
// UTF-8: continuation bytes (0x80-0xBF) are reported as 1.
func Width(c byte) int {
	if c < 0x80 {
		return 1
	}
	switch c & 0xF0 {
	case 0xC0, 0xD0:
		return 2
	case 0xE0:
		return 3
	case 0xF0:
		return 4
	}
	return 1
}
