package casemap

import (
	"reflect"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func singleRune(s string) (rune, bool) {
	r, n := utf8.DecodeRuneInString(s)
	return r, n == len(s) && r != utf8.RuneError
}

func testMap(t *testing.T, name string, m Map, fn func(rune) rune) {
	if len(m) == 0 {
		t.Fatalf("%s: empty map", name)
	}
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		r, ok := singleRune(k)
		if !ok {
			t.Errorf("%s: key %q is not a single code point", name, k)
			continue
		}
		v := m[k]
		to, ok := singleRune(v)
		if !ok {
			t.Errorf("%s: value %q for %q is not a single code point", name, v, k)
			continue
		}
		if want := fn(r); to != want {
			t.Errorf("%s[%q] = %q; want: %q", name, k, v, string(want))
		}
		if to == r {
			t.Errorf("%s[%q]: identity mapping", name, k)
		}
	}
}

func TestUpper(t *testing.T) {
	testMap(t, "Upper", Upper(), unicode.ToUpper)
}

func TestLower(t *testing.T) {
	testMap(t, "Lower", Lower(), unicode.ToLower)
}

func TestMapCached(t *testing.T) {
	if reflect.ValueOf(Upper()).Pointer() != reflect.ValueOf(Upper()).Pointer() {
		t.Fatal("Upper() was not cached")
	}
	if reflect.ValueOf(Lower()).Pointer() != reflect.ValueOf(Lower()).Pointer() {
		t.Fatal("Lower() was not cached")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		m    Map
		in   string
		want string
		ok   bool
	}{
		{Upper(), "a", "A", true},
		{Upper(), "A", "", false},
		{Upper(), "\u017f", "S", true},      // ſ
		{Upper(), "\u0131", "I", true},      // ı
		{Upper(), "\u2c65", "\u023a", true}, // ⱥ => Ⱥ
		{Lower(), "\u0130", "i", true},      // İ
		{Lower(), "\u212a", "k", true},      // Kelvin
		{Lower(), "\u023a", "\u2c65", true}, // Ⱥ => ⱥ
		{Lower(), "\u01c5", "\u01c6", true}, // ǅ => ǆ
		{Upper(), "\u01c5", "\u01c4", true}, // ǅ => Ǆ
		{Lower(), "\u4e16", "", false},
		{Upper(), "\u4e16", "", false},
	}
	for _, test := range tests {
		got, ok := test.m.Lookup([]byte(test.in))
		if got != test.want || ok != test.ok {
			t.Errorf("Lookup(%q) = %q, %t; want: %q, %t", test.in, got, ok, test.want, test.ok)
		}
	}
}

func TestFoldPairs(t *testing.T) {
	for _, p := range foldPairs {
		if _, ok := singleRune(p[0]); !ok {
			t.Errorf("fold source %q is not a single code point", p[0])
		}
		if got := Fold(p[0]); got != p[1] {
			t.Errorf("Fold(%q) = %q; want: %q", p[0], got, p[1])
		}
		// The fold targets must agree with simple case folding.
		if !strings.EqualFold(p[0], p[1]) {
			t.Errorf("%q and %q are not case-insensitively equal", p[0], p[1])
		}
	}
	const in, want = "a\u00b5b\u017fc", "a\u03bcbsc"
	if got := Fold(in); got != want {
		t.Errorf("Fold(%q) = %q; want: %q", in, got, want)
	}
}

func TestWidth(t *testing.T) {
	for c := 0; c < 256; c++ {
		want := 1
		switch {
		case c >= 0xF0:
			want = 4
		case c >= 0xE0:
			want = 3
		case c >= 0xC0:
			want = 2
		}
		if got := Width(byte(c)); got != want {
			t.Errorf("Width(0x%02X) = %d; want: %d", c, got, want)
		}
	}
	for _, r := range []rune{'a', 'é', '世', '😀', utf8.MaxRune} {
		if got, want := Width(string(r)[0]), utf8.RuneLen(r); got != want {
			t.Errorf("Width(%q) = %d; want: %d", r, got, want)
		}
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		r                 rune
		lower, upper, wrd bool
	}{
		{'a', true, false, true},
		{'Z', false, true, true},
		{'_', false, false, true},
		{'7', false, false, true},
		{' ', false, false, false},
		{'-', false, false, false},
		{'\'', false, false, false},
		{'ß', true, false, true},
		{'Σ', false, true, true},
		{'\u01c5', false, true, true}, // Lt
		{'世', false, false, true},
		{'٣', false, false, true}, // ARABIC-INDIC DIGIT THREE
		{'。', false, false, false},
		{'\u0301', false, false, true}, // COMBINING ACUTE ACCENT (Mn)
		{'\u203f', false, false, true}, // UNDERTIE (Pc)
		{'\u0903', false, false, false}, // DEVANAGARI SIGN VISARGA (Mc)
	}
	for _, test := range tests {
		if got := IsLowerLetter(test.r); got != test.lower {
			t.Errorf("IsLowerLetter(%q) = %t; want: %t", test.r, got, test.lower)
		}
		if got := IsUpperOrTitle(test.r); got != test.upper {
			t.Errorf("IsUpperOrTitle(%q) = %t; want: %t", test.r, got, test.upper)
		}
		if got := IsWord(test.r); got != test.wrd {
			t.Errorf("IsWord(%q) = %t; want: %t", test.r, got, test.wrd)
		}
	}
}
