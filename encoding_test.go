package mbstring

import (
	"errors"
	"testing"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func TestConvertEncoding(t *testing.T) {
	tests := []struct {
		s, to, from string
		out         string
	}{
		{"", "ISO-8859-1", "UTF-8", ""},
		{"caf\xc3\xa9", "ISO-8859-1", "UTF-8", "caf\xe9"},
		{"caf\xc3\xa9", "ISO-8859-1", "", "caf\xe9"},
		{"caf\xe9", "UTF-8", "latin1", "café"},
		{"\x80", "UTF-8", "cp1252", "€"},
		{"a\xffb", "UTF-8", "UTF-8", "ab"},
		{"日本", "ISO-8859-1", "UTF-8", ""},
		{"日本", "Shift_JIS", "UTF-8", "\x93\xfa\x96\x7b"},

		// Pseudo encodings
		{"hello", "base64", "UTF-8", "aGVsbG8="},
		{"aGVsbG8=", "UTF-8", "base64", "hello"},
		{"Y2Fm6Q==", "ISO-8859-1", "BASE64", "caf\xe9"},
		{"café €", "html-entities", "UTF-8", "caf&#233; &#8364;"},
		{"caf\xe9", "HTML-ENTITIES", "ISO-8859-1", "caf&#233;"},
		{"<a>", "html-entities", "UTF-8", "<a>"},
		{"caf&#233; &amp; &eacute;", "UTF-8", "html-entities", "café & é"},
		{"&#8364;", "ISO-8859-15", "html-entities", "\xa4"},
	}
	for _, test := range tests {
		got, err := ConvertEncoding(test.s, test.to, test.from)
		if err != nil {
			t.Errorf("ConvertEncoding(%q, %q, %q): %v", test.s, test.to, test.from, err)
			continue
		}
		if got != test.out {
			t.Errorf("ConvertEncoding(%q, %q, %q) = %q; want: %q", test.s, test.to, test.from, got, test.out)
		}
	}
}

func TestConvertEncodingError(t *testing.T) {
	for _, enc := range [][2]string{
		{"UTF-8", "no-such-charset"},
		{"no-such-charset", "UTF-8"},
		{"no-such-charset", "html-entities"},
	} {
		_, err := ConvertEncoding("abc", enc[0], enc[1])
		if !errors.Is(err, ErrUnknownEncoding) {
			t.Errorf("ConvertEncoding(%q, %q) error = %v; want: %v", enc[0], enc[1], err, ErrUnknownEncoding)
		}
	}
}

func TestConvertEncodingBase64Lenient(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"YWI", "ab"},
		{"YWI=", "ab"},
		{"YW Jj", "abc"},
		{"YW\r\nJj\n", "abc"},
		{"YQ", "a"},
		{"YQ=", "a"},
		{"Y", ""},
		{"YWJjZ", "abc"},
		{"aGVs!bG8", "hello"},
		{"=aGVsbG8=", "hello"},
	}
	for _, test := range tests {
		got, err := ConvertEncoding(test.in, "UTF-8", "base64")
		if err != nil {
			t.Errorf("ConvertEncoding(%q, %q, %q): %v", test.in, "UTF-8", "base64", err)
			continue
		}
		if got != test.out {
			t.Errorf("ConvertEncoding(%q, %q, %q) = %q; want: %q", test.in, "UTF-8", "base64", got, test.out)
		}
	}
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		s    string
		list []string
		enc  string
		ok   bool
	}{
		{"abc", nil, "ASCII", true},
		{"héllo", nil, "UTF-8", true},
		{"h\xe9llo", nil, "", false},
		{"h\xe9llo", []string{"ASCII, UTF-8"}, "", false},
		{"h\xe9llo", []string{"ASCII", "UTF-8", "ISO-8859-1"}, "ISO-8859-1", true},
		{"héllo", []string{"ascii,utf8"}, "UTF8", true},
		{"abc", []string{"SJIS", "ASCII"}, "", false},
		{"", []string{"UTF-8"}, "UTF-8", true},
	}
	for _, test := range tests {
		enc, ok := DetectEncoding(test.s, test.list...)
		if enc != test.enc || ok != test.ok {
			t.Errorf("DetectEncoding(%q, %q) = %q, %t; want: %q, %t",
				test.s, test.list, enc, ok, test.enc, test.ok)
		}
	}
}

func TestSetDetectOrder(t *testing.T) {
	t.Cleanup(func() {
		if err := SetDetectOrder("ASCII", "UTF-8"); err != nil {
			t.Fatal(err)
		}
	})
	if got := DetectOrder(); !slices.Equal(got, []string{"ASCII", "UTF-8"}) {
		t.Errorf("DetectOrder() = %q; want: %q", got, []string{"ASCII", "UTF-8"})
	}
	if err := SetDetectOrder("utf-8, iso-8859-1"); err != nil {
		t.Fatal(err)
	}
	want := []string{"UTF-8", "ISO-8859-1"}
	if got := DetectOrder(); !slices.Equal(got, want) {
		t.Errorf("DetectOrder() = %q; want: %q", got, want)
	}
	if enc, _ := DetectEncoding("\xe9"); enc != "ISO-8859-1" {
		t.Errorf("DetectEncoding(%q) = %q; want: %q", "\xe9", enc, "ISO-8859-1")
	}
	if err := SetDetectOrder("ASCII", "EUC-JP"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("SetDetectOrder(EUC-JP) error = %v; want: %v", err, ErrUnknownEncoding)
	}
	if got := DetectOrder(); !slices.Equal(got, want) {
		t.Errorf("DetectOrder() changed after error: %q", got)
	}

	// The returned slice is a copy.
	DetectOrder()[0] = "xxx"
	if got := DetectOrder(); !slices.Equal(got, want) {
		t.Errorf("DetectOrder() = %q; want: %q", got, want)
	}
}

func TestCheckEncoding(t *testing.T) {
	tests := []struct {
		s, enc string
		ok     bool
	}{
		{"abc", "", true},
		{"héllo", "", true},
		{"\xff", "", false},
		{"\xff", "UTF-8", false},
		{"\xff", "ISO-8859-1", true},
		{"é", "ASCII", false},
		{"abc", "Shift_JIS", false},
	}
	for _, test := range tests {
		if ok := CheckEncoding(test.s, test.enc); ok != test.ok {
			t.Errorf("CheckEncoding(%q, %q) = %t; want: %t", test.s, test.enc, ok, test.ok)
		}
	}
}

func TestEncodingAliases(t *testing.T) {
	for _, enc := range []string{"UTF-8", "utf8"} {
		aliases, ok := EncodingAliases(enc)
		if !ok || !slices.Equal(aliases, []string{"utf8"}) {
			t.Errorf("EncodingAliases(%q) = %q, %t; want: %q, %t", enc, aliases, ok, []string{"utf8"}, true)
		}
	}
	if aliases, ok := EncodingAliases("ISO-8859-1"); ok || aliases != nil {
		t.Errorf("EncodingAliases(%q) = %q, %t; want: nil, false", "ISO-8859-1", aliases, ok)
	}
	if got := ListEncodings(); !slices.Equal(got, []string{"UTF-8"}) {
		t.Errorf("ListEncodings() = %q; want: %q", got, []string{"UTF-8"})
	}
}

func TestLanguage(t *testing.T) {
	t.Cleanup(func() { SetLanguage("neutral") })
	if got := Language(); got != "neutral" {
		t.Errorf("Language() = %q; want: %q", got, "neutral")
	}
	if err := SetLanguage("UNI"); err != nil {
		t.Fatal(err)
	}
	if got := Language(); got != "uni" {
		t.Errorf("Language() = %q; want: %q", got, "uni")
	}
	if err := SetLanguage("ja"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("SetLanguage(%q) error = %v; want: %v", "ja", err, ErrUnknownLanguage)
	}
	if got := Language(); got != "uni" {
		t.Errorf("Language() changed after error: %q", got)
	}
}

func TestSettings(t *testing.T) {
	if s := SubstituteCharacter(); s != "none" {
		t.Errorf("SubstituteCharacter() = %q; want: %q", s, "none")
	}
	if s, ok := HTTPInput(); s != "" || ok {
		t.Errorf("HTTPInput() = %q, %t; want: %q, %t", s, ok, "", false)
	}
	if s := HTTPOutput(); s != "pass" {
		t.Errorf("HTTPOutput() = %q; want: %q", s, "pass")
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	want := map[string]any{
		"internal_encoding":    "UTF-8",
		"http_output":          "pass",
		"language":             "neutral",
		"substitute_character": "none",
		"func_overload":        0,
	}
	for key, val := range want {
		got, ok := info.Lookup(key)
		if !ok || got != val {
			t.Errorf("Lookup(%q) = %v, %t; want: %v, %t", key, got, ok, val, true)
		}
	}
	order, ok := info.Lookup("detect_order")
	if !ok || !slices.Equal(order.([]string), DetectOrder()) {
		t.Errorf("Lookup(%q) = %v, %t; want: %v, %t", "detect_order", order, ok, DetectOrder(), true)
	}
	if v, ok := info.Lookup("no_such_key"); ok {
		t.Errorf("Lookup(%q) = %v, %t; want: nil, false", "no_such_key", v, ok)
	}
	keys := maps.Keys(info.Map())
	slices.Sort(keys)
	if len(keys) != 14 || keys[0] != "detect_order" {
		t.Errorf("Map() keys = %q", keys)
	}
}
