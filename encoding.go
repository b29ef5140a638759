// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

package mbstring

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/charlievieth/mbstring/internal/bytealg"
	"github.com/charlievieth/mbstring/internal/transcode"
)

// Pseudo encodings accepted by ConvertEncoding.
const (
	Base64       = "base64"
	HTMLEntities = "html-entities"
)

// ConvertEncoding converts s from encoding from to encoding to. If from is
// empty the internal encoding is used. Characters that are invalid in from
// or cannot be represented in to are dropped.
//
// In addition to character encodings, from and to may be Base64 or
// HTMLEntities. Converting to HTMLEntities replaces each non-ASCII code
// point with a numeric character reference.
func ConvertEncoding(s, to, from string) (string, error) {
	if from == "" {
		from = InternalEncoding()
	}
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))

	if from == Base64 {
		s = base64Decode(s)
		from = to
	}
	if to == Base64 {
		return base64.StdEncoding.EncodeToString([]byte(s)), nil
	}

	if to == HTMLEntities {
		if from == HTMLEntities {
			from = "windows-1252"
		}
		u, err := transcode.Transcode([]byte(s), from, "UTF-8")
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, from)
		}
		return htmlEncode(u), nil
	}
	if from == HTMLEntities {
		s = html.UnescapeString(s)
		from = "UTF-8"
	}

	out, err := transcode.Transcode([]byte(s), from, to)
	if err != nil {
		if errors.Is(err, transcode.ErrUnknown) {
			return "", fmt.Errorf("%w: %w", ErrUnknownEncoding, err)
		}
		return "", err
	}
	return string(out), nil
}

// base64Decode decodes s ignoring bytes outside of the base64 alphabet
// (including padding). A trailing group of a single character cannot
// encode a byte and is ignored.
func base64Decode(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' ||
			'0' <= c && c <= '9' || c == '+' || c == '/' {
			b = append(b, c)
		}
	}
	if len(b)%4 == 1 {
		b = b[:len(b)-1]
	}
	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(b)))
	// Only alphabet bytes remain and RawStdEncoding allows non-zero
	// trailing bits so this cannot fail.
	n, _ := base64.RawStdEncoding.Decode(out, b)
	return string(out[:n])
}

// htmlEncode replaces every non-ASCII code point of the UTF-8 encoded b
// with a numeric character reference.
func htmlEncode(b []byte) string {
	i := bytealg.IndexByteNonASCII(b)
	if i < 0 {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + len(b)/2)
	sb.Write(b[:i])
	for _, r := range string(b[i:]) {
		if r < utf8.RuneSelf {
			sb.WriteByte(byte(r))
			continue
		}
		sb.WriteString("&#")
		sb.WriteString(strconv.Itoa(int(r)))
		sb.WriteByte(';')
	}
	return sb.String()
}

var detectOrder atomic.Pointer[[]string]

var defaultDetectOrder = []string{"ASCII", "UTF-8"}

// DetectOrder returns the list of encodings tried by DetectEncoding when
// called without a list.
func DetectOrder() []string {
	if p := detectOrder.Load(); p != nil {
		return slices.Clone(*p)
	}
	return slices.Clone(defaultDetectOrder)
}

// SetDetectOrder sets the default list of encodings tried by
// DetectEncoding. Elements may contain comma separated names. Only
// "ASCII", "UTF-8" ("UTF8") and "ISO-8859-*" are supported.
func SetDetectOrder(list ...string) error {
	list = encodingList(list)
	for _, enc := range list {
		if !detectable(enc) {
			return fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
		}
	}
	detectOrder.Store(&list)
	return nil
}

func detectable(enc string) bool {
	switch enc {
	case "ASCII", "UTF8", "UTF-8":
		return true
	}
	return strings.HasPrefix(enc, "ISO-8859-")
}

// encodingList splits comma separated elements of list and upper cases
// the names.
func encodingList(list []string) []string {
	var out []string
	for _, s := range list {
		for _, enc := range strings.Split(s, ",") {
			if enc = strings.TrimSpace(enc); enc != "" {
				out = append(out, strings.ToUpper(enc))
			}
		}
	}
	return out
}

// DetectEncoding returns the first encoding of list (or DetectOrder if list
// is empty) that s is valid in. The ISO-8859 encodings accept any input.
// The search stops at the first unsupported encoding in the list.
func DetectEncoding(s string, list ...string) (string, bool) {
	if len(list) == 0 {
		list = DetectOrder()
	} else {
		list = encodingList(list)
	}
	for _, enc := range list {
		switch enc {
		case "ASCII":
			if bytealg.IsASCII(s) {
				return enc, true
			}
		case "UTF8", "UTF-8":
			if utf8.ValidString(s) {
				return enc, true
			}
		default:
			if strings.HasPrefix(enc, "ISO-8859-") {
				return enc, true
			}
			return "", false
		}
	}
	return "", false
}

// CheckEncoding reports whether s is valid in encoding enc. If enc is empty
// the internal encoding is used.
func CheckEncoding(s, enc string) bool {
	if enc == "" {
		enc = InternalEncoding()
	}
	_, ok := DetectEncoding(s, enc)
	return ok
}

// EncodingAliases returns the aliases of enc. Only UTF-8 is supported.
func EncodingAliases(enc string) ([]string, bool) {
	if transcode.IsUTF8(enc) {
		return []string{"utf8"}, true
	}
	return nil, false
}

// ListEncodings returns the encodings that are fully supported.
func ListEncodings() []string {
	return []string{"UTF-8"}
}

// ErrUnknownLanguage is returned by SetLanguage for unsupported languages.
var ErrUnknownLanguage = errors.New("mbstring: unknown language")

var language atomic.Pointer[string]

// Language returns the current language setting, "neutral" by default.
func Language() string {
	if p := language.Load(); p != nil {
		return *p
	}
	return "neutral"
}

// SetLanguage sets the language. Only "uni" and "neutral" are supported.
func SetLanguage(lang string) error {
	lang = strings.ToLower(lang)
	switch lang {
	case "uni", "neutral":
		language.Store(&lang)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
}

// SubstituteCharacter returns the character used for invalid input. Invalid
// input is always dropped so this is "none".
func SubstituteCharacter() string { return "none" }

// HTTPInput returns the detected HTTP input character encoding. Detection
// is not supported so it always returns false.
func HTTPInput() (string, bool) { return "", false }

// HTTPOutput returns the HTTP output character encoding, which is always
// "pass" (no conversion).
func HTTPOutput() string { return "pass" }

// Info holds the current settings as reported by GetInfo.
type Info struct {
	InternalEncoding        string
	HTTPOutput              string
	HTTPOutputConvMimetypes string
	FuncOverload            int
	FuncOverloadList        string
	MailCharset             string
	MailHeaderEncoding      string
	MailBodyEncoding        string
	IllegalChars            int
	EncodingTranslation     string
	Language                string
	DetectOrder             []string
	SubstituteCharacter     string
	StrictDetection         string
}

// GetInfo returns the current settings.
func GetInfo() Info {
	return Info{
		InternalEncoding:        InternalEncoding(),
		HTTPOutput:              HTTPOutput(),
		HTTPOutputConvMimetypes: `^(text/|application/xhtml\+xml)`,
		FuncOverload:            0,
		FuncOverloadList:        "no overload",
		MailCharset:             "UTF-8",
		MailHeaderEncoding:      "BASE64",
		MailBodyEncoding:        "BASE64",
		IllegalChars:            0,
		EncodingTranslation:     "Off",
		Language:                Language(),
		DetectOrder:             DetectOrder(),
		SubstituteCharacter:     SubstituteCharacter(),
		StrictDetection:         "Off",
	}
}

// Map returns the settings keyed by their PHP names (for example
// "internal_encoding").
func (i Info) Map() map[string]any {
	return map[string]any{
		"internal_encoding":          i.InternalEncoding,
		"http_output":                i.HTTPOutput,
		"http_output_conv_mimetypes": i.HTTPOutputConvMimetypes,
		"func_overload":              i.FuncOverload,
		"func_overload_list":         i.FuncOverloadList,
		"mail_charset":               i.MailCharset,
		"mail_header_encoding":       i.MailHeaderEncoding,
		"mail_body_encoding":         i.MailBodyEncoding,
		"illegal_chars":              i.IllegalChars,
		"encoding_translation":       i.EncodingTranslation,
		"language":                   i.Language,
		"detect_order":               i.DetectOrder,
		"substitute_character":       i.SubstituteCharacter,
		"strict_detection":           i.StrictDetection,
	}
}

// Lookup returns the setting named key.
func (i Info) Lookup(key string) (any, bool) {
	v, ok := i.Map()[key]
	return v, ok
}
