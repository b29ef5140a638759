// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

// Package transcode converts byte buffers between named character
// encodings. Conversions never fail on bad input: invalid or
// unrepresentable characters are dropped.
package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknown is returned for charset names that are not recognized or not
// supported.
var ErrUnknown = errors.New("transcode: unknown charset")

const replacementChar = "\uFFFD"

// IsUTF8 reports whether name is a label for UTF-8.
func IsUTF8(name string) bool {
	return strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8")
}

// Lookup returns the encoding for the charset label name and its canonical
// name. The UTF-8 encoding is returned as a nil encoding.Encoding.
func Lookup(name string) (encoding.Encoding, string, error) {
	name = strings.TrimSpace(name)
	if IsUTF8(name) {
		return nil, "UTF-8", nil
	}
	if name == "" {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	for _, index := range []*ianaindex.Index{ianaindex.IANA, ianaindex.MIME} {
		enc, err := index.Encoding(name)
		if err != nil || enc == nil {
			continue // unknown or known but unsupported
		}
		return canonical(enc, name)
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return canonical(enc, name)
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknown, name)
}

// canonical prefers the preferred MIME name of enc (ISO-8859-1 rather than
// ISO_8859-1:1987).
func canonical(enc encoding.Encoding, label string) (encoding.Encoding, string, error) {
	if enc == unicode.UTF8 {
		return nil, "UTF-8", nil
	}
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if name, err := index.Name(enc); err == nil && name != "" {
			return enc, name, nil
		}
	}
	return enc, strings.ToUpper(label), nil
}

// Decode converts b from enc to UTF-8 dropping invalid input. A nil enc is
// UTF-8 and only has invalid sequences removed.
func Decode(enc encoding.Encoding, b []byte) []byte {
	if enc == nil {
		return bytes.ToValidUTF8(b, nil)
	}
	// Decoders replace invalid input so an error is only possible for
	// input truncated in the middle of a sequence. Keep what was decoded.
	out, _, _ := transform.Bytes(enc.NewDecoder(), b)
	out = bytes.ToValidUTF8(out, nil)
	if !encodesReplacement(enc) {
		// Any U+FFFD was produced by the decoder for invalid input.
		out = bytes.ReplaceAll(out, []byte(replacementChar), nil)
	}
	return out
}

// Encode converts the UTF-8 encoded b to enc dropping invalid UTF-8 and
// runes that enc cannot represent. A nil enc is UTF-8.
func Encode(enc encoding.Encoding, b []byte) []byte {
	b = bytes.ToValidUTF8(b, nil)
	if enc == nil {
		return b
	}
	if out, _, err := transform.Bytes(enc.NewEncoder(), b); err == nil {
		return out
	}
	// Encode rune by rune so that unsupported runes can be skipped. This
	// does not preserve shift state for stateful encodings.
	e := enc.NewEncoder()
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		_, n := utf8.DecodeRune(b[i:])
		if p, err := e.Bytes(b[i : i+n]); err == nil {
			out = append(out, p...)
		}
		i += n
	}
	return out
}

// replacement caches whether an encoding can represent U+FFFD.
var replacement sync.Map // encoding.Encoding => bool

func encodesReplacement(enc encoding.Encoding) bool {
	if v, ok := replacement.Load(enc); ok {
		return v.(bool)
	}
	ok := representable(enc, replacementChar)
	replacement.Store(enc, ok)
	return ok
}

func representable(enc encoding.Encoding, s string) bool {
	_, err := enc.NewEncoder().String(s)
	return err == nil
}

// Transcode converts b from charset from to charset to, dropping invalid
// and unrepresentable characters.
func Transcode(b []byte, from, to string) ([]byte, error) {
	src, _, err := Lookup(from)
	if err != nil {
		return nil, err
	}
	dst, _, err := Lookup(to)
	if err != nil {
		return nil, err
	}
	return Encode(dst, Decode(src, b)), nil
}

// ToUTF8 returns b with valid UTF-8 sequences kept and every other byte
// interpreted as Windows-1252.
func ToUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	out := make([]byte, 0, len(b)+len(b)/2)
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			out = append(out, b[i])
			i++
			continue
		}
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n == 1 {
			r = charmap.Windows1252.DecodeByte(b[i])
		}
		out = utf8.AppendRune(out, r)
		i += n
	}
	return out
}
