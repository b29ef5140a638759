// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charlievieth/mbstring/internal/transcode"
)

const upperhex = "0123456789ABCDEF"

// highEscapes matches runs of percent escapes of bytes >= 0x80.
var highEscapes = regexp.MustCompile(`(?i)(?:%[89A-F][0-9A-F])+`)

// RequestURI returns uri with its percent encoded bytes fixed to be valid
// UTF-8 and reports if uri was changed. URIs that decode to valid UTF-8
// are returned unchanged. Otherwise raw bytes >= 0x80 are percent encoded
// and the bytes of each run of escapes that are not valid UTF-8 are
// converted from Windows-1252.
func RequestURI(uri string) (string, bool) {
	if utf8.Valid(unescape(uri)) {
		return uri, false
	}
	fixed := highEscapes.ReplaceAllStringFunc(escapeHigh(uri), func(run string) string {
		return escape(transcode.ToUTF8(unescape(run)))
	})
	return fixed, fixed != uri
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// unescape decodes the percent escapes of s. Malformed escapes are copied
// as is.
func unescape(s string) []byte {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b = append(b, hi<<4|lo)
				i += 2
				continue
			}
		}
		b = append(b, s[i])
	}
	return b
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	case c == '-', c == '_', c == '.', c == '~':
		return false
	}
	return true
}

// escape percent encodes all bytes of b except unreserved characters.
func escape(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		if shouldEscape(c) {
			sb.WriteByte('%')
			sb.WriteByte(upperhex[c>>4])
			sb.WriteByte(upperhex[c&15])
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// escapeHigh percent encodes the bytes of s that are >= 0x80.
func escapeHigh(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= utf8.RuneSelf {
			sb.WriteByte('%')
			sb.WriteByte(upperhex[c>>4])
			sb.WriteByte(upperhex[c&15])
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
