// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

package mbstring

import (
	"strings"
	"unicode/utf8"
)

// byteOffset returns the byte offset of the n'th code point of s or len(s)
// if s has n or fewer code points.
func byteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// clampOffset converts a possibly negative code point offset into s to a
// non-negative one. Negative offsets count from the end of s.
func clampOffset(s string, offset int) int {
	if offset < 0 {
		offset += utf8.RuneCountInString(s)
		if offset < 0 {
			offset = 0
		}
	}
	return offset
}

func substr(s string, start, length int) string {
	start = clampOffset(s, start)
	if length < 0 {
		length += utf8.RuneCountInString(s) - start
		if length < 0 {
			return ""
		}
	}
	i := byteOffset(s, start)
	j := i + byteOffset(s[i:], length)
	return s[i:j]
}

func strpos(haystack, needle string, offset int) int {
	if needle == "" {
		return -1
	}
	offset = clampOffset(haystack, offset)
	i := byteOffset(haystack, offset)
	j := strings.Index(haystack[i:], needle)
	if j < 0 {
		return -1
	}
	return offset + utf8.RuneCountInString(haystack[i:i+j])
}

func strrpos(haystack, needle string, offset int) int {
	if needle == "" {
		return -1
	}
	offset = clampOffset(haystack, offset)
	i := byteOffset(haystack, offset)
	j := strings.LastIndex(haystack[i:], needle)
	if j < 0 {
		return -1
	}
	return offset + utf8.RuneCountInString(haystack[i:i+j])
}

// firstRune returns the first code point of s as a string.
func firstRune(s string) string {
	_, n := utf8.DecodeRuneInString(s)
	return s[:n]
}

func fold(s string) string {
	return string(ConvertCaseBytes([]byte(s), CaseFold))
}

// Strlen returns the number of code points in s.
func (c *Codec) Strlen(s string) int {
	return utf8.RuneCountInString(c.decode(s))
}

// Substr returns at most length code points of s starting at code point
// start. A negative start counts from the end of s. A negative length
// leaves that many code points off the end of s.
func (c *Codec) Substr(s string, start, length int) string {
	return c.encode(substr(c.decode(s), start, length))
}

// SubstrFrom returns the code points of s from start to the end of s. A
// negative start counts from the end of s.
func (c *Codec) SubstrFrom(s string, start int) string {
	u := c.decode(s)
	return c.encode(u[byteOffset(u, clampOffset(u, start)):])
}

// Strpos returns the code point index of the first instance of needle in
// haystack at or after offset, or -1 if needle is not present or empty.
// A negative offset counts from the end of haystack.
func (c *Codec) Strpos(haystack, needle string, offset int) int {
	return strpos(c.decode(haystack), c.decode(needle), offset)
}

// Strrpos returns the code point index of the last instance of needle in
// haystack at or after offset, or -1 if needle is not present or empty.
func (c *Codec) Strrpos(haystack, needle string, offset int) int {
	return strrpos(c.decode(haystack), c.decode(needle), offset)
}

// Stripos is like Strpos but ignores case.
func (c *Codec) Stripos(haystack, needle string, offset int) int {
	// Folding never changes the number of code points so indexes into the
	// folded haystack are valid for the original.
	return strpos(fold(c.decode(haystack)), fold(c.decode(needle)), offset)
}

// Strripos is like Strrpos but ignores case.
func (c *Codec) Strripos(haystack, needle string, offset int) int {
	return strrpos(fold(c.decode(haystack)), fold(c.decode(needle)), offset)
}

// subpart returns the part of haystack before the code point at pos, or the
// part starting at pos.
func (c *Codec) subpart(haystack string, pos int, before bool) (string, bool) {
	if pos < 0 {
		return "", false
	}
	if before {
		return c.Substr(haystack, 0, pos), true
	}
	return c.SubstrFrom(haystack, pos), true
}

// Strstr returns the part of haystack starting with the first instance of
// needle, or the part before it if before is true. The search is byte
// oriented and does not depend on the encoding.
func (c *Codec) Strstr(haystack, needle string, before bool) (string, bool) {
	i := strings.Index(haystack, needle)
	if i < 0 {
		return "", false
	}
	if before {
		return haystack[:i], true
	}
	return haystack[i:], true
}

// Stristr is like Strstr but ignores case.
func (c *Codec) Stristr(haystack, needle string, before bool) (string, bool) {
	return c.subpart(haystack, c.Stripos(haystack, needle, 0), before)
}

// Strrchr returns the part of haystack starting with the last instance of
// the first code point of needle, or the part before it if before is true.
func (c *Codec) Strrchr(haystack, needle string, before bool) (string, bool) {
	u := c.decode(haystack)
	pos := strrpos(u, firstRune(c.decode(needle)), 0)
	return c.subpart(haystack, pos, before)
}

// Strrichr is like Strrchr but ignores case.
func (c *Codec) Strrichr(haystack, needle string, before bool) (string, bool) {
	u := fold(c.decode(haystack))
	pos := strrpos(u, fold(firstRune(c.decode(needle))), 0)
	return c.subpart(haystack, pos, before)
}

// SubstrCount returns the number of non-overlapping instances of needle in
// haystack. It returns 0 if needle is empty.
func (c *Codec) SubstrCount(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(haystack, needle)
}

// Strwidth returns the display width of s: code points U+0020 through
// U+1FFF and the halfwidth forms U+FF61 through U+FF9F have a width of 1,
// all others a width of 2. The bytes 0x00 through 0x19 are not counted.
func (c *Codec) Strwidth(s string) int {
	n, narrow := 0, 0
	for _, r := range c.decode(s) {
		if r <= 0x19 {
			continue
		}
		n++
		if 0x20 <= r && r <= 0x1FFF || 0xFF61 <= r && r <= 0xFF9F {
			narrow++
		}
	}
	return n*2 - narrow
}

// Strlen returns the number of code points in s.
func Strlen(s string) int { return Internal().Strlen(s) }

// Substr returns at most length code points of s starting at code point
// start. A negative start counts from the end of s. A negative length
// leaves that many code points off the end of s.
func Substr(s string, start, length int) string {
	return Internal().Substr(s, start, length)
}

// SubstrFrom returns the code points of s from start to the end of s.
func SubstrFrom(s string, start int) string {
	return Internal().SubstrFrom(s, start)
}

// Strpos returns the code point index of the first instance of needle in
// haystack at or after offset, or -1 if needle is not present or empty.
func Strpos(haystack, needle string, offset int) int {
	return Internal().Strpos(haystack, needle, offset)
}

// Strrpos returns the code point index of the last instance of needle in
// haystack at or after offset, or -1 if needle is not present or empty.
func Strrpos(haystack, needle string, offset int) int {
	return Internal().Strrpos(haystack, needle, offset)
}

// Stripos is like Strpos but ignores case.
func Stripos(haystack, needle string, offset int) int {
	return Internal().Stripos(haystack, needle, offset)
}

// Strripos is like Strrpos but ignores case.
func Strripos(haystack, needle string, offset int) int {
	return Internal().Strripos(haystack, needle, offset)
}

// Strstr returns the part of haystack starting with the first instance of
// needle, or the part before it if before is true.
func Strstr(haystack, needle string, before bool) (string, bool) {
	return Internal().Strstr(haystack, needle, before)
}

// Stristr is like Strstr but ignores case.
func Stristr(haystack, needle string, before bool) (string, bool) {
	return Internal().Stristr(haystack, needle, before)
}

// Strrchr returns the part of haystack starting with the last instance of
// the first code point of needle, or the part before it if before is true.
func Strrchr(haystack, needle string, before bool) (string, bool) {
	return Internal().Strrchr(haystack, needle, before)
}

// Strrichr is like Strrchr but ignores case.
func Strrichr(haystack, needle string, before bool) (string, bool) {
	return Internal().Strrichr(haystack, needle, before)
}

// SubstrCount returns the number of non-overlapping instances of needle in
// haystack.
func SubstrCount(haystack, needle string) int {
	return Internal().SubstrCount(haystack, needle)
}

// Strwidth returns the display width of s.
func Strwidth(s string) int { return Internal().Strwidth(s) }
