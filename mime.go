// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

package mbstring

import (
	"fmt"
	"io"
	"mime"
	"regexp"
	"strings"

	"golang.org/x/text/transform"

	"github.com/charlievieth/mbstring/internal/transcode"
)

// foldingWhitespace matches a header line break followed by the whitespace
// that continues the header on the next line.
var foldingWhitespace = regexp.MustCompile(`\r?\n[ \t]+`)

// encodedWord matches an RFC 2047 encoded-word.
var encodedWord = regexp.MustCompile(`=\?[^?\s]+\?[bBqQ]\?[^?\s]*\?=`)

// encodedWords matches a run of encoded-words separated by whitespace.
var encodedWords = regexp.MustCompile(encodedWord.String() + `(?:\s+` + encodedWord.String() + `)*`)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
		enc, _, err := transcode.Lookup(charset)
		if err != nil {
			return nil, err
		}
		if enc == nil {
			return input, nil
		}
		return transform.NewReader(input, enc.NewDecoder()), nil
	},
}

// DecodeMimeheader decodes the RFC 2047 encoded-words of the MIME header
// value s and returns the result in the internal encoding. Folded lines are
// unfolded first. Encoded-words that cannot be decoded are left as is.
func DecodeMimeheader(s string) string {
	s = foldingWhitespace.ReplaceAllString(s, " ")
	dec, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		// DecodeHeader stops at the first bad word, decode the rest one by
		// one.
		dec = encodedWords.ReplaceAllStringFunc(s, decodeWords)
	}
	return Internal().encode(strings.ToValidUTF8(dec, ""))
}

// decodeWords decodes a run of whitespace separated encoded-words. The
// whitespace between two decoded words is dropped, words that cannot be
// decoded are kept along with the whitespace around them.
func decodeWords(run string) string {
	var sb strings.Builder
	prev, prevOK := 0, false
	for _, loc := range encodedWord.FindAllStringIndex(run, -1) {
		word := run[loc[0]:loc[1]]
		w, err := wordDecoder.Decode(word)
		ok := err == nil
		if !ok {
			w = word
		}
		if loc[0] > prev && !(prevOK && ok) {
			sb.WriteString(run[prev:loc[0]])
		}
		sb.WriteString(w)
		prev, prevOK = loc[1], ok
	}
	return sb.String()
}

// EncodeMimeheader encodes s, which is in the internal encoding, as a
// MIME header value using the B encoding of RFC 2047. The text is
// converted to charset first, an empty charset means UTF-8. Strings that
// only contain printable ASCII are returned unchanged.
func EncodeMimeheader(s, charset string) (string, error) {
	if charset == "" {
		charset = "UTF-8"
	}
	enc, name, err := transcode.Lookup(charset)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, charset)
	}
	b := transcode.Encode(enc, []byte(Internal().decode(s)))
	return mime.BEncoding.Encode(name, string(b)), nil
}
