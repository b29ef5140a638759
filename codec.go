// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

package mbstring

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/text/encoding"

	"github.com/charlievieth/mbstring/internal/transcode"
)

// ErrUnknownEncoding is returned for encoding names that are not supported.
var ErrUnknownEncoding = errors.New("mbstring: unknown encoding")

// A Codec performs the operations of this package on strings in a specific
// character encoding. Its methods convert their input to UTF-8, dropping
// invalid sequences, and convert results back to the Codec's encoding.
// A Codec is safe for concurrent use.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

var utf8Codec = &Codec{name: "UTF-8"}

// NewCodec returns a Codec for the encoding named name. Names are IANA,
// MIME or WHATWG charset labels and are case-insensitive.
func NewCodec(name string) (*Codec, error) {
	enc, canonical, err := transcode.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if enc == nil {
		return utf8Codec, nil
	}
	return &Codec{name: canonical, enc: enc}, nil
}

// Name returns the canonical name of the Codec's encoding.
func (c *Codec) Name() string { return c.name }

// IsUTF8 reports whether the Codec's encoding is UTF-8.
func (c *Codec) IsUTF8() bool { return c.enc == nil }

// decode converts s to UTF-8.
func (c *Codec) decode(s string) string {
	if c.enc == nil {
		return strings.ToValidUTF8(s, "")
	}
	return string(transcode.Decode(c.enc, []byte(s)))
}

// encode converts the UTF-8 encoded s to the Codec's encoding.
func (c *Codec) encode(s string) string {
	if c.enc == nil {
		return s
	}
	return string(transcode.Encode(c.enc, []byte(s)))
}

// ConvertCase returns s with its case converted according to mode.
func (c *Codec) ConvertCase(s string, mode Mode) string {
	if s == "" {
		return ""
	}
	if c.enc == nil {
		return string(ConvertCaseBytes([]byte(s), mode))
	}
	b := ConvertCaseBytes(transcode.Decode(c.enc, []byte(s)), mode)
	return string(transcode.Encode(c.enc, b))
}

var internalCodec atomic.Pointer[Codec]

// Internal returns the Codec of the internal encoding.
func Internal() *Codec {
	if c := internalCodec.Load(); c != nil {
		return c
	}
	return utf8Codec
}

// InternalEncoding returns the name of the internal encoding.
func InternalEncoding() string { return Internal().Name() }

// SetInternalEncoding sets the internal encoding used by the package level
// functions. The internal encoding is not changed if an error is returned.
func SetInternalEncoding(name string) error {
	c, err := NewCodec(name)
	if err != nil {
		return err
	}
	internalCodec.Store(c)
	return nil
}
