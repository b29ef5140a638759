// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

// Package filter ensures that request inputs are well formed UTF-8.
//
// Valid UTF-8 input is normalized (NFC by default). Input that is not valid
// UTF-8 is assumed to be Windows-1252 and converted to UTF-8.
package filter

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/charlievieth/mbstring/internal/bytealg"
	"github.com/charlievieth/mbstring/internal/transcode"
)

// maxMemory is the amount of a multipart body stored in memory by
// Request, the rest is stored on disk.
const maxMemory = 32 << 20

// A Filter normalizes request inputs.
type Filter struct {
	// Form is the normalization form applied to valid UTF-8.
	Form norm.Form

	// LeadingCombining is prepended to values that start with a combining
	// mark (category Mn) after normalization so that the mark does not
	// combine with whatever precedes the value. No prefix is added if it
	// is empty.
	LeadingCombining string
}

// Default is the Filter used by the package level functions.
var Default = &Filter{Form: norm.NFC, LeadingCombining: "\u25cc"} // ◌

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// String returns s with CRLF and CR line endings replaced by LF. If s is
// valid UTF-8 it is normalized, otherwise it is converted from
// Windows-1252 to UTF-8.
func (f *Filter) String(s string) string {
	if strings.IndexByte(s, '\r') >= 0 {
		s = newlines.Replace(s)
	}
	if bytealg.IndexNonASCII(s) < 0 {
		return s
	}
	if !utf8.ValidString(s) {
		return string(transcode.ToUTF8([]byte(s)))
	}
	s = f.Form.String(s)
	if f.LeadingCombining != "" {
		if r, _ := utf8.DecodeRuneInString(s); unicode.Is(unicode.Mn, r) {
			s = f.LeadingCombining + s
		}
	}
	return s
}

// filterAll filters each element of a and reports if any changed.
func (f *Filter) filterAll(a []string) (changed bool) {
	for i, s := range a {
		if fs := f.String(s); fs != s {
			a[i] = fs
			changed = true
		}
	}
	return changed
}

func (f *Filter) values(v map[string][]string) (changed bool) {
	for _, a := range v {
		if f.filterAll(a) {
			changed = true
		}
	}
	return changed
}

// Values filters the values of v in place. Keys are not modified.
func (f *Filter) Values(v url.Values) {
	f.values(v)
}

// Map filters the string values of m in place, descending into nested
// maps and slices. Keys are not modified.
func (f *Filter) Map(m map[string]any) {
	for k, v := range m {
		m[k] = f.value(v)
	}
}

func (f *Filter) value(v any) any {
	switch v := v.(type) {
	case string:
		return f.String(v)
	case []string:
		f.filterAll(v)
	case []any:
		for i, e := range v {
			v[i] = f.value(e)
		}
	case map[string]any:
		f.Map(v)
	case map[string]string:
		for k, s := range v {
			v[k] = f.String(s)
		}
	case map[string][]string:
		f.values(v)
	case url.Values:
		f.values(v)
	}
	return v
}

// Request parses the query and body of r and filters the query, form,
// multipart values, uploaded file names and content types and all header
// values (including cookies). An error is returned if the body cannot be
// parsed.
func (f *Filter) Request(r *http.Request) error {
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return fmt.Errorf("filter: parsing multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return fmt.Errorf("filter: parsing form: %w", err)
	}

	if r.URL != nil {
		if q := r.URL.Query(); f.values(q) {
			r.URL.RawQuery = q.Encode()
		}
	}
	f.values(r.Form)
	f.values(r.PostForm)
	if mf := r.MultipartForm; mf != nil {
		f.values(mf.Value)
		for _, files := range mf.File {
			for _, fh := range files {
				fh.Filename = f.String(fh.Filename)
				f.values(fh.Header)
			}
		}
	}
	f.values(r.Header)
	return nil
}

// Middleware returns a handler that redirects (301) requests whose URI is
// not valid UTF-8 to the fixed URI returned by RequestURI and filters the
// inputs of all other requests before calling next. Requests with a
// malformed body are rejected with 400 Bad Request.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uri, changed := RequestURI(r.RequestURI); changed {
			http.Redirect(w, r, uri, http.StatusMovedPermanently)
			return
		}
		if err := f.Request(r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// String filters s using the Default Filter.
func String(s string) string { return Default.String(s) }

// Values filters v in place using the Default Filter.
func Values(v url.Values) { Default.Values(v) }

// Map filters m in place using the Default Filter.
func Map(m map[string]any) { Default.Map(m) }

// Request filters the inputs of r using the Default Filter.
func Request(r *http.Request) error { return Default.Request(r) }

// Middleware returns the middleware of the Default Filter.
func Middleware(next http.Handler) http.Handler { return Default.Middleware(next) }
