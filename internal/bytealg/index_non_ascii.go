// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

// Package bytealg contains byte scanning helpers shared by mbstring and
// its sub-packages.
package bytealg

import "unicode/utf8"

// IndexNonASCII returns the index of the first byte of s that is not ASCII,
// or -1 if s is entirely ASCII.
func IndexNonASCII(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i]&utf8.RuneSelf != 0 {
			return i
		}
	}
	return -1
}

// IndexByteNonASCII returns the index of the first byte of b that is not
// ASCII, or -1 if b is entirely ASCII.
func IndexByteNonASCII(b []byte) int {
	for i := 0; i < len(b); i++ {
		if b[i]&utf8.RuneSelf != 0 {
			return i
		}
	}
	return -1
}

// IsASCII reports whether s contains only ASCII bytes.
func IsASCII(s string) bool { return IndexNonASCII(s) == -1 }
