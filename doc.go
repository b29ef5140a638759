// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

// Package mbstring is a partial implementation of PHP's mbstring API for
// Go: length, substring, search, case conversion and encoding conversion
// of strings that are not necessarily UTF-8.
//
// Positions and lengths are measured in code points of the string's
// encoding. Functions without a [Codec] receiver operate on the internal
// encoding (see [SetInternalEncoding]) which defaults to UTF-8.
//
// Case conversion is table driven and uses simple (one to one) Unicode case
// mappings. Converting a code point never changes the number of code points
// in a string, but may change its encoded length.
//
// Invalid input is never an error: invalid byte sequences are ignored by the
// length, substring and search functions and dropped when converting between
// encodings. The exception is [ConvertCaseBytes] which requires valid UTF-8
// and produces unspecified output otherwise.
package mbstring

// BUG(cvieth): There is no support for full case mappings (such as 'ß' to
// "SS"), locale specific mappings or context sensitive mappings (such as the
// Greek final sigma).
