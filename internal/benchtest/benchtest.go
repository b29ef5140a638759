// Package benchtest is used for benchmarking mbstring against the Go
// stdlib's strings package.
//
// The stdlib functions operate on bytes and do not handle encodings, so
// they are not equivalent to their mbstring counterparts. Instead they are
// a useful measure of the overhead of working in code points.
package benchtest
