// Package strings holds the small string helpers shared by transports and the core
package strings

import std "strings"

// MustPrefix normalizes and asserts a route root like /moderation
// ensures a single leading slash and no trailing slash; panics on the root itself
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// SplitSlug splits "owner/name". ok is false unless both halves are non-empty
// and name holds no further separator
func SplitSlug(slug string) (owner, name string, ok bool) {
	owner, name, ok = std.Cut(slug, "/")
	if !ok || owner == "" || name == "" || std.Contains(name, "/") {
		return owner, name, false
	}
	return owner, name, true
}

// Deref returns "" for a nil pointer
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}

// Clip shortens s to at most n runes, marking the cut with an ellipsis
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
