// Package route implements the static, ordered route table walk (component
// D): literal and trailing-"*" prefix matching over a fixed table, first
// match wins. It is generic over the handler type so it has no dependency
// on the connection engine, the way docker-compose/pkg/utils.Set[T] keeps
// its container generic over the element type rather than coupling to one
// caller's type.
package route

import "strings"

// Entry is one row of the route table: a pattern plus an opaque handler and
// its two caller-defined arguments.
type Entry[H any] struct {
	Pattern string
	Handler H
	Arg1    any
	Arg2    any
}

// Table is an immutable, ordered route table.
type Table[H any] struct {
	entries []Entry[H]
}

// New builds a Table from entries, preserving order (first match wins).
func New[H any](entries []Entry[H]) *Table[H] {
	cp := make([]Entry[H], len(entries))
	copy(cp, entries)
	return &Table[H]{entries: cp}
}

// Resolve walks the table in order and returns the first entry whose
// pattern matches url, either literally or (for a trailing-"*" pattern) as
// a prefix.
func (t *Table[H]) Resolve(url string) (Entry[H], bool) {
	e, _, ok := t.ResolveFrom(url, 0)
	return e, ok
}

// ResolveFrom walks the table starting at index from, returning the first
// matching entry plus the index just past it — so a caller whose handler
// declined the request (§4.E: NOTFOUND/AUTHENTICATED returned before any
// output) can resume the scan instead of restarting from the top and
// re-trying entries it already rejected.
func (t *Table[H]) ResolveFrom(url string, from int) (Entry[H], int, bool) {
	for i := from; i < len(t.entries); i++ {
		if Matches(t.entries[i].Pattern, url) {
			return t.entries[i], i + 1, true
		}
	}
	var zero Entry[H]
	return zero, len(t.entries), false
}

// Len reports the number of entries in the table.
func (t *Table[H]) Len() int { return len(t.entries) }

// Matches reports whether url satisfies pattern: exact equality, or
// (pattern ends in "*") a prefix match on everything before the "*".
func Matches(pattern, url string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(url, pattern[:len(pattern)-1])
	}
	return pattern == url
}
