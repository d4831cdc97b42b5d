package codetree

import (
	"slices"
	"strconv"
	"strings"
)

// Key identifies a node by the set of alphabet symbols it covers.
// Two nodes with the same Key are the same logical node.
type Key string

// KeyFunc derives the Key for a sequence of symbols.
type KeyFunc func(symbols []string) Key

// SetKey is the default KeyFunc. It ignores the order of symbols and
// prefixes each one with its length, so no two distinct symbol sets
// produce the same key.
//
//	SetKey([]string{"BC", "A"}) // == "1:A2:BC"
func SetKey(symbols []string) Key {
	sorted := slices.Clone(symbols)
	slices.Sort(sorted)

	var b strings.Builder
	for _, s := range sorted {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return Key(b.String())
}

// JoinKey concatenates symbols in order.
//
// JoinKey is ambiguous: {"A", "BC"} and {"AB", "C"} both map to "ABC".
// Registry detects the resulting collisions and reports them as
// DuplicateKeyError.
func JoinKey(symbols []string) Key {
	return Key(strings.Join(symbols, ""))
}

// sameSymbols reports whether a and b hold the same symbols,
// ignoring order.
func sameSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
