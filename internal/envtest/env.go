// Package envtest provides a fake process environment for tests
// of code that takes os.Getenv or os.Environ as a dependency.
package envtest

import (
	"fmt"
	"maps"
	"slices"
)

// Empty is an environment with no variables.
var Empty = &Env{}

// Env is a fake environment.
type Env struct {
	items map[string]string
}

// Pairs builds a fake environment from alternating names and values.
// It fails if there's an odd number of items.
func Pairs(pairs ...string) (*Env, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%d items in environment are not even", len(pairs))
	}

	m := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return &Env{m}, nil
}

// MustPairs is like Pairs, but it panics on failure.
func MustPairs(pairs ...string) *Env {
	e, err := Pairs(pairs...)
	if err != nil {
		panic(err)
	}
	return e
}

// Getenv stands in for os.Getenv.
func (e *Env) Getenv(k string) string {
	if e == nil {
		return ""
	}
	return e.items[k]
}

// Environ stands in for os.Environ.
// Variables are sorted by name.
func (e *Env) Environ() []string {
	if e == nil {
		return nil
	}

	env := make([]string, 0, len(e.items))
	for _, k := range slices.Sorted(maps.Keys(e.items)) {
		env = append(env, k+"="+e.items[k])
	}
	return env
}
