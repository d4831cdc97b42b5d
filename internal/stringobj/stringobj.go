// Package stringobj aids in writing String methods for objects
// with a compact, struct-like output.
//
//	merge{sources: [B C], weight: 0.6}
package stringobj

import (
	"fmt"
	"reflect"
	"strings"
)

// Builder helps build String functions for objects that skip zero-value
// attributes. Attributes are printed in the order they were added.
type Builder struct {
	// Name printed before the opening brace. Optional.
	Name string

	attrs []string
}

// Put adds the given attribute-value pair to the builder, skipping it if the
// value is a zero value.
func (b *Builder) Put(name string, value any) {
	if value == nil {
		return
	}
	if v := reflect.ValueOf(value); v.IsZero() {
		return
	}
	b.attrs = append(b.attrs, fmt.Sprintf("%s: %v", name, value))
}

// String returns the final string representation.
func (b *Builder) String() string {
	var out strings.Builder
	out.WriteString(b.Name)
	out.WriteRune('{')
	for i, attr := range b.attrs {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(attr)
	}
	out.WriteRune('}')
	return out.String()
}
