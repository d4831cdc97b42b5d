package log

import (
	"fmt"
	"log/slog"
)

// OmitEmpty builds an attribute using the given constructor function,
// but if the value is the zero value for its type,
// it skips the attribute.
func OmitEmpty[T comparable](fn func(string, T) slog.Attr, name string, value T) slog.Attr {
	var zero T
	if value == zero {
		return slog.Attr{} // ignore
	}
	return fn(name, value)
}

// Progress builds an attribute for a replay position as "k/N",
// counting steps from 1. A cursor of -1 is step 0.
func Progress(name string, cursor, total int) slog.Attr {
	return slog.String(name, fmt.Sprintf("%d/%d", cursor+1, total))
}
