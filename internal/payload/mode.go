package payload

import (
	"flag"
	"fmt"
	"strings"
)

// Mode identifies the coding algorithm a response describes.
type Mode int

// Supported modes.
const (
	// Unknown is the zero value.
	// Decode infers the mode from the steps of the response.
	Unknown Mode = iota

	// Huffman responses hold merge steps.
	Huffman

	// Tunstall responses hold expansion steps keyed by code word.
	Tunstall

	// ShannonFano responses hold steps that split a group of symbols in two.
	ShannonFano
)

var _modeNames = map[Mode]string{
	Huffman:     "huffman",
	Tunstall:    "tunstall",
	ShannonFano: "shannon-fano",
}

var _ flag.Value = (*Mode)(nil)

func (m Mode) String() string {
	if name, ok := _modeNames[m]; ok {
		return name
	}
	if m == Unknown {
		return ""
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Set parses a mode name, ignoring case. "shannon_fano" and "shannonfano"
// are accepted for ShannonFano.
func (m *Mode) Set(name string) error {
	name = strings.ToLower(name)
	name = strings.NewReplacer("_", "-").Replace(name)
	if name == "shannonfano" {
		name = "shannon-fano"
	}

	for mode, n := range _modeNames {
		if n == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q: must be one of huffman, tunstall, shannon-fano", name)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	return m.Set(string(b))
}
