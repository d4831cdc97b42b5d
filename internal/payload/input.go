package payload

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// _probabilityTolerance is how far from 1 the sum of probabilities may be.
const _probabilityTolerance = 1e-6

// Input is the source alphabet submitted to the coding service.
// Responses may echo it back.
type Input struct {
	Symbols       []string  `yaml:"symbols"`
	Probabilities []float64 `yaml:"probabilities"`

	// N is the size of the code alphabet. Zero means binary.
	N int `yaml:"n"`

	// Length is the code word length for Tunstall.
	Length int `yaml:"length"`
}

// Validate reports every problem with the input, combined into one error.
//
// Symbols must be non-empty and unique, probabilities must lie in (0, 1)
// and sum to 1. N, if set, must be at least 2. For Tunstall, Length must be
// at least 1 and N^Length must cover every symbol.
func (in *Input) Validate(mode Mode) (err error) {
	if len(in.Symbols) == 0 {
		err = multierr.Append(err, errors.New("no symbols"))
	}
	if len(in.Symbols) != len(in.Probabilities) {
		err = multierr.Append(err, fmt.Errorf(
			"%d symbols but %d probabilities", len(in.Symbols), len(in.Probabilities)))
	}

	seen := make(map[string]struct{}, len(in.Symbols))
	for i, s := range in.Symbols {
		if len(s) == 0 {
			err = multierr.Append(err, fmt.Errorf("symbol %d is empty", i))
			continue
		}
		if _, dup := seen[s]; dup {
			err = multierr.Append(err, fmt.Errorf("symbol %q is listed more than once", s))
		}
		seen[s] = struct{}{}
	}

	var total float64
	for i, p := range in.Probabilities {
		if math.IsNaN(p) || p <= 0 || p >= 1 {
			err = multierr.Append(err, fmt.Errorf("probability %d (%v) must be in (0, 1)", i, p))
		}
		total += p
	}
	if len(in.Probabilities) > 0 && math.Abs(total-1) > _probabilityTolerance {
		err = multierr.Append(err, fmt.Errorf("probabilities sum to %.6f, not 1", total))
	}

	n := in.arity()
	if n < 2 {
		err = multierr.Append(err, fmt.Errorf("n (%d) must be at least 2", n))
	}

	if mode == Tunstall {
		if in.Length < 1 {
			err = multierr.Append(err, fmt.Errorf("length (%d) must be at least 1", in.Length))
		} else if n >= 2 && !covers(n, in.Length, len(in.Symbols)) {
			err = multierr.Append(err, fmt.Errorf(
				"%d^%d code words can't cover %d symbols", n, in.Length, len(in.Symbols)))
		}
	}

	return err
}

func (in *Input) arity() int {
	if in.N == 0 {
		return 2
	}
	return in.N
}

// covers reports whether n^length >= count without overflowing.
func covers(n, length, count int) bool {
	words := 1
	for i := 0; i < length; i++ {
		words *= n
		if words >= count {
			return true
		}
	}
	return words >= count
}

// probabilityOf returns the probability of each symbol, by symbol.
func (in *Input) probabilityOf() map[string]float64 {
	m := make(map[string]float64, len(in.Symbols))
	for i, s := range in.Symbols {
		if i < len(in.Probabilities) {
			m[s] = in.Probabilities[i]
		}
	}
	return m
}
