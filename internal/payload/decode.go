// Package payload decodes responses from the coding service into event logs
// for codetree, and validates the alphabets submitted to it.
//
// Responses are JSON documents. They're decoded as YAML, a superset of JSON,
// so hand-written fixtures may use either.
package payload

import (
	"errors"
	"fmt"
	"io"

	"github.com/abhinav/codereplay/internal/codetree"
	"gopkg.in/yaml.v3"
)

// Metrics are scalar results computed by the coding service.
// They are passed through untouched. Nil fields were absent.
type Metrics struct {
	Entropy       *float64
	AverageLength *float64
	Efficiency    *float64
}

// Response is a decoded response from the coding service.
type Response struct {
	Mode Mode

	// Events to replay, one per step of the algorithm.
	Events []codetree.Event

	// Encoding maps each source symbol to its final code word.
	Encoding map[string]string

	Metrics Metrics

	// Input echoed back by the service, if any.
	Input *Input
}

type rawResponse struct {
	Mode          string            `yaml:"mode"`
	Steps         []rawStep         `yaml:"steps"`
	Encoding      map[string]string `yaml:"encoding"`
	Entropy       *float64          `yaml:"entropy"`
	AverageLength *float64          `yaml:"average_length"`
	Efficiency    *float64          `yaml:"efficiency"`
	Input         *Input            `yaml:"input"`

	// Results of the service's other modes. They carry no steps.
	CInfinity *yaml.Node `yaml:"c_infinity"` // sardinas-patterson
	HMatrix   *yaml.Node `yaml:"H_matrix"`   // linear codes
}

// tableKind names the service mode that produced a response without a
// tree to replay, if any.
func (r *rawResponse) tableKind() string {
	if len(r.Steps) > 0 {
		return ""
	}
	switch {
	case r.CInfinity != nil:
		return "sardinas-patterson"
	case r.HMatrix != nil:
		return "linear code"
	default:
		return ""
	}
}

type rawStep struct {
	// Huffman
	Merged  []rawGroup `yaml:"merged"`
	NewNode *rawGroup  `yaml:"new_node"`

	// Tunstall
	Expanded symbolList `yaml:"expanded"`
	NewNodes []rawCode  `yaml:"new_nodes"`

	// Shannon-Fano
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
}

func (s *rawStep) mode() Mode {
	switch {
	case len(s.Merged) > 0 || s.NewNode != nil:
		return Huffman
	case len(s.Expanded) > 0 || len(s.NewNodes) > 0:
		return Tunstall
	case len(s.Left) > 0 || len(s.Right) > 0:
		return ShannonFano
	default:
		return Unknown
	}
}

// rawGroup is a group of symbols with their combined probability.
// It's written either as a mapping,
//
//	{symbols: [B, C], probability: 0.6}
//
// or as a pair.
//
//	[[B, C], 0.6]
type rawGroup struct {
	Symbols     symbolList `yaml:"symbols"`
	Probability float64    `yaml:"probability"`
}

func (g *rawGroup) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		type plain rawGroup
		return n.Decode((*plain)(g))
	}

	if len(n.Content) != 2 {
		return fmt.Errorf("line %d: expected [symbols, probability], got %d items",
			n.Line, len(n.Content))
	}
	var syms symbolList
	if err := n.Content[0].Decode(&syms); err != nil {
		return err
	}
	if err := n.Content[1].Decode(&g.Probability); err != nil {
		return err
	}
	g.Symbols = syms
	return nil
}

// symbolList is a list of symbols written either as a sequence or as a
// single string.
type symbolList []string

func (l *symbolList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*l = symbolList{n.Value}
		return nil
	}
	return n.Decode((*[]string)(l))
}

type rawCode struct {
	Symbol      string  `yaml:"symbol"`
	Probability float64 `yaml:"probability"`
	Code        string  `yaml:"code"`
}

// Decode reads a response from r.
//
// If mode is Unknown, the response's own "mode" field is used, and failing
// that, the mode is inferred from the shape of the first step.
// If the response echoes its input, the input is validated.
func Decode(r io.Reader, mode Mode) (*Response, error) {
	var raw rawResponse
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response")
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if kind := raw.tableKind(); len(kind) > 0 {
		return nil, fmt.Errorf("%v results have no steps to replay", kind)
	}

	if mode == Unknown && len(raw.Mode) > 0 {
		if err := mode.Set(raw.Mode); err != nil {
			return nil, err
		}
	}
	if mode == Unknown && len(raw.Steps) > 0 {
		mode = raw.Steps[0].mode()
		if mode == Unknown {
			return nil, errors.New("step 0: can't tell which algorithm produced it")
		}
	}

	resp := Response{
		Mode:     mode,
		Encoding: raw.Encoding,
		Metrics: Metrics{
			Entropy:       raw.Entropy,
			AverageLength: raw.AverageLength,
			Efficiency:    raw.Efficiency,
		},
		Input: raw.Input,
	}

	if in := raw.Input; in != nil {
		if err := in.Validate(mode); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
	}

	events, err := convert(mode, raw.Steps, raw.Input)
	if err != nil {
		return nil, err
	}
	resp.Events = events
	return &resp, nil
}

func convert(mode Mode, steps []rawStep, in *Input) ([]codetree.Event, error) {
	var probs map[string]float64
	if in != nil {
		probs = in.probabilityOf()
	}

	events := make([]codetree.Event, 0, len(steps))
	for i, step := range steps {
		if m := step.mode(); m != mode {
			return nil, fmt.Errorf("step %d: expected a %v step, got %v", i, mode, describe(m))
		}

		var ev codetree.Event
		switch mode {
		case Huffman:
			ev = mergeEvent(&step)
		case Tunstall:
			ev = tunstallEvent(&step)
		case ShannonFano:
			ev = splitEvent(&step, probs)
		default:
			return nil, fmt.Errorf("unsupported mode %v", mode)
		}

		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func describe(m Mode) string {
	if m == Unknown {
		return "an empty step"
	}
	return "a " + m.String() + " step"
}

func mergeEvent(step *rawStep) *codetree.MergeEvent {
	var ev codetree.MergeEvent
	for _, g := range step.Merged {
		ev.Sources = append(ev.Sources, codetree.Source{
			Symbols: g.Symbols,
			Weight:  g.Probability,
		})
		ev.Weight += g.Probability
	}
	if step.NewNode != nil {
		ev.Weight = step.NewNode.Probability
	}
	return &ev
}

func tunstallEvent(step *rawStep) *codetree.ExpandEvent {
	ev := codetree.ExpandEvent{Parent: tunstallParent(step)}
	for _, c := range step.NewNodes {
		ev.Children = append(ev.Children, codetree.Source{
			Symbols: []string{c.Code},
			Label:   c.Code,
			Weight:  c.Probability,
		})
	}
	return &ev
}

// tunstallParent names the node a Tunstall step expands.
//
// A child's code word is its parent's followed by one digit, so the parent
// is the longest prefix the children share. The root has the empty code
// word and goes by its symbols instead. "expanded" is only trusted when the
// code words can't tell.
func tunstallParent(step *rawStep) []string {
	if len(step.NewNodes) == 0 {
		return step.Expanded
	}

	prefix := step.NewNodes[0].Code
	if len(prefix) == 0 {
		return step.Expanded
	}
	if len(step.NewNodes) == 1 {
		prefix = prefix[:len(prefix)-1]
	}
	for _, c := range step.NewNodes[1:] {
		if len(c.Code) == 0 {
			return step.Expanded
		}
		prefix = commonPrefix(prefix, c.Code)
	}
	if len(prefix) > 0 {
		return []string{prefix}
	}

	if len(step.Expanded) > 0 {
		return step.Expanded
	}
	symbols := make([]string, len(step.NewNodes))
	for i, c := range step.NewNodes {
		symbols[i] = c.Symbol
	}
	return symbols
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// splitEvent turns a Shannon-Fano split into the expansion of the group
// being split. Group weights come from the input probabilities, if known.
func splitEvent(step *rawStep, probs map[string]float64) *codetree.ExpandEvent {
	group := func(symbols []string) codetree.Source {
		var w float64
		for _, s := range symbols {
			w += probs[s]
		}
		return codetree.Source{Symbols: symbols, Weight: w}
	}

	var ev codetree.ExpandEvent
	ev.Parent = append(ev.Parent, step.Left...)
	ev.Parent = append(ev.Parent, step.Right...)
	for _, side := range [][]string{step.Left, step.Right} {
		if len(side) > 0 {
			ev.Children = append(ev.Children, group(side))
		}
	}
	return &ev
}
