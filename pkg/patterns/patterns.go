// Package patterns holds the ordered, named regular-expression groups and
// the missing-value vocabulary used to classify CSV fields.
//
// A PatternSet is ordered: the first group whose patterns match a value wins,
// and the same order is used to break ties when picking a column's most likely
// type. Patterns use a Perl-compatible dialect and are always matched against
// the whole field.
package patterns

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// Reserved labels that are never produced by a pattern group.
const (
	NALabel    = "NA"
	OtherLabel = "other"
)

// Group is one named type and the patterns that identify it.
type Group struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// PatternSet is an ordered list of type groups.
type PatternSet []Group

// Default pattern groups.
var (
	Alpha = []string{`^[a-zA-Z]+$`}
	Float = []string{`^([-+]?\d*\.\d+)$`}
	Int   = []string{`^[-+]?\d+$`}
	Bool  = []string{`^(true|false|yes|no|ja|nee|y|n|j|0|1|t|f|waar|onwaar)$`}
	Date  = []string{
		`^(\d{1,2})(-|\.|/)(\d{1,2})(-|\.|/)(\d{2}|\d{4})(\s\d{1,2}:\d{1,2}:\d{1,2})?(\d{1,2}:\d{1,2})?$`,
		`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})(\s\d{1,2}:\d{1,2}:\d{1,2})?(\d{1,2}:\d{1,2})?$`,
		`^(\d{2}|\d{4})(-|\.|/)(\d{1,2})(-|\.|/)(\d{1,2})(\s\d{1,2}:\d{1,2}:\d{1,2})?(\d{1,2}:\d{1,2})?`,
	}
)

// Default returns a fresh copy of the built-in pattern set:
// alpha, float, int, bool, date.
func Default() PatternSet {
	return PatternSet{
		{Name: "alpha", Patterns: clone(Alpha)},
		{Name: "float", Patterns: clone(Float)},
		{Name: "int", Patterns: clone(Int)},
		{Name: "bool", Patterns: clone(Bool)},
		{Name: "date", Patterns: clone(Date)},
	}
}

// Names returns the type names in priority order.
func (s PatternSet) Names() []string {
	names := make([]string, len(s))
	for i, g := range s {
		names[i] = g.Name
	}
	return names
}

// Labels returns every label a classification can produce, in tie-break
// order: the type names, then NA, then other.
func (s PatternSet) Labels() []string {
	return append(s.Names(), NALabel, OtherLabel)
}

// Lookup returns the patterns registered for name.
func (s PatternSet) Lookup(name string) ([]string, bool) {
	for _, g := range s {
		if g.Name == name {
			return g.Patterns, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of s.
func (s PatternSet) Clone() PatternSet {
	if s == nil {
		return nil
	}
	out := make(PatternSet, len(s))
	for i, g := range s {
		out[i] = Group{Name: g.Name, Patterns: clone(g.Patterns)}
	}
	return out
}

// Validate checks names and pattern lists. Pattern syntax is checked by Compile.
func (s PatternSet) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, g := range s {
		switch {
		case strings.TrimSpace(g.Name) == "":
			return errors.Newf(errors.ErrorTypeConfig, "pattern group %d has an empty name", i)
		case g.Name == NALabel || g.Name == OtherLabel:
			return errors.Newf(errors.ErrorTypeConfig, "pattern group name %q is reserved", g.Name)
		case len(g.Patterns) == 0:
			return errors.Newf(errors.ErrorTypeConfig, "pattern group %q has no patterns", g.Name)
		}
		if _, dup := seen[g.Name]; dup {
			return errors.Newf(errors.ErrorTypeConfig, "pattern group %q is declared twice", g.Name)
		}
		seen[g.Name] = struct{}{}
	}
	return nil
}

// UnmarshalYAML decodes a mapping of type name to pattern list, keeping
// document order. A single string is accepted in place of a list.
func (s *PatternSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: col_type_patterns must be a mapping of type name to patterns", node.Line)
	}

	out := make(PatternSet, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var name string
		if err := key.Decode(&name); err != nil {
			return fmt.Errorf("line %d: invalid type name: %w", key.Line, err)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("line %d: type %q declared twice", key.Line, name)
		}
		seen[name] = struct{}{}

		var list []string
		switch val.Kind {
		case yaml.ScalarNode:
			list = []string{val.Value}
		case yaml.SequenceNode:
			if err := val.Decode(&list); err != nil {
				return fmt.Errorf("line %d: patterns for %q: %w", val.Line, name, err)
			}
		default:
			return fmt.Errorf("line %d: patterns for %q must be a string or a list", val.Line, name)
		}
		out = append(out, Group{Name: name, Patterns: list})
	}

	*s = out
	return nil
}

// MarshalYAML encodes s as an ordered mapping.
func (s PatternSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, g := range s {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range g.Patterns {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: p, Style: yaml.SingleQuotedStyle})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: g.Name},
			seq,
		)
	}
	return node, nil
}

// ParseAssignments builds a PatternSet from "name=regex" strings. Repeated
// names add patterns to the group created by their first occurrence.
func ParseAssignments(assignments []string) (PatternSet, error) {
	var out PatternSet
	index := make(map[string]int)
	for _, a := range assignments {
		name, pattern, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || pattern == "" {
			return nil, errors.Newf(errors.ErrorTypeConfig, "pattern %q is not of the form name=regex", a)
		}
		if i, exists := index[name]; exists {
			out[i].Patterns = append(out[i].Patterns, pattern)
			continue
		}
		index[name] = len(out)
		out = append(out, Group{Name: name, Patterns: []string{pattern}})
	}
	return out, nil
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}
