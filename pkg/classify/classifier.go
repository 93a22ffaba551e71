// Package classify maps a single field value to a type label.
package classify

import (
	"github.com/ajitpratap0/csvtype/pkg/patterns"
)

// Classifier labels values using a missing-value vocabulary and a compiled
// pattern set. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	na      patterns.NAVocabulary
	matcher *patterns.Matcher
	labels  []string
}

// New compiles set and returns a Classifier.
func New(set patterns.PatternSet, naValues []string, opts ...Option) (*Classifier, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := patterns.Compile(set, o.matchTimeout)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		na:      patterns.NewNAVocabulary(naValues),
		matcher: m,
		labels:  set.Labels(),
	}, nil
}

// Classify returns NA for missing-value markers, otherwise the first type
// whose patterns match, otherwise other.
func (c *Classifier) Classify(value string) (string, error) {
	if c.na.Contains(value) {
		return patterns.NALabel, nil
	}
	name, ok, err := c.matcher.Match(value)
	if err != nil {
		return "", err
	}
	if ok {
		return name, nil
	}
	return patterns.OtherLabel, nil
}

// Labels returns the label universe in tie-break order.
func (c *Classifier) Labels() []string {
	return append([]string(nil), c.labels...)
}
