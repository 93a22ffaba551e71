package patterns

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// Matcher is a compiled PatternSet. It is safe for concurrent use.
type Matcher struct {
	names  []string
	groups [][]*regexp2.Regexp
}

// Compile validates s and compiles every pattern anchored to the whole value.
// A positive timeout bounds each individual match attempt.
//
// Patterns are compiled in RE2 mode, so \d, \w and \s only match ASCII as in
// Perl and PCRE byte matching. Backreferences and lookaround keep working.
func Compile(s PatternSet, timeout time.Duration) (*Matcher, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		names:  s.Names(),
		groups: make([][]*regexp2.Regexp, len(s)),
	}
	for i, g := range s {
		compiled := make([]*regexp2.Regexp, 0, len(g.Patterns))
		for _, p := range g.Patterns {
			re, err := regexp2.Compile(`\A(?:`+p+`)\z`, regexp2.RE2)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypePattern, "failed to compile pattern").
					WithDetail("type", g.Name).
					WithDetail("pattern", p)
			}
			if timeout > 0 {
				re.MatchTimeout = timeout
			}
			compiled = append(compiled, re)
		}
		m.groups[i] = compiled
	}
	return m, nil
}

// Names returns the type names in priority order.
func (m *Matcher) Names() []string {
	return append([]string(nil), m.names...)
}

// Match returns the first type whose patterns match value in full.
// The error is non-nil only when a match attempt exceeded its timeout.
func (m *Matcher) Match(value string) (string, bool, error) {
	for i, group := range m.groups {
		for _, re := range group {
			ok, err := re.MatchString(value)
			if err != nil {
				return "", false, errors.Wrap(err, errors.ErrorTypePattern, "pattern match failed").
					WithDetail("type", m.names[i]).
					WithDetail("value", value)
			}
			if ok {
				return m.names[i], true, nil
			}
		}
	}
	return "", false, nil
}
