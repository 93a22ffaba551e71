package classify

import "time"

type options struct {
	matchTimeout time.Duration
}

// Option configures a Classifier.
type Option func(*options)

// WithMatchTimeout bounds every single pattern match attempt.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.matchTimeout = d
	}
}
