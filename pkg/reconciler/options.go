package reconciler

import (
	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/errors"
)

// options configures a reconciler.
type options struct {
	workers        int
	mozilliansOnly bool
	tracking       bool
	identityGuard  bool
}

func defaultOptions() *options {
	return &options{
		workers:       constants.MaxConcurrentMerges,
		tracking:      true,
		identityGuard: true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithWorkers sets the number of bundles merged concurrently.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "workers",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.workers = n
		return nil
	}
}

// WithMozilliansOnly keeps only bundles that carry a community profile.
func WithMozilliansOnly(enabled bool) Option {
	return func(o *options) error {
		o.mozilliansOnly = enabled
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithIdentityGuard generates a username for merged profiles left without
// one.
func WithIdentityGuard(enabled bool) Option {
	return func(o *options) error {
		o.identityGuard = enabled
		return nil
	}
}
