package reconciler

import (
	"github.com/agentstation/profilemerge/pkg/joiner"
	"github.com/agentstation/profilemerge/pkg/types"
)

// filter selects the bundles a run merges.
type filter struct {
	mozilliansOnly bool
}

// newFilter creates a new filter
func newFilter(mozilliansOnly bool) *filter {
	return &filter{mozilliansOnly: mozilliansOnly}
}

// isEnabled returns true if filtering is enabled
func (f *filter) isEnabled() bool {
	return f.mozilliansOnly
}

// keep reports whether b is merged.
func (f *filter) keep(b *joiner.Bundle) bool {
	if !f.isEnabled() {
		return true
	}
	return b.Has(types.MozilliansID)
}

// apply filters bundles, keeping their order.
func (f *filter) apply(bundles []*joiner.Bundle) []*joiner.Bundle {
	if !f.isEnabled() {
		return bundles
	}

	filtered := make([]*joiner.Bundle, 0, len(bundles))
	for _, b := range bundles {
		if f.keep(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
