package reconciler

import (
	"maps"
)

// collector holds one outcome slot per bundle. Workers write distinct
// slots; the result is read only after every worker is done.
type collector struct {
	outcomes []outcome
}

// newCollector creates a collector for n bundles.
func newCollector(n int) *collector {
	return &collector{outcomes: make([]outcome, n)}
}

// set stores the outcome of bundle i.
func (c *collector) set(i int, o outcome) {
	c.outcomes[i] = o
}

// collect appends the outcomes to res in bundle order.
func (c *collector) collect(res *Result) {
	for _, o := range c.outcomes {
		switch {
		case o.skipped:
			res.Metadata.Stats.BundlesSkipped++
		case o.drop != nil:
			res.Dropped = append(res.Dropped, *o.drop)
		case o.profile != nil:
			res.Profiles = append(res.Profiles, o.profile)
			res.Keys = append(res.Keys, o.key)
			maps.Copy(res.Provenance, o.provenance)
		}
	}
}
