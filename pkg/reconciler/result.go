package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/profilemerge/pkg/provenance"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/types"
)

// DropReason says why a bundle produced no profile.
type DropReason string

const (
	// ReasonNoLDAP marks HRIS records without a directory record.
	ReasonNoLDAP DropReason = "no_ldap"
	// ReasonNoHRIS marks directory records without an HRIS record.
	ReasonNoHRIS DropReason = "no_hris"
	// ReasonInvalidRecord marks records a stage rejected.
	ReasonInvalidRecord DropReason = "invalid_record"
)

// Drop describes a bundle that produced no profile.
type Drop struct {
	Key    string
	Reason DropReason
	Source types.SourceID // stage that failed, for ReasonInvalidRecord
	Err    error
}

// Result represents the outcome of a merge run.
type Result struct {
	// Profiles in bundle key order, with Keys[i] the bundle of Profiles[i].
	Profiles []*schema.Profile
	Keys     []string

	// Provenance of every emitted profile, keyed by bundle key.
	Provenance provenance.Map

	Dropped        []Drop
	AvatarFailures int64

	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the merge run.
type ResultMetadata struct {
	StartTime utc.Time
	EndTime   utc.Time
	Duration  time.Duration

	Workers        int
	MozilliansOnly bool

	Stats ResultStatistics
}

// ResultStatistics contains statistics about the merge run.
type ResultStatistics struct {
	BundlesTotal    int
	BundlesFiltered int
	BundlesSkipped  int
	ProfilesEmitted int
	RecordsDropped  int
	TotalTimeMs     int64
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		Profiles:   []*schema.Profile{},
		Keys:       []string{},
		Provenance: make(provenance.Map),
		Dropped:    []Drop{},
		Metadata: ResultMetadata{
			StartTime: utc.Now(),
		},
	}
}

// DroppedCount returns the number of dropped bundles.
func (r *Result) DroppedCount() int {
	return len(r.Dropped)
}

// DroppedByReason counts dropped bundles per reason.
func (r *Result) DroppedByReason() map[DropReason]int {
	counts := make(map[DropReason]int)
	for _, d := range r.Dropped {
		counts[d.Reason]++
	}
	return counts
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Merged %d profiles from %d bundles (%d dropped, %d avatar failures) in %s",
		len(r.Profiles), r.Metadata.Stats.BundlesTotal, len(r.Dropped), r.AvatarFailures, r.Metadata.Duration)
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
	r.Metadata.Stats.ProfilesEmitted = len(r.Profiles)
	r.Metadata.Stats.RecordsDropped = len(r.Dropped)
}
