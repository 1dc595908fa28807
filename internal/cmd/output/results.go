package output

import (
	"fmt"
	"io"

	"github.com/agentstation/profilemerge/internal/cmd/table"
	"github.com/agentstation/profilemerge/internal/matcher"
	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/provenance"
	"github.com/agentstation/profilemerge/pkg/reconciler"
)

// Summary is the serializable digest of a merge run.
type Summary struct {
	Bundles        int            `json:"bundles"`
	Filtered       int            `json:"filtered"`
	Profiles       int            `json:"profiles"`
	Dropped        map[string]int `json:"dropped"`
	AvatarFailures int64          `json:"avatar_failures"`
	Workers        int            `json:"workers"`
	DurationMs     int64          `json:"duration_ms"`
}

// NewSummary digests res.
func NewSummary(res *reconciler.Result) Summary {
	dropped := make(map[string]int)
	for reason, n := range res.DroppedByReason() {
		dropped[string(reason)] = n
	}
	return Summary{
		Bundles:        res.Metadata.Stats.BundlesTotal,
		Filtered:       res.Metadata.Stats.BundlesFiltered,
		Profiles:       len(res.Profiles),
		Dropped:        dropped,
		AvatarFailures: res.AvatarFailures,
		Workers:        res.Metadata.Workers,
		DurationMs:     res.Metadata.Stats.TotalTimeMs,
	}
}

// FormatSummary writes the run summary of res. The table format adds the
// list of dropped bundles.
func FormatSummary(w io.Writer, res *reconciler.Result, format Format) error {
	if format != FormatTable && format != "" {
		return NewFormatter(format).Format(w, NewSummary(res))
	}

	formatter := NewFormatter(FormatTable)
	if err := formatter.Format(w, table.SummaryToTableData(res)); err != nil {
		return err
	}
	if len(res.Dropped) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return formatter.Format(w, table.DropsToTableData(res.Dropped))
}

// FormatProvenance writes the provenance of one profile, restricted to the
// fields matching patterns (glob or regex, case-insensitive).
func FormatProvenance(w io.Writer, fields map[string][]provenance.Provenance, patterns []string, format Format) error {
	filter, err := matcher.Fields(patterns)
	if err != nil {
		return &errors.ValidationError{Field: "fields", Value: patterns, Message: err.Error()}
	}

	selected := make(map[string][]provenance.Provenance, len(fields))
	for field, history := range fields {
		if filter.Match(field) {
			selected[field] = history
		}
	}

	if format != FormatTable && format != "" {
		return NewFormatter(format).Format(w, selected)
	}
	return NewFormatter(FormatTable).Format(w, table.ProvenanceToTableData(selected))
}
