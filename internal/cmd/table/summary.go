package table

import (
	"strconv"

	"github.com/agentstation/profilemerge/pkg/reconciler"
)

var dropReasons = []reconciler.DropReason{
	reconciler.ReasonNoLDAP,
	reconciler.ReasonNoHRIS,
	reconciler.ReasonInvalidRecord,
}

// SummaryToTableData converts the counters of a merge run to a two column
// table.
func SummaryToTableData(res *reconciler.Result) Data {
	stats := res.Metadata.Stats
	byReason := res.DroppedByReason()

	rows := [][]string{
		{"Bundles", strconv.Itoa(stats.BundlesTotal)},
		{"Filtered", strconv.Itoa(stats.BundlesFiltered)},
		{"Profiles", strconv.Itoa(len(res.Profiles))},
		{"Dropped", strconv.Itoa(len(res.Dropped))},
	}
	for _, reason := range dropReasons {
		rows = append(rows, []string{"  " + string(reason), strconv.Itoa(byReason[reason])})
	}
	rows = append(rows,
		[]string{"Avatar failures", strconv.FormatInt(res.AvatarFailures, 10)},
		[]string{"Workers", strconv.Itoa(res.Metadata.Workers)},
		[]string{"Duration", res.Metadata.Duration.String()},
	)

	return Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// DropsToTableData lists the dropped bundles of a merge run.
func DropsToTableData(drops []reconciler.Drop) Data {
	rows := make([][]string, 0, len(drops))
	for _, d := range drops {
		source, reason := "-", "-"
		if d.Source != "" {
			source = d.Source.String()
		}
		if d.Err != nil {
			reason = d.Err.Error()
		}
		rows = append(rows, []string{d.Key, string(d.Reason), source, reason})
	}

	return Data{
		Headers: []string{"Key", "Reason", "Source", "Error"},
		Rows:    rows,
	}
}
