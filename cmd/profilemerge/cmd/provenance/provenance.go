// Package provenance implements the provenance command.
package provenance

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/agentstation/profilemerge/internal/appcontext"
	"github.com/agentstation/profilemerge/internal/cmd/output"
	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/provenance"
)

// NewCommand creates the provenance command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		fields []string
		format string
		report bool
	)

	cmd := &cobra.Command{
		Use:     "provenance FILE [KEY]",
		GroupID: "core",
		Short:   "Show which source set each profile field",
		Long: `Read a provenance file written by merge --provenance.

Without KEY the merged profile keys are listed. With KEY the history of
every field of that profile is shown, in merge order; the current value
is marked. --report prints which source each field came from and which
sources it overrode.`,
		Example: `  profilemerge provenance provenance.yaml
  profilemerge provenance provenance.yaml jdoe@mozilla.com
  profilemerge provenance provenance.yaml jdoe@mozilla.com --fields 'staff_information.*'
  profilemerge provenance provenance.yaml --report`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == "" {
				f = output.DetectFormat("")
			}

			m, err := load(app.Fs(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if report {
				if len(args) == 2 {
					m = only(m, args[1])
				}
				_, err := fmt.Fprint(w, provenance.GenerateReport(m).String())
				return err
			}
			if len(args) == 1 {
				return listProfiles(w, m, f)
			}

			key := args[1]
			history := m.Profile(key)
			if len(history) == 0 {
				return &errors.NotFoundError{Resource: "profile", ID: key}
			}
			return output.FormatProvenance(w, history, fields, f)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "only show fields matching these glob or regex patterns")
	cmd.Flags().StringVar(&format, "format", "", "output format: table, json, yaml (default table on a terminal)")
	cmd.Flags().BoolVar(&report, "report", false, "print the source and overrides of every field")

	return cmd
}

func load(fs afero.Fs, path string) (provenance.Map, error) {
	file, err := provenance.Load(fs, path)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, &errors.NotFoundError{Resource: "provenance file", ID: path}
	}
	return file.Provenance, nil
}

// only keeps the entries of one profile.
func only(m provenance.Map, key string) provenance.Map {
	out := make(provenance.Map)
	for field, history := range m.Profile(key) {
		out[key+":"+field] = history
	}
	return out
}

func listProfiles(w io.Writer, m provenance.Map, format output.Format) error {
	keys := m.Profiles()
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, keys)
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}
	return nil
}
