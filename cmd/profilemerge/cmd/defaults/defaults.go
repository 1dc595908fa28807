// Package defaults implements the default command.
package defaults

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/profilemerge/pkg/save"
	"github.com/agentstation/profilemerge/pkg/schema"
)

// NewCommand creates the default command.
func NewCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "default",
		GroupID: "core",
		Short:   "Print the default profile v2",
		Long: `Print the profile every merge starts from, with the default
metadata and signature envelopes of each field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := save.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := save.Marshal(schema.NewProfile(), f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json, yaml")
	return cmd
}
