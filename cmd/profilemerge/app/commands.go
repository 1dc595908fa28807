package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/profilemerge/cmd/profilemerge/cmd/defaults"
	"github.com/agentstation/profilemerge/cmd/profilemerge/cmd/merge"
	"github.com/agentstation/profilemerge/cmd/profilemerge/cmd/provenance"
	"github.com/agentstation/profilemerge/internal/cmd/output"
)

// CreateMergeCommand creates the merge command with app dependencies.
func (a *App) CreateMergeCommand() *cobra.Command {
	return merge.NewCommand(a)
}

// CreateDefaultCommand creates the default command.
func (a *App) CreateDefaultCommand() *cobra.Command {
	return defaults.NewCommand()
}

// CreateProvenanceCommand creates the provenance command with app dependencies.
func (a *App) CreateProvenanceCommand() *cobra.Command {
	return provenance.NewCommand(a)
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	BuiltBy   string `json:"built_by"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// VersionInfo returns the build information of the app.
func (a *App) VersionInfo() VersionInfo {
	return VersionInfo{
		Version:   a.version,
		Commit:    a.commit,
		Date:      a.date,
		BuiltBy:   a.builtBy,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				cmd.Printf("profilemerge %s\n", a.version)
				if a.config.Verbose {
					cmd.Printf("  commit:   %s\n", a.commit)
					cmd.Printf("  built:    %s\n", a.date)
					cmd.Printf("  built by: %s\n", a.builtBy)
				}
				return nil
			}

			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return output.NewFormatter(f).Format(cmd.OutOrStdout(), a.VersionInfo())
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: table, json, yaml")
	return cmd
}
