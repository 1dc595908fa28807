// Package merge implements the merge command.
package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/profilemerge/internal/appcontext"
)

// NewCommand creates the merge command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	defaults := app.MergeDefaults()
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge source exports into profile v2",
		Long: `Merge joins the HRIS, LDAP and Mozillians exports by identity and
writes one profile v2 document per person.

Staff profiles need both an HRIS and an LDAP record; community profiles
need a Mozillians record. Records that cannot be merged are logged and
dropped. Avatars are normalized when --avatars_out is given.`,
		Example: `  profilemerge merge -w hris.json -l ldap.json -m mozillians.json -o profiles.json
  profilemerge merge -w hris.json -l ldap.json -s 500 -o chunks/
  profilemerge merge -m mozillians.json --monly -a avatars/ --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.resolve(cmd, app.MergeDefaults())
			return Run(cmd.Context(), app, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.HRIS, "hris", "w", "", "hris/workday data")
	flags.StringVarP(&opts.LDAP, "ldap", "l", "", "ldap data")
	flags.StringVarP(&opts.Mozillians, "mozillians", "m", "", "mozillians data")
	flags.StringVarP(&opts.Out, "out", "o", "", "output file, or output directory with --split (default stdout)")
	flags.BoolVar(&opts.MozilliansOnly, "monly", false, "only merge people with mozillians data")
	flags.StringVarP(&opts.AvatarsIn, "avatars_in", "i", defaults.AvatarsIn, "input dir for ldap avatars")
	flags.StringVarP(&opts.AvatarsOut, "avatars_out", "a", defaults.AvatarsOut, "output dir for avatars")
	flags.IntVarP(&opts.Split, "split", "s", 0, "split output in chunks of s")
	flags.StringVar(&opts.Entropy, "entropy", defaults.Entropy, "entropy for generated usernames")
	flags.IntVar(&opts.Workers, "workers", defaults.Workers, "number of profiles merged concurrently")
	flags.StringVar(&opts.Format, "format", defaults.Format, "output format: json, yaml")
	flags.BoolVar(&opts.Summary, "summary", false, "print a summary of the run to stderr")
	flags.StringVar(&opts.Provenance, "provenance", "", "write field provenance as yaml to this file")

	return cmd
}

// resolve takes the configured value of every flag that was not given.
func (o *Options) resolve(cmd *cobra.Command, d appcontext.MergeDefaults) {
	flags := cmd.Flags()
	if !flags.Changed("entropy") {
		o.Entropy = d.Entropy
	}
	if !flags.Changed("workers") {
		o.Workers = d.Workers
	}
	if !flags.Changed("avatars_in") {
		o.AvatarsIn = d.AvatarsIn
	}
	if !flags.Changed("avatars_out") {
		o.AvatarsOut = d.AvatarsOut
	}
	if !flags.Changed("format") {
		o.Format = d.Format
	}
}
