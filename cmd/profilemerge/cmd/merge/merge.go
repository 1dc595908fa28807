package merge

import (
	"context"
	"io"

	"github.com/agentstation/profilemerge/internal/appcontext"
	"github.com/agentstation/profilemerge/internal/cmd/output"
	"github.com/agentstation/profilemerge/internal/transport"
	"github.com/agentstation/profilemerge/pkg/avatar"
	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/joiner"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/mapper"
	"github.com/agentstation/profilemerge/pkg/provenance"
	"github.com/agentstation/profilemerge/pkg/reconciler"
	"github.com/agentstation/profilemerge/pkg/save"
	"github.com/agentstation/profilemerge/pkg/sources"
)

// Options are the merge flags.
type Options struct {
	HRIS       string
	LDAP       string
	Mozillians string

	Out   string
	Split int

	MozilliansOnly bool
	AvatarsIn      string
	AvatarsOut     string

	Entropy string
	Workers int
	Format  string

	Summary    bool
	Provenance string
}

// Validate checks the flag combination.
func (o *Options) Validate() error {
	if o.Split < 0 {
		return &errors.ValidationError{Field: "split", Value: o.Split, Message: "must not be negative"}
	}
	if o.Workers < 1 {
		return &errors.ValidationError{Field: "workers", Value: o.Workers, Message: "must be at least 1"}
	}
	return nil
}

// Run loads the sources, merges them and writes the profiles. Profiles go
// to stdout unless --out is set; the summary goes to stderr.
func Run(ctx context.Context, app appcontext.Interface, opts *Options, stdout, stderr io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	format, err := save.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	logger := app.Logger()
	ctx = logging.WithOperation(logging.WithLogger(ctx, logger), "merge")
	fs := app.Fs()

	data, err := sources.NewLoader(fs).LoadAll(sources.Paths{
		HRIS:       opts.HRIS,
		LDAP:       opts.LDAP,
		Mozillians: opts.Mozillians,
	})
	if err != nil {
		return err
	}
	bundles := joiner.JoinData(data)

	var avatars *avatar.Normalizer
	if opts.AvatarsOut != "" {
		avatars = avatar.New(fs, opts.AvatarsOut, transport.New())
	} else if opts.AvatarsIn != "" {
		logger.Warn().Str("avatars_in", opts.AvatarsIn).Msg("avatars_in is ignored without avatars_out")
	}

	m := mapper.New(mapper.Config{
		AvatarsIn: opts.AvatarsIn,
		Avatars:   avatars,
		Entropy:   opts.Entropy,
	})
	r, err := reconciler.New(m,
		reconciler.WithWorkers(opts.Workers),
		reconciler.WithMozilliansOnly(opts.MozilliansOnly),
		reconciler.WithProvenance(opts.Provenance != ""),
	)
	if err != nil {
		return err
	}

	res, err := r.Merge(ctx, bundles)
	if err != nil {
		return err
	}

	if err := save.Items(res.Profiles,
		save.WithFs(fs),
		save.WithFormat(format),
		save.WithPath(opts.Out),
		save.WithSplit(opts.Split),
		save.WithWriter(stdout),
	); err != nil {
		return err
	}

	if opts.Provenance != "" {
		if err := provenance.Save(fs, opts.Provenance, res.Provenance); err != nil {
			return err
		}
	}

	if opts.Summary {
		return output.FormatSummary(stderr, res, output.FormatTable)
	}
	return nil
}
