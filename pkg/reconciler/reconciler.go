// Package reconciler merges joined bundles into profiles.
//
// Each bundle is classified by the sources it carries and merged on a
// fresh profile by a bounded pool of workers. Results are collected after
// every bundle is done and returned in bundle key order.
package reconciler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/joiner"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/mapper"
)

// Reconciler merges the bundles of one run.
type Reconciler interface {
	// Merge merges bundles into profiles. Record level failures drop the
	// bundle; only context cancellation fails the run.
	Merge(ctx context.Context, bundles *joiner.Bundles) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	merger  *merger
	filter  *filter
	workers int
}

// New creates a new Reconciler applying the stages of m.
func New(m *mapper.Mapper, opts ...Option) (Reconciler, error) {
	if m == nil {
		return nil, &errors.ValidationError{
			Field:   "mapper",
			Message: "cannot be nil",
		}
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		merger: &merger{
			mapper:        m,
			tracking:      options.tracking,
			identityGuard: options.identityGuard,
		},
		filter:  newFilter(options.mozilliansOnly),
		workers: options.workers,
	}, nil
}

// Merge performs the merge run.
func (r *reconciler) Merge(ctx context.Context, bundles *joiner.Bundles) (*Result, error) {
	logger := logging.FromContext(ctx)
	res := NewResult()
	res.Metadata.Workers = r.workers
	res.Metadata.MozilliansOnly = r.filter.isEnabled()

	var all []*joiner.Bundle
	if bundles != nil {
		all = bundles.Sorted()
	}
	selected := r.filter.apply(all)
	res.Metadata.Stats.BundlesTotal = len(all)
	res.Metadata.Stats.BundlesFiltered = len(all) - len(selected)

	logger.Info().
		Int("bundles", len(selected)).
		Int("filtered", res.Metadata.Stats.BundlesFiltered).
		Int("workers", r.workers).
		Msg("Merging bundles")

	failuresBefore := r.merger.mapper.AvatarFailures()
	col := newCollector(len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, b := range selected {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col.set(i, r.merger.merge(gctx, b))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	col.collect(res)
	res.AvatarFailures = r.merger.mapper.AvatarFailures() - failuresBefore
	res.Finalize()

	logger.Info().
		Int("profiles", len(res.Profiles)).
		Int("dropped", len(res.Dropped)).
		Int64("avatar_failures", res.AvatarFailures).
		Int64("duration_ms", res.Metadata.Stats.TotalTimeMs).
		Msg("Merge completed")

	return res, nil
}
