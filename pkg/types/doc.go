// Package types provides shared type definitions used across the profilemerge packages.
//
// SourceID is referenced by sources, provenance, mapper and reconciler, so it
// lives here to avoid import cycles.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
