// Package provenance provides field-level tracking of which source set each
// profile field during a merge.
package provenance

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/types"
)

// Provenance records one assignment of a profile field.
type Provenance struct {
	Source types.SourceID `json:"source" yaml:"source"`                   // Source that provided the value
	Field  string         `json:"field" yaml:"field"`                     // Field path, e.g. "staff_information.title"
	Value  any            `json:"value,omitempty" yaml:"value,omitempty"` // The assigned value
	Reason string         `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Map tracks provenance for multiple profiles.
type Map map[string][]Provenance // key is "profileKey:fieldPath"

// Profile returns the field histories of one profile, keyed by field path.
func (m Map) Profile(profileKey string) map[string][]Provenance {
	fields := make(map[string][]Provenance)
	for key, history := range m {
		if pk, field, ok := splitKey(key); ok && pk == profileKey {
			fields[field] = history
		}
	}
	return fields
}

// Profiles returns the sorted keys of the profiles in m.
func (m Map) Profiles() []string {
	seen := make(map[string]struct{})
	for key := range m {
		if pk, _, ok := splitKey(key); ok {
			seen[pk] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Tracker manages provenance tracking during a merge. Implementations are
// safe for concurrent use.
type Tracker interface {
	// Track records provenance for a field
	Track(profileKey string, field string, history Provenance)

	// FindByField retrieves provenance for a specific field
	FindByField(profileKey string, field string) []Provenance

	// FindByProfile retrieves all provenance for a profile
	FindByProfile(profileKey string) map[string][]Provenance

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	mu         sync.RWMutex
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records provenance for a field.
func (p *tracker) Track(profileKey string, field string, history Provenance) {
	if !p.enabled {
		return
	}
	if history.Field == "" {
		history.Field = field
	}

	key := makeKey(profileKey, field)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.provenance[key] = append(p.provenance[key], history)
}

// FindByField retrieves provenance for a specific field.
func (p *tracker) FindByField(profileKey string, field string) []Provenance {
	if !p.enabled {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.provenance[makeKey(profileKey, field)])
}

// FindByProfile retrieves all provenance for a profile.
func (p *tracker) FindByProfile(profileKey string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}

	result := make(map[string][]Provenance)
	prefix := profileKey + ":"

	p.mu.RLock()
	defer p.mu.RUnlock()
	for key, info := range p.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[field] = slices.Clone(info)
		}
	}

	return result
}

// Map returns the complete provenance map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = slices.Clone(v)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.provenance = make(Map)
}

// makeKey creates a unique key for provenance tracking. Profile keys may
// contain colons (community user ids), so the field is split off the end.
func makeKey(profileKey string, field string) string {
	return profileKey + ":" + field
}

func splitKey(key string) (profileKey, field string, ok bool) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

type scopeKey struct{}

type scope struct {
	tracker Tracker
	key     string
}

// WithScope attaches a tracker and the key of the profile being merged.
func WithScope(ctx context.Context, t Tracker, profileKey string) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, scope{tracker: t, key: profileKey})
}

// Record tracks an assignment in the scope attached to ctx. Without a
// scope it does nothing.
func Record(ctx context.Context, source types.SourceID, field string, value any) {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok {
		return
	}
	s.tracker.Track(s.key, field, Provenance{Source: source, Value: value})
}

// Report generates a human-readable provenance report.
type Report struct {
	Profiles map[string]ProfileProvenance
}

// ProfileProvenance contains provenance for a single profile.
type ProfileProvenance struct {
	Key    string
	Fields map[string]Field
}

// Field contains provenance history for a single field.
type Field struct {
	Current   Provenance     // Final value and its source
	History   []Provenance   // All assignments in merge order
	Conflicts []ConflictInfo // Overrides between sources
}

// ConflictInfo describes a field set by more than one source.
type ConflictInfo struct {
	Sources        []types.SourceID // Sources that set the field
	Values         []any            // The values they set
	SelectedSource types.SourceID   // Which source's value was kept
}

// GenerateReport creates a provenance report from a Map.
func GenerateReport(provenance Map) *Report {
	report := &Report{
		Profiles: make(map[string]ProfileProvenance),
	}

	for key, infos := range provenance {
		profileKey, field, ok := splitKey(key)
		if !ok || len(infos) == 0 {
			continue
		}

		profile, exists := report.Profiles[profileKey]
		if !exists {
			profile = ProfileProvenance{
				Key:    profileKey,
				Fields: make(map[string]Field),
			}
		}

		fieldProv := Field{
			Current: infos[len(infos)-1],
			History: infos,
		}
		if conflict, ok := detectConflict(infos); ok {
			fieldProv.Conflicts = []ConflictInfo{conflict}
		}

		profile.Fields[field] = fieldProv
		report.Profiles[profileKey] = profile
	}

	return report
}

// detectConflict reports a conflict when more than one source set a field.
// The last assignment wins.
func detectConflict(infos []Provenance) (ConflictInfo, bool) {
	conflict := ConflictInfo{}
	for _, info := range infos {
		if !slices.Contains(conflict.Sources, info.Source) {
			conflict.Sources = append(conflict.Sources, info.Source)
		}
		conflict.Values = append(conflict.Values, info.Value)
	}
	if len(conflict.Sources) < 2 {
		return ConflictInfo{}, false
	}
	conflict.SelectedSource = infos[len(infos)-1].Source
	return conflict, true
}

// String generates a string representation of the provenance report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	for _, key := range slices.Sorted(maps.Keys(r.Profiles)) {
		profile := r.Profiles[key]
		sb.WriteString(fmt.Sprintf("profile: %s\n", profile.Key))
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		for _, field := range slices.Sorted(maps.Keys(profile.Fields)) {
			fieldProv := profile.Fields[field]
			sb.WriteString(fmt.Sprintf("  %s: from %s\n", field, fieldProv.Current.Source))

			for _, conflict := range fieldProv.Conflicts {
				sb.WriteString(fmt.Sprintf("    Overridden: %v -> %s\n", conflict.Sources, conflict.SelectedSource))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File represents a provenance file stored on disk.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes the provenance map as YAML to path on fs.
func Save(fs afero.Fs, path string, m Map) error {
	data, err := yaml.MarshalWithOptions(File{Provenance: m},
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return fmt.Errorf("failed to encode provenance file: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write provenance file: %w", err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(fs afero.Fs, path string) (*File, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat provenance file: %w", err)
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provenance file: %w", err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse provenance file: %w", err)
	}

	return &pf, nil
}
