package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/profilemerge/pkg/provenance"
)

// ProvenanceToTableData converts provenance history to table format.
// Entries are listed in merge order; the last one of a field is current.
func ProvenanceToTableData(fieldProvenance map[string][]provenance.Provenance) Data {
	var rows [][]string

	fields := make([]string, 0, len(fieldProvenance))
	for field := range fieldProvenance {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		history := fieldProvenance[field]
		for i, entry := range history {
			// Field name only on first row, blank for subsequent entries
			fieldName := ""
			if i == 0 {
				fieldName = field
			}

			currentIndicator := ""
			if i == len(history)-1 {
				currentIndicator = "→"
			}

			rows = append(rows, []string{
				fieldName,
				currentIndicator,
				formatValueAsYAML(entry.Value),
				entry.Source.String(),
				entry.Reason,
			})
		}
	}

	return Data{
		Headers: []string{"Field", "Curr", "Value", "Source", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Field
			AlignCenter, // Curr
			AlignLeft,   // Value
			AlignLeft,   // Source
			AlignLeft,   // Reason
		},
	}
}

// formatValueAsYAML formats a provenance value as YAML for display.
// Complex values (maps, slices, structs) are formatted as multi-line YAML.
// Simple values (strings, numbers, bools) are kept as-is.
func formatValueAsYAML(val any) string {
	if val == nil {
		return "<nil>"
	}

	// Handle simple types directly
	switch v := val.(type) {
	case string:
		if v == "" {
			return "<empty>"
		}
		return v
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		// Format numbers nicely
		if fval, ok := v.(float64); ok {
			if fval == float64(int64(fval)) {
				return fmt.Sprintf("%d", int64(fval))
			}
			return fmt.Sprintf("%.2f", fval)
		}
		return fmt.Sprintf("%v", v)
	case bool:
		return fmt.Sprintf("%t", v)
	}

	// For complex types, use YAML formatting
	yamlBytes, err := yaml.Marshal(val)
	if err != nil {
		// Fall back to simple string representation
		return fmt.Sprintf("%v", val)
	}

	// Convert to string and remove trailing newline
	yamlStr := strings.TrimSuffix(string(yamlBytes), "\n")

	return yamlStr
}
