package query

import "strings"

// SortField identifies a model field to sort by and its direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression. A leading "-"
// marks a field as descending: "Name,-CreatedAt".
func ParseSortFields(expr string) []SortField {
	if expr == "" {
		return nil
	}

	parts := strings.Split(expr, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sf := SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			sf.Field = part[1:]
			sf.Descending = true
		}
		if sf.Field == "" {
			continue
		}

		fields = append(fields, sf)
	}

	return fields
}
