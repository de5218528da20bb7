package rest

import "time"

// Row decoding helpers. Backend rows arrive as loosely-typed JSON
// objects; these readers tolerate absent or mistyped columns by
// returning zero values, matching the normaliser's placeholder policy.

func rowString(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

// rowTime parses an ISO 8601 timestamp column. Returns nil when the
// column is absent or unparseable.
func rowTime(row map[string]any, key string) *time.Time {
	s, ok := row[key].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// rowEmbedded returns an embedded parent object, e.g. the tender row
// joined onto a tender document via select=*,tender:tenders(...).
func rowEmbedded(row map[string]any, key string) map[string]any {
	if m, ok := row[key].(map[string]any); ok {
		return m
	}
	return nil
}
