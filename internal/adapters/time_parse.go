package adapters

import (
	"strings"
	"time"
)

// parseTimeFlexible accepts the date formats the server has been seen
// to emit: RFC 3339 with or without sub-second precision, and bare
// ISO-8601 without a timezone suffix. Unparsable input yields the zero
// time; callers never branch on the date under the canonical staleness
// policy, it is diagnostic only.
func parseTimeFlexible(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
