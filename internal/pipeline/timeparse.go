package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Upstream search APIs deliver three timestamp shapes: RFC 2822 from the
// news API ("Mon, 19 Jan 2026 12:00:00 +0900"), compact dates from the
// blog and cafe APIs ("20260119"), and ISO 8601 with offset from global
// sources. Compact dates carry no time of day and are anchored at KST
// midnight, matching where they originate.
var kst = time.FixedZone("KST", 9*60*60)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
}

var rfc2822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
}

// ParsePublished sniffs the timestamp format and parses it. Callers treat
// any error as "no usable timestamp" and degrade to a neutral freshness
// score; parse failures never reject a record.
func ParsePublished(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if isCompactDate(value) {
		return time.ParseInLocation("20060102", value, kst)
	}

	if strings.Contains(value, "T") {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized ISO timestamp %q", raw)
	}

	for _, layout := range rfc2822Layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func isCompactDate(value string) bool {
	if len(value) != 8 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
