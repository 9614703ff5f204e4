package pipeline

import (
	"testing"
	"time"
)

func TestParsePublishedFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "rfc2822",
			raw:  "Mon, 19 Jan 2026 12:00:00 +0900",
			want: time.Date(2026, time.January, 19, 12, 0, 0, 0, kst),
		},
		{
			name: "compact date anchors at kst midnight",
			raw:  "20260119",
			want: time.Date(2026, time.January, 19, 0, 0, 0, 0, kst),
		},
		{
			name: "iso8601 with colon offset",
			raw:  "2026-01-19T12:00:00+09:00",
			want: time.Date(2026, time.January, 19, 12, 0, 0, 0, kst),
		},
		{
			name: "iso8601 with compact offset",
			raw:  "2026-01-19T12:00:00+0900",
			want: time.Date(2026, time.January, 19, 12, 0, 0, 0, kst),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePublished(tc.raw)
			if err != nil {
				t.Fatalf("ParsePublished(%q) failed: %v", tc.raw, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParsePublished(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParsePublishedRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "yesterday", "2026011", "202601199", "2026-01-19"} {
		if _, err := ParsePublished(raw); err == nil {
			t.Fatalf("ParsePublished(%q) succeeded, want error", raw)
		}
	}
}
