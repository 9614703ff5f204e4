package pipeline

import "strings"

var displaySanitizer = strings.NewReplacer(
	"<b>", "",
	"</b>", "",
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Deduplicator drops repeated records within one pipeline invocation,
// first occurrence wins. Its seen-sets are local to a single batch run;
// sharing one instance across independent batches would cross-contaminate
// dedup decisions.
type Deduplicator struct {
	seenTitles map[string]struct{}
	seenLinks  map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seenTitles: make(map[string]struct{}),
		seenLinks:  make(map[string]struct{}),
	}
}

// Dedupe filters duplicates by normalized title and by exact link, in
// arrival order. Records dropped by either key never reach the output.
// Surviving records get their title and snippet sanitized for display;
// the title key is built from the same sanitized form so markup-only and
// entity-only differences collide.
func (d *Deduplicator) Dedupe(records []Record) []Record {
	unique := make([]Record, 0, len(records))

	for _, rec := range records {
		titleKey := normalizeTitleKey(rec.Title)
		if _, dup := d.seenTitles[titleKey]; dup && titleKey != "" {
			continue
		}
		if rec.Link != "" {
			if _, dup := d.seenLinks[rec.Link]; dup {
				continue
			}
		}

		if titleKey != "" {
			d.seenTitles[titleKey] = struct{}{}
		}
		// An empty link is "no link key", never a hashable identity:
		// otherwise every linkless record after the first would vanish.
		if rec.Link != "" {
			d.seenLinks[rec.Link] = struct{}{}
		}

		rec.Title = SanitizeDisplayText(rec.Title)
		rec.Snippet = SanitizeDisplayText(rec.Snippet)
		unique = append(unique, rec)
	}

	return unique
}

// normalizeTitleKey builds the title comparison key from the
// display-sanitized form of the title, so a raw title and its sanitized
// counterpart key identically and entity-only variants collide. On top
// of sanitization the key strips quotes and all whitespace and lowers
// the case.
func normalizeTitleKey(title string) string {
	key := displaySanitizer.Replace(title)
	key = strings.ReplaceAll(key, `"`, "")
	key = strings.Join(strings.Fields(key), "")
	return strings.ToLower(key)
}

// SanitizeDisplayText removes search-API emphasis tags and decodes the
// four common HTML entities for downstream display.
func SanitizeDisplayText(text string) string {
	return displaySanitizer.Replace(text)
}
