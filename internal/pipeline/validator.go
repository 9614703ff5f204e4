package pipeline

import "strings"

// Rejection reasons reported by the validator.
const (
	rejectLinkBlacklist = "link blacklist"
	rejectKeyword       = "excluded keyword"
)

// Validator is the hard pass/fail filter applied before any scoring.
// It never modifies a record and treats missing fields as empty strings.
type Validator struct {
	rules Rules
}

func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Validate reports whether the record survives the static blocklists.
// The second return value names the rule that rejected it, for diagnostics.
func (v *Validator) Validate(rec Record) (bool, string) {
	for _, blocked := range v.rules.LinkBlacklist {
		if strings.Contains(rec.Link, blocked) {
			return false, rejectLinkBlacklist
		}
	}

	combined := combinedText(rec)
	lowerLink := strings.ToLower(rec.Link)
	for _, word := range v.rules.ExcludedKeywords {
		lowered := strings.ToLower(word)
		if strings.Contains(combined, lowered) || strings.Contains(lowerLink, lowered) {
			return false, rejectKeyword + " " + word
		}
	}

	return true, ""
}
