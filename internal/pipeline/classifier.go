package pipeline

import "strings"

// Classifier assigns exactly one category per record. It is a pure
// function of the record and the injected rule table.
type Classifier struct {
	rules Rules
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the record's category. Global-origin records always
// land in the global-trend section regardless of keyword content. For
// everything else the category rules are evaluated in slice order and the
// first keyword hit wins; the broad market/culture set sits last so it
// cannot shadow the more specific competitor, VOC, and product lanes.
func (c *Classifier) Classify(rec Record) Category {
	if rec.Kind == KindGlobal {
		return CategoryGlobalTrend
	}

	combined := combinedText(rec)
	for _, rule := range c.rules.Categories {
		for _, keyword := range rule.Keywords {
			if strings.Contains(combined, strings.ToLower(keyword)) {
				return rule.Category
			}
		}
	}

	return CategoryOther
}
