package pipeline

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/roamsift/internal/globaltime"
)

// OriginDetector resolves the origin kind of a record that arrived
// untagged. Implementations return KindUnknown when inconclusive.
type OriginDetector interface {
	DetectKind(text string) Kind
}

// Diagnostic is one entry of the operator-facing filter-audit trail.
// Every record that reaches the scorer produces one, retained or not.
type Diagnostic struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	Included    bool       `json:"included"`
	Score       float64    `json:"score"`
	Reason      ReasonCode `json:"reason"`
	Explanation string     `json:"explanation"`
}

// Service composes validation, deduplication, classification, and
// relevance scoring into a single stateless-per-invocation run. Each Run
// call uses its own Deduplicator state, so one Service may process
// independent batches sequentially without cross-contamination.
type Service struct {
	rules      Rules
	validator  *Validator
	classifier *Classifier
	scorer     *Scorer
	detector   OriginDetector
	logger     zerolog.Logger
}

func NewService(rules Rules, logger zerolog.Logger) *Service {
	return &Service{
		rules:      rules,
		validator:  NewValidator(rules),
		classifier: NewClassifier(rules),
		scorer:     NewScorer(rules),
		logger:     logger,
	}
}

// UseOriginDetector installs a fallback detector for records whose kind
// the collector left blank. Without one, unknown kinds stay domestic.
func (s *Service) UseOriginDetector(detector OriginDetector) {
	s.detector = detector
}

// Rules returns the rule tables this service was built with.
func (s *Service) Rules() Rules {
	return s.rules
}

// Run executes the full pipeline over one collector batch: canonicalize
// links, validate, dedupe, then score each survivor against the threshold.
// A threshold <= 0 falls back to the configured default. Retained records
// keep their original relative order and carry their assigned category;
// the diagnostics list covers every record the scorer saw.
func (s *Service) Run(records []Record, threshold float64) ([]ClassifiedRecord, []Diagnostic) {
	if threshold <= 0 {
		threshold = s.rules.IncludeThreshold
	}

	valid := make([]Record, 0, len(records))
	for _, rec := range records {
		rec.Link = CanonicalizeLink(rec.Link)
		rec.Kind = s.resolveKind(rec)

		if ok, reason := s.validator.Validate(rec); !ok {
			s.logger.Debug().
				Str("title", truncateRunes(rec.Title, s.rules.TitlePreviewRunes)).
				Str("reason", reason).
				Msg("record rejected by validator")
			continue
		}
		if !s.recencyOK(rec) {
			s.logger.Debug().
				Str("title", truncateRunes(rec.Title, s.rules.TitlePreviewRunes)).
				Str("published", rec.Published).
				Msg("record rejected by recency gate")
			continue
		}
		valid = append(valid, rec)
	}

	survivors := NewDeduplicator().Dedupe(valid)

	retained := make([]ClassifiedRecord, 0, len(survivors))
	diagnostics := make([]Diagnostic, 0, len(survivors))
	for _, rec := range survivors {
		decision := s.scorer.Decide(rec, threshold)
		diagnostics = append(diagnostics, Diagnostic{
			Title:       truncateRunes(rec.Title, s.rules.TitlePreviewRunes),
			Link:        rec.Link,
			Source:      rec.Source,
			Included:    decision.Included,
			Score:       decision.Score,
			Reason:      decision.Reason,
			Explanation: decision.Explanation,
		})
		if decision.Included {
			retained = append(retained, ClassifiedRecord{
				Record:   rec,
				Category: s.classifier.Classify(rec),
				Score:    decision.Score,
			})
		}
	}

	s.logger.Info().
		Int("collected", len(records)).
		Int("validated", len(valid)).
		Int("deduplicated", len(survivors)).
		Int("passed", len(retained)).
		Int("filtered", len(survivors)-len(retained)).
		Msg("filter run completed")

	return retained, diagnostics
}

// GroupByCategory arranges retained records into the section map consumed
// by the analyzer and presentation layer.
func GroupByCategory(retained []ClassifiedRecord) map[Category][]ClassifiedRecord {
	grouped := make(map[Category][]ClassifiedRecord)
	for _, rec := range retained {
		grouped[rec.Category] = append(grouped[rec.Category], rec)
	}
	return grouped
}

func (s *Service) resolveKind(rec Record) Kind {
	if rec.Kind != KindUnknown {
		return rec.Kind
	}
	if s.detector != nil {
		if kind := s.detector.DetectKind(rec.Title + " " + rec.Snippet); kind != KindUnknown {
			return kind
		}
	}
	return KindDomestic
}

// recencyOK applies the optional max-age gate. Records without a parsable
// timestamp pass: the freshness sub-score already penalizes unknown age.
// Day-granularity compact dates are accepted leniently when they name
// today or yesterday, since their midnight anchor would otherwise push
// afternoon posts past a strict cutoff.
func (s *Service) recencyOK(rec Record) bool {
	if s.rules.MaxAge <= 0 {
		return true
	}
	raw := strings.TrimSpace(rec.Published)
	if raw == "" {
		return true
	}

	if isCompactDate(raw) {
		now := globaltime.Now().In(kst)
		today := now.Format("20060102")
		yesterday := now.AddDate(0, 0, -1).Format("20060102")
		return raw == today || raw == yesterday
	}

	publishedAt, err := ParsePublished(raw)
	if err != nil {
		return true
	}
	return globaltime.Now().Sub(publishedAt) < time.Duration(s.rules.MaxAge)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
