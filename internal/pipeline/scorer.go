package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"horse.fit/roamsift/internal/globaltime"
)

// Composite weights for the relevance formula:
// keyword*0.4 + source*0.3 + freshness*0.2 + competitorBonus*0.1.
const (
	keywordWeight    = 0.4
	sourceWeight     = 0.3
	freshnessWeight  = 0.2
	competitorWeight = 0.1
)

// Notability bars used only for explanation text, never for the
// inclusion decision itself.
const (
	notableKeywordBar   = 20
	weakKeywordBar      = 15
	notableSourceBar    = 80
	weakSourceBar       = 50
	notableFreshnessBar = 60
	weakFreshnessBar    = 40
)

// ReasonCode labels why a record was admitted or rejected.
type ReasonCode string

const (
	ReasonPassed         ReasonCode = "passed"
	ReasonGameFiltered   ReasonCode = "game_filtered"
	ReasonBelowThreshold ReasonCode = "below_threshold"
)

// ScoreBreakdown carries the four sub-scores and their weighted total.
type ScoreBreakdown struct {
	Keyword         float64 `json:"keyword"`
	Source          float64 `json:"source"`
	Freshness       float64 `json:"freshness"`
	CompetitorBonus float64 `json:"competitor_bonus"`
	Total           float64 `json:"total"`
	GameRelated     bool    `json:"game_related"`
}

// FilterDecision is the admit/reject outcome for one record.
type FilterDecision struct {
	Included    bool       `json:"included"`
	Score       float64    `json:"score"`
	Reason      ReasonCode `json:"reason"`
	Explanation string     `json:"explanation"`
	Threshold   float64    `json:"threshold"`
}

// Scorer computes the composite relevance score and inclusion decision.
type Scorer struct {
	rules Rules
}

func NewScorer(rules Rules) *Scorer {
	return &Scorer{rules: rules}
}

// Score computes the full breakdown for a record. Game-related records
// short-circuit to an all-zero breakdown before any sub-score is computed.
func (s *Scorer) Score(rec Record) ScoreBreakdown {
	combined := combinedText(rec)
	if s.GameRelated(combined) {
		return ScoreBreakdown{GameRelated: true}
	}

	breakdown := ScoreBreakdown{
		Keyword:         s.keywordDensity(combined),
		Source:          s.sourceCredibility(rec.Link),
		Freshness:       s.freshness(rec.Published),
		CompetitorBonus: s.competitorBonus(combined),
	}
	total := breakdown.Keyword*keywordWeight +
		breakdown.Source*sourceWeight +
		breakdown.Freshness*freshnessWeight +
		breakdown.CompetitorBonus*competitorWeight
	breakdown.Total = clamp(total, 0, 100)
	return breakdown
}

// Decide applies the inclusion threshold to a record's score. When the
// title mentions a competitor brand the configured competitor threshold
// replaces the caller's value: rival coverage is strategically valuable
// even at moderate overall relevance. Only the title is consulted for the
// discount, matching the reference tuning, while every other signal reads
// title+snippet.
func (s *Scorer) Decide(rec Record, threshold float64) FilterDecision {
	breakdown := s.Score(rec)
	if breakdown.GameRelated {
		return FilterDecision{
			Included:    false,
			Score:       0,
			Reason:      ReasonGameFiltered,
			Explanation: "game-domain keywords detected without telecom context",
			Threshold:   threshold,
		}
	}

	effective := threshold
	if containsAnyFold(rec.Title, s.rules.CompetitorBrands) {
		effective = s.rules.CompetitorThreshold
	}

	if breakdown.Total >= effective {
		return FilterDecision{
			Included:    true,
			Score:       breakdown.Total,
			Reason:      ReasonPassed,
			Explanation: passExplanation(breakdown),
			Threshold:   effective,
		}
	}
	return FilterDecision{
		Included:    false,
		Score:       breakdown.Total,
		Reason:      ReasonBelowThreshold,
		Explanation: failExplanation(breakdown, effective),
		Threshold:   effective,
	}
}

// keywordDensity scores weighted keyword hits normalized by text length,
// so short keyword-dense items outrank long diffusely-worded ones.
func (s *Scorer) keywordDensity(combined string) float64 {
	length := utf8.RuneCountInString(combined)
	if length == 0 {
		return 0
	}

	var total float64
	for _, kw := range s.rules.CoreKeywords {
		count := strings.Count(combined, strings.ToLower(kw.Keyword))
		if count > 0 {
			total += float64(min(count, s.rules.CoreCountCap)) * kw.Weight
		}
	}
	for _, kw := range s.rules.SecondaryKeywords {
		count := strings.Count(combined, strings.ToLower(kw.Keyword))
		if count > 0 {
			total += float64(min(count, s.rules.SecondaryCountCap)) * kw.Weight * s.rules.SecondaryDiscount
		}
	}

	return clamp(total/float64(length)*s.rules.DensityScale, 0, 100)
}

// sourceCredibility looks the link up against the domain tier table, then
// the blog and community pattern lists, and falls back to the default tier.
func (s *Scorer) sourceCredibility(link string) float64 {
	for _, tier := range s.rules.SourceCredibility {
		if strings.Contains(link, tier.Domain) {
			return tier.Score
		}
	}
	for _, pattern := range s.rules.BlogPatterns {
		if strings.Contains(link, pattern) {
			return s.rules.BlogCredibility
		}
	}
	for _, pattern := range s.rules.CommunityPatterns {
		if strings.Contains(link, pattern) {
			return s.rules.CommunityCredibility
		}
	}
	return s.rules.DefaultCredibility
}

// freshness buckets the article age. A missing or unparsable timestamp
// fails open to the neutral score rather than rejecting the record.
func (s *Scorer) freshness(published string) float64 {
	if strings.TrimSpace(published) == "" {
		return s.rules.NeutralFreshness
	}

	publishedAt, err := ParsePublished(published)
	if err != nil {
		return s.rules.NeutralFreshness
	}

	hours := globaltime.Now().Sub(publishedAt).Hours()
	for _, bucket := range s.rules.FreshnessBuckets {
		if hours <= bucket.MaxAgeHours {
			return bucket.Score
		}
	}
	return s.rules.StaleScore
}

// competitorBonus rewards rival-brand coverage and dampens it again when
// the operator's own brand shares the text, so single-brand self coverage
// does not ride the competitor lane. Result is floored at 0 and naturally
// capped at the configured bonus.
func (s *Scorer) competitorBonus(combined string) float64 {
	var bonus float64
	if containsAny(combined, s.rules.CompetitorBrands) {
		bonus += s.rules.CompetitorBonus
	}
	if containsAny(combined, s.rules.OwnBrands) {
		bonus -= s.rules.OwnBrandPenalty
	}
	if bonus < 0 {
		return 0
	}
	return bonus
}

// GameRelated reports whether lowercased title+snippet text reads as game
// coverage. A strong game signal only counts when no telecom-context word
// accompanies it. The homonym token ("롤": gaming slang for LoL, also a
// roaming abbreviation) gets a finer check: its immediate neighboring
// tokens decide, overriding the coarse context test for that token alone.
func (s *Scorer) GameRelated(combined string) bool {
	for _, signal := range s.rules.GameSignals {
		if strings.Contains(combined, strings.ToLower(signal)) {
			if !containsAny(combined, s.rules.TelecomContext) {
				return true
			}
		}
	}

	token := s.rules.HomonymToken
	if token == "" || !strings.Contains(combined, token) {
		return false
	}
	words := strings.Fields(combined)
	for i, word := range words {
		if !strings.Contains(word, token) {
			continue
		}
		var neighbors []string
		if i > 0 {
			neighbors = append(neighbors, words[i-1])
		}
		if i+1 < len(words) {
			neighbors = append(neighbors, words[i+1])
		}
		if containsAny(strings.Join(neighbors, " "), s.rules.GameContextWords) {
			return true
		}
	}
	return false
}

func passExplanation(b ScoreBreakdown) string {
	var reasons []string
	if b.Keyword > notableKeywordBar {
		reasons = append(reasons, fmt.Sprintf("core keywords present (%.1f)", b.Keyword))
	}
	if b.Source > notableSourceBar {
		reasons = append(reasons, fmt.Sprintf("highly credible source (%.1f)", b.Source))
	}
	if b.Freshness > notableFreshnessBar {
		reasons = append(reasons, fmt.Sprintf("fresh article (%.1f)", b.Freshness))
	}
	if b.CompetitorBonus > 0 {
		reasons = append(reasons, fmt.Sprintf("competitor coverage (+%.1f)", b.CompetitorBonus))
	}
	if len(reasons) == 0 {
		return "composite score above threshold"
	}
	return strings.Join(reasons, ", ")
}

func failExplanation(b ScoreBreakdown, threshold float64) string {
	var reasons []string
	if b.Keyword < weakKeywordBar {
		reasons = append(reasons, fmt.Sprintf("weak keyword density (%.1f)", b.Keyword))
	}
	if b.Source < weakSourceBar {
		reasons = append(reasons, fmt.Sprintf("low-credibility source (%.1f)", b.Source))
	}
	if b.Freshness < weakFreshnessBar {
		reasons = append(reasons, fmt.Sprintf("stale article (%.1f)", b.Freshness))
	}
	base := fmt.Sprintf("score below threshold (%.0f)", threshold)
	if len(reasons) == 0 {
		return base
	}
	return base + " - " + strings.Join(reasons, ", ")
}

// containsAny reports whether text contains any of the given substrings
// as-is; callers pass already-lowercased text and patterns.
func containsAny(text string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

// containsAnyFold lowercases both sides before matching.
func containsAnyFold(text string, patterns []string) bool {
	lowered := strings.ToLower(text)
	for _, pattern := range patterns {
		if strings.Contains(lowered, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
