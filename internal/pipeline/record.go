package pipeline

import "strings"

// Kind tags where a record was collected from. The collector labels
// domestic portal results "domestic" and global search results "global";
// records arriving untagged stay KindUnknown until the service resolves them.
type Kind string

const (
	KindUnknown  Kind = ""
	KindDomestic Kind = "domestic"
	KindGlobal   Kind = "global"
)

// Category is the single topical label assigned to every record.
type Category string

const (
	CategoryMarketCulture Category = "market_culture"
	CategoryGlobalTrend   Category = "global_trend"
	CategoryCompetitors   Category = "competitors"
	CategoryESIMProducts  Category = "esim_products"
	CategoryVOCRoaming    Category = "voc_roaming"
	CategoryVOCESIM       Category = "voc_esim"
	CategoryOther         Category = "other"
)

// Record is one raw candidate item (news, blog, or forum post) handed over
// by the collector. Title and Snippet may still carry search-API markup
// artifacts; Published is the raw timestamp string in whatever shape the
// upstream API returned.
type Record struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Published string `json:"published,omitempty"`
	Kind      Kind   `json:"type,omitempty"`
}

// ClassifiedRecord is a retained record annotated for the analyzer.
type ClassifiedRecord struct {
	Record
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

func combinedText(rec Record) string {
	return strings.ToLower(rec.Title + " " + rec.Snippet)
}
