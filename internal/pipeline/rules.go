package pipeline

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that JSON-serializes as a Go duration
// string ("48h"), keeping the rules file and the rules API readable for
// operators. Plain JSON numbers are still accepted as nanoseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch v := value.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("duration must be a string or a number, got %T", value)
	}
	return nil
}

// WeightedKeyword pairs a match phrase with its scoring weight. Matching is
// always done case-insensitively against the lowercased title+snippet text.
type WeightedKeyword struct {
	Keyword string  `json:"keyword"`
	Weight  float64 `json:"weight"`
}

// DomainTier maps a link substring to a source credibility score.
type DomainTier struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
}

// CategoryRule binds a category to its keyword set. Rules are evaluated
// top-to-bottom with first-match-wins, so slice order is load-bearing.
type CategoryRule struct {
	Category Category `json:"category"`
	Keywords []string `json:"keywords"`
}

// FreshnessBucket scores articles no older than MaxAgeHours.
type FreshnessBucket struct {
	MaxAgeHours float64 `json:"max_age_hours"`
	Score       float64 `json:"score"`
}

// Rules holds every tunable table the pipeline consumes. A Rules value is
// injected at construction and treated as immutable afterwards, so multiple
// pipeline instances with different tuning can coexist.
type Rules struct {
	// Hard validator tables.
	LinkBlacklist    []string `json:"link_blacklist"`
	ExcludedKeywords []string `json:"excluded_keywords"`

	// Keyword density tables.
	CoreKeywords      []WeightedKeyword `json:"core_keywords"`
	SecondaryKeywords []WeightedKeyword `json:"secondary_keywords"`
	CoreCountCap      int               `json:"core_count_cap"`
	SecondaryCountCap int               `json:"secondary_count_cap"`
	SecondaryDiscount float64           `json:"secondary_discount"`
	DensityScale      float64           `json:"density_scale"`

	// Game suppression tables.
	GameSignals      []string `json:"game_signals"`
	GameContextWords []string `json:"game_context_words"`
	TelecomContext   []string `json:"telecom_context"`
	HomonymToken     string   `json:"homonym_token"`

	// Source credibility tables.
	SourceCredibility    []DomainTier `json:"source_credibility"`
	BlogPatterns         []string     `json:"blog_patterns"`
	CommunityPatterns    []string     `json:"community_patterns"`
	BlogCredibility      float64      `json:"blog_credibility"`
	CommunityCredibility float64      `json:"community_credibility"`
	DefaultCredibility   float64      `json:"default_credibility"`

	// Freshness tables. Buckets must be sorted by ascending age.
	FreshnessBuckets []FreshnessBucket `json:"freshness_buckets"`
	StaleScore       float64           `json:"stale_score"`
	NeutralFreshness float64           `json:"neutral_freshness"`

	// Competitor lane.
	CompetitorBrands []string `json:"competitor_brands"`
	OwnBrands        []string `json:"own_brands"`
	CompetitorBonus  float64  `json:"competitor_bonus"`
	OwnBrandPenalty  float64  `json:"own_brand_penalty"`

	// Classification.
	Categories []CategoryRule `json:"categories"`

	// Decision surface.
	IncludeThreshold    float64 `json:"include_threshold"`
	CompetitorThreshold float64 `json:"competitor_threshold"`
	TitlePreviewRunes   int     `json:"title_preview_runes"`

	// Optional recency gate applied before scoring. Zero disables it and
	// leaves age handling entirely to the freshness sub-score.
	MaxAge Duration `json:"max_age,omitempty"`
}

// DefaultRules returns the reference tuning for SKT roaming market
// intelligence collection.
func DefaultRules() Rules {
	return Rules{
		LinkBlacklist: []string{
			"list.php", "search", "category", "tag", "bbs/board.php", "main.php", "/index",
			"view_all", "login", "deal", "promo", "membership", "profile", "attendance",
		},
		ExcludedKeywords: []string{
			// Game blocking.
			"game", "게임", "게이밍", "롤", "LoL", "배그", "RPG", "MMORPG", "서버 로밍",
			"Zone", "리그오브레전드", "PUBG", "아이템", "서버이동", "던파", "메이플",
			// Finance / ads blocking.
			"트래블로그", "트래블월렛", "환전", "수수료", "이벤트", "광고", "지급",
			"쿠폰", "당첨", "사전예약", "카드", "적금",
		},

		CoreKeywords: []WeightedKeyword{
			{Keyword: "로밍", Weight: 10},
			{Keyword: "eSIM", Weight: 10},
			{Keyword: "esim", Weight: 8},
			{Keyword: "SKT 바로", Weight: 15},
			{Keyword: "도시락 eSIM", Weight: 12},
			{Keyword: "말톡", Weight: 10},
			{Keyword: "유심사", Weight: 10},
			{Keyword: "이지에심", Weight: 10},
			{Keyword: "핀다이렉트", Weight: 10},
		},
		SecondaryKeywords: []WeightedKeyword{
			{Keyword: "KT", Weight: 8},
			{Keyword: "LGU+", Weight: 8},
			{Keyword: "LG유플러스", Weight: 8},
			{Keyword: "스타링크", Weight: 7},
			{Keyword: "5G SA", Weight: 7},
			{Keyword: "데이터 로밍", Weight: 9},
			{Keyword: "해외 데이터", Weight: 8},
			{Keyword: "여행 SIM", Weight: 8},
		},
		CoreCountCap:      3,
		SecondaryCountCap: 2,
		SecondaryDiscount: 0.7,
		DensityScale:      500,

		GameSignals: []string{
			"리그오브레전드", "롤드컵", "롤체전", "LoL", "PUBG", "배그",
			"MMORPG", "서버 이동", "소환사의 협곡",
		},
		GameContextWords: []string{"챔피언", "티어", "랭크", "게임"},
		TelecomContext: []string{
			"통신", "이동통신", "요금제", "데이터", "네트워크",
			"속도", "품질", "커버리지", "해외", "여행", "출국",
		},
		HomonymToken: "롤",

		SourceCredibility: []DomainTier{
			// Major wire / press outlets.
			{Domain: "yna.co.kr", Score: 100},
			{Domain: "newsis.com", Score: 95},
			{Domain: "news1.kr", Score: 95},
			{Domain: "hankyung.com", Score: 95},
			{Domain: "mk.co.kr", Score: 95},
			{Domain: "mt.co.kr", Score: 95},
			// IT trade press.
			{Domain: "zdnet.co.kr", Score: 90},
			{Domain: "bloter.net", Score: 90},
			{Domain: "etnews.com", Score: 90},
			// Portals.
			{Domain: "news.naver.com", Score: 85},
			{Domain: "v.daum.net", Score: 85},
		},
		BlogPatterns: []string{
			"blog.naver.com", "tistory.com", "brunch.co.kr",
			"cafe.naver.com", "cafe.daum.net",
		},
		CommunityPatterns: []string{
			"ppomppu.co.kr", "clien.net", "theqoo.net",
			"fmkorea.com", "ruliweb.com", "instiz.net", "dcinside.com",
		},
		BlogCredibility:      60,
		CommunityCredibility: 40,
		DefaultCredibility:   60,

		FreshnessBuckets: []FreshnessBucket{
			{MaxAgeHours: 6, Score: 100},
			{MaxAgeHours: 12, Score: 80},
			{MaxAgeHours: 24, Score: 60},
			{MaxAgeHours: 48, Score: 40},
		},
		StaleScore:       20,
		NeutralFreshness: 50,

		CompetitorBrands: []string{"kt", "kt-", "lgu+", "lg유플러스"},
		OwnBrands:        []string{"skt", "sk텔레콤"},
		CompetitorBonus:  30,
		OwnBrandPenalty:  10,

		Categories: []CategoryRule{
			{Category: CategoryCompetitors, Keywords: []string{
				"KT 로밍", "KT 데이터", "KT 로밍 요금제", "kt 로밍", "kt 데이터",
				"LGU+ 로밍", "LG유플러스 로밍", "lgu+ 로밍", "lg유플러스",
				"KT 통신", "LGU+ 통신",
			}},
			{Category: CategoryVOCRoaming, Keywords: []string{
				"로밍 후기", "로밍 리뷰", "로밍 추천", "로밍 재구매",
				"로밍 사용기", "로밍 사용법",
			}},
			{Category: CategoryESIMProducts, Keywords: []string{
				"도시락 esim", "도시락이심", "도시락 프로모션", "도시락 할인",
				"말톡 esim", "말톡이심", "말톡 프로모션", "말톡 할인",
				"유심사", "이지이심", "핀다이렉트", "eSIM 프로모션", "esim 프로모션",
			}},
			{Category: CategoryVOCESIM, Keywords: []string{
				"eSIM 후기", "esim 후기", "eSIM 리뷰", "esim 리뷰",
				"eSIM 추천", "esim 추천", "eSIM 재구매", "esim 재구매",
				"도시락 후기", "말톡 후기", "유심사 후기", "이지이심 후기",
			}},
			{Category: CategoryMarketCulture, Keywords: []string{
				"입국자", "출국자", "출입국자", "입국자수", "출국자수",
				"K-POP", "케이팝", "한류", "한국 여행", "일본 여행", "중국 여행",
				"베트남 여행", "필리핀 여행", "해외 여행객", "여행객수", "관광객",
			}},
		},

		IncludeThreshold:    30,
		CompetitorThreshold: 20,
		TitlePreviewRunes:   60,
	}
}
