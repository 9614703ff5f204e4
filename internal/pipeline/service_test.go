package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubDetector struct {
	kind Kind
}

func (d stubDetector) DetectKind(string) Kind { return d.kind }

func newTestService(rules Rules) *Service {
	return NewService(rules, zerolog.Nop())
}

func TestRunEndToEnd(t *testing.T) {
	withMockNow(t, testNow)
	svc := newTestService(DefaultRules())

	records := []Record{
		{
			Title:     "KT, 해외 로밍 요금제 50% 인하 발표",
			Link:      "https://news.naver.com/main/read.nhn?oid=029&aid=0001",
			Snippet:   "KT 로밍 요금제가 대폭 인하된다고 발표됐다",
			Source:    "Naver News",
			Published: "Mon, 19 Jan 2026 12:00:00 +0900",
			Kind:      KindDomestic,
		},
		{
			// Duplicate of the first by link.
			Title:     "KT 로밍 인하 단신",
			Link:      "https://news.naver.com/main/read.nhn?oid=029&aid=0001",
			Snippet:   "요금제 인하 소식",
			Source:    "Naver News",
			Published: "Mon, 19 Jan 2026 12:05:00 +0900",
			Kind:      KindDomestic,
		},
		{
			// Rejected by the validator: listing-page link.
			Title:     "로밍 뉴스 모음",
			Link:      "https://example.com/list.php?page=1",
			Snippet:   "로밍 관련 기사 모음",
			Source:    "Example",
			Kind:      KindDomestic,
		},
		{
			// Reaches the scorer but fails the threshold.
			Title:     "주말 날씨 전망",
			Link:      "https://weather.example.com/forecast",
			Snippet:   "전국이 대체로 맑겠다",
			Source:    "Weather",
			Published: "Mon, 12 Jan 2026 12:00:00 +0900",
			Kind:      KindDomestic,
		},
	}

	retained, diagnostics := svc.Run(records, 30)

	if len(retained) != 1 {
		t.Fatalf("expected 1 retained record, got %d", len(retained))
	}
	if retained[0].Category != CategoryCompetitors {
		t.Fatalf("retained category = %q, want %q", retained[0].Category, CategoryCompetitors)
	}
	if retained[0].Score <= 0 {
		t.Fatalf("retained score = %.1f, want > 0", retained[0].Score)
	}

	// Diagnostics cover every record the scorer saw: the dedup winner and
	// the below-threshold record, not the validator reject or the duplicate.
	if len(diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diagnostics))
	}
	if !diagnostics[0].Included || diagnostics[0].Reason != ReasonPassed {
		t.Fatalf("first diagnostic = %+v, want included/passed", diagnostics[0])
	}
	if diagnostics[1].Included || diagnostics[1].Reason != ReasonBelowThreshold {
		t.Fatalf("second diagnostic = %+v, want excluded/below_threshold", diagnostics[1])
	}
}

func TestRunDefaultThreshold(t *testing.T) {
	withMockNow(t, testNow)
	svc := newTestService(DefaultRules())

	_, diagnostics := svc.Run([]Record{{
		Title:   "해외 로밍 데이터 요금 안내",
		Link:    "https://news.naver.com/article/77",
		Snippet: "해외 로밍 데이터 사용법",
		Kind:    KindDomestic,
	}}, 0)

	if len(diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diagnostics))
	}
}

func TestRunTitlePreviewTruncation(t *testing.T) {
	withMockNow(t, testNow)
	rules := DefaultRules()
	rules.TitlePreviewRunes = 10
	svc := newTestService(rules)

	_, diagnostics := svc.Run([]Record{{
		Title:   "로밍 요금제 전면 개편에 따른 소비자 반응 심층 분석",
		Link:    "https://news.naver.com/article/1",
		Snippet: "해외 로밍",
		Kind:    KindDomestic,
	}}, 30)

	if len(diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diagnostics))
	}
	if got := len([]rune(diagnostics[0].Title)); got > 10 {
		t.Fatalf("diagnostic title preview has %d runes, want <= 10", got)
	}
}

func TestRunResolvesUnknownKind(t *testing.T) {
	withMockNow(t, testNow)
	svc := newTestService(DefaultRules())
	svc.UseOriginDetector(stubDetector{kind: KindGlobal})

	retained, _ := svc.Run([]Record{{
		Title:   "Global eSIM market trends and analysis",
		Link:    "https://telecoms.example.com/esim-market",
		Snippet: "The global roaming industry keeps growing, esim adoption doubles",
	}}, 10)

	if len(retained) != 1 {
		t.Fatalf("expected 1 retained record, got %d", len(retained))
	}
	if retained[0].Category != CategoryGlobalTrend {
		t.Fatalf("detector-resolved kind should classify as global_trend, got %q", retained[0].Category)
	}
}

func TestRunRecencyGate(t *testing.T) {
	withMockNow(t, testNow)
	rules := DefaultRules()
	rules.MaxAge = Duration(24 * time.Hour)
	svc := newTestService(rules)

	records := []Record{
		{
			Title:     "오래된 로밍 기사",
			Link:      "https://news.naver.com/article/old",
			Snippet:   "해외 로밍 소식",
			Published: "Mon, 12 Jan 2026 12:00:00 +0900",
			Kind:      KindDomestic,
		},
		{
			// Compact date naming yesterday passes the lenient day check.
			Title:     "어제 올라온 eSIM 후기",
			Link:      "https://blog.naver.com/writer/100",
			Snippet:   "eSIM 사용 후기",
			Published: "20260118",
			Kind:      KindDomestic,
		},
		{
			// No timestamp fails open.
			Title:     "날짜 없는 로밍 글",
			Link:      "https://blog.naver.com/writer/101",
			Snippet:   "로밍 요금 정보",
			Kind:      KindDomestic,
		},
	}

	_, diagnostics := svc.Run(records, 30)
	if len(diagnostics) != 2 {
		t.Fatalf("expected the stale record to be gated before scoring, got %d diagnostics", len(diagnostics))
	}
	for _, diag := range diagnostics {
		if strings.Contains(diag.Title, "오래된") {
			t.Fatalf("stale record reached the scorer: %+v", diag)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	t.Parallel()

	retained := []ClassifiedRecord{
		{Record: Record{Title: "a"}, Category: CategoryCompetitors},
		{Record: Record{Title: "b"}, Category: CategoryVOCRoaming},
		{Record: Record{Title: "c"}, Category: CategoryCompetitors},
	}

	grouped := GroupByCategory(retained)
	if len(grouped[CategoryCompetitors]) != 2 {
		t.Fatalf("competitors group has %d records, want 2", len(grouped[CategoryCompetitors]))
	}
	if len(grouped[CategoryVOCRoaming]) != 1 {
		t.Fatalf("voc_roaming group has %d records, want 1", len(grouped[CategoryVOCRoaming]))
	}
}
