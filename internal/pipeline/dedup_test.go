package pipeline

import (
	"reflect"
	"testing"
)

func TestDedupeTitleKeyIgnoresMarkup(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Title: "<b>로밍</b> 요금제 &quot;개편&quot;", Link: "https://a.example/1"},
		{Title: "로밍 요금제 개편", Link: "https://a.example/2"},
	}

	got := NewDeduplicator().Dedupe(records)
	if len(got) != 1 {
		t.Fatalf("expected markup-only title variants to collide, got %d records", len(got))
	}
	if got[0].Title != `로밍 요금제 "개편"` {
		t.Fatalf("survivor title not sanitized for display: %q", got[0].Title)
	}
}

func TestDedupeTitleKeyIgnoresEntityEncoding(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Title: "로밍 A&amp;B 요금제", Link: "https://a.example/1"},
		{Title: "로밍 A&B 요금제", Link: "https://a.example/2"},
		{Title: "&lt;신규&gt; eSIM 출시", Link: "https://a.example/3"},
		{Title: "<신규> eSIM 출시", Link: "https://a.example/4"},
	}

	got := NewDeduplicator().Dedupe(records)
	if len(got) != 2 {
		t.Fatalf("expected entity-only title variants to collide, got %d records", len(got))
	}
	if got[0].Title != "로밍 A&B 요금제" || got[1].Title != "<신규> eSIM 출시" {
		t.Fatalf("unexpected survivors: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestDedupeLinkKeySuffices(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Title: "KT 로밍 인하", Link: "https://a.example/1"},
		{Title: "완전히 다른 제목", Link: "https://a.example/1"},
	}

	got := NewDeduplicator().Dedupe(records)
	if len(got) != 1 {
		t.Fatalf("identical links must collide regardless of title, got %d records", len(got))
	}
	if got[0].Title != "KT 로밍 인하" {
		t.Fatalf("first occurrence should win, got %q", got[0].Title)
	}
}

func TestDedupeEmptyLinkIsNotAKey(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Title: "첫 번째 글", Link: ""},
		{Title: "두 번째 글", Link: ""},
		{Title: "세 번째 글", Link: ""},
	}

	got := NewDeduplicator().Dedupe(records)
	if len(got) != 3 {
		t.Fatalf("linkless records must not collide on the empty link, got %d records", len(got))
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Title: "가", Link: "https://a.example/1"},
		{Title: "나", Link: "https://a.example/2"},
		{Title: "가", Link: "https://a.example/3"},
		{Title: "다", Link: "https://a.example/4"},
	}

	got := NewDeduplicator().Dedupe(records)
	if len(got) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(got))
	}
	for i, want := range []string{"가", "나", "다"} {
		if got[i].Title != want {
			t.Fatalf("order not preserved at index %d: got %q, want %q", i, got[i].Title, want)
		}
	}
}

func TestDedupeIdempotent(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Title: "<b>로밍</b> 요금제", Snippet: "해외 &amp; 국내", Link: "https://a.example/1"},
		{Title: "eSIM &quot;후기&quot;", Link: "https://a.example/2"},
		{Title: "로밍 요금제", Link: "https://a.example/3"},
		{Title: "로밍 A&amp;B 요금제", Link: "https://a.example/4"},
		{Title: "로밍 A&B 요금제", Link: "https://a.example/5"},
		{Title: "링크 없는 글", Link: ""},
	}

	once := NewDeduplicator().Dedupe(records)
	twice := NewDeduplicator().Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestSanitizeDisplayText(t *testing.T) {
	t.Parallel()

	got := SanitizeDisplayText("<b>A&amp;B</b> &lt;테스트&gt; &quot;로밍&quot;")
	want := `A&B <테스트> "로밍"`
	if got != want {
		t.Fatalf("SanitizeDisplayText: got %q, want %q", got, want)
	}
}
