package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/roamsift/internal/pipeline"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Detector infers a record's origin kind from its text when the collector
// left it untagged: Korean text is domestic coverage, anything else is
// treated as global. It satisfies pipeline.OriginDetector.
type Detector struct{}

func New() Detector {
	return Detector{}
}

func (Detector) DetectKind(text string) pipeline.Kind {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return pipeline.KindUnknown
	}

	// Hangul in the text settles it without running the language models.
	letterCount := 0
	for _, r := range sample {
		if unicode.Is(unicode.Hangul, r) {
			return pipeline.KindDomestic
		}
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return pipeline.KindUnknown
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return pipeline.KindUnknown
	}
	if language == lingua.Korean {
		return pipeline.KindDomestic
	}
	return pipeline.KindGlobal
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Korean, lingua.English, lingua.Japanese, lingua.Chinese).
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
