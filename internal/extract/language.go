package extract

import "strings"

// Language labels used by DetectLanguage. The heuristic is intentionally
// coarse: a usable signal for downstream filtering, not linguistics.
const (
	LanguageEnglish = "en"
	LanguageUnknown = "unknown"
)

// englishStopWords is the fixed sample set for the language heuristic.
var englishStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true,
	"a": true, "an": true,
}

const (
	// languageSampleWords caps how much of the document is sampled.
	languageSampleWords = 100
	// englishRatioThreshold is the stop-word share above which text is
	// classified as English.
	englishRatioThreshold = 0.10
)

// DetectLanguage classifies text as English or unknown by counting
// stop words in the first languageSampleWords words.
func DetectLanguage(text string) string {
	return detectLanguage(text, languageSampleWords, englishRatioThreshold)
}

func detectLanguage(text string, sampleWords int, threshold float64) string {
	if text == "" {
		return LanguageUnknown
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return LanguageUnknown
	}
	if len(words) > sampleWords {
		words = words[:sampleWords]
	}

	hits := 0
	for _, w := range words {
		if englishStopWords[w] {
			hits++
		}
	}

	if float64(hits) > float64(len(words))*threshold {
		return LanguageEnglish
	}
	return LanguageUnknown
}
