package scoring

import (
	"context"
	"strings"
	"unicode"

	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/domain/repositories"
)

// NumItems is the number of scored screening items.
const NumItems = 9

// Severity bands over the summed item scores, strictly ordered.
const (
	SeverityNoneMinimal      = "None-Minimal"
	SeverityMild             = "Mild"
	SeverityModerate         = "Moderate"
	SeverityModeratelySevere = "Moderately Severe"
	SeveritySevere           = "Severe"
)

// ScoreResponse maps a free-text answer to an item score in {0,1,2,3}.
// The keyword buckets are checked in strict priority order; a bucket-0 word
// wins even when later buckets' words also appear. When no bucket matches,
// the sentiment capability decides: polarity below -0.3 scores 2, above 0.3
// scores 0, anything else 1. A failed sentiment call degrades to 0.0/0.0.
func ScoreResponse(ctx context.Context, text string, analyzer repositories.SentimentAnalyzer) int {
	lower := strings.ToLower(text)
	words := tokenize(lower)
	for _, bucket := range buckets {
		for _, kw := range bucket.keywords {
			if matchKeyword(lower, words, kw) {
				return bucket.score
			}
		}
	}

	var sentiment entities.SentimentScore
	if analyzer != nil {
		if s, err := analyzer.Analyze(ctx, text); err == nil {
			sentiment = s
		}
	}
	switch {
	case sentiment.Polarity < -0.3:
		return 2
	case sentiment.Polarity > 0.3:
		return 0
	default:
		return 1
	}
}

// ScoreResponses scores up to NumItems responses against their question
// index. Responses beyond the ninth are ignored; unanswered items stay 0.
func ScoreResponses(ctx context.Context, responses []entities.Response, analyzer repositories.SentimentAnalyzer) (scores [NumItems]int, total int) {
	for i, r := range responses {
		if i >= NumItems {
			break
		}
		s := ScoreResponse(ctx, r.Text, analyzer)
		scores[i] = s
		total += s
	}
	return scores, total
}

// matchKeyword matches multi-word keywords as substrings and single words on
// word boundaries, so "nothing" never trips the "no" bucket.
func matchKeyword(lower string, words []string, kw string) bool {
	if strings.Contains(kw, " ") {
		return strings.Contains(lower, kw)
	}
	for _, w := range words {
		if w == kw {
			return true
		}
	}
	return false
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// ClassifySeverity maps a total score in [0,27] to its severity band.
func ClassifySeverity(total int) string {
	switch {
	case total <= 4:
		return SeverityNoneMinimal
	case total <= 9:
		return SeverityMild
	case total <= 14:
		return SeverityModerate
	case total <= 19:
		return SeverityModeratelySevere
	default:
		return SeveritySevere
	}
}
