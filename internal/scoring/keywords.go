package scoring

import "strings"

// scoreBucket maps answer keywords to a clinical item score. Buckets are
// checked in slice order and the first hit wins. Single words match on word
// boundaries; phrases match as substrings.
type scoreBucket struct {
	score    int
	keywords []string
}

var buckets = []scoreBucket{
	{0, []string{"never", "not at all", "rarely", "no", "none"}},
	{1, []string{"sometimes", "occasionally", "a few", "once"}},
	{2, []string{"often", "frequently", "many", "several"}},
	{3, []string{"always", "every day", "constantly", "all the time", "daily"}},
}

// PositiveWords and NegativeWords are the fixed lexicons counted on every
// transcribed text event.
var PositiveWords = []string{
	"good", "happy", "better", "enjoy", "love", "great", "excellent",
	"wonderful", "positive", "excited", "glad", "thankful",
}

var NegativeWords = []string{
	"bad", "sad", "worse", "hate", "terrible", "awful", "depressed",
	"hopeless", "never", "nothing", "nobody", "tired", "exhausted",
	"lonely", "worthless", "stupid", "low", "despise", "alone",
}

// CountKeywords returns case-insensitive substring counts of the positive and
// negative word lists. Counts are per list entry, not deduplicated.
func CountKeywords(text string) (positive, negative int) {
	lower := strings.ToLower(text)
	for _, w := range PositiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range NegativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	return positive, negative
}
