package sentiment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/domain/repositories"
	"github.com/serenica/server/internal/scoring"
)

// LexiconSentiment scores text from the fixed positive/negative word lists.
// It is fully deterministic and needs no network, which makes it the default
// analyzer when no Gemini key is configured.
type LexiconSentiment struct {
	logger *zap.Logger
}

// NewLexiconSentiment creates a new lexicon sentiment analyzer
func NewLexiconSentiment(logger *zap.Logger) repositories.SentimentAnalyzer {
	return &LexiconSentiment{logger: logger}
}

// Analyze implements repositories.SentimentAnalyzer. Empty text scores the
// 0.2/0.2 default.
func (l *LexiconSentiment) Analyze(ctx context.Context, text string) (entities.SentimentScore, error) {
	if strings.TrimSpace(text) == "" {
		return entities.SentimentScore{Polarity: 0.2, Subjectivity: 0.2}, nil
	}

	positive, negative := scoring.CountKeywords(text)
	hits := positive + negative
	if hits == 0 {
		return entities.SentimentScore{}, nil
	}

	words := len(strings.Fields(text))
	subjectivity := float64(hits) / float64(words)
	if subjectivity > 1 {
		subjectivity = 1
	}

	return entities.SentimentScore{
		Polarity:     float64(positive-negative) / float64(hits),
		Subjectivity: subjectivity,
	}, nil
}
