// Package sentiment provides sentiment-capability adapters: a Gemini-backed
// analyzer for production and a deterministic lexicon analyzer for
// development and tests. Both honor the degrade-to-default policy: a failed
// analysis yields the neutral 0.0/0.0 score, never an aborted session.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/serenica/server/domain/entities"
)

const geminiModel = "gemini-2.0-flash"

const geminiPrompt = `Rate the sentiment of the following text. Respond with only a JSON object ` +
	`{"polarity": p, "subjectivity": s} where p is in [-1,1] and s is in [0,1]. Text: %q`

// GeminiSentiment implements SentimentAnalyzer using Google's Gemini API.
type GeminiSentiment struct {
	client *genai.Client
	logger *zap.Logger
}

// NewGeminiSentiment creates a Gemini-backed sentiment analyzer.
func NewGeminiSentiment(logger *zap.Logger) (*GeminiSentiment, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSentiment{client: client, logger: logger}, nil
}

// Analyze implements repositories.SentimentAnalyzer. Empty text scores the
// 0.2/0.2 default; a failed call degrades to 0.0/0.0 instead of erroring.
func (g *GeminiSentiment) Analyze(ctx context.Context, text string) (entities.SentimentScore, error) {
	if strings.TrimSpace(text) == "" {
		return entities.SentimentScore{Polarity: 0.2, Subjectivity: 0.2}, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(geminiPrompt, text), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	}

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err == nil {
			break
		}
		g.logger.Warn("Sentiment generation failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		g.logger.Error("Sentiment analysis degraded to neutral default", zap.Error(err))
		return entities.SentimentScore{}, nil
	}

	score, ok := parseScore(response)
	if !ok {
		g.logger.Warn("Unparseable sentiment response, using neutral default")
		return entities.SentimentScore{}, nil
	}
	return score, nil
}

func parseScore(response *genai.GenerateContentResponse) (entities.SentimentScore, bool) {
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return entities.SentimentScore{}, false
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		text += part.Text
	}
	// Models tend to wrap JSON in a code fence.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var score entities.SentimentScore
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &score); err != nil {
		return entities.SentimentScore{}, false
	}
	if score.Polarity < -1 || score.Polarity > 1 || score.Subjectivity < 0 || score.Subjectivity > 1 {
		return entities.SentimentScore{}, false
	}
	return score, true
}
