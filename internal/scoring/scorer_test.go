package scoring

import (
	"context"
	"testing"

	"github.com/serenica/server/domain/entities"
)

// stubAnalyzer returns a fixed sentiment score.
type stubAnalyzer struct {
	score entities.SentimentScore
}

func (s *stubAnalyzer) Analyze(ctx context.Context, text string) (entities.SentimentScore, error) {
	return s.score, nil
}

func TestScoreResponseBuckets(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Not at all", 0},
		{"I never feel sad", 0}, // bucket-0 keyword wins over apparent negativity
		{"sometimes I do", 1},
		{"maybe once or twice", 1},
		{"it happens often", 2},
		{"several times this week", 2},
		{"every day without fail", 3},
		{"constantly, all the time", 3},
		{"NEVER", 0}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ScoreResponse(context.Background(), tt.text, nil)
			if got != tt.want {
				t.Errorf("ScoreResponse(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestScoreResponseBucketPriority(t *testing.T) {
	// Both bucket-0 ("no") and bucket-3 ("always") words appear; the earlier
	// bucket must win.
	if got := ScoreResponse(context.Background(), "no, not always", nil); got != 0 {
		t.Errorf("Expected bucket 0 to win, got %d", got)
	}
}

func TestScoreResponseSentimentFallback(t *testing.T) {
	tests := []struct {
		name     string
		polarity float64
		want     int
	}{
		{"neutral polarity", 0.0, 1},
		{"negative polarity", -0.5, 2},
		{"positive polarity", 0.5, 0},
		{"boundary -0.3", -0.3, 1},
		{"boundary 0.3", 0.3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &stubAnalyzer{score: entities.SentimentScore{Polarity: tt.polarity}}
			got := ScoreResponse(context.Background(), "I feel alright, nothing special", analyzer)
			if got != tt.want {
				t.Errorf("fallback with polarity %.1f = %d, want %d", tt.polarity, got, tt.want)
			}
		})
	}
}

func TestScoreResponseNilAnalyzer(t *testing.T) {
	// No analyzer degrades to the neutral default, which scores 1.
	if got := ScoreResponse(context.Background(), "I feel alright", nil); got != 1 {
		t.Errorf("Expected 1 with nil analyzer, got %d", got)
	}
}

func TestScoreResponses(t *testing.T) {
	responses := make([]entities.Response, 0, 12)
	for i := 0; i < 12; i++ {
		responses = append(responses, entities.Response{Index: i, Text: "every day"})
	}

	scores, total := ScoreResponses(context.Background(), responses, nil)
	if total != 27 {
		t.Errorf("Expected responses beyond nine to be ignored, total = %d", total)
	}
	for i, s := range scores {
		if s != 3 {
			t.Errorf("scores[%d] = %d, want 3", i, s)
		}
	}
}

func TestScoreResponsesPartial(t *testing.T) {
	responses := []entities.Response{
		{Index: 0, Text: "often"},
		{Index: 1, Text: "often"},
	}

	scores, total := ScoreResponses(context.Background(), responses, nil)
	if total != 4 {
		t.Errorf("Expected total 4, got %d", total)
	}
	for i := 2; i < NumItems; i++ {
		if scores[i] != 0 {
			t.Errorf("Unanswered item %d should score 0, got %d", i, scores[i])
		}
	}
}

func TestClassifySeverityBoundaries(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, SeverityNoneMinimal},
		{4, SeverityNoneMinimal},
		{5, SeverityMild},
		{9, SeverityMild},
		{10, SeverityModerate},
		{14, SeverityModerate},
		{15, SeverityModeratelySevere},
		{19, SeverityModeratelySevere},
		{20, SeveritySevere},
		{27, SeveritySevere},
	}

	for _, tt := range tests {
		if got := ClassifySeverity(tt.total); got != tt.want {
			t.Errorf("ClassifySeverity(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestCountKeywords(t *testing.T) {
	positive, negative := CountKeywords("I feel good but tired and hopeless")
	if positive != 1 {
		t.Errorf("Expected 1 positive hit, got %d", positive)
	}
	if negative != 2 {
		t.Errorf("Expected 2 negative hits, got %d", negative)
	}

	positive, negative = CountKeywords("")
	if positive != 0 || negative != 0 {
		t.Errorf("Empty text should count nothing, got %d/%d", positive, negative)
	}
}
