package repositories

import (
	"context"

	"github.com/serenica/server/domain/entities"
)

// EmotionPrediction is the output of a facial classification capability.
type EmotionPrediction struct {
	Emotion    string  `json:"dominant_emotion"`
	Confidence float64 `json:"confidence"`
}

// FacialClassifier abstracts facial-expression classification. Input is a
// raw encoded image frame; the implementation is a black box.
type FacialClassifier interface {
	ClassifyFrame(ctx context.Context, frame []byte) (EmotionPrediction, error)
}

// VocalClassifier abstracts vocal-emotion classification over a chunk of
// 16-bit PCM mono audio.
type VocalClassifier interface {
	ClassifyAudio(ctx context.Context, audio []byte, config AudioConfig) (string, error)
}

// SentimentAnalyzer scores free text for polarity and subjectivity.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (entities.SentimentScore, error)
}
