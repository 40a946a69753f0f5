package emotion

import (
	"context"

	"go.uber.org/zap"

	"github.com/serenica/server/domain/repositories"
)

var mockFacialEmotions = []string{"neutral", "happy", "sad", "surprise", "angry"}
var mockVocalEmotions = []string{"neutral", "calm", "sad", "happy"}

// MockFacialClassifier is a placeholder facial classifier. Output is
// deterministic in the frame bytes so tests are reproducible.
type MockFacialClassifier struct {
	logger *zap.Logger
}

// NewMockFacialClassifier creates a new mock facial classifier
func NewMockFacialClassifier(logger *zap.Logger) repositories.FacialClassifier {
	return &MockFacialClassifier{logger: logger}
}

// ClassifyFrame implements repositories.FacialClassifier
func (m *MockFacialClassifier) ClassifyFrame(ctx context.Context, frame []byte) (repositories.EmotionPrediction, error) {
	m.logger.Debug("Mock facial classification", zap.Int("frameSize", len(frame)))
	return repositories.EmotionPrediction{
		Emotion:    mockFacialEmotions[len(frame)%len(mockFacialEmotions)],
		Confidence: 0.5 + float64(len(frame)%50)/100,
	}, nil
}

// MockVocalClassifier is a placeholder vocal classifier.
type MockVocalClassifier struct {
	logger *zap.Logger
}

// NewMockVocalClassifier creates a new mock vocal classifier
func NewMockVocalClassifier(logger *zap.Logger) repositories.VocalClassifier {
	return &MockVocalClassifier{logger: logger}
}

// ClassifyAudio implements repositories.VocalClassifier
func (m *MockVocalClassifier) ClassifyAudio(ctx context.Context, audio []byte, config repositories.AudioConfig) (string, error) {
	m.logger.Debug("Mock vocal classification",
		zap.Int("audioSize", len(audio)),
		zap.Int("sampleRate", config.SampleRate))
	return mockVocalEmotions[len(audio)%len(mockVocalEmotions)], nil
}
