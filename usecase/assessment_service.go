package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/domain/repositories"
	"github.com/serenica/server/internal/cardio"
	"github.com/serenica/server/internal/emotion"
	"github.com/serenica/server/internal/recommend"
	"github.com/serenica/server/internal/scoring"
)

// ErrSessionNotFound is returned for operations on an unknown or already
// consumed-and-deleted session. Recoverable: the caller starts a new session.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotOwner is returned when a caller operates on a session created by a
// different user.
var ErrNotOwner = errors.New("session owned by another user")

// Submission is the final payload of a screening session. Start and end
// times are epoch milliseconds supplied by the client.
type Submission struct {
	Responses []entities.Response `json:"responses"`
	StartTime int64               `json:"startTime"`
	EndTime   int64               `json:"endTime"`
}

// AssessmentService orchestrates the screening flow: session lifecycle,
// heart-rate ingestion, and the one-shot submission that fuses every
// modality into a persisted assessment result.
type AssessmentService struct {
	sessions  repositories.SessionStore
	results   repositories.AssessmentRepository
	sentiment repositories.SentimentAnalyzer
	logger    *zap.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	sessions repositories.SessionStore,
	results repositories.AssessmentRepository,
	sentiment repositories.SentimentAnalyzer,
	logger *zap.Logger,
) *AssessmentService {
	return &AssessmentService{
		sessions:  sessions,
		results:   results,
		sentiment: sentiment,
		logger:    logger,
	}
}

// Start creates a fresh session for the owner.
func (s *AssessmentService) Start(ownerID string) (*entities.Session, error) {
	session, err := s.sessions.Create(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("Assessment session started",
		zap.String("sessionID", session.ID),
		zap.String("ownerID", ownerID))
	return session, nil
}

// Abandon discards a session without scoring it.
func (s *AssessmentService) Abandon(sessionID, ownerID string) error {
	if _, err := s.ownedSession(sessionID, ownerID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	s.logger.Info("Assessment session abandoned", zap.String("sessionID", sessionID))
	return nil
}

// AttachHeartRate runs the batch cardiovascular pipeline over an uploaded
// heart-rate record and attaches the result to the session. Unusable input
// yields (nil, nil): the cardiovascular block is simply absent.
func (s *AssessmentService) AttachHeartRate(sessionID, ownerID string, record io.Reader) (*entities.CardiovascularResult, error) {
	session, err := s.ownedSession(sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	result := cardio.Analyze(record)
	if result == nil {
		s.logger.Warn("Heart-rate record unusable, cardiovascular block omitted",
			zap.String("sessionID", sessionID))
		return nil, nil
	}
	session.SetCardio(result)
	s.logger.Info("Cardiovascular analysis attached",
		zap.String("sessionID", sessionID),
		zap.String("stressLevel", result.StressLevel),
		zap.Int("dataPoints", result.DataPoints))
	return result, nil
}

// Submit performs the exclusive, one-shot final scoring of a session. Either
// the fully aggregated result is persisted and the session deleted, or
// nothing is: on any failure the session is released for retry. Repeated
// submission returns entities.ErrSessionConsumed.
func (s *AssessmentService) Submit(ctx context.Context, sessionID, ownerID string, sub Submission) (result *entities.AssessmentResult, err error) {
	session, err := s.ownedSession(sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := session.Consume(); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			session.Release()
		}
	}()

	scores, total := scoring.ScoreResponses(ctx, sub.Responses, s.sentiment)

	result = &entities.AssessmentResult{
		ID:         uuid.NewString(),
		OwnerID:    session.OwnerID,
		SessionID:  session.ID,
		Timestamp:  time.Now(),
		ItemScores: scores,
		Total:      total,
		Cardio:     session.Cardio(),
	}
	if n := len(sub.Responses); n > scoring.NumItems {
		result.ResponseCount = scoring.NumItems
	} else {
		result.ResponseCount = n
	}

	result.Facial = emotion.AggregateFacial(session.FacialTimeline())
	if vocal := session.VocalTimeline(); len(vocal) > 0 {
		result.VocalDominant = emotion.AggregateVocal(vocal)
	}

	texts := make([]string, 0, len(sub.Responses))
	for _, r := range sub.Responses {
		texts = append(texts, r.Text)
	}
	transcript := strings.TrimSpace(strings.Join(texts, " "))
	if transcript != "" {
		result.Transcript = transcript
		result.Sentiment = s.analyzeSentiment(ctx, transcript)
	}

	if sub.EndTime > sub.StartTime {
		result.DurationSeconds = int((sub.EndTime - sub.StartTime) / 1000)
	}

	result.Severity, result.Recommendations = recommend.Generate(result)

	if err = s.results.Create(ctx, result); err != nil {
		s.logger.Error("Failed to persist assessment result, session preserved for retry",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to persist assessment: %w", err)
	}

	s.sessions.Delete(sessionID)

	s.logger.Info("Assessment submitted",
		zap.String("sessionID", sessionID),
		zap.String("resultID", result.ID),
		zap.Int("total", total),
		zap.String("severity", result.Severity))

	return result, nil
}

// Result fetches a persisted assessment by id.
func (s *AssessmentService) Result(ctx context.Context, id string) (*entities.AssessmentResult, error) {
	return s.results.GetByID(ctx, id)
}

// History lists an owner's persisted assessments, most recent first.
func (s *AssessmentService) History(ctx context.Context, ownerID string, limit int) ([]*entities.AssessmentResult, error) {
	return s.results.ListByOwner(ctx, ownerID, limit)
}

// ownedSession resolves a session and verifies the caller owns it. Ownership
// is checked against the session record itself, never against the shape of
// the session id.
func (s *AssessmentService) ownedSession(sessionID, ownerID string) (*entities.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return session, nil
}

// analyzeSentiment applies the degrade-to-default policy: a failed sentiment
// call scores 0.0/0.0 rather than aborting the submission.
func (s *AssessmentService) analyzeSentiment(ctx context.Context, text string) *entities.SentimentScore {
	score := entities.SentimentScore{}
	if s.sentiment != nil {
		if v, err := s.sentiment.Analyze(ctx, text); err == nil {
			score = v
		} else {
			s.logger.Warn("Sentiment analysis failed, using neutral default", zap.Error(err))
		}
	}
	return &score
}
