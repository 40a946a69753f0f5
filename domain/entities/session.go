package entities

import (
	"errors"
	"sync"
	"time"
)

// SessionStatus represents the lifecycle state of a screening session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusSubmitted SessionStatus = "submitted"
)

// ErrSessionConsumed is returned when a session is submitted more than once.
var ErrSessionConsumed = errors.New("session already submitted")

// FacialEvent is one facial-expression classification appended to a session.
// Timestamps are client-supplied and not guaranteed monotonic or unique.
type FacialEvent struct {
	Emotion    string  `json:"emotion" bson:"emotion"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	Timestamp  int64   `json:"timestamp" bson:"timestamp"`
}

// VocalEvent is one vocal-emotion classification appended to a session.
type VocalEvent struct {
	Emotion   string `json:"emotion" bson:"emotion"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

// Response is one free-text answer to a screening question.
type Response struct {
	Index int    `json:"index"`
	Text  string `json:"response"`
}

// Session accumulates per-modality timelines during a live screening session.
// Appends from concurrent event handlers are serialized by the session's own
// mutex; different sessions share no state.
type Session struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time

	mu           sync.Mutex
	status       SessionStatus
	lastActiveAt time.Time
	facial       []FacialEvent
	vocal        []VocalEvent
	transcripts  []string
	cardio       *CardiovascularResult
}

// NewSession creates an active session for an owner.
func NewSession(id, ownerID string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		OwnerID:      ownerID,
		CreatedAt:    now,
		status:       SessionStatusActive,
		lastActiveAt: now,
	}
}

// AppendFacial records a facial classification event in arrival order.
func (s *Session) AppendFacial(emotion string, confidence float64, timestamp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facial = append(s.facial, FacialEvent{Emotion: emotion, Confidence: confidence, Timestamp: timestamp})
	s.lastActiveAt = time.Now()
}

// AppendVocal records a vocal classification event in arrival order.
func (s *Session) AppendVocal(emotion string, timestamp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocal = append(s.vocal, VocalEvent{Emotion: emotion, Timestamp: timestamp})
	s.lastActiveAt = time.Now()
}

// AppendTranscript stores a transcribed speech fragment.
func (s *Session) AppendTranscript(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts = append(s.transcripts, text)
	s.lastActiveAt = time.Now()
}

// FacialTimeline returns a copy of the facial timeline in arrival order.
func (s *Session) FacialTimeline() []FacialEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FacialEvent, len(s.facial))
	copy(out, s.facial)
	return out
}

// VocalTimeline returns a copy of the vocal timeline in arrival order.
func (s *Session) VocalTimeline() []VocalEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VocalEvent, len(s.vocal))
	copy(out, s.vocal)
	return out
}

// Transcripts returns a copy of the stored transcript fragments.
func (s *Session) Transcripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.transcripts))
	copy(out, s.transcripts)
	return out
}

// SetCardio attaches the output of the batch heart-rate pipeline. A later
// upload replaces an earlier one.
func (s *Session) SetCardio(result *CardiovascularResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardio = result
	s.lastActiveAt = time.Now()
}

// Cardio returns the attached cardiovascular result, nil when absent.
func (s *Session) Cardio() *CardiovascularResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cardio
}

// Status returns the current lifecycle state.
func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastActiveAt returns the time of the most recent append or creation.
func (s *Session) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveAt
}

// IdleFor reports how long the session has gone without activity.
func (s *Session) IdleFor() time.Duration {
	return time.Since(s.LastActiveAt())
}

// Consume transitions the session to submitted. Submission is one-shot: the
// first caller wins and every later call gets ErrSessionConsumed.
func (s *Session) Consume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SessionStatusActive {
		return ErrSessionConsumed
	}
	s.status = SessionStatusSubmitted
	return nil
}

// Release returns a consumed session to active so a failed submission can be
// retried with all accumulated timelines intact.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = SessionStatusActive
}

// Validate validates the session data
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if s.OwnerID == "" {
		return errors.New("owner id is required")
	}
	return nil
}
