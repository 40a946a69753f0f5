package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	// Inbound
	MessageTypeJoinAssessment MessageType = "join_assessment"
	MessageTypeVideoFrame     MessageType = "video_frame"
	MessageTypeAudioChunk     MessageType = "audio_chunk"
	MessageTypeTranscript     MessageType = "transcript_text"
	MessageTypePing           MessageType = "ping"

	// Outbound
	MessageTypeJoined          MessageType = "joined_session"
	MessageTypeFacialEmotion   MessageType = "facial_emotion"
	MessageTypeVocalEmotion    MessageType = "vocal_emotion"
	MessageTypeSentimentResult MessageType = "sentiment_result"
	MessageTypePong            MessageType = "pong"
	MessageTypeError           MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// JoinMessage binds the connection to a screening session.
type JoinMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
}

// VideoFrameMessage carries one base64-encoded video frame.
type VideoFrameMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	Frame     string `json:"frame"` // base64 encoded image, optional data-URL prefix
}

// AudioChunkMessage carries one chunk of base64-encoded 16-bit PCM mono audio.
type AudioChunkMessage struct {
	BaseMessage
	SessionID  string `json:"session_id"`
	Audio      string `json:"audio"` // base64 encoded
	SampleRate int    `json:"sample_rate,omitempty"`
	Transcribe bool   `json:"transcribe,omitempty"`
}

// TranscriptMessage carries a transcribed speech fragment.
type TranscriptMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// PingMessage is a connection health check.
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// FacialEmotionResult echoes a facial classification back to the client.
type FacialEmotionResult struct {
	BaseMessage
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// VocalEmotionResult echoes a vocal classification back to the client.
type VocalEmotionResult struct {
	BaseMessage
	Emotion    string `json:"emotion"`
	Transcript string `json:"transcript,omitempty"`
}

// SentimentResult echoes sentiment and keyword counts for a text fragment.
type SentimentResult struct {
	BaseMessage
	Polarity      float64 `json:"polarity"`
	Subjectivity  float64 `json:"subjectivity"`
	PositiveWords int     `json:"positive_words"`
	NegativeWords int     `json:"negative_words"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// MessageValidator parses raw payloads into tagged message types so nothing
// loosely typed reaches the aggregator.
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeJoinAssessment:
		var msg JoinMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid join message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		return &msg, nil

	case MessageTypeVideoFrame:
		var msg VideoFrameMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid video frame message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		if msg.Frame == "" {
			return nil, fmt.Errorf("frame is required")
		}
		return &msg, nil

	case MessageTypeAudioChunk:
		var msg AudioChunkMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid audio chunk message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		if msg.Audio == "" {
			return nil, fmt.Errorf("audio is required")
		}
		if msg.SampleRate != 0 && (msg.SampleRate < 8000 || msg.SampleRate > 48000) {
			return nil, fmt.Errorf("sample_rate must be between 8000 and 48000")
		}
		return &msg, nil

	case MessageTypeTranscript:
		var msg TranscriptMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid transcript message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		if msg.Text == "" {
			return nil, fmt.Errorf("text is required")
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Unix(),
		},
		Code:    code,
		Message: message,
	}
}
