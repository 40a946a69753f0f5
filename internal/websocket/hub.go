package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/domain/repositories"
	"github.com/serenica/server/internal/scoring"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for frames and audio chunks

	// Deadline for one capability call.
	classifyTimeout = 10 * time.Second

	defaultSampleRate = 44100
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients and fans incoming modality events
// out to the classification capabilities, appending results to the bound
// session's timelines.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	sessions  repositories.SessionStore
	facial    repositories.FacialClassifier
	vocal     repositories.VocalClassifier
	sentiment repositories.SentimentAnalyzer
	stt       repositories.SpeechToText // optional; nil disables transcription

	validator *MessageValidator
	logger    *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(
	sessions repositories.SessionStore,
	facial repositories.FacialClassifier,
	vocal repositories.VocalClassifier,
	sentiment repositories.SentimentAnalyzer,
	stt repositories.SpeechToText,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sessions:   sessions,
		facial:     facial,
		vocal:      vocal,
		sentiment:  sentiment,
		stt:        stt,
		validator:  NewMessageValidator(),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("userID", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("userID", client.userID))
		}
	}
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Authenticated user for this connection.
	userID string

	// Session bound via join_assessment.
	mutex     sync.Mutex
	sessionID string

	logger *zap.Logger
}

// HandleWebSocket handles websocket requests with a pre-authenticated user ID.
func HandleWebSocket(hub *Hub, c echo.Context, userID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan WriteData, 256),
		userID: userID,
		logger: logger,
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn("Ignoring non-text message", zap.Int("type", messageType))
			continue
		}
		c.processMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage routes one validated message to its modality handler.
func (c *Client) processMessage(message []byte) {
	parsed, err := c.hub.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Rejected message", zap.Error(err))
		c.sendJSON(CreateErrorMessage("invalid_message", err.Error()))
		return
	}

	switch msg := parsed.(type) {
	case *JoinMessage:
		c.handleJoin(msg)
	case *VideoFrameMessage:
		c.handleVideoFrame(msg)
	case *AudioChunkMessage:
		c.handleAudioChunk(msg)
	case *TranscriptMessage:
		c.handleTranscript(msg)
	case *PingMessage:
		c.sendJSON(&BaseMessage{Type: MessageTypePong, Timestamp: time.Now().Unix()})
	}
}

func (c *Client) handleJoin(msg *JoinMessage) {
	session, ok := c.hub.sessions.Get(msg.SessionID)
	if !ok || session.OwnerID != c.userID {
		c.sendJSON(CreateErrorMessage("invalid_session", "session not found"))
		return
	}

	c.mutex.Lock()
	c.sessionID = msg.SessionID
	c.mutex.Unlock()

	c.logger.Info("Client joined session",
		zap.String("userID", c.userID),
		zap.String("sessionID", msg.SessionID))
	c.sendJSON(&JoinMessage{
		BaseMessage: BaseMessage{Type: MessageTypeJoined, Timestamp: time.Now().Unix()},
		SessionID:   msg.SessionID,
	})
}

// boundSession resolves the message's session, requiring a prior join.
func (c *Client) boundSession(sessionID string) (*entities.Session, bool) {
	c.mutex.Lock()
	joined := c.sessionID
	c.mutex.Unlock()
	if joined == "" || joined != sessionID {
		c.sendJSON(CreateErrorMessage("not_joined", "join the session before sending events"))
		return nil, false
	}
	session, found := c.hub.sessions.Get(sessionID)
	if !found {
		c.sendJSON(CreateErrorMessage("invalid_session", "session not found"))
		return nil, false
	}
	return session, true
}

func (c *Client) handleVideoFrame(msg *VideoFrameMessage) {
	session, ok := c.boundSession(msg.SessionID)
	if !ok {
		return
	}

	frame, err := decodePayload(msg.Frame)
	if err != nil {
		c.sendJSON(CreateErrorMessage("invalid_frame", "frame is not valid base64"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	prediction, err := c.hub.facial.ClassifyFrame(ctx, frame)
	if err != nil {
		// Degrade: a failed facial classification drops this event only.
		c.logger.Warn("Facial classification failed", zap.Error(err))
		return
	}

	session.AppendFacial(prediction.Emotion, prediction.Confidence, msg.Timestamp)

	c.sendJSON(&FacialEmotionResult{
		BaseMessage: BaseMessage{Type: MessageTypeFacialEmotion, Timestamp: msg.Timestamp},
		Emotion:     prediction.Emotion,
		Confidence:  prediction.Confidence,
	})
}

func (c *Client) handleAudioChunk(msg *AudioChunkMessage) {
	session, ok := c.boundSession(msg.SessionID)
	if !ok {
		return
	}

	audio, err := decodePayload(msg.Audio)
	if err != nil {
		c.sendJSON(CreateErrorMessage("invalid_audio", "audio is not valid base64"))
		return
	}

	config := repositories.AudioConfig{
		SampleRate: msg.SampleRate,
		Encoding:   "LINEAR16",
		Language:   "en-US",
	}
	if config.SampleRate == 0 {
		config.SampleRate = defaultSampleRate
	}

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	emotion, err := c.hub.vocal.ClassifyAudio(ctx, audio, config)
	if err != nil {
		// Degrade: a failed vocal classification defaults to neutral.
		c.logger.Warn("Vocal classification failed, defaulting to neutral", zap.Error(err))
		emotion = "neutral"
	}

	session.AppendVocal(emotion, msg.Timestamp)

	result := &VocalEmotionResult{
		BaseMessage: BaseMessage{Type: MessageTypeVocalEmotion, Timestamp: msg.Timestamp},
		Emotion:     emotion,
	}

	if msg.Transcribe && c.hub.stt != nil {
		text, err := c.hub.stt.TranscribeAudio(ctx, audio, config)
		if err != nil {
			c.logger.Warn("Transcription failed", zap.Error(err))
		} else if text != "" {
			session.AppendTranscript(text)
			result.Transcript = text
		}
	}

	c.sendJSON(result)
}

func (c *Client) handleTranscript(msg *TranscriptMessage) {
	session, ok := c.boundSession(msg.SessionID)
	if !ok {
		return
	}

	session.AppendTranscript(msg.Text)

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	score, err := c.hub.sentiment.Analyze(ctx, msg.Text)
	if err != nil {
		// Degrade: failed sentiment scores the neutral 0.0/0.0 default.
		c.logger.Warn("Sentiment analysis failed, using neutral default", zap.Error(err))
	}

	positive, negative := scoring.CountKeywords(msg.Text)

	c.sendJSON(&SentimentResult{
		BaseMessage:   BaseMessage{Type: MessageTypeSentimentResult, Timestamp: msg.Timestamp},
		Polarity:      score.Polarity,
		Subjectivity:  score.Subjectivity,
		PositiveWords: positive,
		NegativeWords: negative,
	})
}

func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Send buffer full, dropping message", zap.String("userID", c.userID))
	}
}

// decodePayload decodes base64 content, tolerating a data-URL prefix.
func decodePayload(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
