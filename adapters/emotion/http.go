// Package emotion provides classifier capability adapters. The production
// adapters call external classification services over HTTP; the mock adapters
// produce deterministic labels for development and tests.
package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/serenica/server/domain/repositories"
)

// HTTPClassifier talks to an external classification service exposing
// /classify/face and /classify/voice endpoints.
type HTTPClassifier struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClassifier creates a classifier client for the given service URL.
func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	return &HTTPClassifier{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

type frameRequest struct {
	Frame string `json:"frame"` // base64 encoded image
}

type audioRequest struct {
	Audio      string `json:"audio"` // base64 encoded 16-bit PCM mono
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
}

type audioResponse struct {
	Emotion string `json:"emotion"`
}

// ClassifyFrame implements repositories.FacialClassifier
func (h *HTTPClassifier) ClassifyFrame(ctx context.Context, frame []byte) (repositories.EmotionPrediction, error) {
	var out repositories.EmotionPrediction
	body := frameRequest{Frame: base64.StdEncoding.EncodeToString(frame)}
	if err := h.post(ctx, "/classify/face", body, &out); err != nil {
		return repositories.EmotionPrediction{}, err
	}
	return out, nil
}

// ClassifyAudio implements repositories.VocalClassifier
func (h *HTTPClassifier) ClassifyAudio(ctx context.Context, audio []byte, config repositories.AudioConfig) (string, error) {
	var out audioResponse
	body := audioRequest{
		Audio:      base64.StdEncoding.EncodeToString(audio),
		SampleRate: config.SampleRate,
		Encoding:   config.Encoding,
	}
	if err := h.post(ctx, "/classify/voice", body, &out); err != nil {
		return "", err
	}
	return out.Emotion, nil
}

func (h *HTTPClassifier) post(ctx context.Context, path string, body, out interface{}) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("classifier %s: %s", resp.Status, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("classifier decode: %w", err)
	}
	return nil
}
