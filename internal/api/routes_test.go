package api

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/serenica/server/adapters/memory"
	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/internal/auth"
	"github.com/serenica/server/internal/websocket"
	"github.com/serenica/server/usecase"
)

type stubResultRepo struct{}

func (stubResultRepo) Create(ctx context.Context, result *entities.AssessmentResult) error {
	return nil
}

func (stubResultRepo) GetByID(ctx context.Context, id string) (*entities.AssessmentResult, error) {
	return nil, errors.New("not found")
}

func (stubResultRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.AssessmentResult, error) {
	return nil, nil
}

type neutralSentiment struct{}

func (neutralSentiment) Analyze(ctx context.Context, text string) (entities.SentimentScore, error) {
	return entities.SentimentScore{}, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *memory.SessionStore, *usecase.AssessmentService) {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewSessionStore(30*time.Minute, logger)
	service := usecase.NewAssessmentService(store, stubResultRepo{}, neutralSentiment{}, logger)
	hub := websocket.NewHub(store, nil, nil, neutralSentiment{}, nil, logger)

	e := echo.New()
	InitRoutes(e, hub, service, logger)
	return e, store, service
}

func doRequest(e *echo.Echo, method, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		token, _ := auth.GenerateUserToken(userID)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAbandonRequiresOwnership(t *testing.T) {
	e, store, service := newTestServer(t)

	// The victim's user id makes the session id start with "alice_"; a token
	// for plain "alice" must still be rejected.
	victim, err := service.Start("alice_bob")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	rec := doRequest(e, http.MethodDelete, "/api/v1/assessments/"+victim.ID, "alice")
	if rec.Code != http.StatusForbidden {
		t.Errorf("Non-owner delete: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if _, ok := store.Get(victim.ID); !ok {
		t.Fatal("Victim session must survive a non-owner delete")
	}

	rec = doRequest(e, http.MethodDelete, "/api/v1/assessments/"+victim.ID, "alice_bob")
	if rec.Code != http.StatusNoContent {
		t.Errorf("Owner delete: status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, ok := store.Get(victim.ID); ok {
		t.Error("Owner delete should remove the session")
	}
}

func TestSubmitRequiresOwnership(t *testing.T) {
	e, store, service := newTestServer(t)
	victim, _ := service.Start("alice_bob")

	rec := doRequest(e, http.MethodPost, "/api/v1/assessments/"+victim.ID+"/submit", "alice")
	if rec.Code != http.StatusForbidden {
		t.Errorf("Non-owner submit: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if _, ok := store.Get(victim.ID); !ok {
		t.Error("Victim session must survive a non-owner submit")
	}
	if victim.Status() != entities.SessionStatusActive {
		t.Error("Non-owner submit must not consume the session")
	}
}

func TestHeartRateRequiresOwnership(t *testing.T) {
	e, _, service := newTestServer(t)
	victim, _ := service.Start("alice_bob")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "hr.csv")
	part.Write([]byte("heart_rate\n70\n72\n"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/"+victim.ID+"/heart-rate", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	token, _ := auth.GenerateUserToken("alice")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Non-owner upload: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if victim.Cardio() != nil {
		t.Error("Non-owner upload must not attach a cardio result")
	}
}

func TestSessionRoutesRequireToken(t *testing.T) {
	e, _, service := newTestServer(t)
	session, _ := service.Start("alice")

	rec := doRequest(e, http.MethodDelete, "/api/v1/assessments/"+session.ID, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Missing token: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
