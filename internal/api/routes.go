package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/serenica/server/adapters/mongo"
	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/internal/auth"
	"github.com/serenica/server/internal/scoring"
	"github.com/serenica/server/internal/websocket"
	"github.com/serenica/server/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, hub *websocket.Hub, service *usecase.AssessmentService, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "serenica-server",
		})
	})

	h := &handlers{service: service, logger: logger}

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/auth/token", h.issueToken)
	v1.GET("/questions", h.questions)

	v1.POST("/assessments", h.startAssessment)
	v1.GET("/assessments", h.history)
	v1.POST("/assessments/:id/heart-rate", h.attachHeartRate)
	v1.POST("/assessments/:id/submit", h.submit)
	v1.DELETE("/assessments/:id", h.abandon)
	v1.GET("/results/:id", h.result)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

type handlers struct {
	service *usecase.AssessmentService
	logger  *zap.Logger
}

func (h *handlers) issueToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "user_id is required",
		})
	}

	token, err := auth.GenerateUserToken(req.UserID)
	if err != nil {
		h.logger.Error("Failed to generate user token",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token, UserID: req.UserID})
}

func (h *handlers) questions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"questions": scoring.Questions,
	})
}

func (h *handlers) startAssessment(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	session, err := h.service.Start(userID)
	if err != nil {
		h.logger.Error("Failed to start assessment", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "start_failed",
			Message: "Failed to start assessment session",
		})
	}

	return c.JSON(http.StatusCreated, StartAssessmentResponse{SessionID: session.ID})
}

func (h *handlers) attachHeartRate(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	sessionID := c.Param("id")

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_file",
			Message: "A heart-rate CSV file is required",
		})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unreadable_file",
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	result, err := h.service.AttachHeartRate(sessionID, userID, src)
	if errors.Is(err, usecase.ErrSessionNotFound) {
		return sessionNotFound(c)
	}
	if errors.Is(err, usecase.ErrNotOwner) {
		return forbidden(c)
	}
	if err != nil {
		h.logger.Error("Heart-rate ingestion failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "ingestion_failed"})
	}

	// A nil result means the record was unusable; that is not an error, the
	// cardiovascular block is simply absent from the final report.
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cardiovascular": result,
	})
}

func (h *handlers) submit(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	sessionID := c.Param("id")

	var sub usecase.Submission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid submission payload",
		})
	}

	result, err := h.service.Submit(c.Request().Context(), sessionID, userID, sub)
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return sessionNotFound(c)
	case errors.Is(err, usecase.ErrNotOwner):
		return forbidden(c)
	case errors.Is(err, entities.ErrSessionConsumed):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already_submitted",
			Message: "This session has already been submitted",
		})
	case err != nil:
		h.logger.Error("Submission failed, session preserved",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "submission_failed",
			Message: "Failed to process assessment; please retry",
		})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *handlers) abandon(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	sessionID := c.Param("id")

	err = h.service.Abandon(sessionID, userID)
	if errors.Is(err, usecase.ErrSessionNotFound) {
		return sessionNotFound(c)
	}
	if errors.Is(err, usecase.ErrNotOwner) {
		return forbidden(c)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) result(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	result, err := h.service.Result(c.Request().Context(), c.Param("id"))
	if errors.Is(err, mongo.ErrResultNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "result_not_found"})
	}
	if err != nil {
		h.logger.Error("Failed to fetch result", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "fetch_failed"})
	}
	if result.OwnerID != userID {
		return forbidden(c)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handlers) history(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	results, err := h.service.History(c.Request().Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list assessments", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "fetch_failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"assessments": results,
	})
}

// currentUser extracts the authenticated user from the Authorization header.
func currentUser(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) <= 7 || authHeader[:7] != "Bearer " {
		return "", errors.New("missing bearer token")
	}

	claims, err := auth.ValidateToken(authHeader[7:])
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", errors.New("user id not found in token")
	}
	return claims.UserID, nil
}

func unauthorized(c echo.Context, err error) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: err.Error(),
	})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   "forbidden",
		Message: "This session belongs to another user",
	})
}

func sessionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "session_not_found",
		Message: "Session expired or does not exist; start a new assessment",
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	// Browsers cannot set headers on WebSocket upgrades, so the token is
	// accepted from the query string as well.
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}
	if claims.UserID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "User ID not found in token",
		})
	}

	logger.Info("WebSocket connection authenticated", zap.String("user_id", claims.UserID))
	return websocket.HandleWebSocket(hub, c, claims.UserID, logger)
}
