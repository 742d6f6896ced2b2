package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitcoach/business/coaching"
	"fitcoach/domain"
	"fitcoach/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CoachingHandler struct {
		validate        *validator.Validate
		coachingService CoachingService
		timeout         time.Duration
	}

	CoachingService interface {
		RecordEvent(ctx context.Context, event domain.BehaviorEvent) error
		GetCoachSummary(ctx context.Context, userID uint) (domain.UserCoachSummary, error)
		GetCoachInsights(ctx context.Context, userID uint, opts coaching.InsightOptions) []domain.CoachInsight
		AdaptMessage(message string, personality domain.Personality, mode domain.ContextMode) string
		BuildChatPrompt(ctx context.Context, userID uint, mode domain.ContextMode) (string, error)
	}

	RecordEventRequest struct {
		EventType   string         `json:"event_type" validate:"required,oneof=workout_completed suggestion_accepted suggestion_declined feedback_submitted"`
		Topic       string         `json:"topic"`
		ContextMode string         `json:"context_mode" validate:"omitempty,oneof=in_workout post_workout home chat"`
		Payload     map[string]any `json:"payload"`
	}

	InsightsQuery struct {
		N         int  `query:"n"`
		IncludeAI bool `query:"ai"`
	}

	AdaptMessageRequest struct {
		Message     string `json:"message" validate:"required"`
		Personality string `json:"personality" validate:"required,oneof=aggressive disciplined calm friendly"`
		ContextMode string `json:"context_mode" validate:"required,oneof=in_workout post_workout home chat"`
	}

	PromptQuery struct {
		Mode string `query:"mode" validate:"omitempty,oneof=in_workout post_workout home chat"`
	}
)

func NewCoachingHandler(svc CoachingService) *CoachingHandler {
	return &CoachingHandler{
		validate:        validator.New(),
		coachingService: svc,
		timeout:         10 * time.Second,
	}
}

// POST /api/v1/coach/events
func (h *CoachingHandler) RecordEvent(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecordEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	event := domain.BehaviorEvent{
		UserID:      userID,
		EventType:   req.EventType,
		Topic:       req.Topic,
		ContextMode: req.ContextMode,
		Payload:     req.Payload,
	}

	if err := h.coachingService.RecordEvent(c.Request().Context(), event); err != nil {
		if errors.Is(err, coaching.ErrValidation) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to record behavior event", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to record event"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("event recorded"))
}

// GET /api/v1/coach/summary
func (h *CoachingHandler) GetSummary(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.coachingService.GetCoachSummary(ctx, userID)
	if err != nil {
		logger.Error("Failed to build coach summary", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to build summary"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

// GET /api/v1/coach/insights?n=3&ai=true
func (h *CoachingHandler) GetInsights(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q InsightsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	insights := h.coachingService.GetCoachInsights(ctx, userID, coaching.InsightOptions{
		Count:     q.N,
		IncludeAI: q.IncludeAI,
	})

	return c.JSON(http.StatusOK, fres.Response.StatusOK(insights))
}

// POST /api/v1/coach/adapt
func (h *CoachingHandler) AdaptMessage(c echo.Context) error {
	if _, ok := c.Get("user_id").(uint); !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AdaptMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	adapted := h.coachingService.AdaptMessage(
		req.Message,
		domain.Personality(req.Personality),
		domain.ContextMode(req.ContextMode),
	)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"message": adapted}))
}

// GET /api/v1/coach/prompt?mode=chat
func (h *CoachingHandler) GetPrompt(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q PromptQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	mode := domain.ContextMode(q.Mode)
	if q.Mode == "" {
		mode = domain.ModeChat
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prompt, err := h.coachingService.BuildChatPrompt(ctx, userID, mode)
	if err != nil {
		logger.Error("Failed to build chat prompt", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to build prompt"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"system_prompt": prompt}))
}
